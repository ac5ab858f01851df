package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"tiendapos/internal/apierror"
	"tiendapos/internal/auth"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventarioService moves product units between the warehouse, the areas,
// sales and adjustments. Every mutating operation runs in one unit of work.
type InventarioService interface {
	RecibirStock(ctx context.Context, quien auth.Identidad, req dto.RecibirStockRequest) (*dto.EntradaResponse, error)
	EliminarEntrada(ctx context.Context, quien auth.Identidad, id uuid.UUID) error
	MoverAArea(ctx context.Context, quien auth.Identidad, req dto.MoverAAreaRequest) (*dto.SalidaResponse, error)
	RevertirSalida(ctx context.Context, quien auth.Identidad, id uuid.UUID) error
	Vender(ctx context.Context, quien auth.Identidad, req dto.VenderRequest) (*dto.VentaResponse, error)
	RevertirVenta(ctx context.Context, quien auth.Identidad, id uuid.UUID) error
	Transferir(ctx context.Context, quien auth.Identidad, req dto.TransferirRequest) (*dto.TransferenciaResponse, error)
	RevertirTransferencia(ctx context.Context, quien auth.Identidad, id uuid.UUID) error
	AjustarInventario(ctx context.Context, quien auth.Identidad, req dto.AjustarInventarioRequest) (*dto.AjusteResponse, error)
	RevertirAjuste(ctx context.Context, quien auth.Identidad, id uuid.UUID) error
	ResumenStock(ctx context.Context, quien auth.Identidad, productoID *uuid.UUID) ([]dto.ResumenStock, error)
	ListarUnidades(ctx context.Context, quien auth.Identidad, filter dto.UnidadFilter) (*dto.UnidadListResponse, error)
}

type inventarioService struct {
	uow       repository.UnitOfWork
	productos repository.ProductoRepository
	areas     repository.AreaRepository
	unidades  repository.UnidadRepository
	docs      repository.InventarioRepository
	libro     Libro
}

func NewInventarioService(
	uow repository.UnitOfWork,
	productos repository.ProductoRepository,
	areas repository.AreaRepository,
	unidades repository.UnidadRepository,
	docs repository.InventarioRepository,
	libro Libro,
) InventarioService {
	return &inventarioService{
		uow:       uow,
		productos: productos,
		areas:     areas,
		unidades:  unidades,
		docs:      docs,
		libro:     libro,
	}
}

// ── Entradas ──────────────────────────────────────────────────────────────────

type grupoVariante struct {
	color, talla *string
	cantidad     int
}

func (s *inventarioService) RecibirStock(ctx context.Context, quien auth.Identidad, req dto.RecibirStockRequest) (*dto.EntradaResponse, error) {
	if err := auth.Autorizar(quien, auth.OpRecibirStock); err != nil {
		return nil, err
	}

	// 1. Exactly one of cantidad / variantes
	if (req.Cantidad > 0) == (len(req.Variantes) > 0) {
		return nil, apierror.Validacion("indique una cantidad o una lista de variantes, no ambas ni ninguna")
	}
	var grupos []grupoVariante
	total := req.Cantidad
	if req.Cantidad > 0 {
		grupos = []grupoVariante{{cantidad: req.Cantidad}}
	} else {
		total = 0
		for _, v := range req.Variantes {
			if v.Cantidad <= 0 {
				return nil, apierror.Validacion("la cantidad de cada variante debe ser mayor que cero")
			}
			grupos = append(grupos, grupoVariante{color: v.Color, talla: v.Talla, cantidad: v.Cantidad})
			total += v.Cantidad
		}
	}

	p, err := s.productoActivo(ctx, req.ProductoInfoID)
	if err != nil {
		return nil, err
	}

	entrada := &model.EntradaAlmacen{
		ID:             uuid.New(),
		ProductoInfoID: p.ID,
		UsuarioID:      quien.UsuarioID,
		MetodoPago:     req.MetodoPago,
		Proveedor:      strings.TrimSpace(req.Proveedor),
		Comprador:      strings.TrimSpace(req.Comprador),
		Cantidad:       total,
	}
	var respGrupos []dto.GrupoUnidades

	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		// 2. Pay the purchase from the account, if one was given
		if req.CuentaID != nil {
			t, err := s.libro.ExtraerTx(tx, MovimientoCuenta{
				CuentaID:    *req.CuentaID,
				Monto:       p.PrecioCosto.Mul(decimal.NewFromInt(int64(total))),
				Descripcion: fmt.Sprintf("Compra %s x%d a %s", p.Codigo, total, entrada.Proveedor),
				UsuarioID:   quien.UsuarioID,
				EntradaID:   &entrada.ID,
			})
			if err != nil {
				return err
			}
			entrada.CuentaID = req.CuentaID
			entrada.TransaccionID = &t.ID
		}
		if err := s.docs.CrearEntradaTx(tx, entrada); err != nil {
			return err
		}

		// 3. Create the units, variant by variant, so each group gets its own ID run
		unidades := make([]model.ProductoUnidad, 0, total)
		for _, g := range grupos {
			for i := 0; i < g.cantidad; i++ {
				unidades = append(unidades, model.ProductoUnidad{
					ProductoInfoID: p.ID,
					EntradaID:      entrada.ID,
					Color:          g.color,
					Talla:          g.talla,
					Estado:         model.EstadoAlmacen,
				})
			}
		}
		if err := s.unidades.CrearTx(tx, unidades); err != nil {
			return err
		}

		respGrupos = make([]dto.GrupoUnidades, 0, len(grupos))
		ini := 0
		for _, g := range grupos {
			ids := make([]uint64, g.cantidad)
			for i := range ids {
				ids[i] = unidades[ini+i].ID
			}
			ini += g.cantidad
			respGrupos = append(respGrupos, dto.GrupoUnidades{
				Color:    g.color,
				Talla:    g.talla,
				Cantidad: g.cantidad,
				Rango:    ComprimirRangos(ids),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("entrada_id", entrada.ID.String()).
		Str("producto", p.Codigo).
		Int("cantidad", total).
		Msg("stock recibido")

	return &dto.EntradaResponse{
		ID:             entrada.ID,
		ProductoInfoID: p.ID,
		MetodoPago:     entrada.MetodoPago,
		Proveedor:      entrada.Proveedor,
		Comprador:      entrada.Comprador,
		Cantidad:       total,
		Unidades:       respGrupos,
		TransaccionID:  entrada.TransaccionID,
		CreatedAt:      entrada.CreatedAt,
	}, nil
}

// EliminarEntrada deletes an entry and its units. Every unit must still be in
// the principal warehouse; the purchase withdrawal, if any, is reverted.
func (s *inventarioService) EliminarEntrada(ctx context.Context, quien auth.Identidad, id uuid.UUID) error {
	if err := auth.Autorizar(quien, auth.OpEliminarEntrada); err != nil {
		return err
	}
	return s.uow.Do(ctx, func(tx *gorm.DB) error {
		e, err := s.docs.EntradaTx(tx, id)
		if err != nil {
			return err
		}
		us, err := s.unidades.PorEntradaTx(tx, id)
		if err != nil {
			return err
		}
		for _, u := range us {
			if u.Estado != model.EstadoAlmacen {
				return apierror.Conflicto("la unidad %d ya no esta en el almacen (%s); revierta sus movimientos primero", u.ID, u.Ubicacion())
			}
		}
		if e.TransaccionID != nil {
			if err := s.libro.RevertirTransaccionTx(tx, *e.TransaccionID); err != nil {
				return err
			}
		}
		if err := s.unidades.EliminarPorEntradaTx(tx, id); err != nil {
			return err
		}
		return s.docs.EliminarEntradaTx(tx, id)
	})
}

// ── Salidas a area ────────────────────────────────────────────────────────────

func (s *inventarioService) MoverAArea(ctx context.Context, quien auth.Identidad, req dto.MoverAAreaRequest) (*dto.SalidaResponse, error) {
	if err := auth.Autorizar(quien, auth.OpMoverAArea); err != nil {
		return nil, err
	}
	if _, err := cantidadSolicitada(req.Selector); err != nil {
		return nil, err
	}
	area, err := s.areaDeUnidades(ctx, req.AreaID)
	if err != nil {
		return nil, err
	}
	if _, err := s.productos.FindByID(ctx, req.ProductoInfoID); err != nil {
		return nil, err
	}

	salida := &model.SalidaAlmacen{
		ID:             uuid.New(),
		ProductoInfoID: req.ProductoInfoID,
		AreaID:         area.ID,
		UsuarioID:      quien.UsuarioID,
	}
	var ids []uint64
	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		us, err := s.seleccionar(tx, req.ProductoInfoID, model.EnAlmacen(), req.Selector, nil)
		if err != nil {
			return err
		}
		salida.Cantidad = len(us)
		if err := s.docs.CrearSalidaTx(tx, salida); err != nil {
			return err
		}
		ids, err = s.mover(tx, us, model.MovSalida, salida.ID, model.EnArea(area.ID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.SalidaResponse{
		ID:             salida.ID,
		ProductoInfoID: salida.ProductoInfoID,
		AreaID:         salida.AreaID,
		Cantidad:       salida.Cantidad,
		UnidadIDs:      ids,
		CreatedAt:      salida.CreatedAt,
	}, nil
}

func (s *inventarioService) RevertirSalida(ctx context.Context, quien auth.Identidad, id uuid.UUID) error {
	if err := auth.Autorizar(quien, auth.OpRevertirSalida); err != nil {
		return err
	}
	return s.uow.Do(ctx, func(tx *gorm.DB) error {
		sal, err := s.docs.SalidaTx(tx, id)
		if err != nil {
			return err
		}
		if err := s.revertir(tx, sal.ID, model.EnArea(sal.AreaID), sal.Cantidad); err != nil {
			return err
		}
		return s.docs.EliminarSalidaTx(tx, sal.ID)
	})
}

// ── Ventas ────────────────────────────────────────────────────────────────────

func (s *inventarioService) Vender(ctx context.Context, quien auth.Identidad, req dto.VenderRequest) (*dto.VentaResponse, error) {
	if err := auth.Autorizar(quien, auth.OpVender); err != nil {
		return nil, err
	}
	if err := auth.AutorizarArea(quien, req.AreaID); err != nil {
		return nil, err
	}
	n, err := cantidadSolicitada(req.Selector)
	if err != nil {
		return nil, err
	}
	area, err := s.areaDeUnidades(ctx, req.AreaID)
	if err != nil {
		return nil, err
	}
	p, err := s.productoActivo(ctx, req.ProductoInfoID)
	if err != nil {
		return nil, err
	}

	// Selection returns exactly n units or fails, so the total is known here.
	total := p.PrecioVenta.Mul(decimal.NewFromInt(int64(n)))
	pg, err := resolverPago(req.MetodoPago, total, req.Efectivo, req.Transferencia, req.CuentaID)
	if err != nil {
		return nil, err
	}

	venta := &model.Venta{
		ID:             uuid.New(),
		ProductoInfoID: p.ID,
		AreaID:         area.ID,
		UsuarioID:      quien.UsuarioID,
		MetodoPago:     req.MetodoPago,
		Cantidad:       n,
		Efectivo:       pg.efectivo,
		Transferencia:  pg.transferencia,
		CuentaID:       pg.cuentaID,
	}
	var ids []uint64
	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		us, err := s.seleccionar(tx, p.ID, model.EnArea(area.ID), req.Selector, nil)
		if err != nil {
			return err
		}
		if pg.transferencia.IsPositive() {
			t, err := s.libro.DepositarTx(tx, MovimientoCuenta{
				CuentaID:    *pg.cuentaID,
				Monto:       pg.transferencia,
				Descripcion: fmt.Sprintf("Venta %s x%d", p.Codigo, n),
				UsuarioID:   quien.UsuarioID,
				VentaID:     &venta.ID,
			})
			if err != nil {
				return err
			}
			venta.TransaccionID = &t.ID
		}
		if err := s.docs.CrearVentaTx(tx, venta); err != nil {
			return err
		}
		ids, err = s.mover(tx, us, model.MovVenta, venta.ID, model.Vendida(venta.ID))
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("venta_id", venta.ID.String()).
		Str("producto", p.Codigo).
		Int("cantidad", n).
		Str("total", total.StringFixed(2)).
		Msg("venta registrada")

	return &dto.VentaResponse{
		ID:             venta.ID,
		ProductoInfoID: venta.ProductoInfoID,
		AreaID:         venta.AreaID,
		MetodoPago:     venta.MetodoPago,
		Cantidad:       n,
		Total:          total,
		Efectivo:       venta.Efectivo,
		Transferencia:  venta.Transferencia,
		TransaccionID:  venta.TransaccionID,
		UnidadIDs:      ids,
		CreatedAt:      venta.CreatedAt,
	}, nil
}

// RevertirVenta puts the sold units back in their area and reverts the bank
// deposit. If the deposit was already spent the whole reversal fails.
func (s *inventarioService) RevertirVenta(ctx context.Context, quien auth.Identidad, id uuid.UUID) error {
	if err := auth.Autorizar(quien, auth.OpRevertirVenta); err != nil {
		return err
	}
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		v, err := s.docs.VentaTx(tx, id)
		if err != nil {
			return err
		}
		if err := auth.AutorizarArea(quien, v.AreaID); err != nil {
			return err
		}
		if err := s.revertir(tx, v.ID, model.Vendida(v.ID), v.Cantidad); err != nil {
			return err
		}
		if v.TransaccionID != nil {
			if err := s.libro.RevertirTransaccionTx(tx, *v.TransaccionID); err != nil {
				return err
			}
		}
		return s.docs.EliminarVentaTx(tx, v.ID)
	})
	if err != nil {
		return err
	}
	log.Info().Str("venta_id", id.String()).Msg("venta revertida")
	return nil
}

// ── Transferencias ────────────────────────────────────────────────────────────

func (s *inventarioService) Transferir(ctx context.Context, quien auth.Identidad, req dto.TransferirRequest) (*dto.TransferenciaResponse, error) {
	if err := auth.Autorizar(quien, auth.OpTransferir); err != nil {
		return nil, err
	}
	if req.DesdeAreaID == req.HaciaAreaID {
		return nil, apierror.Validacion("el area de origen y la de destino deben ser distintas")
	}
	if _, err := cantidadSolicitada(req.Selector); err != nil {
		return nil, err
	}
	if _, err := s.areaDeUnidades(ctx, req.DesdeAreaID); err != nil {
		return nil, err
	}
	hacia, err := s.areaDeUnidades(ctx, req.HaciaAreaID)
	if err != nil {
		return nil, err
	}
	if _, err := s.productos.FindByID(ctx, req.ProductoInfoID); err != nil {
		return nil, err
	}

	t := &model.Transferencia{
		ID:             uuid.New(),
		ProductoInfoID: req.ProductoInfoID,
		DesdeAreaID:    req.DesdeAreaID,
		HaciaAreaID:    hacia.ID,
		UsuarioID:      quien.UsuarioID,
	}
	var ids []uint64
	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		us, err := s.seleccionar(tx, req.ProductoInfoID, model.EnArea(req.DesdeAreaID), req.Selector, nil)
		if err != nil {
			return err
		}
		t.Cantidad = len(us)
		if err := s.docs.CrearTransferenciaTx(tx, t); err != nil {
			return err
		}
		ids, err = s.mover(tx, us, model.MovTransferencia, t.ID, model.EnArea(hacia.ID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.TransferenciaResponse{
		ID:             t.ID,
		ProductoInfoID: t.ProductoInfoID,
		DesdeAreaID:    t.DesdeAreaID,
		HaciaAreaID:    t.HaciaAreaID,
		Cantidad:       t.Cantidad,
		UnidadIDs:      ids,
		CreatedAt:      t.CreatedAt,
	}, nil
}

func (s *inventarioService) RevertirTransferencia(ctx context.Context, quien auth.Identidad, id uuid.UUID) error {
	if err := auth.Autorizar(quien, auth.OpRevertirTransferencia); err != nil {
		return err
	}
	return s.uow.Do(ctx, func(tx *gorm.DB) error {
		t, err := s.docs.TransferenciaTx(tx, id)
		if err != nil {
			return err
		}
		if err := s.revertir(tx, t.ID, model.EnArea(t.HaciaAreaID), t.Cantidad); err != nil {
			return err
		}
		return s.docs.EliminarTransferenciaTx(tx, t.ID)
	})
}

// ── Ajustes ───────────────────────────────────────────────────────────────────

func (s *inventarioService) AjustarInventario(ctx context.Context, quien auth.Identidad, req dto.AjustarInventarioRequest) (*dto.AjusteResponse, error) {
	if err := auth.Autorizar(quien, auth.OpAjustarInventario); err != nil {
		return nil, err
	}
	motivo := strings.TrimSpace(req.Motivo)
	if motivo == "" {
		return nil, apierror.Validacion("el motivo del ajuste es obligatorio")
	}
	if len(req.Items) == 0 {
		return nil, apierror.Validacion("el ajuste no tiene items")
	}
	pools := make([]model.Ubicacion, len(req.Items))
	for i, it := range req.Items {
		if _, err := cantidadSolicitada(it.Selector); err != nil {
			return nil, err
		}
		switch it.Origen {
		case model.OrigenAlmacen:
			pools[i] = model.EnAlmacen()
		case model.OrigenArea:
			if it.AreaID == nil {
				return nil, apierror.Validacion("el item %d requiere area_id", i+1)
			}
			if _, err := s.areaDeUnidades(ctx, *it.AreaID); err != nil {
				return nil, err
			}
			pools[i] = model.EnArea(*it.AreaID)
		default:
			return nil, apierror.Validacion("origen %q invalido en el item %d", it.Origen, i+1)
		}
		if _, err := s.productos.FindByID(ctx, it.ProductoInfoID); err != nil {
			return nil, err
		}
	}

	ajuste := &model.AjusteInventario{ID: uuid.New(), Motivo: motivo, UsuarioID: quien.UsuarioID}
	resp := &dto.AjusteResponse{ID: ajuste.ID, Motivo: motivo}

	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var todas []model.ProductoUnidad
		var elegidas []uint64
		for i, it := range req.Items {
			// Units picked by an earlier item of the same batch are not available again.
			us, err := s.seleccionar(tx, it.ProductoInfoID, pools[i], it.Selector, elegidas)
			if err != nil {
				return fmt.Errorf("item %d: %w", i+1, err)
			}
			ids := idsDe(us)
			elegidas = append(elegidas, ids...)
			todas = append(todas, us...)

			item := model.AjusteItem{ProductoInfoID: it.ProductoInfoID, Origen: it.Origen, Cantidad: len(us)}
			if it.Origen == model.OrigenArea {
				item.AreaID = it.AreaID
			}
			ajuste.Items = append(ajuste.Items, item)
			resp.Items = append(resp.Items, dto.AjusteItemResponse{
				ProductoInfoID: item.ProductoInfoID,
				Origen:         item.Origen,
				AreaID:         item.AreaID,
				UnidadIDs:      ids,
			})
		}
		if err := s.docs.CrearAjusteTx(tx, ajuste); err != nil {
			return err
		}
		_, err := s.mover(tx, todas, model.MovAjuste, ajuste.ID, model.Ajustada(ajuste.ID))
		return err
	})
	if err != nil {
		return nil, err
	}
	resp.CreatedAt = ajuste.CreatedAt

	log.Info().
		Str("ajuste_id", ajuste.ID.String()).
		Int("items", len(ajuste.Items)).
		Str("motivo", motivo).
		Msg("ajuste de inventario")
	return resp, nil
}

func (s *inventarioService) RevertirAjuste(ctx context.Context, quien auth.Identidad, id uuid.UUID) error {
	if err := auth.Autorizar(quien, auth.OpRevertirAjuste); err != nil {
		return err
	}
	return s.uow.Do(ctx, func(tx *gorm.DB) error {
		a, err := s.docs.AjusteTx(tx, id)
		if err != nil {
			return err
		}
		n := 0
		for _, it := range a.Items {
			n += it.Cantidad
		}
		if err := s.revertir(tx, a.ID, model.Ajustada(a.ID), n); err != nil {
			return err
		}
		return s.docs.EliminarAjusteTx(tx, a.ID)
	})
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *inventarioService) ResumenStock(ctx context.Context, quien auth.Identidad, productoID *uuid.UUID) ([]dto.ResumenStock, error) {
	if err := auth.Autorizar(quien, auth.OpConsultarInventario); err != nil {
		return nil, err
	}
	filas, err := s.unidades.Conteo(ctx, productoID)
	if err != nil {
		return nil, err
	}

	resumen := map[uuid.UUID]*dto.ResumenStock{}
	porArea := map[uuid.UUID]map[uuid.UUID]int{}
	var ids []uuid.UUID
	for _, f := range filas {
		r, ok := resumen[f.ProductoInfoID]
		if !ok {
			r = &dto.ResumenStock{ProductoInfoID: f.ProductoInfoID, Areas: []dto.ConteoArea{}}
			resumen[f.ProductoInfoID] = r
			porArea[f.ProductoInfoID] = map[uuid.UUID]int{}
			ids = append(ids, f.ProductoInfoID)
		}
		switch f.Estado {
		case model.EstadoAlmacen:
			r.Almacen += f.Cantidad
		case model.EstadoArea:
			if f.AreaID != nil {
				porArea[f.ProductoInfoID][*f.AreaID] += f.Cantidad
			}
		case model.EstadoVendida:
			r.Vendidas += f.Cantidad
		case model.EstadoAjustada:
			r.Ajustadas += f.Cantidad
		}
	}

	productos, err := s.productos.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ResumenStock, 0, len(productos))
	for _, p := range productos {
		r := resumen[p.ID]
		r.Codigo = p.Codigo
		r.Descripcion = p.Descripcion
		for areaID, n := range porArea[p.ID] {
			r.Areas = append(r.Areas, dto.ConteoArea{AreaID: areaID, Cantidad: n})
		}
		sort.Slice(r.Areas, func(i, j int) bool { return r.Areas[i].AreaID.String() < r.Areas[j].AreaID.String() })
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

func (s *inventarioService) ListarUnidades(ctx context.Context, quien auth.Identidad, filter dto.UnidadFilter) (*dto.UnidadListResponse, error) {
	if err := auth.Autorizar(quien, auth.OpConsultarInventario); err != nil {
		return nil, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	us, total, err := s.unidades.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.UnidadResponse, len(us))
	for i, u := range us {
		data[i] = dto.UnidadResponse{
			ID:             u.ID,
			ProductoInfoID: u.ProductoInfoID,
			Color:          u.Color,
			Talla:          u.Talla,
			Estado:         string(u.Estado),
			AreaID:         u.AreaID,
			DocumentoID:    u.DocumentoID,
		}
	}
	return &dto.UnidadListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *inventarioService) productoActivo(ctx context.Context, id uuid.UUID) (*model.ProductoInfo, error) {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Activo {
		return nil, apierror.Validacion("el producto %s esta inactivo", p.Codigo)
	}
	return p, nil
}

// areaDeUnidades loads an active area that can hold product units. The
// cafeteria keeps quantities, not units.
func (s *inventarioService) areaDeUnidades(ctx context.Context, id uuid.UUID) (*model.Area, error) {
	a, err := s.areas.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Activo {
		return nil, apierror.Validacion("el area %s esta inactiva", a.Nombre)
	}
	if a.Tipo == model.AreaCafeteria {
		return nil, apierror.Validacion("el area %s es de cafeteria y no maneja unidades", a.Nombre)
	}
	return a, nil
}

// cantidadSolicitada validates the selector shape and returns how many units
// it asks for.
func cantidadSolicitada(sel dto.Selector) (int, error) {
	porIDs := len(sel.UnidadIDs) > 0
	if porIDs == (sel.Cantidad > 0) {
		return 0, apierror.Validacion("indique unidad_ids o cantidad, no ambos ni ninguno")
	}
	if !porIDs {
		return sel.Cantidad, nil
	}
	ids := slices.Clone(sel.UnidadIDs)
	slices.Sort(ids)
	if len(slices.Compact(ids)) != len(sel.UnidadIDs) {
		return 0, apierror.Validacion("unidad_ids contiene ids repetidos")
	}
	return len(ids), nil
}

// seleccionar resolves sel against pool and returns the locked units. For an
// explicit ID list every ID is checked before anything is returned: unknown
// IDs first, then the SKU, then availability.
func (s *inventarioService) seleccionar(tx *gorm.DB, productoID uuid.UUID, pool model.Ubicacion, sel dto.Selector, excluir []uint64) ([]model.ProductoUnidad, error) {
	n, err := cantidadSolicitada(sel)
	if err != nil {
		return nil, err
	}

	if len(sel.UnidadIDs) == 0 {
		us, err := s.unidades.SeleccionarTx(tx, productoID, pool, n, excluir)
		if err != nil {
			return nil, err
		}
		if len(us) < n {
			return nil, apierror.StockInsuficiente("stock insuficiente en %s: se pidieron %d unidades y hay %d disponibles",
				describirPool(pool), n, len(us))
		}
		return us, nil
	}

	us, err := s.unidades.BuscarTx(tx, sel.UnidadIDs)
	if err != nil {
		return nil, err
	}
	if len(us) != n {
		encontradas := idsDe(us)
		for _, id := range sel.UnidadIDs {
			if !slices.Contains(encontradas, id) {
				return nil, apierror.NoEncontrado("unidad %d no encontrada", id)
			}
		}
	}
	for _, u := range us {
		if u.ProductoInfoID != productoID {
			return nil, apierror.Validacion("la unidad %d no pertenece al producto indicado", u.ID)
		}
	}
	for _, u := range us {
		if slices.Contains(excluir, u.ID) {
			return nil, apierror.StockInsuficiente("la unidad %d ya fue elegida en este ajuste", u.ID)
		}
		if u.Ubicacion() != pool {
			return nil, apierror.StockInsuficiente("la unidad %d no esta disponible en %s (esta en %s)",
				u.ID, describirPool(pool), u.Ubicacion())
		}
	}
	return us, nil
}

// mover records where each unit was and relocates the units to destino.
func (s *inventarioService) mover(tx *gorm.DB, us []model.ProductoUnidad, tipo model.TipoMovimiento, documentoID uuid.UUID, destino model.Ubicacion) ([]uint64, error) {
	movs := make([]model.MovimientoUnidad, len(us))
	for i, u := range us {
		movs[i] = model.NuevoMovimiento(tipo, documentoID, u)
	}
	if err := s.unidades.RegistrarMovimientosTx(tx, movs); err != nil {
		return nil, err
	}
	ids := idsDe(us)
	if err := s.unidades.MoverTx(tx, ids, destino, documentoID); err != nil {
		return nil, err
	}
	return ids, nil
}

// revertir restores the units moved by a document. Each unit must still be
// where the document left it; otherwise the reversal would lose a later
// movement and fails with Conflicto.
func (s *inventarioService) revertir(tx *gorm.DB, documentoID uuid.UUID, esperado model.Ubicacion, cantidad int) error {
	movs, err := s.unidades.MovimientosTx(tx, documentoID)
	if err != nil {
		return err
	}
	if len(movs) != cantidad {
		return apierror.Conflicto("el documento movio %d unidades pero tiene %d registradas", cantidad, len(movs))
	}
	ids := make([]uint64, len(movs))
	for i, m := range movs {
		ids[i] = m.UnidadID
	}
	us, err := s.unidades.BuscarTx(tx, ids)
	if err != nil {
		return err
	}
	if len(us) != len(movs) {
		return apierror.Conflicto("algunas unidades del documento ya no existen")
	}
	for _, u := range us {
		if u.DocumentoID == nil || *u.DocumentoID != documentoID || u.Ubicacion() != esperado {
			return apierror.Conflicto("la unidad %d ya no esta en %s (esta en %s); no se puede revertir",
				u.ID, describirPool(esperado), u.Ubicacion())
		}
	}
	if err := s.unidades.RestaurarTx(tx, movs); err != nil {
		return err
	}
	return s.unidades.EliminarMovimientosTx(tx, documentoID)
}

func describirPool(u model.Ubicacion) string {
	switch u.Estado {
	case model.EstadoAlmacen:
		return "el almacen"
	case model.EstadoArea:
		return "el area " + u.Ref.String()
	default:
		return u.String()
	}
}

func idsDe(us []model.ProductoUnidad) []uint64 {
	ids := make([]uint64, len(us))
	for i, u := range us {
		ids[i] = u.ID
	}
	return ids
}

// ComprimirRangos renders unit IDs as compact ranges: "7", "7-12" or
// "3-5,9,11-12".
func ComprimirRangos(ids []uint64) string {
	if len(ids) == 0 {
		return ""
	}
	ord := slices.Clone(ids)
	slices.Sort(ord)
	ord = slices.Compact(ord)

	var b strings.Builder
	ini, fin := ord[0], ord[0]
	flush := func() {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		if ini == fin {
			fmt.Fprintf(&b, "%d", ini)
		} else {
			fmt.Fprintf(&b, "%d-%d", ini, fin)
		}
	}
	for _, id := range ord[1:] {
		if id == fin+1 {
			fin = id
			continue
		}
		flush()
		ini, fin = id, id
	}
	flush()
	return b.String()
}

// ── Pagos ─────────────────────────────────────────────────────────────────────

type pago struct {
	efectivo      decimal.Decimal
	transferencia decimal.Decimal
	cuentaID      *uuid.UUID
}

// resolverPago splits total by payment method. Mixed payments must add up
// to the total exactly; any transfer part needs a destination account.
func resolverPago(metodo string, total decimal.Decimal, efectivo, transferencia *decimal.Decimal, cuentaID *uuid.UUID) (pago, error) {
	switch metodo {
	case model.PagoEfectivo:
		return pago{efectivo: total, transferencia: decimal.Zero}, nil
	case model.PagoTransferencia:
		if cuentaID == nil {
			return pago{}, apierror.Validacion("el pago por transferencia requiere cuenta_id")
		}
		return pago{efectivo: decimal.Zero, transferencia: total, cuentaID: cuentaID}, nil
	case model.PagoMixto:
		if efectivo == nil || transferencia == nil {
			return pago{}, apierror.Validacion("el pago mixto requiere efectivo y transferencia")
		}
		if efectivo.IsNegative() || transferencia.IsNegative() {
			return pago{}, apierror.Validacion("los montos del pago mixto no pueden ser negativos")
		}
		if suma := efectivo.Add(*transferencia); !suma.Equal(total) {
			return pago{}, apierror.Validacion("efectivo + transferencia (%s) debe ser igual al total (%s)",
				suma.StringFixed(2), total.StringFixed(2))
		}
		p := pago{efectivo: *efectivo, transferencia: *transferencia}
		if transferencia.IsPositive() {
			if cuentaID == nil {
				return pago{}, apierror.Validacion("el pago mixto con transferencia requiere cuenta_id")
			}
			p.cuentaID = cuentaID
		}
		return p, nil
	default:
		return pago{}, apierror.Validacion("metodo de pago %q desconocido", metodo)
	}
}
