package service

import (
	"context"
	"fmt"
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

// CafeteriaService runs the cafeteria: quantity-tracked inputs held in a
// warehouse pool and a counter pool, recipes, and counter sales.
type CafeteriaService interface {
	CrearProducto(ctx context.Context, quien auth.Identidad, req dto.CrearProductoCafeteriaRequest) (*dto.ProductoCafeteriaResponse, error)
	ListarProductos(ctx context.Context, quien auth.Identidad) ([]dto.ProductoCafeteriaResponse, error)
	RecibirProducto(ctx context.Context, quien auth.Identidad, req dto.RecibirCafeteriaRequest) (*dto.ProductoCafeteriaResponse, error)
	MoverAArea(ctx context.Context, quien auth.Identidad, req dto.MoverCafeteriaRequest) (*dto.ProductoCafeteriaResponse, error)
	CrearElaboracion(ctx context.Context, quien auth.Identidad, req dto.CrearElaboracionRequest) (*dto.ElaboracionResponse, error)
	ListarElaboraciones(ctx context.Context, quien auth.Identidad) ([]dto.ElaboracionResponse, error)
	Vender(ctx context.Context, quien auth.Identidad, req dto.VenderCafeteriaRequest) (*dto.VentaCafeteriaResponse, error)
	RevertirVenta(ctx context.Context, quien auth.Identidad, id uuid.UUID) error
}

type cafeteriaService struct {
	uow   repository.UnitOfWork
	caf   repository.CafeteriaRepository
	libro Libro
}

func NewCafeteriaService(uow repository.UnitOfWork, caf repository.CafeteriaRepository, libro Libro) CafeteriaService {
	return &cafeteriaService{uow: uow, caf: caf, libro: libro}
}

// ── Productos ─────────────────────────────────────────────────────────────────

func (s *cafeteriaService) CrearProducto(ctx context.Context, quien auth.Identidad, req dto.CrearProductoCafeteriaRequest) (*dto.ProductoCafeteriaResponse, error) {
	if err := auth.Autorizar(quien, auth.OpGestionarCafeteria); err != nil {
		return nil, err
	}
	if !req.PrecioCosto.IsPositive() {
		return nil, apierror.Validacion("precio_costo debe ser mayor que cero")
	}
	if req.PrecioVenta.IsNegative() {
		return nil, apierror.Validacion("precio_venta no puede ser negativo")
	}
	p := &model.ProductoCafeteria{
		Nombre:          strings.TrimSpace(req.Nombre),
		Unidad:          req.Unidad,
		PrecioCosto:     req.PrecioCosto,
		PrecioVenta:     req.PrecioVenta,
		CantidadAlmacen: decimal.Zero,
		CantidadArea:    decimal.Zero,
	}
	if p.Nombre == "" {
		return nil, apierror.Validacion("el nombre del producto es obligatorio")
	}
	if err := s.caf.CrearProducto(ctx, p); err != nil {
		return nil, err
	}
	resp := productoCafToResponse(p)
	return &resp, nil
}

func (s *cafeteriaService) ListarProductos(ctx context.Context, quien auth.Identidad) ([]dto.ProductoCafeteriaResponse, error) {
	if err := auth.Autorizar(quien, auth.OpVenderCafeteria); err != nil {
		return nil, err
	}
	ps, err := s.caf.ListarProductos(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoCafeteriaResponse, len(ps))
	for i := range ps {
		out[i] = productoCafToResponse(&ps[i])
	}
	return out, nil
}

// RecibirProducto adds a purchase to the cafeteria warehouse pool. With a
// cuenta_id the cost is withdrawn from that account in the same unit of work.
func (s *cafeteriaService) RecibirProducto(ctx context.Context, quien auth.Identidad, req dto.RecibirCafeteriaRequest) (*dto.ProductoCafeteriaResponse, error) {
	if err := auth.Autorizar(quien, auth.OpGestionarCafeteria); err != nil {
		return nil, err
	}
	if !req.Cantidad.IsPositive() {
		return nil, apierror.Validacion("la cantidad debe ser mayor que cero")
	}

	var p *model.ProductoCafeteria
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		bloqueados, err := s.caf.BloquearProductosTx(tx, []uuid.UUID{req.ProductoCafeteriaID})
		if err != nil {
			return err
		}
		var ok bool
		if p, ok = bloqueados[req.ProductoCafeteriaID]; !ok {
			return apierror.NoEncontrado("producto de cafeteria no encontrado")
		}

		entrada := &model.EntradaCafeteria{
			ProductoCafeteriaID: p.ID,
			Cantidad:            req.Cantidad,
			Proveedor:           strings.TrimSpace(req.Proveedor),
			MetodoPago:          req.MetodoPago,
			UsuarioID:           quien.UsuarioID,
		}
		if req.CuentaID != nil {
			t, err := s.libro.ExtraerTx(tx, MovimientoCuenta{
				CuentaID:    *req.CuentaID,
				Monto:       p.PrecioCosto.Mul(req.Cantidad).Round(2),
				Descripcion: fmt.Sprintf("Compra cafeteria %s x%s", p.Nombre, req.Cantidad.String()),
				UsuarioID:   quien.UsuarioID,
			})
			if err != nil {
				return err
			}
			entrada.CuentaID = req.CuentaID
			entrada.TransaccionID = &t.ID
		}
		if err := s.caf.CrearEntradaTx(tx, entrada); err != nil {
			return err
		}
		if err := s.caf.AjustarCantidadesTx(tx, p.ID, req.Cantidad, decimal.Zero); err != nil {
			return err
		}
		p.CantidadAlmacen = p.CantidadAlmacen.Add(req.Cantidad)
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := productoCafToResponse(p)
	return &resp, nil
}

// MoverAArea moves a quantity from the cafeteria warehouse to the counter.
func (s *cafeteriaService) MoverAArea(ctx context.Context, quien auth.Identidad, req dto.MoverCafeteriaRequest) (*dto.ProductoCafeteriaResponse, error) {
	if err := auth.Autorizar(quien, auth.OpGestionarCafeteria); err != nil {
		return nil, err
	}
	if !req.Cantidad.IsPositive() {
		return nil, apierror.Validacion("la cantidad debe ser mayor que cero")
	}

	var p *model.ProductoCafeteria
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		bloqueados, err := s.caf.BloquearProductosTx(tx, []uuid.UUID{req.ProductoCafeteriaID})
		if err != nil {
			return err
		}
		var ok bool
		if p, ok = bloqueados[req.ProductoCafeteriaID]; !ok {
			return apierror.NoEncontrado("producto de cafeteria no encontrado")
		}
		if p.CantidadAlmacen.LessThan(req.Cantidad) {
			return apierror.StockInsuficiente("stock insuficiente de %s en el almacen de cafeteria: disponible %s, solicitado %s",
				p.Nombre, p.CantidadAlmacen.String(), req.Cantidad.String())
		}
		if err := s.caf.CrearSalidaTx(tx, &model.SalidaCafeteria{
			ProductoCafeteriaID: p.ID,
			Cantidad:            req.Cantidad,
			UsuarioID:           quien.UsuarioID,
		}); err != nil {
			return err
		}
		if err := s.caf.AjustarCantidadesTx(tx, p.ID, req.Cantidad.Neg(), req.Cantidad); err != nil {
			return err
		}
		p.CantidadAlmacen = p.CantidadAlmacen.Sub(req.Cantidad)
		p.CantidadArea = p.CantidadArea.Add(req.Cantidad)
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := productoCafToResponse(p)
	return &resp, nil
}

// ── Elaboraciones ─────────────────────────────────────────────────────────────

// CrearElaboracion registers a recipe. Recipes cannot be edited afterwards;
// reverting a sale restores ingredients from the recipe as stored.
func (s *cafeteriaService) CrearElaboracion(ctx context.Context, quien auth.Identidad, req dto.CrearElaboracionRequest) (*dto.ElaboracionResponse, error) {
	if err := auth.Autorizar(quien, auth.OpGestionarCafeteria); err != nil {
		return nil, err
	}
	if !req.PrecioVenta.IsPositive() {
		return nil, apierror.Validacion("precio_venta debe ser mayor que cero")
	}
	if req.ManoObra.IsNegative() {
		return nil, apierror.Validacion("mano_obra no puede ser negativa")
	}
	if len(req.Ingredientes) == 0 {
		return nil, apierror.Validacion("la elaboracion necesita al menos un ingrediente")
	}

	e := &model.Elaboracion{
		Nombre:      strings.TrimSpace(req.Nombre),
		PrecioVenta: req.PrecioVenta,
		ManoObra:    req.ManoObra,
		Activo:      true,
	}
	costos := map[uuid.UUID]decimal.Decimal{}
	for _, ing := range req.Ingredientes {
		if !ing.Cantidad.IsPositive() {
			return nil, apierror.Validacion("la cantidad de cada ingrediente debe ser mayor que cero")
		}
		if _, dup := costos[ing.ProductoCafeteriaID]; dup {
			return nil, apierror.Validacion("ingrediente repetido en la elaboracion")
		}
		p, err := s.caf.ProductoPorID(ctx, ing.ProductoCafeteriaID)
		if err != nil {
			return nil, err
		}
		costos[p.ID] = p.PrecioCosto
		e.Ingredientes = append(e.Ingredientes, model.IngredienteElaboracion{
			ProductoCafeteriaID: p.ID,
			Cantidad:            ing.Cantidad,
		})
	}
	if err := s.caf.CrearElaboracion(ctx, e); err != nil {
		return nil, err
	}
	resp := elaboracionToResponse(e, costos)
	return &resp, nil
}

func (s *cafeteriaService) ListarElaboraciones(ctx context.Context, quien auth.Identidad) ([]dto.ElaboracionResponse, error) {
	if err := auth.Autorizar(quien, auth.OpVenderCafeteria); err != nil {
		return nil, err
	}
	es, err := s.caf.ListarElaboraciones(ctx)
	if err != nil {
		return nil, err
	}
	ps, err := s.caf.ListarProductos(ctx)
	if err != nil {
		return nil, err
	}
	costos := make(map[uuid.UUID]decimal.Decimal, len(ps))
	for _, p := range ps {
		costos[p.ID] = p.PrecioCosto
	}
	out := make([]dto.ElaboracionResponse, len(es))
	for i := range es {
		out[i] = elaboracionToResponse(&es[i], costos)
	}
	return out, nil
}

// ── Ventas ────────────────────────────────────────────────────────────────────

// lineaVenta is a validated sale line before the products are locked.
type lineaVenta struct {
	productoID  *uuid.UUID
	elaboracion *model.Elaboracion
	cantidad    decimal.Decimal
	precio      decimal.Decimal
}

func (s *cafeteriaService) Vender(ctx context.Context, quien auth.Identidad, req dto.VenderCafeteriaRequest) (*dto.VentaCafeteriaResponse, error) {
	if err := auth.Autorizar(quien, auth.OpVenderCafeteria); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, apierror.Validacion("la venta no tiene items")
	}

	// 1. Resolve every line and the total before opening the transaction
	lineas := make([]lineaVenta, 0, len(req.Items))
	total := decimal.Zero
	for i, it := range req.Items {
		if (it.ProductoCafeteriaID == nil) == (it.ElaboracionID == nil) {
			return nil, apierror.Validacion("el item %d debe indicar producto_cafeteria_id o elaboracion_id", i+1)
		}
		if !it.Cantidad.IsPositive() {
			return nil, apierror.Validacion("la cantidad del item %d debe ser mayor que cero", i+1)
		}
		l := lineaVenta{cantidad: it.Cantidad}
		if it.ElaboracionID != nil {
			e, err := s.caf.ElaboracionPorID(ctx, *it.ElaboracionID)
			if err != nil {
				return nil, err
			}
			if !e.Activo {
				return nil, apierror.Validacion("la elaboracion %s esta inactiva", e.Nombre)
			}
			l.elaboracion = e
			l.precio = e.PrecioVenta
		} else {
			p, err := s.caf.ProductoPorID(ctx, *it.ProductoCafeteriaID)
			if err != nil {
				return nil, err
			}
			l.productoID = &p.ID
			l.precio = p.PrecioVenta
		}
		total = total.Add(l.precio.Mul(l.cantidad))
		lineas = append(lineas, l)
	}
	total = total.Round(2)

	// 2. House-account sales take no payment
	var pg pago
	if req.CuentaCasa {
		pg = pago{efectivo: decimal.Zero, transferencia: decimal.Zero}
	} else {
		var err error
		pg, err = resolverPago(req.MetodoPago, total, req.Efectivo, req.Transferencia, req.CuentaID)
		if err != nil {
			return nil, err
		}
	}

	consumo := consumoDe(lineas)
	ids := make([]uuid.UUID, 0, len(consumo))
	for id := range consumo {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	venta := &model.VentaCafeteria{
		ID:            uuid.New(),
		UsuarioID:     quien.UsuarioID,
		MetodoPago:    req.MetodoPago,
		Efectivo:      pg.efectivo,
		Transferencia: pg.transferencia,
		CuentaID:      pg.cuentaID,
		CuentaCasa:    req.CuentaCasa,
	}

	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		// 3. Lock every consumed product and check the counter pool
		bloqueados, err := s.caf.BloquearProductosTx(tx, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			p, ok := bloqueados[id]
			if !ok {
				return apierror.NoEncontrado("producto de cafeteria %s no encontrado", id)
			}
			if p.CantidadArea.LessThan(consumo[id]) {
				return apierror.StockInsuficiente("stock insuficiente de %s en cafeteria: disponible %s, necesario %s",
					p.Nombre, p.CantidadArea.String(), consumo[id].String())
			}
		}

		// 4. Snapshot price, cost and labor on every line
		for _, l := range lineas {
			item := model.VentaCafeteriaItem{
				Cantidad:       l.cantidad,
				PrecioUnitario: l.precio,
			}
			if l.elaboracion != nil {
				item.ElaboracionID = &l.elaboracion.ID
				item.ManoObraUnitaria = l.elaboracion.ManoObra
				costo := decimal.Zero
				for _, ing := range l.elaboracion.Ingredientes {
					costo = costo.Add(bloqueados[ing.ProductoCafeteriaID].PrecioCosto.Mul(ing.Cantidad))
				}
				item.CostoUnitario = costo.Round(2)
			} else {
				item.ProductoCafeteriaID = l.productoID
				item.CostoUnitario = bloqueados[*l.productoID].PrecioCosto
			}
			venta.Items = append(venta.Items, item)
		}

		// 5. Deposit the transfer part
		if pg.transferencia.IsPositive() {
			t, err := s.libro.DepositarTx(tx, MovimientoCuenta{
				CuentaID:         *pg.cuentaID,
				Monto:            pg.transferencia,
				Descripcion:      "Venta cafeteria",
				UsuarioID:        quien.UsuarioID,
				VentaCafeteriaID: &venta.ID,
			})
			if err != nil {
				return err
			}
			venta.TransaccionID = &t.ID
		}
		if err := s.caf.CrearVentaTx(tx, venta); err != nil {
			return err
		}

		// 6. Consume from the counter pool
		for _, id := range ids {
			if err := s.caf.AjustarCantidadesTx(tx, id, decimal.Zero, consumo[id].Neg()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("venta_cafeteria_id", venta.ID.String()).
		Bool("cuenta_casa", venta.CuentaCasa).
		Str("total", total.StringFixed(2)).
		Msg("venta de cafeteria registrada")

	return &dto.VentaCafeteriaResponse{
		ID:            venta.ID,
		MetodoPago:    venta.MetodoPago,
		CuentaCasa:    venta.CuentaCasa,
		Total:         total,
		Efectivo:      venta.Efectivo,
		Transferencia: venta.Transferencia,
		TransaccionID: venta.TransaccionID,
		CreatedAt:     venta.CreatedAt,
	}, nil
}

// RevertirVenta gives the consumed quantities back to the counter pool and
// reverts the deposit.
func (s *cafeteriaService) RevertirVenta(ctx context.Context, quien auth.Identidad, id uuid.UUID) error {
	if err := auth.Autorizar(quien, auth.OpVenderCafeteria); err != nil {
		return err
	}
	return s.uow.Do(ctx, func(tx *gorm.DB) error {
		v, err := s.caf.VentaTx(tx, id)
		if err != nil {
			return err
		}
		lineas := make([]lineaVenta, 0, len(v.Items))
		for _, it := range v.Items {
			l := lineaVenta{productoID: it.ProductoCafeteriaID, cantidad: it.Cantidad}
			if it.ElaboracionID != nil {
				e, err := s.caf.ElaboracionPorID(ctx, *it.ElaboracionID)
				if err != nil {
					return err
				}
				l.elaboracion = e
			}
			lineas = append(lineas, l)
		}
		consumo := consumoDe(lineas)
		ids := make([]uuid.UUID, 0, len(consumo))
		for pid := range consumo {
			ids = append(ids, pid)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
		if _, err := s.caf.BloquearProductosTx(tx, ids); err != nil {
			return err
		}
		for _, pid := range ids {
			if err := s.caf.AjustarCantidadesTx(tx, pid, decimal.Zero, consumo[pid]); err != nil {
				return err
			}
		}
		if v.TransaccionID != nil {
			if err := s.libro.RevertirTransaccionTx(tx, *v.TransaccionID); err != nil {
				return err
			}
		}
		return s.caf.EliminarVentaTx(tx, v.ID)
	})
}

// consumoDe adds up the counter quantity each line takes, per product.
func consumoDe(lineas []lineaVenta) map[uuid.UUID]decimal.Decimal {
	consumo := map[uuid.UUID]decimal.Decimal{}
	for _, l := range lineas {
		if l.elaboracion != nil {
			for _, ing := range l.elaboracion.Ingredientes {
				consumo[ing.ProductoCafeteriaID] = consumo[ing.ProductoCafeteriaID].Add(ing.Cantidad.Mul(l.cantidad))
			}
			continue
		}
		consumo[*l.productoID] = consumo[*l.productoID].Add(l.cantidad)
	}
	return consumo
}

func productoCafToResponse(p *model.ProductoCafeteria) dto.ProductoCafeteriaResponse {
	return dto.ProductoCafeteriaResponse{
		ID:              p.ID,
		Nombre:          p.Nombre,
		Unidad:          p.Unidad,
		PrecioCosto:     p.PrecioCosto,
		PrecioVenta:     p.PrecioVenta,
		CantidadAlmacen: p.CantidadAlmacen,
		CantidadArea:    p.CantidadArea,
	}
}

func elaboracionToResponse(e *model.Elaboracion, costos map[uuid.UUID]decimal.Decimal) dto.ElaboracionResponse {
	resp := dto.ElaboracionResponse{
		ID:           e.ID,
		Nombre:       e.Nombre,
		PrecioVenta:  e.PrecioVenta,
		ManoObra:     e.ManoObra,
		Costo:        decimal.Zero,
		Ingredientes: make([]dto.IngredienteResponse, len(e.Ingredientes)),
	}
	for i, ing := range e.Ingredientes {
		resp.Costo = resp.Costo.Add(costos[ing.ProductoCafeteriaID].Mul(ing.Cantidad))
		resp.Ingredientes[i] = dto.IngredienteResponse{ProductoCafeteriaID: ing.ProductoCafeteriaID, Cantidad: ing.Cantidad}
	}
	resp.Costo = resp.Costo.Round(2)
	return resp
}
