package service

import (
	"context"
	"strings"
	"time"

	"tiendapos/internal/apierror"
	"tiendapos/internal/auth"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogoService manages SKUs, categories and areas. Every price change is
// mirrored in the price history so reports can value past sales.
type CatalogoService interface {
	CrearCategoria(ctx context.Context, quien auth.Identidad, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error)
	ListarCategorias(ctx context.Context, quien auth.Identidad) ([]dto.CategoriaResponse, error)
	CrearArea(ctx context.Context, quien auth.Identidad, req dto.CrearAreaRequest) (*dto.AreaResponse, error)
	ListarAreas(ctx context.Context, quien auth.Identidad) ([]dto.AreaResponse, error)

	CrearProducto(ctx context.Context, quien auth.Identidad, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ActualizarPrecios(ctx context.Context, quien auth.Identidad, id uuid.UUID, req dto.ActualizarPreciosRequest) (*dto.ProductoResponse, error)
	ObtenerProducto(ctx context.Context, quien auth.Identidad, id uuid.UUID) (*dto.ProductoResponse, error)
	ListarProductos(ctx context.Context, quien auth.Identidad, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	HistorialPrecios(ctx context.Context, quien auth.Identidad, id uuid.UUID, page, limit int) (*dto.HistorialPrecioListResponse, error)
	PrecioVigente(ctx context.Context, quien auth.Identidad, id uuid.UUID, asOf time.Time) (*dto.HistorialPrecioItem, error)
}

type catalogoService struct {
	uow        repository.UnitOfWork
	productos  repository.ProductoRepository
	historial  repository.HistorialPrecioRepository
	categorias repository.CategoriaRepository
	areas      repository.AreaRepository
	inventario repository.InventarioRepository
	now        func() time.Time
}

func NewCatalogoService(
	uow repository.UnitOfWork,
	productos repository.ProductoRepository,
	historial repository.HistorialPrecioRepository,
	categorias repository.CategoriaRepository,
	areas repository.AreaRepository,
	inventario repository.InventarioRepository,
) CatalogoService {
	return &catalogoService{
		uow:        uow,
		productos:  productos,
		historial:  historial,
		categorias: categorias,
		areas:      areas,
		inventario: inventario,
		now:        time.Now,
	}
}

// ── Categorias y areas ────────────────────────────────────────────────────────

func (s *catalogoService) CrearCategoria(ctx context.Context, quien auth.Identidad, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error) {
	if err := auth.Autorizar(quien, auth.OpGestionarCatalogo); err != nil {
		return nil, err
	}
	c := &model.Categoria{Nombre: strings.TrimSpace(req.Nombre), Activo: true}
	if c.Nombre == "" {
		return nil, apierror.Validacion("el nombre de la categoria es obligatorio")
	}
	if err := s.categorias.Crear(ctx, c); err != nil {
		return nil, err
	}
	return &dto.CategoriaResponse{ID: c.ID, Nombre: c.Nombre, Activo: c.Activo}, nil
}

func (s *catalogoService) ListarCategorias(ctx context.Context, quien auth.Identidad) ([]dto.CategoriaResponse, error) {
	if err := auth.Autorizar(quien, auth.OpConsultarCatalogo); err != nil {
		return nil, err
	}
	cats, err := s.categorias.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoriaResponse, len(cats))
	for i, c := range cats {
		out[i] = dto.CategoriaResponse{ID: c.ID, Nombre: c.Nombre, Activo: c.Activo}
	}
	return out, nil
}

func (s *catalogoService) CrearArea(ctx context.Context, quien auth.Identidad, req dto.CrearAreaRequest) (*dto.AreaResponse, error) {
	if err := auth.Autorizar(quien, auth.OpGestionarCatalogo); err != nil {
		return nil, err
	}
	switch req.Tipo {
	case model.AreaPisoVenta, model.AreaAlmacenSecundario, model.AreaCafeteria:
	default:
		return nil, apierror.Validacion("tipo de area %q invalido", req.Tipo)
	}
	a := &model.Area{Nombre: strings.TrimSpace(req.Nombre), Tipo: req.Tipo, Activo: true}
	if a.Nombre == "" {
		return nil, apierror.Validacion("el nombre del area es obligatorio")
	}
	if err := s.areas.Crear(ctx, a); err != nil {
		return nil, err
	}
	resp := areaToResponse(a)
	return &resp, nil
}

func (s *catalogoService) ListarAreas(ctx context.Context, quien auth.Identidad) ([]dto.AreaResponse, error) {
	if err := auth.Autorizar(quien, auth.OpConsultarCatalogo); err != nil {
		return nil, err
	}
	areas, err := s.areas.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AreaResponse, len(areas))
	for i := range areas {
		out[i] = areaToResponse(&areas[i])
	}
	return out, nil
}

// ── Productos ─────────────────────────────────────────────────────────────────

func (s *catalogoService) CrearProducto(ctx context.Context, quien auth.Identidad, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if err := auth.Autorizar(quien, auth.OpGestionarCatalogo); err != nil {
		return nil, err
	}
	if err := validarPrecios(req.PrecioCosto, req.PrecioVenta, req.PagoTrabajador); err != nil {
		return nil, err
	}
	p := &model.ProductoInfo{
		Codigo:         strings.TrimSpace(req.Codigo),
		Descripcion:    strings.TrimSpace(req.Descripcion),
		CategoriaID:    req.CategoriaID,
		PrecioCosto:    req.PrecioCosto,
		PrecioVenta:    req.PrecioVenta,
		PagoTrabajador: req.PagoTrabajador,
		Activo:         true,
	}
	if p.Codigo == "" {
		return nil, apierror.Validacion("el codigo del producto es obligatorio")
	}

	// The first history record opens the price timeline at creation time.
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := s.productos.CreateTx(tx, p); err != nil {
			return err
		}
		return s.historial.CreateTx(tx, &model.HistorialPrecio{
			ProductoInfoID: p.ID,
			PrecioCosto:    p.PrecioCosto,
			PrecioVenta:    p.PrecioVenta,
			PagoTrabajador: p.PagoTrabajador,
			VigenteDesde:   s.now(),
			UsuarioID:      &quien.UsuarioID,
			Motivo:         "alta",
		})
	})
	if err != nil {
		return nil, err
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *catalogoService) ActualizarPrecios(ctx context.Context, quien auth.Identidad, id uuid.UUID, req dto.ActualizarPreciosRequest) (*dto.ProductoResponse, error) {
	if err := auth.Autorizar(quien, auth.OpGestionarCatalogo); err != nil {
		return nil, err
	}
	if req.PrecioCosto == nil && req.PrecioVenta == nil && req.PagoTrabajador == nil {
		return nil, apierror.Validacion("indique al menos un precio a cambiar")
	}
	ahora := s.now()
	vigente := ahora
	if req.VigenteDesde != nil {
		vigente = *req.VigenteDesde
	}
	// The SKU columns are the price charged now, so the new record must be
	// the one in force now and must not cover a sale charged at another price.
	if vigente.After(ahora) {
		return nil, apierror.Validacion("vigente_desde no puede ser posterior a la fecha actual")
	}
	ultimos, _, err := s.historial.ListByProducto(ctx, id, 1, 1)
	if err != nil {
		return nil, err
	}
	if len(ultimos) == 1 && vigente.Before(ultimos[0].VigenteDesde) {
		return nil, apierror.Validacion("vigente_desde no puede ser anterior al ultimo precio registrado")
	}
	if vigente.Before(ahora) {
		ventas, err := s.inventario.VentasEntre(ctx, vigente, ahora.Add(time.Nanosecond), nil)
		if err != nil {
			return nil, err
		}
		for _, v := range ventas {
			if v.ProductoInfoID == id {
				return nil, apierror.Validacion("vigente_desde cubre ventas ya cobradas al precio anterior")
			}
		}
	}

	var p *model.ProductoInfo
	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		p, err = s.productos.FindForUpdateTx(tx, id)
		if err != nil {
			return err
		}
		if req.PrecioCosto != nil {
			p.PrecioCosto = *req.PrecioCosto
		}
		if req.PrecioVenta != nil {
			p.PrecioVenta = *req.PrecioVenta
		}
		if req.PagoTrabajador != nil {
			p.PagoTrabajador = *req.PagoTrabajador
		}
		if err := validarPrecios(p.PrecioCosto, p.PrecioVenta, p.PagoTrabajador); err != nil {
			return err
		}
		if err := s.productos.UpdatePreciosTx(tx, p); err != nil {
			return err
		}
		return s.historial.CreateTx(tx, &model.HistorialPrecio{
			ProductoInfoID: p.ID,
			PrecioCosto:    p.PrecioCosto,
			PrecioVenta:    p.PrecioVenta,
			PagoTrabajador: p.PagoTrabajador,
			VigenteDesde:   vigente,
			UsuarioID:      &quien.UsuarioID,
			Motivo:         "manual",
		})
	})
	if err != nil {
		return nil, err
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *catalogoService) ObtenerProducto(ctx context.Context, quien auth.Identidad, id uuid.UUID) (*dto.ProductoResponse, error) {
	if err := auth.Autorizar(quien, auth.OpConsultarCatalogo); err != nil {
		return nil, err
	}
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *catalogoService) ListarProductos(ctx context.Context, quien auth.Identidad, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if err := auth.Autorizar(quien, auth.OpConsultarCatalogo); err != nil {
		return nil, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.productos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		data[i] = productoToResponse(&productos[i])
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// HistorialPrecios returns the price records of a SKU, newest first.
func (s *catalogoService) HistorialPrecios(ctx context.Context, quien auth.Identidad, id uuid.UUID, page, limit int) (*dto.HistorialPrecioListResponse, error) {
	if err := auth.Autorizar(quien, auth.OpConsultarCatalogo); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if _, err := s.productos.FindByID(ctx, id); err != nil {
		return nil, err
	}
	rows, total, err := s.historial.ListByProducto(ctx, id, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.HistorialPrecioItem, len(rows))
	for i := range rows {
		data[i] = historialToItem(&rows[i])
	}
	return &dto.HistorialPrecioListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// PrecioVigente answers "what did this SKU cost at asOf". Before the first
// record the earliest known prices apply.
func (s *catalogoService) PrecioVigente(ctx context.Context, quien auth.Identidad, id uuid.UUID, asOf time.Time) (*dto.HistorialPrecioItem, error) {
	if err := auth.Autorizar(quien, auth.OpConsultarCatalogo); err != nil {
		return nil, err
	}
	h, err := s.historial.PrecioVigente(ctx, id, asOf)
	if err != nil {
		return nil, err
	}
	item := historialToItem(h)
	return &item, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func validarPrecios(costo, venta, pago decimal.Decimal) error {
	if !costo.IsPositive() {
		return apierror.Validacion("precio_costo debe ser mayor que cero")
	}
	if !venta.IsPositive() {
		return apierror.Validacion("precio_venta debe ser mayor que cero")
	}
	if pago.IsNegative() {
		return apierror.Validacion("pago_trabajador no puede ser negativo")
	}
	return nil
}

func productoToResponse(p *model.ProductoInfo) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:             p.ID,
		Codigo:         p.Codigo,
		Descripcion:    p.Descripcion,
		CategoriaID:    p.CategoriaID,
		PrecioCosto:    p.PrecioCosto,
		PrecioVenta:    p.PrecioVenta,
		PagoTrabajador: p.PagoTrabajador,
		Activo:         p.Activo,
	}
}

func areaToResponse(a *model.Area) dto.AreaResponse {
	return dto.AreaResponse{ID: a.ID, Nombre: a.Nombre, Tipo: a.Tipo, Activo: a.Activo}
}

func historialToItem(h *model.HistorialPrecio) dto.HistorialPrecioItem {
	return dto.HistorialPrecioItem{
		ID:             h.ID,
		PrecioCosto:    h.PrecioCosto,
		PrecioVenta:    h.PrecioVenta,
		PagoTrabajador: h.PagoTrabajador,
		VigenteDesde:   h.VigenteDesde,
		Motivo:         h.Motivo,
	}
}
