package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"tiendapos/internal/apierror"
	"tiendapos/internal/auth"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Renderizador turns a profit report into a downloadable document.
type Renderizador interface {
	GananciasPDF(r *dto.ReporteGanancias) ([]byte, error)
	GananciasXLSX(r *dto.ReporteGanancias) ([]byte, error)
}

// ColaReportes queues a report e-mail for the background worker.
type ColaReportes interface {
	EncolarReporte(ctx context.Context, job dto.ReporteEmailJob) error
}

var errColaNoConfigurada = errors.New("cola de reportes no configurada")

const (
	FormatoPDF  = "pdf"
	FormatoXLSX = "xlsx"
)

type ReporteService interface {
	Ganancias(ctx context.Context, quien auth.Identidad, filtro dto.ReporteFiltro) (*dto.ReporteGanancias, error)
	GananciasCafeteria(ctx context.Context, quien auth.Identidad, desde, hasta time.Time) (*dto.ReporteCafeteria, error)
	ExportarGanancias(ctx context.Context, quien auth.Identidad, filtro dto.ReporteFiltro, formato string) ([]byte, error)
	EnviarGanancias(ctx context.Context, quien auth.Identidad, req dto.EnviarReporteRequest) error
}

type reporteService struct {
	productos repository.ProductoRepository
	historial repository.HistorialPrecioRepository
	docs      repository.InventarioRepository
	gastos    repository.GastoRepository
	caf       repository.CafeteriaRepository
	render    Renderizador
	cola      ColaReportes
	loc       *time.Location
}

// NewReporteService builds the report service. loc is the store's time zone;
// report days start at midnight in loc.
func NewReporteService(
	productos repository.ProductoRepository,
	historial repository.HistorialPrecioRepository,
	docs repository.InventarioRepository,
	gastos repository.GastoRepository,
	caf repository.CafeteriaRepository,
	render Renderizador,
	cola ColaReportes,
	loc *time.Location,
) ReporteService {
	if loc == nil {
		loc = time.UTC
	}
	return &reporteService{
		productos: productos,
		historial: historial,
		docs:      docs,
		gastos:    gastos,
		caf:       caf,
		render:    render,
		cola:      cola,
		loc:       loc,
	}
}

// ── Ganancias ─────────────────────────────────────────────────────────────────

// Ganancias values every sale in the range at the prices in force when it
// happened. An area filter limits both the sales and the expenses to that
// area; without it every non-cafeteria expense counts.
func (s *reporteService) Ganancias(ctx context.Context, quien auth.Identidad, filtro dto.ReporteFiltro) (*dto.ReporteGanancias, error) {
	if err := auth.Autorizar(quien, auth.OpVerReportes); err != nil {
		return nil, err
	}
	desde, hasta, err := s.rango(filtro.Desde, filtro.Hasta)
	if err != nil {
		return nil, err
	}

	// 1. Sales in [desde, hasta]
	ventas, err := s.docs.VentasEntre(ctx, desde, siguienteDia(hasta), filtro.AreaID)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	vistos := map[uuid.UUID]bool{}
	for _, v := range ventas {
		if !vistos[v.ProductoInfoID] {
			vistos[v.ProductoInfoID] = true
			ids = append(ids, v.ProductoInfoID)
		}
	}

	// 2. Price timelines and current prices as the fallback
	hist, err := s.historial.ListByProductos(ctx, ids)
	if err != nil {
		return nil, err
	}
	porProducto := map[uuid.UUID][]model.HistorialPrecio{}
	for _, h := range hist {
		porProducto[h.ProductoInfoID] = append(porProducto[h.ProductoInfoID], h)
	}
	productos, err := s.productos.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	actuales := make(map[uuid.UUID]model.ProductoInfo, len(productos))
	for _, p := range productos {
		actuales[p.ID] = p
	}

	rep := &dto.ReporteGanancias{
		Desde:           desde,
		Hasta:           hasta,
		AreaID:          filtro.AreaID,
		Bruto:           decimal.Zero,
		Costo:           decimal.Zero,
		Comisiones:      decimal.Zero,
		Efectivo:        decimal.Zero,
		Transferencia:   decimal.Zero,
		GastosFijos:     decimal.Zero,
		GastosVariables: decimal.Zero,
		Productos:       []dto.GananciaProducto{},
		DetalleFijos:    []dto.GastoDevengado{},
	}

	// 3. Value each sale
	lineas := map[uuid.UUID]*dto.GananciaProducto{}
	for _, v := range ventas {
		p := actuales[v.ProductoInfoID]
		costo, venta, pago := p.PrecioCosto, p.PrecioVenta, p.PagoTrabajador
		if h := PrecioEn(porProducto[v.ProductoInfoID], v.CreatedAt); h != nil {
			costo, venta, pago = h.PrecioCosto, h.PrecioVenta, h.PagoTrabajador
		}
		n := decimal.NewFromInt(int64(v.Cantidad))

		l, ok := lineas[v.ProductoInfoID]
		if !ok {
			l = &dto.GananciaProducto{
				ProductoInfoID: v.ProductoInfoID,
				Codigo:         p.Codigo,
				Descripcion:    p.Descripcion,
				Bruto:          decimal.Zero,
				Costo:          decimal.Zero,
				Comisiones:     decimal.Zero,
			}
			lineas[v.ProductoInfoID] = l
		}
		l.Unidades += v.Cantidad
		l.Bruto = l.Bruto.Add(venta.Mul(n))
		l.Costo = l.Costo.Add(costo.Mul(n))
		l.Comisiones = l.Comisiones.Add(pago.Mul(n))

		rep.Efectivo = rep.Efectivo.Add(v.Efectivo)
		rep.Transferencia = rep.Transferencia.Add(v.Transferencia)
	}
	for _, l := range lineas {
		rep.Bruto = rep.Bruto.Add(l.Bruto)
		rep.Costo = rep.Costo.Add(l.Costo)
		rep.Comisiones = rep.Comisiones.Add(l.Comisiones)
		rep.Productos = append(rep.Productos, *l)
	}
	sort.Slice(rep.Productos, func(i, j int) bool {
		if rep.Productos[i].Codigo != rep.Productos[j].Codigo {
			return rep.Productos[i].Codigo < rep.Productos[j].Codigo
		}
		return rep.Productos[i].ProductoInfoID.String() < rep.Productos[j].ProductoInfoID.String()
	})

	// 4. Expenses
	enAlcance := func(area *uuid.UUID, cafeteria bool) bool {
		if cafeteria {
			return false
		}
		if filtro.AreaID == nil {
			return true
		}
		return area != nil && *area == *filtro.AreaID
	}
	rep.GastosFijos, rep.DetalleFijos, err = s.devengarFijos(ctx, desde, hasta, func(g model.GastoFijo) bool {
		return enAlcance(g.AreaID, g.Cafeteria)
	})
	if err != nil {
		return nil, err
	}
	rep.GastosVariables, err = s.sumarVariables(ctx, desde, hasta, func(g model.GastoVariable) bool {
		return enAlcance(g.AreaID, g.Cafeteria)
	})
	if err != nil {
		return nil, err
	}

	rep.Neto = rep.Bruto.Sub(rep.Costo).Sub(rep.Comisiones).Sub(rep.GastosFijos).Sub(rep.GastosVariables)
	return rep, nil
}

// GananciasCafeteria uses the price, cost and labor snapshotted on each sale
// line. House-account sales produce no revenue; their cost plus labor is
// reported apart and subtracted from the net.
func (s *reporteService) GananciasCafeteria(ctx context.Context, quien auth.Identidad, desde, hasta time.Time) (*dto.ReporteCafeteria, error) {
	if err := auth.Autorizar(quien, auth.OpVerReportes); err != nil {
		return nil, err
	}
	desde, hasta, err := s.rango(desde, hasta)
	if err != nil {
		return nil, err
	}
	ventas, err := s.caf.VentasEntre(ctx, desde, siguienteDia(hasta))
	if err != nil {
		return nil, err
	}

	rep := &dto.ReporteCafeteria{
		Desde:             desde,
		Hasta:             hasta,
		Ingresos:          decimal.Zero,
		CostoIngredientes: decimal.Zero,
		ManoObra:          decimal.Zero,
		CuentaCasa:        decimal.Zero,
		Efectivo:          decimal.Zero,
		Transferencia:     decimal.Zero,
		DetalleFijos:      []dto.GastoDevengado{},
	}
	for _, v := range ventas {
		for _, it := range v.Items {
			costo := it.CostoUnitario.Mul(it.Cantidad)
			mano := it.ManoObraUnitaria.Mul(it.Cantidad)
			if v.CuentaCasa {
				rep.CuentaCasa = rep.CuentaCasa.Add(costo).Add(mano)
				continue
			}
			rep.Ingresos = rep.Ingresos.Add(it.PrecioUnitario.Mul(it.Cantidad))
			rep.CostoIngredientes = rep.CostoIngredientes.Add(costo)
			rep.ManoObra = rep.ManoObra.Add(mano)
		}
		rep.Efectivo = rep.Efectivo.Add(v.Efectivo)
		rep.Transferencia = rep.Transferencia.Add(v.Transferencia)
	}
	rep.Ingresos = rep.Ingresos.Round(2)
	rep.CostoIngredientes = rep.CostoIngredientes.Round(2)
	rep.ManoObra = rep.ManoObra.Round(2)
	rep.CuentaCasa = rep.CuentaCasa.Round(2)

	rep.GastosFijos, rep.DetalleFijos, err = s.devengarFijos(ctx, desde, hasta, func(g model.GastoFijo) bool { return g.Cafeteria })
	if err != nil {
		return nil, err
	}
	rep.GastosVariables, err = s.sumarVariables(ctx, desde, hasta, func(g model.GastoVariable) bool { return g.Cafeteria })
	if err != nil {
		return nil, err
	}

	rep.Neto = rep.Ingresos.
		Sub(rep.CostoIngredientes).
		Sub(rep.ManoObra).
		Sub(rep.CuentaCasa).
		Sub(rep.GastosFijos).
		Sub(rep.GastosVariables)
	return rep, nil
}

// ── Exportacion y envio ───────────────────────────────────────────────────────

func (s *reporteService) ExportarGanancias(ctx context.Context, quien auth.Identidad, filtro dto.ReporteFiltro, formato string) ([]byte, error) {
	if formato != FormatoPDF && formato != FormatoXLSX {
		return nil, apierror.Validacion("formato %q no soportado (pdf o xlsx)", formato)
	}
	rep, err := s.Ganancias(ctx, quien, filtro)
	if err != nil {
		return nil, err
	}
	var out []byte
	if formato == FormatoPDF {
		out, err = s.render.GananciasPDF(rep)
	} else {
		out, err = s.render.GananciasXLSX(rep)
	}
	if err != nil {
		return nil, apierror.Inesperado(err)
	}
	return out, nil
}

// EnviarGanancias validates the request and queues the e-mail. The worker
// rebuilds the report with the caller's identity when it runs.
func (s *reporteService) EnviarGanancias(ctx context.Context, quien auth.Identidad, req dto.EnviarReporteRequest) error {
	if err := auth.Autorizar(quien, auth.OpVerReportes); err != nil {
		return err
	}
	desde, err := time.ParseInLocation("2006-01-02", req.Desde, s.loc)
	if err != nil {
		return apierror.Validacion("desde invalido: use AAAA-MM-DD")
	}
	hasta, err := time.ParseInLocation("2006-01-02", req.Hasta, s.loc)
	if err != nil {
		return apierror.Validacion("hasta invalido: use AAAA-MM-DD")
	}
	if _, _, err := s.rango(desde, hasta); err != nil {
		return err
	}
	if s.cola == nil {
		return apierror.Inesperado(errColaNoConfigurada)
	}
	return s.cola.EncolarReporte(ctx, dto.ReporteEmailJob{
		Destinatario: req.Destinatario,
		Desde:        req.Desde,
		Hasta:        req.Hasta,
		AreaID:       req.AreaID,
		UsuarioID:    quien.UsuarioID,
		Rol:          quien.Rol,
	})
}

// ── Calculo ───────────────────────────────────────────────────────────────────

// PrecioEn returns the record in force at t from hist, which must be sorted by
// VigenteDesde ascending. When several records share the same VigenteDesde the
// last one wins. Before the first record the earliest one applies; nil only
// when hist is empty.
func PrecioEn(hist []model.HistorialPrecio, t time.Time) *model.HistorialPrecio {
	if len(hist) == 0 {
		return nil
	}
	i := sort.Search(len(hist), func(i int) bool { return hist[i].VigenteDesde.After(t) })
	if i == 0 {
		// before every record: the earliest one, last written on a tie
		for i < len(hist)-1 && hist[i+1].VigenteDesde.Equal(hist[0].VigenteDesde) {
			i++
		}
		return &hist[i]
	}
	return &hist[i-1]
}

// OcurrenciasGastoFijo counts how many times g accrues between the calendar
// days desde and hasta, both inclusive:
//   - diaria: every day except Sunday
//   - semanal: every day whose weekday is DiaSemana (0 = Monday)
//   - mensual: once a month on DiaMes, or the last day of shorter months
func OcurrenciasGastoFijo(g model.GastoFijo, desde, hasta time.Time) int {
	n := 0
	for d := dia(desde); !d.After(hasta); d = siguienteDia(d) {
		switch g.Frecuencia {
		case model.FrecuenciaDiaria:
			if d.Weekday() != time.Sunday {
				n++
			}
		case model.FrecuenciaSemanal:
			if g.DiaSemana != nil && (int(d.Weekday())+6)%7 == *g.DiaSemana {
				n++
			}
		case model.FrecuenciaMensual:
			if g.DiaMes != nil && d.Day() == min(*g.DiaMes, ultimoDiaDelMes(d)) {
				n++
			}
		}
	}
	return n
}

func (s *reporteService) devengarFijos(ctx context.Context, desde, hasta time.Time, incluir func(model.GastoFijo) bool) (decimal.Decimal, []dto.GastoDevengado, error) {
	fijos, err := s.gastos.ListarFijos(ctx, true)
	if err != nil {
		return decimal.Zero, nil, err
	}
	total := decimal.Zero
	detalle := []dto.GastoDevengado{}
	for _, g := range fijos {
		if !incluir(g) {
			continue
		}
		n := OcurrenciasGastoFijo(g, desde, hasta)
		if n == 0 {
			continue
		}
		monto := g.Monto.Mul(decimal.NewFromInt(int64(n)))
		total = total.Add(monto)
		detalle = append(detalle, dto.GastoDevengado{Descripcion: g.Descripcion, Ocurrencias: n, Total: monto})
	}
	return total, detalle, nil
}

func (s *reporteService) sumarVariables(ctx context.Context, desde, hasta time.Time, incluir func(model.GastoVariable) bool) (decimal.Decimal, error) {
	vars, err := s.gastos.ListarVariables(ctx, desde, hasta)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, g := range vars {
		if incluir(g) {
			total = total.Add(g.Monto)
		}
	}
	return total, nil
}

// rango normalizes a day range to midnights in the store's zone.
func (s *reporteService) rango(desde, hasta time.Time) (time.Time, time.Time, error) {
	if desde.IsZero() || hasta.IsZero() {
		return time.Time{}, time.Time{}, apierror.Validacion("desde y hasta son obligatorios")
	}
	d, h := dia(desde.In(s.loc)), dia(hasta.In(s.loc))
	if h.Before(d) {
		return time.Time{}, time.Time{}, apierror.Validacion("hasta no puede ser anterior a desde")
	}
	return d, h, nil
}

func siguienteDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
}

func ultimoDiaDelMes(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
