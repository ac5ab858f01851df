package service

import (
	"context"
	"testing"
	"time"

	"tiendapos/internal/auth"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository/memrepo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// ── Fixture ───────────────────────────────────────────────────────────────────

// fixture wires every service over one in-memory store with a controllable
// clock.
type fixture struct {
	ctx   context.Context
	st    *memrepo.Store
	ahora time.Time
	admin auth.Identidad

	cat    CatalogoService
	libro  ContabilidadService
	inv    InventarioService
	gastos GastoService
	caf    CafeteriaService
	rep    ReporteService
	cola   *colaFalsa
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return armarFixture()
}

// armarFixture builds the fixture without a *testing.T, for the godog suite.
func armarFixture() *fixture {
	f := &fixture{
		ctx:   context.Background(),
		st:    memrepo.New(),
		ahora: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		admin: auth.Identidad{UsuarioID: uuid.New(), Rol: auth.RolAdministrador},
		cola:  &colaFalsa{},
	}
	reloj := func() time.Time { return f.ahora }
	f.st.Now = reloj

	cat := NewCatalogoService(f.st.UnitOfWork(), f.st.Productos(), f.st.Historial(), f.st.Categorias(), f.st.Areas(), f.st.Inventario())
	cat.(*catalogoService).now = reloj
	f.cat = cat
	f.libro = NewContabilidadService(f.st.UnitOfWork(), f.st.Cuentas())
	f.inv = NewInventarioService(f.st.UnitOfWork(), f.st.Productos(), f.st.Areas(), f.st.Unidades(), f.st.Inventario(), f.libro)
	f.gastos = NewGastoService(f.st.Gastos(), f.st.Areas())
	f.caf = NewCafeteriaService(f.st.UnitOfWork(), f.st.Cafeteria(), f.libro)
	f.rep = NewReporteService(
		f.st.Productos(), f.st.Historial(), f.st.Inventario(), f.st.Gastos(), f.st.Cafeteria(),
		renderFalso{}, f.cola, time.UTC,
	)
	return f
}

func (f *fixture) como(rol string) auth.Identidad {
	return auth.Identidad{UsuarioID: uuid.New(), Rol: rol}
}

func (f *fixture) producto(t *testing.T, codigo, costo, venta, pago string) uuid.UUID {
	t.Helper()
	p, err := f.cat.CrearProducto(f.ctx, f.admin, dto.CrearProductoRequest{
		Codigo:         codigo,
		Descripcion:    "Producto " + codigo,
		PrecioCosto:    d(costo),
		PrecioVenta:    d(venta),
		PagoTrabajador: d(pago),
	})
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) area(t *testing.T, nombre string) uuid.UUID {
	t.Helper()
	a, err := f.cat.CrearArea(f.ctx, f.admin, dto.CrearAreaRequest{Nombre: nombre, Tipo: model.AreaPisoVenta})
	require.NoError(t, err)
	return a.ID
}

// cuenta opens an account and deposits saldo into it when saldo > 0.
func (f *fixture) cuenta(t *testing.T, nombre, saldo string) uuid.UUID {
	t.Helper()
	c, err := f.libro.CrearCuenta(f.ctx, f.admin, dto.CrearCuentaRequest{Nombre: nombre, Tipo: "banco"})
	require.NoError(t, err)
	if d(saldo).IsPositive() {
		_, err = f.libro.Depositar(f.ctx, f.admin, c.ID, dto.MovimientoCuentaRequest{Monto: d(saldo), Descripcion: "apertura"})
		require.NoError(t, err)
	}
	return c.ID
}

func (f *fixture) saldo(t *testing.T, cuentaID uuid.UUID) decimal.Decimal {
	t.Helper()
	cs, err := f.libro.ListarCuentas(f.ctx, f.admin)
	require.NoError(t, err)
	for _, c := range cs {
		if c.ID == cuentaID {
			return c.Saldo
		}
	}
	t.Fatalf("cuenta %s no encontrada", cuentaID)
	return decimal.Zero
}

func (f *fixture) recibir(t *testing.T, productoID uuid.UUID, n int) *dto.EntradaResponse {
	t.Helper()
	e, err := f.inv.RecibirStock(f.ctx, f.admin, dto.RecibirStockRequest{
		ProductoInfoID: productoID,
		Proveedor:      "Proveedor SA",
		Comprador:      "Compras",
		MetodoPago:     model.PagoEfectivo,
		Cantidad:       n,
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) mover(t *testing.T, productoID, areaID uuid.UUID, n int) *dto.SalidaResponse {
	t.Helper()
	s, err := f.inv.MoverAArea(f.ctx, f.admin, dto.MoverAAreaRequest{
		ProductoInfoID: productoID,
		AreaID:         areaID,
		Selector:       dto.Selector{Cantidad: n},
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) venderEfectivo(t *testing.T, productoID, areaID uuid.UUID, n int) *dto.VentaResponse {
	t.Helper()
	v, err := f.inv.Vender(f.ctx, f.admin, dto.VenderRequest{
		ProductoInfoID: productoID,
		AreaID:         areaID,
		MetodoPago:     model.PagoEfectivo,
		Selector:       dto.Selector{Cantidad: n},
	})
	require.NoError(t, err)
	return v
}

// resumen returns the stock summary of one SKU; the zero value when it has no
// units at all.
func (f *fixture) resumen(t *testing.T, productoID uuid.UUID) dto.ResumenStock {
	t.Helper()
	rs, err := f.inv.ResumenStock(f.ctx, f.admin, &productoID)
	require.NoError(t, err)
	if len(rs) == 0 {
		return dto.ResumenStock{}
	}
	require.Len(t, rs, 1)
	return rs[0]
}

func enArea(r dto.ResumenStock, areaID uuid.UUID) int {
	for _, a := range r.Areas {
		if a.AreaID == areaID {
			return a.Cantidad
		}
	}
	return 0
}

// unidades lists the units of a SKU ordered by ID.
func (f *fixture) unidades(t *testing.T, productoID uuid.UUID) []dto.UnidadResponse {
	t.Helper()
	l, err := f.inv.ListarUnidades(f.ctx, f.admin, dto.UnidadFilter{ProductoInfoID: productoID.String(), Page: 1, Limit: 200})
	require.NoError(t, err)
	return l.Data
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

// ── Fakes ─────────────────────────────────────────────────────────────────────

type colaFalsa struct {
	jobs []dto.ReporteEmailJob
	err  error
}

func (c *colaFalsa) EncolarReporte(_ context.Context, job dto.ReporteEmailJob) error {
	if c.err != nil {
		return c.err
	}
	c.jobs = append(c.jobs, job)
	return nil
}

type renderFalso struct{}

func (renderFalso) GananciasPDF(r *dto.ReporteGanancias) ([]byte, error) {
	return []byte("%PDF neto=" + r.Neto.StringFixed(2)), nil
}

func (renderFalso) GananciasXLSX(r *dto.ReporteGanancias) ([]byte, error) {
	return []byte("PK neto=" + r.Neto.StringFixed(2)), nil
}
