package service

import (
	"testing"

	"tiendapos/internal/apierror"
	"tiendapos/internal/auth"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cafeteriaEscenario struct {
	cafe, leche, galleta uuid.UUID
	cortado              uuid.UUID
}

// nuevaCafeteria stocks the counter with coffee, milk and cookies and
// registers a "cortado" recipe costing 0.40 plus 1.00 of labor.
func nuevaCafeteria(t *testing.T, f *fixture) cafeteriaEscenario {
	t.Helper()
	crear := func(nombre, unidad, costo, venta, recibir, mover string) uuid.UUID {
		p, err := f.caf.CrearProducto(f.ctx, f.admin, dto.CrearProductoCafeteriaRequest{
			Nombre: nombre, Unidad: unidad, PrecioCosto: d(costo), PrecioVenta: d(venta),
		})
		require.NoError(t, err)
		_, err = f.caf.RecibirProducto(f.ctx, f.admin, dto.RecibirCafeteriaRequest{
			ProductoCafeteriaID: p.ID, Cantidad: d(recibir), Proveedor: "Mayorista", MetodoPago: model.PagoEfectivo,
		})
		require.NoError(t, err)
		_, err = f.caf.MoverAArea(f.ctx, f.admin, dto.MoverCafeteriaRequest{ProductoCafeteriaID: p.ID, Cantidad: d(mover)})
		require.NoError(t, err)
		return p.ID
	}
	e := cafeteriaEscenario{
		cafe:    crear("Cafe", "kg", "10", "0", "2", "1"),
		leche:   crear("Leche", "l", "2", "0", "5", "3"),
		galleta: crear("Galleta", "u", "1", "3", "10", "10"),
	}
	el, err := f.caf.CrearElaboracion(f.ctx, f.admin, dto.CrearElaboracionRequest{
		Nombre: "Cortado", PrecioVenta: d("5"), ManoObra: d("1"),
		Ingredientes: []dto.IngredienteRequest{
			{ProductoCafeteriaID: e.cafe, Cantidad: d("0.02")},
			{ProductoCafeteriaID: e.leche, Cantidad: d("0.1")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "0.40", el.Costo.StringFixed(2))
	e.cortado = el.ID
	return e
}

func (f *fixture) cafProducto(t *testing.T, id uuid.UUID) dto.ProductoCafeteriaResponse {
	t.Helper()
	ps, err := f.caf.ListarProductos(f.ctx, f.admin)
	require.NoError(t, err)
	for _, p := range ps {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("producto de cafeteria %s no encontrado", id)
	return dto.ProductoCafeteriaResponse{}
}

func (e cafeteriaEscenario) venta(cortados, galletas string) []dto.VentaCafeteriaItemRequest {
	return []dto.VentaCafeteriaItemRequest{
		{ElaboracionID: &e.cortado, Cantidad: d(cortados)},
		{ProductoCafeteriaID: &e.galleta, Cantidad: d(galletas)},
	}
}

func TestCafeteria_MoverAAreaSinStock(t *testing.T) {
	f := newFixture(t)
	e := nuevaCafeteria(t, f)

	_, err := f.caf.MoverAArea(f.ctx, f.admin, dto.MoverCafeteriaRequest{ProductoCafeteriaID: e.cafe, Cantidad: d("1.5")})
	assert.True(t, apierror.Is(err, apierror.KindStockInsuficiente))

	p := f.cafProducto(t, e.cafe)
	assert.Equal(t, "1.00", p.CantidadAlmacen.StringFixed(2))
	assert.Equal(t, "1.00", p.CantidadArea.StringFixed(2))
}

func TestCafeteria_VenderConsumeIngredientes(t *testing.T) {
	f := newFixture(t)
	e := nuevaCafeteria(t, f)

	v, err := f.caf.Vender(f.ctx, f.como(auth.RolCafeteria), dto.VenderCafeteriaRequest{
		Items: e.venta("2", "3"), MetodoPago: model.PagoEfectivo,
	})
	require.NoError(t, err)
	assert.Equal(t, "19.00", v.Total.StringFixed(2))
	assert.Equal(t, "19.00", v.Efectivo.StringFixed(2))

	assert.Equal(t, "0.96", f.cafProducto(t, e.cafe).CantidadArea.StringFixed(2))
	assert.Equal(t, "2.80", f.cafProducto(t, e.leche).CantidadArea.StringFixed(2))
	assert.Equal(t, "7.00", f.cafProducto(t, e.galleta).CantidadArea.StringFixed(2))

	require.NoError(t, f.caf.RevertirVenta(f.ctx, f.admin, v.ID))
	assert.Equal(t, "1.00", f.cafProducto(t, e.cafe).CantidadArea.StringFixed(2))
	assert.Equal(t, "10.00", f.cafProducto(t, e.galleta).CantidadArea.StringFixed(2))
}

func TestCafeteria_VenderSinStockNoConsumeNada(t *testing.T) {
	f := newFixture(t)
	e := nuevaCafeteria(t, f)

	_, err := f.caf.Vender(f.ctx, f.admin, dto.VenderCafeteriaRequest{
		Items: e.venta("1", "11"), MetodoPago: model.PagoEfectivo,
	})
	assert.True(t, apierror.Is(err, apierror.KindStockInsuficiente))
	assert.Equal(t, "1.00", f.cafProducto(t, e.cafe).CantidadArea.StringFixed(2))
	assert.Equal(t, "10.00", f.cafProducto(t, e.galleta).CantidadArea.StringFixed(2))
}

func TestCafeteria_VendedorDeTiendaNoVende(t *testing.T) {
	f := newFixture(t)
	e := nuevaCafeteria(t, f)

	_, err := f.caf.Vender(f.ctx, f.como(auth.RolVendedor), dto.VenderCafeteriaRequest{
		Items: e.venta("1", "1"), MetodoPago: model.PagoEfectivo,
	})
	assert.True(t, apierror.Is(err, apierror.KindProhibido))
}

func TestCafeteria_TransferenciaYRecepcionConCuenta(t *testing.T) {
	f := newFixture(t)
	e := nuevaCafeteria(t, f)
	banco := f.cuenta(t, "Banco", "100")

	_, err := f.caf.RecibirProducto(f.ctx, f.admin, dto.RecibirCafeteriaRequest{
		ProductoCafeteriaID: e.galleta, Cantidad: d("20"), Proveedor: "Mayorista",
		MetodoPago: model.PagoTransferencia, CuentaID: &banco,
	})
	require.NoError(t, err)
	assert.True(t, d("80").Equal(f.saldo(t, banco)))
	assert.Equal(t, "20.00", f.cafProducto(t, e.galleta).CantidadAlmacen.StringFixed(2))

	v, err := f.caf.Vender(f.ctx, f.admin, dto.VenderCafeteriaRequest{
		Items: e.venta("1", "1"), MetodoPago: model.PagoTransferencia, CuentaID: &banco,
	})
	require.NoError(t, err)
	require.NotNil(t, v.TransaccionID)
	assert.True(t, d("88").Equal(f.saldo(t, banco)))

	require.NoError(t, f.caf.RevertirVenta(f.ctx, f.admin, v.ID))
	assert.True(t, d("80").Equal(f.saldo(t, banco)))
}

func TestCafeteria_ElaboracionInvalida(t *testing.T) {
	f := newFixture(t)
	e := nuevaCafeteria(t, f)

	_, err := f.caf.CrearElaboracion(f.ctx, f.admin, dto.CrearElaboracionRequest{
		Nombre: "Doble", PrecioVenta: d("6"),
		Ingredientes: []dto.IngredienteRequest{
			{ProductoCafeteriaID: e.cafe, Cantidad: d("0.02")},
			{ProductoCafeteriaID: e.cafe, Cantidad: d("0.02")},
		},
	})
	assert.True(t, apierror.Is(err, apierror.KindValidacion))

	_, err = f.caf.CrearElaboracion(f.ctx, f.admin, dto.CrearElaboracionRequest{
		Nombre: "Fantasma", PrecioVenta: d("6"),
		Ingredientes: []dto.IngredienteRequest{{ProductoCafeteriaID: uuid.New(), Cantidad: d("1")}},
	})
	assert.True(t, apierror.Is(err, apierror.KindNoEncontrado))
}

func TestGananciasCafeteria_CuentaCasaSeRestaAparte(t *testing.T) {
	f := newFixture(t)
	e := nuevaCafeteria(t, f)

	_, err := f.caf.Vender(f.ctx, f.admin, dto.VenderCafeteriaRequest{Items: e.venta("2", "3"), MetodoPago: model.PagoEfectivo})
	require.NoError(t, err)
	casa, err := f.caf.Vender(f.ctx, f.admin, dto.VenderCafeteriaRequest{
		Items:      []dto.VentaCafeteriaItemRequest{{ElaboracionID: &e.cortado, Cantidad: d("1")}},
		MetodoPago: model.PagoEfectivo,
		CuentaCasa: true,
	})
	require.NoError(t, err)
	assert.True(t, casa.Efectivo.IsZero())

	_, err = f.gastos.RegistrarGastoVariable(f.ctx, f.admin, dto.RegistrarGastoVariableRequest{
		Descripcion: "Servilletas", Monto: d("0.80"), Fecha: f.ahora, Cafeteria: true,
	})
	require.NoError(t, err)

	rep, err := f.rep.GananciasCafeteria(f.ctx, f.admin, marzo().Desde, marzo().Hasta)
	require.NoError(t, err)
	assert.Equal(t, "19.00", rep.Ingresos.StringFixed(2))
	assert.Equal(t, "3.80", rep.CostoIngredientes.StringFixed(2))
	assert.Equal(t, "2.00", rep.ManoObra.StringFixed(2))
	assert.Equal(t, "1.40", rep.CuentaCasa.StringFixed(2))
	assert.Equal(t, "19.00", rep.Efectivo.StringFixed(2))
	assert.Equal(t, "0.80", rep.GastosVariables.StringFixed(2))
	assert.Equal(t, "11.00", rep.Neto.StringFixed(2))

	// the store report ignores the cafeteria entirely
	tienda, err := f.rep.Ganancias(f.ctx, f.admin, marzo())
	require.NoError(t, err)
	assert.True(t, tienda.Bruto.IsZero())
	assert.True(t, tienda.GastosVariables.IsZero())
}
