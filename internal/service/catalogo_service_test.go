package service

import (
	"testing"
	"time"

	"tiendapos/internal/apierror"
	"tiendapos/internal/auth"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearProducto_AbreElHistorial(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "2")

	h, err := f.cat.HistorialPrecios(f.ctx, f.admin, x1, 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 1, h.Total)
	assert.Equal(t, "alta", h.Data[0].Motivo)
	assert.True(t, f.ahora.Equal(h.Data[0].VigenteDesde))

	_, err = f.cat.CrearProducto(f.ctx, f.admin, dto.CrearProductoRequest{
		Codigo: "X1", Descripcion: "Repetido", PrecioCosto: d("1"), PrecioVenta: d("2"),
	})
	assert.True(t, apierror.Is(err, apierror.KindConflicto))
}

func TestCrearProducto_PreciosInvalidos(t *testing.T) {
	f := newFixture(t)
	cases := map[string]dto.CrearProductoRequest{
		"costo cero":     {Codigo: "A", Descripcion: "A", PrecioCosto: d("0"), PrecioVenta: d("2")},
		"venta negativa": {Codigo: "B", Descripcion: "B", PrecioCosto: d("1"), PrecioVenta: d("-2")},
		"pago negativo":  {Codigo: "C", Descripcion: "C", PrecioCosto: d("1"), PrecioVenta: d("2"), PagoTrabajador: d("-1")},
	}
	for name, req := range cases {
		_, err := f.cat.CrearProducto(f.ctx, f.admin, req)
		assert.True(t, apierror.Is(err, apierror.KindValidacion), name)
	}

	_, err := f.cat.CrearProducto(f.ctx, f.como(auth.RolAlmacenero), dto.CrearProductoRequest{
		Codigo: "D", Descripcion: "D", PrecioCosto: d("1"), PrecioVenta: d("2"),
	})
	assert.True(t, apierror.Is(err, apierror.KindProhibido))
}

func TestPrecioVigente_TresRegistros(t *testing.T) {
	f := newFixture(t)
	t1 := f.ahora
	x1 := f.producto(t, "X1", "10", "25", "0")

	t2 := t1.Add(48 * time.Hour)
	t3 := t1.Add(96 * time.Hour)
	f.ahora = t2
	_, err := f.cat.ActualizarPrecios(f.ctx, f.admin, x1, dto.ActualizarPreciosRequest{PrecioVenta: dp("30")})
	require.NoError(t, err)
	f.ahora = t3
	p, err := f.cat.ActualizarPrecios(f.ctx, f.admin, x1, dto.ActualizarPreciosRequest{PrecioVenta: dp("40")})
	require.NoError(t, err)
	assert.Equal(t, "40", p.PrecioVenta.String())
	assert.Equal(t, "10", p.PrecioCosto.String())

	cases := []struct {
		asOf time.Time
		want string
	}{
		{t1.Add(-time.Hour), "25"},
		{t1, "25"},
		{t2.Add(time.Hour), "30"},
		{t3, "40"},
		{t3.Add(24 * time.Hour), "40"},
	}
	for _, tc := range cases {
		h, err := f.cat.PrecioVigente(f.ctx, f.admin, x1, tc.asOf)
		require.NoError(t, err)
		assert.Equal(t, tc.want, h.PrecioVenta.String(), tc.asOf.String())
	}

	h, err := f.cat.HistorialPrecios(f.ctx, f.admin, x1, 1, 20)
	require.NoError(t, err)
	require.Len(t, h.Data, 3)
	assert.Equal(t, "40", h.Data[0].PrecioVenta.String())
}

func TestActualizarPrecios_FechaDeVigencia(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")

	f.ahora = f.ahora.Add(72 * time.Hour)
	futura := f.ahora.Add(time.Hour)
	_, err := f.cat.ActualizarPrecios(f.ctx, f.admin, x1, dto.ActualizarPreciosRequest{PrecioVenta: dp("40"), VigenteDesde: &futura})
	assert.True(t, apierror.Is(err, apierror.KindValidacion))

	anterior := f.ahora.Add(-200 * time.Hour)
	_, err = f.cat.ActualizarPrecios(f.ctx, f.admin, x1, dto.ActualizarPreciosRequest{PrecioVenta: dp("40"), VigenteDesde: &anterior})
	assert.True(t, apierror.Is(err, apierror.KindValidacion))

	p, err := f.cat.ObtenerProducto(f.ctx, f.admin, x1)
	require.NoError(t, err)
	assert.Equal(t, "25", p.PrecioVenta.String())

	// backdating within the current record is allowed and takes effect now
	atras := f.ahora.Add(-24 * time.Hour)
	_, err = f.cat.ActualizarPrecios(f.ctx, f.admin, x1, dto.ActualizarPreciosRequest{PrecioVenta: dp("30"), VigenteDesde: &atras})
	require.NoError(t, err)
	h, err := f.cat.PrecioVigente(f.ctx, f.admin, x1, f.ahora)
	require.NoError(t, err)
	assert.Equal(t, "30", h.PrecioVenta.String())
}

func TestActualizarPrecios_SinCambiosEsValidacion(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")

	_, err := f.cat.ActualizarPrecios(f.ctx, f.admin, x1, dto.ActualizarPreciosRequest{})
	assert.True(t, apierror.Is(err, apierror.KindValidacion))

	_, err = f.cat.ActualizarPrecios(f.ctx, f.admin, x1, dto.ActualizarPreciosRequest{PrecioCosto: dp("-1")})
	assert.True(t, apierror.Is(err, apierror.KindValidacion))
	p, err := f.cat.ObtenerProducto(f.ctx, f.admin, x1)
	require.NoError(t, err)
	assert.Equal(t, "10", p.PrecioCosto.String())
}

func TestAreasYCategorias(t *testing.T) {
	f := newFixture(t)

	_, err := f.cat.CrearArea(f.ctx, f.admin, dto.CrearAreaRequest{Nombre: "Deposito", Tipo: "sotano"})
	assert.True(t, apierror.Is(err, apierror.KindValidacion))

	f.area(t, "Piso 1")
	_, err = f.cat.CrearArea(f.ctx, f.admin, dto.CrearAreaRequest{Nombre: "Cafe", Tipo: model.AreaCafeteria})
	require.NoError(t, err)
	as, err := f.cat.ListarAreas(f.ctx, f.como(auth.RolVendedor))
	require.NoError(t, err)
	assert.Len(t, as, 2)

	c, err := f.cat.CrearCategoria(f.ctx, f.admin, dto.CrearCategoriaRequest{Nombre: "Calzado"})
	require.NoError(t, err)
	p, err := f.cat.CrearProducto(f.ctx, f.admin, dto.CrearProductoRequest{
		Codigo: "ZAP", Descripcion: "Zapatilla", CategoriaID: &c.ID, PrecioCosto: d("30"), PrecioVenta: d("80"),
	})
	require.NoError(t, err)
	assert.Equal(t, c.ID, *p.CategoriaID)
}
