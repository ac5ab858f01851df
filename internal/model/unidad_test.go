package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUbicar_AreaGuardaAreaYDocumento(t *testing.T) {
	area := uuid.New()
	salida := uuid.New()
	u := ProductoUnidad{ID: 1, Estado: EstadoAlmacen}

	u.Ubicar(EnArea(area), &salida)

	require.NotNil(t, u.AreaID)
	assert.Equal(t, area, *u.AreaID)
	assert.Equal(t, salida, *u.DocumentoID)
	assert.Equal(t, EnArea(area), u.Ubicacion())
}

func TestUbicar_VendidaLimpiaArea(t *testing.T) {
	area := uuid.New()
	venta := uuid.New()
	u := ProductoUnidad{ID: 1, Estado: EstadoArea, AreaID: &area}

	u.Ubicar(Vendida(venta), &venta)

	assert.Nil(t, u.AreaID)
	assert.Equal(t, Vendida(venta), u.Ubicacion())
}

func TestNuevoMovimiento_CapturaOrigen(t *testing.T) {
	area := uuid.New()
	doc := uuid.New()
	u := ProductoUnidad{ID: 7, Estado: EstadoArea, AreaID: &area, DocumentoID: &doc}

	m := NuevoMovimiento(MovVenta, uuid.New(), u)

	assert.Equal(t, uint64(7), m.UnidadID)
	assert.Equal(t, EstadoArea, m.OrigenEstado)
	assert.Equal(t, &area, m.OrigenAreaID)
	assert.Equal(t, &doc, m.OrigenDocumentoID)
}

func TestTransaccionSigno(t *testing.T) {
	in := Transaccion{Tipo: TransaccionIngreso, Monto: decimal.NewFromInt(40)}
	out := Transaccion{Tipo: TransaccionEgreso, Monto: decimal.NewFromInt(40)}

	assert.True(t, in.Signo().Equal(decimal.NewFromInt(40)))
	assert.True(t, out.Signo().Equal(decimal.NewFromInt(-40)))
}
