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

// ── Entradas ──────────────────────────────────────────────────────────────────

func TestRecibirStock_CantidadPlana(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "2")

	e := f.recibir(t, x1, 5)

	assert.Equal(t, 5, e.Cantidad)
	require.Len(t, e.Unidades, 1)
	assert.Equal(t, "1-5", e.Unidades[0].Rango)
	assert.Nil(t, e.TransaccionID)

	us := f.unidades(t, x1)
	require.Len(t, us, 5)
	for _, u := range us {
		assert.Equal(t, string(model.EstadoAlmacen), u.Estado)
		assert.Nil(t, u.AreaID)
		assert.Nil(t, u.DocumentoID)
	}
	assert.Equal(t, 5, f.resumen(t, x1).Almacen)
}

func TestRecibirStock_PorVariantes(t *testing.T) {
	f := newFixture(t)
	zap := f.producto(t, "ZAP-01", "30", "80", "5")
	rojo, azul := "rojo", "azul"
	m, l := "M", "L"

	e, err := f.inv.RecibirStock(f.ctx, f.admin, dto.RecibirStockRequest{
		ProductoInfoID: zap,
		Proveedor:      "Calzados",
		Comprador:      "Ana",
		MetodoPago:     model.PagoEfectivo,
		Variantes: []dto.VarianteRequest{
			{Color: &rojo, Talla: &m, Cantidad: 3},
			{Color: &azul, Talla: &l, Cantidad: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, e.Cantidad)
	require.Len(t, e.Unidades, 2)
	assert.Equal(t, "1-3", e.Unidades[0].Rango)
	assert.Equal(t, "rojo", *e.Unidades[0].Color)
	assert.Equal(t, "4-5", e.Unidades[1].Rango)
	assert.Equal(t, "L", *e.Unidades[1].Talla)

	// the next entry continues the ID sequence
	e2 := f.recibir(t, zap, 2)
	assert.Equal(t, "6-7", e2.Unidades[0].Rango)
}

func TestRecibirStock_CantidadYVariantesEsValidacion(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")

	cases := map[string]dto.RecibirStockRequest{
		"ambas":   {ProductoInfoID: x1, Cantidad: 2, Variantes: []dto.VarianteRequest{{Cantidad: 1}}},
		"ninguna": {ProductoInfoID: x1},
	}
	for name, req := range cases {
		req.Proveedor, req.Comprador, req.MetodoPago = "P", "C", model.PagoEfectivo
		_, err := f.inv.RecibirStock(f.ctx, f.admin, req)
		assert.True(t, apierror.Is(err, apierror.KindValidacion), name)
	}
	assert.Empty(t, f.unidades(t, x1))
}

func TestRecibirStock_VendedorNoPuede(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")

	_, err := f.inv.RecibirStock(f.ctx, f.como(auth.RolVendedor), dto.RecibirStockRequest{
		ProductoInfoID: x1, Proveedor: "P", Comprador: "C", MetodoPago: model.PagoEfectivo, Cantidad: 1,
	})
	assert.True(t, apierror.Is(err, apierror.KindProhibido))
}

func TestRecibirStock_PagaDesdeCuentaYEliminarLoDevuelve(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	banco := f.cuenta(t, "Banco", "1000")

	e, err := f.inv.RecibirStock(f.ctx, f.admin, dto.RecibirStockRequest{
		ProductoInfoID: x1, Proveedor: "P", Comprador: "C", MetodoPago: model.PagoTransferencia,
		Cantidad: 5, CuentaID: &banco,
	})
	require.NoError(t, err)
	require.NotNil(t, e.TransaccionID)
	assert.True(t, d("950").Equal(f.saldo(t, banco)))

	require.NoError(t, f.inv.EliminarEntrada(f.ctx, f.admin, e.ID))
	assert.True(t, d("1000").Equal(f.saldo(t, banco)))
	assert.Empty(t, f.unidades(t, x1))
}

func TestRecibirStock_SinFondosNoCreaUnidades(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	banco := f.cuenta(t, "Banco", "50")

	// 5 x 10 would leave the account at exactly zero
	_, err := f.inv.RecibirStock(f.ctx, f.admin, dto.RecibirStockRequest{
		ProductoInfoID: x1, Proveedor: "P", Comprador: "C", MetodoPago: model.PagoTransferencia,
		Cantidad: 5, CuentaID: &banco,
	})
	assert.True(t, apierror.Is(err, apierror.KindFondosInsuficientes))
	assert.Empty(t, f.unidades(t, x1))
	assert.True(t, d("50").Equal(f.saldo(t, banco)))
}

func TestEliminarEntrada_ConUnidadesMovidasEsConflicto(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	piso := f.area(t, "Piso 1")
	e := f.recibir(t, x1, 3)
	f.mover(t, x1, piso, 1)

	err := f.inv.EliminarEntrada(f.ctx, f.admin, e.ID)
	assert.True(t, apierror.Is(err, apierror.KindConflicto))
	assert.Len(t, f.unidades(t, x1), 3)
}

// ── Salidas, ventas y transferencias ──────────────────────────────────────────

func TestEscenarioX1_RecibirMoverVender(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "2")
	piso := f.area(t, "Floor-1")

	f.recibir(t, x1, 5)
	f.mover(t, x1, piso, 3)
	v := f.venderEfectivo(t, x1, piso, 2)

	assert.True(t, d("50").Equal(v.Total))
	assert.True(t, d("50").Equal(v.Efectivo))
	assert.True(t, v.Transferencia.IsZero())
	assert.Nil(t, v.TransaccionID)

	r := f.resumen(t, x1)
	assert.Equal(t, 1, enArea(r, piso))
	assert.Equal(t, 2, r.Almacen)
	assert.Equal(t, 2, r.Vendidas)
}

func TestMoverAArea_StockInsuficienteNoCambiaNada(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	piso := f.area(t, "Piso 1")
	f.recibir(t, x1, 8)

	_, err := f.inv.MoverAArea(f.ctx, f.admin, dto.MoverAAreaRequest{
		ProductoInfoID: x1, AreaID: piso, Selector: dto.Selector{Cantidad: 10},
	})
	assert.True(t, apierror.Is(err, apierror.KindStockInsuficiente))

	r := f.resumen(t, x1)
	assert.Equal(t, 8, r.Almacen)
	assert.Equal(t, 0, enArea(r, piso))
}

func TestMoverAArea_PorIDsValidaTodoAntesDeMover(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	otro := f.producto(t, "X2", "10", "25", "0")
	piso := f.area(t, "Piso 1")
	f.recibir(t, x1, 3)  // units 1-3
	f.recibir(t, otro, 1) // unit 4
	f.mover(t, x1, piso, 1)

	cases := []struct {
		name string
		ids  []uint64
		kind apierror.Kind
	}{
		{"desconocida", []uint64{2, 99}, apierror.KindNoEncontrado},
		{"otro producto", []uint64{2, 4}, apierror.KindValidacion},
		{"ya en area", []uint64{1, 2}, apierror.KindStockInsuficiente},
		{"repetida", []uint64{2, 2}, apierror.KindValidacion},
	}
	for _, tc := range cases {
		_, err := f.inv.MoverAArea(f.ctx, f.admin, dto.MoverAAreaRequest{
			ProductoInfoID: x1, AreaID: piso, Selector: dto.Selector{UnidadIDs: tc.ids},
		})
		assert.True(t, apierror.Is(err, tc.kind), "%s: %v", tc.name, err)
	}

	r := f.resumen(t, x1)
	assert.Equal(t, 2, r.Almacen)
	assert.Equal(t, 1, enArea(r, piso))
}

func TestMoverAArea_SelectorAmbiguoEsValidacion(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	piso := f.area(t, "Piso 1")
	f.recibir(t, x1, 2)

	_, err := f.inv.MoverAArea(f.ctx, f.admin, dto.MoverAAreaRequest{
		ProductoInfoID: x1, AreaID: piso, Selector: dto.Selector{UnidadIDs: []uint64{1}, Cantidad: 1},
	})
	assert.True(t, apierror.Is(err, apierror.KindValidacion))
}

func TestMoverAArea_AreaDeCafeteriaNoManejaUnidades(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	caf, err := f.cat.CrearArea(f.ctx, f.admin, dto.CrearAreaRequest{Nombre: "Cafe", Tipo: model.AreaCafeteria})
	require.NoError(t, err)
	f.recibir(t, x1, 1)

	_, err = f.inv.MoverAArea(f.ctx, f.admin, dto.MoverAAreaRequest{
		ProductoInfoID: x1, AreaID: caf.ID, Selector: dto.Selector{Cantidad: 1},
	})
	assert.True(t, apierror.Is(err, apierror.KindValidacion))
}

func TestRevertirSalida_YRepetirDaElMismoEstado(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	piso := f.area(t, "Piso 1")
	f.recibir(t, x1, 4)

	s1 := f.mover(t, x1, piso, 2)
	require.NoError(t, f.inv.RevertirSalida(f.ctx, f.admin, s1.ID))
	assert.Equal(t, 4, f.resumen(t, x1).Almacen)

	s2 := f.mover(t, x1, piso, 2)
	assert.Equal(t, s1.UnidadIDs, s2.UnidadIDs)
	r := f.resumen(t, x1)
	assert.Equal(t, 2, r.Almacen)
	assert.Equal(t, 2, enArea(r, piso))
}

func TestRevertirSalida_UnidadTransferidaEsConflicto(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	a := f.area(t, "Piso A")
	b := f.area(t, "Piso B")
	f.recibir(t, x1, 2)
	s := f.mover(t, x1, a, 2)

	_, err := f.inv.Transferir(f.ctx, f.admin, dto.TransferirRequest{
		ProductoInfoID: x1, DesdeAreaID: a, HaciaAreaID: b, Selector: dto.Selector{UnidadIDs: []uint64{1}},
	})
	require.NoError(t, err)

	err = f.inv.RevertirSalida(f.ctx, f.admin, s.ID)
	assert.True(t, apierror.Is(err, apierror.KindConflicto))

	r := f.resumen(t, x1)
	assert.Equal(t, 1, enArea(r, a))
	assert.Equal(t, 1, enArea(r, b))
	assert.Equal(t, 0, r.Almacen)
}

func TestVender_YRevertirVuelveALaMismaArea(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	a := f.area(t, "Piso A")
	b := f.area(t, "Piso B")
	f.recibir(t, x1, 4)
	f.mover(t, x1, a, 2) // 1, 2
	f.mover(t, x1, b, 2) // 3, 4

	v, err := f.inv.Vender(f.ctx, f.admin, dto.VenderRequest{
		ProductoInfoID: x1, AreaID: b, MetodoPago: model.PagoEfectivo, Selector: dto.Selector{UnidadIDs: []uint64{3}},
	})
	require.NoError(t, err)
	require.NoError(t, f.inv.RevertirVenta(f.ctx, f.admin, v.ID))

	u := f.unidades(t, x1)[2]
	assert.Equal(t, uint64(3), u.ID)
	assert.Equal(t, string(model.EstadoArea), u.Estado)
	require.NotNil(t, u.AreaID)
	assert.Equal(t, b, *u.AreaID)
	assert.Equal(t, 2, enArea(f.resumen(t, x1), b))
}

func TestVender_UnidadDeOtraAreaAbortaTodo(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	a := f.area(t, "Piso A")
	b := f.area(t, "Piso B")
	f.recibir(t, x1, 2)
	f.mover(t, x1, a, 1) // 1
	f.mover(t, x1, b, 1) // 2

	_, err := f.inv.Vender(f.ctx, f.admin, dto.VenderRequest{
		ProductoInfoID: x1, AreaID: a, MetodoPago: model.PagoEfectivo, Selector: dto.Selector{UnidadIDs: []uint64{1, 2}},
	})
	assert.True(t, apierror.Is(err, apierror.KindStockInsuficiente))
	assert.Equal(t, 0, f.resumen(t, x1).Vendidas)
}

func TestVender_TransferenciaDepositaYRevertirLaDescuenta(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	piso := f.area(t, "Piso 1")
	banco := f.cuenta(t, "Banco", "10")
	f.recibir(t, x1, 2)
	f.mover(t, x1, piso, 2)

	v, err := f.inv.Vender(f.ctx, f.admin, dto.VenderRequest{
		ProductoInfoID: x1, AreaID: piso, MetodoPago: model.PagoTransferencia, CuentaID: &banco,
		Selector: dto.Selector{Cantidad: 2},
	})
	require.NoError(t, err)
	require.NotNil(t, v.TransaccionID)
	assert.True(t, d("60").Equal(f.saldo(t, banco)))

	require.NoError(t, f.inv.RevertirVenta(f.ctx, f.admin, v.ID))
	assert.True(t, d("10").Equal(f.saldo(t, banco)))
	assert.Equal(t, 2, enArea(f.resumen(t, x1), piso))
}

func TestRevertirVenta_DepositoYaGastadoFalla(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	piso := f.area(t, "Piso 1")
	banco := f.cuenta(t, "Banco", "10")
	f.recibir(t, x1, 2)
	f.mover(t, x1, piso, 2)

	v, err := f.inv.Vender(f.ctx, f.admin, dto.VenderRequest{
		ProductoInfoID: x1, AreaID: piso, MetodoPago: model.PagoTransferencia, CuentaID: &banco,
		Selector: dto.Selector{Cantidad: 2},
	})
	require.NoError(t, err)
	_, err = f.libro.Extraer(f.ctx, f.admin, banco, dto.MovimientoCuentaRequest{Monto: d("55"), Descripcion: "proveedor"})
	require.NoError(t, err)

	err = f.inv.RevertirVenta(f.ctx, f.admin, v.ID)
	assert.True(t, apierror.Is(err, apierror.KindFondosInsuficientes))
	assert.Equal(t, 2, f.resumen(t, x1).Vendidas)
	assert.True(t, d("5").Equal(f.saldo(t, banco)))
}

func TestVender_PagoMixto(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	piso := f.area(t, "Piso 1")
	banco := f.cuenta(t, "Banco", "1")
	f.recibir(t, x1, 4)
	f.mover(t, x1, piso, 4)

	_, err := f.inv.Vender(f.ctx, f.admin, dto.VenderRequest{
		ProductoInfoID: x1, AreaID: piso, MetodoPago: model.PagoMixto, CuentaID: &banco,
		Efectivo: dp("20"), Transferencia: dp("20"), Selector: dto.Selector{Cantidad: 2},
	})
	assert.True(t, apierror.Is(err, apierror.KindValidacion))

	v, err := f.inv.Vender(f.ctx, f.admin, dto.VenderRequest{
		ProductoInfoID: x1, AreaID: piso, MetodoPago: model.PagoMixto, CuentaID: &banco,
		Efectivo: dp("20"), Transferencia: dp("30"), Selector: dto.Selector{Cantidad: 2},
	})
	require.NoError(t, err)
	assert.True(t, d("20").Equal(v.Efectivo))
	assert.True(t, d("30").Equal(v.Transferencia))
	assert.True(t, d("31").Equal(f.saldo(t, banco)))
}

func TestVender_VendedorDeOtraArea(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	a := f.area(t, "Piso A")
	b := f.area(t, "Piso B")
	f.recibir(t, x1, 1)
	f.mover(t, x1, a, 1)

	vendedor := auth.Identidad{UsuarioID: uuid.New(), Rol: auth.RolVendedor, AreaID: &b}
	_, err := f.inv.Vender(f.ctx, vendedor, dto.VenderRequest{
		ProductoInfoID: x1, AreaID: a, MetodoPago: model.PagoEfectivo, Selector: dto.Selector{Cantidad: 1},
	})
	assert.True(t, apierror.Is(err, apierror.KindProhibido))

	vendedor.AreaID = &a
	_, err = f.inv.Vender(f.ctx, vendedor, dto.VenderRequest{
		ProductoInfoID: x1, AreaID: a, MetodoPago: model.PagoEfectivo, Selector: dto.Selector{Cantidad: 1},
	})
	assert.NoError(t, err)
}

func TestTransferir_YRevertir(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	a := f.area(t, "Piso A")
	b := f.area(t, "Piso B")
	f.recibir(t, x1, 3)
	f.mover(t, x1, a, 3)

	_, err := f.inv.Transferir(f.ctx, f.admin, dto.TransferirRequest{
		ProductoInfoID: x1, DesdeAreaID: a, HaciaAreaID: a, Selector: dto.Selector{Cantidad: 1},
	})
	assert.True(t, apierror.Is(err, apierror.KindValidacion))

	tr, err := f.inv.Transferir(f.ctx, f.admin, dto.TransferirRequest{
		ProductoInfoID: x1, DesdeAreaID: a, HaciaAreaID: b, Selector: dto.Selector{Cantidad: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, tr.UnidadIDs)
	assert.Equal(t, 2, enArea(f.resumen(t, x1), b))

	require.NoError(t, f.inv.RevertirTransferencia(f.ctx, f.admin, tr.ID))
	r := f.resumen(t, x1)
	assert.Equal(t, 3, enArea(r, a))
	assert.Equal(t, 0, enArea(r, b))
}

// ── Ajustes ───────────────────────────────────────────────────────────────────

func TestAjustarInventario_YRevertir(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	piso := f.area(t, "Piso 1")
	f.recibir(t, x1, 3)
	f.mover(t, x1, piso, 1)

	aj, err := f.inv.AjustarInventario(f.ctx, f.admin, dto.AjustarInventarioRequest{
		Motivo: "conteo fisico",
		Items: []dto.AjusteItemRequest{
			{ProductoInfoID: x1, Origen: model.OrigenAlmacen, Selector: dto.Selector{Cantidad: 2}},
			{ProductoInfoID: x1, Origen: model.OrigenArea, AreaID: &piso, Selector: dto.Selector{Cantidad: 1}},
		},
	})
	require.NoError(t, err)
	require.Len(t, aj.Items, 2)
	assert.Equal(t, 3, f.resumen(t, x1).Ajustadas)

	err = f.inv.RevertirAjuste(f.ctx, f.como(auth.RolAlmacenero), aj.ID)
	assert.True(t, apierror.Is(err, apierror.KindProhibido))

	require.NoError(t, f.inv.RevertirAjuste(f.ctx, f.admin, aj.ID))
	r := f.resumen(t, x1)
	assert.Equal(t, 2, r.Almacen)
	assert.Equal(t, 1, enArea(r, piso))
	assert.Equal(t, 0, r.Ajustadas)
}

func TestAjustarInventario_ItemsNoCompartenUnidades(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	f.recibir(t, x1, 3)

	_, err := f.inv.AjustarInventario(f.ctx, f.admin, dto.AjustarInventarioRequest{
		Motivo: "rotura",
		Items: []dto.AjusteItemRequest{
			{ProductoInfoID: x1, Origen: model.OrigenAlmacen, Selector: dto.Selector{Cantidad: 2}},
			{ProductoInfoID: x1, Origen: model.OrigenAlmacen, Selector: dto.Selector{Cantidad: 2}},
		},
	})
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.KindStockInsuficiente))
	assert.Contains(t, err.Error(), "item 2")
	assert.Equal(t, 3, f.resumen(t, x1).Almacen)
}

// ── Helpers puros ─────────────────────────────────────────────────────────────

func TestComprimirRangos(t *testing.T) {
	cases := []struct {
		ids  []uint64
		want string
	}{
		{nil, ""},
		{[]uint64{7}, "7"},
		{[]uint64{7, 8, 9, 10, 11, 12}, "7-12"},
		{[]uint64{12, 11, 9, 3, 4, 5}, "3-5,9,11-12"},
		{[]uint64{2, 2, 3}, "2-3"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ComprimirRangos(tc.ids), "%v", tc.ids)
	}
}

func TestResolverPago(t *testing.T) {
	cuenta := uuid.New()
	total := d("100")

	p, err := resolverPago(model.PagoEfectivo, total, nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, total.Equal(p.efectivo))
	assert.Nil(t, p.cuentaID)

	_, err = resolverPago(model.PagoTransferencia, total, nil, nil, nil)
	assert.True(t, apierror.Is(err, apierror.KindValidacion))

	p, err = resolverPago(model.PagoTransferencia, total, nil, nil, &cuenta)
	require.NoError(t, err)
	assert.True(t, total.Equal(p.transferencia))

	// mixed with no transfer part needs no account
	p, err = resolverPago(model.PagoMixto, total, dp("100"), dp("0"), nil)
	require.NoError(t, err)
	assert.Nil(t, p.cuentaID)

	for name, args := range map[string][2]string{
		"suma distinta": {"60", "30"},
		"negativo":      {"120", "-20"},
	} {
		_, err = resolverPago(model.PagoMixto, total, dp(args[0]), dp(args[1]), &cuenta)
		assert.True(t, apierror.Is(err, apierror.KindValidacion), name)
	}
	_, err = resolverPago(model.PagoMixto, total, dp("40"), dp("60"), nil)
	assert.True(t, apierror.Is(err, apierror.KindValidacion))
	_, err = resolverPago("cheque", total, nil, nil, nil)
	assert.True(t, apierror.Is(err, apierror.KindValidacion))
}

func TestListarUnidades_LimiteAcotado(t *testing.T) {
	f := newFixture(t)
	x1 := f.producto(t, "X1", "10", "25", "0")
	f.recibir(t, x1, 3)

	l, err := f.inv.ListarUnidades(f.ctx, f.admin, dto.UnidadFilter{ProductoInfoID: x1.String(), Page: 1, Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, 200, l.Limit)
	assert.Len(t, l.Data, 3)

	l, err = f.inv.ListarUnidades(f.ctx, f.admin, dto.UnidadFilter{ProductoInfoID: x1.String()})
	require.NoError(t, err)
	assert.Equal(t, 100, l.Limit)
	assert.Equal(t, 1, l.Page)
}
