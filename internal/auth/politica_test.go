package auth

import (
	"testing"

	"tiendapos/internal/apierror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAutorizar_TablaDeRoles(t *testing.T) {
	cases := []struct {
		rol string
		op  Operacion
		ok  bool
	}{
		{RolAdministrador, OpRecibirStock, true},
		{RolAlmacenero, OpRecibirStock, true},
		{RolVendedor, OpRecibirStock, false},
		{RolVendedor, OpVender, true},
		{RolAlmacenero, OpVender, false},
		{RolCafeteria, OpVenderCafeteria, true},
		{RolVendedor, OpMovimientoCuenta, false},
		{RolAlmacenero, OpRevertirAjuste, false},
		{"desconocido", OpConsultarCatalogo, false},
	}
	for _, tc := range cases {
		err := Autorizar(Identidad{UsuarioID: uuid.New(), Rol: tc.rol}, tc.op)
		if tc.ok {
			assert.NoError(t, err, "%s/%s", tc.rol, tc.op)
		} else {
			assert.True(t, apierror.Is(err, apierror.KindProhibido), "%s/%s", tc.rol, tc.op)
		}
	}
}

func TestAutorizar_OperacionSinEntradaSeDeniega(t *testing.T) {
	err := Autorizar(Identidad{Rol: RolAdministrador}, Operacion("inexistente"))
	assert.True(t, apierror.Is(err, apierror.KindProhibido))
}

func TestAutorizarArea(t *testing.T) {
	piso := uuid.New()
	otro := uuid.New()

	assert.NoError(t, AutorizarArea(Identidad{Rol: RolAdministrador}, piso))
	assert.NoError(t, AutorizarArea(Identidad{Rol: RolVendedor, AreaID: &piso}, piso))
	assert.True(t, apierror.Is(AutorizarArea(Identidad{Rol: RolVendedor, AreaID: &piso}, otro), apierror.KindProhibido))
}
