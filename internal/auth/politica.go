// Package auth carries the caller identity into the services and holds the
// role capability table checked at every service boundary.
package auth

import (
	"tiendapos/internal/apierror"

	"github.com/google/uuid"
)

// Roles
const (
	RolAdministrador = "administrador"
	RolAlmacenero    = "almacenero"
	RolVendedor      = "vendedor"
	RolCafeteria     = "cafeteria"
)

// Roles lists every valid role (used by DTO validation and the seed command).
var Roles = []string{RolAdministrador, RolAlmacenero, RolVendedor, RolCafeteria}

// Identidad is the authenticated caller as seen by the services.
// AreaID restricts a seller to one sales floor; nil means unrestricted.
type Identidad struct {
	UsuarioID uuid.UUID
	Rol       string
	AreaID    *uuid.UUID
}

// Operacion names a guarded service operation.
type Operacion string

const (
	OpRecibirStock          Operacion = "recibir_stock"
	OpEliminarEntrada       Operacion = "eliminar_entrada"
	OpMoverAArea            Operacion = "mover_a_area"
	OpRevertirSalida        Operacion = "revertir_salida"
	OpVender                Operacion = "vender"
	OpRevertirVenta         Operacion = "revertir_venta"
	OpTransferir            Operacion = "transferir"
	OpRevertirTransferencia Operacion = "revertir_transferencia"
	OpAjustarInventario     Operacion = "ajustar_inventario"
	OpRevertirAjuste        Operacion = "revertir_ajuste"
	OpConsultarInventario   Operacion = "consultar_inventario"

	OpGestionarCatalogo Operacion = "gestionar_catalogo"
	OpConsultarCatalogo Operacion = "consultar_catalogo"

	OpGestionarCuentas   Operacion = "gestionar_cuentas"
	OpMovimientoCuenta   Operacion = "movimiento_cuenta"
	OpRevertirMovimiento Operacion = "revertir_movimiento"
	OpConsultarCuentas   Operacion = "consultar_cuentas"

	OpGestionarGastos Operacion = "gestionar_gastos"
	OpVerReportes     Operacion = "ver_reportes"

	OpGestionarCafeteria Operacion = "gestionar_cafeteria"
	OpVenderCafeteria    Operacion = "vender_cafeteria"

	OpGestionarUsuarios Operacion = "gestionar_usuarios"
)

// Politica maps each operation to the roles allowed to run it.
var Politica = map[Operacion][]string{
	OpRecibirStock:          {RolAdministrador, RolAlmacenero},
	OpEliminarEntrada:       {RolAdministrador, RolAlmacenero},
	OpMoverAArea:            {RolAdministrador, RolAlmacenero},
	OpRevertirSalida:        {RolAdministrador, RolAlmacenero},
	OpVender:                {RolAdministrador, RolVendedor},
	OpRevertirVenta:         {RolAdministrador, RolVendedor},
	OpTransferir:            {RolAdministrador, RolAlmacenero},
	OpRevertirTransferencia: {RolAdministrador, RolAlmacenero},
	OpAjustarInventario:     {RolAdministrador, RolAlmacenero},
	OpRevertirAjuste:        {RolAdministrador},
	OpConsultarInventario:   {RolAdministrador, RolAlmacenero, RolVendedor},

	OpGestionarCatalogo: {RolAdministrador},
	OpConsultarCatalogo: {RolAdministrador, RolAlmacenero, RolVendedor, RolCafeteria},

	OpGestionarCuentas:   {RolAdministrador},
	OpMovimientoCuenta:   {RolAdministrador},
	OpRevertirMovimiento: {RolAdministrador},
	OpConsultarCuentas:   {RolAdministrador},

	OpGestionarGastos: {RolAdministrador},
	OpVerReportes:     {RolAdministrador},

	OpGestionarCafeteria: {RolAdministrador, RolCafeteria},
	OpVenderCafeteria:    {RolAdministrador, RolCafeteria},

	OpGestionarUsuarios: {RolAdministrador},
}

// Autorizar returns a Prohibido error unless quien's role may run op.
// Unknown operations are denied.
func Autorizar(quien Identidad, op Operacion) error {
	for _, r := range Politica[op] {
		if r == quien.Rol {
			return nil
		}
	}
	return apierror.Prohibido("el rol %q no puede ejecutar %s", quien.Rol, op)
}

// AutorizarArea rejects callers bound to a different area than areaID.
func AutorizarArea(quien Identidad, areaID uuid.UUID) error {
	if quien.AreaID != nil && *quien.AreaID != areaID {
		return apierror.Prohibido("el usuario no opera en esta area")
	}
	return nil
}

// RolValido reports whether rol is one of Roles.
func RolValido(rol string) bool {
	for _, r := range Roles {
		if r == rol {
			return true
		}
	}
	return false
}
