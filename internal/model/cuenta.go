package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cuenta is a cash box or bank account. Saldo only changes together with a
// Transaccion row in the same database transaction.
// Tipo: "efectivo" | "banco"
type Cuenta struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string          `gorm:"uniqueIndex;not null"`
	Tipo      string          `gorm:"type:varchar(20);not null"`
	Banco     *string
	Saldo     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Activo    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cuenta) TableName() string { return "cuentas" }

const (
	TransaccionIngreso = "ingreso"
	TransaccionEgreso  = "egreso"
)

// Transaccion is a ledger row. Monto is always positive; Tipo carries the sign.
type Transaccion struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CuentaID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo        string          `gorm:"type:varchar(10);not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Descripcion string          `gorm:"not null"`
	// Referencias al documento que origino el movimiento
	VentaID               *uuid.UUID `gorm:"type:uuid;index"`
	VentaCafeteriaID      *uuid.UUID `gorm:"type:uuid;index"`
	EntradaID             *uuid.UUID `gorm:"type:uuid;index"`
	TransferenciaCuentaID *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID             *uuid.UUID `gorm:"type:uuid"`
	CreatedAt             time.Time  `gorm:"index"`
}

func (Transaccion) TableName() string { return "transacciones" }

// Signo returns +Monto for ingresos and -Monto for egresos.
func (t Transaccion) Signo() decimal.Decimal {
	if t.Tipo == TransaccionEgreso {
		return t.Monto.Neg()
	}
	return t.Monto
}
