package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CrearCuentaRequest struct {
	Nombre string  `json:"nombre" validate:"required,min=2,max=100"`
	Tipo   string  `json:"tipo"   validate:"required,oneof=efectivo banco"`
	Banco  *string `json:"banco"  validate:"omitempty,max=100"`
}

// MovimientoCuentaRequest is the body of deposits and withdrawals.
// The positive-amount rule is enforced again by the ledger.
type MovimientoCuentaRequest struct {
	Monto       decimal.Decimal `json:"monto"       validate:"required"`
	Descripcion string          `json:"descripcion" validate:"required,max=255"`
}

type TransferenciaCuentasRequest struct {
	DesdeCuentaID uuid.UUID       `json:"desde_cuenta_id" validate:"required"`
	HaciaCuentaID uuid.UUID       `json:"hacia_cuenta_id" validate:"required"`
	Monto         decimal.Decimal `json:"monto"           validate:"required"`
	Descripcion   string          `json:"descripcion"     validate:"required,max=255"`
}

type CuentaResponse struct {
	ID     uuid.UUID       `json:"id"`
	Nombre string          `json:"nombre"`
	Tipo   string          `json:"tipo"`
	Banco  *string         `json:"banco,omitempty"`
	Saldo  decimal.Decimal `json:"saldo"`
	Activo bool            `json:"activo"`
}

type TransaccionResponse struct {
	ID          uuid.UUID       `json:"id"`
	CuentaID    uuid.UUID       `json:"cuenta_id"`
	Tipo        string          `json:"tipo"`
	Monto       decimal.Decimal `json:"monto"`
	Descripcion string          `json:"descripcion"`
	VentaID     *uuid.UUID      `json:"venta_id,omitempty"`
	EntradaID   *uuid.UUID      `json:"entrada_id,omitempty"`
	SaldoCuenta decimal.Decimal `json:"saldo_cuenta"`
	CreatedAt   time.Time       `json:"created_at"`
}

type TransaccionListResponse struct {
	Data  []TransaccionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
