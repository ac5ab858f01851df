package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntradaAlmacen is a purchase received into the principal warehouse. It owns
// the units it created; deleting it deletes them.
type EntradaAlmacen struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoInfoID uuid.UUID  `gorm:"type:uuid;not null;index"`
	UsuarioID      uuid.UUID  `gorm:"type:uuid;not null"`
	MetodoPago     string     `gorm:"type:varchar(20);not null"`
	Proveedor      string     `gorm:"not null"`
	Comprador      string     `gorm:"not null"`
	Cantidad       int        `gorm:"not null"`
	CuentaID       *uuid.UUID `gorm:"type:uuid"`
	TransaccionID  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time

	Producto *ProductoInfo `gorm:"foreignKey:ProductoInfoID"`
}

func (EntradaAlmacen) TableName() string { return "entradas_almacen" }

// SalidaAlmacen moves units from the principal warehouse to an area.
type SalidaAlmacen struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoInfoID uuid.UUID `gorm:"type:uuid;not null;index"`
	AreaID         uuid.UUID `gorm:"type:uuid;not null;index"`
	UsuarioID      uuid.UUID `gorm:"type:uuid;not null"`
	Cantidad       int       `gorm:"not null"`
	CreatedAt      time.Time
}

func (SalidaAlmacen) TableName() string { return "salidas_almacen" }

// Metodos de pago
const (
	PagoEfectivo      = "efectivo"
	PagoTransferencia = "transferencia"
	PagoMixto         = "mixto"
)

// Venta sells units out of one area. Efectivo + Transferencia always equals the
// sale total; the transfer part is deposited into CuentaID.
type Venta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoInfoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AreaID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null"`
	MetodoPago     string          `gorm:"type:varchar(20);not null"`
	Cantidad       int             `gorm:"not null"`
	Efectivo       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Transferencia  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CuentaID       *uuid.UUID      `gorm:"type:uuid"`
	TransaccionID  *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt      time.Time       `gorm:"index"`
}

func (Venta) TableName() string { return "ventas" }

// Transferencia moves units between two areas.
type Transferencia struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoInfoID uuid.UUID `gorm:"type:uuid;not null;index"`
	DesdeAreaID    uuid.UUID `gorm:"type:uuid;not null"`
	HaciaAreaID    uuid.UUID `gorm:"type:uuid;not null"`
	UsuarioID      uuid.UUID `gorm:"type:uuid;not null"`
	Cantidad       int       `gorm:"not null"`
	CreatedAt      time.Time
}

func (Transferencia) TableName() string { return "transferencias" }

// Origenes de un ajuste
const (
	OrigenAlmacen = "almacen"
	OrigenArea    = "area"
)

// AjusteInventario writes units off (loss, damage, count correction).
type AjusteInventario struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Motivo    string    `gorm:"not null"`
	UsuarioID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time

	Items []AjusteItem `gorm:"foreignKey:AjusteID"`
}

func (AjusteInventario) TableName() string { return "ajustes_inventario" }

type AjusteItem struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AjusteID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductoInfoID uuid.UUID  `gorm:"type:uuid;not null"`
	Origen         string     `gorm:"type:varchar(10);not null"`
	AreaID         *uuid.UUID `gorm:"type:uuid"`
	Cantidad       int        `gorm:"not null"`
}

func (AjusteItem) TableName() string { return "ajuste_items" }
