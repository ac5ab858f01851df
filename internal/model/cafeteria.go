package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductoCafeteria is a quantity-tracked cafeteria input or product. The
// cafeteria warehouse and the cafeteria counter are two decimal pools.
type ProductoCafeteria struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre          string          `gorm:"uniqueIndex;not null"`
	Unidad          string          `gorm:"type:varchar(10);not null;default:'u'"` // u | kg | l
	PrecioCosto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioVenta     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CantidadAlmacen decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	CantidadArea    decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (ProductoCafeteria) TableName() string { return "productos_cafeteria" }

type EntradaCafeteria struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoCafeteriaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad            decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Proveedor           string          `gorm:"not null"`
	MetodoPago          string          `gorm:"type:varchar(20);not null"`
	CuentaID            *uuid.UUID      `gorm:"type:uuid"`
	TransaccionID       *uuid.UUID      `gorm:"type:uuid"`
	UsuarioID           uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt           time.Time
}

func (EntradaCafeteria) TableName() string { return "entradas_cafeteria" }

type SalidaCafeteria struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoCafeteriaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad            decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UsuarioID           uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt           time.Time
}

func (SalidaCafeteria) TableName() string { return "salidas_cafeteria" }

// Elaboracion is a recipe sold at the counter. Selling one consumes every
// ingredient quantity from the counter pool.
type Elaboracion struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string          `gorm:"uniqueIndex;not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ManoObra    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time

	Ingredientes []IngredienteElaboracion `gorm:"foreignKey:ElaboracionID"`
}

func (Elaboracion) TableName() string { return "elaboraciones" }

type IngredienteElaboracion struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ElaboracionID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoCafeteriaID uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad            decimal.Decimal `gorm:"type:decimal(12,3);not null"`
}

func (IngredienteElaboracion) TableName() string { return "ingredientes_elaboracion" }

// VentaCafeteria is a counter sale. With CuentaCasa the items are consumed by
// the house: they cost money but produce no revenue and no ledger movement.
type VentaCafeteria struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID     uuid.UUID       `gorm:"type:uuid;not null"`
	MetodoPago    string          `gorm:"type:varchar(20);not null"`
	Efectivo      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Transferencia decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CuentaID      *uuid.UUID      `gorm:"type:uuid"`
	TransaccionID *uuid.UUID      `gorm:"type:uuid"`
	CuentaCasa    bool            `gorm:"not null;default:false"`
	CreatedAt     time.Time       `gorm:"index"`

	Items []VentaCafeteriaItem `gorm:"foreignKey:VentaCafeteriaID"`
}

func (VentaCafeteria) TableName() string { return "ventas_cafeteria" }

// VentaCafeteriaItem snapshots price, cost and labor at sale time.
// Exactly one of ProductoCafeteriaID and ElaboracionID is set.
type VentaCafeteriaItem struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaCafeteriaID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoCafeteriaID *uuid.UUID      `gorm:"type:uuid"`
	ElaboracionID       *uuid.UUID      `gorm:"type:uuid"`
	Cantidad            decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PrecioUnitario      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostoUnitario       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ManoObraUnitaria    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

func (VentaCafeteriaItem) TableName() string { return "venta_cafeteria_items" }
