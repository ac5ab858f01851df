package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorialPrecio registra los precios vigentes de un producto desde VigenteDesde.
// Los registros son inmutables; reportes historicos se calculan a partir de ellos.
type HistorialPrecio struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoInfoID uuid.UUID       `gorm:"type:uuid;not null;index:idx_historial_producto_fecha,priority:1"`
	PrecioCosto    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioVenta    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PagoTrabajador decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	VigenteDesde   time.Time       `gorm:"not null;index:idx_historial_producto_fecha,priority:2"`
	UsuarioID      *uuid.UUID      `gorm:"type:uuid"`
	Motivo         string          `gorm:"not null;default:'manual'"` // alta | manual
	CreatedAt      time.Time
}

func (HistorialPrecio) TableName() string { return "historial_precios" }
