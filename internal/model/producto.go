package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductoInfo is a catalog SKU. Physical stock lives in ProductoUnidad rows;
// the prices here are the current ones and every change is mirrored in
// HistorialPrecio.
type ProductoInfo struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo         string          `gorm:"uniqueIndex;not null"`
	Descripcion    string          `gorm:"index;not null"`
	CategoriaID    *uuid.UUID      `gorm:"type:uuid;index"`
	PrecioCosto    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioVenta    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PagoTrabajador decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Activo         bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

func (ProductoInfo) TableName() string { return "productos_info" }

// Area is a sales floor, the secondary warehouse or the cafeteria.
// Tipo: "piso_venta" | "almacen_secundario" | "cafeteria"
type Area struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Tipo      string    `gorm:"type:varchar(20);not null;default:'piso_venta'"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
}

func (Area) TableName() string { return "areas" }

const (
	AreaPisoVenta         = "piso_venta"
	AreaAlmacenSecundario = "almacen_secundario"
	AreaCafeteria         = "cafeteria"
)
