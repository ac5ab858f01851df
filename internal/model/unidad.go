package model

import (
	"time"

	"github.com/google/uuid"
)

// EstadoUnidad is the discriminator of Ubicacion.
type EstadoUnidad string

const (
	EstadoAlmacen  EstadoUnidad = "almacen"
	EstadoArea     EstadoUnidad = "area"
	EstadoVendida  EstadoUnidad = "vendida"
	EstadoAjustada EstadoUnidad = "ajustada"
)

// Ubicacion is where a unit is. Ref is the area for EstadoArea, the sale for
// EstadoVendida and the adjustment for EstadoAjustada; it is uuid.Nil for
// EstadoAlmacen.
type Ubicacion struct {
	Estado EstadoUnidad
	Ref    uuid.UUID
}

func EnAlmacen() Ubicacion { return Ubicacion{Estado: EstadoAlmacen} }
func EnArea(areaID uuid.UUID) Ubicacion { return Ubicacion{Estado: EstadoArea, Ref: areaID} }
func Vendida(ventaID uuid.UUID) Ubicacion { return Ubicacion{Estado: EstadoVendida, Ref: ventaID} }
func Ajustada(ajusteID uuid.UUID) Ubicacion { return Ubicacion{Estado: EstadoAjustada, Ref: ajusteID} }

func (u Ubicacion) String() string {
	if u.Estado == EstadoAlmacen {
		return string(u.Estado)
	}
	return string(u.Estado) + ":" + u.Ref.String()
}

// ProductoUnidad is one physical item. IDs are sequential so a batch of
// received units can be reported as a range.
//
// Persisted columns: estado + area_id (only for "area") + documento_id, the
// last batch document that moved the unit. A check constraint keeps them
// consistent (see infra.applySchemaPatches).
type ProductoUnidad struct {
	ID             uint64       `gorm:"primaryKey;autoIncrement"`
	ProductoInfoID uuid.UUID    `gorm:"type:uuid;not null;index:idx_unidades_pool,priority:1"`
	EntradaID      uuid.UUID    `gorm:"type:uuid;not null;index"`
	Color          *string      `gorm:"type:varchar(40)"`
	Talla          *string      `gorm:"type:varchar(20)"`
	Estado         EstadoUnidad `gorm:"type:varchar(10);not null;default:'almacen';index:idx_unidades_pool,priority:2"`
	AreaID         *uuid.UUID   `gorm:"type:uuid;index:idx_unidades_pool,priority:3"`
	DocumentoID    *uuid.UUID   `gorm:"type:uuid;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ProductoUnidad) TableName() string { return "producto_unidades" }

// Ubicacion decodes the persisted columns.
func (p ProductoUnidad) Ubicacion() Ubicacion {
	switch p.Estado {
	case EstadoArea:
		if p.AreaID != nil {
			return EnArea(*p.AreaID)
		}
	case EstadoVendida, EstadoAjustada:
		if p.DocumentoID != nil {
			return Ubicacion{Estado: p.Estado, Ref: *p.DocumentoID}
		}
	}
	return Ubicacion{Estado: p.Estado}
}

// Ubicar writes ub and the moving document into the persisted columns.
func (p *ProductoUnidad) Ubicar(ub Ubicacion, documentoID *uuid.UUID) {
	p.Estado = ub.Estado
	p.AreaID = nil
	if ub.Estado == EstadoArea {
		area := ub.Ref
		p.AreaID = &area
	}
	p.DocumentoID = documentoID
}

// TipoMovimiento names the batch document that produced a MovimientoUnidad.
type TipoMovimiento string

const (
	MovSalida        TipoMovimiento = "salida"
	MovTransferencia TipoMovimiento = "transferencia"
	MovVenta         TipoMovimiento = "venta"
	MovAjuste        TipoMovimiento = "ajuste"
)

// MovimientoUnidad records where a unit was before a batch document moved it.
// Reverting the document restores exactly these origins.
type MovimientoUnidad struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo              TipoMovimiento `gorm:"type:varchar(20);not null"`
	DocumentoID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	UnidadID          uint64         `gorm:"not null;index"`
	OrigenEstado      EstadoUnidad   `gorm:"type:varchar(10);not null"`
	OrigenAreaID      *uuid.UUID     `gorm:"type:uuid"`
	OrigenDocumentoID *uuid.UUID     `gorm:"type:uuid"`
	CreatedAt         time.Time
}

func (MovimientoUnidad) TableName() string { return "movimientos_unidad" }

// NuevoMovimiento captures the current location of u as the origin.
func NuevoMovimiento(tipo TipoMovimiento, documentoID uuid.UUID, u ProductoUnidad) MovimientoUnidad {
	return MovimientoUnidad{
		Tipo:              tipo,
		DocumentoID:       documentoID,
		UnidadID:          u.ID,
		OrigenEstado:      u.Estado,
		OrigenAreaID:      u.AreaID,
		OrigenDocumentoID: u.DocumentoID,
	}
}
