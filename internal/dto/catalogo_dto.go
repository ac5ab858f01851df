package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearCategoriaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
}

type CrearAreaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
	Tipo   string `json:"tipo"   validate:"required,oneof=piso_venta almacen_secundario cafeteria"`
}

type CrearProductoRequest struct {
	Codigo         string          `json:"codigo"          validate:"required,min=1,max=60"`
	Descripcion    string          `json:"descripcion"     validate:"required,min=2,max=255"`
	CategoriaID    *uuid.UUID      `json:"categoria_id"`
	PrecioCosto    decimal.Decimal `json:"precio_costo"    validate:"required,gt=0"`
	PrecioVenta    decimal.Decimal `json:"precio_venta"    validate:"required,gt=0"`
	PagoTrabajador decimal.Decimal `json:"pago_trabajador" validate:"min=0"`
}

// ActualizarPreciosRequest changes any subset of prices. VigenteDesde defaults
// to now. It may not be in the future, before the latest record, or before a
// sale of the SKU already charged at the previous price.
type ActualizarPreciosRequest struct {
	PrecioCosto    *decimal.Decimal `json:"precio_costo"    validate:"omitempty,gt=0"`
	PrecioVenta    *decimal.Decimal `json:"precio_venta"    validate:"omitempty,gt=0"`
	PagoTrabajador *decimal.Decimal `json:"pago_trabajador" validate:"omitempty,min=0"`
	VigenteDesde   *time.Time       `json:"vigente_desde"`
}

type ProductoFilter struct {
	Busqueda    string `form:"q"`
	CategoriaID string `form:"categoria_id"`
	Activo      string `form:"activo"` // "false" | "all" | default activos
	Page        int    `form:"page,default=1"  validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=500"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CategoriaResponse struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
	Activo bool      `json:"activo"`
}

type AreaResponse struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
	Tipo   string    `json:"tipo"`
	Activo bool      `json:"activo"`
}

type ProductoResponse struct {
	ID             uuid.UUID       `json:"id"`
	Codigo         string          `json:"codigo"`
	Descripcion    string          `json:"descripcion"`
	CategoriaID    *uuid.UUID      `json:"categoria_id,omitempty"`
	PrecioCosto    decimal.Decimal `json:"precio_costo"`
	PrecioVenta    decimal.Decimal `json:"precio_venta"`
	PagoTrabajador decimal.Decimal `json:"pago_trabajador"`
	Activo         bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type HistorialPrecioItem struct {
	ID             uuid.UUID       `json:"id"`
	PrecioCosto    decimal.Decimal `json:"precio_costo"`
	PrecioVenta    decimal.Decimal `json:"precio_venta"`
	PagoTrabajador decimal.Decimal `json:"pago_trabajador"`
	VigenteDesde   time.Time       `json:"vigente_desde"`
	Motivo         string          `json:"motivo"`
}

// HistorialPrecioListResponse is returned by GET /v1/productos/:id/historial-precios.
type HistorialPrecioListResponse struct {
	Data  []HistorialPrecioItem `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
