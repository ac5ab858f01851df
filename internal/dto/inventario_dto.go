package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// Selector picks units either by explicit IDs or by quantity; exactly one
// of the two must be given.
type Selector struct {
	UnidadIDs []uint64 `json:"unidad_ids" validate:"omitempty,dive,gt=0"`
	Cantidad  int      `json:"cantidad"   validate:"omitempty,gt=0"`
}

type VarianteRequest struct {
	Color    *string `json:"color"    validate:"omitempty,max=40"`
	Talla    *string `json:"talla"    validate:"omitempty,max=20"`
	Cantidad int     `json:"cantidad" validate:"required,gt=0"`
}

type RecibirStockRequest struct {
	ProductoInfoID uuid.UUID         `json:"producto_info_id" validate:"required"`
	Proveedor      string            `json:"proveedor"        validate:"required,max=120"`
	Comprador      string            `json:"comprador"        validate:"required,max=120"`
	MetodoPago     string            `json:"metodo_pago"      validate:"required,oneof=efectivo transferencia mixto"`
	Cantidad       int               `json:"cantidad"         validate:"omitempty,gt=0"`
	Variantes      []VarianteRequest `json:"variantes"        validate:"omitempty,dive"`
	// CuentaID: if set, the purchase cost is withdrawn from this account
	CuentaID *uuid.UUID `json:"cuenta_id"`
}

type MoverAAreaRequest struct {
	ProductoInfoID uuid.UUID `json:"producto_info_id" validate:"required"`
	AreaID         uuid.UUID `json:"area_id"          validate:"required"`
	Selector
}

type VenderRequest struct {
	ProductoInfoID uuid.UUID        `json:"producto_info_id" validate:"required"`
	AreaID         uuid.UUID        `json:"area_id"          validate:"required"`
	MetodoPago     string           `json:"metodo_pago"      validate:"required,oneof=efectivo transferencia mixto"`
	Efectivo       *decimal.Decimal `json:"efectivo"`
	Transferencia  *decimal.Decimal `json:"transferencia"`
	CuentaID       *uuid.UUID       `json:"cuenta_id"`
	Selector
}

type TransferirRequest struct {
	ProductoInfoID uuid.UUID `json:"producto_info_id" validate:"required"`
	DesdeAreaID    uuid.UUID `json:"desde_area_id"    validate:"required"`
	HaciaAreaID    uuid.UUID `json:"hacia_area_id"    validate:"required"`
	Selector
}

type AjusteItemRequest struct {
	ProductoInfoID uuid.UUID  `json:"producto_info_id" validate:"required"`
	Origen         string     `json:"origen"           validate:"required,oneof=almacen area"`
	AreaID         *uuid.UUID `json:"area_id"`
	Selector
}

type AjustarInventarioRequest struct {
	Motivo string              `json:"motivo" validate:"required,min=3,max=255"`
	Items  []AjusteItemRequest `json:"items"  validate:"required,min=1,dive"`
}

type UnidadFilter struct {
	ProductoInfoID string `form:"producto_info_id"`
	Estado         string `form:"estado" validate:"omitempty,oneof=almacen area vendida ajustada"`
	AreaID         string `form:"area_id"`
	Page           int    `form:"page,default=1"   validate:"min=1"`
	Limit          int    `form:"limit,default=100" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// GrupoUnidades lists the units created for one variant as a compact range
// string ("12", "12-20" or "3-5,9").
type GrupoUnidades struct {
	Color    *string `json:"color,omitempty"`
	Talla    *string `json:"talla,omitempty"`
	Cantidad int     `json:"cantidad"`
	Rango    string  `json:"rango"`
}

type EntradaResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductoInfoID uuid.UUID       `json:"producto_info_id"`
	MetodoPago     string          `json:"metodo_pago"`
	Proveedor      string          `json:"proveedor"`
	Comprador      string          `json:"comprador"`
	Cantidad       int             `json:"cantidad"`
	Unidades       []GrupoUnidades `json:"unidades"`
	TransaccionID  *uuid.UUID      `json:"transaccion_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type SalidaResponse struct {
	ID             uuid.UUID `json:"id"`
	ProductoInfoID uuid.UUID `json:"producto_info_id"`
	AreaID         uuid.UUID `json:"area_id"`
	Cantidad       int       `json:"cantidad"`
	UnidadIDs      []uint64  `json:"unidad_ids"`
	CreatedAt      time.Time `json:"created_at"`
}

type VentaResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductoInfoID uuid.UUID       `json:"producto_info_id"`
	AreaID         uuid.UUID       `json:"area_id"`
	MetodoPago     string          `json:"metodo_pago"`
	Cantidad       int             `json:"cantidad"`
	Total          decimal.Decimal `json:"total"`
	Efectivo       decimal.Decimal `json:"efectivo"`
	Transferencia  decimal.Decimal `json:"transferencia"`
	TransaccionID  *uuid.UUID      `json:"transaccion_id,omitempty"`
	UnidadIDs      []uint64        `json:"unidad_ids"`
	CreatedAt      time.Time       `json:"created_at"`
}

type TransferenciaResponse struct {
	ID             uuid.UUID `json:"id"`
	ProductoInfoID uuid.UUID `json:"producto_info_id"`
	DesdeAreaID    uuid.UUID `json:"desde_area_id"`
	HaciaAreaID    uuid.UUID `json:"hacia_area_id"`
	Cantidad       int       `json:"cantidad"`
	UnidadIDs      []uint64  `json:"unidad_ids"`
	CreatedAt      time.Time `json:"created_at"`
}

type AjusteItemResponse struct {
	ProductoInfoID uuid.UUID  `json:"producto_info_id"`
	Origen         string     `json:"origen"`
	AreaID         *uuid.UUID `json:"area_id,omitempty"`
	UnidadIDs      []uint64   `json:"unidad_ids"`
}

type AjusteResponse struct {
	ID        uuid.UUID            `json:"id"`
	Motivo    string               `json:"motivo"`
	Items     []AjusteItemResponse `json:"items"`
	CreatedAt time.Time            `json:"created_at"`
}

type ConteoArea struct {
	AreaID   uuid.UUID `json:"area_id"`
	Cantidad int       `json:"cantidad"`
}

// ResumenStock counts the units of one SKU per location.
type ResumenStock struct {
	ProductoInfoID uuid.UUID    `json:"producto_info_id"`
	Codigo         string       `json:"codigo"`
	Descripcion    string       `json:"descripcion"`
	Almacen        int          `json:"almacen"`
	Areas          []ConteoArea `json:"areas"`
	Vendidas       int          `json:"vendidas"`
	Ajustadas      int          `json:"ajustadas"`
}

type UnidadResponse struct {
	ID             uint64     `json:"id"`
	ProductoInfoID uuid.UUID  `json:"producto_info_id"`
	Color          *string    `json:"color,omitempty"`
	Talla          *string    `json:"talla,omitempty"`
	Estado         string     `json:"estado"`
	AreaID         *uuid.UUID `json:"area_id,omitempty"`
	DocumentoID    *uuid.UUID `json:"documento_id,omitempty"`
}

type UnidadListResponse struct {
	Data  []UnidadResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
