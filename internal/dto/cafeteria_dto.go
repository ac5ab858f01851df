package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CrearProductoCafeteriaRequest struct {
	Nombre      string          `json:"nombre"       validate:"required,min=2,max=100"`
	Unidad      string          `json:"unidad"       validate:"required,oneof=u kg l"`
	PrecioCosto decimal.Decimal `json:"precio_costo" validate:"required,gt=0"`
	PrecioVenta decimal.Decimal `json:"precio_venta" validate:"min=0"`
}

type RecibirCafeteriaRequest struct {
	ProductoCafeteriaID uuid.UUID       `json:"producto_cafeteria_id" validate:"required"`
	Cantidad            decimal.Decimal `json:"cantidad"              validate:"required,gt=0"`
	Proveedor           string          `json:"proveedor"             validate:"required,max=120"`
	MetodoPago          string          `json:"metodo_pago"           validate:"required,oneof=efectivo transferencia mixto"`
	CuentaID            *uuid.UUID      `json:"cuenta_id"`
}

type MoverCafeteriaRequest struct {
	ProductoCafeteriaID uuid.UUID       `json:"producto_cafeteria_id" validate:"required"`
	Cantidad            decimal.Decimal `json:"cantidad"              validate:"required,gt=0"`
}

type IngredienteRequest struct {
	ProductoCafeteriaID uuid.UUID       `json:"producto_cafeteria_id" validate:"required"`
	Cantidad            decimal.Decimal `json:"cantidad"              validate:"required,gt=0"`
}

type CrearElaboracionRequest struct {
	Nombre       string               `json:"nombre"       validate:"required,min=2,max=100"`
	PrecioVenta  decimal.Decimal      `json:"precio_venta" validate:"required,gt=0"`
	ManoObra     decimal.Decimal      `json:"mano_obra"    validate:"min=0"`
	Ingredientes []IngredienteRequest `json:"ingredientes" validate:"required,min=1,dive"`
}

type VentaCafeteriaItemRequest struct {
	ProductoCafeteriaID *uuid.UUID      `json:"producto_cafeteria_id"`
	ElaboracionID       *uuid.UUID      `json:"elaboracion_id"`
	Cantidad            decimal.Decimal `json:"cantidad" validate:"required,gt=0"`
}

type VenderCafeteriaRequest struct {
	Items         []VentaCafeteriaItemRequest `json:"items"       validate:"required,min=1,dive"`
	MetodoPago    string                      `json:"metodo_pago" validate:"required,oneof=efectivo transferencia mixto"`
	Efectivo      *decimal.Decimal            `json:"efectivo"`
	Transferencia *decimal.Decimal            `json:"transferencia"`
	CuentaID      *uuid.UUID                  `json:"cuenta_id"`
	CuentaCasa    bool                        `json:"cuenta_casa"`
}

type ProductoCafeteriaResponse struct {
	ID              uuid.UUID       `json:"id"`
	Nombre          string          `json:"nombre"`
	Unidad          string          `json:"unidad"`
	PrecioCosto     decimal.Decimal `json:"precio_costo"`
	PrecioVenta     decimal.Decimal `json:"precio_venta"`
	CantidadAlmacen decimal.Decimal `json:"cantidad_almacen"`
	CantidadArea    decimal.Decimal `json:"cantidad_area"`
}

type IngredienteResponse struct {
	ProductoCafeteriaID uuid.UUID       `json:"producto_cafeteria_id"`
	Cantidad            decimal.Decimal `json:"cantidad"`
}

type ElaboracionResponse struct {
	ID           uuid.UUID             `json:"id"`
	Nombre       string                `json:"nombre"`
	PrecioVenta  decimal.Decimal       `json:"precio_venta"`
	ManoObra     decimal.Decimal       `json:"mano_obra"`
	Costo        decimal.Decimal       `json:"costo"`
	Ingredientes []IngredienteResponse `json:"ingredientes"`
}

type VentaCafeteriaResponse struct {
	ID            uuid.UUID       `json:"id"`
	MetodoPago    string          `json:"metodo_pago"`
	CuentaCasa    bool            `json:"cuenta_casa"`
	Total         decimal.Decimal `json:"total"`
	Efectivo      decimal.Decimal `json:"efectivo"`
	Transferencia decimal.Decimal `json:"transferencia"`
	TransaccionID *uuid.UUID      `json:"transaccion_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
