package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Gastos ──────────────────────────────────────────────────────────────────

type CrearGastoFijoRequest struct {
	Descripcion string          `json:"descripcion" validate:"required,max=255"`
	Monto       decimal.Decimal `json:"monto"       validate:"required,gt=0"`
	Frecuencia  string          `json:"frecuencia"  validate:"required,oneof=diaria semanal mensual"`
	DiaSemana   *int            `json:"dia_semana"  validate:"omitempty,min=0,max=6"`
	DiaMes      *int            `json:"dia_mes"     validate:"omitempty,min=1,max=31"`
	AreaID      *uuid.UUID      `json:"area_id"`
	Cafeteria   bool            `json:"cafeteria"`
}

type GastoFijoResponse struct {
	ID          uuid.UUID       `json:"id"`
	Descripcion string          `json:"descripcion"`
	Monto       decimal.Decimal `json:"monto"`
	Frecuencia  string          `json:"frecuencia"`
	DiaSemana   *int            `json:"dia_semana,omitempty"`
	DiaMes      *int            `json:"dia_mes,omitempty"`
	AreaID      *uuid.UUID      `json:"area_id,omitempty"`
	Cafeteria   bool            `json:"cafeteria"`
	Activo      bool            `json:"activo"`
}

type RegistrarGastoVariableRequest struct {
	Descripcion string          `json:"descripcion" validate:"required,max=255"`
	Monto       decimal.Decimal `json:"monto"       validate:"required,gt=0"`
	Fecha       time.Time       `json:"fecha"       validate:"required"`
	AreaID      *uuid.UUID      `json:"area_id"`
	Cafeteria   bool            `json:"cafeteria"`
}

type GastoVariableResponse struct {
	ID          uuid.UUID       `json:"id"`
	Descripcion string          `json:"descripcion"`
	Monto       decimal.Decimal `json:"monto"`
	Fecha       time.Time       `json:"fecha"`
	AreaID      *uuid.UUID      `json:"area_id,omitempty"`
	Cafeteria   bool            `json:"cafeteria"`
}

// ─── Reportes ────────────────────────────────────────────────────────────────

// ReporteFiltro is an inclusive day range. Desde and Hasta are calendar days;
// the time of day is ignored.
type ReporteFiltro struct {
	Desde  time.Time
	Hasta  time.Time
	AreaID *uuid.UUID
}

type GananciaProducto struct {
	ProductoInfoID uuid.UUID       `json:"producto_info_id"`
	Codigo         string          `json:"codigo"`
	Descripcion    string          `json:"descripcion"`
	Unidades       int             `json:"unidades"`
	Bruto          decimal.Decimal `json:"bruto"`
	Costo          decimal.Decimal `json:"costo"`
	Comisiones     decimal.Decimal `json:"comisiones"`
}

type GastoDevengado struct {
	Descripcion string          `json:"descripcion"`
	Ocurrencias int             `json:"ocurrencias"`
	Total       decimal.Decimal `json:"total"`
}

type ReporteGanancias struct {
	Desde           time.Time          `json:"desde"`
	Hasta           time.Time          `json:"hasta"`
	AreaID          *uuid.UUID         `json:"area_id,omitempty"`
	Bruto           decimal.Decimal    `json:"bruto"`
	Costo           decimal.Decimal    `json:"costo"`
	Comisiones      decimal.Decimal    `json:"comisiones"`
	Efectivo        decimal.Decimal    `json:"efectivo"`
	Transferencia   decimal.Decimal    `json:"transferencia"`
	GastosFijos     decimal.Decimal    `json:"gastos_fijos"`
	GastosVariables decimal.Decimal    `json:"gastos_variables"`
	Neto            decimal.Decimal    `json:"neto"`
	Productos       []GananciaProducto `json:"productos"`
	DetalleFijos    []GastoDevengado   `json:"detalle_fijos"`
}

type ReporteCafeteria struct {
	Desde             time.Time        `json:"desde"`
	Hasta             time.Time        `json:"hasta"`
	Ingresos          decimal.Decimal  `json:"ingresos"`
	CostoIngredientes decimal.Decimal  `json:"costo_ingredientes"`
	ManoObra          decimal.Decimal  `json:"mano_obra"`
	CuentaCasa        decimal.Decimal  `json:"cuenta_casa"`
	Efectivo          decimal.Decimal  `json:"efectivo"`
	Transferencia     decimal.Decimal  `json:"transferencia"`
	GastosFijos       decimal.Decimal  `json:"gastos_fijos"`
	GastosVariables   decimal.Decimal  `json:"gastos_variables"`
	Neto              decimal.Decimal  `json:"neto"`
	DetalleFijos      []GastoDevengado `json:"detalle_fijos"`
}

type EnviarReporteRequest struct {
	Destinatario string     `json:"destinatario" validate:"required,email"`
	Desde        string     `json:"desde"        validate:"required,datetime=2006-01-02"`
	Hasta        string     `json:"hasta"        validate:"required,datetime=2006-01-02"`
	AreaID       *uuid.UUID `json:"area_id"`
}

// ReporteEmailJob is the queued payload of a report e-mail. It carries the
// requester so the worker builds the report under the same permissions.
type ReporteEmailJob struct {
	Destinatario string     `json:"destinatario"`
	Desde        string     `json:"desde"`
	Hasta        string     `json:"hasta"`
	AreaID       *uuid.UUID `json:"area_id,omitempty"`
	UsuarioID    uuid.UUID  `json:"usuario_id"`
	Rol          string     `json:"rol"`
	Intentos     int        `json:"intentos"`
}
