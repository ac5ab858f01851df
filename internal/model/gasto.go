package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	FrecuenciaDiaria  = "diaria"
	FrecuenciaSemanal = "semanal"
	FrecuenciaMensual = "mensual"
)

// GastoFijo is a recurring expense accrued by the profit reports.
// DiaSemana: 0=lunes .. 6=domingo (semanal). DiaMes: 1..31 (mensual).
type GastoFijo struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Descripcion string          `gorm:"not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Frecuencia  string          `gorm:"type:varchar(10);not null"`
	DiaSemana   *int
	DiaMes      *int
	AreaID      *uuid.UUID `gorm:"type:uuid;index"`
	Cafeteria   bool       `gorm:"not null;default:false"`
	Activo      bool       `gorm:"not null;default:true"`
	CreatedAt   time.Time
}

func (GastoFijo) TableName() string { return "gastos_fijos" }

// GastoVariable is a one-off expense on a given date.
type GastoVariable struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Descripcion string          `gorm:"not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Fecha       time.Time       `gorm:"type:date;not null;index"`
	AreaID      *uuid.UUID      `gorm:"type:uuid;index"`
	Cafeteria   bool            `gorm:"not null;default:false"`
	UsuarioID   uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
}

func (GastoVariable) TableName() string { return "gastos_variables" }
