package repository

import (
	"context"
	"time"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GastoRepository interface {
	CrearFijo(ctx context.Context, g *model.GastoFijo) error
	ListarFijos(ctx context.Context, soloActivos bool) ([]model.GastoFijo, error)
	DesactivarFijo(ctx context.Context, id uuid.UUID) error
	CrearVariable(ctx context.Context, g *model.GastoVariable) error
	// ListarVariables returns expenses with desde <= fecha <= hasta (days).
	ListarVariables(ctx context.Context, desde, hasta time.Time) ([]model.GastoVariable, error)
}

type gastoRepo struct{ db *gorm.DB }

func NewGastoRepository(db *gorm.DB) GastoRepository { return &gastoRepo{db: db} }

func (r *gastoRepo) CrearFijo(ctx context.Context, g *model.GastoFijo) error {
	return traducir(r.db.WithContext(ctx).Create(g).Error, "gasto fijo")
}

func (r *gastoRepo) ListarFijos(ctx context.Context, soloActivos bool) ([]model.GastoFijo, error) {
	q := r.db.WithContext(ctx)
	if soloActivos {
		q = q.Where("activo = true")
	}
	var out []model.GastoFijo
	err := q.Order("descripcion ASC, id ASC").Find(&out).Error
	return out, traducir(err, "gasto fijo")
}

func (r *gastoRepo) DesactivarFijo(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.GastoFijo{}).Where("id = ?", id).Update("activo", false)
	if res.Error != nil {
		return traducir(res.Error, "gasto fijo")
	}
	if res.RowsAffected == 0 {
		return traducir(gorm.ErrRecordNotFound, "gasto fijo")
	}
	return nil
}

func (r *gastoRepo) CrearVariable(ctx context.Context, g *model.GastoVariable) error {
	return traducir(r.db.WithContext(ctx).Create(g).Error, "gasto variable")
}

func (r *gastoRepo) ListarVariables(ctx context.Context, desde, hasta time.Time) ([]model.GastoVariable, error) {
	var out []model.GastoVariable
	err := r.db.WithContext(ctx).
		Where("fecha >= ? AND fecha <= ?", desde.Format("2006-01-02"), hasta.Format("2006-01-02")).
		Order("fecha ASC, id ASC").Find(&out).Error
	return out, traducir(err, "gasto variable")
}
