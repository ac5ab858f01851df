package repository

import (
	"context"
	"time"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistorialPrecioRepository interface {
	CreateTx(tx *gorm.DB, h *model.HistorialPrecio) error
	ListByProducto(ctx context.Context, productoID uuid.UUID, page, limit int) ([]model.HistorialPrecio, int64, error)
	// ListByProductos returns every record of the given SKUs ordered by
	// producto, then VigenteDesde ascending.
	ListByProductos(ctx context.Context, ids []uuid.UUID) ([]model.HistorialPrecio, error)
	// PrecioVigente returns the latest record with VigenteDesde <= asOf, or the
	// earliest record when none qualifies.
	PrecioVigente(ctx context.Context, productoID uuid.UUID, asOf time.Time) (*model.HistorialPrecio, error)
}

type historialPrecioRepository struct{ db *gorm.DB }

func NewHistorialPrecioRepository(db *gorm.DB) HistorialPrecioRepository {
	return &historialPrecioRepository{db: db}
}

func (r *historialPrecioRepository) CreateTx(tx *gorm.DB, h *model.HistorialPrecio) error {
	return traducir(tx.Create(h).Error, "historial de precios")
}

// ListByProducto returns paginated price records for one product, newest first.
func (r *historialPrecioRepository) ListByProducto(
	ctx context.Context,
	productoID uuid.UUID,
	page, limit int,
) ([]model.HistorialPrecio, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.HistorialPrecio{}).
		Where("producto_info_id = ?", productoID).
		Count(&total).Error; err != nil {
		return nil, 0, traducir(err, "historial de precios")
	}

	var rows []model.HistorialPrecio
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("producto_info_id = ?", productoID).
		Order("vigente_desde DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, traducir(err, "historial de precios")
	}

	return rows, total, nil
}

func (r *historialPrecioRepository) ListByProductos(ctx context.Context, ids []uuid.UUID) ([]model.HistorialPrecio, error) {
	var rows []model.HistorialPrecio
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Where("producto_info_id IN ?", ids).
		Order("producto_info_id, vigente_desde ASC, created_at ASC").
		Find(&rows).Error
	return rows, traducir(err, "historial de precios")
}

func (r *historialPrecioRepository) PrecioVigente(ctx context.Context, productoID uuid.UUID, asOf time.Time) (*model.HistorialPrecio, error) {
	var h model.HistorialPrecio
	res := r.db.WithContext(ctx).Raw(`
		SELECT * FROM historial_precios
		WHERE producto_info_id = ?
		ORDER BY (vigente_desde <= ?) DESC,
		         CASE WHEN vigente_desde <= ? THEN vigente_desde END DESC NULLS LAST,
		         vigente_desde ASC,
		         created_at DESC
		LIMIT 1`, productoID, asOf, asOf).Scan(&h)
	if res.Error != nil {
		return nil, traducir(res.Error, "historial de precios")
	}
	if res.RowsAffected == 0 {
		return nil, traducir(gorm.ErrRecordNotFound, "historial de precios")
	}
	return &h, nil
}
