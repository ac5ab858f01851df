package repository

import (
	"context"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository defines the data access contract for catalog SKUs.
// Services depend on this interface, not on the concrete GORM implementation,
// so unit tests can run against memrepo.
type ProductoRepository interface {
	CreateTx(tx *gorm.DB, p *model.ProductoInfo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductoInfo, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.ProductoInfo, int64, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ProductoInfo, error)

	// Used inside transactions; callers must pass the tx instance
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.ProductoInfo, error)
	UpdatePreciosTx(tx *gorm.DB, p *model.ProductoInfo) error
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) CreateTx(tx *gorm.DB, p *model.ProductoInfo) error {
	return traducir(tx.Create(p).Error, "producto")
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductoInfo, error) {
	var p model.ProductoInfo
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, traducir(err, "producto")
	}
	return &p, nil
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.ProductoInfo, int64, error) {
	var productos []model.ProductoInfo
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ProductoInfo{})

	// Activo filter: "false" = inactivos, "all" = todos, anything else = activos (default)
	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
	default:
		q = q.Where("activo = true")
	}
	if filter.Busqueda != "" {
		like := "%" + filter.Busqueda + "%"
		q = q.Where("codigo ILIKE ? OR descripcion ILIKE ?", like, like)
	}
	if filter.CategoriaID != "" {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, traducir(err, "producto")
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("codigo ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, traducir(err, "producto")
}

func (r *productoRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ProductoInfo, error) {
	var productos []model.ProductoInfo
	if len(ids) == 0 {
		return productos, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("codigo ASC").Find(&productos).Error
	return productos, traducir(err, "producto")
}

func (r *productoRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.ProductoInfo, error) {
	var p model.ProductoInfo
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, traducir(err, "producto")
	}
	return &p, nil
}

func (r *productoRepo) UpdatePreciosTx(tx *gorm.DB, p *model.ProductoInfo) error {
	return traducir(tx.Model(&model.ProductoInfo{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"precio_costo":    p.PrecioCosto,
		"precio_venta":    p.PrecioVenta,
		"pago_trabajador": p.PagoTrabajador,
	}).Error, "producto")
}
