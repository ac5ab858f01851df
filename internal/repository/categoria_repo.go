package repository

import (
	"context"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaRepository defines catalog category persistence.
type CategoriaRepository interface {
	Crear(ctx context.Context, c *model.Categoria) error
	Listar(ctx context.Context) ([]model.Categoria, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
}

type categoriaRepository struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository {
	return &categoriaRepository{db: db}
}

func (r *categoriaRepository) Crear(ctx context.Context, c *model.Categoria) error {
	return traducir(r.db.WithContext(ctx).Create(c).Error, "categoria")
}

func (r *categoriaRepository) Listar(ctx context.Context) ([]model.Categoria, error) {
	var list []model.Categoria
	err := r.db.WithContext(ctx).Order("nombre asc").Find(&list).Error
	return list, traducir(err, "categoria")
}

func (r *categoriaRepository) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, traducir(err, "categoria")
	}
	return &c, nil
}

// AreaRepository stores sales floors, the secondary warehouse and the cafeteria.
type AreaRepository interface {
	Crear(ctx context.Context, a *model.Area) error
	Listar(ctx context.Context) ([]model.Area, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Area, error)
}

type areaRepository struct{ db *gorm.DB }

func NewAreaRepository(db *gorm.DB) AreaRepository { return &areaRepository{db: db} }

func (r *areaRepository) Crear(ctx context.Context, a *model.Area) error {
	return traducir(r.db.WithContext(ctx).Create(a).Error, "area")
}

func (r *areaRepository) Listar(ctx context.Context) ([]model.Area, error) {
	var list []model.Area
	err := r.db.WithContext(ctx).Order("nombre asc").Find(&list).Error
	return list, traducir(err, "area")
}

func (r *areaRepository) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Area, error) {
	var a model.Area
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, traducir(err, "area")
	}
	return &a, nil
}
