package repository

import (
	"context"
	"time"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CafeteriaRepository interface {
	CrearProducto(ctx context.Context, p *model.ProductoCafeteria) error
	ProductoPorID(ctx context.Context, id uuid.UUID) (*model.ProductoCafeteria, error)
	ListarProductos(ctx context.Context) ([]model.ProductoCafeteria, error)
	// BloquearProductosTx locks the rows in ID order; missing IDs are simply absent.
	BloquearProductosTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.ProductoCafeteria, error)
	AjustarCantidadesTx(tx *gorm.DB, id uuid.UUID, deltaAlmacen, deltaArea decimal.Decimal) error
	CrearEntradaTx(tx *gorm.DB, e *model.EntradaCafeteria) error
	CrearSalidaTx(tx *gorm.DB, s *model.SalidaCafeteria) error

	CrearElaboracion(ctx context.Context, e *model.Elaboracion) error
	ElaboracionPorID(ctx context.Context, id uuid.UUID) (*model.Elaboracion, error)
	ListarElaboraciones(ctx context.Context) ([]model.Elaboracion, error)

	CrearVentaTx(tx *gorm.DB, v *model.VentaCafeteria) error
	VentaTx(tx *gorm.DB, id uuid.UUID) (*model.VentaCafeteria, error)
	EliminarVentaTx(tx *gorm.DB, id uuid.UUID) error
	VentasEntre(ctx context.Context, desde, hasta time.Time) ([]model.VentaCafeteria, error)
}

type cafeteriaRepo struct{ db *gorm.DB }

func NewCafeteriaRepository(db *gorm.DB) CafeteriaRepository { return &cafeteriaRepo{db: db} }

func (r *cafeteriaRepo) CrearProducto(ctx context.Context, p *model.ProductoCafeteria) error {
	return traducir(r.db.WithContext(ctx).Create(p).Error, "producto de cafeteria")
}

func (r *cafeteriaRepo) ProductoPorID(ctx context.Context, id uuid.UUID) (*model.ProductoCafeteria, error) {
	var p model.ProductoCafeteria
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, traducir(err, "producto de cafeteria")
	}
	return &p, nil
}

func (r *cafeteriaRepo) ListarProductos(ctx context.Context) ([]model.ProductoCafeteria, error) {
	var out []model.ProductoCafeteria
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&out).Error
	return out, traducir(err, "producto de cafeteria")
}

func (r *cafeteriaRepo) BloquearProductosTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.ProductoCafeteria, error) {
	out := make(map[uuid.UUID]*model.ProductoCafeteria, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.ProductoCafeteria
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).Order("id ASC").Find(&rows).Error
	if err != nil {
		return nil, traducir(err, "producto de cafeteria")
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

func (r *cafeteriaRepo) AjustarCantidadesTx(tx *gorm.DB, id uuid.UUID, deltaAlmacen, deltaArea decimal.Decimal) error {
	return traducir(tx.Model(&model.ProductoCafeteria{}).Where("id = ?", id).Updates(map[string]interface{}{
		"cantidad_almacen": gorm.Expr("cantidad_almacen + ?", deltaAlmacen),
		"cantidad_area":    gorm.Expr("cantidad_area + ?", deltaArea),
	}).Error, "producto de cafeteria")
}

func (r *cafeteriaRepo) CrearEntradaTx(tx *gorm.DB, e *model.EntradaCafeteria) error {
	return traducir(tx.Create(e).Error, "entrada de cafeteria")
}

func (r *cafeteriaRepo) CrearSalidaTx(tx *gorm.DB, s *model.SalidaCafeteria) error {
	return traducir(tx.Create(s).Error, "salida de cafeteria")
}

func (r *cafeteriaRepo) CrearElaboracion(ctx context.Context, e *model.Elaboracion) error {
	return traducir(r.db.WithContext(ctx).Create(e).Error, "elaboracion")
}

func (r *cafeteriaRepo) ElaboracionPorID(ctx context.Context, id uuid.UUID) (*model.Elaboracion, error) {
	var e model.Elaboracion
	if err := r.db.WithContext(ctx).Preload("Ingredientes").First(&e, "id = ?", id).Error; err != nil {
		return nil, traducir(err, "elaboracion")
	}
	return &e, nil
}

func (r *cafeteriaRepo) ListarElaboraciones(ctx context.Context) ([]model.Elaboracion, error) {
	var out []model.Elaboracion
	err := r.db.WithContext(ctx).Preload("Ingredientes").Order("nombre ASC").Find(&out).Error
	return out, traducir(err, "elaboracion")
}

func (r *cafeteriaRepo) CrearVentaTx(tx *gorm.DB, v *model.VentaCafeteria) error {
	return traducir(tx.Create(v).Error, "venta de cafeteria")
}

func (r *cafeteriaRepo) VentaTx(tx *gorm.DB, id uuid.UUID) (*model.VentaCafeteria, error) {
	var v model.VentaCafeteria
	if err := bloquear(tx, &v, id, "venta de cafeteria"); err != nil {
		return nil, err
	}
	if err := tx.Where("venta_cafeteria_id = ?", id).Find(&v.Items).Error; err != nil {
		return nil, traducir(err, "venta de cafeteria")
	}
	return &v, nil
}

func (r *cafeteriaRepo) EliminarVentaTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("venta_cafeteria_id = ?", id).Delete(&model.VentaCafeteriaItem{}).Error; err != nil {
		return traducir(err, "venta de cafeteria")
	}
	return eliminar(tx, &model.VentaCafeteria{}, id, "venta de cafeteria")
}

func (r *cafeteriaRepo) VentasEntre(ctx context.Context, desde, hasta time.Time) ([]model.VentaCafeteria, error) {
	var out []model.VentaCafeteria
	err := r.db.WithContext(ctx).Preload("Items").
		Where("created_at >= ? AND created_at < ?", desde, hasta).
		Order("created_at ASC, id ASC").Find(&out).Error
	return out, traducir(err, "venta de cafeteria")
}
