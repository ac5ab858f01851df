package repository

import (
	"context"
	"time"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventarioRepository stores the batch documents of the inventory engine:
// entries, exits, sales, transfers and adjustments. Lookups inside a
// transaction lock the header row so two reversals of the same document
// serialize.
type InventarioRepository interface {
	CrearEntradaTx(tx *gorm.DB, e *model.EntradaAlmacen) error
	EntradaTx(tx *gorm.DB, id uuid.UUID) (*model.EntradaAlmacen, error)
	EliminarEntradaTx(tx *gorm.DB, id uuid.UUID) error

	CrearSalidaTx(tx *gorm.DB, s *model.SalidaAlmacen) error
	SalidaTx(tx *gorm.DB, id uuid.UUID) (*model.SalidaAlmacen, error)
	EliminarSalidaTx(tx *gorm.DB, id uuid.UUID) error

	CrearVentaTx(tx *gorm.DB, v *model.Venta) error
	VentaTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	EliminarVentaTx(tx *gorm.DB, id uuid.UUID) error

	CrearTransferenciaTx(tx *gorm.DB, t *model.Transferencia) error
	TransferenciaTx(tx *gorm.DB, id uuid.UUID) (*model.Transferencia, error)
	EliminarTransferenciaTx(tx *gorm.DB, id uuid.UUID) error

	CrearAjusteTx(tx *gorm.DB, a *model.AjusteInventario) error
	AjusteTx(tx *gorm.DB, id uuid.UUID) (*model.AjusteInventario, error)
	EliminarAjusteTx(tx *gorm.DB, id uuid.UUID) error

	// VentasEntre returns sales with desde <= created_at < hasta, oldest first.
	VentasEntre(ctx context.Context, desde, hasta time.Time, areaID *uuid.UUID) ([]model.Venta, error)
}

type inventarioRepo struct{ db *gorm.DB }

func NewInventarioRepository(db *gorm.DB) InventarioRepository { return &inventarioRepo{db: db} }

func bloquear(tx *gorm.DB, dest interface{}, id uuid.UUID, entidad string) error {
	return traducir(tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(dest, "id = ?", id).Error, entidad)
}

func eliminar(tx *gorm.DB, m interface{}, id uuid.UUID, entidad string) error {
	return traducir(tx.Where("id = ?", id).Delete(m).Error, entidad)
}

func (r *inventarioRepo) CrearEntradaTx(tx *gorm.DB, e *model.EntradaAlmacen) error {
	return traducir(tx.Omit(clause.Associations).Create(e).Error, "entrada")
}

func (r *inventarioRepo) EntradaTx(tx *gorm.DB, id uuid.UUID) (*model.EntradaAlmacen, error) {
	var e model.EntradaAlmacen
	if err := bloquear(tx, &e, id, "entrada"); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *inventarioRepo) EliminarEntradaTx(tx *gorm.DB, id uuid.UUID) error {
	return eliminar(tx, &model.EntradaAlmacen{}, id, "entrada")
}

func (r *inventarioRepo) CrearSalidaTx(tx *gorm.DB, s *model.SalidaAlmacen) error {
	return traducir(tx.Create(s).Error, "salida")
}

func (r *inventarioRepo) SalidaTx(tx *gorm.DB, id uuid.UUID) (*model.SalidaAlmacen, error) {
	var s model.SalidaAlmacen
	if err := bloquear(tx, &s, id, "salida"); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *inventarioRepo) EliminarSalidaTx(tx *gorm.DB, id uuid.UUID) error {
	return eliminar(tx, &model.SalidaAlmacen{}, id, "salida")
}

func (r *inventarioRepo) CrearVentaTx(tx *gorm.DB, v *model.Venta) error {
	return traducir(tx.Create(v).Error, "venta")
}

func (r *inventarioRepo) VentaTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	if err := bloquear(tx, &v, id, "venta"); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *inventarioRepo) EliminarVentaTx(tx *gorm.DB, id uuid.UUID) error {
	return eliminar(tx, &model.Venta{}, id, "venta")
}

func (r *inventarioRepo) CrearTransferenciaTx(tx *gorm.DB, t *model.Transferencia) error {
	return traducir(tx.Create(t).Error, "transferencia")
}

func (r *inventarioRepo) TransferenciaTx(tx *gorm.DB, id uuid.UUID) (*model.Transferencia, error) {
	var t model.Transferencia
	if err := bloquear(tx, &t, id, "transferencia"); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *inventarioRepo) EliminarTransferenciaTx(tx *gorm.DB, id uuid.UUID) error {
	return eliminar(tx, &model.Transferencia{}, id, "transferencia")
}

func (r *inventarioRepo) CrearAjusteTx(tx *gorm.DB, a *model.AjusteInventario) error {
	// Items are saved through the has-many association.
	return traducir(tx.Create(a).Error, "ajuste")
}

func (r *inventarioRepo) AjusteTx(tx *gorm.DB, id uuid.UUID) (*model.AjusteInventario, error) {
	var a model.AjusteInventario
	if err := bloquear(tx, &a, id, "ajuste"); err != nil {
		return nil, err
	}
	if err := tx.Where("ajuste_id = ?", id).Find(&a.Items).Error; err != nil {
		return nil, traducir(err, "ajuste")
	}
	return &a, nil
}

func (r *inventarioRepo) EliminarAjusteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("ajuste_id = ?", id).Delete(&model.AjusteItem{}).Error; err != nil {
		return traducir(err, "ajuste")
	}
	return eliminar(tx, &model.AjusteInventario{}, id, "ajuste")
}

func (r *inventarioRepo) VentasEntre(ctx context.Context, desde, hasta time.Time, areaID *uuid.UUID) ([]model.Venta, error) {
	q := r.db.WithContext(ctx).Where("created_at >= ? AND created_at < ?", desde, hasta)
	if areaID != nil {
		q = q.Where("area_id = ?", *areaID)
	}
	var out []model.Venta
	err := q.Order("created_at ASC, id ASC").Find(&out).Error
	return out, traducir(err, "venta")
}
