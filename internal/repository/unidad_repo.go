package repository

import (
	"context"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConteoUnidades is one row of the per-location stock count.
type ConteoUnidades struct {
	ProductoInfoID uuid.UUID
	Estado         model.EstadoUnidad
	AreaID         *uuid.UUID
	Cantidad       int
}

// UnidadRepository persists product units and their per-document provenance.
// Every *Tx method locks the rows it reads.
type UnidadRepository interface {
	// CrearTx inserts the units and fills their sequential IDs.
	CrearTx(tx *gorm.DB, unidades []model.ProductoUnidad) error
	// SeleccionarTx returns up to n units of the SKU in pool, lowest ID first,
	// skipping rows locked by concurrent transactions and the excluded IDs.
	SeleccionarTx(tx *gorm.DB, productoID uuid.UUID, pool model.Ubicacion, n int, excluir []uint64) ([]model.ProductoUnidad, error)
	// BuscarTx locks and returns the units that exist among ids, by ID.
	BuscarTx(tx *gorm.DB, ids []uint64) ([]model.ProductoUnidad, error)
	PorEntradaTx(tx *gorm.DB, entradaID uuid.UUID) ([]model.ProductoUnidad, error)
	MoverTx(tx *gorm.DB, ids []uint64, destino model.Ubicacion, documentoID uuid.UUID) error
	// RestaurarTx puts every unit back where its MovimientoUnidad says it was.
	RestaurarTx(tx *gorm.DB, movs []model.MovimientoUnidad) error
	EliminarPorEntradaTx(tx *gorm.DB, entradaID uuid.UUID) error

	RegistrarMovimientosTx(tx *gorm.DB, movs []model.MovimientoUnidad) error
	MovimientosTx(tx *gorm.DB, documentoID uuid.UUID) ([]model.MovimientoUnidad, error)
	EliminarMovimientosTx(tx *gorm.DB, documentoID uuid.UUID) error

	Conteo(ctx context.Context, productoID *uuid.UUID) ([]ConteoUnidades, error)
	List(ctx context.Context, filter dto.UnidadFilter) ([]model.ProductoUnidad, int64, error)
}

type unidadRepo struct{ db *gorm.DB }

func NewUnidadRepository(db *gorm.DB) UnidadRepository { return &unidadRepo{db: db} }

func (r *unidadRepo) CrearTx(tx *gorm.DB, unidades []model.ProductoUnidad) error {
	if len(unidades) == 0 {
		return nil
	}
	// One INSERT … RETURNING id per batch keeps the IDs of a batch contiguous
	// unless another entry inserts concurrently.
	return traducir(tx.CreateInBatches(&unidades, 1000).Error, "unidad")
}

func (r *unidadRepo) SeleccionarTx(tx *gorm.DB, productoID uuid.UUID, pool model.Ubicacion, n int, excluir []uint64) ([]model.ProductoUnidad, error) {
	q := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("producto_info_id = ? AND estado = ?", productoID, pool.Estado)
	if pool.Estado == model.EstadoArea {
		q = q.Where("area_id = ?", pool.Ref)
	}
	if len(excluir) > 0 {
		q = q.Where("id NOT IN ?", excluir)
	}
	var out []model.ProductoUnidad
	err := q.Order("id ASC").Limit(n).Find(&out).Error
	return out, traducir(err, "unidad")
}

func (r *unidadRepo) BuscarTx(tx *gorm.DB, ids []uint64) ([]model.ProductoUnidad, error) {
	var out []model.ProductoUnidad
	if len(ids) == 0 {
		return out, nil
	}
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).Order("id ASC").Find(&out).Error
	return out, traducir(err, "unidad")
}

func (r *unidadRepo) PorEntradaTx(tx *gorm.DB, entradaID uuid.UUID) ([]model.ProductoUnidad, error) {
	var out []model.ProductoUnidad
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("entrada_id = ?", entradaID).Order("id ASC").Find(&out).Error
	return out, traducir(err, "unidad")
}

func (r *unidadRepo) MoverTx(tx *gorm.DB, ids []uint64, destino model.Ubicacion, documentoID uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	var u model.ProductoUnidad
	u.Ubicar(destino, &documentoID)
	return traducir(tx.Model(&model.ProductoUnidad{}).Where("id IN ?", ids).Updates(map[string]interface{}{
		"estado":       u.Estado,
		"area_id":      u.AreaID,
		"documento_id": u.DocumentoID,
		"updated_at":   time.Now(),
	}).Error, "unidad")
}

type origenKey struct {
	estado model.EstadoUnidad
	area   uuid.UUID
	doc    uuid.UUID
}

func (r *unidadRepo) RestaurarTx(tx *gorm.DB, movs []model.MovimientoUnidad) error {
	// Group by origin so each distinct origin costs one UPDATE.
	grupos := make(map[origenKey][]uint64)
	orden := make([]origenKey, 0)
	origen := make(map[origenKey]model.MovimientoUnidad)
	for _, m := range movs {
		k := origenKey{estado: m.OrigenEstado}
		if m.OrigenAreaID != nil {
			k.area = *m.OrigenAreaID
		}
		if m.OrigenDocumentoID != nil {
			k.doc = *m.OrigenDocumentoID
		}
		if _, ok := grupos[k]; !ok {
			orden = append(orden, k)
			origen[k] = m
		}
		grupos[k] = append(grupos[k], m.UnidadID)
	}
	for _, k := range orden {
		m := origen[k]
		err := tx.Model(&model.ProductoUnidad{}).Where("id IN ?", grupos[k]).Updates(map[string]interface{}{
			"estado":       m.OrigenEstado,
			"area_id":      m.OrigenAreaID,
			"documento_id": m.OrigenDocumentoID,
			"updated_at":   time.Now(),
		}).Error
		if err != nil {
			return traducir(err, "unidad")
		}
	}
	return nil
}

func (r *unidadRepo) EliminarPorEntradaTx(tx *gorm.DB, entradaID uuid.UUID) error {
	return traducir(tx.Where("entrada_id = ?", entradaID).Delete(&model.ProductoUnidad{}).Error, "unidad")
}

func (r *unidadRepo) RegistrarMovimientosTx(tx *gorm.DB, movs []model.MovimientoUnidad) error {
	if len(movs) == 0 {
		return nil
	}
	return traducir(tx.CreateInBatches(&movs, 1000).Error, "movimiento de unidad")
}

func (r *unidadRepo) MovimientosTx(tx *gorm.DB, documentoID uuid.UUID) ([]model.MovimientoUnidad, error) {
	var out []model.MovimientoUnidad
	err := tx.Where("documento_id = ?", documentoID).Order("unidad_id ASC").Find(&out).Error
	return out, traducir(err, "movimiento de unidad")
}

func (r *unidadRepo) EliminarMovimientosTx(tx *gorm.DB, documentoID uuid.UUID) error {
	return traducir(tx.Where("documento_id = ?", documentoID).Delete(&model.MovimientoUnidad{}).Error, "movimiento de unidad")
}

func (r *unidadRepo) Conteo(ctx context.Context, productoID *uuid.UUID) ([]ConteoUnidades, error) {
	q := r.db.WithContext(ctx).Model(&model.ProductoUnidad{}).
		Select("producto_info_id, estado, area_id, COUNT(*) AS cantidad").
		Group("producto_info_id, estado, area_id")
	if productoID != nil {
		q = q.Where("producto_info_id = ?", *productoID)
	}
	var out []ConteoUnidades
	err := q.Scan(&out).Error
	return out, traducir(err, "unidad")
}

func (r *unidadRepo) List(ctx context.Context, filter dto.UnidadFilter) ([]model.ProductoUnidad, int64, error) {
	var out []model.ProductoUnidad
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ProductoUnidad{})
	if filter.ProductoInfoID != "" {
		q = q.Where("producto_info_id = ?", filter.ProductoInfoID)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.AreaID != "" {
		q = q.Where("area_id = ?", filter.AreaID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, traducir(err, "unidad")
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("id ASC").Limit(filter.Limit).Offset(offset).Find(&out).Error
	return out, total, traducir(err, "unidad")
}
