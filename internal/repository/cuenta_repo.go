package repository

import (
	"context"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CuentaRepository persists accounts and their ledger rows.
type CuentaRepository interface {
	Crear(ctx context.Context, c *model.Cuenta) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Cuenta, error)
	Listar(ctx context.Context) ([]model.Cuenta, error)
	ListarTransacciones(ctx context.Context, cuentaID uuid.UUID, page, limit int) ([]model.Transaccion, int64, error)

	// BloquearTx reads the account with SELECT … FOR UPDATE.
	BloquearTx(tx *gorm.DB, id uuid.UUID) (*model.Cuenta, error)
	AjustarSaldoTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error
	CrearTransaccionTx(tx *gorm.DB, t *model.Transaccion) error
	TransaccionTx(tx *gorm.DB, id uuid.UUID) (*model.Transaccion, error)
	EliminarTransaccionTx(tx *gorm.DB, id uuid.UUID) error
}

type cuentaRepo struct{ db *gorm.DB }

func NewCuentaRepository(db *gorm.DB) CuentaRepository { return &cuentaRepo{db: db} }

func (r *cuentaRepo) Crear(ctx context.Context, c *model.Cuenta) error {
	return traducir(r.db.WithContext(ctx).Create(c).Error, "cuenta")
}

func (r *cuentaRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Cuenta, error) {
	var c model.Cuenta
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, traducir(err, "cuenta")
	}
	return &c, nil
}

func (r *cuentaRepo) Listar(ctx context.Context) ([]model.Cuenta, error) {
	var list []model.Cuenta
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&list).Error
	return list, traducir(err, "cuenta")
}

func (r *cuentaRepo) ListarTransacciones(ctx context.Context, cuentaID uuid.UUID, page, limit int) ([]model.Transaccion, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	q := r.db.WithContext(ctx).Model(&model.Transaccion{}).Where("cuenta_id = ?", cuentaID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, traducir(err, "transaccion")
	}
	var rows []model.Transaccion
	err := q.Order("created_at DESC, id DESC").Limit(limit).Offset((page - 1) * limit).Find(&rows).Error
	return rows, total, traducir(err, "transaccion")
}

func (r *cuentaRepo) BloquearTx(tx *gorm.DB, id uuid.UUID) (*model.Cuenta, error) {
	var c model.Cuenta
	if err := bloquear(tx, &c, id, "cuenta"); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cuentaRepo) AjustarSaldoTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return traducir(tx.Model(&model.Cuenta{}).Where("id = ?", id).
		Update("saldo", gorm.Expr("saldo + ?", delta)).Error, "cuenta")
}

func (r *cuentaRepo) CrearTransaccionTx(tx *gorm.DB, t *model.Transaccion) error {
	return traducir(tx.Create(t).Error, "transaccion")
}

func (r *cuentaRepo) TransaccionTx(tx *gorm.DB, id uuid.UUID) (*model.Transaccion, error) {
	var t model.Transaccion
	if err := bloquear(tx, &t, id, "transaccion"); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *cuentaRepo) EliminarTransaccionTx(tx *gorm.DB, id uuid.UUID) error {
	return eliminar(tx, &model.Transaccion{}, id, "transaccion")
}
