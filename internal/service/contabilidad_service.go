package service

import (
	"context"
	"strings"

	"tiendapos/internal/apierror"
	"tiendapos/internal/auth"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovimientoCuenta describes one ledger movement. The reference fields link
// the movement to the document that caused it.
type MovimientoCuenta struct {
	CuentaID         uuid.UUID
	Monto            decimal.Decimal
	Descripcion      string
	UsuarioID        uuid.UUID
	VentaID          *uuid.UUID
	VentaCafeteriaID *uuid.UUID
	EntradaID        *uuid.UUID
}

// Libro is the part of the ledger other services run inside their own unit
// of work, so a sale and its deposit commit or roll back together.
type Libro interface {
	DepositarTx(tx *gorm.DB, m MovimientoCuenta) (*model.Transaccion, error)
	ExtraerTx(tx *gorm.DB, m MovimientoCuenta) (*model.Transaccion, error)
	RevertirTransaccionTx(tx *gorm.DB, id uuid.UUID) error
}

type ContabilidadService interface {
	Libro
	CrearCuenta(ctx context.Context, quien auth.Identidad, req dto.CrearCuentaRequest) (*dto.CuentaResponse, error)
	ListarCuentas(ctx context.Context, quien auth.Identidad) ([]dto.CuentaResponse, error)
	Depositar(ctx context.Context, quien auth.Identidad, cuentaID uuid.UUID, req dto.MovimientoCuentaRequest) (*dto.TransaccionResponse, error)
	Extraer(ctx context.Context, quien auth.Identidad, cuentaID uuid.UUID, req dto.MovimientoCuentaRequest) (*dto.TransaccionResponse, error)
	TransferirEntreCuentas(ctx context.Context, quien auth.Identidad, req dto.TransferenciaCuentasRequest) ([]dto.TransaccionResponse, error)
	RevertirTransaccion(ctx context.Context, quien auth.Identidad, id uuid.UUID) error
	ListarTransacciones(ctx context.Context, quien auth.Identidad, cuentaID uuid.UUID, page, limit int) (*dto.TransaccionListResponse, error)
}

type contabilidadService struct {
	uow     repository.UnitOfWork
	cuentas repository.CuentaRepository
}

func NewContabilidadService(uow repository.UnitOfWork, cuentas repository.CuentaRepository) ContabilidadService {
	return &contabilidadService{uow: uow, cuentas: cuentas}
}

// ── Cuentas ───────────────────────────────────────────────────────────────────

func (s *contabilidadService) CrearCuenta(ctx context.Context, quien auth.Identidad, req dto.CrearCuentaRequest) (*dto.CuentaResponse, error) {
	if err := auth.Autorizar(quien, auth.OpGestionarCuentas); err != nil {
		return nil, err
	}
	c := &model.Cuenta{
		Nombre: strings.TrimSpace(req.Nombre),
		Tipo:   req.Tipo,
		Banco:  req.Banco,
		Saldo:  decimal.Zero,
		Activo: true,
	}
	if c.Nombre == "" {
		return nil, apierror.Validacion("el nombre de la cuenta es obligatorio")
	}
	if err := s.cuentas.Crear(ctx, c); err != nil {
		return nil, err
	}
	resp := cuentaToResponse(c)
	return &resp, nil
}

func (s *contabilidadService) ListarCuentas(ctx context.Context, quien auth.Identidad) ([]dto.CuentaResponse, error) {
	if err := auth.Autorizar(quien, auth.OpConsultarCuentas); err != nil {
		return nil, err
	}
	list, err := s.cuentas.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CuentaResponse, len(list))
	for i := range list {
		out[i] = cuentaToResponse(&list[i])
	}
	return out, nil
}

// ── Movimientos ───────────────────────────────────────────────────────────────

func (s *contabilidadService) Depositar(ctx context.Context, quien auth.Identidad, cuentaID uuid.UUID, req dto.MovimientoCuentaRequest) (*dto.TransaccionResponse, error) {
	return s.movimiento(ctx, quien, cuentaID, req, s.DepositarTx)
}

func (s *contabilidadService) Extraer(ctx context.Context, quien auth.Identidad, cuentaID uuid.UUID, req dto.MovimientoCuentaRequest) (*dto.TransaccionResponse, error) {
	return s.movimiento(ctx, quien, cuentaID, req, s.ExtraerTx)
}

func (s *contabilidadService) movimiento(
	ctx context.Context,
	quien auth.Identidad,
	cuentaID uuid.UUID,
	req dto.MovimientoCuentaRequest,
	op func(tx *gorm.DB, m MovimientoCuenta) (*model.Transaccion, error),
) (*dto.TransaccionResponse, error) {
	if err := auth.Autorizar(quien, auth.OpMovimientoCuenta); err != nil {
		return nil, err
	}
	var t *model.Transaccion
	var saldo decimal.Decimal
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		t, err = op(tx, MovimientoCuenta{
			CuentaID:    cuentaID,
			Monto:       req.Monto,
			Descripcion: req.Descripcion,
			UsuarioID:   quien.UsuarioID,
		})
		if err != nil {
			return err
		}
		c, err := s.cuentas.BloquearTx(tx, cuentaID)
		if err != nil {
			return err
		}
		saldo = c.Saldo
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := transaccionToResponse(t, saldo)
	return &resp, nil
}

// DepositarTx adds m.Monto to the account. The amount must be positive.
func (s *contabilidadService) DepositarTx(tx *gorm.DB, m MovimientoCuenta) (*model.Transaccion, error) {
	if !m.Monto.IsPositive() {
		return nil, apierror.Validacion("el monto del deposito debe ser mayor que cero")
	}
	if _, err := s.cuentaActiva(tx, m.CuentaID); err != nil {
		return nil, err
	}
	return s.asentar(tx, uuid.New(), m, model.TransaccionIngreso, nil)
}

// ExtraerTx withdraws m.Monto. The account must keep a strictly positive
// balance afterwards: withdrawing the whole balance is rejected.
func (s *contabilidadService) ExtraerTx(tx *gorm.DB, m MovimientoCuenta) (*model.Transaccion, error) {
	if !m.Monto.IsPositive() {
		return nil, apierror.Validacion("el monto de la extraccion debe ser mayor que cero")
	}
	c, err := s.cuentaActiva(tx, m.CuentaID)
	if err != nil {
		return nil, err
	}
	if c.Saldo.Sub(m.Monto).LessThanOrEqual(decimal.Zero) {
		return nil, apierror.FondosInsuficientes("saldo insuficiente en la cuenta %s: saldo %s, monto %s",
			c.Nombre, c.Saldo.StringFixed(2), m.Monto.StringFixed(2))
	}
	return s.asentar(tx, uuid.New(), m, model.TransaccionEgreso, nil)
}

func (s *contabilidadService) cuentaActiva(tx *gorm.DB, id uuid.UUID) (*model.Cuenta, error) {
	c, err := s.cuentas.BloquearTx(tx, id)
	if err != nil {
		return nil, err
	}
	if !c.Activo {
		return nil, apierror.Validacion("la cuenta %s esta inactiva", c.Nombre)
	}
	return c, nil
}

// asentar writes the ledger row and moves the balance. The account must
// already be locked by the caller.
func (s *contabilidadService) asentar(tx *gorm.DB, id uuid.UUID, m MovimientoCuenta, tipo string, contraparte *uuid.UUID) (*model.Transaccion, error) {
	t := &model.Transaccion{
		ID:                    id,
		CuentaID:              m.CuentaID,
		Tipo:                  tipo,
		Monto:                 m.Monto,
		Descripcion:           m.Descripcion,
		VentaID:               m.VentaID,
		VentaCafeteriaID:      m.VentaCafeteriaID,
		EntradaID:             m.EntradaID,
		TransferenciaCuentaID: contraparte,
	}
	if m.UsuarioID != uuid.Nil {
		uid := m.UsuarioID
		t.UsuarioID = &uid
	}
	if err := s.cuentas.CrearTransaccionTx(tx, t); err != nil {
		return nil, err
	}
	if err := s.cuentas.AjustarSaldoTx(tx, m.CuentaID, t.Signo()); err != nil {
		return nil, err
	}
	return t, nil
}

// ── Transferencias entre cuentas ──────────────────────────────────────────────

// TransferirEntreCuentas withdraws from one account and deposits into the
// other. Each leg points at the other through TransferenciaCuentaID.
func (s *contabilidadService) TransferirEntreCuentas(ctx context.Context, quien auth.Identidad, req dto.TransferenciaCuentasRequest) ([]dto.TransaccionResponse, error) {
	if err := auth.Autorizar(quien, auth.OpMovimientoCuenta); err != nil {
		return nil, err
	}
	if req.DesdeCuentaID == req.HaciaCuentaID {
		return nil, apierror.Validacion("la cuenta de origen y la de destino deben ser distintas")
	}
	if !req.Monto.IsPositive() {
		return nil, apierror.Validacion("el monto de la transferencia debe ser mayor que cero")
	}

	var out []dto.TransaccionResponse
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		// Lock both accounts in ID order so opposite transfers cannot deadlock.
		if err := s.bloquearEnOrden(tx, req.DesdeCuentaID, req.HaciaCuentaID); err != nil {
			return err
		}
		desde, err := s.cuentaActiva(tx, req.DesdeCuentaID)
		if err != nil {
			return err
		}
		if _, err := s.cuentaActiva(tx, req.HaciaCuentaID); err != nil {
			return err
		}
		if desde.Saldo.Sub(req.Monto).LessThanOrEqual(decimal.Zero) {
			return apierror.FondosInsuficientes("saldo insuficiente en la cuenta %s", desde.Nombre)
		}

		egresoID, ingresoID := uuid.New(), uuid.New()
		egreso := MovimientoCuenta{CuentaID: req.DesdeCuentaID, Monto: req.Monto, Descripcion: req.Descripcion, UsuarioID: quien.UsuarioID}
		ingreso := egreso
		ingreso.CuentaID = req.HaciaCuentaID

		te, err := s.asentar(tx, egresoID, egreso, model.TransaccionEgreso, &ingresoID)
		if err != nil {
			return err
		}
		ti, err := s.asentar(tx, ingresoID, ingreso, model.TransaccionIngreso, &egresoID)
		if err != nil {
			return err
		}
		for _, t := range []*model.Transaccion{te, ti} {
			c, err := s.cuentas.BloquearTx(tx, t.CuentaID)
			if err != nil {
				return err
			}
			out = append(out, transaccionToResponse(t, c.Saldo))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *contabilidadService) bloquearEnOrden(tx *gorm.DB, a, b uuid.UUID) error {
	if b.String() < a.String() {
		a, b = b, a
	}
	if _, err := s.cuentas.BloquearTx(tx, a); err != nil {
		return err
	}
	_, err := s.cuentas.BloquearTx(tx, b)
	return err
}

// ── Reversion ─────────────────────────────────────────────────────────────────

// RevertirTransaccion undoes a manual movement or an inter-account transfer.
// Movements created by a sale or a stock entry are reverted through their
// document.
func (s *contabilidadService) RevertirTransaccion(ctx context.Context, quien auth.Identidad, id uuid.UUID) error {
	if err := auth.Autorizar(quien, auth.OpRevertirMovimiento); err != nil {
		return err
	}
	return s.uow.Do(ctx, func(tx *gorm.DB) error {
		t, err := s.cuentas.TransaccionTx(tx, id)
		if err != nil {
			return err
		}
		if t.VentaID != nil || t.VentaCafeteriaID != nil || t.EntradaID != nil {
			return apierror.Conflicto("el movimiento pertenece a un documento; revierta el documento")
		}
		if t.TransferenciaCuentaID == nil {
			return s.RevertirTransaccionTx(tx, id)
		}

		par, err := s.cuentas.TransaccionTx(tx, *t.TransferenciaCuentaID)
		if err != nil {
			return err
		}
		if err := s.bloquearEnOrden(tx, t.CuentaID, par.CuentaID); err != nil {
			return err
		}
		// The income leg first: it is the one that can fail.
		ingreso, egreso := t, par
		if t.Tipo == model.TransaccionEgreso {
			ingreso, egreso = par, t
		}
		if err := s.RevertirTransaccionTx(tx, ingreso.ID); err != nil {
			return err
		}
		return s.RevertirTransaccionTx(tx, egreso.ID)
	})
}

// RevertirTransaccionTx deletes the ledger row and undoes its effect on the
// balance. Reverting an income needs the balance to cover it; reverting an
// expense always succeeds.
func (s *contabilidadService) RevertirTransaccionTx(tx *gorm.DB, id uuid.UUID) error {
	t, err := s.cuentas.TransaccionTx(tx, id)
	if err != nil {
		return err
	}
	c, err := s.cuentas.BloquearTx(tx, t.CuentaID)
	if err != nil {
		return err
	}
	if t.Tipo == model.TransaccionIngreso && c.Saldo.LessThan(t.Monto) {
		return apierror.FondosInsuficientes("saldo insuficiente en la cuenta %s para revertir el ingreso de %s",
			c.Nombre, t.Monto.StringFixed(2))
	}
	if err := s.cuentas.AjustarSaldoTx(tx, t.CuentaID, t.Signo().Neg()); err != nil {
		return err
	}
	return s.cuentas.EliminarTransaccionTx(tx, id)
}

func (s *contabilidadService) ListarTransacciones(ctx context.Context, quien auth.Identidad, cuentaID uuid.UUID, page, limit int) (*dto.TransaccionListResponse, error) {
	if err := auth.Autorizar(quien, auth.OpConsultarCuentas); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	c, err := s.cuentas.ObtenerPorID(ctx, cuentaID)
	if err != nil {
		return nil, err
	}
	rows, total, err := s.cuentas.ListarTransacciones(ctx, cuentaID, page, limit)
	if err != nil {
		return nil, err
	}

	// Running balance, newest first: the newest row ends at the current saldo.
	saldo := c.Saldo
	data := make([]dto.TransaccionResponse, len(rows))
	for i := range rows {
		data[i] = transaccionToResponse(&rows[i], saldo)
		saldo = saldo.Sub(rows[i].Signo())
	}
	return &dto.TransaccionListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// ── Mappers ───────────────────────────────────────────────────────────────────

func cuentaToResponse(c *model.Cuenta) dto.CuentaResponse {
	return dto.CuentaResponse{
		ID:     c.ID,
		Nombre: c.Nombre,
		Tipo:   c.Tipo,
		Banco:  c.Banco,
		Saldo:  c.Saldo,
		Activo: c.Activo,
	}
}

func transaccionToResponse(t *model.Transaccion, saldo decimal.Decimal) dto.TransaccionResponse {
	return dto.TransaccionResponse{
		ID:          t.ID,
		CuentaID:    t.CuentaID,
		Tipo:        t.Tipo,
		Monto:       t.Monto,
		Descripcion: t.Descripcion,
		VentaID:     t.VentaID,
		EntradaID:   t.EntradaID,
		SaldoCuenta: saldo,
		CreatedAt:   t.CreatedAt,
	}
}
