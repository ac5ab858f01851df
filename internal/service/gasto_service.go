package service

import (
	"context"
	"strings"
	"time"

	"tiendapos/internal/apierror"
	"tiendapos/internal/auth"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
)

type GastoService interface {
	CrearGastoFijo(ctx context.Context, quien auth.Identidad, req dto.CrearGastoFijoRequest) (*dto.GastoFijoResponse, error)
	ListarGastosFijos(ctx context.Context, quien auth.Identidad, soloActivos bool) ([]dto.GastoFijoResponse, error)
	DesactivarGastoFijo(ctx context.Context, quien auth.Identidad, id uuid.UUID) error
	RegistrarGastoVariable(ctx context.Context, quien auth.Identidad, req dto.RegistrarGastoVariableRequest) (*dto.GastoVariableResponse, error)
	ListarGastosVariables(ctx context.Context, quien auth.Identidad, desde, hasta time.Time) ([]dto.GastoVariableResponse, error)
}

type gastoService struct {
	gastos repository.GastoRepository
	areas  repository.AreaRepository
}

func NewGastoService(gastos repository.GastoRepository, areas repository.AreaRepository) GastoService {
	return &gastoService{gastos: gastos, areas: areas}
}

func (s *gastoService) CrearGastoFijo(ctx context.Context, quien auth.Identidad, req dto.CrearGastoFijoRequest) (*dto.GastoFijoResponse, error) {
	if err := auth.Autorizar(quien, auth.OpGestionarGastos); err != nil {
		return nil, err
	}
	if !req.Monto.IsPositive() {
		return nil, apierror.Validacion("el monto del gasto debe ser mayor que cero")
	}
	g := &model.GastoFijo{
		Descripcion: strings.TrimSpace(req.Descripcion),
		Monto:       req.Monto,
		Frecuencia:  req.Frecuencia,
		Cafeteria:   req.Cafeteria,
		Activo:      true,
	}

	// Only the day field of the chosen frequency is stored
	switch req.Frecuencia {
	case model.FrecuenciaDiaria:
	case model.FrecuenciaSemanal:
		if req.DiaSemana == nil || *req.DiaSemana < 0 || *req.DiaSemana > 6 {
			return nil, apierror.Validacion("un gasto semanal requiere dia_semana entre 0 (lunes) y 6 (domingo)")
		}
		g.DiaSemana = req.DiaSemana
	case model.FrecuenciaMensual:
		if req.DiaMes == nil || *req.DiaMes < 1 || *req.DiaMes > 31 {
			return nil, apierror.Validacion("un gasto mensual requiere dia_mes entre 1 y 31")
		}
		g.DiaMes = req.DiaMes
	default:
		return nil, apierror.Validacion("frecuencia %q invalida", req.Frecuencia)
	}

	areaID, err := s.areaGasto(ctx, req.AreaID, req.Cafeteria)
	if err != nil {
		return nil, err
	}
	g.AreaID = areaID

	if err := s.gastos.CrearFijo(ctx, g); err != nil {
		return nil, err
	}
	resp := gastoFijoToResponse(g)
	return &resp, nil
}

func (s *gastoService) ListarGastosFijos(ctx context.Context, quien auth.Identidad, soloActivos bool) ([]dto.GastoFijoResponse, error) {
	if err := auth.Autorizar(quien, auth.OpGestionarGastos); err != nil {
		return nil, err
	}
	gs, err := s.gastos.ListarFijos(ctx, soloActivos)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GastoFijoResponse, len(gs))
	for i := range gs {
		out[i] = gastoFijoToResponse(&gs[i])
	}
	return out, nil
}

// DesactivarGastoFijo stops a fixed expense from accruing. Past reports are
// computed from active expenses only, so deactivating also removes it from
// reports over earlier periods.
func (s *gastoService) DesactivarGastoFijo(ctx context.Context, quien auth.Identidad, id uuid.UUID) error {
	if err := auth.Autorizar(quien, auth.OpGestionarGastos); err != nil {
		return err
	}
	return s.gastos.DesactivarFijo(ctx, id)
}

func (s *gastoService) RegistrarGastoVariable(ctx context.Context, quien auth.Identidad, req dto.RegistrarGastoVariableRequest) (*dto.GastoVariableResponse, error) {
	if err := auth.Autorizar(quien, auth.OpGestionarGastos); err != nil {
		return nil, err
	}
	if !req.Monto.IsPositive() {
		return nil, apierror.Validacion("el monto del gasto debe ser mayor que cero")
	}
	if req.Fecha.IsZero() {
		return nil, apierror.Validacion("la fecha del gasto es obligatoria")
	}
	areaID, err := s.areaGasto(ctx, req.AreaID, req.Cafeteria)
	if err != nil {
		return nil, err
	}
	g := &model.GastoVariable{
		Descripcion: strings.TrimSpace(req.Descripcion),
		Monto:       req.Monto,
		Fecha:       dia(req.Fecha),
		AreaID:      areaID,
		Cafeteria:   req.Cafeteria,
		UsuarioID:   quien.UsuarioID,
	}
	if err := s.gastos.CrearVariable(ctx, g); err != nil {
		return nil, err
	}
	resp := gastoVariableToResponse(g)
	return &resp, nil
}

func (s *gastoService) ListarGastosVariables(ctx context.Context, quien auth.Identidad, desde, hasta time.Time) ([]dto.GastoVariableResponse, error) {
	if err := auth.Autorizar(quien, auth.OpGestionarGastos); err != nil {
		return nil, err
	}
	if hasta.Before(desde) {
		return nil, apierror.Validacion("hasta no puede ser anterior a desde")
	}
	gs, err := s.gastos.ListarVariables(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GastoVariableResponse, len(gs))
	for i := range gs {
		out[i] = gastoVariableToResponse(&gs[i])
	}
	return out, nil
}

// areaGasto validates the optional area of an expense. A cafeteria expense
// belongs to the cafeteria report and carries no area.
func (s *gastoService) areaGasto(ctx context.Context, areaID *uuid.UUID, cafeteria bool) (*uuid.UUID, error) {
	if areaID == nil {
		return nil, nil
	}
	if cafeteria {
		return nil, apierror.Validacion("un gasto de cafeteria no lleva area_id")
	}
	a, err := s.areas.ObtenerPorID(ctx, *areaID)
	if err != nil {
		return nil, err
	}
	if a.Tipo == model.AreaCafeteria {
		return nil, apierror.Validacion("use cafeteria=true para gastos de la cafeteria")
	}
	return &a.ID, nil
}

// dia truncates t to its calendar day, keeping the location.
func dia(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func gastoFijoToResponse(g *model.GastoFijo) dto.GastoFijoResponse {
	return dto.GastoFijoResponse{
		ID:          g.ID,
		Descripcion: g.Descripcion,
		Monto:       g.Monto,
		Frecuencia:  g.Frecuencia,
		DiaSemana:   g.DiaSemana,
		DiaMes:      g.DiaMes,
		AreaID:      g.AreaID,
		Cafeteria:   g.Cafeteria,
		Activo:      g.Activo,
	}
}

func gastoVariableToResponse(g *model.GastoVariable) dto.GastoVariableResponse {
	return dto.GastoVariableResponse{
		ID:          g.ID,
		Descripcion: g.Descripcion,
		Monto:       g.Monto,
		Fecha:       g.Fecha,
		AreaID:      g.AreaID,
		Cafeteria:   g.Cafeteria,
	}
}
