package handler

import (
	"net/http"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/middleware"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
)

type GastosHandler struct {
	svc service.GastoService
	loc *time.Location
}

func NewGastosHandler(svc service.GastoService, loc *time.Location) *GastosHandler {
	return &GastosHandler{svc: svc, loc: loc}
}

// CrearFijo godoc
// @Summary      Crear gasto fijo
// @Description  Gasto recurrente diario, semanal (dia_semana 0=domingo) o mensual (dia_mes; en meses mas cortos cae el ultimo dia).
// @Tags         gastos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearGastoFijoRequest true "Gasto fijo"
// @Success      201  {object} dto.GastoFijoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/gastos/fijos [post]
func (h *GastosHandler) CrearFijo(c *gin.Context) {
	var req dto.CrearGastoFijoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearGastoFijo(c.Request.Context(), middleware.Identidad(c), req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *GastosHandler) ListarFijos(c *gin.Context) {
	soloActivos := c.Query("todos") != "true"
	resp, err := h.svc.ListarGastosFijos(c.Request.Context(), middleware.Identidad(c), soloActivos)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GastosHandler) DesactivarFijo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DesactivarGastoFijo(c.Request.Context(), middleware.Identidad(c), id); err != nil {
		abortar(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GastosHandler) RegistrarVariable(c *gin.Context) {
	var req dto.RegistrarGastoVariableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarGastoVariable(c.Request.Context(), middleware.Identidad(c), req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *GastosHandler) ListarVariables(c *gin.Context) {
	desde, ok := queryFecha(c, "desde", h.loc, true)
	if !ok {
		return
	}
	hasta, ok := queryFecha(c, "hasta", h.loc, true)
	if !ok {
		return
	}
	resp, err := h.svc.ListarGastosVariables(c.Request.Context(), middleware.Identidad(c), desde, hasta)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
