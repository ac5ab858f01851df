package handler

import (
	"net/http"

	"tiendapos/internal/dto"
	"tiendapos/internal/middleware"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
)

type CuentasHandler struct{ svc service.ContabilidadService }

func NewCuentasHandler(svc service.ContabilidadService) *CuentasHandler {
	return &CuentasHandler{svc: svc}
}

func (h *CuentasHandler) Crear(c *gin.Context) {
	var req dto.CrearCuentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearCuenta(c.Request.Context(), middleware.Identidad(c), req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CuentasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarCuentas(c.Request.Context(), middleware.Identidad(c))
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Depositar godoc
// @Summary      Deposito en cuenta
// @Tags         cuentas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                      true "UUID de la cuenta"
// @Param        body body dto.MovimientoCuentaRequest true "Monto y descripcion"
// @Success      201  {object} dto.TransaccionResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/cuentas/{id}/depositos [post]
func (h *CuentasHandler) Depositar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.MovimientoCuentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Depositar(c.Request.Context(), middleware.Identidad(c), id, req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Extraer godoc
// @Summary      Extraccion de cuenta
// @Description  Falla con fondos_insuficientes si el saldo no queda por encima de cero.
// @Tags         cuentas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                      true "UUID de la cuenta"
// @Param        body body dto.MovimientoCuentaRequest true "Monto y descripcion"
// @Success      201  {object} dto.TransaccionResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/cuentas/{id}/extracciones [post]
func (h *CuentasHandler) Extraer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.MovimientoCuentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Extraer(c.Request.Context(), middleware.Identidad(c), id, req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CuentasHandler) Transferir(c *gin.Context) {
	var req dto.TransferenciaCuentasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.TransferirEntreCuentas(c.Request.Context(), middleware.Identidad(c), req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CuentasHandler) RevertirTransaccion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.RevertirTransaccion(c.Request.Context(), middleware.Identidad(c), id); err != nil {
		abortar(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CuentasHandler) ListarTransacciones(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, limit := paginacion(c, 50)
	resp, err := h.svc.ListarTransacciones(c.Request.Context(), middleware.Identidad(c), id, page, limit)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
