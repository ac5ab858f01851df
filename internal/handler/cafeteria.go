package handler

import (
	"net/http"

	"tiendapos/internal/dto"
	"tiendapos/internal/middleware"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
)

type CafeteriaHandler struct{ svc service.CafeteriaService }

func NewCafeteriaHandler(svc service.CafeteriaService) *CafeteriaHandler {
	return &CafeteriaHandler{svc: svc}
}

func (h *CafeteriaHandler) CrearProducto(c *gin.Context) {
	var req dto.CrearProductoCafeteriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearProducto(c.Request.Context(), middleware.Identidad(c), req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CafeteriaHandler) ListarProductos(c *gin.Context) {
	resp, err := h.svc.ListarProductos(c.Request.Context(), middleware.Identidad(c))
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecibirProducto godoc
// @Summary      Recibir insumo de cafeteria
// @Tags         cafeteria
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RecibirCafeteriaRequest true "Entrada"
// @Success      201  {object} dto.ProductoCafeteriaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/cafeteria/entradas [post]
func (h *CafeteriaHandler) RecibirProducto(c *gin.Context) {
	var req dto.RecibirCafeteriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecibirProducto(c.Request.Context(), middleware.Identidad(c), req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CafeteriaHandler) MoverAArea(c *gin.Context) {
	var req dto.MoverCafeteriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.MoverAArea(c.Request.Context(), middleware.Identidad(c), req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CafeteriaHandler) CrearElaboracion(c *gin.Context) {
	var req dto.CrearElaboracionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearElaboracion(c.Request.Context(), middleware.Identidad(c), req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CafeteriaHandler) ListarElaboraciones(c *gin.Context) {
	resp, err := h.svc.ListarElaboraciones(c.Request.Context(), middleware.Identidad(c))
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Vender godoc
// @Summary      Venta de cafeteria
// @Description  Descuenta insumos del area (directos o por receta). Con cuenta_casa no se cobra y el costo se registra como consumo de la casa.
// @Tags         cafeteria
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.VenderCafeteriaRequest true "Venta"
// @Success      201  {object} dto.VentaCafeteriaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/cafeteria/ventas [post]
func (h *CafeteriaHandler) Vender(c *gin.Context) {
	var req dto.VenderCafeteriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Vender(c.Request.Context(), middleware.Identidad(c), req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CafeteriaHandler) RevertirVenta(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.RevertirVenta(c.Request.Context(), middleware.Identidad(c), id); err != nil {
		abortar(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
