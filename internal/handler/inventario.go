package handler

import (
	"net/http"

	"tiendapos/internal/dto"
	"tiendapos/internal/middleware"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// RecibirStock godoc
// @Summary      Recibir mercancia
// @Description  Crea una unidad en almacen por cada pieza recibida, en total o por variante (color/talla). Si se indica cuenta_id el costo se extrae de esa cuenta.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RecibirStockRequest true "Entrada"
// @Success      201  {object} dto.EntradaResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/inventario/entradas [post]
func (h *InventarioHandler) RecibirStock(c *gin.Context) {
	var req dto.RecibirStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecibirStock(c.Request.Context(), middleware.Identidad(c), req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EliminarEntrada godoc
// @Summary      Eliminar entrada
// @Description  Borra una entrada cuyas unidades siguen todas en almacen.
// @Tags         inventario
// @Security     BearerAuth
// @Param        id path string true "UUID de la entrada"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/inventario/entradas/{id} [delete]
func (h *InventarioHandler) EliminarEntrada(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarEntrada(c.Request.Context(), middleware.Identidad(c), id); err != nil {
		abortar(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MoverAArea godoc
// @Summary      Salida de almacen a area
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.MoverAAreaRequest true "Salida"
// @Success      201  {object} dto.SalidaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/inventario/salidas [post]
func (h *InventarioHandler) MoverAArea(c *gin.Context) {
	var req dto.MoverAAreaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.MoverAArea(c.Request.Context(), middleware.Identidad(c), req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RevertirSalida godoc
// @Summary      Revertir salida
// @Description  Devuelve al almacen las unidades de la salida. Falla con conflicto si alguna ya no esta en el area.
// @Tags         inventario
// @Security     BearerAuth
// @Param        id path string true "UUID de la salida"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/inventario/salidas/{id} [delete]
func (h *InventarioHandler) RevertirSalida(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.RevertirSalida(c.Request.Context(), middleware.Identidad(c), id); err != nil {
		abortar(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Vender godoc
// @Summary      Registrar venta
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.VenderRequest true "Venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *InventarioHandler) Vender(c *gin.Context) {
	var req dto.VenderRequest
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

// RevertirVenta godoc
// @Summary      Revertir venta
// @Description  Devuelve las unidades al area y revierte el ingreso en la cuenta.
// @Tags         ventas
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/ventas/{id} [delete]
func (h *InventarioHandler) RevertirVenta(c *gin.Context) {
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

func (h *InventarioHandler) Transferir(c *gin.Context) {
	var req dto.TransferirRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Transferir(c.Request.Context(), middleware.Identidad(c), req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventarioHandler) RevertirTransferencia(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.RevertirTransferencia(c.Request.Context(), middleware.Identidad(c), id); err != nil {
		abortar(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AjustarInventario godoc
// @Summary      Ajuste de inventario
// @Description  Da de baja unidades de almacen o de un area con un motivo.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AjustarInventarioRequest true "Ajuste"
// @Success      201  {object} dto.AjusteResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/inventario/ajustes [post]
func (h *InventarioHandler) AjustarInventario(c *gin.Context) {
	var req dto.AjustarInventarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AjustarInventario(c.Request.Context(), middleware.Identidad(c), req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventarioHandler) RevertirAjuste(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.RevertirAjuste(c.Request.Context(), middleware.Identidad(c), id); err != nil {
		abortar(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ResumenStock godoc
// @Summary      Existencias por ubicacion
// @Tags         inventario
// @Security     BearerAuth
// @Param        producto_info_id query string false "Filtrar por producto"
// @Success      200 {array} dto.ResumenStock
// @Router       /v1/inventario/resumen [get]
func (h *InventarioHandler) ResumenStock(c *gin.Context) {
	productoID, ok := queryUUID(c, "producto_info_id")
	if !ok {
		return
	}
	resp, err := h.svc.ResumenStock(c.Request.Context(), middleware.Identidad(c), productoID)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) ListarUnidades(c *gin.Context) {
	var filter dto.UnidadFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarUnidades(c.Request.Context(), middleware.Identidad(c), filter)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
