package handler

import (
	"net/http"
	"time"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/middleware"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
)

type CatalogoHandler struct{ svc service.CatalogoService }

func NewCatalogoHandler(svc service.CatalogoService) *CatalogoHandler {
	return &CatalogoHandler{svc: svc}
}

// ── Categorias y areas ────────────────────────────────────────────────────────

func (h *CatalogoHandler) CrearCategoria(c *gin.Context) {
	var req dto.CrearCategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearCategoria(c.Request.Context(), middleware.Identidad(c), req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogoHandler) ListarCategorias(c *gin.Context) {
	resp, err := h.svc.ListarCategorias(c.Request.Context(), middleware.Identidad(c))
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) CrearArea(c *gin.Context) {
	var req dto.CrearAreaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearArea(c.Request.Context(), middleware.Identidad(c), req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogoHandler) ListarAreas(c *gin.Context) {
	resp, err := h.svc.ListarAreas(c.Request.Context(), middleware.Identidad(c))
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Productos ─────────────────────────────────────────────────────────────────

// CrearProducto godoc
// @Summary      Crear producto
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProductoRequest true "Producto"
// @Success      201  {object} dto.ProductoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/productos [post]
func (h *CatalogoHandler) CrearProducto(c *gin.Context) {
	var req dto.CrearProductoRequest
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

// ActualizarPrecios godoc
// @Summary      Cambiar precios
// @Description  Actualiza costo, venta o pago al trabajador y deja un registro en el historial vigente desde vigente_desde (o ahora).
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                       true "UUID del producto"
// @Param        body body dto.ActualizarPreciosRequest true "Precios"
// @Success      200  {object} dto.ProductoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/productos/{id}/precios [put]
func (h *CatalogoHandler) ActualizarPrecios(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarPreciosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarPrecios(c.Request.Context(), middleware.Identidad(c), id, req)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) ObtenerProducto(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerProducto(c.Request.Context(), middleware.Identidad(c), id)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) ListarProductos(c *gin.Context) {
	var filter dto.ProductoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarProductos(c.Request.Context(), middleware.Identidad(c), filter)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HistorialPrecios godoc
// @Summary      Historial de precios de un producto
// @Description  Retorna el historial de cambios de precio, ordenado por fecha descendente.
// @Tags         productos
// @Security     BearerAuth
// @Param        id    path     string  true  "UUID del producto"
// @Param        page  query    int     false "Pagina (default 1)"
// @Param        limit query    int     false "Registros por pagina (default 20, max 100)"
// @Success      200   {object} dto.HistorialPrecioListResponse
// @Failure      404   {object} apierror.APIError
// @Router       /v1/productos/{id}/historial-precios [get]
func (h *CatalogoHandler) HistorialPrecios(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, limit := paginacion(c, 20)
	resp, err := h.svc.HistorialPrecios(c.Request.Context(), middleware.Identidad(c), id, page, limit)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PrecioVigente godoc
// @Summary      Precio vigente en una fecha
// @Tags         productos
// @Security     BearerAuth
// @Param        id    path  string true  "UUID del producto"
// @Param        fecha query string false "Instante RFC 3339 (default ahora)"
// @Success      200   {object} dto.HistorialPrecioItem
// @Failure      404   {object} apierror.APIError
// @Router       /v1/productos/{id}/precio-vigente [get]
func (h *CatalogoHandler) PrecioVigente(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	asOf := time.Now()
	if raw := c.Query("fecha"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("fecha invalida: use RFC 3339"))
			return
		}
		asOf = t
	}
	resp, err := h.svc.PrecioVigente(c.Request.Context(), middleware.Identidad(c), id, asOf)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
