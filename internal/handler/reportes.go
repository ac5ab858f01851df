package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/middleware"
	"tiendapos/internal/service"
	"tiendapos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type ReportesHandler struct {
	svc service.ReporteService
	rdb redis.Cmdable
	loc *time.Location
}

func NewReportesHandler(svc service.ReporteService, rdb redis.Cmdable, loc *time.Location) *ReportesHandler {
	return &ReportesHandler{svc: svc, rdb: rdb, loc: loc}
}

func (h *ReportesHandler) filtro(c *gin.Context) (dto.ReporteFiltro, bool) {
	desde, ok := queryFecha(c, "desde", h.loc, true)
	if !ok {
		return dto.ReporteFiltro{}, false
	}
	hasta, ok := queryFecha(c, "hasta", h.loc, true)
	if !ok {
		return dto.ReporteFiltro{}, false
	}
	area, ok := queryUUID(c, "area_id")
	if !ok {
		return dto.ReporteFiltro{}, false
	}
	return dto.ReporteFiltro{Desde: desde, Hasta: hasta, AreaID: area}, true
}

// Ganancias godoc
// @Summary      Reporte de ganancias
// @Description  Ventas brutas, costo de mercancia, comisiones, gastos fijos devengados, gastos variables y ganancia neta para un rango de dias inclusivo.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        desde   query string true  "AAAA-MM-DD"
// @Param        hasta   query string true  "AAAA-MM-DD"
// @Param        area_id query string false "Limitar a un area"
// @Success      200 {object} dto.ReporteGanancias
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reportes/ganancias [get]
func (h *ReportesHandler) Ganancias(c *gin.Context) {
	f, ok := h.filtro(c)
	if !ok {
		return
	}
	resp, err := h.svc.Ganancias(c.Request.Context(), middleware.Identidad(c), f)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Cafeteria(c *gin.Context) {
	desde, ok := queryFecha(c, "desde", h.loc, true)
	if !ok {
		return
	}
	hasta, ok := queryFecha(c, "hasta", h.loc, true)
	if !ok {
		return
	}
	resp, err := h.svc.GananciasCafeteria(c.Request.Context(), middleware.Identidad(c), desde, hasta)
	if err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Exportar godoc
// @Summary      Descargar reporte de ganancias
// @Tags         reportes
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        formato path  string true  "pdf o xlsx"
// @Param        desde   query string true  "AAAA-MM-DD"
// @Param        hasta   query string true  "AAAA-MM-DD"
// @Param        area_id query string false "Limitar a un area"
// @Success      200 {file} file
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reportes/ganancias/{formato} [get]
func (h *ReportesHandler) Exportar(c *gin.Context) {
	f, ok := h.filtro(c)
	if !ok {
		return
	}
	formato := c.Param("formato")
	out, err := h.svc.ExportarGanancias(c.Request.Context(), middleware.Identidad(c), f, formato)
	if err != nil {
		abortar(c, err)
		return
	}
	contentType := "application/pdf"
	if formato == service.FormatoXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	nombre := fmt.Sprintf("ganancias_%s_%s.%s", f.Desde.Format("2006-01-02"), f.Hasta.Format("2006-01-02"), formato)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nombre))
	c.Data(http.StatusOK, contentType, out)
}

// Enviar godoc
// @Summary      Enviar reporte por correo
// @Description  Encola el envio; el PDF se genera y se envia en segundo plano.
// @Tags         reportes
// @Accept       json
// @Security     BearerAuth
// @Param        body body dto.EnviarReporteRequest true "Destinatario y rango"
// @Success      202
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reportes/ganancias/email [post]
func (h *ReportesHandler) Enviar(c *gin.Context) {
	var req dto.EnviarReporteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EnviarGanancias(c.Request.Context(), middleware.Identidad(c), req); err != nil {
		abortar(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"encolado": true})
}

// Fallidos lists report e-mails that ended in the dead letter queue.
func (h *ReportesHandler) Fallidos(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	entries, err := worker.ListDLQ(c.Request.Context(), h.rdb, worker.QueueReportes, limit)
	if err != nil {
		abortar(c, apierror.Inesperado(err))
		return
	}
	c.JSON(http.StatusOK, entries)
}
