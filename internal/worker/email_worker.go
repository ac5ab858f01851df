package worker

// email_worker.go
// Processes report e-mail jobs from QueueReportes.
// Rebuilds the profit report as the requesting user and mails it as a PDF.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tiendapos/internal/apierror"
	"tiendapos/internal/auth"
	"tiendapos/internal/dto"
	"tiendapos/internal/infra"
	"tiendapos/internal/service"

	"github.com/rs/zerolog/log"
)

// Exportador builds the report bytes. service.ReporteService satisfies it.
type Exportador interface {
	ExportarGanancias(ctx context.Context, quien auth.Identidad, filtro dto.ReporteFiltro, formato string) ([]byte, error)
}

// Reintentos decides where a failed job goes next. *Dispatcher satisfies it.
type Reintentos interface {
	Reprogramar(ctx context.Context, job dto.ReporteEmailJob, espera time.Duration) error
	MoverADLQ(ctx context.Context, job dto.ReporteEmailJob, motivo string)
}

type ReporteEmailWorker struct {
	reportes    Exportador
	correo      infra.Correo
	reintentos  Reintentos
	maxIntentos int
	loc         *time.Location
}

func NewReporteEmailWorker(reportes Exportador, correo infra.Correo, reintentos Reintentos, maxIntentos int, loc *time.Location) *ReporteEmailWorker {
	if maxIntentos <= 0 {
		maxIntentos = 1
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReporteEmailWorker{
		reportes:    reportes,
		correo:      correo,
		reintentos:  reintentos,
		maxIntentos: maxIntentos,
		loc:         loc,
	}
}

// Process is the Handler for JobReporteEmail.
func (w *ReporteEmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var job dto.ReporteEmailJob
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if job.Destinatario == "" {
		log.Warn().Msg("email_worker: empty destinatario, skipping")
		return
	}

	filtro, err := w.filtro(job)
	if err != nil {
		w.reintentos.MoverADLQ(ctx, job, err.Error())
		return
	}

	quien := auth.Identidad{UsuarioID: job.UsuarioID, Rol: job.Rol}
	pdf, err := w.reportes.ExportarGanancias(ctx, quien, filtro, service.FormatoPDF)
	if err != nil {
		if apierror.KindOf(err) != apierror.KindInesperado {
			// the request itself is bad; retrying gives the same answer
			w.reintentos.MoverADLQ(ctx, job, err.Error())
			return
		}
		w.fallo(ctx, job, err)
		return
	}

	asunto := fmt.Sprintf("Reporte de ganancias %s al %s", job.Desde, job.Hasta)
	cuerpo := "Adjuntamos el reporte de ganancias del periodo solicitado."
	nombre := fmt.Sprintf("ganancias_%s_%s.pdf", job.Desde, job.Hasta)
	if err := w.correo.EnviarAdjunto(job.Destinatario, asunto, cuerpo, nombre, pdf); err != nil {
		w.fallo(ctx, job, err)
		return
	}
	log.Info().Str("to", job.Destinatario).Int("intentos", job.Intentos+1).Msg("email_worker: report sent")
}

func (w *ReporteEmailWorker) filtro(job dto.ReporteEmailJob) (dto.ReporteFiltro, error) {
	desde, err := time.ParseInLocation("2006-01-02", job.Desde, w.loc)
	if err != nil {
		return dto.ReporteFiltro{}, fmt.Errorf("desde: %w", err)
	}
	hasta, err := time.ParseInLocation("2006-01-02", job.Hasta, w.loc)
	if err != nil {
		return dto.ReporteFiltro{}, fmt.Errorf("hasta: %w", err)
	}
	return dto.ReporteFiltro{Desde: desde, Hasta: hasta, AreaID: job.AreaID}, nil
}

func (w *ReporteEmailWorker) fallo(ctx context.Context, job dto.ReporteEmailJob, cause error) {
	job.Intentos++
	if job.Intentos >= w.maxIntentos {
		log.Error().Err(cause).Str("to", job.Destinatario).Int("intentos", job.Intentos).Msg("email_worker: max retries exceeded")
		w.reintentos.MoverADLQ(ctx, job, fmt.Sprintf("max retries (%d) exceeded: %v", w.maxIntentos, cause))
		return
	}
	espera := computeRetryBackoff(job.Intentos)
	if err := w.reintentos.Reprogramar(ctx, job, espera); err != nil {
		log.Error().Err(err).Str("to", job.Destinatario).Msg("email_worker: could not schedule retry")
		w.reintentos.MoverADLQ(ctx, job, cause.Error())
		return
	}
	log.Warn().Err(cause).Str("to", job.Destinatario).Int("intentos", job.Intentos).Dur("espera", espera).Msg("email_worker: send failed, retry scheduled")
}
