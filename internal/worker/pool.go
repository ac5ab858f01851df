package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tiendapos/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReportes = "jobs:reportes"
	// RetryReportes is a sorted set of failed jobs scored by the unix time of
	// their next attempt. The retry cron moves due members back to the queue.
	RetryReportes = "retry:reportes"

	JobReporteEmail = "reporte_email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handler processes the payload of one job type.
type Handler func(ctx context.Context, payload json.RawMessage)

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
	now func() time.Time
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb, now: time.Now}
}

// EncolarReporte pushes a report e-mail job. It satisfies service.ColaReportes.
func (d *Dispatcher) EncolarReporte(ctx context.Context, job dto.ReporteEmailJob) error {
	encoded, err := encode(JobReporteEmail, job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueReportes, encoded).Err()
}

// Reprogramar parks job in the retry set until espera has elapsed.
func (d *Dispatcher) Reprogramar(ctx context.Context, job dto.ReporteEmailJob, espera time.Duration) error {
	encoded, err := encode(JobReporteEmail, job)
	if err != nil {
		return err
	}
	return d.rdb.ZAdd(ctx, RetryReportes, redis.Z{
		Score:  float64(d.now().Add(espera).Unix()),
		Member: encoded,
	}).Err()
}

// MoverADLQ gives up on job and records it in the dead letter queue.
func (d *Dispatcher) MoverADLQ(ctx context.Context, job dto.ReporteEmailJob, motivo string) {
	payload, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Msg("dispatcher: failed to marshal dlq payload")
		return
	}
	SendToDLQ(ctx, d.rdb, QueueReportes, JobReporteEmail, payload, motivo, job.Intentos)
}

func encode(jobType string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Job{Type: jobType, Payload: data})
}

// StartWorkerPool launches numWorkers goroutines consuming the report queue.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers map[string]Handler) {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, handlers)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

// pausaTrasError is how long a worker waits after a Redis failure before
// polling again.
var pausaTrasError = 2 * time.Second

// debePausar reports whether a BRPOP error means Redis is failing. An empty
// poll and a shutdown are not failures.
func debePausar(err error) bool {
	return !errors.Is(err, redis.Nil) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

func esperar(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, handlers map[string]Handler) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueReportes).Result()
			if err != nil {
				if debePausar(err) {
					log.Warn().Err(err).Int("worker", id).Msg("redis unavailable, backing off")
					esperar(ctx, pausaTrasError)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, result[0], result[1], handlers)
		}
	}
}

func processJob(ctx context.Context, queue, raw string, handlers map[string]Handler) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	h, ok := handlers[job.Type]
	if !ok {
		log.Warn().Str("type", job.Type).Str("queue", queue).Msg("no handler for job type")
		return
	}
	log.Debug().Str("type", job.Type).Str("queue", queue).Msg("processing job")
	h(ctx, job.Payload)
}
