package worker

// retry_cron.go
// Background goroutine that moves report jobs whose retry time has passed
// from RetryReportes back onto QueueReportes.
// Skips ticks while the SMTP circuit breaker is open.

import (
	"context"
	"strconv"
	"time"

	"tiendapos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
	retryBackoffBase  = 30 * time.Second
	retryBackoffMax   = 10 * time.Minute
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	RDB *redis.Client
	CB  *infra.CircuitBreaker
}

// StartRetryCron ticks every 30s and re-queues due jobs. It respects the
// context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg, time.Now())
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig, now time.Time) {
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	due, err := cfg.RDB.ZRangeByScore(ctx, RetryReportes, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: retryBatchSize,
	}).Result()
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}

	for _, raw := range due {
		// ZRem first so two servers never re-queue the same member.
		removed, err := cfg.RDB.ZRem(ctx, RetryReportes, raw).Result()
		if err != nil || removed == 0 {
			continue
		}
		if err := cfg.RDB.LPush(ctx, QueueReportes, raw).Err(); err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to re-queue job")
		}
	}
	if len(due) > 0 {
		log.Info().Int("count", len(due)).Msg("retry_cron: re-queued report jobs")
	}
}

// computeRetryBackoff doubles the wait per attempt, from 30s up to 10m.
func computeRetryBackoff(intentos int) time.Duration {
	if intentos < 1 {
		intentos = 1
	}
	d := retryBackoffBase
	for i := 1; i < intentos; i++ {
		d *= 2
		if d >= retryBackoffMax {
			return retryBackoffMax
		}
	}
	return d
}
