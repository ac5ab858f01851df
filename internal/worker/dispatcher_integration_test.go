//go:build integration

package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func redisDePrueba(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	c, err := tcRedis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, c)
	require.NoError(t, err)
	url, err := c.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestDispatcher_EncolaReprogramaYReencola(t *testing.T) {
	rdb := redisDePrueba(t)
	ctx := context.Background()
	ahora := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	d := NewDispatcher(rdb)
	d.now = func() time.Time { return ahora }

	job := dto.ReporteEmailJob{Destinatario: "dueno@tienda.test", Desde: "2026-03-01", Hasta: "2026-03-31"}
	require.NoError(t, d.EncolarReporte(ctx, job))

	raw, err := rdb.RPop(ctx, QueueReportes).Result()
	require.NoError(t, err)
	var env Job
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	assert.Equal(t, JobReporteEmail, env.Type)

	job.Intentos = 1
	require.NoError(t, d.Reprogramar(ctx, job, time.Minute))
	n, err := rdb.ZCard(ctx, RetryReportes).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// not due yet
	processRetries(ctx, RetryCronConfig{RDB: rdb}, ahora.Add(30*time.Second))
	largo, err := rdb.LLen(ctx, QueueReportes).Result()
	require.NoError(t, err)
	assert.Zero(t, largo)

	// an open breaker skips the tick
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Hour})
	_ = cb.Execute(func() error { return assert.AnError })
	require.Equal(t, infra.CBOpen, cb.State())
	processRetries(ctx, RetryCronConfig{RDB: rdb, CB: cb}, ahora.Add(2*time.Minute))
	largo, err = rdb.LLen(ctx, QueueReportes).Result()
	require.NoError(t, err)
	assert.Zero(t, largo)

	processRetries(ctx, RetryCronConfig{RDB: rdb}, ahora.Add(2*time.Minute))
	largo, err = rdb.LLen(ctx, QueueReportes).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, largo)
	n, err = rdb.ZCard(ctx, RetryReportes).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDispatcher_MoverADLQ(t *testing.T) {
	rdb := redisDePrueba(t)
	ctx := context.Background()
	d := NewDispatcher(rdb)

	d.MoverADLQ(ctx, dto.ReporteEmailJob{Destinatario: "x@tienda.test", Intentos: 3}, "max retries (3) exceeded")

	largo, err := DLQLength(ctx, rdb, QueueReportes)
	require.NoError(t, err)
	assert.EqualValues(t, 1, largo)

	entries, err := ListDLQ(ctx, rdb, QueueReportes, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, JobReporteEmail, entries[0].JobType)
	assert.Equal(t, 3, entries[0].Attempts)
	assert.Contains(t, entries[0].Reason, "max retries")
}
