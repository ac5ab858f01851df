package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// contarComandos counts the commands a client sends.
type contarComandos struct{ n atomic.Int32 }

func (c *contarComandos) DialHook(next redis.DialHook) redis.DialHook { return next }

func (c *contarComandos) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		c.n.Add(1)
		return next(ctx, cmd)
	}
}

func (c *contarComandos) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestDebePausar(t *testing.T) {
	cases := map[string]struct {
		err  error
		want bool
	}{
		"cola vacia":         {redis.Nil, false},
		"apagado":            {context.Canceled, false},
		"plazo vencido":      {fmt.Errorf("brpop: %w", context.DeadlineExceeded), false},
		"conexion rechazada": {errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), true},
	}
	for name, tc := range cases {
		assert.Equal(t, tc.want, debePausar(tc.err), name)
	}
}

func TestRunWorker_PausaSiRedisNoResponde(t *testing.T) {
	anterior := pausaTrasError
	pausaTrasError = time.Hour
	t.Cleanup(func() { pausaTrasError = anterior })

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })
	cmds := &contarComandos{}
	rdb.AddHook(cmds)

	ctx, cancel := context.WithCancel(context.Background())
	hecho := make(chan struct{})
	go func() {
		runWorker(ctx, rdb, 0, map[string]Handler{})
		close(hecho)
	}()

	time.Sleep(300 * time.Millisecond)
	assert.LessOrEqual(t, cmds.n.Load(), int32(1))

	cancel()
	select {
	case <-hecho:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop while backing off")
	}
}
