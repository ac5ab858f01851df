package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tiendapos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window limiter on Redis ─────────────────────────────────────────────
// One counter per client IP and window: ratelimit:{scope}:{ip}:{window}.
// Counters are shared by every server instance and expire on their own.
// When Redis is unreachable requests are let through.

const rateLimitPrefix = "ratelimit:"

type limiter struct {
	rdb    redis.Cmdable
	scope  string
	limit  int
	window time.Duration
	msg    string
	now    func() time.Time
}

// allow counts one hit for ip and reports whether it is within the limit,
// along with the end of the current window.
func (l *limiter) allow(ctx context.Context, ip string) (bool, time.Time, error) {
	now := l.now()
	slot := now.Truncate(l.window)
	reset := slot.Add(l.window)
	key := fmt.Sprintf("%s%s:%s:%d", rateLimitPrefix, l.scope, ip, slot.Unix())

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, reset, err
	}
	return incr.Val() <= int64(l.limit), reset, nil
}

func (l *limiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, reset, err := l.allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn().Err(err).Str("scope", l.scope).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if !ok {
			secs := int(time.Until(reset).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.msg))
			return
		}
		c.Next()
	}
}

// RateLimiter limits every client IP to limit requests per window.
func RateLimiter(rdb redis.Cmdable, limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	l := &limiter{
		rdb:    rdb,
		scope:  "api",
		limit:  limit,
		window: window,
		msg:    "Demasiadas solicitudes. Intente nuevamente en un momento.",
		now:    time.Now,
	}
	return l.handler()
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter(rdb redis.Cmdable) gin.HandlerFunc {
	l := &limiter{
		rdb:    rdb,
		scope:  "login",
		limit:  20,
		window: time.Minute,
		msg:    "Demasiados intentos de login. Intente en 1 minuto.",
		now:    time.Now,
	}
	return l.handler()
}
