package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"acompanhamento-obras/pkg/response"
)

// RateChecker janela deslizante compartilhada (Redis).
type RateChecker interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit limita requisições por IP e rota.
// Sem checker, ou com o Redis falhando, usa um limitador em memória do processo.
func RateLimit(checker RateChecker, limit int, window time.Duration) gin.HandlerFunc {
	local := newLocalLimiter(limit, window)

	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())

		var allowed bool
		if checker != nil {
			ok, err := checker.CheckRateLimit(c.Request.Context(), key, limit, window)
			if err != nil {
				allowed = local.Allow(key)
			} else {
				allowed = ok
			}
		} else {
			allowed = local.Allow(key)
		}

		if !allowed {
			response.TooManyRequests(c, "muitas tentativas, aguarde e tente novamente")
			c.Abort()
			return
		}

		c.Next()
	}
}

// localLimiter token bucket por chave, com limpeza das chaves ociosas.
type localLimiter struct {
	mu       sync.Mutex
	limiters map[string]*localEntry
	every    rate.Limit
	burst    int
	idle     time.Duration
	lastGC   time.Time
}

type localEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

func newLocalLimiter(limit int, window time.Duration) *localLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &localLimiter{
		limiters: make(map[string]*localEntry),
		every:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		idle:     2 * window,
		lastGC:   time.Now(),
	}
}

func (l *localLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastGC) > l.idle {
		for k, e := range l.limiters {
			if now.Sub(e.seen) > l.idle {
				delete(l.limiters, k)
			}
		}
		l.lastGC = now
	}

	e, ok := l.limiters[key]
	if !ok {
		e = &localEntry{lim: rate.NewLimiter(l.every, l.burst)}
		l.limiters[key] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1)
}
