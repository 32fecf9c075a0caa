package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/CzarAl/domus-backend/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Rate limiter ──────────────────────────────────────────────────────────────

// window tracks request counts for one client IP.
type window struct {
	count int
	end   time.Time
}

// RateLimiter is a fixed-window limiter keyed by client IP.
type RateLimiter struct {
	limit  int
	period time.Duration
	msg    string
	now    func() time.Time

	mu      sync.Mutex
	clients map[string]*window
}

func NewRateLimiter(limit int, period time.Duration, msg string) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		period:  period,
		msg:     msg,
		now:     time.Now,
		clients: make(map[string]*window),
	}
}

// Allow records one request from ip and reports whether it is within the limit.
func (rl *RateLimiter) Allow(ip string) (bool, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[ip]
	if !ok || now.After(w.end) {
		w = &window{end: now.Add(rl.period)}
		rl.clients[ip] = w
	}
	w.count++
	return w.count <= rl.limit, w.end
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, end := rl.Allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", end.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(rl.msg))
			return
		}
		c.Next()
	}
}

// Purge drops expired windows and returns how many were removed.
func (rl *RateLimiter) Purge() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	n := 0
	for ip, w := range rl.clients {
		if now.After(w.end) {
			delete(rl.clients, ip)
			n++
		}
	}
	return n
}

// StartPurge removes expired entries every interval until ctx is cancelled.
func (rl *RateLimiter) StartPurge(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := rl.Purge(); n > 0 {
					log.Debug().Int("purged", n).Msg("rate limiter entries purged")
				}
			}
		}
	}()
}
