package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"homeplate/internal/auth"
	"homeplate/internal/config"
	"homeplate/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const visitorIdle = 3 * time.Minute

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client. Authenticated callers are
// keyed by user ID, anonymous ones by IP.
type RateLimiter struct {
	limit  rate.Limit
	burst  int
	logger zerolog.Logger

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewRateLimiter creates a limiter from cfg.
func NewRateLimiter(cfg config.RateLimitConfig, logger zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		limit:    rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
		logger:   logger,
		visitors: make(map[string]*visitor),
	}
}

// getVisitor retrieves or creates a rate limiter for the given key.
func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(rl.limit, rl.burst)
		rl.visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup drops idle visitors every interval until ctx is cancelled.
func (rl *RateLimiter) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.evict(time.Now())
		}
	}
}

func (rl *RateLimiter) evict(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorIdle {
			delete(rl.visitors, key)
		}
	}
}

// Handler rejects requests over the client's budget with 429.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !rl.getVisitor(key).Allow() {
			rl.logger.Warn().Str("client", key).Str("path", r.URL.Path).Msg("rate limit exceeded")
			writeError(w, http.StatusTooManyRequests, model.ErrCodeRateLimited, http.StatusText(http.StatusTooManyRequests))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if id, ok := auth.FromContext(r.Context()); ok {
		return "user:" + id.UserID.String()
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}
