package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"loan-ledger/internal/config"

	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	rateLimitedBody        = `{"message":"Rate limit exceeded"}`
)

// RateLimiterMiddleware keeps one token bucket per client IP. Idle buckets
// are dropped by a background loop that runs until Stop is called.
type RateLimiterMiddleware struct {
	limiters sync.Map
	cfg      config.RateLimitConfig
	logger   *slog.Logger
	stop     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiterMiddleware(cfg config.RateLimitConfig, logger *slog.Logger) *RateLimiterMiddleware {
	rl := &RateLimiterMiddleware{
		cfg:    cfg,
		logger: logger.With("component", "RateLimiter"),
		stop:   make(chan struct{}),
	}

	if cfg.Enabled {
		go rl.cleanupLimiters(limiterCleanupInterval)
	}

	return rl
}

func (rl *RateLimiterMiddleware) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiterMiddleware) getLimiter(ip string) *rate.Limiter {
	limiter, _ := rl.limiters.LoadOrStore(ip, rate.NewLimiter(rate.Limit(rl.cfg.RPS), rl.cfg.Burst))
	return limiter.(*rate.Limiter)
}

func (rl *RateLimiterMiddleware) cleanupLimiters(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.pruneIdle()
		}
	}
}

// pruneIdle removes buckets that have refilled completely.
func (rl *RateLimiterMiddleware) pruneIdle() {
	now := time.Now()
	rl.limiters.Range(func(key, value interface{}) bool {
		limiter := value.(*rate.Limiter)
		if limiter.TokensAt(now) >= float64(rl.cfg.Burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

func (rl *RateLimiterMiddleware) extractIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	xRealIP := r.Header.Get("X-Real-IP")
	if xRealIP != "" {
		return xRealIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.extractIP(r)

		if !rl.getLimiter(ip).Allow() {
			rl.logger.WarnContext(r.Context(), "Rate limit exceeded", "ip", ip, "path", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(rateLimitedBody))
			return
		}

		next.ServeHTTP(w, r)
	})
}
