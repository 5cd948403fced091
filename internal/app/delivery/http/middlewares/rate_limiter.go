package middlewares

import (
	"context"
	"fmt"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/exceptions"
	"medblock-service/internal/pkg/utils"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-IP token bucket that blocks an IP for blockTime once
// its bucket runs dry. It guards the credential endpoints.
type RateLimiter struct {
	Log       *zap.Logger
	visitors  map[string]*visitor
	blocked   map[string]time.Time
	mu        sync.Mutex
	every     time.Duration
	burst     int
	blockTime time.Duration
	now       func() time.Time
}

func NewRateLimiter(logger *zap.Logger, requestsPerMinute, burst int, blockTime time.Duration) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		Log:       logger,
		visitors:  make(map[string]*visitor),
		blocked:   make(map[string]time.Time),
		every:     time.Minute / time.Duration(requestsPerMinute),
		burst:     burst,
		blockTime: blockTime,
		now:       time.Now,
	}
}

func (r *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ip := clientIP(req)
		now := r.now()

		r.mu.Lock()
		if blockedUntil, found := r.blocked[ip]; found {
			if now.Before(blockedUntil) {
				r.mu.Unlock()
				r.reject(w, req, ip, blockedUntil.Sub(now))
				return
			}
			delete(r.blocked, ip)
		}

		v, exists := r.visitors[ip]
		if !exists {
			v = &visitor{limiter: rate.NewLimiter(rate.Every(r.every), r.burst)}
			r.visitors[ip] = v
		}
		v.lastSeen = now

		if !v.limiter.AllowN(now, 1) {
			r.blocked[ip] = now.Add(r.blockTime)
			r.mu.Unlock()
			utils.LogSecurityEvent(r.Log, "rate_limit_block", utils.GetRequestID(req.Context()), constvars.SecuritySeverityMedium,
				zap.String(constvars.LoggingRemoteAddrKey, ip),
				zap.String(constvars.LoggingEndpointKey, req.URL.Path),
			)
			r.reject(w, req, ip, r.blockTime)
			return
		}
		r.mu.Unlock()

		next.ServeHTTP(w, req)
	})
}

// Sweep evicts visitors idle for longer than idle and lapsed blocks.
func (r *RateLimiter) Sweep(ctx context.Context, idle time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.sweep(r.now(), idle)
	return nil
}

func (r *RateLimiter) sweep(now time.Time, idle time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for ip, until := range r.blocked {
		if !now.Before(until) {
			delete(r.blocked, ip)
		}
	}
	for ip, v := range r.visitors {
		if now.Sub(v.lastSeen) > idle {
			delete(r.visitors, ip)
		}
	}
}

func (r *RateLimiter) reject(w http.ResponseWriter, req *http.Request, ip string, retryAfter time.Duration) {
	seconds := int(retryAfter.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	utils.BuildErrorResponse(r.Log, w, exceptions.ErrTooManyRequests(fmt.Errorf("ip %s blocked on %s", ip, req.URL.Path)))
}

func clientIP(req *http.Request) string {
	addr := utils.GetClientIP(req)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
