package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"medblock-service/internal/app/contracts"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	keyPrefix        = "attempts"
	defaultWindowSec = 60
)

// ResourceLimiter is a fixed-window counter kept in Redis so that every
// instance shares it. Login counts per account email, which throttles
// guessing even when requests arrive from many addresses.
type ResourceLimiter struct {
	redis contracts.RedisRepository
	log   *zap.Logger
}

func NewResourceLimiter(redis contracts.RedisRepository, log *zap.Logger) *ResourceLimiter {
	return &ResourceLimiter{redis: redis, log: log}
}

type ApplyResourceLimiterInput struct {
	// ResourceName is the limited entity, e.g. an account email. Case and
	// surrounding space are ignored.
	ResourceName      string
	LimiterGroupName  string
	WindowDurationSec int
	// MaxQuota <= 0 disables the limiter.
	MaxQuota int
	NowUTC   time.Time
}

type ApplyResourceLimiterOutput struct {
	Allowed        bool
	RetryAfterSecs int
}

type fixedWindow struct {
	seconds int64
	id      int64
}

func windowAt(now time.Time, seconds int) fixedWindow {
	if seconds <= 0 {
		seconds = defaultWindowSec
	}
	s := int64(seconds)
	return fixedWindow{seconds: s, id: now.Unix() / s}
}

func (w fixedWindow) ttl() time.Duration {
	return time.Duration(w.seconds+1) * time.Second
}

// retryAfter counts whole seconds until the next window opens, rounded up.
func (w fixedWindow) retryAfter(now time.Time) int {
	return int((w.id+1)*w.seconds-now.Unix()) + 1
}

func counterKey(group, resource string, w fixedWindow) string {
	return fmt.Sprintf("%s:%s:%s:%d", keyPrefix, group, resource, w.id)
}

// ApplyResourceLimiter counts one hit and reports whether the caller is
// still within quota for the current window. Counter failures deny.
func (l *ResourceLimiter) ApplyResourceLimiter(ctx context.Context, in *ApplyResourceLimiterInput) (*ApplyResourceLimiterOutput, error) {
	if in == nil {
		return &ApplyResourceLimiterOutput{}, errors.New("resource limiter: nil input")
	}
	if in.MaxQuota <= 0 {
		return &ApplyResourceLimiterOutput{Allowed: true}, nil
	}

	now := in.NowUTC
	if now.IsZero() {
		now = time.Now().UTC()
	}
	window := windowAt(now, in.WindowDurationSec)

	resource := strings.ToLower(strings.TrimSpace(in.ResourceName))
	group := strings.ToUpper(strings.TrimSpace(in.LimiterGroupName))
	if resource == "" || group == "" {
		return &ApplyResourceLimiterOutput{RetryAfterSecs: int(window.seconds)}, nil
	}

	count, err := l.redis.IncrementWithTTL(ctx, counterKey(group, resource, window), window.ttl())
	if err != nil {
		l.log.Error("ResourceLimiter.ApplyResourceLimiter increment failed",
			zap.String("group", group),
			zap.Error(err),
		)
		return &ApplyResourceLimiterOutput{}, err
	}

	if count > int64(in.MaxQuota) {
		return &ApplyResourceLimiterOutput{RetryAfterSecs: window.retryAfter(now)}, nil
	}
	return &ApplyResourceLimiterOutput{Allowed: true}, nil
}
