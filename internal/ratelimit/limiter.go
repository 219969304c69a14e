package ratelimit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/slaypost-api/internal/domain"
	"github.com/phrazzld/slaypost-api/internal/platform/metrics"
)

// Defaults used when a Config leaves a value unset.
const (
	DefaultQuota  = 3
	DefaultWindow = 24 * time.Hour
)

// Config controls the limiter policy.
type Config struct {
	Quota  int
	Window time.Duration
}

// Decision is the outcome of a single admission check.
type Decision struct {
	Allowed bool
	Count   int
	Limit   int
	ResetAt time.Time
}

// Remaining returns how many more requests the identity may make in the
// current window.
func (d Decision) Remaining() int {
	if d.Count >= d.Limit {
		return 0
	}
	return d.Limit - d.Count
}

// RetryAfter returns the time left until the window resets, rounded up to a
// whole second.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	wait := d.ResetAt.Sub(now)
	if wait <= 0 {
		return 0
	}
	return (wait + time.Second - 1).Truncate(time.Second)
}

// Limiter applies the fixed window quota to client identities.
type Limiter struct {
	store  Store
	quota  int
	window time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// NewLimiter creates a Limiter backed by store.
func NewLimiter(store Store, cfg Config, logger *slog.Logger, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, errors.New("rate limit store cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.Quota <= 0 {
		cfg.Quota = DefaultQuota
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}

	l := &Limiter{
		store:  store,
		quota:  cfg.Quota,
		window: cfg.Window,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Quota returns the number of requests admitted per window.
func (l *Limiter) Quota() int {
	return l.quota
}

// Now returns the limiter's current time.
func (l *Limiter) Now() time.Time {
	return l.now()
}

// Admit records a request from identity and reports whether it is within
// quota.
//
// When the store fails the request is admitted and the failure logged, so a
// broken counter never blocks generation.
func (l *Limiter) Admit(ctx context.Context, identity domain.ClientIdentity) Decision {
	now := l.now()

	entry, allowed, err := l.store.Hit(ctx, identity.String(), l.quota, l.window, now)
	if err != nil {
		metrics.RateLimitDecisions.WithLabelValues("error").Inc()
		l.logger.WarnContext(ctx, "rate limit store failed, admitting request",
			"identity", identity.String(),
			"error", err)
		return Decision{Allowed: true, Limit: l.quota, ResetAt: now.Add(l.window)}
	}

	decision := Decision{
		Allowed: allowed,
		Count:   entry.Count,
		Limit:   l.quota,
		ResetAt: entry.ResetAt,
	}

	if allowed {
		metrics.RateLimitDecisions.WithLabelValues("allowed").Inc()
		l.logger.DebugContext(ctx, "request admitted",
			"identity", identity.String(),
			"count", entry.Count,
			"limit", l.quota)
	} else {
		metrics.RateLimitDecisions.WithLabelValues("rejected").Inc()
	}

	return decision
}
