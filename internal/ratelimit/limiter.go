package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Category groups requests that share a quota
type Category string

const (
	CategoryGeneral      Category = "general"
	CategoryRegistration Category = "registration"
	CategorySearch       Category = "search"
	CategoryCallback     Category = "callback"
)

// Limit is the quota for one category: at most MaxRequests within Window
type Limit struct {
	MaxRequests int
	Window      time.Duration
}

// Limits maps every category to its quota
type Limits map[Category]Limit

// DefaultLimits returns the stock per-category quotas
func DefaultLimits() Limits {
	return Limits{
		CategoryGeneral:      {MaxRequests: 20, Window: time.Minute},
		CategoryRegistration: {MaxRequests: 5, Window: time.Minute},
		CategorySearch:       {MaxRequests: 10, Window: time.Minute},
		CategoryCallback:     {MaxRequests: 30, Window: time.Minute},
	}
}

type key struct {
	userID   int64
	category Category
}

// Limiter is a sliding-window rate limiter keyed by (user, category).
// Windows live in process memory only; there is no cross-instance
// coordination, matching the process-local session state.
type Limiter struct {
	mu      sync.Mutex
	limits  Limits
	windows map[key][]time.Time
	now     func() time.Time
	logger  *zap.Logger
}

// NewLimiter creates a limiter with the given per-category quotas.
// Categories absent from limits fall back to the general quota.
func NewLimiter(limits Limits, logger *zap.Logger) *Limiter {
	return &Limiter{
		limits:  limits,
		windows: make(map[key][]time.Time),
		now:     time.Now,
		logger:  logger,
	}
}

// Allow checks and records one request for (userID, category). It prunes
// timestamps older than the category window, rejects without recording
// when the quota is exhausted, and otherwise appends the current time.
func (l *Limiter) Allow(userID int64, category Category) bool {
	limit, ok := l.limits[category]
	if !ok {
		limit = l.limits[CategoryGeneral]
	}
	if limit.MaxRequests <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	k := key{userID: userID, category: category}
	now := l.now()
	kept := prune(l.windows[k], now.Add(-limit.Window))

	if len(kept) >= limit.MaxRequests {
		l.windows[k] = kept
		return false
	}

	l.windows[k] = append(kept, now)
	return true
}

// ResetUser clears all of one user's windows across every category.
// Used as an administrative override.
func (l *Limiter) ResetUser(userID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for k := range l.windows {
		if k.userID == userID {
			delete(l.windows, k)
		}
	}
}

// Sweep drops keys whose windows are fully stale, bounding memory growth
// independently of per-request pruning. Returns the number of keys removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for k, stamps := range l.windows {
		limit, ok := l.limits[k.category]
		if !ok {
			limit = l.limits[CategoryGeneral]
		}
		if len(prune(stamps, now.Add(-limit.Window))) == 0 {
			delete(l.windows, k)
			removed++
		}
	}
	return removed
}

// Run sweeps on a fixed interval until the context is cancelled
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Rate limiter sweep stopped")
			return
		case <-ticker.C:
			if removed := l.Sweep(); removed > 0 {
				l.logger.Debug("Swept stale rate-limit windows", zap.Int("removed", removed))
			}
		}
	}
}

func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	return stamps[i:]
}
