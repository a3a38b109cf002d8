package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter hands out one token bucket per key: an upstream endpoint for
// outbound pacing, or a client address for inbound limiting.
type Limiter struct {
	limiters map[string]*entry
	mu       sync.Mutex
	defaults Config
	now      func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10,
		BurstSize:         10,
	}
}

func New(config Config) *Limiter {
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = DefaultConfig().RequestsPerSecond
	}
	if config.BurstSize <= 0 {
		config.BurstSize = max(1, int(config.RequestsPerSecond))
	}
	return &Limiter{
		limiters: make(map[string]*entry),
		defaults: config,
		now:      time.Now,
	}
}

func (l *Limiter) Get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Limit(l.defaults.RequestsPerSecond), l.defaults.BurstSize)}
		l.limiters[key] = e
	}
	e.lastSeen = l.now()
	return e.limiter
}

func (l *Limiter) SetLimit(key string, rps float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.limiters[key] = &entry{
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		lastSeen: l.now(),
	}
}

func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.Get(key).Wait(ctx)
}

func (l *Limiter) Allow(key string) bool {
	return l.Get(key).Allow()
}

// Prune forgets keys not used within idle and returns how many were removed.
func (l *Limiter) Prune(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	removed := 0
	for key, e := range l.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
			removed++
		}
	}
	return removed
}

// PruneEvery runs Prune on a ticker until ctx is done.
func (l *Limiter) PruneEvery(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Prune(idle)
		}
	}
}

func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
