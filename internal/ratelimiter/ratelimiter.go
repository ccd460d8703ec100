package ratelimiter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"gitlab.com/gitlab-org/coi-serve/internal/lru"
	"gitlab.com/gitlab-org/coi-serve/metrics"
)

const (
	// DefaultSourceIPBurstSize is the maximum burst allowed per rate limiter.
	// E.g. The first 100 requests within 1s will succeed, but the 101st will fail.
	DefaultSourceIPBurstSize = 100

	// a local server rarely sees more than a handful of clients
	defaultSourceIPItems              = 1000
	defaultSourceIPExpirationInterval = time.Minute
)

// Option function to configure a RateLimiter
type Option func(*RateLimiter)

// RateLimiter holds an LRU cache of per source IP token buckets.
// It uses "golang.org/x/time/rate" as its Token Bucket rate limiter per source IP entry.
// It also holds a now function that can be mocked in unit tests.
type RateLimiter struct {
	now                    func() time.Time
	sourceIPLimitPerSecond float64
	sourceIPBurstSize      int
	sourceIPBlockedCount   prometheus.Counter
	sourceIPCache          *lru.Cache
}

// New creates a new RateLimiter allowing limitPerSecond requests per source IP
func New(limitPerSecond float64, opts ...Option) *RateLimiter {
	rl := &RateLimiter{
		now:                    time.Now,
		sourceIPLimitPerSecond: limitPerSecond,
		sourceIPBurstSize:      DefaultSourceIPBurstSize,
		sourceIPBlockedCount:   metrics.RateLimitSourceIPBlockedCount,
		sourceIPCache: lru.New(
			"source_ip",
			defaultSourceIPItems,
			defaultSourceIPExpirationInterval,
			metrics.RateLimitSourceIPCachedEntries,
			metrics.RateLimitSourceIPCacheRequests,
		),
	}

	for _, opt := range opts {
		opt(rl)
	}

	return rl
}

// WithNow replaces the RateLimiter now function
func WithNow(now func() time.Time) Option {
	return func(rl *RateLimiter) {
		rl.now = now
	}
}

// WithSourceIPBurstSize configures burst per source IP for the RateLimiter
func WithSourceIPBurstSize(burst int) Option {
	return func(rl *RateLimiter) {
		rl.sourceIPBurstSize = burst
	}
}

func (rl *RateLimiter) getSourceIPLimiter(sourceIP string) *rate.Limiter {
	limiterI, _ := rl.sourceIPCache.FindOrFetch(sourceIP, func() (interface{}, error) {
		return rate.NewLimiter(rate.Limit(rl.sourceIPLimitPerSecond), rl.sourceIPBurstSize), nil
	})

	return limiterI.(*rate.Limiter)
}

// SourceIPAllowed checks that the remote IP address is allowed to perform an operation
func (rl *RateLimiter) SourceIPAllowed(sourceIP string) bool {
	limiter := rl.getSourceIPLimiter(sourceIP)

	// AllowN allows us to use the rl.now function, so we can test this more easily.
	return limiter.AllowN(rl.now(), 1)
}
