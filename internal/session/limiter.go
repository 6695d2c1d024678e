package session

import (
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per client key. Buckets for clients
// that go quiet are dropped after idle.
type RateLimiter struct {
	buckets *cache.Cache
	limit   rate.Limit
	burst   int
}

// NewRateLimiter allows perMinute requests per client with a burst of the
// same size. perMinute <= 0 disables limiting.
func NewRateLimiter(perMinute int, idle time.Duration) *RateLimiter {
	l := &RateLimiter{
		buckets: cache.New(idle, cleanupInterval(idle)),
		limit:   rate.Inf,
	}
	if perMinute > 0 {
		l.limit = rate.Limit(float64(perMinute) / 60)
		l.burst = perMinute
	}
	return l
}

// Allow reports whether key may make another request now.
func (l *RateLimiter) Allow(key string) bool {
	if l.limit == rate.Inf {
		return true
	}
	return l.bucket(key).Allow()
}

func (l *RateLimiter) bucket(key string) *rate.Limiter {
	if v, ok := l.buckets.Get(key); ok {
		l.buckets.Set(key, v, cache.DefaultExpiration)
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	if err := l.buckets.Add(key, lim, cache.DefaultExpiration); err != nil {
		// Another request created the bucket first.
		if v, ok := l.buckets.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}
