package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	apperrors "github.com/spec-kit/report-tracker/pkg/util"
)

const minBucketIdle = time.Minute

// RateLimitPerIP throttles requests with one token bucket per client address.
// A non-positive rps disables throttling.
func RateLimitPerIP(rps float64, burst int) fiber.Handler {
	if rps <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	limiter := newIPLimiter(rps, burst, time.Now)

	return func(c *fiber.Ctx) error {
		if !limiter.allow(c.IP()) {
			return apperrors.NewTooManyRequests("too many requests")
		}
		return c.Next()
	}
}

type ipBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter keeps a bucket per address. Buckets idle for longer than it takes
// to refill completely are swept, since a fresh bucket behaves identically.
type ipLimiter struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	buckets   map[string]*ipBucket
	now       func() time.Time
}

func newIPLimiter(rps float64, burst int, now func() time.Time) *ipLimiter {
	if burst < 1 {
		burst = 1
	}
	idle := time.Duration(float64(burst) / rps * float64(time.Second))
	if idle < minBucketIdle {
		idle = minBucketIdle
	}
	return &ipLimiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		idle:      idle,
		lastSweep: now(),
		buckets:   make(map[string]*ipBucket),
		now:       now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		for key, b := range l.buckets {
			if now.Sub(b.lastSeen) >= l.idle {
				delete(l.buckets, key)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[ip]
	if !ok {
		b = &ipBucket{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
