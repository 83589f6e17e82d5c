package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// TokenBucket implements token bucket rate limiting
type TokenBucket struct {
	mu         sync.Mutex
	capacity   int
	tokens     int
	refill     time.Duration // one token per refill interval
	lastRefill time.Time
	lastSeen   time.Time
}

func NewTokenBucket(capacity int, refill time.Duration, now time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refill:     refill,
		lastRefill: now,
		lastSeen:   now,
	}
}

// Allow takes a token if one is available at now.
func (tb *TokenBucket) Allow(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.lastSeen = now
	if elapsed := now.Sub(tb.lastRefill); elapsed >= tb.refill {
		add := int(elapsed / tb.refill)
		tb.tokens = min(tb.capacity, tb.tokens+add)
		tb.lastRefill = tb.lastRefill.Add(time.Duration(add) * tb.refill)
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// retryAfter is the wait until the next token, rounded up to seconds.
func (tb *TokenBucket) retryAfter(now time.Time) int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	wait := tb.lastRefill.Add(tb.refill).Sub(now)
	return max(1, int(math.Ceil(wait.Seconds())))
}

func (tb *TokenBucket) idleSince(now time.Time) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return now.Sub(tb.lastSeen)
}

// RateLimiter manages rate limits per visitor
type RateLimiter struct {
	mu       sync.RWMutex
	buckets  map[string]*TokenBucket
	capacity int
	refill   time.Duration
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewRateLimiter starts a cleanup goroutine; call Stop to end it.
func NewRateLimiter(capacity int, refill time.Duration) *RateLimiter {
	rl := newRateLimiter(capacity, refill, time.Now)
	rl.wg.Add(1)
	go rl.cleanup(5*time.Minute, 10*time.Minute)
	return rl
}

func newRateLimiter(capacity int, refill time.Duration, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		buckets:  make(map[string]*TokenBucket),
		capacity: capacity,
		refill:   refill,
		now:      now,
		stop:     make(chan struct{}),
	}
}

func (rl *RateLimiter) getBucket(key string) *TokenBucket {
	rl.mu.RLock()
	bucket, exists := rl.buckets[key]
	rl.mu.RUnlock()

	if exists {
		return bucket
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Double-check after acquiring write lock
	if bucket, exists := rl.buckets[key]; exists {
		return bucket
	}

	bucket = NewTokenBucket(rl.capacity, rl.refill, rl.now())
	rl.buckets[key] = bucket
	return bucket
}

func (rl *RateLimiter) Allow(key string) bool {
	return rl.getBucket(key).Allow(rl.now())
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
	rl.wg.Wait()
}

func (rl *RateLimiter) cleanup(every, idle time.Duration) {
	defer rl.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evict(idle)
		}
	}
}

// evict drops buckets unused for longer than idle.
func (rl *RateLimiter) evict(idle time.Duration) {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, bucket := range rl.buckets {
		if bucket.idleSince(now) > idle {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) size() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.buckets)
}

// KeyFunc picks the rate limit key for a request.
type KeyFunc func(r *http.Request) string

// ClientIP is the fallback key: the remote address without its port.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimit limits requests per key. metrics may be nil.
func RateLimit(limiter *RateLimiter, key KeyFunc, metrics *Metrics) func(http.Handler) http.Handler {
	if key == nil {
		key = ClientIP
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if !limiter.Allow(k) {
				if metrics != nil {
					metrics.rateLimited()
				}
				wait := limiter.getBucket(k).retryAfter(limiter.now())
				w.Header().Set("Retry-After", strconv.Itoa(wait))
				http.Error(w, "rate limit exceeded, please try again later", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
