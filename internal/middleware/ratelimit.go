package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/auth"
)

// Policy is a fixed-window request budget. Requests are bucketed by Key,
// and buckets of different policies never share a count.
type Policy struct {
	Name     string
	Requests int
	Window   time.Duration
	Key      func(*http.Request) string
}

var (
	// AuthPolicy throttles credential guessing on register and login.
	AuthPolicy = Policy{Name: "auth", Requests: 10, Window: time.Minute, Key: ClientIP}

	// UploadPolicy caps media uploads per account.
	UploadPolicy = Policy{Name: "upload", Requests: 30, Window: time.Hour, Key: UserOrIP}
)

// ClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// UserOrIP keys authenticated requests by account and everything else by
// client address.
func UserOrIP(r *http.Request) string {
	if id := auth.UserID(r.Context()); id != "" {
		return "user:" + id
	}
	return "ip:" + ClientIP(r)
}

type bucketKey struct {
	policy string
	key    string
}

type bucket struct {
	count   int
	resetAt time.Time
}

// RateLimiter holds the buckets for every policy in one place so a single
// Cleanup loop can sweep them.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[bucketKey]*bucket
	now     func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[bucketKey]*bucket),
		now:     time.Now,
	}
}

// Allow counts one request against key under p. When the budget is spent it
// reports false and how long until the window resets.
func (rl *RateLimiter) Allow(p Policy, key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	k := bucketKey{policy: p.Name, key: key}
	b, ok := rl.buckets[k]
	if !ok || !now.Before(b.resetAt) {
		rl.buckets[k] = &bucket{count: 1, resetAt: now.Add(p.Window)}
		return true, 0
	}
	if b.count >= p.Requests {
		return false, b.resetAt.Sub(now)
	}
	b.count++
	return true, 0
}

// Cleanup drops buckets whose window has passed.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for k, b := range rl.buckets {
		if !now.Before(b.resetAt) {
			delete(rl.buckets, k)
		}
	}
}

// Limit returns middleware enforcing p. Rejected requests get a JSON 429
// with Retry-After set to the whole seconds left in the window.
func (rl *RateLimiter) Limit(p Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := rl.Allow(p, p.Key(r))
			if !ok {
				secs := int((wait + time.Second - 1) / time.Second)
				w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
