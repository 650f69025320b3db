package web

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/JonMunkholm/orderlist/internal/core"
)

// rateLimiter is a token bucket per client IP. Idle visitors expire from
// the cache.
type rateLimiter struct {
	limit    rate.Limit
	burst    int
	visitors *cache.Cache
}

// newRateLimiter allows perMinute requests per minute per IP with the given burst.
func newRateLimiter(perMinute, burst int) *rateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		visitors: cache.New(3*time.Minute, time.Minute),
	}
}

// limiter returns the bucket of ip, creating it on first use.
func (rl *rateLimiter) limiter(ip string) *rate.Limiter {
	if v, ok := rl.visitors.Get(ip); ok {
		lim := v.(*rate.Limiter)
		rl.visitors.SetDefault(ip, lim)
		return lim
	}
	lim := rate.NewLimiter(rl.limit, rl.burst)
	// Add fails if a concurrent request created the bucket first.
	if err := rl.visitors.Add(ip, lim, cache.DefaultExpiration); err != nil {
		if v, ok := rl.visitors.Get(ip); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

// allow consumes a token for ip and reports whether the request may proceed,
// with the delay until the next token when it may not.
func (rl *rateLimiter) allow(ip string) (bool, time.Duration) {
	lim := rl.limiter(ip)
	res := lim.Reserve()
	if !res.OK() {
		return false, time.Minute
	}
	if delay := res.Delay(); delay > 0 {
		res.Cancel()
		return false, delay
	}
	return true, 0
}

// rateLimit returns middleware that rejects requests over the per-IP rate.
func (s *Server) rateLimit(rl *rateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ok, retry := rl.allow(clientIP(r)); !ok {
				s.rejectRateLimited(w, r, retry)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// rejectRateLimited answers 429 with a Retry-After of at least one second.
func (s *Server) rejectRateLimited(w http.ResponseWriter, r *http.Request, retry time.Duration) {
	secs := int(retry.Seconds()) + 1
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	s.respondError(w, r, core.ErrRateLimited)
}

// clientIP returns the host part of RemoteAddr, which TrustedRealIP has
// already rewritten for requests from trusted proxies.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
