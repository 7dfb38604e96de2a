package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rate      rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiter(r rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    burst,
		now:      time.Now,
	}
}

func (ipl *ipLimiter) get(ip string) *rate.Limiter {
	ipl.mu.Lock()
	defer ipl.mu.Unlock()

	now := ipl.now()
	if now.Sub(ipl.lastSweep) > limiterIdleTTL {
		for k, v := range ipl.visitors {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(ipl.visitors, k)
			}
		}
		ipl.lastSweep = now
	}

	v, ok := ipl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(ipl.rate, ipl.burst)}
		ipl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// RateLimit limits requests per client IP, keyed on RemoteAddr. Forwarding
// headers are ignored here; chi's RealIP may rewrite RemoteAddr upstream when
// the server sits behind a trusted proxy.
func RateLimit(r rate.Limit, burst int) func(http.Handler) http.Handler {
	il := newIPLimiter(r, burst)
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !il.get(clientIP(r)).Allow() {
				w.Header().Set("Retry-After", "60")
				writeJSONError(w, http.StatusTooManyRequests, `{"status":"error","message":"Too many requests","data":{}}`)
				return
			}
			h.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
