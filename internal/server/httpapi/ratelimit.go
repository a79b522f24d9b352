package httpapi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL    = 10 * time.Minute
	limiterMaxClients = 4096
)

// clientLimiter keeps one token bucket per client address.
type clientLimiter struct {
	mu         sync.Mutex
	limit      rate.Limit
	burst      int
	maxClients int
	clients    map[string]*clientBucket
	now        func() time.Time
}

type clientBucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

// newClientLimiter returns nil, which admits everything, when rps is not
// positive.
func newClientLimiter(rps float64, burst int) *clientLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		limit:      rate.Limit(rps),
		burst:      burst,
		maxClients: limiterMaxClients,
		clients:    make(map[string]*clientBucket),
		now:        time.Now,
	}
}

func (l *clientLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= l.maxClients {
			l.pruneLocked(now)
		}
		if len(l.clients) >= l.maxClients {
			l.evictOldestLocked()
		}
		b = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = b
	}
	b.seen = now
	return b.limiter.AllowN(now, 1)
}

func (l *clientLimiter) pruneLocked(now time.Time) {
	for k, b := range l.clients {
		if now.Sub(b.seen) > limiterIdleTTL {
			delete(l.clients, k)
		}
	}
}

// evictOldestLocked drops the least recently seen client so the map never
// exceeds maxClients.
func (l *clientLimiter) evictOldestLocked() {
	var oldest string
	var seen time.Time
	first := true
	for k, b := range l.clients {
		if first || b.seen.Before(seen) {
			oldest, seen, first = k, b.seen, false
		}
	}
	if !first {
		delete(l.clients, oldest)
	}
}

// Middleware rejects over-limit clients with 429.
func (l *clientLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientKey(r)) {
			w.Header().Set("Retry-After", "1")
			writeMessage(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
