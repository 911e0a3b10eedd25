package server

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/zeusync/timeline/internal/core/observability/log"
)

// rateLimiter is a fixed-window request limiter keyed by remote host.
type rateLimiter struct {
	logger log.Log
	limit  int
	window time.Duration
	now    func() time.Time

	clients sync.Map // host -> *clientRateLimit
}

type clientRateLimit struct {
	count  int
	window time.Time
	mu     sync.Mutex
}

func newRateLimiter(limit int, window time.Duration, logger log.Log) *rateLimiter {
	return &rateLimiter{logger: logger, limit: limit, window: window, now: time.Now}
}

// allow records a request from host and reports whether it is within the limit.
func (m *rateLimiter) allow(host string) bool {
	now := m.now()
	v, _ := m.clients.LoadOrStore(host, &clientRateLimit{window: now})
	cl := v.(*clientRateLimit)

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if now.Sub(cl.window) >= m.window {
		cl.count = 0
		cl.window = now
	}
	if cl.count >= m.limit {
		return false
	}
	cl.count++
	return true
}

// sweep drops windows that expired before now.
func (m *rateLimiter) sweep() {
	now := m.now()
	m.clients.Range(func(key, value any) bool {
		cl := value.(*clientRateLimit)
		cl.mu.Lock()
		expired := now.Sub(cl.window) >= m.window
		cl.mu.Unlock()
		if expired {
			m.clients.Delete(key)
		}
		return true
	})
}

func (m *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !m.allow(host) {
			m.logger.Warn("rate limit exceeded",
				log.String("remote", host),
				log.String("path", r.URL.Path),
				log.Int("limit", m.limit),
			)
			w.Header().Set("Retry-After", strconv.Itoa(int(m.window.Seconds()+0.5)))
			writeError(w, http.StatusTooManyRequests, ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}
