package api

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ryanadelino-stack/compiler-api/internal/api/respond"
)

// --------------------------------------------------------------------------
// Request timing middleware
// --------------------------------------------------------------------------

// TimingMiddleware adds X-Process-Time header to all responses. The header
// is set before the first write, so it reaches the client.
func TimingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tw := &timingWriter{ResponseWriter: w, start: time.Now()}
		next.ServeHTTP(tw, r)
	})
}

type timingWriter struct {
	http.ResponseWriter
	start       time.Time
	wroteHeader bool
}

func (tw *timingWriter) WriteHeader(status int) {
	if !tw.wroteHeader {
		tw.wroteHeader = true
		elapsed := time.Since(tw.start)
		tw.Header().Set("X-Process-Time", fmt.Sprintf("%.2fms", float64(elapsed.Microseconds())/1000.0))
	}
	tw.ResponseWriter.WriteHeader(status)
}

func (tw *timingWriter) Write(b []byte) (int, error) {
	if !tw.wroteHeader {
		tw.WriteHeader(http.StatusOK)
	}
	return tw.ResponseWriter.Write(b)
}

func (tw *timingWriter) Unwrap() http.ResponseWriter {
	return tw.ResponseWriter
}

// --------------------------------------------------------------------------
// Compile rate limiting (per client token bucket)
// --------------------------------------------------------------------------

// compileLimiter hands each client its own bucket of compiles. A client may
// spend the whole window's allowance at once; tokens then refill evenly
// across the window. Buckets idle for a full window are swept, since a
// refilled bucket is indistinguishable from a new one.
type compileLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	limit   rate.Limit
	burst   int
	window  time.Duration
	swept   time.Time
	now     func() time.Time
}

type clientBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newCompileLimiter(compilesPerWindow int, window time.Duration) *compileLimiter {
	compilesPerWindow = max(compilesPerWindow, 1)
	return &compileLimiter{
		clients: make(map[string]*clientBucket),
		limit:   rate.Limit(float64(compilesPerWindow) / window.Seconds()),
		burst:   compilesPerWindow,
		window:  window,
		now:     time.Now,
	}
}

// reserve takes one compile from the client's bucket. It returns the wait
// until the next token when the bucket is empty.
func (l *compileLimiter) reserve(client string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.swept) >= l.window {
		for k, b := range l.clients {
			if now.Sub(b.seen) >= l.window {
				delete(l.clients, k)
			}
		}
		l.swept = now
	}

	b, ok := l.clients[client]
	if !ok {
		b = &clientBucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = b
	}
	b.seen = now

	res := b.lim.ReserveN(now, 1)
	if !res.OK() {
		return l.window, false
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return delay, false
	}
	return 0, true
}

// clientKey identifies the caller. RealIP has already folded proxy headers
// into RemoteAddr.
func clientKey(r *http.Request) string {
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// CompileRateLimit limits how many compile and inspect uploads one client
// may submit per window. Read-only routes are not limited.
func CompileRateLimit(compilesPerWindow int, window time.Duration) func(http.Handler) http.Handler {
	limiter := newCompileLimiter(compilesPerWindow, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wait, ok := limiter.reserve(clientKey(r))
			if !ok {
				secs := max(int64(math.Ceil(wait.Seconds())), 1)
				w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
				respond.WriteErrorDetail(w, http.StatusTooManyRequests, respond.CodeRateLimited,
					"Too many compile requests",
					fmt.Sprintf("limit is %d compiles per %s", limiter.burst, window))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
