package httpadapter

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RequestObserver receives one sample per served request.
type RequestObserver interface {
	ObserveRequest(route, method string, status int, seconds float64)
}

// statusWriter captures HTTP status and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// requestLogger logs method, path, status, bytes and duration, and reports
// the matched route to obs when it is set.
func requestLogger(logger *slog.Logger, obs RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			if sw.status == 0 {
				sw.status = http.StatusOK
			}
			dur := time.Since(start)
			logger.Info("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"bytes", sw.bytes,
				"dur", dur.Round(time.Millisecond),
			)
			if obs != nil {
				route := "unmatched"
				if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
					route = rc.RoutePattern()
				}
				obs.ObserveRequest(route, r.Method, sw.status, dur.Seconds())
			}
		})
	}
}

// ipLimiter hands out one token bucket per client address. Buckets idle for
// longer than idleTTL are dropped on the next sweep.
type ipLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const idleTTL = 3 * time.Minute

func newIPLimiter(rps float64, burst int) *ipLimiter {
	return &ipLimiter{
		limit:   rate.Limit(rps),
		burst:   max(1, burst),
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) > idleTTL {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > idleTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}
	c, ok := l.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (l *ipLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !l.allow(ip) {
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorResp{Error: "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PlayerCookie holds the anonymous player id.
const PlayerCookie = "ordl_player"

type playerKey struct{}

func playerFrom(ctx context.Context) string {
	id, _ := ctx.Value(playerKey{}).(string)
	return id
}

// withPlayer reads the player id from its cookie, minting a new one when the
// cookie is missing or not a UUID.
func withPlayer(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(PlayerCookie); err == nil {
				if u, err := uuid.Parse(c.Value); err == nil {
					id = u.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     PlayerCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   int((365 * 24 * time.Hour).Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), playerKey{}, id)))
		})
	}
}
