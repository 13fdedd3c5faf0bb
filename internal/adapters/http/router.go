package httpadapter

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	// AllowedOrigins may be "*"; credentialed cross-origin requests are
	// only accepted from origins listed explicitly.
	AllowedOrigins []string
	// RateLimitRPS of zero disables per-client rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int
	// Gatherer serves /metrics when set.
	Gatherer      prometheus.Gatherer
	Observer      RequestObserver
	SecureCookies bool
	Logger        *slog.Logger
}

// NewRouter wires routes and middleware around h.
func NewRouter(h *Handler, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = h.Logger
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	anyOrigin := slices.Contains(origins, "*")

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger, opts.Observer))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: !anyOrigin,
		MaxAge:           300,
	}))

	r.Get("/health", h.handleHealth)
	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimitRPS > 0 {
			r.Use(newIPLimiter(opts.RateLimitRPS, opts.RateLimitBurst).middleware)
		}

		r.Get("/countdown", h.handleCountdown)
		r.Get("/archive", h.handleArchive)

		r.Route("/puzzle/{id}", func(r chi.Router) {
			r.Get("/", h.handlePuzzle)
			r.Post("/check", h.handleCheck)
			r.Get("/solution", h.handleSolution)
		})

		r.Group(func(r chi.Router) {
			r.Use(withPlayer(opts.SecureCookies))
			r.Get("/stats", h.handleStats)
			r.Route("/game/{id}", func(r chi.Router) {
				r.Get("/", h.handleGame)
				r.Put("/order", h.handleReorder)
				r.Post("/submit", h.handleSubmit)
				r.Get("/share", h.handleShare)
			})
		})
	})
	return r
}
