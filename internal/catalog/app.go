package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ProductsAPI/pkg/kit"
)

const maxBodyBytes = 1 << 20

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	APIKey string

	MetricsEnabled bool
	MetricsToken   string

	// RateLimit <= 0 disables limiting.
	RateLimit  int
	RateWindow time.Duration
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if s.Log == nil {
		s.Log = deps.Log
	}

	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, s, deps)

	r.Mount("/", s.Routes(apiMiddleware(deps)...))
	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer(deps.Log))
	r.Use(kit.Logging(deps.Log))
	r.Use(kit.LimitBody(maxBodyBytes))
}

// apiMiddleware puts the rate limiter in front of the key check so that
// rejected callers count against their budget too.
func apiMiddleware(deps HTTPDeps) []func(http.Handler) http.Handler {
	var mw []func(http.Handler) http.Handler
	if deps.RateLimit > 0 {
		window := deps.RateWindow
		if window <= 0 {
			window = time.Minute
		}
		mw = append(mw, kit.NewIPRateLimiter(deps.RateLimit, window).Middleware)
	}
	return append(mw, APIKey(deps.APIKey, deps.Log))
}

func setupMetrics(r *chi.Mux, s *Server, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.RoutePattern))

	deps.Registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "products_catalog_size",
			Help: "Products currently held by the store",
		},
		func() float64 {
			st, err := s.Store.Stats(context.Background())
			if err != nil {
				return 0
			}
			return float64(st.TotalProducts)
		},
	))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}
