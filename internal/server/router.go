package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"centralvendas/internal/auth"
	"centralvendas/internal/httpx"
	"centralvendas/internal/infrastructure/metrics"
)

// RouteMounter is a controller that registers its routes on a sub-router.
type RouteMounter interface {
	Routes(r chi.Router)
}

type Handlers struct {
	Products  RouteMounter
	Orders    RouteMounter
	Inventory RouteMounter
	PlanUsage http.HandlerFunc
	Shopee    http.HandlerFunc
}

type Dependencies struct {
	Verifier auth.Verifier
	Recorder *metrics.Recorder
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

func NewRouter(h Handlers, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(requestMetrics(deps.Recorder))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}, deps.Logger)
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	r.Post("/webhooks/shopee", h.Shopee)

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(deps.Verifier, deps.Logger))

		r.Route("/products", h.Products.Routes)
		r.Route("/orders", h.Orders.Routes)
		r.Route("/inventory", h.Inventory.Routes)
		r.Get("/plan/usage", h.PlanUsage)
	})

	return r
}
