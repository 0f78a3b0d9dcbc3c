package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MOR6969/vape-bill/api/controllers"
	sessioncontrollers "github.com/MOR6969/vape-bill/api/controllers/sessions"
	"github.com/MOR6969/vape-bill/api/middleware"
	"github.com/MOR6969/vape-bill/internal/billing"
	"github.com/MOR6969/vape-bill/internal/history"
	"github.com/MOR6969/vape-bill/pkg/config"
	"github.com/MOR6969/vape-bill/pkg/logger"
	"github.com/MOR6969/vape-bill/pkg/metrics"
)

// Deps carries everything the router wires into handlers. Gatherer and
// HTTPMetrics may be nil to disable /metrics and request instrumentation.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Checks      []controllers.ReadinessCheck
	Catalog     controllers.CatalogService
	Billing     billing.Service
	History     history.Service
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}
	if len(cfg.HTTP.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(cfg.HTTP.AllowedOrigins))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Checks...))
	})

	if deps.Gatherer != nil && cfg.Metrics.Enabled {
		r.Method(http.MethodGet, cfg.Metrics.Path, promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog/brands", func(r chi.Router) {
			r.Get("/", controllers.CatalogBrands(deps.Catalog, logg))
			r.Post("/", controllers.CatalogAddBrand(deps.Catalog, logg))
			r.Get("/{brandId}", controllers.CatalogBrand(deps.Catalog, logg))
			r.Post("/{brandId}/flavors", controllers.CatalogAddFlavor(deps.Catalog, logg))
			r.Post("/{brandId}/flavors/{flavorId}/variants", controllers.CatalogAddVariant(deps.Catalog, logg))
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessioncontrollers.SessionCreate(deps.Billing, logg))
			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", sessioncontrollers.SessionView(deps.Billing, logg))
				r.Delete("/", sessioncontrollers.SessionClose(deps.Billing, logg))
				r.Put("/brand", sessioncontrollers.SessionSelectBrand(deps.Billing, logg))
				r.Delete("/brand", sessioncontrollers.SessionClearBrand(deps.Billing, logg))
				r.Put("/lines", sessioncontrollers.SessionUpsertLine(deps.Billing, logg))
				r.Delete("/lines/{flavorId}/{variantId}", sessioncontrollers.SessionDeleteLine(deps.Billing, logg))
				r.Put("/drafts/{flavorId}/{variantId}", sessioncontrollers.SessionUpdateDraft(deps.Billing, logg))
				r.Post("/flavors/{flavorId}/toggle", sessioncontrollers.SessionToggleFlavor(deps.Billing, logg))
				r.Post("/flavors/{flavorId}/variants/{variantId}/select", sessioncontrollers.SessionSelectVariant(deps.Billing, logg))
				r.Put("/customer", sessioncontrollers.SessionSetCustomer(deps.Billing, logg))
				r.Put("/language", sessioncontrollers.SessionSetLanguage(deps.Billing, logg))
				r.Get("/summary", sessioncontrollers.SessionSummary(deps.Billing, logg))
				r.Get("/export", sessioncontrollers.SessionExport(deps.Billing, logg))
			})
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", controllers.HistoryList(deps.History, logg))
			r.Get("/{invoiceId}", controllers.HistoryGet(deps.History, logg))
			r.Patch("/{invoiceId}/status", controllers.HistoryUpdateStatus(deps.History, logg))
		})

		r.Get("/dashboard/stats", controllers.DashboardStats(deps.History, logg))
	})

	return r
}
