package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solerahq/boutique-backoffice/api/controllers"
	"github.com/solerahq/boutique-backoffice/api/middleware"
	"github.com/solerahq/boutique-backoffice/internal/gateway"
	"github.com/solerahq/boutique-backoffice/pkg/config"
	"github.com/solerahq/boutique-backoffice/pkg/logger"
)

type RouterParams struct {
	Config    *config.Config
	Logger    *logger.Logger
	Gateway   *gateway.Gateway
	Gatherer  prometheus.Gatherer
	ReadyDeps map[string]controllers.Pinger
}

func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(params.Logger),
		middleware.RequestID(params.Logger),
		middleware.Logging(params.Logger),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(params.Config))
		r.Get("/ready", controllers.HealthReady(params.Config, params.Logger, params.ReadyDeps))
	})

	if params.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1/search", func(r chi.Router) {
		r.Get("/{collection}", controllers.Search(
			params.Gateway,
			params.Config.Query.DefaultPageSize,
			params.Config.Query.MaxPageSize,
			params.Logger,
		))
	})

	return r
}
