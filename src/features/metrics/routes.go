package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers the metrics routes with the Fiber app.
func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(handler.service.gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api/metrics")
	api.Get("/", handler.GetMetricsOverview)
	api.Get("/provider-chart", handler.GetProviderChart)
	api.Get("/cache-chart", handler.GetCacheChart)
}
