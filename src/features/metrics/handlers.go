package metrics

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler handles HTTP requests for the metrics feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new metrics handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetMetricsOverview returns every summarized counter.
func (h *Handler) GetMetricsOverview(c *fiber.Ctx) error {
	slog.Debug("GetMetricsOverview handler called")

	metrics, err := h.service.GetAllMetrics(c.Context())
	if err != nil {
		slog.Error("Error loading metrics", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Error loading metrics")
	}
	return c.JSON(metrics)
}

// GetProviderChart returns provider outcomes as chart data.
func (h *Handler) GetProviderChart(c *fiber.Ctx) error {
	metrics, err := h.service.GetAllMetrics(c.Context())
	if err != nil {
		slog.Error("Error loading metrics for chart", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Error loading chart data")
	}
	return c.JSON(metrics.ProviderChartData())
}

// GetCacheChart returns cache lookups as chart data.
func (h *Handler) GetCacheChart(c *fiber.Ctx) error {
	metrics, err := h.service.GetAllMetrics(c.Context())
	if err != nil {
		slog.Error("Error loading metrics for chart", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Error loading chart data")
	}
	return c.JSON(metrics.CacheChartData())
}
