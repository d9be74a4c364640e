package config

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the config feature.
func RegisterRoutes(app *fiber.App, configManager *Manager) {
	handler := NewHandler(configManager)

	configAPI := app.Group("/api/config")
	configAPI.Get("/", handler.GetConfig)
	configAPI.Post("/settings", handler.UpdateSettings)
	configAPI.Get("/cache/download", handler.DownloadCache)
}
