package enrich

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers track info routes
func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/api/info", handler.GetInfo)
}
