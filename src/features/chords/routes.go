package chords

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers chords routes
func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/api/chords", handler.GetChords)
}
