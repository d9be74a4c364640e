package lyrics

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers lyrics routes
func RegisterRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")
	lyricsAPI := api.Group("/lyrics")

	lyricsAPI.Get("/", handler.GetLyrics)
	lyricsAPI.Post("/next", handler.NextLyrics)
	lyricsAPI.Get("/providers", handler.ListProviders)
}
