package nowplaying

import (
	"github.com/gofiber/fiber/v2"
)

// Handler handles now playing requests
type Handler struct {
	watcher *Watcher
}

// NewHandler creates a new now playing handler
func NewHandler(watcher *Watcher) *Handler {
	return &Handler{watcher: watcher}
}

// GetNowPlaying returns the last track the watcher accepted.
func (h *Handler) GetNowPlaying(c *fiber.Ctx) error {
	track := h.watcher.Current()
	if track == nil {
		return c.JSON(fiber.Map{"playing": false})
	}
	return c.JSON(fiber.Map{
		"playing": true,
		"artist":  track.Artist,
		"title":   track.Title,
	})
}
