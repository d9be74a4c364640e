package chords

import (
	"strings"

	"github.com/contre95/soullyrics/src/music"
	"github.com/gofiber/fiber/v2"
)

// Handler handles chords requests
type Handler struct {
	service *Service
}

// NewHandler creates a new chords handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetChords returns tab and chord links for the track label in the query string.
func (h *Handler) GetChords(c *fiber.Ctx) error {
	label := strings.TrimSpace(c.Query("track"))
	if label == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "track is required"})
	}
	track := music.ParseTrack(label)
	return c.JSON(fiber.Map{
		"artist": track.Artist,
		"title":  track.Title,
		"urls":   h.service.Search(c.Context(), track),
	})
}
