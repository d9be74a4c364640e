package lyrics

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/contre95/soullyrics/src/music"
	"github.com/gofiber/fiber/v2"
)

// Handler handles lyrics requests
type Handler struct {
	service *Service
}

// NewHandler creates a new lyrics handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type nextRequest struct {
	Track string `json:"track"`
	Sync  bool   `json:"sync"`
	Token string `json:"token"`
}

// GetLyrics resolves lyrics for the track label in the query string.
func (h *Handler) GetLyrics(c *fiber.Ctx) error {
	label := strings.TrimSpace(c.Query("track"))
	if label == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "track is required"})
	}
	track := music.ParseTrack(label)
	sync := c.QueryBool("sync", false)

	var (
		resp Response
		err  error
	)
	if c.QueryBool("refresh", false) {
		resp, err = h.service.NextLyrics(c.Context(), track, sync, "")
	} else {
		resp, err = h.service.GetLyrics(c.Context(), track, sync)
	}
	if err != nil {
		slog.Error("Failed to get lyrics", "error", err, "track", label)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get lyrics"})
	}
	return c.JSON(resp)
}

// NextLyrics continues a previous lookup using its token.
func (h *Handler) NextLyrics(c *fiber.Ctx) error {
	var req nextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Track) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "track is required"})
	}

	resp, err := h.service.NextLyrics(c.Context(), music.ParseTrack(req.Track), req.Sync, req.Token)
	if errors.Is(err, ErrInvalidContinuation) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		slog.Error("Failed to get next lyrics", "error", err, "track", req.Track)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get lyrics"})
	}
	return c.JSON(resp)
}

// ListProviders returns the registered providers in scan order.
func (h *Handler) ListProviders(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"providers": h.service.Providers()})
}
