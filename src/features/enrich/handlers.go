package enrich

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/contre95/soullyrics/src/music"
	"github.com/gofiber/fiber/v2"
)

// Handler handles track info requests
type Handler struct {
	service *Service
}

// NewHandler creates a new enrich handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// TrackInfo is the enriched view of a track.
type TrackInfo struct {
	Artist          string   `json:"artist"`
	Title           string   `json:"title"`
	Album           string   `json:"album"`
	Year            int      `json:"year"`
	Genre           string   `json:"genre"`
	CyclesPerMinute int      `json:"cycles_per_minute"`
	BeatsPerMinute  int      `json:"beats_per_minute"`
	Dances          []string `json:"dances"`
}

// NewTrackInfo snapshots the track metadata.
func NewTrackInfo(track *music.Track) TrackInfo {
	m := track.Metadata()
	return TrackInfo{
		Artist:          track.Artist,
		Title:           track.Title,
		Album:           m.Album,
		Year:            m.Year,
		Genre:           m.Genre,
		CyclesPerMinute: m.CyclesPerMinute,
		BeatsPerMinute:  m.BeatsPerMinute,
		Dances:          m.Dances,
	}
}

// GetInfo enriches the track label in the query string and returns its metadata.
func (h *Handler) GetInfo(c *fiber.Ctx) error {
	label := strings.TrimSpace(c.Query("track"))
	if label == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "track is required"})
	}
	track := music.ParseTrack(label)
	if err := h.service.Enrich(c.Context(), track); err != nil {
		slog.Error("Failed to enrich track", "error", err, "track", label)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to enrich track"})
	}
	return c.JSON(NewTrackInfo(track))
}

// Summary is a one-line description of the enriched fields.
func (i TrackInfo) Summary() string {
	parts := []string{i.Artist + " - " + i.Title}
	if i.Album != music.UnknownAlbum {
		parts = append(parts, "Album: "+i.Album)
	}
	if i.Year != music.UnknownYear {
		parts = append(parts, fmt.Sprintf("Year: %d", i.Year))
	}
	if i.Genre != music.UnknownGenre {
		parts = append(parts, "Genre: "+i.Genre)
	}
	if i.BeatsPerMinute != music.UnknownTempo {
		parts = append(parts, fmt.Sprintf("BPM: %d", i.BeatsPerMinute))
	}
	if len(i.Dances) > 0 {
		parts = append(parts, "Dances: "+strings.Join(i.Dances, ", "))
	}
	return strings.Join(parts, " | ")
}
