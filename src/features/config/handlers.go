package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// cacheFile is the name of the sqlite file kept under CacheDir.
const cacheFile = "cache.db"

// Handler is the handler for the config feature.
type Handler struct {
	configManager *Manager
}

// NewHandler creates a new handler for the config feature.
func NewHandler(configManager *Manager) *Handler {
	return &Handler{
		configManager: configManager,
	}
}

// settingsUpdate holds the settings that can change at runtime. Nil fields are kept.
type settingsUpdate struct {
	LoggerLevel   *string `json:"logger_level"`
	PreferSynced  *bool   `json:"prefer_synced"`
	CacheEnabled  *bool   `json:"cache_enabled"`
	EnrichEnabled *bool   `json:"enrich_enabled"`
}

// UpdateSettings applies a partial settings update and tries to persist it.
func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	slog.Info("Configuration update requested")

	var req settingsUpdate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	newConfig := *h.configManager.Get()
	if req.LoggerLevel != nil {
		newConfig.Logger.Level = *req.LoggerLevel
	}
	if req.PreferSynced != nil {
		newConfig.Lyrics.PreferSynced = *req.PreferSynced
	}
	if req.CacheEnabled != nil {
		newConfig.Cache.Enabled = *req.CacheEnabled
	}
	if req.EnrichEnabled != nil {
		newConfig.Enrich.Enabled = *req.EnrichEnabled
	}
	if err := validator.New().Struct(&newConfig); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	h.configManager.Update(&newConfig)
	slog.Info("Configuration updated in memory")

	// Saving may fail on read-only config mounts; the in-memory update still holds.
	if path := h.configManager.Path(); path != "" {
		if err := h.configManager.Save(path); err != nil {
			slog.Warn("failed to save config to file", "error", err)
		}
	}
	return c.JSON(fiber.Map{"message": "Configuration updated successfully"})
}

// GetConfig returns the current configuration in the requested format.
func (h *Handler) GetConfig(c *fiber.Ctx) error {
	format := c.Query("fmt", "yaml")
	slog.Debug("GetConfig handler called", "format", format)

	switch format {
	case "yaml":
		c.Set("Content-Type", "text/yaml")
		return c.SendString(h.configManager.GetYAML())
	case "json":
		c.Set("Content-Type", "application/json")
		return c.SendString(h.configManager.GetJSON())
	default:
		return c.Status(fiber.StatusBadRequest).SendString("Invalid format. Use 'json' or 'yaml'")
	}
}

// DownloadCache serves the lyrics cache database for download.
func (h *Handler) DownloadCache(c *fiber.Ctx) error {
	dbPath := filepath.Join(h.configManager.CacheDir(), cacheFile)
	if _, err := os.Stat(dbPath); err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Cache database not found")
	}

	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", cacheFile))
	c.Set("Content-Type", "application/octet-stream")
	return c.SendFile(dbPath)
}
