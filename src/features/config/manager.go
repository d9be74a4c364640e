package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const redacted = "<redacted>"

// Manager holds the application configuration and provides thread-safe access to it.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	path      string
	listeners []func(*Config)
}

// NewManager creates a new ConfigManager.
func NewManager(config *Config) *Manager {
	return &Manager{config: config}
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// OnChange registers fn to run with the new configuration after every Update.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Update updates the configuration.
func (m *Manager) Update(config *Config) {
	m.mu.Lock()
	oldConfig := m.config
	m.config = config
	listeners := append([]func(*Config){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(config)
	}

	if oldConfig != nil {
		slog.Debug("Configuration updated",
			"settings_dir_changed", oldConfig.SettingsDir != config.SettingsDir,
			"local_dir_changed", oldConfig.Lyrics.LocalDir != config.Lyrics.LocalDir,
			"cache_enabled_changed", oldConfig.Cache.Enabled != config.Cache.Enabled,
			"prefer_synced_changed", oldConfig.Lyrics.PreferSynced != config.Lyrics.PreferSynced,
			"enrich_enabled_changed", oldConfig.Enrich.Enabled != config.Enrich.Enabled,
			"logger_level", config.Logger.Level,
		)
	}
}

// Save writes the current configuration to the specified file path.
func (m *Manager) Save(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	file, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create config file", "path", path, "error", err)
		return err
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(m.config); err != nil {
		slog.Error("failed to encode config", "path", path, "error", err)
		return err
	}

	slog.Info("Configuration saved successfully", "path", path)
	return nil
}

// Path is the file the configuration was loaded from. Empty for in-memory managers.
func (m *Manager) Path() string {
	return m.path
}

// CacheDir is the directory that backs the result cache.
func (m *Manager) CacheDir() string {
	return filepath.Join(m.Get().SettingsDir, "cache")
}

// EnsureDirectories creates the settings and local lyrics directories if they don't exist.
func (m *Manager) EnsureDirectories() error {
	m.mu.RLock()
	cfg := m.config
	m.mu.RUnlock()

	if err := os.MkdirAll(cfg.SettingsDir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory %s: %w", cfg.SettingsDir, err)
	}

	if cfg.Lyrics.LocalDir != "" {
		if err := os.MkdirAll(cfg.Lyrics.LocalDir, 0755); err != nil {
			return fmt.Errorf("failed to create lyrics directory %s: %w", cfg.Lyrics.LocalDir, err)
		}
	}

	slog.Info("Required directories created/verified", "settings", cfg.SettingsDir, "lyrics", cfg.Lyrics.LocalDir)
	return nil
}

// redactedCfg gets a redacted copy of the Config. Callers hold the read lock.
func (m *Manager) redactedCfg() Config {
	cfgCpy := *m.config
	if cfgCpy.NowPlaying.Token != "" {
		cfgCpy.NowPlaying.Token = redacted
	}
	return cfgCpy
}

// GetJSON returns the current configuration as a JSON string.
func (m *Manager) GetJSON() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jsonBytes, err := json.Marshal(m.redactedCfg())
	if err != nil {
		slog.Error("failed to marshal config to JSON", "error", err)
		return err.Error()
	}
	return string(jsonBytes)
}

func (m *Manager) GetYAML() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	yamlBytes, err := yaml.Marshal(m.redactedCfg())
	if err != nil {
		slog.Error("failed to marshal config to YAML", "error", err)
		return err.Error()
	}
	return string(yamlBytes)
}
