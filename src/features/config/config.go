package config

import "time"

// Config holds the application configuration.
type Config struct {
	SettingsDir string     `yaml:"settings_dir" validate:"required"`
	Logger      Logger     `yaml:"logger"`
	Server      Server     `yaml:"server"`
	HTTP        HTTP       `yaml:"http"`
	Cache       Cache      `yaml:"cache"`
	Lyrics      Lyrics     `yaml:"lyrics"`
	Chords      Chords     `yaml:"chords"`
	Enrich      Enrich     `yaml:"enrich"`
	NowPlaying  NowPlaying `yaml:"nowplaying"`
	Metrics     Metrics    `yaml:"metrics"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json logfmt"`
}

// Server hold the configuration for the Fiber server Config
type Server struct {
	Enabled     bool   `yaml:"enabled"`
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port"`
}

// HTTP holds the settings shared by every outgoing provider request.
type HTTP struct {
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
	UserAgent string        `yaml:"user_agent"`
}

// Cache holds the configuration for the lyrics result cache.
type Cache struct {
	Enabled       bool          `yaml:"enabled"`
	TTL           time.Duration `yaml:"ttl" validate:"gt=0"`
	NormalizeKeys bool          `yaml:"normalize_keys"`
}

// Lyrics holds the configuration for lyrics providers
type Lyrics struct {
	LocalDir          string                    `yaml:"local_dir"`
	PreferSynced      bool                      `yaml:"prefer_synced"`
	ProviderTimeout   time.Duration             `yaml:"provider_timeout" validate:"gt=0"`
	ContinuationSlots int                       `yaml:"continuation_slots" validate:"gt=0"`
	Providers         map[string]LyricsProvider `yaml:"providers"`
}

// LyricsProvider holds configuration for individual lyric providers
type LyricsProvider struct {
	Enabled bool `yaml:"enabled"`
}

// Chords holds the configuration for tab/chord link sources
type Chords struct {
	Providers map[string]Provider `yaml:"providers"`
}

// Enrich holds the configuration for dance/tempo metadata enrichers
type Enrich struct {
	Enabled   bool                `yaml:"enabled"`
	Providers map[string]Provider `yaml:"providers"`
}

// Provider holds configuration for a generic optional source
type Provider struct {
	Enabled bool `yaml:"enabled"`
}

// NowPlaying holds the configuration for the player probe.
type NowPlaying struct {
	Player       string        `yaml:"player" validate:"omitempty,oneof=spotify tidal vlc"`
	Probe        string        `yaml:"probe" validate:"omitempty,oneof=mpris command plex emby"`
	Command      []string      `yaml:"command"`
	URL          string        `yaml:"url" validate:"required_if=Probe plex,required_if=Probe emby"`
	Token        string        `yaml:"token"`
	PollInterval time.Duration `yaml:"poll_interval" validate:"gt=0"`
}

// Metrics holds the configuration for the prometheus endpoint
type Metrics struct {
	Enabled bool `yaml:"enabled"`
}

// IsLyricsProviderEnabled reports whether the named provider is turned on. Unknown
// providers are disabled.
func (c *Config) IsLyricsProviderEnabled(name string) bool {
	p, ok := c.Lyrics.Providers[name]
	return ok && p.Enabled
}

// IsChordsProviderEnabled reports whether the named chord source is turned on.
func (c *Config) IsChordsProviderEnabled(name string) bool {
	p, ok := c.Chords.Providers[name]
	return ok && p.Enabled
}

// IsEnricherEnabled reports whether the named enricher is turned on. Enrichment as a
// whole is switched by Enrich.Enabled, which the enrich service reads on every call.
func (c *Config) IsEnricherEnabled(name string) bool {
	p, ok := c.Enrich.Providers[name]
	return ok && p.Enabled
}
