package config

import (
	"os"
	"path/filepath"
	"time"
)

// createDefaultConfig creates a new Config with sensible default values
func createDefaultConfig() *Config {
	settingsDir := defaultSettingsDir()
	return &Config{
		SettingsDir: settingsDir,
		Logger: Logger{
			Level:  "info",
			Format: "text",
		},
		Server: Server{
			Enabled:     true,
			PrintRoutes: false,
			Port:        3636,
		},
		HTTP: HTTP{
			Timeout:   30 * time.Second,
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/119.0",
		},
		Cache: Cache{
			Enabled:       true,
			TTL:           604800 * time.Second,
			NormalizeKeys: false,
		},
		Lyrics: Lyrics{
			LocalDir:          filepath.Join(settingsDir, "lyrics"),
			PreferSynced:      false,
			ProviderTimeout:   30 * time.Second,
			ContinuationSlots: 256,
			Providers: map[string]LyricsProvider{
				"lrclib":     {Enabled: true},
				"megalobiz":  {Enabled: true},
				"genius":     {Enabled: true},
				"tekstowo":   {Enabled: true},
				"songlyrics": {Enabled: true},
			},
		},
		Chords: Chords{
			Providers: map[string]Provider{
				"ultimateguitar": {Enabled: true},
				"cifraclub":      {Enabled: true},
				"songsterr":      {Enabled: true},
			},
		},
		Enrich: Enrich{
			Enabled: false,
			Providers: map[string]Provider{
				"tanzmusikonline": {Enabled: true},
				"welchertanz":     {Enabled: true},
			},
		},
		NowPlaying: NowPlaying{
			Player:       "spotify",
			Probe:        "mpris",
			Command:      []string{},
			PollInterval: time.Second,
		},
		Metrics: Metrics{
			Enabled: true,
		},
	}
}

func defaultSettingsDir() string {
	if dir := os.Getenv(envSettingsDir); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "./soullyrics"
	}
	return filepath.Join(base, "soullyrics")
}
