package config

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(envSettingsDir, filepath.Join(dir, "settings"))
	t.Setenv(envLyricsDir, "")
	m, err := Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func TestGetConfigFormats(t *testing.T) {
	m := newTestManager(t)
	app := newApp(m)

	for format, want := range map[string]string{"yaml": "prefer_synced", "json": `"PreferSynced"`} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/config?fmt="+format, nil))
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), want) {
			t.Errorf("%s: status %d body %q", format, resp.StatusCode, body)
		}
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/config?fmt=xml", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("xml status = %d", resp.StatusCode)
	}
}

func TestGetConfigRedactsToken(t *testing.T) {
	m := newTestManager(t)
	cfg := *m.Get()
	cfg.NowPlaying.Probe = "plex"
	cfg.NowPlaying.URL = "http://plex.local:32400"
	cfg.NowPlaying.Token = "plex-secret-token"
	m.Update(&cfg)
	app := newApp(m)

	for _, format := range []string{"yaml", "json"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/config?fmt="+format, nil))
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		if strings.Contains(string(body), "plex-secret-token") {
			t.Errorf("%s: token served in clear text: %s", format, body)
		}
		if !strings.Contains(string(body), redacted) {
			t.Errorf("%s: token placeholder missing: %s", format, body)
		}
	}
	if m.Get().NowPlaying.Token != "plex-secret-token" {
		t.Error("redaction changed the live config")
	}
}

func TestUpdateSettingsPersists(t *testing.T) {
	m := newTestManager(t)
	app := newApp(m)

	req := httptest.NewRequest(http.MethodPost, "/api/config/settings", strings.NewReader(`{"prefer_synced": true, "logger_level": "debug"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !m.Get().Lyrics.PreferSynced || m.Get().Logger.Level != "debug" {
		t.Errorf("config not updated: %+v", m.Get().Lyrics)
	}

	reloaded, err := Load(m.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !reloaded.Get().Lyrics.PreferSynced {
		t.Error("update was not saved to the config file")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/config/settings", strings.NewReader(`{"logger_level": "loud"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest || m.Get().Logger.Level != "debug" {
		t.Errorf("invalid level accepted: status %d level %q", resp.StatusCode, m.Get().Logger.Level)
	}
}

func TestUpdateSettingsNotifiesListeners(t *testing.T) {
	m := newTestManager(t)
	var seen *Config
	m.OnChange(func(c *Config) { seen = c })
	app := newApp(m)

	req := httptest.NewRequest(http.MethodPost, "/api/config/settings", strings.NewReader(`{"cache_enabled": false, "enrich_enabled": true}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if seen == nil || seen.Cache.Enabled || !seen.Enrich.Enabled {
		t.Errorf("listener saw %+v", seen)
	}
	if seen != m.Get() {
		t.Error("listener did not get the live config")
	}
}

func TestDownloadCache(t *testing.T) {
	m := newTestManager(t)
	app := newApp(m)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/config/cache/download", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing cache status = %d", resp.StatusCode)
	}

	if err := os.MkdirAll(m.CacheDir(), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(m.CacheDir(), cacheFile), []byte("sqlite"), 0644); err != nil {
		t.Fatal(err)
	}
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/config/cache/download", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "sqlite" {
		t.Errorf("status %d body %q", resp.StatusCode, body)
	}
}

func newApp(m *Manager) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app, m)
	return app
}
