package nowplaying

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/contre95/soullyrics/src/features/metrics"
	"github.com/contre95/soullyrics/src/music"
)

// DefaultPollInterval is used when no interval is configured.
const DefaultPollInterval = time.Second

// idleTitles are the window titles a player shows when no song is playing.
var idleTitles = map[string][]string{
	"spotify": {"Spotify", "Spotify Free", "Spotify Premium", "Drag", "Advertisement"},
	"tidal":   {"TIDAL"},
	"vlc":     {"VLC media player"},
}

// IdleTitles returns the labels ignored for player. The empty label is always idle.
func IdleTitles(player string) []string {
	return append([]string{""}, idleTitles[strings.ToLower(player)]...)
}

// Watcher polls a probe and reports track changes.
type Watcher struct {
	probe    music.NowPlayingProbe
	interval time.Duration
	idle     map[string]struct{}
	metrics  *metrics.Metrics

	mu        sync.RWMutex
	onTrack   func(context.Context, *music.Track)
	lastLabel string
	current   *music.Track
}

// NewWatcher creates a watcher for the given player's probe.
func NewWatcher(probe music.NowPlayingProbe, player string, interval time.Duration, m *metrics.Metrics) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if m == nil {
		m = metrics.New(nil)
	}
	idle := make(map[string]struct{})
	for _, title := range IdleTitles(player) {
		idle[title] = struct{}{}
	}
	return &Watcher{probe: probe, interval: interval, idle: idle, metrics: m}
}

// OnTrack sets the handler called with each newly playing track. The handler runs
// on the polling goroutine.
func (w *Watcher) OnTrack(fn func(context.Context, *music.Track)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onTrack = fn
}

// Current returns the last accepted track, or nil before the first one.
func (w *Watcher) Current() *music.Track {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	slog.Info("Watching now playing", "probe", w.probe.Name(), "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.Poll(ctx)
		select {
		case <-ctx.Done():
			slog.Info("Stopped watching now playing", "probe", w.probe.Name())
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll queries the probe once and reports whether a new track was accepted.
func (w *Watcher) Poll(ctx context.Context) bool {
	label, err := w.probe.CurrentTrackLabel(ctx)
	if err != nil {
		slog.Debug("Now playing probe failed", "probe", w.probe.Name(), "error", err)
		return false
	}
	label = strings.TrimSpace(label)
	if _, idle := w.idle[label]; idle {
		return false
	}

	w.mu.Lock()
	if label == w.lastLabel {
		w.mu.Unlock()
		return false
	}
	track := music.ParseTrack(label)
	w.lastLabel = label
	w.current = track
	fn := w.onTrack
	w.mu.Unlock()

	w.metrics.TracksSeen.Inc()
	slog.Info("Now playing", "artist", track.Artist, "title", track.Title)
	if fn != nil {
		fn(ctx, track)
	}
	return true
}
