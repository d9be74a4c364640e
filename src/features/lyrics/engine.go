package lyrics

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/contre95/soullyrics/src/features/metrics"
	"github.com/contre95/soullyrics/src/music"
)

// Outcome is the result of a resolution together with the cursor the next
// continuation should resume after.
type Outcome struct {
	Result music.LyricsResult
	Cursor music.Cursor
}

// Engine scans the registry for lyrics. A resolution is synchronous: providers are
// queried one at a time in registration order.
type Engine struct {
	registry *Registry
	reporter music.ErrorReporter
	metrics  *metrics.Metrics
	timeout  time.Duration
}

// NewEngine creates a resolution engine. providerTimeout bounds every single
// provider call; zero disables the bound.
func NewEngine(registry *Registry, reporter music.ErrorReporter, m *metrics.Metrics, providerTimeout time.Duration) *Engine {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Engine{
		registry: registry,
		reporter: reporter,
		metrics:  m,
		timeout:  providerTimeout,
	}
}

// Resolve looks up lyrics for track starting strictly after cursor. Pass
// music.CursorStart for a fresh lookup and the previous Outcome.Cursor to continue.
func (e *Engine) Resolve(ctx context.Context, track *music.Track, wantSync bool, cursor music.Cursor) Outcome {
	start := time.Now()
	e.registry.EnsureLocal(wantSync)

	synced := e.registry.Synced()
	unsynced := e.registry.Unsynced()
	syncedLen := len(synced)

	if !(int(cursor) < syncedLen+len(unsynced)-1) {
		cursor = music.CursorStart
	}

	var result *music.LyricsResult
	phase := "not_found"

	if wantSync && int(cursor)+1 < syncedLen {
		var fallback *music.LyricsResult
		for i := int(cursor) + 1; i < syncedLen; i++ {
			res := e.invoke(ctx, synced[i], track)
			if res == nil {
				continue
			}
			cursor = music.Cursor(i)
			if res.Timed {
				result = res
				break
			}
			fallback = res
		}
		if result == nil && fallback != nil {
			result = fallback
		}
		if result != nil {
			phase = "synced"
		}
	}

	if result == nil || !wantSync || int(cursor) > syncedLen-1 {
		after := int(cursor) - syncedLen
		if after < -1 {
			after = -1
		}
		for i := after + 1; i < len(unsynced); i++ {
			res := e.invoke(ctx, unsynced[i], track)
			if res == nil {
				continue
			}
			res.Lyrics = normalizePlain(res.Lyrics)
			if res.Lyrics == "" {
				continue
			}
			res.Timed = false
			result = res
			cursor = music.Cursor(i + syncedLen)
			phase = "unsynced"
			break
		}
	}

	e.metrics.ResolveDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())

	if result == nil {
		slog.Info("No lyrics found", "artist", track.Artist, "title", track.Title, "sync", wantSync)
		return Outcome{Result: music.NotFound(), Cursor: cursor}
	}

	slog.Info("Lyrics resolved", "artist", track.Artist, "title", track.Title, "service", result.Service, "timed", result.Timed, "cursor", cursor)
	return Outcome{Result: *result, Cursor: cursor}
}

// invoke runs one provider call. Every fault is contained here so the scan always
// continues with the next provider.
func (e *Engine) invoke(ctx context.Context, provider music.LyricsProvider, track *music.Track) (res *music.LyricsResult) {
	name := provider.Name()

	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			e.fault(ctx, name, fmt.Errorf("provider panicked: %v", r))
			res = nil
		}
	}()

	result, err := provider.SearchLyrics(callCtx, track)
	switch {
	case err == nil:
	case errors.Is(err, music.ErrNoLyrics):
		result = nil
	case isTransportError(err):
		slog.Warn("Lyrics provider unreachable", "provider", name, "error", err)
		e.metrics.ProviderQueries.WithLabelValues(name, metrics.OutcomeTransportError).Inc()
		return nil
	default:
		e.fault(ctx, name, err)
		return nil
	}

	if result == nil || strings.TrimSpace(result.Lyrics) == "" {
		slog.Debug("Lyrics provider had no result", "provider", name, "artist", track.Artist, "title", track.Title)
		e.metrics.ProviderQueries.WithLabelValues(name, metrics.OutcomeMiss).Inc()
		return nil
	}

	e.metrics.ProviderQueries.WithLabelValues(name, metrics.OutcomeHit).Inc()
	hit := *result
	if hit.Service == "" {
		hit.Service = name
	}
	return &hit
}

func (e *Engine) fault(ctx context.Context, provider string, err error) {
	e.metrics.ProviderQueries.WithLabelValues(provider, metrics.OutcomeError).Inc()
	if e.reporter == nil {
		slog.Error("Lyrics provider failed", "provider", provider, "error", err)
		return
	}
	e.reporter.Report(ctx, provider, err)
}

func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// normalizePlain cleans plain-text lyrics scraped from web pages.
func normalizePlain(lyrics string) string {
	lyrics = html.UnescapeString(lyrics)
	lyrics = strings.ReplaceAll(lyrics, "`", "'")
	return strings.TrimSpace(lyrics)
}
