package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/contre95/soullyrics/src/features/chords"
	"github.com/contre95/soullyrics/src/features/config"
	"github.com/contre95/soullyrics/src/features/enrich"
	"github.com/contre95/soullyrics/src/features/lyrics"
	"github.com/contre95/soullyrics/src/features/metrics"
	"github.com/contre95/soullyrics/src/features/nowplaying"
	"github.com/contre95/soullyrics/src/infra/cache"
	chordsources "github.com/contre95/soullyrics/src/infra/chords"
	enrichers "github.com/contre95/soullyrics/src/infra/enrich"
	"github.com/contre95/soullyrics/src/infra/httpclient"
	"github.com/contre95/soullyrics/src/infra/probe"
	"github.com/contre95/soullyrics/src/infra/providers"
	"github.com/contre95/soullyrics/src/infra/reporting"
	"github.com/contre95/soullyrics/src/music"
)

// app holds every wired service for one CLI invocation.
type app struct {
	cfg *config.Manager

	registry *prometheus.Registry
	metrics  *metrics.Metrics
	reporter *reporting.Reporter

	client *httpclient.Client
	local  *providers.LocalProvider
	store  *cache.SqliteStore
	lyrics *lyrics.Service
	chords *chords.Service
	enrich *enrich.Service

	closers []func() error
}

func newApp(cfg *config.Manager) (*app, error) {
	c := cfg.Get()
	a := &app{cfg: cfg, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.New(a.registry)
	a.reporter = reporting.NewReporter(a.metrics)

	client := httpclient.New(c.HTTP.Timeout, c.HTTP.UserAgent)
	a.client = client

	var local music.LyricsProvider
	if c.Lyrics.LocalDir != "" {
		a.local = providers.NewLocalProvider(c.Lyrics.LocalDir)
		local = a.local
	}

	var synced, unsynced []music.LyricsProvider
	if c.IsLyricsProviderEnabled("lrclib") {
		synced = append(synced, providers.NewLRCLibProvider(client))
	}
	if c.IsLyricsProviderEnabled("megalobiz") {
		synced = append(synced, providers.NewMegalobizProvider(client))
	}
	if c.IsLyricsProviderEnabled("songlyrics") {
		unsynced = append(unsynced, providers.NewSongLyricsProvider(client))
	}
	if c.IsLyricsProviderEnabled("genius") {
		unsynced = append(unsynced, providers.NewGeniusProvider(client))
	}
	if c.IsLyricsProviderEnabled("tekstowo") {
		unsynced = append(unsynced, providers.NewTekstowoProvider(client))
	}

	engine := lyrics.NewEngine(lyrics.NewRegistry(local, synced, unsynced), a.reporter, a.metrics, c.Lyrics.ProviderTimeout)

	// The store is opened even with caching off so cache.enabled can be flipped at runtime.
	var store lyrics.Store
	s, err := cache.NewSqliteStore(cfg.CacheDir())
	switch {
	case err == nil:
		a.store = s
		a.closers = append(a.closers, s.Close)
		store = s
	case c.Cache.Enabled:
		return nil, fmt.Errorf("failed to open lyrics cache: %w", err)
	default:
		slog.Warn("Lyrics cache unavailable, it stays off until restart", "error", err)
	}

	resultCache := lyrics.NewCache(store, c.Cache.TTL, c.Cache.NormalizeKeys, a.metrics).UseConfig(cfg)
	svc, err := lyrics.NewService(engine, resultCache, c.Lyrics.ContinuationSlots)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create lyrics service: %w", err)
	}
	a.lyrics = svc

	var chordSources []music.ChordsProvider
	if c.IsChordsProviderEnabled("ultimateguitar") {
		chordSources = append(chordSources, chordsources.NewUltimateGuitar(client))
	}
	if c.IsChordsProviderEnabled("cifraclub") {
		chordSources = append(chordSources, chordsources.NewCifraClub(client))
	}
	if c.IsChordsProviderEnabled("songsterr") {
		chordSources = append(chordSources, chordsources.NewSongsterr())
	}
	a.chords = chords.NewService(a.reporter, chordSources...)

	var enrichList []music.Enricher
	if c.IsEnricherEnabled("tanzmusikonline") {
		enrichList = append(enrichList, enrichers.NewTanzmusikOnline(client))
	}
	if c.IsEnricherEnabled("welchertanz") {
		enrichList = append(enrichList, enrichers.NewWelcherTanz(client))
	}
	a.enrich = enrich.NewService(a.reporter, enrichList...).UseConfig(cfg)

	slog.Debug("Services wired",
		"synced", len(synced), "unsynced", len(unsynced),
		"chords", len(chordSources), "enrichers", len(enrichList),
		"cache", c.Cache.Enabled, "enrich", c.Enrich.Enabled, "local_dir", c.Lyrics.LocalDir)
	return a, nil
}

// newWatcher builds the now playing watcher for the configured probe.
func (a *app) newWatcher() (*nowplaying.Watcher, error) {
	c := a.cfg.Get().NowPlaying
	var p music.NowPlayingProbe
	switch c.Probe {
	case "command":
		cmd, err := probe.NewCommand(c.Command)
		if err != nil {
			return nil, err
		}
		p = cmd
	case "plex":
		p = probe.NewPlex(a.client, c.URL, c.Token)
	case "emby":
		p = probe.NewEmby(a.client, c.URL, c.Token)
	default:
		mpris := probe.NewMPRIS(c.Player)
		a.closers = append(a.closers, mpris.Close)
		p = mpris
	}
	return nowplaying.NewWatcher(p, c.Player, c.PollInterval, a.metrics), nil
}

// watchLocal keeps the local lyrics index fresh while ctx lives.
func (a *app) watchLocal(ctx context.Context) {
	if a.local == nil {
		return
	}
	if err := a.local.Watch(ctx); err != nil {
		slog.Warn("Local lyrics directory is not watched", "error", err)
	}
}

// Close releases the cache and probe connections.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
