package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/contre95/soullyrics/src/features/config"
	"github.com/contre95/soullyrics/src/music"
)

// Service runs the dance and tempo enrichers for a track.
type Service struct {
	enrichers []music.Enricher
	reporter  music.ErrorReporter
	config    *config.Manager

	mu       sync.RWMutex
	onUpdate func(*music.Track)
}

// NewService creates a new enrich service. Patches are merged in enricher order.
func NewService(reporter music.ErrorReporter, enrichers ...music.Enricher) *Service {
	return &Service{enrichers: enrichers, reporter: reporter}
}

// UseConfig makes the service follow enrich.enabled at runtime.
func (s *Service) UseConfig(cfg *config.Manager) *Service {
	s.config = cfg
	return s
}

// Enabled reports whether Enrich currently queries the enrichers.
func (s *Service) Enabled() bool {
	return len(s.enrichers) > 0 && (s.config == nil || s.config.Get().Enrich.Enabled)
}

// OnUpdate sets a callback run after metadata was written to a track.
func (s *Service) OnUpdate(fn func(*music.Track)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = fn
}

// Enrich queries every enricher concurrently and applies the merged result to the
// track once. Enricher faults are logged and reported; only cancellation is returned.
func (s *Service) Enrich(ctx context.Context, track *music.Track) error {
	if !s.Enabled() {
		slog.Debug("Enrichment is turned off", "artist", track.Artist, "title", track.Title)
		return nil
	}

	patches := make([]music.MetadataPatch, len(s.enrichers))
	var g errgroup.Group
	for i, e := range s.enrichers {
		g.Go(func() error {
			patch, err := s.run(ctx, e, track)
			if err != nil {
				slog.Warn("Enricher failed", "enricher", e.Name(), "artist", track.Artist, "title", track.Title, "error", err)
				if s.reporter != nil && ctx.Err() == nil {
					s.reporter.Report(ctx, e.Name(), err)
				}
				return nil
			}
			patches[i] = patch
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	var merged music.MetadataPatch
	for _, p := range patches {
		merged = merged.Merge(p)
	}
	if merged.IsEmpty() {
		slog.Debug("No extra metadata found", "artist", track.Artist, "title", track.Title)
		return nil
	}
	track.Apply(merged)
	slog.Info("Track enriched", "artist", track.Artist, "title", track.Title, "dances", track.Metadata().Dances)

	s.mu.RLock()
	fn := s.onUpdate
	s.mu.RUnlock()
	if fn != nil {
		fn(track)
	}
	return nil
}

func (s *Service) run(ctx context.Context, e music.Enricher, track *music.Track) (patch music.MetadataPatch, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("enricher panicked: %v", r)
		}
	}()
	return e.Enrich(ctx, track)
}
