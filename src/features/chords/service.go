package chords

import (
	"context"
	"errors"
	"log/slog"

	"github.com/contre95/soullyrics/src/music"
)

// Service looks up tab and chord pages across the configured sources.
type Service struct {
	providers []music.ChordsProvider
	reporter  music.ErrorReporter
}

// NewService creates a new chords service. Providers are queried in the given order.
func NewService(reporter music.ErrorReporter, providers ...music.ChordsProvider) *Service {
	return &Service{providers: providers, reporter: reporter}
}

// Search returns the links of every source, concatenated in source order.
// A failing source is logged and skipped.
func (s *Service) Search(ctx context.Context, track *music.Track) []string {
	urls := []string{}
	for _, p := range s.providers {
		found, err := s.search(ctx, p, track)
		if err != nil {
			slog.Warn("Chords source failed", "source", p.Name(), "artist", track.Artist, "title", track.Title, "error", err)
			if s.reporter != nil && !errors.Is(err, context.Canceled) {
				s.reporter.Report(ctx, p.Name(), err)
			}
			continue
		}
		slog.Debug("Chords source answered", "source", p.Name(), "links", len(found))
		urls = append(urls, found...)
	}
	return urls
}

func (s *Service) search(ctx context.Context, p music.ChordsProvider, track *music.Track) (urls []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("chords source panicked")
		}
	}()
	return p.SearchChords(ctx, track)
}

// Sources returns the names of the configured sources in query order.
func (s *Service) Sources() []string {
	names := make([]string, len(s.providers))
	for i, p := range s.providers {
		names[i] = p.Name()
	}
	return names
}
