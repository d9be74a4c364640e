package lyrics

import (
	"context"
	"log/slog"

	"github.com/contre95/soullyrics/src/music"
)

// Response is what callers get back from a lookup.
type Response struct {
	Result   music.LyricsResult `json:"result"`
	Found    bool               `json:"found"`
	Token    string             `json:"token"`
	CacheHit bool               `json:"cache_hit"`
}

// Service provides lyrics functionality
type Service struct {
	engine        *Engine
	cache         *Cache
	continuations *continuations
}

// NewService creates a new lyrics service. cache may be nil to disable caching.
func NewService(engine *Engine, cache *Cache, continuationSlots int) (*Service, error) {
	conts, err := newContinuations(continuationSlots)
	if err != nil {
		return nil, err
	}
	return &Service{
		engine:        engine,
		cache:         cache,
		continuations: conts,
	}, nil
}

// GetLyrics runs a fresh lookup for track, answering from the cache when possible.
func (s *Service) GetLyrics(ctx context.Context, track *music.Track, sync bool) (Response, error) {
	slog.Debug("Getting lyrics", "artist", track.Artist, "title", track.Title, "sync", sync)
	outcome, hit := s.cache.GetOrCompute(ctx, track, sync, false, func() Outcome {
		return s.engine.Resolve(ctx, track, sync, music.CursorStart)
	})
	return s.respond(track, sync, outcome, hit), nil
}

// NextLyrics resumes the scan after the provider that produced the result behind
// token. The engine is always invoked and the cached entry overwritten. An empty
// token starts from the first provider.
func (s *Service) NextLyrics(ctx context.Context, track *music.Track, sync bool, token string) (Response, error) {
	cursor := music.CursorStart
	if token != "" {
		state, err := s.continuations.resolve(token, track.Key(), sync)
		if err != nil {
			slog.Warn("Rejected continuation", "artist", track.Artist, "title", track.Title, "error", err)
			return Response{}, err
		}
		cursor = state.cursor
	}

	slog.Debug("Getting next lyrics", "artist", track.Artist, "title", track.Title, "sync", sync, "after", cursor)
	outcome, _ := s.cache.GetOrCompute(ctx, track, sync, true, func() Outcome {
		return s.engine.Resolve(ctx, track, sync, cursor)
	})
	return s.respond(track, sync, outcome, false), nil
}

// Providers lists the registered lyrics providers in scan order.
func (s *Service) Providers() []string {
	return s.engine.registry.Names()
}

func (s *Service) respond(track *music.Track, sync bool, outcome Outcome, hit bool) Response {
	return Response{
		Result:   outcome.Result,
		Found:    outcome.Result.Found(),
		Token:    s.continuations.issue(track.Key(), outcome.Cursor, sync),
		CacheHit: hit,
	}
}
