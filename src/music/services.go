package music

import (
	"context"
	"errors"
)

// ErrNoLyrics is returned by providers that answered but had nothing for the track.
var ErrNoLyrics = errors.New("no lyrics found")

// LyricsProvider fetches lyrics for a track from a single source.
type LyricsProvider interface {
	// Name returns the provider name, also used as the service name in results
	Name() string

	// SearchLyrics returns nil or ErrNoLyrics when the source has nothing for the track.
	// Providers may record album, year or other metadata on the track as they go.
	SearchLyrics(ctx context.Context, track *Track) (*LyricsResult, error)
}

// ChordsProvider returns links to tab or chord pages for a track.
type ChordsProvider interface {
	Name() string
	SearchChords(ctx context.Context, track *Track) ([]string, error)
}

// Enricher looks up extra metadata (dances, tempo, album...) for a track.
type Enricher interface {
	Name() string
	Enrich(ctx context.Context, track *Track) (MetadataPatch, error)
}

// NowPlayingProbe reports the label of the track a media player is playing,
// like "Artist - Title". An empty label means nothing recognizable is playing.
type NowPlayingProbe interface {
	Name() string
	CurrentTrackLabel(ctx context.Context) (string, error)
}

// ErrorReporter receives unexpected provider faults for diagnostics.
type ErrorReporter interface {
	Report(ctx context.Context, source string, err error)
}
