package chords

import (
	"context"
	"fmt"
	"net/url"

	"github.com/contre95/soullyrics/src/music"
)

const songsterrBaseURL = "https://www.songsterr.com"

// Songsterr builds a best-match link without checking it; songsterr redirects to
// the closest tab when the browser opens it.
type Songsterr struct {
	baseURL string
}

// NewSongsterr creates a new Songsterr source
func NewSongsterr() *Songsterr {
	return &Songsterr{baseURL: songsterrBaseURL}
}

func (s *Songsterr) Name() string { return "Songsterr" }

func (s *Songsterr) SearchChords(_ context.Context, track *music.Track) ([]string, error) {
	artist, title := ascii(track)
	params := url.Values{}
	params.Set("s", title)
	params.Set("a", artist)
	return []string{fmt.Sprintf("%s/a/wa/bestMatchForQueryString?%s", s.baseURL, params.Encode())}, nil
}
