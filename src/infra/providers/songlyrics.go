package providers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/contre95/soullyrics/src/infra/httpclient"
	"github.com/contre95/soullyrics/src/music"
)

const songLyricsBaseURL = "https://www.songlyrics.com"

var (
	songLyricsContainer = regexp.MustCompile(`(?s)<p[^>]*id="songLyricsDiv"[^>]*>(.*?)</p>`)
	songLyricsAlbum     = regexp.MustCompile(`(?s)<div[^>]*class="pagetitle"[^>]*>.*?Album:\s*(?:</[^>]+>\s*)*<a[^>]*>(.*?)</a>`)
)

// SongLyricsProvider implements music.LyricsProvider for songlyrics.com. It also
// reports the album shown on the song page.
type SongLyricsProvider struct {
	client  *httpclient.Client
	baseURL string
}

// NewSongLyricsProvider creates a new songlyrics.com provider
func NewSongLyricsProvider(client *httpclient.Client) *SongLyricsProvider {
	return &SongLyricsProvider{client: client, baseURL: songLyricsBaseURL}
}

func (p *SongLyricsProvider) Name() string { return "Songlyrics" }

func (p *SongLyricsProvider) SearchLyrics(ctx context.Context, track *music.Track) (*music.LyricsResult, error) {
	songURL := fmt.Sprintf("%s/%s/%s-lyrics", p.baseURL, dashed(track.Artist), dashed(track.Title))
	page, err := p.client.Get(ctx, songURL)
	if err != nil {
		return nil, err
	}
	if page.StatusCode == 404 {
		return nil, music.ErrNoLyrics
	}
	if !page.OK() {
		return nil, fmt.Errorf("songlyrics page request failed with status %d", page.StatusCode)
	}

	body := string(page.Body)
	lyrics := cleanLyricsHTML(firstMatch(body, songLyricsContainer))
	if lyrics == "" || strings.Contains(lyrics, "Sorry, we have no") || strings.Contains(lyrics, "We do not have") {
		return nil, music.ErrNoLyrics
	}

	if album := cleanLyricsHTML(firstMatch(body, songLyricsAlbum)); album != "" {
		track.SetAlbum(album)
	}
	return &music.LyricsResult{Lyrics: lyrics, URL: page.URL, Service: p.Name()}, nil
}
