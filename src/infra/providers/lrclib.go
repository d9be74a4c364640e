package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/contre95/soullyrics/src/infra/httpclient"
	"github.com/contre95/soullyrics/src/music"
)

const lrclibBaseURL = "https://lrclib.net"

// LRCLib API response structures
type lrclibSearchResponse []lrclibSong

type lrclibSong struct {
	ID           int     `json:"id"`
	Name         string  `json:"trackName"`
	Artist       string  `json:"artistName"`
	Album        string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// LRCLibProvider implements music.LyricsProvider for LRCLib. It prefers the timed
// lyrics of the first result that has them.
type LRCLibProvider struct {
	client  *httpclient.Client
	baseURL string
}

// NewLRCLibProvider creates a new LRCLib provider
func NewLRCLibProvider(client *httpclient.Client) *LRCLibProvider {
	return &LRCLibProvider{client: client, baseURL: lrclibBaseURL}
}

func (p *LRCLibProvider) Name() string { return "LRCLib" }

func (p *LRCLibProvider) SearchLyrics(ctx context.Context, track *music.Track) (*music.LyricsResult, error) {
	if track.Title == "" {
		return nil, music.ErrNoLyrics
	}

	params := url.Values{}
	params.Set("track_name", track.Title)
	if track.Artist != "" {
		params.Set("artist_name", track.Artist)
	}
	searchURL := fmt.Sprintf("%s/api/search?%s", p.baseURL, params.Encode())

	page, err := p.client.Get(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	if !page.OK() {
		return nil, fmt.Errorf("LRCLib API request failed with status %d", page.StatusCode)
	}

	var searchResp lrclibSearchResponse
	if err := json.Unmarshal(page.Body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var plain *lrclibSong
	for i := range searchResp {
		song := &searchResp[i]
		if song.Instrumental {
			continue
		}
		if strings.TrimSpace(song.SyncedLyrics) != "" {
			return p.result(track, song, song.SyncedLyrics, true), nil
		}
		if plain == nil && strings.TrimSpace(song.PlainLyrics) != "" {
			plain = song
		}
	}
	if plain != nil {
		return p.result(track, plain, plain.PlainLyrics, false), nil
	}
	return nil, music.ErrNoLyrics
}

func (p *LRCLibProvider) result(track *music.Track, song *lrclibSong, lyrics string, timed bool) *music.LyricsResult {
	track.SetAlbum(song.Album)
	return &music.LyricsResult{
		Lyrics:  lyrics,
		URL:     fmt.Sprintf("%s/api/get/%d", p.baseURL, song.ID),
		Service: p.Name(),
		Timed:   timed,
	}
}
