package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/contre95/soullyrics/src/infra/httpclient"
	"github.com/contre95/soullyrics/src/music"
)

const geniusBaseURL = "https://genius.com"

// Genius API response structures
type geniusSearchResponse struct {
	Response struct {
		Hits []geniusHit `json:"hits"`
	} `json:"response"`
}

type geniusHit struct {
	Type   string     `json:"type"`
	Result geniusSong `json:"result"`
}

type geniusSong struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ArtistNames string `json:"artist_names"`
	Path        string `json:"path"`
}

var geniusContainers = []*regexp.Regexp{
	regexp.MustCompile(`(?s)<div[^>]*data-lyrics-container="true"[^>]*>(.*?)</div>`),
	regexp.MustCompile(`(?s)<div[^>]*class="Lyrics__Container[^"]*"[^>]*>(.*?)</div>`),
	regexp.MustCompile(`(?s)<div[^>]*class="lyrics"[^>]*>(.*?)</div>`),
}

// GeniusProvider implements music.LyricsProvider for Genius
type GeniusProvider struct {
	client  *httpclient.Client
	baseURL string
}

// NewGeniusProvider creates a new Genius provider
func NewGeniusProvider(client *httpclient.Client) *GeniusProvider {
	return &GeniusProvider{client: client, baseURL: geniusBaseURL}
}

func (p *GeniusProvider) Name() string { return "Genius" }

func (p *GeniusProvider) SearchLyrics(ctx context.Context, track *music.Track) (*music.LyricsResult, error) {
	songURL, err := p.searchSong(ctx, track)
	if err != nil {
		return nil, fmt.Errorf("failed to search song: %w", err)
	}

	page, err := p.client.Get(ctx, songURL)
	if err != nil {
		return nil, err
	}
	if page.StatusCode == 404 {
		return nil, music.ErrNoLyrics
	}
	if !page.OK() {
		return nil, fmt.Errorf("lyrics page request failed with status %d", page.StatusCode)
	}

	body := string(page.Body)
	// Genius serves a generic page for unknown slugs, so require the artist on it.
	if !strings.Contains(strings.ReplaceAll(strings.ToLower(body), " ", ""), strings.ReplaceAll(strings.ToLower(track.Artist), " ", "")) {
		return nil, music.ErrNoLyrics
	}

	lyrics := p.extractLyricsFromHTML(body)
	if lyrics == "" {
		return nil, music.ErrNoLyrics
	}
	return &music.LyricsResult{Lyrics: lyrics, URL: page.URL, Service: p.Name()}, nil
}

// searchSong asks the search API for the song page and falls back to the URL
// Genius derives from artist and title.
func (p *GeniusProvider) searchSong(ctx context.Context, track *music.Track) (string, error) {
	fallback := fmt.Sprintf("%s/%s-%s-lyrics", p.baseURL, dashed(track.Artist), dashed(track.Title))

	searchURL := fmt.Sprintf("%s/api/search?q=%s", p.baseURL, url.QueryEscape(track.Artist+" "+track.Title))
	page, err := p.client.Get(ctx, searchURL)
	if err != nil {
		return "", err
	}
	if !page.OK() {
		return fallback, nil
	}

	var searchResp geniusSearchResponse
	if err := json.Unmarshal(page.Body, &searchResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	for _, hit := range searchResp.Response.Hits {
		if hit.Result.Path != "" && containsFold(hit.Result.ArtistNames, track.Artist) {
			return p.baseURL + hit.Result.Path, nil
		}
	}
	return fallback, nil
}

func (p *GeniusProvider) extractLyricsFromHTML(body string) string {
	for _, re := range geniusContainers {
		var parts []string
		for _, match := range re.FindAllStringSubmatch(body, -1) {
			if lyrics := cleanLyricsHTML(match[1]); lyrics != "" {
				parts = append(parts, lyrics)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n")
		}
	}
	return ""
}
