package providers

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/contre95/soullyrics/src/infra/httpclient"
	"github.com/contre95/soullyrics/src/music"
)

const megalobizBaseURL = "https://www.megalobiz.com"

var (
	megalobizLink    = regexp.MustCompile(`(?s)<a\s[^>]*class="[^"]*entity_name[^"]*"[^>]*>.*?</a>`)
	megalobizHref    = regexp.MustCompile(`href="([^"]+)"`)
	megalobizDetails = regexp.MustCompile(`(?s)<div[^>]*class="[^"]*lyrics_details[^"]*"[^>]*>.*?<span[^>]*>(.*?)</span>`)
)

// MegalobizProvider implements music.LyricsProvider for megalobiz.com LRC files.
type MegalobizProvider struct {
	client  *httpclient.Client
	baseURL string
}

// NewMegalobizProvider creates a new Megalobiz provider
func NewMegalobizProvider(client *httpclient.Client) *MegalobizProvider {
	return &MegalobizProvider{client: client, baseURL: megalobizBaseURL}
}

func (p *MegalobizProvider) Name() string { return "Megalobiz" }

func (p *MegalobizProvider) SearchLyrics(ctx context.Context, track *music.Track) (*music.LyricsResult, error) {
	params := url.Values{}
	params.Set("qry", fmt.Sprintf("%s %s", track.Artist, track.Title))
	params.Set("display", "more")

	page, err := p.client.Get(ctx, fmt.Sprintf("%s/search/all?%s", p.baseURL, params.Encode()))
	if err != nil {
		return nil, err
	}
	if !page.OK() {
		return nil, fmt.Errorf("megalobiz search failed with status %d", page.StatusCode)
	}

	for _, link := range megalobizLink.FindAllString(string(page.Body), -1) {
		text := cleanLyricsHTML(link)
		if !containsFold(text, track.Artist) || !containsFold(text, track.Title) {
			continue
		}
		href := firstMatch(link, megalobizHref)
		if href == "" {
			continue
		}

		details, err := p.client.Get(ctx, p.baseURL+href)
		if err != nil {
			return nil, err
		}
		if !details.OK() {
			return nil, fmt.Errorf("megalobiz lyrics page failed with status %d", details.StatusCode)
		}
		lrc := cleanLyricsHTML(firstMatch(string(details.Body), megalobizDetails))
		if strings.TrimSpace(lrc) == "" {
			return nil, fmt.Errorf("lyrics details not found on %s", details.URL)
		}
		return &music.LyricsResult{Lyrics: lrc, URL: details.URL, Service: p.Name(), Timed: true}, nil
	}
	return nil, music.ErrNoLyrics
}
