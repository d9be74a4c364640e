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

const tekstowoBaseURL = "https://www.tekstowo.pl"

var (
	tekstowoSongLinks = []*regexp.Regexp{
		regexp.MustCompile(`<a[^>]*href="(/piosenka,[^"]+\.html)"[^>]*>`),
		regexp.MustCompile(`<a[^>]*href="(/piosenka/[^"]+\.html)"[^>]*>`),
		regexp.MustCompile(`<a[^>]*href="(https://www\.tekstowo\.pl/piosenka[^"]+\.html)"[^>]*>`),
	}
	tekstowoLyrics = []*regexp.Regexp{
		regexp.MustCompile(`(?s)<div[^>]*class="inner-text"[^>]*>(.*?)</div>`),
		regexp.MustCompile(`(?s)<div[^>]*class="song-text"[^>]*>(.*?)</div>`),
		regexp.MustCompile(`(?s)<div[^>]*id="songText"[^>]*>(.*?)</div>`),
	}
)

// TekstowoProvider implements music.LyricsProvider for Tekstowo.pl
type TekstowoProvider struct {
	client  *httpclient.Client
	baseURL string
}

// NewTekstowoProvider creates a new Tekstowo provider
func NewTekstowoProvider(client *httpclient.Client) *TekstowoProvider {
	return &TekstowoProvider{client: client, baseURL: tekstowoBaseURL}
}

func (p *TekstowoProvider) Name() string { return "Tekstowo" }

func (p *TekstowoProvider) SearchLyrics(ctx context.Context, track *music.Track) (*music.LyricsResult, error) {
	params := url.Values{}
	params.Set("search-artist", track.Artist)
	params.Set("search-title", track.Title)
	searchURL := fmt.Sprintf("%s/szukaj,%s.html", p.baseURL, params.Encode())

	page, err := p.client.Get(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	if !page.OK() {
		return nil, fmt.Errorf("tekstowo search request failed with status %d", page.StatusCode)
	}

	songPath := firstMatch(string(page.Body), tekstowoSongLinks...)
	if songPath == "" {
		return nil, music.ErrNoLyrics
	}
	songURL := songPath
	if !strings.HasPrefix(songPath, "http") {
		songURL = p.baseURL + songPath
	}

	song, err := p.client.Get(ctx, songURL)
	if err != nil {
		return nil, err
	}
	if !song.OK() {
		return nil, fmt.Errorf("lyrics page request failed with status %d", song.StatusCode)
	}

	for _, re := range tekstowoLyrics {
		for _, match := range re.FindAllStringSubmatch(string(song.Body), -1) {
			lyrics := cleanLyricsHTML(match[1])
			// Skip navigation blocks that share the container class.
			if len(lyrics) > 20 && !strings.Contains(lyrics, "Przeglądaj") && !strings.Contains(lyrics, "wykonawców") {
				return &music.LyricsResult{Lyrics: lyrics, URL: song.URL, Service: p.Name()}, nil
			}
		}
	}
	return nil, music.ErrNoLyrics
}
