package chords

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"regexp"

	"github.com/contre95/soullyrics/src/infra/httpclient"
	"github.com/contre95/soullyrics/src/music"
)

const ultimateGuitarBaseURL = "https://www.ultimate-guitar.com"

var jsStorePattern = regexp.MustCompile(`<div[^>]*class="js-store"[^>]*data-content="([^"]*)"`)

type ugStore struct {
	Store struct {
		Page struct {
			Data struct {
				Results []struct {
					TabURL string `json:"tab_url"`
				} `json:"results"`
			} `json:"data"`
		} `json:"page"`
	} `json:"store"`
}

// UltimateGuitar searches ultimate-guitar.com for chord and tab pages.
type UltimateGuitar struct {
	client  *httpclient.Client
	baseURL string
}

// NewUltimateGuitar creates a new Ultimate Guitar source
func NewUltimateGuitar(client *httpclient.Client) *UltimateGuitar {
	return &UltimateGuitar{client: client, baseURL: ultimateGuitarBaseURL}
}

func (u *UltimateGuitar) Name() string { return "UltimateGuitar" }

func (u *UltimateGuitar) SearchChords(ctx context.Context, track *music.Track) ([]string, error) {
	artist, title := ascii(track)
	params := url.Values{}
	params.Set("view_state", "advanced")
	params.Set("band_name", artist)
	params.Set("song_name", title)
	params["type[]"] = []string{"300", "200"}
	params.Set("rating[]", "5")
	params.Set("version_la", "")

	page, err := u.client.Get(ctx, fmt.Sprintf("%s/search.php?%s", u.baseURL, params.Encode()))
	if err != nil {
		return nil, err
	}
	if !page.OK() {
		return nil, nil
	}

	m := jsStorePattern.FindSubmatch(page.Body)
	if m == nil {
		return nil, fmt.Errorf("search page has no js-store element")
	}
	var store ugStore
	if err := json.Unmarshal([]byte(html.UnescapeString(string(m[1]))), &store); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	var urls []string
	for _, r := range store.Store.Page.Data.Results {
		if r.TabURL != "" {
			urls = append(urls, r.TabURL)
		}
	}
	return urls, nil
}
