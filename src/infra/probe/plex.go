package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/contre95/soullyrics/src/infra/httpclient"
)

// Plex reads the track a Plex Media Server session is playing.
type Plex struct {
	client *httpclient.Client
	URL    string
	Token  string
}

// NewPlex creates a probe for the Plex server at serverURL.
func NewPlex(client *httpclient.Client, serverURL, token string) *Plex {
	return &Plex{
		client: client,
		URL:    strings.TrimSuffix(serverURL, "/"),
		Token:  token,
	}
}

func (p *Plex) Name() string { return "plex" }

// CurrentTrackLabel returns the first playing music session as "Artist - Title".
func (p *Plex) CurrentTrackLabel(ctx context.Context) (string, error) {
	sessionsURL := fmt.Sprintf("%s/status/sessions?X-Plex-Token=%s", p.URL, url.QueryEscape(p.Token))
	page, err := p.client.Do(ctx, http.MethodGet, sessionsURL, nil, http.Header{"Accept": {"application/json"}})
	if err != nil {
		return "", err
	}
	if !page.OK() {
		return "", fmt.Errorf("failed to get sessions: status %d", page.StatusCode)
	}

	var result struct {
		MediaContainer struct {
			Metadata []struct {
				Type             string `json:"type"`
				Title            string `json:"title"`
				GrandparentTitle string `json:"grandparentTitle"`
				OriginalTitle    string `json:"originalTitle"`
				Player           struct {
					State string `json:"state"`
				} `json:"Player"`
			} `json:"Metadata"`
		} `json:"MediaContainer"`
	}
	if err := json.Unmarshal(page.Body, &result); err != nil {
		return "", fmt.Errorf("failed to decode sessions: %w", err)
	}

	for _, item := range result.MediaContainer.Metadata {
		if item.Type != "track" || item.Player.State != "playing" {
			continue
		}
		// originalTitle holds the track artist on compilations.
		artist := item.GrandparentTitle
		if item.OriginalTitle != "" {
			artist = item.OriginalTitle
		}
		return joinLabel(artist, item.Title), nil
	}
	return "", nil
}
