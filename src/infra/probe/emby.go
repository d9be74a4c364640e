package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/contre95/soullyrics/src/infra/httpclient"
)

// Emby reads the track an Emby or Jellyfin session is playing.
type Emby struct {
	client *httpclient.Client
	URL    string
	APIKey string
}

// NewEmby creates a probe for the Emby server at serverURL.
func NewEmby(client *httpclient.Client, serverURL, apiKey string) *Emby {
	return &Emby{
		client: client,
		URL:    strings.TrimSuffix(serverURL, "/"),
		APIKey: apiKey,
	}
}

func (e *Emby) Name() string { return "emby" }

// CurrentTrackLabel returns the first unpaused audio session as "Artist - Title".
func (e *Emby) CurrentTrackLabel(ctx context.Context) (string, error) {
	page, err := e.client.Get(ctx, fmt.Sprintf("%s/Sessions?api_key=%s", e.URL, url.QueryEscape(e.APIKey)))
	if err != nil {
		return "", err
	}
	if !page.OK() {
		return "", fmt.Errorf("failed to get sessions: status %d", page.StatusCode)
	}

	var sessions []struct {
		NowPlayingItem *struct {
			Name        string   `json:"Name"`
			Type        string   `json:"Type"`
			Artists     []string `json:"Artists"`
			AlbumArtist string   `json:"AlbumArtist"`
		} `json:"NowPlayingItem"`
		PlayState struct {
			IsPaused bool `json:"IsPaused"`
		} `json:"PlayState"`
	}
	if err := json.Unmarshal(page.Body, &sessions); err != nil {
		return "", fmt.Errorf("failed to decode sessions: %w", err)
	}

	for _, s := range sessions {
		item := s.NowPlayingItem
		if item == nil || item.Type != "Audio" || s.PlayState.IsPaused {
			continue
		}
		artist := item.AlbumArtist
		if len(item.Artists) > 0 {
			artist = strings.Join(item.Artists, ", ")
		}
		return joinLabel(artist, item.Name), nil
	}
	return "", nil
}
