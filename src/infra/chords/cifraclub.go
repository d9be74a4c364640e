package chords

import (
	"context"
	"fmt"

	"github.com/contre95/soullyrics/src/infra/httpclient"
	"github.com/contre95/soullyrics/src/music"
)

const cifraClubBaseURL = "https://www.cifraclub.com.br"

// CifraClub links to the cifraclub.com.br page for the track, if it exists.
type CifraClub struct {
	client  *httpclient.Client
	baseURL string
}

// NewCifraClub creates a new Cifra Club source
func NewCifraClub(client *httpclient.Client) *CifraClub {
	return &CifraClub{client: client, baseURL: cifraClubBaseURL}
}

func (c *CifraClub) Name() string { return "CifraClub" }

func (c *CifraClub) SearchChords(ctx context.Context, track *music.Track) ([]string, error) {
	artist, title := ascii(track)
	page, err := c.client.Get(ctx, fmt.Sprintf("%s/%s/%s", c.baseURL, slug(artist), slug(title)))
	if err != nil {
		return nil, err
	}
	if page.StatusCode != 200 {
		return nil, nil
	}
	return []string{page.URL}, nil
}
