package enrich

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/contre95/soullyrics/src/infra/httpclient"
	"github.com/contre95/soullyrics/src/music"
)

const welcherTanzBaseURL = "https://tanzschule-woelbing.de"

var (
	anchorPattern = regexp.MustCompile(`(?s)<a([^>]*)>(.*?)</a>`)
	hrefPattern   = regexp.MustCompile(`href="([^"]+)"`)
	rowPattern    = regexp.MustCompile(`(?s)<tr[^>]*>(.*?)</tr>`)
	cellPattern   = regexp.MustCompile(`(?s)<td[^>]*>(.*?)</td>`)

	danceNames = strings.NewReplacer(
		"Cha-Cha-Cha", "Cha Cha Cha",
		"Wiener", "Viennese",
		"Walzer", "Waltz",
		"Foxtrott", "Foxtrot",
	)
)

// WelcherTanz reads dance suggestions from the Tanzschule Wölbing charts.
type WelcherTanz struct {
	client  *httpclient.Client
	baseURL string
}

// NewWelcherTanz creates a new Welcher Tanz enricher
func NewWelcherTanz(client *httpclient.Client) *WelcherTanz {
	return &WelcherTanz{client: client, baseURL: welcherTanzBaseURL}
}

func (w *WelcherTanz) Name() string { return "WelcherTanz" }

func (w *WelcherTanz) Enrich(ctx context.Context, track *music.Track) (music.MetadataPatch, error) {
	var patch music.MetadataPatch

	index, err := w.client.Get(ctx, w.baseURL+"/charts/interpreten/")
	if err != nil {
		return patch, err
	}

	artist := strings.ToLower(track.Artist)
	var links []string
	for _, a := range anchorPattern.FindAllStringSubmatch(string(index.Body), -1) {
		attrs, text := a[1], plainText(a[2])
		if !strings.Contains(attrs, "btn-dfeault") {
			continue
		}
		href := hrefPattern.FindStringSubmatch(attrs)
		if href == nil || !strings.Contains(href[1], "/charts/interpreten/?artist-hash=") {
			continue
		}
		if strings.Contains(strings.ToLower(text), artist) {
			links = append(links, html.UnescapeString(href[1]))
		}
	}

	title := strings.ToLower(track.Title)
	for _, link := range links {
		page, err := w.client.Get(ctx, w.baseURL+link)
		if err != nil {
			return patch, err
		}
		for _, row := range rowPattern.FindAllStringSubmatch(string(page.Body), -1) {
			cells := cellPattern.FindAllStringSubmatch(row[1], -1)
			if len(cells) < 3 || !strings.Contains(strings.ToLower(plainText(cells[1][1])), title) {
				continue
			}
			for _, dance := range anchorPattern.FindAllStringSubmatch(cells[2][1], -1) {
				name := danceNames.Replace(plainText(dance[2]))
				if name != "" && name != "---" {
					patch.Dances = append(patch.Dances, name)
				}
			}
		}
	}
	return patch, nil
}
