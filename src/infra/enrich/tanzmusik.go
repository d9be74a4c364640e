// Package enrich looks up dance and tempo metadata on ballroom dance sites.
package enrich

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/contre95/soullyrics/src/infra/httpclient"
	"github.com/contre95/soullyrics/src/music"
)

const tanzmusikBaseURL = "https://www.tanzmusik-online.de"

var (
	tokenPatterns = []*regexp.Regexp{
		regexp.MustCompile(`<input[^>]*name="_token"[^>]*value="([^"]*)"`),
		regexp.MustCompile(`<input[^>]*value="([^"]*)"[^>]*name="_token"`),
	}
	songTitleLink   = regexp.MustCompile(`(?s)class="songTitle"[^>]*>\s*<a[^>]*href="([^"]+)"`)
	paginationBlock = regexp.MustCompile(`(?s)<ul[^>]*class="pagination"[^>]*>(.*?)</ul>`)
	pageNumberLink  = regexp.MustCompile(`<a[^>]*>\s*(\d+)\s*</a>`)
	danceLink       = regexp.MustCompile(`(?s)<div[^>]*>\s*<a[^>]*>(.*?)</a>`)
	detailLine      = regexp.MustCompile(`(?s)<div[^>]*class="line"[^>]*>\s*<i[^>]*class="([^"]*)"[^>]*>\s*</i>\s*<div[^>]*>(.*?)</div>`)
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
)

// TanzmusikOnline reads dances, tempo and release details from tanzmusik-online.de.
type TanzmusikOnline struct {
	client  *httpclient.Client
	baseURL string
}

// NewTanzmusikOnline creates a new Tanzmusik Online enricher
func NewTanzmusikOnline(client *httpclient.Client) *TanzmusikOnline {
	return &TanzmusikOnline{client: client, baseURL: tanzmusikBaseURL}
}

func (t *TanzmusikOnline) Name() string { return "TanzmusikOnline" }

func (t *TanzmusikOnline) Enrich(ctx context.Context, track *music.Track) (music.MetadataPatch, error) {
	var patch music.MetadataPatch
	session := t.client.Session()

	songURLs, err := t.search(ctx, session, track)
	if err != nil {
		return patch, err
	}
	if len(songURLs) == 0 {
		return patch, nil
	}

	// Song pages are localized by cookie; switch to English for stable dance names.
	if _, err := session.Get(ctx, t.baseURL+"/locale/en"); err != nil {
		return patch, err
	}
	for _, songURL := range songURLs {
		page, err := session.Get(ctx, songURL)
		if err != nil {
			return patch, err
		}
		if !page.OK() {
			continue
		}
		patch = patch.Merge(parseTanzmusikSong(string(page.Body)))
	}
	return patch, nil
}

// search walks every result page of the extended search and collects song URLs.
func (t *TanzmusikOnline) search(ctx context.Context, session *httpclient.Client, track *music.Track) ([]string, error) {
	tokenPage, err := session.Get(ctx, t.baseURL+"/search")
	if err != nil {
		return nil, err
	}
	if !strings.Contains(string(tokenPage.Body), `id="page-wrapper"`) {
		return nil, nil
	}
	var token string
	for _, re := range tokenPatterns {
		if m := re.FindStringSubmatch(string(tokenPage.Body)); m != nil {
			token = m[1]
			break
		}
	}

	form := url.Values{}
	form.Set("artist", track.Artist)
	form.Set("song", track.Title)
	form.Set("_token", token)
	form.Set("searchMode", "extended")
	form.Set("genre", "0")
	form.Set("submit", "Suchen")

	var songURLs []string
	for page, highest := 1, 2; page < highest; page++ {
		results, err := session.PostForm(ctx, fmt.Sprintf("%s/search/result?page=%d", t.baseURL, page), form, nil)
		if err != nil {
			return nil, err
		}
		body := string(results.Body)
		for _, m := range songTitleLink.FindAllStringSubmatch(body, -1) {
			songURLs = append(songURLs, t.absolute(html.UnescapeString(m[1])))
		}
		if page == 1 {
			if block := paginationBlock.FindStringSubmatch(body); block != nil {
				for _, m := range pageNumberLink.FindAllStringSubmatch(block[1], -1) {
					if n, err := strconv.Atoi(m[1]); err == nil && n+1 > highest {
						highest = n + 1
					}
				}
			}
		}
	}
	return songURLs, nil
}

func (t *TanzmusikOnline) absolute(href string) string {
	if strings.HasPrefix(href, "/") {
		return t.baseURL + href
	}
	return href
}

func parseTanzmusikSong(body string) music.MetadataPatch {
	var patch music.MetadataPatch

	if start := strings.Index(body, `class="dances"`); start >= 0 {
		section := body[start:]
		if end := strings.Index(section, `class="songDetails"`); end >= 0 {
			section = section[:end]
		}
		for _, m := range danceLink.FindAllStringSubmatch(section, -1) {
			name := strings.ReplaceAll(plainText(m[1]), "Disco Fox", "Discofox")
			if name != "" {
				patch.Dances = append(patch.Dances, name)
			}
		}
	}

	for _, m := range detailLine.FindAllStringSubmatch(body, -1) {
		classes, line := m[1], plainText(m[2])
		typ, text, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		text = strings.TrimSpace(text)
		switch {
		case strings.Contains(classes, "fa-dot-circle-o"):
			if strings.EqualFold(strings.TrimSpace(typ), "album") {
				patch.Album = &text
			}
		case strings.Contains(classes, "fa-calendar-o"):
			if n, err := strconv.Atoi(text); err == nil {
				patch.Year = &n
			}
		case strings.Contains(classes, "fa-flag"):
			patch.Genre = &text
		case strings.Contains(classes, "fa-music"):
			if n, err := strconv.Atoi(text); err == nil {
				patch.CyclesPerMinute = &n
			}
		case strings.Contains(classes, "fa-tachometer"):
			if n, err := strconv.Atoi(text); err == nil {
				patch.BeatsPerMinute = &n
			}
		}
	}
	return patch
}

func plainText(fragment string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(fragment, "")))
}
