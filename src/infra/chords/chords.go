// Package chords finds tab and chord pages for a track.
package chords

import (
	"strings"

	"github.com/gosimple/unidecode"

	"github.com/contre95/soullyrics/src/music"
)

// ascii folds artist and title to ASCII, since the tab sites only match plain names.
func ascii(track *music.Track) (artist, title string) {
	return unidecode.Unidecode(track.Artist), unidecode.Unidecode(track.Title)
}

func slug(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", "-"))
}
