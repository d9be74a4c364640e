package music

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

const (
	UnknownAlbum = "UNKNOWN"
	UnknownGenre = "UNKNOWN"
	UnknownYear  = -1
	UnknownTempo = -1
)

var (
	parenAnnotation   = regexp.MustCompile(`(?s) \(.*?\)`)
	bracketAnnotation = regexp.MustCompile(`(?s) \[.*?\]`)
)

// Metadata holds the track fields that providers and enrichers discover while
// looking up lyrics or dances.
type Metadata struct {
	Album           string
	Year            int
	Genre           string
	CyclesPerMinute int
	BeatsPerMinute  int
	Dances          []string
}

// MetadataPatch carries the fields a provider discovered. Nil fields are left untouched.
type MetadataPatch struct {
	Album           *string
	Year            *int
	Genre           *string
	CyclesPerMinute *int
	BeatsPerMinute  *int
	Dances          []string
}

// IsEmpty reports whether applying the patch would change nothing.
func (p MetadataPatch) IsEmpty() bool {
	return p.Album == nil && p.Year == nil && p.Genre == nil &&
		p.CyclesPerMinute == nil && p.BeatsPerMinute == nil && len(p.Dances) == 0
}

// Merge overlays other onto p. Fields set in other win; dances are appended in order.
func (p MetadataPatch) Merge(other MetadataPatch) MetadataPatch {
	if other.Album != nil {
		p.Album = other.Album
	}
	if other.Year != nil {
		p.Year = other.Year
	}
	if other.Genre != nil {
		p.Genre = other.Genre
	}
	if other.CyclesPerMinute != nil {
		p.CyclesPerMinute = other.CyclesPerMinute
	}
	if other.BeatsPerMinute != nil {
		p.BeatsPerMinute = other.BeatsPerMinute
	}
	if len(other.Dances) > 0 {
		p.Dances = appendUnique(append([]string(nil), p.Dances...), other.Dances...)
	}
	return p
}

// Track is the song currently being looked up. Artist and Title are fixed once the
// track is built; metadata may be written concurrently by providers and enrichers.
type Track struct {
	Artist string
	Title  string

	mu   sync.RWMutex
	meta Metadata
}

// NewTrack creates a track with the unknown metadata defaults.
func NewTrack(artist, title string) *Track {
	return &Track{
		Artist: artist,
		Title:  title,
		meta: Metadata{
			Album:           UnknownAlbum,
			Year:            UnknownYear,
			Genre:           UnknownGenre,
			CyclesPerMinute: UnknownTempo,
			BeatsPerMinute:  UnknownTempo,
			Dances:          []string{},
		},
	}
}

// ParseTrack builds a track from an "Artist - Title (extra)" label as shown in a
// player window title.
func ParseTrack(label string) *Track {
	label = strings.ReplaceAll(label, " — ", " - ")
	parts := strings.Split(label, " - ")

	var artist, title string
	if len(parts) >= 2 {
		artist = parts[0]
		title = strings.Join(parts[1:], " - ")
	} else {
		title = parts[0]
	}

	title = parenAnnotation.ReplaceAllString(title, "")
	title = bracketAnnotation.ReplaceAllString(title, "")
	return NewTrack(artist, title)
}

// Key is the raw cache identity of the track.
func (t *Track) Key() string {
	return fmt.Sprintf("%s-%s", t.Artist, t.Title)
}

// Metadata returns a consistent copy of the discovered metadata.
func (t *Track) Metadata() Metadata {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m := t.meta
	m.Dances = append([]string{}, t.meta.Dances...)
	return m
}

// Apply writes the fields set in the patch. Each call is atomic; concurrent callers
// overwrite each other field by field, last writer wins.
func (t *Track) Apply(patch MetadataPatch) {
	if patch.IsEmpty() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if patch.Album != nil {
		t.meta.Album = *patch.Album
	}
	if patch.Year != nil {
		t.meta.Year = *patch.Year
	}
	if patch.Genre != nil {
		t.meta.Genre = *patch.Genre
	}
	if patch.CyclesPerMinute != nil {
		t.meta.CyclesPerMinute = *patch.CyclesPerMinute
	}
	if patch.BeatsPerMinute != nil {
		t.meta.BeatsPerMinute = *patch.BeatsPerMinute
	}
	if len(patch.Dances) > 0 {
		t.meta.Dances = appendUnique(t.meta.Dances, patch.Dances...)
	}
}

// SetAlbum is a shorthand used by providers that only learn the album.
func (t *Track) SetAlbum(album string) {
	if strings.TrimSpace(album) == "" {
		return
	}
	t.Apply(MetadataPatch{Album: &album})
}

// SetYear is a shorthand used by providers that only learn the release year.
func (t *Track) SetYear(year int) {
	t.Apply(MetadataPatch{Year: &year})
}

func (t *Track) String() string {
	m := t.Metadata()
	return fmt.Sprintf("%s: %s (%d) \nGenre: %s\nAlbum: %s\nCycles per minute: %d\nBeats per minute: %d\nDances: %v\n",
		t.Artist, t.Title, m.Year, m.Genre, m.Album, m.CyclesPerMinute, m.BeatsPerMinute, m.Dances)
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		seen := false
		for _, d := range dst {
			if d == v {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, v)
		}
	}
	return dst
}
