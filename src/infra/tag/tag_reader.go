package tag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// AudioExtensions are the containers embedded lyrics are read from.
var AudioExtensions = []string{".mp3", ".flac", ".m4a", ".ogg"}

// TagReader reads lyrics embedded in audio file tags.
type TagReader struct{}

// NewTagReader creates a new tag reader.
func NewTagReader() *TagReader {
	return &TagReader{}
}

// IsAudioFile reports whether path has one of AudioExtensions.
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range AudioExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ReadLyrics returns the unsynchronised lyrics stored in the file tags, or "" if
// there are none.
func (r *TagReader) ReadLyrics(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	tags, err := tag.ReadFrom(file)
	if err != nil {
		return "", fmt.Errorf("failed to read tags: %w", err)
	}

	if lyrics := strings.TrimSpace(tags.Lyrics()); lyrics != "" {
		return lyrics, nil
	}
	return strings.TrimSpace(r.readRawLyrics(tags)), nil
}

// readRawLyrics attempts to read lyrics from format specific tag fields
func (r *TagReader) readRawLyrics(tags tag.Metadata) string {
	rawTags := tags.Raw()
	if rawTags == nil {
		return ""
	}
	lyricFields := []string{"LYRICS", "UNSYNCEDLYRICS", "USLT", "USLT0", "USLT1", "Lyrics", "UnsyncedLyrics", "lyrics"}
	for _, field := range lyricFields {
		switch value := rawTags[field].(type) {
		case string:
			if value != "" {
				return value
			}
		case []byte:
			if len(value) > 0 {
				return string(value)
			}
		case *tag.Comm:
			if value != nil && value.Text != "" {
				return value.Text
			}
		}
	}
	return ""
}
