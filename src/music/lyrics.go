package music

const (
	NotFoundLyrics  = "Error: Could not find lyrics."
	NotFoundService = "---"
)

// LyricsResult is what a provider returns for a track. Timed lyrics carry
// per-line timestamps (LRC); untimed lyrics are plain text.
type LyricsResult struct {
	Lyrics  string `json:"lyrics"`
	URL     string `json:"url"`
	Service string `json:"service"`
	Timed   bool   `json:"timed"`
}

// NotFound returns the result shown when no provider had lyrics for a track.
func NotFound() LyricsResult {
	return LyricsResult{
		Lyrics:  NotFoundLyrics,
		Service: NotFoundService,
	}
}

// Found reports whether the result came from a provider.
func (r LyricsResult) Found() bool {
	return r.Service != NotFoundService && r.Lyrics != ""
}

// Cursor indexes the concatenation of the synced and unsynced provider lists and
// points at the provider that produced the last accepted result.
type Cursor int

// CursorStart positions a scan before the first provider.
const CursorStart Cursor = -1
