package lyrics

import (
	"time"

	"github.com/contre95/soullyrics/src/music"
)

// Entry is what the result cache persists for a track.
type Entry struct {
	Result music.LyricsResult
	Cursor music.Cursor
}

// Store is the durable key-value store behind the result cache. Any error it
// returns is treated as corruption of the backing store.
type Store interface {
	Get(key string) (Entry, bool, error)
	Set(key string, entry Entry, ttl time.Duration) error
	// Recreate drops every entry and reinitializes the backing store.
	Recreate() error
}
