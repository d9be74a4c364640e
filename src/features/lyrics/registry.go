package lyrics

import (
	"log/slog"
	"sync"

	"github.com/contre95/soullyrics/src/music"
)

// Registry holds the two ordered provider lists the engine scans. The local
// provider is inserted at the front of a list the first time a resolution with
// that sync preference runs.
type Registry struct {
	mu       sync.RWMutex
	synced   []music.LyricsProvider
	unsynced []music.LyricsProvider

	local        music.LyricsProvider
	syncedOnce   sync.Once
	unsyncedOnce sync.Once
}

// NewRegistry creates a registry. local may be nil when no lyrics directory is configured.
func NewRegistry(local music.LyricsProvider, synced, unsynced []music.LyricsProvider) *Registry {
	return &Registry{
		local:    local,
		synced:   append([]music.LyricsProvider(nil), synced...),
		unsynced: append([]music.LyricsProvider(nil), unsynced...),
	}
}

// EnsureLocal prepends the local provider to the list matching wantSync. It is a
// no-op after the first call for each list.
func (r *Registry) EnsureLocal(wantSync bool) {
	if r.local == nil {
		return
	}
	once, list, name := &r.unsyncedOnce, &r.unsynced, "unsynced"
	if wantSync {
		once, list, name = &r.syncedOnce, &r.synced, "synced"
	}
	once.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		*list = append([]music.LyricsProvider{r.local}, *list...)
		slog.Debug("Local lyrics provider registered", "list", name, "provider", r.local.Name())
	})
}

// Synced returns a snapshot of the synced-capable providers in scan order.
func (r *Registry) Synced() []music.LyricsProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]music.LyricsProvider(nil), r.synced...)
}

// Unsynced returns a snapshot of the plain-text providers in scan order.
func (r *Registry) Unsynced() []music.LyricsProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]music.LyricsProvider(nil), r.unsynced...)
}

// Len is the length of the logical concatenation of both lists.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.synced) + len(r.unsynced)
}

// Names lists provider names of both lists, synced first.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.synced)+len(r.unsynced))
	for _, p := range r.synced {
		names = append(names, p.Name())
	}
	for _, p := range r.unsynced {
		names = append(names, p.Name())
	}
	return names
}
