package providers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/contre95/soullyrics/src/infra/tag"
	"github.com/contre95/soullyrics/src/infra/watcher"
	"github.com/contre95/soullyrics/src/music"
	"github.com/gosimple/unidecode"
)

var lyricsExtensions = []string{".txt", ".lrc"}

// LocalProvider looks up lyrics files in a directory on disk. A file matches when
// its lower-cased name contains both the sanitized title and artist.
type LocalProvider struct {
	dir    string
	reader *tag.TagReader

	mu       sync.RWMutex
	index    []string
	indexed  bool
	watching bool
}

// NewLocalProvider creates a local provider over dir.
func NewLocalProvider(dir string) *LocalProvider {
	return &LocalProvider{dir: dir, reader: tag.NewTagReader()}
}

func (p *LocalProvider) Name() string { return "Local" }

// Watch keeps the directory index up to date until ctx is cancelled. Without a
// running watch the directory is listed on every lookup.
func (p *LocalProvider) Watch(ctx context.Context) error {
	events := make(chan watcher.FileEvent, 16)
	w, err := watcher.NewWatcher(events, append(append([]string{}, lyricsExtensions...), tag.AudioExtensions...), 0)
	if err != nil {
		return fmt.Errorf("failed to create lyrics directory watcher: %w", err)
	}
	if err := w.Start(ctx, p.dir); err != nil {
		return fmt.Errorf("failed to watch lyrics directory %s: %w", p.dir, err)
	}

	p.mu.Lock()
	p.watching = true
	p.indexed = false
	p.mu.Unlock()

	go func() {
		defer w.Stop()
		for {
			select {
			case ev := <-events:
				slog.Debug("Lyrics directory changed, invalidating index", "path", ev.Path, "type", ev.EventType)
				p.invalidate()
			case <-ctx.Done():
				p.mu.Lock()
				p.watching = false
				p.indexed = false
				p.mu.Unlock()
				return
			}
		}
	}()
	return nil
}

func (p *LocalProvider) invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.indexed = false
}

// files returns the candidate files in stable order.
func (p *LocalProvider) files() ([]string, error) {
	p.mu.RLock()
	if p.watching && p.indexed {
		files := p.index
		p.mu.RUnlock()
		return files, nil
	}
	p.mu.RUnlock()

	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if isLyricsFile(name) || tag.IsAudioFile(name) {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	p.mu.Lock()
	if p.watching {
		p.index = files
		p.indexed = true
	}
	p.mu.Unlock()
	return files, nil
}

func (p *LocalProvider) SearchLyrics(ctx context.Context, track *music.Track) (*music.LyricsResult, error) {
	if p.dir == "" {
		return nil, music.ErrNoLyrics
	}
	if info, err := os.Stat(p.dir); err != nil || !info.IsDir() {
		return nil, music.ErrNoLyrics
	}

	files, err := p.files()
	if err != nil {
		return nil, fmt.Errorf("failed to list lyrics directory: %w", err)
	}

	title := sanitizeFilename(strings.ToLower(track.Title))
	artist := sanitizeFilename(strings.ToLower(track.Artist))
	folded := [2]string{strings.ToLower(unidecode.Unidecode(title)), strings.ToLower(unidecode.Unidecode(artist))}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		base := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
		if !(strings.Contains(base, title) && strings.Contains(base, artist)) {
			ascii := strings.ToLower(unidecode.Unidecode(base))
			if !(strings.Contains(ascii, folded[0]) && strings.Contains(ascii, folded[1])) {
				continue
			}
		}

		path := filepath.Join(p.dir, name)
		result, err := p.read(path)
		if err != nil {
			slog.Warn("Failed to read local lyrics file", "path", path, "error", err)
			continue
		}
		if result != nil {
			return result, nil
		}
	}
	return nil, music.ErrNoLyrics
}

func (p *LocalProvider) read(path string) (*music.LyricsResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	url := "file://" + filepath.ToSlash(abs)

	if tag.IsAudioFile(path) {
		if strings.EqualFold(filepath.Ext(path), ".mp3") {
			synced, err := p.reader.ReadSyncedLyrics(path)
			if err != nil {
				slog.Debug("No readable synchronised lyrics", "path", path, "error", err)
			}
			if synced != "" {
				return &music.LyricsResult{Lyrics: synced, URL: url, Service: p.Name(), Timed: true}, nil
			}
		}
		lyrics, err := p.reader.ReadLyrics(path)
		if err != nil || lyrics == "" {
			return nil, err
		}
		return &music.LyricsResult{Lyrics: lyrics, URL: url, Service: p.Name(), Timed: false}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &music.LyricsResult{
		Lyrics:  string(data),
		URL:     url,
		Service: p.Name(),
		Timed:   strings.EqualFold(filepath.Ext(path), ".lrc"),
	}, nil
}

func isLyricsFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range lyricsExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// sanitizeFilename drops characters that cannot appear in file names on common
// platforms, so a title like "AC/DC" can match "acdc - thunderstruck.lrc".
func sanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20 || r == 0x7f:
			return -1
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return -1
		}
		return r
	}, name)
	return strings.TrimRight(strings.TrimSpace(name), ". ")
}
