package lyrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/contre95/soullyrics/src/music"
)

// fakeProvider returns a fixed result and counts its calls.
type fakeProvider struct {
	name   string
	result *music.LyricsResult
	err    error
	panics bool
	block  bool

	mu    sync.Mutex
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) SearchLyrics(ctx context.Context, track *music.Track) (*music.LyricsResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.panics {
		panic("scraper exploded")
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.result == nil {
		return nil, f.err
	}
	r := *f.result
	return &r, f.err
}

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func miss(name string) *fakeProvider {
	return &fakeProvider{name: name}
}

func hit(name, lyrics string, timed bool) *fakeProvider {
	return &fakeProvider{name: name, result: &music.LyricsResult{
		Lyrics:  lyrics,
		URL:     "https://example.org/" + name,
		Service: name,
		Timed:   timed,
	}}
}

func failing(name string, err error) *fakeProvider {
	return &fakeProvider{name: name, err: err}
}

// fakeReporter records reported faults.
type fakeReporter struct {
	mu      sync.Mutex
	sources []string
}

func (r *fakeReporter) Report(ctx context.Context, source string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, source)
}

func (r *fakeReporter) Sources() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sources...)
}

var errStoreBroken = errors.New("database disk image is malformed")

// fakeStore is an in-memory Store that can be told to fail.
type fakeStore struct {
	mu        sync.Mutex
	entries   map[string]Entry
	ttls      map[string]time.Duration
	failGet   bool
	failSet   bool
	recreated int
	setCalls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]Entry{}, ttls: map[string]time.Duration{}}
}

func (s *fakeStore) Get(key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet {
		return Entry{}, false, errStoreBroken
	}
	e, ok := s.entries[key]
	return e, ok, nil
}

func (s *fakeStore) Set(key string, entry Entry, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls++
	if s.failSet {
		return errStoreBroken
	}
	s.entries[key] = entry
	s.ttls[key] = ttl
	return nil
}

func (s *fakeStore) Recreate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recreated++
	s.failGet = false
	s.failSet = false
	s.entries = map[string]Entry{}
	s.ttls = map[string]time.Duration{}
	return nil
}
