package lyrics

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/contre95/soullyrics/src/features/metrics"
	"github.com/contre95/soullyrics/src/music"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestEngine(local music.LyricsProvider, synced, unsynced []music.LyricsProvider) (*Engine, *fakeReporter, *metrics.Metrics) {
	reporter := &fakeReporter{}
	m := metrics.New(nil)
	return NewEngine(NewRegistry(local, synced, unsynced), reporter, m, time.Second), reporter, m
}

func TestResolveEmptyRegistry(t *testing.T) {
	engine, _, _ := newTestEngine(nil, nil, nil)
	track := music.NewTrack("Nobody", "Nothing")

	for _, sync := range []bool{true, false} {
		out := engine.Resolve(context.Background(), track, sync, music.CursorStart)
		if out.Result.Service != music.NotFoundService {
			t.Errorf("sync=%v: service = %q, want %q", sync, out.Result.Service, music.NotFoundService)
		}
		if out.Result.Found() || out.Result.Lyrics != music.NotFoundLyrics || out.Result.URL != "" {
			t.Errorf("sync=%v: unexpected result %+v", sync, out.Result)
		}
	}
}

func TestResolveContinuation(t *testing.T) {
	p0, p1, p2 := miss("p0"), hit("p1", "first", false), hit("p2", "second", false)
	engine, _, _ := newTestEngine(nil, nil, []music.LyricsProvider{p0, p1, p2})
	track := music.NewTrack("A", "B")

	fresh := engine.Resolve(context.Background(), track, false, music.CursorStart)
	if fresh.Result.Service != "p1" || fresh.Cursor != 1 {
		t.Fatalf("fresh = %+v, want p1 at cursor 1", fresh)
	}

	next := engine.Resolve(context.Background(), track, false, fresh.Cursor)
	if next.Result.Service != "p2" || next.Cursor != 2 {
		t.Fatalf("next = %+v, want p2 at cursor 2", next)
	}
	if p0.Calls() != 1 || p1.Calls() != 1 || p2.Calls() != 1 {
		t.Errorf("continuation must only consider providers after the cursor, calls p0=%d p1=%d p2=%d", p0.Calls(), p1.Calls(), p2.Calls())
	}

	// Past the last provider the scan wraps to the start.
	wrapped := engine.Resolve(context.Background(), track, false, next.Cursor)
	if wrapped.Result.Service != "p1" || wrapped.Cursor != 1 {
		t.Errorf("wrapped = %+v, want p1 at cursor 1", wrapped)
	}
}

func TestResolvePrefersTimed(t *testing.T) {
	q0, q1 := hit("q0", "plain", false), hit("q1", "[00:01.00] timed", true)
	u0 := hit("u0", "unsynced", false)
	engine, _, _ := newTestEngine(nil, []music.LyricsProvider{q0, q1}, []music.LyricsProvider{u0})

	out := engine.Resolve(context.Background(), music.NewTrack("A", "B"), true, music.CursorStart)
	if out.Result.Service != "q1" || !out.Result.Timed {
		t.Fatalf("got %+v, want timed q1", out.Result)
	}
	if out.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", out.Cursor)
	}
	if u0.Calls() != 0 {
		t.Error("unsynced providers must not run after a timed hit")
	}
}

func TestResolveTimedStopsScan(t *testing.T) {
	q0, q1 := hit("q0", "[00:01.00] timed", true), hit("q1", "[00:01.00] also timed", true)
	engine, _, _ := newTestEngine(nil, []music.LyricsProvider{q0, q1}, nil)

	out := engine.Resolve(context.Background(), music.NewTrack("A", "B"), true, music.CursorStart)
	if out.Result.Service != "q0" || out.Cursor != 0 {
		t.Fatalf("got %+v at %d, want q0 at 0", out.Result, out.Cursor)
	}
	if q1.Calls() != 0 {
		t.Error("scan must stop at the first timed hit")
	}
}

func TestResolvePhaseOneFallback(t *testing.T) {
	q0, q1 := hit("q0", "plain", false), miss("q1")
	u0 := hit("u0", "unsynced", false)
	engine, _, _ := newTestEngine(nil, []music.LyricsProvider{q0, q1}, []music.LyricsProvider{u0})

	out := engine.Resolve(context.Background(), music.NewTrack("A", "B"), true, music.CursorStart)
	if out.Result.Service != "q0" || out.Result.Timed {
		t.Fatalf("got %+v, want untimed q0", out.Result)
	}
	if out.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", out.Cursor)
	}
	if u0.Calls() != 0 {
		t.Error("phase 1 fallback must not trigger the unsynced scan")
	}
}

func TestResolvePhaseOneFallbackLastWins(t *testing.T) {
	q0, q1, q2 := hit("q0", "first plain", false), hit("q1", "second plain", false), miss("q2")
	engine, _, _ := newTestEngine(nil, []music.LyricsProvider{q0, q1, q2}, nil)

	out := engine.Resolve(context.Background(), music.NewTrack("A", "B"), true, music.CursorStart)
	if out.Result.Service != "q1" || out.Cursor != 1 {
		t.Errorf("got %+v at %d, want q1 at 1", out.Result, out.Cursor)
	}
}

func TestResolveFallsThroughToUnsynced(t *testing.T) {
	q0 := miss("q0")
	u0 := &fakeProvider{name: "u0", result: &music.LyricsResult{
		Lyrics:  "  Rock &amp; Roll `n` Soul &quot;live&quot;\n",
		Service: "u0",
		Timed:   true,
	}}
	engine, _, _ := newTestEngine(nil, []music.LyricsProvider{q0}, []music.LyricsProvider{u0})

	out := engine.Resolve(context.Background(), music.NewTrack("A", "B"), true, music.CursorStart)
	want := `Rock & Roll 'n' Soul "live"`
	if out.Result.Lyrics != want {
		t.Errorf("lyrics = %q, want %q", out.Result.Lyrics, want)
	}
	if out.Result.Timed {
		t.Error("unsynced results are never timed")
	}
	if out.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", out.Cursor)
	}
}

func TestResolveContinuationAcrossLists(t *testing.T) {
	q0 := hit("q0", "[00:01.00] timed", true)
	u0, u1 := hit("u0", "one", false), hit("u1", "two", false)
	engine, _, _ := newTestEngine(nil, []music.LyricsProvider{q0}, []music.LyricsProvider{u0, u1})
	track := music.NewTrack("A", "B")
	ctx := context.Background()

	want := []struct {
		service string
		cursor  music.Cursor
	}{
		{"q0", 0},
		{"u0", 1},
		{"u1", 2},
		{"q0", 0},
	}

	cursor := music.CursorStart
	for i, w := range want {
		out := engine.Resolve(ctx, track, true, cursor)
		if out.Result.Service != w.service || out.Cursor != w.cursor {
			t.Fatalf("step %d: got %s at %d, want %s at %d", i, out.Result.Service, out.Cursor, w.service, w.cursor)
		}
		cursor = out.Cursor
	}
}

func TestResolveNotFoundKeepsCursor(t *testing.T) {
	engine, _, _ := newTestEngine(nil, nil, []music.LyricsProvider{hit("u0", "one", false), miss("u1"), miss("u2")})

	out := engine.Resolve(context.Background(), music.NewTrack("A", "B"), false, 0)
	if out.Result.Found() {
		t.Fatalf("expected not found, got %+v", out.Result)
	}
	if out.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", out.Cursor)
	}
}

func TestResolveContainsProviderFaults(t *testing.T) {
	transport := &url.Error{Op: "Get", URL: "https://lyrics.example", Err: errors.New("connection refused")}
	providers := []music.LyricsProvider{
		&fakeProvider{name: "panics", panics: true},
		failing("transport", transport),
		failing("broken", errors.New("unexpected page layout")),
		failing("empty", music.ErrNoLyrics),
		hit("good", "words", false),
	}
	engine, reporter, m := newTestEngine(nil, nil, providers)

	out := engine.Resolve(context.Background(), music.NewTrack("A", "B"), false, music.CursorStart)
	if out.Result.Service != "good" || out.Cursor != 4 {
		t.Fatalf("got %+v at %d, want good at 4", out.Result, out.Cursor)
	}

	sources := reporter.Sources()
	if len(sources) != 2 || sources[0] != "panics" || sources[1] != "broken" {
		t.Errorf("reported sources = %v, want [panics broken]", sources)
	}

	checks := map[[2]string]float64{
		{"panics", metrics.OutcomeError}:              1,
		{"transport", metrics.OutcomeTransportError}: 1,
		{"broken", metrics.OutcomeError}:              1,
		{"empty", metrics.OutcomeMiss}:                1,
		{"good", metrics.OutcomeHit}:                  1,
	}
	for labels, want := range checks {
		if got := testutil.ToFloat64(m.ProviderQueries.WithLabelValues(labels[0], labels[1])); got != want {
			t.Errorf("provider_queries{%s,%s} = %v, want %v", labels[0], labels[1], got, want)
		}
	}
}

func TestResolveProviderTimeout(t *testing.T) {
	slow := &fakeProvider{name: "slow", block: true}
	fast := hit("fast", "words", false)
	reporter := &fakeReporter{}
	engine := NewEngine(NewRegistry(nil, nil, []music.LyricsProvider{slow, fast}), reporter, nil, 20*time.Millisecond)

	done := make(chan Outcome, 1)
	go func() {
		done <- engine.Resolve(context.Background(), music.NewTrack("A", "B"), false, music.CursorStart)
	}()

	select {
	case out := <-done:
		if out.Result.Service != "fast" {
			t.Errorf("got %+v, want fast", out.Result)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("a hanging provider stalled the scan")
	}
	if len(reporter.Sources()) != 0 {
		t.Errorf("timeouts are transport faults, got reports %v", reporter.Sources())
	}
}

func TestResolveToleratesConcurrentMetadataWrites(t *testing.T) {
	track := music.NewTrack("A", "B")
	writer := &metadataWriter{name: "writer"}
	engine, _, _ := newTestEngine(nil, []music.LyricsProvider{writer}, []music.LyricsProvider{hit("u0", "words", false)})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			track.Apply(music.MetadataPatch{Dances: []string{"Cha Cha"}})
		}
	}()
	out := engine.Resolve(context.Background(), track, true, music.CursorStart)
	wg.Wait()

	if out.Result.Service != "u0" {
		t.Errorf("got %+v, want u0", out.Result)
	}
	if track.Metadata().Album != "Mid Scan" {
		t.Errorf("album = %q", track.Metadata().Album)
	}
}

// metadataWriter discovers metadata but no lyrics.
type metadataWriter struct{ name string }

func (m *metadataWriter) Name() string { return m.name }

func (m *metadataWriter) SearchLyrics(ctx context.Context, track *music.Track) (*music.LyricsResult, error) {
	track.SetAlbum("Mid Scan")
	return nil, nil
}
