package nowplaying

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/contre95/soullyrics/src/features/metrics"
	"github.com/contre95/soullyrics/src/music"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// scriptedProbe returns the queued labels in order, then repeats the last one.
type scriptedProbe struct {
	mu     sync.Mutex
	labels []string
	errs   []error
}

func (p *scriptedProbe) Name() string { return "scripted" }

func (p *scriptedProbe) CurrentTrackLabel(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	label, err := p.labels[0], p.errs[0]
	if len(p.labels) > 1 {
		p.labels, p.errs = p.labels[1:], p.errs[1:]
	}
	return label, err
}

func script(labels ...string) *scriptedProbe {
	return &scriptedProbe{labels: labels, errs: make([]error, len(labels))}
}

func TestPollReportsChanges(t *testing.T) {
	probe := script("Spotify", "Queen - Bohemian Rhapsody", "Queen - Bohemian Rhapsody", "Advertisement", "", "Queen - Bohemian Rhapsody", "Adele - Hello (Live)")
	m := metrics.New(prometheus.NewRegistry())
	w := NewWatcher(probe, "spotify", time.Millisecond, m)

	var seen []string
	w.OnTrack(func(_ context.Context, tr *music.Track) { seen = append(seen, tr.Key()) })

	ctx := context.Background()
	for i := 0; i < 7; i++ {
		w.Poll(ctx)
	}

	want := []string{"Queen-Bohemian Rhapsody", "Adele-Hello"}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %q, want %q", i, seen[i], want[i])
		}
	}
	if cur := w.Current(); cur == nil || cur.Artist != "Adele" {
		t.Errorf("current = %v", cur)
	}
	if got := testutil.ToFloat64(m.TracksSeen); got != 2 {
		t.Errorf("tracks seen = %v, want 2", got)
	}
}

func TestPollIgnoresProbeErrors(t *testing.T) {
	probe := &scriptedProbe{labels: []string{""}, errs: []error{errors.New("no bus")}}
	w := NewWatcher(probe, "vlc", 0, nil)

	if w.Poll(context.Background()) {
		t.Error("poll accepted a track from a failing probe")
	}
	if w.Current() != nil {
		t.Error("current should stay nil")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	w := NewWatcher(script("A - B"), "spotify", time.Millisecond, nil)
	got := make(chan *music.Track, 1)
	w.OnTrack(func(_ context.Context, tr *music.Track) { got <- tr })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case tr := <-got:
		if tr.Title != "B" {
			t.Errorf("title = %q", tr.Title)
		}
	case <-time.After(time.Second):
		t.Fatal("no track reported")
	}
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestNowPlayingHandler(t *testing.T) {
	w := NewWatcher(script("Adele - Hello"), "spotify", time.Second, nil)
	app := fiber.New()
	RegisterRoutes(app, NewHandler(w))

	decode := func() map[string]any {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/nowplaying", nil))
		if err != nil {
			t.Fatal(err)
		}
		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		return body
	}

	if body := decode(); body["playing"] != false {
		t.Errorf("before poll: %v", body)
	}
	w.Poll(context.Background())
	if body := decode(); body["playing"] != true || body["title"] != "Hello" {
		t.Errorf("after poll: %v", body)
	}
}
