package chords

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/contre95/soullyrics/src/music"
	"github.com/gofiber/fiber/v2"
)

type fakeSource struct {
	name   string
	urls   []string
	err    error
	panics bool
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) SearchChords(context.Context, *music.Track) ([]string, error) {
	if f.panics {
		panic("broken page")
	}
	return f.urls, f.err
}

type fakeReporter struct {
	sources []string
}

func (f *fakeReporter) Report(_ context.Context, source string, _ error) {
	f.sources = append(f.sources, source)
}

func TestSearchConcatenatesInOrder(t *testing.T) {
	reporter := &fakeReporter{}
	svc := NewService(reporter,
		&fakeSource{name: "a", urls: []string{"u1", "u2"}},
		&fakeSource{name: "b", err: errors.New("layout changed")},
		&fakeSource{name: "c", panics: true},
		&fakeSource{name: "d", urls: []string{"u3"}},
	)

	urls := svc.Search(context.Background(), music.NewTrack("x", "y"))
	want := []string{"u1", "u2", "u3"}
	if len(urls) != len(want) {
		t.Fatalf("urls = %v, want %v", urls, want)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
	if len(reporter.sources) != 2 || reporter.sources[0] != "b" || reporter.sources[1] != "c" {
		t.Errorf("reported = %v", reporter.sources)
	}
	if names := svc.Sources(); len(names) != 4 || names[3] != "d" {
		t.Errorf("sources = %v", names)
	}
}

func TestGetChordsHandler(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, NewHandler(NewService(nil, &fakeSource{name: "a", urls: []string{"https://tabs/1"}})))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/chords?track=Queen%20-%20Bohemian%20Rhapsody", nil))
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Artist string   `json:"artist"`
		URLs   []string `json:"urls"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Artist != "Queen" || len(body.URLs) != 1 {
		t.Errorf("body = %+v", body)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/chords", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
