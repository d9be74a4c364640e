package chords

import (
	"context"
	"html"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/contre95/soullyrics/src/infra/httpclient"
	"github.com/contre95/soullyrics/src/music"
)

func TestUltimateGuitarReadsStore(t *testing.T) {
	data := `{"store":{"page":{"data":{"results":[{"tab_url":"https://tabs/1"},{"tab_url":""},{"tab_url":"https://tabs/2"}]}}}}`
	var gotBand string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBand = r.URL.Query().Get("band_name")
		w.Write([]byte(`<html><div class="js-store" data-content="` + html.EscapeString(data) + `"></div></html>`))
	}))
	defer srv.Close()

	ug := NewUltimateGuitar(httpclient.New(time.Second, ""))
	ug.baseURL = srv.URL

	urls, err := ug.SearchChords(context.Background(), music.NewTrack("Beyoncé", "Halo"))
	if err != nil {
		t.Fatalf("SearchChords: %v", err)
	}
	if gotBand != "Beyonce" {
		t.Errorf("band_name = %q, want ASCII folded", gotBand)
	}
	if len(urls) != 2 || urls[0] != "https://tabs/1" || urls[1] != "https://tabs/2" {
		t.Errorf("urls = %v", urls)
	}
}

func TestUltimateGuitarNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<div class="js-store" data-content="{&quot;store&quot;:{&quot;page&quot;:{&quot;data&quot;:{}}}}"></div>`))
	}))
	defer srv.Close()

	ug := NewUltimateGuitar(httpclient.New(time.Second, ""))
	ug.baseURL = srv.URL

	urls, err := ug.SearchChords(context.Background(), music.NewTrack("a", "b"))
	if err != nil || len(urls) != 0 {
		t.Errorf("urls = %v, err = %v", urls, err)
	}
}

func TestCifraClub(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/joao-gilberto/garota-de-ipanema" {
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cc := NewCifraClub(httpclient.New(time.Second, ""))
	cc.baseURL = srv.URL
	ctx := context.Background()

	urls, err := cc.SearchChords(ctx, music.NewTrack("João Gilberto", "Garota de Ipanema"))
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 || urls[0] != srv.URL+"/joao-gilberto/garota-de-ipanema" {
		t.Errorf("urls = %v", urls)
	}

	urls, err = cc.SearchChords(ctx, music.NewTrack("Nobody", "Nothing"))
	if err != nil || len(urls) != 0 {
		t.Errorf("missing page: urls = %v, err = %v", urls, err)
	}
}

func TestSongsterrBuildsLink(t *testing.T) {
	urls, err := NewSongsterr().SearchChords(context.Background(), music.NewTrack("Motörhead", "Ace of Spades"))
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 || !strings.HasSuffix(urls[0], "/a/wa/bestMatchForQueryString?a=Motorhead&s=Ace+of+Spades") {
		t.Errorf("urls = %v", urls)
	}
}
