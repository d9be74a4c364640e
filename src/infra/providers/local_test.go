package providers

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/contre95/soullyrics/src/music"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLocalProvider(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"Queen - Bohemian Rhapsody.lrc": "[00:01.00] Is this the real life",
		"adele - hello.txt":             "Hello, it's me",
		"ACDC - Thunderstruck.txt":      "Thunder",
		"beyonce - halo.txt":            "Remember those walls I built",
		"notes.md":                      "queen bohemian rhapsody",
	})
	p := NewLocalProvider(dir)

	tests := []struct {
		artist, title string
		lyrics        string
		timed         bool
	}{
		{"Queen", "Bohemian Rhapsody", "[00:01.00] Is this the real life", true},
		{"Adele", "Hello", "Hello, it's me", false},
		{"AC/DC", "Thunderstruck", "Thunder", false},
		{"Beyoncé", "Halo", "Remember those walls I built", false},
	}
	for _, tt := range tests {
		res, err := p.SearchLyrics(context.Background(), music.NewTrack(tt.artist, tt.title))
		if err != nil {
			t.Errorf("%s - %s: %v", tt.artist, tt.title, err)
			continue
		}
		if res.Lyrics != tt.lyrics || res.Timed != tt.timed || res.Service != "Local" {
			t.Errorf("%s - %s: got %+v", tt.artist, tt.title, res)
		}
		if !strings.HasPrefix(res.URL, "file://") {
			t.Errorf("url = %q", res.URL)
		}
	}

	if _, err := p.SearchLyrics(context.Background(), music.NewTrack("Queen", "Radio Ga Ga")); !errors.Is(err, music.ErrNoLyrics) {
		t.Errorf("missing file err = %v, want ErrNoLyrics", err)
	}
}

// syncedMP3 is an ID3v2.3 tag with one UTF-8 SYLT frame in milliseconds.
func syncedMP3(text string, ms uint32) []byte {
	var body bytes.Buffer
	body.Write([]byte{0x03, 'e', 'n', 'g', 0x02, 0x01, 0x00})
	body.WriteString(text)
	body.WriteByte(0x00)
	binary.Write(&body, binary.BigEndian, ms)

	var frame bytes.Buffer
	frame.WriteString("SYLT")
	binary.Write(&frame, binary.BigEndian, uint32(body.Len()))
	frame.Write([]byte{0x00, 0x00})
	frame.Write(body.Bytes())

	size := frame.Len()
	var out bytes.Buffer
	out.WriteString("ID3")
	out.Write([]byte{0x03, 0x00, 0x00, 0x00, 0x00, byte(size >> 7 & 0x7f), byte(size & 0x7f)})
	out.Write(frame.Bytes())
	return out.Bytes()
}

func TestLocalProviderSyncedMP3(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"Queen - Bohemian Rhapsody.mp3": string(syncedMP3("Is this the real life?", 1500))})

	res, err := NewLocalProvider(dir).SearchLyrics(context.Background(), music.NewTrack("Queen", "Bohemian Rhapsody"))
	if err != nil {
		t.Fatalf("SearchLyrics: %v", err)
	}
	if !res.Timed || res.Lyrics != "[00:01.50]Is this the real life?" {
		t.Errorf("got %+v", res)
	}
}

func TestLocalProviderMissingDir(t *testing.T) {
	p := NewLocalProvider(filepath.Join(t.TempDir(), "absent"))
	if _, err := p.SearchLyrics(context.Background(), music.NewTrack("a", "b")); !errors.Is(err, music.ErrNoLyrics) {
		t.Errorf("err = %v, want ErrNoLyrics", err)
	}
}

func TestLocalProviderWatchPicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	p := NewLocalProvider(dir)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := p.Watch(ctx); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	track := music.NewTrack("Daft Punk", "Around the World")
	if _, err := p.SearchLyrics(ctx, track); !errors.Is(err, music.ErrNoLyrics) {
		t.Fatalf("err = %v, want ErrNoLyrics", err)
	}

	writeFiles(t, dir, map[string]string{"daft punk - around the world.txt": "Around the world"})

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if res, err := p.SearchLyrics(ctx, track); err == nil && res.Lyrics == "Around the world" {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("new lyrics file never became visible")
}
