// Package probe reports what a desktop media player is playing.
package probe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"
	mprisServiceBase = "org.mpris.MediaPlayer2."
)

// MPRIS reads the current track of a player over the D-Bus session bus.
type MPRIS struct {
	player string

	mu  sync.Mutex
	bus *dbus.Conn
}

// NewMPRIS creates a probe for the player with the given MPRIS name, like "spotify".
// The bus connection is opened on first use.
func NewMPRIS(player string) *MPRIS {
	return &MPRIS{player: player}
}

func (m *MPRIS) Name() string { return "mpris:" + m.player }

// CurrentTrackLabel returns "Artist - Title", or an empty label when the player
// is not running.
func (m *MPRIS) CurrentTrackLabel(ctx context.Context) (string, error) {
	bus, err := m.conn()
	if err != nil {
		return "", err
	}

	obj := bus.Object(mprisServiceBase+m.player, mprisPath)
	var prop dbus.Variant
	err = obj.CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, mprisPlayerIface, "Metadata").Store(&prop)
	if err != nil {
		if serviceUnknown(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get metadata property: %w", err)
	}

	metadata, ok := prop.Value().(map[string]dbus.Variant)
	if !ok {
		return "", fmt.Errorf("unexpected metadata type %T", prop.Value())
	}
	return labelFromMetadata(metadata), nil
}

// Close releases the bus connection.
func (m *MPRIS) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bus == nil {
		return nil
	}
	err := m.bus.Close()
	m.bus = nil
	return err
}

func (m *MPRIS) conn() (*dbus.Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bus != nil && m.bus.Connected() {
		return m.bus, nil
	}
	bus, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	m.bus = bus
	return bus, nil
}

// serviceUnknown reports whether the bus has no owner for the player name, which
// is how a closed player shows up.
func serviceUnknown(err error) bool {
	const name = "org.freedesktop.DBus.Error.ServiceUnknown"
	var value dbus.Error
	if errors.As(err, &value) {
		return value.Name == name
	}
	var ptr *dbus.Error
	return errors.As(err, &ptr) && ptr.Name == name
}

func labelFromMetadata(metadata map[string]dbus.Variant) string {
	title := variantString(metadata["xesam:title"])
	var artist string
	switch v := metadata["xesam:artist"].Value().(type) {
	case []string:
		artist = strings.Join(v, ", ")
	case string:
		artist = v
	}
	return joinLabel(artist, title)
}

// joinLabel formats a player label the way window titles show it.
func joinLabel(artist, title string) string {
	switch {
	case title == "":
		return ""
	case artist == "":
		return title
	}
	return artist + " - " + title
}

func variantString(v dbus.Variant) string {
	s, _ := v.Value().(string)
	return s
}
