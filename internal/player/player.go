package player

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"karolbroda.com/lyrisync/internal/track"
)

const (
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"
)

// Service reads track metadata and playback position from an MPRIS
// player over the session bus. It is poll driven: callers ask for the
// current state on their own cadence instead of subscribing to bus
// signals.
type Service struct {
	bus     *dbus.Conn
	service string
}

func NewService(bus *dbus.Conn, mprisService string) (*Service, error) {
	if bus == nil {
		return nil, errors.New("nil dbus connection")
	}
	if mprisService == "" {
		return nil, errors.New("empty mpris service name")
	}
	return &Service{bus: bus, service: mprisService}, nil
}

// CurrentTrack reads the player's Metadata property. Durations arrive
// in microseconds on the bus and are converted to milliseconds here.
func (s *Service) CurrentTrack() (*track.Info, error) {
	obj := s.bus.Object(s.service, mprisPath)

	prop, err := obj.GetProperty(mprisPlayerIface + ".Metadata")
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata property: %w", err)
	}

	metadata, ok := prop.Value().(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("unexpected metadata type %T", prop.Value())
	}

	info := &track.Info{
		Title:      extractString(metadata, "xesam:title"),
		Artist:     extractArtist(metadata, "xesam:artist"),
		ArtworkURL: extractString(metadata, "mpris:artUrl"),
		DurationMs: extractDurationMs(metadata, "mpris:length"),
	}

	if !info.Valid() {
		return nil, fmt.Errorf("missing title in metadata (artist=%q)", info.Artist)
	}

	return info, nil
}

// PositionMs reads the playback position in milliseconds.
func (s *Service) PositionMs() (int64, error) {
	obj := s.bus.Object(s.service, mprisPath)

	prop, err := obj.GetProperty(mprisPlayerIface + ".Position")
	if err != nil {
		return 0, fmt.Errorf("failed to get position property: %w", err)
	}

	positionMicroseconds, ok := prop.Value().(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected position type %T", prop.Value())
	}
	if positionMicroseconds < 0 {
		return 0, nil
	}

	return positionMicroseconds / 1_000, nil
}

// Playing reads the PlaybackStatus property.
func (s *Service) Playing() (bool, error) {
	obj := s.bus.Object(s.service, mprisPath)

	prop, err := obj.GetProperty(mprisPlayerIface + ".PlaybackStatus")
	if err != nil {
		return false, fmt.Errorf("failed to get playback status: %w", err)
	}

	status, ok := prop.Value().(string)
	if !ok {
		return false, fmt.Errorf("unexpected playback status type %T", prop.Value())
	}

	return status == "Playing", nil
}

func extractString(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	text, ok := variant.Value().(string)
	if !ok {
		return ""
	}
	return text
}

func extractArtist(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	switch typed := variant.Value().(type) {
	case []string:
		if len(typed) > 0 {
			return typed[0]
		}
		return ""
	case string:
		return typed
	default:
		return ""
	}
}

func extractDurationMs(metadata map[string]dbus.Variant, key string) int64 {
	variant, exists := metadata[key]
	if !exists {
		return 0
	}

	switch typed := variant.Value().(type) {
	case int64:
		if typed <= 0 {
			return 0
		}
		return typed / 1_000
	case uint64:
		return int64(typed / 1_000)
	default:
		return 0
	}
}
