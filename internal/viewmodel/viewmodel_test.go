package viewmodel

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"karolbroda.com/lyrisync/internal/cache"
	"karolbroda.com/lyrisync/internal/config"
	"karolbroda.com/lyrisync/internal/fetcher"
	"karolbroda.com/lyrisync/internal/lyrics"
	"karolbroda.com/lyrisync/internal/providers"
	"karolbroda.com/lyrisync/internal/track"
)

type recordingListener struct {
	mu           sync.Mutex
	lyricUpdates [][]lyrics.DisplayLine
	trackUpdates []string
	loading      []string
	results      [][]fetcher.Candidate
	syncResets   int
}

func (l *recordingListener) LyricsUpdated(lines []lyrics.DisplayLine) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lyricUpdates = append(l.lyricUpdates, lines)
}

func (l *recordingListener) TrackUpdated(title, artist string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trackUpdates = append(l.trackUpdates, title+" - "+artist)
}

func (l *recordingListener) Loading(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = append(l.loading, message)
}

func (l *recordingListener) SearchResults(results []fetcher.Candidate) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, results)
}

func (l *recordingListener) SyncReset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.syncResets++
}

func (l *recordingListener) lastLyrics() []lyrics.DisplayLine {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.lyricUpdates) == 0 {
		return nil
	}
	return l.lyricUpdates[len(l.lyricUpdates)-1]
}

type stubTracks struct {
	mu   sync.Mutex
	info *track.Info
}

func (s *stubTracks) CurrentTrack() (*track.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trk := *s.info
	return &trk, nil
}

func (s *stubTracks) set(info *track.Info) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = info
}

type stubPosition struct {
	mu sync.Mutex
	ms int64
}

func (s *stubPosition) PositionMs() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ms, nil
}

func (s *stubPosition) set(ms int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ms = ms
}

type stubSettings struct{ multi bool }

func (s stubSettings) GetBool(_ string, def bool) bool {
	if s.multi {
		return true
	}
	return def
}

type silentProvider struct{}

func (silentProvider) Name() string { return "silent" }

func (silentProvider) Search(context.Context, string) (string, error) { return "", nil }

func newTestViewModel(t *testing.T, tracks *stubTracks, pos *stubPosition, listener Listener) *ViewModel {
	t.Helper()
	store := cache.Open(filepath.Join(t.TempDir(), "lyrics.json"))
	f := fetcher.New([]providers.Provider{silentProvider{}}, store, lyrics.NewValidator(0))
	return New(tracks, pos, stubSettings{}, f, lyrics.NewParser(), store, nil, listener)
}

const threeLines = "[00:00.00]first\n[00:01.00]second\n[00:02.00]third"

func TestResyncHighlightsLastStartedLine(t *testing.T) {
	listener := &recordingListener{}
	tracks := &stubTracks{info: &track.Info{Title: "Song", Artist: "Artist"}}
	pos := &stubPosition{}
	vm := newTestViewModel(t, tracks, pos, listener)

	vm.ApplyLyrics(threeLines)

	pos.set(1500)
	vm.Resync()

	display := listener.lastLyrics()
	if len(display) != 3 {
		t.Fatalf("got %d display lines, want 3", len(display))
	}
	if !display[1].IsCurrent {
		t.Error("line at 1000ms must be current at position 1500ms")
	}
	if display[0].IsCurrent || display[2].IsCurrent {
		t.Error("only one line may be current")
	}
	if display[1].Color == display[0].Color {
		t.Error("current line must use the highlight color")
	}
	if display[0].Color != config.DefaultTextColor {
		t.Errorf("inactive line color = %q, want default text color", display[0].Color)
	}
}

func TestResyncKeepsPlainLyricsOnFirstLine(t *testing.T) {
	listener := &recordingListener{}
	tracks := &stubTracks{info: &track.Info{Title: "Song", Artist: "Artist"}}
	pos := &stubPosition{}
	vm := newTestViewModel(t, tracks, pos, listener)

	vm.ApplyLyrics("first plain line\nsecond plain line\nthird plain line")

	pos.set(5000)
	vm.Resync()

	display := vm.DisplayLines()
	if len(display) != 3 {
		t.Fatalf("got %d display lines, want 3", len(display))
	}
	if !display[0].IsCurrent {
		t.Error("plain lyrics must keep the first line current")
	}
	for i := 1; i < len(display); i++ {
		if display[i].IsCurrent {
			t.Errorf("untimed line %d became current at position 5000ms", i)
		}
	}
}

func TestResyncNotifiesOnlyOnIndexChange(t *testing.T) {
	listener := &recordingListener{}
	tracks := &stubTracks{info: &track.Info{Title: "Song", Artist: "Artist"}}
	pos := &stubPosition{}
	vm := newTestViewModel(t, tracks, pos, listener)

	vm.ApplyLyrics(threeLines)
	pos.set(1100)
	vm.Resync()

	listener.mu.Lock()
	before := len(listener.lyricUpdates)
	listener.mu.Unlock()

	// same index, no new notification
	pos.set(1200)
	vm.Resync()
	pos.set(1900)
	vm.Resync()

	listener.mu.Lock()
	after := len(listener.lyricUpdates)
	listener.mu.Unlock()
	if after != before {
		t.Errorf("index unchanged but %d extra notifications went out", after-before)
	}
}

func TestSyncOffsetShiftsEffectivePosition(t *testing.T) {
	listener := &recordingListener{}
	tracks := &stubTracks{info: &track.Info{Title: "Song", Artist: "Artist"}}
	pos := &stubPosition{}
	vm := newTestViewModel(t, tracks, pos, listener)

	vm.ApplyLyrics(threeLines)
	pos.set(1200)
	vm.Resync()
	if display := listener.lastLyrics(); !display[1].IsCurrent {
		t.Fatal("expected second line current before offset")
	}

	// positive offset delays the lyrics: effective position drops to 200
	vm.SetSyncOffset(1000)
	if display := listener.lastLyrics(); !display[0].IsCurrent {
		t.Error("offset of +1000ms must pull the highlight back to the first line")
	}

	if got := vm.AdjustSyncOffset(-500); got != 500 {
		t.Errorf("AdjustSyncOffset = %d, want 500", got)
	}
}

func TestTrackChangeResetsState(t *testing.T) {
	listener := &recordingListener{}
	tracks := &stubTracks{info: &track.Info{Title: "First Song", Artist: "Artist"}}
	pos := &stubPosition{}
	vm := newTestViewModel(t, tracks, pos, listener)

	vm.CheckTrack()
	vm.ApplyLyrics(threeLines)
	vm.SetSyncOffset(750)

	tracks.set(&track.Info{Title: "Second Song", Artist: "Artist"})
	vm.CheckTrack()

	if got := vm.SyncOffset(); got != 0 {
		t.Errorf("sync offset after track change = %d, want 0", got)
	}
	if display := vm.DisplayLines(); len(display) != 0 {
		t.Errorf("lyrics survived a track change: %d lines", len(display))
	}

	listener.mu.Lock()
	updates := len(listener.trackUpdates)
	resets := listener.syncResets
	listener.mu.Unlock()
	if updates != 2 {
		t.Errorf("got %d track updates, want 2", updates)
	}
	if resets < 2 {
		t.Errorf("got %d sync resets, want at least 2", resets)
	}
}

func TestCheckTrackIgnoresSameTrack(t *testing.T) {
	listener := &recordingListener{}
	tracks := &stubTracks{info: &track.Info{Title: "Song", Artist: "Artist"}}
	pos := &stubPosition{}
	vm := newTestViewModel(t, tracks, pos, listener)

	vm.CheckTrack()
	vm.CheckTrack()
	vm.CheckTrack()

	listener.mu.Lock()
	updates := len(listener.trackUpdates)
	listener.mu.Unlock()
	if updates != 1 {
		t.Errorf("got %d track updates for one track, want 1", updates)
	}
}

func TestSearchSuggestionPrefersBracketArtist(t *testing.T) {
	listener := &recordingListener{}
	tracks := &stubTracks{info: &track.Info{
		Title:  "Enemy [Imagine Dragons] / NANA COVER",
		Artist: "SomeChannel",
	}}
	pos := &stubPosition{}
	vm := newTestViewModel(t, tracks, pos, listener)

	vm.CheckTrack()

	got := vm.SearchSuggestion()
	if got != "Imagine Dragons Enemy" {
		t.Errorf("SearchSuggestion() = %q, want the bracketed artist first", got)
	}
}

func TestApplyLyricsWritesThroughToCache(t *testing.T) {
	listener := &recordingListener{}
	tracks := &stubTracks{info: &track.Info{Title: "Song", Artist: "Artist"}}
	pos := &stubPosition{}

	store := cache.Open(filepath.Join(t.TempDir(), "lyrics.json"))
	f := fetcher.New([]providers.Provider{silentProvider{}}, store, lyrics.NewValidator(0))
	vm := New(tracks, pos, stubSettings{}, f, lyrics.NewParser(), store, nil, listener)

	vm.CheckTrack()
	vm.ApplyLyrics(threeLines)

	cached, ok := store.Get("Song", "Artist")
	if !ok {
		t.Fatal("applied lyrics never reached the cache")
	}
	if cached != threeLines {
		t.Errorf("cached %q, want the applied text", cached)
	}
}
