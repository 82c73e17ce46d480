package viewmodel

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"karolbroda.com/lyrisync/internal/artwork"
	"karolbroda.com/lyrisync/internal/cache"
	"karolbroda.com/lyrisync/internal/config"
	"karolbroda.com/lyrisync/internal/fetcher"
	"karolbroda.com/lyrisync/internal/lyrics"
	"karolbroda.com/lyrisync/internal/track"
	"karolbroda.com/lyrisync/internal/translate"
)

// Listener receives pipeline updates. Calls arrive from whichever
// goroutine finished the work; the front-end marshals them onto its
// own loop.
type Listener interface {
	LyricsUpdated(lines []lyrics.DisplayLine)
	TrackUpdated(title, artist string)
	Loading(message string)
	SearchResults(results []fetcher.Candidate)
	SyncReset()
}

// TrackSource reports the currently playing track.
type TrackSource interface {
	CurrentTrack() (*track.Info, error)
}

// PositionSource reports the playback position in milliseconds.
type PositionSource interface {
	PositionMs() (int64, error)
}

// Settings exposes the one flag the pipeline reads.
type Settings interface {
	GetBool(key string, def bool) bool
}

const multiSourceKey = "multi_source_search"

// ViewModel owns the lyric state for the current track: the parsed
// lines, the highlighted index and the sync offset. All mutation goes
// through its mutex; listeners get value snapshots, never live slices.
type ViewModel struct {
	tracks     TrackSource
	positions  PositionSource
	settings   Settings
	fetcher    *fetcher.Fetcher
	parser     *lyrics.Parser
	store      *cache.Store
	translator *translate.Translator
	listener   Listener

	minimized atomic.Bool

	mu              sync.Mutex
	current         *track.Info
	lines           []lyrics.Line
	index           int
	offsetMs        int64
	palette         *artwork.Palette
	fetchGen        int
	translateCancel context.CancelFunc
}

func New(
	tracks TrackSource,
	positions PositionSource,
	settings Settings,
	f *fetcher.Fetcher,
	parser *lyrics.Parser,
	store *cache.Store,
	translator *translate.Translator,
	listener Listener,
) *ViewModel {
	return &ViewModel{
		tracks:     tracks,
		positions:  positions,
		settings:   settings,
		fetcher:    f,
		parser:     parser,
		store:      store,
		translator: translator,
		listener:   listener,
		index:      -1,
		palette:    artwork.DefaultPalette(),
	}
}

// Start launches the track and sync polling loops. Both exit when ctx
// is cancelled.
func (v *ViewModel) Start(ctx context.Context) {
	go v.pollLoop(ctx, v.CheckTrack, config.TrackPollInterval, config.TrackPollIntervalSlow)
	go v.pollLoop(ctx, v.Resync, config.SyncInterval, config.SyncIntervalSlow)
}

func (v *ViewModel) pollLoop(ctx context.Context, tick func(), fast, slow time.Duration) {
	for {
		interval := fast
		if v.minimized.Load() {
			interval = slow
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
			tick()
		}
	}
}

// SetMinimized switches both polling loops to their slow cadence.
func (v *ViewModel) SetMinimized(minimized bool) {
	v.minimized.Store(minimized)
}

// CheckTrack polls the track source and, on a change of identity,
// resets all lyric state and kicks off a background fetch. Results of
// an older fetch generation are discarded when they land.
func (v *ViewModel) CheckTrack() {
	trk, err := v.tracks.CurrentTrack()
	if err != nil || !trk.Valid() {
		return
	}

	v.mu.Lock()
	if trk.Same(v.current) {
		// same song, the duration may still firm up between polls
		if trk.DurationMs > 0 {
			v.current.DurationMs = trk.DurationMs
		}
		v.mu.Unlock()
		return
	}

	log.WithField("track", trk.String()).Info("track changed")

	v.current = trk
	v.lines = nil
	v.index = -1
	v.offsetMs = 0
	v.fetchGen++
	gen := v.fetchGen
	if v.translateCancel != nil {
		v.translateCancel()
		v.translateCancel = nil
	}
	v.mu.Unlock()

	v.listener.TrackUpdated(trk.Title, trk.Artist)
	v.listener.SyncReset()
	v.listener.Loading("searching lyrics...")

	go v.fetchLyrics(trk, gen)
	go v.refreshPalette(trk.ArtworkURL, gen)
}

func (v *ViewModel) fetchLyrics(trk *track.Info, gen int) {
	ctx := context.Background()

	var lrc string
	var found bool
	if v.settings.GetBool(multiSourceKey, false) {
		lrc, found = v.fetcher.FetchMultiSource(ctx, trk.Title, trk.Artist, trk.DurationMs)
	} else {
		lrc, found = v.fetcher.Fetch(ctx, trk.Title, trk.Artist, trk.DurationMs)
	}

	if !found {
		v.mu.Lock()
		stale := gen != v.fetchGen
		v.mu.Unlock()
		if !stale {
			v.listener.Loading("couldn't find lyrics, try a manual search")
		}
		return
	}

	v.setLyrics(lrc, gen, false)
}

// setLyrics parses and installs lyric text. A negative gen bypasses
// the staleness check (manual apply). writeThrough pushes the text
// into the cache for the current track.
func (v *ViewModel) setLyrics(lrc string, gen int, writeThrough bool) {
	parsed := v.parser.Parse(lrc)

	v.mu.Lock()
	if gen >= 0 && gen != v.fetchGen {
		v.mu.Unlock()
		log.Debug("discarding lyrics for a track no longer playing")
		return
	}
	v.lines = parsed
	v.index = -1
	gen = v.fetchGen
	trk := v.current
	display := v.displayLinesLocked()
	v.mu.Unlock()

	if writeThrough && trk != nil {
		if err := v.store.Put(trk.Title, trk.Artist, lrc); err != nil {
			log.WithError(err).Warn("could not persist applied lyrics")
		}
	}

	v.listener.LyricsUpdated(display)
	v.Resync()
	v.startTranslation(gen, parsed)
}

// ApplyLyrics installs manually chosen lyric text for the current
// track: index and offset reset, cache updated.
func (v *ViewModel) ApplyLyrics(lrc string) {
	v.mu.Lock()
	v.offsetMs = 0
	v.mu.Unlock()
	v.listener.SyncReset()
	v.setLyrics(lrc, -1, true)
}

// Resync recomputes the highlighted line from the live playback
// position and notifies the listener only when the index moved.
func (v *ViewModel) Resync() {
	v.mu.Lock()
	empty := len(v.lines) == 0
	v.mu.Unlock()
	if empty {
		return
	}

	pos, err := v.positions.PositionMs()
	if err != nil {
		return
	}

	v.mu.Lock()
	effective := pos - v.offsetMs

	// untimed lines never become current
	newIndex := -1
	for i, line := range v.lines {
		if !line.Timed {
			continue
		}
		if line.TimestampMs > effective {
			break
		}
		newIndex = i
	}

	if newIndex == v.index {
		v.mu.Unlock()
		return
	}
	v.index = newIndex
	display := v.displayLinesLocked()
	v.mu.Unlock()

	v.listener.LyricsUpdated(display)
}

// SetSyncOffset stores the offset and resyncs synchronously so offset
// keys feel instant. Positive values delay the lyrics.
func (v *ViewModel) SetSyncOffset(ms int64) {
	v.mu.Lock()
	v.offsetMs = ms
	v.mu.Unlock()
	v.Resync()
}

// AdjustSyncOffset nudges the offset and returns the new value.
func (v *ViewModel) AdjustSyncOffset(deltaMs int64) int64 {
	v.mu.Lock()
	v.offsetMs += deltaMs
	ms := v.offsetMs
	v.mu.Unlock()
	v.Resync()
	return ms
}

func (v *ViewModel) SyncOffset() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.offsetMs
}

// DoSearch races every provider for one raw query and hands the
// candidates to the listener.
func (v *ViewModel) DoSearch(query string) {
	go func() {
		v.listener.Loading("searching all providers...")
		results := v.fetcher.SearchCandidates(context.Background(), query, false)
		v.listener.SearchResults(results)
	}()
}

// SearchSuggestion derives a prefill for the manual search panel from
// the current track. Bracketed original-artist hints in cover titles
// rank first in query generation, so the top query is the suggestion.
func (v *ViewModel) SearchSuggestion() string {
	v.mu.Lock()
	trk := v.current
	v.mu.Unlock()
	if !trk.Valid() {
		return ""
	}
	queries := lyrics.GenerateQueries(trk.Title, trk.Artist)
	if len(queries) == 0 {
		return trk.Artist + " " + trk.Title
	}
	return queries[0]
}

// CurrentTrack returns a copy of the playing track, nil when none.
func (v *ViewModel) CurrentTrack() *track.Info {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return nil
	}
	trk := *v.current
	return &trk
}

// DisplayLines snapshots the render state.
func (v *ViewModel) DisplayLines() []lyrics.DisplayLine {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.displayLinesLocked()
}

func (v *ViewModel) displayLinesLocked() []lyrics.DisplayLine {
	display := make([]lyrics.DisplayLine, len(v.lines))
	for i, line := range v.lines {
		current := i == v.index || (v.index < 0 && i == 0)
		color := v.palette.Text
		if current {
			color = v.palette.Highlight
		}
		text := line.Text
		if line.Member != "" {
			text = line.Member + ": " + text
		}
		display[i] = lyrics.DisplayLine{
			Text:         text,
			Color:        color,
			IsCurrent:    current,
			Translation:  line.Translation,
			Romanization: line.Romanization,
		}
	}
	return display
}

// Palette returns the colors currently in use.
func (v *ViewModel) Palette() artwork.Palette {
	v.mu.Lock()
	defer v.mu.Unlock()
	return *v.palette
}

func (v *ViewModel) refreshPalette(artworkURL string, gen int) {
	palette := artwork.DefaultPalette()
	if artworkURL != "" {
		if img, err := artwork.Fetch(artworkURL); err == nil {
			palette = artwork.ExtractPalette(img)
		} else {
			log.WithError(err).Debug("artwork fetch failed, using default palette")
		}
	}

	v.mu.Lock()
	if gen != v.fetchGen {
		v.mu.Unlock()
		return
	}
	v.palette = palette
	display := v.displayLinesLocked()
	v.mu.Unlock()

	if len(display) > 0 {
		v.listener.LyricsUpdated(display)
	}
}

func (v *ViewModel) startTranslation(gen int, lines []lyrics.Line) {
	if v.translator == nil || !v.translator.ShouldTranslate(lines) {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	v.mu.Lock()
	if gen != v.fetchGen {
		v.mu.Unlock()
		cancel()
		return
	}
	if v.translateCancel != nil {
		v.translateCancel()
	}
	v.translateCancel = cancel
	v.mu.Unlock()

	work := slices.Clone(lines)
	go v.translator.Annotate(ctx, work, func() {
		v.mu.Lock()
		if gen != v.fetchGen || len(v.lines) != len(work) {
			v.mu.Unlock()
			return
		}
		for i := range v.lines {
			v.lines[i].Translation = work[i].Translation
		}
		display := v.displayLinesLocked()
		v.mu.Unlock()
		v.listener.LyricsUpdated(display)
	})
}
