package track

// Info describes the currently playing track as reported by the media
// session. Identity is (Title, Artist) only; DurationMs is metadata and
// may be refined between polls without the track counting as changed.
type Info struct {
	Title      string
	Artist     string
	DurationMs int64
	ArtworkURL string
}

func (t *Info) Valid() bool {
	if t == nil {
		return false
	}
	return t.Title != ""
}

func (t *Info) Same(other *Info) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Title == other.Title && t.Artist == other.Artist
}

func (t *Info) String() string {
	if t == nil {
		return "<none>"
	}
	if t.Artist == "" {
		return t.Title
	}
	return t.Title + " - " + t.Artist
}
