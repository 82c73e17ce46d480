package lyrics

import "fmt"

// Line is one parsed lyric line. Untimed lines (plain-text lyrics) have
// Timed == false and sort ahead of everything else.
//
// Translation and Romanization start empty and are filled in place by
// the enrichment pass; the slice itself is never replaced during
// enrichment, only individual elements are patched.
type Line struct {
	TimestampMs  int64
	Timed        bool
	Text         string
	Member       string
	Translation  string
	Romanization string
}

// sortKey treats untimed lines as position zero.
func (l *Line) sortKey() int64 {
	if !l.Timed {
		return 0
	}
	return l.TimestampMs
}

// TimestampLabel renders the timestamp as MM:SS, or "" for untimed lines.
func (l *Line) TimestampLabel() string {
	if !l.Timed {
		return ""
	}
	total := l.TimestampMs / 1000
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// DisplayLine is the render-ready DTO handed to the display listener.
// It is derived fresh on every notification and never stored.
type DisplayLine struct {
	Text         string
	Color        string
	IsCurrent    bool
	Translation  string
	Romanization string
}
