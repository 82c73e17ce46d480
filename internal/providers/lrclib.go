package providers

import (
	"context"
	"net/url"
)

const lrclibBaseURL = "https://lrclib.net/api"

type Lrclib struct {
	baseURL string
}

type lrclibTrack struct {
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

func NewLrclib() *Lrclib {
	return &Lrclib{baseURL: lrclibBaseURL}
}

func (l *Lrclib) Name() string { return "lrclib" }

func (l *Lrclib) Search(ctx context.Context, query string) (string, error) {
	var results []lrclibTrack
	err := fetchJSON(ctx, l.baseURL+"/search?q="+url.QueryEscape(query), &results)
	if err != nil {
		return "", err
	}

	// synced lyrics beat plain text regardless of result order
	for _, t := range results {
		if t.SyncedLyrics != "" {
			return t.SyncedLyrics, nil
		}
	}
	for _, t := range results {
		if t.PlainLyrics != "" {
			return t.PlainLyrics, nil
		}
	}
	return "", ErrNoLyrics
}
