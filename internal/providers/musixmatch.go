package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const (
	musixmatchBaseURL = "https://apic-desktop.musixmatch.com/ws/1.1"
	musixmatchAppID   = "web-desktop-app-v1.0"

	// tokens are issued anonymously and stay usable well beyond this
	musixmatchTokenTTL = 10 * time.Minute
)

type Musixmatch struct {
	baseURL string

	mu           sync.Mutex
	token        string
	tokenFetched time.Time
}

type musixmatchTokenResponse struct {
	Message struct {
		Header struct {
			StatusCode int `json:"status_code"`
		} `json:"header"`
		Body struct {
			UserToken string `json:"user_token"`
		} `json:"body"`
	} `json:"message"`
}

type musixmatchSearchResponse struct {
	Message struct {
		Body struct {
			TrackList []struct {
				Track struct {
					TrackID     int    `json:"track_id"`
					TrackName   string `json:"track_name"`
					HasSubtitle int    `json:"has_subtitles"`
				} `json:"track"`
			} `json:"track_list"`
		} `json:"body"`
	} `json:"message"`
}

type musixmatchSubtitleResponse struct {
	Message struct {
		Body struct {
			Subtitle struct {
				SubtitleBody string `json:"subtitle_body"`
			} `json:"subtitle"`
		} `json:"body"`
	} `json:"message"`
}

func NewMusixmatch() *Musixmatch {
	return &Musixmatch{baseURL: musixmatchBaseURL}
}

func (m *Musixmatch) Name() string { return "musixmatch" }

func (m *Musixmatch) Search(ctx context.Context, query string) (string, error) {
	token, err := m.getToken(ctx)
	if err != nil {
		return "", err
	}

	searchURL := m.baseURL + "/track.search?app_id=" + musixmatchAppID +
		"&usertoken=" + url.QueryEscape(token) +
		"&q=" + url.QueryEscape(query) +
		"&page_size=5&page=1&f_has_subtitle=1"

	var search musixmatchSearchResponse
	if err := fetchJSON(ctx, searchURL, &search); err != nil {
		return "", err
	}
	if len(search.Message.Body.TrackList) == 0 {
		return "", ErrNoLyrics
	}
	trackID := search.Message.Body.TrackList[0].Track.TrackID

	subtitleURL := m.baseURL + "/track.subtitle.get?app_id=" + musixmatchAppID +
		"&usertoken=" + url.QueryEscape(token) +
		"&track_id=" + strconv.Itoa(trackID)

	var subtitle musixmatchSubtitleResponse
	if err := fetchJSON(ctx, subtitleURL, &subtitle); err != nil {
		return "", err
	}
	if subtitle.Message.Body.Subtitle.SubtitleBody == "" {
		return "", ErrNoLyrics
	}
	return subtitle.Message.Body.Subtitle.SubtitleBody, nil
}

func (m *Musixmatch) getToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && time.Since(m.tokenFetched) < musixmatchTokenTTL {
		return m.token, nil
	}

	var resp musixmatchTokenResponse
	err := fetchJSON(ctx, m.baseURL+"/token.get?app_id="+musixmatchAppID, &resp)
	if err != nil {
		return "", err
	}
	if resp.Message.Header.StatusCode != 200 || resp.Message.Body.UserToken == "" {
		return "", fmt.Errorf("musixmatch token request refused (status %d)", resp.Message.Header.StatusCode)
	}

	m.token = resp.Message.Body.UserToken
	m.tokenFetched = time.Now()
	return m.token, nil
}
