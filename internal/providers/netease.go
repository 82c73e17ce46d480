package providers

import (
	"context"
	"net/url"
	"strconv"
)

const neteaseBaseURL = "https://music.163.com/api"

type Netease struct {
	baseURL string
}

type neteaseSearchResponse struct {
	Result struct {
		Songs []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"songs"`
	} `json:"result"`
}

type neteaseLyricResponse struct {
	Lrc struct {
		Lyric string `json:"lyric"`
	} `json:"lrc"`
}

func NewNetease() *Netease {
	return &Netease{baseURL: neteaseBaseURL}
}

func (n *Netease) Name() string { return "netease" }

func (n *Netease) Search(ctx context.Context, query string) (string, error) {
	searchURL := n.baseURL + "/search/get/web?limit=10&type=1&s=" + url.QueryEscape(query)

	var search neteaseSearchResponse
	err := fetchJSON(ctx, searchURL, &search, "Referer", "https://music.163.com")
	if err != nil {
		return "", err
	}
	if len(search.Result.Songs) == 0 {
		return "", ErrNoLyrics
	}

	lyricURL := n.baseURL + "/song/lyric?lv=1&id=" + strconv.Itoa(search.Result.Songs[0].ID)

	var lyric neteaseLyricResponse
	err = fetchJSON(ctx, lyricURL, &lyric, "Referer", "https://music.163.com")
	if err != nil {
		return "", err
	}
	if lyric.Lrc.Lyric == "" {
		return "", ErrNoLyrics
	}
	return lyric.Lrc.Lyric, nil
}
