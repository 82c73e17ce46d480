package providers

import (
	"context"
	"encoding/base64"
	"net/url"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

const (
	kugouSearchBaseURL = "http://msearchcdn.kugou.com/api/v3"
	kugouLyricsBaseURL = "http://lyrics.kugou.com"
)

type Kugou struct {
	searchBaseURL string
	lyricsBaseURL string
}

type kugouSongSearchResponse struct {
	Data struct {
		Info []struct {
			Hash       string `json:"hash"`
			SongName   string `json:"songname"`
			SingerName string `json:"singername"`
		} `json:"info"`
	} `json:"data"`
}

type kugouLyricsSearchResponse struct {
	Candidates []struct {
		ID        string `json:"id"`
		AccessKey string `json:"accesskey"`
	} `json:"candidates"`
}

type kugouLyricsDownloadResponse struct {
	Content string `json:"content"`
}

func NewKugou() *Kugou {
	return &Kugou{
		searchBaseURL: kugouSearchBaseURL,
		lyricsBaseURL: kugouLyricsBaseURL,
	}
}

func (k *Kugou) Name() string { return "kugou" }

func (k *Kugou) Search(ctx context.Context, query string) (string, error) {
	var search kugouSongSearchResponse
	err := fetchJSON(ctx, k.searchBaseURL+"/search/song?keyword="+url.QueryEscape(query), &search)
	if err != nil {
		return "", err
	}
	if len(search.Data.Info) == 0 {
		return "", ErrNoLyrics
	}
	hash := search.Data.Info[0].Hash

	var candidates kugouLyricsSearchResponse
	err = fetchJSON(ctx, k.lyricsBaseURL+"/search?ver=1&man=yes&client=pc&hash="+url.QueryEscape(hash), &candidates)
	if err != nil {
		return "", err
	}
	if len(candidates.Candidates) == 0 {
		return "", ErrNoLyrics
	}
	best := candidates.Candidates[0]

	downloadURL := k.lyricsBaseURL + "/download?ver=1&client=pc&fmt=lrc&charset=utf8" +
		"&id=" + url.QueryEscape(best.ID) + "&accesskey=" + url.QueryEscape(best.AccessKey)

	var download kugouLyricsDownloadResponse
	if err := fetchJSON(ctx, downloadURL, &download); err != nil {
		return "", err
	}
	if download.Content == "" {
		return "", ErrNoLyrics
	}

	raw, err := base64.StdEncoding.DecodeString(download.Content)
	if err != nil {
		return "", err
	}

	// charset=utf8 is advisory only; some entries still come back GBK
	if !utf8.Valid(raw) {
		decoded, _, convErr := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), raw)
		if convErr == nil {
			raw = decoded
		}
	}
	if len(raw) == 0 {
		return "", ErrNoLyrics
	}
	return string(raw), nil
}
