package providers

import (
	"context"
	"html"
	"net/url"
	"regexp"
	"strings"
)

const megalobizBaseURL = "https://www.megalobiz.com"

var (
	megalobizDetailLinkPattern = regexp.MustCompile(`href="(/lrc/maker/[^"]+)"`)
	megalobizLyricsPattern     = regexp.MustCompile(`(?s)<span id="lrc_[0-9]+_lyrics"[^>]*>(.*?)</span>`)
	megalobizBreakPattern      = regexp.MustCompile(`(?i)<br\s*/?>`)
	megalobizTagPattern        = regexp.MustCompile(`<[^>]+>`)
)

// Megalobiz has no JSON API; both the search listing and the lyric
// detail page are scraped.
type Megalobiz struct {
	baseURL string
}

func NewMegalobiz() *Megalobiz {
	return &Megalobiz{baseURL: megalobizBaseURL}
}

func (m *Megalobiz) Name() string { return "megalobiz" }

func (m *Megalobiz) Search(ctx context.Context, query string) (string, error) {
	body, err := fetchBody(ctx, m.baseURL+"/search/all?qry="+url.QueryEscape(query))
	if err != nil {
		return "", err
	}

	link := megalobizDetailLinkPattern.FindSubmatch(body)
	if link == nil {
		return "", ErrNoLyrics
	}

	detail, err := fetchBody(ctx, m.baseURL+string(link[1]))
	if err != nil {
		return "", err
	}

	match := megalobizLyricsPattern.FindSubmatch(detail)
	if match == nil {
		return "", ErrNoLyrics
	}

	text := megalobizBreakPattern.ReplaceAllString(string(match[1]), "\n")
	text = megalobizTagPattern.ReplaceAllString(text, "")
	text = strings.TrimSpace(html.UnescapeString(text))
	if text == "" {
		return "", ErrNoLyrics
	}
	return text, nil
}
