package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"karolbroda.com/lyrisync/internal/config"
)

var (
	// ErrNoLyrics marks an empty-but-successful search; callers treat
	// it the same as any other provider failure.
	ErrNoLyrics = errors.New("no lyrics found")
)

const userAgent = "lyrisync/1.0"

// Provider is one external lyrics-search backend. Search returns raw
// LRC (or plain) lyric text for the best match of the query.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) (string, error)
}

// Defaults returns the provider set in priority order; the fetcher
// uses this order to break ties among candidates of equal query rank.
func Defaults() []Provider {
	return []Provider{
		NewMusixmatch(),
		NewLrclib(),
		NewNetease(),
		NewKugou(),
		NewMegalobiz(),
	}
}

var (
	httpClient     *http.Client
	httpClientOnce sync.Once
)

func getHTTPClient() *http.Client {
	httpClientOnce.Do(func() {
		transport := &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   2 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     60 * time.Second,
			TLSHandshakeTimeout: 2 * time.Second,
		}
		httpClient = &http.Client{
			Transport: transport,
			Timeout:   config.HTTPTimeoutSeconds * time.Second,
		}
	})
	return httpClient
}

// fetchBody performs a GET and returns the raw body. Header pairs are
// passed as alternating key, value strings.
func fetchBody(ctx context.Context, requestURL string, headers ...string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build http request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := getHTTPClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

func fetchJSON(ctx context.Context, requestURL string, out any, headers ...string) error {
	body, err := fetchBody(ctx, requestURL, headers...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response json: %w", err)
	}
	return nil
}
