package artwork

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/nfnt/resize"

	"karolbroda.com/lyrisync/internal/config"
)

// Palette holds the terminal colors derived from album art.
type Palette struct {
	Text      string
	Highlight string
	Dim       string
}

func DefaultPalette() *Palette {
	return &Palette{
		Text:      config.DefaultTextColor,
		Highlight: config.DefaultHighlightColor,
		Dim:       "#6272a4",
	}
}

// Fetch loads album art from a file:// or http(s) url.
func Fetch(artworkURL string) (image.Image, error) {
	if artworkURL == "" {
		return nil, errors.New("empty artwork url")
	}

	if strings.HasPrefix(artworkURL, "file://") {
		path := strings.TrimPrefix(artworkURL, "file://")
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open artwork file: %w", err)
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode artwork image: %w", err)
		}
		return img, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artworkURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artwork: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork fetch returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode artwork: %w", err)
	}

	return img, nil
}

// ExtractPalette picks a readable highlight color from the artwork's
// dominant colors. Anything that goes wrong falls back to the default
// palette; theming is never worth an error path.
func ExtractPalette(img image.Image) *Palette {
	if img == nil {
		return DefaultPalette()
	}

	// shrink before clustering, kmeans on a full-size cover is slow
	small := resize.Thumbnail(256, 256, img, resize.Lanczos3)

	extracted, err := prominentcolor.KmeansWithAll(5, small, prominentcolor.ArgumentDefault, prominentcolor.DefaultSize, nil)
	if err != nil || len(extracted) == 0 {
		return DefaultPalette()
	}

	type scored struct {
		color      prominentcolor.ColorItem
		sat        float64
		brightness float64
		score      float64
	}

	metrics := make([]scored, len(extracted))
	for i, c := range extracted {
		r := float64(c.Color.R) / 255.0
		g := float64(c.Color.G) / 255.0
		b := float64(c.Color.B) / 255.0

		max := math.Max(math.Max(r, g), b)
		min := math.Min(math.Min(r, g), b)

		var sat float64
		if max > 0 {
			sat = (max - min) / max
		}

		metrics[i] = scored{
			color:      c,
			sat:        sat,
			brightness: max,
			score:      sat * (1.0 - math.Abs(max-0.6)),
		}
	}

	best := scored{score: -1}
	for _, m := range metrics {
		if m.score > best.score && m.brightness > 0.3 && m.sat > 0.2 {
			best = m
		}
	}
	if best.score < 0 {
		return DefaultPalette()
	}

	palette := DefaultPalette()
	palette.Highlight = boostColor(best.color.Color.R, best.color.Color.G, best.color.Color.B, best.brightness)
	return palette
}

// boostColor lifts dark picks toward terminal-readable brightness.
func boostColor(r, g, b uint32, brightness float64) string {
	factor := 1.0
	if brightness < 0.55 {
		factor = 0.75 / math.Max(brightness, 0.1)
	}

	clamp := func(v float64) uint32 {
		if v > 255 {
			return 255
		}
		return uint32(v)
	}

	return fmt.Sprintf("#%02x%02x%02x",
		clamp(float64(r)*factor),
		clamp(float64(g)*factor),
		clamp(float64(b)*factor))
}
