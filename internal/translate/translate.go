package translate

import (
	"context"
	"strings"
	"unicode"

	"github.com/liuzl/gocc"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/width"

	"karolbroda.com/lyrisync/internal/lyrics"
)

const batchSize = 10

// minimum share of Han runes before a line set is considered chinese
const hanRatioThreshold = 0.3

// Translator converts traditional chinese lyrics to simplified and
// annotates lines in place. A failed dictionary load leaves it in a
// disabled state instead of breaking the pipeline.
type Translator struct {
	converter *gocc.OpenCC
}

func New() *Translator {
	converter, err := gocc.New("t2s")
	if err != nil {
		log.WithError(err).Warn("translation dictionaries unavailable, translation disabled")
		return &Translator{}
	}
	return &Translator{converter: converter}
}

func (t *Translator) Available() bool {
	return t != nil && t.converter != nil
}

// ShouldTranslate reports whether the lines are predominantly chinese.
func (t *Translator) ShouldTranslate(lines []lyrics.Line) bool {
	return t.Available() && predominantlyHan(lines)
}

func predominantlyHan(lines []lyrics.Line) bool {
	var total, han int
	for _, line := range lines {
		for _, r := range line.Text {
			if unicode.IsSpace(r) || unicode.IsPunct(r) {
				continue
			}
			total++
			if unicode.Is(unicode.Han, r) {
				han++
			}
		}
	}
	if total == 0 {
		return false
	}
	return float64(han)/float64(total) >= hanRatioThreshold
}

// Translate returns the simplified form of text and whether it differs
// from the input. Fullwidth punctuation is narrowed before comparing so
// a line is not flagged as translated on punctuation width alone.
func (t *Translator) Translate(text string) (string, bool) {
	if !t.Available() || strings.TrimSpace(text) == "" {
		return "", false
	}
	converted, err := t.converter.Convert(text)
	if err != nil {
		log.WithError(err).Debug("conversion failed for line")
		return "", false
	}
	if width.Narrow.String(converted) == width.Narrow.String(text) {
		return "", false
	}
	return converted, true
}

// Annotate fills Translation on each line that converts to something
// new, working in small batches and checking ctx between them so a
// track change can stop the pass early. onBatch, when set, is called
// after every batch with the lines mutated so far.
func (t *Translator) Annotate(ctx context.Context, lines []lyrics.Line, onBatch func()) {
	if !t.Available() || len(lines) == 0 {
		return
	}
	for start := 0; start < len(lines); start += batchSize {
		if ctx.Err() != nil {
			log.Debug("translation pass interrupted")
			return
		}
		end := min(start+batchSize, len(lines))
		changed := false
		for i := start; i < end; i++ {
			if translated, ok := t.Translate(lines[i].Text); ok {
				lines[i].Translation = translated
				changed = true
			}
		}
		if changed && onBatch != nil {
			onBatch()
		}
	}
}
