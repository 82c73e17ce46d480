package translate

import (
	"context"
	"testing"

	"karolbroda.com/lyrisync/internal/lyrics"
)

func TestPredominantlyHan(t *testing.T) {
	tests := []struct {
		name  string
		lines []lyrics.Line
		want  bool
	}{
		{
			name:  "pure chinese",
			lines: []lyrics.Line{{Text: "我們的愛"}, {Text: "過了就不再回來"}},
			want:  true,
		},
		{
			name:  "pure english",
			lines: []lyrics.Line{{Text: "cause I I I'm in the stars tonight"}},
			want:  false,
		},
		{
			name:  "mixed above threshold",
			lines: []lyrics.Line{{Text: "oh 我們的愛 baby"}},
			want:  true,
		},
		{
			name:  "korean",
			lines: []lyrics.Line{{Text: "불타오르네"}},
			want:  false,
		},
		{
			name:  "empty",
			lines: nil,
			want:  false,
		},
		{
			name:  "punctuation only",
			lines: []lyrics.Line{{Text: "...!!!"}},
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := predominantlyHan(tt.lines); got != tt.want {
				t.Errorf("predominantlyHan() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDisabledTranslatorIsInert(t *testing.T) {
	var tr Translator

	if tr.Available() {
		t.Error("zero translator must report unavailable")
	}
	if tr.ShouldTranslate([]lyrics.Line{{Text: "我們的愛"}}) {
		t.Error("disabled translator must never ask to translate")
	}
	if got, ok := tr.Translate("我們的愛"); ok || got != "" {
		t.Errorf("Translate on disabled translator = %q, %v", got, ok)
	}

	lines := []lyrics.Line{{Text: "我們的愛"}}
	tr.Annotate(context.Background(), lines, func() {
		t.Error("disabled translator must not report progress")
	})
	if lines[0].Translation != "" {
		t.Error("disabled translator must leave lines untouched")
	}
}

func TestAnnotateTranslatesTraditional(t *testing.T) {
	tr := New()
	if !tr.Available() {
		t.Skip("t2s dictionaries not installed")
	}

	lines := []lyrics.Line{
		{Text: "我們的愛"},
		{Text: "already simplified 爱"},
		{Text: "plain english line"},
	}

	var batches int
	tr.Annotate(context.Background(), lines, func() { batches++ })

	if lines[0].Translation == "" {
		t.Error("traditional line was not annotated")
	}
	if lines[0].Translation == lines[0].Text {
		t.Error("annotation must differ from the original text")
	}
	if lines[2].Translation != "" {
		t.Errorf("english line picked up a translation: %q", lines[2].Translation)
	}
	if batches == 0 {
		t.Error("progress callback never fired")
	}
}

func TestAnnotateStopsOnCancel(t *testing.T) {
	tr := New()
	if !tr.Available() {
		t.Skip("t2s dictionaries not installed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lines := []lyrics.Line{{Text: "我們的愛"}}
	tr.Annotate(ctx, lines, nil)
	if lines[0].Translation != "" {
		t.Error("cancelled pass must not annotate")
	}
}
