package lyrics

import "testing"

func TestParseWellFormed(t *testing.T) {
	p := NewParser()

	lines := p.Parse("[00:01.00] Line 1\n[00:02.50] Line 2")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	tests := []struct {
		idx      int
		wantMs   int64
		wantText string
	}{
		{0, 1000, "Line 1"},
		{1, 2500, "Line 2"},
	}
	for _, tc := range tests {
		if !lines[tc.idx].Timed || lines[tc.idx].TimestampMs != tc.wantMs {
			t.Errorf("line %d timestamp = %d (timed=%v); want %d", tc.idx, lines[tc.idx].TimestampMs, lines[tc.idx].Timed, tc.wantMs)
		}
		if lines[tc.idx].Text != tc.wantText {
			t.Errorf("line %d text = %q; want %q", tc.idx, lines[tc.idx].Text, tc.wantText)
		}
	}
}

func TestParseOrdering(t *testing.T) {
	p := NewParser()

	lines := p.Parse("[01:00.00]third\n[00:10.00]second\nuntimed\n[02:00.00]fourth")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}

	var prev int64 = -1
	for i, line := range lines {
		key := line.TimestampMs
		if !line.Timed {
			key = 0
		}
		if key < prev {
			t.Errorf("line %d out of order: %d after %d", i, key, prev)
		}
		prev = key
	}
	if lines[0].Text != "untimed" || lines[0].Timed {
		t.Errorf("untimed line should sort first, got %+v", lines[0])
	}
}

func TestParseFractionalDigits(t *testing.T) {
	p := NewParser()

	tests := []struct {
		raw    string
		wantMs int64
	}{
		{"[00:01.50]two digit centiseconds", 1500},
		{"[00:01.500]three digit milliseconds", 1500},
		{"[00:01.005]milliseconds as-is", 1005},
		{"[01:02:03]colon separator", 62030},
		{"[03:15.]missing fraction", 195000},
	}
	for _, tc := range tests {
		lines := p.Parse(tc.raw)
		if len(lines) != 1 {
			t.Fatalf("%q: expected 1 line, got %d", tc.raw, len(lines))
		}
		if lines[0].TimestampMs != tc.wantMs {
			t.Errorf("%q: timestamp = %d; want %d", tc.raw, lines[0].TimestampMs, tc.wantMs)
		}
	}
}

func TestParseSkipsMetadata(t *testing.T) {
	p := NewParser()

	text := "[ti:Some Title]\n[ar:Some Artist]\n[作詞:someone]\n[作曲]\n[00:05.00]actual lyric"
	lines := p.Parse(text)

	if len(lines) != 1 {
		t.Fatalf("expected 1 line after metadata filtering, got %d", len(lines))
	}
	if lines[0].Text != "actual lyric" {
		t.Errorf("unexpected text %q", lines[0].Text)
	}
}

func TestParseDropsTimestampOnlyLines(t *testing.T) {
	p := NewParser()

	lines := p.Parse("[00:05.00]\n[00:06.00]kept")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "kept" {
		t.Errorf("unexpected text %q", lines[0].Text)
	}
}

func TestParseEmptyInput(t *testing.T) {
	p := NewParser()
	if got := p.Parse("   \n  \n"); len(got) != 0 {
		t.Errorf("whitespace-only input should yield no lines, got %d", len(got))
	}
}

func TestExtractMember(t *testing.T) {
	p := NewParser("RM", "Jin")

	tests := []struct {
		raw        string
		wantMember string
		wantText   string
	}{
		{"[RM] bringing the fire", "RM", "bringing the fire"},
		{"(Jin) falling petals", "Jin", "falling petals"},
		{"Jin: one more time", "Jin", "one more time"},
		{"[Jungkook] short name passes length rule", "Jungkook", "short name passes length rule"},
	}
	for _, tc := range tests {
		member, text := p.extractMember(tc.raw)
		if member != tc.wantMember {
			t.Errorf("%q: member = %q; want %q", tc.raw, member, tc.wantMember)
		}
		if text != tc.wantText {
			t.Errorf("%q: text = %q; want %q", tc.raw, text, tc.wantText)
		}
	}
}

func TestExtractMemberRejectsSentences(t *testing.T) {
	p := NewParser()

	tests := []string{
		"I am fine: really",
		"You said: something",
		"The night we met: a memory",
	}
	for _, raw := range tests {
		member, text := p.extractMember(raw)
		if member != "" {
			t.Errorf("%q: spuriously extracted member %q", raw, member)
		}
		if text != raw {
			t.Errorf("%q: text mangled to %q", raw, text)
		}
	}
}

func TestExtractMemberRejectsLongCaptures(t *testing.T) {
	p := NewParser()

	member, _ := p.extractMember("somebody once told me the world: is gonna roll me")
	if member != "" {
		t.Errorf("long prose capture should be rejected, got member %q", member)
	}
}

func TestTimestampLabel(t *testing.T) {
	timed := Line{TimestampMs: 83_000, Timed: true}
	if got := timed.TimestampLabel(); got != "01:23" {
		t.Errorf("TimestampLabel() = %q; want %q", got, "01:23")
	}
	untimed := Line{Text: "x"}
	if got := untimed.TimestampLabel(); got != "" {
		t.Errorf("untimed label = %q; want empty", got)
	}
}
