package track

import "testing"

func TestSameIgnoresDuration(t *testing.T) {
	a := &Info{Title: "X", Artist: "Y", DurationMs: 1000}
	b := &Info{Title: "X", Artist: "Y", DurationMs: 9999}

	if !a.Same(b) {
		t.Errorf("tracks with equal title/artist should compare equal regardless of duration")
	}
}

func TestSameDistinguishesTitleAndArtist(t *testing.T) {
	tests := []struct {
		name string
		a, b *Info
		want bool
	}{
		{"different title", &Info{Title: "X", Artist: "Y"}, &Info{Title: "Z", Artist: "Y"}, false},
		{"different artist", &Info{Title: "X", Artist: "Y"}, &Info{Title: "X", Artist: "Z"}, false},
		{"both nil", nil, nil, true},
		{"one nil", &Info{Title: "X"}, nil, false},
	}

	for _, tc := range tests {
		if got := tc.a.Same(tc.b); got != tc.want {
			t.Errorf("%s: Same() = %v; want %v", tc.name, got, tc.want)
		}
	}
}

func TestValid(t *testing.T) {
	if (&Info{}).Valid() {
		t.Errorf("empty title should not be valid")
	}
	if !(&Info{Title: "X"}).Valid() {
		t.Errorf("title-only track should be valid")
	}
	var nilInfo *Info
	if nilInfo.Valid() {
		t.Errorf("nil track should not be valid")
	}
}
