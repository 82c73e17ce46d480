package lyrics

import "testing"

func TestValidatorToleranceBoundary(t *testing.T) {
	v := NewValidator(30_000)

	tests := []struct {
		name string
		lrc  string
		want bool
	}{
		{"within tolerance", "[00:10.00]a\n[03:49.00]b", true},  // 229000, diff 29000
		{"outside tolerance", "[00:10.00]a\n[03:51.00]b", false}, // 231000, diff 31000
		{"exactly at tolerance", "[03:50.00]b", true},            // 230000, diff 30000
	}
	for _, tc := range tests {
		if got := v.Valid(tc.lrc, 200_000); got != tc.want {
			t.Errorf("%s: Valid() = %v; want %v", tc.name, got, tc.want)
		}
	}
}

func TestValidatorUntimedTextAlwaysValid(t *testing.T) {
	v := NewValidator(30_000)

	if !v.Valid("just some plain lyrics\nwith no timestamps at all", 200_000) {
		t.Errorf("plain text should validate against any duration")
	}
}

func TestValidatorZeroDurationAlwaysValid(t *testing.T) {
	v := NewValidator(30_000)

	if !v.Valid("[99:59.99]way too long", 0) {
		t.Errorf("unknown target duration should accept anything")
	}
}

func TestValidatorFractionalSeconds(t *testing.T) {
	v := NewValidator(30_000)

	// 3:20.50 = 200500ms, diff 500
	if !v.Valid("[03:20.50]line", 200_000) {
		t.Errorf("fractional last timestamp should validate")
	}
}

func TestNewValidatorDefaultsTolerance(t *testing.T) {
	v := NewValidator(0)
	if v.ToleranceMs != DefaultDurationToleranceMs {
		t.Errorf("ToleranceMs = %d; want %d", v.ToleranceMs, DefaultDurationToleranceMs)
	}
}
