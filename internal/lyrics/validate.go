package lyrics

import (
	"regexp"
	"strconv"
)

// DefaultDurationToleranceMs is generous enough to absorb live or
// extended versions and intro/outro trimming differences between
// lyric databases and the actual stream.
const DefaultDurationToleranceMs int64 = 30_000

var validateTimestampPattern = regexp.MustCompile(`\[(\d+):(\d+(?:\.\d+)?)\]`)

// Validator decides whether candidate LRC text plausibly belongs to a
// track of a known duration, by comparing the last timestamp in the
// text against that duration. It fails open: when there is nothing to
// compare, or the comparison cannot be computed, the candidate passes.
type Validator struct {
	ToleranceMs int64
}

func NewValidator(toleranceMs int64) *Validator {
	if toleranceMs <= 0 {
		toleranceMs = DefaultDurationToleranceMs
	}
	return &Validator{ToleranceMs: toleranceMs}
}

func (v *Validator) Valid(lrcText string, targetDurationMs int64) bool {
	if targetDurationMs == 0 {
		return true
	}

	matches := validateTimestampPattern.FindAllStringSubmatch(lrcText, -1)
	if len(matches) == 0 {
		// plain untimed text cannot be disproven
		return true
	}

	last := matches[len(matches)-1]
	minutes, err := strconv.ParseInt(last[1], 10, 64)
	if err != nil {
		return true
	}
	seconds, err := strconv.ParseFloat(last[2], 64)
	if err != nil {
		return true
	}

	lrcDurationMs := int64((float64(minutes)*60 + seconds) * 1000)
	diff := lrcDurationMs - targetDurationMs
	if diff < 0 {
		diff = -diff
	}
	return diff <= v.ToleranceMs
}
