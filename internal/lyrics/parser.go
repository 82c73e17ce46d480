package lyrics

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// [MM:SS.ff] or [MM:SS:ff]; fractional part is 2 or 3 digits and
	// may be missing entirely after the separator
	timestampPattern = regexp.MustCompile(`^\[(\d{1,2}):(\d{2})[.:](\d{2,3})?\]`)

	// two-letter metadata header tags like [ti:...], [ar:...]
	metaTagPattern = regexp.MustCompile(`^\[[a-zA-Z]{2}:`)

	// speaker attribution, tried in order; first match wins
	memberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\[([^\d\]]+)\]\s*(.*)$`),
		regexp.MustCompile(`^\(([^)]+)\)\s*(.*)$`),
		regexp.MustCompile(`^([^:]+):\s*(.+)$`),
	}
)

// CJK credit tags that mark lyricist/composer/arranger/singer headers,
// accepted bare-bracketed or in bracket-colon form.
var cjkMetaTags = []string{"作詞", "作曲", "編曲", "歌手", "歌", "词", "曲", "编曲"}

// tokens that mark a capture as the start of an ordinary sentence
// rather than a speaker name
var sentenceStarters = []string{
	"i ", "you ", "we ", "they ", "he ", "she ", "it ",
	"the ", "a ", "an ", "i'm", "you're", "we're",
}

// Parser turns raw LRC or plain lyric text into an ordered line
// sequence. A set of known member names improves speaker detection on
// multi-vocalist tracks.
type Parser struct {
	knownMembers map[string]struct{}
}

func NewParser(knownMembers ...string) *Parser {
	members := make(map[string]struct{}, len(knownMembers))
	for _, m := range knownMembers {
		members[m] = struct{}{}
	}
	return &Parser{knownMembers: members}
}

// Parse returns lines stable-sorted ascending by timestamp, untimed
// lines first. Empty input yields an empty slice.
func (p *Parser) Parse(text string) []Line {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var lines []Line
	for _, raw := range strings.Split(text, "\n") {
		line, ok := p.parseLine(raw)
		if ok {
			lines = append(lines, line)
		}
	}

	// stable keeps input order among equal timestamps
	slices.SortStableFunc(lines, func(a, b Line) int {
		switch ka, kb := a.sortKey(), b.sortKey(); {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	})
	return lines
}

func (p *Parser) parseLine(raw string) (Line, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Line{}, false
	}

	if metaTagPattern.MatchString(text) {
		return Line{}, false
	}
	for _, tag := range cjkMetaTags {
		if strings.HasPrefix(text, "["+tag+"]") || strings.HasPrefix(text, "["+tag+":") {
			return Line{}, false
		}
	}

	var timestampMs int64
	timed := false
	if m := timestampPattern.FindStringSubmatch(text); m != nil {
		minutes, _ := strconv.ParseInt(m[1], 10, 64)
		seconds, _ := strconv.ParseInt(m[2], 10, 64)

		var millis int64
		if m[3] != "" {
			frac, _ := strconv.ParseInt(m[3], 10, 64)
			if len(m[3]) == 3 {
				millis = frac
			} else {
				millis = frac * 10 // centiseconds
			}
		}

		timestampMs = (minutes*60+seconds)*1000 + millis
		timed = true
		text = strings.TrimSpace(text[len(m[0]):])
	}

	// a line that was nothing but a timestamp carries no lyric
	if text == "" {
		return Line{}, false
	}

	member, remaining := p.extractMember(text)
	return Line{
		TimestampMs: timestampMs,
		Timed:       timed,
		Text:        remaining,
		Member:      member,
	}, true
}

func (p *Parser) extractMember(text string) (string, string) {
	for _, pattern := range memberPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		candidate := strings.TrimSpace(m[1])
		remaining := strings.TrimSpace(m[2])

		_, known := p.knownMembers[candidate]
		if !known && utf8.RuneCountInString(candidate) > 15 {
			continue
		}
		if p.looksLikeSentenceStart(candidate) {
			continue
		}
		return candidate, remaining
	}
	return "", text
}

func (p *Parser) looksLikeSentenceStart(text string) bool {
	if utf8.RuneCountInString(text) > 20 {
		return true
	}

	lower := strings.ToLower(text)
	for _, starter := range sentenceStarters {
		if strings.HasPrefix(lower, starter) {
			return true
		}
	}
	return false
}
