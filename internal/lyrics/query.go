package lyrics

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxQueries = 5

// title separators, checked in this order; the first one present wins
var querySeparators = []string{" / ", " | ", " # ", " : ", " - "}

var (
	coverPartPattern      = regexp.MustCompile(`(?i)(cover|by\s|performed by)`)
	coverIndicatorPattern = regexp.MustCompile(`(?i)(cover|커버|歌ってみた|カバー)`)
	bracketExtractPattern = regexp.MustCompile(`[\[({]([^\])}]+)[\])}]`)
	bracketStripPattern   = regexp.MustCompile(`[\[({].*?[\])}]`)
	// mirror of a unicode-aware \w class: strip everything that is not
	// a letter, digit, underscore, whitespace, hyphen or apostrophe
	punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s\-']`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

var noisePatterns = compileNoisePatterns(
	"official video", "official audio", "mv", "m/v", "flac", "hq", "lyrics", "lyric video",
)

func compileNoisePatterns(keywords ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		patterns[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(kw))
	}
	return patterns
}

// GenerateQueries turns a noisy video/track title plus an uploader name
// into at most five candidate search strings, highest-precision first.
// Bracketed substrings on cover titles usually carry the original
// artist, so those combinations rank ahead of the raw uploader.
func GenerateQueries(title, artist string) []string {
	var queries []string

	parts := []string{title}
	for _, sep := range querySeparators {
		if strings.Contains(title, sep) {
			parts = strings.Split(title, sep)
			break
		}
	}

	cleanParts := make([]string, 0, len(parts))
	for _, p := range parts {
		if !coverPartPattern.MatchString(p) {
			cleanParts = append(cleanParts, p)
		}
	}
	if len(cleanParts) == 0 {
		cleanParts = parts
	}

	candidateTitle := strings.TrimSpace(cleanParts[0])

	var featuredArtists []string
	for _, m := range bracketExtractPattern.FindAllStringSubmatch(candidateTitle, -1) {
		featuredArtists = append(featuredArtists, m[1])
	}

	cleanTitle := bracketStripPattern.ReplaceAllString(candidateTitle, "")
	cleanTitle = removeNoise(cleanTitle)
	cleanTitle = strings.TrimSpace(punctuationPattern.ReplaceAllString(cleanTitle, " "))
	cleanTitle = strings.TrimSpace(whitespacePattern.ReplaceAllString(cleanTitle, " "))

	// bracket content first: "Title - Artist" and "Artist - Title"
	// conventions both covered
	for _, feat := range featuredArtists {
		if strings.Contains(feat, " - ") {
			subParts := strings.Split(feat, " - ")
			queries = append(queries, subParts[0]+" "+cleanTitle)
			queries = append(queries, subParts[1]+" "+cleanTitle)
		} else {
			queries = append(queries, feat+" "+cleanTitle)
		}
	}

	// raw uploader + raw title, unless the title flags itself as a cover
	if artist != "" && !strings.EqualFold(artist, "unknown artist") {
		if !coverIndicatorPattern.MatchString(title) {
			queries = append(queries, artist+" "+title)
		}
	}

	cleanArtist := strings.TrimSpace(removeNoise(artist))
	if cleanArtist != "" && !strings.EqualFold(cleanArtist, "unknown artist") {
		queries = append(queries, cleanArtist+" "+cleanTitle)
	}

	// the bare title only when distinctive enough to search alone
	if len(strings.Fields(cleanTitle)) >= 3 || utf8.RuneCountInString(cleanTitle) >= 15 {
		queries = append(queries, cleanTitle)
	}

	return dedupeQueries(queries)
}

func removeNoise(text string) string {
	for _, pattern := range noisePatterns {
		text = pattern.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

func dedupeQueries(queries []string) []string {
	seen := make(map[string]struct{}, len(queries))
	unique := make([]string, 0, maxQueries)

	for _, q := range queries {
		key := strings.ToLower(strings.TrimSpace(q))
		if key == "" || utf8.RuneCountInString(key) <= 1 {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, q)
		if len(unique) == maxQueries {
			break
		}
	}
	return unique
}
