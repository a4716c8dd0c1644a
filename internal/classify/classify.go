package classify

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MediaType identifies the kind of media a filename was classified as.
type MediaType string

const (
	MediaTypeMovie   MediaType = "movie"
	MediaTypeTV      MediaType = "tvshow"
	MediaTypeUnknown MediaType = "unknown"
)

// Valid reports whether the media type is one of the closed set.
func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeMovie, MediaTypeTV, MediaTypeUnknown:
		return true
	}
	return false
}

// ParsedMedia is the structured result of classifying one filename.
// Season and Episode are both set or both nil.
type ParsedMedia struct {
	OriginalFilename string
	CleanedName      string
	DetectedType     MediaType
	DetectedName     string
	Year             *int
	Season           *int
	Episode          *int
	Extension        string
	Confidence       int
}

const (
	confidenceTV      = 80
	confidenceMovie   = 70
	confidenceUnknown = 50
	lengthBonus       = 10
)

// Year range accepted as a plausible release year.
const (
	minYear = 1950
	maxYear = 2029
)

// episodeRule pairs a season/episode pattern with its extractor. Rules are
// tried in order and the first match wins, so more specific patterns must
// come first.
type episodeRule struct {
	pattern *regexp.Regexp
	extract func(match []string) (season, episode int)
}

var episodeRules = []episodeRule{
	{
		// S01E02
		pattern: regexp.MustCompile(`(?i)\bS(\d{1,2})E(\d{1,3})\b`),
		extract: seasonEpisode,
	},
	{
		// 1x02
		pattern: regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{1,3})\b`),
		extract: seasonEpisode,
	},
	{
		// Season 1 Episode 2
		pattern: regexp.MustCompile(`(?i)\bSeason\s+(\d{1,2})\s+Episode\s+(\d{1,3})\b`),
		extract: seasonEpisode,
	},
	{
		// S01 E02
		pattern: regexp.MustCompile(`(?i)\bS(\d{1,2})\s+E(\d{1,3})\b`),
		extract: seasonEpisode,
	},
	{
		// EP02 or E02 with no season marker; assume season 1.
		pattern: regexp.MustCompile(`(?i)\bEP?(\d{1,3})\b`),
		extract: func(match []string) (int, int) {
			episode, _ := strconv.Atoi(match[1])
			return 1, episode
		},
	},
}

func seasonEpisode(match []string) (int, int) {
	season, _ := strconv.Atoi(match[1])
	episode, _ := strconv.Atoi(match[2])
	return season, episode
}

var (
	delimiterReplacer = strings.NewReplacer(
		".", " ", "_", " ", "-", " ",
		"[", " ", "]", " ", "(", " ", ")", " ",
	)
	episodeMarkerRx = regexp.MustCompile(`(?i)^(?:s\d{1,2}e\d{1,3}|s\d{1,2}|ep?\d{1,3}|\d{1,2}x\d{1,3}|season|episode)$`)
)

// Tokenize splits a filename (or any name) into comparison tokens using the
// classifier's delimiter rules. Shared with sibling-consensus resolution.
func Tokenize(name string) []string {
	return strings.Fields(delimiterReplacer.Replace(name))
}

func isEpisodeMarkerToken(token string) bool {
	return episodeMarkerRx.MatchString(token)
}

// TokenizeFilename strips the trailing extension before tokenizing.
func TokenizeFilename(filename string) []string {
	return Tokenize(extensionRx.ReplaceAllString(filename, ""))
}

// IsEpisodeMarker reports whether a token looks like a season or episode
// marker such as S01E02, 1x05, or EP12.
func IsEpisodeMarker(token string) bool {
	return isEpisodeMarkerToken(token)
}

// IsYearToken reports whether a token is a four-digit year in the plausible
// release range.
func IsYearToken(token string) bool {
	if !fourDigitsRx.MatchString(token) {
		return false
	}
	year, err := strconv.Atoi(token)
	if err != nil {
		return false
	}
	return year >= minYear && year <= maxYear
}

// Classify parses a single filename into structured metadata. It is pure and
// deterministic; unparseable names yield MediaTypeUnknown rather than an
// error.
func Classify(filename string) ParsedMedia {
	parsed := ParsedMedia{
		OriginalFilename: filename,
		Extension:        extractExtension(filename),
		CleanedName:      CleanFilename(filename),
	}

	base := extensionRx.ReplaceAllString(filename, "")
	normalized := delimiterReplacer.Replace(base)
	tokens := strings.Fields(normalized)

	if year, ok := detectYear(tokens); ok {
		parsed.Year = &year
	}

	if season, episode, ok := detectEpisode(normalized); ok {
		parsed.DetectedType = MediaTypeTV
		parsed.Season = &season
		parsed.Episode = &episode
		parsed.DetectedName = extractSeriesName(tokens)
		parsed.Confidence = confidenceTV
	} else if parsed.Year != nil {
		parsed.DetectedType = MediaTypeMovie
		parsed.DetectedName = extractMovieName(base, *parsed.Year)
		parsed.Confidence = confidenceMovie
	} else {
		parsed.DetectedType = MediaTypeUnknown
		parsed.DetectedName = parsed.CleanedName
		parsed.Confidence = confidenceUnknown
	}

	if length := len(parsed.DetectedName); length >= 4 && length <= 99 {
		parsed.Confidence += lengthBonus
	}
	if parsed.Confidence > 100 {
		parsed.Confidence = 100
	}

	return parsed
}

func extractExtension(filename string) string {
	ext := extensionRx.FindString(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func detectEpisode(normalized string) (season, episode int, ok bool) {
	for _, rule := range episodeRules {
		if match := rule.pattern.FindStringSubmatch(normalized); match != nil {
			season, episode = rule.extract(match)
			return season, episode, true
		}
	}
	return 0, 0, false
}

// detectYear returns the first token that reads as a plausible release year.
func detectYear(tokens []string) (int, bool) {
	for _, token := range tokens {
		if !fourDigitsRx.MatchString(token) {
			continue
		}
		year, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if year >= minYear && year <= maxYear {
			return year, true
		}
	}
	return 0, false
}

// extractSeriesName walks tokens left to right collecting the title prefix.
// Collection stops at the first episode marker, dictionary tag, year token,
// or stray 1-3 digit number once real title text has been seen. Tags that
// appear before any title token are skipped instead, so names survive
// release-group prefixes.
func extractSeriesName(tokens []string) string {
	var title []string
	nonNumericSeen := false
	for _, token := range tokens {
		if isEpisodeMarkerToken(token) {
			break
		}
		if IsTag(token) {
			if len(title) == 0 {
				continue
			}
			break
		}
		if fourDigitsRx.MatchString(token) {
			if year, err := strconv.Atoi(token); err == nil && year >= minYear && year <= maxYear {
				break
			}
		}
		if bareNumberRx.MatchString(token) {
			if nonNumericSeen {
				break
			}
		} else {
			nonNumericSeen = true
		}
		title = append(title, token)
	}
	return TitleCase(strings.Join(title, " "))
}

// extractMovieName takes everything before the first occurrence of the year
// and runs it through the general cleaner.
func extractMovieName(base string, year int) string {
	yearText := strconv.Itoa(year)
	prefix := base
	if idx := strings.Index(base, yearText); idx >= 0 {
		prefix = base[:idx]
	}
	prefix = strings.TrimRight(prefix, " ._-([")
	return TitleCase(CleanFilename(prefix))
}

// TitleCase capitalizes the first letter of every word. Internal casing of
// acronyms is lost; this matches the library's folder naming convention.
func TitleCase(name string) string {
	return cases.Title(language.English).String(name)
}
