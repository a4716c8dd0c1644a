package classify

import (
	"regexp"
	"strings"
)

var (
	extensionRx  = regexp.MustCompile(`\.[A-Za-z0-9]{2,4}$`)
	bracketedRx  = regexp.MustCompile(`\[[^\]]*\]`)
	parenRx      = regexp.MustCompile(`\(([^)]*)\)`)
	fourDigitsRx = regexp.MustCompile(`^\d{4}$`)
	bareNumberRx = regexp.MustCompile(`^\d{1,3}$`)
)

// CleanFilename reduces a release filename to a readable title guess. It
// strips the extension, bracketed junk, non-year parentheticals, tag
// dictionary entries, and stray numeric tokens. The result is stable:
// cleaning an already-clean name returns it unchanged.
func CleanFilename(filename string) string {
	name := extensionRx.ReplaceAllString(filename, "")

	name = bracketedRx.ReplaceAllString(name, " ")
	name = parenRx.ReplaceAllStringFunc(name, func(match string) string {
		inner := strings.TrimSpace(match[1 : len(match)-1])
		if fourDigitsRx.MatchString(inner) {
			return " " + inner + " "
		}
		return " "
	})

	name = strings.ReplaceAll(name, ".", " ")
	name = strings.ReplaceAll(name, "_", " ")

	name = tagWordRx.ReplaceAllString(name, " ")

	tokens := strings.Fields(name)
	kept := make([]string, 0, len(tokens))
	for i, token := range tokens {
		if bareNumberRx.MatchString(token) && !adjacentToEpisodeMarker(tokens, i) {
			continue
		}
		if !hasAlnum(token) {
			continue
		}
		kept = append(kept, token)
	}

	return strings.Join(kept, " ")
}

func hasAlnum(token string) bool {
	for _, r := range token {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

func adjacentToEpisodeMarker(tokens []string, i int) bool {
	if i > 0 && isEpisodeMarkerToken(tokens[i-1]) {
		return true
	}
	if i+1 < len(tokens) && isEpisodeMarkerToken(tokens[i+1]) {
		return true
	}
	return false
}

// SearchQuery derives a metadata search query from a raw title guess. It
// applies the general cleaner, drops an extended junk-token set, drops a
// leading bare number, and keeps at most six words.
func SearchQuery(name string) string {
	tokens := strings.Fields(CleanFilename(name))
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if isSearchJunk(token) {
			continue
		}
		kept = append(kept, token)
	}
	if len(kept) > 0 && bareNumberRx.MatchString(kept[0]) {
		kept = kept[1:]
	}
	if len(kept) > 6 {
		kept = kept[:6]
	}
	return strings.Join(kept, " ")
}
