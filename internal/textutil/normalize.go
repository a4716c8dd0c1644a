package textutil

import (
	"strings"
	"unicode"
)

// NormalizeComparable lowers a title and strips everything except letters and
// digits so that near-identical spellings compare equal. Common symbol
// spellings are folded first ("&" and "+" both read as "and").
func NormalizeComparable(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	normalized := strings.ToLower(input)
	normalized = strings.ReplaceAll(normalized, "&", "and")
	normalized = strings.ReplaceAll(normalized, "+", "and")

	var builder strings.Builder
	for _, r := range normalized {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// IsNumericToken reports whether a token consists solely of ASCII digits.
func IsNumericToken(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
