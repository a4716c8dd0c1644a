package resolve

import (
	"math"
	"strings"

	"tidyfin/internal/classify"
	"tidyfin/internal/textutil"
)

const consensusQuorum = 0.7

// Consensus derives a shared series name from sibling filenames in one
// directory. It walks token positions from the left, keeping a position only
// while enough siblings agree on the token there, and stops at episode
// markers, dictionary tags, and year tokens. It returns false when no
// acceptable prefix exists.
func Consensus(filenames []string) (string, bool) {
	if len(filenames) < 2 {
		return "", false
	}

	tokenized := make([][]string, 0, len(filenames))
	for _, filename := range filenames {
		tokens := classify.TokenizeFilename(filename)
		if len(tokens) == 0 {
			return "", false
		}
		tokenized = append(tokenized, tokens)
	}

	quorum := int(math.Ceil(consensusQuorum * float64(len(tokenized))))
	reference := tokenized[0]

	var prefix []string
	hasNonNumeric := false
	for position, token := range reference {
		if classify.IsEpisodeMarker(token) || classify.IsTag(token) || classify.IsYearToken(token) {
			break
		}
		agreeing := 0
		for _, tokens := range tokenized {
			if position < len(tokens) && strings.EqualFold(tokens[position], token) {
				agreeing++
			}
		}
		if agreeing < quorum {
			break
		}
		prefix = append(prefix, token)
		if !textutil.IsNumericToken(token) {
			hasNonNumeric = true
		}
	}

	if !hasNonNumeric {
		return "", false
	}
	name := classify.TitleCase(strings.Join(prefix, " "))
	if len(name) < 3 {
		return "", false
	}
	return name, true
}
