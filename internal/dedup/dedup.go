package dedup

import (
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"tidyfin/internal/catalog"
	"tidyfin/internal/classify"
	"tidyfin/internal/textutil"
)

// Member is one file inside a duplicate group. Exactly one member per group,
// the founder, carries IsOriginal.
type Member struct {
	ID         int64
	Filename   string
	Similarity int
	IsOriginal bool
}

// Group is a set of near-duplicate files.
type Group struct {
	GroupID  string
	BaseName string
	Members  []Member
}

// Similarity scores two filenames from 0 to 100. Both are normalized by
// cleaning release tags then stripping every non-alphanumeric character.
func Similarity(a, b string) int {
	na := normalize(a)
	nb := normalize(b)
	if na == nb {
		return 100
	}
	minLen, maxLen := len(na), len(nb)
	if minLen > maxLen {
		minLen, maxLen = maxLen, minLen
	}
	if maxLen == 0 {
		return 100
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return int(math.Round(100 * float64(minLen) / float64(maxLen)))
	}
	distance := levenshtein.ComputeDistance(na, nb)
	return int(math.Round(100 * float64(maxLen-distance) / float64(maxLen)))
}

// FindDuplicates clusters items in catalog order. Each item joins the first
// existing group whose founder scores at or above threshold, else founds a
// new group. Groups that end up with a single member are dropped.
func FindDuplicates(items []*catalog.MediaItem, threshold int) []Group {
	var groups []Group
	for _, item := range items {
		joined := false
		for i := range groups {
			founder := groups[i].Members[0]
			score := Similarity(item.OriginalFilename, founder.Filename)
			if score >= threshold {
				groups[i].Members = append(groups[i].Members, Member{
					ID:         item.ID,
					Filename:   item.OriginalFilename,
					Similarity: score,
				})
				joined = true
				break
			}
		}
		if joined {
			continue
		}
		groups = append(groups, Group{
			GroupID:  uuid.NewString(),
			BaseName: classify.CleanFilename(item.OriginalFilename),
			Members: []Member{{
				ID:         item.ID,
				Filename:   item.OriginalFilename,
				Similarity: 100,
				IsOriginal: true,
			}},
		})
	}

	result := make([]Group, 0, len(groups))
	for _, group := range groups {
		if len(group.Members) < 2 {
			continue
		}
		result = append(result, group)
	}
	return result
}

func normalize(filename string) string {
	return textutil.NormalizeComparable(classify.CleanFilename(filename))
}
