package dedup_test

import (
	"testing"

	"tidyfin/internal/catalog"
	"tidyfin/internal/dedup"
)

func TestSimilarityIdentity(t *testing.T) {
	for _, filename := range []string{
		"Show.S01E01.mkv",
		"Inception.2010.1080p.BluRay.mkv",
		"random_file.avi",
	} {
		if got := dedup.Similarity(filename, filename); got != 100 {
			t.Fatalf("Similarity(%q, %q) = %d, want 100", filename, filename, got)
		}
	}
}

func TestSimilaritySymmetricBranches(t *testing.T) {
	// Tag-stripped normalization makes these an exact match.
	a := "Show.S01E01.mkv"
	b := "Show S01E01 HDHub4u.mkv"
	if dedup.Similarity(a, b) != 100 || dedup.Similarity(b, a) != 100 {
		t.Fatalf("expected exact normalized match both ways, got %d and %d",
			dedup.Similarity(a, b), dedup.Similarity(b, a))
	}

	// Containment branch is symmetric too.
	c := "The.Office.S01E01.mkv"
	d := "Office.S01E01.mkv"
	if dedup.Similarity(c, d) != dedup.Similarity(d, c) {
		t.Fatalf("containment not symmetric: %d vs %d",
			dedup.Similarity(c, d), dedup.Similarity(d, c))
	}
}

func TestFindDuplicatesGroupsTaggedCopies(t *testing.T) {
	items := []*catalog.MediaItem{
		{ID: 1, OriginalFilename: "Show.S01E01.mkv"},
		{ID: 2, OriginalFilename: "Show S01E01 HDHub4u.mkv"},
	}

	groups := dedup.FindDuplicates(items, 80)
	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}
	group := groups[0]
	if len(group.Members) != 2 {
		t.Fatalf("expected two members, got %d", len(group.Members))
	}

	originals := 0
	for _, member := range group.Members {
		if member.IsOriginal {
			originals++
			if member.ID != 1 {
				t.Fatalf("expected founder to be item 1, got %d", member.ID)
			}
		}
	}
	if originals != 1 {
		t.Fatalf("expected exactly one original, got %d", originals)
	}
}

func TestFindDuplicatesDropsSingletons(t *testing.T) {
	items := []*catalog.MediaItem{
		{ID: 1, OriginalFilename: "Show.S01E01.mkv"},
		{ID: 2, OriginalFilename: "Completely.Different.Documentary.2015.mkv"},
	}

	if groups := dedup.FindDuplicates(items, 80); len(groups) != 0 {
		t.Fatalf("expected no surviving groups, got %d", len(groups))
	}
}

func TestFindDuplicatesComparesAgainstFounderOnly(t *testing.T) {
	// The second and third items both match the founder; the founder anchors
	// the group even if later members drift from each other.
	items := []*catalog.MediaItem{
		{ID: 1, OriginalFilename: "Inception.2010.mkv"},
		{ID: 2, OriginalFilename: "Inception.2010.1080p.mkv"},
		{ID: 3, OriginalFilename: "Inception.2010.720p.HDHub4u.mkv"},
	}

	groups := dedup.FindDuplicates(items, 80)
	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}
	if len(groups[0].Members) != 3 {
		t.Fatalf("expected three members, got %d", len(groups[0].Members))
	}
}
