package resolve_test

import (
	"testing"

	"tidyfin/internal/resolve"
)

func TestConsensusSharedPrefix(t *testing.T) {
	name, ok := resolve.Consensus([]string{
		"Mirzapur.S01E01.720p.HDHub4u.mkv",
		"Mirzapur HDHub4u S01E02.mkv",
	})
	if !ok {
		t.Fatal("expected consensus")
	}
	if name != "Mirzapur" {
		t.Fatalf("expected Mirzapur, got %q", name)
	}
}

func TestConsensusPreservesNumericTokens(t *testing.T) {
	name, ok := resolve.Consensus([]string{
		"3.Body.Problem.S01E01.mkv",
		"3.Body.Problem.S01E02.mkv",
		"3.Body.Problem.S01E03.mkv",
	})
	if !ok {
		t.Fatal("expected consensus")
	}
	if name != "3 Body Problem" {
		t.Fatalf("expected numeric token preserved, got %q", name)
	}
}

func TestConsensusRequiresQuorum(t *testing.T) {
	// Mixed-content directory: only one of three shares the prefix.
	if name, ok := resolve.Consensus([]string{
		"Dark.S01E01.mkv",
		"Unrelated.Movie.2020.mkv",
		"Another.File.S02E03.mkv",
	}); ok {
		t.Fatalf("expected no consensus, got %q", name)
	}
}

func TestConsensusRejectsPurelyNumericPrefix(t *testing.T) {
	if name, ok := resolve.Consensus([]string{
		"101.S01E01.mkv",
		"101.S01E02.mkv",
	}); ok {
		t.Fatalf("expected rejection of numeric-only prefix, got %q", name)
	}
}

func TestConsensusNeedsTwoSiblings(t *testing.T) {
	if _, ok := resolve.Consensus([]string{"Mirzapur.S01E01.mkv"}); ok {
		t.Fatal("expected no consensus from a single file")
	}
}

func TestConsensusRejectsShortNames(t *testing.T) {
	if name, ok := resolve.Consensus([]string{
		"It.S01E01.mkv",
		"It.S01E02.mkv",
	}); ok {
		t.Fatalf("expected rejection of short name, got %q", name)
	}
}
