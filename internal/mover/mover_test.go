package mover_test

import (
	"os"
	"path/filepath"
	"testing"

	"tidyfin/internal/mover"
	"tidyfin/internal/testsupport"
)

func TestMoveRenamesWithinFilesystem(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "incoming", "movie.mkv")
	target := filepath.Join(base, "library", "Movies", "Movie (2020)", "Movie (2020).mkv")
	testsupport.WriteFile(t, source, 4096)

	if err := mover.Move(source, target); err != nil {
		t.Fatalf("Move: %v", err)
	}

	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Fatalf("expected source removed, stat err: %v", err)
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("stat target: %v", err)
	}
	if info.Size() != 4096 {
		t.Fatalf("expected 4096 bytes, got %d", info.Size())
	}
}

func TestMoveMissingSourceFails(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "missing.mkv")
	target := filepath.Join(base, "library", "missing.mkv")

	if err := mover.Move(source, target); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatalf("expected no target created, stat err: %v", err)
	}
}

func TestMoveFailureLeavesSourceIntact(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "movie.mkv")
	testsupport.WriteFile(t, source, 1024)

	// A plain file where a parent directory is needed makes MkdirAll fail.
	blocker := filepath.Join(base, "library")
	testsupport.WriteFile(t, blocker, 1)
	target := filepath.Join(blocker, "Movies", "movie.mkv")

	if err := mover.Move(source, target); err == nil {
		t.Fatal("expected move to fail")
	}
	info, err := os.Stat(source)
	if err != nil {
		t.Fatalf("expected source to survive failed move: %v", err)
	}
	if info.Size() != 1024 {
		t.Fatalf("source size changed: %d", info.Size())
	}
}

func TestMoveRefusesOccupiedDestination(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "movie.copy.mkv")
	target := filepath.Join(base, "library", "Movies", "Movie (2020)", "Movie (2020).mkv")
	testsupport.WriteFile(t, source, 100)
	testsupport.WriteFile(t, target, 4096)

	if err := mover.Move(source, target); err == nil {
		t.Fatal("expected error for occupied destination")
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("stat target: %v", err)
	}
	if info.Size() != 4096 {
		t.Fatalf("occupied destination was replaced, size now %d", info.Size())
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("expected source to survive refused move: %v", err)
	}
}

func TestCopyFileVerified(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "source.mkv")
	target := filepath.Join(base, "target.mkv")
	testsupport.WriteFile(t, source, 8192)

	if err := mover.CopyFileVerified(source, target); err != nil {
		t.Fatalf("CopyFileVerified: %v", err)
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("stat target: %v", err)
	}
	if info.Size() != 8192 {
		t.Fatalf("expected 8192 bytes, got %d", info.Size())
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("copy must not remove the source: %v", err)
	}
}

func TestRemoveEmptyAncestors(t *testing.T) {
	root := t.TempDir()
	moved := filepath.Join(root, "shows", "mirzapur", "season1", "ep.mkv")
	testsupport.WriteFile(t, moved, 1)
	if err := os.Remove(moved); err != nil {
		t.Fatalf("remove file: %v", err)
	}

	mover.RemoveEmptyAncestors(moved, root)

	if _, err := os.Stat(filepath.Join(root, "shows")); !os.IsNotExist(err) {
		t.Fatalf("expected empty tree removed, stat err: %v", err)
	}
	if _, err := os.Stat(root); err != nil {
		t.Fatalf("root must never be removed: %v", err)
	}
}

func TestRemoveEmptyAncestorsStopsAtNonEmpty(t *testing.T) {
	root := t.TempDir()
	keep := filepath.Join(root, "shows", "other.mkv")
	testsupport.WriteFile(t, keep, 1)
	moved := filepath.Join(root, "shows", "mirzapur", "ep.mkv")
	testsupport.WriteFile(t, moved, 1)
	if err := os.Remove(moved); err != nil {
		t.Fatalf("remove file: %v", err)
	}

	mover.RemoveEmptyAncestors(moved, root)

	if _, err := os.Stat(filepath.Join(root, "shows", "mirzapur")); !os.IsNotExist(err) {
		t.Fatalf("expected empty dir removed, stat err: %v", err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("non-empty dir contents must survive: %v", err)
	}
}

func TestVerifyDryRun(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "movie.mkv")
	testsupport.WriteFile(t, source, 10)
	targetDir := filepath.Join(base, "library", "Movies")

	if err := mover.VerifyDryRun(source, targetDir); err != nil {
		t.Fatalf("VerifyDryRun: %v", err)
	}

	entries, err := os.ReadDir(targetDir)
	if err != nil {
		t.Fatalf("read target dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected scratch file removed, found %d entries", len(entries))
	}

	if err := mover.VerifyDryRun(filepath.Join(base, "missing.mkv"), targetDir); err == nil {
		t.Fatal("expected error for unreadable source")
	}
}
