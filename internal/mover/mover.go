// Package mover performs crash-safe file moves into the library tree. A
// same-filesystem rename is attempted first; across devices it falls back to
// copy, size verification, and only then source deletion.
package mover

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// Move relocates sourcePath to targetPath, creating parent directories as
// needed. An occupied destination is an error; the source is never deleted
// before the destination is verified.
func Move(sourcePath, targetPath string) error {
	if _, err := os.Stat(targetPath); err == nil {
		return fmt.Errorf("destination already exists: %s", targetPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat destination: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}
	if err := os.Rename(sourcePath, targetPath); err != nil {
		var linkErr *os.LinkError
		if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
			if err := CopyFileVerified(sourcePath, targetPath); err != nil {
				return fmt.Errorf("copy file across devices: %w", err)
			}
			if err := os.Remove(sourcePath); err != nil {
				return fmt.Errorf("remove source after copy: %w", err)
			}
			return nil
		}
		return fmt.Errorf("move file: %w", err)
	}
	return nil
}

// CopyFileVerified copies source to target and verifies the byte sizes
// match. A partial or mismatched copy is removed before returning the error.
func CopyFileVerified(sourcePath, targetPath string) error {
	source, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	dest, err := os.OpenFile(targetPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(dest, source); err != nil {
		dest.Close()
		_ = os.Remove(targetPath)
		return fmt.Errorf("copy data: %w", err)
	}
	if err := dest.Sync(); err != nil {
		dest.Close()
		_ = os.Remove(targetPath)
		return fmt.Errorf("sync destination: %w", err)
	}
	if err := dest.Close(); err != nil {
		_ = os.Remove(targetPath)
		return fmt.Errorf("close destination: %w", err)
	}

	written, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("stat destination: %w", err)
	}
	if written.Size() != info.Size() {
		_ = os.Remove(targetPath)
		return fmt.Errorf("size mismatch after copy: source %d bytes, destination %d bytes",
			info.Size(), written.Size())
	}
	return nil
}

// RemoveEmptyAncestors walks from the file's directory up toward root,
// removing each directory that is empty. It stops at the first non-empty
// directory or at root itself. Failures are swallowed; cleanup is best
// effort.
func RemoveEmptyAncestors(path, root string) {
	root = filepath.Clean(root)
	dir := filepath.Clean(filepath.Dir(path))
	for dir != root && strings.HasPrefix(dir, root+string(filepath.Separator)) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

// VerifyDryRun checks that the source is readable and the target directory
// is writable, using a scratch file that is removed immediately. No move is
// performed.
func VerifyDryRun(sourcePath, targetDir string) error {
	source, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	source.Close()

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}
	scratch, err := os.CreateTemp(targetDir, ".tidyfin-preflight-*")
	if err != nil {
		return fmt.Errorf("write probe in target directory: %w", err)
	}
	name := scratch.Name()
	if _, err := scratch.Write([]byte("ok")); err != nil {
		scratch.Close()
		_ = os.Remove(name)
		return fmt.Errorf("write probe data: %w", err)
	}
	if err := scratch.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("close probe: %w", err)
	}
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("remove probe: %w", err)
	}
	return nil
}
