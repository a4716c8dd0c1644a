// Package scanner enumerates video files under the configured source roots.
package scanner

import (
	"os"
	"path/filepath"
	"strings"
)

var videoExtensions = map[string]struct{}{
	".mkv":  {},
	".mp4":  {},
	".avi":  {},
	".mov":  {},
	".wmv":  {},
	".flv":  {},
	".webm": {},
	".m4v":  {},
	".mpg":  {},
	".mpeg": {},
	".ts":   {},
	".m2ts": {},
	".3gp":  {},
}

// IsVideoFile reports whether the filename carries a known video extension.
func IsVideoFile(name string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// File is one discovered video file.
type File struct {
	Path string
	Dir  string
	Name string
}

// Walk traverses root breadth first and returns every video file found.
// Unreadable directories are skipped silently so one bad mount or permission
// hole does not abort a scan.
func Walk(root string) []File {
	var files []File
	queue := []string{root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				queue = append(queue, path)
				continue
			}
			if !IsVideoFile(entry.Name()) {
				continue
			}
			files = append(files, File{Path: path, Dir: dir, Name: entry.Name()})
		}
	}
	return files
}

// Discover walks every root and returns the combined file list plus a map of
// sibling filenames keyed by parent directory, for consensus resolution.
func Discover(roots []string) ([]File, map[string][]string) {
	var files []File
	siblings := make(map[string][]string)
	for _, root := range roots {
		for _, file := range Walk(root) {
			files = append(files, file)
			siblings[file.Dir] = append(siblings[file.Dir], file.Name)
		}
	}
	return files, siblings
}
