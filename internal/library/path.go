package library

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"tidyfin/internal/classify"
	"tidyfin/internal/resolve"
	"tidyfin/internal/textutil"
)

// Paths holds the library root directories destinations are built under.
type Paths struct {
	MoviesRoot   string
	TVRoot       string
	UnsortedRoot string
}

var trailingYearRx = regexp.MustCompile(`\s*\(\d{4}\)$`)

// BuildPath renders the destination path for a parsed file with its resolved
// canonical name. It is deterministic and never fails: anything that cannot
// be placed lands under the unsorted root.
func BuildPath(parsed classify.ParsedMedia, resolution resolve.Resolution, paths Paths) string {
	switch parsed.DetectedType {
	case classify.MediaTypeMovie:
		return moviePath(parsed, resolution, paths)
	case classify.MediaTypeTV:
		if parsed.Season == nil || parsed.Episode == nil {
			return unsortedPath(parsed, paths)
		}
		return episodePath(parsed, resolution, paths)
	default:
		return unsortedPath(parsed, paths)
	}
}

func moviePath(parsed classify.ParsedMedia, resolution resolve.Resolution, paths Paths) string {
	name := displayName(resolution.Name, parsed)
	folder := name
	if resolution.Year != nil {
		folder = fmt.Sprintf("%s (%d)", name, *resolution.Year)
	}
	folder = textutil.SanitizeFileName(folder)
	return filepath.Join(paths.MoviesRoot, folder, folder+extSuffix(parsed.Extension))
}

func episodePath(parsed classify.ParsedMedia, resolution resolve.Resolution, paths Paths) string {
	folder := resolution.FolderPath
	if folder == "" {
		name := displayName(resolution.Name, parsed)
		folder = name
		if resolution.Year != nil {
			folder = fmt.Sprintf("%s (%d)", name, *resolution.Year)
		}
	}
	folder = textutil.SanitizeFileName(folder)

	// The episode filename drops a trailing (YYYY) so the year never appears
	// twice in the path.
	seriesOnly := strings.TrimSpace(trailingYearRx.ReplaceAllString(folder, ""))
	if seriesOnly == "" {
		seriesOnly = folder
	}

	season := fmt.Sprintf("Season %02d", *parsed.Season)
	filename := fmt.Sprintf("%s - S%02dE%02d%s", seriesOnly, *parsed.Season, *parsed.Episode, extSuffix(parsed.Extension))
	return filepath.Join(paths.TVRoot, folder, season, filename)
}

func unsortedPath(parsed classify.ParsedMedia, paths Paths) string {
	name := strings.TrimSpace(parsed.CleanedName)
	if name == "" {
		name = strings.TrimSuffix(parsed.OriginalFilename, filepath.Ext(parsed.OriginalFilename))
	}
	name = textutil.SanitizeFileName(name)
	return filepath.Join(paths.UnsortedRoot, name+extSuffix(parsed.Extension))
}

func displayName(resolved string, parsed classify.ParsedMedia) string {
	name := strings.TrimSpace(resolved)
	if name == "" {
		name = strings.TrimSpace(parsed.DetectedName)
	}
	if name == "" {
		name = strings.TrimSpace(parsed.CleanedName)
	}
	return classify.TitleCase(name)
}

func extSuffix(ext string) string {
	if ext == "" {
		return ""
	}
	return "." + ext
}
