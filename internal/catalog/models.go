package catalog

import (
	"strings"
	"time"

	"tidyfin/internal/classify"
)

// ItemStatus represents the lifecycle of a catalogued media item.
type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemOrganized ItemStatus = "organized"
	ItemDuplicate ItemStatus = "duplicate"
	ItemConflict  ItemStatus = "conflict"
)

var itemStatusSet = map[ItemStatus]struct{}{
	ItemPending:   {},
	ItemOrganized: {},
	ItemDuplicate: {},
	ItemConflict:  {},
}

// ParseItemStatus converts a string into a known ItemStatus.
func ParseItemStatus(value string) (ItemStatus, bool) {
	normalized := ItemStatus(strings.ToLower(strings.TrimSpace(value)))
	_, ok := itemStatusSet[normalized]
	return normalized, ok
}

// JobKind distinguishes the two background job types.
type JobKind string

const (
	JobKindScan     JobKind = "scan"
	JobKindOrganize JobKind = "organize"
)

// JobStatus represents the lifecycle of a background job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether a job status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// MediaItem is one catalogued video file. It carries the classifier output
// alongside the physical source and destination paths.
type MediaItem struct {
	ID               int64
	OriginalFilename string
	CleanedName      string
	DetectedType     classify.MediaType
	DetectedName     string
	Year             *int
	Season           *int
	Episode          *int
	Extension        string
	Confidence       int
	OriginalPath     string
	DestinationPath  string
	Status           ItemStatus
	DuplicateOf      *int64
	TMDBID           *int64
	PosterPath       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Movie is the aggregate record for one organized movie.
type Movie struct {
	ID         int64
	Name       string
	Year       *int
	TMDBID     *int64
	PosterPath string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TvSeries is the aggregate record for one organized series. FolderPath is
// the exact on-disk folder name; once set it is never renamed, so later
// episodes land in the same folder even when their own parse disagrees.
type TvSeries struct {
	ID            int64
	Name          string
	Year          *int
	FolderPath    string
	TotalSeasons  int
	TotalEpisodes int
	TMDBID        *int64
	PosterPath    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Job is a persisted background job record. At most one job per kind may be
// active (pending or running) at a time.
type Job struct {
	ID             int64
	Kind           JobKind
	Status         JobStatus
	TotalFiles     int
	ProcessedFiles int
	NewItems       int
	SuccessCount   int
	FailedCount    int
	CurrentFile    string
	CurrentFolder  string
	DryRun         bool
	ErrorMessage   string
	Errors         []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
}

// Active reports whether the job still counts against the single-flight limit.
func (j *Job) Active() bool {
	return j != nil && !j.Status.Terminal()
}
