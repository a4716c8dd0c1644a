package daemon

import (
	"time"

	"tidyfin/internal/catalog"
	"tidyfin/internal/dedup"
)

type statusResponse struct {
	Running      bool           `json:"running"`
	DatabasePath string         `json:"database_path"`
	LockFilePath string         `json:"lock_file_path"`
	Items        map[string]int `json:"items"`
	LastScan     *jobPayload    `json:"last_scan,omitempty"`
	LastOrganize *jobPayload    `json:"last_organize,omitempty"`
}

type jobStartResponse struct {
	JobID   int64 `json:"job_id"`
	Started bool  `json:"started"`
}

type organizeRequest struct {
	IDs    []int64 `json:"ids"`
	DryRun bool    `json:"dry_run"`
}

type jobPayload struct {
	ID             int64    `json:"id"`
	Kind           string   `json:"kind"`
	Status         string   `json:"status"`
	TotalFiles     int      `json:"total_files"`
	ProcessedFiles int      `json:"processed_files"`
	NewItems       int      `json:"new_items"`
	SuccessCount   int      `json:"success_count"`
	FailedCount    int      `json:"failed_count"`
	CurrentFile    string   `json:"current_file,omitempty"`
	CurrentFolder  string   `json:"current_folder,omitempty"`
	DryRun         bool     `json:"dry_run"`
	ErrorMessage   string   `json:"error,omitempty"`
	Errors         []string `json:"errors,omitempty"`
	CreatedAt      string   `json:"created_at"`
	CompletedAt    string   `json:"completed_at,omitempty"`
}

type itemPayload struct {
	ID               int64  `json:"id"`
	OriginalFilename string `json:"original_filename"`
	DetectedType     string `json:"detected_type"`
	DetectedName     string `json:"detected_name"`
	Year             *int   `json:"year,omitempty"`
	Season           *int   `json:"season,omitempty"`
	Episode          *int   `json:"episode,omitempty"`
	Confidence       int    `json:"confidence"`
	OriginalPath     string `json:"original_path"`
	DestinationPath  string `json:"destination_path"`
	Status           string `json:"status"`
	DuplicateOf      *int64 `json:"duplicate_of,omitempty"`
}

type itemListResponse struct {
	Items []itemPayload `json:"items"`
}

type duplicateMemberPayload struct {
	ID         int64  `json:"id"`
	Filename   string `json:"filename"`
	Similarity int    `json:"similarity"`
	IsOriginal bool   `json:"is_original"`
}

type duplicateGroupPayload struct {
	GroupID  string                   `json:"group_id"`
	BaseName string                   `json:"base_name"`
	Members  []duplicateMemberPayload `json:"members"`
}

type duplicateListResponse struct {
	Groups []duplicateGroupPayload `json:"groups"`
}

func jobView(job *catalog.Job) jobPayload {
	payload := jobPayload{
		ID:             job.ID,
		Kind:           string(job.Kind),
		Status:         string(job.Status),
		TotalFiles:     job.TotalFiles,
		ProcessedFiles: job.ProcessedFiles,
		NewItems:       job.NewItems,
		SuccessCount:   job.SuccessCount,
		FailedCount:    job.FailedCount,
		CurrentFile:    job.CurrentFile,
		CurrentFolder:  job.CurrentFolder,
		DryRun:         job.DryRun,
		ErrorMessage:   job.ErrorMessage,
		Errors:         job.Errors,
		CreatedAt:      job.CreatedAt.Format(time.RFC3339),
	}
	if job.CompletedAt != nil {
		payload.CompletedAt = job.CompletedAt.Format(time.RFC3339)
	}
	return payload
}

func jobViewOrNil(job *catalog.Job) *jobPayload {
	if job == nil {
		return nil
	}
	payload := jobView(job)
	return &payload
}

func itemViews(items []*catalog.MediaItem) []itemPayload {
	views := make([]itemPayload, 0, len(items))
	for _, item := range items {
		views = append(views, itemPayload{
			ID:               item.ID,
			OriginalFilename: item.OriginalFilename,
			DetectedType:     string(item.DetectedType),
			DetectedName:     item.DetectedName,
			Year:             item.Year,
			Season:           item.Season,
			Episode:          item.Episode,
			Confidence:       item.Confidence,
			OriginalPath:     item.OriginalPath,
			DestinationPath:  item.DestinationPath,
			Status:           string(item.Status),
			DuplicateOf:      item.DuplicateOf,
		})
	}
	return views
}

func groupViews(groups []dedup.Group) []duplicateGroupPayload {
	views := make([]duplicateGroupPayload, 0, len(groups))
	for _, group := range groups {
		members := make([]duplicateMemberPayload, 0, len(group.Members))
		for _, member := range group.Members {
			members = append(members, duplicateMemberPayload{
				ID:         member.ID,
				Filename:   member.Filename,
				Similarity: member.Similarity,
				IsOriginal: member.IsOriginal,
			})
		}
		views = append(views, duplicateGroupPayload{
			GroupID:  group.GroupID,
			BaseName: group.BaseName,
			Members:  members,
		})
	}
	return views
}

func itemStatsView(stats map[catalog.ItemStatus]int) map[string]int {
	view := make(map[string]int, len(stats))
	for status, count := range stats {
		view[string(status)] = count
	}
	return view
}
