package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const jobColumns = `id, kind, status, total_files, processed_files, new_items,
	success_count, failed_count, current_file, current_folder, dry_run,
	error_message, errors_json, created_at, updated_at, completed_at`

func scanJob(scanner rowScanner) (*Job, error) {
	var (
		job           Job
		kind          string
		status        string
		currentFile   sql.NullString
		currentFolder sql.NullString
		dryRun        int
		errorMessage  sql.NullString
		errorsJSON    sql.NullString
		createdAt     string
		updatedAt     string
		completedAt   sql.NullString
	)
	err := scanner.Scan(
		&job.ID, &kind, &status, &job.TotalFiles, &job.ProcessedFiles, &job.NewItems,
		&job.SuccessCount, &job.FailedCount, &currentFile, &currentFolder, &dryRun,
		&errorMessage, &errorsJSON, &createdAt, &updatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Kind = JobKind(kind)
	job.Status = JobStatus(status)
	job.CurrentFile = currentFile.String
	job.CurrentFolder = currentFolder.String
	job.DryRun = dryRun != 0
	job.ErrorMessage = errorMessage.String

	if errorsJSON.Valid && errorsJSON.String != "" {
		if err := json.Unmarshal([]byte(errorsJSON.String), &job.Errors); err != nil {
			return nil, fmt.Errorf("decode job errors: %w", err)
		}
	}
	if job.CreatedAt, err = parseTimeString(createdAt); err != nil {
		return nil, err
	}
	if job.UpdatedAt, err = parseTimeString(updatedAt); err != nil {
		return nil, err
	}
	if completedAt.Valid && completedAt.String != "" {
		t, err := parseTimeString(completedAt.String)
		if err != nil {
			return nil, err
		}
		job.CompletedAt = &t
	}
	return &job, nil
}

func encodeJobErrors(errs []string) (any, error) {
	if len(errs) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(errs)
	if err != nil {
		return nil, fmt.Errorf("encode job errors: %w", err)
	}
	return string(data), nil
}

// CreateJob inserts a new job record and fills in its ID. The status defaults
// to pending.
func (s *Store) CreateJob(ctx context.Context, job *Job) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = JobPending
	}

	errorsValue, err := encodeJobErrors(job.Errors)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (kind, status, total_files, processed_files, new_items,
			success_count, failed_count, current_file, current_folder, dry_run,
			error_message, errors_json, created_at, updated_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(job.Kind), string(job.Status), job.TotalFiles, job.ProcessedFiles,
		job.NewItems, job.SuccessCount, job.FailedCount, nullableString(job.CurrentFile),
		nullableString(job.CurrentFolder), boolToInt(job.DryRun),
		nullableString(job.ErrorMessage), errorsValue,
		formatTime(now), formatTime(now), nullableTime(job.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("job id: %w", err)
	}
	job.ID = id
	return nil
}

// ActiveJob returns the pending or running job of the given kind, or nil when
// none is active.
func (s *Store) ActiveJob(ctx context.Context, kind JobKind) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+jobColumns+` FROM jobs
		WHERE kind = ? AND status IN ('pending', 'running')
		ORDER BY id DESC LIMIT 1`, string(kind))
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("active %s job: %w", kind, err)
	}
	return job, nil
}

// GetJob returns the job with the given id, or nil when it does not exist.
func (s *Store) GetJob(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = ?", id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", id, err)
	}
	return job, nil
}

// LatestJob returns the most recent job of the given kind, or nil.
func (s *Store) LatestJob(ctx context.Context, kind JobKind) (*Job, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE kind = ? ORDER BY id DESC LIMIT 1", string(kind))
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest %s job: %w", kind, err)
	}
	return job, nil
}

// ListJobs returns the most recent jobs across all kinds, newest first.
func (s *Store) ListJobs(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+jobColumns+" FROM jobs ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

// UpdateJob persists all mutable fields of the job.
func (s *Store) UpdateJob(ctx context.Context, job *Job) error {
	job.UpdatedAt = time.Now().UTC()
	errorsValue, err := encodeJobErrors(job.Errors)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, total_files = ?, processed_files = ?, new_items = ?,
			success_count = ?, failed_count = ?, current_file = ?, current_folder = ?,
			error_message = ?, errors_json = ?, updated_at = ?, completed_at = ?
		WHERE id = ?`,
		string(job.Status), job.TotalFiles, job.ProcessedFiles, job.NewItems,
		job.SuccessCount, job.FailedCount, nullableString(job.CurrentFile),
		nullableString(job.CurrentFolder), nullableString(job.ErrorMessage),
		errorsValue, formatTime(job.UpdatedAt), nullableTime(job.CompletedAt), job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job %d: %w", job.ID, err)
	}
	return nil
}
