package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tidyfin/internal/classify"
)

const itemColumns = `id, original_filename, cleaned_name, detected_type, detected_name,
	year, season, episode, extension, confidence, original_path, destination_path,
	status, duplicate_of, tmdb_id, poster_path, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(scanner rowScanner) (*MediaItem, error) {
	var (
		item         MediaItem
		cleanedName  sql.NullString
		detectedType string
		detectedName sql.NullString
		year         sql.NullInt64
		season       sql.NullInt64
		episode      sql.NullInt64
		extension    sql.NullString
		destination  sql.NullString
		status       string
		duplicateOf  sql.NullInt64
		tmdbID       sql.NullInt64
		poster       sql.NullString
		createdAt    string
		updatedAt    string
	)
	err := scanner.Scan(
		&item.ID, &item.OriginalFilename, &cleanedName, &detectedType, &detectedName,
		&year, &season, &episode, &extension, &item.Confidence, &item.OriginalPath,
		&destination, &status, &duplicateOf, &tmdbID, &poster, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.CleanedName = cleanedName.String
	item.DetectedType = classify.MediaType(detectedType)
	item.DetectedName = detectedName.String
	item.Year = intPtr(year)
	item.Season = intPtr(season)
	item.Episode = intPtr(episode)
	item.Extension = extension.String
	item.DestinationPath = destination.String
	item.Status = ItemStatus(status)
	item.DuplicateOf = int64Ptr(duplicateOf)
	item.TMDBID = int64Ptr(tmdbID)
	item.PosterPath = poster.String

	if item.CreatedAt, err = parseTimeString(createdAt); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = parseTimeString(updatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a new media item and fills in its ID and timestamps.
func (s *Store) CreateItem(ctx context.Context, item *MediaItem) error {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Status == "" {
		item.Status = ItemPending
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO media_items (
			original_filename, cleaned_name, detected_type, detected_name,
			year, season, episode, extension, confidence, original_path,
			destination_path, status, duplicate_of, tmdb_id, poster_path,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.OriginalFilename, nullableString(item.CleanedName), string(item.DetectedType),
		nullableString(item.DetectedName), nullableInt(item.Year), nullableInt(item.Season),
		nullableInt(item.Episode), nullableString(item.Extension), item.Confidence,
		item.OriginalPath, nullableString(item.DestinationPath), string(item.Status),
		nullableInt64(item.DuplicateOf), nullableInt64(item.TMDBID),
		nullableString(item.PosterPath), formatTime(now), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("insert media item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("media item id: %w", err)
	}
	item.ID = id
	return nil
}

// GetItem returns the item with the given id, or nil when it does not exist.
func (s *Store) GetItem(ctx context.Context, id int64) (*MediaItem, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM media_items WHERE id = ?", id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get media item %d: %w", id, err)
	}
	return item, nil
}

// FindItemByPath returns the item with the exact original path, or nil.
func (s *Store) FindItemByPath(ctx context.Context, path string) (*MediaItem, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM media_items WHERE original_path = ?", path)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media item by path: %w", err)
	}
	return item, nil
}

// FindItemsByFilename returns all items sharing the exact original filename,
// ordered by id. Mirrors can catalogue the same release under several paths.
func (s *Store) FindItemsByFilename(ctx context.Context, filename string) ([]*MediaItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM media_items WHERE original_filename = ? ORDER BY id", filename)
	if err != nil {
		return nil, fmt.Errorf("find media items by filename: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// UpdateItem persists all mutable fields of the item.
func (s *Store) UpdateItem(ctx context.Context, item *MediaItem) error {
	item.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		UPDATE media_items SET
			original_filename = ?, cleaned_name = ?, detected_type = ?, detected_name = ?,
			year = ?, season = ?, episode = ?, extension = ?, confidence = ?,
			original_path = ?, destination_path = ?, status = ?, duplicate_of = ?,
			tmdb_id = ?, poster_path = ?, updated_at = ?
		WHERE id = ?`,
		item.OriginalFilename, nullableString(item.CleanedName), string(item.DetectedType),
		nullableString(item.DetectedName), nullableInt(item.Year), nullableInt(item.Season),
		nullableInt(item.Episode), nullableString(item.Extension), item.Confidence,
		item.OriginalPath, nullableString(item.DestinationPath), string(item.Status),
		nullableInt64(item.DuplicateOf), nullableInt64(item.TMDBID),
		nullableString(item.PosterPath), formatTime(item.UpdatedAt), item.ID,
	)
	if err != nil {
		return fmt.Errorf("update media item %d: %w", item.ID, err)
	}
	return nil
}

// ListItems returns items filtered by status, or all items when no statuses
// are given, ordered by id.
func (s *Store) ListItems(ctx context.Context, statuses ...ItemStatus) ([]*MediaItem, error) {
	query := "SELECT " + itemColumns + " FROM media_items"
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		query += " WHERE status IN (" + makePlaceholders(len(statuses)) + ")"
		for _, status := range statuses {
			args = append(args, string(status))
		}
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list media items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ItemsByIDs returns the items with the given ids, ordered by id. Missing ids
// are skipped.
func (s *Store) ItemsByIDs(ctx context.Context, ids []int64) ([]*MediaItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	query := "SELECT " + itemColumns + " FROM media_items WHERE id IN (" + makePlaceholders(len(ids)) + ") ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("media items by ids: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// DeleteItem removes the item with the given id. Deleting a missing item is
// not an error.
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM media_items WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete media item %d: %w", id, err)
	}
	return nil
}

// ItemStats returns the number of items in each status.
func (s *Store) ItemStats(ctx context.Context) (map[ItemStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM media_items GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("media item stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[ItemStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}
		stats[ItemStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats rows: %w", err)
	}
	return stats, nil
}

func collectItems(rows *sql.Rows) ([]*MediaItem, error) {
	var items []*MediaItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media items: %w", err)
	}
	return items, nil
}
