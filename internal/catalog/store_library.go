package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const movieColumns = "id, name, year, tmdb_id, poster_path, created_at, updated_at"

const seriesColumns = `id, name, year, folder_path, total_seasons, total_episodes,
	tmdb_id, poster_path, created_at, updated_at`

func scanMovie(scanner rowScanner) (*Movie, error) {
	var (
		movie     Movie
		year      sql.NullInt64
		tmdbID    sql.NullInt64
		poster    sql.NullString
		createdAt string
		updatedAt string
	)
	err := scanner.Scan(&movie.ID, &movie.Name, &year, &tmdbID, &poster, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	movie.Year = intPtr(year)
	movie.TMDBID = int64Ptr(tmdbID)
	movie.PosterPath = poster.String
	if movie.CreatedAt, err = parseTimeString(createdAt); err != nil {
		return nil, err
	}
	if movie.UpdatedAt, err = parseTimeString(updatedAt); err != nil {
		return nil, err
	}
	return &movie, nil
}

func scanSeries(scanner rowScanner) (*TvSeries, error) {
	var (
		series    TvSeries
		year      sql.NullInt64
		folder    sql.NullString
		tmdbID    sql.NullInt64
		poster    sql.NullString
		createdAt string
		updatedAt string
	)
	err := scanner.Scan(
		&series.ID, &series.Name, &year, &folder, &series.TotalSeasons,
		&series.TotalEpisodes, &tmdbID, &poster, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	series.Year = intPtr(year)
	series.FolderPath = folder.String
	series.TMDBID = int64Ptr(tmdbID)
	series.PosterPath = poster.String
	if series.CreatedAt, err = parseTimeString(createdAt); err != nil {
		return nil, err
	}
	if series.UpdatedAt, err = parseTimeString(updatedAt); err != nil {
		return nil, err
	}
	return &series, nil
}

// CreateMovie inserts a new movie aggregate and fills in its ID.
func (s *Store) CreateMovie(ctx context.Context, movie *Movie) error {
	now := time.Now().UTC()
	movie.CreatedAt = now
	movie.UpdatedAt = now

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO movies (name, year, tmdb_id, poster_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		movie.Name, nullableInt(movie.Year), nullableInt64(movie.TMDBID),
		nullableString(movie.PosterPath), formatTime(now), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("movie id: %w", err)
	}
	movie.ID = id
	return nil
}

// FindMovie returns the movie with the given name and year, or nil. Name
// comparison is case-insensitive; a nil year matches only records without one.
func (s *Store) FindMovie(ctx context.Context, name string, year *int) (*Movie, error) {
	query := "SELECT " + movieColumns + " FROM movies WHERE name = ? COLLATE NOCASE"
	args := []any{name}
	if year != nil {
		query += " AND year = ?"
		args = append(args, *year)
	} else {
		query += " AND year IS NULL"
	}

	row := s.db.QueryRowContext(ctx, query, args...)
	movie, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find movie %q: %w", name, err)
	}
	return movie, nil
}

// UpdateMovie persists all mutable fields of the movie.
func (s *Store) UpdateMovie(ctx context.Context, movie *Movie) error {
	movie.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		UPDATE movies SET name = ?, year = ?, tmdb_id = ?, poster_path = ?, updated_at = ?
		WHERE id = ?`,
		movie.Name, nullableInt(movie.Year), nullableInt64(movie.TMDBID),
		nullableString(movie.PosterPath), formatTime(movie.UpdatedAt), movie.ID,
	)
	if err != nil {
		return fmt.Errorf("update movie %d: %w", movie.ID, err)
	}
	return nil
}

// ListMovies returns all movies ordered by name.
func (s *Store) ListMovies(ctx context.Context) ([]*Movie, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+movieColumns+" FROM movies ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	var movies []*Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

// CreateSeries inserts a new series aggregate and fills in its ID.
func (s *Store) CreateSeries(ctx context.Context, series *TvSeries) error {
	now := time.Now().UTC()
	series.CreatedAt = now
	series.UpdatedAt = now

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tv_series (name, year, folder_path, total_seasons, total_episodes,
			tmdb_id, poster_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		series.Name, nullableInt(series.Year), nullableString(series.FolderPath),
		series.TotalSeasons, series.TotalEpisodes, nullableInt64(series.TMDBID),
		nullableString(series.PosterPath), formatTime(now), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("insert series: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("series id: %w", err)
	}
	series.ID = id
	return nil
}

// FindSeries returns the series with the given name, or nil. Name comparison
// is case-insensitive.
func (s *Store) FindSeries(ctx context.Context, name string) (*TvSeries, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+seriesColumns+" FROM tv_series WHERE name = ? COLLATE NOCASE", name)
	series, err := scanSeries(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find series %q: %w", name, err)
	}
	return series, nil
}

// UpdateSeries persists all mutable fields of the series.
func (s *Store) UpdateSeries(ctx context.Context, series *TvSeries) error {
	series.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		UPDATE tv_series SET name = ?, year = ?, folder_path = ?, total_seasons = ?,
			total_episodes = ?, tmdb_id = ?, poster_path = ?, updated_at = ?
		WHERE id = ?`,
		series.Name, nullableInt(series.Year), nullableString(series.FolderPath),
		series.TotalSeasons, series.TotalEpisodes, nullableInt64(series.TMDBID),
		nullableString(series.PosterPath), formatTime(series.UpdatedAt), series.ID,
	)
	if err != nil {
		return fmt.Errorf("update series %d: %w", series.ID, err)
	}
	return nil
}

// ListSeries returns all series ordered by name.
func (s *Store) ListSeries(ctx context.Context) ([]*TvSeries, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+seriesColumns+" FROM tv_series ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var all []*TvSeries
	for rows.Next() {
		series, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		all = append(all, series)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series: %w", err)
	}
	return all, nil
}
