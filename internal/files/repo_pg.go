package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const mediaFileColumns = `
id, filename, original_filename, file_type, mime_type, file_size, file_key,
is_public, public_url, athlete_id, width, height, duration,
created_at, updated_at, deleted_at`

// Create inserts a new media file record.
func (r *PGRepo) Create(ctx context.Context, f MediaFile) (MediaFile, error) {
	const query = `
INSERT INTO media_files (
    filename,
    original_filename,
    file_type,
    mime_type,
    file_size,
    file_key,
    is_public,
    public_url,
    athlete_id,
    width,
    height,
    duration,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
RETURNING id`

	now := f.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	err := r.DB.QueryRowContext(
		ctx,
		query,
		f.Filename,
		f.OriginalFilename,
		f.FileType,
		f.MimeType,
		f.FileSize,
		f.FileKey,
		f.IsPublic,
		nullableString(f.PublicURL),
		f.AthleteID,
		f.Width,
		f.Height,
		f.Duration,
		now,
	).Scan(&f.ID)
	if err != nil {
		return MediaFile{}, fmt.Errorf("insert media file: %w", err)
	}
	f.CreatedAt = now
	f.UpdatedAt = now
	return f, nil
}

// GetByID fetches a record, excluding soft-deleted rows.
func (r *PGRepo) GetByID(ctx context.Context, id int64) (MediaFile, error) {
	query := `SELECT ` + mediaFileColumns + `
FROM media_files
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

// GetIncludingDeleted fetches a record regardless of soft-delete state.
func (r *PGRepo) GetIncludingDeleted(ctx context.Context, id int64) (MediaFile, error) {
	query := `SELECT ` + mediaFileColumns + `
FROM media_files
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

// List returns records matching the filter, newest first.
func (r *PGRepo) List(ctx context.Context, filter ListFilter) ([]MediaFile, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + mediaFileColumns + `
FROM media_files
WHERE deleted_at IS NULL`
	args := []any{}
	idx := 1

	if filter.AthleteID != nil {
		query += fmt.Sprintf(" AND athlete_id = $%d", idx)
		args = append(args, *filter.AthleteID)
		idx++
	}
	if filter.FileType != nil {
		query += fmt.Sprintf(" AND file_type = $%d", idx)
		args = append(args, *filter.FileType)
		idx++
	}
	if filter.IsPublic != nil {
		query += fmt.Sprintf(" AND is_public = $%d", idx)
		args = append(args, *filter.IsPublic)
		idx++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list media files: %w", err)
	}
	defer rows.Close()

	var out []MediaFile
	for rows.Next() {
		f, err := scanMediaFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Update persists mutable fields of an existing record.
func (r *PGRepo) Update(ctx context.Context, f MediaFile) error {
	const query = `
UPDATE media_files
SET filename = $1,
    mime_type = $2,
    file_size = $3,
    is_public = $4,
    public_url = $5,
    athlete_id = $6,
    width = $7,
    height = $8,
    duration = $9,
    updated_at = $10
WHERE id = $11`
	res, err := r.DB.ExecContext(
		ctx,
		query,
		f.Filename,
		f.MimeType,
		f.FileSize,
		f.IsPublic,
		nullableString(f.PublicURL),
		f.AthleteID,
		f.Width,
		f.Height,
		f.Duration,
		time.Now().UTC(),
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("update media file: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks a record deleted.
func (r *PGRepo) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	const query = `
UPDATE media_files
SET deleted_at = $1, updated_at = $1
WHERE id = $2 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("soft delete media file: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// HardDelete removes the row entirely.
func (r *PGRepo) HardDelete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM media_files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("hard delete media file: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (MediaFile, error) {
	f, err := scanMediaFile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MediaFile{}, ErrNotFound
		}
		return MediaFile{}, err
	}
	return f, nil
}

func scanMediaFile(row rowScanner) (MediaFile, error) {
	var f MediaFile
	var publicURL sql.NullString
	var athleteID sql.NullInt64
	var width sql.NullInt64
	var height sql.NullInt64
	var duration sql.NullFloat64
	var deletedAt sql.NullTime
	err := row.Scan(
		&f.ID,
		&f.Filename,
		&f.OriginalFilename,
		&f.FileType,
		&f.MimeType,
		&f.FileSize,
		&f.FileKey,
		&f.IsPublic,
		&publicURL,
		&athleteID,
		&width,
		&height,
		&duration,
		&f.CreatedAt,
		&f.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return MediaFile{}, err
	}
	if publicURL.Valid {
		f.PublicURL = publicURL.String
	}
	if athleteID.Valid {
		id := athleteID.Int64
		f.AthleteID = &id
	}
	if width.Valid {
		w := int(width.Int64)
		f.Width = &w
	}
	if height.Valid {
		h := int(height.Int64)
		f.Height = &h
	}
	if duration.Valid {
		d := duration.Float64
		f.Duration = &d
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		f.DeletedAt = &t
	}
	return f, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
