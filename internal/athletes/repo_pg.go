package athletes

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

const athleteColumns = `
id, name, sport, country, nick_name, bio, birth_date, height_cm, weight_kg,
created_at, updated_at, deleted_at`

func (r *PGRepo) Create(ctx context.Context, a Athlete) (Athlete, error) {
	const query = `
INSERT INTO athletes (
    name, sport, country, nick_name, bio, birth_date, height_cm, weight_kg,
    created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
RETURNING id`

	now := a.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	err := r.DB.QueryRowContext(
		ctx,
		query,
		a.Name,
		a.Sport,
		a.Country,
		a.NickName,
		a.Bio,
		a.BirthDate,
		a.HeightCm,
		a.WeightKg,
		now,
	).Scan(&a.ID)
	if err != nil {
		return Athlete{}, fmt.Errorf("insert athlete: %w", err)
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	return a, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (Athlete, error) {
	query := `SELECT ` + athleteColumns + `
FROM athletes
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1`
	a, err := scanAthlete(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Athlete{}, ErrNotFound
		}
		return Athlete{}, err
	}
	return a, nil
}

func (r *PGRepo) List(ctx context.Context, filter ListFilter) ([]Athlete, error) {
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

	query := `SELECT ` + athleteColumns + `
FROM athletes
WHERE deleted_at IS NULL`
	args := []any{}
	idx := 1

	if filter.Sport != nil {
		query += fmt.Sprintf(" AND sport = $%d", idx)
		args = append(args, *filter.Sport)
		idx++
	}
	if filter.Country != nil {
		query += fmt.Sprintf(" AND country = $%d", idx)
		args = append(args, *filter.Country)
		idx++
	}

	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list athletes: %w", err)
	}
	defer rows.Close()

	var out []Athlete
	for rows.Next() {
		a, err := scanAthlete(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, a Athlete) error {
	const query = `
UPDATE athletes
SET name = $1,
    sport = $2,
    country = $3,
    nick_name = $4,
    bio = $5,
    birth_date = $6,
    height_cm = $7,
    weight_kg = $8,
    updated_at = $9
WHERE id = $10 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(
		ctx,
		query,
		a.Name,
		a.Sport,
		a.Country,
		a.NickName,
		a.Bio,
		a.BirthDate,
		a.HeightCm,
		a.WeightKg,
		time.Now().UTC(),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("update athlete: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	const query = `
UPDATE athletes
SET deleted_at = $1, updated_at = $1
WHERE id = $2 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("soft delete athlete: %w", err)
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

func scanAthlete(row rowScanner) (Athlete, error) {
	var a Athlete
	var nickName sql.NullString
	var bio sql.NullString
	var birthDate sql.NullTime
	var heightCm sql.NullFloat64
	var weightKg sql.NullFloat64
	var deletedAt sql.NullTime
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Sport,
		&a.Country,
		&nickName,
		&bio,
		&birthDate,
		&heightCm,
		&weightKg,
		&a.CreatedAt,
		&a.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return Athlete{}, err
	}
	if nickName.Valid {
		a.NickName = nickName.String
	}
	if bio.Valid {
		a.Bio = bio.String
	}
	if birthDate.Valid {
		t := birthDate.Time
		a.BirthDate = &t
	}
	if heightCm.Valid {
		v := heightCm.Float64
		a.HeightCm = &v
	}
	if weightKg.Valid {
		v := weightKg.Float64
		a.WeightKg = &v
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		a.DeletedAt = &t
	}
	return a, nil
}

var _ Repo = (*PGRepo)(nil)
