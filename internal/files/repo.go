package files

import (
	"context"
	"time"
)

// ListFilter narrows a media file listing. Nil fields match everything.
type ListFilter struct {
	AthleteID *int64
	FileType  *string
	IsPublic  *bool
	Limit     int
	Offset    int
}

// Repo defines persistence operations for media file records.
type Repo interface {
	// Create inserts a record and returns it with the assigned ID.
	Create(ctx context.Context, f MediaFile) (MediaFile, error)
	// GetByID fetches a record, excluding soft-deleted rows.
	GetByID(ctx context.Context, id int64) (MediaFile, error)
	// GetIncludingDeleted fetches a record regardless of soft-delete state.
	GetIncludingDeleted(ctx context.Context, id int64) (MediaFile, error)
	// List returns records matching the filter, excluding soft-deleted rows.
	List(ctx context.Context, filter ListFilter) ([]MediaFile, error)
	// Update persists mutable fields of an existing record.
	Update(ctx context.Context, f MediaFile) error
	// SoftDelete marks a record deleted without removing the row.
	SoftDelete(ctx context.Context, id int64, at time.Time) error
	// HardDelete removes the row entirely.
	HardDelete(ctx context.Context, id int64) error
}
