package athletes

import (
	"context"
	"time"
)

// ListFilter narrows an athlete listing. Nil fields match everything.
type ListFilter struct {
	Sport   *string
	Country *string
	Limit   int
	Offset  int
}

// Repo defines persistence operations for athlete records.
type Repo interface {
	Create(ctx context.Context, a Athlete) (Athlete, error)
	GetByID(ctx context.Context, id int64) (Athlete, error)
	List(ctx context.Context, filter ListFilter) ([]Athlete, error)
	Update(ctx context.Context, a Athlete) error
	SoftDelete(ctx context.Context, id int64, at time.Time) error
}
