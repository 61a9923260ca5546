package athletes

import (
	"errors"
	"time"
)

var (
	// ErrNotFound signals a missing or soft-deleted athlete record.
	ErrNotFound = errors.New("athlete not found")
	// ErrInvalidInput signals rejected caller input.
	ErrInvalidInput = errors.New("invalid input")
)

// Athlete is the persisted record for one athlete profile.
type Athlete struct {
	ID        int64
	Name      string
	Sport     string
	Country   string
	NickName  string
	Bio       string
	BirthDate *time.Time
	HeightCm  *float64
	WeightKg  *float64
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
