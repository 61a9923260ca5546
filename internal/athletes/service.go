package athletes

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Service contains business logic for athlete profiles.
type Service struct {
	Repo Repo
}

// CreateInput describes a new athlete profile.
type CreateInput struct {
	Name      string
	Sport     string
	Country   string
	NickName  string
	Bio       string
	BirthDate *time.Time
	HeightCm  *float64
	WeightKg  *float64
}

// Create validates and persists a new athlete.
func (s *Service) Create(ctx context.Context, in CreateInput) (Athlete, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Sport = strings.TrimSpace(in.Sport)
	if in.Name == "" {
		return Athlete{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Sport == "" {
		return Athlete{}, fmt.Errorf("%w: sport is required", ErrInvalidInput)
	}
	if err := checkMeasurements(in.HeightCm, in.WeightKg); err != nil {
		return Athlete{}, err
	}

	return s.Repo.Create(ctx, Athlete{
		Name:      in.Name,
		Sport:     in.Sport,
		Country:   strings.TrimSpace(in.Country),
		NickName:  strings.TrimSpace(in.NickName),
		Bio:       in.Bio,
		BirthDate: in.BirthDate,
		HeightCm:  in.HeightCm,
		WeightKg:  in.WeightKg,
	})
}

// Get returns a single athlete.
func (s *Service) Get(ctx context.Context, id int64) (Athlete, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns athletes matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Athlete, error) {
	return s.Repo.List(ctx, filter)
}

// UpdateInput carries optional field changes. Nil fields are left untouched.
type UpdateInput struct {
	Name      *string
	Sport     *string
	Country   *string
	NickName  *string
	Bio       *string
	BirthDate *time.Time
	HeightCm  *float64
	WeightKg  *float64
}

// Update applies field changes to an athlete.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Athlete, error) {
	record, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Athlete{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Athlete{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		record.Name = name
	}
	if in.Sport != nil {
		sport := strings.TrimSpace(*in.Sport)
		if sport == "" {
			return Athlete{}, fmt.Errorf("%w: sport cannot be empty", ErrInvalidInput)
		}
		record.Sport = sport
	}
	if in.Country != nil {
		record.Country = strings.TrimSpace(*in.Country)
	}
	if in.NickName != nil {
		record.NickName = strings.TrimSpace(*in.NickName)
	}
	if in.Bio != nil {
		record.Bio = *in.Bio
	}
	if in.BirthDate != nil {
		record.BirthDate = in.BirthDate
	}
	if in.HeightCm != nil {
		record.HeightCm = in.HeightCm
	}
	if in.WeightKg != nil {
		record.WeightKg = in.WeightKg
	}
	if err := checkMeasurements(record.HeightCm, record.WeightKg); err != nil {
		return Athlete{}, err
	}

	if err := s.Repo.Update(ctx, record); err != nil {
		return Athlete{}, err
	}
	return s.Repo.GetByID(ctx, id)
}

// Delete soft-deletes an athlete. Media records keep their athlete id so
// history stays queryable through the files listing.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.Repo.SoftDelete(ctx, id, time.Now().UTC())
}

func checkMeasurements(heightCm, weightKg *float64) error {
	if heightCm != nil && (*heightCm <= 0 || *heightCm > 300) {
		return fmt.Errorf("%w: heightCm out of range", ErrInvalidInput)
	}
	if weightKg != nil && (*weightKg <= 0 || *weightKg > 500) {
		return fmt.Errorf("%w: weightKg out of range", ErrInvalidInput)
	}
	return nil
}
