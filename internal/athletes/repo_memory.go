package athletes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for dev mode and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]Athlete
}

// NewMemoryRepo constructs an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, items: make(map[int64]Athlete)}
}

func (r *MemoryRepo) Create(ctx context.Context, a Athlete) (Athlete, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.nextID
	r.nextID++
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.UpdatedAt = a.CreatedAt
	r.items[a.ID] = a
	return a, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Athlete, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.items[id]
	if !ok || a.DeletedAt != nil {
		return Athlete{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryRepo) List(ctx context.Context, filter ListFilter) ([]Athlete, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Athlete
	for _, a := range r.items {
		if a.DeletedAt != nil {
			continue
		}
		if filter.Sport != nil && a.Sport != *filter.Sport {
			continue
		}
		if filter.Country != nil && a.Country != *filter.Country {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, a Athlete) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[a.ID]
	if !ok || existing.DeletedAt != nil {
		return ErrNotFound
	}
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now().UTC()
	r.items[a.ID] = a
	return nil
}

func (r *MemoryRepo) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok || a.DeletedAt != nil {
		return ErrNotFound
	}
	a.DeletedAt = &at
	a.UpdatedAt = at
	r.items[id] = a
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
