package files

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
	items  map[int64]MediaFile
}

// NewMemoryRepo constructs an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, items: make(map[int64]MediaFile)}
}

func (r *MemoryRepo) Create(ctx context.Context, f MediaFile) (MediaFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = r.nextID
	r.nextID++
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	f.UpdatedAt = f.CreatedAt
	r.items[f.ID] = f
	return f, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (MediaFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.items[id]
	if !ok || f.DeletedAt != nil {
		return MediaFile{}, ErrNotFound
	}
	return f, nil
}

func (r *MemoryRepo) GetIncludingDeleted(ctx context.Context, id int64) (MediaFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.items[id]
	if !ok {
		return MediaFile{}, ErrNotFound
	}
	return f, nil
}

func (r *MemoryRepo) List(ctx context.Context, filter ListFilter) ([]MediaFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []MediaFile
	for _, f := range r.items {
		if f.DeletedAt != nil {
			continue
		}
		if filter.AthleteID != nil && (f.AthleteID == nil || *f.AthleteID != *filter.AthleteID) {
			continue
		}
		if filter.FileType != nil && f.FileType != *filter.FileType {
			continue
		}
		if filter.IsPublic != nil && f.IsPublic != *filter.IsPublic {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

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

func (r *MemoryRepo) Update(ctx context.Context, f MediaFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[f.ID]
	if !ok {
		return ErrNotFound
	}
	f.CreatedAt = existing.CreatedAt
	f.DeletedAt = existing.DeletedAt
	f.UpdatedAt = time.Now().UTC()
	r.items[f.ID] = f
	return nil
}

func (r *MemoryRepo) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.items[id]
	if !ok || f.DeletedAt != nil {
		return ErrNotFound
	}
	f.DeletedAt = &at
	f.UpdatedAt = at
	r.items[id] = f
	return nil
}

func (r *MemoryRepo) HardDelete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
