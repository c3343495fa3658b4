// Package memory provides an in-memory plate store. It implements the same
// contract as the Postgres store and backs unit tests and local development
// without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"plateyard/internal/core/apperror"
	"plateyard/internal/core/id"
	"plateyard/internal/domain/plate"
)

// PlateStore keeps plates in insertion order behind a mutex. Natural store
// order is insertion order, matching the Postgres store's id ordering for
// time-ordered ids.
type PlateStore struct {
	mu     sync.RWMutex
	plates []plate.Plate
	byID   map[id.ID]int
	byReg  map[string]int
}

// NewPlateStore creates an empty in-memory plate store.
func NewPlateStore() *PlateStore {
	return &PlateStore{
		byID:  make(map[id.ID]int),
		byReg: make(map[string]int),
	}
}

// Count returns the number of plates matching the filters.
func (s *PlateStore) Count(_ context.Context, filters plate.SearchFilters) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for i := range s.plates {
		if filters.Matches(&s.plates[i]) {
			n++
		}
	}
	return n, nil
}

// List filters, orders and windows the stored plates. Ordering is applied
// before windowing; an out-of-range window yields an empty slice.
func (s *PlateStore) List(_ context.Context, q plate.ListQuery) ([]plate.Plate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]plate.Plate, 0, len(s.plates))
	for i := range s.plates {
		if q.Filters.Matches(&s.plates[i]) {
			matched = append(matched, s.plates[i])
		}
	}

	if q.Sort != nil {
		less := q.Sort.Less
		if q.Sort.Order.Descending() {
			asc := less
			less = func(a, b *plate.Plate) bool { return asc(b, a) }
		}
		sort.SliceStable(matched, func(i, j int) bool {
			return less(&matched[i], &matched[j])
		})
	}

	start := q.Offset()
	if start >= len(matched) {
		return []plate.Plate{}, nil
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]plate.Plate, end-start)
	copy(page, matched[start:end])
	return page, nil
}

// Insert persists a new plate, rejecting duplicate registrations the way the
// Postgres unique index does.
func (s *PlateStore) Insert(_ context.Context, p *plate.Plate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byReg[p.Registration]; exists {
		return apperror.NewDuplicate("plate", "registration", p.Registration)
	}
	if _, exists := s.byID[p.ID]; exists {
		return apperror.NewDuplicate("plate", "id", p.ID.String())
	}

	s.plates = append(s.plates, *p)
	idx := len(s.plates) - 1
	s.byID[p.ID] = idx
	s.byReg[p.Registration] = idx
	return nil
}

// InTransaction runs fn directly: the store has no transactions, and each
// operation is atomic under its own lock. Rollback semantics are not
// emulated; the registration constraint inside Insert stays authoritative.
func (s *PlateStore) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// GetByID is the point lookup.
func (s *PlateStore) GetByID(_ context.Context, plateID id.ID) (*plate.Plate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[plateID]
	if !ok {
		return nil, apperror.NewNotFound("plate", plateID.String())
	}
	found := s.plates[idx]
	return &found, nil
}

// FindByRegistration looks a plate up by its natural key.
func (s *PlateStore) FindByRegistration(_ context.Context, registration string) (*plate.Plate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byReg[registration]
	if !ok {
		return nil, apperror.NewNotFound("plate", registration)
	}
	found := s.plates[idx]
	return &found, nil
}

// SetReserved writes the reservation flag and returns the updated record.
func (s *PlateStore) SetReserved(_ context.Context, plateID id.ID, reserved bool) (*plate.Plate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[plateID]
	if !ok {
		return nil, apperror.NewNotFound("plate", plateID.String())
	}
	s.plates[idx].Reserved = reserved
	s.plates[idx].UpdatedAt = time.Now().UTC()
	updated := s.plates[idx]
	return &updated, nil
}
