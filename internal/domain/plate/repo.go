package plate

import (
	"context"

	"plateyard/internal/core/id"
)

// Store is the record store contract the engine runs against. Any store
// providing these operations is a valid substitute; Postgres and an
// in-memory implementation ship with the service.
//
// Implementations must map a missing record onto apperror NotFound and a
// registration uniqueness violation onto apperror Duplicate, so the store's
// own constraint is the authoritative duplicate signal.
type Store interface {
	// Count returns the number of plates matching the filters.
	Count(ctx context.Context, filters SearchFilters) (int64, error)

	// List performs the ordered range scan for one page. Ordering is applied
	// before windowing so page boundaries stay stable across requests.
	List(ctx context.Context, q ListQuery) ([]Plate, error)

	// Insert persists a new plate.
	Insert(ctx context.Context, p *Plate) error

	// GetByID is the point lookup.
	GetByID(ctx context.Context, plateID id.ID) (*Plate, error)

	// FindByRegistration looks a plate up by its natural key. Used as the
	// engine's fast-path uniqueness probe before Insert.
	FindByRegistration(ctx context.Context, registration string) (*Plate, error)

	// SetReserved writes the reservation flag and returns the updated record.
	SetReserved(ctx context.Context, plateID id.ID, reserved bool) (*Plate, error)

	// InTransaction runs fn with every store call inside it sharing one
	// transaction, rolled back when fn returns an error. Stores without
	// transactions run fn directly; their per-operation atomicity still
	// holds, and the uniqueness constraint remains the duplicate authority.
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
