package plate

import (
	"context"
	"strings"
	"time"

	"plateyard/internal/core/apperror"
	"plateyard/internal/core/id"
	"plateyard/internal/core/types"
	"plateyard/pkg/logger"
)

// ListRequest carries the inputs of a list operation before sort resolution.
type ListRequest struct {
	PageIndex int
	PageSize  int
	SortField string
	SortOrder Order
	Filters   SearchFilters
}

// Service is the catalog query and mutation engine. It is stateless between
// calls; all durable state lives in the Store.
type Service struct {
	store Store
}

// NewService creates the engine over a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List resolves the sort key, counts the filtered set and scans the
// requested window, assembling the paginated envelope. An unrecognized sort
// field fails with InvalidSortField. Out-of-range pages are not an error:
// they return empty items with the true filtered count.
func (s *Service) List(ctx context.Context, req ListRequest) (*PaginatedResult, error) {
	sort, err := ResolveSort(req.SortField, req.SortOrder)
	if err != nil {
		return nil, err
	}

	q := ListQuery{
		PageIndex: req.PageIndex,
		PageSize:  req.PageSize,
		Sort:      sort,
		Filters:   req.Filters,
	}
	q.Normalize()

	total, err := s.store.Count(ctx, q.Filters)
	if err != nil {
		return nil, err
	}

	items, err := s.store.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Plate{}
	}

	return &PaginatedResult{
		Items:      items,
		TotalCount: total,
		PageSize:   q.PageSize,
		PageIndex:  q.PageIndex,
		SortField:  req.SortField,
		SortOrder:  req.SortOrder.String(),
	}, nil
}

// Add validates the candidate and inserts it under the addressed id. The
// registration uniqueness probe and the insert share one store transaction;
// the probe is still a fast path only, and the store's unique constraint
// remains the authoritative duplicate signal.
func (s *Service) Add(ctx context.Context, plateID id.ID, data Plate) types.Result[*Plate] {
	if reasons := data.ValidateFor(plateID); len(reasons) > 0 {
		joined := strings.Join(reasons, ", ")
		logger.Warn(ctx, "plate validation failed",
			"plate_id", plateID,
			"reasons", joined,
		)
		return types.Failure[*Plate](apperror.NewValidation(joined))
	}

	data.ID = plateID
	now := time.Now().UTC()
	data.CreatedAt = now
	data.UpdatedAt = now

	err := s.store.InTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.store.FindByRegistration(ctx, data.Registration)
		if err != nil && !apperror.IsNotFound(err) {
			return err
		}
		if existing != nil {
			logger.Warn(ctx, "plate registration already present",
				"registration", data.Registration,
			)
			return apperror.NewDuplicate("plate", "registration", data.Registration)
		}

		return s.store.Insert(ctx, &data)
	})
	if err != nil {
		return types.Failure[*Plate](err)
	}

	logger.Info(ctx, "plate added",
		"plate_id", data.ID,
		"registration", data.Registration,
	)
	return types.Success(&data)
}

// Reserve marks the plate as held. Idempotent: reserving an already-reserved
// plate succeeds and re-asserts the flag.
func (s *Service) Reserve(ctx context.Context, plateID id.ID) types.Result[*Plate] {
	return s.setReserved(ctx, plateID, true)
}

// Release clears the reservation. Idempotent like Reserve.
func (s *Service) Release(ctx context.Context, plateID id.ID) types.Result[*Plate] {
	return s.setReserved(ctx, plateID, false)
}

func (s *Service) setReserved(ctx context.Context, plateID id.ID, reserved bool) types.Result[*Plate] {
	updated, err := s.store.SetReserved(ctx, plateID, reserved)
	if err != nil {
		return types.Failure[*Plate](err)
	}

	logger.Info(ctx, "plate reservation updated",
		"plate_id", plateID,
		"reserved", reserved,
	)
	return types.Success(updated)
}
