// Package plate_repo provides the PostgreSQL implementation of the plate
// store. The unique index on registration is the authoritative uniqueness
// check; this repo maps its violation onto the duplicate error.
package plate_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"plateyard/internal/core/apperror"
	"plateyard/internal/core/id"
	"plateyard/internal/domain/plate"
	"plateyard/internal/infrastructure/storage/postgres"
)

const platesTable = "plates"

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

var plateColumns = []string{
	"id",
	"registration",
	"letters",
	"numbers",
	"purchase_price",
	"sale_price",
	"reserved",
	"created_at",
	"updated_at",
}

// Compile-time check that PlateRepo implements plate.Store.
var _ plate.Store = (*PlateRepo)(nil)

// PlateRepo is the Postgres-backed plate store.
type PlateRepo struct {
	tx *postgres.TxManager
}

// NewPlateRepo creates a plate repository over a transaction manager.
func NewPlateRepo(tx *postgres.TxManager) *PlateRepo {
	return &PlateRepo{tx: tx}
}

// InTransaction runs fn in one database transaction; contained store calls
// pick the transaction up from the context through GetQuerier.
func (r *PlateRepo) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.tx.RunInTransaction(ctx, fn)
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *PlateRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *PlateRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(plateColumns...).
		From(platesTable)
}

// applyFilters translates the search filters into WHERE clauses. Letters is
// a case-sensitive substring match (LIKE, not ILIKE); numbers is an exact
// match applied only when active.
func applyFilters(q squirrel.SelectBuilder, filters plate.SearchFilters) squirrel.SelectBuilder {
	if filters.LettersActive() {
		q = q.Where(squirrel.Like{"letters": "%" + filters.Letters + "%"})
	}
	if filters.NumbersActive() {
		q = q.Where(squirrel.Eq{"numbers": filters.Numbers})
	}
	return q
}

// Count returns the cardinality of the filtered set.
func (r *PlateRepo) Count(ctx context.Context, filters plate.SearchFilters) (int64, error) {
	sub := applyFilters(r.baseSelect(), filters)

	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(sub, "sub")

	sql, args, err := countQ.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var total int64
	querier := r.tx.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count plates: %w", err)
	}

	return total, nil
}

// buildList composes the ordered range scan. Ordering is applied before the
// LIMIT/OFFSET window. Natural order falls back to id, which is time-ordered
// (UUIDv7) and therefore insertion order.
func (r *PlateRepo) buildList(q plate.ListQuery) squirrel.SelectBuilder {
	sel := applyFilters(r.baseSelect(), q.Filters)

	if q.Sort != nil {
		direction := "ASC"
		if q.Sort.Order.Descending() {
			direction = "DESC"
		}
		sel = sel.OrderBy(q.Sort.Column + " " + direction)
	} else {
		sel = sel.OrderBy("id")
	}

	return sel.
		Limit(uint64(q.PageSize)).
		Offset(uint64(q.Offset()))
}

// List performs the ordered range scan.
func (r *PlateRepo) List(ctx context.Context, q plate.ListQuery) ([]plate.Plate, error) {
	sql, args, err := r.buildList(q).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var items []plate.Plate
	querier := r.tx.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list plates: %w", err)
	}

	return items, nil
}

// Insert persists a new plate. A unique_violation on the registration index
// surfaces as the duplicate error.
func (r *PlateRepo) Insert(ctx context.Context, p *plate.Plate) error {
	q := r.Builder().
		Insert(platesTable).
		SetMap(map[string]any{
			"id":             p.ID,
			"registration":   p.Registration,
			"letters":        p.Letters,
			"numbers":        p.Numbers,
			"purchase_price": p.PurchasePrice,
			"sale_price":     p.SalePrice,
			"reserved":       p.Reserved,
			"created_at":     p.CreatedAt,
			"updated_at":     p.UpdatedAt,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.tx.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.NewDuplicate("plate", "registration", p.Registration).WithCause(err)
		}
		return fmt.Errorf("insert plate: %w", err)
	}

	return nil
}

// GetByID retrieves a plate by id.
func (r *PlateRepo) GetByID(ctx context.Context, plateID id.ID) (*plate.Plate, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": plateID}).
		Limit(1)

	return r.getOne(ctx, q, plateID.String())
}

// FindByRegistration retrieves a plate by its natural key.
func (r *PlateRepo) FindByRegistration(ctx context.Context, registration string) (*plate.Plate, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"registration": registration}).
		Limit(1)

	return r.getOne(ctx, q, registration)
}

func (r *PlateRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*plate.Plate, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p plate.Plate
	querier := r.tx.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("plate", key)
		}
		return nil, fmt.Errorf("get plate: %w", err)
	}

	return &p, nil
}

// SetReserved writes the reservation flag and returns the updated record.
func (r *PlateRepo) SetReserved(ctx context.Context, plateID id.ID, reserved bool) (*plate.Plate, error) {
	q := r.Builder().
		Update(platesTable).
		Set("reserved", reserved).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": plateID}).
		Suffix("RETURNING " + strings.Join(plateColumns, ", "))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	var p plate.Plate
	querier := r.tx.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) || errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("plate", plateID.String())
		}
		return nil, fmt.Errorf("set reserved: %w", err)
	}

	return &p, nil
}
