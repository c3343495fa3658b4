package plate

import (
	"strings"

	"plateyard/internal/core/apperror"
)

// Order is the requested sort direction.
type Order int

const (
	// OrderUnspecified means ascending when combined with a concrete sort
	// field, and natural store order when no field is given.
	OrderUnspecified Order = iota
	OrderAscending
	OrderDescending
)

// ParseOrder maps query text onto an Order. Unknown text falls back to
// unspecified; direction parsing is deliberately lenient, unlike sort-field
// resolution.
func ParseOrder(s string) Order {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return OrderAscending
	case "desc", "descending":
		return OrderDescending
	default:
		return OrderUnspecified
	}
}

func (o Order) String() string {
	switch o {
	case OrderAscending:
		return "ascending"
	case OrderDescending:
		return "descending"
	default:
		return "unspecified"
	}
}

// Descending reports whether comparisons must be reversed.
func (o Order) Descending() bool { return o == OrderDescending }

// SortKey is a resolved ordering key: the canonical field name, the storage
// column it maps to, an in-memory comparator, and the direction.
type SortKey struct {
	Field  string
	Column string
	Less   func(a, b *Plate) bool
	Order  Order
}

// sortFields is the closed set of orderable attributes. Field names resolve
// through an explicit table, never by dynamic name-based dispatch.
var sortFields = map[string]struct {
	column string
	less   func(a, b *Plate) bool
}{
	"registration": {
		column: "registration",
		less:   func(a, b *Plate) bool { return a.Registration < b.Registration },
	},
	"letters": {
		column: "letters",
		less:   func(a, b *Plate) bool { return a.Letters < b.Letters },
	},
	"numbers": {
		column: "numbers",
		less:   func(a, b *Plate) bool { return a.Numbers < b.Numbers },
	},
	"purchaseprice": {
		column: "purchase_price",
		less:   func(a, b *Plate) bool { return a.PurchasePrice.LessThan(b.PurchasePrice) },
	},
	"saleprice": {
		column: "sale_price",
		less:   func(a, b *Plate) bool { return a.SalePrice.LessThan(b.SalePrice) },
	},
}

// ResolveSort maps a sort-field name and direction onto an ordering key.
// An empty field means no explicit order and yields a nil key regardless of
// direction. An unrecognized field fails with InvalidSortField; the engine
// never silently ignores unknown fields.
func ResolveSort(field string, order Order) (*SortKey, error) {
	if field == "" {
		return nil, nil
	}

	spec, ok := sortFields[strings.ToLower(field)]
	if !ok {
		return nil, apperror.NewInvalidSortField(field)
	}

	return &SortKey{
		Field:  field,
		Column: spec.column,
		Less:   spec.less,
		Order:  order,
	}, nil
}
