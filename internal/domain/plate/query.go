package plate

import "math"

// Paging bounds. The cap keeps a single page from scanning the whole table.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListQuery is the canonical form of a list request: one explicit
// configuration structure with named optional fields, replacing any chain of
// progressively-defaulted overloads.
type ListQuery struct {
	// PageIndex is zero-based.
	PageIndex int
	PageSize  int

	// Sort is the resolved ordering key; nil preserves natural store order.
	Sort *SortKey

	Filters SearchFilters
}

// Normalize clamps paging bounds: a negative page index becomes 0, a
// non-positive page size becomes DefaultPageSize, an oversized one
// MaxPageSize. Clamping instead of rejecting keeps List free of parameter
// errors.
func (q *ListQuery) Normalize() {
	if q.PageIndex < 0 {
		q.PageIndex = 0
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
}

// Offset is the index of the first record of the requested page. A product
// that would overflow int saturates at MaxInt, so a huge page index behaves
// as past-the-end instead of wrapping negative.
func (q ListQuery) Offset() int {
	if q.PageSize > 0 && q.PageIndex > math.MaxInt/q.PageSize {
		return math.MaxInt
	}
	return q.PageIndex * q.PageSize
}

// PaginatedResult is the envelope returned by list operations. TotalCount is
// the cardinality of the filtered set independent of the requested page.
type PaginatedResult struct {
	Items      []Plate `json:"items"`
	TotalCount int64   `json:"totalCount"`
	PageSize   int     `json:"pageSize"`
	PageIndex  int     `json:"pageIndex"`
	SortField  string  `json:"sortField,omitempty"`
	SortOrder  string  `json:"sortOrder"`
}
