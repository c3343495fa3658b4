// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"strconv"
	"time"

	"plateyard/internal/core/apperror"
	"plateyard/internal/core/id"
	"plateyard/internal/core/types"
	"plateyard/internal/domain/plate"
)

// ListPlatesRequest carries the list query parameters.
type ListPlatesRequest struct {
	PageSize     int    `form:"pageSize"`
	PageIndex    int    `form:"pageIndex"`
	SortField    string `form:"sortField"`
	SortOrder    string `form:"sortOrder"`
	LetterFilter string `form:"letterFilter"`
	NumberFilter string `form:"numberFilter"`
}

// ToListRequest maps boundary input onto an engine request. The sort order
// is parsed leniently and an unparsable numberFilter becomes an inactive
// filter rather than an error. Paging bounds pass through unclamped: the
// engine normalizes them, so the clamping policy has a single home. The
// sortField is passed through untouched: unknown fields are rejected by the
// engine, and that strictness is deliberate.
func (r ListPlatesRequest) ToListRequest() plate.ListRequest {
	filters := plate.SearchFilters{Letters: r.LetterFilter}
	if r.NumberFilter != "" {
		if n, err := strconv.Atoi(r.NumberFilter); err == nil {
			filters.Numbers = n
		}
	}

	return plate.ListRequest{
		PageIndex: r.PageIndex,
		PageSize:  r.PageSize,
		SortField: r.SortField,
		SortOrder: plate.ParseOrder(r.SortOrder),
		Filters:   filters,
	}
}

// PlatePayload is the create request body. The id inside the payload is
// optional; when present it must match the addressed id.
type PlatePayload struct {
	ID            string      `json:"id"`
	Registration  string      `json:"registration" binding:"required"`
	Letters       string      `json:"letters"`
	Numbers       int         `json:"numbers"`
	PurchasePrice types.Money `json:"purchasePrice"`
	SalePrice     types.Money `json:"salePrice"`
}

// ToPlate maps the payload onto a domain plate. A malformed payload id is a
// validation error at the boundary.
func (r PlatePayload) ToPlate() (plate.Plate, error) {
	p := plate.Plate{
		Registration:  r.Registration,
		Letters:       r.Letters,
		Numbers:       r.Numbers,
		PurchasePrice: r.PurchasePrice,
		SalePrice:     r.SalePrice,
	}

	if r.ID != "" {
		parsed, err := id.Parse(r.ID)
		if err != nil {
			return plate.Plate{}, apperror.NewValidation("invalid plate id").
				WithDetail("id", r.ID)
		}
		p.ID = parsed
	}

	return p, nil
}

// PlateResponse is the API representation of a plate.
type PlateResponse struct {
	ID            string      `json:"id"`
	Registration  string      `json:"registration"`
	Letters       string      `json:"letters"`
	Numbers       int         `json:"numbers"`
	PurchasePrice types.Money `json:"purchasePrice"`
	SalePrice     types.Money `json:"salePrice"`
	Reserved      bool        `json:"reserved"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// FromPlate maps a domain plate onto its response shape.
func FromPlate(p *plate.Plate) PlateResponse {
	return PlateResponse{
		ID:            p.ID.String(),
		Registration:  p.Registration,
		Letters:       p.Letters,
		Numbers:       p.Numbers,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		Reserved:      p.Reserved,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// PaginatedPlatesResponse is the list envelope.
type PaginatedPlatesResponse struct {
	Items      []PlateResponse `json:"items"`
	TotalCount int64           `json:"totalCount"`
	PageSize   int             `json:"pageSize"`
	PageIndex  int             `json:"pageIndex"`
	SortField  string          `json:"sortField,omitempty"`
	SortOrder  string          `json:"sortOrder"`
}

// FromPaginated maps the engine envelope onto its response shape.
func FromPaginated(res *plate.PaginatedResult) PaginatedPlatesResponse {
	items := make([]PlateResponse, len(res.Items))
	for i := range res.Items {
		items[i] = FromPlate(&res.Items[i])
	}
	return PaginatedPlatesResponse{
		Items:      items,
		TotalCount: res.TotalCount,
		PageSize:   res.PageSize,
		PageIndex:  res.PageIndex,
		SortField:  res.SortField,
		SortOrder:  res.SortOrder,
	}
}
