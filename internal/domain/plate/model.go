// Package plate implements the plate catalog engine: paginated, filtered and
// sorted queries over registration plates, validated inserts with a
// uniqueness guarantee on the registration, and the reservation flag.
package plate

import (
	"strings"
	"time"
	"unicode"

	"plateyard/internal/core/id"
	"plateyard/internal/core/types"
)

// Plate is a vehicle registration plate offered for sale.
type Plate struct {
	// ID is assigned by the caller at creation time and immutable afterwards.
	ID id.ID `db:"id" json:"id"`

	// Registration is the natural-key display identifier, unique across the store.
	Registration string `db:"registration" json:"registration"`

	// Letters is the letter component of the registration, used for filtering.
	Letters string `db:"letters" json:"letters"`

	// Numbers is the number component of the registration, used for filtering.
	Numbers int `db:"numbers" json:"numbers"`

	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`
	SalePrice     types.Money `db:"sale_price" json:"salePrice"`

	// Reserved marks a plate held for a buyer. Toggled independently of
	// price or registration.
	Reserved bool `db:"reserved" json:"reserved"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ValidateFor applies the insert business rules against the addressed target
// id and returns every violated rule, not just the first:
//
//  1. A payload id, when set, must match the addressed id (an empty payload
//     id supports caller-side assignment).
//  2. The purchase price must not exceed the sale price.
//
// Pure: never touches the store.
func (p *Plate) ValidateFor(target id.ID) []string {
	var reasons []string

	if !id.IsNil(p.ID) && p.ID != target {
		reasons = append(reasons, "id missing or mismatched")
	}

	if p.PurchasePrice.GreaterThan(p.SalePrice) {
		reasons = append(reasons, "purchase price exceeds sale price")
	}

	return reasons
}

// SplitRegistration derives the letters and numbers components from a
// registration text. The input is uppercased and stripped of spaces; letters
// is the concatenation of all letter runs, numbers the value of the first
// digit run (0 when the registration carries no digits).
func SplitRegistration(registration string) (letters string, numbers int) {
	normalized := strings.ToUpper(strings.ReplaceAll(registration, " ", ""))

	var letterBuf strings.Builder
	digitRun := 0
	digitsDone := false

	for _, r := range normalized {
		switch {
		case unicode.IsLetter(r):
			letterBuf.WriteRune(r)
			if digitRun > 0 {
				digitsDone = true
			}
		case unicode.IsDigit(r) && !digitsDone:
			digitRun = digitRun*10 + int(r-'0')
		}
	}

	return letterBuf.String(), digitRun
}
