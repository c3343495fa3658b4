package plate

import "strings"

// SearchFilters narrows which plates are counted and returned. Both criteria
// are optional; when both are active they compose with AND. Building a
// predicate from filters never fails: malformed numeric input is normalized
// to "inactive" at the boundary, not rejected here.
type SearchFilters struct {
	// Letters matches plates whose letters field contains it as a substring,
	// case-sensitive as stored. Empty means inactive.
	Letters string

	// Numbers matches plates whose numbers field equals it exactly.
	// Active only when > 0; zero and negative values mean inactive.
	Numbers int
}

// LettersActive reports whether the letters criterion applies.
func (f SearchFilters) LettersActive() bool { return f.Letters != "" }

// NumbersActive reports whether the numbers criterion applies.
func (f SearchFilters) NumbersActive() bool { return f.Numbers > 0 }

// IsZero reports whether no criterion applies, i.e. every record matches.
func (f SearchFilters) IsZero() bool {
	return !f.LettersActive() && !f.NumbersActive()
}

// Matches is the in-memory predicate over a plate.
func (f SearchFilters) Matches(p *Plate) bool {
	if f.LettersActive() && !strings.Contains(p.Letters, f.Letters) {
		return false
	}
	if f.NumbersActive() && p.Numbers != f.Numbers {
		return false
	}
	return true
}
