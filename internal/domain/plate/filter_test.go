package plate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchFiltersActivation(t *testing.T) {
	require.True(t, SearchFilters{}.IsZero())
	require.True(t, SearchFilters{Numbers: 0}.IsZero())
	require.True(t, SearchFilters{Numbers: -5}.IsZero())

	f := SearchFilters{Letters: "AB"}
	require.True(t, f.LettersActive())
	require.False(t, f.NumbersActive())
	require.False(t, f.IsZero())

	f = SearchFilters{Numbers: 12}
	require.False(t, f.LettersActive())
	require.True(t, f.NumbersActive())
}

func TestSearchFiltersMatches(t *testing.T) {
	p := &Plate{Registration: "AB12CDE", Letters: "ABCDE", Numbers: 12}

	require.True(t, SearchFilters{}.Matches(p))
	require.True(t, SearchFilters{Letters: "BCD"}.Matches(p))
	require.False(t, SearchFilters{Letters: "XYZ"}.Matches(p))
	require.False(t, SearchFilters{Letters: "bcd"}.Matches(p))
	require.True(t, SearchFilters{Numbers: 12}.Matches(p))
	require.False(t, SearchFilters{Numbers: 13}.Matches(p))
	require.True(t, SearchFilters{Letters: "AB", Numbers: 12}.Matches(p))
	require.False(t, SearchFilters{Letters: "AB", Numbers: 13}.Matches(p))
}
