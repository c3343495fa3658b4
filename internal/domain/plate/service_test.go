package plate_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"plateyard/internal/core/apperror"
	"plateyard/internal/core/id"
	"plateyard/internal/core/types"
	"plateyard/internal/domain/plate"
	"plateyard/internal/infrastructure/storage/memory"
)

func newService(t *testing.T) (*plate.Service, *memory.PlateStore) {
	t.Helper()
	store := memory.NewPlateStore()
	return plate.NewService(store), store
}

func newPlate(registration, purchase, sale string) plate.Plate {
	letters, numbers := plate.SplitRegistration(registration)
	return plate.Plate{
		Registration:  registration,
		Letters:       letters,
		Numbers:       numbers,
		PurchasePrice: types.MustMoney(purchase),
		SalePrice:     types.MustMoney(sale),
	}
}

func mustAdd(t *testing.T, svc *plate.Service, p plate.Plate) *plate.Plate {
	t.Helper()
	added, err := svc.Add(context.Background(), id.New(), p).Unpack()
	require.NoError(t, err)
	return added
}

func TestAdd_EmptyStore(t *testing.T) {
	svc, _ := newService(t)
	plateID := id.New()

	candidate := newPlate("AB12CDE", "500", "750")
	added, err := svc.Add(context.Background(), plateID, candidate).Unpack()
	require.NoError(t, err)

	require.Equal(t, plateID, added.ID)
	require.Equal(t, "AB12CDE", added.Registration)
	require.Equal(t, "ABCDE", added.Letters)
	require.Equal(t, 12, added.Numbers)
	require.True(t, added.PurchasePrice.Equal(types.MustMoney("500")))
	require.True(t, added.SalePrice.Equal(types.MustMoney("750")))
	require.False(t, added.Reserved)
	require.False(t, added.CreatedAt.IsZero())
}

type txSpyStore struct {
	*memory.PlateStore
	calls int
}

func (s *txSpyStore) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.calls++
	return s.PlateStore.InTransaction(ctx, fn)
}

func TestAdd_RunsProbeAndInsertInTransaction(t *testing.T) {
	spy := &txSpyStore{PlateStore: memory.NewPlateStore()}
	svc := plate.NewService(spy)

	_, err := svc.Add(context.Background(), id.New(), newPlate("AB12CDE", "500", "750")).Unpack()
	require.NoError(t, err)
	require.Equal(t, 1, spy.calls)

	// The duplicate probe inside the transaction still surfaces as a conflict.
	res := svc.Add(context.Background(), id.New(), newPlate("AB12CDE", "600", "900"))
	require.True(t, apperror.IsDuplicate(res.Err()))
	require.Equal(t, 2, spy.calls)

	// Validation failures never reach the store.
	res = svc.Add(context.Background(), id.New(), newPlate("XY99ZZZ", "900", "100"))
	require.True(t, apperror.IsValidation(res.Err()))
	require.Equal(t, 2, spy.calls)
}

func TestAdd_DuplicateRegistration(t *testing.T) {
	svc, _ := newService(t)

	first := svc.Add(context.Background(), id.New(), newPlate("AB12CDE", "500", "750"))
	require.True(t, first.IsSuccess())

	second := svc.Add(context.Background(), id.New(), newPlate("AB12CDE", "600", "900"))
	require.False(t, second.IsSuccess())
	require.True(t, apperror.IsDuplicate(second.Err()))
}

func TestAdd_PriceRuleAlwaysRejected(t *testing.T) {
	svc, _ := newService(t)

	tests := []struct {
		purchase string
		sale     string
	}{
		{"2530", "2300"},
		{"0.01", "0"},
		{"1000000", "999999.9999"},
	}

	for _, tt := range tests {
		candidate := newPlate(fmt.Sprintf("P%s", tt.purchase), tt.purchase, tt.sale)
		res := svc.Add(context.Background(), id.New(), candidate)
		require.False(t, res.IsSuccess())
		require.True(t, apperror.IsValidation(res.Err()))
		require.Contains(t, res.Err().Error(), "purchase price exceeds sale price")
	}
}

func TestAdd_MismatchedPayloadID(t *testing.T) {
	svc, _ := newService(t)

	candidate := newPlate("AB12CDE", "500", "750")
	candidate.ID = id.New()

	res := svc.Add(context.Background(), id.New(), candidate)
	require.False(t, res.IsSuccess())
	require.True(t, apperror.IsValidation(res.Err()))
}

func TestAdd_MatchingPayloadIDAccepted(t *testing.T) {
	svc, _ := newService(t)
	plateID := id.New()

	candidate := newPlate("AB12CDE", "500", "750")
	candidate.ID = plateID

	added, err := svc.Add(context.Background(), plateID, candidate).Unpack()
	require.NoError(t, err)
	require.Equal(t, plateID, added.ID)
}

func TestAdd_AccumulatesAllReasons(t *testing.T) {
	svc, _ := newService(t)

	candidate := newPlate("AB12CDE", "900", "750")
	candidate.ID = id.New()

	res := svc.Add(context.Background(), id.New(), candidate)
	require.False(t, res.IsSuccess())

	appErr, ok := apperror.AsAppError(res.Err())
	require.True(t, ok)
	require.Contains(t, appErr.Message, "id missing or mismatched")
	require.Contains(t, appErr.Message, "purchase price exceeds sale price")
}

func TestList_PageSizeAndTotalCount(t *testing.T) {
	svc, _ := newService(t)

	for i := 0; i < 12; i++ {
		mustAdd(t, svc, newPlate(fmt.Sprintf("AA%02dAAA", i), "100", "200"))
	}

	for pageIndex := 0; pageIndex < 4; pageIndex++ {
		res, err := svc.List(context.Background(), plate.ListRequest{
			PageIndex: pageIndex,
			PageSize:  5,
		})
		require.NoError(t, err)
		require.LessOrEqual(t, len(res.Items), 5)
		require.Equal(t, int64(12), res.TotalCount)
		require.Equal(t, 5, res.PageSize)
		require.Equal(t, pageIndex, res.PageIndex)
	}
}

func TestList_DistinctPagesAreDisjoint(t *testing.T) {
	svc, _ := newService(t)

	for i := 0; i < 9; i++ {
		mustAdd(t, svc, newPlate(fmt.Sprintf("BB%02dBBB", i), "100", "200"))
	}

	page0, err := svc.List(context.Background(), plate.ListRequest{PageIndex: 0, PageSize: 4})
	require.NoError(t, err)
	page1, err := svc.List(context.Background(), plate.ListRequest{PageIndex: 1, PageSize: 4})
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, p := range page0.Items {
		seen[p.Registration] = true
	}
	for _, p := range page1.Items {
		require.False(t, seen[p.Registration], "page 1 repeats %s", p.Registration)
	}
}

func TestList_LetterFilterScenario(t *testing.T) {
	svc, _ := newService(t)

	// 24 records, 7 of them with letters containing "S".
	withS := []string{"SA01AAA", "BS02BBB", "CC03SSS", "DS04DDD", "SE05EEE", "FF06FSF", "GS07GGG"}
	for _, reg := range withS {
		mustAdd(t, svc, newPlate(reg, "100", "200"))
	}
	for i := 0; i < 17; i++ {
		mustAdd(t, svc, newPlate(fmt.Sprintf("QQ%02dQQQ", i), "100", "200"))
	}

	res, err := svc.List(context.Background(), plate.ListRequest{
		PageIndex: 0,
		PageSize:  5,
		Filters:   plate.SearchFilters{Letters: "S"},
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 5)
	require.Equal(t, int64(7), res.TotalCount)
}

func TestList_NumbersFilter(t *testing.T) {
	svc, _ := newService(t)

	mustAdd(t, svc, newPlate("AB12CDE", "100", "200"))
	mustAdd(t, svc, newPlate("CD12EFG", "100", "200"))
	mustAdd(t, svc, newPlate("EF34GHI", "100", "200"))

	res, err := svc.List(context.Background(), plate.ListRequest{
		PageIndex: 0,
		PageSize:  10,
		Filters:   plate.SearchFilters{Numbers: 12},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), res.TotalCount)
	for _, p := range res.Items {
		require.Equal(t, 12, p.Numbers)
	}

	// Zero and negative numeric filters are inactive.
	for _, n := range []int{0, -1} {
		res, err := svc.List(context.Background(), plate.ListRequest{
			PageIndex: 0,
			PageSize:  10,
			Filters:   plate.SearchFilters{Numbers: n},
		})
		require.NoError(t, err)
		require.Equal(t, int64(3), res.TotalCount)
	}
}

func TestList_FiltersComposeWithAnd(t *testing.T) {
	svc, _ := newService(t)

	mustAdd(t, svc, newPlate("SA12AAA", "100", "200"))
	mustAdd(t, svc, newPlate("SA34BBB", "100", "200"))
	mustAdd(t, svc, newPlate("QQ12QQQ", "100", "200"))

	res, err := svc.List(context.Background(), plate.ListRequest{
		PageIndex: 0,
		PageSize:  10,
		Filters:   plate.SearchFilters{Letters: "SA", Numbers: 12},
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.TotalCount)
	require.Equal(t, "SA12AAA", res.Items[0].Registration)
}

func TestList_SortBySalePrice(t *testing.T) {
	svc, _ := newService(t)

	mustAdd(t, svc, newPlate("AA01AAA", "100", "900"))
	mustAdd(t, svc, newPlate("BB02BBB", "100", "100"))
	mustAdd(t, svc, newPlate("CC03CCC", "100", "500"))

	asc, err := svc.List(context.Background(), plate.ListRequest{
		PageIndex: 0,
		PageSize:  10,
		SortField: "salePrice",
		SortOrder: plate.OrderAscending,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"BB02BBB", "CC03CCC", "AA01AAA"}, registrations(asc.Items))

	desc, err := svc.List(context.Background(), plate.ListRequest{
		PageIndex: 0,
		PageSize:  10,
		SortField: "salePrice",
		SortOrder: plate.OrderDescending,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"AA01AAA", "CC03CCC", "BB02BBB"}, registrations(desc.Items))

	// Unspecified order with a concrete field means ascending.
	unspec, err := svc.List(context.Background(), plate.ListRequest{
		PageIndex: 0,
		PageSize:  10,
		SortField: "salePrice",
	})
	require.NoError(t, err)
	require.Equal(t, registrations(asc.Items), registrations(unspec.Items))
}

func TestList_SortAppliedBeforeWindowing(t *testing.T) {
	svc, _ := newService(t)

	// Insert in descending price order so natural order differs from sorted.
	for i := 9; i >= 0; i-- {
		mustAdd(t, svc, newPlate(fmt.Sprintf("DD%02dDDD", i), "100", fmt.Sprintf("%d", (i+1)*100)))
	}

	var all []string
	for pageIndex := 0; pageIndex < 2; pageIndex++ {
		res, err := svc.List(context.Background(), plate.ListRequest{
			PageIndex: pageIndex,
			PageSize:  5,
			SortField: "salePrice",
			SortOrder: plate.OrderAscending,
		})
		require.NoError(t, err)
		all = append(all, registrations(res.Items)...)
	}

	require.Equal(t, []string{
		"DD00DDD", "DD01DDD", "DD02DDD", "DD03DDD", "DD04DDD",
		"DD05DDD", "DD06DDD", "DD07DDD", "DD08DDD", "DD09DDD",
	}, all)
}

func TestList_OutOfRangePage(t *testing.T) {
	svc, _ := newService(t)

	for i := 0; i < 3; i++ {
		mustAdd(t, svc, newPlate(fmt.Sprintf("EE%02dEEE", i), "100", "200"))
	}

	res, err := svc.List(context.Background(), plate.ListRequest{PageIndex: 7, PageSize: 5})
	require.NoError(t, err)
	require.Empty(t, res.Items)
	require.Equal(t, int64(3), res.TotalCount)
	require.Equal(t, 7, res.PageIndex)
}

func TestList_HugePageIndex(t *testing.T) {
	svc, _ := newService(t)

	mustAdd(t, svc, newPlate("HH01HHH", "100", "200"))

	// A page index whose offset would overflow int is still an empty page
	// with the true count, not an error.
	res, err := svc.List(context.Background(), plate.ListRequest{
		PageIndex: math.MaxInt / 2,
		PageSize:  100,
	})
	require.NoError(t, err)
	require.Empty(t, res.Items)
	require.Equal(t, int64(1), res.TotalCount)
}

func TestList_UnknownSortFieldRejected(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.List(context.Background(), plate.ListRequest{
		PageIndex: 0,
		PageSize:  5,
		SortField: "colour",
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperror.CodeInvalidSortField, appErr.Code)
}

func TestList_PagingBoundsClamped(t *testing.T) {
	svc, _ := newService(t)

	mustAdd(t, svc, newPlate("FF01FFF", "100", "200"))

	res, err := svc.List(context.Background(), plate.ListRequest{PageIndex: -3, PageSize: 0})
	require.NoError(t, err)
	require.Equal(t, 0, res.PageIndex)
	require.Equal(t, plate.DefaultPageSize, res.PageSize)
	require.Len(t, res.Items, 1)

	res, err = svc.List(context.Background(), plate.ListRequest{PageIndex: 0, PageSize: 5000})
	require.NoError(t, err)
	require.Equal(t, plate.MaxPageSize, res.PageSize)
}

func TestReserveRelease(t *testing.T) {
	svc, _ := newService(t)

	added := mustAdd(t, svc, newPlate("GG01GGG", "100", "200"))

	reserved, err := svc.Reserve(context.Background(), added.ID).Unpack()
	require.NoError(t, err)
	require.True(t, reserved.Reserved)

	// Idempotent: reserving again succeeds and re-asserts the flag.
	again, err := svc.Reserve(context.Background(), added.ID).Unpack()
	require.NoError(t, err)
	require.True(t, again.Reserved)

	released, err := svc.Release(context.Background(), added.ID).Unpack()
	require.NoError(t, err)
	require.False(t, released.Reserved)

	releasedAgain, err := svc.Release(context.Background(), added.ID).Unpack()
	require.NoError(t, err)
	require.False(t, releasedAgain.Reserved)
}

func TestReserve_NotFound(t *testing.T) {
	svc, _ := newService(t)

	res := svc.Reserve(context.Background(), id.New())
	require.False(t, res.IsSuccess())
	require.True(t, apperror.IsNotFound(res.Err()))

	res = svc.Release(context.Background(), id.New())
	require.False(t, res.IsSuccess())
	require.True(t, apperror.IsNotFound(res.Err()))
}

func registrations(items []plate.Plate) []string {
	regs := make([]string, len(items))
	for i := range items {
		regs[i] = items[i].Registration
	}
	return regs
}
