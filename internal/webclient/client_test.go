package webclient_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"plateyard/internal/core/apperror"
	"plateyard/internal/core/id"
	"plateyard/internal/core/types"
	"plateyard/internal/domain/plate"
	v1 "plateyard/internal/infrastructure/http/v1"
	"plateyard/internal/infrastructure/http/v1/dto"
	"plateyard/internal/infrastructure/storage/memory"
	"plateyard/internal/webclient"
	"plateyard/pkg/logger"
)

func newClient(t *testing.T) *webclient.Client {
	t.Helper()

	log, err := logger.New(logger.Config{Level: "error"})
	require.NoError(t, err)

	router := v1.NewRouter(v1.RouterConfig{
		Service: plate.NewService(memory.NewPlateStore()),
		Logger:  log,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return webclient.New(srv.URL)
}

func payload(registration, purchase, sale string) dto.PlatePayload {
	letters, numbers := plate.SplitRegistration(registration)
	return dto.PlatePayload{
		Registration:  registration,
		Letters:       letters,
		Numbers:       numbers,
		PurchasePrice: types.MustMoney(purchase),
		SalePrice:     types.MustMoney(sale),
	}
}

func TestClientAddAndList(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	created, err := client.Add(ctx, id.New(), payload("AB12CDE", "500", "750"))
	require.NoError(t, err)
	require.Equal(t, "AB12CDE", created.Registration)
	require.False(t, created.Reserved)

	_, err = client.Add(ctx, id.New(), payload("CD34EFG", "100", "200"))
	require.NoError(t, err)

	page, err := client.List(ctx, webclient.ListParams{PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), page.TotalCount)
	require.Len(t, page.Items, 2)
}

func TestClientListParams(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	_, err := client.Add(ctx, id.New(), payload("SA12AAA", "100", "300"))
	require.NoError(t, err)
	_, err = client.Add(ctx, id.New(), payload("QQ34QQQ", "100", "200"))
	require.NoError(t, err)

	page, err := client.List(ctx, webclient.ListParams{
		PageSize:     10,
		LetterFilter: "SA",
		NumberFilter: "12",
		SortField:    "registration",
		SortOrder:    "asc",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.TotalCount)
	require.Equal(t, "SA12AAA", page.Items[0].Registration)
}

func TestClientErrorsKeepTaxonomy(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	_, err := client.Add(ctx, id.New(), payload("AB12CDE", "500", "750"))
	require.NoError(t, err)

	_, err = client.Add(ctx, id.New(), payload("AB12CDE", "100", "200"))
	require.True(t, apperror.IsDuplicate(err))

	_, err = client.Add(ctx, id.New(), payload("XY99ZZZ", "900", "100"))
	require.True(t, apperror.IsValidation(err))

	_, err = client.Reserve(ctx, id.New())
	require.True(t, apperror.IsNotFound(err))

	_, err = client.List(ctx, webclient.ListParams{SortField: "colour"})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperror.CodeInvalidSortField, appErr.Code)
}

func TestClientReserveRelease(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	created, err := client.Add(ctx, id.New(), payload("GG01GGG", "100", "200"))
	require.NoError(t, err)

	plateID := id.MustParse(created.ID)

	reserved, err := client.Reserve(ctx, plateID)
	require.NoError(t, err)
	require.True(t, reserved.Reserved)

	released, err := client.Release(ctx, plateID)
	require.NoError(t, err)
	require.False(t, released.Reserved)
}
