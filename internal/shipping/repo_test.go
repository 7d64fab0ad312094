package shipping

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakurapacks/oripa-backend/pkg/db/models"
	"github.com/sakurapacks/oripa-backend/pkg/enums"
)

func TestFindShippableFiltersClaimedAndForeignCards(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	owner := seedUserWithAddress(t, conn)
	other := seedUserWithAddress(t, conn)

	free := seedOwnedCard(t, conn, owner.ID)
	foreign := seedOwnedCard(t, conn, other.ID)

	claimed := seedOwnedCard(t, conn, owner.ID)
	requestID := uuid.New()
	require.NoError(t, conn.Model(&models.UserCard{}).
		Where("id = ?", claimed.ID).
		Updates(map[string]any{"is_shipped": true, "shipping_request_id": requestID}).Error)

	got, err := repo.FindShippable(ctx, owner.ID, []uuid.UUID{free.ID, foreign.ID, claimed.ID})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, free.ID, got[0].ID)
}

func TestClaimAndReleaseCardsRoundTrip(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	owner := seedUserWithAddress(t, conn)
	owned := seedOwnedCard(t, conn, owner.ID)

	request := &models.ShippingRequest{
		UserID:          owner.ID,
		Status:          enums.ShippingStatusPending,
		ShippingAddress: "1-2-3 Akihabara, Tokyo",
		RequestDate:     time.Now().UTC(),
	}
	require.NoError(t, repo.CreateRequest(ctx, request))
	assert.NotEqual(t, uuid.Nil, request.ID)

	claimed, err := repo.ClaimCards(ctx, request.ID, []uuid.UUID{owned.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), claimed)

	var row models.UserCard
	require.NoError(t, conn.First(&row, "id = ?", owned.ID).Error)
	assert.True(t, row.IsShipped)
	require.NotNil(t, row.ShippingRequestID)
	assert.Equal(t, request.ID, *row.ShippingRequestID)

	require.NoError(t, repo.ReleaseCards(ctx, request.ID))

	require.NoError(t, conn.First(&row, "id = ?", owned.ID).Error)
	assert.False(t, row.IsShipped)
	assert.Nil(t, row.ShippingRequestID)
}

func TestClaimCardsSkipsAlreadyClaimedCard(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	owner := seedUserWithAddress(t, conn)
	contested := seedOwnedCard(t, conn, owner.ID)
	free := seedOwnedCard(t, conn, owner.ID)

	first := &models.ShippingRequest{
		UserID:          owner.ID,
		Status:          enums.ShippingStatusPending,
		ShippingAddress: "addr",
		RequestDate:     time.Now().UTC(),
	}
	require.NoError(t, repo.CreateRequest(ctx, first))
	claimed, err := repo.ClaimCards(ctx, first.ID, []uuid.UUID{contested.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), claimed)

	// A second request racing on the same card must not take it away from
	// the first one. Only the free card is claimable.
	second := &models.ShippingRequest{
		UserID:          owner.ID,
		Status:          enums.ShippingStatusPending,
		ShippingAddress: "addr",
		RequestDate:     time.Now().UTC(),
	}
	require.NoError(t, repo.CreateRequest(ctx, second))
	claimed, err = repo.ClaimCards(ctx, second.ID, []uuid.UUID{contested.ID, free.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), claimed)

	var row models.UserCard
	require.NoError(t, conn.First(&row, "id = ?", contested.ID).Error)
	require.NotNil(t, row.ShippingRequestID)
	assert.Equal(t, first.ID, *row.ShippingRequestID)
}

func TestListByUserOrdersNewestFirst(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	owner := seedUserWithAddress(t, conn)
	other := seedUserWithAddress(t, conn)

	base := time.Now().UTC().Truncate(time.Second)
	for i, seed := range []struct {
		userID uuid.UUID
		age    time.Duration
	}{
		{owner.ID, 2 * time.Hour},
		{owner.ID, time.Hour},
		{other.ID, time.Minute},
	} {
		request := &models.ShippingRequest{
			UserID:          seed.userID,
			Status:          enums.ShippingStatusPending,
			ShippingAddress: "addr",
			RequestDate:     base.Add(-seed.age),
		}
		require.NoError(t, repo.CreateRequest(ctx, request), "request %d", i)
	}

	got, err := repo.ListByUser(ctx, owner.ID)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.True(t, got[0].RequestDate.After(got[1].RequestDate))
	for _, request := range got {
		assert.Equal(t, owner.ID, request.UserID)
	}
}
