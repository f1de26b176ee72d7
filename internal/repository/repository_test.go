package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/FireRedDev/ebayklon/internal/catalogerrors"
	model "github.com/FireRedDev/ebayklon/internal/models"

	"github.com/stretchr/testify/require"
)

// Helper to create a new Auction payload
func newAuction(description string) model.Auction {
	return model.Auction{Description: model.String(description)}
}

// Helper to create a new Offer payload
func newOffer(value float64, auctionID *int64) model.Offer {
	offer := model.Offer{Value: model.Float64(value)}
	if auctionID != nil {
		offer.Auction = &model.Auction{ID: auctionID}
	}
	return offer
}

// Test CreateAuction
func TestMemoryRepo_CreateAuction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepo()

	first, err := repo.CreateAuction(ctx, newAuction("Spring Sale"))
	require.NoError(t, err)
	require.NotNil(t, first.ID)
	require.Equal(t, int64(1), *first.ID)
	require.Equal(t, "Spring Sale", *first.Description)

	second, err := repo.CreateAuction(ctx, model.Auction{})
	require.NoError(t, err)
	require.Equal(t, int64(2), *second.ID)
	require.Nil(t, second.Description)

	// Ids supplied by the caller are ignored
	third, err := repo.CreateAuction(ctx, model.Auction{ID: model.Int64(99)})
	require.NoError(t, err)
	require.Equal(t, int64(3), *third.ID)

	// concurrency test
	t.Run("concurrent_creates", func(t *testing.T) {
		t.Parallel()

		repo := NewMemoryRepo()
		var wg sync.WaitGroup
		concurrentCount := 50

		for i := 0; i < concurrentCount; i++ {
			wg.Add(1)
			i := i
			go func() {
				defer wg.Done()
				_, err := repo.CreateAuction(ctx, newAuction(fmt.Sprintf("auction-%d", i)))
				require.NoError(t, err)
			}()
		}

		wg.Wait()

		auctions, err := repo.ListAuctions(ctx)
		require.NoError(t, err)
		require.Len(t, auctions, concurrentCount)

		seen := make(map[int64]bool, concurrentCount)
		for _, a := range auctions {
			require.False(t, seen[*a.ID], "duplicate id %d", *a.ID)
			seen[*a.ID] = true
		}
	})
}

// Test UpdateAuction
func TestMemoryRepo_UpdateAuction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepo()
	repo.AddAuction(1, "before")

	tests := []struct {
		name      string
		auction   model.Auction
		wantErr   error
		wantDescr *string
	}{
		{name: "existing_auction", auction: model.Auction{ID: model.Int64(1), Description: model.String("after")}, wantDescr: model.String("after")},
		{name: "clear_description", auction: model.Auction{ID: model.Int64(1)}, wantDescr: nil},
		{name: "missing_id", auction: newAuction("x"), wantErr: catalogerrors.ErrIDNull},
		{name: "unknown_auction", auction: model.Auction{ID: model.Int64(42)}, wantErr: catalogerrors.ErrAuctionNotFound},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			updated, err := repo.UpdateAuction(ctx, tc.auction)
			if tc.wantErr != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tc.wantErr), "expected error: %v, got: %v", tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantDescr, updated.Description)

			stored, err := repo.GetAuction(ctx, 1)
			require.NoError(t, err)
			require.Equal(t, tc.wantDescr, stored.Description)
		})
	}
}

// Test GetAuction and ListAuctions with joined offers
func TestMemoryRepo_GetAuction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepo()
	repo.AddAuction(1, "with offers")
	repo.AddAuction(2, "without offers")
	repo.AddOffer(3, 42, model.Int64(1))
	repo.AddOffer(4, math.MaxFloat64, model.Int64(1))
	repo.AddOffer(5, 7, nil)

	tests := []struct {
		name       string
		id         int64
		wantOffers []int64
		wantErr    bool
	}{
		{name: "auction_with_offers", id: 1, wantOffers: []int64{3, 4}},
		{name: "auction_without_offers", id: 2, wantOffers: nil},
		{name: "unknown_auction", id: 99, wantErr: true},
		{name: "zero_id", id: 0, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			auction, err := repo.GetAuction(ctx, tc.id)
			if tc.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, catalogerrors.ErrAuctionNotFound))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.id, *auction.ID)

			var got []int64
			for _, o := range auction.Offers {
				require.Nil(t, o.Auction, "offers embedded in an auction must not link back")
				got = append(got, *o.ID)
			}
			require.Equal(t, tc.wantOffers, got)
		})
	}

	t.Run("list_ordered_by_id", func(t *testing.T) {
		t.Parallel()

		auctions, err := repo.ListAuctions(ctx)
		require.NoError(t, err)
		require.Len(t, auctions, 2)
		require.Equal(t, int64(1), *auctions[0].ID)
		require.Len(t, auctions[0].Offers, 2)
		require.Equal(t, int64(2), *auctions[1].ID)
		require.Empty(t, auctions[1].Offers)
	})

	// Concurrent read test
	t.Run("concurrent_reads", func(t *testing.T) {
		t.Parallel()

		var wg sync.WaitGroup
		readCount := 50

		for i := 0; i < readCount; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				auction, err := repo.GetAuction(ctx, 1)
				require.NoError(t, err)
				require.Len(t, auction.Offers, 2)
			}()
		}

		wg.Wait()
	})
}

// Test DeleteAuction
func TestMemoryRepo_DeleteAuction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepo()
	repo.AddAuction(1, "free")
	repo.AddAuction(2, "in use")
	repo.AddOffer(3, 10, model.Int64(2))

	require.NoError(t, repo.DeleteAuction(ctx, 1))
	exists, err := repo.AuctionExists(ctx, 1)
	require.NoError(t, err)
	require.False(t, exists)

	// Unknown ids are ignored
	require.NoError(t, repo.DeleteAuction(ctx, 1))

	err = repo.DeleteAuction(ctx, 2)
	require.Error(t, err)
	require.True(t, errors.Is(err, catalogerrors.ErrAuctionInUse))

	require.NoError(t, repo.DeleteOffer(ctx, 3))
	require.NoError(t, repo.DeleteAuction(ctx, 2))
}

// Test CreateOffer and UpdateOffer
func TestMemoryRepo_SaveOffer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepo()
	repo.AddAuction(1, "Spring Sale")

	tests := []struct {
		name        string
		offer       model.Offer
		wantErr     error
		wantAuction *int64
	}{
		{name: "offer_with_auction", offer: newOffer(42, model.Int64(1)), wantAuction: model.Int64(1)},
		{name: "offer_without_auction", offer: newOffer(10, nil)},
		{name: "offer_without_value", offer: model.Offer{}},
		{name: "negative_value", offer: newOffer(-10, nil)},
		{name: "unknown_auction", offer: newOffer(5, model.Int64(77)), wantErr: catalogerrors.ErrUnknownAuction},
		{name: "auction_without_id", offer: model.Offer{Auction: &model.Auction{}}, wantErr: catalogerrors.ErrUnknownAuction},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			created, err := repo.CreateOffer(ctx, tc.offer)
			if tc.wantErr != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tc.wantErr), "expected error: %v, got: %v", tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, created.ID)
			require.Equal(t, tc.offer.Value, created.Value)

			auctionID, linked := created.AuctionID()
			if tc.wantAuction == nil {
				require.False(t, linked)
			} else {
				require.True(t, linked)
				require.Equal(t, *tc.wantAuction, auctionID)
				require.Equal(t, "Spring Sale", *created.Auction.Description)
				require.Empty(t, created.Auction.Offers, "embedded auctions must not list offers")
			}
		})
	}

	t.Run("update_moves_offer", func(t *testing.T) {
		repo := NewMemoryRepo()
		repo.AddAuction(1, "a")
		repo.AddAuction(2, "b")
		repo.AddOffer(3, 1, model.Int64(1))

		updated, err := repo.UpdateOffer(ctx, model.Offer{ID: model.Int64(3), Value: model.Float64(2), Auction: &model.Auction{ID: model.Int64(2)}})
		require.NoError(t, err)
		require.Equal(t, 2.0, *updated.Value)

		a1, err := repo.GetAuction(ctx, 1)
		require.NoError(t, err)
		require.Empty(t, a1.Offers)
		a2, err := repo.GetAuction(ctx, 2)
		require.NoError(t, err)
		require.Len(t, a2.Offers, 1)
	})

	t.Run("rejected_offer_keeps_sequence", func(t *testing.T) {
		repo := NewMemoryRepo()
		repo.AddAuction(1, "Spring Sale")

		_, err := repo.CreateOffer(ctx, newOffer(5, model.Int64(77)))
		require.True(t, errors.Is(err, catalogerrors.ErrUnknownAuction))

		created, err := repo.CreateOffer(ctx, newOffer(5, model.Int64(1)))
		require.NoError(t, err)
		require.Equal(t, int64(2), *created.ID)
	})

	t.Run("update_unknown_offer", func(t *testing.T) {
		_, err := repo.UpdateOffer(ctx, model.Offer{ID: model.Int64(500)})
		require.True(t, errors.Is(err, catalogerrors.ErrOfferNotFound))
	})
}

// Test ListOffers, GetOffer and DeleteOffer
func TestMemoryRepo_Offers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepo()
	repo.AddAuction(1, "a")
	repo.AddOffer(5, 10, model.Int64(1))
	repo.AddOffer(2, 20, nil)

	offers, err := repo.ListOffers(ctx)
	require.NoError(t, err)
	require.Len(t, offers, 2)
	require.Equal(t, int64(2), *offers[0].ID)
	require.Equal(t, int64(5), *offers[1].ID)

	offer, err := repo.GetOffer(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, int64(1), *offer.Auction.ID)

	_, err = repo.GetOffer(ctx, 6)
	require.True(t, errors.Is(err, catalogerrors.ErrOfferNotFound))

	require.NoError(t, repo.DeleteOffer(ctx, 5))
	offers, err = repo.ListOffers(ctx)
	require.NoError(t, err)
	for _, o := range offers {
		require.NotEqual(t, int64(5), *o.ID)
	}

	// The sequence continues after seeded ids
	created, err := repo.CreateOffer(ctx, newOffer(1, nil))
	require.NoError(t, err)
	require.Equal(t, int64(6), *created.ID)
}
