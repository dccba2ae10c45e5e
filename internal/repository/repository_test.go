package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"marketplace-api/internal/marketerrors"
	model "marketplace-api/internal/models"

	"github.com/stretchr/testify/require"
)

// Helper to create a new Product
func newProduct(sellerID uint, name string, price float64) *model.Product {
	return &model.Product{
		Name:          name,
		Description:   fmt.Sprintf("%s description", name),
		Category:      "furniture",
		OriginalPrice: price,
		PictureURL:    "http://x/y.png",
		EndDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		SellerID:      sellerID,
	}
}

// Helper to create a new Bid
func newBid(productID, bidderID uint, amount float64, date time.Time) *model.Bid {
	return &model.Bid{
		ProductID: productID,
		BidderID:  bidderID,
		Amount:    amount,
		Date:      date,
	}
}

// seededRepo returns a repo with users 1..3 and one product sold by user 1
func seededRepo(t *testing.T) (*MemoryRepo, *model.Product) {
	t.Helper()

	repo := NewMemoryRepo()
	repo.AddUser(model.User{ID: 1, Username: "alice", Email: "alice@example.com"})
	repo.AddUser(model.User{ID: 2, Username: "bob", Email: "bob@example.com"})
	repo.AddUser(model.User{ID: 3, Username: "carol", Email: "carol@example.com", Admin: true})

	product := newProduct(1, "Chair", 50)
	require.NoError(t, repo.CreateProduct(context.Background(), product))
	return repo, product
}

func TestMemoryRepo_AddUser(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	explicit := repo.AddUser(model.User{ID: 10, Username: "ten"})
	generated := repo.AddUser(model.User{Username: "next"})

	require.Equal(t, uint(10), explicit.ID)
	require.Equal(t, uint(11), generated.ID)
	require.False(t, generated.CreatedAt.IsZero())

	got, err := repo.GetUser(context.Background(), 11)
	require.NoError(t, err)
	require.Equal(t, "next", got.Username)

	_, err = repo.GetUser(context.Background(), 99)
	require.ErrorIs(t, err, marketerrors.ErrUserNotFound)
}

// Test CreateProduct
func TestMemoryRepo_CreateProduct(t *testing.T) {
	t.Parallel()

	repo, first := seededRepo(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		product   *model.Product
		wantError error
	}{
		{name: "valid_product", product: newProduct(2, "Table", 120)},
		{name: "unknown_seller", product: newProduct(42, "Lamp", 10), wantError: marketerrors.ErrUserNotFound},
		{name: "max_float_price", product: newProduct(1, "Gold", math.MaxFloat64)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := repo.CreateProduct(ctx, tc.product)
			if tc.wantError != nil {
				require.ErrorIs(t, err, tc.wantError)
				return
			}

			require.NoError(t, err)
			require.NotZero(t, tc.product.ID)
			require.NotEqual(t, first.ID, tc.product.ID)

			stored, err := repo.GetProduct(ctx, tc.product.ID)
			require.NoError(t, err)
			require.Equal(t, tc.product.Name, stored.Name)
			require.Equal(t, tc.product.SellerID, stored.SellerID)
			require.Equal(t, tc.product.SellerID, stored.Seller.ID)
			require.Empty(t, stored.Bids)
		})
	}
}

func TestMemoryRepo_ListProducts(t *testing.T) {
	t.Parallel()

	repo, first := seededRepo(t)
	ctx := context.Background()

	second := newProduct(2, "Table", 80)
	require.NoError(t, repo.CreateProduct(ctx, second))
	require.NoError(t, repo.CreateBid(ctx, newBid(first.ID, 2, 60, time.Now())))

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)

	require.Equal(t, first.ID, products[0].ID)
	require.Equal(t, "alice", products[0].Seller.Username)
	require.Len(t, products[0].Bids, 1)
	require.Equal(t, "bob", products[0].Bids[0].Bidder.Username)

	require.Equal(t, second.ID, products[1].ID)
	require.NotNil(t, products[1].Bids)
	require.Empty(t, products[1].Bids)
}

func TestMemoryRepo_UpdateProduct(t *testing.T) {
	t.Parallel()

	repo, product := seededRepo(t)
	ctx := context.Background()

	t.Run("seller_is_immutable", func(t *testing.T) {
		update := *product
		update.Name = "Armchair"
		update.SellerID = 2

		require.NoError(t, repo.UpdateProduct(ctx, &update))
		require.Equal(t, uint(1), update.SellerID)

		stored, err := repo.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		require.Equal(t, "Armchair", stored.Name)
		require.Equal(t, uint(1), stored.SellerID)
		require.Equal(t, product.CreatedAt, stored.CreatedAt)
	})

	t.Run("missing_product", func(t *testing.T) {
		err := repo.UpdateProduct(ctx, &model.Product{ID: 999})
		require.ErrorIs(t, err, marketerrors.ErrProductNotFound)
	})
}

func TestMemoryRepo_DeleteProductCascades(t *testing.T) {
	t.Parallel()

	repo, product := seededRepo(t)
	ctx := context.Background()

	bid := newBid(product.ID, 2, 70, time.Now())
	require.NoError(t, repo.CreateBid(ctx, bid))

	require.NoError(t, repo.DeleteProduct(ctx, product.ID))

	_, err := repo.GetProduct(ctx, product.ID)
	require.ErrorIs(t, err, marketerrors.ErrProductNotFound)

	_, err = repo.GetBid(ctx, bid.ID)
	require.ErrorIs(t, err, marketerrors.ErrBidNotFound)

	_, err = repo.GetHighestBid(ctx, product.ID)
	require.ErrorIs(t, err, marketerrors.ErrNoBids)

	require.ErrorIs(t, repo.DeleteProduct(ctx, product.ID), marketerrors.ErrProductNotFound)
}

// Test CreateBid
func TestMemoryRepo_CreateBid(t *testing.T) {
	t.Parallel()

	repo, product := seededRepo(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		bid       *model.Bid
		wantError error
	}{
		{name: "valid_bid", bid: newBid(product.ID, 2, 100, time.Now())},
		{name: "product_not_found", bid: newBid(999, 2, 100, time.Now()), wantError: marketerrors.ErrProductNotFound},
		{name: "bidder_not_found", bid: newBid(product.ID, 77, 100, time.Now()), wantError: marketerrors.ErrUserNotFound},
		{name: "bid_with_past_timestamp", bid: newBid(product.ID, 3, 120, time.Now().Add(-24*time.Hour))},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := repo.CreateBid(ctx, tc.bid)
			if tc.wantError != nil {
				require.ErrorIs(t, err, tc.wantError)
				return
			}

			require.NoError(t, err)
			stored, err := repo.GetBid(ctx, tc.bid.ID)
			require.NoError(t, err)
			require.Equal(t, tc.bid.Amount, stored.Amount)
			require.Equal(t, tc.bid.BidderID, stored.Bidder.ID)
		})
	}

	// concurrency test
	t.Run("concurrent_bids", func(t *testing.T) {
		repo, product := seededRepo(t)

		var wg sync.WaitGroup
		concurrentCount := 50

		for i := 0; i < concurrentCount; i++ {
			wg.Add(1)
			i := i
			go func() {
				defer wg.Done()
				b := newBid(product.ID, uint(2+i%2), float64(100+i), time.Now())
				require.NoError(t, repo.CreateBid(ctx, b))
			}()
		}

		wg.Wait()

		stored, err := repo.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		require.Len(t, stored.Bids, concurrentCount)

		seen := make(map[uint]bool, concurrentCount)
		for _, b := range stored.Bids {
			require.False(t, seen[b.ID], "bid IDs must be unique")
			seen[b.ID] = true
		}
	})
}

func TestMemoryRepo_DeleteBid(t *testing.T) {
	t.Parallel()

	repo, product := seededRepo(t)
	ctx := context.Background()

	keep := newBid(product.ID, 2, 60, time.Now())
	drop := newBid(product.ID, 3, 70, time.Now())
	require.NoError(t, repo.CreateBid(ctx, keep))
	require.NoError(t, repo.CreateBid(ctx, drop))

	require.NoError(t, repo.DeleteBid(ctx, drop.ID))
	require.ErrorIs(t, repo.DeleteBid(ctx, drop.ID), marketerrors.ErrBidNotFound)

	stored, err := repo.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, stored.Bids, 1)
	require.Equal(t, keep.ID, stored.Bids[0].ID)
}

// Test GetHighestBid
func TestMemoryRepo_GetHighestBid(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name       string
		bids       []*model.Bid
		wantAmount float64
		wantBidder uint
		wantErr    error
	}{
		{name: "no_bids", wantErr: marketerrors.ErrNoBids},
		{
			name:       "single_bid",
			bids:       []*model.Bid{newBid(1, 2, 80, now)},
			wantAmount: 80,
			wantBidder: 2,
		},
		{
			name: "highest_wins",
			bids: []*model.Bid{
				newBid(1, 2, 80, now),
				newBid(1, 3, 120, now),
				newBid(1, 2, 100, now),
			},
			wantAmount: 120,
			wantBidder: 3,
		},
		{
			name: "tie_goes_to_earliest",
			bids: []*model.Bid{
				newBid(1, 2, 150, now),
				newBid(1, 3, 150, now.Add(-time.Minute)),
			},
			wantAmount: 150,
			wantBidder: 3,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo, product := seededRepo(t)
			ctx := context.Background()
			for _, b := range tc.bids {
				require.NoError(t, repo.CreateBid(ctx, b))
			}

			highest, err := repo.GetHighestBid(ctx, product.ID)
			if tc.wantErr != nil {
				require.True(t, errors.Is(err, tc.wantErr), "expected error: %v, got: %v", tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantAmount, highest.Amount)
			require.Equal(t, tc.wantBidder, highest.BidderID)
		})
	}
}
