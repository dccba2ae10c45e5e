package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"marketplace-api/internal/marketerrors"
	model "marketplace-api/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// MarketDB defines the entity store of the marketplace.
// Product reads return the product with its seller, bids and bidders loaded.
type MarketDB interface {
	GetUser(ctx context.Context, userID uint) (model.User, error)

	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, productID uint) (model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) error
	UpdateProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, productID uint) error

	CreateBid(ctx context.Context, bid *model.Bid) error
	GetBid(ctx context.Context, bidID uint) (model.Bid, error)
	DeleteBid(ctx context.Context, bidID uint) error
	GetHighestBid(ctx context.Context, productID uint) (model.Bid, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of MarketDB
type MemoryRepo struct {
	mu          sync.RWMutex
	users       map[uint]model.User
	products    map[uint]model.Product // key: productID -> product without associations
	bids        map[uint]model.Bid     // key: bidID -> bid
	productBids map[uint][]uint        // key: productID -> bid IDs in insertion order

	lastUserID    uint
	lastProductID uint
	lastBidID     uint
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:       make(map[uint]model.User),
		products:    make(map[uint]model.Product),
		bids:        make(map[uint]model.Bid),
		productBids: make(map[uint][]uint),
	}
}

// AddUser stores a user, assigning the next free ID when user.ID is zero.
// Users are owned by an external system; this is used for seeding and tests.
func (r *MemoryRepo) AddUser(user model.User) model.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == 0 {
		user.ID = r.lastUserID + 1
	}
	if user.ID > r.lastUserID {
		r.lastUserID = user.ID
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.users[user.ID] = user
	return user
}

// GetUser returns a user by ID
func (r *MemoryRepo) GetUser(_ context.Context, userID uint) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %d: %w", userID, marketerrors.ErrUserNotFound)
	}
	return user, nil
}

// ListProducts returns every product ordered by ID
func (r *MemoryRepo) ListProducts(_ context.Context) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uint, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	products := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		products = append(products, r.hydrate(r.products[id]))
	}
	return products, nil
}

// GetProduct returns a product with its seller and bids
func (r *MemoryRepo) GetProduct(_ context.Context, productID uint) (model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[productID]
	if !ok {
		return model.Product{}, fmt.Errorf("get product %d: %w", productID, marketerrors.ErrProductNotFound)
	}
	return r.hydrate(product), nil
}

// CreateProduct stores a new product and assigns its ID
func (r *MemoryRepo) CreateProduct(_ context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[product.SellerID]; !ok {
		return fmt.Errorf("create product for seller %d: %w", product.SellerID, marketerrors.ErrUserNotFound)
	}

	r.lastProductID++
	now := time.Now().UTC()
	product.ID = r.lastProductID
	product.CreatedAt = now
	product.UpdatedAt = now

	r.products[product.ID] = stripProduct(*product)
	return nil
}

// UpdateProduct replaces the editable fields of an existing product.
// The seller is never changed.
func (r *MemoryRepo) UpdateProduct(_ context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("update product %d: %w", product.ID, marketerrors.ErrProductNotFound)
	}

	product.SellerID = existing.SellerID
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()

	r.products[product.ID] = stripProduct(*product)
	return nil
}

// DeleteProduct removes a product together with all of its bids
func (r *MemoryRepo) DeleteProduct(_ context.Context, productID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[productID]; !ok {
		return fmt.Errorf("delete product %d: %w", productID, marketerrors.ErrProductNotFound)
	}

	for _, bidID := range r.productBids[productID] {
		delete(r.bids, bidID)
	}
	delete(r.productBids, productID)
	delete(r.products, productID)
	return nil
}

// CreateBid records a bid on an existing product and assigns its ID
func (r *MemoryRepo) CreateBid(_ context.Context, bid *model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[bid.ProductID]; !ok {
		return fmt.Errorf("record bid for product %d: %w", bid.ProductID, marketerrors.ErrProductNotFound)
	}
	if _, ok := r.users[bid.BidderID]; !ok {
		return fmt.Errorf("record bid for bidder %d: %w", bid.BidderID, marketerrors.ErrUserNotFound)
	}

	r.lastBidID++
	bid.ID = r.lastBidID

	stored := *bid
	stored.Bidder = model.User{}
	r.bids[bid.ID] = stored
	r.productBids[bid.ProductID] = append(r.productBids[bid.ProductID], bid.ID)
	return nil
}

// GetBid returns a bid by ID
func (r *MemoryRepo) GetBid(_ context.Context, bidID uint) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bid, ok := r.bids[bidID]
	if !ok {
		return model.Bid{}, fmt.Errorf("get bid %d: %w", bidID, marketerrors.ErrBidNotFound)
	}
	bid.Bidder = r.users[bid.BidderID]
	return bid, nil
}

// DeleteBid removes a single bid
func (r *MemoryRepo) DeleteBid(_ context.Context, bidID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bid, ok := r.bids[bidID]
	if !ok {
		return fmt.Errorf("delete bid %d: %w", bidID, marketerrors.ErrBidNotFound)
	}

	ids := r.productBids[bid.ProductID]
	for i, id := range ids {
		if id == bidID {
			r.productBids[bid.ProductID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	delete(r.bids, bidID)
	return nil
}

// GetHighestBid returns the highest bid for a product; ties go to the earliest bid
func (r *MemoryRepo) GetHighestBid(_ context.Context, productID uint) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.productBids[productID]
	if len(ids) == 0 {
		return model.Bid{}, fmt.Errorf("get highest bid for product %d: %w", productID, marketerrors.ErrNoBids)
	}

	highest := r.bids[ids[0]]
	for _, id := range ids[1:] {
		b := r.bids[id]
		if b.Amount > highest.Amount || (b.Amount == highest.Amount && b.Date.Before(highest.Date)) {
			highest = b
		}
	}
	return highest, nil
}

// hydrate attaches seller, bids and bidders to a stored product. Callers hold r.mu.
func (r *MemoryRepo) hydrate(product model.Product) model.Product {
	product.Seller = r.users[product.SellerID]

	ids := r.productBids[product.ID]
	product.Bids = make([]model.Bid, 0, len(ids))
	for _, id := range ids {
		bid := r.bids[id]
		bid.Bidder = r.users[bid.BidderID]
		product.Bids = append(product.Bids, bid)
	}
	return product
}

func stripProduct(product model.Product) model.Product {
	product.Seller = model.User{}
	product.Bids = nil
	return product
}
