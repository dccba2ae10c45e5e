package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/marketerrors"
	"marketplace-api/internal/models"
	"marketplace-api/internal/repository"
	"marketplace-api/internal/validation"
)

// MarketService defines the business logic for products and bids
type MarketService struct {
	repo      repository.MarketDB
	validator *validation.Validator
	bidPolicy BidPolicy
}

// NewMarketService creates a new MarketService instance
func NewMarketService(repo repository.MarketDB, bidPolicy BidPolicy) *MarketService {
	if bidPolicy == "" {
		bidPolicy = BidPolicyPresence
	}
	return &MarketService{
		repo:      repo,
		validator: validation.New(),
		bidPolicy: bidPolicy,
	}
}

// ListProducts returns every product with its seller and bids
func (s *MarketService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}
	return products, nil
}

// GetProduct returns one product with its seller and bids
func (s *MarketService) GetProduct(ctx context.Context, productID uint) (models.Product, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return models.Product{}, fmt.Errorf("service: failed to get product %d: %w", productID, err)
	}
	return product, nil
}

// CreateProduct validates in and stores it as a product sold by the caller
func (s *MarketService) CreateProduct(ctx context.Context, caller auth.Principal, in validation.ProductInput) (models.Product, error) {
	if caller.ID == 0 {
		return models.Product{}, fmt.Errorf("service: create product: %w", marketerrors.ErrUnauthenticated)
	}

	fields, err := s.validator.Product(in)
	if err != nil {
		return models.Product{}, fmt.Errorf("service: create product: %w", err)
	}

	product := models.Product{SellerID: caller.ID}
	applyProductFields(&product, fields)

	if err := s.repo.CreateProduct(ctx, &product); err != nil {
		return models.Product{}, fmt.Errorf("service: failed to create product for seller %d: %w", caller.ID, err)
	}
	return product, nil
}

// UpdateProduct replaces the editable fields of a product owned by the caller.
// Checks run in order: existence, ownership, then input.
func (s *MarketService) UpdateProduct(ctx context.Context, caller auth.Principal, productID uint, in validation.ProductInput) (models.Product, error) {
	product, err := s.authorizedProduct(ctx, caller, productID)
	if err != nil {
		return models.Product{}, err
	}

	fields, err := s.validator.Product(in)
	if err != nil {
		return models.Product{}, fmt.Errorf("service: update product %d: %w", productID, err)
	}
	applyProductFields(&product, fields)

	if err := s.repo.UpdateProduct(ctx, &product); err != nil {
		return models.Product{}, fmt.Errorf("service: failed to update product %d: %w", productID, err)
	}
	return product, nil
}

// DeleteProduct removes a product owned by the caller together with its bids
func (s *MarketService) DeleteProduct(ctx context.Context, caller auth.Principal, productID uint) error {
	if _, err := s.authorizedProduct(ctx, caller, productID); err != nil {
		return err
	}

	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("service: failed to delete product %d: %w", productID, err)
	}
	return nil
}

// PlaceBid validates and records the caller's bid on an existing product
func (s *MarketService) PlaceBid(ctx context.Context, caller auth.Principal, productID uint, in validation.BidInput) (models.Bid, error) {
	if caller.ID == 0 {
		return models.Bid{}, fmt.Errorf("service: place bid: %w", marketerrors.ErrUnauthenticated)
	}

	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to load product %d: %w", productID, err)
	}

	fields, err := s.validator.Bid(in)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: place bid on product %d: %w", productID, err)
	}

	if err := s.checkBidPolicy(ctx, product, fields.Amount); err != nil {
		return models.Bid{}, err
	}

	bid := models.Bid{
		Amount:    fields.Amount,
		Date:      time.Now().UTC(),
		ProductID: productID,
		BidderID:  caller.ID,
	}

	if err := s.repo.CreateBid(ctx, &bid); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid on product %d by user %d: %w", productID, caller.ID, err)
	}
	return bid, nil
}

// DeleteBid removes a bid placed by the caller
func (s *MarketService) DeleteBid(ctx context.Context, caller auth.Principal, bidID uint) error {
	bid, err := s.repo.GetBid(ctx, bidID)
	if err != nil {
		return fmt.Errorf("service: failed to load bid %d: %w", bidID, err)
	}
	if !auth.IsOwnerOrAdmin(caller, bid) {
		return fmt.Errorf("service: user %d may not delete bid %d: %w", caller.ID, bidID, marketerrors.ErrForbidden)
	}

	if err := s.repo.DeleteBid(ctx, bidID); err != nil {
		return fmt.Errorf("service: failed to delete bid %d: %w", bidID, err)
	}
	return nil
}

func (s *MarketService) authorizedProduct(ctx context.Context, caller auth.Principal, productID uint) (models.Product, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return models.Product{}, fmt.Errorf("service: failed to load product %d: %w", productID, err)
	}
	if !auth.IsOwnerOrAdmin(caller, product) {
		return models.Product{}, fmt.Errorf("service: user %d may not modify product %d: %w", caller.ID, productID, marketerrors.ErrForbidden)
	}
	return product, nil
}

// checkBidPolicy applies the configured bid policy on top of input validation
func (s *MarketService) checkBidPolicy(ctx context.Context, product models.Product, amount float64) error {
	if s.bidPolicy != BidPolicyAboveHighest {
		return nil
	}

	highest, err := s.repo.GetHighestBid(ctx, product.ID)
	switch {
	case err == nil:
		if amount <= highest.Amount {
			return fmt.Errorf("service: %w - current highest bid is %.2f", marketerrors.ErrBidTooLow, highest.Amount)
		}
	case errors.Is(err, marketerrors.ErrNoBids):
		if amount < product.OriginalPrice {
			return fmt.Errorf("service: %w - original price is %.2f", marketerrors.ErrBidTooLow, product.OriginalPrice)
		}
	default:
		return fmt.Errorf("service: failed to check highest bid: %w", err)
	}
	return nil
}

func applyProductFields(product *models.Product, fields validation.ProductFields) {
	product.Name = fields.Name
	product.Description = fields.Description
	product.Category = fields.Category
	product.OriginalPrice = fields.OriginalPrice
	product.PictureURL = fields.PictureURL
	product.EndDate = fields.EndDate
}
