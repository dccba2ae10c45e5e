package repository

import (
	"context"
	"errors"
	"fmt"

	"marketplace-api/internal/marketerrors"
	model "marketplace-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepo implements MarketDB on a relational database through gorm
type GormRepo struct {
	db *gorm.DB
}

// NewGormRepo creates a repository backed by db. The schema is expected to be migrated.
func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

// AddUser inserts a user. Users are owned by an external system; this is used for seeding and tests.
func (r *GormRepo) AddUser(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("add user %q: %w", user.Username, err)
	}
	return nil
}

func (r *GormRepo) GetUser(ctx context.Context, userID uint) (model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return model.User{}, notFound(err, marketerrors.ErrUserNotFound, "get user %d", userID)
	}
	return user, nil
}

func (r *GormRepo) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.withAssociations(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, productID uint) (model.Product, error) {
	var product model.Product
	if err := r.withAssociations(ctx).First(&product, productID).Error; err != nil {
		return model.Product{}, notFound(err, marketerrors.ErrProductNotFound, "get product %d", productID)
	}
	return product, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.User{}, product.SellerID).Error; err != nil {
			return notFound(err, marketerrors.ErrUserNotFound, "create product for seller %d", product.SellerID)
		}
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		return nil
	})
}

// UpdateProduct writes the editable columns only; seller_id is create-only.
func (r *GormRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	res := r.db.WithContext(ctx).
		Model(product).
		Select("Name", "Description", "Category", "OriginalPrice", "PictureURL", "EndDate", "UpdatedAt").
		Omit(clause.Associations).
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("update product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update product %d: %w", product.ID, marketerrors.ErrProductNotFound)
	}
	return nil
}

// DeleteProduct removes the product and its bids in one transaction
func (r *GormRepo) DeleteProduct(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.Bid{}).Error; err != nil {
			return fmt.Errorf("delete bids of product %d: %w", productID, err)
		}
		res := tx.Delete(&model.Product{}, productID)
		if res.Error != nil {
			return fmt.Errorf("delete product %d: %w", productID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete product %d: %w", productID, marketerrors.ErrProductNotFound)
		}
		return nil
	})
}

func (r *GormRepo) CreateBid(ctx context.Context, bid *model.Bid) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.Product{}, bid.ProductID).Error; err != nil {
			return notFound(err, marketerrors.ErrProductNotFound, "record bid for product %d", bid.ProductID)
		}
		if err := tx.Select("id").First(&model.User{}, bid.BidderID).Error; err != nil {
			return notFound(err, marketerrors.ErrUserNotFound, "record bid for bidder %d", bid.BidderID)
		}
		if err := tx.Omit(clause.Associations).Create(bid).Error; err != nil {
			return fmt.Errorf("record bid: %w", err)
		}
		return nil
	})
}

func (r *GormRepo) GetBid(ctx context.Context, bidID uint) (model.Bid, error) {
	var bid model.Bid
	if err := r.db.WithContext(ctx).Preload("Bidder").First(&bid, bidID).Error; err != nil {
		return model.Bid{}, notFound(err, marketerrors.ErrBidNotFound, "get bid %d", bidID)
	}
	return bid, nil
}

func (r *GormRepo) DeleteBid(ctx context.Context, bidID uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Bid{}, bidID)
	if res.Error != nil {
		return fmt.Errorf("delete bid %d: %w", bidID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete bid %d: %w", bidID, marketerrors.ErrBidNotFound)
	}
	return nil
}

func (r *GormRepo) GetHighestBid(ctx context.Context, productID uint) (model.Bid, error) {
	var bid model.Bid
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("amount DESC").Order("date ASC").Order("id ASC").
		First(&bid).Error
	if err != nil {
		return model.Bid{}, notFound(err, marketerrors.ErrNoBids, "get highest bid for product %d", productID)
	}
	return bid, nil
}

func (r *GormRepo) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Seller").
		Preload("Bids", func(db *gorm.DB) *gorm.DB { return db.Order("bids.id") }).
		Preload("Bids.Bidder")
}

// notFound maps gorm.ErrRecordNotFound to sentinel and wraps anything else as is.
func notFound(err, sentinel error, format string, args ...any) error {
	op := fmt.Sprintf(format, args...)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, sentinel)
	}
	return fmt.Errorf("%s: %w", op, err)
}
