package models

import "time"

// User represents a marketplace account. Users are created outside this service.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Admin     bool      `gorm:"not null;default:false" json:"admin"`
	CreatedAt time.Time `json:"-"`
}

// Product represents an item put up for auction by its seller
type Product struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	Category      string    `gorm:"index;not null" json:"category"`
	OriginalPrice float64   `gorm:"not null" json:"originalPrice"`
	PictureURL    string    `gorm:"not null" json:"pictureUrl"`
	EndDate       time.Time `gorm:"not null" json:"endDate"`
	SellerID      uint      `gorm:"index;not null;<-:create" json:"sellerId"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`

	Seller User  `gorm:"foreignKey:SellerID" json:"-"`
	Bids   []Bid `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

// OwnerID returns the seller of the product.
func (p Product) OwnerID() uint { return p.SellerID }

// Bid represents a user's bid on a product
type Bid struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Date      time.Time `gorm:"not null" json:"date"`
	ProductID uint      `gorm:"index;not null;<-:create" json:"productId"`
	BidderID  uint      `gorm:"index;not null;<-:create" json:"bidderId"`

	Bidder User `gorm:"foreignKey:BidderID" json:"-"`
}

// OwnerID returns the bidder who placed the bid.
func (b Bid) OwnerID() uint { return b.BidderID }
