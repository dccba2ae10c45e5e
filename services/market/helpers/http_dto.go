package helpers

import (
	"time"

	model "marketplace-api/internal/models"
)

// Expand selects which associations are serialized on product reads
type Expand struct {
	Seller bool // seller summary on each product
	Bids   bool // bids of each product
	Bidder bool // bidder summary on each bid
	Email  bool // email on seller and bidder summaries
}

// DefaultExpand includes seller, bids and bidders but leaves emails out
func DefaultExpand() Expand {
	return Expand{Seller: true, Bids: true, Bidder: true}
}

// Response DTOs
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type ProductResponse struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	OriginalPrice float64 `json:"originalPrice"`
	PictureURL    string  `json:"pictureUrl"`
	EndDate       string  `json:"endDate"`
	SellerID      uint    `json:"sellerId"`
}

type ProductDetailResponse struct {
	ProductResponse
	Seller *UserSummary   `json:"seller,omitempty"`
	Bids   *[]BidResponse `json:"bids,omitempty"`
}

type BidResponse struct {
	ID        uint         `json:"id"`
	Amount    float64      `json:"amount"`
	Date      string       `json:"date"`
	ProductID uint         `json:"productId"`
	BidderID  uint         `json:"bidderId"`
	Bidder    *UserSummary `json:"bidder,omitempty"`
}

func NewProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		OriginalPrice: p.OriginalPrice,
		PictureURL:    p.PictureURL,
		EndDate:       formatTime(p.EndDate),
		SellerID:      p.SellerID,
	}
}

// NewProductDetailResponse projects a product and its associations according to expand
func NewProductDetailResponse(p model.Product, expand Expand) ProductDetailResponse {
	resp := ProductDetailResponse{ProductResponse: NewProductResponse(p)}

	if expand.Seller {
		seller := newUserSummary(p.Seller, p.SellerID, expand.Email)
		resp.Seller = &seller
	}
	if expand.Bids {
		bids := make([]BidResponse, 0, len(p.Bids))
		for _, b := range p.Bids {
			bids = append(bids, NewBidResponse(b, expand))
		}
		resp.Bids = &bids
	}
	return resp
}

// NewBidResponse projects a bid; the bidder is included when expand.Bidder is set
func NewBidResponse(b model.Bid, expand Expand) BidResponse {
	resp := BidResponse{
		ID:        b.ID,
		Amount:    b.Amount,
		Date:      formatTime(b.Date),
		ProductID: b.ProductID,
		BidderID:  b.BidderID,
	}
	if expand.Bidder {
		bidder := newUserSummary(b.Bidder, b.BidderID, expand.Email)
		resp.Bidder = &bidder
	}
	return resp
}

func newUserSummary(u model.User, id uint, withEmail bool) UserSummary {
	summary := UserSummary{ID: id, Username: u.Username}
	if withEmail {
		summary.Email = u.Email
	}
	return summary
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
