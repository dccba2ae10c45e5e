package handler

import (
	"context"
	"net/http"

	"marketplace-api/internal/auth"
	model "marketplace-api/internal/models"
	"marketplace-api/internal/validation"
	"marketplace-api/services/market/helpers"
	"marketplace-api/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=market_handler.go -destination=mock_market_service.go -package=handler

type MarketServiceInterface interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, productID uint) (model.Product, error)
	CreateProduct(ctx context.Context, caller auth.Principal, in validation.ProductInput) (model.Product, error)
	UpdateProduct(ctx context.Context, caller auth.Principal, productID uint, in validation.ProductInput) (model.Product, error)
	DeleteProduct(ctx context.Context, caller auth.Principal, productID uint) error
	PlaceBid(ctx context.Context, caller auth.Principal, productID uint, in validation.BidInput) (model.Bid, error)
	DeleteBid(ctx context.Context, caller auth.Principal, bidID uint) error
}

type MarketHandler struct {
	service MarketServiceInterface
	expand  helpers.Expand
}

func NewMarketHandler(service MarketServiceInterface, expand helpers.Expand) *MarketHandler {
	return &MarketHandler{service: service, expand: expand}
}

// caller returns the authenticated principal, answering 401 when there is none
func caller(c *gin.Context, handlerName string) (auth.Principal, bool) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthenticated", nil)
		utils.Warn(handlerName+": no principal on request", map[string]any{"path": c.Request.URL.Path})
		return auth.Principal{}, false
	}
	return p, true
}
