package handler

import (
	"net/http"

	"marketplace-api/internal/marketerrors"
	"marketplace-api/internal/validation"
	"marketplace-api/services/market/helpers"
	"marketplace-api/utils"

	"github.com/gin-gonic/gin"
)

// CreateBidHandler handles POST /api/products/:productId/bids
func (h *MarketHandler) CreateBidHandler(c *gin.Context) {
	principal, ok := caller(c, "CreateBidHandler")
	if !ok {
		return
	}

	productID, ok := helpers.ParseID(c, "productId")
	if !ok {
		helpers.RespondError(c, "CreateBidHandler", marketerrors.ErrProductNotFound, map[string]any{"product_id": c.Param("productId")})
		return
	}

	var req validation.BidInput
	if err := helpers.BindJSON(c, &req); err != nil {
		helpers.HandleBindError(c, "CreateBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(c.Request.Context(), principal, productID, req)
	if err != nil {
		helpers.RespondError(c, "CreateBidHandler", err, map[string]any{
			"product_id": productID,
			"user_id":    principal.ID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewBidResponse(bid, helpers.Expand{}))
	helpers.LogSuccess("CreateBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":     bid.ID,
		"product_id": bid.ProductID,
		"user_id":    principal.ID,
		"amount":     bid.Amount,
	})
}

// DeleteBidHandler handles DELETE /api/bids/:bidId
func (h *MarketHandler) DeleteBidHandler(c *gin.Context) {
	principal, ok := caller(c, "DeleteBidHandler")
	if !ok {
		return
	}

	bidID, ok := helpers.ParseID(c, "bidId")
	if !ok {
		helpers.RespondError(c, "DeleteBidHandler", marketerrors.ErrBidNotFound, map[string]any{"bid_id": c.Param("bidId")})
		return
	}

	if err := h.service.DeleteBid(c.Request.Context(), principal, bidID); err != nil {
		helpers.RespondError(c, "DeleteBidHandler", err, map[string]any{
			"bid_id":  bidID,
			"user_id": principal.ID,
		})
		return
	}

	utils.NoContent(c, http.StatusNoContent)
	helpers.LogSuccess("DeleteBidHandler", "bid deleted successfully", map[string]any{
		"bid_id":  bidID,
		"user_id": principal.ID,
	})
}
