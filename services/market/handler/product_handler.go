package handler

import (
	"net/http"

	"marketplace-api/internal/marketerrors"
	"marketplace-api/internal/validation"
	"marketplace-api/services/market/helpers"
	"marketplace-api/utils"

	"github.com/gin-gonic/gin"
)

// ListProductsHandler handles GET /api/products
func (h *MarketHandler) ListProductsHandler(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "ListProductsHandler", err, nil)
		return
	}

	resp := make([]helpers.ProductDetailResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, helpers.NewProductDetailResponse(p, h.expand))
	}

	utils.JSONResponse(c, http.StatusOK, resp)
	helpers.LogSuccess("ListProductsHandler", "products retrieved successfully", map[string]any{
		"count": len(resp),
	})
}

// GetProductHandler handles GET /api/products/:productId
func (h *MarketHandler) GetProductHandler(c *gin.Context) {
	productID, ok := helpers.ParseID(c, "productId")
	if !ok {
		helpers.RespondError(c, "GetProductHandler", marketerrors.ErrProductNotFound, map[string]any{"product_id": c.Param("productId")})
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), productID)
	if err != nil {
		helpers.RespondError(c, "GetProductHandler", err, map[string]any{"product_id": productID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewProductDetailResponse(product, h.expand))
	helpers.LogSuccess("GetProductHandler", "product retrieved successfully", map[string]any{
		"product_id": productID,
		"bids":       len(product.Bids),
	})
}

// CreateProductHandler handles POST /api/products
func (h *MarketHandler) CreateProductHandler(c *gin.Context) {
	principal, ok := caller(c, "CreateProductHandler")
	if !ok {
		return
	}

	var req validation.ProductInput
	if err := helpers.BindJSON(c, &req); err != nil {
		helpers.HandleBindError(c, "CreateProductHandler", err)
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), principal, req)
	if err != nil {
		helpers.RespondError(c, "CreateProductHandler", err, map[string]any{"user_id": principal.ID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewProductResponse(product))
	helpers.LogSuccess("CreateProductHandler", "product created successfully", map[string]any{
		"product_id": product.ID,
		"seller_id":  product.SellerID,
	})
}

// UpdateProductHandler handles PUT /api/products/:productId
func (h *MarketHandler) UpdateProductHandler(c *gin.Context) {
	principal, ok := caller(c, "UpdateProductHandler")
	if !ok {
		return
	}

	productID, ok := helpers.ParseID(c, "productId")
	if !ok {
		helpers.RespondError(c, "UpdateProductHandler", marketerrors.ErrProductNotFound, map[string]any{"product_id": c.Param("productId")})
		return
	}

	var req validation.ProductInput
	if err := helpers.BindJSON(c, &req); err != nil {
		helpers.HandleBindError(c, "UpdateProductHandler", err)
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), principal, productID, req)
	if err != nil {
		helpers.RespondError(c, "UpdateProductHandler", err, map[string]any{
			"product_id": productID,
			"user_id":    principal.ID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewProductResponse(product))
	helpers.LogSuccess("UpdateProductHandler", "product updated successfully", map[string]any{
		"product_id": productID,
		"user_id":    principal.ID,
	})
}

// DeleteProductHandler handles DELETE /api/products/:productId
func (h *MarketHandler) DeleteProductHandler(c *gin.Context) {
	principal, ok := caller(c, "DeleteProductHandler")
	if !ok {
		return
	}

	productID, ok := helpers.ParseID(c, "productId")
	if !ok {
		helpers.RespondError(c, "DeleteProductHandler", marketerrors.ErrProductNotFound, map[string]any{"product_id": c.Param("productId")})
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), principal, productID); err != nil {
		helpers.RespondError(c, "DeleteProductHandler", err, map[string]any{
			"product_id": productID,
			"user_id":    principal.ID,
		})
		return
	}

	utils.NoContent(c, http.StatusNoContent)
	helpers.LogSuccess("DeleteProductHandler", "product deleted successfully", map[string]any{
		"product_id": productID,
		"user_id":    principal.ID,
	})
}
