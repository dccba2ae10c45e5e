package server

import (
	"marketplace-api/internal/auth"
	handler "marketplace-api/services/market/handler"
	"marketplace-api/services/market/helpers"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(marketService handler.MarketServiceInterface, gate *auth.Gate, expand helpers.Expand) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.NoRoute(NotFoundHandler)

	marketHandler := handler.NewMarketHandler(marketService, expand)
	requireAuth := gate.Middleware()

	router.GET("/healthz", HealthHandler)

	api := router.Group("/api")

	products := api.Group("/products")
	{
		products.GET("", marketHandler.ListProductsHandler)
		products.GET("/:productId", marketHandler.GetProductHandler)
		products.POST("", requireAuth, marketHandler.CreateProductHandler)
		products.PUT("/:productId", requireAuth, marketHandler.UpdateProductHandler)
		products.DELETE("/:productId", requireAuth, marketHandler.DeleteProductHandler)
		products.POST("/:productId/bids", requireAuth, marketHandler.CreateBidHandler)
	}

	bids := api.Group("/bids")
	{
		bids.DELETE("/:bidId", requireAuth, marketHandler.DeleteBidHandler)
	}

	return router
}
