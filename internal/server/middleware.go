package server

import (
	"net/http"
	"time"

	"marketplace-api/internal/auth"
	"marketplace-api/utils"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// RequestLoggerMiddleware tags each request with an ID and logs it with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	requestID := c.GetHeader(requestIDHeader)
	if !utils.IsID(requestID) {
		requestID = utils.GenerateID()
	}
	c.Header(requestIDHeader, requestID)

	c.Next() // process request

	fields := map[string]any{
		"request_id": requestID,
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     c.Writer.Status(),
		"latency":    time.Since(start).String(),
	}
	if p, ok := auth.PrincipalFrom(c); ok {
		fields["user_id"] = p.ID
	}
	utils.Info("HTTP Request", fields)
}

// NotFoundHandler answers unknown routes with a JSON 404
func NotFoundHandler(c *gin.Context) {
	utils.JSONError(c, http.StatusNotFound, "route not found", nil)
}

// HealthHandler reports that the process is serving requests
func HealthHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, gin.H{"status": "ok"})
}
