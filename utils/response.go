package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse sends data as the JSON body
func JSONResponse(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// NoContent sends an empty response with the given status
func NoContent(c *gin.Context, status int) {
	c.Status(status)
}

// JSONError sends a structured error response. details lists offending
// fields and is omitted when empty. Internal error text never goes here.
func JSONError(c *gin.Context, status int, message string, details []string) {
	c.JSON(status, errorBody(message, details))
}

// AbortWithError sends a structured error response and stops the handler chain
func AbortWithError(c *gin.Context, status int, message string, details []string) {
	c.AbortWithStatusJSON(status, errorBody(message, details))
}

func errorBody(message string, details []string) gin.H {
	body := gin.H{"error": message}
	if len(details) > 0 {
		body["details"] = details
	}
	return body
}
