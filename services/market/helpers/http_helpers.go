package helpers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"marketplace-api/internal/marketerrors"
	"marketplace-api/utils"

	"github.com/gin-gonic/gin"
)

// BindJSON decodes the request body into obj. An empty body decodes to the
// zero value so that validation can report every missing field.
func BindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// HandleBindError sends a standardized JSON error for bodies that are not a
// JSON object. Field-level type problems never get here: input types decode
// leniently and are reported by validation.
func HandleBindError(c *gin.Context, handlerName string, err error) {
	utils.JSONError(c, http.StatusBadRequest, "invalid request payload", nil)
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, marketerrors.ErrInvalidInput):
		return http.StatusBadRequest, "invalid or missing fields"
	case errors.Is(err, marketerrors.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, marketerrors.ErrBidNotFound):
		return http.StatusNotFound, "bid not found"
	case errors.Is(err, marketerrors.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, marketerrors.ErrUnauthenticated), errors.Is(err, marketerrors.ErrUserNotFound):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, marketerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError writes the client-facing error for err and logs the full
// error. Server errors are logged at error level, client errors at warn.
func RespondError(c *gin.Context, handlerName string, err error, ctx map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, message, marketerrors.InvalidFields(err))

	fields := map[string]any{"handler": handlerName, "status": status, "error": err.Error()}
	for k, v := range ctx {
		fields[k] = v
	}
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// ParseID reads a positive numeric path parameter
func ParseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
