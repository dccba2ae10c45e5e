package auth

import (
	"context"
	"errors"
	"net/http"

	"marketplace-api/internal/marketerrors"
	"marketplace-api/utils"

	"github.com/gin-gonic/gin"
)

type principalCtxKey struct{}

// Middleware rejects requests without a valid bearer token and attaches
// the caller's principal for the handlers downstream.
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := g.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, marketerrors.ErrUnauthenticated) {
				utils.Warn("AuthMiddleware: request rejected", map[string]any{
					"path":  c.Request.URL.Path,
					"error": err.Error(),
				})
				utils.AbortWithError(c, http.StatusUnauthorized, "unauthenticated", nil)
				return
			}
			utils.Error("AuthMiddleware: failed to resolve principal", map[string]any{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			utils.AbortWithError(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}

		SetPrincipal(c, principal)
		utils.Debug("AuthMiddleware: principal resolved", map[string]any{
			"path":    c.Request.URL.Path,
			"user_id": principal.ID,
			"admin":   principal.Admin,
		})
		c.Next()
	}
}

// SetPrincipal attaches p to the request context.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
}

// PrincipalFrom returns the principal attached by Middleware
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	return PrincipalFromContext(c.Request.Context())
}

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// PrincipalFromContext returns the principal carried by a request context
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(Principal)
	return p, ok
}
