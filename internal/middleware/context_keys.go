package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/weqtian/user_center/internal/core/domain"
)

type contextKey string

// claimsKey stores the verified token claims in the request context.
const claimsKey = contextKey("tokenClaims")

// WithTokenClaims returns a copy of ctx carrying claims.
func WithTokenClaims(ctx context.Context, claims *domain.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetTokenClaimsFromContext retrieves the claims placed by the auth middleware.
func GetTokenClaimsFromContext(c *gin.Context) (*domain.TokenClaims, bool) {
	claims, ok := c.Request.Context().Value(claimsKey).(*domain.TokenClaims)
	return claims, ok && claims != nil
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	claims, ok := GetTokenClaimsFromContext(c)
	if !ok {
		return "", false
	}
	return claims.UserID, true
}
