package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/weqtian/user_center/internal/apperrors"
	portssvc "github.com/weqtian/user_center/internal/core/ports/services"
)

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", apperrors.HeaderMissingAuthorization("")
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", apperrors.HeaderMissingAuthorization("Authorization header format must be Bearer {token}")
	}
	return parts[1], nil
}

// AuthMiddleware guards routes that need a live access token. On success the
// verified claims are placed in the request context and the request logger
// gains the user ID.
func AuthMiddleware(verifier portssvc.TokenVerifierSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := BearerToken(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		claims, err := verifier.VerifyAccessToken(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		enriched := GetLoggerFromCtx(c.Request.Context()).With().Str("user_id", claims.UserID).Logger()
		ctx := WithTokenClaims(c.Request.Context(), claims)
		c.Request = c.Request.WithContext(enriched.WithContext(ctx))

		c.Next()
	}
}
