package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/weqtian/user_center/internal/apperrors"
	"github.com/weqtian/user_center/internal/dto"
)

// AbortWithError logs err at a level matching its kind and aborts with the response envelope.
func AbortWithError(c *gin.Context, err error) {
	logger := GetLoggerFromCtx(c.Request.Context())
	switch apperrors.KindOf(err) {
	case apperrors.KindSystem:
		logger.Error().Err(err).Msg("Request failed")
	case apperrors.KindAuth:
		logger.Warn().Err(err).Msg("Request rejected")
	default:
		logger.Info().Err(err).Msg("Request rejected")
	}
	status, body := dto.ErrorResponse(err)
	c.AbortWithStatusJSON(status, body)
}
