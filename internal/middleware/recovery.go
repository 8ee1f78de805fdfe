package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/weqtian/user_center/internal/apperrors"
	"github.com/weqtian/user_center/internal/dto"
)

// Recovery turns a panic into a generic 500 envelope and logs it with the stack.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		GetLoggerFromCtx(c.Request.Context()).Error().
			Str("panic", fmt.Sprint(recovered)).
			Bytes("stack", debug.Stack()).
			Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Response{
			Code:    int(apperrors.CodeSystemError),
			Message: apperrors.CodeSystemError.Message(),
		})
	})
}
