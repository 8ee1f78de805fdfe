package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weqtian/user_center/internal/apperrors"
	portsrepo "github.com/weqtian/user_center/internal/core/ports/repositories"
	"github.com/weqtian/user_center/internal/dto"
	"github.com/weqtian/user_center/internal/middleware"
)

const healthCheckTimeout = 3 * time.Second

// getHealth godoc
// @Summary Show the status of server.
// @Description Reports liveness and whether the user store answers a ping.
// @Tags root
// @Produce json
// @Success 200 {object} dto.Response
// @Failure 500 {object} dto.Response
// @Router /health [get]
func getHealth(store portsrepo.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			middleware.AbortWithError(c, apperrors.System(err))
			return
		}
		c.JSON(http.StatusOK, dto.Success(gin.H{"status": "ok"}))
	}
}
