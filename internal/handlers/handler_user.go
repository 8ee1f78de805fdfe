package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weqtian/user_center/internal/apperrors"
	portssvc "github.com/weqtian/user_center/internal/core/ports/services"
	"github.com/weqtian/user_center/internal/dto"
	"github.com/weqtian/user_center/internal/middleware"
	"github.com/weqtian/user_center/internal/utils/pagination"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers all user-related routes. Every route needs a live access token.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, verifier portssvc.TokenVerifierSvc) {
	h := newUserHandler(userService)

	users := rg.Group("/user", middleware.AuthMiddleware(verifier))
	{
		users.GET("/get-info", h.getInfo)
		users.GET("/get-user-list", h.listUsers)
	}
}

// getInfo godoc
// @Summary Current user
// @Description Returns the profile of the authenticated user.
// @Tags users
// @Produce json
// @Success 200 {object} dto.Response{data=dto.UserResponse}
// @Failure 401 {object} dto.Response
// @Failure 500 {object} dto.Response
// @Security BearerAuth
// @Router /user/get-info [get]
func (h *userHandler) getInfo(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.AbortWithError(c, apperrors.TokenInvalid(""))
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToUserResponse(*user)))
}

// listUsers godoc
// @Summary List users
// @Description Lists users that are not deleted, ordered by creation time.
// @Tags users
// @Produce json
// @Param page query int false "Page number, values below 1 are treated as 1" default(1)
// @Param page_size query int false "Items per page (1-100)" default(10)
// @Param sort_by query int false "0 newest first, 1 oldest first" default(0)
// @Success 200 {object} dto.Response{data=dto.ListUsersResponse}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Failure 500 {object} dto.Response
// @Security BearerAuth
// @Router /user/get-user-list [get]
func (h *userHandler) listUsers(c *gin.Context) {
	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		middleware.AbortWithError(c, bindingError(err, nil))
		return
	}

	page, err := pagination.NewPage(params.Page, params.PageSize, params.SortBy)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	result, err := h.userService.ListUsers(c.Request.Context(), page)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToListUsersResponse(*result)))
}
