package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weqtian/user_center/internal/apperrors"
	"github.com/weqtian/user_center/internal/core/domain"
	portssvc "github.com/weqtian/user_center/internal/core/ports/services"
	"github.com/weqtian/user_center/internal/dto"
	"github.com/weqtian/user_center/internal/middleware"
)

// authHandler handles registration and the session lifecycle.
type authHandler struct {
	authService portssvc.AuthSvcFacade
}

func newAuthHandler(as portssvc.AuthSvcFacade) *authHandler {
	return &authHandler{authService: as}
}

// registerAuthRoutes sets up the routes for authentication.
// Register and login are throttled per client IP.
func registerAuthRoutes(rg *gin.RouterGroup, authService portssvc.AuthSvcFacade, throttle gin.HandlerFunc) {
	h := newAuthHandler(authService)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", throttle, h.register)
		auth.POST("/login", throttle, h.login)
		auth.POST("/logout", middleware.AuthMiddleware(authService), h.logout)
		auth.GET("/refresh-token", h.refreshToken)
	}
}

// register godoc
// @Summary Register new user
// @Description Creates a new user account. Business failures such as a taken email are returned in a 200 envelope with their own code.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 200 {object} dto.Response{data=dto.UserResponse}
// @Failure 400 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Failure 429 {object} dto.Response
// @Failure 500 {object} dto.Response
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, bindingError(err, registerFieldCodes))
		return
	}

	meta := domain.RequestMeta{ClientIP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	user, err := h.authService.Register(c.Request.Context(), req, meta)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info().
		Str("new_user_id", user.UserID).
		Msg("User registered")
	c.JSON(http.StatusOK, dto.Success(dto.ToUserResponse(*user)))
}

// login godoc
// @Summary User login
// @Description Verifies email and password and issues a new token pair, replacing any previous session.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.Response{data=dto.TokenResponse}
// @Failure 401 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Failure 429 {object} dto.Response
// @Failure 500 {object} dto.Response
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, bindingError(err, fieldCodes{"email": apperrors.CodeEmailFormatError}))
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToTokenResponse(*pair)))
}

// logout godoc
// @Summary User logout
// @Description Clears the stored session so that the current tokens stop working.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Failure 500 {object} dto.Response
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	claims, ok := middleware.GetTokenClaimsFromContext(c)
	if !ok {
		middleware.AbortWithError(c, apperrors.TokenInvalid(""))
		return
	}

	if err := h.authService.Logout(c.Request.Context(), *claims); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(nil))
}

// refreshToken godoc
// @Summary Refresh the token pair
// @Description Exchanges the live refresh token for a new pair. The token is read from the refresh_token query parameter, or from a bearer Authorization header.
// @Tags auth
// @Produce json
// @Param refresh_token query string false "Refresh token"
// @Success 200 {object} dto.Response{data=dto.TokenResponse}
// @Failure 401 {object} dto.Response
// @Failure 500 {object} dto.Response
// @Router /auth/refresh-token [get]
func (h *authHandler) refreshToken(c *gin.Context) {
	var params dto.RefreshTokenParams
	if err := c.ShouldBindQuery(&params); err != nil {
		middleware.AbortWithError(c, bindingError(err, nil))
		return
	}

	token := params.RefreshToken
	if token == "" {
		var err error
		if token, err = middleware.BearerToken(c); err != nil {
			middleware.AbortWithError(c, err)
			return
		}
	}

	pair, err := h.authService.RefreshToken(c.Request.Context(), token)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ToTokenResponse(*pair)))
}
