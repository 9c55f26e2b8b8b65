package handler

import (
	identityapp "github.com/finsuite/backend/internal/application/identity"
	"github.com/finsuite/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// UserHandler handles sign-up, sign-in and session endpoints
type UserHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(authService *identityapp.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
	}
}

// SignUp godoc
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identityapp.SignUpRequest true "Registration data"
// @Success      201 {object} dto.Response{data=identityapp.AuthResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /users/sign-up [post]
func (h *UserHandler) SignUp(c *gin.Context) {
	var req identityapp.SignUpRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.SignUp(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// SignIn godoc
// @Summary      Sign in
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identityapp.SignInRequest true "Credentials"
// @Success      200 {object} dto.Response{data=identityapp.AuthResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /users/sign-in [post]
func (h *UserHandler) SignIn(c *gin.Context) {
	var req identityapp.SignInRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.SignIn(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Me godoc
// @Summary      Get current user
// @Tags         users
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	email := middleware.GetJWTEmail(c)
	if email == "" {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.authService.Me(c.Request.Context(), email)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// SignOut godoc
// @Summary      Sign out
// @Description  Revoke the presented token until it expires
// @Tags         users
// @Success      204
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/sign-out [post]
func (h *UserHandler) SignOut(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.authService.SignOut(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
