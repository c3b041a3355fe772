package authentication

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehmetcc/virtual-wardrobe/internal/user"
)

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// RefreshResponse is returned by a successful refresh.
type RefreshResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthHandler handles authentication-related HTTP endpoints.
type AuthHandler struct {
	router      *gin.RouterGroup
	service     AuthenticationService
	userService user.UserService
	cookies     CookiePolicy
	logger      *zap.Logger
}

// NewAuthHandler registers auth endpoints on the given router group.
func NewAuthHandler(
	router *gin.RouterGroup,
	service AuthenticationService,
	userService user.UserService,
	cookies CookiePolicy,
	logger *zap.Logger,
) *AuthHandler {
	h := &AuthHandler{router: router, service: service, userService: userService, cookies: cookies, logger: logger}
	h.router.POST("/auth/register", h.Register)
	h.router.POST("/auth/login", h.Login)
	h.router.POST("/auth/refresh", h.Refresh)
	h.router.POST("/auth/logout", h.Logout)
	return h
}

// Register godoc
// @Summary      Register
// @Description  Create an account
// @Tags         auth
// @Accept       json
// @Param        payload  body      RegisterRequest  true  "Account details"
// @Success      200
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and password are required"})
		return
	}
	_, err := h.userService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	switch {
	case err == nil:
		c.Status(http.StatusOK)
	case errors.Is(err, user.ErrUserAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "username or email already taken"})
	case errors.Is(err, user.ErrInvalidEmailFormat),
		errors.Is(err, user.ErrInvalidUsername),
		errors.Is(err, user.ErrPasswordTooShort),
		errors.Is(err, user.ErrPasswordNotAlphanumeric),
		errors.Is(err, user.ErrPasswordDoesNotHaveSpecialCharacter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Register service failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
	}
}

// Login godoc
// @Summary      Login
// @Description  Authenticate with email and password; sets the refresh cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      LoginRequest  true  "Login credentials"
// @Success      200      {object}  LoginResponse
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email or password format"})
		return
	}
	session, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		h.cookies.Set(c.Writer, session.RefreshToken, session.RefreshTokenExpiresAt)
		c.JSON(http.StatusOK, LoginResponse{Username: session.User.Username, Token: session.AccessToken})
	case errors.Is(err, ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		h.logger.Error("Login service failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not login"})
	}
}

// Refresh godoc
// @Summary      Refresh
// @Description  Issue a new access token from the refresh cookie
// @Tags         auth
// @Produce      json
// @Success      200      {object}  RefreshResponse
// @Failure      401      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := h.cookies.Read(c.Request)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	session, err := h.service.Refresh(c.Request.Context(), token)
	switch {
	case err == nil:
		h.cookies.Set(c.Writer, session.RefreshToken, session.RefreshTokenExpiresAt)
		c.JSON(http.StatusOK, RefreshResponse{
			ID:       session.User.ID,
			Username: session.User.Username,
			Email:    session.User.Email,
			Token:    session.AccessToken,
		})
	case errors.Is(err, ErrInvalidRefreshToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
	default:
		h.logger.Error("Refresh service failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not refresh token"})
	}
}

// Logout godoc
// @Summary      Logout
// @Description  Revoke the refresh token in the cookie and clear the cookie
// @Tags         auth
// @Produce      json
// @Success      200      {object}  MessageResponse
// @Failure      500      {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	err := h.service.Logout(c.Request.Context(), h.cookies.Read(c.Request))
	h.cookies.Clear(c.Writer)
	if err != nil {
		h.logger.Error("Logout service failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not logout"})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}
