package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IDRequest represents a URI ID parameter.
type IDRequest struct {
	ID uint `uri:"id" binding:"required,min=1"`
}

// UserHandler serves read access to user records.
type UserHandler struct {
	service UserService
	logger  *zap.Logger
}

func NewUserHandler(service UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

// RegisterSelfRoutes mounts the endpoints any authenticated caller may use.
func (h *UserHandler) RegisterSelfRoutes(router *gin.RouterGroup) {
	router.GET("/users/me", h.ReadCurrentUser)
}

// RegisterAdminRoutes mounts administrator lookups. The group must already
// enforce authentication and the administrator flag.
func (h *UserHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/users/:id", h.ReadUserByID)
	router.GET("/users", h.ReadUserByEmail)
}

// ReadCurrentUser godoc
// @Summary      Get current user
// @Description  Fetch the record of the authenticated caller
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} User
// @Failure      401 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /users/me [get]
func (h *UserHandler) ReadCurrentUser(c *gin.Context) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	u, err := h.service.ReadUserByID(c.Request.Context(), principal.UserID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, u)
	case errors.Is(err, ErrUserNotFound):
		// valid token for a user that no longer exists
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		h.logger.Error("service.ReadUserByID failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch user"})
	}
}

// ReadUserByID godoc
// @Summary      Get user by ID
// @Description  Fetch a user by ID (administrators only)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  User
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) ReadUserByID(c *gin.Context) {
	var uri IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing id"})
		return
	}
	u, err := h.service.ReadUserByID(c.Request.Context(), uri.ID)
	h.respondWithUser(c, u, err)
}

// ReadUserByEmail godoc
// @Summary      Get user by email
// @Description  Fetch a user by email (administrators only)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  true  "Email address"
// @Success      200    {object}  User
// @Failure      400    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) ReadUserByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter required"})
		return
	}
	u, err := h.service.ReadUserByEmail(c.Request.Context(), email)
	h.respondWithUser(c, u, err)
}

func (h *UserHandler) respondWithUser(c *gin.Context, u *User, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, u)
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		h.logger.Error("user lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch user"})
	}
}
