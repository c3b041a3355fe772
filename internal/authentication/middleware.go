package authentication

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehmetcc/virtual-wardrobe/internal/user"
	"github.com/mehmetcc/virtual-wardrobe/internal/utils"
)

// AuthMiddleware is the authorization gate. It validates the bearer access
// token and stores a user.Principal in the context. It never touches the
// database: an access token is valid on signature and timestamps alone.
func AuthMiddleware(tokenConfig *utils.TokenConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, err := utils.ParseAccessToken(parts[1], tokenConfig)
		if err != nil {
			logger.Debug("access token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		userID, err := utils.SubjectID(claims)
		if err != nil {
			logger.Warn("access token with invalid subject", zap.String("jti", claims.ID))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(user.ContextPrincipalKey, user.Principal{
			UserID:   userID,
			Username: claims.UniqueName,
			Email:    claims.Email,
			TokenID:  claims.ID,
		})
		c.Next()
	}
}

// AdminMiddleware lets through principals whose stored account carries the
// administrator flag. It must run after AuthMiddleware.
func AdminMiddleware(userService user.UserService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := user.PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		u, err := userService.ReadUserByID(c.Request.Context(), principal.UserID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			logger.Error("failed to load user for admin check", zap.Uint("userID", principal.UserID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not validate user"})
			return
		}
		if !u.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
