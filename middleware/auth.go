package middleware

import (
	"github.com/gin-gonic/gin"

	"hashtag-feed-platform/internal/auth"
	"hashtag-feed-platform/internal/config"
	"hashtag-feed-platform/utils"
)

// AuthMiddleware guards the write endpoints (like/comment/repost/create).
// Tokens are issued by the deployment's identity provider; this service
// only validates them.
type AuthMiddleware struct {
	config *config.Config
}

func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{config: cfg}
}

func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.config.AccessSecret == "" {
			utils.RespondWithInternalError(c, "Write endpoints are not configured", nil)
			c.Abort()
			return
		}

		tokenString := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if tokenString == "" {
			utils.RespondWithUnauthorized(c, "Authentication token is required")
			c.Abort()
			return
		}

		claims, err := auth.ValidateJWT(tokenString, a.config.AccessSecret)
		if err != nil {
			utils.RespondWithUnauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// GetUserID retrieves the authenticated user id from context
func GetUserID(c *gin.Context) string {
	if id, exists := c.Get("user_id"); exists {
		if str, ok := id.(string); ok {
			return str
		}
	}
	return ""
}
