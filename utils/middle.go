package utils

import (
	"FileVault/internal/repo"
	"FileVault/model"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const authTokenCacheTTL = 5 * time.Minute

// ContextUserKey is where AuthMiddleware stores the resolved user.
const ContextUserKey = "user"

// AuthMiddleware resolves the bearer token to a user record and sets it on
// the request context. Tokens are immutable, so resolutions are cached.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not able to retrieve auth header from request"})
			c.Abort()
			return
		}
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not able to retrieve auth header from request"})
			c.Abort()
			return
		}
		token := tokenParts[1]

		if cached, ok := GetUserByTokenFromCache(c.Request.Context(), token); ok {
			c.Set(ContextUserKey, cached)
			c.Next()
			return
		}

		var user model.User
		if err := repo.Db.Where("token = ?", token).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid auth token"})
			c.Abort()
			return
		}
		_ = SetUserByTokenToCache(c.Request.Context(), token, &user, authTokenCacheTTL)

		c.Set(ContextUserKey, &user)
		c.Next()
	}
}

// CurrentUser returns the user attached by AuthMiddleware.
func CurrentUser(c *gin.Context) *model.User {
	return c.MustGet(ContextUserKey).(*model.User)
}
