package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sijamu/backend/internal/auth"
	"github.com/sijamu/backend/internal/logger"
	"github.com/sijamu/backend/internal/models"
)

const identityKey = "identity"

// Auth verifies the bearer token and exposes the caller as "userID", "role",
// "prodi" and an Identity in the gin context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Token tidak ditemukan",
			})
			return
		}

		claims, err := auth.ValidateToken(secret, strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			GetRequestLogger(c).WithError(err).Debug("rejected bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Token tidak valid",
			})
			return
		}

		id := claims.Identity()
		c.Set(identityKey, id)
		c.Set("userID", id.ID)
		c.Set("role", id.Role)
		c.Set("prodi", id.Prodi)
		c.Set(loggerKey, logger.ForCaller(GetRequestLogger(c), id.ID, id.Role, id.Prodi))
		c.Next()
	}
}

// CurrentIdentity returns the caller stored by Auth.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}
