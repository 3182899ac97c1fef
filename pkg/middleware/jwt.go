package middleware

import (
	"net/http"
	"strings"

	"devlink/connect-api/internal/model"
	"devlink/connect-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewJWTMiddleware is the auth gateway for protected routes. It pulls
// the access token from the accessToken cookie (or an Authorization
// bearer header), verifies it and resolves the encoded user against
// the database. Any failure is a 401 before the handler runs
func NewJWTMiddleware(d *gorm.DB, tokens *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		raw, err := c.Cookie("accessToken")
		if err != nil {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				raw = strings.TrimPrefix(h, "Bearer ")
			}
		}

		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":    http.StatusUnauthorized,
				"message":   "Authentication required",
				"errors":    []string{"no access token provided"},
				"requestID": requestID,
			})
			return
		}

		claims, err := tokens.ParseAccess(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":    http.StatusUnauthorized,
				"message":   "Access token invalid or expired",
				"errors":    []string{err.Error()},
				"requestID": requestID,
			})
			return
		}

		// A valid token may outlive its account. Deleted users are
		// rejected here instead of surfacing deeper in a handler
		var user model.User
		err = d.Where("id = ?", claims.UserID).First(&user).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"status":    http.StatusUnauthorized,
					"message":   "Access token invalid or expired",
					"errors":    []string{"user no longer exists"},
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"status":    http.StatusInternalServerError,
				"message":   "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to resolve token user", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set("userID", user.ID)
		c.Set("user", &user)
		c.Next()
	}
}
