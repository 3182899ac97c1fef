package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// BodySizeLimiter rejects requests whose body exceeds maxBytes. The
// declared Content-Length is checked up front so oversized requests
// never reach a handler; lying clients are caught by MaxBytesReader
// while the body is being read
func BodySizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"status":    http.StatusRequestEntityTooLarge,
				"message":   "Request body size exceeds limit",
				"errors":    []string{"request body too large"},
				"requestID": c.GetString("requestID"),
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()

		if last := c.Errors.Last(); last != nil && strings.Contains(last.Error(), "http: request body too large") {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"status":    http.StatusRequestEntityTooLarge,
				"message":   "Request body size exceeds limit",
				"errors":    []string{"request body too large"},
				"requestID": c.GetString("requestID"),
			})
		}
	}
}
