package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/waste3d/courseplatform-api/internal/platform/httpmw"
)

const UserIDKey = "userId"

// RequireUser takes the caller id from the header set by the edge gateway.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(httpmw.UserIDHeader))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": httpmw.UserIDHeader + " header is required"})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}
