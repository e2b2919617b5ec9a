package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/waste3d/courseplatform-api/internal/platform/logger"
	"github.com/waste3d/courseplatform-api/internal/platform/servicekey"
)

// ServiceKey admits only callers holding the shared service credential.
func ServiceKey(auth *servicekey.Authorizer, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := auth.Verify(c.Request.Header)
		if err == nil {
			c.Next()
			return
		}
		if log != nil {
			log.Warn("service credential rejected", "path", c.FullPath(), "ip", c.ClientIP(), "reason", err.Error())
		}
		msg := "invalid service credentials"
		if errors.Is(err, servicekey.ErrMissingCredentials) {
			msg = "service credentials are required"
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
	}
}
