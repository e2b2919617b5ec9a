package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/waste3d/courseplatform-api/internal/platform/httpmw"
	"github.com/waste3d/courseplatform-api/internal/platform/logger"
	"github.com/waste3d/courseplatform-api/internal/platform/servicekey"
	"github.com/waste3d/courseplatform-api/services/user-service/internal/transport/http/middleware"
)

func NewRouter(userHandler *UserHandler, auth *servicekey.Authorizer, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpmw.RequestLogger(log))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	users := r.Group("/users")
	users.Use(middleware.ServiceKey(auth, log))
	{
		users.POST("", userHandler.Create)
		users.GET("/:userId", userHandler.Get)
		users.POST("/:userId/enroll/:courseId", userHandler.Enroll)
		users.DELETE("/:userId/enroll/:courseId", userHandler.Unenroll)
		users.POST("/:userId/complete/:courseId", userHandler.Complete)
		users.POST("/:userId/bookmark/:courseId", userHandler.Bookmark)
		users.DELETE("/:userId/bookmark/:courseId", userHandler.Unbookmark)
	}

	return r
}
