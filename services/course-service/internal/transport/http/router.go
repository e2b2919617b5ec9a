package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/waste3d/courseplatform-api/internal/platform/httpmw"
	"github.com/waste3d/courseplatform-api/internal/platform/logger"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins   []string
	EnrollRateLimit  int
	EnrollRateWindow time.Duration
}

func NewRouter(courseHandler *CourseHandler, limiter *middleware.RateLimiter, log *logger.Logger, rc RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpmw.RequestLogger(log))

	if len(rc.AllowedOrigins) > 0 {
		config := cors.DefaultConfig()
		config.AllowOrigins = rc.AllowedOrigins
		config.AllowCredentials = true
		config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", httpmw.UserIDHeader}
		config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
		r.Use(cors.New(config))
	}

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	api := r.Group("/api/v1")
	{
		courses := api.Group("/courses")
		{
			courses.GET("", courseHandler.List)
			courses.GET("/:id", courseHandler.GetOne)
			courses.POST("", courseHandler.Create)
		}

		member := courses.Group("/:id")
		member.Use(middleware.RequireUser())
		{
			enrollLimit := limiter.Limit("enroll", rc.EnrollRateLimit, rc.EnrollRateWindow)
			member.POST("/enroll", enrollLimit, courseHandler.Enroll)
			member.DELETE("/enroll", enrollLimit, courseHandler.Unenroll)
			member.POST("/complete", courseHandler.Complete)
			member.POST("/bookmark", courseHandler.Bookmark)
			member.DELETE("/bookmark", courseHandler.Unbookmark)
			member.PATCH("/progress", courseHandler.Progress)
		}
	}

	return r
}
