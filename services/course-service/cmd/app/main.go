package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/waste3d/courseplatform-api/internal/platform/database"
	"github.com/waste3d/courseplatform-api/internal/platform/grpchealth"
	"github.com/waste3d/courseplatform-api/internal/platform/logger"
	"github.com/waste3d/courseplatform-api/internal/platform/servicekey"
	"github.com/waste3d/courseplatform-api/services/course-service/config"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/application/saga"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/application/usecase"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/domain"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/infrastructure/cache"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/infrastructure/parser"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/infrastructure/repository"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/infrastructure/userclient"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/middleware"
	handlers "github.com/waste3d/courseplatform-api/services/course-service/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("config load failed: " + err.Error())
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic("logger init failed: " + err.Error())
	}
	defer log.Sync()

	db, err := database.Open(database.Options{
		Host: cfg.DBHost, Port: cfg.DBPort, User: cfg.DBUser, Password: cfg.DBPassword, Name: cfg.DBName,
	})
	if err != nil {
		log.Fatal("DB connect failed", "error", err)
	}
	defer database.Close(db)

	if err := db.AutoMigrate(&domain.Course{}, &domain.Membership{}); err != nil {
		log.Fatal("DB migrate failed", "error", err)
	}

	var (
		rdb         *redis.Client
		courseCache repository.CourseCache
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn("redis unreachable, serving without cache", "addr", cfg.RedisAddr, "error", err)
		}
		courseCache = cache.NewCourseCache(rdb, cfg.CourseCacheTTL)
	}

	repo := repository.NewCourseRepository(db, courseCache, log)
	catalog := usecase.NewCatalogUseCase(repo, log).
		WithLessonSource(parser.NewMailRuParser(cfg.LessonSource, log))

	if cfg.SeedCourses {
		n, err := catalog.SeedDefaults(context.Background(), defaultCourses())
		if err != nil {
			log.Fatal("seed failed", "error", err)
		}
		if n > 0 {
			log.Info("DB seeded with default courses", "count", n)
		}
	}

	auth, err := servicekey.NewAuthorizer(cfg.ServiceAuthMode, cfg.ServiceKey, cfg.ServiceName)
	if err != nil {
		log.Fatal("service auth setup failed", "error", err)
	}
	users := userclient.New(userclient.Options{
		BaseURL:    cfg.UserSvcBaseURL,
		Timeout:    cfg.UserSvcTimeout,
		MaxRetries: cfg.UserSvcMaxRetries,
		Backoff:    cfg.UserSvcRetryBackoff,
	}, auth, log)

	policies := saga.DefaultPolicies()
	if cfg.UnenrollRestoreSnapshot {
		policies[saga.OpUnenroll] = saga.FullRollback
	}
	enrollment := usecase.NewEnrollmentUseCase(repo, users, saga.NewRunner(policies, log), log)

	router := handlers.NewRouter(
		handlers.NewCourseHandler(catalog, enrollment),
		middleware.NewRateLimiter(rdb),
		log,
		handlers.RouterConfig{
			AllowedOrigins:   cfg.AllowedOrigins,
			EnrollRateLimit:  cfg.EnrollRateLimit,
			EnrollRateWindow: cfg.EnrollRateWindow,
		},
	)

	srv := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	health := grpchealth.New(cfg.ServiceName)

	go func() {
		log.Info("Course Service HTTP running", "addr", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP serve failed", "error", err)
		}
	}()
	go func() {
		log.Info("Course Service gRPC health running", "addr", cfg.GRPCPort)
		if err := health.ListenAndServe(cfg.GRPCPort); err != nil {
			log.Fatal("gRPC serve failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("HTTP shutdown failed", "error", err)
	}
	health.Stop()
}
