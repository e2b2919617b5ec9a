package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/waste3d/courseplatform-api/internal/platform/database"
	"github.com/waste3d/courseplatform-api/internal/platform/grpchealth"
	"github.com/waste3d/courseplatform-api/internal/platform/logger"
	"github.com/waste3d/courseplatform-api/internal/platform/servicekey"
	"github.com/waste3d/courseplatform-api/services/user-service/config"
	"github.com/waste3d/courseplatform-api/services/user-service/internal/domain"
	"github.com/waste3d/courseplatform-api/services/user-service/internal/infrastructure/repository"
	handlers "github.com/waste3d/courseplatform-api/services/user-service/internal/transport/http"
)

func main() {
	// 1. Config
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic("logger init failed: " + err.Error())
	}
	defer log.Sync()

	// 2. DB
	db, err := database.Open(database.Options{
		Host: cfg.DBHost, Port: cfg.DBPort, User: cfg.DBUser, Password: cfg.DBPassword, Name: cfg.DBName,
	})
	if err != nil {
		log.Fatal("failed to connect to DB", "error", err)
	}
	defer database.Close(db)

	// 3. Migrations
	log.Info("running migrations")
	if err := db.AutoMigrate(&domain.Profile{}); err != nil {
		log.Fatal("failed to migrate DB", "error", err)
	}

	// 4. Layers
	auth, err := servicekey.NewAuthorizer(cfg.ServiceAuthMode, cfg.ServiceKey, "")
	if err != nil {
		log.Fatal("service auth setup failed", "error", err)
	}
	if auth.Mode() == servicekey.ModeStatic {
		log.Warn("static service key in use; set SERVICE_AUTH_MODE=signed for short-lived tokens")
	}
	profileRepo := repository.NewProfileRepository(db)
	router := handlers.NewRouter(handlers.NewUserHandler(profileRepo), auth, log)

	// 5. Servers
	srv := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	health := grpchealth.New("user-service")

	go func() {
		log.Info("User Service HTTP running", "addr", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP serve failed", "error", err)
		}
	}()
	go func() {
		log.Info("User Service gRPC health running", "addr", cfg.GRPCPort)
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
