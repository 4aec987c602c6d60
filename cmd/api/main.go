package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecocycle/rewards-api/internal/config"
	"github.com/ecocycle/rewards-api/internal/crypto"
	"github.com/ecocycle/rewards-api/internal/database"
	"github.com/ecocycle/rewards-api/internal/handler"
	"github.com/ecocycle/rewards-api/internal/logging"
	"github.com/ecocycle/rewards-api/internal/middleware"
	"github.com/ecocycle/rewards-api/internal/notify"
	"github.com/ecocycle/rewards-api/internal/repository"
	"github.com/ecocycle/rewards-api/internal/service"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		logger.Warn("no .env file found, using environment variables")
	}

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("database connection failed", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	tokens := crypto.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	hub := notify.NewHub(logger)

	userRepo := repository.NewUserRepository(db)
	redemptionRepo := repository.NewRedemptionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	recyclableRepo := repository.NewRecyclableRepository(db)

	authService := service.NewAuthService(userRepo, tokens, cfg.EmailDomain)
	redemptionService := service.NewRedemptionService(
		repository.NewTxRunner(db), userRepo, redemptionRepo, notificationRepo, transactionRepo, hub, logger,
	)
	userService := service.NewUserService(userRepo, transactionRepo)
	adminService := service.NewAdminService(userRepo, recyclableRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)

	limiter := middleware.NewIPRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)
	stopCleanup := make(chan struct{})
	go limiter.RunCleanup(time.Minute, stopCleanup)

	router := handler.NewRouter(handler.RouterDeps{
		Logger:      logger,
		Tokens:      tokens,
		AuthLimiter: limiter,
		Feed:        hub,
		Auth:        handler.NewAuthHandler(authService),
		Users:       handler.NewUserHandler(userService, redemptionService, notificationService),
		Redemptions: handler.NewRedemptionHandler(redemptionService),
		Admin:       handler.NewAdminHandler(adminService, authService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	close(stopCleanup)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
