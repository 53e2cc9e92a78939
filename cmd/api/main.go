package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seismowatch/faceauth/internal/api"
	"github.com/seismowatch/faceauth/internal/audit"
	"github.com/seismowatch/faceauth/internal/config"
	"github.com/seismowatch/faceauth/internal/database"
	"github.com/seismowatch/faceauth/internal/predict"
	"github.com/seismowatch/faceauth/internal/repository"
	"github.com/seismowatch/faceauth/internal/service"
	"github.com/seismowatch/faceauth/internal/stats"
	"github.com/seismowatch/faceauth/internal/token"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting FaceAuth API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.Int("match_threshold", cfg.FaceMatchThreshold),
	)

	// Database pool
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Wire services
	identityRepo := repository.NewIdentityRepository(pool)
	auditLog := audit.NewSlogLogger(logger)
	authService := service.NewAuthService(identityRepo, auditLog, cfg.FaceMatchThreshold)
	issuer := token.NewIssuer(cfg.JWTSecret, "faceauth", cfg.JWTTTL)
	statsRepo := stats.NewRepository(pool)

	predictConfig := predict.DefaultConfig()
	predictConfig.BaseURL = cfg.PredictorURL
	predictService := predict.NewService(predict.NewClient(predictConfig))

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		AuthService:    authService,
		TokenIssuer:    issuer,
		StatsRepo:      statsRepo,
		PredictService: predictService,
		DB:             pool,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
