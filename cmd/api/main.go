package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/metrics"
	"storefront/internal/server"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; the real environment wins
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("env", cfg.GoEnv).Msg("starting storefront API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB
	gormDB, err := db.Connect(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, gormDB); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	// metrics
	appMetrics := metrics.Noop()
	if cfg.Metrics.Enabled {
		m, provider, err := metrics.InitMetrics(ctx, cfg.Metrics, cfg.GoEnv)
		if err != nil {
			return fmt.Errorf("failed to init metrics: %w", err)
		}
		appMetrics = m
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("failed to shutdown meter provider")
			}
		}()
		logger.Info().Str("endpoint", cfg.Metrics.OTLPEndpoint).Msg("OTLP metrics export enabled")
	}

	// repositories
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	// usecases
	clock := usecase.SystemClock{}
	tokens := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, clock)
	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.BcryptCost)

	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher)
	loginUC := auth.NewLoginUsecase(userRepo, hasher, tokens)
	profileUC := auth.NewProfileUsecase(userRepo, hasher)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, auditRepo)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, auditRepo, txm, cfg.Upload.MaxImageBytes)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo, categoryRepo)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, orderItemRepo, clock, appMetrics)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, orderRepo, orderItemRepo, userRepo, clock)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	// handlers
	h := server.Handlers{
		Health:       handler.NewHealthHandler(db.NewHealthChecker(gormDB), cfg.GoEnv, cfg.Metrics.ServiceVersion),
		Auth:         handler.NewAuthHandler(registerUC, loginUC, profileUC),
		Categories:   handler.NewCategoryHandler(categoryUC),
		Products:     handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC, cfg.Upload.MaxImageBytes),
		Cart:         handler.NewCartHandler(cartUC),
		Orders:       handler.NewOrderHandler(orderUC),
		AdminOrders:  handler.NewAdminOrderHandler(adminOrderUC),
		AuditLogs:    handler.NewAuditLogHandler(auditUC),
	}
	guards := handler.NewGuards(auth.NewAuthenticator(tokens, userRepo))

	// multipart framing on top of the largest image
	maxBody := cfg.Upload.MaxImageBytes + 1<<20
	srv := server.New(cfg.Server, maxBody, logger, appMetrics, h, guards)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received, starting graceful shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info().Msg("server shutdown completed")
	return nil
}
