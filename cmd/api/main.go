package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homeplate/internal/auth"
	"homeplate/internal/config"
	"homeplate/internal/database"
	"homeplate/internal/events"
	"homeplate/internal/handler"
	"homeplate/internal/idempotency"
	"homeplate/internal/middleware"
	"homeplate/internal/repository"
	"homeplate/internal/router"
	"homeplate/internal/service"

	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting homeplate API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize repositories
	sellerRepo := repository.NewSellerRepository(pool, logger)
	plateRepo := repository.NewPlateRepository(pool, logger)
	bundleRepo := repository.NewBundleRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Checkout idempotency lives in Redis when enabled
	var idem idempotency.Store = idempotency.NopStore{}
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		idem = idempotency.NewRedisStore(client, cfg.Redis.PendingTTL, cfg.Redis.IdempotencyTTL, logger)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency store connected")
	} else {
		logger.Info().Msg("idempotency keys disabled (Redis disabled)")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka, logger)
	} else {
		logger.Info().Msg("order events disabled (Kafka disabled)")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	// Initialize services
	sellerService := service.NewSellerService(sellerRepo, logger)
	plateService := service.NewPlateService(plateRepo, sellerRepo, logger)
	bundleService := service.NewBundleService(bundleRepo, plateRepo, sellerRepo, logger)
	bundleOrderService := service.NewBundleOrderService(bundleRepo, plateRepo, orderRepo, idem, publisher, logger)
	orderService := service.NewOrderService(orderRepo, plateRepo, sellerRepo, idem, publisher, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Seller: handler.NewSellerHandler(sellerService, logger),
		Plate:  handler.NewPlateHandler(plateService, logger),
		Bundle: handler.NewBundleHandler(bundleService, bundleOrderService, logger),
		Order:  handler.NewOrderHandler(orderService, logger),
	}

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit, logger)
		go limiter.Cleanup(ctx, time.Minute)
	}

	// Initialize router
	mux := router.New(handlers, verifier, limiter, cfg.Server, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
