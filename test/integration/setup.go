package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"homeplate/internal/auth"
	"homeplate/internal/config"
	"homeplate/internal/database"
	"homeplate/internal/events"
	"homeplate/internal/handler"
	"homeplate/internal/idempotency"
	"homeplate/internal/repository"
	"homeplate/internal/router"
	"homeplate/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testJWTSecret = "integration-secret"

// TestEnv is a running API backed by real Postgres and Redis containers.
type TestEnv struct {
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Server   http.Handler
	Verifier *auth.Verifier
}

// SetupTestDB creates a PostgreSQL test container, a pool through
// database.NewPool, and applies the embedded schema.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return pool
}

// SetupTestRedis starts a Redis container for the idempotency store.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("failed to get redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

// SetupTestEnv wires the full API the same way cmd/api does, minus Kafka and
// rate limiting.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	pool := SetupTestDB(t)
	redisClient := SetupTestRedis(t)
	logger := zerolog.Nop()

	sellerRepo := repository.NewSellerRepository(pool, logger)
	plateRepo := repository.NewPlateRepository(pool, logger)
	bundleRepo := repository.NewBundleRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	idem := idempotency.NewRedisStore(redisClient, 10*time.Second, time.Hour, logger)
	publisher := events.NopPublisher{}

	handlers := router.Handlers{
		Seller: handler.NewSellerHandler(service.NewSellerService(sellerRepo, logger), logger),
		Plate:  handler.NewPlateHandler(service.NewPlateService(plateRepo, sellerRepo, logger), logger),
		Bundle: handler.NewBundleHandler(
			service.NewBundleService(bundleRepo, plateRepo, sellerRepo, logger),
			service.NewBundleOrderService(bundleRepo, plateRepo, orderRepo, idem, publisher, logger),
			logger,
		),
		Order: handler.NewOrderHandler(
			service.NewOrderService(orderRepo, plateRepo, sellerRepo, idem, publisher, logger),
			logger,
		),
	}

	verifier := auth.NewVerifier(testJWTSecret, "")
	serverConfig := config.ServerConfig{
		RequestTimeout: 10 * time.Second,
		AllowedOrigins: []string{"*"},
	}

	return &TestEnv{
		Pool:     pool,
		Redis:    redisClient,
		Server:   router.New(handlers, verifier, nil, serverConfig, logger),
		Verifier: verifier,
	}
}

// Token signs a bearer token for a fresh user with the given role.
func (e *TestEnv) Token(t *testing.T, role string) (uuid.UUID, string) {
	t.Helper()

	userID := uuid.New()
	token, err := e.Verifier.Sign(auth.Identity{UserID: userID, Role: role}, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return userID, token
}

// CleanupDB removes all rows from the marketplace tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"TRUNCATE order_items, orders, bundle_plates, bundles, plates, seller_profiles CASCADE")
	if err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}
