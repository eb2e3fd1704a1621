package repository

import (
	"context"
	"testing"
	"time"

	"homeplate/internal/database"
	"homeplate/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL container and applies the schema.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func seedSeller(t *testing.T, pool *pgxpool.Pool) *model.SellerProfile {
	t.Helper()

	profile := &model.SellerProfile{
		UserID:       uuid.New(),
		BusinessName: "Mama's Kitchen",
	}
	require.NoError(t, NewSellerRepository(pool, zerolog.Nop()).Create(context.Background(), profile))
	return profile
}

func seedPlate(t *testing.T, pool *pgxpool.Pool, sellerID uuid.UUID, name string, price string, qty int) *model.Plate {
	t.Helper()

	plate := &model.Plate{
		SellerID:      sellerID,
		Name:          name,
		Price:         decimal.RequireFromString(price),
		Quantity:      qty,
		AvailableDate: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		Size:          model.PlateSizeMedium,
		IsSingle:      true,
		IsBundle:      true,
		IsAvailable:   true,
	}
	require.NoError(t, NewPlateRepository(pool, zerolog.Nop()).Create(context.Background(), plate))
	return plate
}

func plateQuantity(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) int {
	t.Helper()

	var qty int
	require.NoError(t, pool.QueryRow(context.Background(), "SELECT quantity FROM plates WHERE id = $1", id).Scan(&qty))
	return qty
}
