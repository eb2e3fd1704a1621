package repository

import (
	"context"
	"errors"
	"fmt"

	"homeplate/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Postgres SQLSTATE codes mapped to domain errors.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type sellerRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSellerRepository creates a new PostgreSQL-backed seller profile repository.
func NewSellerRepository(pool *pgxpool.Pool, logger zerolog.Logger) SellerRepository {
	return &sellerRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "seller").Logger(),
	}
}

func (r *sellerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.SellerProfile, error) {
	query := `
		SELECT id, user_id, business_name, description, created_at, updated_at
		FROM seller_profiles
		WHERE user_id = $1
	`

	var p model.SellerProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.BusinessName, &p.Description, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query seller profile")
		return nil, fmt.Errorf("failed to query seller profile: %w", err)
	}

	return &p, nil
}

func (r *sellerRepository) Create(ctx context.Context, profile *model.SellerProfile) error {
	query := `
		INSERT INTO seller_profiles (user_id, business_name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, profile.UserID, profile.BusinessName, profile.Description).
		Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrSellerProfileExists
		}
		r.logger.Error().Err(err).Str("user_id", profile.UserID.String()).Msg("failed to create seller profile")
		return fmt.Errorf("failed to create seller profile: %w", err)
	}

	r.logger.Debug().Str("seller_id", profile.ID.String()).Msg("seller profile created")
	return nil
}
