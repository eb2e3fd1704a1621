package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homeplate/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// bundleSelect joins each bundle to its allocations and their plates.
// Bundles without allocations still produce one row with NULL plate columns.
const bundleSelect = `
	SELECT b.id, b.seller_id, b.name, b.description, b.plate_count, b.price, b.scope,
		b.available_date, b.is_active, b.created_at, b.updated_at,
		bp.quantity_available,
		p.id, p.seller_id, p.name, p.description, p.price, p.quantity, p.available_date,
		p.size, p.is_single, p.is_bundle, p.is_available, p.image_url, p.created_at, p.updated_at
	FROM bundles b
	LEFT JOIN bundle_plates bp ON bp.bundle_id = b.id
	LEFT JOIN plates p ON p.id = bp.plate_id
`

type bundleRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewBundleRepository creates a new PostgreSQL-backed bundle repository.
func NewBundleRepository(pool *pgxpool.Pool, logger zerolog.Logger) BundleRepository {
	return &bundleRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "bundle").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *bundleRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a bundle and its allocation rows within the provided transaction.
func (r *bundleRepository) Create(ctx context.Context, tx pgx.Tx, bundle *model.Bundle) error {
	query := `
		INSERT INTO bundles (id, seller_id, name, description, plate_count, price, scope,
			available_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		bundle.ID, bundle.SellerID, bundle.Name, bundle.Description, bundle.PlateCount,
		bundle.Price, bundle.Scope, bundle.AvailableDate, bundle.IsActive,
	).Scan(&bundle.CreatedAt, &bundle.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("bundle_id", bundle.ID.String()).Msg("failed to create bundle")
		return fmt.Errorf("failed to create bundle: %w", err)
	}

	if len(bundle.Plates) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, bp := range bundle.Plates {
		batch.Queue(`
			INSERT INTO bundle_plates (bundle_id, plate_id, quantity_available)
			VALUES ($1, $2, $3)
		`, bundle.ID, bp.PlateID, bp.QuantityAvailable)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for _, bp := range bundle.Plates {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("bundle_id", bundle.ID.String()).
				Str("plate_id", bp.PlateID.String()).
				Msg("failed to create bundle allocation")
			return fmt.Errorf("failed to create bundle allocation: %w", err)
		}
	}

	r.logger.Debug().
		Str("bundle_id", bundle.ID.String()).
		Int("allocations", len(bundle.Plates)).
		Msg("bundle created")

	return nil
}

// nullablePlate receives the LEFT JOIN plate columns.
type nullablePlate struct {
	QuantityAvailable *int
	ID                *uuid.UUID
	SellerID          *uuid.UUID
	Name              *string
	Description       *string
	Price             decimal.NullDecimal
	Quantity          *int
	AvailableDate     *time.Time
	Size              *string
	IsSingle          *bool
	IsBundle          *bool
	IsAvailable       *bool
	ImageURL          *string
	CreatedAt         *time.Time
	UpdatedAt         *time.Time
}

func (n *nullablePlate) allocation(bundleID uuid.UUID) (model.BundlePlate, bool) {
	if n.ID == nil || n.QuantityAvailable == nil {
		return model.BundlePlate{}, false
	}

	return model.BundlePlate{
		BundleID:          bundleID,
		PlateID:           *n.ID,
		QuantityAvailable: *n.QuantityAvailable,
		Plate: &model.Plate{
			ID:            *n.ID,
			SellerID:      *n.SellerID,
			Name:          *n.Name,
			Description:   *n.Description,
			Price:         n.Price.Decimal,
			Quantity:      *n.Quantity,
			AvailableDate: *n.AvailableDate,
			Size:          model.PlateSize(*n.Size),
			IsSingle:      *n.IsSingle,
			IsBundle:      *n.IsBundle,
			IsAvailable:   *n.IsAvailable,
			ImageURL:      n.ImageURL,
			CreatedAt:     *n.CreatedAt,
			UpdatedAt:     *n.UpdatedAt,
		},
	}, true
}

// queryBundles runs a bundleSelect query and folds the joined rows into nested bundles,
// keeping the order in which bundles first appear.
func (r *bundleRepository) queryBundles(ctx context.Context, query string, args ...any) ([]model.Bundle, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query bundles")
		return nil, fmt.Errorf("failed to query bundles: %w", err)
	}
	defer rows.Close()

	bundles := []model.Bundle{}
	index := make(map[uuid.UUID]int)

	for rows.Next() {
		var (
			b model.Bundle
			n nullablePlate
		)
		err := rows.Scan(
			&b.ID, &b.SellerID, &b.Name, &b.Description, &b.PlateCount, &b.Price, &b.Scope,
			&b.AvailableDate, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
			&n.QuantityAvailable,
			&n.ID, &n.SellerID, &n.Name, &n.Description, &n.Price, &n.Quantity, &n.AvailableDate,
			&n.Size, &n.IsSingle, &n.IsBundle, &n.IsAvailable, &n.ImageURL, &n.CreatedAt, &n.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan bundle row")
			return nil, fmt.Errorf("failed to scan bundle: %w", err)
		}

		i, ok := index[b.ID]
		if !ok {
			b.Plates = []model.BundlePlate{}
			bundles = append(bundles, b)
			i = len(bundles) - 1
			index[b.ID] = i
		}

		if bp, ok := n.allocation(b.ID); ok {
			bundles[i].Plates = append(bundles[i].Plates, bp)
		}
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating bundle rows")
		return nil, fmt.Errorf("error iterating bundles: %w", err)
	}

	return bundles, nil
}

// GetByID retrieves a bundle with its allocations and plate data.
func (r *bundleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Bundle, error) {
	bundles, err := r.queryBundles(ctx, bundleSelect+` WHERE b.id = $1 ORDER BY p.name`, id)
	if err != nil {
		return nil, err
	}
	if len(bundles) == 0 {
		r.logger.Debug().Str("bundle_id", id.String()).Msg("bundle not found")
		return nil, nil
	}
	return &bundles[0], nil
}

func (r *bundleRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Bundle, error) {
	return r.queryBundles(ctx, bundleSelect+` WHERE b.seller_id = $1 ORDER BY b.created_at DESC, p.name`, sellerID)
}

func (r *bundleRepository) ListActive(ctx context.Context) ([]model.Bundle, error) {
	return r.queryBundles(ctx, bundleSelect+` WHERE b.is_active ORDER BY b.available_date, b.created_at DESC, p.name`)
}

func (r *bundleRepository) Update(ctx context.Context, bundle *model.Bundle) (bool, error) {
	query := `
		UPDATE bundles
		SET name = $3, description = $4, price = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1 AND seller_id = $2
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		bundle.ID, bundle.SellerID, bundle.Name, bundle.Description, bundle.Price, bundle.IsActive,
	).Scan(&bundle.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		r.logger.Error().Err(err).Str("bundle_id", bundle.ID.String()).Msg("failed to update bundle")
		return false, fmt.Errorf("failed to update bundle: %w", err)
	}
	return true, nil
}

func (r *bundleRepository) Delete(ctx context.Context, id, sellerID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bundles WHERE id = $1 AND seller_id = $2`, id, sellerID)
	if err != nil {
		r.logger.Error().Err(err).Str("bundle_id", id.String()).Msg("failed to delete bundle")
		return false, fmt.Errorf("failed to delete bundle: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
