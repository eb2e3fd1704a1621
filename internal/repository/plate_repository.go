package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"homeplate/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const plateColumns = `id, seller_id, name, description, price, quantity, available_date,
	size, is_single, is_bundle, is_available, image_url, created_at, updated_at`

// plateRepository implements the PlateRepository interface using PostgreSQL.
type plateRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPlateRepository creates a new PostgreSQL-backed plate repository.
func NewPlateRepository(pool *pgxpool.Pool, logger zerolog.Logger) PlateRepository {
	return &plateRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "plate").Logger(),
	}
}

func scanPlate(row pgx.Row, p *model.Plate) error {
	return row.Scan(
		&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.AvailableDate,
		&p.Size, &p.IsSingle, &p.IsBundle, &p.IsAvailable, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *plateRepository) queryPlates(ctx context.Context, query string, args ...any) ([]model.Plate, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query plates")
		return nil, fmt.Errorf("failed to query plates: %w", err)
	}
	defer rows.Close()

	plates := []model.Plate{}
	for rows.Next() {
		var p model.Plate
		if err := scanPlate(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan plate row")
			return nil, fmt.Errorf("failed to scan plate: %w", err)
		}
		plates = append(plates, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating plate rows")
		return nil, fmt.Errorf("error iterating plates: %w", err)
	}

	return plates, nil
}

// Create inserts a plate and fills its generated fields.
func (r *plateRepository) Create(ctx context.Context, plate *model.Plate) error {
	query := `
		INSERT INTO plates (seller_id, name, description, price, quantity, available_date,
			size, is_single, is_bundle, is_available, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		plate.SellerID, plate.Name, plate.Description, plate.Price, plate.Quantity, plate.AvailableDate,
		plate.Size, plate.IsSingle, plate.IsBundle, plate.IsAvailable, plate.ImageURL,
	).Scan(&plate.ID, &plate.CreatedAt, &plate.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("seller_id", plate.SellerID.String()).Msg("failed to create plate")
		return fmt.Errorf("failed to create plate: %w", err)
	}

	r.logger.Debug().Str("plate_id", plate.ID.String()).Msg("plate created")
	return nil
}

// GetByID retrieves a single plate by its ID.
func (r *plateRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Plate, error) {
	query := `SELECT ` + plateColumns + ` FROM plates WHERE id = $1`

	var p model.Plate
	if err := scanPlate(r.pool.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("plate_id", id.String()).Msg("plate not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("plate_id", id.String()).Msg("failed to query plate")
		return nil, fmt.Errorf("failed to query plate: %w", err)
	}

	return &p, nil
}

// GetByIDs retrieves multiple plates by their IDs.
func (r *plateRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Plate, error) {
	if len(ids) == 0 {
		return []model.Plate{}, nil
	}

	query := `SELECT ` + plateColumns + ` FROM plates WHERE id = ANY($1) ORDER BY name`
	return r.queryPlates(ctx, query, ids)
}

func (r *plateRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Plate, error) {
	query := `SELECT ` + plateColumns + ` FROM plates WHERE seller_id = $1 ORDER BY created_at DESC`
	return r.queryPlates(ctx, query, sellerID)
}

func (r *plateRepository) ListAvailable(ctx context.Context, limit, offset int) ([]model.Plate, error) {
	query := `
		SELECT ` + plateColumns + `
		FROM plates
		WHERE is_available AND quantity > 0
		ORDER BY available_date, name
		LIMIT $1 OFFSET $2
	`
	return r.queryPlates(ctx, query, limit, offset)
}

func (r *plateRepository) Update(ctx context.Context, plate *model.Plate) (bool, error) {
	query := `
		UPDATE plates
		SET name = $3, description = $4, price = $5, quantity = $6, available_date = $7,
			size = $8, is_single = $9, is_bundle = $10, is_available = $11, image_url = $12,
			updated_at = NOW()
		WHERE id = $1 AND seller_id = $2
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		plate.ID, plate.SellerID, plate.Name, plate.Description, plate.Price, plate.Quantity,
		plate.AvailableDate, plate.Size, plate.IsSingle, plate.IsBundle, plate.IsAvailable, plate.ImageURL,
	).Scan(&plate.CreatedAt, &plate.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		r.logger.Error().Err(err).Str("plate_id", plate.ID.String()).Msg("failed to update plate")
		return false, fmt.Errorf("failed to update plate: %w", err)
	}

	return true, nil
}

func (r *plateRepository) Delete(ctx context.Context, id, sellerID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM plates WHERE id = $1 AND seller_id = $2`, id, sellerID)
	if err != nil {
		// Ordered plates stay for order history.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return false, model.ErrPlateInUse
		}
		r.logger.Error().Err(err).Str("plate_id", id.String()).Msg("failed to delete plate")
		return false, fmt.Errorf("failed to delete plate: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// sortedChanges orders changes by plate ID so concurrent transactions lock rows in the same order.
func sortedChanges(changes []model.StockChange) []model.StockChange {
	sorted := slices.Clone(changes)
	slices.SortFunc(sorted, func(a, b model.StockChange) int {
		return bytes.Compare(a.PlateID[:], b.PlateID[:])
	})
	return sorted
}

// DecrementStock subtracts each change from its plate inside tx.
func (r *plateRepository) DecrementStock(ctx context.Context, tx pgx.Tx, changes []model.StockChange) error {
	query := `
		UPDATE plates
		SET quantity = quantity - $2, updated_at = NOW()
		WHERE id = $1 AND quantity >= $2
	`

	for _, c := range sortedChanges(changes) {
		if c.Quantity <= 0 {
			return model.ErrInvalidQuantity
		}

		tag, err := tx.Exec(ctx, query, c.PlateID, c.Quantity)
		if err != nil {
			r.logger.Error().Err(err).Str("plate_id", c.PlateID.String()).Msg("failed to decrement stock")
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		if tag.RowsAffected() == 1 {
			continue
		}

		var (
			name      string
			available int
		)
		err = tx.QueryRow(ctx, `SELECT name, quantity FROM plates WHERE id = $1`, c.PlateID).Scan(&name, &available)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrPlateNotFound
			}
			return fmt.Errorf("failed to read plate stock: %w", err)
		}

		r.logger.Warn().
			Str("plate_id", c.PlateID.String()).
			Int("requested", c.Quantity).
			Int("available", available).
			Msg("insufficient stock")

		return &model.InsufficientStockError{
			PlateID:   c.PlateID,
			PlateName: name,
			Requested: c.Quantity,
			Available: available,
		}
	}

	return nil
}

// RestoreStock adds each change back to its plate inside tx.
func (r *plateRepository) RestoreStock(ctx context.Context, tx pgx.Tx, changes []model.StockChange) error {
	query := `UPDATE plates SET quantity = quantity + $2, updated_at = NOW() WHERE id = $1`

	for _, c := range sortedChanges(changes) {
		if _, err := tx.Exec(ctx, query, c.PlateID, c.Quantity); err != nil {
			r.logger.Error().Err(err).Str("plate_id", c.PlateID.String()).Msg("failed to restore stock")
			return fmt.Errorf("failed to restore stock: %w", err)
		}
	}

	r.logger.Debug().Int("count", len(changes)).Msg("stock restored")
	return nil
}
