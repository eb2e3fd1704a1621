package repository

import (
	"context"

	"homeplate/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SellerRepository defines data access for seller profiles.
type SellerRepository interface {
	// GetByUserID returns the profile owned by userID, or nil when none exists.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.SellerProfile, error)

	// Create inserts a profile. Returns model.ErrSellerProfileExists on a duplicate user.
	Create(ctx context.Context, profile *model.SellerProfile) error
}

// PlateRepository defines data access for plates and their stock counters.
type PlateRepository interface {
	// Create inserts a plate and fills its generated fields.
	Create(ctx context.Context, plate *model.Plate) error

	// GetByID retrieves a single plate, or nil when it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Plate, error)

	// GetByIDs retrieves every plate whose ID is in ids. Missing IDs are skipped.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Plate, error)

	// ListBySeller returns all plates of a seller, newest first.
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Plate, error)

	// ListAvailable returns in-stock, available plates with pagination support.
	ListAvailable(ctx context.Context, limit, offset int) ([]model.Plate, error)

	// Update overwrites the mutable fields of a plate owned by plate.SellerID.
	// Returns false when no such plate exists for that seller.
	Update(ctx context.Context, plate *model.Plate) (bool, error)

	// Delete removes a plate owned by sellerID. Returns false when nothing matched.
	Delete(ctx context.Context, id, sellerID uuid.UUID) (bool, error)

	// DecrementStock subtracts each change from its plate inside tx. A plate whose
	// stock cannot cover the change fails the call with *model.InsufficientStockError.
	DecrementStock(ctx context.Context, tx pgx.Tx, changes []model.StockChange) error

	// RestoreStock adds each change back to its plate inside tx.
	RestoreStock(ctx context.Context, tx pgx.Tx, changes []model.StockChange) error
}

// BundleRepository defines data access for bundles and their plate allocations.
type BundleRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a bundle and its allocation rows within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, bundle *model.Bundle) error

	// GetByID retrieves a bundle with its allocations and plate data, or nil.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Bundle, error)

	// ListBySeller returns a seller's bundles with allocations.
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Bundle, error)

	// ListActive returns all active bundles with allocations.
	ListActive(ctx context.Context) ([]model.Bundle, error)

	// Update overwrites the mutable fields of a bundle owned by bundle.SellerID.
	Update(ctx context.Context, bundle *model.Bundle) (bool, error)

	// Delete removes a bundle owned by sellerID.
	Delete(ctx context.Context, id, sellerID uuid.UUID) (bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items, or nil.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByIDForUpdate locks the order row inside tx and returns it with its items.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	// ListByCustomer returns a customer's orders, newest first.
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]model.Order, error)

	// ListBySeller returns orders placed with a seller, newest first.
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]model.Order, error)

	// UpdateStatus sets the status of an order within the provided transaction.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus) error

	// Delete removes a cancelled order. Returns false when no cancelled order matched.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
