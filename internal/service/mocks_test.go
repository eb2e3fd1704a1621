package service

import (
	"context"

	"homeplate/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockSellerRepository is a mock implementation of SellerRepository.
type MockSellerRepository struct {
	mock.Mock
}

func (m *MockSellerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.SellerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SellerProfile), args.Error(1)
}

func (m *MockSellerRepository) Create(ctx context.Context, profile *model.SellerProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockPlateRepository is a mock implementation of PlateRepository.
type MockPlateRepository struct {
	mock.Mock
}

func (m *MockPlateRepository) Create(ctx context.Context, plate *model.Plate) error {
	args := m.Called(ctx, plate)
	return args.Error(0)
}

func (m *MockPlateRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Plate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plate), args.Error(1)
}

func (m *MockPlateRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Plate, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Plate), args.Error(1)
}

func (m *MockPlateRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Plate, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Plate), args.Error(1)
}

func (m *MockPlateRepository) ListAvailable(ctx context.Context, limit, offset int) ([]model.Plate, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Plate), args.Error(1)
}

func (m *MockPlateRepository) Update(ctx context.Context, plate *model.Plate) (bool, error) {
	args := m.Called(ctx, plate)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlateRepository) Delete(ctx context.Context, id, sellerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, sellerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlateRepository) DecrementStock(ctx context.Context, tx pgx.Tx, changes []model.StockChange) error {
	args := m.Called(ctx, tx, changes)
	return args.Error(0)
}

func (m *MockPlateRepository) RestoreStock(ctx context.Context, tx pgx.Tx, changes []model.StockChange) error {
	args := m.Called(ctx, tx, changes)
	return args.Error(0)
}

// MockBundleRepository is a mock implementation of BundleRepository.
type MockBundleRepository struct {
	mock.Mock
}

func (m *MockBundleRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBundleRepository) Create(ctx context.Context, tx pgx.Tx, bundle *model.Bundle) error {
	args := m.Called(ctx, tx, bundle)
	return args.Error(0)
}

func (m *MockBundleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Bundle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bundle), args.Error(1)
}

func (m *MockBundleRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Bundle, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Bundle), args.Error(1)
}

func (m *MockBundleRepository) ListActive(ctx context.Context) ([]model.Bundle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Bundle), args.Error(1)
}

func (m *MockBundleRepository) Update(ctx context.Context, bundle *model.Bundle) (bool, error) {
	args := m.Called(ctx, bundle)
	return args.Bool(0), args.Error(1)
}

func (m *MockBundleRepository) Delete(ctx context.Context, id, sellerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, sellerID)
	return args.Bool(0), args.Error(1)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	// Return a MockTx interface value, not a pointer
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, customerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, sellerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus) error {
	args := m.Called(ctx, tx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockIdempotencyStore is a mock implementation of idempotency.Store.
type MockIdempotencyStore struct {
	mock.Mock
}

// liveContext matches a context that has not been cancelled.
func liveContext() interface{} {
	return mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, userID uuid.UUID, key string) (uuid.UUID, bool, error) {
	args := m.Called(ctx, userID, key)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *MockIdempotencyStore) Complete(ctx context.Context, userID uuid.UUID, key string, orderID uuid.UUID) error {
	args := m.Called(ctx, userID, key, orderID)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, userID uuid.UUID, key string) error {
	args := m.Called(ctx, userID, key)
	return args.Error(0)
}

// MockPublisher is a mock implementation of events.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) OrderCreated(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPublisher) OrderStatusChanged(ctx context.Context, order *model.Order, from model.OrderStatus) error {
	args := m.Called(ctx, order, from)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }
