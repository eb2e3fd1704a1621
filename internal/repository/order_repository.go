package repository

import (
	"context"
	"errors"
	"fmt"

	"homeplate/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `id, customer_id, seller_id, bundle_id, total_amount, status, delivery_type,
	notes, created_at, updated_at`

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.CustomerID, &o.SellerID, &o.BundleID, &o.TotalAmount, &o.Status,
		&o.DeliveryType, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, seller_id, bundle_id, total_amount, status,
			delivery_type, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		order.ID, order.CustomerID, order.SellerID, order.BundleID, order.TotalAmount,
		order.Status, order.DeliveryType, order.Notes,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, plate_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.PlateID, item.Quantity, item.UnitPrice, item.Subtotal)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("plate_id", items[i].PlateID.String()).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.getOrder(ctx, r.pool, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetByIDForUpdate locks the order row for the rest of tx.
func (r *orderRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	return r.getOrder(ctx, tx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *orderRepository) getOrder(ctx context.Context, q querier, query string, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := scanOrder(q.QueryRow(ctx, query, id), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.itemsFor(ctx, q, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	order.Items = items[id]
	if order.Items == nil {
		order.Items = []model.OrderItem{}
	}

	return &order, nil
}

// itemsFor loads the items of every order in ids, grouped by order.
func (r *orderRepository) itemsFor(ctx context.Context, q querier, ids []uuid.UUID) (map[uuid.UUID][]model.OrderItem, error) {
	query := `
		SELECT id, order_id, plate_id, quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("orders", len(ids)).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	grouped := make(map[uuid.UUID][]model.OrderItem, len(ids))
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.PlateID, &item.Quantity, &item.UnitPrice, &item.Subtotal)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		grouped[item.OrderID] = append(grouped[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return grouped, nil
}

func (r *orderRepository) listOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			rows.Close()
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]uuid.UUID, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}

	items, err := r.itemsFor(ctx, r.pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []model.OrderItem{}
		}
	}

	return orders, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.listOrders(ctx, query, customerID, limit, offset)
}

func (r *orderRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE seller_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.listOrders(ctx, query, sellerID, limit, offset)
}

// UpdateStatus sets the status of an order within the provided transaction.
func (r *orderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus) error {
	tag, err := tx.Exec(ctx, `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

// Delete removes a cancelled order; its items go with it.
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1 AND status = $2`, id, model.OrderStatusCancelled)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete order")
		return false, fmt.Errorf("failed to delete order: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
