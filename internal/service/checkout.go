package service

import (
	"context"
	"fmt"

	"homeplate/internal/auth"
	"homeplate/internal/events"
	"homeplate/internal/idempotency"
	"homeplate/internal/model"
	"homeplate/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkout is the transactional order placement shared by bundle and direct orders.
type checkout struct {
	orderRepo repository.OrderRepository
	plateRepo repository.PlateRepository
	idem      idempotency.Store
	publisher events.Publisher
	logger    zerolog.Logger
}

// place reserves stock and writes the order with its items in one transaction.
// A plate short on stock aborts the transaction before the order row exists.
func (c *checkout) place(ctx context.Context, order *model.Order, changes []model.StockChange) error {
	tx, err := c.orderRepo.BeginTx(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				c.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = c.plateRepo.DecrementStock(ctx, tx, changes); err != nil {
		c.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("stock reservation failed")
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	if err = c.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err = c.orderRepo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		c.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(order.Items)).
			Msg("failed to create order items")
		return fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		c.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	c.logger.Info().
		Str("order_id", order.ID.String()).
		Str("customer_id", order.CustomerID.String()).
		Str("total", order.TotalAmount.StringFixed(2)).
		Int("item_count", len(order.Items)).
		Msg("order created successfully")

	if pubErr := c.publisher.OrderCreated(ctx, order); pubErr != nil {
		c.logger.Warn().Err(pubErr).Str("order_id", order.ID.String()).Msg("order created event not published")
	}

	return nil
}

// checkoutKey scopes a client key to the checkout endpoint and its target, so
// a key reused against another bundle or seller never replays an unrelated order.
func checkoutKey(endpoint string, target uuid.UUID, key string) string {
	if key == "" {
		return ""
	}
	return endpoint + ":" + target.String() + ":" + key
}

// idempotent runs fn at most once per caller and key. A replayed key returns
// the order the first run produced. An empty key disables deduplication.
func (c *checkout) idempotent(ctx context.Context, caller auth.Identity, key string, fn func() (*model.Order, error)) (*model.Order, error) {
	if key == "" {
		return fn()
	}

	orderID, found, err := c.idem.Reserve(ctx, caller.UserID, key)
	if err != nil {
		return nil, err
	}
	if found {
		order, err := c.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return nil, fmt.Errorf("failed to load replayed order: %w", err)
		}
		if order == nil {
			return nil, model.ErrOrderNotFound
		}
		c.logger.Info().Str("order_id", orderID.String()).Msg("checkout replayed from idempotency key")
		return order, nil
	}

	// The key must be settled even when the request context is already done.
	settleCtx := context.WithoutCancel(ctx)

	order, err := fn()
	if err != nil {
		if relErr := c.idem.Release(settleCtx, caller.UserID, key); relErr != nil {
			c.logger.Error().Err(relErr).Msg("failed to release idempotency key")
		}
		return nil, err
	}

	if err := c.idem.Complete(settleCtx, caller.UserID, key, order.ID); err != nil {
		c.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to record idempotency key")
	}
	return order, nil
}
