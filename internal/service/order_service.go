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
	"github.com/shopspring/decimal"
)

// orderService implements OrderService.
type orderService struct {
	checkout
	sellerRepo repository.SellerRepository
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	plateRepo repository.PlateRepository,
	sellerRepo repository.SellerRepository,
	idem idempotency.Store,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		checkout: checkout{
			orderRepo: orderRepo,
			plateRepo: plateRepo,
			idem:      idem,
			publisher: publisher,
			logger:    logger.With().Str("service", "order").Logger(),
		},
		sellerRepo: sellerRepo,
	}
}

// CreateOrder buys individually sold plates from one seller at catalog prices.
func (s *orderService) CreateOrder(ctx context.Context, caller auth.Identity, req *model.OrderRequest) (*model.Order, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	return s.idempotent(ctx, caller, checkoutKey("order", req.SellerID, req.IdempotencyKey), func() (*model.Order, error) {
		return s.create(ctx, caller, req)
	})
}

func (s *orderService) create(ctx context.Context, caller auth.Identity, req *model.OrderRequest) (*model.Order, error) {
	ids := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		ids[i] = item.PlateID
	}

	plates, err := s.plateRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Int("plate_count", len(ids)).Msg("failed to load plates")
		return nil, fmt.Errorf("failed to load plates: %w", err)
	}
	byID := make(map[uuid.UUID]model.Plate, len(plates))
	for _, p := range plates {
		byID[p.ID] = p
	}

	sellerID := req.SellerID
	prices := make([]decimal.Decimal, len(req.Items))
	quantities := make([]int, len(req.Items))

	for i, item := range req.Items {
		plate, ok := byID[item.PlateID]
		if !ok {
			s.logger.Warn().Str("plate_id", item.PlateID.String()).Msg("plate not found")
			return nil, model.ErrPlateNotFound
		}
		if !plate.IsAvailable || !plate.IsSingle {
			return nil, invalidRequest(fmt.Errorf("plate %q is not sold individually", plate.Name))
		}
		if sellerID == uuid.Nil {
			sellerID = plate.SellerID
		}
		if plate.SellerID != sellerID {
			return nil, invalidRequest(fmt.Errorf("all plates in an order must come from one seller"))
		}
		prices[i] = plate.Price
		quantities[i] = item.Quantity
	}

	lines, total := PriceAtCatalog(prices, quantities)

	order := &model.Order{
		ID:           uuid.New(),
		CustomerID:   caller.UserID,
		SellerID:     sellerID,
		TotalAmount:  total,
		Status:       model.OrderStatusPending,
		DeliveryType: req.DeliveryType,
		Notes:        req.Notes,
		Items:        make([]model.OrderItem, len(req.Items)),
	}

	changes := make([]model.StockChange, len(req.Items))
	for i, item := range req.Items {
		order.Items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			PlateID:   item.PlateID,
			Quantity:  item.Quantity,
			UnitPrice: lines[i].UnitPrice,
			Subtotal:  lines[i].Subtotal,
		}
		changes[i] = model.StockChange{PlateID: item.PlateID, Quantity: item.Quantity}
	}

	if err := s.place(ctx, order, changes); err != nil {
		return nil, err
	}
	return order, nil
}

// access reports whether the caller is the order's customer or its seller.
func (s *orderService) access(ctx context.Context, caller auth.Identity, order *model.Order) (isCustomer, isSeller bool, err error) {
	isCustomer = order.CustomerID == caller.UserID

	profile, err := s.sellerRepo.GetByUserID(ctx, caller.UserID)
	if err != nil {
		return false, false, fmt.Errorf("failed to resolve seller profile: %w", err)
	}
	isSeller = profile != nil && profile.ID == order.SellerID

	return isCustomer, isSeller, nil
}

// GetByID retrieves an order by its ID with all items.
func (s *orderService) GetByID(ctx context.Context, caller auth.Identity, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	isCustomer, isSeller, err := s.access(ctx, caller, order)
	if err != nil {
		return nil, err
	}
	if !isCustomer && !isSeller {
		return nil, model.ErrForbidden
	}

	return order, nil
}

func (s *orderService) ListForCustomer(ctx context.Context, caller auth.Identity, limit, offset int) ([]model.Order, error) {
	limit, offset = clampPage(limit, offset)

	orders, err := s.orderRepo.ListByCustomer(ctx, caller.UserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) ListForSeller(ctx context.Context, caller auth.Identity, limit, offset int) ([]model.Order, error) {
	limit, offset = clampPage(limit, offset)

	seller, err := requireSeller(ctx, s.sellerRepo, caller, s.logger)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListBySeller(ctx, seller.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves the order forward (seller only) or cancels it (customer
// or seller). Cancellation returns every line's quantity to stock in the
// same transaction as the status change.
func (s *orderService) UpdateStatus(ctx context.Context, caller auth.Identity, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, invalidRequest(fmt.Errorf("unknown order status %q", status))
	}

	profile, err := s.sellerRepo.GetByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve seller profile: %w", err)
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err := s.orderRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if order == nil {
		err = model.ErrOrderNotFound
		return nil, err
	}

	isCustomer := order.CustomerID == caller.UserID
	isSeller := profile != nil && profile.ID == order.SellerID

	switch {
	case !isCustomer && !isSeller:
		err = model.ErrForbidden
	case !order.Status.CanTransitionTo(status):
		err = model.ErrInvalidStatusTransition
	case status != model.OrderStatusCancelled && !isSeller:
		err = model.ErrForbidden
	}
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", id.String()).
			Str("from", string(order.Status)).
			Str("to", string(status)).
			Msg("status change rejected")
		return nil, err
	}

	if status == model.OrderStatusCancelled {
		changes := make([]model.StockChange, len(order.Items))
		for i, item := range order.Items {
			changes[i] = model.StockChange{PlateID: item.PlateID, Quantity: item.Quantity}
		}
		if err = s.plateRepo.RestoreStock(ctx, tx, changes); err != nil {
			return nil, fmt.Errorf("failed to restore stock: %w", err)
		}
	}

	if err = s.orderRepo.UpdateStatus(ctx, tx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	from := order.Status
	order.Status = status

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(from)).
		Str("to", string(status)).
		Msg("order status updated")

	if pubErr := s.publisher.OrderStatusChanged(ctx, order, from); pubErr != nil {
		s.logger.Warn().Err(pubErr).Str("order_id", id.String()).Msg("status changed event not published")
	}

	return order, nil
}

// Delete removes a cancelled order visible to the caller.
func (s *orderService) Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) error {
	order, err := s.GetByID(ctx, caller, id)
	if err != nil {
		return err
	}
	if order.Status != model.OrderStatusCancelled {
		return model.ErrOrderNotDeletable
	}

	ok, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !ok {
		return model.ErrOrderNotDeletable
	}

	s.logger.Info().Str("order_id", id.String()).Msg("order deleted")
	return nil
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.ErrInvalidRequest
	}

	if len(req.Items) == 0 {
		return invalidRequest(fmt.Errorf("order must contain at least one item"))
	}

	if !req.DeliveryType.Valid() {
		return invalidRequest(fmt.Errorf("delivery type must be pickup or delivery"))
	}

	seen := make(map[uuid.UUID]bool, len(req.Items))
	for i, item := range req.Items {
		if item.PlateID == uuid.Nil {
			return invalidRequest(fmt.Errorf("item %d: plate ID is required", i))
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("plate_id", item.PlateID.String()).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}

		if seen[item.PlateID] {
			return invalidRequest(fmt.Errorf("plate %s is listed more than once", item.PlateID))
		}
		seen[item.PlateID] = true
	}

	return nil
}
