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

type bundleOrderService struct {
	checkout
	bundleRepo repository.BundleRepository
}

// NewBundleOrderService creates the bundle checkout service.
func NewBundleOrderService(
	bundleRepo repository.BundleRepository,
	plateRepo repository.PlateRepository,
	orderRepo repository.OrderRepository,
	idem idempotency.Store,
	publisher events.Publisher,
	logger zerolog.Logger,
) BundleOrderService {
	return &bundleOrderService{
		checkout: checkout{
			orderRepo: orderRepo,
			plateRepo: plateRepo,
			idem:      idem,
			publisher: publisher,
			logger:    logger.With().Str("service", "bundle_order").Logger(),
		},
		bundleRepo: bundleRepo,
	}
}

// CreateBundleOrder prices the bundle evenly across the selected units and
// places the order.
func (s *bundleOrderService) CreateBundleOrder(ctx context.Context, caller auth.Identity, req *model.BundleOrderRequest) (*model.Order, error) {
	if req == nil {
		return nil, model.ErrInvalidRequest
	}
	if !req.DeliveryType.Valid() {
		return nil, invalidRequest(fmt.Errorf("delivery type must be pickup or delivery"))
	}
	if len(req.Selections) == 0 {
		return nil, model.ErrInvalidSelection
	}

	return s.idempotent(ctx, caller, checkoutKey("bundle", req.BundleID, req.IdempotencyKey), func() (*model.Order, error) {
		return s.create(ctx, caller, req)
	})
}

func (s *bundleOrderService) create(ctx context.Context, caller auth.Identity, req *model.BundleOrderRequest) (*model.Order, error) {
	bundle, err := s.bundleRepo.GetByID(ctx, req.BundleID)
	if err != nil {
		s.logger.Error().Err(err).Str("bundle_id", req.BundleID.String()).Msg("failed to load bundle")
		return nil, fmt.Errorf("failed to load bundle: %w", err)
	}
	if bundle == nil {
		return nil, model.ErrBundleNotFound
	}
	if !bundle.IsActive {
		return nil, model.ErrBundleUnavailable
	}
	if req.SellerID != uuid.Nil && req.SellerID != bundle.SellerID {
		s.logger.Warn().
			Str("bundle_id", bundle.ID.String()).
			Str("seller_id", req.SellerID.String()).
			Msg("seller does not own bundle")
		return nil, model.ErrInvalidSelection
	}

	if err := validateSelections(bundle, req.Selections); err != nil {
		s.logger.Warn().Err(err).Str("bundle_id", bundle.ID.String()).Msg("invalid bundle selection")
		return nil, err
	}

	if maxBundles := bundle.MaxProducible(); maxBundles == 0 {
		s.logger.Info().Str("bundle_id", bundle.ID.String()).Msg("bundle sold out")
		return nil, model.ErrBundleUnavailable
	}

	quantities := make([]int, len(req.Selections))
	for i, sel := range req.Selections {
		quantities[i] = sel.Quantity
	}
	lines := DistributePrice(bundle.Price, quantities)

	bundleID := bundle.ID
	order := &model.Order{
		ID:           uuid.New(),
		CustomerID:   caller.UserID,
		SellerID:     bundle.SellerID,
		BundleID:     &bundleID,
		TotalAmount:  bundle.Price,
		Status:       model.OrderStatusPending,
		DeliveryType: req.DeliveryType,
		Notes:        req.Notes,
		Items:        make([]model.OrderItem, len(req.Selections)),
	}

	changes := make([]model.StockChange, len(req.Selections))
	for i, sel := range req.Selections {
		order.Items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			PlateID:   sel.PlateID,
			Quantity:  sel.Quantity,
			UnitPrice: lines[i].UnitPrice,
			Subtotal:  lines[i].Subtotal,
		}
		changes[i] = model.StockChange{PlateID: sel.PlateID, Quantity: sel.Quantity}
	}

	if err := s.place(ctx, order, changes); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("bundle_id", bundle.ID.String()).
		Str("unit_price", lines[0].UnitPrice.StringFixed(2)).
		Msg("bundle order placed")

	return order, nil
}

// validateSelections checks that the selection picks exactly PlateCount units
// from available plates allocated to the bundle, each plate at most once.
func validateSelections(bundle *model.Bundle, selections []model.OrderItemRequest) error {
	seen := make(map[uuid.UUID]bool, len(selections))
	total := 0

	for _, sel := range selections {
		if sel.Quantity <= 0 {
			return model.ErrInvalidQuantity
		}
		if seen[sel.PlateID] {
			return model.NewDomainError(model.ErrCodeInvalidSelection,
				fmt.Sprintf("Plate %s is selected more than once", sel.PlateID))
		}
		seen[sel.PlateID] = true

		alloc, ok := bundle.Allocation(sel.PlateID)
		if !ok {
			return model.NewDomainError(model.ErrCodeInvalidSelection,
				fmt.Sprintf("Plate %s is not part of this bundle", sel.PlateID))
		}
		if alloc.Plate != nil && !alloc.Plate.IsAvailable {
			return model.NewDomainError(model.ErrCodeInvalidSelection,
				fmt.Sprintf("Plate %q is not available", alloc.Plate.Name))
		}
		if alloc.Plate != nil && !alloc.Plate.IsBundle {
			return model.NewDomainError(model.ErrCodeInvalidSelection,
				fmt.Sprintf("Plate %q is no longer sold in bundles", alloc.Plate.Name))
		}
		total += sel.Quantity
	}

	if total != bundle.PlateCount {
		return model.NewDomainError(model.ErrCodeInvalidSelection,
			fmt.Sprintf("Bundle requires %d plates, %d selected", bundle.PlateCount, total))
	}
	return nil
}
