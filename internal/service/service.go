package service

import (
	"context"
	"errors"

	"homeplate/internal/auth"
	"homeplate/internal/model"

	"github.com/google/uuid"
)

// SellerService resolves and creates seller profiles.
type SellerService interface {
	// GetProfile returns the caller's seller profile or model.ErrSellerProfileRequired.
	GetProfile(ctx context.Context, caller auth.Identity) (*model.SellerProfile, error)

	// CreateProfile onboards the caller as a seller.
	CreateProfile(ctx context.Context, caller auth.Identity, req *model.SellerProfileRequest) (*model.SellerProfile, error)
}

// PlateService defines operations on a seller's plate catalog.
type PlateService interface {
	Add(ctx context.Context, caller auth.Identity, req *model.PlateRequest) (*model.Plate, error)
	Update(ctx context.Context, caller auth.Identity, id uuid.UUID, req *model.PlateRequest) (*model.Plate, error)
	Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Plate, error)
	ListBySeller(ctx context.Context, caller auth.Identity) ([]model.Plate, error)

	// ListAvailable returns the public catalog with pagination.
	ListAvailable(ctx context.Context, limit, offset int) ([]model.Plate, error)
}

// BundleService defines operations on bundles.
type BundleService interface {
	CreateBundle(ctx context.Context, caller auth.Identity, req *model.BundleRequest) (*model.Bundle, error)

	// GetBundles returns the caller's own bundles.
	GetBundles(ctx context.Context, caller auth.Identity) ([]model.Bundle, error)

	// GetAvailableBundles returns active bundles that can still be filled at least once.
	GetAvailableBundles(ctx context.Context) ([]model.Bundle, error)

	GetBundle(ctx context.Context, id uuid.UUID) (*model.Bundle, error)
	UpdateBundle(ctx context.Context, caller auth.Identity, id uuid.UUID, req *model.BundleUpdateRequest) (*model.Bundle, error)
	DeleteBundle(ctx context.Context, caller auth.Identity, id uuid.UUID) error
}

// BundleOrderService places orders for bundles.
type BundleOrderService interface {
	// CreateBundleOrder reserves the selected plates and records the order in one
	// transaction. Either everything is written or nothing is.
	CreateBundleOrder(ctx context.Context, caller auth.Identity, req *model.BundleOrderRequest) (*model.Order, error)
}

// OrderService defines operations for direct plate orders and the order lifecycle.
type OrderService interface {
	CreateOrder(ctx context.Context, caller auth.Identity, req *model.OrderRequest) (*model.Order, error)

	// GetByID returns an order visible to its customer or its seller.
	GetByID(ctx context.Context, caller auth.Identity, id uuid.UUID) (*model.Order, error)

	ListForCustomer(ctx context.Context, caller auth.Identity, limit, offset int) ([]model.Order, error)
	ListForSeller(ctx context.Context, caller auth.Identity, limit, offset int) ([]model.Order, error)

	// UpdateStatus moves an order along its lifecycle. Cancelling returns the
	// reserved plates to stock.
	UpdateStatus(ctx context.Context, caller auth.Identity, id uuid.UUID, status model.OrderStatus) (*model.Order, error)

	// Delete removes a cancelled order.
	Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) error
}

// invalidRequest turns a validation failure into a client error, keeping
// domain errors as they are.
func invalidRequest(err error) error {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return model.NewDomainError(model.ErrCodeInvalidRequest, err.Error())
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
