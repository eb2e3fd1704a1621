package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON             = "INVALID_JSON"
	ErrCodeInvalidRequest          = "INVALID_REQUEST"
	ErrCodeInvalidQuantity         = "INVALID_QUANTITY"
	ErrCodeInvalidSelection        = "INVALID_SELECTION"
	ErrCodeUnauthenticated         = "UNAUTHENTICATED"
	ErrCodeForbidden               = "FORBIDDEN"
	ErrCodeSellerProfileRequired   = "SELLER_PROFILE_REQUIRED"
	ErrCodeSellerProfileExists     = "SELLER_PROFILE_EXISTS"
	ErrCodePlateNotFound           = "PLATE_NOT_FOUND"
	ErrCodePlateInUse              = "PLATE_IN_USE"
	ErrCodeBundleNotFound          = "BUNDLE_NOT_FOUND"
	ErrCodeOrderNotFound           = "ORDER_NOT_FOUND"
	ErrCodeInsufficientStock       = "INSUFFICIENT_STOCK"
	ErrCodeBundleUnavailable       = "BUNDLE_UNAVAILABLE"
	ErrCodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	ErrCodeOrderNotDeletable       = "ORDER_NOT_DELETABLE"
	ErrCodeDuplicateCheckout       = "DUPLICATE_CHECKOUT"
	ErrCodeRateLimited             = "RATE_LIMITED"
	ErrCodeInternalError           = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidRequest          = NewDomainError(ErrCodeInvalidRequest, "Request is missing required fields")
	ErrInvalidQuantity         = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidSelection        = NewDomainError(ErrCodeInvalidSelection, "Plate selection does not match the bundle")
	ErrUnauthenticated         = NewDomainError(ErrCodeUnauthenticated, "Authentication is required")
	ErrForbidden               = NewDomainError(ErrCodeForbidden, "You do not have access to this resource")
	ErrSellerProfileRequired   = NewDomainError(ErrCodeSellerProfileRequired, "Seller profile not found, complete seller onboarding first")
	ErrSellerProfileExists     = NewDomainError(ErrCodeSellerProfileExists, "Seller profile already exists")
	ErrPlateNotFound           = NewDomainError(ErrCodePlateNotFound, "Plate not found")
	ErrPlateInUse              = NewDomainError(ErrCodePlateInUse, "Plate has orders and cannot be deleted, mark it unavailable instead")
	ErrBundleNotFound          = NewDomainError(ErrCodeBundleNotFound, "Bundle not found")
	ErrOrderNotFound           = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInsufficientStock       = NewDomainError(ErrCodeInsufficientStock, "Not enough plates left in stock")
	ErrBundleUnavailable       = NewDomainError(ErrCodeBundleUnavailable, "Bundle is sold out or no longer available")
	ErrInvalidStatusTransition = NewDomainError(ErrCodeInvalidStatusTransition, "Order status cannot change that way")
	ErrOrderNotDeletable       = NewDomainError(ErrCodeOrderNotDeletable, "Only cancelled orders can be deleted")
	ErrDuplicateCheckout       = NewDomainError(ErrCodeDuplicateCheckout, "A checkout with this idempotency key is already in progress")
)

// InsufficientStockError names the plate that could not cover the requested quantity.
// It matches ErrInsufficientStock with errors.Is.
type InsufficientStockError struct {
	PlateID   uuid.UUID
	PlateName string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	name := e.PlateName
	if name == "" {
		name = e.PlateID.String()
	}
	return fmt.Sprintf("not enough stock for %q: requested %d, available %d", name, e.Requested, e.Available)
}

// Is reports whether target is the generic insufficient-stock sentinel.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// AsDomainError extracts the DomainError behind err, if any.
// InsufficientStockError maps onto ErrInsufficientStock carrying its own message.
func AsDomainError(err error) (*DomainError, bool) {
	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		return NewDomainError(ErrCodeInsufficientStock, stockErr.Error()), true
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}
