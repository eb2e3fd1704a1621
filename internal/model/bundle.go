package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BundleScope is the availability window of a bundle.
type BundleScope string

const (
	BundleScopeDay  BundleScope = "day"
	BundleScopeWeek BundleScope = "week"
)

// Valid reports whether s is a known scope.
func (s BundleScope) Valid() bool {
	return s == BundleScopeDay || s == BundleScopeWeek
}

// Bundle is a fixed-price package of PlateCount plates picked from the allocated pool.
type Bundle struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	SellerID      uuid.UUID       `json:"sellerId" db:"seller_id"`
	Name          string          `json:"name" db:"name"`
	Description   string          `json:"description" db:"description"`
	PlateCount    int             `json:"plateCount" db:"plate_count"`
	Price         decimal.Decimal `json:"price" db:"price"`
	Scope         BundleScope     `json:"scope" db:"scope"`
	AvailableDate time.Time       `json:"availableDate" db:"available_date"`
	IsActive      bool            `json:"isActive" db:"is_active"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
	Plates        []BundlePlate   `json:"plates"`
}

// BundlePlate records how many units of a plate are committed to a bundle's pool.
// The quantity is a ceiling for the availability figure, not a reservation.
type BundlePlate struct {
	BundleID          uuid.UUID `json:"-" db:"bundle_id"`
	PlateID           uuid.UUID `json:"plateId" db:"plate_id"`
	QuantityAvailable int       `json:"quantityAvailable" db:"quantity_available"`
	Plate             *Plate    `json:"plate,omitempty"`
}

// MaxProducible returns how many complete bundles the allocated pool can still fill,
// counting each allocation only up to its plate's current stock.
func (b *Bundle) MaxProducible() int {
	if b.PlateCount <= 0 {
		return 0
	}

	units := 0
	for _, bp := range b.Plates {
		if bp.Plate == nil || !bp.Plate.IsAvailable {
			continue
		}
		units += min(bp.QuantityAvailable, bp.Plate.Quantity)
	}
	return units / b.PlateCount
}

// Allocation returns the allocation row for plateID.
func (b *Bundle) Allocation(plateID uuid.UUID) (BundlePlate, bool) {
	for _, bp := range b.Plates {
		if bp.PlateID == plateID {
			return bp, true
		}
	}
	return BundlePlate{}, false
}

// BundleRequest is the payload sellers send to create a bundle.
type BundleRequest struct {
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	PlateCount    int                  `json:"plateCount"`
	Price         decimal.Decimal      `json:"price"`
	Scope         BundleScope          `json:"scope"`
	AvailableDate string               `json:"availableDate"`
	Plates        []BundlePlateRequest `json:"plates"`
}

// BundlePlateRequest allocates Quantity units of a plate to the bundle.
type BundlePlateRequest struct {
	PlateID  uuid.UUID `json:"plateId"`
	Quantity int       `json:"quantity"`
}

// Validate checks the request fields.
func (r *BundleRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("bundle name is required")
	}
	if r.PlateCount <= 0 {
		return fmt.Errorf("bundle plate count must be greater than zero")
	}
	if !r.Price.Round(2).IsPositive() {
		return fmt.Errorf("bundle price must be at least 0.01")
	}
	if !r.Scope.Valid() {
		return fmt.Errorf("bundle scope must be day or week")
	}
	if _, err := time.Parse(DateLayout, r.AvailableDate); err != nil {
		return fmt.Errorf("available date is required in %s format", DateLayout)
	}
	if len(r.Plates) == 0 {
		return fmt.Errorf("bundle must include at least one plate")
	}

	seen := make(map[uuid.UUID]bool, len(r.Plates))
	for i, p := range r.Plates {
		if p.PlateID == uuid.Nil {
			return fmt.Errorf("plate %d: plate ID is required", i)
		}
		if p.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if seen[p.PlateID] {
			return fmt.Errorf("plate %s is listed more than once", p.PlateID)
		}
		seen[p.PlateID] = true
	}
	return nil
}

// ToBundle converts the request into the storage shape owned by sellerID.
// The request must have been validated.
func (r *BundleRequest) ToBundle(sellerID uuid.UUID) *Bundle {
	availableDate, _ := time.Parse(DateLayout, r.AvailableDate)

	bundle := &Bundle{
		ID:            uuid.New(),
		SellerID:      sellerID,
		Name:          strings.TrimSpace(r.Name),
		Description:   r.Description,
		PlateCount:    r.PlateCount,
		Price:         r.Price.Round(2),
		Scope:         r.Scope,
		AvailableDate: availableDate,
		IsActive:      true,
		Plates:        make([]BundlePlate, len(r.Plates)),
	}
	for i, p := range r.Plates {
		bundle.Plates[i] = BundlePlate{
			BundleID:          bundle.ID,
			PlateID:           p.PlateID,
			QuantityAvailable: p.Quantity,
		}
	}
	return bundle
}

// BundleUpdateRequest changes the mutable fields of a bundle.
type BundleUpdateRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	IsActive    *bool            `json:"isActive,omitempty"`
}

// Apply copies the set fields onto b.
func (r *BundleUpdateRequest) Apply(b *Bundle) error {
	if r.Name != nil {
		if strings.TrimSpace(*r.Name) == "" {
			return fmt.Errorf("bundle name is required")
		}
		b.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		b.Description = *r.Description
	}
	if r.Price != nil {
		price := r.Price.Round(2)
		if !price.IsPositive() {
			return fmt.Errorf("bundle price must be at least 0.01")
		}
		b.Price = price
	}
	if r.IsActive != nil {
		b.IsActive = *r.IsActive
	}
	return nil
}
