package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// PlateSize is the portion size of a plate.
type PlateSize string

const (
	PlateSizeSmall  PlateSize = "small"
	PlateSizeMedium PlateSize = "medium"
	PlateSizeLarge  PlateSize = "large"
)

// Valid reports whether s is a known plate size.
func (s PlateSize) Valid() bool {
	switch s {
	case PlateSizeSmall, PlateSizeMedium, PlateSizeLarge:
		return true
	}
	return false
}

// Plate represents a home-cooked dish offered by a seller.
type Plate struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	SellerID      uuid.UUID       `json:"sellerId" db:"seller_id"`
	Name          string          `json:"name" db:"name"`
	Description   string          `json:"description" db:"description"`
	Price         decimal.Decimal `json:"price" db:"price"`
	Quantity      int             `json:"quantity" db:"quantity"`
	AvailableDate time.Time       `json:"availableDate" db:"available_date"`
	Size          PlateSize       `json:"size" db:"size"`
	IsSingle      bool            `json:"isSingle" db:"is_single"`
	IsBundle      bool            `json:"isBundle" db:"is_bundle"`
	IsAvailable   bool            `json:"isAvailable" db:"is_available"`
	ImageURL      *string         `json:"imageUrl,omitempty" db:"image_url"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// PlateRequest is the payload sellers send to create or update a plate.
type PlateRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	AvailableDate string          `json:"availableDate"`
	Size          PlateSize       `json:"size"`
	IsSingle      bool            `json:"isSingle"`
	IsBundle      bool            `json:"isBundle"`
	IsAvailable   *bool           `json:"isAvailable,omitempty"`
	ImageURL      *string         `json:"imageUrl,omitempty"`
}

// Validate checks the request fields.
func (r *PlateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("plate name is required")
	}
	if r.Price.IsNegative() {
		return fmt.Errorf("plate price must not be negative")
	}
	if r.Quantity < 0 {
		return ErrInvalidQuantity
	}
	if !r.Size.Valid() {
		return fmt.Errorf("plate size is required (small, medium or large)")
	}
	if _, err := time.Parse(DateLayout, r.AvailableDate); err != nil {
		return fmt.Errorf("available date is required in %s format", DateLayout)
	}
	if !r.IsSingle && !r.IsBundle {
		return fmt.Errorf("plate must be sold individually, in bundles, or both")
	}
	return nil
}

// ToPlate converts the request into the storage shape owned by sellerID.
// The request must have been validated.
func (r *PlateRequest) ToPlate(sellerID uuid.UUID) *Plate {
	availableDate, _ := time.Parse(DateLayout, r.AvailableDate)

	isAvailable := true
	if r.IsAvailable != nil {
		isAvailable = *r.IsAvailable
	}

	return &Plate{
		SellerID:      sellerID,
		Name:          strings.TrimSpace(r.Name),
		Description:   r.Description,
		Price:         r.Price.Round(2),
		Quantity:      r.Quantity,
		AvailableDate: availableDate,
		Size:          r.Size,
		IsSingle:      r.IsSingle,
		IsBundle:      r.IsBundle,
		IsAvailable:   isAvailable,
		ImageURL:      r.ImageURL,
	}
}

// StockChange is a signed quantity applied to one plate's stock counter.
type StockChange struct {
	PlateID  uuid.UUID
	Quantity int
}
