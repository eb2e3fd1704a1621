package model

import (
	"time"

	"github.com/google/uuid"
)

// SellerProfile links an identity to a selling account.
type SellerProfile struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"userId" db:"user_id"`
	BusinessName string    `json:"businessName" db:"business_name"`
	Description  string    `json:"description" db:"description"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// SellerProfileRequest is the payload for creating a seller profile.
type SellerProfileRequest struct {
	BusinessName string `json:"businessName"`
	Description  string `json:"description"`
}
