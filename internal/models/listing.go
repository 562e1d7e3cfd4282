package models

import (
	"time"

	"github.com/google/uuid"
)

// Marketplace listing status enums. ACTIVE -> SOLD is one-way and terminal;
// there is no cancel operation.
const (
	ListingStatusActive = "ACTIVE"
	ListingStatusSold   = "SOLD"
)

type MarketplaceListing struct {
	ID            uuid.UUID `json:"id"`
	SellerID      uuid.UUID `json:"seller_id"`
	ProjectID     uuid.UUID `json:"project_id"`
	TokenCount    int64     `json:"token_count"`
	PricePerToken int64     `json:"price_per_token"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListingView is a listing joined with project title and seller name for the
// public marketplace feed.
type ListingView struct {
	ID            uuid.UUID `json:"id"`
	ProjectID     uuid.UUID `json:"project_id"`
	ProjectTitle  string    `json:"project_title"`
	SellerName    string    `json:"seller_name"`
	TokenCount    int64     `json:"token_count"`
	PricePerToken int64     `json:"price_per_token"`
	Status        string    `json:"status"`
}
