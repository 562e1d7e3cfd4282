package models

import "github.com/google/uuid"

// TokenHolding is the per-(user, project) token balance. Created lazily on
// first acquisition; kept (at zero) after a full sale.
//
// AvgBuyPrice is the cost basis per token. Primary-market mints fold into it as
// a weighted average; a marketplace buy overwrites it with the listing price.
// The asymmetry is a documented business rule, not an accident.
type TokenHolding struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	ProjectID   uuid.UUID `json:"project_id"`
	TokenCount  int64     `json:"token_count"`
	AvgBuyPrice float64   `json:"avg_buy_price"`
}
