package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction type enums.
const (
	TxTypeMint     = "MINT"     // primary-market issuance via invest
	TxTypeTransfer = "TRANSFER" // secondary-market change of ownership

	TxStatusSuccess = "SUCCESS"
)

// Transaction is an append-only audit record. Rows are never mutated.
type Transaction struct {
	ID         uuid.UUID  `json:"id"`
	TxHash     string     `json:"tx_hash"`
	UserID     uuid.UUID  `json:"user_id"`
	ProjectID  *uuid.UUID `json:"project_id,omitempty"`
	TxType     string     `json:"type"`
	Amount     int64      `json:"amount"`
	TokenCount int64      `json:"token_count"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
}
