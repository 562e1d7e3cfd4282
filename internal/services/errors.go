package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Sentinel errors for the ledger core. Handlers match these with errors.Is and
// map them onto HTTP statuses.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrAmountTooLow       = errors.New("amount too low")
	ErrProjectNotActive   = errors.New("project is not available")
	ErrProjectFrozen      = errors.New("project unavailable")
	ErrInsufficientTokens = errors.New("not enough tokens")
	ErrListingNotActive   = errors.New("listing not available")
	ErrSelfTrade          = errors.New("cannot buy your own listing")
	ErrProofRequired      = errors.New("proof file not uploaded")
)

// TxBeginner abstracts transaction creation so tests don't need a pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// notFound translates a missing-row store error into ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
