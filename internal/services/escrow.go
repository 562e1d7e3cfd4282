package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/infrabondx/backend/internal/models"
)

// EscrowStore is the minimal escrow repository interface for the escrow ledger.
type EscrowStore interface {
	GetByProject(ctx context.Context, projectID uuid.UUID) (*models.Escrow, error)
	GetByProjectForUpdateTx(ctx context.Context, tx pgx.Tx, projectID uuid.UUID) (*models.Escrow, error)
	UpdateTotalsTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, totalLocked, totalReleased int64) error
}

// EscrowService keeps the per-project locked/released totals. Mutations run
// inside the caller's transaction with the escrow row locked, so an invest and
// a milestone release on the same project serialize.
type EscrowService struct {
	Escrows EscrowStore
}

func NewEscrowService(escrows EscrowStore) *EscrowService {
	return &EscrowService{Escrows: escrows}
}

// Summary returns the project's escrow totals for the public transparency view.
// A project with no escrow row reads as all zeroes.
func (s *EscrowService) Summary(ctx context.Context, projectID uuid.UUID) (*models.Escrow, error) {
	e, err := s.Escrows.GetByProject(ctx, projectID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &models.Escrow{ProjectID: projectID}, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// LockTx adds amount to total_locked. Called exactly once per successful
// investment with the invested cash amount.
func (s *EscrowService) LockTx(ctx context.Context, tx pgx.Tx, projectID uuid.UUID, amount int64) error {
	e, err := s.Escrows.GetByProjectForUpdateTx(ctx, tx, projectID)
	if err != nil {
		return err
	}
	return s.Escrows.UpdateTotalsTx(ctx, tx, e.ID, e.TotalLocked+amount, e.TotalReleased)
}

// ReleaseTx moves floor(total_locked * percent / 100) from locked to released,
// clamped so total_locked never goes negative, and returns the released amount.
//
// The percentage applies to the locked total at release time, not to the total
// ever locked: successive releases compound against a shrinking base. That is
// the documented product behavior, kept as-is.
func (s *EscrowService) ReleaseTx(ctx context.Context, tx pgx.Tx, projectID uuid.UUID, percent int) (int64, error) {
	e, err := s.Escrows.GetByProjectForUpdateTx(ctx, tx, projectID)
	if err != nil {
		return 0, err
	}
	released := e.TotalLocked * int64(percent) / 100
	if released > e.TotalLocked {
		released = e.TotalLocked
	}
	if err := s.Escrows.UpdateTotalsTx(ctx, tx, e.ID, e.TotalLocked-released, e.TotalReleased+released); err != nil {
		return 0, err
	}
	return released, nil
}
