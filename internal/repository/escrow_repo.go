package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infrabondx/backend/internal/models"
)

type EscrowRepo struct {
	pool *pgxpool.Pool
}

func NewEscrowRepo(pool *pgxpool.Pool) *EscrowRepo {
	return &EscrowRepo{pool: pool}
}

func (r *EscrowRepo) GetByProject(ctx context.Context, projectID uuid.UUID) (*models.Escrow, error) {
	var e models.Escrow
	err := r.pool.QueryRow(ctx, `
		SELECT id, project_id, total_locked, total_released
		FROM escrows WHERE project_id = $1
	`, projectID).Scan(&e.ID, &e.ProjectID, &e.TotalLocked, &e.TotalReleased)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByProjectForUpdateTx locks the escrow row for the duration of the caller's
// transaction, creating a zero-balance row first if none exists. Every escrow
// mutation goes through this so a missing row is never fatal.
func (r *EscrowRepo) GetByProjectForUpdateTx(ctx context.Context, tx pgx.Tx, projectID uuid.UUID) (*models.Escrow, error) {
	var e models.Escrow
	err := tx.QueryRow(ctx, `
		SELECT id, project_id, total_locked, total_released
		FROM escrows WHERE project_id = $1 FOR UPDATE
	`, projectID).Scan(&e.ID, &e.ProjectID, &e.TotalLocked, &e.TotalReleased)
	if errors.Is(err, pgx.ErrNoRows) {
		e = models.Escrow{ID: uuid.New(), ProjectID: projectID}
		if _, err := tx.Exec(ctx, `
			INSERT INTO escrows (id, project_id, total_locked, total_released)
			VALUES ($1, $2, 0, 0)
		`, e.ID, e.ProjectID); err != nil {
			return nil, err
		}
		return &e, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EscrowRepo) Create(ctx context.Context, e *models.Escrow) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO escrows (id, project_id, total_locked, total_released)
		VALUES ($1, $2, $3, $4)
	`, e.ID, e.ProjectID, e.TotalLocked, e.TotalReleased)
	return err
}

// UpdateTotalsTx sets both balances. Call after GetByProjectForUpdateTx in the
// same transaction.
func (r *EscrowRepo) UpdateTotalsTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, totalLocked, totalReleased int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE escrows SET total_locked = $2, total_released = $3 WHERE id = $1
	`, id, totalLocked, totalReleased)
	return err
}
