package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infrabondx/backend/internal/models"
)

type MilestoneRepo struct {
	pool *pgxpool.Pool
}

func NewMilestoneRepo(pool *pgxpool.Pool) *MilestoneRepo {
	return &MilestoneRepo{pool: pool}
}

func (r *MilestoneRepo) Create(ctx context.Context, m *models.Milestone) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO milestones (id, project_id, title, escrow_release_percent, status, proof_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, m.ID, m.ProjectID, m.Title, m.EscrowReleasePercent, m.Status, m.ProofURL).Scan(&m.CreatedAt)
}

func (r *MilestoneRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Milestone, error) {
	var m models.Milestone
	err := r.pool.QueryRow(ctx, `
		SELECT id, project_id, title, escrow_release_percent, status, proof_url, created_at
		FROM milestones WHERE id = $1
	`, id).Scan(&m.ID, &m.ProjectID, &m.Title, &m.EscrowReleasePercent, &m.Status, &m.ProofURL, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByIDForUpdate locks the milestone row so a concurrent resubmission cannot
// double-release escrow. Call within a transaction.
func (r *MilestoneRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Milestone, error) {
	var m models.Milestone
	err := tx.QueryRow(ctx, `
		SELECT id, project_id, title, escrow_release_percent, status, proof_url, created_at
		FROM milestones WHERE id = $1 FOR UPDATE
	`, id).Scan(&m.ID, &m.ProjectID, &m.Title, &m.EscrowReleasePercent, &m.Status, &m.ProofURL, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MilestoneRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Milestone, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, project_id, title, escrow_release_percent, status, proof_url, created_at
		FROM milestones WHERE project_id = $1 ORDER BY created_at ASC, id ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Milestone
	for rows.Next() {
		var m models.Milestone
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Title, &m.EscrowReleasePercent, &m.Status, &m.ProofURL, &m.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// CompleteTx marks the milestone COMPLETED and stores the proof reference.
func (r *MilestoneRepo) CompleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, proofURL string) error {
	_, err := tx.Exec(ctx, `
		UPDATE milestones SET status = $2, proof_url = $3 WHERE id = $1
	`, id, models.MilestoneStatusCompleted, proofURL)
	return err
}
