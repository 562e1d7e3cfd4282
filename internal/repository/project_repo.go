package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infrabondx/backend/internal/models"
)

type ProjectRepo struct {
	pool *pgxpool.Pool
}

func NewProjectRepo(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

const projectColumns = `id, issuer_id, title, category, location, description,
	funding_target, funding_raised, token_price, roi_percent, tenure_months,
	risk_level, risk_score, status, created_at`

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.IssuerID, &p.Title, &p.Category, &p.Location, &p.Description,
		&p.FundingTarget, &p.FundingRaised, &p.TokenPrice, &p.ROIPercent, &p.TenureMonths,
		&p.RiskLevel, &p.RiskScore, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepo) Create(ctx context.Context, p *models.Project) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO projects (id, issuer_id, title, category, location, description,
			funding_target, funding_raised, token_price, roi_percent, tenure_months,
			risk_level, risk_score, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at
	`, p.ID, p.IssuerID, p.Title, p.Category, p.Location, p.Description,
		p.FundingTarget, p.FundingRaised, p.TokenPrice, p.ROIPercent, p.TenureMonths,
		p.RiskLevel, p.RiskScore, p.Status).Scan(&p.CreatedAt)
}

func (r *ProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return scanProject(r.pool.QueryRow(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE id = $1
	`, id))
}

// GetByIDForUpdate locks the project row for update. Call within a transaction.
func (r *ProjectRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Project, error) {
	return scanProject(tx.QueryRow(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE id = $1 FOR UPDATE
	`, id))
}

func (r *ProjectRepo) collect(rows pgx.Rows) ([]*models.Project, error) {
	defer rows.Close()
	var list []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProjectRepo) ListByStatus(ctx context.Context, status string) ([]*models.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE status = $1 ORDER BY created_at DESC
	`, status)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *ProjectRepo) List(ctx context.Context) ([]*models.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *ProjectRepo) ListByIssuer(ctx context.Context, issuerID uuid.UUID) ([]*models.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE issuer_id = $1 ORDER BY created_at DESC
	`, issuerID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *ProjectRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE projects SET status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AddFundingRaisedTx increments funding_raised inside the caller's transaction.
// Call after GetByIDForUpdate on the same row.
func (r *ProjectRepo) AddFundingRaisedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE projects SET funding_raised = funding_raised + $2 WHERE id = $1
	`, id, amount)
	return err
}
