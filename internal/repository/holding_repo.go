package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infrabondx/backend/internal/models"
)

type HoldingRepo struct {
	pool *pgxpool.Pool
}

func NewHoldingRepo(pool *pgxpool.Pool) *HoldingRepo {
	return &HoldingRepo{pool: pool}
}

func (r *HoldingRepo) GetByUserProject(ctx context.Context, userID, projectID uuid.UUID) (*models.TokenHolding, error) {
	var h models.TokenHolding
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, project_id, token_count, avg_buy_price
		FROM token_holdings WHERE user_id = $1 AND project_id = $2
	`, userID, projectID).Scan(&h.ID, &h.UserID, &h.ProjectID, &h.TokenCount, &h.AvgBuyPrice)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// GetByUserProjectForUpdateTx locks the holding row. Returns pgx.ErrNoRows if
// the user holds nothing for the project.
func (r *HoldingRepo) GetByUserProjectForUpdateTx(ctx context.Context, tx pgx.Tx, userID, projectID uuid.UUID) (*models.TokenHolding, error) {
	var h models.TokenHolding
	err := tx.QueryRow(ctx, `
		SELECT id, user_id, project_id, token_count, avg_buy_price
		FROM token_holdings WHERE user_id = $1 AND project_id = $2 FOR UPDATE
	`, userID, projectID).Scan(&h.ID, &h.UserID, &h.ProjectID, &h.TokenCount, &h.AvgBuyPrice)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HoldingRepo) CreateTx(ctx context.Context, tx pgx.Tx, h *models.TokenHolding) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO token_holdings (id, user_id, project_id, token_count, avg_buy_price)
		VALUES ($1, $2, $3, $4, $5)
	`, h.ID, h.UserID, h.ProjectID, h.TokenCount, h.AvgBuyPrice)
	return err
}

// UpdateTx sets balance and cost basis. Call after GetByUserProjectForUpdateTx
// in the same transaction.
func (r *HoldingRepo) UpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, tokenCount int64, avgBuyPrice float64) error {
	_, err := tx.Exec(ctx, `
		UPDATE token_holdings SET token_count = $2, avg_buy_price = $3 WHERE id = $1
	`, id, tokenCount, avgBuyPrice)
	return err
}

func (r *HoldingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.TokenHolding, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, project_id, token_count, avg_buy_price
		FROM token_holdings WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.TokenHolding
	for rows.Next() {
		var h models.TokenHolding
		if err := rows.Scan(&h.ID, &h.UserID, &h.ProjectID, &h.TokenCount, &h.AvgBuyPrice); err != nil {
			return nil, err
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}

// PortfolioItem is a holding joined with its project for the investor portfolio view.
type PortfolioItem struct {
	ProjectID    uuid.UUID `json:"project_id"`
	ProjectTitle string    `json:"project_title"`
	Tokens       int64     `json:"tokens"`
	AvgBuyPrice  float64   `json:"avg_buy_price"`
	TokenPrice   int64     `json:"token_price"`
	ROIPercent   float64   `json:"roi_percent"`
	TenureMonths int       `json:"tenure_months"`
}

// ListPortfolio returns the user's holdings joined with project fields.
// Holdings whose project row is gone are skipped by the inner join.
func (r *HoldingRepo) ListPortfolio(ctx context.Context, userID uuid.UUID) ([]*PortfolioItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.title, h.token_count, h.avg_buy_price, p.token_price, p.roi_percent, p.tenure_months
		FROM token_holdings h
		JOIN projects p ON p.id = h.project_id
		WHERE h.user_id = $1
		ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*PortfolioItem
	for rows.Next() {
		var it PortfolioItem
		if err := rows.Scan(&it.ProjectID, &it.ProjectTitle, &it.Tokens, &it.AvgBuyPrice, &it.TokenPrice, &it.ROIPercent, &it.TenureMonths); err != nil {
			return nil, err
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
