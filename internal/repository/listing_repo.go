package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infrabondx/backend/internal/models"
)

type ListingRepo struct {
	pool *pgxpool.Pool
}

func NewListingRepo(pool *pgxpool.Pool) *ListingRepo {
	return &ListingRepo{pool: pool}
}

func (r *ListingRepo) Create(ctx context.Context, l *models.MarketplaceListing) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO marketplace_listings (id, seller_id, project_id, token_count, price_per_token, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, l.ID, l.SellerID, l.ProjectID, l.TokenCount, l.PricePerToken, l.Status).Scan(&l.CreatedAt)
}

func (r *ListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MarketplaceListing, error) {
	var l models.MarketplaceListing
	err := r.pool.QueryRow(ctx, `
		SELECT id, seller_id, project_id, token_count, price_per_token, status, created_at
		FROM marketplace_listings WHERE id = $1
	`, id).Scan(&l.ID, &l.SellerID, &l.ProjectID, &l.TokenCount, &l.PricePerToken, &l.Status, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByIDForUpdate locks the listing row so two buyers cannot both pass the
// ACTIVE check. Call within a transaction.
func (r *ListingRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.MarketplaceListing, error) {
	var l models.MarketplaceListing
	err := tx.QueryRow(ctx, `
		SELECT id, seller_id, project_id, token_count, price_per_token, status, created_at
		FROM marketplace_listings WHERE id = $1 FOR UPDATE
	`, id).Scan(&l.ID, &l.SellerID, &l.ProjectID, &l.TokenCount, &l.PricePerToken, &l.Status, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// MarkSoldTx transitions the listing to SOLD.
func (r *ListingRepo) MarkSoldTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE marketplace_listings SET status = $2 WHERE id = $1
	`, id, models.ListingStatusSold)
	return err
}

// ListActiveViews returns ACTIVE listings joined with project title and seller
// name. The inner joins drop listings whose project or seller row is missing,
// and the project-status filter hides listings on non-ACTIVE projects.
func (r *ListingRepo) ListActiveViews(ctx context.Context) ([]*models.ListingView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.id, p.id, p.title, u.name, l.token_count, l.price_per_token, l.status
		FROM marketplace_listings l
		JOIN projects p ON p.id = l.project_id
		JOIN users u ON u.id = l.seller_id
		WHERE l.status = $1 AND p.status = $2
		ORDER BY l.created_at DESC
	`, models.ListingStatusActive, models.ProjectStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.ListingView
	for rows.Next() {
		var v models.ListingView
		if err := rows.Scan(&v.ID, &v.ProjectID, &v.ProjectTitle, &v.SellerName, &v.TokenCount, &v.PricePerToken, &v.Status); err != nil {
			return nil, err
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
