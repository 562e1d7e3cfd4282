package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infrabondx/backend/internal/models"
)

type TransactionRepo struct {
	pool *pgxpool.Pool
}

func NewTransactionRepo(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// CreateTx appends a transaction record inside the given transaction. Rows are
// never updated afterwards.
func (r *TransactionRepo) CreateTx(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	return tx.QueryRow(ctx, `
		INSERT INTO transactions (id, tx_hash, user_id, project_id, tx_type, amount, token_count, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, t.ID, t.TxHash, t.UserID, t.ProjectID, t.TxType, t.Amount, t.TokenCount, t.Status).Scan(&t.CreatedAt)
}

// TransactionView is a transaction joined with its project title for history views.
type TransactionView struct {
	TxHash       string     `json:"tx_hash"`
	TxType       string     `json:"type"`
	Amount       int64      `json:"amount"`
	TokenCount   int64      `json:"token_count"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	ProjectID    *uuid.UUID `json:"project_id,omitempty"`
	ProjectTitle string     `json:"project_title"`
}

// ListByUser returns the user's transaction history, newest first. Transactions
// with no surviving project keep a generic title.
func (r *TransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*TransactionView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.tx_hash, t.tx_type, t.amount, t.token_count, t.status, t.created_at,
			t.project_id, COALESCE(p.title, 'Infrastructure Project')
		FROM transactions t
		LEFT JOIN projects p ON p.id = t.project_id
		WHERE t.user_id = $1
		ORDER BY t.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*TransactionView
	for rows.Next() {
		var v TransactionView
		if err := rows.Scan(&v.TxHash, &v.TxType, &v.Amount, &v.TokenCount, &v.Status, &v.CreatedAt, &v.ProjectID, &v.ProjectTitle); err != nil {
			return nil, err
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// LatestByUserProject returns the most recent transaction a user has for a
// project, or pgx.ErrNoRows.
func (r *TransactionRepo) LatestByUserProject(ctx context.Context, userID, projectID uuid.UUID) (*models.Transaction, error) {
	var t models.Transaction
	err := r.pool.QueryRow(ctx, `
		SELECT id, tx_hash, user_id, project_id, tx_type, amount, token_count, status, created_at
		FROM transactions
		WHERE user_id = $1 AND project_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, projectID).Scan(&t.ID, &t.TxHash, &t.UserID, &t.ProjectID, &t.TxType, &t.Amount, &t.TokenCount, &t.Status, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
