package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/infrabondx/backend/internal/execution"
	"github.com/infrabondx/backend/internal/metrics"
	"github.com/infrabondx/backend/internal/models"
)

// InvestProjectStore is the project access the invest flow needs.
type InvestProjectStore interface {
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Project, error)
	AddFundingRaisedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int64) error
}

// HoldingStore is the holding access shared by invest and marketplace flows.
type HoldingStore interface {
	GetByUserProject(ctx context.Context, userID, projectID uuid.UUID) (*models.TokenHolding, error)
	GetByUserProjectForUpdateTx(ctx context.Context, tx pgx.Tx, userID, projectID uuid.UUID) (*models.TokenHolding, error)
	CreateTx(ctx context.Context, tx pgx.Tx, h *models.TokenHolding) error
	UpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, tokenCount int64, avgBuyPrice float64) error
}

// TransactionStore appends audit records.
type TransactionStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, t *models.Transaction) error
}

// InsertRenderCertificateTxFunc enqueues a certificate pre-render within the
// given transaction. Provided by main using river.Client.InsertTx; nil disables
// pre-rendering (the download endpoint still renders on demand).
type InsertRenderCertificateTxFunc func(ctx context.Context, tx pgx.Tx, args execution.RenderCertificateJobArgs) error

// InvestResult is returned to the investor after a successful mint.
type InvestResult struct {
	TxHash       string
	TokensIssued int64
}

// InvestService implements the primary-market mint: one transaction covering
// project funding, escrow lock, holding update, and the MINT audit record.
type InvestService struct {
	Pool              TxBeginner
	Projects          InvestProjectStore
	Escrow            *EscrowService
	Holdings          HoldingStore
	Transactions      TransactionStore
	InsertCertificate InsertRenderCertificateTxFunc
	Log               *slog.Logger
}

func NewInvestService(pool TxBeginner, projects InvestProjectStore, escrow *EscrowService, holdings HoldingStore, transactions TransactionStore, log *slog.Logger) *InvestService {
	if log == nil {
		log = slog.Default()
	}
	return &InvestService{
		Pool:         pool,
		Projects:     projects,
		Escrow:       escrow,
		Holdings:     holdings,
		Transactions: transactions,
		Log:          log,
	}
}

// Invest mints tokens for an investor: tokens = floor(amount / token_price).
// The whole mutation commits or none of it does.
func (s *InvestService) Invest(ctx context.Context, investorID, projectID uuid.UUID, amount int64) (*InvestResult, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	p, err := s.Projects.GetByIDForUpdate(ctx, tx, projectID)
	if err != nil {
		return nil, notFound(err)
	}
	if p.Status != models.ProjectStatusActive {
		return nil, ErrProjectNotActive
	}

	tokens := int64(0)
	if amount > 0 {
		tokens = amount / p.TokenPrice
	}
	if tokens <= 0 {
		metrics.IncrementMint("rejected")
		return nil, ErrAmountTooLow
	}

	if err := s.Projects.AddFundingRaisedTx(ctx, tx, p.ID, amount); err != nil {
		return nil, err
	}
	if err := s.Escrow.LockTx(ctx, tx, p.ID, amount); err != nil {
		return nil, err
	}
	if err := s.applyMint(ctx, tx, investorID, p, tokens); err != nil {
		return nil, err
	}

	txHash := NewTxHash()
	record := &models.Transaction{
		ID:         uuid.New(),
		TxHash:     txHash,
		UserID:     investorID,
		ProjectID:  &p.ID,
		TxType:     models.TxTypeMint,
		Amount:     amount,
		TokenCount: tokens,
		Status:     models.TxStatusSuccess,
	}
	if err := s.Transactions.CreateTx(ctx, tx, record); err != nil {
		return nil, err
	}

	if s.InsertCertificate != nil {
		args := execution.RenderCertificateJobArgs{UserID: investorID, ProjectID: p.ID, TxHash: txHash}
		if err := s.InsertCertificate(ctx, tx, args); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.IncrementMint("success")
	s.Log.Info("investment minted", "user_id", investorID, "project_id", p.ID, "amount", amount, "tokens", tokens)
	return &InvestResult{TxHash: txHash, TokensIssued: tokens}, nil
}

// applyMint folds freshly minted tokens into the investor's holding with a
// weighted-average cost basis:
//
//	new_avg = (old_count*old_avg + tokens*token_price) / (old_count + tokens)
func (s *InvestService) applyMint(ctx context.Context, tx pgx.Tx, investorID uuid.UUID, p *models.Project, tokens int64) error {
	h, err := s.Holdings.GetByUserProjectForUpdateTx(ctx, tx, investorID, p.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.Holdings.CreateTx(ctx, tx, &models.TokenHolding{
			ID:          uuid.New(),
			UserID:      investorID,
			ProjectID:   p.ID,
			TokenCount:  tokens,
			AvgBuyPrice: float64(p.TokenPrice),
		})
	}
	if err != nil {
		return err
	}
	oldTotal := float64(h.TokenCount) * h.AvgBuyPrice
	newCount := h.TokenCount + tokens
	newAvg := (oldTotal + float64(tokens*p.TokenPrice)) / float64(newCount)
	return s.Holdings.UpdateTx(ctx, tx, h.ID, newCount, newAvg)
}
