package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/infrabondx/backend/internal/metrics"
	"github.com/infrabondx/backend/internal/models"
)

// MilestoneStore is the milestone access the proof-submission flow needs.
type MilestoneStore interface {
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Milestone, error)
	CompleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, proofURL string) error
}

// ProofProjectStore resolves and locks the milestone's project.
type ProofProjectStore interface {
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Project, error)
}

// ProofResult reports the outcome of a proof submission.
type ProofResult struct {
	ReleasedAmount   int64
	AlreadyCompleted bool
	ProofURL         string
}

// MilestoneService handles issuer proof submission and the escrow release it
// triggers.
type MilestoneService struct {
	Pool       TxBeginner
	Milestones MilestoneStore
	Projects   ProofProjectStore
	Escrow     *EscrowService
	Log        *slog.Logger
}

func NewMilestoneService(pool TxBeginner, milestones MilestoneStore, projects ProofProjectStore, escrow *EscrowService, log *slog.Logger) *MilestoneService {
	if log == nil {
		log = slog.Default()
	}
	return &MilestoneService{Pool: pool, Milestones: milestones, Projects: projects, Escrow: escrow, Log: log}
}

// SubmitProof marks the milestone COMPLETED and releases its configured
// percentage from the project escrow. Resubmitting a completed milestone is an
// idempotent no-op.
func (s *MilestoneService) SubmitProof(ctx context.Context, issuerID, milestoneID uuid.UUID, proofURL string) (*ProofResult, error) {
	proofURL = strings.TrimSpace(proofURL)
	if proofURL == "" {
		return nil, ErrProofRequired
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	m, err := s.Milestones.GetByIDForUpdate(ctx, tx, milestoneID)
	if err != nil {
		return nil, notFound(err)
	}
	p, err := s.Projects.GetByIDForUpdate(ctx, tx, m.ProjectID)
	if err != nil {
		return nil, notFound(err)
	}
	if p.IssuerID != issuerID {
		return nil, ErrForbidden
	}

	if m.Status == models.MilestoneStatusCompleted {
		// Terminal; nothing to mutate.
		return &ProofResult{AlreadyCompleted: true, ProofURL: m.ProofURL}, nil
	}

	if err := s.Milestones.CompleteTx(ctx, tx, m.ID, proofURL); err != nil {
		return nil, err
	}
	released, err := s.Escrow.ReleaseTx(ctx, tx, p.ID, m.EscrowReleasePercent)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.AddEscrowReleased(released)
	s.Log.Info("milestone completed", "milestone_id", m.ID, "project_id", p.ID, "released", released)
	return &ProofResult{ReleasedAmount: released, ProofURL: proofURL}, nil
}
