package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/infrabondx/backend/internal/models"
)

func newMilestoneFixture(issuerID uuid.UUID, locked int64, percent int) (*MilestoneService, *models.Milestone, *mockEscrows, *mockMilestones) {
	project := &models.Project{
		ID:       uuid.New(),
		IssuerID: issuerID,
		Title:    "Bilaspur Bridge Strengthening Program",
		Status:   models.ProjectStatusActive,
	}
	milestone := &models.Milestone{
		ID:                   uuid.New(),
		ProjectID:            project.ID,
		Title:                "Construction Started",
		EscrowReleasePercent: percent,
		Status:               models.MilestoneStatusPending,
	}
	escrows := newMockEscrows(&models.Escrow{ID: uuid.New(), ProjectID: project.ID, TotalLocked: locked})
	milestones := newMockMilestones(milestone)
	svc := NewMilestoneService(mockPool{}, milestones, newMockProjects(project), NewEscrowService(escrows), nil)
	return svc, milestone, escrows, milestones
}

func TestSubmitProofCompletesAndReleases(t *testing.T) {
	issuer := uuid.New()
	svc, milestone, escrows, milestones := newMilestoneFixture(issuer, 1000, 20)

	result, err := svc.SubmitProof(context.Background(), issuer, milestone.ID, "/uploads/proof.pdf")
	if err != nil {
		t.Fatalf("SubmitProof: %v", err)
	}
	if result.AlreadyCompleted {
		t.Fatal("first submission reported as already completed")
	}
	if result.ReleasedAmount != 200 {
		t.Fatalf("released = %d, want 200", result.ReleasedAmount)
	}
	if milestones.status(milestone.ID) != models.MilestoneStatusCompleted {
		t.Fatal("milestone not marked COMPLETED")
	}
	locked, released := escrows.totals(milestone.ProjectID)
	if locked != 800 || released != 200 {
		t.Fatalf("escrow = %d/%d, want 800/200", locked, released)
	}
}

func TestSubmitProofIdempotentOnCompleted(t *testing.T) {
	issuer := uuid.New()
	svc, milestone, escrows, _ := newMilestoneFixture(issuer, 1000, 20)
	ctx := context.Background()

	if _, err := svc.SubmitProof(ctx, issuer, milestone.ID, "/uploads/proof.pdf"); err != nil {
		t.Fatalf("first SubmitProof: %v", err)
	}

	result, err := svc.SubmitProof(ctx, issuer, milestone.ID, "/uploads/other.pdf")
	if err != nil {
		t.Fatalf("second SubmitProof: %v", err)
	}
	if !result.AlreadyCompleted {
		t.Fatal("resubmission not reported as already completed")
	}
	if result.ProofURL != "/uploads/proof.pdf" {
		t.Fatalf("proof overwritten: %q", result.ProofURL)
	}

	// No double release.
	locked, released := escrows.totals(milestone.ProjectID)
	if locked != 800 || released != 200 {
		t.Fatalf("escrow = %d/%d after resubmit, want 800/200", locked, released)
	}
}

func TestSubmitProofRequiresProof(t *testing.T) {
	issuer := uuid.New()
	svc, milestone, _, _ := newMilestoneFixture(issuer, 1000, 20)

	for _, proof := range []string{"", "   "} {
		if _, err := svc.SubmitProof(context.Background(), issuer, milestone.ID, proof); !errors.Is(err, ErrProofRequired) {
			t.Fatalf("proof %q: err = %v, want ErrProofRequired", proof, err)
		}
	}
}

func TestSubmitProofWrongIssuer(t *testing.T) {
	svc, milestone, escrows, milestones := newMilestoneFixture(uuid.New(), 1000, 20)

	_, err := svc.SubmitProof(context.Background(), uuid.New(), milestone.ID, "/uploads/proof.pdf")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if milestones.status(milestone.ID) != models.MilestoneStatusPending {
		t.Fatal("milestone mutated by forbidden submission")
	}
	if locked, _ := escrows.totals(milestone.ProjectID); locked != 1000 {
		t.Fatalf("escrow mutated by forbidden submission: locked=%d", locked)
	}
}

func TestSubmitProofUnknownMilestone(t *testing.T) {
	issuer := uuid.New()
	svc, _, _, _ := newMilestoneFixture(issuer, 1000, 20)

	if _, err := svc.SubmitProof(context.Background(), issuer, uuid.New(), "/uploads/proof.pdf"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
