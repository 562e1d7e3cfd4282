package models

import (
	"time"

	"github.com/google/uuid"
)

// Milestone status enums. PENDING -> COMPLETED is one-way and terminal.
const (
	MilestoneStatusPending   = "PENDING"
	MilestoneStatusCompleted = "COMPLETED"
)

type Milestone struct {
	ID                   uuid.UUID `json:"id"`
	ProjectID            uuid.UUID `json:"project_id"`
	Title                string    `json:"title"`
	EscrowReleasePercent int       `json:"escrow_release_percent"`
	Status               string    `json:"status"`
	ProofURL             string    `json:"proof_url"`
	CreatedAt            time.Time `json:"created_at"`
}

// MilestoneInput is an issuer-supplied milestone plan entry.
type MilestoneInput struct {
	Title                string `json:"title"`
	EscrowReleasePercent int    `json:"escrow_release_percent"`
}

// DefaultMilestonePlan is seeded when the issuer supplies no plan of their own:
// five checkpoints releasing 20% of escrow each.
func DefaultMilestonePlan() []MilestoneInput {
	return []MilestoneInput{
		{Title: "Tender Approved", EscrowReleasePercent: 20},
		{Title: "Construction Started", EscrowReleasePercent: 20},
		{Title: "25% Completion Proof", EscrowReleasePercent: 20},
		{Title: "50% Completion Proof", EscrowReleasePercent: 20},
		{Title: "Audit & Completion Report", EscrowReleasePercent: 20},
	}
}
