package models

import (
	"time"

	"github.com/google/uuid"
)

// Project status enums. The status set is flat: any status can be set from any
// other by an admin, there is no enforced transition graph.
const (
	ProjectStatusPending = "PENDING"
	ProjectStatusActive  = "ACTIVE"
	ProjectStatusFrozen  = "FROZEN"
)

type Project struct {
	ID            uuid.UUID `json:"id"`
	IssuerID      uuid.UUID `json:"issuer_id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	Location      string    `json:"location"`
	Description   string    `json:"description"`
	FundingTarget int64     `json:"funding_target"`
	FundingRaised int64     `json:"funding_raised"`
	TokenPrice    int64     `json:"token_price"`
	ROIPercent    float64   `json:"roi_percent"`
	TenureMonths  int       `json:"tenure_months"`
	RiskLevel     string    `json:"risk_level"`
	RiskScore     int       `json:"risk_score"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// ValidProjectStatus reports whether s is a recognized project status.
func ValidProjectStatus(s string) bool {
	return s == ProjectStatusPending || s == ProjectStatusActive || s == ProjectStatusFrozen
}
