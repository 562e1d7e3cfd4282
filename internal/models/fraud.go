package models

import "github.com/google/uuid"

// Fraud alert type enums.
const (
	AlertHighROI      = "HIGH_ROI_ALERT"
	AlertFundingSpike = "FUNDING_SPIKE"

	AlertSeverityHigh   = "HIGH"
	AlertSeverityMedium = "MEDIUM"
)

// FraudAlert is computed on demand over the project set; alerts are never
// persisted and have no lifecycle.
type FraudAlert struct {
	Type         string    `json:"type"`
	ProjectID    uuid.UUID `json:"project_id"`
	ProjectTitle string    `json:"project_title"`
	Message      string    `json:"message"`
	Severity     string    `json:"severity"`
}
