package services

import (
	"context"

	"github.com/infrabondx/backend/internal/models"
)

// Fraud signal thresholds.
const (
	highROIThreshold  = 14.0
	fundingSpikeRatio = 0.95
)

// FraudProjectLister is the project access the fraud scan needs.
type FraudProjectLister interface {
	List(ctx context.Context) ([]*models.Project, error)
}

// FraudService computes risk signals over the whole project set on demand.
// Nothing is persisted and there is no alert lifecycle; every call recomputes
// from scratch.
type FraudService struct {
	Projects FraudProjectLister
}

func NewFraudService(projects FraudProjectLister) *FraudService {
	return &FraudService{Projects: projects}
}

// Scan emits a HIGH_ROI_ALERT per project promising roi >= 14% and a
// FUNDING_SPIKE per project whose raised/target ratio exceeds 0.95.
func (s *FraudService) Scan(ctx context.Context) ([]models.FraudAlert, error) {
	projects, err := s.Projects.List(ctx)
	if err != nil {
		return nil, err
	}

	alerts := []models.FraudAlert{}
	for _, p := range projects {
		if p.ROIPercent >= highROIThreshold {
			alerts = append(alerts, models.FraudAlert{
				Type:         models.AlertHighROI,
				ProjectID:    p.ID,
				ProjectTitle: p.Title,
				Message:      "Unusually high ROI detected (possible risk)",
				Severity:     models.AlertSeverityHigh,
			})
		}
		if p.FundingTarget > 0 && float64(p.FundingRaised)/float64(p.FundingTarget) > fundingSpikeRatio {
			alerts = append(alerts, models.FraudAlert{
				Type:         models.AlertFundingSpike,
				ProjectID:    p.ID,
				ProjectTitle: p.Title,
				Message:      "Project nearing full funding rapidly",
				Severity:     models.AlertSeverityMedium,
			})
		}
	}
	return alerts, nil
}
