package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/infrabondx/backend/internal/models"
)

func alertTypes(alerts []models.FraudAlert, projectID uuid.UUID) []string {
	var out []string
	for _, a := range alerts {
		if a.ProjectID == projectID {
			out = append(out, a.Type)
		}
	}
	return out
}

func TestFraudScanHighROI(t *testing.T) {
	flagged := &models.Project{ID: uuid.New(), Title: "Chennai Flood-Resilient Underpass Upgrade", ROIPercent: 14.2, FundingTarget: 1000}
	boundary := &models.Project{ID: uuid.New(), Title: "b", ROIPercent: 14.0, FundingTarget: 1000}
	clean := &models.Project{ID: uuid.New(), Title: "c", ROIPercent: 13.9, FundingTarget: 1000}
	svc := NewFraudService(newMockProjects(flagged, boundary, clean))

	alerts, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if got := alertTypes(alerts, flagged.ID); len(got) != 1 || got[0] != models.AlertHighROI {
		t.Fatalf("flagged project alerts = %v", got)
	}
	// The threshold is inclusive.
	if got := alertTypes(alerts, boundary.ID); len(got) != 1 || got[0] != models.AlertHighROI {
		t.Fatalf("boundary project alerts = %v", got)
	}
	if got := alertTypes(alerts, clean.ID); len(got) != 0 {
		t.Fatalf("clean project alerts = %v", got)
	}
}

func TestFraudScanFundingSpike(t *testing.T) {
	spiking := &models.Project{ID: uuid.New(), Title: "s", ROIPercent: 10, FundingTarget: 1000, FundingRaised: 960}
	atRatio := &models.Project{ID: uuid.New(), Title: "r", ROIPercent: 10, FundingTarget: 1000, FundingRaised: 950}
	zeroTarget := &models.Project{ID: uuid.New(), Title: "z", ROIPercent: 10, FundingTarget: 0, FundingRaised: 100}
	svc := NewFraudService(newMockProjects(spiking, atRatio, zeroTarget))

	alerts, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if got := alertTypes(alerts, spiking.ID); len(got) != 1 || got[0] != models.AlertFundingSpike {
		t.Fatalf("spiking project alerts = %v", got)
	}
	// Exactly 0.95 is not over the threshold.
	if got := alertTypes(alerts, atRatio.ID); len(got) != 0 {
		t.Fatalf("at-ratio project alerts = %v", got)
	}
	// Zero target never divides.
	if got := alertTypes(alerts, zeroTarget.ID); len(got) != 0 {
		t.Fatalf("zero-target project alerts = %v", got)
	}
}

func TestFraudScanBothSignals(t *testing.T) {
	p := &models.Project{ID: uuid.New(), Title: "both", ROIPercent: 15, FundingTarget: 100, FundingRaised: 99}
	svc := NewFraudService(newMockProjects(p))

	alerts, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("alerts = %d, want 2", len(alerts))
	}
}

func TestFraudScanEmptyIsNotNil(t *testing.T) {
	svc := NewFraudService(newMockProjects())

	alerts, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if alerts == nil {
		t.Fatal("alerts should serialize as [], not null")
	}
	if len(alerts) != 0 {
		t.Fatalf("alerts = %d, want 0", len(alerts))
	}
}
