// Package seed provisions demo users and projects on first boot.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/infrabondx/backend/internal/auth"
	"github.com/infrabondx/backend/internal/models"
	"github.com/infrabondx/backend/internal/repository"
)

type demoProject struct {
	Title         string
	Category      string
	Location      string
	Description   string
	FundingTarget int64
	FundingRaised int64
	ROIPercent    float64
	TenureMonths  int
	RiskLevel     string
	RiskScore     int
	Status        string
}

var demoProjects = []demoProject{
	{
		Title:         "Raipur Smart Road Phase-2",
		Category:      "Road",
		Location:      "Raipur, Chhattisgarh",
		Description:   "Upgrading 12km road with smart streetlights, drainage and safety upgrades.",
		FundingTarget: 5000000, FundingRaised: 1250000,
		ROIPercent: 11.5, TenureMonths: 24, RiskLevel: "MEDIUM", RiskScore: 58,
		Status: models.ProjectStatusActive,
	},
	{
		Title:         "Bilaspur Bridge Strengthening Program",
		Category:      "Bridge",
		Location:      "Bilaspur, Chhattisgarh",
		Description:   "Structural strengthening of an old bridge and monitoring improvements.",
		FundingTarget: 8000000, FundingRaised: 2800000,
		ROIPercent: 12.8, TenureMonths: 36, RiskLevel: "LOW", RiskScore: 42,
		Status: models.ProjectStatusActive,
	},
	{
		Title:         "Mumbai Coastal Drainage Upgrade",
		Category:      "Drainage",
		Location:      "Mumbai, Maharashtra",
		Description:   "Stormwater drainage modernization for monsoon resilience.",
		FundingTarget: 15000000, FundingRaised: 7200000,
		ROIPercent: 12.2, TenureMonths: 30, RiskLevel: "MEDIUM", RiskScore: 55,
		Status: models.ProjectStatusActive,
	},
	{
		Title:         "Bengaluru Smart Streetlight Network",
		Category:      "Energy",
		Location:      "Bengaluru, Karnataka",
		Description:   "LED smart streetlights with remote monitoring and energy analytics.",
		FundingTarget: 9000000, FundingRaised: 4100000,
		ROIPercent: 11.2, TenureMonths: 24, RiskLevel: "LOW", RiskScore: 40,
		Status: models.ProjectStatusActive,
	},
	{
		Title:         "Ahmedabad EV Charging Corridors",
		Category:      "Transport",
		Location:      "Ahmedabad, Gujarat",
		Description:   "Deployment of EV charging points across city corridors and highways.",
		FundingTarget: 12000000, FundingRaised: 5900000,
		ROIPercent: 13.2, TenureMonths: 36, RiskLevel: "MEDIUM", RiskScore: 60,
		Status: models.ProjectStatusActive,
	},
	{
		Title:         "Hyderabad Water Pipeline Rehabilitation",
		Category:      "Water",
		Location:      "Hyderabad, Telangana",
		Description:   "Pipeline leak reduction + sensor monitoring for urban water supply.",
		FundingTarget: 11000000, FundingRaised: 3500000,
		ROIPercent: 11.0, TenureMonths: 30, RiskLevel: "LOW", RiskScore: 44,
		Status: models.ProjectStatusActive,
	},
	{
		Title:         "Jaipur Heritage Zone Road Resurfacing",
		Category:      "Road",
		Location:      "Jaipur, Rajasthan",
		Description:   "Resurfacing + pedestrian safety upgrades in heritage zones.",
		FundingTarget: 6000000, FundingRaised: 2400000,
		ROIPercent: 10.8, TenureMonths: 24, RiskLevel: "LOW", RiskScore: 38,
		Status: models.ProjectStatusActive,
	},
	{
		Title:         "Kolkata Riverfront Safety Barriers",
		Category:      "Safety",
		Location:      "Kolkata, West Bengal",
		Description:   "Safety barrier installations and lighting along riverfront stretches.",
		FundingTarget: 7000000, FundingRaised: 3200000,
		ROIPercent: 12.0, TenureMonths: 24, RiskLevel: "MEDIUM", RiskScore: 50,
		Status: models.ProjectStatusActive,
	},
	{
		Title:         "Lucknow Smart Traffic Signal System",
		Category:      "Smart City",
		Location:      "Lucknow, Uttar Pradesh",
		Description:   "Adaptive traffic signals with AI-based congestion control.",
		FundingTarget: 9500000,
		ROIPercent:    12.5, TenureMonths: 30, RiskLevel: "MEDIUM", RiskScore: 52,
		Status: models.ProjectStatusPending,
	},
	{
		// ROI above the fraud threshold so the admin demo has a live alert.
		Title:         "Chennai Flood-Resilient Underpass Upgrade",
		Category:      "Drainage",
		Location:      "Chennai, Tamil Nadu",
		Description:   "Underpass drainage strengthening and water pump automation.",
		FundingTarget: 13000000,
		ROIPercent:    14.2, TenureMonths: 36, RiskLevel: "HIGH", RiskScore: 70,
		Status: models.ProjectStatusPending,
	},
	{
		Title:         "Indore Smart Waste Processing Plant",
		Category:      "Waste Management",
		Location:      "Indore, Madhya Pradesh",
		Description:   "Waste-to-energy processing and automated segregation facilities.",
		FundingTarget: 14000000,
		ROIPercent:    12.9, TenureMonths: 36, RiskLevel: "MEDIUM", RiskScore: 57,
		Status: models.ProjectStatusPending,
	},
	{
		Title:         "Bhopal Lake Water Quality Sensors",
		Category:      "Water",
		Location:      "Bhopal, Madhya Pradesh",
		Description:   "Real-time lake water quality sensors + dashboard monitoring.",
		FundingTarget: 4000000,
		ROIPercent:    10.5, TenureMonths: 18, RiskLevel: "LOW", RiskScore: 33,
		Status: models.ProjectStatusPending,
	},
}

// Run provisions the demo dataset: three users (one per role) and a spread of
// ACTIVE and PENDING projects with milestone plans and escrow balances. It is a
// no-op once any user exists.
func Run(ctx context.Context, users *repository.UserRepo, projects *repository.ProjectRepo, milestones *repository.MilestoneRepo, escrows *repository.EscrowRepo, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	n, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}

	issuer, err := createUser(ctx, users, "Raipur Smart Infra Dept", "issuer@infrabondx.com", "issuer123", models.RoleIssuer)
	if err != nil {
		return err
	}
	if _, err := createUser(ctx, users, "Admin", "admin@infrabondx.com", "admin123", models.RoleAdmin); err != nil {
		return err
	}
	if _, err := createUser(ctx, users, "Mandeep Kumar", "investor@infrabondx.com", "investor123", models.RoleInvestor); err != nil {
		return err
	}

	for _, d := range demoProjects {
		p := &models.Project{
			ID:            uuid.New(),
			IssuerID:      issuer.ID,
			Title:         d.Title,
			Category:      d.Category,
			Location:      d.Location,
			Description:   d.Description,
			FundingTarget: d.FundingTarget,
			FundingRaised: d.FundingRaised,
			TokenPrice:    100,
			ROIPercent:    d.ROIPercent,
			TenureMonths:  d.TenureMonths,
			RiskLevel:     d.RiskLevel,
			RiskScore:     d.RiskScore,
			Status:        d.Status,
		}
		if err := projects.Create(ctx, p); err != nil {
			return fmt.Errorf("seed project %q: %w", d.Title, err)
		}

		// Raised funds start locked; the first two milestones are pre-completed
		// so the demo shows a partially executed plan.
		if err := escrows.Create(ctx, &models.Escrow{ID: uuid.New(), ProjectID: p.ID, TotalLocked: d.FundingRaised}); err != nil {
			return fmt.Errorf("seed escrow %q: %w", d.Title, err)
		}
		for i, m := range models.DefaultMilestonePlan() {
			status := models.MilestoneStatusPending
			if i < 2 {
				status = models.MilestoneStatusCompleted
			}
			milestone := &models.Milestone{
				ID:                   uuid.New(),
				ProjectID:            p.ID,
				Title:                m.Title,
				EscrowReleasePercent: m.EscrowReleasePercent,
				Status:               status,
			}
			if err := milestones.Create(ctx, milestone); err != nil {
				return fmt.Errorf("seed milestone %q: %w", m.Title, err)
			}
		}
	}

	log.Info("seeded demo data", "users", 3, "projects", len(demoProjects))
	return nil
}

func createUser(ctx context.Context, users *repository.UserRepo, name, email, password, role string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password for %s: %w", email, err)
	}
	u := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("seed user %s: %w", email, err)
	}
	return u, nil
}
