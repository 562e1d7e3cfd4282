package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/infrabondx/backend/internal/models"
)

// CatalogProjectStore is the project access the catalog needs.
type CatalogProjectStore interface {
	Create(ctx context.Context, p *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Project, error)
	ListByIssuer(ctx context.Context, issuerID uuid.UUID) ([]*models.Project, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// CatalogMilestoneStore seeds and reads milestone plans.
type CatalogMilestoneStore interface {
	Create(ctx context.Context, m *models.Milestone) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Milestone, error)
}

// EscrowCreator creates the zero-balance escrow row alongside a project.
type EscrowCreator interface {
	Create(ctx context.Context, e *models.Escrow) error
}

// CreateProjectInput is the issuer-supplied project definition.
type CreateProjectInput struct {
	Title         string
	Category      string
	Location      string
	Description   string
	FundingTarget int64
	TokenPrice    int64
	ROIPercent    float64
	TenureMonths  int
	Milestones    []models.MilestoneInput
}

// CatalogService owns the project lifecycle: issuer creation, public reads,
// and the admin status override.
type CatalogService struct {
	Projects   CatalogProjectStore
	Milestones CatalogMilestoneStore
	Escrows    EscrowCreator
	Log        *slog.Logger
}

func NewCatalogService(projects CatalogProjectStore, milestones CatalogMilestoneStore, escrows EscrowCreator, log *slog.Logger) *CatalogService {
	if log == nil {
		log = slog.Default()
	}
	return &CatalogService{Projects: projects, Milestones: milestones, Escrows: escrows, Log: log}
}

// ListActive returns the public marketplace feed.
func (s *CatalogService) ListActive(ctx context.Context) ([]*models.Project, error) {
	return s.Projects.ListByStatus(ctx, models.ProjectStatusActive)
}

// Get returns a project for the public detail view. FROZEN projects are
// withheld with ErrProjectFrozen (surfaced as a 403).
func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	p, err := s.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if p.Status == models.ProjectStatusFrozen {
		return nil, ErrProjectFrozen
	}
	return p, nil
}

// ProjectMilestones returns the project's milestone plan in creation order.
func (s *CatalogService) ProjectMilestones(ctx context.Context, projectID uuid.UUID) ([]*models.Milestone, error) {
	return s.Milestones.ListByProject(ctx, projectID)
}

// RiskScore is a step function of the promised ROI: unusually high returns
// score as high risk.
func RiskScore(roiPercent float64) int {
	switch {
	case roiPercent >= 13:
		return 70
	case roiPercent <= 10:
		return 35
	default:
		return 45
	}
}

// RiskLevel maps a risk score onto the display band.
func RiskLevel(score int) string {
	switch {
	case score >= 70:
		return "HIGH"
	case score <= 35:
		return "LOW"
	default:
		return "MEDIUM"
	}
}

// Create validates and persists a new project, always starting at PENDING,
// together with its milestone plan and a zero-balance escrow row.
func (s *CatalogService) Create(ctx context.Context, issuerID uuid.UUID, in CreateProjectInput) (*models.Project, error) {
	title := strings.TrimSpace(in.Title)
	location := strings.TrimSpace(in.Location)
	description := strings.TrimSpace(in.Description)
	if title == "" || location == "" || description == "" {
		return nil, fmt.Errorf("%w: missing fields", ErrValidation)
	}
	if in.FundingTarget <= 0 || in.TokenPrice <= 0 {
		return nil, fmt.Errorf("%w: invalid funding_target/token_price", ErrValidation)
	}

	score := RiskScore(in.ROIPercent)
	p := &models.Project{
		ID:            uuid.New(),
		IssuerID:      issuerID,
		Title:         title,
		Category:      in.Category,
		Location:      location,
		Description:   description,
		FundingTarget: in.FundingTarget,
		FundingRaised: 0,
		TokenPrice:    in.TokenPrice,
		ROIPercent:    in.ROIPercent,
		TenureMonths:  in.TenureMonths,
		RiskLevel:     RiskLevel(score),
		RiskScore:     score,
		Status:        models.ProjectStatusPending,
	}
	if err := s.Projects.Create(ctx, p); err != nil {
		return nil, err
	}

	if err := s.Escrows.Create(ctx, &models.Escrow{ID: uuid.New(), ProjectID: p.ID}); err != nil {
		return nil, err
	}

	plan := validMilestones(in.Milestones)
	if len(plan) == 0 {
		plan = models.DefaultMilestonePlan()
	}
	for _, m := range plan {
		milestone := &models.Milestone{
			ID:                   uuid.New(),
			ProjectID:            p.ID,
			Title:                m.Title,
			EscrowReleasePercent: m.EscrowReleasePercent,
			Status:               models.MilestoneStatusPending,
		}
		if err := s.Milestones.Create(ctx, milestone); err != nil {
			return nil, err
		}
	}

	s.Log.Info("project created", "project_id", p.ID, "issuer_id", issuerID, "risk_score", score)
	return p, nil
}

// validMilestones keeps plan entries with a non-empty title and positive percent.
func validMilestones(in []models.MilestoneInput) []models.MilestoneInput {
	var out []models.MilestoneInput
	for _, m := range in {
		title := strings.TrimSpace(m.Title)
		if title == "" || m.EscrowReleasePercent <= 0 {
			continue
		}
		out = append(out, models.MilestoneInput{Title: title, EscrowReleasePercent: m.EscrowReleasePercent})
	}
	return out
}

// ListByIssuer returns the issuer's own projects, all statuses.
func (s *CatalogService) ListByIssuer(ctx context.Context, issuerID uuid.UUID) ([]*models.Project, error) {
	return s.Projects.ListByIssuer(ctx, issuerID)
}

// SetStatus is the admin override. The status set is flat: any recognized
// status can be assigned regardless of the current one.
func (s *CatalogService) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !models.ValidProjectStatus(status) {
		return fmt.Errorf("%w: invalid status", ErrValidation)
	}
	if err := s.Projects.UpdateStatus(ctx, id, status); err != nil {
		return notFound(err)
	}
	s.Log.Info("project status updated", "project_id", id, "status", status)
	return nil
}

// AdminList returns projects for the admin console, optionally filtered by status.
func (s *CatalogService) AdminList(ctx context.Context, statusFilter string) ([]*models.Project, error) {
	statusFilter = strings.ToUpper(strings.TrimSpace(statusFilter))
	if statusFilter == "" {
		return s.Projects.List(ctx)
	}
	return s.Projects.ListByStatus(ctx, statusFilter)
}

// AdminDetails returns the full project record with its milestone plan.
func (s *CatalogService) AdminDetails(ctx context.Context, id uuid.UUID) (*models.Project, []*models.Milestone, error) {
	p, err := s.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFound(err)
	}
	ms, err := s.Milestones.ListByProject(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return p, ms, nil
}
