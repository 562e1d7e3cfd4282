package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/infrabondx/backend/internal/middleware"
	"github.com/infrabondx/backend/internal/models"
	"github.com/infrabondx/backend/internal/services"
)

// IssuerCatalog is the catalog surface the issuer handler needs.
type IssuerCatalog interface {
	Create(ctx context.Context, issuerID uuid.UUID, in services.CreateProjectInput) (*models.Project, error)
	ListByIssuer(ctx context.Context, issuerID uuid.UUID) ([]*models.Project, error)
}

// ProofSubmitter completes milestones and releases escrow.
type ProofSubmitter interface {
	SubmitProof(ctx context.Context, issuerID, milestoneID uuid.UUID, proofURL string) (*services.ProofResult, error)
}

// ProjectValidator checks the raw create payload against the JSON schema.
type ProjectValidator interface {
	ValidateProject(raw []byte) error
}

// IssuerHandler serves the authenticated issuer surface: project creation,
// own-project listing, and milestone proof submission.
type IssuerHandler struct {
	Catalog    IssuerCatalog
	Milestones ProofSubmitter
	Validator  ProjectValidator
	Log        *slog.Logger
}

func NewIssuerHandler(catalog IssuerCatalog, milestones ProofSubmitter, validator ProjectValidator, log *slog.Logger) *IssuerHandler {
	if log == nil {
		log = slog.Default()
	}
	return &IssuerHandler{Catalog: catalog, Milestones: milestones, Validator: validator, Log: log}
}

type createProjectRequest struct {
	Title         string                  `json:"title"`
	Category      string                  `json:"category"`
	Location      string                  `json:"location"`
	Description   string                  `json:"description"`
	FundingTarget int64                   `json:"funding_target"`
	TokenPrice    int64                   `json:"token_price"`
	ROIPercent    float64                 `json:"roi_percent"`
	TenureMonths  int                     `json:"tenure_months"`
	Milestones    []models.MilestoneInput `json:"milestones"`
}

// CreateProject handles POST /api/issuer/projects. The payload is validated
// against the project schema, then decoded over issuer-friendly defaults for
// the optional economic fields.
func (h *IssuerHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	ident := middleware.UserFromCtx(r.Context())
	if ident == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if err := h.Validator.ValidateProject(raw); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	req := createProjectRequest{
		Category:     "Road",
		TokenPrice:   100,
		ROIPercent:   10,
		TenureMonths: 60,
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	p, err := h.Catalog.Create(r.Context(), ident.ID, services.CreateProjectInput{
		Title:         req.Title,
		Category:      req.Category,
		Location:      req.Location,
		Description:   req.Description,
		FundingTarget: req.FundingTarget,
		TokenPrice:    req.TokenPrice,
		ROIPercent:    req.ROIPercent,
		TenureMonths:  req.TenureMonths,
		Milestones:    req.Milestones,
	})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.Log.Error("create project", "issuer_id", ident.ID, "error", err)
			writeError(w, status, "failed to create project")
			return
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ListProjects handles GET /api/issuer/projects — the issuer's own projects,
// all statuses.
func (h *IssuerHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	ident := middleware.UserFromCtx(r.Context())
	if ident == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	projects, err := h.Catalog.ListByIssuer(r.Context(), ident.ID)
	if err != nil {
		h.Log.Error("list issuer projects", "issuer_id", ident.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load projects")
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

type submitProofRequest struct {
	ProofURL string `json:"proof_url"`
}

type submitProofResponse struct {
	Message        string `json:"message"`
	ReleasedAmount int64  `json:"released_amount"`
	ProofURL       string `json:"proof_url,omitempty"`
}

// SubmitProof handles POST /api/issuer/milestones/{id}/submit. Resubmitting a
// completed milestone reports success without releasing anything again.
func (h *IssuerHandler) SubmitProof(w http.ResponseWriter, r *http.Request) {
	ident := middleware.UserFromCtx(r.Context())
	if ident == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	milestoneID, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid milestone id")
		return
	}

	var req submitProofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result, err := h.Milestones.SubmitProof(r.Context(), ident.ID, milestoneID, req.ProofURL)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.Log.Error("submit proof", "milestone_id", milestoneID, "error", err)
			writeError(w, status, "failed to submit proof")
			return
		}
		writeError(w, status, err.Error())
		return
	}

	if result.AlreadyCompleted {
		writeJSON(w, http.StatusOK, submitProofResponse{
			Message:  "Milestone already completed",
			ProofURL: result.ProofURL,
		})
		return
	}
	writeJSON(w, http.StatusOK, submitProofResponse{
		Message:        "Milestone completed, escrow released",
		ReleasedAmount: result.ReleasedAmount,
		ProofURL:       result.ProofURL,
	})
}
