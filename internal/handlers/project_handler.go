package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/infrabondx/backend/internal/models"
)

// Catalog is the project catalog surface the public handler needs.
type Catalog interface {
	ListActive(ctx context.Context) ([]*models.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ProjectMilestones(ctx context.Context, projectID uuid.UUID) ([]*models.Milestone, error)
}

// EscrowSummary exposes per-project escrow totals for the transparency view.
type EscrowSummary interface {
	Summary(ctx context.Context, projectID uuid.UUID) (*models.Escrow, error)
}

// ProjectHandler serves the public, unauthenticated project catalog.
type ProjectHandler struct {
	Catalog Catalog
	Escrow  EscrowSummary
	Log     *slog.Logger
}

func NewProjectHandler(catalog Catalog, escrow EscrowSummary, log *slog.Logger) *ProjectHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ProjectHandler{Catalog: catalog, Escrow: escrow, Log: log}
}

// List handles GET /api/projects — ACTIVE projects only.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Catalog.ListActive(r.Context())
	if err != nil {
		h.Log.Error("list projects", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load projects")
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

// Get handles GET /api/projects/{id}. FROZEN projects read as forbidden here;
// the admin console uses its own route.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	p, err := h.Catalog.Get(r.Context(), id)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.Log.Error("get project", "project_id", id, "error", err)
			writeError(w, status, "failed to load project")
			return
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Milestones handles GET /api/projects/{id}/milestones.
func (h *ProjectHandler) Milestones(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	ms, err := h.Catalog.ProjectMilestones(r.Context(), id)
	if err != nil {
		h.Log.Error("list milestones", "project_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load milestones")
		return
	}
	if ms == nil {
		ms = []*models.Milestone{}
	}
	writeJSON(w, http.StatusOK, ms)
}

type transparencyResponse struct {
	ProjectID     uuid.UUID `json:"project_id"`
	TotalLocked   int64     `json:"total_locked"`
	TotalReleased int64     `json:"total_released"`
}

// Transparency handles GET /api/projects/{id}/transparency — the public escrow
// summary. Projects with no escrow activity read as zeroes.
func (h *ProjectHandler) Transparency(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	e, err := h.Escrow.Summary(r.Context(), id)
	if err != nil {
		h.Log.Error("escrow summary", "project_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load escrow summary")
		return
	}
	writeJSON(w, http.StatusOK, transparencyResponse{
		ProjectID:     id,
		TotalLocked:   e.TotalLocked,
		TotalReleased: e.TotalReleased,
	})
}
