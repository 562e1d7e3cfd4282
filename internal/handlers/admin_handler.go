package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/infrabondx/backend/internal/models"
)

// AdminCatalog is the catalog surface the admin console needs.
type AdminCatalog interface {
	AdminList(ctx context.Context, statusFilter string) ([]*models.Project, error)
	AdminDetails(ctx context.Context, id uuid.UUID) (*models.Project, []*models.Milestone, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
}

// FraudScanner computes fraud signals on demand.
type FraudScanner interface {
	Scan(ctx context.Context) ([]models.FraudAlert, error)
}

// AdminEscrow reads escrow totals for the admin project detail.
type AdminEscrow interface {
	Summary(ctx context.Context, projectID uuid.UUID) (*models.Escrow, error)
}

// AdminHandler serves the admin console: project oversight, status overrides,
// and fraud signals.
type AdminHandler struct {
	Catalog AdminCatalog
	Fraud   FraudScanner
	Escrow  AdminEscrow
	Log     *slog.Logger
}

func NewAdminHandler(catalog AdminCatalog, fraud FraudScanner, escrow AdminEscrow, log *slog.Logger) *AdminHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AdminHandler{Catalog: catalog, Fraud: fraud, Escrow: escrow, Log: log}
}

// ListProjects handles GET /api/admin/projects, optionally filtered with
// ?status=PENDING|ACTIVE|FROZEN.
func (h *AdminHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Catalog.AdminList(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.Log.Error("admin list projects", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load projects")
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

type adminProjectDetails struct {
	Project    *models.Project     `json:"project"`
	Milestones []*models.Milestone `json:"milestones"`
	Escrow     *models.Escrow      `json:"escrow"`
}

// ProjectDetails handles GET /api/admin/projects/{id}/details — the full record
// regardless of status, with milestone plan and escrow totals.
func (h *AdminHandler) ProjectDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	p, ms, err := h.Catalog.AdminDetails(r.Context(), id)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.Log.Error("admin project details", "project_id", id, "error", err)
			writeError(w, status, "failed to load project")
			return
		}
		writeError(w, status, err.Error())
		return
	}
	e, err := h.Escrow.Summary(r.Context(), id)
	if err != nil {
		h.Log.Error("admin escrow summary", "project_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load escrow")
		return
	}
	if ms == nil {
		ms = []*models.Milestone{}
	}
	writeJSON(w, http.StatusOK, adminProjectDetails{Project: p, Milestones: ms, Escrow: e})
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus handles POST /api/admin/projects/{id}/status. Any recognized status
// can be assigned from any other.
func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.Catalog.SetStatus(r.Context(), id, req.Status); err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.Log.Error("admin set status", "project_id", id, "error", err)
			writeError(w, status, "failed to update status")
			return
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project status updated"})
}

// FraudAlerts handles GET /api/admin/fraud-alerts. Every call recomputes the
// signals; nothing is stored.
func (h *AdminHandler) FraudAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.Fraud.Scan(r.Context())
	if err != nil {
		h.Log.Error("fraud scan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to scan for fraud signals")
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}
