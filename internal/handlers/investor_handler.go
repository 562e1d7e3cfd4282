package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/infrabondx/backend/internal/certificate"
	"github.com/infrabondx/backend/internal/execution"
	"github.com/infrabondx/backend/internal/middleware"
	"github.com/infrabondx/backend/internal/repository"
	"github.com/infrabondx/backend/internal/services"
)

// Investor is the invest flow the handler needs.
type Investor interface {
	Invest(ctx context.Context, investorID, projectID uuid.UUID, amount int64) (*services.InvestResult, error)
}

// Portfolio reads the investor's holdings joined with projects.
type Portfolio interface {
	ListPortfolio(ctx context.Context, userID uuid.UUID) ([]*repository.PortfolioItem, error)
}

// TransactionHistory reads the investor's audit trail.
type TransactionHistory interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*repository.TransactionView, error)
}

// CertificateBuilder assembles the certificate record for on-demand rendering.
type CertificateBuilder interface {
	BuildCertificate(ctx context.Context, userID, projectID uuid.UUID) (*certificate.Data, error)
}

// InvestorHandler serves the authenticated investor surface: invest, portfolio,
// transaction history, and certificate download.
type InvestorHandler struct {
	Invest       Investor
	Holdings     Portfolio
	Transactions TransactionHistory
	Certificates CertificateBuilder
	Renderer     certificate.Renderer
	CertDir      string
	Log          *slog.Logger
}

func NewInvestorHandler(invest Investor, holdings Portfolio, transactions TransactionHistory, certificates CertificateBuilder, renderer certificate.Renderer, certDir string, log *slog.Logger) *InvestorHandler {
	if log == nil {
		log = slog.Default()
	}
	return &InvestorHandler{
		Invest:       invest,
		Holdings:     holdings,
		Transactions: transactions,
		Certificates: certificates,
		Renderer:     renderer,
		CertDir:      certDir,
		Log:          log,
	}
}

type investRequest struct {
	ProjectID string `json:"project_id"`
	Amount    int64  `json:"amount"`
}

type investResponse struct {
	Message      string `json:"message"`
	TxHash       string `json:"tx_hash"`
	TokensIssued int64  `json:"tokens_issued"`
}

// DoInvest handles POST /api/investor/invest.
func (h *InvestorHandler) DoInvest(w http.ResponseWriter, r *http.Request) {
	ident := middleware.UserFromCtx(r.Context())
	if ident == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req investRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project_id")
		return
	}

	result, err := h.Invest.Invest(r.Context(), ident.ID, projectID, req.Amount)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.Log.Error("invest", "user_id", ident.ID, "project_id", projectID, "error", err)
			writeError(w, status, "investment failed")
			return
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, investResponse{
		Message:      "Investment successful",
		TxHash:       result.TxHash,
		TokensIssued: result.TokensIssued,
	})
}

// GetPortfolio handles GET /api/investor/portfolio.
func (h *InvestorHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	ident := middleware.UserFromCtx(r.Context())
	if ident == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	items, err := h.Holdings.ListPortfolio(r.Context(), ident.ID)
	if err != nil {
		h.Log.Error("portfolio", "user_id", ident.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load portfolio")
		return
	}
	if items == nil {
		items = []*repository.PortfolioItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// GetTransactions handles GET /api/investor/transactions.
func (h *InvestorHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	ident := middleware.UserFromCtx(r.Context())
	if ident == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	list, err := h.Transactions.ListByUser(r.Context(), ident.ID)
	if err != nil {
		h.Log.Error("transactions", "user_id", ident.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}
	if list == nil {
		list = []*repository.TransactionView{}
	}
	writeJSON(w, http.StatusOK, list)
}

// GetCertificate handles GET /api/investor/certificate/{projectID}. A file
// pre-rendered by the background worker is served directly; otherwise the
// certificate is rendered on demand.
func (h *InvestorHandler) GetCertificate(w http.ResponseWriter, r *http.Request) {
	ident := middleware.UserFromCtx(r.Context())
	if ident == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	projectID, ok := pathUUID(r, "projectID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	path := execution.CertificatePath(h.CertDir, ident.ID, projectID)
	if _, err := os.Stat(path); err == nil {
		w.Header().Set("Content-Disposition", `attachment; filename="investment_certificate.pdf"`)
		http.ServeFile(w, r, path)
		return
	}

	data, err := h.Certificates.BuildCertificate(r.Context(), ident.ID, projectID)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.Log.Error("build certificate", "user_id", ident.ID, "project_id", projectID, "error", err)
			writeError(w, status, "failed to build certificate")
			return
		}
		writeError(w, status, "no investment found for this project")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="investment_certificate.pdf"`)
	if err := h.Renderer.Render(*data, w); err != nil {
		h.Log.Error("render certificate", "user_id", ident.ID, "project_id", projectID, "error", err)
	}
}
