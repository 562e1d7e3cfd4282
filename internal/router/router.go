package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/infrabondx/backend/internal/auth"
	"github.com/infrabondx/backend/internal/handlers"
	"github.com/infrabondx/backend/internal/middleware"
	"github.com/infrabondx/backend/internal/models"
)

// Handlers bundles everything the route table serves.
type Handlers struct {
	Auth        *auth.Handler
	Projects    *handlers.ProjectHandler
	Investor    *handlers.InvestorHandler
	Issuer      *handlers.IssuerHandler
	Marketplace *handlers.MarketplaceHandler
	Admin       *handlers.AdminHandler
	Upload      *handlers.UploadHandler
}

// New returns the API route table. Role enforcement is done per route group:
// investor endpoints require the INVESTOR role, issuer endpoints ISSUER, admin
// endpoints ADMIN; marketplace endpoints only require a valid credential.
func New(h Handlers, validator middleware.TokenValidator) http.Handler {
	mux := http.NewServeMux()

	authed := middleware.BearerAuth(validator)
	investorOnly := func(hf http.HandlerFunc) http.Handler {
		return authed(middleware.RequireRole(models.RoleInvestor)(hf))
	}
	issuerOnly := func(hf http.HandlerFunc) http.Handler {
		return authed(middleware.RequireRole(models.RoleIssuer)(hf))
	}
	adminOnly := func(hf http.HandlerFunc) http.Handler {
		return authed(middleware.RequireRole(models.RoleAdmin)(hf))
	}

	// Public.
	mux.HandleFunc("GET /api/health", health)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.Handle("GET /api/auth/me", authed(http.HandlerFunc(h.Auth.Me)))
	mux.HandleFunc("GET /api/projects", h.Projects.List)
	mux.HandleFunc("GET /api/projects/{id}", h.Projects.Get)
	mux.HandleFunc("GET /api/projects/{id}/milestones", h.Projects.Milestones)
	mux.HandleFunc("GET /api/projects/{id}/transparency", h.Projects.Transparency)
	mux.HandleFunc("GET /uploads/{name}", h.Upload.Serve)

	// Investor.
	mux.Handle("POST /api/investor/invest", investorOnly(h.Investor.DoInvest))
	mux.Handle("GET /api/investor/portfolio", investorOnly(h.Investor.GetPortfolio))
	mux.Handle("GET /api/investor/transactions", investorOnly(h.Investor.GetTransactions))
	mux.Handle("GET /api/investor/certificate/{projectID}", investorOnly(h.Investor.GetCertificate))

	// Marketplace: any authenticated user can list and trade.
	mux.Handle("POST /api/marketplace/list", authed(http.HandlerFunc(h.Marketplace.CreateListing)))
	mux.Handle("GET /api/marketplace/listings", authed(http.HandlerFunc(h.Marketplace.Listings)))
	mux.Handle("POST /api/marketplace/buy", authed(http.HandlerFunc(h.Marketplace.Buy)))

	// Issuer.
	mux.Handle("POST /api/issuer/projects", issuerOnly(h.Issuer.CreateProject))
	mux.Handle("GET /api/issuer/projects", issuerOnly(h.Issuer.ListProjects))
	mux.Handle("POST /api/issuer/milestones/{id}/submit", issuerOnly(h.Issuer.SubmitProof))
	mux.Handle("POST /api/upload", issuerOnly(h.Upload.Upload))

	// Admin.
	mux.Handle("GET /api/admin/projects", adminOnly(h.Admin.ListProjects))
	mux.Handle("GET /api/admin/projects/{id}/details", adminOnly(h.Admin.ProjectDetails))
	mux.Handle("POST /api/admin/projects/{id}/status", adminOnly(h.Admin.SetStatus))
	mux.Handle("GET /api/admin/fraud-alerts", adminOnly(h.Admin.FraudAlerts))

	// Ops.
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /{$}", root)

	return middleware.Metrics(mux)
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"service":"InfraBondX API","status":"running"}`))
}
