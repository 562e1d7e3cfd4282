package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/infrabondx/backend/internal/middleware"
	"github.com/infrabondx/backend/internal/models"
	"github.com/infrabondx/backend/internal/services"
)

// Marketplace is the trade surface the handler needs.
type Marketplace interface {
	CreateListing(ctx context.Context, sellerID, projectID uuid.UUID, tokenCount, pricePerToken int64) (*models.MarketplaceListing, error)
	ListActive(ctx context.Context) ([]*models.ListingView, error)
	Buy(ctx context.Context, buyerID, listingID uuid.UUID) (*services.BuyResult, error)
}

// MarketplaceHandler serves the peer-to-peer token marketplace.
type MarketplaceHandler struct {
	Market Marketplace
	Log    *slog.Logger
}

func NewMarketplaceHandler(market Marketplace, log *slog.Logger) *MarketplaceHandler {
	if log == nil {
		log = slog.Default()
	}
	return &MarketplaceHandler{Market: market, Log: log}
}

type createListingRequest struct {
	ProjectID     string `json:"project_id"`
	TokenCount    int64  `json:"token_count"`
	PricePerToken int64  `json:"price_per_token"`
}

// CreateListing handles POST /api/marketplace/list.
func (h *MarketplaceHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	ident := middleware.UserFromCtx(r.Context())
	if ident == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project_id")
		return
	}

	l, err := h.Market.CreateListing(r.Context(), ident.ID, projectID, req.TokenCount, req.PricePerToken)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.Log.Error("create listing", "user_id", ident.ID, "error", err)
			writeError(w, status, "failed to create listing")
			return
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// Listings handles GET /api/marketplace/listings — ACTIVE listings on ACTIVE
// projects, joined with project title and seller name.
func (h *MarketplaceHandler) Listings(w http.ResponseWriter, r *http.Request) {
	list, err := h.Market.ListActive(r.Context())
	if err != nil {
		h.Log.Error("list listings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load listings")
		return
	}
	if list == nil {
		list = []*models.ListingView{}
	}
	writeJSON(w, http.StatusOK, list)
}

type buyRequest struct {
	ListingID string `json:"listing_id"`
}

type buyResponse struct {
	Message string `json:"message"`
	TxHash  string `json:"tx_hash"`
}

// Buy handles POST /api/marketplace/buy.
func (h *MarketplaceHandler) Buy(w http.ResponseWriter, r *http.Request) {
	ident := middleware.UserFromCtx(r.Context())
	if ident == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req buyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listing_id")
		return
	}

	result, err := h.Market.Buy(r.Context(), ident.ID, listingID)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.Log.Error("buy listing", "listing_id", listingID, "buyer_id", ident.ID, "error", err)
			writeError(w, status, "purchase failed")
			return
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, buyResponse{Message: "Purchase successful", TxHash: result.TxHash})
}
