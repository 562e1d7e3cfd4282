package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/infrabondx/backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps ledger sentinel errors onto HTTP statuses: validation 400,
// ownership 403, missing entities 404, state conflicts 409. Unknown errors map
// to 500 and should be logged by the caller.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrAmountTooLow),
		errors.Is(err, services.ErrProofRequired):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrProjectFrozen):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrProjectNotActive),
		errors.Is(err, services.ErrListingNotActive),
		errors.Is(err, services.ErrInsufficientTokens),
		errors.Is(err, services.ErrSelfTrade):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// pathUUID parses the named wildcard from the matched route pattern.
func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
