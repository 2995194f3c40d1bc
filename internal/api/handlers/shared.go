package handlers

import (
	"errors"
	"net/http"

	"github.com/nepse-tools/tracker-backend/internal/api/response"
	"github.com/nepse-tools/tracker-backend/internal/apperrors"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data any) {
	response.RespondJSON(w, status, data)
}

// respondAppError maps a service error to an HTTP status code and sends a
// structured error body. Validation failures map to 400, duplicates to 409,
// missing entities to 404, upstream market-data failures to 502, and
// everything else to 500.
func respondAppError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperrors.ErrInvalidName),
		errors.Is(err, apperrors.ErrInvalidSymbol),
		errors.Is(err, apperrors.ErrInvalidQuantity),
		errors.Is(err, apperrors.ErrInvalidPrice),
		errors.Is(err, apperrors.ErrInvalidTransactionType):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDuplicateEntry):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrPortfolioNotFound),
		errors.Is(err, apperrors.ErrHoldingNotFound),
		errors.Is(err, apperrors.ErrEntryNotFound),
		errors.Is(err, apperrors.ErrSymbolNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrUpstreamStatus),
		errors.Is(err, apperrors.ErrSnapshotUnavailable):
		status = http.StatusBadGateway
	}

	response.RespondError(w, status, err.Error(), nil)
}
