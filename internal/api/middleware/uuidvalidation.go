// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nepse-tools/tracker-backend/internal/api/response"
	"github.com/nepse-tools/tracker-backend/internal/validation"
)

// ValidatePortfolioID validates that the portfolioId URL parameter is present
// and is a valid UUID. Returns 400 Bad Request otherwise.
//
// Example usage in router:
//
//	r.Route("/{portfolioId}", func(r chi.Router) {
//	    r.Use(middleware.ValidatePortfolioID)
//	    r.Put("/", handler.Rename)
//	})
func ValidatePortfolioID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "portfolioId")

		if id == "" {
			response.RespondError(w, http.StatusBadRequest, "portfolio ID is required", "")
			return
		}

		if err := validation.ValidateUUID(id); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid portfolio ID", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
