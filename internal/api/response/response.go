// Package response writes the API's JSON bodies. Every endpoint, success
// or failure, goes through these helpers so clients see one shape.
package response

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the body of every non-2xx answer. Error is the
// human-readable message, usually the text of an apperrors sentinel or a
// validation error; Details carries optional extra context such as the
// per-field validation messages.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON writes data as a JSON body with the given status code.
// A nil data writes the status line only, which is how 204 responses are
// sent. Encoding failures are logged; at that point the status line is
// already on the wire, so there is nothing else to do.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

// RespondError writes an ErrorResponse with the given status code.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "invalid entry ID", err.Error())
//	response.RespondError(w, http.StatusNotFound, "no default portfolio", "")
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	RespondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}
