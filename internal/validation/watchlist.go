package validation

import (
	"strings"

	"github.com/nepse-tools/tracker-backend/internal/api/request"
)

func ValidateWatchlistAdd(req request.WatchlistAddRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	} else if len(req.Symbol) > 20 {
		errors["symbol"] = "symbol must be 20 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
