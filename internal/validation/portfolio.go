package validation

import (
	"math"
	"strings"

	"github.com/nepse-tools/tracker-backend/internal/api/request"
	"github.com/nepse-tools/tracker-backend/internal/model"
)

func ValidateCreatePortfolio(req request.CreatePortfolioRequest) error {
	errors := make(map[string]string)

	// Required field
	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func ValidateRenamePortfolio(req request.RenamePortfolioRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name cannot be empty"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func ValidateTransaction(req request.TransactionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	}

	if !model.TransactionType(req.Type).Valid() {
		errors["type"] = "type must be BUY or SELL"
	}

	if math.IsNaN(req.Quantity) || req.Quantity <= 0 {
		errors["quantity"] = "quantity must be a positive number"
	}

	if math.IsNaN(req.Price) || req.Price <= 0 {
		errors["price"] = "price must be a positive number"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
