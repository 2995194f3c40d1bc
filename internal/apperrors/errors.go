package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrHoldingNotFound indicates that a portfolio has no position in the given symbol.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrEntryNotFound indicates that a watchlist entry with the given ID does not exist.
	ErrEntryNotFound = errors.New("watchlist entry not found")

	// ErrSymbolNotFound indicates that a symbol lookup against the live snapshot returned no results.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidName indicates that a portfolio name is empty or whitespace-only.
	ErrInvalidName = errors.New("name cannot be blank")

	// ErrInvalidSymbol indicates that a required symbol parameter is empty or missing.
	ErrInvalidSymbol = errors.New("symbol is required")

	// ErrInvalidQuantity indicates that a transaction quantity is not a positive number.
	ErrInvalidQuantity = errors.New("quantity must be a positive number")

	// ErrInvalidPrice indicates that a transaction price is not a positive number.
	ErrInvalidPrice = errors.New("price must be a positive number")

	// ErrInvalidTransactionType indicates a transaction type other than BUY or SELL.
	ErrInvalidTransactionType = errors.New("transaction type must be BUY or SELL")

	// ErrDuplicateEntry indicates that the symbol is already present in the watchlist.
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// ErrSnapshotUnavailable indicates that no market snapshot has been fetched yet
	// and the upstream API could not be reached to obtain one.
	ErrSnapshotUnavailable = errors.New("market snapshot unavailable")

	// ErrUpstreamStatus indicates that the market data API answered with a non-success
	// status in its response envelope.
	ErrUpstreamStatus = errors.New("upstream returned non-success status")

	// ErrFailedToPersist indicates that a durable write of application state failed.
	// The in-memory state remains authoritative until the next successful save.
	ErrFailedToPersist = errors.New("failed to persist state")
)
