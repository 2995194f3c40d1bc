package request

// CreatePortfolioRequest is the body of POST /api/portfolio.
type CreatePortfolioRequest struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
}

// RenamePortfolioRequest is the body of PUT /api/portfolio/{portfolioId}.
type RenamePortfolioRequest struct {
	Name string `json:"name"`
}

// TransactionRequest is the body of POST /api/portfolio/{portfolioId}/transaction.
type TransactionRequest struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Notes    string  `json:"notes"`
}
