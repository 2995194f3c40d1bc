package model

import "time"

// PortfolioVersion is the schema version written into the persisted
// portfolios record.
const PortfolioVersion = 1

// TransactionType distinguishes buys from sells.
type TransactionType string

const (
	TransactionBuy  TransactionType = "BUY"
	TransactionSell TransactionType = "SELL"
)

// Valid reports whether t is one of the two known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionBuy || t == TransactionSell
}

// Transaction is one buy or sell fill recorded against a holding.
// Transactions are immutable once created and append-only on the holding.
type Transaction struct {
	ID       string          `json:"id"`
	Type     TransactionType `json:"type"`
	Quantity float64         `json:"quantity"`
	Price    float64         `json:"price"`
	Total    float64         `json:"total"`
	Date     time.Time       `json:"date"`
	Notes    string          `json:"notes,omitempty"`
}

// Holding is a portfolio's current position in one symbol. Quantity is the
// running net of all transactions; AverageCost is the weighted average of
// buy fills and is untouched by sells. A holding whose quantity reaches
// zero (or below) is removed from its portfolio along with its history.
type Holding struct {
	Symbol       string        `json:"symbol"`
	Name         string        `json:"name"`
	Quantity     float64       `json:"quantity"`
	AverageCost  float64       `json:"averageCost"`
	Transactions []Transaction `json:"transactions"`
}

// Portfolio is a named collection of holdings. At most one portfolio in the
// collection has IsDefault set.
type Portfolio struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"isDefault"`
	Holdings  []Holding `json:"holdings"`
}

// Holding returns the index of the holding for symbol, or -1.
func (p *Portfolio) Holding(symbol string) int {
	for i := range p.Holdings {
		if p.Holdings[i].Symbol == symbol {
			return i
		}
	}
	return -1
}

// PortfolioCollection is the single persisted portfolios record.
type PortfolioCollection struct {
	Version    int         `json:"version"`
	Portfolios []Portfolio `json:"portfolios"`
}

// NewPortfolioCollection returns the empty default portfolios record.
func NewPortfolioCollection() *PortfolioCollection {
	return &PortfolioCollection{Version: PortfolioVersion, Portfolios: []Portfolio{}}
}

// Find returns the portfolio with the given ID, or -1.
func (c *PortfolioCollection) Find(id string) int {
	for i := range c.Portfolios {
		if c.Portfolios[i].ID == id {
			return i
		}
	}
	return -1
}

// Default returns the portfolio flagged as default, or nil.
func (c *PortfolioCollection) Default() *Portfolio {
	for i := range c.Portfolios {
		if c.Portfolios[i].IsDefault {
			return &c.Portfolios[i]
		}
	}
	return nil
}

// Valuation is the result of pricing a portfolio against live quotes.
type Valuation struct {
	TotalValue float64 `json:"totalValue"`
	Invested   float64 `json:"invested"`
	ProfitLoss float64 `json:"profitLoss"`
}
