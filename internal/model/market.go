package model

import "time"

// Quote is the normalized live quote for one listed symbol. All numeric
// fields are plain float64; the upstream's string-or-number variants are
// resolved at the ingestion boundary before a Quote is constructed.
type Quote struct {
	Symbol          string  `json:"symbol"`
	CompanyName     string  `json:"companyName"`
	LastTradedPrice float64 `json:"lastTradedPrice"`
	Change          float64 `json:"change"`
	PercentChange   float64 `json:"perChange"`
	Sector          string  `json:"sector,omitempty"`
}

// IndexValue is one market index reading (NEPSE Index, Sensitive Index,
// Float Index, or a sector sub-index).
type IndexValue struct {
	Index         string  `json:"sindex"`
	CurrentValue  float64 `json:"currentValue"`
	Change        float64 `json:"schange"`
	PercentChange float64 `json:"perChange"`
	LastUpdated   string  `json:"lastUpdatedDate,omitempty"`
}

// SummaryItem is one key/value row of the upstream market summary
// (total turnover, traded shares, and similar). Values stay strings as
// delivered; they are display-only.
type SummaryItem struct {
	Key   string `json:"ms_key"`
	Value string `json:"ms_value"`
}

// Snapshot is the full market-wide state returned by one live fetch.
// It is replaced wholesale on every refresh; there are no partial updates.
type Snapshot struct {
	LiveData   []Quote       `json:"liveData"`
	Indices    []IndexValue  `json:"nepseIndex"`
	Summary    []SummaryItem `json:"marketSummary"`
	SubIndices []IndexValue  `json:"subIndices"`
	FetchedAt  time.Time     `json:"fetchedAt"`
}

// Quote returns the live quote for a symbol, if present in the snapshot.
func (s *Snapshot) Quote(symbol string) (Quote, bool) {
	for _, q := range s.LiveData {
		if q.Symbol == symbol {
			return q, true
		}
	}
	return Quote{}, false
}

// QuoteMap indexes the snapshot's live quotes by symbol.
func (s *Snapshot) QuoteMap() map[string]Quote {
	quotes := make(map[string]Quote, len(s.LiveData))
	for _, q := range s.LiveData {
		quotes[q.Symbol] = q
	}
	return quotes
}

// Candle is one OHLCV bar of a symbol's historical price series.
type Candle struct {
	Timestamp int64   `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
}
