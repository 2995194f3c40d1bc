package peridot

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Number is a float64 that tolerates the upstream's inconsistent numeric
// encoding: the same field may arrive as a JSON number, a quoted number,
// a percentage string ("4.32%"), null, or an empty string. Null and empty
// decode to zero.
type Number float64

// UnmarshalJSON implements tolerant numeric decoding.
func (n *Number) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		*n = 0
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("cannot parse %q as number: %w", string(data), err)
	}

	*n = Number(f)
	return nil
}

// snapshotResponse is the envelope of the live market-data endpoint.
type snapshotResponse struct {
	Status int `json:"status"`
	Data   struct {
		LiveData      []liveQuote   `json:"liveData"`
		NepseIndex    []indexValue  `json:"nepseIndex"`
		MarketSummary []summaryItem `json:"marketSummary"`
		SubIndices    []indexValue  `json:"subIndices"`
	} `json:"data"`
}

// liveQuote is one upstream live quote. The feed emits two field-name
// variants for most values (lastTradedPrice/price, schange/change,
// perChange/percentageChange, companyName/name); normalization prefers the
// first of each pair and falls back to the second.
type liveQuote struct {
	Symbol           string `json:"symbol"`
	CompanyName      string `json:"companyName"`
	Name             string `json:"name"`
	Sector           string `json:"sector"`
	LastTradedPrice  Number `json:"lastTradedPrice"`
	Price            Number `json:"price"`
	SChange          Number `json:"schange"`
	Change           Number `json:"change"`
	PerChange        Number `json:"perChange"`
	PercentageChange Number `json:"percentageChange"`
}

type indexValue struct {
	Index           string `json:"sindex"`
	CurrentValue    Number `json:"currentValue"`
	SChange         Number `json:"schange"`
	PerChange       Number `json:"perChange"`
	LastUpdatedDate string `json:"lastUpdatedDate"`
}

type summaryItem struct {
	Key   string `json:"ms_key"`
	Value string `json:"ms_value"`
}

// candleResponse is the envelope of the historical chart-data endpoint.
type candleResponse struct {
	Status int      `json:"status"`
	Data   []candle `json:"data"`
}

type candle struct {
	T int64  `json:"t"`
	O Number `json:"o"`
	H Number `json:"h"`
	L Number `json:"l"`
	C Number `json:"c"`
	V Number `json:"v"`
}
