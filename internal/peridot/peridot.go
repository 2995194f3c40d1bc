// Package peridot provides the HTTP client for the peridotnepal market-data
// API. It is purely request/response: no retries, no local state. All
// numeric normalization happens here, before data enters the core model.
package peridot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nepse-tools/tracker-backend/internal/apperrors"
	"github.com/nepse-tools/tracker-backend/internal/model"
)

// Client fetches live quote snapshots and historical candle series.
// It wraps an HTTP client and attaches the fixed Permission credential
// to every request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	permission string
}

// NewClient creates a market-data client for the given API base URL.
// The permission credential is sent on every request.
func NewClient(baseURL, permission string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		permission: permission,
	}
}

// FetchSnapshot retrieves the current market-wide live snapshot: per-stock
// quotes, index values, the market summary, and sector sub-indices.
func (c *Client) FetchSnapshot(ctx context.Context) (*model.Snapshot, error) {
	var response snapshotResponse
	if err := c.get(ctx, c.baseURL+"/market_data/home_live", &response); err != nil {
		return nil, err
	}

	if response.Status != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrUpstreamStatus, response.Status)
	}

	snapshot := &model.Snapshot{
		LiveData:   make([]model.Quote, 0, len(response.Data.LiveData)),
		Indices:    convertIndices(response.Data.NepseIndex),
		SubIndices: convertIndices(response.Data.SubIndices),
		Summary:    make([]model.SummaryItem, 0, len(response.Data.MarketSummary)),
		FetchedAt:  time.Now().UTC(),
	}

	for _, q := range response.Data.LiveData {
		if q.Symbol == "" {
			continue
		}
		snapshot.LiveData = append(snapshot.LiveData, normalizeQuote(q))
	}

	for _, item := range response.Data.MarketSummary {
		snapshot.Summary = append(snapshot.Summary, model.SummaryItem{Key: item.Key, Value: item.Value})
	}

	return snapshot, nil
}

// FetchCandles retrieves the daily OHLCV series for a symbol starting at
// the given time.
func (c *Client) FetchCandles(ctx context.Context, symbol string, from time.Time) ([]model.Candle, error) {
	if symbol == "" {
		return nil, apperrors.ErrInvalidSymbol
	}

	endpoint := fmt.Sprintf("%s/company/chart_data/%s/%d", c.baseURL, url.PathEscape(symbol), from.Unix())

	var response candleResponse
	if err := c.get(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	if response.Status != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrUpstreamStatus, response.Status)
	}

	candles := make([]model.Candle, len(response.Data))
	for i, bar := range response.Data {
		candles[i] = model.Candle{
			Timestamp: bar.T,
			Open:      float64(bar.O),
			High:      float64(bar.H),
			Low:       float64(bar.L),
			Close:     float64(bar.C),
			Volume:    float64(bar.V),
		}
	}

	return candles, nil
}

// get executes a GET request against the API and decodes the JSON body.
func (c *Client) get(ctx context.Context, endpoint string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Permission", c.permission)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("market data request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read market data response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HTTP %d", apperrors.ErrUpstreamStatus, resp.StatusCode)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode market data response: %w", err)
	}

	return nil
}

// normalizeQuote collapses the upstream's duplicate field variants into a
// single Quote with plain float64 numerics.
func normalizeQuote(q liveQuote) model.Quote {
	quote := model.Quote{
		Symbol:          q.Symbol,
		CompanyName:     q.CompanyName,
		Sector:          q.Sector,
		LastTradedPrice: float64(q.LastTradedPrice),
		Change:          float64(q.SChange),
		PercentChange:   float64(q.PerChange),
	}

	if quote.CompanyName == "" {
		quote.CompanyName = q.Name
	}
	if quote.LastTradedPrice == 0 {
		quote.LastTradedPrice = float64(q.Price)
	}
	if quote.Change == 0 {
		quote.Change = float64(q.Change)
	}
	if quote.PercentChange == 0 {
		quote.PercentChange = float64(q.PercentageChange)
	}

	return quote
}

func convertIndices(values []indexValue) []model.IndexValue {
	indices := make([]model.IndexValue, len(values))
	for i, v := range values {
		indices[i] = model.IndexValue{
			Index:         v.Index,
			CurrentValue:  float64(v.CurrentValue),
			Change:        float64(v.SChange),
			PercentChange: float64(v.PerChange),
			LastUpdated:   v.LastUpdatedDate,
		}
	}
	return indices
}
