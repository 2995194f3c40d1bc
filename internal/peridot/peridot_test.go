package peridot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nepse-tools/tracker-backend/internal/apperrors"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  float64
		fails bool
	}{
		{name: "plain number", input: `512.5`, want: 512.5},
		{name: "quoted number", input: `"512.5"`, want: 512.5},
		{name: "percentage string", input: `"4.32%"`, want: 4.32},
		{name: "negative percentage", input: `"-1.08%"`, want: -1.08},
		{name: "thousands separators", input: `"1,234.50"`, want: 1234.5},
		{name: "null", input: `null`, want: 0},
		{name: "empty string", input: `""`, want: 0},
		{name: "garbage", input: `"abc"`, fails: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var n Number
			err := json.Unmarshal([]byte(tc.input), &n)
			if tc.fails {
				if err == nil {
					t.Fatalf("Expected error for %s", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tc.input, err)
			}
			if float64(n) != tc.want {
				t.Errorf("Unmarshal(%s) = %v, want %v", tc.input, float64(n), tc.want)
			}
		})
	}
}

func TestClient_FetchSnapshot(t *testing.T) {
	t.Run("decodes and normalizes the live snapshot", func(t *testing.T) {
		var gotPermission string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPermission = r.Header.Get("Permission")
			if r.URL.Path != "/market_data/home_live" {
				t.Errorf("Unexpected path: %s", r.URL.Path)
			}
			w.Write([]byte(`{
				"status": 200,
				"data": {
					"liveData": [
						{"symbol": "NABIL", "companyName": "Nabil Bank", "lastTradedPrice": "512.5", "schange": -2, "perChange": "-0.39%"},
						{"symbol": "NICA", "name": "NIC Asia", "price": 880, "change": "4.4", "percentageChange": 0.5},
						{"companyName": "no symbol, dropped"}
					],
					"nepseIndex": [
						{"sindex": "NEPSE Index", "currentValue": "2104.2", "schange": 10.5, "perChange": "0.5%", "lastUpdatedDate": "2025-01-15"}
					],
					"marketSummary": [
						{"ms_key": "Total Turnover Rs:", "ms_value": "5,206,979,038.43"}
					],
					"subIndices": [
						{"sindex": "Banking SubIndex", "currentValue": 1300, "schange": -1.2, "perChange": "-0.09%"}
					]
				}
			}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "secret")
		snapshot, err := client.FetchSnapshot(context.Background())
		if err != nil {
			t.Fatalf("FetchSnapshot failed: %v", err)
		}

		if gotPermission != "secret" {
			t.Errorf("Expected Permission header 'secret', got %q", gotPermission)
		}

		if len(snapshot.LiveData) != 2 {
			t.Fatalf("Expected 2 quotes (symbol-less rows dropped), got %d", len(snapshot.LiveData))
		}

		nabil := snapshot.LiveData[0]
		if nabil.CompanyName != "Nabil Bank" || nabil.LastTradedPrice != 512.5 || nabil.Change != -2 || nabil.PercentChange != -0.39 {
			t.Errorf("Unexpected NABIL quote: %+v", nabil)
		}

		// Fallback field variants: name/price/change/percentageChange.
		nica := snapshot.LiveData[1]
		if nica.CompanyName != "NIC Asia" || nica.LastTradedPrice != 880 || nica.Change != 4.4 || nica.PercentChange != 0.5 {
			t.Errorf("Unexpected NICA quote: %+v", nica)
		}

		if len(snapshot.Indices) != 1 || snapshot.Indices[0].Index != "NEPSE Index" || snapshot.Indices[0].CurrentValue != 2104.2 {
			t.Errorf("Unexpected indices: %+v", snapshot.Indices)
		}
		if len(snapshot.Summary) != 1 || snapshot.Summary[0].Value != "5,206,979,038.43" {
			t.Errorf("Unexpected summary: %+v", snapshot.Summary)
		}
		if len(snapshot.SubIndices) != 1 || snapshot.SubIndices[0].Index != "Banking SubIndex" {
			t.Errorf("Unexpected sub-indices: %+v", snapshot.SubIndices)
		}
		if snapshot.FetchedAt.IsZero() {
			t.Error("Expected FetchedAt to be set")
		}
	})

	t.Run("non-success envelope status fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": 403, "data": {}}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "secret")
		_, err := client.FetchSnapshot(context.Background())
		if !errors.Is(err, apperrors.ErrUpstreamStatus) {
			t.Errorf("Expected ErrUpstreamStatus, got %v", err)
		}
	})

	t.Run("HTTP error status fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewClient(server.URL, "secret")
		_, err := client.FetchSnapshot(context.Background())
		if !errors.Is(err, apperrors.ErrUpstreamStatus) {
			t.Errorf("Expected ErrUpstreamStatus, got %v", err)
		}
	})
}

func TestClient_FetchCandles(t *testing.T) {
	t.Run("decodes the candle series", func(t *testing.T) {
		from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			want := "/company/chart_data/NABIL/1705276800"
			if r.URL.Path != want {
				t.Errorf("Unexpected path: got %s, want %s", r.URL.Path, want)
			}
			w.Write([]byte(`{
				"status": 200,
				"data": [
					{"t": 1705276800, "o": 500, "h": 515, "l": 498, "c": "512.5", "v": 12000},
					{"t": 1705363200, "o": 512, "h": 520, "l": 510, "c": 518, "v": 9500}
				]
			}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "secret")
		candles, err := client.FetchCandles(context.Background(), "NABIL", from)
		if err != nil {
			t.Fatalf("FetchCandles failed: %v", err)
		}

		if len(candles) != 2 {
			t.Fatalf("Expected 2 candles, got %d", len(candles))
		}
		if candles[0].Close != 512.5 || candles[0].Timestamp != 1705276800 {
			t.Errorf("Unexpected first candle: %+v", candles[0])
		}
		if candles[1].Open != 512 || candles[1].Volume != 9500 {
			t.Errorf("Unexpected second candle: %+v", candles[1])
		}
	})

	t.Run("empty symbol is rejected", func(t *testing.T) {
		client := NewClient("http://unused", "secret")
		_, err := client.FetchCandles(context.Background(), "", time.Now())
		if !errors.Is(err, apperrors.ErrInvalidSymbol) {
			t.Errorf("Expected ErrInvalidSymbol, got %v", err)
		}
	})
}
