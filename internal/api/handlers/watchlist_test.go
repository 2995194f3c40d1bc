package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/nepse-tools/tracker-backend/internal/api/handlers"
	"github.com/nepse-tools/tracker-backend/internal/api/request"
	"github.com/nepse-tools/tracker-backend/internal/model"
	"github.com/nepse-tools/tracker-backend/internal/service"
	"github.com/nepse-tools/tracker-backend/internal/store"
	"github.com/nepse-tools/tracker-backend/internal/testutil"
)

func newWatchlistHandler(t *testing.T, quotes ...model.Quote) (*handlers.WatchlistHandler, *service.WatchlistService) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	market := testutil.NewTestMarketService(t, &testutil.StubFetcher{SnapshotData: testutil.Snapshot(quotes...)})
	svc := service.NewWatchlistService(store.New(db), market)
	return handlers.NewWatchlistHandler(svc, market), svc
}

func TestWatchlistHandler_List(t *testing.T) {
	t.Run("GET /api/watchlist returns 200 with empty array", func(t *testing.T) {
		handler, _ := newWatchlistHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/watchlist/", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}

		var response []model.WatchlistEntry
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(response) != 0 {
			t.Errorf("Expected empty array, got %d items", len(response))
		}
	})
}

func TestWatchlistHandler_Add(t *testing.T) {
	t.Run("POST /api/watchlist creates an enriched entry", func(t *testing.T) {
		handler, _ := newWatchlistHandler(t, testutil.Quote("NABIL", 512.5, -2, -0.39))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/watchlist/",
			request.WatchlistAddRequest{Symbol: "NABIL"}, nil)
		w := httptest.NewRecorder()

		handler.Add(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
		}

		var entry model.WatchlistEntry
		if err := json.NewDecoder(w.Body).Decode(&entry); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if entry.Symbol != "NABIL" || entry.LastTradedPrice != 512.5 {
			t.Errorf("Unexpected entry: %+v", entry)
		}
		if entry.ID == 0 {
			t.Error("Expected entry ID to be set")
		}
	})

	t.Run("POST of a duplicate symbol returns 409", func(t *testing.T) {
		handler, svc := newWatchlistHandler(t)

		if _, err := svc.Add(context.Background(), "NABIL", "Nabil Bank"); err != nil {
			t.Fatalf("Seed add failed: %v", err)
		}

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/watchlist/",
			request.WatchlistAddRequest{Symbol: "NABIL"}, nil)
		w := httptest.NewRecorder()

		handler.Add(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected status 409, got %d", w.Code)
		}
	})

	t.Run("POST with a blank symbol returns 400", func(t *testing.T) {
		handler, _ := newWatchlistHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/watchlist/",
			request.WatchlistAddRequest{Symbol: "  "}, nil)
		w := httptest.NewRecorder()

		handler.Add(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestWatchlistHandler_Remove(t *testing.T) {
	t.Run("DELETE removes the entry", func(t *testing.T) {
		handler, svc := newWatchlistHandler(t)

		entry, err := svc.Add(context.Background(), "NABIL", "Nabil Bank")
		if err != nil {
			t.Fatalf("Seed add failed: %v", err)
		}

		id := strconv.FormatInt(entry.ID, 10)
		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/watchlist/"+id,
			map[string]string{"id": id})
		w := httptest.NewRecorder()

		handler.Remove(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected status 204, got %d", w.Code)
		}

		entries, err := svc.Load(context.Background())
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("Expected empty watchlist, got %+v", entries)
		}
	})

	t.Run("DELETE with a non-numeric ID returns 400", func(t *testing.T) {
		handler, _ := newWatchlistHandler(t)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/watchlist/abc",
			map[string]string{"id": "abc"})
		w := httptest.NewRecorder()

		handler.Remove(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestWatchlistHandler_Toggle(t *testing.T) {
	handler, _ := newWatchlistHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/watchlist/toggle",
		request.WatchlistAddRequest{Symbol: "NABIL", Name: "Nabil Bank"}, nil)
	w := httptest.NewRecorder()

	handler.Toggle(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response handlers.ToggleResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !response.Watched {
		t.Error("Expected symbol to be watched after toggle")
	}
}
