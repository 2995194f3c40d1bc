package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nepse-tools/tracker-backend/internal/apperrors"
	"github.com/nepse-tools/tracker-backend/internal/service"
	"github.com/nepse-tools/tracker-backend/internal/store"
	"github.com/nepse-tools/tracker-backend/internal/testutil"
)

func TestWatchlistService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("entries come back most recently added first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestWatchlistService(t, db)

		symbols := []string{"NABIL", "NICA", "ADBL", "GBIME"}
		for _, symbol := range symbols {
			if _, err := svc.Add(ctx, symbol, ""); err != nil {
				t.Fatalf("Add(%s) failed: %v", symbol, err)
			}
		}

		entries, err := svc.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(entries) != len(symbols) {
			t.Fatalf("Expected %d entries, got %d", len(symbols), len(entries))
		}

		// Reverse of insertion order.
		for i, e := range entries {
			want := symbols[len(symbols)-1-i]
			if e.Symbol != want {
				t.Errorf("Entry %d: got %s, want %s", i, e.Symbol, want)
			}
		}

		// IDs strictly decreasing in the returned order.
		for i := 1; i < len(entries); i++ {
			if entries[i].ID >= entries[i-1].ID {
				t.Errorf("IDs not strictly decreasing: %d then %d", entries[i-1].ID, entries[i].ID)
			}
		}
	})

	t.Run("adding a present symbol fails and leaves the list unchanged", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestWatchlistService(t, db)

		if _, err := svc.Add(ctx, "NABIL", "Nabil Bank"); err != nil {
			t.Fatalf("First add failed: %v", err)
		}

		_, err := svc.Add(ctx, "NABIL", "Nabil Bank")
		if !errors.Is(err, apperrors.ErrDuplicateEntry) {
			t.Fatalf("Expected ErrDuplicateEntry, got %v", err)
		}

		entries, err := svc.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("Expected list unchanged with 1 entry, got %d", len(entries))
		}
	})

	t.Run("entry is denormalized from the live snapshot", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestWatchlistService(t, db,
			testutil.Quote("NABIL", 512.5, -2, -0.39),
		)

		entry, err := svc.Add(ctx, "NABIL", "")
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		if entry.Name != "NABIL Ltd." {
			t.Errorf("Expected name from snapshot, got %q", entry.Name)
		}
		if entry.LastTradedPrice != 512.5 || entry.Change != -2 || entry.PercentChange != -0.39 {
			t.Errorf("Expected quote fields copied, got %+v", entry)
		}
	})

	t.Run("symbol missing from the snapshot gets zeroed quote fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestWatchlistService(t, db)

		entry, err := svc.Add(ctx, "UNKNOWN", "Some Company")
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		if entry.Name != "Some Company" {
			t.Errorf("Expected caller-provided name, got %q", entry.Name)
		}
		if entry.LastTradedPrice != 0 || entry.Change != 0 || entry.PercentChange != 0 {
			t.Errorf("Expected zero quote fields, got %+v", entry)
		}
	})

	t.Run("blank symbol is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestWatchlistService(t, db)

		if _, err := svc.Add(ctx, "   ", ""); !errors.Is(err, apperrors.ErrInvalidSymbol) {
			t.Errorf("Expected ErrInvalidSymbol, got %v", err)
		}
	})
}

func TestWatchlistService_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes by ID", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestWatchlistService(t, db)

		kept, err := svc.Add(ctx, "NABIL", "")
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		gone, err := svc.Add(ctx, "NICA", "")
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		if err := svc.Remove(ctx, gone.ID); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}

		entries, err := svc.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(entries) != 1 || entries[0].ID != kept.ID {
			t.Errorf("Expected only %d to remain, got %+v", kept.ID, entries)
		}
	})

	t.Run("removing an unknown ID is a no-op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestWatchlistService(t, db)

		if _, err := svc.Add(ctx, "NABIL", ""); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if err := svc.Remove(ctx, 999); err != nil {
			t.Fatalf("Remove of unknown ID failed: %v", err)
		}

		entries, err := svc.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("Expected 1 entry, got %d", len(entries))
		}
	})
}

func TestWatchlistService_Toggle(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestWatchlistService(t, db)

	watched, err := svc.Toggle(ctx, "NABIL", "Nabil Bank")
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !watched {
		t.Error("Expected symbol to be watched after first toggle")
	}

	watched, err = svc.Toggle(ctx, "NABIL", "Nabil Bank")
	if err != nil {
		t.Fatalf("Second toggle failed: %v", err)
	}
	if watched {
		t.Error("Expected symbol to be unwatched after second toggle")
	}

	present, err := svc.Contains(ctx, "NABIL")
	if err != nil {
		t.Fatalf("Contains failed: %v", err)
	}
	if present {
		t.Error("Expected symbol to be absent after toggling twice")
	}
}

func TestWatchlistService_Durability(t *testing.T) {
	ctx := context.Background()

	t.Run("state survives a service restart", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		st := store.New(db)
		market := testutil.NewTestMarketService(t, &testutil.StubFetcher{SnapshotData: testutil.Snapshot()})

		first := service.NewWatchlistService(st, market)
		if _, err := first.Add(ctx, "NABIL", "Nabil Bank"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if _, err := first.Add(ctx, "NICA", "NIC Asia"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		// Fresh instance over the same store reads the persisted record.
		second := service.NewWatchlistService(st, market)
		entries, err := second.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(entries) != 2 || entries[0].Symbol != "NICA" || entries[1].Symbol != "NABIL" {
			t.Errorf("Unexpected entries after restart: %+v", entries)
		}
	})

	t.Run("malformed persisted record falls back to empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		st := store.New(db)
		if err := st.Save(ctx, store.KeyWatchlist, []byte(`{broken`)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		market := testutil.NewTestMarketService(t, &testutil.StubFetcher{SnapshotData: testutil.Snapshot()})
		svc := service.NewWatchlistService(st, market)

		entries, err := svc.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("Expected empty default, got %+v", entries)
		}
	})

	t.Run("record with a mistyped entry is discarded whole", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		st := store.New(db)

		// Valid JSON whose second entry fails to decode; none of it may
		// surface, not even the entries parsed before the failure.
		blob := []byte(`{"version":1,"entries":[{"id":111,"symbol":"NABIL"},{"id":"bad","symbol":"NICA"}]}`)
		if err := st.Save(ctx, store.KeyWatchlist, blob); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		market := testutil.NewTestMarketService(t, &testutil.StubFetcher{SnapshotData: testutil.Snapshot()})
		svc := service.NewWatchlistService(st, market)

		entries, err := svc.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("Expected empty default, got %+v", entries)
		}

		// IDs restart from the current time, not from the discarded record.
		entry, err := svc.Add(ctx, "NABIL", "Nabil Bank")
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if entry.ID <= 111 {
			t.Errorf("Expected a fresh millisecond ID, got %d", entry.ID)
		}
	})
}
