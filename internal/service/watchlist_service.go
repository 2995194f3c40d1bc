package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nepse-tools/tracker-backend/internal/apperrors"
	"github.com/nepse-tools/tracker-backend/internal/model"
	"github.com/nepse-tools/tracker-backend/internal/store"
)

// WatchlistService exclusively owns the watchlist record. State is loaded
// once, mutated in memory, and written back whole on every mutation. A
// failed durable write is logged and the in-memory state stays
// authoritative until the next successful save.
type WatchlistService struct {
	store  *store.Store
	market *MarketService

	mu     sync.Mutex
	list   *model.Watchlist
	lastID int64
}

// NewWatchlistService creates a WatchlistService. The market service is
// used to denormalize the current quote into new entries at add-time.
func NewWatchlistService(st *store.Store, market *MarketService) *WatchlistService {
	return &WatchlistService{store: st, market: market}
}

// Load returns the watchlist entries, most recently added first.
func (s *WatchlistService) Load(ctx context.Context) ([]model.WatchlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]model.WatchlistEntry, len(list.Entries))
	copy(entries, list.Entries)
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })

	return entries, nil
}

// Add tracks a new symbol. The entry is a denormalized snapshot of the
// symbol's current live quote; a symbol missing from the snapshot gets
// zeroed quote fields. Returns ErrDuplicateEntry when the symbol is
// already tracked.
func (s *WatchlistService) Add(ctx context.Context, symbol, name string) (model.WatchlistEntry, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return model.WatchlistEntry{}, apperrors.ErrInvalidSymbol
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return model.WatchlistEntry{}, err
	}

	if list.Contains(symbol) {
		return model.WatchlistEntry{}, fmt.Errorf("%w: %s", apperrors.ErrDuplicateEntry, symbol)
	}

	entry := model.WatchlistEntry{
		ID:     s.nextID(),
		Symbol: symbol,
		Name:   name,
	}
	if quote, ok := s.market.Quote(symbol); ok {
		if entry.Name == "" {
			entry.Name = quote.CompanyName
		}
		entry.LastTradedPrice = quote.LastTradedPrice
		entry.Change = quote.Change
		entry.PercentChange = quote.PercentChange
	}

	list.Entries = append([]model.WatchlistEntry{entry}, list.Entries...)
	s.persist(ctx)

	return entry, nil
}

// Remove deletes the entry with the given ID. Removing an unknown ID is a
// no-op; confirmation is a UI concern, the operation itself is unconditional.
func (s *WatchlistService) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := list.Entries[:0]
	for _, e := range list.Entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	list.Entries = kept
	s.persist(ctx)

	return nil
}

// Toggle adds the symbol if absent and removes it if present. It returns
// whether the symbol is tracked after the call.
func (s *WatchlistService) Toggle(ctx context.Context, symbol, name string) (bool, error) {
	s.mu.Lock()
	list, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}

	var id int64
	for _, e := range list.Entries {
		if e.Symbol == symbol {
			id = e.ID
			break
		}
	}
	s.mu.Unlock()

	if id != 0 {
		return false, s.Remove(ctx, id)
	}

	_, err = s.Add(ctx, symbol, name)
	return err == nil, err
}

// Contains reports whether the symbol is currently tracked.
func (s *WatchlistService) Contains(ctx context.Context, symbol string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	return list.Contains(symbol), nil
}

// load lazily reads the persisted record. An absent, malformed, or
// unknown-version record falls back to the empty default.
func (s *WatchlistService) load(ctx context.Context) (*model.Watchlist, error) {
	if s.list != nil {
		return s.list, nil
	}

	list := model.NewWatchlist()
	found, err := s.store.LoadJSON(ctx, store.KeyWatchlist, list)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	if found && list.Version != model.WatchlistVersion {
		log.Printf("discarding watchlist record with unknown version %d", list.Version)
		list = model.NewWatchlist()
	}
	if list.Entries == nil {
		list.Entries = []model.WatchlistEntry{}
	}

	for _, e := range list.Entries {
		if e.ID > s.lastID {
			s.lastID = e.ID
		}
	}

	s.list = list
	return s.list, nil
}

// persist writes the whole record back. Failures are logged only; the
// in-memory mutation stands and the next save retries implicitly.
func (s *WatchlistService) persist(ctx context.Context) {
	if err := s.store.SaveJSON(ctx, store.KeyWatchlist, s.list); err != nil {
		log.Printf("%v: %v", apperrors.ErrFailedToPersist, err)
	}
}

// nextID returns a unique, strictly increasing entry ID. IDs are creation
// timestamps in Unix milliseconds, bumped when two adds land in the same
// millisecond.
func (s *WatchlistService) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
