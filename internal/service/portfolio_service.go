package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nepse-tools/tracker-backend/internal/apperrors"
	"github.com/nepse-tools/tracker-backend/internal/model"
	"github.com/nepse-tools/tracker-backend/internal/store"
)

// PortfolioService exclusively owns the portfolio collection record.
// All mutation happens here; holdings and transactions have no lifecycle
// outside their parent portfolio. Like the watchlist, the record is loaded
// once, mutated in memory, and written back whole after every mutation.
type PortfolioService struct {
	store  *store.Store
	market *MarketService

	mu         sync.Mutex
	collection *model.PortfolioCollection
	settings   *model.Settings
}

// NewPortfolioService creates a PortfolioService. The market service prices
// valuations and enriches holding names.
func NewPortfolioService(st *store.Store, market *MarketService) *PortfolioService {
	return &PortfolioService{store: st, market: market}
}

// List returns all portfolios.
func (s *PortfolioService) List(ctx context.Context) ([]model.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	portfolios := make([]model.Portfolio, len(collection.Portfolios))
	copy(portfolios, collection.Portfolios)
	return portfolios, nil
}

// Get returns the portfolio with the given ID.
func (s *PortfolioService) Get(ctx context.Context, id string) (model.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return model.Portfolio{}, err
	}

	i := collection.Find(id)
	if i < 0 {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	return collection.Portfolios[i], nil
}

// Default returns the portfolio flagged as default. The second return is
// false when no portfolio has the flag.
func (s *PortfolioService) Default(ctx context.Context) (model.Portfolio, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return model.Portfolio{}, false, err
	}

	if p := collection.Default(); p != nil {
		return *p, true, nil
	}
	return model.Portfolio{}, false, nil
}

// Create adds a new, empty portfolio. Setting it as default clears the
// flag on every other portfolio first.
func (s *PortfolioService) Create(ctx context.Context, name string, isDefault bool) (model.Portfolio, error) {
	if strings.TrimSpace(name) == "" {
		return model.Portfolio{}, apperrors.ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return model.Portfolio{}, err
	}

	if isDefault {
		for i := range collection.Portfolios {
			collection.Portfolios[i].IsDefault = false
		}
	}

	portfolio := model.Portfolio{
		ID:        uuid.New().String(),
		Name:      name,
		IsDefault: isDefault,
		Holdings:  []model.Holding{},
	}
	collection.Portfolios = append(collection.Portfolios, portfolio)
	s.persist(ctx)

	return portfolio, nil
}

// SetDefault flags exactly one portfolio as default and clears all others.
func (s *PortfolioService) SetDefault(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return err
	}

	if collection.Find(id) < 0 {
		return apperrors.ErrPortfolioNotFound
	}

	for i := range collection.Portfolios {
		collection.Portfolios[i].IsDefault = collection.Portfolios[i].ID == id
	}
	s.persist(ctx)

	return nil
}

// Rename overwrites a portfolio's name.
func (s *PortfolioService) Rename(ctx context.Context, id, name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return err
	}

	i := collection.Find(id)
	if i < 0 {
		return apperrors.ErrPortfolioNotFound
	}

	collection.Portfolios[i].Name = name
	s.persist(ctx)

	return nil
}

// Delete removes a portfolio together with all its holdings and their
// transaction history.
func (s *PortfolioService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return err
	}

	i := collection.Find(id)
	if i < 0 {
		return apperrors.ErrPortfolioNotFound
	}

	collection.Portfolios = append(collection.Portfolios[:i], collection.Portfolios[i+1:]...)
	s.persist(ctx)

	// Selection falls back to the first remaining portfolio, or none.
	settings, err := s.loadSettings(ctx)
	if err == nil && settings.SelectedPortfolioID == id {
		settings.SelectedPortfolioID = ""
		if len(collection.Portfolios) > 0 {
			settings.SelectedPortfolioID = collection.Portfolios[0].ID
		}
		s.persistSettings(ctx)
	}

	return nil
}

// Select marks a portfolio as the one currently open in the UI.
func (s *PortfolioService) Select(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return err
	}
	if collection.Find(id) < 0 {
		return apperrors.ErrPortfolioNotFound
	}

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return err
	}
	settings.SelectedPortfolioID = id
	s.persistSettings(ctx)

	return nil
}

// Selected returns the currently selected portfolio. When nothing is
// selected it falls back to the default portfolio, then to the first one.
// The second return is false for an empty collection.
func (s *PortfolioService) Selected(ctx context.Context) (model.Portfolio, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return model.Portfolio{}, false, err
	}

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return model.Portfolio{}, false, err
	}

	if i := collection.Find(settings.SelectedPortfolioID); i >= 0 {
		return collection.Portfolios[i], true, nil
	}
	if p := collection.Default(); p != nil {
		return *p, true, nil
	}
	if len(collection.Portfolios) > 0 {
		return collection.Portfolios[0], true, nil
	}
	return model.Portfolio{}, false, nil
}

// RecordTransaction applies a buy or sell to a portfolio and returns the
// updated portfolio.
//
// A BUY against an existing holding adds quantity and recomputes the
// average cost as a weighted average of all buy fills; against an absent
// holding it creates one at the fill price. A SELL reduces quantity and
// leaves the average cost untouched; when the resulting quantity is zero
// or below, the holding is removed entirely, history included. A SELL
// against a symbol with no holding is ignored.
func (s *PortfolioService) RecordTransaction(ctx context.Context, portfolioID, symbol, name string, txType model.TransactionType, quantity, price float64, notes string) (model.Portfolio, error) {
	if !txType.Valid() {
		return model.Portfolio{}, apperrors.ErrInvalidTransactionType
	}
	if symbol = strings.TrimSpace(symbol); symbol == "" {
		return model.Portfolio{}, apperrors.ErrInvalidSymbol
	}
	if math.IsNaN(quantity) || quantity <= 0 {
		return model.Portfolio{}, apperrors.ErrInvalidQuantity
	}
	if math.IsNaN(price) || price <= 0 {
		return model.Portfolio{}, apperrors.ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return model.Portfolio{}, err
	}

	pi := collection.Find(portfolioID)
	if pi < 0 {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	portfolio := &collection.Portfolios[pi]

	transaction := model.Transaction{
		ID:       uuid.New().String(),
		Type:     txType,
		Quantity: quantity,
		Price:    price,
		Total:    quantity * price,
		Date:     time.Now().UTC(),
		Notes:    notes,
	}

	hi := portfolio.Holding(symbol)
	switch {
	case hi >= 0:
		holding := &portfolio.Holdings[hi]

		if txType == model.TransactionBuy {
			newQuantity := holding.Quantity + quantity
			holding.AverageCost = (holding.AverageCost*holding.Quantity + transaction.Total) / newQuantity
			holding.Quantity = newQuantity
		} else {
			holding.Quantity -= quantity
		}

		holding.Transactions = append(holding.Transactions, transaction)

		// A sell that nets the position to zero or below removes the
		// holding and its history with it.
		if holding.Quantity <= 0 {
			portfolio.Holdings = append(portfolio.Holdings[:hi], portfolio.Holdings[hi+1:]...)
		}

	case txType == model.TransactionBuy:
		if name == "" {
			if quote, ok := s.market.Quote(symbol); ok {
				name = quote.CompanyName
			}
		}
		portfolio.Holdings = append(portfolio.Holdings, model.Holding{
			Symbol:       symbol,
			Name:         name,
			Quantity:     quantity,
			AverageCost:  price,
			Transactions: []model.Transaction{transaction},
		})

	default:
		// Sell with no position: ignored.
		return *portfolio, nil
	}

	s.persist(ctx)
	return *portfolio, nil
}

// DeleteHolding removes a holding, history included, from a portfolio.
func (s *PortfolioService) DeleteHolding(ctx context.Context, portfolioID, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return err
	}

	pi := collection.Find(portfolioID)
	if pi < 0 {
		return apperrors.ErrPortfolioNotFound
	}
	portfolio := &collection.Portfolios[pi]

	hi := portfolio.Holding(symbol)
	if hi < 0 {
		return apperrors.ErrHoldingNotFound
	}

	portfolio.Holdings = append(portfolio.Holdings[:hi], portfolio.Holdings[hi+1:]...)
	s.persist(ctx)

	return nil
}

// Valuation prices a portfolio against live quotes. It is a pure function:
// a holding whose symbol has no quote contributes zero market value, and
// the sums are independent of holding order.
func Valuation(portfolio model.Portfolio, quotes map[string]model.Quote) model.Valuation {
	var v model.Valuation
	for _, h := range portfolio.Holdings {
		price := quotes[h.Symbol].LastTradedPrice
		v.TotalValue += h.Quantity * price
		v.Invested += h.Quantity * h.AverageCost
	}
	v.ProfitLoss = v.TotalValue - v.Invested
	return v
}

// Valuation prices a portfolio against the current market snapshot.
func (s *PortfolioService) Valuation(ctx context.Context, portfolioID string) (model.Valuation, error) {
	portfolio, err := s.Get(ctx, portfolioID)
	if err != nil {
		return model.Valuation{}, err
	}
	return Valuation(portfolio, s.market.QuoteMap()), nil
}

// load lazily reads the persisted record, falling back to the empty
// default for absent, malformed, or unknown-version records.
func (s *PortfolioService) load(ctx context.Context) (*model.PortfolioCollection, error) {
	if s.collection != nil {
		return s.collection, nil
	}

	collection := model.NewPortfolioCollection()
	found, err := s.store.LoadJSON(ctx, store.KeyPortfolios, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolios: %w", err)
	}
	if found && collection.Version != model.PortfolioVersion {
		log.Printf("discarding portfolios record with unknown version %d", collection.Version)
		collection = model.NewPortfolioCollection()
	}
	if collection.Portfolios == nil {
		collection.Portfolios = []model.Portfolio{}
	}

	s.collection = collection
	return s.collection, nil
}

// loadSettings lazily reads the settings record with the same fallback
// rules as the portfolio record.
func (s *PortfolioService) loadSettings(ctx context.Context) (*model.Settings, error) {
	if s.settings != nil {
		return s.settings, nil
	}

	settings := model.NewSettings()
	found, err := s.store.LoadJSON(ctx, store.KeySettings, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if found && settings.Version != model.SettingsVersion {
		log.Printf("discarding settings record with unknown version %d", settings.Version)
		settings = model.NewSettings()
	}

	s.settings = settings
	return s.settings, nil
}

// persist writes the whole collection back, logging failures only.
func (s *PortfolioService) persist(ctx context.Context) {
	if err := s.store.SaveJSON(ctx, store.KeyPortfolios, s.collection); err != nil {
		log.Printf("%v: %v", apperrors.ErrFailedToPersist, err)
	}
}

func (s *PortfolioService) persistSettings(ctx context.Context) {
	if err := s.store.SaveJSON(ctx, store.KeySettings, s.settings); err != nil {
		log.Printf("%v: %v", apperrors.ErrFailedToPersist, err)
	}
}
