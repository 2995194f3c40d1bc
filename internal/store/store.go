// Package store is the local persistence adapter. Each logical application
// record (watchlist, portfolios, settings) is saved as one JSON blob in the
// app_state table; every write replaces the whole record, last write wins.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"reflect"
)

// Well-known record keys.
const (
	KeyWatchlist  = "watchlist"
	KeyPortfolios = "portfolios"
	KeySettings   = "settings"
)

// Store provides key-value access to JSON-serialized application records.
type Store struct {
	db *sql.DB
}

// New creates a Store backed by the provided database connection.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load returns the raw blob stored under key, or nil if no record exists.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.QueryRowContext(ctx, "SELECT value FROM app_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load record %q: %w", key, err)
	}

	return value, nil
}

// Save writes the blob under key, replacing any existing record.
func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO app_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to save record %q: %w", key, err)
	}

	return nil
}

// Delete removes the record stored under key. Deleting an absent record is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM app_state WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete record %q: %w", key, err)
	}
	return nil
}

// LoadJSON unmarshals the record stored under key into dest, which must be
// a non-nil pointer. It returns false when no record exists. A malformed
// stored blob is logged and treated identically to "no data present"; parse
// failures never propagate to the caller and never touch dest. Decoding
// goes through a scratch value because json.Unmarshal fills fields up to
// the point of a type-mismatch error, and a discarded record must not leak
// partial state.
func (s *Store) LoadJSON(ctx context.Context, key string, dest any) (bool, error) {
	blob, err := s.Load(ctx, key)
	if err != nil {
		return false, err
	}
	if blob == nil {
		return false, nil
	}

	scratch := reflect.New(reflect.TypeOf(dest).Elem())
	if err := json.Unmarshal(blob, scratch.Interface()); err != nil {
		log.Printf("discarding malformed record %q: %v", key, err)
		return false, nil
	}
	reflect.ValueOf(dest).Elem().Set(scratch.Elem())

	return true, nil
}

// SaveJSON marshals value and writes it under key.
func (s *Store) SaveJSON(ctx context.Context, key string, value any) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal record %q: %w", key, err)
	}

	return s.Save(ctx, key, blob)
}
