package storage

import (
	"github.com/KamilKwapisz/car-prices/internal/crawler"
)

// Store is an append-only sink for car records, bound to one destination
// for the lifetime of a crawl session
type Store interface {
	// Append writes one record as a new row
	Append(record crawler.CarRecord) error

	// Close releases the underlying handle. Close is idempotent.
	Close() error
}

// MultiStore fans an append out to several stores. The first append error
// is returned after every store has been tried.
type MultiStore struct {
	stores []Store
}

// NewMultiStore creates a store writing to all the given stores
func NewMultiStore(stores ...Store) *MultiStore {
	return &MultiStore{stores: stores}
}

// Append writes the record to every store
func (m *MultiStore) Append(record crawler.CarRecord) error {
	var firstErr error
	for _, s := range m.stores {
		if err := s.Append(record); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close closes every store
func (m *MultiStore) Close() error {
	var firstErr error
	for _, s := range m.stores {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
