package storage

import (
	"encoding/csv"
	"os"
	"sync"

	"github.com/KamilKwapisz/car-prices/internal/crawler"
	"github.com/KamilKwapisz/car-prices/pkg/errors"
)

// CSVStore appends records to a headerless comma-delimited file. The file
// is opened once per crawl session in append mode, so separate sessions
// against the same path accumulate rows without touching existing ones.
type CSVStore struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	closed bool
}

// NewCSVStore opens (or creates) the file at path in append mode
func NewCSVStore(path string) (*CSVStore, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.NewStorage("csv", "failed to open "+path, err)
	}

	return &CSVStore{
		file:   file,
		writer: csv.NewWriter(file),
	}, nil
}

// Append writes one record as a row in the fixed column order and flushes
// it to disk
func (s *CSVStore) Append(record crawler.CarRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.NewStorage("csv", "store is closed", nil)
	}

	if err := s.writer.Write(record.Fields()); err != nil {
		return errors.NewStorage("csv", "failed to write row", err)
	}

	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return errors.NewStorage("csv", "failed to flush row", err)
	}

	return nil
}

// Close flushes and closes the file. Calling Close again is a no-op.
func (s *CSVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.writer.Flush()
	if err := s.file.Close(); err != nil {
		return errors.NewStorage("csv", "failed to close file", err)
	}
	return nil
}
