package storage

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/lib/pq"

	"github.com/KamilKwapisz/car-prices/internal/crawler"
	"github.com/KamilKwapisz/car-prices/pkg/errors"
)

// PostgresStore mirrors crawled records into a cars table. It is an
// optional second sink next to the CSV file, which stays the source of
// truth for the dashboard.
type PostgresStore struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// NewPostgresStore connects to the database and ensures the cars table
// exists
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewStorage("postgres", "failed to open database", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.NewStorage("postgres", "failed to ping database", err)
	}

	store := &PostgresStore{db: db}
	if err := store.ensureTable(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *PostgresStore) ensureTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS cars (
		id           SERIAL PRIMARY KEY,
		make         TEXT NOT NULL,
		model        TEXT NOT NULL,
		year         TEXT NOT NULL,
		mileage      TEXT NOT NULL,
		petrol_type  TEXT NOT NULL,
		type         TEXT NOT NULL,
		no_accidents BOOLEAN NOT NULL DEFAULT FALSE,
		price        INTEGER NOT NULL,
		currency     TEXT NOT NULL,
		scraped_at   TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_cars_make_model ON cars (make, model);
	CREATE INDEX IF NOT EXISTS idx_cars_price      ON cars (price);
	`
	if _, err := s.db.Exec(query); err != nil {
		return errors.NewStorage("postgres", "failed to create cars table", err)
	}
	return nil
}

// Append inserts one record
func (s *PostgresStore) Append(record crawler.CarRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.NewStorage("postgres", "store is closed", nil)
	}

	_, err := s.db.Exec(`
		INSERT INTO cars (make, model, year, mileage, petrol_type, type, no_accidents, price, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.Make, record.Model, record.Year, record.Mileage,
		record.PetrolType, record.BodyType, record.NoAccidents,
		record.Price, record.Currency,
	)
	if err != nil {
		return errors.NewStorage("postgres", "failed to insert record", err)
	}
	return nil
}

// Close closes the database connection. Calling Close again is a no-op.
func (s *PostgresStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.db.Close(); err != nil {
		return errors.NewStorage("postgres", "failed to close database", err)
	}
	return nil
}
