package worker

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KamilKwapisz/car-prices/internal/crawler"
	"github.com/KamilKwapisz/car-prices/pkg/errors"
	"github.com/KamilKwapisz/car-prices/services/publisher"
	"github.com/KamilKwapisz/car-prices/services/storage"
)

// MockHarvester implements the LinkHarvester interface for testing
type MockHarvester struct {
	links []string
}

var _ LinkHarvester = (*MockHarvester)(nil)

func (m *MockHarvester) Harvest(ctx context.Context) []string {
	return m.links
}

func (m *MockHarvester) CarName() string {
	return "test_car"
}

// MockParser implements the ListingParser interface for testing
type MockParser struct {
	results map[string]*crawler.CarRecord
	errs    map[string]error
}

var _ ListingParser = (*MockParser)(nil)

func (m *MockParser) Parse(url string) (*crawler.CarRecord, error) {
	if err, ok := m.errs[url]; ok {
		return nil, err
	}
	return m.results[url], nil
}

// MockStore implements the storage.Store interface for testing
type MockStore struct {
	mu        sync.Mutex
	records   []crawler.CarRecord
	appendErr error
	closed    int
}

var _ storage.Store = (*MockStore)(nil)

func (m *MockStore) Append(record crawler.CarRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.records = append(m.records, record)
	return nil
}

func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

// MockPublisher implements the publisher.Publisher interface for testing
type MockPublisher struct {
	messages [][]byte
}

var _ publisher.Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(message []byte) error {
	m.messages = append(m.messages, message)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

func TestWorkerRun(t *testing.T) {
	complete := &crawler.CarRecord{Make: "volkswagen", Model: "golf", Price: 25000, Currency: "PLN"}

	harvester := &MockHarvester{links: []string{"http://a", "http://b", "http://c", "http://d"}}
	parser := &MockParser{
		results: map[string]*crawler.CarRecord{"http://a": complete},
		errs: map[string]error{
			"http://b": errors.NewIncomplete("translate", "missing crucial data: year"),
			"http://c": errors.NewNetwork("parser", "fetch failed", nil),
			"http://d": errors.NewStructure("parser", "offer parameter block not found"),
		},
	}
	store := &MockStore{}
	pub := &MockPublisher{}

	w := NewWorker(harvester, parser, store, pub)
	stats := w.Run(context.Background())

	assert.Equal(t, 4, stats.LinksFound)
	assert.Equal(t, 1, stats.Written)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 1, stats.FetchErrors)
	assert.Equal(t, 1, stats.OtherErrors)
	assert.Equal(t, 0, stats.WriteErrors)

	// Exactly one record was persisted and published
	assert.Len(t, store.records, 1)
	assert.Equal(t, "golf", store.records[0].Model)
	assert.Len(t, pub.messages, 1)
	assert.Contains(t, string(pub.messages[0]), `"model":"golf"`)

	// Store is closed once the listing list is exhausted
	assert.Equal(t, 1, store.closed)
}

func TestWorkerCountsWriteErrors(t *testing.T) {
	record := &crawler.CarRecord{Make: "audi", Model: "a4"}

	harvester := &MockHarvester{links: []string{"http://a"}}
	parser := &MockParser{results: map[string]*crawler.CarRecord{"http://a": record}}
	store := &MockStore{appendErr: errors.NewStorage("csv", "disk gone", nil)}

	w := NewWorker(harvester, parser, store, nil)
	stats := w.Run(context.Background())

	// The write failure is logged and counted, never fatal
	assert.Equal(t, 0, stats.Written)
	assert.Equal(t, 1, stats.WriteErrors)
}

func TestWorkerNilPublisher(t *testing.T) {
	record := &crawler.CarRecord{Make: "audi", Model: "a4"}

	harvester := &MockHarvester{links: []string{"http://a"}}
	parser := &MockParser{results: map[string]*crawler.CarRecord{"http://a": record}}
	store := &MockStore{}

	w := NewWorker(harvester, parser, store, nil)
	stats := w.Run(context.Background())

	assert.Equal(t, 1, stats.Written)
}

func TestWorkerStopsOnCancelledContext(t *testing.T) {
	harvester := &MockHarvester{links: []string{"http://a", "http://b"}}
	parser := &MockParser{results: map[string]*crawler.CarRecord{}}
	store := &MockStore{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWorker(harvester, parser, store, nil)
	stats := w.Run(ctx)

	assert.Equal(t, 0, stats.Written)
	assert.Equal(t, 1, store.closed)
}
