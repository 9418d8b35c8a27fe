package publisher

// Publisher represents a service for publishing crawled records to
// downstream consumers
type Publisher interface {
	// Publish publishes one serialized record
	Publish(message []byte) error

	// Close closes the publisher connection
	Close() error
}
