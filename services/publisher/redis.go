package publisher

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// recordsKey is the field name carrying the JSON record in each stream
// entry
const recordsKey = "record"

// RedisPublisher implements Publisher on a Redis stream. Each persisted
// record is added as one stream entry; the stream is capped so an
// unattended crawl cannot grow it without bound.
type RedisPublisher struct {
	client    *redis.Client
	ctx       context.Context
	stream    string
	maxLength int64
}

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(ctx context.Context, addr string, db int, stream string, maxLength int64) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client:    client,
		ctx:       ctx,
		stream:    stream,
		maxLength: maxLength,
	}
}

// Publish adds the record to the stream, trimming it to the configured
// approximate maximum length
func (p *RedisPublisher) Publish(message []byte) error {
	return p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLength,
		Approx: true,
		Values: map[string]interface{}{
			recordsKey: string(message),
		},
	}).Err()
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
