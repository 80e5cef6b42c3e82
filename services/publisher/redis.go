package publisher

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"

	"math/rand"

	"github.com/redis/go-redis/v9"

	"sjsage522/fyndworker/internal/crawler"
	errs "sjsage522/fyndworker/pkg/errors"
)

// RedisPublisher implements Publisher using Redis streams
type RedisPublisher struct {
	client          *redis.Client
	ctx             context.Context
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

// Ensure RedisPublisher implements Publisher
var _ Publisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a new Redis stream publisher
func NewRedisPublisher(ctx context.Context, addr string, db int, streamPrefix string, streamCount int, streamMaxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client:          client,
		ctx:             ctx,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
	}
}

// Publish appends one deal to a Redis stream as base64-encoded JSON,
// capping the stream at the configured maximum length
func (p *RedisPublisher) Publish(deal crawler.Deal) error {
	payload, err := json.Marshal(deal)
	if err != nil {
		return errs.NewPublisher("redis", "failed to encode deal", err)
	}
	encodedMessage := base64.StdEncoding.EncodeToString(payload)

	// random stream name by streamCount
	// if streamCount is 10, stream name will be stream:0 ~ stream:9
	stream := p.streamPrefix + ":" + strconv.Itoa(rand.Intn(p.streamCount))

	err = p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: int64(p.streamMaxLength),
		Approx: true,
		Values: map[string]interface{}{
			strings.ToLower(deal.Provider): encodedMessage,
		},
	}).Err()
	if err != nil {
		return errs.NewPublisher("redis", "failed to append to stream", err)
	}

	return nil
}

// NotifyFailure is a no-op; stream consumers are machines, not operators
func (p *RedisPublisher) NotifyFailure(message string) error {
	return nil
}

// GetName returns the publisher name
func (p *RedisPublisher) GetName() string {
	return "redis"
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
