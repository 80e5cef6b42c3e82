package publisher

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/fyndworker/internal/crawler"
)

func TestRedisPublisher(t *testing.T) {
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   0,
	})
	defer client.Close()

	// Test if Redis is available
	if _, err := client.Ping(ctx).Result(); err != nil {
		t.Skip("Redis is not available, skipping test")
	}

	publisher := NewRedisPublisher(ctx, "localhost:6379", 0, "fyndtest", 1, 10)
	defer publisher.Close()
	defer client.Del(ctx, "fyndtest:0")

	deal := sampleDeal()
	require.NoError(t, publisher.Publish(deal))

	messages, err := client.XRange(ctx, "fyndtest:0", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)

	encoded, ok := messages[0].Values["sweclockers"].(string)
	require.True(t, ok, "message should be keyed by lowercased provider")

	payload, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	var got crawler.Deal
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, deal.Title, got.Title)
	assert.Equal(t, deal.Link, got.Link)
	assert.Equal(t, deal.Price.Text, got.Price.Text)
}
