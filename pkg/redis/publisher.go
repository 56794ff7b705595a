package redis

import (
	"context"
	"fmt"

	"ai-support-chat-be/pkg/events"

	"github.com/redis/go-redis/v9"
)

// Publisher fans events out over Redis pub/sub, one channel per event type.
type Publisher struct {
	rdb *redis.Client
}

var _ events.Publisher = &Publisher{}

// NewPublisher parses url (redis://...) or falls back to treating it as host:port,
// then pings the server.
func NewPublisher(ctx context.Context, url string) (*Publisher, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Publisher{rdb: rdb}, nil
}

// NewPublisherFromClient wraps an existing client.
func NewPublisherFromClient(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	data, err := events.Encode(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	channel := events.Subject(event)
	if err := p.rdb.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event to channel %s: %w", channel, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.rdb.Close()
}
