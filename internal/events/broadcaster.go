package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultChannelPrefix is prepended to the session id to form the pub/sub channel.
const DefaultChannelPrefix = "ride-events"

// Broadcaster publishes events to Redis Pub/Sub, one channel per session
type Broadcaster struct {
	redisClient *redis.Client
	prefix      string
	logger      *slog.Logger
}

var _ Sink = (*Broadcaster)(nil)

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, prefix string, logger *slog.Logger) *Broadcaster {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &Broadcaster{
		redisClient: redisClient,
		prefix:      prefix,
		logger:      logger,
	}
}

// NewRedisClient parses a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// Channel returns the channel events for a session are published on.
func (b *Broadcaster) Channel(sessionID string) string {
	return fmt.Sprintf("%s:%s", b.prefix, sessionID)
}

// Publish publishes an event to the session-specific channel
func (b *Broadcaster) Publish(ctx context.Context, event Event) error {
	channel := b.Channel(event.SessionID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event", event)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
		"passenger_id", event.PassengerID,
	)

	return nil
}

// Subscribe listens on a session's channel and decodes events until ctx is
// done. Messages that fail to decode are logged and skipped.
func (b *Broadcaster) Subscribe(ctx context.Context, sessionID string) (<-chan Event, error) {
	sub := b.redisClient.Subscribe(ctx, b.Channel(sessionID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.logger.Warn("Dropping undecodable event", "error", err, "channel", msg.Channel)
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
