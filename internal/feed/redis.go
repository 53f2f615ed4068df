package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Channel is the Redis pub/sub channel feed events travel on.
const Channel = "vendorhub:feed"

// RedisBroker publishes feed events through Redis pub/sub so subscribers on
// every server replica see them.
type RedisBroker struct {
	rdb    *redis.Client
	logger *slog.Logger

	mu      sync.Mutex
	pubsubs map[*redis.PubSub]struct{}
	closed  bool
}

// NewRedisBroker creates a broker over an existing Redis client. A nil logger
// falls back to slog.Default().
func NewRedisBroker(rdb *redis.Client, logger *slog.Logger) *RedisBroker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisBroker{
		rdb:     rdb,
		logger:  logger,
		pubsubs: make(map[*redis.PubSub]struct{}),
	}
}

// Publish serializes the event and publishes it on the feed channel.
func (b *RedisBroker) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal feed event: %w", err)
	}

	if err := b.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("publish feed event: %w", err)
	}

	countEvent(ev)
	return nil
}

// Subscribe opens a dedicated Redis subscription and decodes incoming
// messages onto the returned channel. Messages that fail to decode are
// logged and skipped.
func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan Event, func()) {
	out := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(out)
		return out, func() {}
	}
	ps := b.rdb.Subscribe(ctx, Channel)
	b.pubsubs[ps] = struct{}{}
	b.mu.Unlock()

	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn("dropping malformed feed event", "error", err)
				continue
			}
			select {
			case out <- ev:
			default:
				// Subscriber is not keeping up; drop the event for it.
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.pubsubs, ps)
			b.mu.Unlock()
			// Closing the PubSub ends the range over ps.Channel() above.
			_ = ps.Close()
		})
	}
	return out, cancel
}

// Close closes every open subscription.
func (b *RedisBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for ps := range b.pubsubs {
		_ = ps.Close()
		delete(b.pubsubs, ps)
	}
	return nil
}
