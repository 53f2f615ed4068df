package feed

import (
	"context"
	"sync"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls this far behind starts missing events rather than blocking publishers.
const subscriberBuffer = 16

// MemoryBroker fans events out to in-process subscribers. Suitable for
// single-instance deployments; events never leave the process.
type MemoryBroker struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

// NewMemoryBroker creates an in-process broker.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		subs: make(map[chan Event]struct{}),
	}
}

// Publish delivers the event to every subscriber that has buffer space.
func (b *MemoryBroker) Publish(_ context.Context, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	countEvent(ev)

	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber is not keeping up; drop the event for it.
		}
	}
	return nil
}

// Subscribe registers a new subscriber channel.
func (b *MemoryBroker) Subscribe(_ context.Context) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if _, ok := b.subs[ch]; ok {
				delete(b.subs, ch)
				close(ch)
			}
			b.mu.Unlock()
		})
	}
	return ch, cancel
}

// SubscriberCount reports how many subscribers are currently attached.
func (b *MemoryBroker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close shuts the broker down and closes all subscriber channels.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	return nil
}
