// Package feed implements the live post feed. Post create/delete events are
// published to a broker and fanned out to connected storefront clients over
// Server-Sent Events.
//
// Two brokers satisfy the Broker interface: a Redis pub/sub broker used when
// Redis is configured, so events reach subscribers on every server replica,
// and an in-process broker for single-instance deployments and tests.
package feed

import (
	"context"

	"github.com/vendorhub/vendorhub/internal/db/models"
	"github.com/vendorhub/vendorhub/internal/telemetry"
)

// Event types carried on the feed.
const (
	EventPostCreated = "post.created"
	EventPostDeleted = "post.deleted"
)

// Event is one feed message. Created events carry the full post; deleted
// events carry only the post id.
type Event struct {
	Type   string       `json:"type"`
	Post   *models.Post `json:"post,omitempty"`
	PostID string       `json:"post_id,omitempty"`
}

// Broker distributes feed events to subscribers.
type Broker interface {
	// Publish sends an event to all current subscribers.
	Publish(ctx context.Context, ev Event) error

	// Subscribe registers a new subscriber and returns its event channel
	// together with a cancel function. The channel is closed when cancel is
	// called or the broker shuts down. Slow subscribers may miss events;
	// the feed is a live stream, not a durable log.
	Subscribe(ctx context.Context) (<-chan Event, func())

	// Close shuts the broker down and closes all subscriber channels.
	Close() error
}

// PostCreated builds a creation event for the given post.
func PostCreated(post *models.Post) Event {
	return Event{Type: EventPostCreated, Post: post}
}

// PostDeleted builds a deletion event for the given post id.
func PostDeleted(postID string) Event {
	return Event{Type: EventPostDeleted, PostID: postID}
}

func countEvent(ev Event) {
	telemetry.FeedEventsTotal.WithLabelValues(ev.Type).Inc()
}
