package feed

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/db/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func samplePost() *models.Post {
	return &models.Post{
		ID:        "post-1",
		VendorID:  "vendor-1",
		Body:      "New arrivals this week",
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

// ---------------------------------------------------------------------------
// Event constructors
// ---------------------------------------------------------------------------

func TestPostCreated(t *testing.T) {
	ev := PostCreated(samplePost())
	if ev.Type != EventPostCreated {
		t.Errorf("Type = %q, want %q", ev.Type, EventPostCreated)
	}
	if ev.Post == nil || ev.Post.ID != "post-1" {
		t.Errorf("Post = %+v, want the source post", ev.Post)
	}
}

func TestPostDeleted(t *testing.T) {
	ev := PostDeleted("post-9")
	if ev.Type != EventPostDeleted {
		t.Errorf("Type = %q, want %q", ev.Type, EventPostDeleted)
	}
	if ev.PostID != "post-9" {
		t.Errorf("PostID = %q, want \"post-9\"", ev.PostID)
	}
	if ev.Post != nil {
		t.Errorf("Post = %+v, want nil on deletion events", ev.Post)
	}
}

// ---------------------------------------------------------------------------
// MemoryBroker
// ---------------------------------------------------------------------------

func TestMemoryBroker_PublishReachesSubscriber(t *testing.T) {
	b := NewMemoryBroker()
	defer b.Close()

	events, cancel := b.Subscribe(context.Background())
	defer cancel()

	if err := b.Publish(context.Background(), PostCreated(samplePost())); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case ev := <-events:
		if ev.Type != EventPostCreated {
			t.Errorf("Type = %q, want %q", ev.Type, EventPostCreated)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestMemoryBroker_FanOutToMultipleSubscribers(t *testing.T) {
	b := NewMemoryBroker()
	defer b.Close()

	ch1, cancel1 := b.Subscribe(context.Background())
	defer cancel1()
	ch2, cancel2 := b.Subscribe(context.Background())
	defer cancel2()

	b.Publish(context.Background(), PostDeleted("post-1"))

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.PostID != "post-1" {
				t.Errorf("subscriber %d: PostID = %q, want \"post-1\"", i, ev.PostID)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: timed out waiting for event", i)
		}
	}
}

func TestMemoryBroker_CancelRemovesSubscriber(t *testing.T) {
	b := NewMemoryBroker()
	defer b.Close()

	events, cancel := b.Subscribe(context.Background())
	if got := b.SubscriberCount(); got != 1 {
		t.Fatalf("SubscriberCount() = %d, want 1", got)
	}

	cancel()
	if got := b.SubscriberCount(); got != 0 {
		t.Errorf("SubscriberCount() after cancel = %d, want 0", got)
	}

	// Channel must be closed so range loops over it terminate.
	if _, ok := <-events; ok {
		t.Error("expected subscriber channel to be closed after cancel")
	}

	// Cancel twice is safe.
	cancel()
}

func TestMemoryBroker_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	b := NewMemoryBroker()
	defer b.Close()

	_, cancel := b.Subscribe(context.Background())
	defer cancel()

	// Publish well past the subscriber buffer without draining. Publish must
	// not block; overflow events are dropped for that subscriber.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			b.Publish(context.Background(), PostDeleted("post-x"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestMemoryBroker_CloseClosesSubscribers(t *testing.T) {
	b := NewMemoryBroker()

	events, _ := b.Subscribe(context.Background())
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, ok := <-events; ok {
		t.Error("expected subscriber channel to be closed after broker Close")
	}

	// Subscribe after close returns a closed channel.
	late, _ := b.Subscribe(context.Background())
	if _, ok := <-late; ok {
		t.Error("expected post-close Subscribe to return a closed channel")
	}

	// Publish after close is a no-op, not a panic.
	if err := b.Publish(context.Background(), PostDeleted("post-1")); err != nil {
		t.Errorf("Publish() after close error = %v, want nil", err)
	}
}

// ---------------------------------------------------------------------------
// SSEHandler
// ---------------------------------------------------------------------------

func TestSSEHandler_StreamsEvents(t *testing.T) {
	b := NewMemoryBroker()
	defer b.Close()

	r := gin.New()
	r.GET("/v1/feed", SSEHandler(b))

	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancelReq := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelReq()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/feed", nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /v1/feed error = %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	// Wait for the handler goroutine to register its subscription before
	// publishing, otherwise the event is lost.
	deadline := time.Now().Add(2 * time.Second)
	for b.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("handler never subscribed to the broker")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := b.Publish(context.Background(), PostCreated(samplePost())); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	scanner := bufio.NewScanner(resp.Body)
	var sawEvent, sawData bool
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event:") && strings.Contains(line, EventPostCreated) {
			sawEvent = true
		}
		if strings.HasPrefix(line, "data:") && strings.Contains(line, `"post-1"`) {
			sawData = true
		}
		if sawEvent && sawData {
			break
		}
	}
	if !sawEvent {
		t.Error("never saw an event: line for post.created")
	}
	if !sawData {
		t.Error("never saw a data: line carrying the post")
	}
}
