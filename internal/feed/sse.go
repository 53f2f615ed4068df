package feed

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

// heartbeatInterval is how often an SSE comment is sent on an idle stream so
// intermediate proxies do not drop the connection.
const heartbeatInterval = 30 * time.Second

// SSEHandler streams feed events to the client as Server-Sent Events. The
// stream stays open until the client disconnects or the broker shuts down.
func SSEHandler(broker Broker) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, cancel := broker.Subscribe(c.Request.Context())
		defer cancel()

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		c.Stream(func(w io.Writer) bool {
			select {
			case ev, ok := <-events:
				if !ok {
					return false
				}
				c.SSEvent(ev.Type, ev)
				return true
			case <-heartbeat.C:
				c.SSEvent("heartbeat", time.Now().Unix())
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
