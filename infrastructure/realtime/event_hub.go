package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"video-digest/domain/model"
)

const keepAliveInterval = 25 * time.Second

// Hub fans events out to the browser tabs of the user they concern. It is an
// event publisher, so the notifier feeds it alongside the durable backend.
type Hub struct {
	mu    sync.RWMutex
	users map[string]map[chan model.Event]struct{}
}

func NewEventHub() *Hub {
	return &Hub{users: make(map[string]map[chan model.Event]struct{})}
}

// Publish never blocks; a subscriber whose buffer is full misses the event.
func (h *Hub) Publish(_ context.Context, event model.Event) error {
	userID, _ := event.Data["userId"].(string)
	if userID == "" {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.users[userID] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (h *Hub) Close(context.Context) error { return nil }

// Subscribers reports how many streams are open for a user.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// Serve streams the caller's events as server-sent events until the client
// goes away.
func (h *Hub) Serve(c *gin.Context, userID string) {
	if userID == "" {
		c.Status(http.StatusUnauthorized)
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ch := make(chan model.Event, 8)
	h.addSubscriber(userID, ch)
	defer h.removeSubscriber(userID, ch)

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			_, _ = c.Writer.Write([]byte(":ping\n\n"))
			c.Writer.Flush()
		case evt := <-ch:
			data, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			_, _ = fmt.Fprintf(c.Writer, "id: %s\nevent: %s\ndata: %s\n\n", evt.ID, evt.Type, data)
			c.Writer.Flush()
		}
	}
}

func (h *Hub) addSubscriber(userID string, ch chan model.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[userID] == nil {
		h.users[userID] = make(map[chan model.Event]struct{})
	}
	h.users[userID][ch] = struct{}{}
}

func (h *Hub) removeSubscriber(userID string, ch chan model.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.users[userID]; subs != nil {
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(h.users, userID)
		}
	}
}
