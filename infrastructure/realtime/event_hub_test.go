package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-digest/domain/model"
)

func TestPublishReachesOnlyTheOwner(t *testing.T) {
	hub := NewEventHub()
	mine := make(chan model.Event, 1)
	theirs := make(chan model.Event, 1)
	hub.addSubscriber("user_1", mine)
	hub.addSubscriber("user_2", theirs)

	require.NoError(t, hub.Publish(context.Background(), model.Event{ID: "1", Type: model.EventCreditApplied, Data: map[string]interface{}{"userId": "user_1"}}))

	assert.Len(t, mine, 1)
	assert.Len(t, theirs, 0)
}

func TestPublishDropsWhenSubscriberIsFull(t *testing.T) {
	hub := NewEventHub()
	ch := make(chan model.Event, 1)
	hub.addSubscriber("user_1", ch)
	event := model.Event{Data: map[string]interface{}{"userId": "user_1"}}

	require.NoError(t, hub.Publish(context.Background(), event))
	require.NoError(t, hub.Publish(context.Background(), event))

	assert.Len(t, ch, 1)
}

func TestServeStreamsEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewEventHub()
	router := gin.New()
	router.GET("/events", func(c *gin.Context) { hub.Serve(c, "user_1") })
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return hub.Subscribers("user_1") == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, hub.Publish(ctx, model.Event{ID: "evt-1", Type: model.EventAnalysisCompleted, Data: map[string]interface{}{"userId": "user_1"}}))

	buf := make([]byte, 0, 512)
	chunk := make([]byte, 256)
	for !strings.Contains(string(buf), "event: analysis.completed") {
		n, err := resp.Body.Read(chunk)
		require.NoError(t, err)
		buf = append(buf, chunk[:n]...)
	}
	assert.Contains(t, string(buf), "id: evt-1")
}
