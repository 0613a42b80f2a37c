package http

import (
	"github.com/gin-gonic/gin"

	"video-digest/interfaces/respond"
)

// Streamer is implemented by the realtime hub.
type Streamer interface {
	Serve(c *gin.Context, userID string)
}

type IEventsHandler interface {
	Stream(c *gin.Context)
}

type EventsHandler struct {
	streamer Streamer
}

func NewEventsHandler(streamer Streamer) IEventsHandler {
	return &EventsHandler{streamer: streamer}
}

// Stream handles GET /api/events
func (h *EventsHandler) Stream(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	h.streamer.Serve(c, user.ExternalID)
}
