package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"datarw/internal/events"
	"datarw/internal/middleware"
)

// EventsHandler upgrades clients onto the org-scoped event stream
type EventsHandler struct {
	hub *events.Hub
	log zerolog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *events.Hub, log zerolog.Logger) *EventsHandler {
	return &EventsHandler{hub: hub, log: log.With().Str("component", "events-handler").Logger()}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// API-key auth already gates this route; browser origins are not a tenant boundary
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Stream subscribes the caller to their organization's events
// GET /api/events/stream
func (h *EventsHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	h.hub.Subscribe(middleware.OrgID(c), conn)
}
