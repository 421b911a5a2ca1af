// Package events fans domain events out to connected WebSocket clients.
// Each client subscribes with its organization; broadcasts are scoped so a
// tenant only sees its own events.
package events

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types published by the services
const (
	PaymentCompleted       = "payment.completed"
	PaymentFailed          = "payment.failed"
	SurveyPublished        = "survey.published"
	SurveyResponseReceived = "survey.response.received"
)

// Event is one message on the stream
type Event struct {
	Type string      `json:"type"`
	At   time.Time   `json:"at"`
	Data interface{} `json:"data,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
)

type client struct {
	orgID primitive.ObjectID
	conn  *websocket.Conn
	send  chan Event
}

// Hub tracks subscribers and routes events to the right organization
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     zerolog.Logger
}

// NewHub creates an empty hub
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log.With().Str("component", "events").Logger(),
	}
}

// Publish delivers an event to every subscriber of the given org.
// Slow clients are dropped rather than blocking the publisher.
func (h *Hub) Publish(orgID primitive.ObjectID, eventType string, data interface{}) {
	evt := Event{Type: eventType, At: time.Now(), Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.orgID != orgID {
			continue
		}
		select {
		case c.send <- evt:
		default:
			h.log.Warn().Str("event", eventType).Msg("dropping event for slow subscriber")
		}
	}
}

// Subscribe registers a connection and pumps events to it until the
// connection dies. Blocks; callers run it from the WS handler goroutine.
func (h *Hub) Subscribe(orgID primitive.ObjectID, conn *websocket.Conn) {
	c := &client{orgID: orgID, conn: conn, send: make(chan Event, sendBufferSize)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		conn.Close()
	}()

	// Reader goroutine only exists to detect close
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case evt := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		}
	}
}

// SubscriberCount returns the number of connected clients (for tests/health)
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
