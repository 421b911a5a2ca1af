package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var upgrader = websocket.Upgrader{}

func newHubServer(t *testing.T, hub *Hub, orgID primitive.ObjectID) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Subscribe(orgID, conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d subscribers, have %d", want, hub.SubscriberCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPublishReachesSubscriber(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	orgID := primitive.NewObjectID()
	conn := dial(t, newHubServer(t, hub, orgID))
	waitForSubscribers(t, hub, 1)

	hub.Publish(orgID, SurveyPublished, map[string]string{"surveyId": "abc"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt Event
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, SurveyPublished, evt.Type)
	assert.False(t, evt.At.IsZero())
}

func TestPublishIsOrgScoped(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	orgA := primitive.NewObjectID()
	orgB := primitive.NewObjectID()

	connA := dial(t, newHubServer(t, hub, orgA))
	connB := dial(t, newHubServer(t, hub, orgB))
	waitForSubscribers(t, hub, 2)

	hub.Publish(orgA, PaymentCompleted, nil)

	connA.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt Event
	require.NoError(t, connA.ReadJSON(&evt))
	assert.Equal(t, PaymentCompleted, evt.Type)

	connB.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	assert.Error(t, connB.ReadJSON(&evt))
}

func TestSubscriberRemovedOnClose(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	orgID := primitive.NewObjectID()
	conn := dial(t, newHubServer(t, hub, orgID))
	waitForSubscribers(t, hub, 1)

	conn.Close()
	waitForSubscribers(t, hub, 0)

	// Publishing with nobody listening must not panic
	hub.Publish(orgID, PaymentFailed, nil)
}
