package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addClient(hub *Hub, client *Client) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.clients[client] = true
}

func TestBroadcastDropsSlowClientWithoutBlocking(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	slow := &Client{hub: hub, send: make(chan []byte, 1), userID: "slow"}
	healthy := &Client{hub: hub, send: make(chan []byte, 8), userID: "healthy"}
	slow.send <- []byte("backlog")

	addClient(hub, slow)
	addClient(hub, healthy)

	done := make(chan struct{})
	go func() {
		hub.Broadcast(&Message{SenderID: "u1", Content: "first"})
		hub.Broadcast(&Message{SenderID: "u1", Content: "second"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a client with a full send buffer")
	}

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond,
		"slow client should have been dropped")
	assert.Eventually(t, func() bool { return len(healthy.send) == 2 }, time.Second, 10*time.Millisecond,
		"healthy client should receive both messages")
}

func TestReadPumpClearsClientSuppliedID(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	received := make(chan *Message, 1)
	hub.AddMessageListener(received)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := &Client{
			hub:      hub,
			conn:     conn,
			send:     make(chan []byte, 8),
			userID:   "user-1",
			userName: "Jamie Doe",
			logger:   zerolog.Nop(),
		}
		hub.register <- client
		go client.writePump()
		client.readPump()
	}))
	defer srv.Close()

	conn, _, err := gws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	// A client claiming an ID and a foreign sender must have both replaced
	// before the message reaches the persistence listeners.
	payload := `{"id":"already-stored","senderId":"someone-else","content":"hello"}`
	require.NoError(t, conn.WriteMessage(gws.TextMessage, []byte(payload)))

	select {
	case msg := <-received:
		assert.Empty(t, msg.ID)
		assert.Equal(t, "user-1", msg.SenderID)
		assert.Equal(t, "Jamie Doe", msg.SenderName)
		assert.Equal(t, "hello", msg.Content)
		assert.False(t, msg.Timestamp.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("message never reached the hub listeners")
	}
}
