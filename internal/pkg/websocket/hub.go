package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Hub maintains the set of active clients in the organization-wide chat
// room and broadcasts messages to them.
type Hub struct {
	clients map[*Client]bool

	// Inbound messages from clients
	broadcast chan *Message

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	listenersMu      sync.RWMutex
	messageListeners []chan *Message

	logger zerolog.Logger
}

// Message represents a chat message sent over WebSocket
type Message struct {
	ID                      string    `json:"id,omitempty"`
	SenderID                string    `json:"senderId"`
	SenderName              string    `json:"senderName,omitempty"`
	SenderProfilePictureURL *string   `json:"senderProfilePictureUrl,omitempty"`
	Content                 string    `json:"content"`
	Timestamp               time.Time `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:        make(chan *Message),
		register:         make(chan *Client),
		unregister:       make(chan *Client),
		clients:          make(map[*Client]bool),
		messageListeners: []chan *Message{},
		logger:           logger,
	}
}

// Run starts the hub, handling client registrations and broadcasts
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info().
		Str("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Chat client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		h.logger.Info().
			Str("userID", client.userID).
			Msg("Chat client unregistered")
	}
}

func (h *Hub) broadcastMessage(message *Message) {
	h.notifyMessageListeners(message)

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal message for broadcast")
		return
	}

	// Slow clients cannot be pushed onto h.unregister here: Run is the only
	// reader of that channel and it is the caller of this method, so the send
	// would deadlock the hub. Collect them and drop them after the lock.
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			slow = append(slow, client)
		}
	}
	clientCount := len(h.clients)
	h.mu.RUnlock()

	for _, client := range slow {
		h.unregisterClient(client)
	}

	h.logger.Debug().Int("clientCount", clientCount).Msg("Message broadcasted")
}

func (h *Hub) notifyMessageListeners(message *Message) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.messageListeners {
		select {
		case listener <- message:
		default:
			h.logger.Warn().Msg("Skipped slow message listener")
		}
	}
}

// Broadcast sends a message to every connected client
func (h *Hub) Broadcast(message *Message) {
	h.broadcast <- message
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// AddMessageListener registers a channel to receive all broadcast messages
func (h *Hub) AddMessageListener(listener chan *Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	h.messageListeners = append(h.messageListeners, listener)
}

// RemoveMessageListener removes a listener from the hub
func (h *Hub) RemoveMessageListener(listener chan *Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.messageListeners {
		if l == listener {
			h.messageListeners[i] = h.messageListeners[len(h.messageListeners)-1]
			h.messageListeners = h.messageListeners[:len(h.messageListeners)-1]
			break
		}
	}
}
