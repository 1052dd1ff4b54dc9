package websocket

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/emskillz/instructpoint/internal/app/models"
	"github.com/emskillz/instructpoint/internal/app/repositories"
)

// MessageHandler persists WebSocket chat messages and enriches them with
// sender details before they reach other clients.
type MessageHandler struct {
	chatRepo *repositories.ChatRepository
	userRepo *repositories.UserRepository
	hub      *Hub
	logger   zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(
	chatRepo *repositories.ChatRepository,
	userRepo *repositories.UserRepository,
	hub *Hub,
	logger zerolog.Logger,
) *MessageHandler {
	return &MessageHandler{
		chatRepo: chatRepo,
		userRepo: userRepo,
		hub:      hub,
		logger:   logger,
	}
}

// Start begins processing messages from the hub
func (h *MessageHandler) Start() {
	go h.processMessages()
}

func (h *MessageHandler) processMessages() {
	messageChan := make(chan *Message, 64)
	h.hub.AddMessageListener(messageChan)

	for message := range messageChan {
		// REST-originated messages arrive with their database id already set
		if message.ID != "" {
			continue
		}
		h.persistMessage(message)
	}
}

func (h *MessageHandler) persistMessage(message *Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	chatMessage := &models.ChatMessage{
		ID:       uuid.New().String(),
		SenderID: message.SenderID,
		Content:  message.Content,
	}
	if err := h.chatRepo.Create(ctx, chatMessage); err != nil {
		h.logger.Error().Err(err).Str("senderID", message.SenderID).Msg("Failed to save WebSocket message")
		return
	}

	message.ID = chatMessage.ID

	if message.SenderName == "" {
		if sender, err := h.userRepo.GetByID(ctx, message.SenderID); err == nil {
			message.SenderName = sender.FullName()
			message.SenderProfilePictureURL = sender.ProfilePhotoURL
		}
	}

	h.logger.Debug().Str("messageID", chatMessage.ID).Msg("WebSocket message saved")
}
