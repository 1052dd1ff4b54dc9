package dto

import (
	"time"

	"github.com/emskillz/instructpoint/internal/app/models"
)

// SendMessageRequest represents a new chat message
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// ChatMessageResponse represents a chat message with sender details
type ChatMessageResponse struct {
	ID                      string    `json:"id"`
	SenderID                string    `json:"senderId"`
	SenderName              string    `json:"senderName"`
	SenderProfilePictureURL *string   `json:"senderProfilePictureUrl,omitempty"`
	Content                 string    `json:"content"`
	CreatedAt               time.Time `json:"createdAt"`
}

// ChatHistoryResponse wraps recent chat messages, oldest first
type ChatHistoryResponse struct {
	Messages []ChatMessageResponse `json:"messages"`
}

// ToChatMessageResponse converts a chat message model to its response representation
func ToChatMessageResponse(message *models.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:                      message.ID,
		SenderID:                message.SenderID,
		SenderName:              message.SenderName,
		SenderProfilePictureURL: message.SenderProfilePictureURL,
		Content:                 message.Content,
		CreatedAt:               message.CreatedAt,
	}
}
