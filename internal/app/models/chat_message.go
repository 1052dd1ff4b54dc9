package models

import "time"

// ChatMessage represents a message in the organization-wide chat room, based
// on the 'chat_messages' table.
type ChatMessage struct {
	ID         string    `json:"id" db:"id"`
	SenderID   string    `json:"senderId" db:"sender_id"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	SenderName              string  `json:"senderName,omitempty"`
	SenderProfilePictureURL *string `json:"senderProfilePictureUrl,omitempty"`
}
