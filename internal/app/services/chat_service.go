package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/emskillz/instructpoint/internal/app/models"
	"github.com/emskillz/instructpoint/internal/app/repositories"
	"github.com/emskillz/instructpoint/internal/pkg/apperrors"
)

// ChatService defines the interface for the organization-wide chat room
type ChatService interface {
	SendMessage(ctx context.Context, sender *models.User, content string) (*models.ChatMessage, error)
	GetHistory(ctx context.Context, limit int) ([]*models.ChatMessage, error)
}

// chatServiceImpl implements the ChatService interface
type chatServiceImpl struct {
	chatRepo *repositories.ChatRepository
	logger   zerolog.Logger
}

// NewChatService creates a new chat service instance
func NewChatService(chatRepo *repositories.ChatRepository, logger zerolog.Logger) ChatService {
	return &chatServiceImpl{chatRepo: chatRepo, logger: logger}
}

// SendMessage persists and returns a chat message with sender details
// filled in for broadcasting.
func (s *chatServiceImpl) SendMessage(ctx context.Context, sender *models.User, content string) (*models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.ErrValidationFailed
	}

	message := &models.ChatMessage{
		ID:       newID(),
		SenderID: sender.ID,
		Content:  content,
	}
	if err := s.chatRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	message.SenderName = sender.FullName()
	message.SenderProfilePictureURL = sender.ProfilePhotoURL
	return message, nil
}

// GetHistory returns the most recent chat messages, oldest first.
func (s *chatServiceImpl) GetHistory(ctx context.Context, limit int) ([]*models.ChatMessage, error) {
	return s.chatRepo.GetRecent(ctx, limit)
}
