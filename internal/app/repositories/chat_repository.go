package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emskillz/instructpoint/internal/app/models"
)

// ChatRepository handles database operations for chat messages
type ChatRepository struct {
	db *pgxpool.Pool
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create inserts a new chat message and fills in its creation time
func (r *ChatRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO chat_messages (id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		message.ID, message.SenderID, message.Content).Scan(&message.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating chat message: %w", err)
	}
	return nil
}

// GetRecent retrieves the most recent messages with sender details,
// returned oldest first so clients can append in order
func (r *ChatRepository) GetRecent(ctx context.Context, limit int) ([]*models.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.sender_id, m.content, m.created_at,
		       COALESCE(u.first_name || ' ' || u.last_name, 'Unknown User'),
		       u.profile_photo_url
		FROM (
			SELECT id, sender_id, content, created_at
			FROM chat_messages
			ORDER BY created_at DESC
			LIMIT $1
		) m
		LEFT JOIN users u ON u.id = m.sender_id
		ORDER BY m.created_at ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing chat messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		message := &models.ChatMessage{}
		err := rows.Scan(&message.ID, &message.SenderID, &message.Content,
			&message.CreatedAt, &message.SenderName, &message.SenderProfilePictureURL)
		if err != nil {
			return nil, fmt.Errorf("error scanning chat message row: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat message rows: %w", err)
	}
	return messages, nil
}
