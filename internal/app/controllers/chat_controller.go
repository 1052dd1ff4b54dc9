package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emskillz/instructpoint/internal/app/models/dto"
	"github.com/emskillz/instructpoint/internal/app/services"
	"github.com/emskillz/instructpoint/internal/middleware"
	"github.com/emskillz/instructpoint/internal/pkg/apperrors"
	"github.com/emskillz/instructpoint/internal/pkg/websocket"
)

// ChatController handles the shared chat room's REST surface
type ChatController struct {
	chatService services.ChatService
	hub         *websocket.Hub
	logger      zerolog.Logger
}

// NewChatController creates a new ChatController
func NewChatController(chatService services.ChatService, hub *websocket.Hub, logger zerolog.Logger) *ChatController {
	return &ChatController{
		chatService: chatService,
		hub:         hub,
		logger:      logger,
	}
}

// GetHistory returns recent chat messages
// @Summary Get chat history
// @Description Returns the most recent chat messages in chronological order. Senders whose accounts were deleted appear as "Unknown User".
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of messages (default 50)"
// @Success 200 {object} dto.ChatHistoryResponse "Chat history"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /chat/messages [get]
func (c *ChatController) GetHistory(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	messages, err := c.chatService.GetHistory(ctx.Request.Context(), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ChatHistoryResponse{
		Messages: make([]dto.ChatMessageResponse, 0, len(messages)),
	}
	for _, message := range messages {
		resp.Messages = append(resp.Messages, dto.ToChatMessageResponse(message))
	}
	ctx.JSON(http.StatusOK, resp)
}

// SendMessage posts a chat message over REST
// @Summary Send a chat message
// @Description Persists a chat message and broadcasts it to connected websocket clients.
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendMessageRequest true "Message content"
// @Success 201 {object} dto.ChatMessageResponse "Sent message"
// @Failure 400 {object} dto.ErrorResponse "Empty or oversized message"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /chat/messages [post]
func (c *ChatController) SendMessage(ctx *gin.Context) {
	sender, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	var req dto.SendMessageRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	message, err := c.chatService.SendMessage(ctx.Request.Context(), sender, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	// The ID marks the message as already persisted so the hub's
	// persistence listener does not store it twice.
	c.hub.Broadcast(&websocket.Message{
		ID:                      message.ID,
		SenderID:                message.SenderID,
		SenderName:              message.SenderName,
		SenderProfilePictureURL: message.SenderProfilePictureURL,
		Content:                 message.Content,
		Timestamp:               message.CreatedAt,
	})

	ctx.JSON(http.StatusCreated, dto.ToChatMessageResponse(message))
}
