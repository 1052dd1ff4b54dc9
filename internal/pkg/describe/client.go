package describe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/emskillz/instructpoint/internal/app/models"
)

// Client errors
var (
	ErrNotConfigured = errors.New("description service is not configured")
	ErrEmptyResponse = errors.New("description service returned no content")
)

const systemPrompt = "You are an assistant that creates concise and engaging course descriptions " +
	"for medical and first aid training. Given a course type, generate a 1-2 sentence description " +
	"suitable for a course catalog, focusing on the key skills or benefits of the course. " +
	"If the course type is 'Other' or very generic, describe a supplementary skills or " +
	"specialized training course. Respond with the description text only."

// Config holds the settings for the description generation client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client calls a chat-completions style endpoint to generate course
// descriptions. Results are cached per course type: the catalog has under
// twenty types, so a warm cache answers nearly every row of a batch without
// touching the network.
type Client struct {
	http   *resty.Client
	config Config
	cache  *Cache
	logger zerolog.Logger
}

// NewClient creates a new description client.
func NewClient(config Config, cache *Cache, logger zerolog.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetHeader("Content-Type", "application/json")
	if config.APIKey != "" {
		httpClient.SetAuthToken(config.APIKey)
	}

	return &Client{
		http:   httpClient,
		config: config,
		cache:  cache,
		logger: logger,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Describe generates a 1-2 sentence catalog description for the course
// type. The caller is expected to hold a deterministic fallback; this
// method reports failures instead of masking them.
func (c *Client) Describe(ctx context.Context, courseType models.CourseType) (string, error) {
	if c.config.APIKey == "" {
		return "", ErrNotConfigured
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(courseType); ok {
			return cached, nil
		}
	}

	reqBody := chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Course type: " + string(courseType)},
		},
	}

	var chatResp chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&chatResp).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("description request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("description request failed with status %d", resp.StatusCode())
	}
	if len(chatResp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}

	if c.cache != nil {
		c.cache.Set(courseType, content)
	}

	c.logger.Debug().Str("courseType", string(courseType)).Msg("Generated course description")
	return content, nil
}
