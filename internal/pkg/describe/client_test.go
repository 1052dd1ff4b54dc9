package describe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emskillz/instructpoint/internal/app/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}, NewCache(8, time.Minute), zerolog.Nop())
	return client, server
}

func TestDescribe_ReturnsGeneratedContent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  Hands-on BLS training for providers.  "}}]}`))
	})

	description, err := client.Describe(context.Background(), models.CourseBLSProvider)
	require.NoError(t, err)
	assert.Equal(t, "Hands-on BLS training for providers.", description)
}

func TestDescribe_CachesPerCourseType(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Cached description."}}]}`))
	})

	for i := 0; i < 3; i++ {
		description, err := client.Describe(context.Background(), models.CourseACLSProvider)
		require.NoError(t, err)
		assert.Equal(t, "Cached description.", description)
	}
	assert.Equal(t, 1, calls)
}

func TestDescribe_ServerErrorIsReported(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Describe(context.Background(), models.CourseHeartsaverFirstAid)
	assert.Error(t, err)
}

func TestDescribe_EmptyChoicesIsReported(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Describe(context.Background(), models.CourseOther)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestDescribe_MissingAPIKey(t *testing.T) {
	client := NewClient(Config{}, nil, zerolog.Nop())
	_, err := client.Describe(context.Background(), models.CourseBLSProvider)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
