package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteSendsChatRequest(t *testing.T) {
	var got chatRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "a blog post"}},
			},
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(Config{
		APIKey:  "sk-test",
		BaseURL: srv.URL,
		Model:   "test-model",
	})

	text, err := client.Complete(context.Background(), "write about cheese")
	require.NoError(t, err)

	assert.Equal(t, "a blog post", text)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "write about cheese", got.Messages[1].Content)
	assert.False(t, got.Stream)
}

func TestCompleteNoAuthHeaderWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "local output"}},
			},
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(Config{BaseURL: srv.URL, Model: "local"})

	text, err := client.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "local output", text)
}

func TestCompleteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewHTTPClient(Config{BaseURL: srv.URL, Model: "m"})

	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCompleteAPIErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "invalid model", "type": "invalid_request_error"},
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(Config{BaseURL: srv.URL, Model: "bad"})

	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid model")
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	client := NewHTTPClient(Config{BaseURL: srv.URL, Model: "m"})

	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
}
