package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiClient_Generate(t *testing.T) {
	var captured geminiRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [
				{"content": {"parts": [{"text": "{\"files\": []}"}]}, "finishReason": "STOP"}
			]
		}`))
	}))
	defer srv.Close()

	client := NewGeminiClient(srv.URL, "test-key", 5*time.Second)

	answer, err := client.Generate(context.Background(), "build me an app")
	require.NoError(t, err)
	assert.Equal(t, `{"files": []}`, answer)

	require.Len(t, captured.Contents, 1)
	require.Len(t, captured.Contents[0].Parts, 1)
	assert.Equal(t, "build me an app", captured.Contents[0].Parts[0].Text)
	require.NotNil(t, captured.GenerationConfig)
	assert.InDelta(t, 0.7, captured.GenerationConfig.Temperature, 0.001)
	assert.Equal(t, 8192, captured.GenerationConfig.MaxOutputTokens)
}

func TestGeminiClient_Generate_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewGeminiClient(srv.URL, "test-key", 5*time.Second)

	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGeminiClient_Generate_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	client := NewGeminiClient(srv.URL, "test-key", 5*time.Second)

	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response")
}

func TestGeminiClient_Generate_ContextCancelled(t *testing.T) {
	client := NewGeminiClient("http://127.0.0.1:0", "test-key", 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Generate(ctx, "prompt")
	require.Error(t, err)
}
