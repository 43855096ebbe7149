package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewGemini("test-key",
		WithGeminiBaseURL(srv.URL),
		WithGeminiModel("gemini-test"),
		WithGeminiRateLimit(1000),
	)
}

func TestGemini_Generate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody geminiRequest

	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": `[{"name":"Netarhat"}]`}}}},
			},
			"usageMetadata": map[string]any{"promptTokenCount": 120, "candidatesTokenCount": 340},
		})
	})

	resp, err := client.Generate(context.Background(), Request{
		Prompt:          "list places",
		MaxOutputTokens: 1200,
	})
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"Netarhat"}]`, resp.Text)
	assert.Equal(t, int64(120), resp.InputTokens)
	assert.Equal(t, int64(340), resp.OutputTokens)

	assert.Equal(t, "/models/gemini-test:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "list places", gotBody.Contents[0].Parts[0].Text)
	assert.Equal(t, int64(1200), gotBody.GenerationConfig.MaxOutputTokens)
}

func TestGemini_RateLimited(t *testing.T) {
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":429}}`, http.StatusTooManyRequests)
	})

	_, err := client.Generate(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
}

func TestGemini_ServerError(t *testing.T) {
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	_, err := client.Generate(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.False(t, IsRateLimited(err))
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestGemini_NoCandidates(t *testing.T) {
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	})

	_, err := client.Generate(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}
