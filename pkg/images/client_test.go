package images

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient("test-access-key",
		WithBaseURL(srv.URL),
		WithRateLimit(1000),
	)
}

func TestSearch(t *testing.T) {
	var gotQuery map[string][]string
	var gotAuth string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")

		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"urls": map[string]any{"regular": "https://images.example/a"}},
				{"urls": map[string]any{"regular": "https://images.example/b"}},
			},
		})
	})

	urls, err := client.Search(context.Background(), "Netarhat Jharkhand tourism", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://images.example/a", "https://images.example/b"}, urls)

	assert.Equal(t, "Client-ID test-access-key", gotAuth)
	assert.Equal(t, []string{"Netarhat Jharkhand tourism"}, gotQuery["query"])
	assert.Equal(t, []string{"2"}, gotQuery["per_page"])
	assert.Equal(t, []string{"landscape"}, gotQuery["orientation"])
}

func TestSearch_EmptyResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	})

	urls, err := client.Search(context.Background(), "nowhere", 2)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestSearch_ErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusForbidden)
	})

	_, err := client.Search(context.Background(), "anything", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 403")
}
