package fetcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatradesk/tourdata/internal/model"
	"github.com/yatradesk/tourdata/internal/schema"
	"github.com/yatradesk/tourdata/pkg/genai"
)

type fakeClient struct {
	req  genai.Request
	resp *genai.Response
	err  error
}

func (f *fakeClient) Generate(ctx context.Context, req genai.Request) (*genai.Response, error) {
	f.req = req
	return f.resp, f.err
}

func TestFetch_UsesSchemaPromptAndBudget(t *testing.T) {
	s, ok := schema.ForKind(model.KindPlace)
	require.True(t, ok)

	client := &fakeClient{resp: &genai.Response{Text: `[{"name":"Netarhat"}]`}}
	raw, err := New(client).Fetch(context.Background(), s, model.StateSubject("Jharkhand"))
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"Netarhat"}]`, raw)

	assert.Equal(t, s.MaxOutputTokens, client.req.MaxOutputTokens)
	assert.Contains(t, client.req.Prompt, "Jharkhand")
}

func TestFetch_PreservesRateLimitClassification(t *testing.T) {
	client := &fakeClient{err: genai.ErrRateLimited}
	s, _ := schema.ForKind(model.KindFestival)

	_, err := New(client).Fetch(context.Background(), s, model.StateSubject("Jharkhand"))
	require.Error(t, err)
	assert.True(t, genai.IsRateLimited(err))
}
