// Package fetcher issues the single-shot generative call for a subject and
// entity kind. No retries here: a failed call degrades downstream instead
// of burning quota.
package fetcher

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/yatradesk/tourdata/internal/model"
	"github.com/yatradesk/tourdata/internal/schema"
	"github.com/yatradesk/tourdata/pkg/genai"
)

// Fetcher produces raw model text for a subject. Implemented by Generative;
// the pipeline depends on the interface so tests can stub it.
type Fetcher interface {
	Fetch(ctx context.Context, s schema.Schema, subject model.Subject) (string, error)
}

// Generative calls a genai provider with the schema's prompt and output
// budget.
type Generative struct {
	client genai.Client
}

// New creates a Generative fetcher.
func New(client genai.Client) *Generative {
	return &Generative{client: client}
}

// Fetch renders the prompt and performs one generation call. A provider 429
// surfaces as a rate-limit error distinguishable via genai.IsRateLimited.
func (g *Generative) Fetch(ctx context.Context, s schema.Schema, subject model.Subject) (string, error) {
	resp, err := g.client.Generate(ctx, genai.Request{
		Prompt:          s.Prompt(subject),
		MaxOutputTokens: s.MaxOutputTokens,
	})
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: generate %s for %s", string(s.Kind), subject.String())
	}

	zap.L().Debug("fetcher: generation complete",
		zap.String("kind", string(s.Kind)),
		zap.String("subject", subject.String()),
		zap.Int64("input_tokens", resp.InputTokens),
		zap.Int64("output_tokens", resp.OutputTokens),
	)
	return resp.Text, nil
}
