// Package genai abstracts the generative text providers behind a single
// prompt-in, raw-text-out client. Callers never see provider wire formats;
// they get back whatever text the model produced and decide what to do
// with it.
package genai

import (
	"context"
	"errors"
)

// ErrRateLimited marks a provider 429. Callers branch on it to degrade
// instead of retrying.
var ErrRateLimited = errors.New("genai: rate limited")

// Request is a single generation call.
type Request struct {
	Prompt          string
	MaxOutputTokens int64
	Temperature     *float64
}

// Response carries the raw model text plus token accounting when the
// provider reports it.
type Response struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

// Client performs one-shot text generation.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// IsRateLimited reports whether err originated from a provider 429.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
