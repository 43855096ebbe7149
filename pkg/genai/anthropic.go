package genai

import (
	"context"
	"errors"
	"net/http"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultAnthropicModel = "claude-haiku-4-5-20251001"

// AnthropicOption configures the Anthropic client.
type AnthropicOption func(*anthropicClient)

// WithAnthropicModel overrides the default model.
func WithAnthropicModel(model string) AnthropicOption {
	return func(c *anthropicClient) {
		c.model = model
	}
}

// WithAnthropicRateLimit caps outbound requests per second.
func WithAnthropicRateLimit(rps float64) AnthropicOption {
	return func(c *anthropicClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithAnthropicRequestOptions passes extra options to the underlying SDK,
// mainly option.WithBaseURL in tests.
func WithAnthropicRequestOptions(opts ...option.RequestOption) AnthropicOption {
	return func(c *anthropicClient) {
		c.sdkOpts = append(c.sdkOpts, opts...)
	}
}

type anthropicClient struct {
	client  sdk.Client
	model   string
	limiter *rate.Limiter
	sdkOpts []option.RequestOption
}

// NewAnthropic creates a text-generation client backed by the official
// anthropic-sdk-go.
func NewAnthropic(apiKey string, opts ...AnthropicOption) Client {
	c := &anthropicClient{
		model:   defaultAnthropicModel,
		limiter: rate.NewLimiter(rate.Limit(2), 1),
		sdkOpts: []option.RequestOption{option.WithAPIKey(apiKey)},
	}
	for _, o := range opts {
		o(c)
	}
	c.client = sdk.NewClient(c.sdkOpts...)
	return c
}

func (c *anthropicClient) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "anthropic: rate limiter wait")
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: req.MaxOutputTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
	}
	if req.Temperature != nil {
		params.Temperature = sdk.Float(*req.Temperature)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return nil, eris.Wrap(ErrRateLimited, "anthropic: create message")
		}
		return nil, eris.Wrap(err, "anthropic: create message")
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, eris.New("anthropic: response contains no text content")
	}

	return &Response{
		Text:         text,
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}, nil
}
