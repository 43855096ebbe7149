package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/yatradesk/tourdata/internal/fallback"
	"github.com/yatradesk/tourdata/internal/fetcher"
	"github.com/yatradesk/tourdata/internal/pipeline"
	"github.com/yatradesk/tourdata/internal/store"
	"github.com/yatradesk/tourdata/pkg/genai"
	"github.com/yatradesk/tourdata/pkg/images"
)

// env bundles the wired pipeline and its store for commands to share.
type env struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

func (e *env) Close() {
	_ = e.Store.Close()
}

// initPipeline validates config and wires the store, provider clients,
// fallback catalog and pipeline.
func initPipeline(ctx context.Context) (*env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL, &store.PoolConfig{
		MaxConns: cfg.Store.MaxConns,
		MinConns: cfg.Store.MinConns,
	})
	if err != nil {
		return nil, err
	}

	client, err := newGenAIClient()
	if err != nil {
		st.Close()
		return nil, err
	}

	catalog, err := fallback.Load()
	if err != nil {
		st.Close()
		return nil, err
	}

	opts := []pipeline.Option{
		pipeline.WithEnrichConcurrency(cfg.Pipeline.EnrichConcurrency),
	}
	if cfg.Unsplash.AccessKey != "" {
		opts = append(opts, pipeline.WithImageClient(images.NewClient(cfg.Unsplash.AccessKey)))
	}

	p, err := pipeline.New(st, fetcher.New(client), catalog, opts...)
	if err != nil {
		st.Close()
		return nil, err
	}

	return &env{Store: st, Pipeline: p}, nil
}

func newGenAIClient() (genai.Client, error) {
	switch cfg.GenAI.Provider {
	case "gemini":
		return genai.NewGemini(cfg.GenAI.GeminiKey,
			genai.WithGeminiModel(cfg.GenAI.GeminiModel),
			genai.WithGeminiRateLimit(cfg.GenAI.RequestsPerSec),
		), nil
	case "anthropic":
		return genai.NewAnthropic(cfg.GenAI.AnthropicKey,
			genai.WithAnthropicModel(cfg.GenAI.AnthropicModel),
			genai.WithAnthropicRateLimit(cfg.GenAI.RequestsPerSec),
		), nil
	default:
		return nil, eris.Errorf("unknown genai provider %q", cfg.GenAI.Provider)
	}
}
