// Package pipeline orchestrates the cache-or-generate flow: serve cached
// records when present, otherwise generate, validate, persist, and fall back
// to curated seeds when generation yields nothing. Degradation is the
// normal path; only misconfiguration aborts a run.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/yatradesk/tourdata/internal/extractor"
	"github.com/yatradesk/tourdata/internal/fallback"
	"github.com/yatradesk/tourdata/internal/fetcher"
	"github.com/yatradesk/tourdata/internal/model"
	"github.com/yatradesk/tourdata/internal/schema"
	"github.com/yatradesk/tourdata/internal/store"
	"github.com/yatradesk/tourdata/pkg/genai"
	"github.com/yatradesk/tourdata/pkg/images"
)

// Result is what a run hands back to the caller. Records may be empty but
// never nil semantics beyond that; Source says where they came from.
type Result struct {
	Records []model.Record `json:"records"`
	Source  model.Source   `json:"source"`

	// Dropped counts candidates rejected during validation; Written counts
	// records persisted. Both are zero on cache hits and fallbacks.
	Dropped int `json:"dropped,omitempty"`
	Written int `json:"written,omitempty"`
}

// Pipeline wires the store, fetcher, image client and fallback catalog.
type Pipeline struct {
	store    store.Store
	fetcher  fetcher.Fetcher
	images   images.Client
	fallback *fallback.Catalog

	enrichConcurrency int
	imagesPerRecord   int
}

// Option configures the pipeline.
type Option func(*Pipeline)

// WithImageClient enables best-effort photo enrichment of place records.
func WithImageClient(c images.Client) Option {
	return func(p *Pipeline) {
		p.images = c
	}
}

// WithEnrichConcurrency bounds concurrent image lookups.
func WithEnrichConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.enrichConcurrency = n
		}
	}
}

// New creates a Pipeline. The store, fetcher and fallback catalog are
// mandatory.
func New(st store.Store, f fetcher.Fetcher, fb *fallback.Catalog, opts ...Option) (*Pipeline, error) {
	if st == nil {
		return nil, eris.New("pipeline: store is required")
	}
	if f == nil {
		return nil, eris.New("pipeline: fetcher is required")
	}
	if fb == nil {
		return nil, eris.New("pipeline: fallback catalog is required")
	}

	p := &Pipeline{
		store:             st,
		fetcher:           f,
		fallback:          fb,
		enrichConcurrency: 4,
		imagesPerRecord:   2,
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Run executes the full flow for one subject and kind. It returns an error
// only for caller mistakes (unknown kind, incomplete subject); every
// upstream failure degrades to fallback or an empty result instead.
func (p *Pipeline) Run(ctx context.Context, kind model.Kind, subject model.Subject) (*Result, error) {
	s, ok := schema.ForKind(kind)
	if !ok {
		return nil, eris.Errorf("pipeline: unknown kind %q", string(kind))
	}
	if subject.State == "" {
		return nil, eris.New("pipeline: subject state is required")
	}
	if kind == model.KindPlaceDetail && subject.Place == "" {
		return nil, eris.New("pipeline: subject place is required for place detail")
	}

	log := zap.L().With(
		zap.String("kind", string(kind)),
		zap.String("subject", subject.String()),
	)

	// Cache check. A broken store must not take the endpoint down, so
	// lookup errors degrade to a miss.
	cached, err := p.store.Lookup(ctx, kind, subject)
	if err != nil {
		log.Warn("pipeline: cache lookup failed, treating as miss", zap.Error(err))
	}
	if len(cached) > 0 {
		log.Debug("pipeline: cache hit", zap.Int("records", len(cached)))
		return &Result{Records: cached, Source: model.SourceCached}, nil
	}

	records, dropped, ok := p.generate(ctx, s, subject, log)
	if !ok {
		return p.degrade(kind, subject, log), nil
	}

	if kind == model.KindPlace && p.images != nil {
		p.enrich(ctx, subject, records)
	}

	written := p.persist(ctx, records, log)

	log.Info("pipeline: generated",
		zap.Int("records", len(records)),
		zap.Int("dropped", dropped),
		zap.Int("written", written),
	)
	return &Result{
		Records: records,
		Source:  model.SourceGenerated,
		Dropped: dropped,
		Written: written,
	}, nil
}

// generate runs fetch, extract and validate. ok is false when no usable
// records came out, whatever the reason.
func (p *Pipeline) generate(ctx context.Context, s schema.Schema, subject model.Subject, log *zap.Logger) ([]model.Record, int, bool) {
	raw, err := p.fetcher.Fetch(ctx, s, subject)
	if err != nil {
		if genai.IsRateLimited(err) {
			log.Warn("pipeline: provider rate limited")
		} else {
			log.Warn("pipeline: generation failed", zap.Error(err))
		}
		return nil, 0, false
	}

	candidates, err := extractor.Extract(raw)
	if err != nil {
		log.Warn("pipeline: no parseable payload in model output", zap.Error(err))
		return nil, 0, false
	}

	records, dropped := schema.Validate(candidates, s, subject)
	if len(records) == 0 {
		log.Warn("pipeline: all candidates rejected", zap.Int("dropped", dropped))
		return nil, dropped, false
	}

	now := time.Now().UTC()
	for i := range records {
		records[i].ID = uuid.New().String()
		records[i].Source = model.SourceGenerated
		records[i].FetchedAt = now
	}
	return records, dropped, true
}

// degrade serves curated seeds when generation produced nothing. Seeds are
// never persisted; the next request tries generation again.
func (p *Pipeline) degrade(kind model.Kind, subject model.Subject, log *zap.Logger) *Result {
	if seeds := p.fallback.Records(kind, subject); len(seeds) > 0 {
		log.Info("pipeline: serving fallback seeds", zap.Int("records", len(seeds)))
		return &Result{Records: seeds, Source: model.SourceFallback}
	}
	log.Info("pipeline: no fallback seeds, returning empty")
	return &Result{Records: []model.Record{}, Source: model.SourceEmpty}
}

// persist writes best-effort: a failed row is logged and skipped, the
// generated records still go back to the caller.
func (p *Pipeline) persist(ctx context.Context, records []model.Record, log *zap.Logger) int {
	result, err := p.store.UpsertBatch(ctx, records)
	if err != nil {
		log.Warn("pipeline: persist failed", zap.Error(err))
		return 0
	}
	for _, f := range result.Failed {
		log.Warn("pipeline: record not persisted",
			zap.String("name", f.Name),
			zap.Error(f.Err),
		)
	}
	return result.Written
}
