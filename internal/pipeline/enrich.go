package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yatradesk/tourdata/internal/model"
	"github.com/yatradesk/tourdata/internal/resilience"
)

// enrich attaches stock photo URLs to place records. Strictly best-effort:
// a record without images is still a valid record, so lookup failures are
// logged and swallowed.
func (p *Pipeline) enrich(ctx context.Context, subject model.Subject, records []model.Record) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.enrichConcurrency)

	for i := range records {
		rec := &records[i]
		g.Go(func() error {
			query := fmt.Sprintf("%s %s tourism", rec.Name, subject.State)
			urls, err := resilience.DoVal(ctx, resilience.DefaultRetryConfig(), "image search",
				func(ctx context.Context) ([]string, error) {
					return p.images.Search(ctx, query, p.imagesPerRecord)
				})
			if err != nil {
				zap.L().Debug("pipeline: image lookup failed",
					zap.String("name", rec.Name),
					zap.Error(err),
				)
				return nil
			}
			if len(urls) > 0 {
				rec.Payload["images"] = urls
			}
			return nil
		})
	}

	// Workers never return errors; Wait only fences completion.
	_ = g.Wait()
}
