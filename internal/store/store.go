// Package store persists validated catalog records. Each row is one record
// keyed by (kind, subject, name); a re-fetch overwrites the payload in
// place rather than accumulating versions.
package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/yatradesk/tourdata/internal/model"
)

// FailedUpsert reports one record that could not be written.
type FailedUpsert struct {
	Name string
	Err  error
}

// UpsertResult summarizes a batch write. Written plus len(Failed) equals the
// batch size.
type UpsertResult struct {
	Written int
	Failed  []FailedUpsert
}

// Store is the persistence interface for the cache pipeline.
type Store interface {
	// Lookup returns every cached record for the subject and kind, in name
	// order, tagged as cached. No rows is (nil, nil), not an error.
	Lookup(ctx context.Context, kind model.Kind, subject model.Subject) ([]model.Record, error)

	// UpsertBatch writes records one at a time so a single bad row cannot
	// sink the batch. The returned error covers batch-level failures only
	// (e.g. marshal of nothing); per-row failures land in the result.
	UpsertBatch(ctx context.Context, records []model.Record) (*UpsertResult, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Open selects a backend by driver name: "postgres" or "sqlite".
func Open(ctx context.Context, driver, dsn string, poolCfg *PoolConfig) (Store, error) {
	switch strings.ToLower(driver) {
	case "postgres":
		return NewPostgres(ctx, dsn, poolCfg)
	case "sqlite":
		return NewSQLite(dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
