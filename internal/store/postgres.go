package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/yatradesk/tourdata/internal/db"
	"github.com/yatradesk/tourdata/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

var recordColumns = []string{
	"id", "kind", "state", "place", "name",
	"subject_key", "name_key", "payload", "fetched_at", "updated_at",
}

var upsertRecordSQL = db.BuildUpsert(
	"catalog_records",
	recordColumns,
	[]string{"kind", "subject_key", "name_key"},
	db.PostgresPlaceholder,
)

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS catalog_records (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	state       TEXT NOT NULL,
	place       TEXT NOT NULL DEFAULT '',
	name        TEXT NOT NULL,
	subject_key TEXT NOT NULL,
	name_key    TEXT NOT NULL,
	payload     JSONB NOT NULL,
	fetched_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (kind, subject_key, name_key)
);

CREATE INDEX IF NOT EXISTS idx_catalog_records_lookup ON catalog_records(kind, subject_key);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Lookup(ctx context.Context, kind model.Kind, subject model.Subject) ([]model.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, place, name, payload, fetched_at FROM catalog_records
		 WHERE kind = $1 AND subject_key = $2
		 ORDER BY name`,
		string(kind), subject.Key(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: lookup records")
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var r model.Record
		var payloadJSON []byte
		if err := rows.Scan(&r.ID, &r.Subject.Place, &r.Name, &payloadJSON, &r.FetchedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan record")
		}
		if err := json.Unmarshal(payloadJSON, &r.Payload); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal payload")
		}
		r.Kind = kind
		r.Subject.State = subject.State
		r.Source = model.SourceCached
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "postgres: lookup iterate")
}

func (s *PostgresStore) UpsertBatch(ctx context.Context, records []model.Record) (*UpsertResult, error) {
	result := &UpsertResult{}
	now := time.Now().UTC()

	for _, rec := range records {
		if err := s.upsertOne(ctx, rec, now); err != nil {
			result.Failed = append(result.Failed, FailedUpsert{Name: rec.Name, Err: err})
			continue
		}
		result.Written++
	}
	return result, nil
}

func (s *PostgresStore) upsertOne(ctx context.Context, rec model.Record, now time.Time) error {
	payloadJSON, err := json.Marshal(rec.Payload)
	if err != nil {
		return eris.Wrapf(err, "postgres: marshal payload for %s", rec.Name)
	}

	id := rec.ID
	if id == "" {
		id = uuid.New().String()
	}
	fetchedAt := rec.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = now
	}

	_, err = s.pool.Exec(ctx, upsertRecordSQL,
		id, string(rec.Kind), rec.Subject.State, rec.Subject.Place, rec.Name,
		rec.Subject.Key(), model.NormalizeKey(rec.Name), payloadJSON, fetchedAt, now,
	)
	return eris.Wrapf(err, "postgres: upsert record %s", rec.Name)
}
