package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/yatradesk/tourdata/internal/db"
	"github.com/yatradesk/tourdata/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It backs local
// development and one-shot CLI fetches without a Postgres instance.
type SQLiteStore struct {
	db *sql.DB
}

var sqliteUpsertRecordSQL = db.BuildUpsert(
	"catalog_records",
	recordColumns,
	[]string{"kind", "subject_key", "name_key"},
	db.SQLitePlaceholder,
)

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: sqlDB}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS catalog_records (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	state       TEXT NOT NULL,
	place       TEXT NOT NULL DEFAULT '',
	name        TEXT NOT NULL,
	subject_key TEXT NOT NULL,
	name_key    TEXT NOT NULL,
	payload     TEXT NOT NULL,
	fetched_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL,
	UNIQUE (kind, subject_key, name_key)
);

CREATE INDEX IF NOT EXISTS idx_catalog_records_lookup ON catalog_records(kind, subject_key);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Lookup(ctx context.Context, kind model.Kind, subject model.Subject) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, place, name, payload, fetched_at FROM catalog_records
		 WHERE kind = ? AND subject_key = ?
		 ORDER BY name`,
		string(kind), subject.Key(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: lookup records")
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var r model.Record
		var payloadJSON string
		if err := rows.Scan(&r.ID, &r.Subject.Place, &r.Name, &payloadJSON, &r.FetchedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		if err := json.Unmarshal([]byte(payloadJSON), &r.Payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal payload")
		}
		r.Kind = kind
		r.Subject.State = subject.State
		r.Source = model.SourceCached
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: lookup iterate")
}

func (s *SQLiteStore) UpsertBatch(ctx context.Context, records []model.Record) (*UpsertResult, error) {
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

func (s *SQLiteStore) upsertOne(ctx context.Context, rec model.Record, now time.Time) error {
	payloadJSON, err := json.Marshal(rec.Payload)
	if err != nil {
		return eris.Wrapf(err, "sqlite: marshal payload for %s", rec.Name)
	}

	id := rec.ID
	if id == "" {
		id = uuid.New().String()
	}
	fetchedAt := rec.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = now
	}

	_, err = s.db.ExecContext(ctx, sqliteUpsertRecordSQL,
		id, string(rec.Kind), rec.Subject.State, rec.Subject.Place, rec.Name,
		rec.Subject.Key(), model.NormalizeKey(rec.Name), string(payloadJSON), fetchedAt, now,
	)
	return eris.Wrapf(err, "sqlite: upsert record %s", rec.Name)
}
