package db

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Placeholder renders the i-th (1-based) bind parameter for a SQL dialect.
type Placeholder func(i int) string

// PostgresPlaceholder renders $1, $2, ...
func PostgresPlaceholder(i int) string {
	return fmt.Sprintf("$%d", i)
}

// SQLitePlaceholder renders ?.
func SQLitePlaceholder(int) string {
	return "?"
}

// BuildUpsert returns a single-row INSERT ... ON CONFLICT (keys) DO UPDATE
// statement. Every non-conflict column is updated from EXCLUDED, so a
// re-fetch overwrites the cached row in place.
func BuildUpsert(table string, columns, conflictKeys []string, ph Placeholder) string {
	conflictSet := make(map[string]bool, len(conflictKeys))
	for _, k := range conflictKeys {
		conflictSet[k] = true
	}

	binds := make([]string, len(columns))
	for i := range columns {
		binds[i] = ph(i + 1)
	}

	var setClauses []string
	for _, col := range columns {
		if conflictSet[col] {
			continue
		}
		q := pgx.Identifier{col}.Sanitize()
		setClauses = append(setClauses, fmt.Sprintf("%s = EXCLUDED.%s", q, q))
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		sanitizeTable(table),
		quoteAndJoin(columns),
		strings.Join(binds, ", "),
		quoteAndJoin(conflictKeys),
		strings.Join(setClauses, ", "),
	)
}

// sanitizeTable handles schema-qualified table names like "catalog.records".
func sanitizeTable(table string) string {
	parts := strings.SplitN(table, ".", 2)
	if len(parts) == 2 {
		return pgx.Identifier{parts[0], parts[1]}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}

// quoteAndJoin quotes each column name and joins with commas.
func quoteAndJoin(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}
