package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// CopyFrom bulk-inserts rows into table using the COPY protocol.
func CopyFrom(ctx context.Context, pool Pool, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	n, err := pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrapf(err, "db: COPY INTO %s", table)
	}
	return n, nil
}

// CreateTextTable creates table with one TEXT column per name when it does not
// exist. Snapshot tables keep every source value as text.
func CreateTextTable(ctx context.Context, pool Pool, table string, columns []string) error {
	if len(columns) == 0 {
		return eris.New("db: create table: no columns specified")
	}

	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pgx.Identifier{c}.Sanitize() + " TEXT"
	}
	sql := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pgx.Identifier{table}.Sanitize(), strings.Join(defs, ", "))

	if _, err := pool.Exec(ctx, sql); err != nil {
		return eris.Wrapf(err, "db: create table %s", table)
	}
	return nil
}

// LoadTable creates table if needed, optionally empties it, and copies rows
// in. It returns the number of rows written.
func LoadTable(ctx context.Context, pool Pool, table string, columns []string, rows [][]any, replace bool) (int64, error) {
	if err := CreateTextTable(ctx, pool, table, columns); err != nil {
		return 0, err
	}
	if replace {
		if _, err := pool.Exec(ctx, "DELETE FROM "+pgx.Identifier{table}.Sanitize()); err != nil {
			return 0, eris.Wrapf(err, "db: clear table %s", table)
		}
	}
	return CopyFrom(ctx, pool, table, columns, rows)
}
