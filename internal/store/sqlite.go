package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore reads investor rows from a local SQLite snapshot. It is also
// the default target of the import command.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// FetchAll implements RecordStore.
func (s *SQLiteStore) FetchAll(ctx context.Context, table string) ([]map[string]string, error) {
	return s.FetchFiltered(ctx, table, nil)
}

// FetchFiltered implements RecordStore. SQLite LIKE is case-insensitive for
// ASCII only, so rows are re-checked in memory.
func (s *SQLiteStore) FetchFiltered(ctx context.Context, table string, p Predicate) ([]map[string]string, error) {
	q := "SELECT * FROM " + quoteIdent(table)
	var args []any
	for i, col := range p.sortedColumns() {
		if i == 0 {
			q += " WHERE "
		} else {
			q += " AND "
		}
		q += quoteIdent(col) + ` LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(p[col])+"%")
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fetchErr("sqlite", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fetchErr("sqlite", table, err)
	}

	var out []map[string]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fetchErr("sqlite", table, err)
		}
		row := make(map[string]string, len(cols))
		for i, c := range cols {
			row[c] = stringify(vals[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fetchErr("sqlite", table, err)
	}
	return filterRows(out, p), nil
}

// Load creates table with TEXT columns if needed, optionally clears it, and
// inserts rows in one transaction.
func (s *SQLiteStore) Load(ctx context.Context, table string, columns []string, rows [][]string, replace bool) (int64, error) {
	if len(columns) == 0 {
		return 0, eris.New("sqlite: load: no columns specified")
	}

	defs := make([]string, len(columns))
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
		defs[i] = quoted[i] + " TEXT"
		marks[i] = "?"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return 0, eris.Wrapf(err, "sqlite: create table %s", table)
	}
	if replace {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+quoteIdent(table)); err != nil {
			return 0, eris.Wrapf(err, "sqlite: clear table %s", table)
		}
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	var n int64
	for _, r := range rows {
		args := make([]any, len(columns))
		for i := range columns {
			if i < len(r) {
				args[i] = r[i]
			} else {
				args[i] = ""
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return n, eris.Wrapf(err, "sqlite: insert row %d", n+1)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return n, nil
}

// Close implements RecordStore.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
