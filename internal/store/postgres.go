package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sells-group/vc-data/internal/db"
)

// PostgresStore reads investor rows from a Postgres table (the Supabase
// database behind the OpenVC snapshot).
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres connects to connString and returns a store over the pool.
func NewPostgres(ctx context.Context, connString string, poolCfg db.PoolConfig) (*PostgresStore, error) {
	pool, err := db.Connect(ctx, connString, poolCfg)
	if err != nil {
		return nil, fetchErr("postgres", "", err)
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool returns a store over an existing pool. The caller
// keeps ownership of the pool.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// FetchAll implements RecordStore.
func (s *PostgresStore) FetchAll(ctx context.Context, table string) ([]map[string]string, error) {
	return s.FetchFiltered(ctx, table, nil)
}

// FetchFiltered implements RecordStore with one ILIKE clause per predicate
// column.
func (s *PostgresStore) FetchFiltered(ctx context.Context, table string, p Predicate) ([]map[string]string, error) {
	sql, args := selectSQL(table, p)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fetchErr("postgres", table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []map[string]string
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fetchErr("postgres", table, err)
		}
		row := make(map[string]string, len(fields))
		for i, fd := range fields {
			if i < len(vals) {
				row[fd.Name] = stringify(vals[i])
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fetchErr("postgres", table, err)
	}
	return out, nil
}

// Close implements RecordStore.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func selectSQL(table string, p Predicate) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(pgx.Identifier{table}.Sanitize())

	var args []any
	for i, col := range p.sortedColumns() {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		fmt.Fprintf(&b, "%s ILIKE $%d", pgx.Identifier{col}.Sanitize(), i+1)
		args = append(args, "%"+escapeLike(p[col])+"%")
	}
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string { return likeEscaper.Replace(s) }

// stringify renders a scanned column value as text. NULL becomes "".
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.Format(time.RFC3339)
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			parts = append(parts, stringify(e))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(x)
	}
}
