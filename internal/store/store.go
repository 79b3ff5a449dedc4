// Package store fetches raw investor rows from the configured backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vc-data/internal/textutil"
)

// Predicate maps a source column to a case-insensitive substring. Backends
// treat it as a pre-filter: they may return more rows than it matches, never
// fewer.
type Predicate map[string]string

// RecordStore is a source of raw investor rows. Rows are returned in dataset
// order with every value rendered as text.
type RecordStore interface {
	FetchAll(ctx context.Context, table string) ([]map[string]string, error)
	FetchFiltered(ctx context.Context, table string, p Predicate) ([]map[string]string, error)
	Close() error
}

// FetchError reports a failed fetch from a backend.
type FetchError struct {
	Backend string
	Table   string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("store: %s fetch %q: %v", e.Backend, e.Table, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err wraps a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// fetchErr wraps err as a FetchError unless it already is one.
func fetchErr(backend, table string, err error) error {
	if err == nil {
		return nil
	}
	if IsFetchError(err) {
		return err
	}
	return eris.Wrapf(&FetchError{Backend: backend, Table: table, Err: err}, "store: fetch %s", table)
}

// Matches reports whether row satisfies every predicate entry. Columns are
// looked up exactly first, then by case-insensitive name. A row missing a
// predicate column does not match.
func Matches(row map[string]string, p Predicate) bool {
	for col, needle := range p {
		v, ok := lookup(row, col)
		if !ok || !textutil.ContainsFold(v, needle) {
			return false
		}
	}
	return true
}

func lookup(row map[string]string, col string) (string, bool) {
	if v, ok := row[col]; ok {
		return v, true
	}
	for k, v := range row {
		if strings.EqualFold(strings.TrimSpace(k), col) {
			return v, true
		}
	}
	return "", false
}

// filterRows applies p in memory, preserving order.
func filterRows(rows []map[string]string, p Predicate) []map[string]string {
	if len(p) == 0 {
		return rows
	}
	out := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		if Matches(r, p) {
			out = append(out, r)
		}
	}
	return out
}

// sortedColumns returns the predicate columns in a stable order so generated
// SQL and URLs are deterministic.
func (p Predicate) sortedColumns() []string {
	cols := make([]string, 0, len(p))
	for c := range p {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}
