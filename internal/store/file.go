package store

import (
	"context"

	"github.com/sells-group/vc-data/internal/fetcher"
)

// FileStore reads investor rows from a CSV, TSV or XLSX snapshot. The file is
// re-read on every fetch so edits show up without a restart. For XLSX the
// table name selects the sheet, falling back to the first sheet.
type FileStore struct {
	path string
}

// NewFile returns a store over the snapshot at path.
func NewFile(path string) *FileStore {
	return &FileStore{path: path}
}

// FetchAll implements RecordStore.
func (s *FileStore) FetchAll(ctx context.Context, table string) ([]map[string]string, error) {
	return s.FetchFiltered(ctx, table, nil)
}

// FetchFiltered implements RecordStore, applying p in memory.
func (s *FileStore) FetchFiltered(ctx context.Context, table string, p Predicate) ([]map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fetchErr("file", table, err)
	}

	tbl, err := fetcher.ReadFile(s.path, table)
	if err != nil {
		// A sheet named after the table is optional.
		tbl, err = fetcher.ReadFile(s.path, "")
	}
	if err != nil {
		return nil, fetchErr("file", table, err)
	}
	return filterRows(tbl.Records(), p), nil
}

// Close implements RecordStore.
func (s *FileStore) Close() error { return nil }
