package store

import (
	"context"

	"github.com/sells-group/vc-data/pkg/notion"
)

// NotionStore reads investor rows from a Notion database. Property names are
// the column names. The table argument is ignored: one store maps to one
// database.
type NotionStore struct {
	client     notion.Client
	databaseID string
}

// NewNotion returns a store over the given database.
func NewNotion(client notion.Client, databaseID string) *NotionStore {
	return &NotionStore{client: client, databaseID: databaseID}
}

// FetchAll implements RecordStore.
func (s *NotionStore) FetchAll(ctx context.Context, table string) ([]map[string]string, error) {
	return s.FetchFiltered(ctx, table, nil)
}

// FetchFiltered implements RecordStore, applying p in memory.
func (s *NotionStore) FetchFiltered(ctx context.Context, table string, p Predicate) ([]map[string]string, error) {
	pages, err := notion.QueryAll(ctx, s.client, s.databaseID)
	if err != nil {
		return nil, fetchErr("notion", table, err)
	}
	return filterRows(notion.Rows(pages), p), nil
}

// Close implements RecordStore.
func (s *NotionStore) Close() error { return nil }
