package notion

import (
	"context"
	"strconv"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// pageSize is the largest page the Notion query endpoint returns.
const pageSize = 100

// QueryAll fetches every page of a Notion database, following cursors until
// HasMore is false.
func QueryAll(ctx context.Context, c Client, dbID string) ([]notionapi.Page, error) {
	var all []notionapi.Page
	var cursor notionapi.Cursor

	for {
		resp, err := c.QueryDatabase(ctx, dbID, &notionapi.DatabaseQueryRequest{
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, eris.Wrap(err, "notion: query all page")
		}
		all = append(all, resp.Results...)

		if !resp.HasMore || resp.NextCursor == "" {
			return all, nil
		}
		cursor = resp.NextCursor
	}
}

// Rows flattens pages into column -> text maps keyed by property name.
// Property kinds without a text rendering are skipped.
func Rows(pages []notionapi.Page) []map[string]string {
	rows := make([]map[string]string, 0, len(pages))
	for _, p := range pages {
		row := make(map[string]string, len(p.Properties))
		for name, prop := range p.Properties {
			if v, ok := PlainText(prop); ok {
				row[name] = v
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// PlainText renders a property value as text. Multi-select options are
// joined with ", " so they split like any other list field.
func PlainText(prop notionapi.Property) (string, bool) {
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return joinRichText(p.Title), true
	case *notionapi.RichTextProperty:
		return joinRichText(p.RichText), true
	case *notionapi.SelectProperty:
		return p.Select.Name, true
	case *notionapi.MultiSelectProperty:
		names := make([]string, 0, len(p.MultiSelect))
		for _, o := range p.MultiSelect {
			names = append(names, o.Name)
		}
		return strings.Join(names, ", "), true
	case *notionapi.StatusProperty:
		return p.Status.Name, true
	case *notionapi.URLProperty:
		return p.URL, true
	case *notionapi.EmailProperty:
		return p.Email, true
	case *notionapi.NumberProperty:
		return strconv.FormatFloat(p.Number, 'f', -1, 64), true
	default:
		return "", false
	}
}

func joinRichText(parts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range parts {
		b.WriteString(rt.PlainText)
	}
	return b.String()
}
