package notion

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQueryAll_SinglePage(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "db-1", mock.AnythingOfType("*notionapi.DatabaseQueryRequest")).
		Return(&notionapi.DatabaseQueryResponse{
			Results: []notionapi.Page{{ID: "p1"}, {ID: "p2"}},
			HasMore: false,
		}, nil).Once()

	pages, err := QueryAll(ctx, mc, "db-1")
	assert.NoError(t, err)
	assert.Len(t, pages, 2)
	mc.AssertExpectations(t)
}

func TestQueryAll_FollowsCursor(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "db-1", mock.MatchedBy(func(req *notionapi.DatabaseQueryRequest) bool {
		return req.StartCursor == "" && req.PageSize == pageSize
	})).Return(&notionapi.DatabaseQueryResponse{
		Results:    []notionapi.Page{{ID: "p1"}},
		HasMore:    true,
		NextCursor: notionapi.Cursor("cursor-abc"),
	}, nil).Once()

	mc.On("QueryDatabase", ctx, "db-1", mock.MatchedBy(func(req *notionapi.DatabaseQueryRequest) bool {
		return req.StartCursor == notionapi.Cursor("cursor-abc")
	})).Return(&notionapi.DatabaseQueryResponse{
		Results: []notionapi.Page{{ID: "p2"}},
		HasMore: false,
	}, nil).Once()

	pages, err := QueryAll(ctx, mc, "db-1")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, notionapi.ObjectID("p1"), pages[0].ID)
	assert.Equal(t, notionapi.ObjectID("p2"), pages[1].ID)
	mc.AssertExpectations(t)
}

func TestQueryAll_Error(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "db-err", mock.Anything).Return(nil, assert.AnError).Once()

	pages, err := QueryAll(ctx, mc, "db-err")
	assert.Error(t, err)
	assert.Nil(t, pages)
	assert.Contains(t, err.Error(), "notion: query all page")
}

func TestRows_FlattensProperties(t *testing.T) {
	pages := []notionapi.Page{{
		ID: "p1",
		Properties: notionapi.Properties{
			"Investor name": &notionapi.TitleProperty{Title: []notionapi.RichText{
				{PlainText: "Acme "}, {PlainText: "Ventures"},
			}},
			"Investment thesis": &notionapi.RichTextProperty{RichText: []notionapi.RichText{
				{PlainText: "Fintech and AI"},
			}},
			"Investor type": &notionapi.SelectProperty{Select: notionapi.Option{Name: "VC"}},
			"Stage of investment": &notionapi.MultiSelectProperty{MultiSelect: []notionapi.Option{
				{Name: "Seed"}, {Name: "Series A"},
			}},
			"Website":              &notionapi.URLProperty{URL: "https://acme.vc"},
			"First cheque minimum": &notionapi.NumberProperty{Number: 50000},
			"Created":              &notionapi.CheckboxProperty{Checkbox: true},
		},
	}}

	rows := Rows(pages)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "Acme Ventures", row["Investor name"])
	assert.Equal(t, "Fintech and AI", row["Investment thesis"])
	assert.Equal(t, "VC", row["Investor type"])
	assert.Equal(t, "Seed, Series A", row["Stage of investment"])
	assert.Equal(t, "https://acme.vc", row["Website"])
	assert.Equal(t, "50000", row["First cheque minimum"])
	_, ok := row["Created"]
	assert.False(t, ok)
}
