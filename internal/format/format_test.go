package format

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/vc-data/internal/engine"
	"github.com/sells-group/vc-data/internal/model"
)

func acme() model.InvestorRecord {
	return model.InvestorRecord{
		Name:                  "Acme VC",
		Website:               "https://acme.vc",
		GlobalHQ:              "San Francisco, CA, USA",
		CountriesOfInvestment: "USA",
		Stage:                 "Seed, Series A",
		InvestorType:          "VC",
		ChequeMin:             "50k",
		ChequeMax:             "250k",
		Thesis:                "We back B2B SaaS.",
	}
}

func TestRecords_Block(t *testing.T) {
	got := Records("Found 1 investor records:", []model.InvestorRecord{acme()}, 10)

	want := "Found 1 investor records:\n\n" +
		"1. Acme VC\n" +
		"   Website: https://acme.vc\n" +
		"   Global HQ: San Francisco, CA, USA\n" +
		"   Countries: USA\n" +
		"   Stage: Seed, Series A\n" +
		"   Type: VC\n" +
		"   First Cheque: 50k - 250k ($50K - $250K)\n" +
		"   Thesis: We back B2B SaaS.\n" +
		Separator
	assert.Equal(t, want, got)
}

func TestRecords_BlankFieldsAndTruncation(t *testing.T) {
	rec := model.InvestorRecord{Thesis: strings.Repeat("é", 150)}
	got := Records("title", []model.InvestorRecord{rec}, 10)

	assert.Contains(t, got, "1. Unknown\n")
	assert.Contains(t, got, "   Website: N/A\n")
	assert.Contains(t, got, "   First Cheque: N/A - N/A\n")
	assert.Contains(t, got, "   Thesis: "+strings.Repeat("é", 100)+"...\n")
}

func TestRecords_MoreLine(t *testing.T) {
	var recs []model.InvestorRecord
	for i := 0; i < 13; i++ {
		recs = append(recs, model.InvestorRecord{Name: fmt.Sprintf("Fund %d", i)})
	}
	got := Records("title", recs, 10)
	assert.Contains(t, got, "10. Fund 9\n")
	assert.NotContains(t, got, "Fund 10\n")
	assert.True(t, strings.HasSuffix(got, "... and 3 more records."))

	got = Records("title", recs, 0)
	assert.Contains(t, got, "... and 3 more records.")
}

func TestInvestorData_Empty(t *testing.T) {
	assert.Equal(t, "No investor data found.", InvestorData(nil, 10))
	assert.True(t, strings.HasPrefix(InvestorData([]model.InvestorRecord{acme()}, 10), "Found 1 investor records:\n\n1. Acme VC"))
}

func TestSearch(t *testing.T) {
	c := engine.Criteria{Stage: "Seed"}
	got := Search(c, c.ParseBounds(), []model.InvestorRecord{acme()}, 10)
	assert.True(t, strings.HasPrefix(got, "Criteria: stage: Seed\n\nFound 1 investors matching your criteria:\n\n1. Acme VC"))

	got = Search(engine.Criteria{Country: "Japan"}, engine.Bounds{}, nil, 10)
	assert.Equal(t, "No investors found matching country: Japan.", got)

	got = Search(engine.Criteria{}, engine.Bounds{}, nil, 10)
	assert.Equal(t, "No investors found matching the specified criteria.", got)
}

func TestSearch_IgnoredBoundNote(t *testing.T) {
	c := engine.Criteria{MinCheque: "lots"}
	got := Search(c, c.ParseBounds(), []model.InvestorRecord{acme()}, 10)
	assert.True(t, strings.HasSuffix(got, "Note: could not parse cheque amount 'lots'; that bound was ignored."))
}

func TestStageDistribution(t *testing.T) {
	d := engine.StageDistribution{
		Records:   4,
		WithStage: 3,
		Stages: []engine.Tally{
			{Value: "Seed", Count: 2, Percent: 50},
			{Value: "Series A", Count: 1, Percent: 25},
		},
	}
	want := "Investment Stage Analysis:\n\n" +
		"• Seed: 2 investors (50.0%)\n" +
		"• Series A: 1 investors (25.0%)\n" +
		"\nTotal investors analyzed: 4" +
		"\nInvestors with stage data: 3" +
		"\nUnique investment stages: 2"
	assert.Equal(t, want, StageDistribution(d))

	assert.Equal(t, "No investor data found.", StageDistribution(engine.StageDistribution{}))
	assert.Equal(t, "No investment stage data found.", StageDistribution(engine.StageDistribution{Records: 3}))
}

func TestStats(t *testing.T) {
	s := engine.DatasetStats{
		Total:          4,
		Coverage:       []engine.FieldCoverage{{Field: "Investor name", Count: 4, Percent: 100}},
		DistinctTypes:  2,
		TopTypes:       []engine.Tally{{Value: "VC", Count: 3}},
		ChequeKnown:    2,
		SmallestCheque: 5_000,
		LargestCheque:  1_500_000,
	}
	got := Stats(s)

	assert.Contains(t, got, "Total Investors: 4\n")
	assert.Contains(t, got, "• Investor name: 4 (100.0%)\n")
	assert.Contains(t, got, "Top Investor Types:\n• VC: 3 (75.0%)\n")
	assert.NotContains(t, got, "Top Investment Stages")
	assert.Contains(t, got, "• Percentage with cheque data: 50.0%\n")
	assert.Contains(t, got, "• Smallest first cheque: $5K\n")
	assert.True(t, strings.HasSuffix(got, "• Largest first cheque: $1.5M"))

	assert.Equal(t, "No investor data found.", Stats(engine.DatasetStats{}))
}

func TestThesis(t *testing.T) {
	a := engine.ThesisAnalysis{
		Analyzed:       2,
		TotalKeywords:  5,
		UniqueKeywords: 4,
		Keywords:       []engine.Tally{{Value: "fintech", Count: 2}},
		Themes:         []engine.Tally{{Value: "fintech", Count: 2, Percent: 100}},
		ByType:         []engine.Tally{{Value: "VC", Count: 6}},
	}
	got := Thesis(a)
	assert.Contains(t, got, "Total investors with thesis data: 2\n")
	assert.Contains(t, got, "Keywords analyzed: 5 (4 unique)\n")
	assert.Contains(t, got, "Top Keywords:\n• fintech: 2\n")
	assert.Contains(t, got, "Most Common Investment Themes:\n• fintech: 2 investors (100.0%)\n")
	assert.True(t, strings.HasSuffix(got, "Thesis Analysis by Investor Type:\n• VC: 6 investors"))

	assert.Equal(t, "No investment thesis data found.", Thesis(engine.ThesisAnalysis{}))
}

func TestDistinctList(t *testing.T) {
	got := DistinctList("investor types", []string{"Angel", "VC"})
	assert.Equal(t, "Available investor types in the database:\n\n1. Angel\n2. VC\n\nTotal: 2 unique investor types", got)
	assert.Equal(t, "No countries found in the database.", DistinctList("countries", nil))
}

func TestSimilar(t *testing.T) {
	res := engine.SimilarResult{
		Seed: acme(),
		Matches: []engine.Match{
			{Record: model.InvestorRecord{Name: "Gamma"}, Score: 5, Reasons: []string{"same investor type", "shared stages: Seed"}},
		},
	}
	got := Similar("Acme VC", res, 10)
	assert.True(t, strings.HasPrefix(got, "Similar investors to 'Acme VC':\n\n1. Gamma (Similarity Score: 5)\n"))
	assert.Contains(t, got, "   Similarity Factors: same investor type; shared stages: Seed\n   Thesis: N/A\n")

	res.Duplicates = 1
	got = Similar("Acme VC", res, 10)
	assert.True(t, strings.HasSuffix(got, "Note: 2 investors share the name 'Acme VC'; the first in dataset order was used."))

	assert.Equal(t, "No similar investors found for 'Acme VC'.", Similar("Acme VC", engine.SimilarResult{}, 10))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "No investor found with name 'Nobody'.", NotFound("Nobody"))
	assert.Equal(t, "An error occurred while fetching investor data: boom", Error("fetching investor data", errors.New("boom")))
}

func TestGuides(t *testing.T) {
	assert.True(t, strings.HasPrefix(LocationGuide(), "Location Search Guide:"))
	assert.Contains(t, ReferenceGuide(), "First Cheque Ranges:")
	assert.Contains(t, AnalysisPrompt("  1. Acme VC  "), "---\n1. Acme VC\n---")
}

func TestFormat_Deterministic(t *testing.T) {
	recs := []model.InvestorRecord{acme(), {Name: "Beta"}}
	assert.Equal(t, Records("t", recs, 10), Records("t", recs, 10))
}
