package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/vc-data/internal/model"
)

func TestAnalyzeStages(t *testing.T) {
	dist := AnalyzeStages(fixture())

	assert.Equal(t, 6, dist.Records)
	assert.Equal(t, 5, dist.WithStage)

	var got []string
	var counts []int
	sum := 0
	for _, s := range dist.Stages {
		got = append(got, s.Value)
		counts = append(counts, s.Count)
		sum += s.Count
	}
	assert.Equal(t, []string{"Seed", "Series A", "Series B", "Pre-seed", "Growth"}, got)
	assert.Equal(t, []int{2, 2, 2, 1, 1}, counts)
	assert.GreaterOrEqual(t, sum, dist.WithStage)
	assert.InDelta(t, 33.333, dist.Stages[0].Percent, 0.01)

	for i := 1; i < len(dist.Stages); i++ {
		assert.LessOrEqual(t, dist.Stages[i].Count, dist.Stages[i-1].Count)
	}
}

func TestAnalyzeStages_CaseFoldedFirstSeenCasing(t *testing.T) {
	recs := []model.InvestorRecord{
		{Stage: "seed"},
		{Stage: "Seed, SEED"},
		{Stage: "Series A"},
	}
	dist := AnalyzeStages(recs)
	require.Len(t, dist.Stages, 2)
	assert.Equal(t, Tally{Value: "seed", Count: 2, Percent: percent(2, 3)}, dist.Stages[0])
	assert.Equal(t, "Series A", dist.Stages[1].Value)
}

func TestAnalyzeStages_PunctuatedFields(t *testing.T) {
	recs := []model.InvestorRecord{
		{Stage: "Early stage (Seed, Series A)"},
		{Stage: "Seed to Series A."},
	}
	counts := make(map[string]int)
	for _, tl := range AnalyzeStages(recs).Stages {
		counts[tl.Value] = tl.Count
	}
	assert.Equal(t, map[string]int{"Seed": 2, "Series A": 2, "Early stage": 1}, counts)
}

func TestAnalyzeStages_Empty(t *testing.T) {
	dist := AnalyzeStages(nil)
	assert.Zero(t, dist.Records)
	assert.Empty(t, dist.Stages)
}

func TestStatistics(t *testing.T) {
	tables := DefaultTables()
	stats := Statistics(fixture(), tables.Matcher())

	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 4, stats.DistinctTypes)
	assert.Equal(t, 5, stats.DistinctStages)
	assert.Equal(t, 5, stats.DistinctCountries)

	require.Len(t, stats.Coverage, len(model.Fields))
	wantCoverage := map[string]int{
		"Investor name":           5,
		"Website":                 0,
		"Global HQ":               5,
		"Countries of investment": 5,
		"Stage of investment":     5,
		"Investment thesis":       4,
		"Investor type":           5,
		"First cheque minimum":    5,
		"First cheque maximum":    4,
	}
	for i, c := range stats.Coverage {
		assert.Equal(t, model.Fields[i].Label(), c.Field)
		assert.Equal(t, wantCoverage[c.Field], c.Count, c.Field)
	}

	assert.Equal(t, Tally{Value: "VC", Count: 2}, stats.TopTypes[0])
	assert.Equal(t, Tally{Value: "USA", Count: 3}, stats.TopCountries[0])
	assert.Len(t, stats.TopCountries, 5)
	assert.Equal(t, "Seed", stats.TopStages[0].Value)

	assert.Equal(t, 4, stats.ChequeKnown)
	assert.InDelta(t, 5_000, stats.SmallestCheque, 0.001)
	assert.InDelta(t, 50_000_000, stats.LargestCheque, 0.001)
}

func TestStatistics_TopListsCapped(t *testing.T) {
	var recs []model.InvestorRecord
	for _, typ := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		recs = append(recs, model.InvestorRecord{InvestorType: typ})
	}
	stats := Statistics(recs, DefaultTables().Matcher())
	assert.Equal(t, 7, stats.DistinctTypes)
	assert.Len(t, stats.TopTypes, 5)
	assert.Zero(t, stats.ChequeKnown)
}

func TestAnalyzeThesis(t *testing.T) {
	a := AnalyzeThesis(fixture(), DefaultTables(), 3)

	assert.Equal(t, 4, a.Analyzed)
	assert.Equal(t, 14, a.TotalKeywords)
	assert.Equal(t, 12, a.UniqueKeywords)
	assert.Equal(t, []Tally{
		{Value: "ai", Count: 2},
		{Value: "fintech", Count: 2},
		{Value: "b2b", Count: 1},
	}, a.Keywords)

	var themes []string
	for _, th := range a.Themes {
		themes = append(themes, th.Value)
	}
	assert.Equal(t, []string{"AI", "fintech", "SaaS", "software", "enterprise", "B2B"}, themes)
	assert.InDelta(t, 50.0, a.Themes[0].Percent, 0.001)
	assert.Empty(t, a.ByType)
}

func TestAnalyzeThesis_ThemesMatchWholeWords(t *testing.T) {
	recs := []model.InvestorRecord{{Thesis: "We maintain a detailed pipeline."}}
	a := AnalyzeThesis(recs, DefaultTables(), 10)
	assert.Empty(t, a.Themes)
}

func TestAnalyzeThesis_ByType(t *testing.T) {
	var recs []model.InvestorRecord
	for i := 0; i < 6; i++ {
		recs = append(recs, model.InvestorRecord{InvestorType: "VC", Thesis: "Seed software"})
	}
	for i := 0; i < 5; i++ {
		recs = append(recs, model.InvestorRecord{InvestorType: "Angel", Thesis: "Consumer apps"})
	}
	a := AnalyzeThesis(recs, DefaultTables(), 0)
	assert.Equal(t, []Tally{{Value: "VC", Count: 6}}, a.ByType)
	assert.Len(t, a.Keywords, 4)
}

func TestAnalyzeThesis_CustomStopWords(t *testing.T) {
	tables := DefaultTables()
	tables.StopWords = append([]string{"fintech"}, tables.StopWords...)
	a := AnalyzeThesis(fixture(), tables, 1)
	require.Len(t, a.Keywords, 1)
	assert.Equal(t, "ai", a.Keywords[0].Value)
	for _, kw := range AnalyzeThesis(fixture(), tables, 0).Keywords {
		assert.NotEqual(t, "fintech", kw.Value)
	}
}

func TestInvestorTypes(t *testing.T) {
	recs := append(fixture(), model.InvestorRecord{InvestorType: "vc"})
	assert.Equal(t, []string{"Angel network", "Corporate VC", "PE", "VC"}, InvestorTypes(recs))
}

func TestCountries(t *testing.T) {
	assert.Equal(t,
		[]string{"Canada", "France", "Germany", "UK", "United States", "US", "USA"},
		Countries(fixture()))
	assert.Empty(t, Countries(nil))
}

func TestAnalytics_Idempotent(t *testing.T) {
	recs := fixture()
	tables := DefaultTables()
	m := tables.Matcher()

	assert.Equal(t, AnalyzeStages(recs), AnalyzeStages(recs))
	assert.Equal(t, Statistics(recs, m), Statistics(recs, m))
	assert.Equal(t, AnalyzeThesis(recs, tables, 15), AnalyzeThesis(recs, tables, 15))
	assert.Equal(t, InvestorTypes(recs), InvestorTypes(recs))
	assert.Equal(t, Countries(recs), Countries(recs))
	assert.Equal(t, fixture(), recs)
}
