package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/vc-data/internal/model"
	"github.com/sells-group/vc-data/internal/textutil"
)

func scenario() []model.InvestorRecord {
	return []model.InvestorRecord{
		{Name: "Acme VC", InvestorType: "VC", Stage: "Seed, Series A", CountriesOfInvestment: "USA", ChequeMin: "50k", ChequeMax: "250k"},
		{Name: "Beta Angels", InvestorType: "Angel", Stage: "Pre-seed", CountriesOfInvestment: "UK", ChequeMin: "5k", ChequeMax: "25k"},
	}
}

func fixture() []model.InvestorRecord {
	return []model.InvestorRecord{
		{Name: "Acme VC", InvestorType: "VC", Stage: "Seed, Series A", CountriesOfInvestment: "USA, Canada", GlobalHQ: "San Francisco, CA, USA", ChequeMin: "$50k", ChequeMax: "$250k", Thesis: "We back B2B SaaS and fintech founders."},
		{Name: "Beta Angels", InvestorType: "Angel network", Stage: "Pre-seed, Seed", CountriesOfInvestment: "UK", GlobalHQ: "London, UK", ChequeMin: "5k", ChequeMax: "25k", Thesis: "Consumer fintech and marketplaces."},
		{Name: "Gamma Capital", InvestorType: "VC", Stage: "Series A, Series B", CountriesOfInvestment: "United States", GlobalHQ: "New York, NY, USA", ChequeMin: "1M", ChequeMax: "5M", Thesis: "Enterprise software and AI infrastructure."},
		{Name: "Delta Corp Ventures", InvestorType: "Corporate VC", Stage: "Series B", CountriesOfInvestment: "Germany, France", GlobalHQ: "Berlin, Germany", ChequeMin: "varies", Thesis: "Industrial AI."},
		{Name: "Epsilon Partners", InvestorType: "PE", Stage: "Growth", CountriesOfInvestment: "US", GlobalHQ: "Boston, MA, USA", ChequeMin: "10M", ChequeMax: "50M"},
		{Name: "", InvestorType: "", Stage: "", CountriesOfInvestment: ""},
	}
}

func names(recs []model.InvestorRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.DisplayName()
	}
	return out
}

func TestFilter_IdentityPreservesOrder(t *testing.T) {
	recs := fixture()
	got := Filter(recs, Criteria{}, DefaultTables())
	assert.Equal(t, recs, got)
}

func TestFilter_Scenario(t *testing.T) {
	tables := DefaultTables()

	got := Filter(scenario(), Criteria{Stage: "Seed"}, tables)
	assert.Equal(t, []string{"Acme VC"}, names(got))

	got = Filter(scenario(), Criteria{MinCheque: "10k", MaxCheque: "30k"}, tables)
	assert.Equal(t, []string{"Beta Angels"}, names(got))
}

func TestFilter_Criteria(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"type exact", Criteria{InvestorType: "vc"}, []string{"Acme VC", "Gamma Capital", "Delta Corp Ventures"}},
		{"type alias", Criteria{InvestorType: "venture capital"}, []string{"Acme VC", "Gamma Capital", "Delta Corp Ventures"}},
		{"type angel alias", Criteria{InvestorType: "angel"}, []string{"Beta Angels"}},
		{"type private equity", Criteria{InvestorType: "Private Equity"}, []string{"Epsilon Partners"}},
		{"stage token", Criteria{Stage: "seed"}, []string{"Acme VC", "Beta Angels"}},
		{"stage prefix", Criteria{Stage: "Series"}, []string{"Acme VC", "Gamma Capital", "Delta Corp Ventures"}},
		{"stage exact B", Criteria{Stage: "series b"}, []string{"Gamma Capital", "Delta Corp Ventures"}},
		{"country alias", Criteria{Country: "United States"}, []string{"Acme VC", "Gamma Capital", "Epsilon Partners"}},
		{"country substring", Criteria{Country: "fran"}, []string{"Delta Corp Ventures"}},
		{"hq alias", Criteria{HQLocation: "usa"}, []string{"Acme VC", "Gamma Capital", "Epsilon Partners"}},
		{"hq city", Criteria{HQLocation: "london"}, []string{"Beta Angels"}},
		{"min cheque", Criteria{MinCheque: "2M"}, []string{"Gamma Capital", "Epsilon Partners"}},
		{"max cheque", Criteria{MaxCheque: "$60,000"}, []string{"Acme VC", "Beta Angels"}},
		{"combined", Criteria{InvestorType: "VC", Country: "US", Stage: "Series A"}, []string{"Acme VC", "Gamma Capital"}},
		{"no match", Criteria{Country: "Japan"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(fixture(), tt.criteria, DefaultTables())
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestFilter_Limit(t *testing.T) {
	got := Filter(fixture(), Criteria{InvestorType: "VC", Limit: 2}, DefaultTables())
	assert.Equal(t, []string{"Acme VC", "Gamma Capital"}, names(got))

	got = Filter(fixture(), Criteria{Limit: -3}, DefaultTables())
	assert.Len(t, got, len(fixture()))
}

func TestFilter_UnparseableChequeBoundIsIgnored(t *testing.T) {
	c := Criteria{MinCheque: "lots", MaxCheque: "30k"}
	b := c.ParseBounds()
	assert.Nil(t, b.Min)
	require.NotNil(t, b.Max)
	assert.InDelta(t, 30_000, *b.Max, 0.001)
	assert.Equal(t, []string{"lots"}, b.Ignored)

	got := Filter(fixture(), c, DefaultTables())
	assert.Equal(t, []string{"Beta Angels"}, names(got))
}

func TestFilter_UnparseableRecordsOnlyInUnboundedQueries(t *testing.T) {
	recs := fixture()
	all := Filter(recs, Criteria{Stage: "Series B"}, DefaultTables())
	assert.Contains(t, names(all), "Delta Corp Ventures")

	bounded := Filter(recs, Criteria{Stage: "Series B", MinCheque: "1"}, DefaultTables())
	assert.NotContains(t, names(bounded), "Delta Corp Ventures")
}

func TestFilter_Monotonic(t *testing.T) {
	recs := fixture()
	tables := DefaultTables()
	steps := []Criteria{
		{},
		{Country: "USA"},
		{Country: "USA", InvestorType: "VC"},
		{Country: "USA", InvestorType: "VC", Stage: "Series A"},
		{Country: "USA", InvestorType: "VC", Stage: "Series A", MinCheque: "1M"},
		{Country: "USA", InvestorType: "VC", Stage: "Series A", MinCheque: "1M", HQLocation: "Boston"},
	}
	prev := len(recs) + 1
	for _, c := range steps {
		n := len(Filter(recs, c, tables))
		assert.LessOrEqual(t, n, prev, "criteria %+v", c)
		prev = n
	}
}

func TestMatchStage(t *testing.T) {
	assert.True(t, MatchStage("Seed, Series A", "seed"))
	assert.True(t, MatchStage("Seed, Series A", "Series"))
	assert.False(t, MatchStage("Pre-seed", "Seed"))
	assert.False(t, MatchStage("Seed", "Se"))
	assert.False(t, MatchStage("Seed", ""))
	assert.False(t, MatchStage("", "Seed"))
}

func TestMatchStage_PunctuatedAndRangedFields(t *testing.T) {
	assert.True(t, MatchStage("Early stage (Seed, Series A)", "Series A"))
	assert.True(t, MatchStage("Early stage (Seed, Series A)", "Seed"))
	assert.True(t, MatchStage("Seed to Series A", "Series A"))
	assert.True(t, MatchStage("Series  A", "series a"))
	assert.True(t, MatchStage("Seed, Series A", "Series  A"))
	assert.False(t, MatchStage("Early stage (Pre-seed)", "Seed"))
	assert.False(t, MatchStage("Pre-seed to Seed", "Series A"))
}

func TestCriteria_IsEmptyAndDescribe(t *testing.T) {
	assert.True(t, Criteria{}.IsEmpty())
	assert.True(t, Criteria{Limit: 5, Stage: "  "}.IsEmpty())
	assert.False(t, Criteria{Country: "UK"}.IsEmpty())

	c := Criteria{InvestorType: "VC", Stage: "Seed", MaxCheque: "1M"}
	assert.Equal(t, "type: VC, stage: Seed, max cheque: 1M", c.Describe())
	assert.Empty(t, Criteria{}.Describe())
}

func TestCriteria_Pushdown(t *testing.T) {
	tables := DefaultTables()

	p := Criteria{Stage: "Seed", InvestorType: "Family", Country: "USA", HQLocation: "Berlin"}.Pushdown(tables)
	assert.Equal(t, map[string]string{
		model.ColStage:    "Seed",
		model.ColType:     "Family",
		model.ColGlobalHQ: "Berlin",
	}, p)

	p = Criteria{InvestorType: "venture capital"}.Pushdown(tables)
	assert.Empty(t, p)
}

func TestCriteria_PushdownStageUsesSingleWord(t *testing.T) {
	tables := DefaultTables()

	assert.Equal(t, "Series", Criteria{Stage: "Series  A"}.Pushdown(tables)[model.ColStage])
	assert.Equal(t, "Series", Criteria{Stage: " (Series A) "}.Pushdown(tables)[model.ColStage])
	assert.NotContains(t, Criteria{Stage: "--"}.Pushdown(tables), model.ColStage)

	recs := []model.InvestorRecord{
		{Name: "Spaced", Stage: "Seed, Series  A"},
		{Name: "Bracketed", Stage: "Early stage (Seed, Series A)"},
		{Name: "Ranged", Stage: "Seed to Series A"},
		{Name: "Later", Stage: "Series B"},
	}
	c := Criteria{Stage: "Series  A"}
	pre := applyPushdown(recs, c.Pushdown(tables))
	got := Filter(pre, c, tables)
	assert.Equal(t, Filter(recs, c, tables), got)
	assert.Len(t, got, 3)
}

func TestFilter_PushdownIsSuperset(t *testing.T) {
	recs := fixture()
	tables := DefaultTables()
	criteria := []Criteria{
		{Stage: "Seed"},
		{Stage: "series"},
		{InvestorType: "Corporate"},
		{Country: "fran", HQLocation: "berlin"},
	}
	for _, c := range criteria {
		pre := applyPushdown(recs, c.Pushdown(tables))
		assert.Equal(t, Filter(recs, c, tables), Filter(pre, c, tables), "criteria %+v", c)
	}
}

// applyPushdown mimics a store applying a case-insensitive substring predicate.
func applyPushdown(recs []model.InvestorRecord, p map[string]string) []model.InvestorRecord {
	var out []model.InvestorRecord
	for _, r := range recs {
		ok := true
		for col, v := range p {
			f, _ := model.LookupColumn(col)
			if !textutil.ContainsFold(r.Value(f), v) {
				ok = false
			}
		}
		if ok {
			out = append(out, r)
		}
	}
	return out
}
