package engine

import (
	"sort"
	"strings"

	"github.com/sells-group/vc-data/internal/cheque"
	"github.com/sells-group/vc-data/internal/location"
	"github.com/sells-group/vc-data/internal/model"
	"github.com/sells-group/vc-data/internal/textutil"
)

// topListSize is the length of the top-N lists in DatasetStats.
const topListSize = 5

// minThesesPerType is the number of theses a type needs before it is listed
// in ThesisAnalysis.ByType.
const minThesesPerType = 5

// Tally is a value and its occurrence count.
type Tally struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent,omitempty"`
}

// tallier counts values under a case-folded key while remembering the
// first-seen display form and first-seen order.
type tallier struct {
	index map[string]int
	items []Tally
}

func newTallier() *tallier {
	return &tallier{index: make(map[string]int)}
}

func (t *tallier) add(key, display string) {
	if i, ok := t.index[key]; ok {
		t.items[i].Count++
		return
	}
	t.index[key] = len(t.items)
	t.items = append(t.items, Tally{Value: display, Count: 1})
}

// byCount returns the tallies sorted by count descending, ties in first-seen
// order.
func (t *tallier) byCount() []Tally {
	out := make([]Tally, len(t.items))
	copy(out, t.items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func top(items []Tally, n int) []Tally {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

// StageDistribution is the stage token tally over a record set.
type StageDistribution struct {
	Records   int     `json:"records"`
	WithStage int     `json:"with_stage"`
	Stages    []Tally `json:"stages"`
}

// AnalyzeStages tallies stage tokens. A record listing several stages counts
// once for each distinct stage. Percent is relative to all records.
func AnalyzeStages(records []model.InvestorRecord) StageDistribution {
	t := newTallier()
	withStage := 0
	for _, rec := range records {
		seen := make(map[string]bool)
		for _, tok := range textutil.StageTokens(rec.Stage) {
			key := textutil.Fold(tok)
			if seen[key] {
				continue
			}
			seen[key] = true
			t.add(key, tok)
		}
		if len(seen) > 0 {
			withStage++
		}
	}

	stages := t.byCount()
	for i := range stages {
		stages[i].Percent = percent(stages[i].Count, len(records))
	}
	return StageDistribution{Records: len(records), WithStage: withStage, Stages: stages}
}

// FieldCoverage is the number of records with a non-blank value for a field.
type FieldCoverage struct {
	Field   string  `json:"field"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// DatasetStats summarizes a record set.
type DatasetStats struct {
	Total             int             `json:"total"`
	Coverage          []FieldCoverage `json:"coverage"`
	DistinctTypes     int             `json:"distinct_types"`
	DistinctStages    int             `json:"distinct_stages"`
	DistinctCountries int             `json:"distinct_countries"`
	TopTypes          []Tally         `json:"top_types"`
	TopStages         []Tally         `json:"top_stages"`
	TopCountries      []Tally         `json:"top_countries"`
	ChequeKnown       int             `json:"cheque_known"`
	SmallestCheque    float64         `json:"smallest_cheque,omitempty"`
	LargestCheque     float64         `json:"largest_cheque,omitempty"`
}

// Statistics computes coverage, distinct counts and top-5 lists. Countries are
// counted by canonical name so "US" and "United States" are one country.
func Statistics(records []model.InvestorRecord, m *location.Matcher) DatasetStats {
	stats := DatasetStats{Total: len(records)}

	coverage := make([]int, len(model.Fields))
	types := newTallier()
	stages := newTallier()
	countries := newTallier()
	first := true

	for _, rec := range records {
		for i, f := range model.Fields {
			if rec.Value(f) != "" {
				coverage[i]++
			}
		}

		if rec.InvestorType != "" {
			types.add(textutil.Fold(rec.InvestorType), rec.InvestorType)
		}
		seenStage := make(map[string]bool)
		for _, tok := range textutil.StageTokens(rec.Stage) {
			key := textutil.Fold(tok)
			if !seenStage[key] {
				seenStage[key] = true
				stages.add(key, tok)
			}
		}
		seenCountry := make(map[string]bool)
		for _, tok := range textutil.SplitList(rec.CountriesOfInvestment) {
			key := m.Canonical(tok)
			if seenCountry[key] {
				continue
			}
			seenCountry[key] = true
			display := tok
			if m.IsAlias(tok) {
				display = key
			}
			countries.add(key, display)
		}

		r := cheque.RecordRange(rec.ChequeMin, rec.ChequeMax)
		if !r.Known {
			continue
		}
		stats.ChequeKnown++
		if first || r.Min < stats.SmallestCheque {
			stats.SmallestCheque = r.Min
		}
		if first || r.Max > stats.LargestCheque {
			stats.LargestCheque = r.Max
		}
		first = false
	}

	for i, f := range model.Fields {
		stats.Coverage = append(stats.Coverage, FieldCoverage{
			Field:   f.Label(),
			Count:   coverage[i],
			Percent: percent(coverage[i], len(records)),
		})
	}

	stats.DistinctTypes = len(types.items)
	stats.DistinctStages = len(stages.items)
	stats.DistinctCountries = len(countries.items)
	stats.TopTypes = top(types.byCount(), topListSize)
	stats.TopStages = top(stages.byCount(), topListSize)
	stats.TopCountries = top(countries.byCount(), topListSize)
	return stats
}

// ThesisAnalysis is the keyword and theme breakdown of investment theses.
type ThesisAnalysis struct {
	Analyzed       int     `json:"analyzed"`
	TotalKeywords  int     `json:"total_keywords"`
	UniqueKeywords int     `json:"unique_keywords"`
	Keywords       []Tally `json:"keywords"`
	Themes         []Tally `json:"themes"`
	ByType         []Tally `json:"by_type"`
}

// AnalyzeThesis tallies thesis keywords across non-blank theses and returns the
// topN by count, ties broken lexicographically. Themes counts investors whose
// thesis mentions each theme phrase as whole words. ByType counts theses per
// investor type for types with more than five theses.
func AnalyzeThesis(records []model.InvestorRecord, t Tables, topN int) ThesisAnalysis {
	stop := t.StopWordSet()
	counts := make(map[string]int)
	themeWords := make([][]string, len(t.Themes))
	for i, theme := range t.Themes {
		themeWords[i] = textutil.Words(theme)
	}
	themeCounts := make([]int, len(t.Themes))
	byType := newTallier()

	var a ThesisAnalysis
	for _, rec := range records {
		if rec.Thesis == "" {
			continue
		}
		a.Analyzed++

		for _, kw := range textutil.Keywords(rec.Thesis, stop) {
			counts[kw]++
			a.TotalKeywords++
		}

		words := textutil.Words(rec.Thesis)
		for i, tw := range themeWords {
			if containsPhrase(words, tw) {
				themeCounts[i]++
			}
		}

		if rec.InvestorType != "" {
			byType.add(textutil.Fold(rec.InvestorType), rec.InvestorType)
		}
	}

	a.UniqueKeywords = len(counts)
	a.Keywords = make([]Tally, 0, len(counts))
	for kw, n := range counts {
		a.Keywords = append(a.Keywords, Tally{Value: kw, Count: n})
	}
	sort.Slice(a.Keywords, func(i, j int) bool {
		if a.Keywords[i].Count != a.Keywords[j].Count {
			return a.Keywords[i].Count > a.Keywords[j].Count
		}
		return a.Keywords[i].Value < a.Keywords[j].Value
	})
	if topN > 0 {
		a.Keywords = top(a.Keywords, topN)
	}

	for i, theme := range t.Themes {
		if themeCounts[i] > 0 {
			a.Themes = append(a.Themes, Tally{
				Value:   theme,
				Count:   themeCounts[i],
				Percent: percent(themeCounts[i], a.Analyzed),
			})
		}
	}
	sort.SliceStable(a.Themes, func(i, j int) bool { return a.Themes[i].Count > a.Themes[j].Count })

	for _, tl := range byType.items {
		if tl.Count > minThesesPerType {
			a.ByType = append(a.ByType, tl)
		}
	}
	sort.SliceStable(a.ByType, func(i, j int) bool {
		if a.ByType[i].Count != a.ByType[j].Count {
			return a.ByType[i].Count > a.ByType[j].Count
		}
		return a.ByType[i].Value < a.ByType[j].Value
	})
	return a
}

// containsPhrase reports whether phrase occurs as a contiguous word run in
// words.
func containsPhrase(words, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(words) {
		return false
	}
	for i := 0; i+len(phrase) <= len(words); i++ {
		match := true
		for j, p := range phrase {
			if words[i+j] != p {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// InvestorTypes returns the distinct non-blank investor types in first-seen
// casing, sorted alphabetically by folded value.
func InvestorTypes(records []model.InvestorRecord) []string {
	return distinct(records, func(r model.InvestorRecord) []string {
		if r.InvestorType == "" {
			return nil
		}
		return []string{strings.TrimSpace(r.InvestorType)}
	})
}

// Countries returns the distinct countries of investment in first-seen casing,
// sorted alphabetically by folded value. Multi-country fields are split.
func Countries(records []model.InvestorRecord) []string {
	return distinct(records, func(r model.InvestorRecord) []string {
		return textutil.SplitList(r.CountriesOfInvestment)
	})
}

func distinct(records []model.InvestorRecord, values func(model.InvestorRecord) []string) []string {
	seen := make(map[string]string)
	for _, rec := range records {
		for _, v := range values(rec) {
			key := textutil.Fold(v)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; !ok {
				seen[key] = v
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out
}
