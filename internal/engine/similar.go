package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vc-data/internal/location"
	"github.com/sells-group/vc-data/internal/model"
	"github.com/sells-group/vc-data/internal/textutil"
)

// ErrNotFound is returned when no record has the requested seed name.
var ErrNotFound = eris.New("investor not found")

// Weights are the per-factor similarity weights.
type Weights struct {
	Stage   int `mapstructure:"stage_weight" yaml:"stage_weight"`
	Type    int `mapstructure:"type_weight" yaml:"type_weight"`
	Country int `mapstructure:"country_weight" yaml:"country_weight"`
	Thesis  int `mapstructure:"thesis_weight" yaml:"thesis_weight"`
}

// DefaultWeights scores +2 per shared stage, +2 for the same investor type,
// +1 per shared country and +1 for any shared thesis keyword.
func DefaultWeights() Weights {
	return Weights{Stage: 2, Type: 2, Country: 1, Thesis: 1}
}

// Match is a ranked similar investor.
type Match struct {
	Record  model.InvestorRecord `json:"record"`
	Score   int                  `json:"score"`
	Reasons []string             `json:"reasons"`
}

// SimilarResult is the outcome of FindSimilar.
type SimilarResult struct {
	Seed model.InvestorRecord `json:"seed"`
	// Duplicates is the number of other records sharing the seed's name.
	Duplicates int     `json:"duplicates,omitempty"`
	Matches    []Match `json:"matches"`
}

// profile is the tokenized form of a record used for scoring.
type profile struct {
	stages     []string
	stageSet   map[string]bool
	investor   string
	countries  []string
	countrySet map[string]bool
	keywords   map[string]bool
}

func newProfile(rec model.InvestorRecord, m *location.Matcher, stop map[string]bool) profile {
	p := profile{
		stageSet:   make(map[string]bool),
		investor:   textutil.Fold(rec.InvestorType),
		countrySet: make(map[string]bool),
		keywords:   textutil.KeywordSet(rec.Thesis, stop),
	}
	for _, tok := range textutil.StageTokens(rec.Stage) {
		key := textutil.Fold(tok)
		if !p.stageSet[key] {
			p.stageSet[key] = true
			p.stages = append(p.stages, tok)
		}
	}
	for _, tok := range textutil.SplitList(rec.CountriesOfInvestment) {
		key := m.Canonical(tok)
		if !p.countrySet[key] {
			p.countrySet[key] = true
			p.countries = append(p.countries, tok)
		}
	}
	return p
}

// FindSimilar ranks every record other than the seed by weighted overlap with
// the seed. The seed is the first record whose trimmed name equals seedName
// case-insensitively. Zero scores are dropped, ties keep dataset order, and
// the result is truncated to limit when limit > 0.
func FindSimilar(seedName string, records []model.InvestorRecord, limit int, w Weights, t Tables, m *location.Matcher) (SimilarResult, error) {
	want := textutil.Fold(seedName)
	seedIdx := -1
	dupes := 0
	for i, rec := range records {
		if want == "" || textutil.Fold(rec.Name) != want {
			continue
		}
		if seedIdx < 0 {
			seedIdx = i
		} else {
			dupes++
		}
	}
	if seedIdx < 0 {
		return SimilarResult{}, eris.Wrapf(ErrNotFound, "engine: similar %q", strings.TrimSpace(seedName))
	}

	stop := t.StopWordSet()
	seed := newProfile(records[seedIdx], m, stop)

	var matches []Match
	for i, rec := range records {
		if i == seedIdx {
			continue
		}
		score, reasons := seed.score(newProfile(rec, m, stop), w, m)
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Record: rec, Score: score, Reasons: reasons})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return SimilarResult{Seed: records[seedIdx], Duplicates: dupes, Matches: matches}, nil
}

func (p profile) score(other profile, w Weights, m *location.Matcher) (int, []string) {
	score := 0
	var reasons []string

	var sharedStages []string
	for _, s := range other.stages {
		if p.stageSet[textutil.Fold(s)] {
			sharedStages = append(sharedStages, s)
		}
	}
	if len(sharedStages) > 0 && w.Stage != 0 {
		score += w.Stage * len(sharedStages)
		reasons = append(reasons, "shared stages: "+strings.Join(sharedStages, ", "))
	}

	if p.investor != "" && p.investor == other.investor && w.Type != 0 {
		score += w.Type
		reasons = append(reasons, "same investor type")
	}

	var sharedCountries []string
	for _, c := range other.countries {
		if p.countrySet[m.Canonical(c)] {
			sharedCountries = append(sharedCountries, c)
		}
	}
	if len(sharedCountries) > 0 && w.Country != 0 {
		score += w.Country * len(sharedCountries)
		reasons = append(reasons, "shared countries: "+strings.Join(sharedCountries, ", "))
	}

	var sharedKeywords []string
	for kw := range other.keywords {
		if p.keywords[kw] {
			sharedKeywords = append(sharedKeywords, kw)
		}
	}
	if len(sharedKeywords) > 0 && w.Thesis != 0 {
		sort.Strings(sharedKeywords)
		score += w.Thesis
		reasons = append(reasons, fmt.Sprintf("thesis overlap: %s", strings.Join(capList(sharedKeywords, 5), ", ")))
	}

	return score, reasons
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
