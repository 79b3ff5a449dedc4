// Package engine implements filtering, analytics and similarity ranking over
// normalized investor records. Every function is pure: records are never
// mutated and results depend only on the inputs.
package engine

import (
	"fmt"
	"strings"

	"github.com/sells-group/vc-data/internal/cheque"
	"github.com/sells-group/vc-data/internal/location"
	"github.com/sells-group/vc-data/internal/model"
	"github.com/sells-group/vc-data/internal/textutil"
)

// Criteria are the optional search constraints. Blank fields impose no
// constraint. Limit <= 0 means no limit.
type Criteria struct {
	InvestorType string `json:"investor_type,omitempty"`
	Stage        string `json:"stage,omitempty"`
	Country      string `json:"country,omitempty"`
	HQLocation   string `json:"hq_location,omitempty"`
	MinCheque    string `json:"min_amount,omitempty"`
	MaxCheque    string `json:"max_amount,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

// IsEmpty reports whether c constrains nothing besides the limit.
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.InvestorType) == "" &&
		strings.TrimSpace(c.Stage) == "" &&
		strings.TrimSpace(c.Country) == "" &&
		strings.TrimSpace(c.HQLocation) == "" &&
		strings.TrimSpace(c.MinCheque) == "" &&
		strings.TrimSpace(c.MaxCheque) == ""
}

// Describe renders the present criteria as "type: VC, stage: Seed".
func (c Criteria) Describe() string {
	var parts []string
	add := func(label, v string) {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", label, v))
		}
	}
	add("type", c.InvestorType)
	add("stage", c.Stage)
	add("country", c.Country)
	add("HQ", c.HQLocation)
	add("min cheque", c.MinCheque)
	add("max cheque", c.MaxCheque)
	return strings.Join(parts, ", ")
}

// Pushdown returns the server-side pre-filter for c as source column to
// case-insensitive substring. It only includes criteria whose substring test
// is a superset of the engine test, so the engine must still re-filter.
// Alias-resolved location and type queries are not pushed down.
func (c Criteria) Pushdown(t Tables) map[string]string {
	p := make(map[string]string)
	if w := stageNeedle(c.Stage); w != "" {
		p[model.ColStage] = w
	}
	if q := strings.TrimSpace(c.InvestorType); q != "" {
		if _, aliased := t.InvestorTypes[textutil.Fold(q)]; !aliased {
			p[model.ColType] = q
		}
	}
	m := t.Matcher()
	if q := strings.TrimSpace(c.Country); q != "" && !m.IsAlias(q) {
		p[model.ColCountries] = q
	}
	if q := strings.TrimSpace(c.HQLocation); q != "" && !m.IsAlias(q) {
		p[model.ColGlobalHQ] = q
	}
	return p
}

// stageNeedle returns the longest word of a stage query. Stage matching
// collapses whitespace and trims punctuation, so only a single word is
// guaranteed to appear verbatim in every matching field.
func stageNeedle(query string) string {
	var best string
	for _, w := range strings.Fields(query) {
		if w = textutil.TrimPunct(w); len(w) > len(best) {
			best = w
		}
	}
	return best
}

// Bounds are the parsed cheque bounds of a query. A nil bound is open.
// Ignored lists the raw bound texts that could not be parsed.
type Bounds struct {
	Min     *float64
	Max     *float64
	Ignored []string
}

// ParseBounds parses the cheque bounds of c. Unparseable bounds are dropped
// and reported in Ignored rather than failing the query.
func (c Criteria) ParseBounds() Bounds {
	var b Bounds
	parse := func(raw string) *float64 {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		v, ok := cheque.ParseAmount(raw)
		if !ok {
			b.Ignored = append(b.Ignored, raw)
			return nil
		}
		return &v
	}
	b.Min = parse(c.MinCheque)
	b.Max = parse(c.MaxCheque)
	return b
}

// predicate is one compiled criterion.
type predicate func(model.InvestorRecord) bool

// Filter returns the records matching every present criterion, in dataset
// order. Limit truncates after filtering and never reorders.
func Filter(records []model.InvestorRecord, c Criteria, t Tables) []model.InvestorRecord {
	preds := compile(c, t)

	out := make([]model.InvestorRecord, 0, len(records))
	for _, rec := range records {
		if matchesAll(rec, preds) {
			out = append(out, rec)
			if c.Limit > 0 && len(out) == c.Limit {
				break
			}
		}
	}
	return out
}

func matchesAll(rec model.InvestorRecord, preds []predicate) bool {
	for _, p := range preds {
		if !p(rec) {
			return false
		}
	}
	return true
}

func compile(c Criteria, t Tables) []predicate {
	var preds []predicate
	var matcher *location.Matcher
	loc := func() *location.Matcher {
		if matcher == nil {
			matcher = t.Matcher()
		}
		return matcher
	}

	if q := strings.TrimSpace(c.InvestorType); q != "" {
		needle := t.ResolveInvestorType(q)
		preds = append(preds, func(r model.InvestorRecord) bool {
			return textutil.ContainsFold(r.InvestorType, needle) || textutil.ContainsFold(r.InvestorType, q)
		})
	}
	if q := strings.TrimSpace(c.Stage); q != "" {
		preds = append(preds, func(r model.InvestorRecord) bool {
			return MatchStage(r.Stage, q)
		})
	}
	if q := strings.TrimSpace(c.Country); q != "" {
		m := loc()
		preds = append(preds, func(r model.InvestorRecord) bool {
			return m.MatchField(r.CountriesOfInvestment, q)
		})
	}
	if q := strings.TrimSpace(c.HQLocation); q != "" {
		m := loc()
		preds = append(preds, func(r model.InvestorRecord) bool {
			return m.MatchField(r.GlobalHQ, q)
		})
	}

	b := c.ParseBounds()
	if b.Min != nil || b.Max != nil {
		preds = append(preds, func(r model.InvestorRecord) bool {
			return cheque.RecordRange(r.ChequeMin, r.ChequeMax).Overlaps(b.Min, b.Max)
		})
	}
	return preds
}

// MatchStage reports whether any stage token of field matches query. A token
// matches when it equals the query or starts with the query followed by a
// space, so "Series" matches "Series A" but "Seed" does not match "Pre-seed".
// Tokens come from textutil.StageTokens, so "Seed to Series A" holds both.
func MatchStage(field, query string) bool {
	q := textutil.Fold(textutil.TrimPunct(strings.Join(strings.Fields(query), " ")))
	if q == "" {
		return false
	}
	for _, tok := range textutil.StageTokens(field) {
		f := textutil.Fold(tok)
		if f == q || strings.HasPrefix(f, q+" ") {
			return true
		}
	}
	return false
}
