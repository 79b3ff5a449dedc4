// Package location matches free-text location fields against user queries,
// treating well-known country aliases ("US", "United States", "America") as
// one equivalence class.
package location

import (
	"sort"
	"strings"

	"github.com/sells-group/vc-data/internal/model"
	"github.com/sells-group/vc-data/internal/textutil"
)

// AliasTable maps a canonical country name to its aliases. The canonical
// name is itself a member of its class.
type AliasTable map[string][]string

// DefaultAliases is the built-in country alias table. Two-letter codes that
// collide with US state abbreviations (CA, DE, IN, IL) are left out because
// HQ fields are usually written "City, ST, Country".
func DefaultAliases() AliasTable {
	return AliasTable{
		"USA":         {"us", "usa", "united states", "united states of america", "america", "u.s.", "u.s.a."},
		"UK":          {"uk", "united kingdom", "england", "great britain", "gb", "britain"},
		"Germany":     {"germany", "deutschland"},
		"France":      {"france", "fr"},
		"Canada":      {"canada"},
		"Australia":   {"australia", "au"},
		"Japan":       {"japan", "jp"},
		"China":       {"china", "cn"},
		"India":       {"india"},
		"Singapore":   {"singapore", "sg"},
		"Netherlands": {"netherlands", "nl", "the netherlands", "holland"},
		"Sweden":      {"sweden", "se"},
		"Switzerland": {"switzerland", "ch"},
		"Israel":      {"israel"},
		"UAE":         {"uae", "united arab emirates"},
	}
}

// Matcher resolves location queries against an alias table. It is immutable
// after construction and safe for concurrent use.
type Matcher struct {
	// class maps every folded alias to the folded members of its class.
	class map[string]map[string]bool
	// canonical maps every folded alias to its canonical display name.
	canonical map[string]string
}

// NewMatcher builds a Matcher from aliases. When an alias appears under more
// than one canonical name the alphabetically first canonical wins.
func NewMatcher(aliases AliasTable) *Matcher {
	m := &Matcher{
		class:     make(map[string]map[string]bool),
		canonical: make(map[string]string),
	}

	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		members := map[string]bool{textutil.Fold(name): true}
		for _, a := range aliases[name] {
			if f := textutil.Fold(a); f != "" {
				members[f] = true
			}
		}
		for member := range members {
			if _, taken := m.class[member]; taken {
				continue
			}
			m.class[member] = members
			m.canonical[member] = name
		}
	}
	return m
}

// MatchesLocation reports whether query matches the record's countries of
// investment or its headquarters.
func (m *Matcher) MatchesLocation(rec model.InvestorRecord, query string) bool {
	return m.MatchField(rec.CountriesOfInvestment, query) || m.MatchField(rec.GlobalHQ, query)
}

// regionNames are multi-country regions whose names contain a country alias.
// They are blanked before whole-word alias matching.
var regionNames = strings.NewReplacer(
	"latin america", " ",
	"south america", " ",
	"central america", " ",
)

// MatchField reports whether query matches field. A query that is a known
// alias matches when any list token of field belongs to the same class, or
// when any class member appears in field as a whole word ("USA and Canada");
// otherwise query is matched as a case-insensitive substring. A blank query
// never matches.
func (m *Matcher) MatchField(field, query string) bool {
	q := textutil.Fold(query)
	if q == "" || strings.TrimSpace(field) == "" {
		return false
	}
	members, ok := m.class[q]
	if !ok {
		return textutil.ContainsFold(field, q)
	}
	for _, tok := range textutil.SplitList(field) {
		if members[textutil.Fold(tok)] {
			return true
		}
	}
	text := regionNames.Replace(textutil.Fold(field))
	for member := range members {
		if textutil.ContainsWord(text, member) {
			return true
		}
	}
	return false
}

// Canonical returns the canonical country for token, or the folded token
// when it is not a known alias.
func (m *Matcher) Canonical(token string) string {
	f := textutil.Fold(token)
	if name, ok := m.canonical[f]; ok {
		return name
	}
	return f
}

// CanonicalSet returns the canonical countries named in a list field.
func (m *Matcher) CanonicalSet(field string) map[string]bool {
	tokens := textutil.SplitList(field)
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[m.Canonical(t)] = true
	}
	return set
}

// IsAlias reports whether query resolves to a known alias class.
func (m *Matcher) IsAlias(query string) bool {
	_, ok := m.class[textutil.Fold(query)]
	return ok
}
