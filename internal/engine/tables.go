package engine

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/vc-data/internal/location"
	"github.com/sells-group/vc-data/internal/textutil"
)

// Tables holds the static lookup data used by filtering, analytics and
// similarity. Callers pass Tables explicitly so tests can substitute their own.
type Tables struct {
	// Countries maps canonical country names to their aliases.
	Countries location.AliasTable `yaml:"countries"`
	// InvestorTypes maps a user-facing type alias to the text searched for in
	// the record's investor type ("venture capital" -> "VC").
	InvestorTypes map[string]string `yaml:"investor_types"`
	// StopWords are dropped when tokenizing thesis text.
	StopWords []string `yaml:"stop_words"`
	// Themes are the fixed investment themes counted by thesis analysis.
	Themes []string `yaml:"themes"`
}

// DefaultTables returns the built-in tables.
func DefaultTables() Tables {
	return Tables{
		Countries: location.DefaultAliases(),
		InvestorTypes: map[string]string{
			"angel":                     "Angel",
			"angels":                    "Angel",
			"angel network":             "Angel",
			"vc":                        "VC",
			"venture capital":           "VC",
			"venture":                   "VC",
			"pe":                        "PE",
			"private equity":            "PE",
			"cvc":                       "CVC",
			"corporate vc":              "CVC",
			"corporate venture capital": "CVC",
			"family office":             "Family office",
			"accelerator":               "Accelerator",
			"incubator":                 "Incubator",
		},
		StopWords: defaultStopWords,
		Themes:    defaultThemes,
	}
}

var defaultStopWords = []string{
	"a", "about", "across", "all", "also", "an", "and", "any", "are", "as",
	"at", "based", "be", "been", "both", "but", "by", "can", "companies",
	"company", "each", "early", "focus", "focused", "focuses", "for", "from",
	"has", "have", "help", "helping", "in", "into", "invest", "invested",
	"investing", "investment", "investments", "investor", "investors",
	"invests", "is", "it", "its", "more", "most", "not", "of", "on", "or",
	"other", "our", "over", "such", "than", "that", "the", "their", "them",
	"these", "they", "this", "those", "through", "to", "up", "us", "we",
	"well", "which", "while", "who", "will", "with", "within", "you", "your",
}

var defaultThemes = []string{
	"AI", "artificial intelligence", "machine learning", "ML", "fintech",
	"financial technology", "healthtech", "healthcare", "SaaS", "software",
	"enterprise", "B2B", "B2C", "ecommerce", "marketplace", "platform",
	"mobile", "biotech", "biotechnology", "clean energy", "sustainability",
	"cybersecurity", "security", "blockchain", "crypto", "edtech",
	"education", "real estate", "proptech",
}

// LoadTables reads a YAML override file and merges it over DefaultTables.
// Non-empty sections replace the default section; investor type aliases are
// merged key by key. An empty path returns the defaults.
func LoadTables(path string) (Tables, error) {
	t := DefaultTables()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, eris.Wrapf(err, "engine: read tables %s", path)
	}

	var override Tables
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Tables{}, eris.Wrap(err, "engine: parse tables")
	}

	if len(override.Countries) > 0 {
		t.Countries = override.Countries
	}
	for k, v := range override.InvestorTypes {
		t.InvestorTypes[textutil.Fold(k)] = v
	}
	if len(override.StopWords) > 0 {
		t.StopWords = override.StopWords
	}
	if len(override.Themes) > 0 {
		t.Themes = override.Themes
	}
	return t, nil
}

// Matcher builds a location matcher over the country table.
func (t Tables) Matcher() *location.Matcher {
	return location.NewMatcher(t.Countries)
}

// StopWordSet returns the stop words as a lowercase set.
func (t Tables) StopWordSet() map[string]bool {
	set := make(map[string]bool, len(t.StopWords))
	for _, w := range t.StopWords {
		set[textutil.Fold(w)] = true
	}
	return set
}

// ResolveInvestorType maps a user-facing type query to the text searched for
// in records. Unknown queries are returned case-folded.
func (t Tables) ResolveInvestorType(query string) string {
	if v, ok := t.InvestorTypes[textutil.Fold(query)]; ok {
		return v
	}
	return textutil.Fold(query)
}
