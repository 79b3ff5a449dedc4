package service

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vc-data/internal/engine"
)

// ErrInvalidArgument marks a tool argument of the wrong shape.
var ErrInvalidArgument = eris.New("invalid argument")

// Param describes one tool argument.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description"`
}

// Tool is a named operation callable by the HTTP façade and the CLI.
type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`

	run func(ctx context.Context, s *Service, a Args) (string, error)
}

// Run invokes the tool against s.
func (t Tool) Run(ctx context.Context, s *Service, a Args) (string, error) {
	return t.run(ctx, s, a)
}

// Args are decoded JSON tool arguments.
type Args map[string]any

// String returns the named argument as text. Numbers are formatted; a
// missing or null argument is "".
func (a Args) String(name string) (string, error) {
	switch v := a[name].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", eris.Wrapf(ErrInvalidArgument, "%s must be a string", name)
	}
}

// Int returns the named argument as an integer. A missing argument is 0.
func (a Args) Int(name string) (int, error) {
	switch v := a[name].(type) {
	case nil:
		return 0, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, eris.Wrapf(ErrInvalidArgument, "%s must be an integer", name)
		}
		return int(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, eris.Wrapf(ErrInvalidArgument, "%s must be an integer", name)
		}
		return n, nil
	default:
		return 0, eris.Wrapf(ErrInvalidArgument, "%s must be an integer", name)
	}
}

func limitParam(desc string) Param {
	return Param{Name: "limit", Type: "integer", Description: desc}
}

var tools = []Tool{
	{
		Name:        "get_investor_data",
		Description: "List investor records from the database.",
		Params:      []Param{limitParam("Maximum number of records; all records when omitted.")},
		run: func(ctx context.Context, s *Service, a Args) (string, error) {
			limit, err := a.Int("limit")
			if err != nil {
				return "", err
			}
			return s.GetInvestorData(ctx, limit)
		},
	},
	{
		Name:        "search_investors_by_criteria",
		Description: "Search investors by type, stage, country of investment, HQ location and cheque bounds.",
		Params: []Param{
			{Name: "investor_type", Type: "string", Description: "Investor type, e.g. VC, Angel, PE."},
			{Name: "stage", Type: "string", Description: "Investment stage, e.g. Seed, Series A."},
			{Name: "country", Type: "string", Description: "Country of investment; aliases such as US or UK are expanded."},
			{Name: "hq_location", Type: "string", Description: "Global HQ location."},
			{Name: "min_amount", Type: "string", Description: "Minimum cheque, e.g. 50k or $1M."},
			{Name: "max_amount", Type: "string", Description: "Maximum cheque."},
			limitParam("Maximum number of matches."),
		},
		run: func(ctx context.Context, s *Service, a Args) (string, error) {
			c, err := criteria(a, "investor_type", "stage", "country", "hq_location", "min_amount", "max_amount")
			if err != nil {
				return "", err
			}
			return s.SearchInvestors(ctx, c)
		},
	},
	{
		Name:        "find_investors_by_cheque_size",
		Description: "Find investors whose first cheque range overlaps the given bounds.",
		Params: []Param{
			{Name: "min_amount", Type: "string", Description: "Minimum cheque, e.g. 10k."},
			{Name: "max_amount", Type: "string", Description: "Maximum cheque, e.g. 2.5M."},
			limitParam("Maximum number of matches."),
		},
		run: func(ctx context.Context, s *Service, a Args) (string, error) {
			c, err := criteria(a, "min_amount", "max_amount")
			if err != nil {
				return "", err
			}
			return s.FindByChequeSize(ctx, c.MinCheque, c.MaxCheque, c.Limit)
		},
	},
	{
		Name:        "find_similar_investors",
		Description: "Rank investors by similarity of stage, type, countries and thesis to a named investor.",
		Params: []Param{
			{Name: "investor_name", Type: "string", Required: true, Description: "Exact investor name, case-insensitive."},
			limitParam("Maximum number of similar investors (default 10)."),
		},
		run: func(ctx context.Context, s *Service, a Args) (string, error) {
			name, err := a.String("investor_name")
			if err != nil {
				return "", err
			}
			limit, err := a.Int("limit")
			if err != nil {
				return "", err
			}
			return s.FindSimilar(ctx, name, limit)
		},
	},
	{
		Name:        "analyze_investment_stages",
		Description: "Distribution of investment stages across investors.",
		run: func(ctx context.Context, s *Service, _ Args) (string, error) {
			return s.AnalyzeStages(ctx)
		},
	},
	{
		Name:        "analyze_investment_thesis",
		Description: "Keyword and theme frequencies across investment theses.",
		run: func(ctx context.Context, s *Service, _ Args) (string, error) {
			return s.AnalyzeThesis(ctx)
		},
	},
	{
		Name:        "get_investor_statistics",
		Description: "Dataset-wide field coverage, distinct counts and cheque statistics.",
		run: func(ctx context.Context, s *Service, _ Args) (string, error) {
			return s.Statistics(ctx)
		},
	},
	{
		Name:        "get_available_investor_types",
		Description: "List the distinct investor types.",
		run: func(ctx context.Context, s *Service, _ Args) (string, error) {
			return s.InvestorTypes(ctx)
		},
	},
	{
		Name:        "get_available_countries",
		Description: "List the distinct countries of investment.",
		run: func(ctx context.Context, s *Service, _ Args) (string, error) {
			return s.Countries(ctx)
		},
	},
	{
		Name:        "get_location_search_guide",
		Description: "How country and HQ searches and aliases work.",
		run: func(_ context.Context, s *Service, _ Args) (string, error) {
			return s.LocationGuide(), nil
		},
	},
}

func criteria(a Args, names ...string) (engine.Criteria, error) {
	var c engine.Criteria
	fields := map[string]*string{
		"investor_type": &c.InvestorType,
		"stage":         &c.Stage,
		"country":       &c.Country,
		"hq_location":   &c.HQLocation,
		"min_amount":    &c.MinCheque,
		"max_amount":    &c.MaxCheque,
	}
	for _, n := range names {
		v, err := a.String(n)
		if err != nil {
			return c, err
		}
		*fields[n] = v
	}
	limit, err := a.Int("limit")
	if err != nil {
		return c, err
	}
	c.Limit = limit
	return c, nil
}

// Tools returns the tool descriptors sorted by name.
func Tools() []Tool {
	out := make([]Tool, len(tools))
	copy(out, tools)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupTool returns the named tool.
func LookupTool(name string) (Tool, bool) {
	for _, t := range tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}
