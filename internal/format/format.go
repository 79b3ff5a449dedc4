// Package format renders engine results as the plain-text blocks returned to
// callers. Every function is deterministic: output depends only on the
// already-ordered input.
package format

import (
	"fmt"
	"strings"

	"github.com/sells-group/vc-data/internal/cheque"
	"github.com/sells-group/vc-data/internal/engine"
	"github.com/sells-group/vc-data/internal/model"
)

const (
	// NA is shown for blank fields.
	NA = "N/A"
	// DefaultMaxListed is the number of records listed before "... and N more".
	DefaultMaxListed = 10
	// ThesisPreview is the number of runes of thesis text shown per record.
	ThesisPreview = 100
)

// Separator follows every listed record.
var Separator = strings.Repeat("-", 80)

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NA
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

func listed(maxListed int) int {
	if maxListed <= 0 {
		return DefaultMaxListed
	}
	return maxListed
}

// chequeLine renders the raw cheque bounds and, when they parse, the
// normalized range.
func chequeLine(rec model.InvestorRecord) string {
	line := fmt.Sprintf("%s - %s", orNA(rec.ChequeMin), orNA(rec.ChequeMax))
	if r := cheque.RecordRange(rec.ChequeMin, rec.ChequeMax); r.Known {
		line += fmt.Sprintf(" (%s - %s)", cheque.FormatAmount(r.Min), cheque.FormatAmount(r.Max))
	}
	return line
}

// writeRecord writes one numbered record block. extra lines are written after
// the cheque line and before the thesis.
func writeRecord(b *strings.Builder, n int, heading string, rec model.InvestorRecord, extra ...string) {
	fmt.Fprintf(b, "%d. %s\n", n, heading)
	fmt.Fprintf(b, "   Website: %s\n", orNA(rec.Website))
	fmt.Fprintf(b, "   Global HQ: %s\n", orNA(rec.GlobalHQ))
	fmt.Fprintf(b, "   Countries: %s\n", orNA(rec.CountriesOfInvestment))
	fmt.Fprintf(b, "   Stage: %s\n", orNA(rec.Stage))
	fmt.Fprintf(b, "   Type: %s\n", orNA(rec.InvestorType))
	fmt.Fprintf(b, "   First Cheque: %s\n", chequeLine(rec))
	for _, line := range extra {
		fmt.Fprintf(b, "   %s\n", line)
	}
	fmt.Fprintf(b, "   Thesis: %s\n", truncate(orNA(rec.Thesis), ThesisPreview))
	b.WriteString(Separator)
	b.WriteString("\n\n")
}

// Records renders a titled record list. At most maxListed records are shown,
// followed by a count of the rest.
func Records(title string, recs []model.InvestorRecord, maxListed int) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")

	limit := listed(maxListed)
	for i, rec := range recs {
		if i == limit {
			break
		}
		writeRecord(&b, i+1, rec.DisplayName(), rec)
	}
	if len(recs) > limit {
		fmt.Fprintf(&b, "... and %d more records.", len(recs)-limit)
	}
	return strings.TrimRight(b.String(), "\n")
}

// InvestorData renders the unfiltered record listing.
func InvestorData(recs []model.InvestorRecord, maxListed int) string {
	if len(recs) == 0 {
		return "No investor data found."
	}
	return Records(fmt.Sprintf("Found %d investor records:", len(recs)), recs, maxListed)
}

// Search renders filter results with a criteria header. Cheque bounds that
// could not be parsed are reported so the caller knows they were ignored.
func Search(c engine.Criteria, bounds engine.Bounds, recs []model.InvestorRecord, maxListed int) string {
	notes := ignoredNotes(bounds)
	if len(recs) == 0 {
		desc := c.Describe()
		if desc == "" {
			desc = "the specified criteria"
		}
		return joinNotes(fmt.Sprintf("No investors found matching %s.", desc), notes)
	}

	body := Records(fmt.Sprintf("Found %d investors matching your criteria:", len(recs)), recs, maxListed)
	if header := CriteriaHeader(c); header != "" {
		body = header + "\n\n" + body
	}
	return joinNotes(body, notes)
}

// CriteriaHeader renders the applied criteria, or "" when there are none.
func CriteriaHeader(c engine.Criteria) string {
	desc := c.Describe()
	if desc == "" {
		return ""
	}
	return "Criteria: " + desc
}

func ignoredNotes(b engine.Bounds) []string {
	notes := make([]string, 0, len(b.Ignored))
	for _, raw := range b.Ignored {
		notes = append(notes, fmt.Sprintf("Note: could not parse cheque amount '%s'; that bound was ignored.", raw))
	}
	return notes
}

func joinNotes(body string, notes []string) string {
	if len(notes) == 0 {
		return body
	}
	return body + "\n\n" + strings.Join(notes, "\n")
}

// StageDistribution renders the stage tally.
func StageDistribution(d engine.StageDistribution) string {
	if d.Records == 0 {
		return "No investor data found."
	}
	if len(d.Stages) == 0 {
		return "No investment stage data found."
	}

	var b strings.Builder
	b.WriteString("Investment Stage Analysis:\n\n")
	for _, s := range d.Stages {
		fmt.Fprintf(&b, "• %s: %d investors (%.1f%%)\n", s.Value, s.Count, s.Percent)
	}
	fmt.Fprintf(&b, "\nTotal investors analyzed: %d", d.Records)
	fmt.Fprintf(&b, "\nInvestors with stage data: %d", d.WithStage)
	fmt.Fprintf(&b, "\nUnique investment stages: %d", len(d.Stages))
	return b.String()
}

// Stats renders dataset statistics.
func Stats(s engine.DatasetStats) string {
	if s.Total == 0 {
		return "No investor data found."
	}

	var b strings.Builder
	b.WriteString("Investor Database Statistics:\n\n")
	fmt.Fprintf(&b, "Total Investors: %d\n\n", s.Total)

	b.WriteString("Field Coverage:\n")
	for _, c := range s.Coverage {
		fmt.Fprintf(&b, "• %s: %d (%.1f%%)\n", c.Field, c.Count, c.Percent)
	}

	b.WriteString("\nDistinct Values:\n")
	fmt.Fprintf(&b, "• Investor types: %d\n", s.DistinctTypes)
	fmt.Fprintf(&b, "• Investment stages: %d\n", s.DistinctStages)
	fmt.Fprintf(&b, "• Countries: %d\n", s.DistinctCountries)

	writeTop(&b, "Top Investor Types", s.TopTypes, s.Total)
	writeTop(&b, "Top Investment Stages", s.TopStages, s.Total)
	writeTop(&b, "Top Investment Countries", s.TopCountries, s.Total)

	if s.ChequeKnown > 0 {
		b.WriteString("\nCheque Size Data:\n")
		fmt.Fprintf(&b, "• Investors with cheque data: %d\n", s.ChequeKnown)
		fmt.Fprintf(&b, "• Percentage with cheque data: %.1f%%\n", pct(s.ChequeKnown, s.Total))
		fmt.Fprintf(&b, "• Smallest first cheque: %s\n", cheque.FormatAmount(s.SmallestCheque))
		fmt.Fprintf(&b, "• Largest first cheque: %s\n", cheque.FormatAmount(s.LargestCheque))
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeTop(b *strings.Builder, title string, items []engine.Tally, total int) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, t := range items {
		fmt.Fprintf(b, "• %s: %d (%.1f%%)\n", t.Value, t.Count, pct(t.Count, total))
	}
}

// Thesis renders the thesis analysis.
func Thesis(a engine.ThesisAnalysis) string {
	if a.Analyzed == 0 {
		return "No investment thesis data found."
	}

	var b strings.Builder
	b.WriteString("Investment Thesis Analysis:\n\n")
	fmt.Fprintf(&b, "Total investors with thesis data: %d\n", a.Analyzed)
	fmt.Fprintf(&b, "Keywords analyzed: %d (%d unique)\n", a.TotalKeywords, a.UniqueKeywords)

	if len(a.Keywords) > 0 {
		b.WriteString("\nTop Keywords:\n")
		for _, k := range a.Keywords {
			fmt.Fprintf(&b, "• %s: %d\n", k.Value, k.Count)
		}
	}

	if len(a.Themes) > 0 {
		b.WriteString("\nMost Common Investment Themes:\n")
		for i, t := range a.Themes {
			if i == DefaultMaxListed {
				break
			}
			fmt.Fprintf(&b, "• %s: %d investors (%.1f%%)\n", t.Value, t.Count, t.Percent)
		}
	}

	if len(a.ByType) > 0 {
		b.WriteString("\nThesis Analysis by Investor Type:\n")
		for _, t := range a.ByType {
			fmt.Fprintf(&b, "• %s: %d investors\n", t.Value, t.Count)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// DistinctList renders a numbered list of distinct values. noun is the plural
// label used in the heading and total ("investor types").
func DistinctList(noun string, items []string) string {
	if len(items) == 0 {
		return fmt.Sprintf("No %s found in the database.", noun)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available %s in the database:\n\n", noun)
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	fmt.Fprintf(&b, "\nTotal: %d unique %s", len(items), noun)
	return b.String()
}

// Similar renders a similarity ranking for the named seed.
func Similar(seedName string, res engine.SimilarResult, maxListed int) string {
	var notes []string
	if res.Duplicates > 0 {
		notes = append(notes, fmt.Sprintf(
			"Note: %d investors share the name '%s'; the first in dataset order was used.",
			res.Duplicates+1, seedName))
	}
	if len(res.Matches) == 0 {
		return joinNotes(fmt.Sprintf("No similar investors found for '%s'.", seedName), notes)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Similar investors to '%s':\n\n", seedName)

	limit := listed(maxListed)
	for i, m := range res.Matches {
		if i == limit {
			break
		}
		heading := fmt.Sprintf("%s (Similarity Score: %d)", m.Record.DisplayName(), m.Score)
		writeRecord(&b, i+1, heading, m.Record, "Similarity Factors: "+strings.Join(m.Reasons, "; "))
	}
	if len(res.Matches) > limit {
		fmt.Fprintf(&b, "... and %d more similar investors.", len(res.Matches)-limit)
	}
	return joinNotes(strings.TrimRight(b.String(), "\n"), notes)
}

// NotFound renders an unknown similarity seed.
func NotFound(name string) string {
	return fmt.Sprintf("No investor found with name '%s'.", name)
}

// Error renders an operation failure as user-facing text.
func Error(action string, err error) string {
	return fmt.Sprintf("An error occurred while %s: %v", action, err)
}
