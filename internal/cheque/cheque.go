// Package cheque parses free-form cheque-size text ("$1M", "500k",
// "1,000,000", "50k-100k") into comparable amounts.
package cheque

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// amountPattern matches one numeric token with an optional magnitude suffix.
// Thousands separators are removed before matching.
var amountPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?|\.\d+)\s*(thousand|million|billion|bn|mm|mn|k|m|b)?\b`)

// rangeSeparator splits "50k-100k", "50k – 100k" and "50k to 100k".
var rangeSeparator = regexp.MustCompile(`(?i)\s*(?:-|–|—|\bto\b)\s*`)

// thousandsSeparator matches a comma between digit groups ("1,000,000").
var thousandsSeparator = regexp.MustCompile(`(\d),(\d{3})`)

var currencyStripper = strings.NewReplacer(
	"$", "", "€", "", "£", "", "¥", "", "₹", "",
	"USD", "", "usd", "", "EUR", "", "eur", "", "GBP", "", "gbp", "",
)

var multipliers = map[string]float64{
	"":   1,
	"k":  1e3,
	"m":  1e6,
	"mm": 1e6,
	"mn": 1e6,
	"b":  1e9,
	"bn": 1e9,

	"thousand": 1e3,
	"million":  1e6,
	"billion":  1e9,
}

type amount struct {
	value     float64
	hasSuffix bool
}

// clean strips currency markers and thousands separators.
func clean(text string) string {
	s := currencyStripper.Replace(text)
	// Applied twice so overlapping groups like "1,000,000" are fully joined.
	s = thousandsSeparator.ReplaceAllString(s, "$1$2")
	s = thousandsSeparator.ReplaceAllString(s, "$1$2")
	return s
}

func scan(text string) []amount {
	matches := amountPattern.FindAllStringSubmatch(clean(text), -1)
	out := make([]amount, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		suffix := strings.ToLower(m[2])
		out = append(out, amount{value: v * multipliers[suffix], hasSuffix: suffix != ""})
	}
	return out
}

// ParseAmount returns the first amount in text. ok is false when text holds
// no recognizable number.
func ParseAmount(text string) (float64, bool) {
	amounts := scan(text)
	if len(amounts) == 0 {
		return 0, false
	}
	return amounts[0].value, true
}

// Range is a parsed cheque range in currency units. Known is false when the
// source text could not be parsed.
type Range struct {
	Min   float64
	Max   float64
	Known bool
}

// Unparseable is the zero Range.
var Unparseable = Range{}

// ParseRange parses text that may embed a range ("50k-100k"). A single amount
// yields Min == Max. When only the upper bound carries a suffix ("1-2M") it
// applies to the lower bound too, unless that would invert the range
// ("500-1M").
func ParseRange(text string) Range {
	parts := rangeSeparator.Split(strings.TrimSpace(text), 2)
	if len(parts) == 2 {
		lo := scan(parts[0])
		hi := scan(parts[1])
		if len(lo) > 0 && len(hi) > 0 {
			low, high := lo[0], hi[0]
			if !low.hasSuffix && high.hasSuffix {
				if scaled := low.value * high.value / rawValue(parts[1]); scaled <= high.value {
					low.value = scaled
				}
			}
			return ordered(low.value, high.value)
		}
	}

	amounts := scan(text)
	if len(amounts) == 0 {
		return Unparseable
	}
	return Range{Min: amounts[0].value, Max: amounts[0].value, Known: true}
}

// rawValue returns the unscaled first number of text, used to recover the
// multiplier of an upper bound.
func rawValue(text string) float64 {
	m := amountPattern.FindStringSubmatch(clean(text))
	if m == nil {
		return 1
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v == 0 {
		return 1
	}
	return v
}

// RecordRange builds a record's cheque range from its minimum and maximum
// fields. Either field may itself embed a range. A missing side falls back to
// the other side; when neither parses the range is Unparseable.
func RecordRange(minText, maxText string) Range {
	lo := ParseRange(minText)
	hi := ParseRange(maxText)
	switch {
	case lo.Known && hi.Known:
		return ordered(lo.Min, hi.Max)
	case lo.Known:
		return lo
	case hi.Known:
		return hi
	default:
		return Unparseable
	}
}

func ordered(a, b float64) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Min: a, Max: b, Known: true}
}

// Overlaps reports whether r intersects the query interval. A nil bound leaves
// that side open. An Unparseable range overlaps only the fully open interval.
func (r Range) Overlaps(queryMin, queryMax *float64) bool {
	if queryMin == nil && queryMax == nil {
		return true
	}
	if !r.Known {
		return false
	}
	if queryMin != nil && r.Max < *queryMin {
		return false
	}
	if queryMax != nil && r.Min > *queryMax {
		return false
	}
	return true
}

// FormatAmount renders an amount in short form: $1.5M, $250K, $2.0B, $900.
func FormatAmount(v float64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("$%.1fB", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("$%.0fK", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
