// Package textutil holds the tokenization rules shared by filtering,
// analytics, and similarity ranking so every component splits and folds
// free-text fields the same way.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// listSeparators split multi-value fields such as "Seed, Series A" or
// "USA; Canada / Mexico".
const listSeparators = ",;/|\n"

// Fold returns a case-folded, trimmed form of s suitable for equality checks.
func Fold(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// SplitList splits a multi-value field on list separators, trims each part
// and drops blanks. Order is preserved.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(listSeparators, r)
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Join(strings.Fields(p), " ")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// stageConnectors join stage ranges such as "Seed to Series A".
var stageConnectors = map[string]bool{"to": true, "and": true, "&": true, "through": true, "-": true, "–": true}

// StageTokens splits a stage field into single stages. Besides list
// separators it breaks on brackets and range connectors and trims surrounding
// punctuation, so "Early stage (Seed to Series A)" yields "Early stage",
// "Seed" and "Series A". Inner punctuation such as the hyphen in "Pre-seed"
// is kept.
func StageTokens(s string) []string {
	var out []string
	var words []string
	flush := func() {
		if tok := TrimPunct(strings.Join(words, " ")); tok != "" {
			out = append(out, tok)
		}
		words = words[:0]
	}
	for _, part := range SplitList(s) {
		for _, seg := range strings.FieldsFunc(part, isBracket) {
			for _, w := range strings.Fields(seg) {
				if stageConnectors[strings.ToLower(w)] {
					flush()
					continue
				}
				words = append(words, w)
			}
			flush()
		}
	}
	return out
}

// TrimPunct trims leading and trailing runes that are neither letters nor
// digits.
func TrimPunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return !isWordRune(r) })
}

func isBracket(r rune) bool {
	switch r {
	case '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

// FoldedSet returns the set of folded list tokens of s.
func FoldedSet(s string) map[string]bool {
	tokens := SplitList(s)
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[Fold(t)] = true
	}
	return set
}

// ContainsFold reports whether needle is a case-insensitive substring of s.
// An empty needle never matches.
func ContainsFold(s, needle string) bool {
	needle = Fold(needle)
	if needle == "" {
		return false
	}
	return strings.Contains(Fold(s), needle)
}

// ContainsWord reports whether word occurs in s as a whole word or phrase,
// case-insensitively. The runes on either side of a match must not be letters
// or digits, so "us" is found in "US & Europe" but not in "Russia".
func ContainsWord(s, word string) bool {
	word = Fold(word)
	if word == "" {
		return false
	}
	s = Fold(s)
	for from := 0; from < len(s); {
		i := strings.Index(s[from:], word)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(word)
		if !wordRuneBefore(s, start) && !wordRuneAfter(s, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		from = start + size
	}
	return false
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return isWordRune(r)
}

func wordRuneAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Words lowercases text, strips punctuation and splits on whitespace.
// Punctuation is removed rather than treated as a separator, so "B2B," becomes
// "b2b" and "start-ups" becomes "startups".
func Words(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

// Keywords returns the words of text minus stop words, single-rune tokens and
// pure numbers. Duplicates are kept so callers can tally frequency.
func Keywords(text string, stopWords map[string]bool) []string {
	words := Words(text)
	out := words[:0]
	for _, w := range words {
		if len([]rune(w)) < 2 || stopWords[w] || isNumber(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// KeywordSet returns the distinct keywords of text.
func KeywordSet(text string, stopWords map[string]bool) map[string]bool {
	kws := Keywords(text, stopWords)
	set := make(map[string]bool, len(kws))
	for _, k := range kws {
		set[k] = true
	}
	return set
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
