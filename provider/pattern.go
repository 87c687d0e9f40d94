package provider

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// decimalPattern matches decimal numbers using either '.' or ','
// as the separator, with optional thousands groups ("1.234,56")
var decimalPattern = regexp.MustCompile(`\d+(?:[.,]\d{3})*[.,]\d{1,4}`)

// PatternStrategy scans the full page text for price-like numbers.
// The first two matches are the buy and sell prices
type PatternStrategy struct {
	// Pattern is matched against the page text. When it has a capture
	// group, the first group is used as the number
	Pattern *regexp.Regexp
}

// NewPatternStrategy creates a new text pattern strategy.
// A nil pattern falls back to the generic decimal pattern
func NewPatternStrategy(pattern *regexp.Regexp) *PatternStrategy {
	if pattern == nil {
		pattern = decimalPattern
	}

	return &PatternStrategy{
		Pattern: pattern,
	}
}

func (s *PatternStrategy) Extract(doc *goquery.Document) (Pair, error) {
	if doc == nil {
		return Pair{}, errNoStrategy
	}

	pattern := s.Pattern
	if pattern == nil {
		pattern = decimalPattern
	}

	candidates := make([]float64, 0, 2)

	for _, token := range findNumbers(pattern, doc.Text(), -1) {
		v, err := parseNumber(token)
		if err != nil {
			continue
		}

		candidates = append(candidates, v)
		if len(candidates) == 2 {
			break
		}
	}

	return pairFromCandidates(candidates)
}

// findNumbers returns up to n matches (n < 0 means all) of the pattern,
// preferring the first capture group when the pattern defines one
func findNumbers(pattern *regexp.Regexp, text string, n int) []string {
	matches := pattern.FindAllStringSubmatch(text, n)

	out := make([]string, 0, len(matches))

	for _, m := range matches {
		if len(m) > 1 {
			out = append(out, m[1])

			continue
		}

		out = append(out, m[0])
	}

	return out
}
