package provider

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// numberToken matches a number with at least one '.' / ',' group.
// Bare integers (labels, dates, counters) are not prices
var numberToken = regexp.MustCompile(`\d+(?:[.,]\d+)+`)

// SelectorStrategy reads numeric candidates from the elements matching
// the given CSS selectors, in document order. The first two
// candidates are the buy and sell prices
type SelectorStrategy struct {
	Selectors []string
}

// NewSelectorStrategy creates a new selector based structured strategy
func NewSelectorStrategy(selectors ...string) *SelectorStrategy {
	return &SelectorStrategy{
		Selectors: selectors,
	}
}

func (s *SelectorStrategy) Extract(doc *goquery.Document) (Pair, error) {
	if doc == nil || len(s.Selectors) == 0 {
		return Pair{}, errNoStrategy
	}

	candidates := make([]float64, 0, 4)

	doc.Find(strings.Join(s.Selectors, ", ")).EachWithBreak(
		func(_ int, sel *goquery.Selection) bool {
			for _, token := range numberToken.FindAllString(sel.Text(), -1) {
				v, err := parseNumber(token)
				if err != nil {
					continue
				}

				candidates = append(candidates, v)
			}

			return len(candidates) < 2
		},
	)

	return pairFromCandidates(candidates)
}

// InverseRateStrategy reads a single conversion rate (1 unit of local
// currency in the quote currency) and inverts it into a buy price.
// The sell price is the buy price marked up by Spread (0.02 == 2%)
type InverseRateStrategy struct {
	// Pattern locates the rate, the first capture group (if any) is used.
	// Defaults to any decimal number
	Pattern *regexp.Regexp

	// Selectors narrow down the searched text. If empty,
	// the whole document text is searched
	Selectors []string

	Spread float64
}

func (s *InverseRateStrategy) Extract(doc *goquery.Document) (Pair, error) {
	if doc == nil {
		return Pair{}, errNoStrategy
	}

	text := doc.Text()
	if len(s.Selectors) > 0 {
		text = doc.Find(strings.Join(s.Selectors, ", ")).First().Text()
	}

	pattern := s.Pattern
	if pattern == nil {
		pattern = decimalPattern
	}

	matches := findNumbers(pattern, text, 1)
	if len(matches) == 0 {
		return Pair{}, fmt.Errorf("%w: no rate found", errNotEnoughNumbers)
	}

	rate, err := parseNumber(matches[0])
	if err != nil {
		return Pair{}, err
	}

	buy := 1 / rate

	return Pair{
		Buy:  buy,
		Sell: buy * (1 + s.Spread),
	}, nil
}
