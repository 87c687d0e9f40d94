package provider

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sig-0/fxquotes/storage/types"
)

var (
	errInvalidPrice     = errors.New("invalid price")
	errNotEnoughNumbers = errors.New("not enough numeric candidates")
	errNoStrategy       = errors.New("no strategy configured")
)

// Pair is a raw buy / sell price pair
type Pair struct {
	Buy  float64
	Sell float64
}

// Strategy derives a buy / sell pair from a parsed quote page
type Strategy interface {
	Extract(doc *goquery.Document) (Pair, error)
}

// Source is a single quote page, with the hints its extraction chain uses
type Source struct {
	// Structured is the markup-aware strategy, tried first
	Structured Strategy

	// Pattern is the free-text strategy, tried when Structured fails.
	// Defaults to the generic decimal pattern
	Pattern Strategy

	// ID is the canonical page URL
	ID types.Source

	// Fallback is the synthetic quote used when both strategies fail
	Fallback Synthetic
}

// pairFromCandidates takes the first two candidates as buy and sell
func pairFromCandidates(candidates []float64) (Pair, error) {
	if len(candidates) < 2 {
		return Pair{}, fmt.Errorf("%w: found %d", errNotEnoughNumbers, len(candidates))
	}

	return Pair{
		Buy:  candidates[0],
		Sell: candidates[1],
	}, nil
}

// parseNumber parses a price that may use either '.' or ',' as the
// decimal separator, normalizing it to a float.
//
//	"151,50"   -> 151.5
//	"1.234,56" -> 1234.56
//	"1,234.56" -> 1234.56
//	"1.234.567" -> 1234567
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errInvalidPrice
	}

	var (
		lastDot   = strings.LastIndex(s, ".")
		lastComma = strings.LastIndex(s, ",")
	)

	switch {
	case lastDot >= 0 && lastComma >= 0:
		// The rightmost separator is the decimal one
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ",") > 1:
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse price %q: %w", s, err)
	}

	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", errInvalidPrice, s)
	}

	return f, nil
}
