// Package regions maps a deployment region to its configured quote sources.
package regions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sig-0/fxquotes/provider"
	"github.com/sig-0/fxquotes/provider/ar"
	"github.com/sig-0/fxquotes/provider/br"
	"github.com/sig-0/fxquotes/storage/types"
)

// ErrUnknownRegion is returned for regions with no configured sources
var ErrUnknownRegion = errors.New("unknown region")

// table is the region -> sources configuration, in aggregation order
var table = map[types.Region]func() []provider.Source{
	types.RegionAR: ar.Sources,
	types.RegionBR: br.Sources,
}

// All returns the supported regions
func All() []types.Region {
	return []types.Region{types.RegionAR, types.RegionBR}
}

// Parse parses a region code (case-insensitive)
func Parse(s string) (types.Region, error) {
	region := types.Region(strings.ToUpper(strings.TrimSpace(s)))

	if _, ok := table[region]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRegion, s)
	}

	return region, nil
}

// Sources returns the configured sources for the region
func Sources(region types.Region) ([]provider.Source, error) {
	sourcesFn, ok := table[region]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}

	return sourcesFn(), nil
}

// Extractors creates an extractor for every configured source of the region,
// in aggregation order
func Extractors(region types.Region, opts ...provider.Option) ([]*provider.Extractor, error) {
	sources, err := Sources(region)
	if err != nil {
		return nil, err
	}

	extractors := make([]*provider.Extractor, 0, len(sources))
	for _, source := range sources {
		extractors = append(extractors, provider.NewExtractor(source, opts...))
	}

	return extractors, nil
}
