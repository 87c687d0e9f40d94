// Package provider extracts USD buy / sell quotes from public quote pages.
//
// # Extraction chain
//
// Every source is fetched once per extraction (10s timeout, browser-like
// User-Agent). The page is then run through three tiers, stopping at the
// first one that yields two positive prices:
//
//  1. Structured: numbers read from the source's CSS selectors
//     (or an inverted conversion rate, for single-rate pages)
//  2. Pattern: the first two decimal numbers matched in the page text
//  3. Synthetic: a randomized quote around the source's base price
//
// A fetch failure (network error, non-2xx status, unparsable page) skips
// straight to the synthetic tier. Extraction never fails; every quote
// carries the provenance of the tier that produced it.
//
// Numbers are parsed locale-aware: "151,50", "1.234,56" and "1,234.56"
// all resolve to their expected values.
//
// # Sources
//
// Argentina (see provider/ar): Ambito, DolarHoy, Cronista.
//
// Brazil (see provider/br): Wise, Nubank, Nomad.
package provider
