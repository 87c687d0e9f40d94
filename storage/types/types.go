package types

import "time"

type Region string

const (
	RegionAR Region = "AR" // Argentina
	RegionBR Region = "BR" // Brazil
)

func (r Region) String() string {
	return string(r)
}

// Source is the canonical URL of a quote page
type Source string

func (s Source) String() string {
	return string(s)
}

// Provenance marks which extraction tier produced a quote
type Provenance string

const (
	ProvenanceStructured Provenance = "structured"
	ProvenancePattern    Provenance = "pattern"
	ProvenanceSynthetic  Provenance = "synthetic"
)

func (p Provenance) String() string {
	return string(p)
}

// Quote is a single buy / sell price pair observed at a source.
// SellPrice is usually >= BuyPrice, but inverted pairs are kept as-is
type Quote struct {
	Source     Source     `json:"source"`
	Provenance Provenance `json:"provenance"`
	BuyPrice   float64    `json:"buy_price"`
	SellPrice  float64    `json:"sell_price"`
}

// QuoteRecord is a persisted quote history row
type QuoteRecord struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Source    Source    `json:"source"`
	Region    Region    `json:"region"`
	BuyPrice  float64   `json:"buy_price"`
	SellPrice float64   `json:"sell_price"`
}
