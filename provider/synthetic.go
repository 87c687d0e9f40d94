package provider

// Synthetic describes the degraded quote for a source: the buy price is
// Base plus a random jitter in [0, Jitter), the sell price sits Spread
// above the buy price
type Synthetic struct {
	Base   float64
	Jitter float64
	Spread float64
}

// Quote generates a synthetic pair using rnd, which yields values in [0, 1)
func (s Synthetic) Quote(rnd func() float64) Pair {
	buy := s.Base + rnd()*s.Jitter

	return Pair{
		Buy:  buy,
		Sell: buy + s.Spread,
	}
}

// Bounds returns the closed-open ranges the synthetic buy and sell prices fall in
func (s Synthetic) Bounds() (buyMin, buyMax, sellMin, sellMax float64) {
	return s.Base, s.Base + s.Jitter, s.Base + s.Spread, s.Base + s.Jitter + s.Spread
}
