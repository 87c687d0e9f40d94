package server

import (
	"time"

	"github.com/sig-0/fxquotes/storage/types"
)

type QuotesResponse struct {
	LastFetchTime *time.Time    `json:"last_fetch_time"`
	Region        types.Region  `json:"region"`
	Data          []types.Quote `json:"data"`
	IsStale       bool          `json:"is_stale"`
}

type HistoryResponse struct {
	Region  types.Region         `json:"region"`
	Results []*types.QuoteRecord `json:"results"`
}

type HealthResponse struct {
	Timestamp time.Time    `json:"timestamp"`
	Status    string       `json:"status"`
	Region    types.Region `json:"region"`
	Uptime    float64      `json:"uptime"` // seconds
}

type IndexResponse struct {
	Endpoints map[string]string `json:"endpoints"`
	Message   string            `json:"message"`
	Region    types.Region      `json:"region"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
