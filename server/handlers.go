package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sig-0/fxquotes/stats"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

const warmingUpMessage = "Data is being fetched. Please try again in a moment."

var (
	errUnableToFetchHistory = errors.New("unable to fetch quote history")
	errInvalidLimit         = errors.New("invalid limit")
)

// Quotes serves the live quote snapshot
func (s *Server) Quotes(w http.ResponseWriter, _ *http.Request) {
	view := s.quotes.Read()

	if len(view.Quotes) == 0 {
		writeUnavailable(w)

		return
	}

	fetchedAt := view.FetchedAt.UTC()

	writeJSON(w, http.StatusOK, &QuotesResponse{
		Data:          view.Quotes,
		LastFetchTime: &fetchedAt,
		IsStale:       view.IsStale,
		Region:        view.Region,
	})
}

// Average serves the mean buy / sell prices across the snapshot sources
func (s *Server) Average(w http.ResponseWriter, _ *http.Request) {
	avg, err := stats.ComputeAverage(s.quotes.Read().Quotes)
	if err != nil {
		writeUnavailable(w)

		return
	}

	writeJSON(w, http.StatusOK, avg)
}

// Slippage serves the per-source deviation from the mean prices
func (s *Server) Slippage(w http.ResponseWriter, _ *http.Request) {
	slippage, err := stats.ComputeSlippage(s.quotes.Read().Quotes)
	if err != nil {
		writeUnavailable(w)

		return
	}

	writeJSON(w, http.StatusOK, slippage)
}

// History serves the persisted quote history of the region, newest first
func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	region := s.quotes.Read().Region

	records, err := s.storage.History(r.Context(), region, limit)
	if err != nil {
		s.logger.Debug(
			"unable to fetch quote history",
			"region", region.String(),
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchHistory,
		)

		return
	}

	writeJSON(w, http.StatusOK, &HistoryResponse{
		Region:  region,
		Results: records,
	})
}

// Health serves the service liveness status
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	now := s.clock()

	writeJSON(w, http.StatusOK, &HealthResponse{
		Status:    "ok",
		Region:    s.quotes.Read().Region,
		Timestamp: now.UTC(),
		Uptime:    now.Sub(s.startedAt).Seconds(),
	})
}

// Index serves the endpoint listing
func (s *Server) Index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, &IndexResponse{
		Message: "fxquotes API",
		Region:  s.quotes.Read().Region,
		Endpoints: map[string]string{
			"quotes":   "/quotes",
			"average":  "/average",
			"slippage": "/slippage",
			"history":  "/history",
			"health":   "/health",
			"metrics":  "/metrics",
			"docs":     "/docs",
		},
	})
}

// NotFound serves unknown routes
func (s *Server) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, &ErrorResponse{
		Error:   "not found",
		Message: fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path),
	})
}

func parseLimit(limitRaw string) (int, error) {
	v := strings.TrimSpace(limitRaw)
	if v == "" {
		return defaultHistoryLimit, nil
	}

	limit, err := strconv.Atoi(v)
	if err != nil || limit < 0 {
		return 0, errInvalidLimit
	}

	if limit == 0 {
		limit = defaultHistoryLimit
	}

	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	return limit, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}

func writeUnavailable(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, &ErrorResponse{
		Error:   stats.ErrNoQuotes.Error(),
		Message: warmingUpMessage,
	})
}
