package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/luxmx/lucerna/embedding"
	"github.com/luxmx/lucerna/index"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	scope, err := index.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	matches, err := s.searcher.Search(r.Context(), scope, query, limit)
	if err != nil {
		status := http.StatusBadGateway
		var cfgErr *embedding.ConfigError
		var storeErr *index.StorageError
		switch {
		case errors.As(err, &cfgErr):
			status = http.StatusInternalServerError
		case errors.As(err, &storeErr):
			status = http.StatusServiceUnavailable
		}
		log.Printf("[server] search failed: %v", err)
		writeError(w, status, err.Error())
		return
	}

	resp := SearchResponse{
		Scope:   string(scope),
		Query:   query,
		Matches: make([]MatchInfo, 0, len(matches)),
	}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, toMatchInfo(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleReindex runs the batch inline and returns its summary. Individual
// entity failures are reported in the summary, not as an HTTP error.
func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	summary, err := s.indexer.Run(r.Context())
	if err != nil {
		log.Printf("[server] reindex failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
