package api

import (
	"net/http"

	"github.com/CyberBrown/solampio-web-sub002/internal/http/response"
)

// handleHealthCheck reports server liveness plus mapping store
// reachability. The store being down degrades the response body, not
// the status: the edge keeps serving even without redirects.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	health := map[string]any{"status": "ok"}

	if stats, err := s.mappings.MappingStats(r.Context()); err != nil {
		health["mapping_store"] = "unreachable"
		s.logger.Warn("health check: mapping store unreachable", "error", err)
	} else {
		health["mapping_store"] = "ok"
		health["mappings"] = stats.Total
	}

	response.Success(w, health, s.logger)
}

// handleMappingStats returns summary counts for the mapping store.
func (s *Server) handleMappingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.mappings.MappingStats(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, stats, s.logger)
}

// handleLookupMapping looks up one mapping by the ?path= query
// parameter. Operators use this to answer "where does this legacy URL
// go and why" without opening the database.
func (s *Server) handleLookupMapping(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		response.BadRequest(w, "path query parameter is required", s.logger)
		return
	}

	m, err := s.mappings.GetMapping(r.Context(), path)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, m, s.logger)
}
