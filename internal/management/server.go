// ABOUTME: Management API for runtime config and health monitoring
// ABOUTME: Provides endpoints for health, method listing, and call history

package management

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/harper/jsonrpc-playground/internal/config"
	"github.com/harper/jsonrpc-playground/internal/history"
	"github.com/harper/jsonrpc-playground/internal/logger"
	"github.com/harper/jsonrpc-playground/internal/registry"
)

type Server struct {
	config   *config.Config
	registry *registry.Registry
	history  *history.DB
	mux      *http.ServeMux
}

func NewServer(cfg *config.Config, reg *registry.Registry, hist *history.DB) *Server {
	s := &Server{
		config:   cfg,
		registry: reg,
		history:  hist,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/config", s.handleConfig)
	s.mux.HandleFunc("/api/methods", s.handleMethods)
	s.mux.HandleFunc("/api/history", s.handleHistory)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":  "healthy",
		"methods": s.registry.Len(),
		"history": s.history != nil,
	}

	writeJSON(w, health)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.config)
}

func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]interface{}{
		"methods": s.registry.Names(),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Enable CORS for a browser-based inspector.
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if s.history == nil {
		http.Error(w, "call history is disabled", http.StatusNotFound)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	exchanges, err := s.history.Recent(limit)
	if err != nil {
		logger.Error("failed to query call history: %v", err)
		http.Error(w, "failed to query call history", http.StatusInternalServerError)
		return
	}

	type ExchangeResponse struct {
		ID        int64           `json:"id"`
		Method    string          `json:"method"`
		Kind      string          `json:"kind"`
		RequestID json.RawMessage `json:"requestId,omitempty"`
		Request   json.RawMessage `json:"request"`
		Response  json.RawMessage `json:"response,omitempty"`
		CreatedAt string          `json:"createdAt"`
	}

	response := make([]ExchangeResponse, 0, len(exchanges))
	for _, e := range exchanges {
		entry := ExchangeResponse{
			ID:        e.ID,
			Method:    e.Method,
			Kind:      e.Kind,
			Request:   json.RawMessage(e.Request),
			CreatedAt: e.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if e.RequestID != "" {
			entry.RequestID = json.RawMessage(e.RequestID)
		}
		if e.Response != "" {
			entry.Response = json.RawMessage(e.Response)
		}
		response = append(response, entry)
	}

	writeJSON(w, response)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode management response: %v", err)
	}
}
