// ABOUTME: HTTP transport adapter for the JSON-RPC endpoint at POST /
// ABOUTME: Frames dispatcher output: single object, array, or empty body

package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/harper/jsonrpc-playground/internal/dispatch"
	"github.com/harper/jsonrpc-playground/internal/jsonrpc"
	"github.com/harper/jsonrpc-playground/internal/logger"
)

// defaultMaxBodyBytes caps the RPC request body; anything larger fails the
// read and surfaces as an internal error envelope.
const defaultMaxBodyBytes = 1 << 20

// Server is the HTTP transport adapter. Every JSON-RPC level failure still
// returns HTTP 200; the error travels in the response envelope.
type Server struct {
	dispatcher   *dispatch.Dispatcher
	mux          *http.ServeMux
	maxBodyBytes int64
}

func NewServer(d *dispatch.Dispatcher) *Server {
	s := &Server{
		dispatcher:   d,
		mux:          http.NewServeMux(),
		maxBodyBytes: defaultMaxBodyBytes,
	}

	s.mux.HandleFunc("/", s.handleRPC)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		// Transport failure: cannot read the body. Still HTTP 200, carrying
		// an internal error envelope with a null id.
		logger.Warn("failed to read request body: %v", err)
		resp := jsonrpc.NewErrorResponse(jsonrpc.NewInternalError("failed to read request body"), nil)
		writeJSON(w, resp)
		return
	}
	defer func() { _ = r.Body.Close() }()

	responses, batch := s.dispatcher.Dispatch(r.Context(), body)

	// All-notification input: HTTP 200 with no JSON content at all.
	if len(responses) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}

	if batch {
		writeJSON(w, responses)
		return
	}
	writeJSON(w, responses[0])
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response: %v", err)
	}
}
