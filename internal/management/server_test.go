package management

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/harper/jsonrpc-playground/internal/config"
	"github.com/harper/jsonrpc-playground/internal/history"
	"github.com/harper/jsonrpc-playground/internal/logstore"
	"github.com/harper/jsonrpc-playground/internal/methods"
	"github.com/harper/jsonrpc-playground/internal/registry"
)

func newTestServer(t *testing.T, hist *history.DB) *Server {
	t.Helper()
	cfg := config.Default()
	reg := registry.New()
	svc := methods.NewService(logstore.New(filepath.Join(t.TempDir(), "server_log.txt")))
	svc.RegisterAll(reg)
	return NewServer(cfg, reg, hist)
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := get(t, srv, "/api/health")
	if rec.Code != 200 {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var health map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("failed to decode health: %v", err)
	}

	if health["status"] != "healthy" {
		t.Error("expected status healthy")
	}
	if health["methods"] != float64(8) {
		t.Errorf("expected 8 registered methods, got %v", health["methods"])
	}
	if health["history"] != false {
		t.Error("expected history disabled")
	}
}

func TestConfigEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := get(t, srv, "/api/config")
	if rec.Code != 200 {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var cfg config.Config
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("failed to decode config: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
}

func TestMethodsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := get(t, srv, "/api/methods")
	if rec.Code != 200 {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		Methods []string `json:"methods"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode methods: %v", err)
	}
	if len(payload.Methods) != 8 {
		t.Fatalf("expected 8 methods, got %v", payload.Methods)
	}
	if payload.Methods[0] != "add" {
		t.Errorf("expected sorted names starting with add, got %v", payload.Methods)
	}
}

func TestHistoryEndpoint_Disabled(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := get(t, srv, "/api/history")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 when history is disabled, got %d", rec.Code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	hist, err := history.Open(filepath.Join(t.TempDir(), "history.sqlite"))
	if err != nil {
		t.Fatalf("failed to open history: %v", err)
	}
	defer func() { _ = hist.Close() }()

	err = hist.Record("add", history.KindRequest, "1",
		[]byte(`{"jsonrpc":"2.0","method":"add","params":[1,2],"id":1}`),
		[]byte(`{"jsonrpc":"2.0","result":3,"id":1}`))
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	srv := newTestServer(t, hist)

	rec := get(t, srv, "/api/history")
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected CORS header, got %q", origin)
	}

	var entries []struct {
		Method    string          `json:"method"`
		Kind      string          `json:"kind"`
		RequestID json.RawMessage `json:"requestId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("failed to decode history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Method != "add" || entries[0].Kind != history.KindRequest {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
	if string(entries[0].RequestID) != "1" {
		t.Errorf("expected raw id 1, got %s", entries[0].RequestID)
	}
}

func TestHistoryEndpoint_InvalidLimit(t *testing.T) {
	hist, err := history.Open(filepath.Join(t.TempDir(), "history.sqlite"))
	if err != nil {
		t.Fatalf("failed to open history: %v", err)
	}
	defer func() { _ = hist.Close() }()

	srv := newTestServer(t, hist)

	rec := get(t, srv, "/api/history?limit=zero")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad limit, got %d", rec.Code)
	}
}
