package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/callisto/pkg/registry"
)

const testGrammar = `
grammar_version: "1.0"
name: us-address
version: "1.0.0"
fields:
  street-address:
    kind: decomposition
    pattern: '(?P<house_number>\d+)\s+(?P<street_name>.+)'
`

// newTestRegistry loads a registry with a single grammar from a temp dir.
func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "us.yaml"), []byte(testGrammar), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	reg, err := registry.New(&registry.Config{Dir: dir}, nil, nil)
	if err != nil {
		t.Fatalf("registry.New() error: %v", err)
	}
	return reg
}

func newTestParseHandler(t *testing.T) *ParseHandler {
	t.Helper()
	return NewParseHandler(newTestRegistry(t), nil, nil, 65536)
}

func postParse(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

func TestParseHandler_Match(t *testing.T) {
	h := newTestParseHandler(t)
	rec := postParse(t, h, `{"grammar":"us-address","field":"street-address","value":"1234 Main Street"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp ParseResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Matched {
		t.Fatal("Matched = false, want true")
	}
	if got := resp.Fields["house_number"]; got != "1234" {
		t.Errorf("house_number = %q, want 1234", got)
	}
	if got := resp.Fields["street_name"]; got != "Main Street" {
		t.Errorf("street_name = %q, want Main Street", got)
	}
}

func TestParseHandler_NoMatch(t *testing.T) {
	h := newTestParseHandler(t)
	rec := postParse(t, h, `{"grammar":"us-address","field":"street-address","value":"no numbers at all"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp ParseResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Matched {
		t.Error("Matched = true, want false")
	}
	if resp.Fields != nil {
		t.Errorf("Fields = %v, want omitted on no match", resp.Fields)
	}
}

func TestParseHandler_UnknownGrammar(t *testing.T) {
	h := newTestParseHandler(t)
	rec := postParse(t, h, `{"grammar":"mx-address","field":"street-address","value":"x"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error.Type != "unknown_grammar" {
		t.Errorf("error type = %q, want unknown_grammar", resp.Error.Type)
	}
}

func TestParseHandler_UnknownField(t *testing.T) {
	h := newTestParseHandler(t)
	rec := postParse(t, h, `{"grammar":"us-address","field":"postal-code","value":"x"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error.Type != "unknown_field" {
		t.Errorf("error type = %q, want unknown_field", resp.Error.Type)
	}
}

func TestParseHandler_BadRequests(t *testing.T) {
	h := newTestParseHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"grammar":`},
		{"missing grammar", `{"field":"street-address","value":"x"}`},
		{"missing field", `{"grammar":"us-address","value":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postParse(t, h, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if resp := decodeError(t, rec); resp.Error.Type != "invalid_request" {
				t.Errorf("error type = %q, want invalid_request", resp.Error.Type)
			}
		})
	}
}

func TestParseHandler_MethodNotAllowed(t *testing.T) {
	h := newTestParseHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/parse", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestParseHandler_BodyTooLarge(t *testing.T) {
	reg := newTestRegistry(t)
	h := NewParseHandler(reg, nil, nil, 16)

	rec := postParse(t, h, `{"grammar":"us-address","field":"street-address","value":"1234 Main Street"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for oversized body", rec.Code)
	}
}

func TestGrammarsHandler(t *testing.T) {
	h := NewGrammarsHandler(newTestRegistry(t))
	req := httptest.NewRequest(http.MethodGet, "/v1/grammars", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Grammars []registry.Info `json:"grammars"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Grammars) != 1 {
		t.Fatalf("len(grammars) = %d, want 1", len(resp.Grammars))
	}
	if resp.Grammars[0].Name != "us-address" {
		t.Errorf("name = %q, want us-address", resp.Grammars[0].Name)
	}
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(newTestRegistry(t))
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if got := resp["grammars_loaded"].(float64); got != 1 {
		t.Errorf("grammars_loaded = %v, want 1", got)
	}
}
