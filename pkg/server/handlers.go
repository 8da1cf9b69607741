package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"mercator-hq/callisto/pkg/audit"
	"mercator-hq/callisto/pkg/audit/recorder"
	"mercator-hq/callisto/pkg/registry"
	"mercator-hq/callisto/pkg/telemetry/metrics"
)

// ParseRequest is the body of a POST /v1/parse request.
type ParseRequest struct {
	// Grammar is the name of a loaded grammar.
	Grammar string `json:"grammar"`

	// Field is the field to parse the value against.
	Field string `json:"field"`

	// Value is the input text to parse.
	Value string `json:"value"`
}

// ParseResponse is the body of a successful POST /v1/parse response.
type ParseResponse struct {
	// Matched reports whether any process tree matched the value.
	Matched bool `json:"matched"`

	// Fields holds the captured field values when Matched is true. A
	// matched response may carry an empty map when no capture group
	// participated in the match.
	Fields map[string]string `json:"fields,omitempty"`
}

// errorBody is the inner error object of an error response.
type errorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// errorResponse is the JSON envelope for all error responses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorBody{Type: errType, Message: message},
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ParseHandler handles POST /v1/parse requests.
type ParseHandler struct {
	registry *registry.Registry
	metrics  *metrics.Collector
	recorder *recorder.Recorder
	maxBody  int64
}

// NewParseHandler creates a new parse handler. The recorder may be nil when
// auditing is disabled.
func NewParseHandler(reg *registry.Registry, collector *metrics.Collector, rec *recorder.Recorder, maxBody int64) *ParseHandler {
	return &ParseHandler{
		registry: reg,
		metrics:  collector,
		recorder: rec,
		maxBody:  maxBody,
	}
}

// ServeHTTP implements http.Handler.
func (h *ParseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "only POST is supported")
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	var req ParseRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON: "+err.Error())
		return
	}
	if req.Grammar == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "grammar is required")
		return
	}
	if req.Field == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "field is required")
		return
	}

	eng, ok := h.registry.Get(req.Grammar)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_grammar", "grammar "+req.Grammar+" is not loaded")
		return
	}

	start := time.Now()
	result, err := eng.Parse(req.Field, req.Value)
	duration := time.Since(start)

	if err != nil {
		h.record(r, eng.Version(), &req, audit.OutcomeError, nil, duration)
		h.metrics.RecordParse(req.Grammar, req.Field, metrics.OutcomeError, duration)
		writeError(w, http.StatusNotFound, "unknown_field", err.Error())
		return
	}

	resp := ParseResponse{Matched: result.Matched()}
	outcome := audit.OutcomeNoMatch
	metricOutcome := metrics.OutcomeNoMatch
	var captured []string

	if result.Matched() {
		resp.Fields = result.Fields()
		outcome = audit.OutcomeMatch
		metricOutcome = metrics.OutcomeMatch
		for name := range result.Fields() {
			captured = append(captured, name)
		}
		sort.Strings(captured)
	}

	h.record(r, eng.Version(), &req, outcome, captured, duration)
	h.metrics.RecordParse(req.Grammar, req.Field, metricOutcome, duration)
	writeJSON(w, http.StatusOK, resp)
}

// record queues an audit record for the parse operation. The raw input value
// is never recorded, only its length.
func (h *ParseHandler) record(r *http.Request, grammarVersion string, req *ParseRequest, outcome audit.Outcome, captured []string, duration time.Duration) {
	if h.recorder == nil {
		return
	}
	h.recorder.Record(&audit.Record{
		RequestID:      GetRequestID(r.Context()),
		Grammar:        req.Grammar,
		GrammarVersion: grammarVersion,
		Field:          req.Field,
		InputLength:    len(req.Value),
		Outcome:        outcome,
		CapturedFields: captured,
		Duration:       duration,
	})
}

// GrammarsHandler handles GET /v1/grammars requests.
type GrammarsHandler struct {
	registry *registry.Registry
}

// NewGrammarsHandler creates a new grammar listing handler.
func NewGrammarsHandler(reg *registry.Registry) *GrammarsHandler {
	return &GrammarsHandler{registry: reg}
}

// ServeHTTP implements http.Handler.
func (h *GrammarsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "only GET is supported")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"grammars": h.registry.List(),
	})
}

// HealthHandler handles health check requests for liveness probes.
type HealthHandler struct {
	registry *registry.Registry
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(reg *registry.Registry) *HealthHandler {
	return &HealthHandler{registry: reg}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "only GET is supported")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "ok",
		"grammars_loaded": h.registry.Len(),
		"timestamp":       time.Now().Unix(),
	})
}
