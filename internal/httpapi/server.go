package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/joelkehle/protocol-check/internal/protocheck"
)

var tracer = otel.Tracer("github.com/joelkehle/protocol-check/internal/httpapi")

const (
	codeValidation = "validation_error"
	codeInternal   = "internal_error"
)

type Server struct {
	registry *protocheck.Registry
}

// NewServer builds the HTTP surface of the validator. The registry is fixed
// for the lifetime of the server; swapping rules means restarting.
func NewServer(reg *protocheck.Registry) http.Handler {
	s := &Server{registry: reg}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/protocols/validate", s.handleValidate)
	mux.HandleFunc("/v1/rules/sections", s.handleRuleSections)
	mux.HandleFunc("/v1/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"ok": false,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeError(w, 400, codeValidation, err.Error())
		return
	}
	var req struct {
		StudyType string            `json:"study_type"`
		Sections  map[string]string `json:"sections"`
	}
	if err := json.Unmarshal(blob, &req); err != nil {
		writeError(w, 400, codeValidation, "invalid JSON body: "+err.Error())
		return
	}

	ctx, span := tracer.Start(r.Context(), "httpapi.validate")
	defer span.End()
	span.SetAttributes(attribute.String("protocol.study_type", req.StudyType))

	startedAt := time.Now().UTC()
	report, err := protocheck.ValidateProtocol(ctx, s.registry, req.Sections, req.StudyType)
	if err != nil {
		writeError(w, 400, codeValidation, err.Error())
		return
	}
	observeValidation(report, time.Since(startedAt))

	writeJSON(w, 200, protocheck.BuildResponse(report, startedAt))
}

func (s *Server) handleRuleSections(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	names := make([]string, 0, len(s.registry.Sections))
	for name := range s.registry.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	writeJSON(w, 200, map[string]any{"sections": names})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, 200, map[string]any{
		"ok":            true,
		"rule_sections": len(s.registry.Sections),
		"time":          time.Now().UTC().Format(time.RFC3339),
	})
}
