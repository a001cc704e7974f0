// Package server exposes the netlist exporter over HTTP.
//
// Endpoints:
//   - GET  /healthz      - Liveness and build version
//   - GET  /v1/plugin    - Plugin descriptor
//   - GET  /v1/types     - Component types with netlist rules
//   - POST /v1/netlist   - Export a JSON document
//
// POST /v1/netlist accepts the query parameters format (spice, json, dot,
// svg), lenient, newline (lf, crlf) and detailed. The response body is the
// artifact itself; X-Cache reports HIT or MISS and X-Netlist-Skipped the
// number of components without a statement.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cdspice/pkg/buildinfo"
	"github.com/matzehuels/cdspice/pkg/errors"
	cdio "github.com/matzehuels/cdspice/pkg/io"
	"github.com/matzehuels/cdspice/pkg/pipeline"
	"github.com/matzehuels/cdspice/pkg/plugin"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = ":8080"

	// MaxRequestBodySize bounds uploaded documents (4MB).
	MaxRequestBodySize = 4 << 20

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout = 10 * time.Second
)

// =============================================================================
// Server
// =============================================================================

// Server is the HTTP API server.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a server that exports through runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/plugin", s.handlePlugin)
		r.Get("/types", s.handleTypes)
		r.Post("/netlist", s.handleNetlist)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Handlers
// =============================================================================

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Commit:  buildinfo.Commit,
	})
}

func (s *Server) handlePlugin(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, plugin.Spice())
}

// TypeInfo describes one component type the exporter recognizes.
type TypeInfo struct {
	Kind        string   `json:"kind"`
	Prefix      string   `json:"prefix"`
	Template    string   `json:"template"`
	Connections []string `json:"connections"`
	Properties  []string `json:"properties"`
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	rules := s.runner.Registry.Rules()
	types := make([]TypeInfo, 0, len(rules))
	for _, rule := range rules {
		types = append(types, TypeInfo{
			Kind:        rule.Kind.String(),
			Prefix:      rule.Prefix,
			Template:    rule.Template(),
			Connections: nonNil(rule.Connections()),
			Properties:  nonNil(rule.Properties()),
		})
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *Server) handleNetlist(w http.ResponseWriter, r *http.Request) {
	opts, err := netlistOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	doc, err := cdio.ReadJSON(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	cacheStatus := "MISS"
	if res.CacheInfo.RenderHit {
		cacheStatus = "HIT"
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("X-Netlist-Skipped", strconv.Itoa(res.Stats.Skipped))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// netlistOptions reads pipeline options from the query string.
func netlistOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Newline: q.Get("newline")}
	if f := q.Get("format"); f != "" {
		opts.Formats = []string{f}
	}

	var err error
	if opts.Lenient, err = boolParam(q.Get("lenient"), "lenient"); err != nil {
		return opts, err
	}
	if opts.Detailed, err = boolParam(q.Get("detailed"), "detailed"); err != nil {
		return opts, err
	}
	if opts.Newline == "" {
		opts.Newline = pipeline.NewlineLF
	}
	return opts, opts.ValidateAndSetDefaults()
}

func boolParam(v, name string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", name, v)
	}
	return b, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// =============================================================================
// Responses
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries a machine-readable code and a message.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// StatusCode maps an error to an HTTP status.
func StatusCode(err error) int {
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidDocument:
		return http.StatusBadRequest
	case errors.ErrCodeMissingField:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if status == http.StatusRequestEntityTooLarge {
		code = errors.ErrCodeInvalidInput
		msg = "request body exceeds " + strconv.Itoa(MaxRequestBodySize) + " bytes"
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		code = errors.ErrCodeInternal
		msg = "internal error"
	}
	recordError(r, err)
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{
		Code:      string(code),
		Message:   msg,
		RequestID: middleware.GetReqID(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
