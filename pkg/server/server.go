// Package server exposes the transpiler over HTTP.
//
// Routes:
//
//	POST    /convert   {"code": "<expression>"} → outcome JSON
//	OPTIONS /convert   CORS preflight
//	GET     /healthz   {"status": "ok", "version": "..."}
//
// A successful transpilation answers 200 with {"output": ...}. A pipeline
// failure answers 422 (413 for LimitExceeded) with the structured error.
// Requests the server cannot read answer 400 or 413 with {"error": ...}.
// A backend fault answers 500.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sandrolain/lispc"
	"github.com/sandrolain/lispc/pkg/cache"
	"github.com/sandrolain/lispc/pkg/transpiler"
	"github.com/sandrolain/lispc/pkg/types"
)

// DefaultMaxBodyBytes bounds the request body. The pipeline rejects long
// sources on its own; this only stops a client from streaming an
// arbitrarily large document at the decoder.
const DefaultMaxBodyBytes = 1 << 20

// Backend produces outcomes. A non-nil error means the backend itself
// failed, not that the source was rejected.
type Backend interface {
	Transpile(ctx context.Context, source string) (types.Outcome, error)
}

// Local is a Backend that runs the pipeline in-process.
type Local struct {
	Transpiler *transpiler.Transpiler
}

// Transpile implements Backend.
func (l Local) Transpile(_ context.Context, source string) (types.Outcome, error) {
	if l.Transpiler == nil {
		return lispc.Transpile(source), nil
	}
	return l.Transpiler.Transpile(source), nil
}

// Options configures a Server.
type Options struct {
	// Cache stores outcomes by source. Nil disables caching.
	Cache *cache.Cache
	// AllowOrigin is sent as Access-Control-Allow-Origin. Empty disables CORS.
	AllowOrigin string
	// RequestTimeout bounds each backend call. Zero means no timeout.
	RequestTimeout time.Duration
	// MaxBodyBytes bounds the request body.
	MaxBodyBytes int64
	// Logger for structured logging.
	Logger *slog.Logger
}

// Option configures a Server.
type Option func(*Options)

// WithCache puts an outcome cache in front of the backend.
func WithCache(c *cache.Cache) Option {
	return func(opts *Options) {
		opts.Cache = c
	}
}

// WithAllowOrigin sets the CORS origin.
func WithAllowOrigin(origin string) Option {
	return func(opts *Options) {
		opts.AllowOrigin = origin
	}
}

// WithRequestTimeout bounds each backend call.
func WithRequestTimeout(d time.Duration) Option {
	return func(opts *Options) {
		opts.RequestTimeout = d
	}
}

// WithMaxBodyBytes bounds the request body.
func WithMaxBodyBytes(n int64) Option {
	return func(opts *Options) {
		opts.MaxBodyBytes = n
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// Server is an http.Handler serving the transpiler.
type Server struct {
	backend Backend
	opts    Options
	logger  *slog.Logger
	handler http.Handler
}

// New creates a Server around backend.
func New(backend Backend, opts ...Option) *Server {
	options := Options{
		AllowOrigin:  "*",
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	s := &Server{
		backend: backend,
		opts:    options,
		logger:  options.Logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /convert", s.handleConvert)
	mux.HandleFunc("OPTIONS /convert", s.handlePreflight)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	s.handler = s.logRequests(s.cors(mux))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

type convertRequest struct {
	Code *string `json:"code"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)

	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request JSON: " + err.Error()})
		return
	}
	if req.Code == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: `request has no "code" field`})
		return
	}

	ctx := r.Context()
	if s.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()
	}

	out, err := s.transpile(ctx, *req.Code)
	if err != nil {
		s.logger.Error("backend failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "transpiler backend failed"})
		return
	}
	writeJSON(w, statusFor(out), out)
}

// transpile consults the cache before the backend. Backend faults are
// never cached.
func (s *Server) transpile(ctx context.Context, source string) (types.Outcome, error) {
	if s.opts.Cache != nil {
		if out, ok := s.opts.Cache.Get(source); ok {
			return out, nil
		}
	}
	out, err := s.backend.Transpile(ctx, source)
	if err != nil {
		return types.Outcome{}, err
	}
	if s.opts.Cache != nil {
		s.opts.Cache.Set(source, out)
	}
	return out, nil
}

func (s *Server) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": lispc.Version(),
	})
}

// statusFor maps an outcome to an HTTP status.
func statusFor(out types.Outcome) int {
	switch {
	case out.OK():
		return http.StatusOK
	case out.Err.Kind() == types.KindLimitExceeded:
		return http.StatusRequestEntityTooLarge
	case out.Err.Kind() == types.KindInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

func (s *Server) cors(next http.Handler) http.Handler {
	if s.opts.AllowOrigin == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", s.opts.AllowOrigin)
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
