package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	integrator "github.com/Novokreschennih/AI-Partner-Integrator"
	"github.com/Novokreschennih/AI-Partner-Integrator/internal/compiler"
	"github.com/Novokreschennih/AI-Partner-Integrator/internal/logging"
	"github.com/Novokreschennih/AI-Partner-Integrator/internal/presentation/graph"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/domain"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/observability"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/schema"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// DiagnosticsHeader carries the number of compile diagnostics on /compile responses.
const DiagnosticsHeader = "X-Integrator-Diagnostics"

// DefaultMaxBodyBytes caps request bodies when Options.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 1 << 20

// Options configures the HTTP handler.
type Options struct {
	Compiler     *integrator.Compiler
	Logger       *slog.Logger
	Gatherer     prometheus.Gatherer // serves /metrics when set
	MaxBodyBytes int64
}

// Server holds the handlers of the compile API.
type Server struct {
	compiler *integrator.Compiler
	logger   *slog.Logger
}

// NewHandler builds the HTTP API.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Compiler == nil {
		opts.Compiler = integrator.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	oapiRouter, err := loadRouter()
	if err != nil {
		return nil, err
	}

	s := &Server{compiler: opts.Compiler, logger: opts.Logger}
	r := chi.NewRouter()

	r.Get("/healthz", s.Health)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(rawSpec)
	})
	if opts.Gatherer != nil {
		r.Handle("/metrics", observability.Handler(opts.Gatherer))
	}

	r.Group(func(r chi.Router) {
		r.Use(limitBody(opts.MaxBodyBytes))
		r.Use(validateRequests(oapiRouter, opts.Logger))
		r.Post("/compile", s.Compile)
		r.Post("/graph", s.Graph)
		r.Post("/validate", s.Validate)
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", DiagnosticsHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitBody buffers the request body up to limit bytes and answers 413 beyond it.
func limitBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					writeProblem(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", limit), nil)
					return
				}
				writeProblem(w, http.StatusBadRequest, "failed to read request body", nil)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(data))
			next.ServeHTTP(w, r)
		})
	}
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": integrator.Version})
}

// Compile handles POST /compile.
func (s *Server) Compile(w http.ResponseWriter, r *http.Request) {
	c, err := s.compilerFor(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	res, ok := s.compile(w, r, c)
	if !ok {
		return
	}

	out, err := res.Document.Marshal()
	if err != nil {
		s.logger.Error("Compile: encode failed", "error", err)
		writeProblem(w, http.StatusInternalServerError, "failed to encode workflow", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(DiagnosticsHeader, strconv.Itoa(len(res.Diagnostics)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// Graph handles POST /graph.
func (s *Server) Graph(w http.ResponseWriter, r *http.Request) {
	c, err := s.compilerFor(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	res, ok := s.compile(w, r, c)
	if !ok {
		return
	}

	var overlay *graph.Overlay
	if text := r.URL.Query().Get("route"); text != "" {
		rules := compiler.BuildRules(res.Blocks, c.StartTrigger())
		overlay = &graph.Overlay{Highlighted: graph.Trace(res.Document, compiler.Route(rules, text))}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, graph.GenerateMermaid(res.Document, res.Rules, overlay))
}

type validation struct {
	Blocks      int                   `json:"blocks"`
	Rules       []workflow.SwitchRule `json:"rules"`
	Diagnostics []domain.Diagnostic   `json:"diagnostics"`
}

// Validate handles POST /validate.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	c, err := s.compilerFor(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	res, ok := s.compile(w, r, c)
	if !ok {
		return
	}

	diags := res.Diagnostics
	if diags == nil {
		diags = []domain.Diagnostic{}
	}
	writeJSON(w, http.StatusOK, validation{Blocks: len(res.Blocks), Rules: res.Rules, Diagnostics: diags})
}

// compilerFor applies the per-request query overrides.
func (s *Server) compilerFor(r *http.Request) (*integrator.Compiler, error) {
	q := r.URL.Query()
	var opts []integrator.Option
	if v := q.Get("start_trigger"); v != "" {
		opts = append(opts, integrator.WithStartTrigger(v))
	}
	if v := q.Get("delay"); v != "" {
		amount, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid delay %q", v)
		}
		unit := q.Get("delay_unit")
		if unit == "" {
			unit = "seconds"
		}
		opts = append(opts, integrator.WithDelay(amount, unit))
	} else if unit := q.Get("delay_unit"); unit != "" {
		opts = append(opts, integrator.WithDelay(2, unit))
	}
	if len(opts) == 0 {
		return s.compiler, nil
	}
	return s.compiler.With(opts...), nil
}

// compile reads the body and compiles it, writing a problem response on failure.
func (s *Server) compile(w http.ResponseWriter, r *http.Request, c *integrator.Compiler) (*integrator.Result, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "failed to read request body", nil)
		return nil, false
	}

	res, err := c.CompileSource(body)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, compiler.ErrInputTooLarge):
			status = http.StatusRequestEntityTooLarge
		case errors.Is(err, domain.ErrMalformedScript), errors.Is(err, domain.ErrEmptyScript), errors.Is(err, compiler.ErrInvalidUTF8):
			status = http.StatusUnprocessableEntity
		default:
			s.logger.Error("compile failed", "path", r.URL.Path, "error", err)
		}
		writeProblem(w, status, err.Error(), schema.ValidationErrors(err))
		return nil, false
	}
	return res, true
}

type problemDetail struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

type problem struct {
	Error   string          `json:"error"`
	Details []problemDetail `json:"details,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, msg string, errs []error) {
	p := problem{Error: msg}
	for _, e := range errs {
		var ve *schema.ValidationError
		if errors.As(e, &ve) {
			p.Details = append(p.Details, problemDetail{Key: ve.Key, Reason: ve.Reason})
		}
	}
	writeJSON(w, status, p)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
