package integrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Novokreschennih/AI-Partner-Integrator/internal/compiler"
	"github.com/Novokreschennih/AI-Partner-Integrator/internal/logging"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/domain"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/observability"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/ports"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/workflow"
)

// Result is a compiled workflow with its router rules and diagnostics.
type Result = compiler.Result

// Compiler is the high-level entry point of the library.
// It is immutable after construction and safe for concurrent use.
type Compiler struct {
	cfg      compiler.Config
	maxBytes int
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Compiler.
type Option func(*Compiler)

// WithStartTrigger sets the reserved entry trigger (default "/start").
func WithStartTrigger(trigger string) Option {
	return func(c *Compiler) {
		c.cfg.StartTrigger = trigger
	}
}

// WithDelay sets the pause inserted between consecutive messages of a block.
func WithDelay(amount int, unit string) Option {
	return func(c *Compiler) {
		c.cfg.Delay = workflow.DelayParameters{Amount: amount, Unit: unit}
	}
}

// WithCredential replaces the placeholder credential reference.
func WithCredential(id, name string) Option {
	return func(c *Compiler) {
		c.cfg.Credential = workflow.Credential{ID: id, Name: name}
	}
}

// WithIDGenerator injects the identifier source.
func WithIDGenerator(ids ports.IDGenerator) Option {
	return func(c *Compiler) {
		c.cfg.IDs = ids
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithMetrics records every compile call.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Compiler) {
		c.metrics = m
	}
}

// WithMaxScriptBytes caps raw script documents accepted by CompileSource and Parse.
func WithMaxScriptBytes(n int) Option {
	return func(c *Compiler) {
		c.maxBytes = n
	}
}

// New creates a Compiler. Without options it emits random ids, the "/start" entry
// trigger, two-second delays and placeholder credentials.
func New(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	c.finish()
	return c
}

// With returns a copy of c with opts applied. c itself is unchanged.
func (c *Compiler) With(opts ...Option) *Compiler {
	cp := *c
	for _, opt := range opts {
		opt(&cp)
	}
	cp.finish()
	return &cp
}

func (c *Compiler) finish() {
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	c.cfg.Logger = c.logger
	if c.cfg.IDs == nil {
		c.cfg.IDs = compiler.UUIDGenerator{}
	}
}

// Compile compiles blocks and returns the workflow JSON.
func (c *Compiler) Compile(blocks []domain.ScriptBlock) (string, error) {
	res, err := c.CompileDocument(blocks)
	if err != nil {
		return "", err
	}
	return res.JSON()
}

// CompileDocument compiles blocks and returns the document with its rules and diagnostics.
func (c *Compiler) CompileDocument(blocks []domain.ScriptBlock) (*Result, error) {
	start := time.Now()
	res, err := compiler.Compile(blocks, c.cfg)
	if err != nil {
		c.metrics.ObserveCompile(time.Since(start), 0, 0, err)
		return nil, err
	}

	for _, d := range res.Diagnostics {
		c.logger.Warn("compile diagnostic", "code", d.Code, "block", d.BlockID, "trigger", d.Trigger, "msg", d.Message)
	}
	c.metrics.ObserveCompile(time.Since(start), len(res.Document.Nodes), res.Skipped(), nil)
	return res, nil
}

// Parse decodes a raw JSON or YAML script document.
func (c *Compiler) Parse(data []byte) ([]domain.ScriptBlock, error) {
	return compiler.NewParser(c.maxBytes).Parse(data)
}

// CompileSource parses a raw script document and compiles it.
func (c *Compiler) CompileSource(data []byte) (*Result, error) {
	blocks, err := c.Parse(data)
	if err != nil {
		c.metrics.ObserveCompile(0, 0, 0, err)
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return c.CompileDocument(blocks)
}

// CompileFrom reads a script from src and compiles it.
func (c *Compiler) CompileFrom(ctx context.Context, src ports.ScriptSource) (*Result, error) {
	data, err := src.ReadScript(ctx)
	if err != nil {
		return nil, err
	}
	return c.CompileSource(data)
}

// StartTrigger returns the configured entry trigger.
func (c *Compiler) StartTrigger() string {
	if c.cfg.StartTrigger == "" {
		return compiler.DefaultStartTrigger
	}
	return c.cfg.StartTrigger
}
