package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	integrator "github.com/Novokreschennih/AI-Partner-Integrator"
	"github.com/Novokreschennih/AI-Partner-Integrator/internal/compiler"
	"github.com/Novokreschennih/AI-Partner-Integrator/internal/presentation/graph"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/domain"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/schema"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/workflow"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ScriptFormatURI is the resource describing the accepted script format.
const ScriptFormatURI = "integrator://script-format"

// CompileResponse is the structured result of compile_script.
type CompileResponse struct {
	Workflow    string                `json:"workflow" jsonschema_description:"n8n workflow JSON, ready to import"`
	Rules       []workflow.SwitchRule `json:"rules" jsonschema_description:"Router rules in output slot order"`
	Diagnostics []domain.Diagnostic   `json:"diagnostics" jsonschema_description:"Non-fatal findings about individual blocks"`
}

// ValidateResponse is the structured result of validate_script.
type ValidateResponse struct {
	Blocks      int                   `json:"blocks" jsonschema_description:"Number of blocks in the script"`
	Rules       []workflow.SwitchRule `json:"rules" jsonschema_description:"Router rules in output slot order"`
	Diagnostics []domain.Diagnostic   `json:"diagnostics" jsonschema_description:"Non-fatal findings about individual blocks"`
}

var (
	compileArgs = schema.Schema{
		"script":        schema.NonEmpty(),
		"start_trigger": schema.Optional(schema.NonEmpty()),
		"delay":         schema.Optional(schema.Int()),
		"delay_unit":    schema.Optional(delayUnit),
		"strict":        schema.Optional(schema.Bool()),
	}
	graphArgs = schema.Schema{
		"script": schema.NonEmpty(),
		"route":  schema.Optional(schema.String()),
	}
	validateArgs = schema.Schema{
		"script": schema.NonEmpty(),
		"strict": schema.Optional(schema.Bool()),
	}

	delayUnit = schema.Custom("delay unit", func(v any) error {
		unit, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		if !slices.Contains(compiler.DelayUnits, unit) {
			return fmt.Errorf("unknown delay unit %q (want one of %v)", unit, compiler.DelayUnits)
		}
		return nil
	})
)

// Server exposes the compiler as MCP tools.
type Server struct {
	compiler  *integrator.Compiler
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server backed by c.
func NewServer(c *integrator.Compiler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		compiler:  c,
		logger:    logger,
		mcpServer: server.NewMCPServer("integrator-mcp", strings.TrimSpace(integrator.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over HTTP Server-Sent Events until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("MCP Server shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	compileTool := mcp.NewTool("compile_script",
		mcp.WithDescription("Compile a bot script (JSON or YAML list of blocks) into an importable n8n workflow."),
		mcp.WithString("script", mcp.Required(), mcp.Description("The script document. A surrounding markdown code fence is allowed.")),
		mcp.WithString("start_trigger", mcp.Description("Entry trigger routed by prefix (default /start)")),
		mcp.WithNumber("delay", mcp.Description("Pause between consecutive messages of a block (default 2)")),
		mcp.WithString("delay_unit", mcp.Description("Unit of the pause"), mcp.Enum(compiler.DelayUnits...)),
		mcp.WithBoolean("strict", mcp.Description("Fail when the compiler reports diagnostics")),
		mcp.WithOutputSchema[CompileResponse](),
	)
	s.mcpServer.AddTool(compileTool, mcp.NewStructuredToolHandler(s.handleCompile))

	validateTool := mcp.NewTool("validate_script",
		mcp.WithDescription("Check a bot script and list its router rules and diagnostics without emitting a workflow."),
		mcp.WithString("script", mcp.Required(), mcp.Description("The script document")),
		mcp.WithBoolean("strict", mcp.Description("Fail when the compiler reports diagnostics")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	s.mcpServer.AddTool(mcp.NewTool("render_graph",
		mcp.WithDescription("Render the compiled workflow of a script as a Mermaid flowchart."),
		mcp.WithString("script", mcp.Required(), mcp.Description("The script document")),
		mcp.WithString("route", mcp.Description("Highlight the path an incoming message with this text takes")),
	), s.handleGraph)
}

func (s *Server) handleCompile(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CompileResponse, error) {
	if err := schema.Validate(compileArgs, args); err != nil {
		return CompileResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	c := s.compiler
	var opts []integrator.Option
	if v, ok := args["start_trigger"].(string); ok {
		opts = append(opts, integrator.WithStartTrigger(v))
	}
	_, hasDelay := args["delay"]
	unit, hasUnit := args["delay_unit"].(string)
	if hasDelay || hasUnit {
		amount := workflow.DefaultDelay.Amount
		if v, ok := args["delay"].(float64); ok {
			amount = int(v)
		}
		opts = append(opts, integrator.WithDelay(amount, unit))
	}
	if len(opts) > 0 {
		c = c.With(opts...)
	}

	res, err := s.compile(c, args["script"].(string))
	if err != nil {
		return CompileResponse{}, err
	}
	if err := strict(args, res); err != nil {
		return CompileResponse{}, err
	}
	out, err := res.JSON()
	if err != nil {
		return CompileResponse{}, fmt.Errorf("encode failed: %w", err)
	}
	return CompileResponse{Workflow: out, Rules: res.Rules, Diagnostics: nonNil(res.Diagnostics)}, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResponse, error) {
	if err := schema.Validate(validateArgs, args); err != nil {
		return ValidateResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}
	res, err := s.compile(s.compiler, args["script"].(string))
	if err != nil {
		return ValidateResponse{}, err
	}
	if err := strict(args, res); err != nil {
		return ValidateResponse{}, err
	}
	return ValidateResponse{Blocks: len(res.Blocks), Rules: res.Rules, Diagnostics: nonNil(res.Diagnostics)}, nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if err := schema.Validate(graphArgs, args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	res, err := s.compile(s.compiler, args["script"].(string))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var overlay *graph.Overlay
	if text, _ := args["route"].(string); text != "" {
		rules := compiler.BuildRules(res.Blocks, s.compiler.StartTrigger())
		overlay = &graph.Overlay{Highlighted: graph.Trace(res.Document, compiler.Route(rules, text))}
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(res.Document, res.Rules, overlay)), nil
}

func (s *Server) compile(c *integrator.Compiler, script string) (*integrator.Result, error) {
	res, err := c.CompileSource([]byte(script))
	if err != nil {
		s.logger.Warn("MCP: compile rejected", "error", err, "size", len(script))
		return nil, err
	}
	return res, nil
}

// strict fails a call that asked for it when res carries diagnostics.
func strict(args map[string]any, res *integrator.Result) error {
	if on, _ := args["strict"].(bool); on && len(res.Diagnostics) > 0 {
		return fmt.Errorf("%d diagnostics reported (strict): %s", len(res.Diagnostics), res.Diagnostics[0])
	}
	return nil
}

func nonNil(d []domain.Diagnostic) []domain.Diagnostic {
	if d == nil {
		return []domain.Diagnostic{}
	}
	return d
}

const scriptFormat = `# Script format

A script is a list of blocks (JSON or YAML). The block whose trigger is the start
trigger (default "/start") is the entry point; every other trigger must match the
incoming text or button callback_data exactly.

` + "```yaml" + `
- id: welcome
  trigger: /start
  messages:
    - text: Hello!
    - text: What would you like to know?
      buttons:
        - - text: Pricing
            callback_data: pricing
          - text: Website
            url: https://example.com
- id: pricing
  trigger: pricing
  messages:
    - text: It is free.
` + "```" + `

Every block needs a unique id, a trigger, and text on each message and button.
A button should carry exactly one of url or callback_data (at most 64 bytes);
otherwise the script still compiles and a button_payload diagnostic is reported.
`

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ScriptFormatURI, "Script Format",
		mcp.WithMIMEType("text/markdown"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ScriptFormatURI,
				MIMEType: "text/markdown",
				Text:     scriptFormat,
			},
		}, nil
	})
}
