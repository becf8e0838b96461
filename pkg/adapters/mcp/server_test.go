package mcp

import (
	"context"
	"testing"

	integrator "github.com/Novokreschennih/AI-Partner-Integrator"
	"github.com/Novokreschennih/AI-Partner-Integrator/internal/compiler"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/domain"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/workflow"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const script = `
- id: welcome
  trigger: /start
  messages:
    - text: Hello
    - text: Pick one
      buttons:
        - - text: Pricing
            callback_data: pricing
- id: pricing
  trigger: pricing
  messages:
    - text: Free
`

func newTestServer() *Server {
	return NewServer(integrator.New(integrator.WithIDGenerator(compiler.NewSequence("id-"))), nil)
}

func request(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
}

func TestHandleCompile(t *testing.T) {
	s := newTestServer()
	args := map[string]any{"script": script, "delay": float64(4), "delay_unit": "minutes"}

	resp, err := s.handleCompile(context.Background(), request("compile_script", args), args)
	require.NoError(t, err)

	doc, err := workflow.Parse([]byte(resp.Workflow))
	require.NoError(t, err)
	assert.Equal(t, 3, doc.CountKind(workflow.KindDelivery))
	assert.Contains(t, resp.Workflow, `"unit": "minutes"`)
	assert.Contains(t, resp.Workflow, `"amount": 4`)
	assert.Equal(t, []workflow.SwitchRule{
		{Operation: "startsWith", Value1: "/start"},
		{Operation: "equals", Value1: "pricing"},
	}, resp.Rules)
	assert.NotNil(t, resp.Diagnostics)
	assert.Empty(t, resp.Diagnostics)
}

func TestHandleCompile_InvalidArguments(t *testing.T) {
	s := newTestServer()

	tests := []map[string]any{
		{},
		{"script": ""},
		{"script": script, "delay": 1.5},
		{"script": script, "start_trigger": 3.0},
		{"script": script, "delay_unit": "fortnights"},
		{"script": script, "strict": "yes"},
	}
	for _, args := range tests {
		_, err := s.handleCompile(context.Background(), request("compile_script", args), args)
		assert.Error(t, err, "%v", args)
	}
}

func TestHandleCompile_MalformedScript(t *testing.T) {
	s := newTestServer()
	args := map[string]any{"script": `[{"id": "a", "trigger": "x", "messages": [{"text": " "}]}]`}

	_, err := s.handleCompile(context.Background(), request("compile_script", args), args)
	assert.ErrorIs(t, err, domain.ErrMalformedScript)
}

func TestHandleValidate(t *testing.T) {
	s := newTestServer()
	args := map[string]any{"script": `[
	  {"id": "a", "trigger": "menu", "messages": []},
	  {"id": "b", "trigger": "menu", "messages": []}
	]`}

	resp, err := s.handleValidate(context.Background(), request("validate_script", args), args)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Blocks)
	require.Len(t, resp.Diagnostics, 1)
	assert.Equal(t, domain.DiagnosticSharedTrigger, resp.Diagnostics[0].Code)
}

func TestHandleValidate_Strict(t *testing.T) {
	s := newTestServer()
	loose := `[{"id": "a", "trigger": "/start", "messages": [{"text": "Pick", "buttons": [[{"text": "Next"}]]}]}]`

	args := map[string]any{"script": loose}
	resp, err := s.handleValidate(context.Background(), request("validate_script", args), args)
	require.NoError(t, err)
	require.Len(t, resp.Diagnostics, 1)
	assert.Equal(t, domain.DiagnosticButtonPayload, resp.Diagnostics[0].Code)

	args = map[string]any{"script": loose, "strict": true}
	_, err = s.handleValidate(context.Background(), request("validate_script", args), args)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 diagnostics reported")

	args = map[string]any{"script": script, "strict": true}
	_, err = s.handleCompile(context.Background(), request("compile_script", args), args)
	assert.NoError(t, err)
}

func TestHandleGraph(t *testing.T) {
	s := newTestServer()

	result, err := s.handleGraph(context.Background(), request("render_graph", map[string]any{
		"script": script,
		"route":  "pricing",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "graph LR")
	assert.Contains(t, text.Text, `-- "equals pricing" -->`)
	assert.Contains(t, text.Text, "class n_id_7 route;")
}

func TestHandleGraph_Errors(t *testing.T) {
	s := newTestServer()

	result, err := s.handleGraph(context.Background(), request("render_graph", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = s.handleGraph(context.Background(), request("render_graph", map[string]any{"script": "{}"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
