package testutils

import (
	"testing"

	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/domain"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertWellFormed checks the structural invariants every compiled document holds:
// unique node ids, exactly one trigger and one router, a router with one slot per
// rule plus the default slot, and edges that only reference existing nodes.
func AssertWellFormed(t *testing.T, doc *workflow.Document) {
	t.Helper()
	require.NotNil(t, doc)

	ids := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		assert.False(t, ids[n.ID], "duplicate node id %q", n.ID)
		ids[n.ID] = true
	}

	require.Equal(t, 1, doc.CountKind(workflow.KindTrigger), "trigger count")
	require.Equal(t, 1, doc.CountKind(workflow.KindRouter), "router count")

	for from, out := range doc.Connections {
		assert.True(t, ids[from], "connection source %q is not a node", from)
		for slot, edges := range out.Main {
			assert.NotNil(t, edges, "slot %d of %q must be an empty list, not null", slot, from)
			for _, e := range edges {
				assert.True(t, ids[e.Node], "edge %s[%d] targets unknown node %q", from, slot, e.Node)
				assert.Equal(t, workflow.MainInput, e.Input)
			}
		}
	}

	router := FindKind(t, doc, workflow.KindRouter)[0]
	params, ok := router.Parameters.(workflow.RouterParameters)
	if ok {
		out := doc.Connections[router.ID]
		require.NotNil(t, out, "router has no outputs")
		assert.Len(t, out.Main, len(params.Rules.Values)+1, "router slots must be rules + 1")
	}
}

// FindKind returns the nodes of kind k in document order.
func FindKind(t *testing.T, doc *workflow.Document, k workflow.Kind) []workflow.Node {
	t.Helper()
	var out []workflow.Node
	for _, n := range doc.Nodes {
		if n.Kind == k {
			out = append(out, n)
		}
	}
	return out
}

// FindByName returns the node with the given display name.
func FindByName(t *testing.T, doc *workflow.Document, name string) workflow.Node {
	t.Helper()
	for _, n := range doc.Nodes {
		if n.Name == name {
			return n
		}
	}
	require.FailNow(t, "node not found", "name %q", name)
	return workflow.Node{}
}

// Block builds a script block with plain text messages.
func Block(id, trigger string, texts ...string) domain.ScriptBlock {
	msgs := make([]domain.Message, len(texts))
	for i, text := range texts {
		msgs[i] = domain.Message{Text: text}
	}
	return domain.ScriptBlock{ID: id, Trigger: trigger, Messages: msgs}
}
