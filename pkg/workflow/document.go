package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MainInput is the only input name used by compiled edges.
const MainInput = "main"

// Position is a cosmetic [x, y] canvas coordinate.
type Position [2]int

// Node is a single workflow node. Field order matches the serialized layout.
type Node struct {
	Kind Kind `json:"-"`

	Parameters  any         `json:"parameters"`
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	TypeVersion float64     `json:"typeVersion"`
	Position    Position    `json:"position"`
	WebhookID   string      `json:"webhookId,omitempty"`
	Credentials Credentials `json:"credentials,omitempty"`
}

// NewNode returns a node of the given kind with its type discriminator and version filled in.
func NewNode(kind Kind, id, name string, pos Position, params any) Node {
	return Node{
		Kind:        kind,
		Parameters:  params,
		ID:          id,
		Name:        name,
		Type:        kind.Type(),
		TypeVersion: kind.TypeVersion(),
		Position:    pos,
	}
}

// Edge points at the input of a target node.
type Edge struct {
	Node  string `json:"node"`
	Input string `json:"input"`
}

// Outputs lists, per output slot, the edges leaving a node.
type Outputs struct {
	Main [][]Edge `json:"main"`
}

// Document is the serialized unit handed to the automation engine.
type Document struct {
	Nodes       []Node              `json:"nodes"`
	Connections map[string]*Outputs `json:"connections"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		Nodes:       []Node{},
		Connections: make(map[string]*Outputs),
	}
}

// AddNode appends a node.
func (d *Document) AddNode(n Node) {
	d.Nodes = append(d.Nodes, n)
}

// Node returns the node with the given id.
func (d *Document) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// DeclareOutputs makes sure the node has at least n output slots.
// New slots are empty lists, never null.
func (d *Document) DeclareOutputs(from string, n int) *Outputs {
	out, ok := d.Connections[from]
	if !ok {
		out = &Outputs{Main: [][]Edge{}}
		d.Connections[from] = out
	}
	for len(out.Main) < n {
		out.Main = append(out.Main, []Edge{})
	}
	return out
}

// Connect appends an edge from output slot of from to the main input of to.
func (d *Document) Connect(from string, slot int, to string) {
	out := d.DeclareOutputs(from, slot+1)
	out.Main[slot] = append(out.Main[slot], Edge{Node: to, Input: MainInput})
}

// Targets returns the node ids wired to the given output slot.
func (d *Document) Targets(from string, slot int) []string {
	out, ok := d.Connections[from]
	if !ok || slot < 0 || slot >= len(out.Main) {
		return nil
	}
	ids := make([]string, len(out.Main[slot]))
	for i, e := range out.Main[slot] {
		ids[i] = e.Node
	}
	return ids
}

// CountKind returns how many nodes of kind k the document holds.
func (d *Document) CountKind(k Kind) int {
	count := 0
	for _, n := range d.Nodes {
		if n.Kind == k {
			count++
		}
	}
	return count
}

// Marshal serializes the document as two-space indented JSON.
// HTML characters are left unescaped so message text round-trips verbatim.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode workflow: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// String returns the serialized document, or an empty string if encoding fails.
func (d *Document) String() string {
	data, err := d.Marshal()
	if err != nil {
		return ""
	}
	return string(data)
}

// Parse decodes a serialized document. Node kinds are recovered from their
// type discriminators; parameters decode as generic maps.
func Parse(data []byte) (*Document, error) {
	doc := NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse workflow: %w", err)
	}
	for i := range doc.Nodes {
		if k, ok := KindOf(doc.Nodes[i].Type); ok {
			doc.Nodes[i].Kind = k
		}
	}
	return doc, nil
}
