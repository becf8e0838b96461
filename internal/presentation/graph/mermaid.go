package graph

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/workflow"
)

// excerptRunes bounds the message preview shown inside delivery nodes.
const excerptRunes = 32

// Overlay highlights a subset of nodes, e.g. the path one incoming update takes.
type Overlay struct {
	Highlighted []string
}

// GenerateMermaid produces a Mermaid flowchart of a compiled workflow.
// Shapes follow the node kind:
// - Trigger: ((Circle))
// - Router: {Rhombus}
// - Delivery: [Rectangle] with a text preview
// - Delay: ([Stadium])
// Router edges are labelled with their rule, the last one as the default branch.
func GenerateMermaid(doc *workflow.Document, rules []workflow.SwitchRule, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, node := range doc.Nodes {
		opener, closer := "[", "]"
		label := node.Name

		switch node.Kind {
		case workflow.KindTrigger:
			opener, closer = "((", "))"
		case workflow.KindRouter:
			opener, closer = "{", "}"
		case workflow.KindDelay:
			opener, closer = "([", "])"
			if p, ok := node.Parameters.(workflow.DelayParameters); ok {
				label = fmt.Sprintf("⏱️ %d %s", p.Amount, p.Unit)
			}
		case workflow.KindDelivery:
			if p, ok := node.Parameters.(workflow.DeliveryParameters); ok {
				label = node.Name + " <br/> " + excerpt(p.Text)
				if p.AdditionalFields.ReplyMarkup != nil {
					label += " <br/> ⌨️"
				}
			}
		}

		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(node.ID), opener, escape(label), closer)
	}

	for _, node := range doc.Nodes {
		out, ok := doc.Connections[node.ID]
		if !ok {
			continue
		}
		from := sanitizeMermaidID(node.ID)
		for slot, edges := range out.Main {
			arrow := "-->"
			if node.Kind == workflow.KindRouter {
				arrow = fmt.Sprintf("-- \"%s\" -->", escape(slotLabel(rules, slot)))
			}
			for _, e := range edges {
				fmt.Fprintf(&sb, "    %s %s %s\n", from, arrow, sanitizeMermaidID(e.Node))
			}
		}
	}

	if overlay != nil && len(overlay.Highlighted) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text stays readable on the light fill in both themes.
		sb.WriteString("    classDef route fill:#ffeb3b,stroke:#fbc02d,stroke-width:3px,color:#000;\n")
		seen := make(map[string]bool)
		for _, id := range overlay.Highlighted {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s route;\n", safeID)
			}
		}
	}

	return sb.String()
}

// Trace returns the ids of the router and every node reached from router slot,
// following the single chain hanging off each first delivery.
func Trace(doc *workflow.Document, slot int) []string {
	var routerID string
	for _, n := range doc.Nodes {
		if n.Kind == workflow.KindRouter {
			routerID = n.ID
			break
		}
	}
	if routerID == "" {
		return nil
	}

	path := []string{routerID}
	visited := map[string]bool{routerID: true}
	queue := doc.Targets(routerID, slot)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		path = append(path, id)
		queue = append(queue, doc.Targets(id, 0)...)
	}
	return path
}

func slotLabel(rules []workflow.SwitchRule, slot int) string {
	if slot >= len(rules) {
		return "default"
	}
	return rules[slot].Operation + " " + rules[slot].Value1
}

func excerpt(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= excerptRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:excerptRunes]) + "…"
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

// sanitizeMermaidID prefixes ids so values starting with a digit stay valid.
func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return "n_" + s
}
