package tui

import (
	"fmt"
	"strings"

	"github.com/Novokreschennih/AI-Partner-Integrator/internal/compiler"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/workflow"
)

// Report describes a compiled workflow as markdown: the routing table, node totals
// and diagnostics.
func Report(res *compiler.Result) string {
	var sb strings.Builder
	sb.WriteString("# Workflow\n\n")

	sb.WriteString("| Slot | Match | Trigger | Block | Messages | Buttons |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for i, rule := range res.Rules {
		blockID, messages, buttons := "", 0, 0
		if i < len(res.Blocks) {
			b := res.Blocks[i]
			blockID, messages = b.ID, len(b.Messages)
			for _, m := range b.Messages {
				for _, row := range m.Buttons {
					buttons += len(row)
				}
			}
		}
		fmt.Fprintf(&sb, "| %d | %s | `%s` | %s | %d | %d |\n",
			i, rule.Operation, cell(rule.Value1), cell(blockID), messages, buttons)
	}
	fmt.Fprintf(&sb, "| %d | default | | | | |\n\n", len(res.Rules))

	doc := res.Document
	fmt.Fprintf(&sb, "**Nodes:** %d (%d deliveries, %d delays)\n\n",
		len(doc.Nodes), doc.CountKind(workflow.KindDelivery), doc.CountKind(workflow.KindDelay))

	sb.WriteString("## Diagnostics\n\n")
	if len(res.Diagnostics) == 0 {
		sb.WriteString("None.\n")
		return sb.String()
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintf(&sb, "- **%s** %s\n", d.Code, cell(d.String()))
	}
	return sb.String()
}

// cell keeps user text from breaking the table layout.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "`", "'")
	return strings.Join(strings.Fields(s), " ")
}
