package compiler

import (
	"fmt"
	"log/slog"

	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/domain"
)

// chainCompiler turns blocks into delivery/delay chains hanging off the router.
type chainCompiler struct {
	*assembler

	rules   []MatchRule
	claimed []bool
	logger  *slog.Logger

	diagnostics []domain.Diagnostic
}

func newChainCompiler(a *assembler, rules []MatchRule, logger *slog.Logger) *chainCompiler {
	return &chainCompiler{
		assembler: a,
		rules:     rules,
		claimed:   make([]bool, len(rules)),
		logger:    logger,
	}
}

// resolveRule finds the first unclaimed rule with the block's trigger and operator.
// Blocks sharing a trigger therefore claim consecutive rules in routing order.
func (c *chainCompiler) resolveRule(block domain.ScriptBlock, op Operator) (int, bool) {
	for i, r := range c.rules {
		if c.claimed[i] || r.Value != block.Trigger || r.Operator != op {
			continue
		}
		c.claimed[i] = true
		return i, true
	}
	return -1, false
}

// compile emits the chain for one block. A block without a rule is skipped and
// reported; the rest of the document is unaffected.
func (c *chainCompiler) compile(blockIndex int, block domain.ScriptBlock, op Operator) {
	slot, ok := c.resolveRule(block, op)
	if !ok {
		c.report(domain.DiagnosticUnrouted, block, "no router rule matches the trigger; block skipped")
		c.logger.Warn("block skipped", "block", block.ID, "trigger", block.Trigger)
		return
	}

	var prevID string
	for mi, msg := range block.Messages {
		n := mi + 1
		if mi == 0 {
			node := c.delivery(fmt.Sprintf("Msg: %s (%d)", block.ID, n), deliveryPosition(blockIndex, mi), msg)
			c.doc.Connect(c.routerID, slot, node.ID)
			prevID = node.ID
			continue
		}

		wait := c.wait(fmt.Sprintf("Wait for %s (%d)", block.ID, n), delayPosition(blockIndex, mi))
		node := c.delivery(fmt.Sprintf("Msg: %s (%d)", block.ID, n), deliveryPosition(blockIndex, mi), msg)
		c.doc.Connect(prevID, 0, wait.ID)
		c.doc.Connect(wait.ID, 0, node.ID)
		prevID = node.ID
	}

	c.logger.Debug("block compiled", "block", block.ID, "slot", slot, "messages", len(block.Messages))
}

func (c *chainCompiler) report(code string, block domain.ScriptBlock, msg string) {
	c.diagnostics = append(c.diagnostics, domain.Diagnostic{
		Code:    code,
		BlockID: block.ID,
		Trigger: block.Trigger,
		Message: msg,
	})
}
