package compiler

import (
	"slices"

	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/domain"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/workflow"
)

// DefaultStartTrigger is the reserved trigger of the conversation entry block.
const DefaultStartTrigger = "/start"

// Operator selects how a router rule compares the incoming text with its value.
type Operator int

const (
	// OperatorExact matches only on full equality.
	OperatorExact Operator = iota
	// OperatorPrefix matches when the incoming text begins with the value.
	// Deep links ("/start ref42") still reach the start block.
	OperatorPrefix
)

// String returns the switch node operation name.
func (o Operator) String() string {
	if o == OperatorPrefix {
		return "startsWith"
	}
	return "equals"
}

// MatchRule is one router rule. Its index in the rule list is the router output slot.
type MatchRule struct {
	Operator Operator
	Value    string
}

// Matches reports whether text would be routed by this rule.
func (r MatchRule) Matches(text string) bool {
	if r.Operator == OperatorPrefix {
		return len(text) >= len(r.Value) && text[:len(r.Value)] == r.Value
	}
	return text == r.Value
}

// Switch converts the rule to its wire form.
func (r MatchRule) Switch() workflow.SwitchRule {
	return workflow.SwitchRule{Operation: r.Operator.String(), Value1: r.Value}
}

// orderBlocks returns a copy of blocks with every start-trigger block moved to the
// front. The sort is stable, so all other blocks keep their input order.
func orderBlocks(blocks []domain.ScriptBlock, startTrigger string) []domain.ScriptBlock {
	ordered := slices.Clone(blocks)
	slices.SortStableFunc(ordered, func(a, b domain.ScriptBlock) int {
		as, bs := a.Trigger == startTrigger, b.Trigger == startTrigger
		switch {
		case as && !bs:
			return -1
		case bs && !as:
			return 1
		default:
			return 0
		}
	})
	return ordered
}

// BuildRules derives one rule per block in routing order. The start trigger gets a
// prefix rule; every other trigger an exact one. Shared triggers are not merged.
func BuildRules(blocks []domain.ScriptBlock, startTrigger string) []MatchRule {
	ordered := orderBlocks(blocks, startTrigger)
	rules := make([]MatchRule, len(ordered))
	for i, block := range ordered {
		op := OperatorExact
		if block.Trigger == startTrigger {
			op = OperatorPrefix
		}
		rules[i] = MatchRule{Operator: op, Value: block.Trigger}
	}
	return rules
}

// Route returns the first rule index matching text, or the default slot len(rules).
// This mirrors how the switch node dispatches an update.
func Route(rules []MatchRule, text string) int {
	for i, r := range rules {
		if r.Matches(text) {
			return i
		}
	}
	return len(rules)
}

func toSwitchRules(rules []MatchRule) []workflow.SwitchRule {
	out := make([]workflow.SwitchRule, len(rules))
	for i, r := range rules {
		out[i] = r.Switch()
	}
	return out
}
