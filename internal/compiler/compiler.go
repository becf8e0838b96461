package compiler

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/Novokreschennih/AI-Partner-Integrator/internal/logging"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/domain"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/ports"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/workflow"
)

// DelayUnits are the wait units accepted by the wait node.
var DelayUnits = []string{"seconds", "minutes", "hours", "days"}

// Config carries every policy value of a compile. Zero fields take defaults.
type Config struct {
	// StartTrigger is routed with a prefix rule and always takes router slot 0.
	StartTrigger string
	// Delay is the pause between consecutive messages of one block.
	Delay workflow.DelayParameters
	// Credential is referenced by the trigger and every delivery node.
	Credential workflow.Credential
	// IDs supplies node ids and the webhook token.
	IDs ports.IDGenerator
	// Logger receives compile diagnostics.
	Logger *slog.Logger
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		StartTrigger: DefaultStartTrigger,
		Delay:        workflow.DefaultDelay,
		Credential:   workflow.PlaceholderCredential,
		IDs:          UUIDGenerator{},
		Logger:       logging.NewNop(),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.StartTrigger == "" {
		c.StartTrigger = def.StartTrigger
	}
	if c.Delay == (workflow.DelayParameters{}) {
		c.Delay = def.Delay
	}
	if c.Delay.Unit == "" {
		c.Delay.Unit = def.Delay.Unit
	}
	if c.Credential == (workflow.Credential{}) {
		c.Credential = def.Credential
	}
	if c.IDs == nil {
		c.IDs = def.IDs
	}
	if c.Logger == nil {
		c.Logger = def.Logger
	}
	return c
}

// Validate checks the policy values.
func (c Config) Validate() error {
	if c.Delay.Amount < 0 {
		return fmt.Errorf("delay amount must not be negative, got %d", c.Delay.Amount)
	}
	if c.Delay.Unit != "" && !slices.Contains(DelayUnits, c.Delay.Unit) {
		return fmt.Errorf("unknown delay unit %q (want one of %v)", c.Delay.Unit, DelayUnits)
	}
	return nil
}

// Result is a compiled workflow with the data used to build it.
type Result struct {
	Document *workflow.Document
	// Rules lists the router rules in slot order.
	Rules []workflow.SwitchRule
	// Blocks lists the input blocks in routing order; Blocks[i] owns Rules[i].
	Blocks []domain.ScriptBlock
	// Diagnostics lists non-fatal findings; a skipped block always has one.
	Diagnostics []domain.Diagnostic
}

// JSON serializes the document.
func (r *Result) JSON() (string, error) {
	data, err := r.Document.Marshal()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Compile validates blocks and builds the workflow document.
// Malformed input returns an error wrapping domain.ErrMalformedScript and no document.
func Compile(blocks []domain.ScriptBlock, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid compile config: %w", err)
	}
	cfg = cfg.withDefaults()

	if err := domain.ValidateScript(blocks); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedScript, err)
	}

	ordered := orderBlocks(blocks, cfg.StartTrigger)
	rules := BuildRules(ordered, cfg.StartTrigger)

	asm := newAssembler(cfg)
	asm.entry(rules)

	chains := newChainCompiler(asm, rules, cfg.Logger)
	seen := make(map[string]string, len(ordered))
	for i, block := range ordered {
		if first, dup := seen[block.Trigger]; dup {
			chains.report(domain.DiagnosticSharedTrigger, block,
				fmt.Sprintf("trigger also used by block %s; the engine decides which rule fires", first))
		} else {
			seen[block.Trigger] = block.ID
		}

		for _, issue := range block.ButtonIssues() {
			chains.report(domain.DiagnosticButtonPayload, block, issue)
		}

		op := OperatorExact
		if block.Trigger == cfg.StartTrigger {
			op = OperatorPrefix
		}
		chains.compile(i, block, op)
	}

	cfg.Logger.Debug("workflow compiled",
		"blocks", len(ordered),
		"nodes", len(asm.doc.Nodes),
		"diagnostics", len(chains.diagnostics))

	return &Result{
		Document:    asm.doc,
		Rules:       toSwitchRules(rules),
		Blocks:      ordered,
		Diagnostics: chains.diagnostics,
	}, nil
}

// Skipped counts the blocks left out of the graph.
func (r *Result) Skipped() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Code == domain.DiagnosticUnrouted {
			n++
		}
	}
	return n
}
