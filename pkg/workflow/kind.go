package workflow

import "fmt"

// Kind identifies the role a node plays in the compiled graph.
type Kind int

const (
	// KindTrigger is the single entry point: an inbound Telegram update arrived.
	KindTrigger Kind = iota + 1
	// KindRouter dispatches the update to the output whose rule matches.
	KindRouter
	// KindDelivery sends one message, optionally with an inline keyboard.
	KindDelivery
	// KindDelay pauses between two deliveries of the same block.
	KindDelay
)

// n8n type discriminators.
const (
	TypeTelegramTrigger = "n8n-nodes-base.telegramTrigger"
	TypeSwitch          = "n8n-nodes-base.switch"
	TypeTelegram        = "n8n-nodes-base.telegram"
	TypeWait            = "n8n-nodes-base.wait"
)

type kindSpec struct {
	name    string
	typ     string
	version float64
}

var kindSpecs = map[Kind]kindSpec{
	KindTrigger:  {name: "trigger", typ: TypeTelegramTrigger, version: 1},
	KindRouter:   {name: "router", typ: TypeSwitch, version: 1},
	KindDelivery: {name: "delivery", typ: TypeTelegram, version: 1.2},
	KindDelay:    {name: "delay", typ: TypeWait, version: 1.1},
}

func (k Kind) String() string {
	if spec, ok := kindSpecs[k]; ok {
		return spec.name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Type returns the n8n node type discriminator for the kind.
func (k Kind) Type() string {
	return kindSpecs[k].typ
}

// TypeVersion returns the n8n node type version for the kind.
func (k Kind) TypeVersion() float64 {
	return kindSpecs[k].version
}

// KindOf maps an n8n type discriminator back to a Kind.
// It returns false for node types the compiler never emits.
func KindOf(nodeType string) (Kind, bool) {
	for k, spec := range kindSpecs {
		if spec.typ == nodeType {
			return k, true
		}
	}
	return 0, false
}
