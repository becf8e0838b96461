package domain

// Button is a single inline keyboard button.
// Telegram expects exactly one of URL or CallbackData; see ScriptBlock.ButtonIssues.
type Button struct {
	Text         string `json:"text" yaml:"text" mapstructure:"text"`
	URL          string `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url"`
	CallbackData string `json:"callback_data,omitempty" yaml:"callback_data,omitempty" mapstructure:"callback_data"`
}

// Message is one outbound message of a block.
// Buttons are laid out as rows of columns.
type Message struct {
	Text    string     `json:"text" yaml:"text" mapstructure:"text"`
	Buttons [][]Button `json:"buttons,omitempty" yaml:"buttons,omitempty" mapstructure:"buttons"`
}

// HasButtons reports whether the message carries at least one button row.
func (m Message) HasButtons() bool {
	return len(m.Buttons) > 0
}

// ScriptBlock is a trigger-activated unit of conversation.
type ScriptBlock struct {
	ID       string    `json:"id" yaml:"id" mapstructure:"id"`
	Trigger  string    `json:"trigger" yaml:"trigger" mapstructure:"trigger"`
	Messages []Message `json:"messages" yaml:"messages" mapstructure:"messages"`
}

// Diagnostic codes.
const (
	// DiagnosticUnrouted marks a block that matched no router rule and was left out of the graph.
	DiagnosticUnrouted = "unrouted"
	// DiagnosticSharedTrigger marks a block whose trigger text is also used by an earlier block.
	// Both get their own router rule; which one fires is decided by the consuming engine.
	DiagnosticSharedTrigger = "shared_trigger"
	// DiagnosticButtonPayload marks a keyboard that compiles but that Telegram is likely to reject.
	DiagnosticButtonPayload = "button_payload"
)

// Diagnostic is a non-fatal compile finding about one block.
type Diagnostic struct {
	Code    string `json:"code"`
	BlockID string `json:"block_id"`
	Trigger string `json:"trigger"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	return "block " + d.BlockID + " (" + d.Trigger + "): " + d.Message
}
