package workflow

import "github.com/mymmrac/telego"

// n8n expressions evaluated by the engine against the incoming Telegram update.
const (
	// MatchFieldExpression selects the text the router matches: message text or callback data.
	MatchFieldExpression = "={{ $json.message?.text ?? $json.callback_query?.data }}"
	// ChatIDExpression selects the chat to reply to for both update shapes.
	ChatIDExpression = "={{ $json.message?.chat.id ?? $json.callback_query.message.chat.id }}"
	// TriggerEvents lists the update kinds the trigger subscribes to.
	TriggerEvents = "message,callback_query"
)

// CredentialKey is the credentials map key of the Telegram API credential.
const CredentialKey = "telegramApi"

// Credential is a reference to a credential stored in the consuming engine.
type Credential struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// PlaceholderCredential is the stand-in reference emitted into every document.
// Operators replace it with a real credential after import.
var PlaceholderCredential = Credential{
	ID:   "YOUR_TELEGRAM_CREDENTIALS_ID",
	Name: "Telegram Credentials",
}

// Credentials maps a credential kind to its reference.
type Credentials map[string]Credential

// TelegramCredentials wraps c under the Telegram credential key.
func TelegramCredentials(c Credential) Credentials {
	return Credentials{CredentialKey: c}
}

// TriggerParameters configures the Telegram trigger node.
type TriggerParameters struct {
	Events string `json:"events"`
}

// SwitchRule is one router rule in n8n switch v1 form.
type SwitchRule struct {
	Operation string `json:"operation"`
	Value1    string `json:"value1"`
}

// SwitchRules wraps the ordered rule list.
type SwitchRules struct {
	Values []SwitchRule `json:"values"`
}

// SwitchOptions holds router options.
type SwitchOptions struct {
	AlwaysOutputData bool `json:"alwaysOutputData"`
}

// RouterParameters configures the switch node.
type RouterParameters struct {
	FieldToMatch string        `json:"fieldToMatch"`
	Rules        SwitchRules   `json:"rules"`
	Options      SwitchOptions `json:"options"`
}

// DeliveryFields holds optional Telegram send parameters.
// An empty value serializes as {}.
type DeliveryFields struct {
	ReplyMarkup *telego.InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// DeliveryParameters configures a Telegram send-message node.
type DeliveryParameters struct {
	ChatID           string         `json:"chatId"`
	Text             string         `json:"text"`
	AdditionalFields DeliveryFields `json:"additionalFields"`
}

// DelayParameters configures a wait node.
type DelayParameters struct {
	Amount int    `json:"amount" yaml:"amount"`
	Unit   string `json:"unit" yaml:"unit"`
}

// DefaultDelay is the pause inserted between consecutive messages of a block.
var DefaultDelay = DelayParameters{Amount: 2, Unit: "seconds"}
