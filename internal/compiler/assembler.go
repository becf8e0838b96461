package compiler

import (
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/domain"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/ports"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/workflow"
	"github.com/mymmrac/telego"
)

// Fixed names of the entry nodes.
const (
	TriggerName = "Telegram Trigger"
	RouterName  = "Router"
)

// assembler owns the document under construction and the node factories.
type assembler struct {
	doc         *workflow.Document
	ids         ports.IDGenerator
	credentials workflow.Credentials
	delay       workflow.DelayParameters

	routerID string
}

func newAssembler(cfg Config) *assembler {
	return &assembler{
		doc:         workflow.NewDocument(),
		ids:         cfg.IDs,
		credentials: workflow.TelegramCredentials(cfg.Credential),
		delay:       cfg.Delay,
	}
}

// entry adds the trigger and the router, wires trigger → router and declares
// one router slot per rule plus the default slot.
func (a *assembler) entry(rules []MatchRule) {
	trigger := workflow.NewNode(workflow.KindTrigger, a.ids.NewID(), TriggerName, triggerPosition,
		workflow.TriggerParameters{Events: workflow.TriggerEvents})
	trigger.WebhookID = a.ids.NewID()
	trigger.Credentials = a.credentials
	a.doc.AddNode(trigger)

	router := workflow.NewNode(workflow.KindRouter, a.ids.NewID(), RouterName, routerPosition,
		workflow.RouterParameters{
			FieldToMatch: workflow.MatchFieldExpression,
			Rules:        workflow.SwitchRules{Values: toSwitchRules(rules)},
			Options:      workflow.SwitchOptions{AlwaysOutputData: true},
		})
	a.doc.AddNode(router)
	a.routerID = router.ID

	a.doc.DeclareOutputs(router.ID, len(rules)+1)
	a.doc.Connect(trigger.ID, 0, router.ID)
}

func (a *assembler) delivery(name string, pos workflow.Position, msg domain.Message) workflow.Node {
	params := workflow.DeliveryParameters{
		ChatID: workflow.ChatIDExpression,
		Text:   msg.Text,
	}
	if msg.HasButtons() {
		params.AdditionalFields.ReplyMarkup = inlineKeyboard(msg.Buttons)
	}
	n := workflow.NewNode(workflow.KindDelivery, a.ids.NewID(), name, pos, params)
	n.Credentials = a.credentials
	a.doc.AddNode(n)
	return n
}

func (a *assembler) wait(name string, pos workflow.Position) workflow.Node {
	n := workflow.NewNode(workflow.KindDelay, a.ids.NewID(), name, pos, a.delay)
	a.doc.AddNode(n)
	return n
}

// inlineKeyboard converts a button grid to Telegram's reply markup, keeping row
// and column order.
func inlineKeyboard(rows [][]domain.Button) *telego.InlineKeyboardMarkup {
	keyboard := make([][]telego.InlineKeyboardButton, len(rows))
	for r, row := range rows {
		keyboard[r] = make([]telego.InlineKeyboardButton, len(row))
		for c, btn := range row {
			keyboard[r][c] = telego.InlineKeyboardButton{
				Text:         btn.Text,
				URL:          btn.URL,
				CallbackData: btn.CallbackData,
			}
		}
	}
	return &telego.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}
