package compiler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/Novokreschennih/AI-Partner-Integrator/internal/logging"
	"github.com/Novokreschennih/AI-Partner-Integrator/internal/testutils"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/domain"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/schema"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deterministic() Config {
	return Config{IDs: NewSequence("n")}
}

func TestCompile_SingleStartBlock(t *testing.T) {
	res, err := Compile([]domain.ScriptBlock{testutils.Block("welcome", "/start", "Hi", "Bye")}, deterministic())
	require.NoError(t, err)
	doc := res.Document
	testutils.AssertWellFormed(t, doc)

	assert.Len(t, doc.Nodes, 5)
	assert.Equal(t, 1, doc.CountKind(workflow.KindTrigger))
	assert.Equal(t, 1, doc.CountKind(workflow.KindRouter))
	assert.Equal(t, 2, doc.CountKind(workflow.KindDelivery))
	assert.Equal(t, 1, doc.CountKind(workflow.KindDelay))

	router := testutils.FindByName(t, doc, RouterName)
	hi := testutils.FindByName(t, doc, "Msg: welcome (1)")
	wait := testutils.FindByName(t, doc, "Wait for welcome (2)")
	bye := testutils.FindByName(t, doc, "Msg: welcome (2)")

	require.Len(t, doc.Connections[router.ID].Main, 2)
	assert.Equal(t, []string{hi.ID}, doc.Targets(router.ID, 0))
	assert.Empty(t, doc.Targets(router.ID, 1), "default slot stays empty")
	assert.Equal(t, []string{wait.ID}, doc.Targets(hi.ID, 0))
	assert.Equal(t, []string{bye.ID}, doc.Targets(wait.ID, 0))
	assert.Empty(t, doc.Connections[bye.ID], "last delivery has no outputs")

	assert.Equal(t, "Hi", hi.Parameters.(workflow.DeliveryParameters).Text)
	assert.Equal(t, "Bye", bye.Parameters.(workflow.DeliveryParameters).Text)
	assert.Equal(t, []workflow.SwitchRule{{Operation: "startsWith", Value1: "/start"}}, res.Rules)
	assert.Empty(t, res.Diagnostics)
}

func TestCompile_StartBlockMovesToFirstRule(t *testing.T) {
	blocks := []domain.ScriptBlock{
		testutils.Block("menu", "menu", "Pick one"),
		testutils.Block("welcome", "/start", "Hello"),
	}

	res, err := Compile(blocks, deterministic())
	require.NoError(t, err)

	assert.Equal(t, []workflow.SwitchRule{
		{Operation: "startsWith", Value1: "/start"},
		{Operation: "equals", Value1: "menu"},
	}, res.Rules)

	router := testutils.FindByName(t, res.Document, RouterName)
	welcome := testutils.FindByName(t, res.Document, "Msg: welcome (1)")
	menu := testutils.FindByName(t, res.Document, "Msg: menu (1)")
	assert.Equal(t, []string{welcome.ID}, res.Document.Targets(router.ID, 0))
	assert.Equal(t, []string{menu.ID}, res.Document.Targets(router.ID, 1))
	assert.Len(t, res.Document.Connections[router.ID].Main, 3)

	// Chains are laid out in routing order.
	assert.Equal(t, workflow.Position{750, 300}, welcome.Position)
	assert.Equal(t, workflow.Position{1100, 300}, menu.Position)
}

func TestCompile_EmptyMessagesLeaveSlotEmpty(t *testing.T) {
	blocks := []domain.ScriptBlock{
		testutils.Block("welcome", "/start", "Hello"),
		testutils.Block("silent", "quiet"),
	}

	res, err := Compile(blocks, deterministic())
	require.NoError(t, err)
	testutils.AssertWellFormed(t, res.Document)

	router := testutils.FindByName(t, res.Document, RouterName)
	assert.Equal(t, 1, res.Document.CountKind(workflow.KindDelivery))
	assert.Equal(t, 0, res.Document.CountKind(workflow.KindDelay))
	require.Len(t, res.Document.Connections[router.ID].Main, 3)
	assert.Equal(t, []workflow.Edge{}, res.Document.Connections[router.ID].Main[1])
}

func TestCompile_EmptyScript(t *testing.T) {
	res, err := Compile(nil, deterministic())
	require.NoError(t, err)
	testutils.AssertWellFormed(t, res.Document)

	assert.Len(t, res.Document.Nodes, 2)
	router := testutils.FindByName(t, res.Document, RouterName)
	assert.Len(t, res.Document.Connections[router.ID].Main, 1)
	assert.Empty(t, res.Rules)
}

func TestCompile_ChainCounts(t *testing.T) {
	for m := 1; m <= 5; m++ {
		texts := make([]string, m)
		for i := range texts {
			texts[i] = "line"
		}
		res, err := Compile([]domain.ScriptBlock{testutils.Block("b", "go", texts...)}, deterministic())
		require.NoError(t, err)
		testutils.AssertWellFormed(t, res.Document)

		assert.Equal(t, m, res.Document.CountKind(workflow.KindDelivery), "deliveries for %d messages", m)
		assert.Equal(t, m-1, res.Document.CountKind(workflow.KindDelay), "delays for %d messages", m)
	}
}

func TestCompile_RuleOperators(t *testing.T) {
	blocks := []domain.ScriptBlock{
		testutils.Block("a", "about", "x"),
		testutils.Block("b", "/help", "x"),
		testutils.Block("s", "/start", "x"),
		testutils.Block("c", "contact", "x"),
	}

	res, err := Compile(blocks, deterministic())
	require.NoError(t, err)
	require.Len(t, res.Rules, len(blocks))

	assert.Equal(t, "/start", res.Rules[0].Value1)
	assert.Equal(t, "startsWith", res.Rules[0].Operation)
	for _, r := range res.Rules[1:] {
		assert.Equal(t, "equals", r.Operation, r.Value1)
	}
	assert.Equal(t, []string{"about", "/help", "contact"},
		[]string{res.Rules[1].Value1, res.Rules[2].Value1, res.Rules[3].Value1})
}

func TestCompile_CustomStartTrigger(t *testing.T) {
	blocks := []domain.ScriptBlock{
		testutils.Block("a", "/start", "x"),
		testutils.Block("b", "/begin", "x"),
	}
	cfg := deterministic()
	cfg.StartTrigger = "/begin"

	res, err := Compile(blocks, cfg)
	require.NoError(t, err)
	assert.Equal(t, workflow.SwitchRule{Operation: "startsWith", Value1: "/begin"}, res.Rules[0])
	assert.Equal(t, workflow.SwitchRule{Operation: "equals", Value1: "/start"}, res.Rules[1])
}

func TestCompile_SharedTriggerGetsOwnSlots(t *testing.T) {
	blocks := []domain.ScriptBlock{
		testutils.Block("first", "menu", "one"),
		testutils.Block("second", "menu", "two"),
	}

	res, err := Compile(blocks, deterministic())
	require.NoError(t, err)
	testutils.AssertWellFormed(t, res.Document)

	router := testutils.FindByName(t, res.Document, RouterName)
	first := testutils.FindByName(t, res.Document, "Msg: first (1)")
	second := testutils.FindByName(t, res.Document, "Msg: second (1)")
	assert.Equal(t, []string{first.ID}, res.Document.Targets(router.ID, 0))
	assert.Equal(t, []string{second.ID}, res.Document.Targets(router.ID, 1))

	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, domain.DiagnosticSharedTrigger, res.Diagnostics[0].Code)
	assert.Equal(t, "second", res.Diagnostics[0].BlockID)
	assert.Zero(t, res.Skipped())
}

func TestCompile_PositionsNeverCollide(t *testing.T) {
	var blocks []domain.ScriptBlock
	for b := 0; b < 6; b++ {
		blocks = append(blocks, testutils.Block(string(rune('a'+b)), string(rune('a'+b)), "1", "2", "3", "4"))
	}

	res, err := Compile(blocks, deterministic())
	require.NoError(t, err)

	seen := make(map[workflow.Position]string)
	for _, n := range res.Document.Nodes {
		other, dup := seen[n.Position]
		assert.False(t, dup, "%s and %s share %v", n.Name, other, n.Position)
		seen[n.Position] = n.Name
	}

	wait := testutils.FindByName(t, res.Document, "Wait for b (3)")
	assert.Equal(t, workflow.Position{750 + 350 - 175, 700}, wait.Position)
}

func TestCompile_Isomorphic(t *testing.T) {
	blocks := []domain.ScriptBlock{
		testutils.Block("menu", "menu", "a", "b"),
		testutils.Block("welcome", "/start", "c", "d", "e"),
		testutils.Block("empty", "none"),
	}

	a, err := Compile(blocks, Config{})
	require.NoError(t, err)
	b, err := Compile(blocks, Config{})
	require.NoError(t, err)

	assert.NotEqual(t, a.Document.Nodes[0].ID, b.Document.Nodes[0].ID)
	assert.Equal(t, shape(a.Document), shape(b.Document))
}

// shape replaces ids with node indexes so two documents can be compared structurally.
func shape(doc *workflow.Document) []any {
	index := make(map[string]int, len(doc.Nodes))
	for i, n := range doc.Nodes {
		index[n.ID] = i
	}
	var out []any
	for i, n := range doc.Nodes {
		out = append(out, n.Kind, n.Name, n.Position)
		if conn, ok := doc.Connections[n.ID]; ok {
			for slot, edges := range conn.Main {
				for _, e := range edges {
					out = append(out, [3]int{i, slot, index[e.Node]})
				}
			}
		}
	}
	return out
}

func TestCompile_MalformedInput(t *testing.T) {
	blocks := []domain.ScriptBlock{
		{ID: "", Trigger: "/start", Messages: []domain.Message{{Text: "hi"}}},
		{ID: "menu", Trigger: "", Messages: []domain.Message{{Text: ""}}},
	}

	res, err := Compile(blocks, deterministic())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrMalformedScript)

	var keys []string
	for _, e := range schema.ValidationErrors(err) {
		var ve *schema.ValidationError
		require.True(t, errors.As(e, &ve))
		keys = append(keys, ve.Key)
	}
	assert.Equal(t, []string{"blocks[0].id", "blocks[1].trigger", "blocks[1].messages[0].text"}, keys)
}

func TestCompile_LooseButtonsCompileWithDiagnostics(t *testing.T) {
	blocks := []domain.ScriptBlock{{
		ID:      "menu",
		Trigger: "/start",
		Messages: []domain.Message{{
			Text: "Pick",
			Buttons: [][]domain.Button{
				{{Text: "Next"}},
				{},
				{{Text: "Both", URL: "https://example.com", CallbackData: "both"}},
			},
		}},
	}}

	res, err := Compile(blocks, deterministic())
	require.NoError(t, err)
	testutils.AssertWellFormed(t, res.Document)
	assert.Zero(t, res.Skipped())

	out, err := res.JSON()
	require.NoError(t, err)
	assert.Contains(t, out, `"inline_keyboard": [`)
	assert.Contains(t, out, `"text": "Next"`)
	assert.Contains(t, out, `"callback_data": "both"`)

	var messages []string
	for _, d := range res.Diagnostics {
		assert.Equal(t, domain.DiagnosticButtonPayload, d.Code)
		assert.Equal(t, "menu", d.BlockID)
		messages = append(messages, d.Message)
	}
	assert.Equal(t, []string{
		"messages[0].buttons[0][0]: neither url nor callback_data set",
		"messages[0].buttons[1]: empty button row",
		"messages[0].buttons[2][0]: both url and callback_data set",
	}, messages)
}

func TestCompile_BlankButtonTextIsMalformed(t *testing.T) {
	blocks := []domain.ScriptBlock{{
		ID:       "menu",
		Trigger:  "/start",
		Messages: []domain.Message{{Text: "Pick", Buttons: [][]domain.Button{{{Text: " ", CallbackData: "x"}}}}},
	}}

	_, err := Compile(blocks, deterministic())
	require.ErrorIs(t, err, domain.ErrMalformedScript)
	assert.Contains(t, err.Error(), "blocks[0].messages[0].buttons[0][0].text")
}

func TestCompile_InvalidConfig(t *testing.T) {
	blocks := []domain.ScriptBlock{testutils.Block("a", "/start", "x")}

	_, err := Compile(blocks, Config{Delay: workflow.DelayParameters{Amount: -1, Unit: "seconds"}})
	assert.Error(t, err)

	_, err = Compile(blocks, Config{Delay: workflow.DelayParameters{Amount: 1, Unit: "fortnights"}})
	assert.Error(t, err)
}

func TestCompile_NodePayloads(t *testing.T) {
	blocks := []domain.ScriptBlock{{
		ID:      "welcome",
		Trigger: "/start",
		Messages: []domain.Message{
			{Text: "Hi <b>there</b>", Buttons: [][]domain.Button{
				{{Text: "Site", URL: "https://example.com"}, {Text: "More", CallbackData: "more"}},
			}},
			{Text: "Bye"},
		},
	}}
	cfg := deterministic()
	cfg.Delay = workflow.DelayParameters{Amount: 5, Unit: "minutes"}

	res, err := Compile(blocks, cfg)
	require.NoError(t, err)

	out, err := res.JSON()
	require.NoError(t, err)
	assert.Contains(t, out, `"text": "Hi <b>there</b>"`, "html must not be escaped")

	var generic struct {
		Nodes []map[string]any `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &generic))
	require.Len(t, generic.Nodes, 5)

	trigger := generic.Nodes[0]
	assert.Equal(t, "n1", trigger["id"])
	assert.Equal(t, "n2", trigger["webhookId"])
	assert.Equal(t, workflow.TypeTelegramTrigger, trigger["type"])
	assert.Equal(t, map[string]any{"events": "message,callback_query"}, trigger["parameters"])
	assert.Equal(t, map[string]any{"telegramApi": map[string]any{
		"id": "YOUR_TELEGRAM_CREDENTIALS_ID", "name": "Telegram Credentials",
	}}, trigger["credentials"])

	router := generic.Nodes[1]
	assert.Equal(t, "Router", router["name"])
	assert.Equal(t, []any{500.0, 300.0}, router["position"])
	assert.NotContains(t, router, "credentials")

	first := generic.Nodes[2]
	assert.Equal(t, map[string]any{
		"chatId": workflow.ChatIDExpression,
		"text":   "Hi <b>there</b>",
		"additionalFields": map[string]any{
			"reply_markup": map[string]any{
				"inline_keyboard": []any{[]any{
					map[string]any{"text": "Site", "url": "https://example.com"},
					map[string]any{"text": "More", "callback_data": "more"},
				}},
			},
		},
	}, first["parameters"])
	assert.Equal(t, 1.2, first["typeVersion"])

	wait := generic.Nodes[3]
	assert.Equal(t, "Wait for welcome (2)", wait["name"])
	assert.Equal(t, map[string]any{"amount": 5.0, "unit": "minutes"}, wait["parameters"])
	assert.Equal(t, []any{575.0, 500.0}, wait["position"])

	last := generic.Nodes[4]
	assert.Equal(t, map[string]any{}, last["parameters"].(map[string]any)["additionalFields"])
}

func TestChainCompiler_SkipsUnroutedBlock(t *testing.T) {
	var logs bytes.Buffer
	cfg := deterministic().withDefaults()
	cfg.Logger = logging.NewWithWriter(&logs, slog.LevelDebug)

	rules := []MatchRule{{Operator: OperatorExact, Value: "menu"}}
	asm := newAssembler(cfg)
	asm.entry(rules)
	chains := newChainCompiler(asm, rules, cfg.Logger)

	chains.compile(0, testutils.Block("lost", "help", "never sent"), OperatorExact)
	chains.compile(1, testutils.Block("menu", "menu", "shown"), OperatorExact)

	require.Len(t, chains.diagnostics, 1)
	assert.Equal(t, domain.DiagnosticUnrouted, chains.diagnostics[0].Code)
	assert.Equal(t, "lost", chains.diagnostics[0].BlockID)
	assert.Equal(t, 1, asm.doc.CountKind(workflow.KindDelivery))
	assert.Contains(t, logs.String(), "block skipped")
	testutils.AssertWellFormed(t, asm.doc)

	res := &Result{Diagnostics: chains.diagnostics}
	assert.Equal(t, 1, res.Skipped())
}

func TestChainCompiler_OperatorMustMatch(t *testing.T) {
	cfg := deterministic().withDefaults()
	rules := []MatchRule{{Operator: OperatorPrefix, Value: "/start"}}
	asm := newAssembler(cfg)
	asm.entry(rules)
	chains := newChainCompiler(asm, rules, cfg.Logger)

	chains.compile(0, testutils.Block("a", "/start", "x"), OperatorExact)
	assert.Len(t, chains.diagnostics, 1)
}
