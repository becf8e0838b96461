package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/domain"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_JSONArray(t *testing.T) {
	input := `[
	  {"id": "welcome", "trigger": "/start", "messages": [
	    {"text": "Hi", "buttons": [[{"text": "Menu", "callback_data": "menu"}]]},
	    {"text": "Bye"}
	  ]}
	]`

	blocks, err := NewParser(0).Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	assert.Equal(t, domain.ScriptBlock{
		ID:      "welcome",
		Trigger: "/start",
		Messages: []domain.Message{
			{Text: "Hi", Buttons: [][]domain.Button{{{Text: "Menu", CallbackData: "menu"}}}},
			{Text: "Bye"},
		},
	}, blocks[0])
}

func TestParser_YAMLObject(t *testing.T) {
	input := `
blocks:
  - id: menu
    trigger: menu
    messages:
      - text: Choose
        buttons:
          - - text: Docs
              url: https://example.com
  - id: empty
    trigger: nothing
    messages: []
`
	blocks, err := NewParser(0).Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	assert.Equal(t, "https://example.com", blocks[0].Messages[0].Buttons[0][0].URL)
	assert.Empty(t, blocks[1].Messages)
}

func TestParser_StripsCodeFence(t *testing.T) {
	input := "```json\n[{\"id\": \"a\", \"trigger\": \"/start\", \"messages\": [{\"text\": \"x\"}]}]\n```\n"

	blocks, err := NewParser(0).Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "a", blocks[0].ID)
}

func TestParser_Empty(t *testing.T) {
	for _, input := range []string{"", "   \n", "```\n```", "null"} {
		_, err := NewParser(0).Parse([]byte(input))
		assert.ErrorIs(t, err, domain.ErrEmptyScript, "input %q", input)
	}
}

func TestParser_ShapeErrors(t *testing.T) {
	input := `[
	  {"id": 7, "trigger": "/start", "messages": [{"text": "x", "buttons": [{"text": "flat"}]}]},
	  "oops",
	  {"id": "b", "messages": {}}
	]`

	_, err := NewParser(0).Parse([]byte(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedScript)

	var keys []string
	for _, e := range schema.ValidationErrors(err) {
		var ve *schema.ValidationError
		require.True(t, errors.As(e, &ve))
		keys = append(keys, ve.Key)
	}
	assert.Equal(t, []string{
		"blocks[0].id",
		"blocks[0].messages[0].buttons[0]",
		"blocks[1]",
		"blocks[2].messages",
		"blocks[2].trigger",
	}, keys)
}

func TestParser_NotAList(t *testing.T) {
	tests := []string{
		`{"scripts": []}`,
		`{"blocks": "nope"}`,
		`just some words`,
		`{"id": `,
	}
	for _, input := range tests {
		_, err := NewParser(0).Parse([]byte(input))
		assert.ErrorIs(t, err, domain.ErrMalformedScript, "input %q", input)
	}
}

func TestParser_SizeLimit(t *testing.T) {
	input := `[` + strings.Repeat(" ", 64) + `]`

	_, err := NewParser(16).Parse([]byte(input))
	assert.ErrorIs(t, err, ErrInputTooLarge)

	blocks, err := NewParser(128).Parse([]byte(input))
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestParser_StripsControlCharacters(t *testing.T) {
	input := "[{\"id\": \"a\", \"trigger\": \"/start\", \"messages\": [{\"text\": \"Hi\x07 there\"}]}]"

	blocks, err := NewParser(0).Parse([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "Hi there", blocks[0].Messages[0].Text)
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, "[]", stripFence("```json\n[]\n```"))
	assert.Equal(t, "[]", stripFence("```\n[]\n```"))
	assert.Equal(t, "[]", stripFence("[]"))
	assert.Equal(t, "```", stripFence("```"))
}
