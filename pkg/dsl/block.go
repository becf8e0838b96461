package dsl

import (
	"fmt"

	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/domain"
)

// BlockBuilder provides a fluent API for configuring one block.
type BlockBuilder struct {
	block domain.ScriptBlock
	errs  []error
}

// Say appends a message.
func (bb *BlockBuilder) Say(text string) *BlockBuilder {
	bb.block.Messages = append(bb.block.Messages, domain.Message{Text: text})
	return bb
}

// Row adds a keyboard row to the last message.
func (bb *BlockBuilder) Row(buttons ...domain.Button) *BlockBuilder {
	last := len(bb.block.Messages) - 1
	if last < 0 {
		bb.errs = append(bb.errs, fmt.Errorf("block %q: Row called before Say", bb.block.ID))
		return bb
	}
	bb.block.Messages[last].Buttons = append(bb.block.Messages[last].Buttons, buttons)
	return bb
}

// Build returns the underlying domain.ScriptBlock.
func (bb *BlockBuilder) Build() domain.ScriptBlock {
	return bb.block
}

// Callback creates a button that sends data back to the bot.
func Callback(text, data string) domain.Button {
	return domain.Button{Text: text, CallbackData: data}
}

// Link creates a button that opens a URL.
func Link(text, url string) domain.Button {
	return domain.Button{Text: text, URL: url}
}
