package dsl

import (
	"errors"
	"fmt"

	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/domain"
)

// Builder collects blocks in declaration order.
type Builder struct {
	blocks []*BlockBuilder
	index  map[string]*BlockBuilder
}

// New creates an empty script builder.
func New() *Builder {
	return &Builder{
		index: make(map[string]*BlockBuilder),
	}
}

// Block starts a block with the given id and trigger.
// If the block already exists, it returns the existing builder and keeps its trigger.
func (b *Builder) Block(id, trigger string) *BlockBuilder {
	if bb, ok := b.index[id]; ok {
		return bb
	}
	bb := &BlockBuilder{
		block: domain.ScriptBlock{ID: id, Trigger: trigger},
	}
	b.blocks = append(b.blocks, bb)
	b.index[id] = bb
	return bb
}

// Build returns the script, validated.
func (b *Builder) Build() ([]domain.ScriptBlock, error) {
	var errs []error
	blocks := make([]domain.ScriptBlock, 0, len(b.blocks))
	for _, bb := range b.blocks {
		errs = append(errs, bb.errs...)
		blocks = append(blocks, bb.Build())
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := domain.ValidateScript(blocks); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	return blocks, nil
}
