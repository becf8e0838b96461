package compiler

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// UUIDGenerator issues random version 4 UUIDs (122 bits of crypto/rand entropy).
// It is the production identifier source and is safe for concurrent use.
type UUIDGenerator struct{}

// NewID returns a fresh UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator issues predictable ids ("<prefix>1", "<prefix>2", ...).
// Compiling the same script with a fresh sequence always yields the same document.
type SequenceGenerator struct {
	prefix string
	next   atomic.Uint64
}

// NewSequence creates a SequenceGenerator. An empty prefix defaults to "node-".
func NewSequence(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "node-"
	}
	return &SequenceGenerator{prefix: prefix}
}

// NewID returns the next id in the sequence.
func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s%d", g.prefix, g.next.Add(1))
}
