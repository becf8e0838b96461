package ports

// IDGenerator supplies opaque, document-unique tokens.
// Implementations must be safe for concurrent use.
type IDGenerator interface {
	NewID() string
}

// IDFunc adapts a plain function to IDGenerator.
type IDFunc func() string

// NewID calls f.
func (f IDFunc) NewID() string { return f() }
