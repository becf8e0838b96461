package ports

import "context"

// ScriptSource yields a raw script document.
// The compiler front-end parses whatever format the source returns (JSON or YAML).
type ScriptSource interface {
	ReadScript(ctx context.Context) ([]byte, error)
}
