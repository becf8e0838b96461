package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Stdin is the path that selects standard input instead of a file.
const Stdin = "-"

// Source implements ports.ScriptSource by reading a script document from disk.
type Source struct {
	Path string

	// Stdin is read when Path is "-". Defaults to os.Stdin.
	Stdin io.Reader
}

// NewSource creates a Source for the given path.
func NewSource(path string) *Source {
	return &Source{Path: path}
}

// ReadScript returns the raw bytes of the script document.
func (s *Source) ReadScript(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Path == "" {
		return nil, fmt.Errorf("script path cannot be empty")
	}

	if s.Path == Stdin {
		in := s.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read script from stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file %s: %w", s.Path, err)
	}
	return data, nil
}
