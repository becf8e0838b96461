package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Status prints one-line coloured status messages. Colours are dropped when the
// writer is not a terminal.
type Status struct {
	out *termenv.Output
}

// NewStatus creates a Status writing to w.
func NewStatus(w io.Writer) *Status {
	return &Status{out: termenv.NewOutput(w)}
}

// Success reports a completed step.
func (s *Status) Success(format string, args ...any) {
	s.line("✔", "#22c55e", format, args...)
}

// Warn reports a non-fatal finding.
func (s *Status) Warn(format string, args ...any) {
	s.line("!", "#f59e0b", format, args...)
}

// Error reports a failure.
func (s *Status) Error(format string, args ...any) {
	s.line("✘", "#ef4444", format, args...)
}

func (s *Status) line(icon, color, format string, args ...any) {
	prefix := s.out.String(icon).Foreground(s.out.Color(color)).Bold()
	fmt.Fprintf(s.out, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}
