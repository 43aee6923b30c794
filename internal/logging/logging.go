package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/idlab-discover/modelmaster-cli/internal/ui"
)

// Logger is a tiny opt-in logger used across internal packages.
// When Writer is nil, logging is disabled.
//
// The output format is:
//
//	<ColoredPrefix> run=<runID> <formattedMessage>\n
//
// where <runID> is trimmed and defaults to "-".
type Logger struct {
	Writer io.Writer

	PrefixText  string
	PrefixColor string

	// OmitRun controls whether the run ID field is written.
	OmitRun bool
}

func (l *Logger) SetWriter(w io.Writer) { l.Writer = w }

func (l *Logger) Enabled() bool { return l != nil && l.Writer != nil }

func (l *Logger) Logf(runID string, format string, args ...any) {
	if l == nil || l.Writer == nil {
		return
	}
	prefix := l.PrefixText
	if prefix == "" {
		prefix = "Log:"
	}
	if l.PrefixColor != "" {
		prefix = ui.Color(prefix, l.PrefixColor)
	}
	msg := fmt.Sprintf(format, args...)
	if l.OmitRun {
		fmt.Fprintf(l.Writer, "%s %s\n", prefix, msg)
		return
	}

	r := strings.TrimSpace(runID)
	if r == "" {
		r = "-"
	}
	fmt.Fprintf(l.Writer, "%s run=%s %s\n", prefix, r, msg)
}
