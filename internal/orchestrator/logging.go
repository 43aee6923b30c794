package orchestrator

import (
	"io"

	"github.com/idlab-discover/modelmaster-cli/internal/logging"
	"github.com/idlab-discover/modelmaster-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Run:", PrefixColor: ui.FgCyan}

// SetLogger sets an optional destination for run lifecycle logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(runID string, format string, args ...any) {
	logger.Logf(runID, format, args...)
}
