package service

import (
	"io"

	"github.com/idlab-discover/modelmaster-cli/internal/logging"
	"github.com/idlab-discover/modelmaster-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Service:", PrefixColor: ui.FgMagenta}

// SetLogger sets an optional destination for request logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(runID string, format string, args ...any) {
	logger.Logf(runID, format, args...)
}
