package predict

import (
	"io"

	"github.com/idlab-discover/modelmaster-cli/internal/logging"
	"github.com/idlab-discover/modelmaster-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Predict:", PrefixColor: ui.FgYellow}

// SetLogger enables package logging to w; nil disables it.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(runID, format string, args ...any) { logger.Logf(runID, format, args...) }
