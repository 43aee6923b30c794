package stub

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/idlab-discover/modelmaster-cli/internal/logging"
	"github.com/idlab-discover/modelmaster-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Stub:", PrefixColor: ui.FgGreen}

// SetLogger sets an optional destination for request logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(reqID string, format string, args ...any) {
	logger.Logf(reqID, format, args...)
}

// requestLogger logs one line per request, keyed by the chi request ID.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logf(middleware.GetReqID(r.Context()), "%s %s -> %d (%s)", r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Millisecond))
	})
}
