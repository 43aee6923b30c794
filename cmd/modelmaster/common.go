package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idlab-discover/modelmaster-cli/internal/apperr"
	"github.com/idlab-discover/modelmaster-cli/internal/orchestrator"
	"github.com/idlab-discover/modelmaster-cli/internal/predict"
	"github.com/idlab-discover/modelmaster-cli/internal/service"
	"github.com/idlab-discover/modelmaster-cli/internal/stub"
)

const (
	defaultServiceURL = service.DefaultBaseURL
	defaultTimeoutSec = 120
)

// logLevel resolves <command>.log-level from config, env, or flag.
func logLevel(command string) (string, error) {
	level := strings.ToLower(strings.TrimSpace(viper.GetString(command + ".log-level")))
	if level == "" {
		level = "standard"
	}
	switch level {
	case "quiet", "standard", "debug":
		return level, nil
	}
	return "", apperr.Userf("invalid --log-level %q (expected quiet|standard|debug)", level)
}

// wireLoggers points every package logger at w in debug mode and silences
// them otherwise.
func wireLoggers(level string, w io.Writer) {
	var out io.Writer
	if level == "debug" {
		out = w
	}
	orchestrator.SetLogger(out)
	service.SetLogger(out)
	predict.SetLogger(out)
	stub.SetLogger(out)
}

// serviceTimeout returns service.timeout as a duration.
func serviceTimeout() time.Duration {
	sec := viper.GetInt("service.timeout")
	if sec <= 0 {
		sec = defaultTimeoutSec
	}
	return time.Duration(sec) * time.Second
}

// newClient builds the service client from config. The HTTP client carries
// no timeout of its own; callers bound requests through their context.
func newClient(runID string) *service.Client {
	return &service.Client{
		HTTP:    service.NewHTTPClient(0),
		BaseURL: viper.GetString("service.url"),
		RunID:   runID,
	}
}

// featureLabels returns predict.labels from config. Columns without a
// configured label fall back to predict.DefaultLabels.
func featureLabels() map[string]string {
	return viper.GetStringMapString("predict.labels")
}

// remoteDetail renders a service failure with its HTTP status.
func remoteDetail(err error) string {
	var remote *service.RemoteError
	if errors.As(err, &remote) && remote.StatusCode > 0 {
		return fmt.Sprintf("%s (HTTP %d)", remote.Message, remote.StatusCode)
	}
	return err.Error()
}

// commandContext returns the command's context, or Background when the
// command runs outside ExecuteContext.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
