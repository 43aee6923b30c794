package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idlab-discover/modelmaster-cli/internal/stub"
	"github.com/idlab-discover/modelmaster-cli/internal/ui"
)

var (
	stubAddr     string
	stubLogLevel string
)

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Serve a local stand-in for the model service",
	Long: "Starts an HTTP server with the model service endpoints (/api/process, /api/predict/input-ranges, " +
		"/api/predict, /api/health). It scores baseline models computed from the uploaded data and " +
		"answers predictions with a COCOMO effort estimate. Intended for development and demos.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logLevel("stub")
		if err != nil {
			return err
		}
		// The stub logs requests at the standard level too.
		if level == "quiet" {
			stub.SetLogger(nil)
		} else {
			stub.SetLogger(cmd.ErrOrStderr())
		}

		addr := viper.GetString("stub.addr")
		if addr == "" {
			addr = stub.DefaultAddr
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if level != "quiet" {
			fmt.Fprintln(cmd.OutOrStdout(), ui.FormatStatus("info", "Serving the stub model service on "+ui.Highlight.Render("http://"+addr)))
			fmt.Fprintln(cmd.OutOrStdout(), ui.Dim.Render("Press Ctrl+C to stop."))
		}
		if err := stub.New().ListenAndServe(ctx, addr); err != nil {
			return fmt.Errorf("stub server: %w", err)
		}
		return nil
	},
}

func init() {
	stubCmd.Flags().StringVar(&stubAddr, "addr", "", "Listen address (default "+stub.DefaultAddr+")")
	stubCmd.Flags().StringVar(&stubLogLevel, "log-level", "", "Log level: quiet|standard|debug")

	viper.BindPFlag("stub.addr", stubCmd.Flags().Lookup("addr"))
	viper.BindPFlag("stub.log-level", stubCmd.Flags().Lookup("log-level"))
}
