package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idlab-discover/modelmaster-cli/internal/predict"
	"github.com/idlab-discover/modelmaster-cli/internal/ui"
)

var rangesLogLevel string

var rangesCmd = &cobra.Command{
	Use:   "ranges",
	Short: "List the input features of the prediction model",
	Long:  "Fetches the feature columns and their advisory ranges from the model service.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logLevel("ranges")
		if err != nil {
			return err
		}
		wireLoggers(level, cmd.ErrOrStderr())

		schema, err := fetchSchema(commandContext(cmd), "")
		if err != nil {
			return err
		}
		if level == "quiet" {
			return nil
		}

		labels := featureLabels()
		rows := make([][]string, len(schema.Columns))
		for i, c := range schema.Columns {
			r := "-"
			if rng, ok := schema.Range(c); ok {
				r = rng.String()
			}
			rows[i] = []string{c, predict.Label(predict.Schema{}, labels, c), r}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.SectionHeader.Render(fmt.Sprintf("%d input features", len(schema.Columns))))
		fmt.Fprintln(out, ui.RenderGrid([]string{"Column", "Feature", "Range"}, rows, nil))
		fmt.Fprintln(out, ui.Dim.Render("Ranges are advisory; use --enforce-ranges with predict to reject values outside them."))
		return nil
	},
}

// fetchSchema loads the feature schema, bounded by service.timeout.
func fetchSchema(ctx context.Context, runID string) (*predict.Schema, error) {
	ctx, cancel := context.WithTimeout(ctx, serviceTimeout())
	defer cancel()

	return newClient(runID).InputRanges(ctx)
}

func init() {
	rangesCmd.Flags().StringVar(&rangesLogLevel, "log-level", "", "Log level: quiet|standard|debug")
	viper.BindPFlag("ranges.log-level", rangesCmd.Flags().Lookup("log-level"))
}
