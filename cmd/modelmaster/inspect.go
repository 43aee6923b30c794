package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idlab-discover/modelmaster-cli/internal/tabular"
	"github.com/idlab-discover/modelmaster-cli/internal/ui"
	"github.com/idlab-discover/modelmaster-cli/internal/upload"
)

var (
	inspectRows     int
	inspectLogLevel string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.csv>",
	Short: "Show the columns and first rows of a CSV dataset",
	Long:  "Parses a CSV dataset the same way the compare command does and prints its columns and first rows. Rows whose cell count differs from the header are flagged.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logLevel("inspect")
		if err != nil {
			return err
		}

		file, err := upload.ReadFile(args[0])
		if err != nil {
			return err
		}
		var gate upload.Gate
		if _, err := gate.Accept(file); err != nil {
			return err
		}

		t := tabular.Parse(string(file.Data))
		n := viper.GetInt("inspect.rows")
		if n < 0 {
			n = 0
		}
		head := t.Rows
		if len(head) > n {
			head = head[:n]
		}

		ui.NewDatasetUI(cmd.OutOrStdout(), level == "quiet").PrintPreview(ui.DatasetPreview{
			FileName:  file.Name,
			Size:      file.Size,
			Headers:   t.Headers,
			Rows:      head,
			TotalRows: len(t.Rows),
			Ragged:    t.Ragged(),
			Columns:   columnInfo(t, 3),
		})
		return nil
	},
}

// columnInfo describes every header of t with up to samples distinct
// non-blank example values. A column is numeric when all its non-blank
// cells parse as numbers.
func columnInfo(t tabular.Table, samples int) []ui.ColumnInfo {
	out := make([]ui.ColumnInfo, len(t.Headers))
	for i, h := range t.Headers {
		info := ui.ColumnInfo{Name: h, Numeric: true}
		seen := map[string]bool{}
		nonBlank := 0
		for _, row := range t.Rows {
			if i >= len(row) || row[i] == "" {
				continue
			}
			nonBlank++
			if _, err := strconv.ParseFloat(row[i], 64); err != nil {
				info.Numeric = false
			}
			if len(info.Samples) < samples && !seen[row[i]] {
				seen[row[i]] = true
				info.Samples = append(info.Samples, row[i])
			}
		}
		if nonBlank == 0 {
			info.Numeric = false
		}
		out[i] = info
	}
	return out
}

func init() {
	inspectCmd.Flags().IntVarP(&inspectRows, "rows", "n", 5, "Number of rows to show")
	inspectCmd.Flags().StringVar(&inspectLogLevel, "log-level", "", "Log level: quiet|standard|debug")

	viper.BindPFlag("inspect.rows", inspectCmd.Flags().Lookup("rows"))
	viper.BindPFlag("inspect.log-level", inspectCmd.Flags().Lookup("log-level"))
}
