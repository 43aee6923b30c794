package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idlab-discover/modelmaster-cli/internal/apperr"
	"github.com/idlab-discover/modelmaster-cli/internal/predict"
	"github.com/idlab-discover/modelmaster-cli/internal/report"
	"github.com/idlab-discover/modelmaster-cli/internal/tabular"
	"github.com/idlab-discover/modelmaster-cli/internal/ui"
	"github.com/idlab-discover/modelmaster-cli/internal/upload"
)

var (
	predictSet           []string
	predictBatch         string
	predictConcurrency   int
	predictEnforceRanges bool
	predictOutput        string
	predictFormat        string
	predictLogLevel      string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Estimate project effort with the prediction model",
	Long: "Fetches the input features from the model service, collects a value for each one " +
		"(from --set flags, a batch CSV, or an interactive form), validates them and submits them for a prediction.",
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func runPredict(cmd *cobra.Command, args []string) error {
	level, err := logLevel("predict")
	if err != nil {
		return err
	}
	quiet := level == "quiet"
	wireLoggers(level, cmd.ErrOrStderr())

	sets := viper.GetStringSlice("predict.set")
	batch := viper.GetString("predict.batch")
	if batch != "" && len(sets) > 0 {
		return apperr.User("--batch cannot be used with --set")
	}
	output := viper.GetString("predict.output")
	format, err := report.ParseFormat(viper.GetString("predict.format"))
	if err != nil {
		return apperr.User(err.Error())
	}
	if output != "" && batch == "" {
		return apperr.User("--output is only available with --batch")
	}

	runID := uuid.NewString()
	opts := predict.Options{EnforceRanges: viper.GetBool("predict.enforce-ranges")}

	schema, err := fetchSchema(commandContext(cmd), runID)
	if err != nil {
		return err
	}

	if batch != "" {
		return runBatch(cmd, runID, *schema, batch, opts, output, format, quiet)
	}

	var raw map[string]string
	if len(sets) > 0 {
		if raw, err = parseSetFlags(*schema, sets); err != nil {
			return err
		}
	} else {
		if raw, err = promptInputs(*schema, opts); err != nil {
			return err
		}
	}

	form := predict.NewForm(*schema, opts)
	for col, v := range raw {
		form.Set(col, v)
	}
	record, err := form.Submit()
	if err != nil {
		printFieldErrors(cmd, *schema, form.Errors())
		return apperr.Titled("Invalid inputs", "Please correct the highlighted fields.")
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), serviceTimeout())
	defer cancel()

	var spinner *ui.Spinner
	if !quiet {
		spinner = ui.StartSpinner(cmd.ErrOrStderr(), "Making prediction...")
	}
	value, err := newClient(runID).Predict(ctx, record)
	if err != nil {
		spinner.Stop(false, remoteDetail(err))
		return err
	}
	spinner.Stop(true, "Prediction complete")

	if !quiet {
		var b strings.Builder
		b.WriteString(ui.FormatKeyValue("Prediction", ui.Highlight.Render(fmt.Sprintf("%.2f", value))))
		b.WriteString("\n")
		b.WriteString(ui.FormatKeyValue("Estimated effort", fmt.Sprintf("%.2f days", predict.EffortDays(value))))
		fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessBox.Render(b.String()))
	}
	return nil
}

// parseSetFlags turns col=value pairs into raw form values. Unknown columns
// are rejected; missing ones are left for validation to report.
func parseSetFlags(s predict.Schema, sets []string) (map[string]string, error) {
	known := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		known[c] = true
	}
	raw := make(map[string]string, len(sets))
	for _, kv := range sets {
		col, val, ok := strings.Cut(kv, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, apperr.Userf("invalid --set %q (expected column=value)", kv)
		}
		if !known[col] {
			return nil, apperr.Userf("unknown input column %q (expected one of %s)", col, strings.Join(s.Columns, ", "))
		}
		raw[col] = val
	}
	return raw, nil
}

// promptInputs shows one input per schema column, in schema order.
func promptInputs(s predict.Schema, opts predict.Options) (map[string]string, error) {
	labels := featureLabels()
	fields := make([]ui.FormField, len(s.Columns))
	for i, col := range s.Columns {
		desc := ""
		if r, ok := s.Range(col); ok {
			desc = fmt.Sprintf("Typical range %s", r)
		}
		fields[i] = ui.FormField{
			Key:         col,
			Title:       predict.Label(s, labels, col),
			Description: desc,
			Placeholder: col,
			Validate: func(v string) string {
				return predict.CheckField(s, col, v, opts)
			},
		}
	}
	return ui.RunInputForm("Effort estimation", "Enter a value for every project attribute.", fields)
}

func printFieldErrors(cmd *cobra.Command, s predict.Schema, errs predict.FieldErrors) {
	labels := featureLabels()
	w := cmd.ErrOrStderr()
	for _, col := range s.Columns {
		if msg, ok := errs[col]; ok {
			fmt.Fprintf(w, "%s %s %s\n", ui.GetCrossMark(), predict.Label(s, labels, col), ui.Error.Render("→ "+msg))
		}
	}
}

func runBatch(cmd *cobra.Command, runID string, s predict.Schema, path string, opts predict.Options, output string, format report.Format, quiet bool) error {
	file, err := upload.ReadFile(path)
	if err != nil {
		return err
	}
	var gate upload.Gate
	if _, err := gate.Accept(file); err != nil {
		return err
	}
	t := tabular.Parse(string(file.Data))
	if missing := missingColumns(s, t); len(missing) > 0 {
		return apperr.Titled("Missing columns", "The batch file has no column for: "+strings.Join(missing, ", "))
	}

	var spinner *ui.Spinner
	if !quiet {
		spinner = ui.StartSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Predicting %d row(s)...", len(t.Rows)))
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), serviceTimeout())
	defer cancel()

	rs, err := predict.Batch(ctx, newClient(runID), s, t.Records(), predict.BatchOptions{
		Concurrency: viper.GetInt("predict.concurrency"),
		Validation:  opts,
		RunID:       runID,
	})
	failed := predict.Failed(rs)
	spinner.Stop(err == nil && failed == 0, fmt.Sprintf("%d of %d row(s) predicted", len(rs)-failed, len(rs)))
	if err != nil {
		return err
	}

	if !quiet {
		rows := make([][]string, len(rs))
		flagged := map[int]bool{}
		for i, r := range rs {
			if r.OK() {
				rows[i] = []string{fmt.Sprintf("%d", r.Row), fmt.Sprintf("%.2f", r.Prediction), fmt.Sprintf("%.2f", r.Days), ""}
				continue
			}
			flagged[i] = true
			rows[i] = []string{fmt.Sprintf("%d", r.Row), "-", "-", rowError(r.Err)}
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderGrid([]string{"Row", "Prediction", "Effort (days)", "Error"}, rows, flagged))
	}

	if output != "" {
		if err := report.WritePredictions(report.BuildPredictions(runID, s, rs), output, format); err != nil {
			return fmt.Errorf("write predictions: %w", err)
		}
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), ui.FormatStatus("success", "Predictions written to "+ui.Highlight.Render(output)))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d row(s) failed", failed, len(rs))
	}
	return nil
}

// missingColumns lists schema columns absent from the batch header.
func missingColumns(s predict.Schema, t tabular.Table) []string {
	var missing []string
	for _, c := range s.Columns {
		if t.Column(c) < 0 {
			missing = append(missing, c)
		}
	}
	return missing
}

// rowError renders a row failure; field errors list the failing columns.
func rowError(err error) string {
	var fe predict.FieldErrors
	if errors.As(err, &fe) {
		cols := make([]string, 0, len(fe))
		for c, msg := range fe {
			cols = append(cols, c+": "+msg)
		}
		sort.Strings(cols)
		return strings.Join(cols, "; ")
	}
	return remoteDetail(err)
}

func init() {
	predictCmd.Flags().StringArrayVar(&predictSet, "set", nil, "Input value as column=value (repeatable)")
	predictCmd.Flags().StringVar(&predictBatch, "batch", "", "CSV file with one row of inputs per prediction")
	predictCmd.Flags().IntVar(&predictConcurrency, "concurrency", predict.DefaultConcurrency, "Concurrent prediction requests in batch mode")
	predictCmd.Flags().BoolVar(&predictEnforceRanges, "enforce-ranges", false, "Reject values outside the advisory ranges")
	predictCmd.Flags().StringVarP(&predictOutput, "output", "o", "", "Export batch predictions to this file")
	predictCmd.Flags().StringVarP(&predictFormat, "format", "f", "", "Export format: auto|json|yaml|xlsx")
	predictCmd.Flags().StringVar(&predictLogLevel, "log-level", "", "Log level: quiet|standard|debug")

	viper.BindPFlag("predict.set", predictCmd.Flags().Lookup("set"))
	viper.BindPFlag("predict.batch", predictCmd.Flags().Lookup("batch"))
	viper.BindPFlag("predict.concurrency", predictCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("predict.enforce-ranges", predictCmd.Flags().Lookup("enforce-ranges"))
	viper.BindPFlag("predict.output", predictCmd.Flags().Lookup("output"))
	viper.BindPFlag("predict.format", predictCmd.Flags().Lookup("format"))
	viper.BindPFlag("predict.log-level", predictCmd.Flags().Lookup("log-level"))
}
