package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idlab-discover/modelmaster-cli/internal/apperr"
	"github.com/idlab-discover/modelmaster-cli/internal/filter"
	"github.com/idlab-discover/modelmaster-cli/internal/orchestrator"
	"github.com/idlab-discover/modelmaster-cli/internal/ranking"
	"github.com/idlab-discover/modelmaster-cli/internal/report"
	"github.com/idlab-discover/modelmaster-cli/internal/results"
	"github.com/idlab-discover/modelmaster-cli/internal/tabular"
	"github.com/idlab-discover/modelmaster-cli/internal/ui"
	"github.com/idlab-discover/modelmaster-cli/internal/upload"
)

var (
	compareTarget      string
	compareTask        string
	compareSortBy      string
	compareOrder       string
	compareTop         int
	compareWhere       string
	compareOutput      string
	compareFormat      string
	compareInteractive bool
	compareBrowse      bool
	compareLogLevel    string
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <file.csv>",
	Short: "Train candidate models on a CSV dataset and rank them",
	Long:  "Uploads a CSV dataset to the model service, which trains every candidate model for the target column. The results are ranked by R² (regression) or accuracy (classification).",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompare,
}

// compareSettings are the resolved flag and config values of one run.
type compareSettings struct {
	target      string
	task        results.TaskType
	sortBy      results.Metric
	order       results.Direction
	top         int
	filter      *filter.Filter
	output      string
	format      report.Format
	interactive bool
	browse      bool
}

func loadCompareSettings() (compareSettings, error) {
	var s compareSettings
	var err error

	s.interactive = viper.GetBool("compare.interactive")
	s.browse = viper.GetBool("compare.browse")
	s.target = viper.GetString("compare.target")

	taskName := strings.TrimSpace(viper.GetString("compare.task"))
	if taskName == "" {
		taskName = results.Regression.String()
	}
	if s.task, err = results.ParseTaskType(taskName); err != nil {
		return s, apperr.User(err.Error())
	}

	if m := strings.TrimSpace(viper.GetString("compare.sort-by")); m != "" {
		if s.sortBy, err = results.ParseMetric(m); err != nil {
			return s, apperr.User(err.Error())
		}
	}

	order := strings.TrimSpace(viper.GetString("compare.order"))
	if order == "" {
		order = results.Descending.String()
	}
	if s.order, err = results.ParseDirection(order); err != nil {
		return s, apperr.User(err.Error())
	}

	s.top = viper.GetInt("compare.top")
	if s.top < 0 {
		return s, apperr.Userf("invalid --top %d (must be 0 or greater)", s.top)
	}

	if s.filter, err = filter.Compile(viper.GetString("compare.where")); err != nil {
		return s, apperr.User(err.Error())
	}

	s.output = viper.GetString("compare.output")
	if s.format, err = report.ParseFormat(viper.GetString("compare.format")); err != nil {
		return s, apperr.User(err.Error())
	}
	if s.output != "" {
		if _, err := report.Resolve(s.output, s.format); err != nil {
			return s, apperr.User(err.Error())
		}
	}
	return s, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	level, err := logLevel("compare")
	if err != nil {
		return err
	}
	quiet := level == "quiet"
	wireLoggers(level, cmd.ErrOrStderr())

	settings, err := loadCompareSettings()
	if err != nil {
		return err
	}

	file, err := upload.ReadFile(args[0])
	if err != nil {
		return err
	}

	var progress *runProgress
	if !quiet {
		progress = newRunProgress(cmd.OutOrStdout())
	}
	defer progress.stop()

	runner := orchestrator.NewRunner(newClient(""), orchestrator.Options{
		Timeout:  serviceTimeout(),
		OnChange: progress.onChange(),
	})
	if _, err := runner.SelectFile(file); err != nil {
		return err
	}

	if settings.interactive {
		if err := promptCompare(file, &settings); err != nil {
			return err
		}
	}

	state, err := runner.Submit(commandContext(cmd), settings.target, settings.task)
	if err != nil {
		return err
	}
	complete, err := resolveRun(state)
	if err != nil {
		return err
	}

	if len(complete.Results) == 0 {
		progress.skipRanking("nothing to rank")
		progress.stop()
		ui.NewResultsUI(cmd.OutOrStdout(), quiet).PrintEmpty()
		return nil
	}

	var view ranking.View
	var rows []ranking.Ranked
	err = progress.ranking(func() (string, error) {
		var err error
		if view, err = ranking.Rank(complete.Results, complete.Task, settings.sortBy, settings.order); err != nil {
			return "", apperr.User(err.Error())
		}
		if rows, err = settings.filter.Apply(view.Sorted); err != nil {
			return "", err
		}
		if settings.top > 0 && len(rows) > settings.top {
			rows = rows[:settings.top]
		}
		return fmt.Sprintf("by %s %s", view.Metric.Label(), view.Direction.Arrow()), nil
	})
	progress.stop()
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout())
	}

	ui.NewResultsUI(cmd.OutOrStdout(), quiet).PrintReport(ui.ResultsReport{
		FileName:          file.Name,
		TargetVariable:    complete.TargetVariable,
		View:              view,
		Rows:              rows,
		Filter:            settings.filter.String(),
		ClassDistribution: complete.ClassDistribution,
	})

	if settings.output != "" {
		doc := report.Build(report.Meta{
			RunID:          complete.RunID,
			Dataset:        file.Name,
			TargetVariable: complete.TargetVariable,
			Filter:         settings.filter.String(),
		}, view, rows, complete.ClassDistribution)
		if err := report.Write(doc, settings.output, settings.format); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), ui.FormatStatus("success", "Report written to "+ui.Highlight.Render(settings.output)))
		}
	}

	if settings.browse {
		return ui.RunBrowser(view, complete.TargetVariable, complete.ClassDistribution)
	}
	return nil
}

// resolveRun turns a final runner state into the completed run or an error.
func resolveRun(s orchestrator.State) (orchestrator.Complete, error) {
	switch st := s.(type) {
	case orchestrator.Complete:
		return st, nil
	case orchestrator.Failed:
		if st.Err != nil && st.Err.Error() == st.Message {
			return orchestrator.Complete{}, st.Err
		}
		return orchestrator.Complete{}, errors.New(st.Message)
	}
	return orchestrator.Complete{}, fmt.Errorf("run ended in unexpected phase %s", s.Phase())
}

// promptCompare asks for the task type and the target column.
func promptCompare(file upload.RawFile, s *compareSettings) error {
	task, err := ui.RunSelect(
		"Model type",
		"Regression predicts a number; classification predicts a category.",
		[]ui.SelectOption{
			{Label: results.Regression.Title(), Value: results.Regression.String()},
			{Label: results.Classification.Title(), Value: results.Classification.String()},
		},
		s.task.String(),
	)
	if err != nil {
		return err
	}
	if s.task, err = results.ParseTaskType(task); err != nil {
		return err
	}

	if strings.TrimSpace(s.target) != "" {
		return nil
	}
	target, err := ui.RunColumnSelector(ui.ColumnSelectorConfig{
		FileName: file.Name,
		Columns:  columnInfo(tabular.Parse(string(file.Data)), 3),
	})
	if err != nil {
		return err
	}
	s.target = target
	return nil
}

func init() {
	compareCmd.Flags().StringVarP(&compareTarget, "target", "t", "", "Target variable (column to predict)")
	compareCmd.Flags().StringVar(&compareTask, "task", "", "Model type: regression|classification (default regression)")
	compareCmd.Flags().StringVar(&compareSortBy, "sort-by", "", "Sort metric: r2|rmse|mae|mse|accuracy (default: task metric)")
	compareCmd.Flags().StringVar(&compareOrder, "order", "", "Sort order: asc|desc (default desc)")
	compareCmd.Flags().IntVar(&compareTop, "top", 0, "Show at most N models in the full table (0 = all)")
	compareCmd.Flags().StringVar(&compareWhere, "where", "", "CEL filter over results, e.g. 'r2 > 0.5 && name != \"Linear Regression\"'")
	compareCmd.Flags().StringVarP(&compareOutput, "output", "o", "", "Export the ranked results to this file")
	compareCmd.Flags().StringVarP(&compareFormat, "format", "f", "", "Report format: auto|json|yaml|xlsx|cyclonedx")
	compareCmd.Flags().BoolVarP(&compareInteractive, "interactive", "i", false, "Pick the task type and target column interactively")
	compareCmd.Flags().BoolVar(&compareBrowse, "browse", false, "Open the interactive results browser after the run")
	compareCmd.Flags().StringVar(&compareLogLevel, "log-level", "", "Log level: quiet|standard|debug")

	// Bind all flags to viper for config file support
	viper.BindPFlag("compare.target", compareCmd.Flags().Lookup("target"))
	viper.BindPFlag("compare.task", compareCmd.Flags().Lookup("task"))
	viper.BindPFlag("compare.sort-by", compareCmd.Flags().Lookup("sort-by"))
	viper.BindPFlag("compare.order", compareCmd.Flags().Lookup("order"))
	viper.BindPFlag("compare.top", compareCmd.Flags().Lookup("top"))
	viper.BindPFlag("compare.where", compareCmd.Flags().Lookup("where"))
	viper.BindPFlag("compare.output", compareCmd.Flags().Lookup("output"))
	viper.BindPFlag("compare.format", compareCmd.Flags().Lookup("format"))
	viper.BindPFlag("compare.interactive", compareCmd.Flags().Lookup("interactive"))
	viper.BindPFlag("compare.browse", compareCmd.Flags().Lookup("browse"))
	viper.BindPFlag("compare.log-level", compareCmd.Flags().Lookup("log-level"))
}
