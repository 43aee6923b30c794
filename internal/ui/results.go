package ui

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/idlab-discover/modelmaster-cli/internal/ranking"
	"github.com/idlab-discover/modelmaster-cli/internal/results"
)

// TopCount is the size of the top-candidates view.
const TopCount = 3

// barWidth is the cell width of inline bars.
const barWidth = 20

// ResultsReport is everything the compare output needs from a completed run.
type ResultsReport struct {
	FileName          string
	TargetVariable    string
	View              ranking.View
	Rows              []ranking.Ranked // rows of the full table, after filtering
	Filter            string
	ClassDistribution *results.ClassDistribution
}

// ResultsUI renders model comparison results.
type ResultsUI struct {
	writer io.Writer
	quiet  bool
}

// NewResultsUI creates a new UI handler for the compare command.
func NewResultsUI(w io.Writer, quiet bool) *ResultsUI {
	return &ResultsUI{writer: w, quiet: quiet}
}

// PrintEmpty reports a run that produced no candidates.
func (r *ResultsUI) PrintEmpty() {
	if r.quiet {
		return
	}
	fmt.Fprintln(r.writer, Box.Render(Warning.Render("No models were returned")))
}

// PrintReport renders the summary, the best model, the top candidates, the
// full table and, for classification, the class distribution.
func (r *ResultsUI) PrintReport(rep ResultsReport) {
	if r.quiet {
		return
	}
	if rep.View.Best == nil {
		r.PrintEmpty()
		return
	}

	var out strings.Builder

	out.WriteString(FormatStatus("success", Success.Bold(true).Render(SummaryLine(rep.View))))
	out.WriteString("\n")
	if rep.FileName != "" {
		out.WriteString(FormatKeyValue("Dataset", rep.FileName))
		out.WriteString("\n")
	}
	out.WriteString(FormatKeyValue("Target", Highlight.Render(rep.TargetVariable)))
	out.WriteString("  ")
	out.WriteString(FormatKeyValue("Task", rep.View.Task.Title()))
	out.WriteString("\n\n")

	out.WriteString(RenderBest(rep.View))
	out.WriteString("\n\n")

	out.WriteString(SectionHeader.Render(fmt.Sprintf("Top %d", TopCount)))
	out.WriteString("\n")
	out.WriteString(RenderTop(rep.View, TopCount))
	out.WriteString("\n\n")

	out.WriteString(SectionHeader.Render("All Models"))
	out.WriteString(" ")
	out.WriteString(Dim.Render(fmt.Sprintf("sorted by %s %s", rep.View.Metric.Label(), rep.View.Direction.Arrow())))
	if rep.Filter != "" {
		out.WriteString(" " + Dim.Render("where "+rep.Filter))
	}
	out.WriteString("\n")
	if len(rep.Rows) == 0 {
		out.WriteString(Warning.Render("No models match the filter"))
	} else {
		out.WriteString(RenderModelTable(rep.View.Task, rep.View.Metric, rep.Rows))
	}

	if rep.View.Task == results.Classification && rep.ClassDistribution != nil {
		out.WriteString("\n\n")
		out.WriteString(SectionHeader.Render("Class Distribution"))
		out.WriteString("\n")
		out.WriteString(RenderDistribution(rep.ClassDistribution))
	}

	fmt.Fprintln(r.writer, out.String())
}

// SummaryLine is the one-line outcome of the run.
func SummaryLine(v ranking.View) string {
	rs := make([]results.ModelResult, len(v.Sorted))
	for i, r := range v.Sorted {
		rs[i] = r.ModelResult
	}
	return ranking.Summary(rs, v.Task)
}

// RenderBest renders the best-model panel with every metric of the task.
func RenderBest(v ranking.View) string {
	if v.Best == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(BestMarker.Render("★ Best Model"))
	sb.WriteString("\n")
	sb.WriteString(Highlight.Render(v.Best.Name()))
	for _, m := range v.Task.Metrics() {
		sb.WriteString("\n")
		value := results.FormatMetric(v.Best, m)
		if m == results.Accuracy {
			if a, ok := v.Best.Metric(m); ok {
				value = RenderBar(results.Percent(a), barWidth) + " " + value
			}
		}
		sb.WriteString(FormatKeyValue(m.Label(), value))
		sb.WriteString(" " + Muted.Render(m.Description()))
	}
	return SuccessBox.Render(sb.String())
}

// RenderTop renders the first n entries of the view as a numbered list.
func RenderTop(v ranking.View, n int) string {
	var sb strings.Builder
	for i, r := range v.Top(n) {
		if i > 0 {
			sb.WriteString("\n")
		}
		marker := "  "
		if r.IsBest {
			marker = BestMarker.Render("★ ")
		}
		sb.WriteString(fmt.Sprintf("%s%s %s %s",
			marker,
			Dim.Render(fmt.Sprintf("%d.", i+1)),
			Bold.Render(r.Name()),
			Dim.Render(v.Metric.Label()+" "+results.FormatMetric(r, v.Metric))))
	}
	return sb.String()
}

// RenderModelTable renders rows as a table with one column per task metric.
// The sort column is highlighted and the best candidate carries a star.
func RenderModelTable(task results.TaskType, sortBy results.Metric, rows []ranking.Ranked) string {
	return renderModelTable(task, sortBy, rows, 1)
}

func renderModelTable(task results.TaskType, sortBy results.Metric, rows []ranking.Ranked, first int) string {
	metrics := task.Metrics()
	headers := []string{"#", "Model"}
	for _, m := range metrics {
		label := m.Label()
		if m == sortBy {
			label += " •"
		}
		headers = append(headers, label)
	}

	body := make([][]string, len(rows))
	for i, r := range rows {
		name := r.Name()
		if r.IsBest {
			name = "★ " + name
		}
		row := []string{fmt.Sprintf("%d", first+i), name}
		for _, m := range metrics {
			cell := results.FormatMetric(r, m)
			if m == results.Accuracy {
				if a, ok := r.Metric(m); ok {
					cell = RenderBar(results.Percent(a), barWidth/2) + " " + cell
				}
			}
			row = append(row, cell)
		}
		body[i] = row
	}

	sortCol := -1
	for i, m := range metrics {
		if m == sortBy {
			sortCol = i + 2
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Headers(headers...).
		Rows(body...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return s.Foreground(ColorPrimary).Bold(true)
			case row >= 0 && row < len(rows) && rows[row].IsBest:
				return s.Foreground(ColorWarning)
			case col == sortCol:
				return s.Foreground(ColorSecondary)
			}
			return s
		})
	return t.Render()
}

// RenderDistribution renders label, count, percentage and a bar per class.
func RenderDistribution(d *results.ClassDistribution) string {
	shares := d.Shares()
	if len(shares) == 0 {
		return Dim.Render("No class distribution available")
	}
	body := make([][]string, len(shares))
	for i, s := range shares {
		body[i] = []string{
			s.Label,
			fmt.Sprintf("%d", s.Count),
			results.FormatPercent(s.Percent),
			RenderBar(s.Percent, barWidth),
		}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Headers("Class", "Count", "Percentage", "Distribution").
		Rows(body...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Foreground(ColorPrimary).Bold(true)
			}
			return s
		})
	return t.Render() + "\n" + Dim.Render(fmt.Sprintf("%d samples", d.Total()))
}

// RenderBar renders percent as a bar of width cells. Values outside [0, 100]
// are clamped.
func RenderBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(results.BarWidth(percent) / 100 * float64(width))
	return BarFilled.Render(strings.Repeat("█", filled)) +
		BarEmpty.Render(strings.Repeat("░", width-filled))
}
