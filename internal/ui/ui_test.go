package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/idlab-discover/modelmaster-cli/internal/ranking"
	"github.com/idlab-discover/modelmaster-cli/internal/results"
)

func TestColorAppliesANSICodes(t *testing.T) {
	got := Color("hello", FgGreen)
	want := FgGreen + "hello" + Reset
	if got != want {
		t.Fatalf("Color() = %q, want %q", got, want)
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		percent float64
		filled  int
	}{
		{0, 0},
		{50, 5},
		{100, 10},
		{150, 10},
		{-20, 0},
		{87.5, 8},
	}
	for _, tt := range tests {
		bar := RenderBar(tt.percent, 10)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("RenderBar(%v) filled = %d, want %d", tt.percent, got, tt.filled)
		}
		if got := strings.Count(bar, "░"); got != 10-tt.filled {
			t.Errorf("RenderBar(%v) empty = %d, want %d", tt.percent, got, 10-tt.filled)
		}
	}
	if RenderBar(50, 0) != "" {
		t.Fatalf("zero width must render nothing")
	}
}

func classificationView(t *testing.T) ranking.View {
	t.Helper()
	rs := []results.ModelResult{
		results.ClassificationResult{Model: "Logistic Regression", Accuracy: results.Float(0.82)},
		results.ClassificationResult{Model: "Random Forest", Accuracy: results.Float(0.91)},
		results.ClassificationResult{Model: "Naive Bayes", Accuracy: results.Float(0.64)},
		results.ClassificationResult{Model: "KNN", Accuracy: results.Float(0.7)},
	}
	v, err := ranking.Rank(rs, results.Classification, "", results.Descending)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	return v
}

func TestResultsUI_PrintReport(t *testing.T) {
	v := classificationView(t)
	dist := results.NewClassDistribution([]string{"yes", "no"}, map[string]int{"yes": 3, "no": 1})

	var buf bytes.Buffer
	NewResultsUI(&buf, false).PrintReport(ResultsReport{
		FileName:          "churn.csv",
		TargetVariable:    "churned",
		View:              v,
		Rows:              v.Sorted,
		ClassDistribution: dist,
	})

	out := buf.String()
	for _, want := range []string{
		"Found 4 models with best accuracy of 91.00%",
		"churn.csv",
		"churned",
		"Best Model",
		"Random Forest",
		"Top 3",
		"All Models",
		"Class Distribution",
		"75.00%",
		"25.00%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	top := RenderTop(v, TopCount)
	if strings.Contains(top, "Naive Bayes") {
		t.Errorf("top 3 must not include the weakest model:\n%s", top)
	}
	if strings.Index(top, "Random Forest") > strings.Index(top, "Logistic Regression") {
		t.Errorf("top 3 out of order:\n%s", top)
	}
}

func TestResultsUI_RegressionHasNoDistribution(t *testing.T) {
	rs := []results.ModelResult{
		results.RegressionResult{Model: "Linear", R2: results.Float(0.5), RMSE: results.Float(2)},
	}
	v, err := ranking.Rank(rs, results.Regression, "", results.Descending)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	var buf bytes.Buffer
	NewResultsUI(&buf, false).PrintReport(ResultsReport{
		TargetVariable:    "price",
		View:              v,
		Rows:              v.Sorted,
		ClassDistribution: results.NewClassDistribution([]string{"a"}, map[string]int{"a": 1}),
	})
	out := buf.String()
	if strings.Contains(out, "Class Distribution") {
		t.Fatalf("regression output must not show a class distribution")
	}
	if !strings.Contains(out, "0.5000") || !strings.Contains(out, "N/A") {
		t.Fatalf("expected formatted r2 and N/A for missing metrics:\n%s", out)
	}
}

func TestResultsUI_EmptyAndQuiet(t *testing.T) {
	var buf bytes.Buffer
	NewResultsUI(&buf, false).PrintReport(ResultsReport{})
	if !strings.Contains(buf.String(), "No models were returned") {
		t.Fatalf("empty report = %q", buf.String())
	}

	buf.Reset()
	NewResultsUI(&buf, true).PrintReport(ResultsReport{View: classificationView(t)})
	if buf.Len() != 0 {
		t.Fatalf("quiet mode wrote %q", buf.String())
	}
}

func TestResultsUI_FilterMatchesNothing(t *testing.T) {
	v := classificationView(t)
	var buf bytes.Buffer
	NewResultsUI(&buf, false).PrintReport(ResultsReport{View: v, Filter: "accuracy > 0.99"})
	if !strings.Contains(buf.String(), "No models match the filter") {
		t.Fatalf("expected filter notice:\n%s", buf.String())
	}
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func press(m BrowserModel, keys ...string) BrowserModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(BrowserModel)
	}
	return m
}

func TestBrowser_Tabs(t *testing.T) {
	dist := results.NewClassDistribution([]string{"yes"}, map[string]int{"yes": 1})
	m := NewBrowser(classificationView(t), "churned", dist)
	if m.Tab() != TabSummary {
		t.Fatalf("initial tab = %v", m.Tab())
	}
	m = press(m, "tab")
	if m.Tab() != TabModels {
		t.Fatalf("after tab = %v", m.Tab())
	}
	m = press(m, "tab", "tab")
	if m.Tab() != TabSummary {
		t.Fatalf("tabs must wrap, got %v", m.Tab())
	}
	m = press(m, "3")
	if m.Tab() != TabDistribution {
		t.Fatalf("after 3 = %v", m.Tab())
	}

	reg := NewBrowser(ranking.View{Task: results.Regression}, "y", dist)
	if got := len(reg.tabs); got != 2 {
		t.Fatalf("regression browser has %d tabs, want 2", got)
	}
}

func TestBrowser_SortKeys(t *testing.T) {
	rs := []results.ModelResult{
		results.RegressionResult{Model: "A", R2: results.Float(0.9), RMSE: results.Float(3)},
		results.RegressionResult{Model: "B", R2: results.Float(0.5), RMSE: results.Float(1)},
	}
	v, err := ranking.Rank(rs, results.Regression, "", results.Descending)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	m := NewBrowser(v, "y", nil)

	m = press(m, "m")
	if m.Ranking().Metric == results.R2 {
		t.Fatalf("m must move to the next metric")
	}
	m = press(m, "m", "m", "m")
	if m.Ranking().Metric != results.R2 {
		t.Fatalf("metrics must cycle back to r2, got %s", m.Ranking().Metric)
	}

	m = press(m, "o")
	if m.Ranking().Direction != results.Ascending {
		t.Fatalf("o must toggle the order")
	}
	if m.Ranking().Sorted[0].Name() != "B" {
		t.Fatalf("ascending r2 must start with B, got %s", m.Ranking().Sorted[0].Name())
	}
	if m.Ranking().Best.Name() != "A" {
		t.Fatalf("best must not change when resorting")
	}
}

func TestNextMetric(t *testing.T) {
	if got := nextMetric(results.Classification, results.Accuracy); got != results.Accuracy {
		t.Fatalf("classification has a single metric, got %s", got)
	}
	if got := nextMetric(results.Regression, "bogus"); got != results.R2 {
		t.Fatalf("unknown metric falls back to the default, got %s", got)
	}
}

func TestWorkflowRunTask(t *testing.T) {
	var buf bytes.Buffer
	wf := NewWorkflow(&buf)
	read := wf.AddTask("Read dataset")
	train := wf.AddTask("Train candidates")
	rank := wf.AddTask("Rank results")

	if err := wf.RunTask(read, "reading", func() (string, error) { return "12 rows", nil }); err != nil {
		t.Fatalf("RunTask: %v", err)
	}
	boom := errors.New("boom")
	if err := wf.RunTask(train, "uploading", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("RunTask error = %v", err)
	}
	wf.SkipRemaining("previous step failed")

	if got := wf.tasks[read]; got.Status != TaskDone || got.Note != "12 rows" {
		t.Fatalf("read task = %+v", got)
	}
	if got := wf.tasks[train]; got.Status != TaskFailed || got.Note != "boom" {
		t.Fatalf("train task = %+v", got)
	}
	if got := wf.tasks[rank]; got.Status != TaskSkipped || got.Note != "previous step failed" {
		t.Fatalf("rank task = %+v", got)
	}
	if buf.Len() != 0 {
		t.Fatalf("a workflow that was never started must not draw, got %q", buf.String())
	}
}

func TestWorkflowStartStop(t *testing.T) {
	var buf bytes.Buffer
	wf := NewWorkflow(&buf)
	done := wf.AddTask("Training models")
	running := wf.AddTask("Ranking results")

	wf.Start()
	wf.Start()
	wf.Set(done, TaskDone, "4 model(s)")
	wf.Set(running, TaskRunning, "sorting")
	wf.Set(99, TaskFailed, "ignored")
	wf.Stop()
	wf.Stop()

	out := buf.String()
	final := out[strings.LastIndex(out, "\033[K")+len("\033[K"):]
	if !strings.Contains(final, "Training models") || !strings.Contains(final, "→ 4 model(s)") {
		t.Fatalf("final frame = %q", final)
	}
	if strings.Contains(final, "sorting") {
		t.Fatalf("a step still running at stop is drawn as pending: %q", final)
	}
}

func TestSpinnerStop(t *testing.T) {
	var nilSpinner *Spinner
	nilSpinner.Stop(true, "ignored")

	var buf bytes.Buffer
	s := StartSpinner(&buf, "Making prediction...")
	s.Stop(false, "service unavailable")
	s.Stop(true, "twice")

	out := buf.String()
	if !strings.HasSuffix(out, "\n") || !strings.Contains(out, "service unavailable") {
		t.Fatalf("output = %q", out)
	}
	if strings.Contains(out, "twice") {
		t.Fatalf("a stopped spinner must stay stopped: %q", out)
	}
}

func TestColumnSelectorFilter(t *testing.T) {
	cols := []ColumnInfo{{Name: "price", Numeric: true}, {Name: "Category"}, {Name: "unit_price", Numeric: true}}
	if got := len(columnItems(cols, "")); got != 3 {
		t.Fatalf("empty filter kept %d items", got)
	}
	items := columnItems(cols, "PRICE")
	if len(items) != 2 {
		t.Fatalf("filter kept %d items, want 2", len(items))
	}
	if items[0].(columnItem).info.Name != "price" {
		t.Fatalf("filter must keep header order")
	}
	desc := columnItem{info: ColumnInfo{Name: "x", Samples: []string{"1", "2"}, Numeric: true}}.Description()
	if !strings.Contains(desc, "numeric") || !strings.Contains(desc, "1, 2") {
		t.Fatalf("description = %q", desc)
	}
}
