// Package ranking selects the best candidate of a run and produces stably
// sorted views of the candidates.
package ranking

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/idlab-discover/modelmaster-cli/internal/results"
)

// ErrEmptyResultSet is returned when there is nothing to rank.
var ErrEmptyResultSet = errors.New("no models were returned")

// SelectBest scans rs left to right and keeps the candidate with the strictly
// greater task metric (r2 or accuracy). Missing metrics count as 0, and the
// first candidate wins a tie.
func SelectBest(rs []results.ModelResult, task results.TaskType) (results.ModelResult, error) {
	if len(rs) == 0 {
		return nil, ErrEmptyResultSet
	}
	m := task.DefaultMetric()
	best := rs[0]
	for _, r := range rs[1:] {
		if results.Value(r, m) > results.Value(best, m) {
			best = r
		}
	}
	return best, nil
}

// Sort returns a copy of rs ordered by metric. Missing values compare as 0 and
// equal keys keep their input order.
func Sort(rs []results.ModelResult, metric results.Metric, dir results.Direction) []results.ModelResult {
	out := slices.Clone(rs)
	slices.SortStableFunc(out, func(a, b results.ModelResult) int {
		c := cmp.Compare(results.Value(a, metric), results.Value(b, metric))
		if dir == results.Descending {
			return -c
		}
		return c
	})
	return out
}

// Ranked is a candidate annotated with the best flag.
type Ranked struct {
	results.ModelResult
	IsBest bool
}

// Annotate flags every entry whose name equals bestName. Names are the
// identity key, so duplicate names are all flagged.
func Annotate(rs []results.ModelResult, bestName string) []Ranked {
	out := make([]Ranked, len(rs))
	for i, r := range rs {
		out[i] = Ranked{ModelResult: r, IsBest: r.Name() == bestName}
	}
	return out
}

// View is the presentation-ready ranking of one run.
type View struct {
	Task      results.TaskType
	Metric    results.Metric
	Direction results.Direction
	Best      results.ModelResult
	Sorted    []Ranked

	// input is the run's result order; every sort starts from it
	input []results.ModelResult
}

// Rank selects the best candidate and sorts rs by metric. An empty metric uses
// the task default; a metric the task does not support is rejected.
func Rank(rs []results.ModelResult, task results.TaskType, metric results.Metric, dir results.Direction) (View, error) {
	if metric == "" {
		metric = task.DefaultMetric()
	}
	if !task.Supports(metric) {
		return View{}, fmt.Errorf("metric %q does not apply to %s", metric, task)
	}
	best, err := SelectBest(rs, task)
	if err != nil {
		return View{}, err
	}
	return View{
		Task:      task,
		Metric:    metric,
		Direction: dir,
		Best:      best,
		Sorted:    Annotate(Sort(rs, metric, dir), best.Name()),
		input:     slices.Clone(rs),
	}, nil
}

// Top returns at most n entries of the sorted view.
func (v View) Top(n int) []Ranked {
	if n < 0 || n >= len(v.Sorted) {
		return v.Sorted
	}
	return v.Sorted[:n]
}

// Resort returns the same view ordered by another metric or direction. Ties
// keep the run's result order, not the order of the previous sort.
func (v View) Resort(metric results.Metric, dir results.Direction) View {
	rs := v.input
	if rs == nil {
		rs = make([]results.ModelResult, len(v.Sorted))
		for i, r := range v.Sorted {
			rs[i] = r.ModelResult
		}
	}
	v.Metric = metric
	v.Direction = dir
	v.Sorted = Annotate(Sort(rs, metric, dir), v.Best.Name())
	return v
}

// Summary is the one-line outcome of a completed run, e.g.
// "Found 5 models with best R² of 0.9123".
func Summary(rs []results.ModelResult, task results.TaskType) string {
	best, err := SelectBest(rs, task)
	if err != nil {
		return "Found 0 models"
	}
	v := results.Value(best, task.DefaultMetric())
	if task == results.Classification {
		return fmt.Sprintf("Found %d models with best accuracy of %.2f%%", len(rs), results.Percent(v))
	}
	return fmt.Sprintf("Found %d models with best R² of %.4f", len(rs), v)
}
