package ranking

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/idlab-discover/modelmaster-cli/internal/results"
)

func reg(name string, r2 float64) results.ModelResult {
	return results.RegressionResult{Model: name, R2: results.Float(r2)}
}

func acc(name string, a float64) results.ModelResult {
	return results.ClassificationResult{Model: name, Accuracy: results.Float(a)}
}

func names(rs []Ranked) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name()
	}
	return out
}

func TestSelectBest_Empty(t *testing.T) {
	_, err := SelectBest(nil, results.Regression)
	if !errors.Is(err, ErrEmptyResultSet) {
		t.Fatalf("expected ErrEmptyResultSet, got %v", err)
	}
}

func TestSelectBest_TieKeepsFirst(t *testing.T) {
	rs := []results.ModelResult{acc("A", 0.7), acc("B", 0.9), acc("C", 0.9), acc("D", 0.1)}
	for i := 0; i < 10; i++ {
		best, err := SelectBest(rs, results.Classification)
		if err != nil {
			t.Fatalf("SelectBest: %v", err)
		}
		if best.Name() != "B" {
			t.Fatalf("best = %s, want B", best.Name())
		}
	}
}

func TestSelectBest_MissingMetricIsZero(t *testing.T) {
	rs := []results.ModelResult{
		results.RegressionResult{Model: "NoScore"},
		reg("Negative", -0.2),
	}
	best, _ := SelectBest(rs, results.Regression)
	if best.Name() != "NoScore" {
		t.Fatalf("missing r2 counts as 0 and beats -0.2, got %s", best.Name())
	}

	rs = append(rs, reg("Positive", 0.01))
	best, _ = SelectBest(rs, results.Regression)
	if best.Name() != "Positive" {
		t.Fatalf("best = %s, want Positive", best.Name())
	}
}

func TestSelectBest_UsesTaskMetricOnly(t *testing.T) {
	rs := []results.ModelResult{
		results.RegressionResult{Model: "LowErr", R2: results.Float(0.5), RMSE: results.Float(0.1)},
		results.RegressionResult{Model: "HighR2", R2: results.Float(0.6), RMSE: results.Float(9)},
	}
	best, _ := SelectBest(rs, results.Regression)
	if best.Name() != "HighR2" {
		t.Fatalf("best = %s, want HighR2", best.Name())
	}
}

func TestSelectBest_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.Intn(12)
		rs := make([]results.ModelResult, n)
		for i := range rs {
			// coarse values force frequent ties
			rs[i] = acc(fmt.Sprintf("m%d", i), float64(rng.Intn(5))/4)
		}
		best, err := SelectBest(rs, results.Classification)
		if err != nil {
			t.Fatalf("SelectBest: %v", err)
		}
		bestV := results.Value(best, results.Accuracy)
		firstIdx := -1
		for i, r := range rs {
			v := results.Value(r, results.Accuracy)
			if v > bestV {
				t.Fatalf("iter %d: %s has %v > best %v", iter, r.Name(), v, bestV)
			}
			if v == bestV && firstIdx < 0 {
				firstIdx = i
			}
		}
		if rs[firstIdx].Name() != best.Name() {
			t.Fatalf("iter %d: best = %s, want first maximal %s", iter, best.Name(), rs[firstIdx].Name())
		}
	}
}

func TestSort_StableOnDuplicates(t *testing.T) {
	// already sorted by name
	rs := []results.ModelResult{reg("A", 0.5), reg("B", 0.9), reg("C", 0.5), reg("D", 0.9), reg("E", 0.1)}

	desc := Sort(rs, results.R2, results.Descending)
	if got := fmt.Sprint(resultNames(desc)); got != "[B D A C E]" {
		t.Fatalf("desc = %s", got)
	}
	asc := Sort(rs, results.R2, results.Ascending)
	if got := fmt.Sprint(resultNames(asc)); got != "[E A C B D]" {
		t.Fatalf("asc = %s", got)
	}
	if got := fmt.Sprint(resultNames(rs)); got != "[A B C D E]" {
		t.Fatalf("input mutated: %s", got)
	}
}

func TestSort_MissingComparesAsZero(t *testing.T) {
	rs := []results.ModelResult{
		results.RegressionResult{Model: "A", RMSE: results.Float(2)},
		results.RegressionResult{Model: "B"},
		results.RegressionResult{Model: "C", RMSE: results.Float(-1)},
	}
	got := fmt.Sprint(resultNames(Sort(rs, results.RMSE, results.Ascending)))
	if got != "[C B A]" {
		t.Fatalf("asc by rmse = %s", got)
	}
}

func TestAnnotate(t *testing.T) {
	unique := Annotate([]results.ModelResult{reg("A", 1), reg("B", 2), reg("C", 3)}, "B")
	count := 0
	for _, r := range unique {
		if r.IsBest {
			count++
			if r.Name() != "B" {
				t.Fatalf("wrong entry flagged: %s", r.Name())
			}
		}
	}
	if count != 1 {
		t.Fatalf("flagged %d entries, want 1", count)
	}

	dup := Annotate([]results.ModelResult{reg("A", 1), reg("B", 2), reg("A", 0)}, "A")
	if !dup[0].IsBest || dup[1].IsBest || !dup[2].IsBest {
		t.Fatalf("co-named entries must all be flagged: %+v", dup)
	}
}

func TestRank(t *testing.T) {
	rs := []results.ModelResult{
		results.RegressionResult{Model: "Linear", R2: results.Float(0.7), RMSE: results.Float(3)},
		results.RegressionResult{Model: "Forest", R2: results.Float(0.9), RMSE: results.Float(1)},
		results.RegressionResult{Model: "Tree", R2: results.Float(0.6), RMSE: results.Float(2)},
	}
	v, err := Rank(rs, results.Regression, results.RMSE, results.Ascending)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if v.Best.Name() != "Forest" {
		t.Fatalf("best = %s", v.Best.Name())
	}
	if got := fmt.Sprint(names(v.Sorted)); got != "[Forest Tree Linear]" {
		t.Fatalf("sorted = %s", got)
	}
	if got := fmt.Sprint(names(v.Top(2))); got != "[Forest Tree]" {
		t.Fatalf("top 2 = %s", got)
	}
	if len(v.Top(10)) != 3 || len(v.Top(-1)) != 3 {
		t.Fatalf("Top must cap at the result count")
	}

	re := v.Resort(results.R2, results.Descending)
	if got := fmt.Sprint(names(re.Sorted)); got != "[Forest Linear Tree]" {
		t.Fatalf("resorted = %s", got)
	}
	if !re.Sorted[0].IsBest {
		t.Fatalf("best flag lost after resort")
	}
}

func TestResort_TiesKeepInputOrder(t *testing.T) {
	rs := []results.ModelResult{
		results.RegressionResult{Model: "A", R2: results.Float(0.1), RMSE: results.Float(1)},
		results.RegressionResult{Model: "B", R2: results.Float(0.9), RMSE: results.Float(1)},
		results.RegressionResult{Model: "C", R2: results.Float(0.5), RMSE: results.Float(1)},
	}
	v, err := Rank(rs, results.Regression, results.R2, results.Descending)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if got := fmt.Sprint(names(v.Sorted)); got != "[B C A]" {
		t.Fatalf("sorted = %s", got)
	}

	for _, dir := range []results.Direction{results.Descending, results.Ascending} {
		re := v.Resort(results.RMSE, dir)
		if got, want := fmt.Sprint(names(re.Sorted)), fmt.Sprint(names(Annotate(Sort(rs, results.RMSE, dir), "B"))); got != want {
			t.Fatalf("Resort(rmse, %s) = %s, want %s", dir, got, want)
		}
		if got := fmt.Sprint(names(re.Sorted)); got != "[A B C]" {
			t.Fatalf("tied rmse must keep input order, got %s", got)
		}
	}

	// chained resorts never leak the intermediate order
	re := v.Resort(results.MAE, results.Descending).Resort(results.RMSE, results.Ascending)
	if got := fmt.Sprint(names(re.Sorted)); got != "[A B C]" {
		t.Fatalf("chained resort = %s", got)
	}
}

func TestRank_DefaultsAndErrors(t *testing.T) {
	v, err := Rank([]results.ModelResult{acc("A", 0.5)}, results.Classification, "", results.Descending)
	if err != nil || v.Metric != results.Accuracy {
		t.Fatalf("Rank default metric = (%v, %v)", v.Metric, err)
	}
	if _, err := Rank([]results.ModelResult{acc("A", 0.5)}, results.Classification, results.R2, results.Descending); err == nil {
		t.Fatalf("expected error for r2 on classification")
	}
	if _, err := Rank(nil, results.Regression, "", results.Descending); !errors.Is(err, ErrEmptyResultSet) {
		t.Fatalf("expected ErrEmptyResultSet, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	if got := Summary([]results.ModelResult{reg("A", 0.91234), reg("B", 0.5)}, results.Regression); got != "Found 2 models with best R² of 0.9123" {
		t.Fatalf("Summary = %q", got)
	}
	if got := Summary([]results.ModelResult{acc("A", 0.875)}, results.Classification); got != "Found 1 models with best accuracy of 87.50%" {
		t.Fatalf("Summary = %q", got)
	}
}

func resultNames(rs []results.ModelResult) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name()
	}
	return out
}
