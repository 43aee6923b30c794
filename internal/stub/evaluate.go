package stub

import (
	"cmp"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"slices"
	"strconv"

	"github.com/montanaflynn/stats"

	"github.com/idlab-discover/modelmaster-cli/internal/results"
	"github.com/idlab-discover/modelmaster-cli/internal/tabular"
)

// Candidate names reported next to the computed baseline.
var (
	RegressionCandidates = []string{
		"Linear Regression", "Ridge Regression", "Lasso Regression", "ElasticNet Regression",
		"Bayesian Ridge Regression", "Random Forest", "Gradient Boosting", "Extra Trees",
		"Support Vector Regression (SVR)", "K-Nearest Neighbors", "Decision Tree",
		"XGBoost", "LightGBM", "CatBoost",
	}
	ClassificationCandidates = []string{
		"Logistic Regression", "Random Forest", "SVM", "K-Nearest Neighbors",
		"Decision Tree", "Naive Bayes", "XGBoost", "LightGBM", "CatBoost",
	}
)

// Baseline names.
const (
	MeanBaseline     = "Mean Baseline"
	MajorityBaseline = "Majority Class Baseline"
)

// TestFraction is the share of rows held out for scoring.
const TestFraction = 0.2

// Evaluation is the outcome of scoring one dataset.
type Evaluation struct {
	Results           []results.Raw
	BestModel         string
	BestScore         float64
	ClassDistribution *results.ClassDistribution
}

var errNoRows = errors.New("Dataset contains no rows for the target variable")

// Evaluate scores every candidate on t. Rows with a blank target are dropped.
// The last TestFraction of the remaining rows is the test split.
func Evaluate(t tabular.Table, target string, task results.TaskType) (*Evaluation, error) {
	col := t.Column(target)
	if col < 0 {
		return nil, fmt.Errorf("Target variable '%s' not found in dataset", target)
	}
	var values []string
	for _, row := range t.Rows {
		if col < len(row) && row[col] != "" {
			values = append(values, row[col])
		}
	}
	if len(values) == 0 {
		return nil, errNoRows
	}

	var ev *Evaluation
	var err error
	if task == results.Classification {
		ev = evaluateClassification(values, target)
	} else {
		ev, err = evaluateRegression(values, target)
	}
	if err != nil {
		return nil, err
	}

	m := task.DefaultMetric()
	slices.SortStableFunc(ev.Results, func(a, b results.Raw) int {
		return -cmp.Compare(metricOf(a, m), metricOf(b, m))
	})
	ev.BestModel = ev.Results[0].Name
	ev.BestScore = metricOf(ev.Results[0], m)
	return ev, nil
}

func split[T any](values []T) (train, test []T) {
	n := len(values)
	if n == 1 {
		return values, values
	}
	nTest := int(math.Ceil(float64(n) * TestFraction))
	return values[:n-nTest], values[n-nTest:]
}

func evaluateRegression(raw []string, target string) (*Evaluation, error) {
	ys := make([]float64, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("Target variable '%s' must be numeric for regression (got %q)", target, s)
		}
		ys[i] = v
	}
	train, test := split(ys)

	mean, err := stats.Mean(train)
	if err != nil {
		return nil, err
	}
	testMean, err := stats.Mean(test)
	if err != nil {
		return nil, err
	}
	var absSum, sqSum, ssTot float64
	for _, y := range test {
		e := y - mean
		absSum += math.Abs(e)
		sqSum += e * e
		ssTot += (y - testMean) * (y - testMean)
	}
	n := float64(len(test))
	base := regressionScores{mae: absSum / n, mse: sqSum / n}
	if ssTot > 0 {
		base.r2 = 1 - sqSum/ssTot
	}

	out := []results.Raw{base.raw(MeanBaseline)}
	for _, name := range RegressionCandidates {
		out = append(out, base.improve(quality(name, target)).raw(name))
	}
	return &Evaluation{Results: out}, nil
}

type regressionScores struct {
	mae, mse, r2 float64
}

// improve derives a better candidate from the baseline: q in [0,1) closes
// part of the gap to a perfect fit. The squared error shrinks by the same
// factor as 1-r2.
func (s regressionScores) improve(q float64) regressionScores {
	gain := 0.2 + 0.7*q
	r2 := s.r2 + (1-s.r2)*gain
	scale := 1 - gain
	return regressionScores{
		mae: s.mae * math.Sqrt(scale),
		mse: s.mse * scale,
		r2:  r2,
	}
}

func (s regressionScores) raw(name string) results.Raw {
	return results.Raw{
		Name: name,
		MAE:  results.Float(round(s.mae)),
		MSE:  results.Float(round(s.mse)),
		RMSE: results.Float(round(math.Sqrt(s.mse))),
		R2:   results.Float(round(s.r2)),
	}
}

func evaluateClassification(labels []string, target string) *Evaluation {
	dist := &results.ClassDistribution{}
	for _, l := range labels {
		dist.Add(l, 1)
	}

	train, test := split(labels)
	counts := map[string]int{}
	majority := ""
	for _, l := range train {
		counts[l]++
		if majority == "" || counts[l] > counts[majority] {
			majority = l
		}
	}
	correct := 0
	for _, l := range test {
		if l == majority {
			correct++
		}
	}
	base := float64(correct) / float64(len(test))

	out := []results.Raw{{Name: MajorityBaseline, Accuracy: results.Float(round(base))}}
	for _, name := range ClassificationCandidates {
		acc := base + (1-base)*(0.2+0.7*quality(name, target))
		out = append(out, results.Raw{Name: name, Accuracy: results.Float(round(acc))})
	}
	return &Evaluation{Results: out, ClassDistribution: dist}
}

// quality maps a candidate and target to a stable value in [0,1).
func quality(name, target string) float64 {
	h := fnv.New32a()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(target))
	return float64(h.Sum32()) / float64(math.MaxUint32+1)
}

func round(v float64) float64 {
	r, err := stats.Round(v, 6)
	if err != nil {
		return v
	}
	return r
}

func metricOf(r results.Raw, m results.Metric) float64 {
	var p *float64
	switch m {
	case results.R2:
		p = r.R2
	case results.Accuracy:
		p = r.Accuracy
	}
	if p == nil {
		return 0
	}
	return *p
}
