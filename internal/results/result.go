package results

import "fmt"

// ModelResult is a scored candidate. It is either a RegressionResult or a
// ClassificationResult; no other implementations exist.
type ModelResult interface {
	// Name is the identity key of the candidate within one run.
	Name() string
	Task() TaskType
	// Metric returns the value of m and whether it is present. Metrics that do
	// not apply to the task are never present.
	Metric(m Metric) (float64, bool)

	isModelResult()
}

// RegressionResult carries the regression metrics of one candidate.
type RegressionResult struct {
	Model string
	MAE   *float64
	MSE   *float64
	RMSE  *float64
	R2    *float64
}

func (r RegressionResult) Name() string   { return r.Model }
func (r RegressionResult) Task() TaskType { return Regression }
func (RegressionResult) isModelResult()   {}

func (r RegressionResult) Metric(m Metric) (float64, bool) {
	var p *float64
	switch m {
	case MAE:
		p = r.MAE
	case MSE:
		p = r.MSE
	case RMSE:
		p = r.RMSE
	case R2:
		p = r.R2
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// ClassificationResult carries the accuracy (0..1) of one candidate.
type ClassificationResult struct {
	Model    string
	Accuracy *float64
}

func (c ClassificationResult) Name() string   { return c.Model }
func (c ClassificationResult) Task() TaskType { return Classification }
func (ClassificationResult) isModelResult()   {}

func (c ClassificationResult) Metric(m Metric) (float64, bool) {
	if m != Accuracy || c.Accuracy == nil {
		return 0, false
	}
	return *c.Accuracy, true
}

// Value returns the metric or 0 when it is missing. Ranking compares through
// this function.
func Value(r ModelResult, m Metric) float64 {
	v, _ := r.Metric(m)
	return v
}

// Raw is one entry of the processing service's results array.
type Raw struct {
	Name     string   `json:"name"`
	MAE      *float64 `json:"mae,omitempty"`
	MSE      *float64 `json:"mse,omitempty"`
	RMSE     *float64 `json:"rmse,omitempty"`
	R2       *float64 `json:"r2,omitempty"`
	Accuracy *float64 `json:"accuracy,omitempty"`
}

// Normalize maps raw rows onto the variant of task, keeping only the fields
// relevant to it.
func Normalize(task TaskType, raw []Raw) []ModelResult {
	out := make([]ModelResult, 0, len(raw))
	for _, r := range raw {
		if task == Classification {
			out = append(out, ClassificationResult{Model: r.Name, Accuracy: r.Accuracy})
			continue
		}
		out = append(out, RegressionResult{Model: r.Name, MAE: r.MAE, MSE: r.MSE, RMSE: r.RMSE, R2: r.R2})
	}
	return out
}

// ToRaw is the inverse of Normalize, used by exporters.
func ToRaw(r ModelResult) Raw {
	switch v := r.(type) {
	case RegressionResult:
		return Raw{Name: v.Model, MAE: v.MAE, MSE: v.MSE, RMSE: v.RMSE, R2: v.R2}
	case ClassificationResult:
		return Raw{Name: v.Model, Accuracy: v.Accuracy}
	}
	return Raw{Name: r.Name()}
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Percent is accuracy*100.
func Percent(fraction float64) float64 { return fraction * 100 }

// BarWidth clamps a percentage into [0, 100] for bar rendering.
func BarWidth(percent float64) float64 {
	switch {
	case percent < 0:
		return 0
	case percent > 100:
		return 100
	}
	return percent
}

// FormatMetric renders m of r for display: accuracy as a percentage with two
// decimals, every other metric with four decimals, and N/A when missing.
func FormatMetric(r ModelResult, m Metric) string {
	v, ok := r.Metric(m)
	if !ok {
		return "N/A"
	}
	if m == Accuracy {
		return fmt.Sprintf("%.2f%%", Percent(v))
	}
	return fmt.Sprintf("%.4f", v)
}
