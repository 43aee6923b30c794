// Package results holds the scored-candidate model of a comparison run: the
// task type, the metric vocabulary, the per-task result variants and the class
// distribution echoed by the processing service.
package results

import (
	"fmt"
	"strings"
)

// TaskType fixes which metrics are meaningful for a run.
type TaskType int

const (
	Regression TaskType = iota
	Classification
)

// ParseTaskType accepts "regression" or "classification" in any case.
func ParseTaskType(s string) (TaskType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "regression":
		return Regression, nil
	case "classification":
		return Classification, nil
	default:
		return Regression, fmt.Errorf("invalid task type %q (expected regression|classification)", s)
	}
}

// String returns the wire value sent as model_type.
func (t TaskType) String() string {
	if t == Classification {
		return "classification"
	}
	return "regression"
}

// Title is the capitalized form used in headings.
func (t TaskType) Title() string {
	if t == Classification {
		return "Classification"
	}
	return "Regression"
}

// DefaultMetric is the metric used for best-candidate selection.
func (t TaskType) DefaultMetric() Metric {
	if t == Classification {
		return Accuracy
	}
	return R2
}

// Metrics lists the sortable metrics for the task, default first.
func (t TaskType) Metrics() []Metric {
	if t == Classification {
		return []Metric{Accuracy}
	}
	return []Metric{R2, RMSE, MAE, MSE}
}

// Supports reports whether m is meaningful for the task.
func (t TaskType) Supports(m Metric) bool {
	for _, x := range t.Metrics() {
		if x == m {
			return true
		}
	}
	return false
}

// Metric is a named numeric field on a model result.
type Metric string

const (
	R2       Metric = "r2"
	RMSE     Metric = "rmse"
	MAE      Metric = "mae"
	MSE      Metric = "mse"
	Accuracy Metric = "accuracy"
)

// ParseMetric accepts a metric key in any case.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case R2, RMSE, MAE, MSE, Accuracy:
		return m, nil
	}
	return "", fmt.Errorf("invalid metric %q (expected r2|rmse|mae|mse|accuracy)", s)
}

// Label is the short display name.
func (m Metric) Label() string {
	switch m {
	case R2:
		return "R² Score"
	case RMSE:
		return "RMSE"
	case MAE:
		return "MAE"
	case MSE:
		return "MSE"
	case Accuracy:
		return "Accuracy"
	}
	return string(m)
}

// Description is the long display name.
func (m Metric) Description() string {
	switch m {
	case R2:
		return "Coefficient of determination"
	case RMSE:
		return "Root Mean Squared Error"
	case MAE:
		return "Mean Absolute Error"
	case MSE:
		return "Mean Squared Error"
	case Accuracy:
		return "Proportion of correctly classified instances in the test set"
	}
	return ""
}

// Direction is a sort order.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

// ParseDirection accepts asc or desc.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc", "descending":
		return Descending, nil
	case "asc", "ascending":
		return Ascending, nil
	}
	return Descending, fmt.Errorf("invalid sort order %q (expected asc|desc)", s)
}

func (d Direction) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// Arrow is the glyph shown next to the sort selector.
func (d Direction) Arrow() string {
	if d == Ascending {
		return "↑"
	}
	return "↓"
}

// Toggle flips the direction.
func (d Direction) Toggle() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}
