// Package predict turns user-entered text for a server-declared set of numeric
// features into a validated record, and submits validated records to the
// prediction service.
package predict

import (
	"context"
	"fmt"
)

// Range is the declared domain of one feature.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

func (r Range) String() string { return fmt.Sprintf("%g-%g", r.Min, r.Max) }

// Schema is the feature set supplied by the prediction service. Columns are
// unique and ordered.
type Schema struct {
	Columns []string         `json:"columns"`
	Ranges  map[string]Range `json:"ranges"`
}

// Range returns the declared range of column.
func (s Schema) Range(column string) (Range, bool) {
	r, ok := s.Ranges[column]
	return r, ok
}

// Predictor submits a validated record and returns the predicted value.
type Predictor interface {
	Predict(ctx context.Context, inputs map[string]float64) (float64, error)
}

// SchemaSource fetches the current schema.
type SchemaSource interface {
	InputRanges(ctx context.Context) (*Schema, error)
}

// DefaultLabels are the human-readable feature names of the bundled effort
// estimation model. Unknown columns fall back to their key.
var DefaultLabels = map[string]string{
	"rely": "Required Software Reliability",
	"data": "Database Size",
	"cplx": "Product Complexity",
	"time": "Execution Time Constraints",
	"stor": "Main Storage Constraint",
	"virt": "Virtual Machine Volatility",
	"turn": "Computer Turnaround Time",
	"acap": "Analyst Capability",
	"aexp": "Applications Experience",
	"pcap": "Programmer Capability",
	"vexp": "Virtual Machine Experience",
	"lexp": "Programming Language Experience",
	"modp": "Modern Programming Practices",
	"tool": "Use of Software Tools",
	"sced": "Required Development Schedule",
	"loc":  "Lines of Code (in thousands)",
}

// Label returns "<label> (<min>-<max>)" for column, using labels first and
// DefaultLabels second. The range suffix is omitted when the schema declares none.
func Label(s Schema, labels map[string]string, column string) string {
	name, ok := labels[column]
	if !ok {
		name, ok = DefaultLabels[column]
	}
	if !ok {
		name = column
	}
	if r, ok := s.Range(column); ok {
		return fmt.Sprintf("%s (%s)", name, r)
	}
	return name
}

// DaysPerUnit converts one predicted unit of effort into days.
const DaysPerUnit = 30

// EffortDays rounds the prediction to two decimals and converts it to days.
// The effort model predicts person-months.
func EffortDays(prediction float64) float64 {
	return roundTo(prediction, 2) * DaysPerUnit
}
