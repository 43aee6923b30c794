package stub

import (
	"fmt"
	"math"

	"github.com/idlab-discover/modelmaster-cli/internal/predict"
)

// EffortColumns are the inputs of the bundled effort model: fifteen cost
// drivers followed by size in thousands of lines of code.
var EffortColumns = []string{
	"rely", "data", "cplx", "time", "stor", "virt", "turn",
	"acap", "aexp", "pcap", "vexp", "lexp", "modp", "tool",
	"sced", "loc",
}

var effortRanges = map[string]predict.Range{
	"rely": {Min: 0.75, Max: 1.4},
	"data": {Min: 0.94, Max: 1.16},
	"cplx": {Min: 0.7, Max: 1.65},
	"time": {Min: 1, Max: 1.66},
	"stor": {Min: 1, Max: 1.56},
	"virt": {Min: 0.87, Max: 1.3},
	"turn": {Min: 0.87, Max: 1.15},
	"acap": {Min: 0.71, Max: 1.46},
	"aexp": {Min: 0.82, Max: 1.29},
	"pcap": {Min: 0.7, Max: 1.42},
	"vexp": {Min: 0.9, Max: 1.21},
	"lexp": {Min: 0.95, Max: 1.14},
	"modp": {Min: 0.82, Max: 1.24},
	"tool": {Min: 0.83, Max: 1.24},
	"sced": {Min: 1, Max: 1.23},
	"loc":  {Min: 1.98, Max: 1150},
}

// EffortSchema returns the input schema of the bundled effort model.
func EffortSchema() predict.Schema {
	ranges := make(map[string]predict.Range, len(effortRanges))
	for k, v := range effortRanges {
		ranges[k] = v
	}
	cols := make([]string, len(EffortColumns))
	copy(cols, EffortColumns)
	return predict.Schema{Columns: cols, Ranges: ranges}
}

// Intermediate COCOMO, organic mode.
const (
	effortA = 3.2
	effortB = 1.05
)

// EstimateEffort returns person-months for a complete input record:
// a * loc^b * product of the cost drivers.
func EstimateEffort(inputs map[string]float64) (float64, error) {
	loc, ok := inputs["loc"]
	if !ok {
		return 0, fmt.Errorf("missing input loc")
	}
	if loc <= 0 {
		return 0, fmt.Errorf("loc must be positive, got %g", loc)
	}
	eaf := 1.0
	for _, c := range EffortColumns {
		if c == "loc" {
			continue
		}
		v, ok := inputs[c]
		if !ok {
			return 0, fmt.Errorf("missing input %s", c)
		}
		eaf *= v
	}
	return effortA * math.Pow(loc, effortB) * eaf, nil
}
