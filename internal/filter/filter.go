// Package filter narrows ranked results with CEL expressions such as
//
//	r2 > 0.8 && !name.startsWith("Linear")
//	accuracy >= 0.9 || best
//
// Every metric is exposed as a double (missing metrics are 0), alongside
// name (string), task (string), best (bool) and has(<metric>) style booleans
// named has_r2, has_rmse, has_mae, has_mse and has_accuracy.
package filter

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/idlab-discover/modelmaster-cli/internal/ranking"
	"github.com/idlab-discover/modelmaster-cli/internal/results"
)

var allMetrics = []results.Metric{results.R2, results.RMSE, results.MAE, results.MSE, results.Accuracy}

var (
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func env() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		opts := []cel.EnvOption{
			cel.CrossTypeNumericComparisons(true),
			cel.Variable("name", cel.StringType),
			cel.Variable("task", cel.StringType),
			cel.Variable("best", cel.BoolType),
		}
		for _, m := range allMetrics {
			opts = append(opts,
				cel.Variable(string(m), cel.DoubleType),
				cel.Variable("has_"+string(m), cel.BoolType),
			)
		}
		celEnv, celEnvErr = cel.NewEnv(opts...)
	})
	return celEnv, celEnvErr
}

// Filter is a compiled expression. A nil *Filter matches everything.
type Filter struct {
	expr string
	prg  cel.Program
}

// Compile parses and type-checks expr. An empty expression yields a nil
// Filter.
func Compile(expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}
	e, err := env()
	if err != nil {
		return nil, fmt.Errorf("filter environment: %w", err)
	}
	ast, issues := e.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("invalid filter %q: must evaluate to bool, got %s", expr, ast.OutputType())
	}
	prg, err := e.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expr
}

// Match evaluates the filter against one ranked result.
func (f *Filter) Match(r ranking.Ranked) (bool, error) {
	if f == nil {
		return true, nil
	}
	out, _, err := f.prg.Eval(activation(r))
	if err != nil {
		return false, fmt.Errorf("evaluate filter on %s: %w", r.Name(), err)
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("filter returned %T, want bool", out.Value())
	}
	return ok, nil
}

// Apply keeps the results that match, in order.
func (f *Filter) Apply(rs []ranking.Ranked) ([]ranking.Ranked, error) {
	if f == nil {
		return rs, nil
	}
	out := make([]ranking.Ranked, 0, len(rs))
	for _, r := range rs {
		ok, err := f.Match(r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func activation(r ranking.Ranked) map[string]any {
	vars := map[string]any{
		"name": r.Name(),
		"task": r.Task().String(),
		"best": r.IsBest,
	}
	for _, m := range allMetrics {
		v, ok := r.Metric(m)
		vars[string(m)] = v
		vars["has_"+string(m)] = ok
	}
	return vars
}
