package filter

import (
	"strings"
	"testing"

	"github.com/idlab-discover/modelmaster-cli/internal/ranking"
	"github.com/idlab-discover/modelmaster-cli/internal/results"
)

func ranked(t *testing.T) []ranking.Ranked {
	t.Helper()
	rs := []results.ModelResult{
		results.RegressionResult{Model: "Linear Regression", R2: results.Float(0.71), RMSE: results.Float(3.2)},
		results.RegressionResult{Model: "Random Forest", R2: results.Float(0.93), RMSE: results.Float(1.1)},
		results.RegressionResult{Model: "SVR"},
	}
	v, err := ranking.Rank(rs, results.Regression, "", results.Descending)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	return v.Sorted
}

func names(rs []ranking.Ranked) string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name()
	}
	return strings.Join(out, ",")
}

func TestApply(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"", "Random Forest,Linear Regression,SVR"},
		{"r2 > 0.8", "Random Forest"},
		{"r2 > 0", "Random Forest,Linear Regression"},
		{`name.startsWith("Li") || best`, "Random Forest,Linear Regression"},
		{"!has_r2", "SVR"},
		{`task == "regression" && rmse < 2 && has_rmse`, "Random Forest"},
		{"accuracy > 0", ""},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			got, err := f.Apply(ranked(t))
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if names(got) != tt.want {
				t.Fatalf("Apply(%q) = %q, want %q", tt.expr, names(got), tt.want)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	for _, expr := range []string{"r2 >", "unknown > 1", "r2 + 1", `name`} {
		if _, err := Compile(expr); err == nil {
			t.Fatalf("Compile(%q) should fail", expr)
		}
	}
}

func TestNilFilter(t *testing.T) {
	var f *Filter
	ok, err := f.Match(ranked(t)[0])
	if err != nil || !ok {
		t.Fatalf("nil filter must match: %v %v", ok, err)
	}
	if f.String() != "" {
		t.Fatalf("String = %q", f.String())
	}
}
