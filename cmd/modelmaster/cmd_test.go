package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idlab-discover/modelmaster-cli/internal/apperr"
	"github.com/idlab-discover/modelmaster-cli/internal/orchestrator"
	"github.com/idlab-discover/modelmaster-cli/internal/predict"
	"github.com/idlab-discover/modelmaster-cli/internal/results"
	"github.com/idlab-discover/modelmaster-cli/internal/service"
	"github.com/idlab-discover/modelmaster-cli/internal/stub"
	"github.com/idlab-discover/modelmaster-cli/internal/tabular"
)

func TestParseSetFlags(t *testing.T) {
	s := predict.Schema{Columns: []string{"loc", "cplx"}}

	raw, err := parseSetFlags(s, []string{"loc=12", " cplx = 1.1"})
	if err != nil {
		t.Fatalf("parseSetFlags: %v", err)
	}
	if raw["loc"] != "12" || raw["cplx"] != " 1.1" {
		t.Fatalf("raw = %v", raw)
	}

	if _, err := parseSetFlags(s, []string{"loc"}); !apperr.IsUser(err) {
		t.Fatalf("missing '=' must be a user error, got %v", err)
	}
	if _, err := parseSetFlags(s, []string{"size=3"}); err == nil || !strings.Contains(err.Error(), "unknown input column") {
		t.Fatalf("unknown column error = %v", err)
	}
}

func TestColumnInfo(t *testing.T) {
	tbl := tabular.Parse("price,city,empty\n1.5,Ghent,\n2,Antwerp,\n2,Ghent,\n3,Brussels,\n")
	cols := columnInfo(tbl, 2)
	if len(cols) != 3 {
		t.Fatalf("got %d columns", len(cols))
	}
	if !cols[0].Numeric || cols[1].Numeric || cols[2].Numeric {
		t.Fatalf("numeric flags = %v %v %v", cols[0].Numeric, cols[1].Numeric, cols[2].Numeric)
	}
	if got := strings.Join(cols[1].Samples, ","); got != "Ghent,Antwerp" {
		t.Fatalf("samples = %s", got)
	}
	if len(cols[2].Samples) != 0 {
		t.Fatalf("blank column has samples: %v", cols[2].Samples)
	}
}

func TestMissingColumns(t *testing.T) {
	s := predict.Schema{Columns: []string{"loc", "cplx", "tool"}}
	got := missingColumns(s, tabular.Parse("tool,loc\n1,2\n"))
	if len(got) != 1 || got[0] != "cplx" {
		t.Fatalf("missing = %v", got)
	}
}

func TestRowError(t *testing.T) {
	fe := predict.FieldErrors{"b": predict.MsgRequired, "a": predict.MsgNotANumber}
	if got := rowError(fe); got != "a: Must be a number; b: Value is required" {
		t.Fatalf("rowError(field errors) = %q", got)
	}
	remote := &service.RemoteError{Op: service.OpPredict, StatusCode: 400, Message: "Missing required inputs: loc"}
	if got := rowError(remote); got != "Missing required inputs: loc (HTTP 400)" {
		t.Fatalf("rowError(remote) = %q", got)
	}
}

func TestResolveRun(t *testing.T) {
	c := orchestrator.Complete{RunID: "r", Task: results.Regression}
	got, err := resolveRun(c)
	if err != nil || got.RunID != "r" {
		t.Fatalf("resolveRun(complete) = %v, %v", got, err)
	}

	remote := &service.RemoteError{Message: "Invalid model type"}
	if _, err := resolveRun(orchestrator.Failed{Message: remote.Message, Err: remote}); !errors.Is(err, remote) {
		t.Fatalf("remote failure must be returned as is, got %v", err)
	}

	_, err = resolveRun(orchestrator.Failed{Message: "request timed out after 1s", Err: context.DeadlineExceeded})
	if err == nil || err.Error() != "request timed out after 1s" {
		t.Fatalf("timeout failure = %v", err)
	}

	if _, err := resolveRun(orchestrator.Idle{}); err == nil {
		t.Fatalf("idle is not a final state")
	}
}

func TestRunProgressFollowsRunnerStates(t *testing.T) {
	var buf bytes.Buffer
	p := newRunProgress(&buf)
	p.observe(orchestrator.Processing{Message: orchestrator.DefaultProcessingMessage})
	p.observe(orchestrator.Failed{Message: "Invalid model type"})
	p.stop()

	out := buf.String()
	for _, want := range []string{"Training models", "→ Invalid model type", "→ run failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	var quiet *runProgress
	if quiet.onChange() != nil {
		t.Fatalf("quiet progress must not observe the runner")
	}
	quiet.observe(orchestrator.Idle{})
	quiet.skipRanking("x")
	quiet.stop()
	called := false
	if err := quiet.ranking(func() (string, error) { called = true; return "", nil }); err != nil || !called {
		t.Fatalf("quiet ranking must still run the step: %v %v", called, err)
	}
}

func TestRunProgressRanking(t *testing.T) {
	var buf bytes.Buffer
	p := newRunProgress(&buf)
	p.observe(orchestrator.Processing{})
	p.observe(orchestrator.Complete{Results: []results.ModelResult{results.RegressionResult{Model: "A"}}})
	if err := p.ranking(func() (string, error) { return "by R² ↓", nil }); err != nil {
		t.Fatalf("ranking: %v", err)
	}
	p.stop()

	out := buf.String()
	if !strings.Contains(out, "→ 1 model(s)") || !strings.Contains(out, "→ by R² ↓") {
		t.Fatalf("output = %s", out)
	}
}

func TestCompareAgainstStub(t *testing.T) {
	srv := httptest.NewServer(stub.New().Handler())
	defer srv.Close()

	dir := t.TempDir()
	data := filepath.Join(dir, "houses.csv")
	var b strings.Builder
	b.WriteString("rooms,area,price\n")
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&b, "%d,%d,%d\n", i%5+1, 40+i*3, 100+i*7)
	}
	if err := os.WriteFile(data, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "report.json")

	rootCmd.SetArgs([]string{
		"compare", data,
		"--service-url", srv.URL,
		"--target", "price",
		"--task", "regression",
		"--output", out,
		"--log-level", "quiet",
	})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("compare: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var doc struct {
		Task      string `json:"task"`
		BestModel string `json:"best_model"`
		Models    []struct {
			Name   string `json:"name"`
			IsBest bool   `json:"is_best"`
		} `json:"models"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if doc.Task != "regression" || doc.BestModel == "" || len(doc.Models) == 0 {
		t.Fatalf("report = %+v", doc)
	}
	if !doc.Models[0].IsBest || doc.Models[0].Name != doc.BestModel {
		t.Fatalf("first model of a descending r2 ranking must be the best: %+v", doc.Models[0])
	}
}

func TestPredictAgainstStub(t *testing.T) {
	srv := httptest.NewServer(stub.New().Handler())
	defer srv.Close()

	schema := stub.EffortSchema()
	args := []string{"predict", "--service-url", srv.URL, "--log-level", "quiet"}
	for _, c := range schema.Columns {
		r, _ := schema.Range(c)
		args = append(args, "--set", fmt.Sprintf("%s=%g", c, (r.Min+r.Max)/2))
	}

	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("predict: %v", err)
	}
}
