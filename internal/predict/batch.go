package predict

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds in-flight prediction requests of a batch.
const DefaultConcurrency = 4

// BatchOptions configures Batch.
type BatchOptions struct {
	Concurrency int
	Validation  Options
	RunID       string
}

// BatchResult is the outcome of one row. Err is either FieldErrors (the row
// was never sent) or the predictor's error.
type BatchResult struct {
	Row        int
	Values     map[string]string
	Prediction float64
	Days       float64
	Err        error
}

// OK reports whether the row produced a prediction.
func (r BatchResult) OK() bool { return r.Err == nil }

// Batch validates and predicts every row. Row failures are recorded in the
// matching result; only context cancellation aborts the batch. Results keep
// the input order.
func Batch(ctx context.Context, p Predictor, s Schema, rows []map[string]string, opts BatchOptions) ([]BatchResult, error) {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	out := make([]BatchResult, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, row := range rows {
		out[i] = BatchResult{Row: i + 1, Values: row}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			record, errs := ValidateWith(s, row, opts.Validation)
			if errs != nil {
				logf(opts.RunID, "row %d invalid: %v", i+1, errs)
				out[i].Err = errs
				return nil
			}
			v, err := p.Predict(gctx, record)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logf(opts.RunID, "row %d failed: %v", i+1, err)
				out[i].Err = err
				return nil
			}
			out[i].Prediction = v
			out[i].Days = EffortDays(v)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, fmt.Errorf("batch prediction: %w", err)
	}
	logf(opts.RunID, "batch complete (%d rows)", len(rows))
	return out, nil
}

// Failed counts rows with an error.
func Failed(rs []BatchResult) int {
	n := 0
	for _, r := range rs {
		if !r.OK() {
			n++
		}
	}
	return n
}
