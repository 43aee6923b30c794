// Package report exports completed runs and batch predictions as JSON, YAML,
// XLSX workbooks or CycloneDX documents.
package report

import (
	"time"

	"github.com/idlab-discover/modelmaster-cli/internal/predict"
	"github.com/idlab-discover/modelmaster-cli/internal/ranking"
	"github.com/idlab-discover/modelmaster-cli/internal/results"
)

// Document is the export of one completed comparison run.
type Document struct {
	RunID             string     `json:"run_id" yaml:"run_id"`
	GeneratedAt       time.Time  `json:"generated_at" yaml:"generated_at"`
	Dataset           string     `json:"dataset" yaml:"dataset"`
	TargetVariable    string     `json:"target_variable" yaml:"target_variable"`
	Task              string     `json:"task" yaml:"task"`
	SortBy            string     `json:"sort_by" yaml:"sort_by"`
	Order             string     `json:"order" yaml:"order"`
	Filter            string     `json:"filter,omitempty" yaml:"filter,omitempty"`
	Summary           string     `json:"summary" yaml:"summary"`
	BestModel         string     `json:"best_model" yaml:"best_model"`
	Models            []ModelRow `json:"models" yaml:"models"`
	ClassDistribution []ClassRow `json:"class_distribution,omitempty" yaml:"class_distribution,omitempty"`
}

// ModelRow is one ranked candidate.
type ModelRow struct {
	Rank     int      `json:"rank" yaml:"rank"`
	Name     string   `json:"name" yaml:"name"`
	IsBest   bool     `json:"is_best" yaml:"is_best"`
	R2       *float64 `json:"r2,omitempty" yaml:"r2,omitempty"`
	RMSE     *float64 `json:"rmse,omitempty" yaml:"rmse,omitempty"`
	MAE      *float64 `json:"mae,omitempty" yaml:"mae,omitempty"`
	MSE      *float64 `json:"mse,omitempty" yaml:"mse,omitempty"`
	Accuracy *float64 `json:"accuracy,omitempty" yaml:"accuracy,omitempty"`
}

// ClassRow is one class of the target column.
type ClassRow struct {
	Label   string  `json:"label" yaml:"label"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Meta carries the run details that are not part of the ranking.
type Meta struct {
	RunID          string
	Dataset        string
	TargetVariable string
	Filter         string
	GeneratedAt    time.Time
}

// Build assembles the export of view. rows is what is shown (possibly
// filtered); the summary and best model always come from the full view.
func Build(meta Meta, v ranking.View, rows []ranking.Ranked, dist *results.ClassDistribution) Document {
	all := make([]results.ModelResult, len(v.Sorted))
	for i, r := range v.Sorted {
		all[i] = r.ModelResult
	}
	at := meta.GeneratedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}

	doc := Document{
		RunID:          meta.RunID,
		GeneratedAt:    at,
		Dataset:        meta.Dataset,
		TargetVariable: meta.TargetVariable,
		Task:           v.Task.String(),
		SortBy:         string(v.Metric),
		Order:          v.Direction.String(),
		Filter:         meta.Filter,
		Summary:        ranking.Summary(all, v.Task),
		Models:         make([]ModelRow, len(rows)),
	}
	if v.Best != nil {
		doc.BestModel = v.Best.Name()
	}
	for i, r := range rows {
		raw := results.ToRaw(r.ModelResult)
		doc.Models[i] = ModelRow{
			Rank:     i + 1,
			Name:     raw.Name,
			IsBest:   r.IsBest,
			R2:       raw.R2,
			RMSE:     raw.RMSE,
			MAE:      raw.MAE,
			MSE:      raw.MSE,
			Accuracy: raw.Accuracy,
		}
	}
	for _, s := range dist.Shares() {
		doc.ClassDistribution = append(doc.ClassDistribution, ClassRow{Label: s.Label, Count: s.Count, Percent: s.Percent})
	}
	return doc
}

// Predictions is the export of a batch prediction.
type Predictions struct {
	RunID       string          `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	Columns     []string        `json:"columns" yaml:"columns"`
	Rows        []PredictionRow `json:"rows" yaml:"rows"`
}

// PredictionRow is one input row and its outcome.
type PredictionRow struct {
	Row        int               `json:"row" yaml:"row"`
	Inputs     map[string]string `json:"inputs" yaml:"inputs"`
	Prediction *float64          `json:"prediction,omitempty" yaml:"prediction,omitempty"`
	EffortDays *float64          `json:"effort_days,omitempty" yaml:"effort_days,omitempty"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// BuildPredictions converts batch results.
func BuildPredictions(runID string, s predict.Schema, rs []predict.BatchResult) Predictions {
	out := Predictions{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Columns:     s.Columns,
		Rows:        make([]PredictionRow, len(rs)),
	}
	for i, r := range rs {
		row := PredictionRow{Row: r.Row, Inputs: r.Values}
		if r.OK() {
			row.Prediction = results.Float(r.Prediction)
			row.EffortDays = results.Float(r.Days)
		} else {
			row.Error = r.Err.Error()
		}
		out.Rows[i] = row
	}
	return out
}
