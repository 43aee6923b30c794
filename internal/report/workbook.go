package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/idlab-discover/modelmaster-cli/internal/results"
)

// Sheet names of exported workbooks.
const (
	SheetSummary      = "Summary"
	SheetModels       = "Models"
	SheetDistribution = "Class Distribution"
	SheetPredictions  = "Predictions"
)

type sheet struct {
	name string
	rows [][]any
}

func documentWorkbook(doc Document) *excelize.File {
	task, _ := results.ParseTaskType(doc.Task)
	metrics := task.Metrics()

	header := []any{"Rank", "Model", "Best"}
	for _, m := range metrics {
		header = append(header, m.Label())
	}
	models := [][]any{header}
	for _, r := range doc.Models {
		raw := results.Raw{Name: r.Name, R2: r.R2, RMSE: r.RMSE, MAE: r.MAE, MSE: r.MSE, Accuracy: r.Accuracy}
		row := []any{r.Rank, r.Name, r.IsBest}
		for _, m := range metrics {
			if v := rawMetric(raw, m); v != nil {
				row = append(row, *v)
			} else {
				row = append(row, "N/A")
			}
		}
		models = append(models, row)
	}

	sheets := []sheet{
		{name: SheetSummary, rows: [][]any{
			{"Run", doc.RunID},
			{"Generated", doc.GeneratedAt.UTC().Format("2006-01-02 15:04:05")},
			{"Dataset", doc.Dataset},
			{"Target variable", doc.TargetVariable},
			{"Task", doc.Task},
			{"Sorted by", fmt.Sprintf("%s (%s)", doc.SortBy, doc.Order)},
			{"Filter", doc.Filter},
			{"Best model", doc.BestModel},
			{"Summary", doc.Summary},
		}},
		{name: SheetModels, rows: models},
	}
	if len(doc.ClassDistribution) > 0 {
		dist := [][]any{{"Class", "Count", "Percentage"}}
		for _, c := range doc.ClassDistribution {
			dist = append(dist, []any{c.Label, c.Count, results.FormatPercent(c.Percent)})
		}
		sheets = append(sheets, sheet{name: SheetDistribution, rows: dist})
	}
	return workbook(sheets)
}

func predictionsWorkbook(p Predictions) *excelize.File {
	header := []any{"Row"}
	for _, c := range p.Columns {
		header = append(header, c)
	}
	header = append(header, "Prediction", "Effort (days)", "Error")
	rows := [][]any{header}
	for _, r := range p.Rows {
		row := []any{r.Row}
		for _, c := range p.Columns {
			row = append(row, r.Inputs[c])
		}
		if r.Prediction != nil {
			row = append(row, *r.Prediction, *r.EffortDays, "")
		} else {
			row = append(row, "", "", r.Error)
		}
		rows = append(rows, row)
	}
	return workbook([]sheet{{name: SheetPredictions, rows: rows}})
}

func rawMetric(r results.Raw, m results.Metric) *float64 {
	switch m {
	case results.R2:
		return r.R2
	case results.RMSE:
		return r.RMSE
	case results.MAE:
		return r.MAE
	case results.MSE:
		return r.MSE
	case results.Accuracy:
		return r.Accuracy
	}
	return nil
}

// workbook builds a file whose first sheet replaces the default "Sheet1".
// Cell errors cannot occur for in-range coordinates and are ignored.
func workbook(sheets []sheet) *excelize.File {
	f := excelize.NewFile()
	for i, s := range sheets {
		if i == 0 {
			_ = f.SetSheetName("Sheet1", s.name)
		} else {
			_, _ = f.NewSheet(s.name)
		}
		for r, row := range s.rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			_ = f.SetSheetRow(s.name, cell, &row)
		}
	}
	f.SetActiveSheet(0)
	return f
}

func writeWorkbook(path string, f *excelize.File) error {
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
