package ui

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

// DatasetPreview is the parsed head of a CSV file.
type DatasetPreview struct {
	FileName  string
	Size      int64
	Headers   []string
	Rows      [][]string // first rows only
	TotalRows int
	Ragged    []int // indexes into the full row list
	Columns   []ColumnInfo
}

// DatasetUI renders the inspect command output.
type DatasetUI struct {
	writer io.Writer
	quiet  bool
}

// NewDatasetUI creates a new UI handler for the inspect command.
func NewDatasetUI(w io.Writer, quiet bool) *DatasetUI {
	return &DatasetUI{writer: w, quiet: quiet}
}

// PrintPreview renders the file summary, the column list and the first rows.
func (d *DatasetUI) PrintPreview(p DatasetPreview) {
	if d.quiet {
		return
	}

	var out strings.Builder
	out.WriteString(Title.Render(p.FileName))
	out.WriteString(" " + Dim.Render(fmt.Sprintf("(%d bytes)", p.Size)))
	out.WriteString("\n")
	out.WriteString(FormatKeyValue("Columns", fmt.Sprintf("%d", len(p.Headers))))
	out.WriteString("  ")
	out.WriteString(FormatKeyValue("Rows", fmt.Sprintf("%d", p.TotalRows)))
	out.WriteString("\n\n")

	out.WriteString(SectionHeader.Render("Columns"))
	out.WriteString("\n")
	for _, c := range p.Columns {
		kind := "categorical"
		if c.Numeric {
			kind = "numeric"
		}
		out.WriteString(fmt.Sprintf("%s %s %s\n", GetBullet(), Bold.Render(c.Name), Dim.Render(kind)))
	}

	if len(p.Rows) > 0 {
		out.WriteString("\n")
		out.WriteString(SectionHeader.Render(fmt.Sprintf("First %d rows", len(p.Rows))))
		out.WriteString("\n")
		out.WriteString(RenderGrid(p.Headers, p.Rows, raggedSet(p.Ragged)))
		out.WriteString("\n")
	}

	if len(p.Ragged) > 0 {
		out.WriteString("\n")
		out.WriteString(FormatStatus("warning", Warning.Render(fmt.Sprintf(
			"%d row(s) have a different number of cells than the header: %s",
			len(p.Ragged), formatRows(p.Ragged)))))
		out.WriteString("\n")
	}

	fmt.Fprint(d.writer, out.String())
}

// RenderGrid renders rows under headers. Rows whose index is in flagged are
// drawn in the warning color.
func RenderGrid(headers []string, rows [][]string, flagged map[int]bool) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return s.Foreground(ColorPrimary).Bold(true)
			case flagged[row]:
				return s.Foreground(ColorWarning)
			}
			return s
		})
	return t.Render()
}

func raggedSet(idx []int) map[int]bool {
	m := make(map[int]bool, len(idx))
	for _, i := range idx {
		m[i] = true
	}
	return m
}

// formatRows lists 1-based data row numbers, capped at ten.
func formatRows(idx []int) string {
	const limit = 10
	parts := make([]string, 0, limit)
	for i, r := range idx {
		if i == limit {
			parts = append(parts, fmt.Sprintf("and %d more", len(idx)-limit))
			break
		}
		parts = append(parts, fmt.Sprintf("%d", r+1))
	}
	return strings.Join(parts, ", ")
}
