// Package tabular splits raw comma-delimited text into a header row and data
// rows. It does no schema inference and no type coercion, and it does not
// understand quoting: a comma inside a quoted field still splits the cell.
package tabular

import (
	"strings"
)

// Table is the result of Parse.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Parse splits content on line breaks. The first line yields the headers; every
// remaining non-blank line yields a row. Headers and cells are trimmed of
// surrounding whitespace. Ragged rows pass through uninspected.
func Parse(content string) Table {
	lines := strings.Split(content, "\n")

	t := Table{Headers: splitLine(lines[0])}
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		t.Rows = append(t.Rows, splitLine(line))
	}
	return t
}

func splitLine(line string) []string {
	cells := strings.Split(line, ",")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

// Column returns the index of the first header equal to name, or -1.
func (t Table) Column(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Ragged returns the indexes of rows whose cell count differs from the header count.
func (t Table) Ragged() []int {
	var out []int
	for i, r := range t.Rows {
		if len(r) != len(t.Headers) {
			out = append(out, i)
		}
	}
	return out
}

// Records maps each row onto the headers. Missing trailing cells are left out
// of the record and extra cells are dropped.
func (t Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		rec := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(r) {
				rec[h] = r[i]
			}
		}
		out = append(out, rec)
	}
	return out
}
