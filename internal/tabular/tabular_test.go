package tabular

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantHeaders []string
		wantRows    [][]string
	}{
		{
			name:        "trims headers and cells",
			in:          " a , b ,c\n1, 2 ,3\n",
			wantHeaders: []string{"a", "b", "c"},
			wantRows:    [][]string{{"1", "2", "3"}},
		},
		{
			name:        "drops blank and whitespace-only lines",
			in:          "a,b\n\n1,2\n   \n3,4",
			wantHeaders: []string{"a", "b"},
			wantRows:    [][]string{{"1", "2"}, {"3", "4"}},
		},
		{
			name:        "ragged rows pass through",
			in:          "a,b,c\n1,2\n1,2,3,4",
			wantHeaders: []string{"a", "b", "c"},
			wantRows:    [][]string{{"1", "2"}, {"1", "2", "3", "4"}},
		},
		{
			name:        "quoted commas still split",
			in:          "name,city\n\"Doe, J\",Ghent",
			wantHeaders: []string{"name", "city"},
			wantRows:    [][]string{{"\"Doe", "J\"", "Ghent"}},
		},
		{
			name:        "carriage returns are trimmed as whitespace",
			in:          "a,b\r\n1,2\r\n",
			wantHeaders: []string{"a", "b"},
			wantRows:    [][]string{{"1", "2"}},
		},
		{
			name:        "empty content",
			in:          "",
			wantHeaders: []string{""},
			wantRows:    nil,
		},
		{
			name:        "duplicate headers kept",
			in:          "x,x\n1,2",
			wantHeaders: []string{"x", "x"},
			wantRows:    [][]string{{"1", "2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			if !reflect.DeepEqual(got.Headers, tt.wantHeaders) {
				t.Fatalf("Headers = %q, want %q", got.Headers, tt.wantHeaders)
			}
			if !reflect.DeepEqual(got.Rows, tt.wantRows) {
				t.Fatalf("Rows = %q, want %q", got.Rows, tt.wantRows)
			}
		})
	}
}

func TestTable_ColumnAndRagged(t *testing.T) {
	tbl := Parse("a,b,c\n1,2,3\n4,5\n6,7,8")
	if got := tbl.Column("b"); got != 1 {
		t.Fatalf("Column(b) = %d, want 1", got)
	}
	if got := tbl.Column("zzz"); got != -1 {
		t.Fatalf("Column(zzz) = %d, want -1", got)
	}
	if got := tbl.Ragged(); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("Ragged() = %v, want [1]", got)
	}
}

func TestTable_Records(t *testing.T) {
	tbl := Parse("loc,rely\n42.5,1.1\n7")
	recs := tbl.Records()
	if len(recs) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(recs))
	}
	if recs[0]["loc"] != "42.5" || recs[0]["rely"] != "1.1" {
		t.Fatalf("record 0 = %v", recs[0])
	}
	if _, ok := recs[1]["rely"]; ok {
		t.Fatalf("short row must not carry a value for rely: %v", recs[1])
	}
}
