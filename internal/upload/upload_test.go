package upload

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/idlab-discover/modelmaster-cli/internal/apperr"
)

func TestGate_AcceptCSV(t *testing.T) {
	var g Gate
	f := RawFile{Name: "data.csv", Size: 3, Data: []byte("a,b")}
	got, err := g.Accept(f)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if got.Name != "data.csv" {
		t.Fatalf("Accept returned %q", got.Name)
	}
	if sel := g.Selected(); sel == nil || sel.Name != "data.csv" {
		t.Fatalf("Selected = %v", sel)
	}
}

func TestGate_UppercaseExtensionRejected(t *testing.T) {
	var g Gate
	_, err := g.Accept(RawFile{Name: "data.CSV"})
	if !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("expected ErrInvalidFileType, got %v", err)
	}
	if !apperr.IsUser(err) {
		t.Fatalf("invalid file type must be a user error")
	}
}

func TestGate_RejectionKeepsPreviousSelection(t *testing.T) {
	var g Gate
	if _, err := g.Accept(RawFile{Name: "first.csv"}); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := g.Accept(RawFile{Name: "notes.txt"}); err == nil {
		t.Fatalf("expected rejection")
	}
	if sel := g.Selected(); sel == nil || sel.Name != "first.csv" {
		t.Fatalf("previous selection lost: %v", sel)
	}

	if _, err := g.Accept(RawFile{Name: "second.csv"}); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if sel := g.Selected(); sel.Name != "second.csv" {
		t.Fatalf("Selected = %q, want second.csv", sel.Name)
	}
}

func TestValid(t *testing.T) {
	cases := map[string]bool{
		"data.csv":     true,
		"a.b.csv":      true,
		"data.CSV":     false,
		"data.csv.bak": false,
		"csv":          false,
		"":             false,
	}
	for name, want := range cases {
		if got := Valid(name); got != want {
			t.Fatalf("Valid(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestReadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cocomo.csv")
	if err := os.WriteFile(p, []byte("loc,effort\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := ReadFile(p)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if f.Name != "cocomo.csv" || f.Size != 15 {
		t.Fatalf("got name=%q size=%d", f.Name, f.Size)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestGate_NilSelected(t *testing.T) {
	var g *Gate
	if g.Selected() != nil {
		t.Fatalf("nil gate must report no selection")
	}
}
