// Package upload holds the currently selected dataset file and decides which
// files may enter the analysis workflow.
package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/idlab-discover/modelmaster-cli/internal/apperr"
)

// Extension is the only accepted file suffix. Matching is case-sensitive, so
// "data.CSV" is rejected just like "data.xlsx".
const Extension = ".csv"

// ErrInvalidFileType is returned by Gate.Accept for files without the .csv suffix.
var ErrInvalidFileType = apperr.Titled("Invalid file type", "Please upload a CSV file")

// RawFile is an opaque blob selected by the user. It is never mutated after
// creation.
type RawFile struct {
	Name string
	Size int64
	Data []byte
}

// ReadFile loads path from disk into a RawFile named after its base name.
func ReadFile(path string) (RawFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return RawFile{}, fmt.Errorf("read dataset: %w", err)
	}
	return RawFile{Name: filepath.Base(path), Size: int64(len(b)), Data: b}, nil
}

// Valid reports whether name carries the accepted extension.
func Valid(name string) bool {
	return strings.HasSuffix(name, Extension)
}

// Gate owns the "currently selected file". Accept is its only mutation point.
type Gate struct {
	selected *RawFile
}

// Accept replaces the selected file when f is a CSV file. A rejected file
// leaves the previous selection in place.
func (g *Gate) Accept(f RawFile) (RawFile, error) {
	if !Valid(f.Name) {
		return RawFile{}, ErrInvalidFileType
	}
	g.selected = &f
	return f, nil
}

// Selected returns the currently held file, or nil.
func (g *Gate) Selected() *RawFile {
	if g == nil {
		return nil
	}
	return g.selected
}

// Clear drops the current selection.
func (g *Gate) Clear() { g.selected = nil }
