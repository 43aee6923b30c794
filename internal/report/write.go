package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Write exports doc to path.
func Write(doc Document, path string, format Format) error {
	actual, err := Resolve(path, format)
	if err != nil {
		return err
	}
	if actual == FormatXLSX {
		return writeWorkbook(path, documentWorkbook(doc))
	}
	return writeFile(path, func(w io.Writer) error { return Encode(w, doc, actual, path) })
}

// Encode writes doc to w. path only picks the CycloneDX flavor (.xml or JSON).
func Encode(w io.Writer, doc Document, format Format, path string) error {
	switch format {
	case FormatJSON, FormatAuto, "":
		return encodeJSON(w, doc)
	case FormatYAML:
		return encodeYAML(w, doc)
	case FormatCycloneDX:
		return encodeCycloneDX(w, doc, strings.EqualFold(filepath.Ext(path), ".xml"))
	case FormatXLSX:
		wb := documentWorkbook(doc)
		defer wb.Close()
		return wb.Write(w)
	}
	return fmt.Errorf("unsupported report format: %q", format)
}

// WritePredictions exports a batch prediction to path.
func WritePredictions(p Predictions, path string, format Format) error {
	actual, err := Resolve(path, format)
	if err != nil {
		return err
	}
	switch actual {
	case FormatXLSX:
		return writeWorkbook(path, predictionsWorkbook(p))
	case FormatJSON:
		return writeFile(path, func(w io.Writer) error { return encodeJSON(w, p) })
	case FormatYAML:
		return writeFile(path, func(w io.Writer) error { return encodeYAML(w, p) })
	}
	return fmt.Errorf("format %q is not available for predictions", actual)
}

func writeFile(path string, encode func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
