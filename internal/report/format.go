package report

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an export format.
type Format string

const (
	FormatAuto      Format = "auto"
	FormatJSON      Format = "json"
	FormatYAML      Format = "yaml"
	FormatXLSX      Format = "xlsx"
	FormatCycloneDX Format = "cyclonedx"
)

// ParseFormat accepts a format name; "" means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, FormatYAML, FormatXLSX, FormatCycloneDX:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "cdx":
		return FormatCycloneDX, nil
	}
	return "", fmt.Errorf("unsupported report format: %q (expected auto|json|yaml|xlsx|cyclonedx)", s)
}

// Resolve picks the concrete format for path. Auto detection uses the file
// extension; ".cdx.json" and ".cdx.xml" select CycloneDX.
func Resolve(path string, f Format) (Format, error) {
	if f != "" && f != FormatAuto {
		return f, nil
	}
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".cdx.json"), strings.HasSuffix(lower, ".cdx.xml"):
		return FormatCycloneDX, nil
	}
	switch filepath.Ext(lower) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xml":
		return FormatCycloneDX, nil
	}
	return "", fmt.Errorf("cannot infer report format from %q; pass --format", path)
}
