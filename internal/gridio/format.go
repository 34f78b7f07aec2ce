package gridio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a file encoding.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	HCL  Format = "hcl"
)

// FormatOf derives the format from path's extension.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return JSON, nil
	case ".csv":
		return CSV, nil
	case ".xlsx":
		return XLSX, nil
	case ".hcl":
		return HCL, nil
	default:
		return "", fmt.Errorf("unsupported file extension %q", ext)
	}
}
