package enums

import (
	"fmt"
	"strings"
)

// ExportFormat is the rendered document format.
type ExportFormat string

const (
	ExportFormatHTML ExportFormat = "html"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

var validExportFormats = []ExportFormat{
	ExportFormatHTML,
	ExportFormatCSV,
	ExportFormatXLSX,
}

// String implements fmt.Stringer.
func (f ExportFormat) String() string {
	return string(f)
}

// IsValid reports whether the value is a known ExportFormat.
func (f ExportFormat) IsValid() bool {
	for _, candidate := range validExportFormats {
		if candidate == f {
			return true
		}
	}
	return false
}

// Extension returns the file extension, without the dot.
func (f ExportFormat) Extension() string {
	return string(f)
}

// ContentType returns the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatCSV:
		return "text/csv; charset=utf-8"
	case ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/html; charset=utf-8"
	}
}

// ParseExportFormat converts raw input into an ExportFormat. Empty input selects HTML.
func ParseExportFormat(value string) (ExportFormat, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return ExportFormatHTML, nil
	}
	for _, candidate := range validExportFormats {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid export format %q", value)
}
