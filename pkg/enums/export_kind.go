package enums

import (
	"fmt"
	"strings"
)

// ExportKind selects between the priced invoice and the quantity-only summary.
type ExportKind string

const (
	ExportKindFull     ExportKind = "full"
	ExportKindQuantity ExportKind = "quantity"
)

var validExportKinds = []ExportKind{
	ExportKindFull,
	ExportKindQuantity,
}

// String implements fmt.Stringer.
func (k ExportKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known ExportKind.
func (k ExportKind) IsValid() bool {
	for _, candidate := range validExportKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ReferencePrefix returns the document reference prefix for the kind.
func (k ExportKind) ReferencePrefix() string {
	if k == ExportKindQuantity {
		return "QTY"
	}
	return "INV"
}

// ParseExportKind converts raw input into an ExportKind. Empty input selects the full invoice.
func ParseExportKind(value string) (ExportKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return ExportKindFull, nil
	}
	for _, candidate := range validExportKinds {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid export kind %q", value)
}
