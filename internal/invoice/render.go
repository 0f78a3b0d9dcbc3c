package invoice

import (
	"fmt"

	"github.com/MOR6969/vape-bill/internal/locale"
	"github.com/MOR6969/vape-bill/pkg/enums"
)

// Rendered is a document encoded for download.
type Rendered struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Render encodes doc in format.
func Render(doc Document, format enums.ExportFormat) (Rendered, error) {
	var (
		body []byte
		err  error
	)
	switch format {
	case enums.ExportFormatHTML:
		body, err = renderHTML(doc)
	case enums.ExportFormatCSV:
		body, err = renderCSV(doc)
	case enums.ExportFormatXLSX:
		body, err = renderXLSX(doc)
	default:
		return Rendered{}, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return Rendered{}, fmt.Errorf("render %s: %w", format, err)
	}
	return Rendered{
		Filename:    doc.Filename(format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

// cell is a label/value pair of the header and totals blocks.
type cell struct {
	Label  string
	Value  string
	Strong bool
}

// tableHeaders returns the localized column titles for doc.
func tableHeaders(doc Document) []string {
	loc := doc.Locale()
	headers := []string{loc.T(locale.KeyFlavor), loc.T(locale.KeyVariant), loc.T(locale.KeyQuantity)}
	if doc.Priced() {
		headers = append(headers, loc.T(locale.KeyPrice), loc.T(locale.KeyTotal))
	}
	return headers
}

// totals returns the closing block of doc.
func totals(doc Document) []cell {
	loc := doc.Locale()
	if doc.Priced() {
		return []cell{
			{Label: loc.T(locale.KeySubtotal), Value: loc.Money(doc.Subtotal)},
			{Label: loc.T(locale.KeyTax), Value: loc.Money(doc.Tax)},
			{Label: loc.T(locale.KeyTotalAmount), Value: loc.Money(doc.TotalAmount), Strong: true},
		}
	}
	return []cell{
		{Label: loc.T(locale.KeyTotalItems), Value: loc.Int(doc.TotalItems)},
		{Label: loc.T(locale.KeyTotalQuantity), Value: loc.Int(doc.TotalQuantity), Strong: true},
	}
}
