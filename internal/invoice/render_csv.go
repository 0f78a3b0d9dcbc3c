package invoice

import (
	"strconv"

	"github.com/gocarina/gocsv"
)

const utf8BOM = "\xEF\xBB\xBF"

const (
	csvSectionLine               = "line"
	csvSectionBrandSubtotal      = "brand_subtotal"
	csvSectionBrandTotalQuantity = "brand_total_quantity"
	csvSectionSubtotal           = "subtotal"
	csvSectionTax                = "tax"
	csvSectionTotalAmount        = "total_amount"
	csvSectionTotalItems         = "total_items"
	csvSectionTotalQuantity      = "total_quantity"
)

type csvPricedRow struct {
	Reference string `csv:"reference_no"`
	Section   string `csv:"section"`
	Brand     string `csv:"brand"`
	Flavor    string `csv:"flavor"`
	Variant   string `csv:"variant"`
	Quantity  string `csv:"quantity"`
	UnitPrice string `csv:"unit_price"`
	Total     string `csv:"total"`
}

type csvQuantityRow struct {
	Reference string `csv:"reference_no"`
	Section   string `csv:"section"`
	Brand     string `csv:"brand"`
	Flavor    string `csv:"flavor"`
	Variant   string `csv:"variant"`
	Quantity  string `csv:"quantity"`
}

// renderCSV writes one row per line plus subtotal and total rows. Amounts are plain
// two-decimal numbers so spreadsheets can sum them.
func renderCSV(doc Document) ([]byte, error) {
	var (
		body []byte
		err  error
	)
	if doc.Priced() {
		body, err = gocsv.MarshalBytes(pricedRows(doc))
	} else {
		body, err = gocsv.MarshalBytes(quantityRows(doc))
	}
	if err != nil {
		return nil, err
	}
	return append([]byte(utf8BOM), body...), nil
}

func pricedRows(doc Document) []*csvPricedRow {
	rows := make([]*csvPricedRow, 0, doc.TotalItems+len(doc.Groups)+3)
	for _, g := range doc.Groups {
		for _, line := range g.Lines {
			rows = append(rows, &csvPricedRow{
				Reference: doc.ReferenceNo,
				Section:   csvSectionLine,
				Brand:     g.BrandName,
				Flavor:    line.FlavorName,
				Variant:   line.VariantName,
				Quantity:  strconv.Itoa(line.Quantity),
				UnitPrice: line.UnitPrice.StringFixed(2),
				Total:     line.LineTotal.StringFixed(2),
			})
		}
		rows = append(rows, &csvPricedRow{
			Reference: doc.ReferenceNo,
			Section:   csvSectionBrandSubtotal,
			Brand:     g.BrandName,
			Quantity:  strconv.Itoa(g.TotalQuantity),
			Total:     g.Subtotal.StringFixed(2),
		})
	}
	rows = append(rows,
		&csvPricedRow{Reference: doc.ReferenceNo, Section: csvSectionSubtotal, Total: doc.Subtotal.StringFixed(2)},
		&csvPricedRow{Reference: doc.ReferenceNo, Section: csvSectionTax, Total: doc.Tax.StringFixed(2)},
		&csvPricedRow{Reference: doc.ReferenceNo, Section: csvSectionTotalAmount, Quantity: strconv.Itoa(doc.TotalQuantity), Total: doc.TotalAmount.StringFixed(2)},
	)
	return rows
}

func quantityRows(doc Document) []*csvQuantityRow {
	rows := make([]*csvQuantityRow, 0, doc.TotalItems+len(doc.Groups)+2)
	for _, g := range doc.Groups {
		for _, line := range g.Lines {
			rows = append(rows, &csvQuantityRow{
				Reference: doc.ReferenceNo,
				Section:   csvSectionLine,
				Brand:     g.BrandName,
				Flavor:    line.FlavorName,
				Variant:   line.VariantName,
				Quantity:  strconv.Itoa(line.Quantity),
			})
		}
		rows = append(rows, &csvQuantityRow{
			Reference: doc.ReferenceNo,
			Section:   csvSectionBrandTotalQuantity,
			Brand:     g.BrandName,
			Quantity:  strconv.Itoa(g.TotalQuantity),
		})
	}
	rows = append(rows,
		&csvQuantityRow{Reference: doc.ReferenceNo, Section: csvSectionTotalItems, Quantity: strconv.Itoa(doc.TotalItems)},
		&csvQuantityRow{Reference: doc.ReferenceNo, Section: csvSectionTotalQuantity, Quantity: strconv.Itoa(doc.TotalQuantity)},
	)
	return rows
}
