package invoice

import (
	"github.com/MOR6969/vape-bill/internal/locale"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxSheetInvoice  = "Invoice"
	xlsxSheetQuantity = "Quantity"
	moneyNumFmt       = "#,##0.00"
)

type sheetWriter struct {
	f      *excelize.File
	sheet  string
	row    int
	bold   int
	header int
	money  int
}

func renderXLSX(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := xlsxSheetInvoice
	if !doc.Priced() {
		sheet = xlsxSheetQuantity
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}
	if doc.Language.IsRTL() {
		rtl := true
		if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
			return nil, err
		}
	}

	w, err := newSheetWriter(f, sheet)
	if err != nil {
		return nil, err
	}
	if err := w.writeDocument(doc); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", "B", 28); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "C", "E", 16); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newSheetWriter(f *excelize.File, sheet string) (*sheetWriter, error) {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"EFF6FF"}},
	})
	if err != nil {
		return nil, err
	}
	numFmt := moneyNumFmt
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, err
	}
	return &sheetWriter{f: f, sheet: sheet, bold: bold, header: header, money: money}, nil
}

func (w *sheetWriter) writeDocument(doc Document) error {
	loc := doc.Locale()

	if err := w.styled(w.bold, doc.Title()); err != nil {
		return err
	}
	steps := [][]any{
		{loc.T(locale.KeyDate), loc.Date(doc.IssuedAt)},
		{doc.ReferenceLabel(), doc.ReferenceNo},
		{},
	}
	for _, values := range steps {
		if err := w.plain(values...); err != nil {
			return err
		}
	}

	if err := w.styled(w.bold, doc.Company.Name); err != nil {
		return err
	}
	company := [][]any{{doc.Company.Address}}
	if doc.Company.Phone != "" {
		company = append(company, []any{"Tel: " + doc.Company.Phone})
	}
	if doc.Company.Email != "" {
		company = append(company, []any{doc.Company.Email})
	}
	company = append(company, []any{})
	for _, values := range company {
		if err := w.plain(values...); err != nil {
			return err
		}
	}

	if err := w.styled(w.bold, loc.T(locale.KeyBillTo)); err != nil {
		return err
	}
	customer := [][]any{
		{doc.Customer.Name},
		{loc.T(locale.KeyAddress), doc.Customer.Address},
		{loc.T(locale.KeyPhone), doc.Customer.Phone},
		{},
	}
	for _, values := range customer {
		if err := w.plain(values...); err != nil {
			return err
		}
	}

	headers := tableHeaders(doc)
	for _, g := range doc.Groups {
		if err := w.styled(w.bold, g.BrandName, loc.T(locale.KeyTotalQuantity), g.TotalQuantity); err != nil {
			return err
		}
		if err := w.styled(w.header, toAny(headers)...); err != nil {
			return err
		}
		for _, line := range g.Lines {
			values := []any{line.FlavorName, line.VariantName, line.Quantity}
			if doc.Priced() {
				values = append(values, line.UnitPrice.InexactFloat64(), line.LineTotal.InexactFloat64())
			}
			if err := w.moneyRow(values...); err != nil {
				return err
			}
		}
		if doc.Priced() {
			err := w.moneyRow(nil, nil, nil, loc.T(locale.KeySubtotal)+" ("+g.BrandName+")", g.Subtotal.InexactFloat64())
			if err != nil {
				return err
			}
		} else if err := w.styled(w.bold, nil, loc.T(locale.KeyBrandTotalQuantity), g.TotalQuantity); err != nil {
			return err
		}
		if err := w.plain(); err != nil {
			return err
		}
	}

	for _, c := range totals(doc) {
		style := 0
		if c.Strong {
			style = w.bold
		}
		if err := w.styled(style, c.Label, c.Value); err != nil {
			return err
		}
	}
	if err := w.plain(); err != nil {
		return err
	}
	return w.plain(doc.GeneratedOn())
}

// plain writes values on the next row.
func (w *sheetWriter) plain(values ...any) error {
	return w.styled(0, values...)
}

// styled writes values on the next row and applies style to the written cells.
func (w *sheetWriter) styled(style int, values ...any) error {
	w.row++
	if len(values) == 0 {
		return nil
	}
	start, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(w.sheet, start, &values); err != nil {
		return err
	}
	if style == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values), w.row)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, start, end, style)
}

// moneyRow writes values and applies the money format from column D onward.
func (w *sheetWriter) moneyRow(values ...any) error {
	if err := w.plain(values...); err != nil {
		return err
	}
	if len(values) < 4 {
		return nil
	}
	start, err := excelize.CoordinatesToCellName(4, w.row)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(len(values), w.row)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, start, end, w.money)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
