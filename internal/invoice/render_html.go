package invoice

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/MOR6969/vape-bill/internal/locale"
)

//go:embed templates/document.html.tmpl
var templateFS embed.FS

var documentTmpl = template.Must(template.ParseFS(templateFS, "templates/document.html.tmpl"))

type htmlView struct {
	Lang        string
	Dir         string
	Title       string
	Header      []cell
	Company     Company
	BillTo      string
	Customer    []cell
	Headers     []string
	Groups      []htmlGroup
	Totals      []cell
	GeneratedOn string
}

type htmlGroup struct {
	Name       string
	Image      string
	Summary    cell
	Rows       [][]string
	Footer     cell
	FooterSpan int
}

func renderHTML(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, newHTMLView(doc)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newHTMLView(doc Document) htmlView {
	loc := doc.Locale()
	headers := tableHeaders(doc)
	view := htmlView{
		Lang:  doc.Language.String(),
		Dir:   loc.Dir(),
		Title: doc.Title(),
		Header: []cell{
			{Label: loc.T(locale.KeyDate), Value: loc.Date(doc.IssuedAt)},
			{Label: doc.ReferenceLabel(), Value: doc.ReferenceNo},
		},
		Company: doc.Company,
		BillTo:  loc.T(locale.KeyBillTo),
		Customer: []cell{
			{Value: doc.Customer.Name},
			{Label: loc.T(locale.KeyAddress), Value: doc.Customer.Address},
			{Label: loc.T(locale.KeyPhone), Value: doc.Customer.Phone},
		},
		Headers:     headers,
		Totals:      totals(doc),
		GeneratedOn: doc.GeneratedOn(),
	}

	for _, g := range doc.Groups {
		group := htmlGroup{
			Name:       g.BrandName,
			Image:      g.BrandImage,
			Summary:    cell{Label: loc.T(locale.KeyTotalQuantity), Value: loc.Int(g.TotalQuantity)},
			FooterSpan: len(headers) - 1,
		}
		for _, line := range g.Lines {
			row := []string{line.FlavorName, line.VariantName, loc.Int(line.Quantity)}
			if doc.Priced() {
				row = append(row, loc.Money(line.UnitPrice), loc.Money(line.LineTotal))
			}
			group.Rows = append(group.Rows, row)
		}
		if doc.Priced() {
			group.Footer = cell{Label: loc.T(locale.KeySubtotal) + " (" + g.BrandName + ")", Value: loc.Money(g.Subtotal)}
		} else {
			group.Footer = cell{Label: loc.T(locale.KeyBrandTotalQuantity), Value: loc.Int(g.TotalQuantity)}
		}
		view.Groups = append(view.Groups, group)
	}
	return view
}
