// Package invoice builds printable billing documents from a ledger and renders them
// as HTML, CSV or XLSX.
package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/MOR6969/vape-bill/internal/ledger"
	"github.com/MOR6969/vape-bill/internal/locale"
	"github.com/MOR6969/vape-bill/pkg/enums"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Customer is the freeform bill-to block entered by the operator.
type Customer struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Company is the seller block printed on every document.
type Company struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
}

// Line is one table row of a brand group.
type Line struct {
	FlavorID    string          `json:"flavorId"`
	FlavorName  string          `json:"flavorName"`
	VariantID   string          `json:"variantId"`
	VariantName string          `json:"variantName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// Group is the table printed for one brand.
type Group struct {
	BrandID       string          `json:"brandId"`
	BrandName     string          `json:"brandName"`
	BrandImage    string          `json:"brandImage"`
	Lines         []Line          `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalQuantity int             `json:"totalQuantity"`
}

// Document is a fully resolved export: customer fallbacks applied, totals computed.
type Document struct {
	ID            snowflake.ID     `json:"id"`
	Kind          enums.ExportKind `json:"kind"`
	Language      enums.Language   `json:"language"`
	ReferenceNo   string           `json:"referenceNo"`
	IssuedAt      time.Time        `json:"issuedAt"`
	Company       Company          `json:"company"`
	Customer      Customer         `json:"customer"`
	Groups        []Group          `json:"groups"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	Tax           decimal.Decimal  `json:"tax"`
	TotalAmount   decimal.Decimal  `json:"totalAmount"`
	TotalItems    int              `json:"totalItems"`
	TotalQuantity int              `json:"totalQuantity"`
}

// Locale returns the formatting locale of the document.
func (d Document) Locale() locale.Locale {
	return locale.For(d.Language)
}

// Priced reports whether the document carries price and total columns.
func (d Document) Priced() bool {
	return d.Kind != enums.ExportKindQuantity
}

// Title is the localized document heading.
func (d Document) Title() string {
	if d.Priced() {
		return d.Locale().T(locale.KeyInvoice)
	}
	return d.Locale().T(locale.KeyQuantitySummary)
}

// ReferenceLabel is the localized label printed next to the reference number.
func (d Document) ReferenceLabel() string {
	if d.Priced() {
		return d.Locale().T(locale.KeyInvoiceNo)
	}
	return d.Locale().T(locale.KeyReferenceNo)
}

// GeneratedOn is the localized footer line.
func (d Document) GeneratedOn() string {
	loc := d.Locale()
	key := locale.KeyGeneratedOn
	if !d.Priced() {
		key = locale.KeyQuantityGeneratedOn
	}
	return loc.T(key) + " " + loc.DateTime(d.IssuedAt)
}

// Filename returns the download name for the document in format.
func (d Document) Filename(format enums.ExportFormat) string {
	prefix := "Vape_Invoice"
	if !d.Priced() {
		prefix = "Vape_Quantity"
	}
	return fmt.Sprintf("%s_%s.%s", prefix, d.IssuedAt.Format("1-2-2006"), format.Extension())
}

// Options configures a Builder.
type Options struct {
	Company Company
	// NodeID seeds the snowflake generator; it must be unique per running instance.
	NodeID     int64
	References func(kind enums.ExportKind) string
	Now        func() time.Time
}

// Builder turns ledger snapshots into documents.
type Builder struct {
	company    Company
	node       *snowflake.Node
	references func(kind enums.ExportKind) string
	now        func() time.Time
}

// NewBuilder validates opts and returns a Builder.
func NewBuilder(opts Options) (*Builder, error) {
	node, err := snowflake.NewNode(opts.NodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", opts.NodeID, err)
	}
	refs := opts.References
	if refs == nil {
		refs = NewReference
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Builder{company: opts.Company, node: node, references: refs, now: now}, nil
}

// BuildInput is the snapshot a document is built from.
type BuildInput struct {
	Kind     enums.ExportKind
	Ledger   ledger.Ledger
	Customer Customer
	Language enums.Language
}

// Build assembles the document. It does not guard against an empty ledger.
func (b *Builder) Build(in BuildInput) Document {
	kind := in.Kind
	if !kind.IsValid() {
		kind = enums.ExportKindFull
	}
	loc := locale.For(in.Language)

	doc := Document{
		ID:            b.node.Generate(),
		Kind:          kind,
		Language:      loc.Language(),
		ReferenceNo:   b.references(kind),
		IssuedAt:      b.now(),
		Company:       b.company,
		Customer:      resolveCustomer(in.Customer, loc),
		Groups:        make([]Group, 0),
		Subtotal:      in.Ledger.GrandTotal(),
		Tax:           decimal.Zero,
		TotalAmount:   in.Ledger.GrandTotal(),
		TotalItems:    in.Ledger.Len(),
		TotalQuantity: in.Ledger.TotalQuantity(),
	}

	for _, bg := range ledger.GroupByBrand(in.Ledger) {
		group := Group{
			BrandID:       bg.BrandID,
			BrandName:     bg.BrandName,
			BrandImage:    bg.BrandImage,
			Lines:         make([]Line, 0, len(bg.Items)),
			Subtotal:      bg.Subtotal,
			TotalQuantity: bg.TotalQuantity,
		}
		for _, item := range bg.Items {
			group.Lines = append(group.Lines, Line{
				FlavorID:    item.FlavorID,
				FlavorName:  item.FlavorName,
				VariantID:   item.VariantID,
				VariantName: item.VariantName,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				LineTotal:   item.LineTotal,
			})
		}
		doc.Groups = append(doc.Groups, group)
	}
	return doc
}

func resolveCustomer(c Customer, loc locale.Locale) Customer {
	out := Customer{
		Name:    strings.TrimSpace(c.Name),
		Address: strings.TrimSpace(c.Address),
		Phone:   strings.TrimSpace(c.Phone),
	}
	if out.Name == "" {
		out.Name = loc.T(locale.KeyCustomer)
	}
	if out.Address == "" {
		out.Address = loc.T(locale.KeyNotAvailable)
	}
	if out.Phone == "" {
		out.Phone = loc.T(locale.KeyNotAvailable)
	}
	return out
}
