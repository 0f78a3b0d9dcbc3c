package invoice

import (
	"regexp"
	"testing"
	"time"

	"github.com/MOR6969/vape-bill/internal/ledger"
	"github.com/MOR6969/vape-bill/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.March, 4, 15, 6, 7, 0, time.UTC)

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(Options{
		Company: Company{Name: "Sierra Vape", Address: "Al Rigga, Dubai, UAE", Phone: "(971) 54 473 3331"},
		NodeID:  1,
		References: func(kind enums.ExportKind) string {
			return kind.ReferencePrefix() + "-123456"
		},
		Now: func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return b
}

func sampleLedger() ledger.Ledger {
	elfbar := ledger.BrandContext{ID: "elfbar", Name: "ELFBAR", Image: "/images/elfbar-seeklogo.png"}
	sierra := ledger.BrandContext{ID: "sierra", Name: "SIERRA", Image: "/images/logo.png"}
	return ledger.Ledger{}.
		Upsert(ledger.UpsertInput{FlavorID: "bc10000", VariantID: "apple-ice-5", Quantity: 3, UnitPrice: decimal.NewFromInt(10), FlavorName: "BC10000", VariantName: "Apple Ice 5%", Brand: elfbar}).
		Upsert(ledger.UpsertInput{FlavorID: "premium-mint", VariantID: "cool-mint", Quantity: 2, UnitPrice: decimal.RequireFromString("7.5"), FlavorName: "Premium Mint", VariantName: "Cool Mint", Brand: sierra}).
		Upsert(ledger.UpsertInput{FlavorID: "iceking", VariantID: "grape-ice-5", Quantity: 1, UnitPrice: decimal.NewFromInt(20), FlavorName: "Ice King", VariantName: "Grape Ice 5%", Brand: elfbar})
}

func TestBuildFullInvoice(t *testing.T) {
	doc := testBuilder(t).Build(BuildInput{
		Kind:     enums.ExportKindFull,
		Ledger:   sampleLedger(),
		Customer: Customer{Name: "  Omar  ", Phone: "050 111"},
		Language: enums.LanguageEnglish,
	})

	assert.NotZero(t, doc.ID)
	assert.Equal(t, "INV-123456", doc.ReferenceNo)
	assert.Equal(t, "Invoice", doc.Title())
	assert.Equal(t, "Invoice No.", doc.ReferenceLabel())
	assert.True(t, doc.Priced())
	assert.Equal(t, "Omar", doc.Customer.Name)
	assert.Equal(t, "N/A", doc.Customer.Address)
	assert.Equal(t, "050 111", doc.Customer.Phone)

	require.Len(t, doc.Groups, 2)
	assert.Equal(t, "ELFBAR", doc.Groups[0].BrandName)
	assert.Len(t, doc.Groups[0].Lines, 2)
	assert.Equal(t, "50", doc.Groups[0].Subtotal.String())
	assert.Equal(t, 4, doc.Groups[0].TotalQuantity)
	assert.Equal(t, "15", doc.Groups[1].Subtotal.String())

	assert.Equal(t, "65", doc.Subtotal.String())
	assert.True(t, doc.Tax.IsZero())
	assert.Equal(t, "65", doc.TotalAmount.String())
	assert.Equal(t, 3, doc.TotalItems)
	assert.Equal(t, 6, doc.TotalQuantity)
	assert.Equal(t, "Invoice generated on 3/4/2026, 3:06:07 PM", doc.GeneratedOn())
}

func TestBuildQuantitySummaryArabic(t *testing.T) {
	doc := testBuilder(t).Build(BuildInput{
		Kind:     enums.ExportKindQuantity,
		Ledger:   sampleLedger(),
		Language: enums.LanguageArabic,
	})

	assert.Equal(t, "QTY-123456", doc.ReferenceNo)
	assert.False(t, doc.Priced())
	assert.Equal(t, "ملخص الكميات", doc.Title())
	assert.Equal(t, "الرقم المرجعي", doc.ReferenceLabel())
	assert.Equal(t, "العميل", doc.Customer.Name)
	assert.Equal(t, "N/A", doc.Customer.Phone)
}

func TestBuildDefaultsInvalidKindAndLanguage(t *testing.T) {
	doc := testBuilder(t).Build(BuildInput{Kind: "bogus", Ledger: sampleLedger(), Language: "fr"})
	assert.Equal(t, enums.ExportKindFull, doc.Kind)
	assert.Equal(t, enums.LanguageEnglish, doc.Language)
}

func TestDocumentIDsAreUnique(t *testing.T) {
	b := testBuilder(t)
	seen := map[int64]bool{}
	for i := 0; i < 100; i++ {
		id := b.Build(BuildInput{Ledger: sampleLedger()}).ID.Int64()
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestNewBuilderRejectsBadNode(t *testing.T) {
	_, err := NewBuilder(Options{NodeID: 5000})
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	b := testBuilder(t)
	full := b.Build(BuildInput{Kind: enums.ExportKindFull, Ledger: sampleLedger()})
	qty := b.Build(BuildInput{Kind: enums.ExportKindQuantity, Ledger: sampleLedger()})

	assert.Equal(t, "Vape_Invoice_3-4-2026.html", full.Filename(enums.ExportFormatHTML))
	assert.Equal(t, "Vape_Quantity_3-4-2026.xlsx", qty.Filename(enums.ExportFormatXLSX))
}

func TestNewReferenceRange(t *testing.T) {
	re := regexp.MustCompile(`^(INV|QTY)-[1-9]\d{5}$`)
	for i := 0; i < 500; i++ {
		ref := NewReference(enums.ExportKindFull)
		require.Regexp(t, re, ref)
		require.Contains(t, ref, "INV-")
	}
	assert.Regexp(t, re, NewReference(enums.ExportKindQuantity))
	assert.Contains(t, NewReference(enums.ExportKindQuantity), "QTY-")
}
