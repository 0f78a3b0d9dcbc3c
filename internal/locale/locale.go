// Package locale maps the display language to document labels and number/date formats.
package locale

import (
	"time"

	"github.com/MOR6969/vape-bill/pkg/enums"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Key names a translatable document label.
type Key string

const (
	KeyInvoice             Key = "invoice"
	KeyQuantitySummary     Key = "quantitySummary"
	KeyDate                Key = "date"
	KeyInvoiceNo           Key = "invoiceNo"
	KeyReferenceNo         Key = "referenceNo"
	KeyBillTo              Key = "billTo"
	KeyCustomer            Key = "customer"
	KeyAddress             Key = "address"
	KeyPhone               Key = "phone"
	KeyBrand               Key = "brand"
	KeyFlavor              Key = "flavor"
	KeyVariant             Key = "variant"
	KeyQuantity            Key = "quantity"
	KeyPrice               Key = "price"
	KeyTotal               Key = "total"
	KeySubtotal            Key = "subtotal"
	KeyTax                 Key = "tax"
	KeyTotalAmount         Key = "totalAmount"
	KeyGeneratedOn         Key = "generatedOn"
	KeyQuantityGeneratedOn Key = "quantityGeneratedOn"
	KeyTotalQuantity       Key = "totalQuantity"
	KeyBrandTotalQuantity  Key = "brandTotalQuantity"
	KeyTotalItems          Key = "totalItems"
	KeyNotAvailable        Key = "notAvailable"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "$"

var tables = map[enums.Language]map[Key]string{
	enums.LanguageEnglish: {
		KeyInvoice:             "Invoice",
		KeyQuantitySummary:     "Quantity Summary",
		KeyDate:                "Date",
		KeyInvoiceNo:           "Invoice No.",
		KeyReferenceNo:         "Reference No.",
		KeyBillTo:              "Bill To",
		KeyCustomer:            "Customer",
		KeyAddress:             "Address",
		KeyPhone:               "Phone",
		KeyBrand:               "Brand",
		KeyFlavor:              "Flavor",
		KeyVariant:             "Variant",
		KeyQuantity:            "Quantity",
		KeyPrice:               "Price",
		KeyTotal:               "Total",
		KeySubtotal:            "Subtotal",
		KeyTax:                 "Tax",
		KeyTotalAmount:         "Total Amount",
		KeyGeneratedOn:         "Invoice generated on",
		KeyQuantityGeneratedOn: "Quantity summary generated on",
		KeyTotalQuantity:       "Total Quantity",
		KeyBrandTotalQuantity:  "Brand Total Quantity",
		KeyTotalItems:          "Total Items",
		KeyNotAvailable:        "N/A",
	},
	enums.LanguageArabic: {
		KeyInvoice:             "فاتورة",
		KeyQuantitySummary:     "ملخص الكميات",
		KeyDate:                "التاريخ",
		KeyInvoiceNo:           "رقم الفاتورة",
		KeyReferenceNo:         "الرقم المرجعي",
		KeyBillTo:              "فاتورة إلى",
		KeyCustomer:            "العميل",
		KeyAddress:             "العنوان",
		KeyPhone:               "الهاتف",
		KeyBrand:               "العلامة التجارية",
		KeyFlavor:              "النكهة",
		KeyVariant:             "النوع",
		KeyQuantity:            "الكمية",
		KeyPrice:               "السعر",
		KeyTotal:               "المجموع",
		KeySubtotal:            "المجموع الفرعي",
		KeyTax:                 "الضريبة",
		KeyTotalAmount:         "المبلغ الإجمالي",
		KeyGeneratedOn:         "تم إنشاء الفاتورة في",
		KeyQuantityGeneratedOn: "تم إنشاء ملخص الكميات في",
		KeyTotalQuantity:       "إجمالي الكمية",
		KeyBrandTotalQuantity:  "إجمالي كمية العلامة التجارية",
		KeyTotalItems:          "إجمالي الأصناف",
		KeyNotAvailable:        "N/A",
	},
}

var dateLayouts = map[enums.Language]struct{ date, dateTime string }{
	enums.LanguageEnglish: {date: "1/2/2006", dateTime: "1/2/2006, 3:04:05 PM"},
	enums.LanguageArabic:  {date: "02/01/2006", dateTime: "02/01/2006، 15:04:05"},
}

// Locale formats labels, amounts and dates for one language.
type Locale struct {
	lang    enums.Language
	printer *message.Printer
}

// For returns the locale for lang, falling back to English for unknown values.
func For(lang enums.Language) Locale {
	if !lang.IsValid() {
		lang = enums.LanguageEnglish
	}
	// Amounts keep Latin digits in both languages.
	return Locale{lang: lang, printer: message.NewPrinter(language.English)}
}

// Language returns the resolved language.
func (l Locale) Language() enums.Language {
	if l.lang == "" {
		return enums.LanguageEnglish
	}
	return l.lang
}

// T returns the label for key. Unknown keys fall back to English, then to the key itself.
func (l Locale) T(key Key) string {
	if v, ok := tables[l.Language()][key]; ok {
		return v
	}
	if v, ok := tables[enums.LanguageEnglish][key]; ok {
		return v
	}
	return string(key)
}

// Dir returns the HTML text direction.
func (l Locale) Dir() string {
	if l.Language().IsRTL() {
		return "rtl"
	}
	return "ltr"
}

// Number formats an amount with two decimals and digit grouping.
func (l Locale) Number(d decimal.Decimal) string {
	return l.p().Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// Money formats an amount with the currency symbol.
func (l Locale) Money(d decimal.Decimal) string {
	return CurrencySymbol + l.Number(d)
}

// Int formats an integer with digit grouping.
func (l Locale) Int(n int) string {
	return l.p().Sprintf("%d", n)
}

// Date formats the calendar date of t.
func (l Locale) Date(t time.Time) string {
	return t.Format(dateLayouts[l.Language()].date)
}

// DateTime formats t with a time of day.
func (l Locale) DateTime(t time.Time) string {
	return t.Format(dateLayouts[l.Language()].dateTime)
}

// Keys lists every label key in display order.
func Keys() []Key {
	return []Key{
		KeyInvoice, KeyQuantitySummary, KeyDate, KeyInvoiceNo, KeyReferenceNo, KeyBillTo,
		KeyCustomer, KeyAddress, KeyPhone, KeyBrand, KeyFlavor, KeyVariant, KeyQuantity,
		KeyPrice, KeyTotal, KeySubtotal, KeyTax, KeyTotalAmount, KeyGeneratedOn,
		KeyQuantityGeneratedOn, KeyTotalQuantity, KeyBrandTotalQuantity, KeyTotalItems,
		KeyNotAvailable,
	}
}

func (l Locale) p() *message.Printer {
	if l.printer == nil {
		return message.NewPrinter(language.English)
	}
	return l.printer
}
