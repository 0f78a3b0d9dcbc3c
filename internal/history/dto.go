package history

import (
	"time"

	"github.com/MOR6969/vape-bill/internal/ledger"
	"github.com/MOR6969/vape-bill/pkg/db/models"
	"github.com/MOR6969/vape-bill/pkg/enums"
	"github.com/shopspring/decimal"
)

// Invoice is the API shape of a recorded invoice.
type Invoice struct {
	ID              string              `json:"id"`
	DocumentID      string              `json:"documentId"`
	ReferenceNo     string              `json:"referenceNo"`
	Date            time.Time           `json:"date"`
	CustomerName    string              `json:"customerName"`
	CustomerPhone   string              `json:"customerPhone"`
	CustomerAddress string              `json:"customerAddress"`
	Language        enums.Language      `json:"language"`
	Items           []ledger.LineItem   `json:"items"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	TotalQuantity   int                 `json:"totalQuantity"`
	Status          enums.InvoiceStatus `json:"status"`
}

// InvoiceList is one page of invoices, newest first.
type InvoiceList struct {
	Invoices   []Invoice `json:"invoices"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

// TopProduct is one entry of the dashboard ranking.
type TopProduct struct {
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// DashboardStats summarizes recorded sales.
type DashboardStats struct {
	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalOrders       int64           `json:"totalOrders"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	TopProducts       []TopProduct    `json:"topProducts"`
}

func invoiceFromModel(m models.BillingInvoice) Invoice {
	items := make([]ledger.LineItem, 0, len(m.Lines))
	for _, line := range m.Lines {
		items = append(items, ledger.LineItem{
			FlavorID:    line.FlavorID,
			FlavorName:  line.FlavorName,
			VariantID:   line.VariantID,
			VariantName: line.VariantName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal,
			BrandID:     line.BrandID,
			BrandName:   line.BrandName,
			BrandImage:  line.BrandImage,
		})
	}
	return Invoice{
		ID:              m.ID.String(),
		DocumentID:      formatDocumentID(m.DocumentID),
		ReferenceNo:     m.ReferenceNo,
		Date:            m.IssuedAt,
		CustomerName:    m.CustomerName,
		CustomerPhone:   m.CustomerPhone,
		CustomerAddress: m.CustomerAddress,
		Language:        m.Language,
		Items:           items,
		TotalAmount:     m.TotalAmount,
		TotalQuantity:   m.TotalQuantity,
		Status:          m.Status,
	}
}
