package models

import (
	"time"

	"github.com/MOR6969/vape-bill/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingInvoice is an exported full invoice kept for the dashboard.
type BillingInvoice struct {
	ID              uuid.UUID            `gorm:"column:id;primaryKey"`
	DocumentID      int64                `gorm:"column:document_id;not null"`
	ReferenceNo     string               `gorm:"column:reference_no;not null"`
	CustomerName    string               `gorm:"column:customer_name;not null"`
	CustomerPhone   string               `gorm:"column:customer_phone;not null"`
	CustomerAddress string               `gorm:"column:customer_address;not null"`
	Language        enums.Language       `gorm:"column:language;not null"`
	TotalAmount     decimal.Decimal      `gorm:"column:total_amount;type:numeric(12,2);not null"`
	TotalQuantity   int                  `gorm:"column:total_quantity;not null"`
	Status          enums.InvoiceStatus  `gorm:"column:status;not null"`
	IssuedAt        time.Time            `gorm:"column:issued_at;not null"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
	Lines           []BillingInvoiceLine `gorm:"foreignKey:InvoiceID;references:ID"`
}

func (BillingInvoice) TableName() string { return "billing_invoices" }

// BillingInvoiceLine is one ledger line of a recorded invoice, in ledger order.
type BillingInvoiceLine struct {
	InvoiceID   uuid.UUID       `gorm:"column:invoice_id;primaryKey"`
	LineNo      int             `gorm:"column:line_no;primaryKey;autoIncrement:false"`
	BrandID     string          `gorm:"column:brand_id;not null"`
	BrandName   string          `gorm:"column:brand_name;not null"`
	BrandImage  string          `gorm:"column:brand_image;not null"`
	FlavorID    string          `gorm:"column:flavor_id;not null"`
	FlavorName  string          `gorm:"column:flavor_name;not null"`
	VariantID   string          `gorm:"column:variant_id;not null"`
	VariantName string          `gorm:"column:variant_name;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal   decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
}

func (BillingInvoiceLine) TableName() string { return "billing_invoice_lines" }
