// Package history records exported invoices and aggregates them for the dashboard.
package history

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MOR6969/vape-bill/internal/invoice"
	"github.com/MOR6969/vape-bill/internal/ledger"
	"github.com/MOR6969/vape-bill/pkg/db"
	"github.com/MOR6969/vape-bill/pkg/db/models"
	"github.com/MOR6969/vape-bill/pkg/enums"
	pkgerrors "github.com/MOR6969/vape-bill/pkg/errors"
	"github.com/MOR6969/vape-bill/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TopProductsLimit is the size of the dashboard ranking.
const TopProductsLimit = 5

const referenceConstraint = "billing_invoices_reference_no_key"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes invoice history and dashboard statistics.
type Service interface {
	Record(ctx context.Context, input RecordInput) (*Invoice, error)
	List(ctx context.Context, params ListParams) (*InvoiceList, error)
	Get(ctx context.Context, id string) (*Invoice, error)
	UpdateStatus(ctx context.Context, id string, status string) (*Invoice, error)
	Stats(ctx context.Context) (*DashboardStats, error)
}

// RecordInput is the exported full invoice to persist.
type RecordInput struct {
	DocumentID  int64
	ReferenceNo string
	IssuedAt    time.Time
	Customer    invoice.Customer
	Language    enums.Language
	Ledger      ledger.Ledger
}

// ListParams filters and pages the invoice list.
type ListParams struct {
	Search string
	Limit  int
	Cursor string
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// NewService builds the history service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("history repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, now: time.Now}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) (*Invoice, error) {
	if input.Ledger.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot record an invoice without line items")
	}
	if strings.TrimSpace(input.ReferenceNo) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference number is required")
	}
	lang := input.Language
	if !lang.IsValid() {
		lang = enums.LanguageEnglish
	}
	issuedAt := input.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = s.now()
	}

	record := &models.BillingInvoice{
		ID:              uuid.New(),
		DocumentID:      input.DocumentID,
		ReferenceNo:     input.ReferenceNo,
		CustomerName:    strings.TrimSpace(input.Customer.Name),
		CustomerPhone:   strings.TrimSpace(input.Customer.Phone),
		CustomerAddress: strings.TrimSpace(input.Customer.Address),
		Language:        lang,
		TotalAmount:     input.Ledger.GrandTotal(),
		TotalQuantity:   input.Ledger.TotalQuantity(),
		Status:          enums.InvoiceStatusCompleted,
		IssuedAt:        issuedAt.UTC(),
	}
	for i, item := range input.Ledger.Items() {
		record.Lines = append(record.Lines, models.BillingInvoiceLine{
			InvoiceID:   record.ID,
			LineNo:      i + 1,
			BrandID:     item.BrandID,
			BrandName:   item.BrandName,
			BrandImage:  item.BrandImage,
			FlavorID:    item.FlavorID,
			FlavorName:  item.FlavorName,
			VariantID:   item.VariantID,
			VariantName: item.VariantName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, record)
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "reference number already recorded").
				WithDetails(map[string]any{"referenceNo": input.ReferenceNo, "constraint": referenceConstraint})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record invoice")
	}

	out := invoiceFromModel(*record)
	return &out, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*InvoiceList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, ListFilter{
		Search: params.Search,
		Cursor: cursor,
		Limit:  pagination.LimitWithBuffer(params.Limit),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list invoices")
	}

	rows, next := pagination.Page(rows, params.Limit, func(m models.BillingInvoice) pagination.Cursor {
		return pagination.Cursor{At: m.IssuedAt, ID: m.ID}
	})
	list := &InvoiceList{Invoices: make([]Invoice, 0, len(rows)), NextCursor: next}
	for _, row := range rows {
		list.Invoices = append(list.Invoices, invoiceFromModel(row))
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id string) (*Invoice, error) {
	invoiceID, err := parseInvoiceID(id)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load invoice")
	}
	out := invoiceFromModel(*record)
	return &out, nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, status string) (*Invoice, error) {
	invoiceID, err := parseInvoiceID(id)
	if err != nil {
		return nil, err
	}
	next, err := enums.ParseInvoiceStatus(status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid invoice status").
			WithDetails(map[string]any{"status": status})
	}

	affected, err := s.repo.UpdateStatus(ctx, invoiceID, next, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update invoice status")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
	}
	return s.Get(ctx, id)
}

func (s *service) Stats(ctx context.Context) (*DashboardStats, error) {
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate sales")
	}
	products, err := s.repo.TopProducts(ctx, TopProductsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate top products")
	}

	stats := &DashboardStats{
		TotalSales:        totals.TotalSales.Round(2),
		TotalOrders:       totals.TotalOrders,
		AverageOrderValue: decimal.Zero,
		TopProducts:       make([]TopProduct, 0, len(products)),
	}
	if totals.TotalOrders > 0 {
		stats.AverageOrderValue = stats.TotalSales.
			Div(decimal.NewFromInt(totals.TotalOrders)).
			Round(2)
	}
	for _, p := range products {
		stats.TopProducts = append(stats.TopProducts, TopProduct{
			Name:     p.BrandName + " - " + p.FlavorName,
			Quantity: p.Quantity,
			Revenue:  p.Revenue.Round(2),
		})
	}
	return stats, nil
}

func parseInvoiceID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid invoice id")
	}
	return parsed, nil
}

func formatDocumentID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
