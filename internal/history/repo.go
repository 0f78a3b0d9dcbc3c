package history

import (
	"context"
	"strings"
	"time"

	"github.com/MOR6969/vape-bill/pkg/db/models"
	"github.com/MOR6969/vape-bill/pkg/enums"
	"github.com/MOR6969/vape-bill/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository exposes persistence for recorded invoices.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, invoice *models.BillingInvoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.BillingInvoice, error)
	List(ctx context.Context, filter ListFilter) ([]models.BillingInvoice, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InvoiceStatus, at time.Time) (int64, error)
	Totals(ctx context.Context) (Totals, error)
	TopProducts(ctx context.Context, limit int) ([]ProductAggregate, error)
}

// ListFilter narrows the invoice list. Limit is applied as given.
type ListFilter struct {
	Search string
	Cursor *pagination.Cursor
	Limit  int
}

// Totals aggregates every non-cancelled invoice.
type Totals struct {
	TotalSales  decimal.Decimal `gorm:"column:total_sales"`
	TotalOrders int64           `gorm:"column:total_orders"`
}

// ProductAggregate is the revenue of one (brand, flavor) pair.
type ProductAggregate struct {
	BrandName  string          `gorm:"column:brand_name"`
	FlavorName string          `gorm:"column:flavor_name"`
	Quantity   int64           `gorm:"column:quantity"`
	Revenue    decimal.Decimal `gorm:"column:revenue"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a history repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, invoice *models.BillingInvoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.BillingInvoice, error) {
	var invoice models.BillingInvoice
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		Where("id = ?", id).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.BillingInvoice, error) {
	query := r.db.WithContext(ctx).
		Model(&models.BillingInvoice{}).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		})

	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		like := "%" + escapeLike(term) + "%"
		query = query.Where(
			`(LOWER(customer_name) LIKE ? ESCAPE '\' OR LOWER(CAST(id AS TEXT)) LIKE ? ESCAPE '\' OR LOWER(reference_no) LIKE ? ESCAPE '\')`,
			like, like, like,
		)
	}
	if filter.Cursor != nil {
		query = query.Where(
			"(issued_at < ?) OR (issued_at = ? AND id < ?)",
			filter.Cursor.At, filter.Cursor.At, filter.Cursor.ID,
		)
	}

	var invoices []models.BillingInvoice
	err := query.
		Order("issued_at DESC").
		Order("id DESC").
		Limit(filter.Limit).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InvoiceStatus, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.BillingInvoice{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": at,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) Totals(ctx context.Context) (Totals, error) {
	var totals Totals
	err := r.db.WithContext(ctx).
		Model(&models.BillingInvoice{}).
		Select("COALESCE(SUM(total_amount), 0) AS total_sales, COUNT(*) AS total_orders").
		Where("status <> ?", enums.InvoiceStatusCancelled).
		Scan(&totals).Error
	return totals, err
}

func (r *repository) TopProducts(ctx context.Context, limit int) ([]ProductAggregate, error) {
	var rows []ProductAggregate
	err := r.db.WithContext(ctx).
		Table("billing_invoice_lines AS l").
		Select("l.brand_name AS brand_name, l.flavor_name AS flavor_name, SUM(l.quantity) AS quantity, SUM(l.line_total) AS revenue").
		Joins("JOIN billing_invoices AS i ON i.id = l.invoice_id").
		Where("i.status <> ?", enums.InvoiceStatusCancelled).
		Group("l.brand_id, l.brand_name, l.flavor_id, l.flavor_name").
		Order("revenue DESC").
		Order("quantity DESC").
		Order("brand_name ASC").
		Order("flavor_name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
