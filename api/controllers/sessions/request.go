package sessions

import (
	"github.com/MOR6969/vape-bill/internal/billing"
	"github.com/MOR6969/vape-bill/internal/invoice"
	"github.com/shopspring/decimal"
)

type brandRequest struct {
	BrandID string `json:"brandId" validate:"required"`
}

type lineRequest struct {
	FlavorID  string          `json:"flavorId" validate:"required"`
	VariantID string          `json:"variantId" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gte=0"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"money"`
}

// draftRequest edits one or both draft fields; at least one must be present.
type draftRequest struct {
	Quantity  *int             `json:"quantity" validate:"omitempty,gte=0,required_without=UnitPrice"`
	UnitPrice *decimal.Decimal `json:"unitPrice" validate:"omitempty,money,required_without=Quantity"`
}

type customerRequest struct {
	Name    string `json:"name" validate:"max=200"`
	Address string `json:"address" validate:"max=500"`
	Phone   string `json:"phone" validate:"max=50"`
}

type languageRequest struct {
	Language string `json:"language" validate:"required"`
}

func toLineInput(req lineRequest) billing.LineInput {
	return billing.LineInput{
		FlavorID:  req.FlavorID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	}
}

func toCustomer(req customerRequest) invoice.Customer {
	return invoice.Customer{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	}
}
