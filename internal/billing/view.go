package billing

import (
	"context"

	"github.com/MOR6969/vape-bill/internal/catalog"
	"github.com/MOR6969/vape-bill/internal/ledger"
	"github.com/shopspring/decimal"
)

// Summary is the bill panel: ledger lines, totals and per-brand groups.
type Summary struct {
	Items         []ledger.LineItem   `json:"items"`
	GrandTotal    decimal.Decimal     `json:"grandTotal"`
	ItemCount     int                 `json:"itemCount"`
	TotalQuantity int                 `json:"totalQuantity"`
	Groups        []ledger.BrandGroup `json:"groups"`
}

// BrandCard is one entry of the brand picker.
type BrandCard struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Image        string `json:"image"`
	FlavorCount  int    `json:"flavorCount"`
	VariantCount int    `json:"variantCount"`
}

// VariantRow is a variant with the values its editor shows: the draft when one
// exists, the catalog default otherwise.
type VariantRow struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	DefaultQuantity  int             `json:"defaultQuantity"`
	DefaultUnitPrice decimal.Decimal `json:"defaultUnitPrice"`
	HasDraft         bool            `json:"hasDraft"`
	Selected         bool            `json:"selected"`
	InLedger         bool            `json:"inLedger"`
}

// FlavorCard is a flavor of the selected brand with its view state.
type FlavorCard struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Image              string       `json:"image"`
	VariantCount       int          `json:"variantCount"`
	ActiveVariantCount int          `json:"activeVariantCount"`
	Expanded           bool         `json:"expanded"`
	SelectedVariantID  string       `json:"selectedVariantId,omitempty"`
	Variants           []VariantRow `json:"variants"`
}

// BrandView is the selected brand with its flavor cards.
type BrandView struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Image   string       `json:"image"`
	Flavors []FlavorCard `json:"flavors"`
}

// View is everything the billing screen renders for a session.
type View struct {
	Session *Session    `json:"session"`
	Brands  []BrandCard `json:"brands"`
	Brand   *BrandView  `json:"brand,omitempty"`
	Summary Summary     `json:"summary"`
}

func (s *service) View(ctx context.Context, id string) (*View, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	snapshot := s.catalog.Snapshot()

	view := &View{
		Session: session,
		Brands:  make([]BrandCard, 0, len(snapshot.Brands)),
		Summary: summarize(session.Ledger),
	}
	for _, brand := range snapshot.Brands {
		view.Brands = append(view.Brands, BrandCard{
			ID:           brand.ID,
			Name:         brand.Name,
			Image:        brand.Image,
			FlavorCount:  len(brand.Flavors),
			VariantCount: brand.VariantCount(),
		})
	}
	if brand, ok := snapshot.Brand(session.SelectedBrandID); ok {
		view.Brand = brandView(session, brand)
	}
	return view, nil
}

func brandView(session *Session, brand catalog.Brand) *BrandView {
	out := &BrandView{
		ID:      brand.ID,
		Name:    brand.Name,
		Image:   brand.Image,
		Flavors: make([]FlavorCard, 0, len(brand.Flavors)),
	}
	for _, flavor := range brand.Flavors {
		state := session.Flavors[flavor.ID]
		card := FlavorCard{
			ID:                flavor.ID,
			Name:              flavor.Name,
			Image:             flavor.Image,
			VariantCount:      len(flavor.Variants),
			Expanded:          state.Expanded,
			SelectedVariantID: state.SelectedVariantID,
			Variants:          make([]VariantRow, 0, len(flavor.Variants)),
		}
		for _, variant := range flavor.Variants {
			row := VariantRow{
				ID:               variant.ID,
				Name:             variant.Name,
				Quantity:         variant.Quantity,
				UnitPrice:        variant.Price,
				DefaultQuantity:  variant.Quantity,
				DefaultUnitPrice: variant.Price,
				Selected:         variant.ID == state.SelectedVariantID,
			}
			if draft, ok := session.Draft(flavor.ID, variant.ID); ok {
				row.HasDraft = true
				row.Quantity = draft.Quantity
				row.UnitPrice = draft.UnitPrice
				if draft.Quantity > 0 {
					card.ActiveVariantCount++
				}
			}
			_, row.InLedger = session.Ledger.Line(flavor.ID, variant.ID)
			card.Variants = append(card.Variants, row)
		}
		out.Flavors = append(out.Flavors, card)
	}
	return out
}

func summarize(l ledger.Ledger) Summary {
	return Summary{
		Items:         l.Items(),
		GrandTotal:    l.GrandTotal(),
		ItemCount:     l.Len(),
		TotalQuantity: l.TotalQuantity(),
		Groups:        ledger.GroupByBrand(l),
	}
}
