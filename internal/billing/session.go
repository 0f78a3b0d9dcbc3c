// Package billing keeps the per-operator billing state (selected brand, variant drafts,
// ledger, customer and language) and turns it into exports.
package billing

import (
	"maps"
	"time"

	"github.com/MOR6969/vape-bill/internal/invoice"
	"github.com/MOR6969/vape-bill/internal/ledger"
	"github.com/MOR6969/vape-bill/pkg/enums"
	"github.com/shopspring/decimal"
)

// Draft is the operator's pending quantity and price for one variant.
type Draft struct {
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// FlavorView is the expand/select state of one flavor card.
type FlavorView struct {
	Expanded          bool   `json:"expanded"`
	SelectedVariantID string `json:"selectedVariantId,omitempty"`
}

// Session is one operator's billing state. Drafts and flavor views belong to the
// selected brand and are reset when it changes; the ledger spans every brand.
type Session struct {
	ID              string                `json:"id"`
	SelectedBrandID string                `json:"selectedBrandId,omitempty"`
	Language        enums.Language        `json:"language"`
	Customer        invoice.Customer      `json:"customer"`
	Ledger          ledger.Ledger         `json:"ledger"`
	Drafts          map[string]Draft      `json:"drafts"`
	Flavors         map[string]FlavorView `json:"flavors"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// Draft returns the draft for (flavorID, variantID).
func (s *Session) Draft(flavorID, variantID string) (Draft, bool) {
	d, ok := s.Drafts[draftKey(flavorID, variantID)]
	return d, ok
}

// Clone returns a copy that shares no maps with s. The ledger is a value and is
// safe to share.
func (s *Session) Clone() *Session {
	out := *s
	out.Drafts = maps.Clone(s.Drafts)
	if out.Drafts == nil {
		out.Drafts = map[string]Draft{}
	}
	out.Flavors = maps.Clone(s.Flavors)
	if out.Flavors == nil {
		out.Flavors = map[string]FlavorView{}
	}
	return &out
}

func (s *Session) resetBrandState() {
	s.Drafts = map[string]Draft{}
	s.Flavors = map[string]FlavorView{}
}

func (s *Session) setDraft(flavorID, variantID string, d Draft) {
	if s.Drafts == nil {
		s.Drafts = map[string]Draft{}
	}
	s.Drafts[draftKey(flavorID, variantID)] = d
}

func draftKey(flavorID, variantID string) string {
	return flavorID + "/" + variantID
}
