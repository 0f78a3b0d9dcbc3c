// Package ledger aggregates billed line items keyed by (flavor, variant) and keeps the
// grand total in step with every mutation. Ledger values are immutable: every mutation
// returns a new Ledger and leaves the receiver untouched.
package ledger

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Key identifies a line within a ledger.
type Key struct {
	FlavorID  string `json:"flavorId"`
	VariantID string `json:"variantId"`
}

// BrandContext carries the brand a line is billed under.
type BrandContext struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// LineItem is a single billed (flavor, variant) pair.
type LineItem struct {
	FlavorID    string          `json:"flavorId"`
	FlavorName  string          `json:"flavorName"`
	VariantID   string          `json:"variantId"`
	VariantName string          `json:"variantName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	BrandID     string          `json:"brandId"`
	BrandName   string          `json:"brandName"`
	BrandImage  string          `json:"brandImage"`
}

// Key returns the identity of the line.
func (li LineItem) Key() Key {
	return Key{FlavorID: li.FlavorID, VariantID: li.VariantID}
}

// UpsertInput describes a requested line state.
type UpsertInput struct {
	FlavorID    string
	VariantID   string
	Quantity    int
	UnitPrice   decimal.Decimal
	FlavorName  string
	VariantName string
	Brand       BrandContext
}

// Outcome reports what an upsert did to the ledger.
type Outcome string

const (
	OutcomeInserted Outcome = "inserted"
	OutcomeUpdated  Outcome = "updated"
	OutcomeRemoved  Outcome = "removed"
	OutcomeNoop     Outcome = "noop"
)

// Ledger is an ordered set of line items plus their grand total.
// The zero value is an empty ledger.
type Ledger struct {
	items []LineItem
	total decimal.Decimal
}

// New builds a ledger by upserting items in order. Items with a non-positive
// quantity or price are dropped, and repeated keys keep the first position.
func New(items ...LineItem) Ledger {
	var l Ledger
	for _, item := range items {
		l = l.Upsert(UpsertInput{
			FlavorID:    item.FlavorID,
			VariantID:   item.VariantID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			FlavorName:  item.FlavorName,
			VariantName: item.VariantName,
			Brand: BrandContext{
				ID:    item.BrandID,
				Name:  item.BrandName,
				Image: item.BrandImage,
			},
		})
	}
	return l
}

// Upsert inserts, replaces or removes the line keyed by (FlavorID, VariantID).
// A positive quantity and price insert or replace the line in place; anything else
// removes it.
func (l Ledger) Upsert(in UpsertInput) Ledger {
	next, _ := l.Apply(in)
	return next
}

// Apply behaves like Upsert and also reports the outcome.
func (l Ledger) Apply(in UpsertInput) (Ledger, Outcome) {
	key := Key{FlavorID: in.FlavorID, VariantID: in.VariantID}
	idx := l.indexOf(key)

	if in.Quantity <= 0 || !in.UnitPrice.IsPositive() {
		if idx < 0 {
			return l, OutcomeNoop
		}
		return l.without(idx), OutcomeRemoved
	}

	line := LineItem{
		FlavorID:    in.FlavorID,
		FlavorName:  in.FlavorName,
		VariantID:   in.VariantID,
		VariantName: in.VariantName,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		LineTotal:   in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))),
		BrandID:     in.Brand.ID,
		BrandName:   in.Brand.Name,
		BrandImage:  in.Brand.Image,
	}

	items := make([]LineItem, len(l.items), len(l.items)+1)
	copy(items, l.items)
	outcome := OutcomeUpdated
	if idx >= 0 {
		items[idx] = line
	} else {
		items = append(items, line)
		outcome = OutcomeInserted
	}
	return fromItems(items), outcome
}

// Delete removes the line for (flavorID, variantID) if present.
func (l Ledger) Delete(flavorID, variantID string) Ledger {
	idx := l.indexOf(Key{FlavorID: flavorID, VariantID: variantID})
	if idx < 0 {
		return l
	}
	return l.without(idx)
}

// Items returns a copy of the lines in insertion order.
func (l Ledger) Items() []LineItem {
	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Line returns the line stored under (flavorID, variantID).
func (l Ledger) Line(flavorID, variantID string) (LineItem, bool) {
	idx := l.indexOf(Key{FlavorID: flavorID, VariantID: variantID})
	if idx < 0 {
		return LineItem{}, false
	}
	return l.items[idx], true
}

// GrandTotal is the sum of every line total.
func (l Ledger) GrandTotal() decimal.Decimal {
	return l.total
}

// Len returns the number of lines.
func (l Ledger) Len() int {
	return len(l.items)
}

// IsEmpty reports whether the ledger has no lines.
func (l Ledger) IsEmpty() bool {
	return len(l.items) == 0
}

// TotalQuantity sums the quantities of every line.
func (l Ledger) TotalQuantity() int {
	total := 0
	for _, item := range l.items {
		total += item.Quantity
	}
	return total
}

type ledgerJSON struct {
	Items      []LineItem      `json:"items"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// MarshalJSON implements json.Marshaler.
func (l Ledger) MarshalJSON() ([]byte, error) {
	items := l.items
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(ledgerJSON{Items: items, GrandTotal: l.total})
}

// UnmarshalJSON rebuilds the ledger from its items; the stored grand total is ignored.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var raw ledgerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = New(raw.Items...)
	return nil
}

func (l Ledger) indexOf(key Key) int {
	for i, item := range l.items {
		if item.FlavorID == key.FlavorID && item.VariantID == key.VariantID {
			return i
		}
	}
	return -1
}

func (l Ledger) without(idx int) Ledger {
	items := make([]LineItem, 0, len(l.items)-1)
	items = append(items, l.items[:idx]...)
	items = append(items, l.items[idx+1:]...)
	return fromItems(items)
}

func fromItems(items []LineItem) Ledger {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal)
	}
	return Ledger{items: items, total: total}
}
