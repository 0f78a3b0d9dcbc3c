package ledger

import "github.com/shopspring/decimal"

// BrandGroup is the per-brand view of the ledger used by exports.
type BrandGroup struct {
	BrandID       string          `json:"brandId"`
	BrandName     string          `json:"brandName"`
	BrandImage    string          `json:"brandImage"`
	Items         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalQuantity int             `json:"totalQuantity"`
}

// GroupByBrand partitions the ledger by brand, ordered by first appearance.
func GroupByBrand(l Ledger) []BrandGroup {
	groups := make([]BrandGroup, 0)
	index := make(map[string]int)
	for _, item := range l.items {
		pos, ok := index[item.BrandID]
		if !ok {
			pos = len(groups)
			index[item.BrandID] = pos
			groups = append(groups, BrandGroup{
				BrandID:    item.BrandID,
				BrandName:  item.BrandName,
				BrandImage: item.BrandImage,
				Subtotal:   decimal.Zero,
			})
		}
		group := &groups[pos]
		group.Items = append(group.Items, item)
		group.Subtotal = group.Subtotal.Add(item.LineTotal)
		group.TotalQuantity += item.Quantity
	}
	return groups
}
