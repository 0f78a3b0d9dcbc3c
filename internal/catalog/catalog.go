// Package catalog holds the Brand → Flavor → Variant reference data used to bill items.
package catalog

import "github.com/shopspring/decimal"

// Variant is a sellable strength/taste of a flavor with its default quantity and price.
type Variant struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Quantity int             `json:"quantity" yaml:"quantity"`
	Price    decimal.Decimal `json:"price" yaml:"-"`
}

// Flavor is a product line within a brand.
type Flavor struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Image    string    `json:"image" yaml:"image"`
	Variants []Variant `json:"variants" yaml:"variants"`
}

// Brand is the top level of the catalog tree.
type Brand struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Image   string   `json:"image" yaml:"image"`
	Flavors []Flavor `json:"flavors" yaml:"flavors"`
}

// Catalog is an immutable snapshot of the brand tree. Callers must not modify the
// slices it returns; edits go through Store.
type Catalog struct {
	Brands []Brand `json:"brands"`
}

// Brand looks up a brand by id.
func (c Catalog) Brand(brandID string) (Brand, bool) {
	for _, brand := range c.Brands {
		if brand.ID == brandID {
			return brand, true
		}
	}
	return Brand{}, false
}

// Flavor looks up a flavor within a brand.
func (c Catalog) Flavor(brandID, flavorID string) (Flavor, bool) {
	brand, ok := c.Brand(brandID)
	if !ok {
		return Flavor{}, false
	}
	return brand.Flavor(flavorID)
}

// Variant looks up a variant within a brand's flavor.
func (c Catalog) Variant(brandID, flavorID, variantID string) (Variant, bool) {
	flavor, ok := c.Flavor(brandID, flavorID)
	if !ok {
		return Variant{}, false
	}
	return flavor.Variant(variantID)
}

// Flavor looks up a flavor by id.
func (b Brand) Flavor(flavorID string) (Flavor, bool) {
	for _, flavor := range b.Flavors {
		if flavor.ID == flavorID {
			return flavor, true
		}
	}
	return Flavor{}, false
}

// Variant looks up a variant by id.
func (f Flavor) Variant(variantID string) (Variant, bool) {
	for _, variant := range f.Variants {
		if variant.ID == variantID {
			return variant, true
		}
	}
	return Variant{}, false
}

// VariantCount returns the number of variants across every flavor of the brand.
func (b Brand) VariantCount() int {
	total := 0
	for _, flavor := range b.Flavors {
		total += len(flavor.Variants)
	}
	return total
}

// clone deep-copies the brand tree so edits never leak into published snapshots.
func (c Catalog) clone() Catalog {
	brands := make([]Brand, len(c.Brands))
	for i, brand := range c.Brands {
		flavors := make([]Flavor, len(brand.Flavors))
		for j, flavor := range brand.Flavors {
			variants := make([]Variant, len(flavor.Variants))
			copy(variants, flavor.Variants)
			flavor.Variants = variants
			flavors[j] = flavor
		}
		brand.Flavors = flavors
		brands[i] = brand
	}
	return Catalog{Brands: brands}
}
