package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed data/default_catalog.yaml
var defaultCatalogYAML []byte

type fileCatalog struct {
	Brands []fileBrand `yaml:"brands"`
}

type fileBrand struct {
	ID      string       `yaml:"id"`
	Name    string       `yaml:"name"`
	Image   string       `yaml:"image"`
	Flavors []fileFlavor `yaml:"flavors"`
}

type fileFlavor struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Image    string        `yaml:"image"`
	Variants []fileVariant `yaml:"variants"`
}

type fileVariant struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Quantity int    `yaml:"quantity"`
	Price    string `yaml:"price"`
}

// Default returns the catalog shipped with the binary.
func Default() (Catalog, error) {
	return Parse(defaultCatalogYAML)
}

// LoadFile reads a catalog from a YAML file. An empty path yields the default catalog.
func LoadFile(path string) (Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document and validates its ids.
func Parse(data []byte) (Catalog, error) {
	var raw fileCatalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}

	out := Catalog{Brands: make([]Brand, 0, len(raw.Brands))}
	for _, rb := range raw.Brands {
		brand := Brand{ID: idOrSlug(rb.ID, rb.Name), Name: rb.Name, Image: rb.Image}
		for _, rf := range rb.Flavors {
			flavor := Flavor{ID: idOrSlug(rf.ID, rf.Name), Name: rf.Name, Image: rf.Image}
			for _, rv := range rf.Variants {
				price := decimal.Zero
				if rv.Price != "" {
					parsed, err := decimal.NewFromString(rv.Price)
					if err != nil {
						return Catalog{}, fmt.Errorf("variant %s/%s/%s: invalid price %q: %w", brand.ID, flavor.ID, rv.ID, rv.Price, err)
					}
					price = parsed
				}
				flavor.Variants = append(flavor.Variants, Variant{
					ID:       idOrSlug(rv.ID, rv.Name),
					Name:     rv.Name,
					Quantity: rv.Quantity,
					Price:    price,
				})
			}
			brand.Flavors = append(brand.Flavors, flavor)
		}
		out.Brands = append(out.Brands, brand)
	}

	if err := validate(out); err != nil {
		return Catalog{}, err
	}
	return out, nil
}

func idOrSlug(id, name string) string {
	if id != "" {
		return id
	}
	return Slugify(name)
}

func validate(c Catalog) error {
	brands := map[string]bool{}
	for _, brand := range c.Brands {
		if brand.ID == "" {
			return fmt.Errorf("brand without id or name")
		}
		if !validID(brand.ID) {
			return fmt.Errorf("brand id %q is not a slug", brand.ID)
		}
		if brands[brand.ID] {
			return fmt.Errorf("duplicate brand id %q", brand.ID)
		}
		brands[brand.ID] = true

		flavors := map[string]bool{}
		for _, flavor := range brand.Flavors {
			if flavor.ID == "" {
				return fmt.Errorf("brand %q: flavor without id or name", brand.ID)
			}
			if !validID(flavor.ID) {
				return fmt.Errorf("brand %q: flavor id %q is not a slug", brand.ID, flavor.ID)
			}
			if flavors[flavor.ID] {
				return fmt.Errorf("brand %q: duplicate flavor id %q", brand.ID, flavor.ID)
			}
			flavors[flavor.ID] = true

			variants := map[string]bool{}
			for _, variant := range flavor.Variants {
				if variant.ID == "" {
					return fmt.Errorf("flavor %s/%s: variant without id or name", brand.ID, flavor.ID)
				}
				if !validID(variant.ID) {
					return fmt.Errorf("flavor %s/%s: variant id %q is not a slug", brand.ID, flavor.ID, variant.ID)
				}
				if variants[variant.ID] {
					return fmt.Errorf("flavor %s/%s: duplicate variant id %q", brand.ID, flavor.ID, variant.ID)
				}
				if variant.Quantity < 0 || variant.Price.IsNegative() {
					return fmt.Errorf("variant %s/%s/%s: negative default", brand.ID, flavor.ID, variant.ID)
				}
				variants[variant.ID] = true
			}
		}
	}
	return nil
}
