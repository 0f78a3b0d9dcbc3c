package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/MOR6969/vape-bill/pkg/errors"
	"github.com/MOR6969/vape-bill/pkg/logger"
	"github.com/shopspring/decimal"
)

// Cache persists catalog snapshots across restarts.
type Cache interface {
	Load(ctx context.Context) (Catalog, bool, error)
	Save(ctx context.Context, c Catalog) error
}

// AddBrandInput describes a new brand.
type AddBrandInput struct {
	Name  string `json:"name" validate:"required"`
	Image string `json:"image" validate:"required"`
}

// AddFlavorInput describes a new flavor under an existing brand.
type AddFlavorInput struct {
	Name  string `json:"name" validate:"required"`
	Image string `json:"image" validate:"required"`
}

// AddVariantInput describes a new variant under an existing flavor.
type AddVariantInput struct {
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"money"`
	Quantity int             `json:"quantity" validate:"gte=0"`
}

// Store holds the live catalog snapshot. Edits copy the tree and swap it in, so a
// snapshot handed out earlier never changes underneath its holder.
type Store struct {
	mu      sync.RWMutex
	current Catalog
	cache   Cache
	logg    *logger.Logger
}

// NewStore seeds a store with the initial catalog. cache and logg are optional.
func NewStore(initial Catalog, cache Cache, logg *logger.Logger) *Store {
	return &Store{current: initial.clone(), cache: cache, logg: logg}
}

// Restore replaces the seeded catalog with the cached snapshot, when one exists.
func (s *Store) Restore(ctx context.Context) (bool, error) {
	if s.cache == nil {
		return false, nil
	}
	cached, ok, err := s.cache.Load(ctx)
	if err != nil {
		return false, errors.Wrap(errors.CodeDependency, err, "load cached catalog")
	}
	if !ok {
		return false, nil
	}
	if err := validate(cached); err != nil {
		return false, errors.Wrap(errors.CodeInternal, err, "cached catalog is invalid")
	}
	s.mu.Lock()
	s.current = cached
	s.mu.Unlock()
	return true, nil
}

// PersistCache writes the current snapshot to the cache. It is a no-op without a cache.
func (s *Store) PersistCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Save(ctx, s.Snapshot()); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "persist catalog cache")
	}
	return nil
}

// Snapshot returns the current catalog.
func (s *Store) Snapshot() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// AddBrand appends a brand whose id is derived from its name.
func (s *Store) AddBrand(ctx context.Context, input AddBrandInput) (Brand, error) {
	name := strings.TrimSpace(input.Name)
	image := strings.TrimSpace(input.Image)
	if name == "" || image == "" {
		return Brand{}, errors.New(errors.CodeValidation, "brand name and image are required")
	}
	brand := Brand{ID: Slugify(name), Name: name, Image: image, Flavors: []Flavor{}}
	if brand.ID == "" {
		return Brand{}, errors.New(errors.CodeValidation, "brand name needs a letter or digit")
	}

	err := s.edit(ctx, func(next *Catalog) error {
		if _, exists := next.Brand(brand.ID); exists {
			return errors.New(errors.CodeConflict, "brand already exists").WithDetails(map[string]any{"brandId": brand.ID})
		}
		next.Brands = append(next.Brands, brand)
		return nil
	})
	if err != nil {
		return Brand{}, err
	}
	return brand, nil
}

// AddFlavor appends a flavor to brandID.
func (s *Store) AddFlavor(ctx context.Context, brandID string, input AddFlavorInput) (Flavor, error) {
	name := strings.TrimSpace(input.Name)
	image := strings.TrimSpace(input.Image)
	if name == "" || image == "" {
		return Flavor{}, errors.New(errors.CodeValidation, "flavor name and image are required")
	}
	flavor := Flavor{ID: Slugify(name), Name: name, Image: image, Variants: []Variant{}}
	if flavor.ID == "" {
		return Flavor{}, errors.New(errors.CodeValidation, "flavor name needs a letter or digit")
	}

	err := s.edit(ctx, func(next *Catalog) error {
		brand := next.brandRef(brandID)
		if brand == nil {
			return errors.New(errors.CodeNotFound, "brand not found").WithDetails(map[string]any{"brandId": brandID})
		}
		if _, exists := brand.Flavor(flavor.ID); exists {
			return errors.New(errors.CodeConflict, "flavor already exists").WithDetails(map[string]any{"flavorId": flavor.ID})
		}
		brand.Flavors = append(brand.Flavors, flavor)
		return nil
	})
	if err != nil {
		return Flavor{}, err
	}
	return flavor, nil
}

// AddVariant appends a variant to brandID/flavorID.
func (s *Store) AddVariant(ctx context.Context, brandID, flavorID string, input AddVariantInput) (Variant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Variant{}, errors.New(errors.CodeValidation, "variant name is required")
	}
	if input.Quantity < 0 || input.Price.IsNegative() {
		return Variant{}, errors.New(errors.CodeValidation, "variant quantity and price must not be negative")
	}
	variant := Variant{ID: Slugify(name), Name: name, Price: input.Price, Quantity: input.Quantity}
	if variant.ID == "" {
		return Variant{}, errors.New(errors.CodeValidation, "variant name needs a letter or digit")
	}

	err := s.edit(ctx, func(next *Catalog) error {
		brand := next.brandRef(brandID)
		if brand == nil {
			return errors.New(errors.CodeNotFound, "brand not found").WithDetails(map[string]any{"brandId": brandID})
		}
		flavor := brand.flavorRef(flavorID)
		if flavor == nil {
			return errors.New(errors.CodeNotFound, "flavor not found").WithDetails(map[string]any{"flavorId": flavorID})
		}
		if _, exists := flavor.Variant(variant.ID); exists {
			return errors.New(errors.CodeConflict, "variant already exists").WithDetails(map[string]any{"variantId": variant.ID})
		}
		flavor.Variants = append(flavor.Variants, variant)
		return nil
	})
	if err != nil {
		return Variant{}, err
	}
	return variant, nil
}

func (s *Store) edit(ctx context.Context, mutate func(next *Catalog) error) error {
	s.mu.Lock()
	next := s.current.clone()
	if err := mutate(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = next
	s.mu.Unlock()

	if s.cache == nil {
		return nil
	}
	if err := s.cache.Save(ctx, next); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog cache write failed")
	}
	return nil
}

func (c *Catalog) brandRef(brandID string) *Brand {
	for i := range c.Brands {
		if c.Brands[i].ID == brandID {
			return &c.Brands[i]
		}
	}
	return nil
}

func (b *Brand) flavorRef(flavorID string) *Flavor {
	for i := range b.Flavors {
		if b.Flavors[i].ID == flavorID {
			return &b.Flavors[i]
		}
	}
	return nil
}
