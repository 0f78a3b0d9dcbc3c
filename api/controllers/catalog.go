package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MOR6969/vape-bill/api/responses"
	"github.com/MOR6969/vape-bill/api/validators"
	"github.com/MOR6969/vape-bill/internal/catalog"
	pkgerrors "github.com/MOR6969/vape-bill/pkg/errors"
	"github.com/MOR6969/vape-bill/pkg/logger"
)

// CatalogService is the catalog surface the HTTP layer needs.
type CatalogService interface {
	Snapshot() catalog.Catalog
	AddBrand(ctx context.Context, input catalog.AddBrandInput) (catalog.Brand, error)
	AddFlavor(ctx context.Context, brandID string, input catalog.AddFlavorInput) (catalog.Flavor, error)
	AddVariant(ctx context.Context, brandID, flavorID string, input catalog.AddVariantInput) (catalog.Variant, error)
}

// CatalogBrands lists every brand with its flavors and variants.
func CatalogBrands(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		brands := svc.Snapshot().Brands
		if brands == nil {
			brands = []catalog.Brand{}
		}
		responses.WriteSuccess(w, brands)
	}
}

func CatalogBrand(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		brandID := chi.URLParam(r, "brandId")
		brand, ok := svc.Snapshot().Brand(brandID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found"))
			return
		}
		responses.WriteSuccess(w, brand)
	}
}

func CatalogAddBrand(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		var payload catalog.AddBrandInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		brand, err := svc.AddBrand(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, brand)
	}
}

func CatalogAddFlavor(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		var payload catalog.AddFlavorInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flavor, err := svc.AddFlavor(r.Context(), chi.URLParam(r, "brandId"), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, flavor)
	}
}

func CatalogAddVariant(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		var payload catalog.AddVariantInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variant, err := svc.AddVariant(r.Context(), chi.URLParam(r, "brandId"), chi.URLParam(r, "flavorId"), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, variant)
	}
}
