package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MOR6969/vape-bill/api/responses"
	"github.com/MOR6969/vape-bill/api/validators"
	"github.com/MOR6969/vape-bill/internal/history"
	pkgerrors "github.com/MOR6969/vape-bill/pkg/errors"
	"github.com/MOR6969/vape-bill/pkg/logger"
	"github.com/MOR6969/vape-bill/pkg/pagination"
)

const maxSearchLen = 100

type invoiceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HistoryList returns recorded invoices newest first, filtered by ?search=.
func HistoryList(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "history service unavailable"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), history.ListParams{
			Search: validators.QueryString(r, "search", maxSearchLen),
			Limit:  limit,
			Cursor: validators.QueryString(r, "cursor", 0),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func HistoryGet(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "history service unavailable"))
			return
		}
		inv, err := svc.Get(r.Context(), chi.URLParam(r, "invoiceId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inv)
	}
}

func HistoryUpdateStatus(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "history service unavailable"))
			return
		}
		var payload invoiceStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		inv, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "invoiceId"), payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inv)
	}
}

// DashboardStats returns sales totals and the top products.
func DashboardStats(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "history service unavailable"))
			return
		}
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
