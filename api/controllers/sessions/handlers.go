// Package sessions exposes billing sessions over HTTP.
package sessions

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MOR6969/vape-bill/api/responses"
	"github.com/MOR6969/vape-bill/api/validators"
	"github.com/MOR6969/vape-bill/internal/billing"
	pkgerrors "github.com/MOR6969/vape-bill/pkg/errors"
	"github.com/MOR6969/vape-bill/pkg/logger"
)

const referenceHeader = "X-Reference-No"

// SessionCreate opens a new billing session.
func SessionCreate(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable())
			return
		}
		session, err := svc.Create(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

// SessionView returns the session together with the catalog cards and bill summary.
func SessionView(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return withSession(svc, logg, func(w http.ResponseWriter, r *http.Request, id string) {
		view, err := svc.View(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

// SessionClose discards the session.
func SessionClose(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return withSession(svc, logg, func(w http.ResponseWriter, r *http.Request, id string) {
		if err := svc.Close(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	})
}

func SessionSelectBrand(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return withSession(svc, logg, func(w http.ResponseWriter, r *http.Request, id string) {
		var payload brandRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSession(w, r, logg)(svc.SelectBrand(r.Context(), id, payload.BrandID))
	})
}

func SessionClearBrand(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return withSession(svc, logg, func(w http.ResponseWriter, r *http.Request, id string) {
		writeSession(w, r, logg)(svc.ClearBrand(r.Context(), id))
	})
}

// SessionUpsertLine sets a ledger line directly. A zero quantity or price removes it.
func SessionUpsertLine(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return withSession(svc, logg, func(w http.ResponseWriter, r *http.Request, id string) {
		var payload lineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSession(w, r, logg)(svc.UpsertLine(r.Context(), id, toLineInput(payload)))
	})
}

func SessionDeleteLine(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return withSession(svc, logg, func(w http.ResponseWriter, r *http.Request, id string) {
		writeSession(w, r, logg)(svc.DeleteLine(r.Context(), id, chi.URLParam(r, "flavorId"), chi.URLParam(r, "variantId")))
	})
}

// SessionUpdateDraft edits a variant's draft quantity and/or price and syncs the ledger.
func SessionUpdateDraft(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return withSession(svc, logg, func(w http.ResponseWriter, r *http.Request, id string) {
		var payload draftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := billing.DraftInput{Quantity: payload.Quantity, UnitPrice: payload.UnitPrice}
		writeSession(w, r, logg)(svc.SetVariantDraft(r.Context(), id, chi.URLParam(r, "flavorId"), chi.URLParam(r, "variantId"), input))
	})
}

func SessionToggleFlavor(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return withSession(svc, logg, func(w http.ResponseWriter, r *http.Request, id string) {
		writeSession(w, r, logg)(svc.ToggleFlavor(r.Context(), id, chi.URLParam(r, "flavorId")))
	})
}

func SessionSelectVariant(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return withSession(svc, logg, func(w http.ResponseWriter, r *http.Request, id string) {
		writeSession(w, r, logg)(svc.SelectVariant(r.Context(), id, chi.URLParam(r, "flavorId"), chi.URLParam(r, "variantId")))
	})
}

func SessionSetCustomer(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return withSession(svc, logg, func(w http.ResponseWriter, r *http.Request, id string) {
		var payload customerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSession(w, r, logg)(svc.SetCustomer(r.Context(), id, toCustomer(payload)))
	})
}

func SessionSetLanguage(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return withSession(svc, logg, func(w http.ResponseWriter, r *http.Request, id string) {
		var payload languageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSession(w, r, logg)(svc.SetLanguage(r.Context(), id, payload.Language))
	})
}

func SessionSummary(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return withSession(svc, logg, func(w http.ResponseWriter, r *http.Request, id string) {
		summary, err := svc.Summary(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	})
}

// SessionExport renders the bill as ?kind=full|quantity&format=html|csv|xlsx.
func SessionExport(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return withSession(svc, logg, func(w http.ResponseWriter, r *http.Request, id string) {
		query := r.URL.Query()
		result, err := svc.Export(r.Context(), id, billing.ExportInput{
			Kind:   query.Get("kind"),
			Format: query.Get("format"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set(referenceHeader, result.Document.ReferenceNo)
		responses.WriteAttachment(w, result.File.Filename, result.File.ContentType, result.File.Body)
	})
}

func withSession(svc billing.Service, logg *logger.Logger, next func(w http.ResponseWriter, r *http.Request, id string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable())
			return
		}
		id := chi.URLParam(r, "sessionId")
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id required"))
			return
		}
		if logg != nil {
			r = r.WithContext(logg.WithSessionID(r.Context(), id))
		}
		next(w, r, id)
	}
}

func writeSession(w http.ResponseWriter, r *http.Request, logg *logger.Logger) func(*billing.Session, error) {
	return func(session *billing.Session, err error) {
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

func serviceUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable")
}
