package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MOR6969/vape-bill/internal/catalog"
	"github.com/MOR6969/vape-bill/internal/history"
	"github.com/MOR6969/vape-bill/internal/invoice"
	"github.com/MOR6969/vape-bill/internal/ledger"
	"github.com/MOR6969/vape-bill/pkg/enums"
	pkgerrors "github.com/MOR6969/vape-bill/pkg/errors"
	"github.com/MOR6969/vape-bill/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmptyExportMessage is the notice returned when exporting a bill with no lines.
const EmptyExportMessage = "Add items to the bill before exporting"

type catalogSource interface {
	Snapshot() catalog.Catalog
}

type documentBuilder interface {
	Build(in invoice.BuildInput) invoice.Document
}

type historyRecorder interface {
	Record(ctx context.Context, input history.RecordInput) (*history.Invoice, error)
}

type metricsRecorder interface {
	ObserveLedgerMutation(op, outcome string)
	ObserveExport(kind, format, outcome string)
}

// Service drives billing sessions.
type Service interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	View(ctx context.Context, id string) (*View, error)
	Close(ctx context.Context, id string) error
	SelectBrand(ctx context.Context, id, brandID string) (*Session, error)
	ClearBrand(ctx context.Context, id string) (*Session, error)
	SetVariantQuantity(ctx context.Context, id, flavorID, variantID string, quantity int) (*Session, error)
	SetVariantPrice(ctx context.Context, id, flavorID, variantID string, price decimal.Decimal) (*Session, error)
	SetVariantDraft(ctx context.Context, id, flavorID, variantID string, input DraftInput) (*Session, error)
	UpsertLine(ctx context.Context, id string, input LineInput) (*Session, error)
	DeleteLine(ctx context.Context, id, flavorID, variantID string) (*Session, error)
	ToggleFlavor(ctx context.Context, id, flavorID string) (*Session, error)
	SelectVariant(ctx context.Context, id, flavorID, variantID string) (*Session, error)
	SetCustomer(ctx context.Context, id string, customer invoice.Customer) (*Session, error)
	SetLanguage(ctx context.Context, id, language string) (*Session, error)
	Summary(ctx context.Context, id string) (*Summary, error)
	Export(ctx context.Context, id string, input ExportInput) (*ExportResult, error)
}

// DraftInput edits one or both draft fields; nil fields are left alone.
type DraftInput struct {
	Quantity  *int
	UnitPrice *decimal.Decimal
}

// LineInput sets a ledger line directly.
type LineInput struct {
	FlavorID  string
	VariantID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// ExportInput selects the document kind and file format.
type ExportInput struct {
	Kind   string
	Format string
}

// ExportResult is a rendered document ready for download.
type ExportResult struct {
	Document invoice.Document
	File     invoice.Rendered
}

// ServiceParams wires the billing service. History and Metrics are optional.
type ServiceParams struct {
	Store           Store
	Catalog         catalogSource
	Builder         documentBuilder
	History         historyRecorder
	Metrics         metricsRecorder
	Logger          *logger.Logger
	DefaultLanguage enums.Language
	Now             func() time.Time
}

type service struct {
	store    Store
	catalog  catalogSource
	builder  documentBuilder
	history  historyRecorder
	metrics  metricsRecorder
	logg     *logger.Logger
	language enums.Language
	now      func() time.Time
	locks    *sessionLocks
}

// NewService validates params and builds the billing service.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if params.Builder == nil {
		return nil, fmt.Errorf("document builder required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	lang := params.DefaultLanguage
	if !lang.IsValid() {
		lang = enums.LanguageEnglish
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		store:    params.Store,
		catalog:  params.Catalog,
		builder:  params.Builder,
		history:  params.History,
		metrics:  params.Metrics,
		logg:     params.Logger,
		language: lang,
		now:      now,
		locks:    newSessionLocks(),
	}, nil
}

func (s *service) Create(ctx context.Context) (*Session, error) {
	at := s.now().UTC()
	session := &Session{
		ID:        uuid.NewString(),
		Language:  s.language,
		Drafts:    map[string]Draft{},
		Flavors:   map[string]FlavorView{},
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save session")
	}
	s.logg.Info(s.logg.WithSessionID(ctx, session.ID), "billing session created")
	return session, nil
}

func (s *service) Get(ctx context.Context, id string) (*Session, error) {
	return s.load(ctx, id)
}

func (s *service) Close(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	// Unknown and expired ids are already gone.
	if err := s.store.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete session")
	}
	s.logg.Info(s.logg.WithSessionID(ctx, id), "billing session closed")
	return nil
}

func (s *service) SelectBrand(ctx context.Context, id, brandID string) (*Session, error) {
	brand, ok := s.catalog.Snapshot().Brand(brandID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found").
			WithDetails(map[string]any{"brandId": brandID})
	}
	return s.mutate(ctx, id, func(session *Session) error {
		if session.SelectedBrandID != brand.ID {
			session.resetBrandState()
		}
		session.SelectedBrandID = brand.ID
		return nil
	})
}

func (s *service) ClearBrand(ctx context.Context, id string) (*Session, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		session.SelectedBrandID = ""
		session.resetBrandState()
		return nil
	})
}

func (s *service) SetVariantQuantity(ctx context.Context, id, flavorID, variantID string, quantity int) (*Session, error) {
	return s.SetVariantDraft(ctx, id, flavorID, variantID, DraftInput{Quantity: &quantity})
}

func (s *service) SetVariantPrice(ctx context.Context, id, flavorID, variantID string, price decimal.Decimal) (*Session, error) {
	return s.SetVariantDraft(ctx, id, flavorID, variantID, DraftInput{UnitPrice: &price})
}

// SetVariantDraft applies the quantity edit and then the price edit under one lock,
// syncing the ledger once with the result.
func (s *service) SetVariantDraft(ctx context.Context, id, flavorID, variantID string, input DraftInput) (*Session, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		brand, flavor, variant, ok := s.resolve(session, flavorID, variantID)
		if !ok {
			return nil
		}
		draft, _ := session.Draft(flavorID, variantID)
		if input.Quantity != nil {
			draft.Quantity = *input.Quantity
			if draft.UnitPrice.IsZero() {
				draft.UnitPrice = variant.Price
			}
		}
		if input.UnitPrice != nil {
			draft.UnitPrice = *input.UnitPrice
			if draft.Quantity == 0 {
				draft.Quantity = variant.Quantity
			}
		}
		session.setDraft(flavorID, variantID, draft)
		s.apply(session, brand, flavor, variant, draft.Quantity, draft.UnitPrice)
		return nil
	})
}

func (s *service) UpsertLine(ctx context.Context, id string, input LineInput) (*Session, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		brand, flavor, variant, ok := s.resolve(session, input.FlavorID, input.VariantID)
		if !ok {
			return nil
		}
		s.apply(session, brand, flavor, variant, input.Quantity, input.UnitPrice)
		return nil
	})
}

func (s *service) DeleteLine(ctx context.Context, id, flavorID, variantID string) (*Session, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		before := session.Ledger.Len()
		session.Ledger = session.Ledger.Delete(flavorID, variantID)
		outcome := ledger.OutcomeNoop
		if session.Ledger.Len() < before {
			outcome = ledger.OutcomeRemoved
		}
		s.observeMutation("delete", outcome)
		return nil
	})
}

func (s *service) ToggleFlavor(ctx context.Context, id, flavorID string) (*Session, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		if _, ok := s.activeFlavor(session, flavorID); !ok {
			return flavorNotFound(flavorID)
		}
		view := session.Flavors[flavorID]
		view.Expanded = !view.Expanded
		session.Flavors[flavorID] = view
		return nil
	})
}

func (s *service) SelectVariant(ctx context.Context, id, flavorID, variantID string) (*Session, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		flavor, ok := s.activeFlavor(session, flavorID)
		if !ok {
			return flavorNotFound(flavorID)
		}
		if _, ok := flavor.Variant(variantID); !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found").
				WithDetails(map[string]any{"flavorId": flavorID, "variantId": variantID})
		}
		view := session.Flavors[flavorID]
		if view.SelectedVariantID == variantID {
			view.SelectedVariantID = ""
		} else {
			view.SelectedVariantID = variantID
		}
		session.Flavors[flavorID] = view
		return nil
	})
}

func (s *service) SetCustomer(ctx context.Context, id string, customer invoice.Customer) (*Session, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		session.Customer = customer
		return nil
	})
}

func (s *service) SetLanguage(ctx context.Context, id, language string) (*Session, error) {
	lang, err := enums.ParseLanguage(language)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid language").
			WithDetails(map[string]any{"language": language})
	}
	return s.mutate(ctx, id, func(session *Session) error {
		session.Language = lang
		return nil
	})
}

func (s *service) Summary(ctx context.Context, id string) (*Summary, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := summarize(session.Ledger)
	return &summary, nil
}

// mutate runs fn on a copy of the session under the session lock and saves the result.
func (s *service) mutate(ctx context.Context, id string, fn func(session *Session) error) (*Session, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save session")
	}
	return next, nil
}

func (s *service) load(ctx context.Context, id string) (*Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	session, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	return session, nil
}

// resolve finds the variant under the session's selected brand. A miss, including
// no selected brand, leaves the session untouched.
func (s *service) resolve(session *Session, flavorID, variantID string) (catalog.Brand, catalog.Flavor, catalog.Variant, bool) {
	if session.SelectedBrandID == "" {
		return catalog.Brand{}, catalog.Flavor{}, catalog.Variant{}, false
	}
	brand, ok := s.catalog.Snapshot().Brand(session.SelectedBrandID)
	if !ok {
		return catalog.Brand{}, catalog.Flavor{}, catalog.Variant{}, false
	}
	flavor, ok := brand.Flavor(flavorID)
	if !ok {
		return catalog.Brand{}, catalog.Flavor{}, catalog.Variant{}, false
	}
	variant, ok := flavor.Variant(variantID)
	if !ok {
		return catalog.Brand{}, catalog.Flavor{}, catalog.Variant{}, false
	}
	return brand, flavor, variant, true
}

func (s *service) activeFlavor(session *Session, flavorID string) (catalog.Flavor, bool) {
	if session.SelectedBrandID == "" {
		return catalog.Flavor{}, false
	}
	return s.catalog.Snapshot().Flavor(session.SelectedBrandID, flavorID)
}

func (s *service) apply(session *Session, brand catalog.Brand, flavor catalog.Flavor, variant catalog.Variant, quantity int, price decimal.Decimal) {
	next, outcome := session.Ledger.Apply(ledger.UpsertInput{
		FlavorID:    flavor.ID,
		VariantID:   variant.ID,
		Quantity:    quantity,
		UnitPrice:   price,
		FlavorName:  flavor.Name,
		VariantName: variant.Name,
		Brand: ledger.BrandContext{
			ID:    brand.ID,
			Name:  brand.Name,
			Image: brand.Image,
		},
	})
	session.Ledger = next
	s.observeMutation("upsert", outcome)
}

func (s *service) observeMutation(op string, outcome ledger.Outcome) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveLedgerMutation(op, string(outcome))
}

func flavorNotFound(flavorID string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "flavor not found in selected brand").
		WithDetails(map[string]any{"flavorId": flavorID})
}
