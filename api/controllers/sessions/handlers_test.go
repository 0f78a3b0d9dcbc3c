package sessions

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MOR6969/vape-bill/internal/billing"
	"github.com/MOR6969/vape-bill/internal/catalog"
	"github.com/MOR6969/vape-bill/internal/invoice"
	"github.com/MOR6969/vape-bill/pkg/enums"
	"github.com/MOR6969/vape-bill/pkg/logger"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	seed, err := catalog.Default()
	require.NoError(t, err)
	builder, err := invoice.NewBuilder(invoice.Options{Company: invoice.Company{Name: "Sierra Vape"}, NodeID: 2})
	require.NoError(t, err)

	svc, err := billing.NewService(billing.ServiceParams{
		Store:           billing.NewMemoryStore(time.Hour),
		Catalog:         catalog.NewStore(seed, nil, logg),
		Builder:         builder,
		Logger:          logg,
		DefaultLanguage: enums.LanguageEnglish,
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Post("/sessions", SessionCreate(svc, logg))
	r.Route("/sessions/{sessionId}", func(r chi.Router) {
		r.Get("/", SessionView(svc, logg))
		r.Put("/brand", SessionSelectBrand(svc, logg))
		r.Put("/drafts/{flavorId}/{variantId}", SessionUpdateDraft(svc, logg))
		r.Delete("/lines/{flavorId}/{variantId}", SessionDeleteLine(svc, logg))
		r.Post("/flavors/{flavorId}/toggle", SessionToggleFlavor(svc, logg))
		r.Put("/language", SessionSetLanguage(svc, logg))
		r.Get("/summary", SessionSummary(svc, logg))
		r.Get("/export", SessionExport(svc, logg))
	})
	return r
}

func call(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := call(t, h, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var envelope struct {
		Data billing.Session `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data.ID
}

func TestDraftEditsBuildTheLedger(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h)
	base := "/sessions/" + id

	require.Equal(t, http.StatusOK, call(t, h, http.MethodPut, base+"/brand", `{"brandId":"elfbar"}`).Code)

	rec := call(t, h, http.MethodPut, base+"/drafts/bc10000/apple-ice-5", `{"quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodGet, base+"/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		Data billing.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Empty(t, summary.Data.Items)

	rec = call(t, h, http.MethodPut, base+"/drafts/bc10000/apple-ice-5", `{"unitPrice":"15"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodGet, base+"/summary", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Len(t, summary.Data.Items, 1)
	assert.Equal(t, "30", summary.Data.GrandTotal.String())

	rec = call(t, h, http.MethodGet, base+"/export?kind=quantity&format=html", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(referenceHeader))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".html")

	rec = call(t, h, http.MethodDelete, base+"/lines/bc10000/apple-ice-5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = call(t, h, http.MethodGet, base+"/summary", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Empty(t, summary.Data.Items)
}

func TestDraftRequiresAField(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h)

	rec := call(t, h, http.MethodPut, "/sessions/"+id+"/drafts/bc10000/apple-ice-5", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDraftRejectsNegativeAndFractionalCents(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h)
	base := "/sessions/" + id
	require.Equal(t, http.StatusOK, call(t, h, http.MethodPut, base+"/brand", `{"brandId":"elfbar"}`).Code)

	for _, body := range []string{
		`{"quantity":-3}`,
		`{"unitPrice":"-5"}`,
		`{"unitPrice":"1.23456"}`,
		`{"quantity":2,"unitPrice":"1.23456"}`,
	} {
		rec := call(t, h, http.MethodPut, base+"/drafts/bc10000/apple-ice-5", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	rec := call(t, h, http.MethodGet, base+"/summary", "")
	var summary struct {
		Data billing.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Empty(t, summary.Data.Items)
}

func TestDraftWithBothFieldsSetsOneLine(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h)
	base := "/sessions/" + id
	require.Equal(t, http.StatusOK, call(t, h, http.MethodPut, base+"/brand", `{"brandId":"elfbar"}`).Code)

	rec := call(t, h, http.MethodPut, base+"/drafts/bc10000/apple-ice-5", `{"quantity":2,"unitPrice":"12.50"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodGet, base+"/summary", "")
	var summary struct {
		Data billing.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Len(t, summary.Data.Items, 1)
	assert.Equal(t, "25", summary.Data.GrandTotal.String())
}

func TestUnknownBrandAndFlavor(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h)

	rec := call(t, h, http.MethodPut, "/sessions/"+id+"/brand", `{"brandId":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.Equal(t, http.StatusOK, call(t, h, http.MethodPut, "/sessions/"+id+"/brand", `{"brandId":"elfbar"}`).Code)
	rec = call(t, h, http.MethodPost, "/sessions/"+id+"/flavors/nope/toggle", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLanguageValidation(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h)

	rec := call(t, h, http.MethodPut, "/sessions/"+id+"/language", `{"language":"fr"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h, http.MethodPut, "/sessions/"+id+"/language", `{"language":"ar"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"language":"ar"`)
}

func TestUnknownSession(t *testing.T) {
	h := newTestRouter(t)

	rec := call(t, h, http.MethodGet, "/sessions/missing/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, h, http.MethodGet, "/sessions/missing/export?kind=full&format=csv", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmptyExportIsUnprocessable(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h)

	rec := call(t, h, http.MethodGet, "/sessions/"+id+"/export?kind=full&format=xlsx", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), billing.EmptyExportMessage)
}

func TestNilServiceIsUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	SessionCreate(nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
