package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MOR6969/vape-bill/api/controllers"
	"github.com/MOR6969/vape-bill/internal/billing"
	"github.com/MOR6969/vape-bill/internal/catalog"
	"github.com/MOR6969/vape-bill/internal/history"
	"github.com/MOR6969/vape-bill/internal/invoice"
	"github.com/MOR6969/vape-bill/pkg/config"
	"github.com/MOR6969/vape-bill/pkg/db"
	"github.com/MOR6969/vape-bill/pkg/enums"
	"github.com/MOR6969/vape-bill/pkg/logger"
	"github.com/MOR6969/vape-bill/pkg/metrics"
	"github.com/MOR6969/vape-bill/pkg/migrate"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type envelope[T any] struct {
	Data T `json:"data"`
}

type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T, checks ...controllers.ReadinessCheck) *testServer {
	t.Helper()

	cfg := &config.Config{
		App:     config.AppConfig{Env: "test"},
		HTTP:    config.HTTPConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	dsn := fmt.Sprintf("file:routes_%s?mode=memory&cache=shared", strings.ReplaceAll(uuid.NewString(), "-", ""))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate.RunEmbedded(context.Background(), sqlDB, "sqlite3", "up"))

	historySvc, err := history.NewService(history.NewRepository(conn), db.NewFromGorm(conn))
	require.NoError(t, err)

	seed, err := catalog.Default()
	require.NoError(t, err)
	catalogStore := catalog.NewStore(seed, nil, logg)

	builder, err := invoice.NewBuilder(invoice.Options{
		Company: invoice.Company{Name: "Sierra Vape", Address: "Dubai", Phone: "(971) 54 473 3331"},
		NodeID:  1,
	})
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	billingSvc, err := billing.NewService(billing.ServiceParams{
		Store:           billing.NewMemoryStore(time.Hour),
		Catalog:         catalogStore,
		Builder:         builder,
		History:         historySvc,
		Metrics:         metrics.NewBillingMetrics(registry),
		Logger:          logg,
		DefaultLanguage: enums.LanguageEnglish,
	})
	require.NoError(t, err)

	return &testServer{handler: NewRouter(Deps{
		Config:      cfg,
		Logger:      logg,
		Checks:      checks,
		Catalog:     catalogStore,
		Billing:     billingSvc,
		History:     historySvc,
		Gatherer:    registry,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
	})}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out.Data
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, controllers.ReadinessCheck{Name: "database", Pinger: stubPinger{}})

	rec := srv.do(t, http.MethodGet, "/health/live", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-VapeBill-Env"))

	rec = srv.do(t, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthReadyReportsFailingDependency(t *testing.T) {
	srv := newTestServer(t, controllers.ReadinessCheck{Name: "redis", Pinger: stubPinger{err: errors.New("down")}})

	rec := srv.do(t, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCatalogRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/catalog/brands", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "elfbar")

	rec = srv.do(t, http.MethodGet, "/api/v1/catalog/brands/elfbar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bc10000")

	rec = srv.do(t, http.MethodGet, "/api/v1/catalog/brands/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogVariantIDsRouteThroughSessionPaths(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/catalog/brands/elfbar/flavors/bc10000/variants", map[string]any{
		"name":     "Kiwi/Passion 5%",
		"price":    "14",
		"quantity": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	variant := decode[catalog.Variant](t, rec)
	assert.Equal(t, "kiwi-passion-5", variant.ID)

	rec = srv.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/api/v1/sessions/" + decode[billing.Session](t, rec).ID

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPut, base+"/brand", map[string]string{"brandId": "elfbar"}).Code)
	rec = srv.do(t, http.MethodPut, base+"/drafts/bc10000/"+variant.ID, map[string]any{"quantity": 2, "unitPrice": "14"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	summary := decode[billing.Summary](t, srv.do(t, http.MethodGet, base+"/summary", nil))
	require.Len(t, summary.Items, 1)

	rec = srv.do(t, http.MethodDelete, base+"/lines/bc10000/"+variant.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary = decode[billing.Summary](t, srv.do(t, http.MethodGet, base+"/summary", nil))
	assert.Empty(t, summary.Items)
}

func TestBillingFlowThroughExportAndHistory(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decode[billing.Session](t, rec)
	require.NotEmpty(t, session.ID)
	base := "/api/v1/sessions/" + session.ID

	rec = srv.do(t, http.MethodPut, base+"/brand", map[string]string{"brandId": "elfbar"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPut, base+"/lines", map[string]any{
		"flavorId":  "bc10000",
		"variantId": "apple-ice-5",
		"quantity":  3,
		"unitPrice": "12",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPut, base+"/customer", map[string]string{"name": "Omar", "phone": "050 111"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, base+"/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[billing.Summary](t, rec)
	assert.Equal(t, "36", summary.GrandTotal.String())
	assert.Equal(t, 3, summary.TotalQuantity)
	require.Len(t, summary.Groups, 1)

	rec = srv.do(t, http.MethodGet, base+"/export?kind=full&format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Reference-No"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, rec.Body.String(), "Apple Ice 5%")

	rec = srv.do(t, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[history.InvoiceList](t, rec)
	require.Len(t, list.Invoices, 1)
	assert.Equal(t, "Omar", list.Invoices[0].CustomerName)

	rec = srv.do(t, http.MethodGet, "/api/v1/history/"+list.Invoices[0].ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[history.DashboardStats](t, rec)
	assert.Equal(t, int64(1), stats.TotalOrders)
	assert.Equal(t, "36", stats.TotalSales.String())

	rec = srv.do(t, http.MethodPatch, "/api/v1/history/"+list.Invoices[0].ID+"/status", map[string]string{"status": "cancelled"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestExportEmptyBillIsRejected(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decode[billing.Session](t, rec)

	rec = srv.do(t, http.MethodGet, "/api/v1/sessions/"+session.ID+"/export?kind=full&format=html", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), billing.EmptyExportMessage)
}

func TestMetricsEndpointExposesRouteLabels(t *testing.T) {
	srv := newTestServer(t)

	srv.do(t, http.MethodGet, "/health/live", nil)

	rec := srv.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/health/live"`)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/sessions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
