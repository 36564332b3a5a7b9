package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaadplay/storefront/internal/config"
	"github.com/yaadplay/storefront/internal/models"
	"github.com/yaadplay/storefront/internal/repo/docstore"
	"github.com/yaadplay/storefront/internal/repo/webhook"
	pkgmdw "github.com/yaadplay/storefront/internal/server/middleware"
	"github.com/yaadplay/storefront/internal/usecase"
)

var errStoreDown = errors.New("dial tcp: connection refused")

// brokenStore fails every call, as an unreachable remote store would.
type brokenStore struct{}

func (brokenStore) ListDocuments(context.Context, string, string, ...docstore.Query) ([]docstore.Document, error) {
	return nil, errStoreDown
}

func (brokenStore) GetDocument(context.Context, string, string, string) (docstore.Document, error) {
	return nil, errStoreDown
}

func (brokenStore) CreateDocument(context.Context, string, string, string, map[string]any) (docstore.Document, error) {
	return nil, errStoreDown
}

func (brokenStore) UpdateDocument(context.Context, string, string, string, map[string]any) (docstore.Document, error) {
	return nil, errStoreDown
}

func (brokenStore) DeleteDocument(context.Context, string, string, string) error {
	return errStoreDown
}

type stubWebhook struct {
	err   error
	calls int
}

func (s *stubWebhook) Send(context.Context, *models.SurveySubmission) error {
	s.calls++
	return s.err
}

type envelope struct {
	Success      bool            `json:"success"`
	Data         json.RawMessage `json:"data"`
	ErrorCode    string          `json:"error_code"`
	ErrorMessage string          `json:"error_message"`
}

type testServer struct {
	e    *echo.Echo
	hook *stubWebhook
}

func newTestServer(t *testing.T, catalogCfg usecase.CatalogConfig, store docstore.Store) *testServer {
	t.Helper()

	fallback, err := usecase.NewFallbackCatalog()
	require.NoError(t, err)
	catalog, err := usecase.NewCatalogUsecase(catalogCfg, store, fallback)
	require.NoError(t, err)

	hook := &stubWebhook{}
	survey, err := usecase.NewSurveyUsecase(usecase.SurveyConfig{Source: "YaadPlay Gaming Survey"}, hook, nil)
	require.NoError(t, err)

	conf := &config.Config{Server: config.ServerConfig{CORSPattern: ".*"}}
	e, err := NewEcho(conf, Controllers{
		Handler: NewHandler(catalogCfg),
		Catalog: NewCatalogController(catalog),
		Cart:    NewCartController(usecase.NewCartUsecase(catalog)),
		Survey:  NewSurveyController(survey),
	})
	require.NoError(t, err)
	return &testServer{e: e, hook: hook}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func productIDs(products []models.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, usecase.CatalogConfig{}, nil)

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"storefront","catalog":"fallback-only"}`, rec.Body.String())
}

func TestListProducts(t *testing.T) {
	s := newTestServer(t, usecase.CatalogConfig{}, nil)

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"all", "", []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}},
		{"category all", "?category=all", []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}},
		{"gift cards", "?category=gift-cards", []string{"7", "8", "9", "10", "11", "12"}},
		{"search", "?q=playstation", []string{"1", "4", "6", "7", "11"}},
		{"search within category", "?q=playstation&category=consoles", []string{"1", "4", "6"}},
		{"featured", "?featured=true", []string{"1", "2", "7", "8"}},
		{"featured consoles", "?featured=true&category=consoles", []string{"1", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodGet, "/api/v1/products"+tt.query, "")

			require.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, env.Success)
			assert.Equal(t, tt.wantIDs, productIDs(decodeData[[]models.Product](t, env)))
			assert.Equal(t, "fallback", rec.Header().Get(pkgmdw.HeaderCatalogSource))
			assert.Equal(t, "unconfigured", rec.Header().Get(pkgmdw.HeaderCatalogDegradedReason))
		})
	}
}

func TestListProductsUnknownCategory(t *testing.T) {
	s := newTestServer(t, usecase.CatalogConfig{}, nil)

	rec, env := s.do(t, http.MethodGet, "/api/v1/products?category=accessories", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.ErrorMessage, "category")
}

func TestRemoteFailureServesFallback(t *testing.T) {
	s := newTestServer(t, usecase.CatalogConfig{DatabaseID: "storefront", CollectionID: "products"}, brokenStore{})

	rec, env := s.do(t, http.MethodGet, "/api/v1/products?category=gift-cards", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]models.Product](t, env), 6)
	assert.Equal(t, "fallback", rec.Header().Get(pkgmdw.HeaderCatalogSource))
	assert.Equal(t, "remote_error", rec.Header().Get(pkgmdw.HeaderCatalogDegradedReason))
}

func TestGetProduct(t *testing.T) {
	s := newTestServer(t, usecase.CatalogConfig{}, nil)

	rec, env := s.do(t, http.MethodGet, "/api/v1/products/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	product := decodeData[models.Product](t, env)
	assert.Equal(t, "Xbox Series X", product.Name)

	rec, env = s.do(t, http.MethodGet, "/api/v1/products/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NotFound", env.ErrorCode)
	assert.Equal(t, "fallback", rec.Header().Get(pkgmdw.HeaderCatalogSource))
}

func TestStorefront(t *testing.T) {
	s := newTestServer(t, usecase.CatalogConfig{}, nil)

	rec, env := s.do(t, http.MethodGet, "/api/v1/storefront", "")

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeData[StorefrontResponse](t, env)
	assert.Equal(t, []string{"1", "2", "7", "8"}, productIDs(got.Featured))
	assert.Len(t, got.Products, 12)
	assert.Len(t, got.Categories, 3)
	assert.Equal(t, "fallback", rec.Header().Get(pkgmdw.HeaderCatalogSource))
}

func TestCategoriesAndPlans(t *testing.T) {
	s := newTestServer(t, usecase.CatalogConfig{}, nil)

	_, env := s.do(t, http.MethodGet, "/api/v1/categories", "")
	assert.Equal(t, models.Categories, decodeData[[]models.Category](t, env))

	_, env = s.do(t, http.MethodGet, "/api/v1/rental-plans", "")
	plans := decodeData[[]models.RentalPlan](t, env)
	require.Len(t, plans, 3)
	assert.True(t, plans[1].Popular)
}

func TestCartFlow(t *testing.T) {
	s := newTestServer(t, usecase.CatalogConfig{}, nil)

	rec, env := s.do(t, http.MethodPost, "/api/v1/carts", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	cart := decodeData[CartResponse](t, env)
	require.NotEmpty(t, cart.ID)
	base := "/api/v1/carts/" + cart.ID

	rec, env = s.do(t, http.MethodPost, base+"/items", `{"product_id":"1","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code, env.ErrorMessage)
	rec, env = s.do(t, http.MethodPost, base+"/items", `{"product_id":"3","type":"rental","plan_id":"weekly"}`)
	require.Equal(t, http.StatusOK, rec.Code, env.ErrorMessage)
	cart = decodeData[CartResponse](t, env)
	assert.Equal(t, 3, cart.ItemCount)
	assert.Equal(t, int64(2*89999+15000), cart.Total)
	assert.Equal(t, "JMD 194,998", cart.FormattedTotal)

	rec, env = s.do(t, http.MethodPatch, base+"/items/1", `{"delta":-1}`)
	require.Equal(t, http.StatusOK, rec.Code, env.ErrorMessage)
	assert.Equal(t, 2, decodeData[CartResponse](t, env).ItemCount)

	rec, env = s.do(t, http.MethodDelete, base+"/items/3", "")
	require.Equal(t, http.StatusOK, rec.Code, env.ErrorMessage)

	_, env = s.do(t, http.MethodGet, base, "")
	cart = decodeData[CartResponse](t, env)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "1", cart.Items[0].ProductID)
}

func TestCartErrors(t *testing.T) {
	s := newTestServer(t, usecase.CatalogConfig{}, nil)
	_, env := s.do(t, http.MethodPost, "/api/v1/carts", "")
	base := "/api/v1/carts/" + decodeData[CartResponse](t, env).ID

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"unknown cart", http.MethodGet, "/api/v1/carts/nope", "", http.StatusNotFound},
		{"missing product id", http.MethodPost, base + "/items", `{"quantity":1}`, http.StatusBadRequest},
		{"unknown product", http.MethodPost, base + "/items", `{"product_id":"404"}`, http.StatusNotFound},
		{"out of stock", http.MethodPost, base + "/items", `{"product_id":"4"}`, http.StatusConflict},
		{"unknown plan", http.MethodPost, base + "/items", `{"product_id":"1","type":"rental","plan_id":"yearly"}`, http.StatusBadRequest},
		{"quantity over line limit", http.MethodPost, base + "/items", `{"product_id":"1","quantity":100}`, http.StatusBadRequest},
		{"delta over line limit", http.MethodPatch, base + "/items/1", `{"delta":100}`, http.StatusBadRequest},
		{"zero delta", http.MethodPatch, base + "/items/1", `{"delta":0}`, http.StatusBadRequest},
		{"remove absent item", http.MethodDelete, base + "/items/1", "", http.StatusNotFound},
		{"malformed body", http.MethodPost, base + "/items", `{"product_id":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.ErrorMessage)
		})
	}
}

const validSurvey = `{
	"consolesOwned": ["PlayStation 4"],
	"importantFactors": ["Price"],
	"playFrequency": "Daily",
	"gameTypes": ["Sports"],
	"ps5Features": ["Exclusive Titles"],
	"infoSources": ["YouTube"],
	"purchaseReason": "Price drop or sale",
	"purchaseType": "For myself",
	"ageRange": "18-24",
	"gamerType": "Hardcore Gamer"
}`

func TestSurveyQuestionsRoute(t *testing.T) {
	s := newTestServer(t, usecase.CatalogConfig{}, nil)

	rec, env := s.do(t, http.MethodGet, "/api/v1/survey/questions", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]models.SurveyQuestion](t, env), 10)
}

func TestSurveySubmitRoute(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		hookErr    error
		wantStatus int
		wantCode   string
		wantCalls  int
	}{
		{"accepted", validSurvey, nil, http.StatusCreated, "", 1},
		{"missing answers", `{"consolesOwned":["PlayStation 4"]}`, nil, http.StatusBadRequest, "", 0},
		{"webhook rejected", validSurvey, errors.New("webhook responded with status 500"), http.StatusBadGateway, "submission_failed", 1},
		{"webhook not configured", validSurvey, webhook.ErrNotConfigured, http.StatusServiceUnavailable, "webhook_not_configured", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, usecase.CatalogConfig{}, nil)
			s.hook.err = tt.hookErr

			rec, env := s.do(t, http.MethodPost, "/api/v1/survey/submissions", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code, env.ErrorMessage)
			assert.Equal(t, tt.wantCode, env.ErrorCode)
			assert.Equal(t, tt.wantCalls, s.hook.calls)
			if tt.wantStatus == http.StatusCreated {
				sub := decodeData[models.SurveySubmission](t, env)
				assert.Equal(t, "YaadPlay Gaming Survey", sub.Source)
				assert.Equal(t, "Daily", sub.PlayFrequency)
				assert.NotEmpty(t, sub.Timestamp)
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, usecase.CatalogConfig{}, nil)

	rec, env := s.do(t, http.MethodGet, "/api/v1/consoles", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no route matched", env.ErrorMessage)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID), fmt.Sprint(rec.Header()))
}
