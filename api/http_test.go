package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"realtimesales/domain"

	"firebase.google.com/go/v4/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderService struct {
	lastKey  string
	post     *domain.OrderResponse
	postErr  error
	list     *domain.OrderListResponse
	refresh  error
	captured *domain.OrderRequest
}

func (f *fakeOrderService) PostOrder(ctx context.Context, request *domain.OrderRequest, key string) (*domain.OrderResponse, error) {
	f.lastKey = key
	f.captured = request
	return f.post, f.postErr
}

func (f *fakeOrderService) ListOrders(ctx context.Context) (*domain.OrderListResponse, error) {
	return f.list, nil
}

func (f *fakeOrderService) RefreshOrders(ctx context.Context) (*domain.OrderListResponse, error) {
	return f.list, f.refresh
}

type fakeAnalyticsService struct {
	summary domain.AnalyticsSummary
}

func (f fakeAnalyticsService) GetAnalytics(ctx context.Context) (*domain.AnalyticsResponse, error) {
	return &domain.AnalyticsResponse{Success: true, Analytics: f.summary}, nil
}

// Watch emits one summary and closes
func (f fakeAnalyticsService) Watch(ctx context.Context) <-chan domain.AnalyticsSummary {
	ch := make(chan domain.AnalyticsSummary, 1)
	ch <- f.summary
	close(ch)
	return ch
}

type fakeSalesService struct {
	request *domain.SalesMetricRequest
}

func (f *fakeSalesService) GetSalesMetrics(ctx context.Context, request *domain.SalesMetricRequest) (*domain.SalesMetricResponse, error) {
	f.request = request
	return &domain.SalesMetricResponse{Success: true, Metrics: []domain.SalesMetricResult{{Bucket: "total", Orders: 2}}}, nil
}

type fakeUserService struct {
	err error
}

func (f fakeUserService) SignUp(ctx context.Context, request *domain.SignUpRequest) (*domain.SignUpResponse, error) {
	if f.err != nil {
		return &domain.SignUpResponse{Success: false, Message: f.err.Error()}, f.err
	}
	return &domain.SignUpResponse{Success: true, UID: "uid-1"}, nil
}

type fakeVerifier struct{}

func (fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if idToken != "good" {
		return nil, errors.New("token expired")
	}
	return &auth.Token{UID: "uid-1"}, nil
}

type testDeps struct {
	orders   *fakeOrderService
	sales    *fakeSalesService
	users    fakeUserService
	verifier TokenVerifier
	health   HealthChecks
}

func newTestApp(t *testing.T, deps testDeps) *fiber.App {
	t.Helper()
	if deps.orders == nil {
		deps.orders = &fakeOrderService{list: &domain.OrderListResponse{Success: true, Orders: []domain.Order{}}}
	}
	ok := func(ctx context.Context) error { return nil }
	if deps.health.OrderStore == nil {
		deps.health.OrderStore = ok
	}
	if deps.health.Redis == nil {
		deps.health.Redis = ok
	}

	var sales SalesHandler = NewSalesHandler(nil)
	if deps.sales != nil {
		sales = NewSalesHandler(deps.sales)
	}

	app := fiber.New()
	Routes{
		Orders:    NewOrderHandler(deps.orders),
		Analytics: NewAnalyticsHandler(context.Background(), fakeAnalyticsService{summary: domain.AnalyticsSummary{TotalRevenue: 90}}),
		Sales:     sales,
		Users:     NewUserHandler(deps.users),
		Health:    NewHealthCheck(deps.health),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "sales_orders_submitted_total 1\n")
		}),
		Verifier: deps.verifier,
	}.Mount(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestPostOrder_Created(t *testing.T) {
	orders := &fakeOrderService{post: &domain.OrderResponse{
		Success: true,
		Order:   &domain.Order{ID: "o1", ProductName: "Tea", Price: 2, Quantity: 3, Timestamp: time.Now()},
	}}
	app := newTestApp(t, testDeps{orders: orders})

	resp, body := doJSON(t, app, http.MethodPost, "/orders", `{"productName":"Tea","price":2,"quantity":3}`,
		map[string]string{IdempotencyKeyHeader: "key-1"})

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "key-1", orders.lastKey)
	assert.Equal(t, domain.OrderRequest{ProductName: "Tea", Price: 2, Quantity: 3}, *orders.captured)
}

func TestPostOrder_Replay(t *testing.T) {
	orders := &fakeOrderService{post: &domain.OrderResponse{Success: true, Replay: true, Order: &domain.Order{ID: "o1"}}}
	app := newTestApp(t, testDeps{orders: orders})

	resp, body := doJSON(t, app, http.MethodPost, "/orders", `{"productName":"Tea","price":2,"quantity":3}`, nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["replay"])
}

func TestPostOrder_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"malformed body", `{"productName":`, nil, fiber.StatusBadRequest},
		{"zero quantity", `{"productName":"Tea","price":2,"quantity":0}`, nil, fiber.StatusBadRequest},
		{"negative price", `{"productName":"Tea","price":-2,"quantity":1}`, nil, fiber.StatusBadRequest},
		{"missing product", `{"price":2,"quantity":1}`, nil, fiber.StatusBadRequest},
		{"key in flight", `{"productName":"Tea","price":2,"quantity":1}`, domain.ErrDuplicateOrder, fiber.StatusConflict},
		{"write failed", `{"productName":"Tea","price":2,"quantity":1}`, errors.New("firestore unavailable"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &fakeOrderService{post: &domain.OrderResponse{Success: false}, postErr: tt.err}
			app := newTestApp(t, testDeps{orders: orders})

			resp, body := doJSON(t, app, http.MethodPost, "/orders", tt.body, nil)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestRefreshOrders_UpstreamFailure(t *testing.T) {
	orders := &fakeOrderService{
		list:    &domain.OrderListResponse{Success: false, Orders: []domain.Order{{ID: "o1"}}},
		refresh: errors.New("backend unavailable"),
	}
	app := newTestApp(t, testDeps{orders: orders})

	resp, body := doJSON(t, app, http.MethodPost, "/orders/refresh", "", nil)

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Len(t, body["orders"], 1)
}

func TestGetAnalytics(t *testing.T) {
	app := newTestApp(t, testDeps{})

	resp, body := doJSON(t, app, http.MethodGet, "/analytics", "", nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	analytics := body["analytics"].(map[string]any)
	assert.Equal(t, 90.0, analytics["totalRevenue"])
}

func TestStreamAnalytics(t *testing.T) {
	app := newTestApp(t, testDeps{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/analytics/stream", nil), -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, "text/event-stream", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, string(raw), "event: analytics\ndata: {")
	assert.Contains(t, string(raw), `"totalRevenue":90`)
}

func TestGetSalesMetrics(t *testing.T) {
	sales := &fakeSalesService{}
	app := newTestApp(t, testDeps{sales: sales})

	resp, body := doJSON(t, app, http.MethodGet, "/sales/metrics?group_by=product&from=1732147200&product_name=Tea", "", nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	require.NotNil(t, sales.request)
	assert.Equal(t, "product", *sales.request.GroupBy)
	assert.Equal(t, int64(1732147200), *sales.request.From)
	assert.Equal(t, "Tea", *sales.request.ProductName)
}

func TestGetSalesMetrics_BadInput(t *testing.T) {
	app := newTestApp(t, testDeps{sales: &fakeSalesService{}})

	resp, _ := doJSON(t, app, http.MethodGet, "/sales/metrics?from=yesterday", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/sales/metrics?group_by=campaign", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetSalesMetrics_MirrorDisabled(t *testing.T) {
	app := newTestApp(t, testDeps{})

	resp, _ := doJSON(t, app, http.MethodGet, "/sales/metrics", "", nil)

	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestSignUp(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"created", `{"name":"sara","email":"sara@example.com","password":"s3cret"}`, nil, fiber.StatusCreated},
		{"name too long", `{"name":"abcdefghijk","email":"sara@example.com","password":"s3cret"}`, nil, fiber.StatusBadRequest},
		{"email in use", `{"name":"sara","email":"sara@example.com","password":"s3cret"}`, domain.ErrEmailAlreadyInUse, fiber.StatusConflict},
		{"email rejected", `{"name":"sara","email":"sara@example.com","password":"s3cret"}`, domain.ErrInvalidEmail, fiber.StatusBadRequest},
		{"provider failure", `{"name":"sara","email":"sara@example.com","password":"s3cret"}`, errors.New("quota"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, testDeps{users: fakeUserService{err: tt.err}})

			resp, _ := doJSON(t, app, http.MethodPost, "/auth/signup", tt.body, nil)

			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	app := newTestApp(t, testDeps{verifier: fakeVerifier{}})

	resp, body := doJSON(t, app, http.MethodGet, "/orders", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Missing bearer token", body["message"])

	resp, body = doJSON(t, app, http.MethodGet, "/orders", "", map[string]string{fiber.HeaderAuthorization: "Bearer stale"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token", body["message"])

	resp, _ = doJSON(t, app, http.MethodGet, "/orders", "", map[string]string{fiber.HeaderAuthorization: "Bearer good"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// public routes stay open
	resp, _ = doJSON(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAuth_UnknownPathNotFound(t *testing.T) {
	app := newTestApp(t, testDeps{verifier: fakeVerifier{}})

	resp, _ := doJSON(t, app, http.MethodGet, "/no-such-route", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/analytics/unknown", "", map[string]string{fiber.HeaderAuthorization: "Bearer good"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHealthCheck(t *testing.T) {
	failing := func(ctx context.Context) error { return errors.New("connection refused") }

	app := newTestApp(t, testDeps{health: HealthChecks{ClickHouse: failing}})
	resp, body := doJSON(t, app, http.MethodGet, "/health", "", nil)

	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "unhealthy", body["status"])
	services := body["services"].(map[string]any)
	assert.Equal(t, "healthy", services["redis"].(map[string]any)["status"])
	assert.Equal(t, "connection refused", services["clickhouse"].(map[string]any)["message"])

	app = newTestApp(t, testDeps{})
	resp, body = doJSON(t, app, http.MethodGet, "/health", "", nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotContains(t, body["services"], "clickhouse")
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t, testDeps{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "sales_orders_submitted_total")
}
