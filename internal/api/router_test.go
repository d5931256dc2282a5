package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/warehouse-ops/internal/api/contract"
	"github.com/wms-platform/warehouse-ops/internal/api/handlers"
	"github.com/wms-platform/warehouse-ops/internal/application"
	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/internal/fixtures"
	"github.com/wms-platform/warehouse-ops/internal/infrastructure/memory"
	"github.com/wms-platform/warehouse-ops/pkg/auth"
	"github.com/wms-platform/warehouse-ops/pkg/cloudevents"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
	"github.com/wms-platform/warehouse-ops/pkg/middleware"
)

type testServer struct {
	router *gin.Engine
	stores *memory.Stores
	token  string
}

func newTestServer(t *testing.T, opts ...func(*RouterConfig)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.InitValidator()

	ctx := context.Background()
	logger := logging.NewNop()
	m := metrics.New(metrics.DefaultConfig("warehouse-ops-test"))
	stores := memory.NewStores(cloudevents.NewEventFactory("/warehouse-ops"))

	_, err := fixtures.Seed(ctx, fixtures.Stores{
		PickTasks:   stores.PickTasks,
		PackTasks:   stores.PackTasks,
		Orders:      stores.Orders,
		Returns:     stores.Returns,
		CycleCounts: stores.CycleCounts,
		Users:       stores.Users,
		Dashboard:   stores.Dashboard,
	}, fixtures.NewBuilder(time.Now()), logger)
	require.NoError(t, err)

	tokens := auth.NewTokenService(auth.DefaultConfig("test-secret"))
	requests, err := contract.NewRequestValidator()
	require.NoError(t, err)

	picking := application.NewPickingApplicationService(stores.PickTasks, stores.Orders, nil, nil,
		application.PickingConfig{ScanSimulation: true}, logger, m)
	packing := application.NewPackingApplicationService(stores.PackTasks, stores.PickTasks, nil, logger, m)
	orders := application.NewOrderApplicationService(stores.Orders, nil, nil, logger, m)
	returns := application.NewReturnApplicationService(stores.Returns, stores.Orders, stores.Transactor, nil, logger, m)
	counts := application.NewCycleCountApplicationService(stores.CycleCounts, nil, logger, m)
	accounts := application.NewAuthApplicationService(stores.Users, tokens, logger)
	settings := application.NewSettingsApplicationService(stores.Settings, nil, logger)
	dashboards := application.NewDashboardApplicationService(stores.Dashboard, logger)

	routerConfig := RouterConfig{
		ServiceName:      "warehouse-ops-test",
		Logger:           logger,
		Metrics:          m,
		TokenValidator:   tokens,
		RequestValidator: requests,
	}
	for _, opt := range opts {
		opt(&routerConfig)
	}

	router := NewRouter(routerConfig, Handlers{
		Picking:     handlers.NewPickingHandlers(picking, logger),
		Packing:     handlers.NewPackingHandlers(packing, logger),
		Orders:      handlers.NewOrderHandlers(orders, returns, logger),
		CycleCounts: handlers.NewCycleCountHandlers(counts, logger),
		Accounts:    handlers.NewAccountHandlers(accounts, settings, logger),
		Dashboards:  handlers.NewDashboardHandlers(dashboards, logger),
	})

	return &testServer{router: router, stores: stores}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, username, password string) {
	t.Helper()
	w := s.do(t, http.MethodPost, LoginPath, map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result application.LoginResultDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotEmpty(t, result.Token)
	s.token = result.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/ready", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/metrics", nil).Code)
}

func TestAPIRequiresBearerToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/warehouse/pick-tasks", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, LoginPath, map[string]string{"username": "warehouse1", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.token = "not-a-jwt"
	w = s.do(t, http.MethodGet, "/api/warehouse/pick-tasks", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "warehouse1", fixtures.DefaultPassword)

	w := s.do(t, http.MethodGet, "/api/auth/me", nil)

	require.Equal(t, http.StatusOK, w.Code)
	user := decode[application.UserDTO](t, w)
	assert.Equal(t, "warehouse1", user.Username)
	assert.Equal(t, "warehouse_staff", user.Role)
}

func TestPickTaskLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "warehouse1", fixtures.DefaultPassword)

	w := s.do(t, http.MethodPatch, "/api/warehouse/pick-tasks/PT-1001", map[string]string{"status": "in_progress"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/warehouse/pick-tasks/PT-1001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	task := decode[application.PickTaskDTO](t, w)
	assert.Equal(t, "in_progress", task.Status)
	assert.Equal(t, "warehouse1", task.AssignedTo)
	assert.NotNil(t, task.StartedAt)

	w = s.do(t, http.MethodPatch, "/api/warehouse/pick-tasks/PT-1001", map[string]string{"status": "in_progress"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPatch, "/api/warehouse/pick-tasks/PT-1001", map[string]string{"status": "picked"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	events, err := s.stores.Outbox.ForAggregate(context.Background(), "PT-1001")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestPickTaskNotFound(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "warehouse1", fixtures.DefaultPassword)

	w := s.do(t, http.MethodGet, "/api/warehouse/pick-tasks/PT-9999", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode[middleware.APIErrorResponse](t, w)
	assert.Equal(t, "RESOURCE_NOT_FOUND", body.Code)
}

func TestPackingFlow(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "warehouse1", fixtures.DefaultPassword)

	w := s.do(t, http.MethodPost, "/api/warehouse/packing-tasks/PK-2001/packages", map[string]any{
		"packageType":   "box",
		"length":        30,
		"width":         20,
		"height":        15,
		"dimensionUnit": "cm",
		"weight":        2.5,
		"weightUnit":    "kg",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	pkg := decode[application.PackageDTO](t, w)
	assert.Equal(t, "packed", pkg.Status)

	w = s.do(t, http.MethodPut, "/api/warehouse/packing-task-items/PK-2001-1/pack", map[string]any{"packageId": pkg.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	item := decode[application.PackTaskItemDTO](t, w)
	assert.Equal(t, "packed", item.Status)
	assert.Equal(t, 3, item.PackedQuantity)

	w = s.do(t, http.MethodGet, "/api/warehouse/packing-tasks/PK-2001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	task := decode[application.PackTaskDTO](t, w)
	assert.Equal(t, "in_progress", task.Status)

	w = s.do(t, http.MethodPatch, "/api/warehouse/packing-tasks/PK-2001", map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	task = decode[application.PackTaskDTO](t, w)
	assert.Equal(t, "completed", task.Status)
}

func TestPackageBelowMinimumWeightIsRejected(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "warehouse1", fixtures.DefaultPassword)

	w := s.do(t, http.MethodPost, "/api/warehouse/packing-tasks/PK-2001/packages", map[string]any{
		"packageType": "box", "length": 30, "width": 20, "height": 15, "weight": 0.05,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardsServeSeededData(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "manager1", fixtures.DefaultPassword)

	w := s.do(t, http.MethodGet, "/api/weather/alternative-routes", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var routes []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &routes))
	assert.Len(t, routes, 3)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "warehouse1", fixtures.DefaultPassword)

	w := s.do(t, http.MethodGet, "/api/warehouse/forklifts", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderDeletionRequiresManagerRole(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "warehouse1", fixtures.DefaultPassword)

	w := s.do(t, http.MethodDelete, "/api/orders/ORD-1001", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decode[middleware.APIErrorResponse](t, w)
	assert.Equal(t, "FORBIDDEN", body.Code)

	_, err := s.stores.Orders.FindByID(context.Background(), "ORD-1001")
	assert.NoError(t, err)
}

func TestEmptyFiltersMatchEverything(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "warehouse1", fixtures.DefaultPassword)

	w := s.do(t, http.MethodGet, "/api/warehouse/pick-tasks", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	all := decode[[]application.PickTaskDTO](t, w)
	require.NotEmpty(t, all)

	w = s.do(t, http.MethodGet, "/api/warehouse/pick-tasks?status=all&priority=all&q=", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[[]application.PickTaskDTO](t, w), len(all))

	w = s.do(t, http.MethodGet, "/api/orders?status=&q=", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestInventoryEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "warehouse1", fixtures.DefaultPassword)

	w := s.do(t, http.MethodGet, "/api/inventory?category=&q=", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[[]domain.InventoryItem](t, w), 6)

	w = s.do(t, http.MethodGet, "/api/inventory?category=Apparel&q=northwind", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	items := decode[[]domain.InventoryItem](t, w)
	require.Len(t, items, 2)
	assert.Equal(t, "SKU-3001", items[0].SKU)

	w = s.do(t, http.MethodGet, "/api/inventory?q=sku-2002", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[[]domain.InventoryItem](t, w), 1)

	w = s.do(t, http.MethodGet, "/api/inventory/alerts", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	alerts := decode[[]domain.InventoryAlert](t, w)
	severities := map[string]string{}
	for _, a := range alerts {
		severities[a.SKU] = a.Severity
	}
	assert.Equal(t, map[string]string{
		"SKU-1002": domain.AlertSeverityWarning,
		"SKU-2002": domain.AlertSeverityCritical,
		"SKU-3002": domain.AlertSeverityCritical,
	}, severities)
}
