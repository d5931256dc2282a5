package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/warehouse-ops/internal/application"
	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/auth"
	"github.com/wms-platform/warehouse-ops/pkg/errors"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/middleware"
)

type mockPickingService struct {
	listFn        func(ctx context.Context, filter domain.TaskFilter) ([]application.PickTaskDTO, error)
	getFn         func(ctx context.Context, taskID string) (*application.PickTaskDTO, error)
	listItemsFn   func(ctx context.Context, taskID string) ([]application.PickTaskItemDTO, error)
	createFn      func(ctx context.Context, cmd application.CreatePickTaskCommand) (*application.PickTaskDTO, error)
	updateFn      func(ctx context.Context, cmd application.UpdatePickTaskStatusCommand) (*application.PickTaskDTO, error)
	completeFn    func(ctx context.Context, cmd application.CompletePickItemCommand) (*application.PickTaskItemDTO, error)
	unavailableFn func(ctx context.Context, cmd application.MarkItemUnavailableCommand) (*application.PickTaskItemDTO, error)
	verifyFn      func(ctx context.Context, cmd application.VerifyScanCommand) (*application.ScanVerificationDTO, error)
}

func (m *mockPickingService) ListPickTasks(ctx context.Context, filter domain.TaskFilter) ([]application.PickTaskDTO, error) {
	if m.listFn == nil {
		panic("ListPickTasks not implemented")
	}
	return m.listFn(ctx, filter)
}

func (m *mockPickingService) GetPickTask(ctx context.Context, taskID string) (*application.PickTaskDTO, error) {
	if m.getFn == nil {
		panic("GetPickTask not implemented")
	}
	return m.getFn(ctx, taskID)
}

func (m *mockPickingService) ListPickTaskItems(ctx context.Context, taskID string) ([]application.PickTaskItemDTO, error) {
	if m.listItemsFn == nil {
		panic("ListPickTaskItems not implemented")
	}
	return m.listItemsFn(ctx, taskID)
}

func (m *mockPickingService) CreatePickTask(ctx context.Context, cmd application.CreatePickTaskCommand) (*application.PickTaskDTO, error) {
	if m.createFn == nil {
		panic("CreatePickTask not implemented")
	}
	return m.createFn(ctx, cmd)
}

func (m *mockPickingService) UpdatePickTaskStatus(ctx context.Context, cmd application.UpdatePickTaskStatusCommand) (*application.PickTaskDTO, error) {
	if m.updateFn == nil {
		panic("UpdatePickTaskStatus not implemented")
	}
	return m.updateFn(ctx, cmd)
}

func (m *mockPickingService) CompletePickItem(ctx context.Context, cmd application.CompletePickItemCommand) (*application.PickTaskItemDTO, error) {
	if m.completeFn == nil {
		panic("CompletePickItem not implemented")
	}
	return m.completeFn(ctx, cmd)
}

func (m *mockPickingService) MarkItemUnavailable(ctx context.Context, cmd application.MarkItemUnavailableCommand) (*application.PickTaskItemDTO, error) {
	if m.unavailableFn == nil {
		panic("MarkItemUnavailable not implemented")
	}
	return m.unavailableFn(ctx, cmd)
}

func (m *mockPickingService) VerifyScan(ctx context.Context, cmd application.VerifyScanCommand) (*application.ScanVerificationDTO, error) {
	if m.verifyFn == nil {
		panic("VerifyScan not implemented")
	}
	return m.verifyFn(ctx, cmd)
}

func newPickingRouter(service PickingService, principal *auth.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.InitValidator()
	router := gin.New()
	if principal != nil {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.ContextKeyPrincipal, principal)
			c.Next()
		})
	}
	NewPickingHandlers(service, logging.NewNop()).RegisterRoutes(router.Group("/api/warehouse"))
	return router
}

func performRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) middleware.APIErrorResponse {
	t.Helper()
	var body middleware.APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPickingHandlers_ListPickTasks(t *testing.T) {
	var got domain.TaskFilter
	service := &mockPickingService{
		listFn: func(_ context.Context, filter domain.TaskFilter) ([]application.PickTaskDTO, error) {
			got = filter
			return []application.PickTaskDTO{{ID: "PT-1", Status: "pending"}}, nil
		},
	}
	router := newPickingRouter(service, nil)

	rec := performRequest(router, http.MethodGet, "/api/warehouse/pick-tasks?status=pending&priority=high&q=ord-1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.TaskFilter{Status: "pending", Priority: "high", Query: "ord-1"}, got)
	assert.Contains(t, rec.Body.String(), `"id":"PT-1"`)
}

func TestPickingHandlers_UpdatePickTask(t *testing.T) {
	t.Run("uses the authenticated user as actor", func(t *testing.T) {
		var got application.UpdatePickTaskStatusCommand
		service := &mockPickingService{
			updateFn: func(_ context.Context, cmd application.UpdatePickTaskStatusCommand) (*application.PickTaskDTO, error) {
				got = cmd
				return &application.PickTaskDTO{ID: cmd.TaskID, Status: "in_progress", AssignedTo: cmd.Actor}, nil
			},
		}
		router := newPickingRouter(service, &auth.Principal{Username: "warehouse1"})

		rec := performRequest(router, http.MethodPatch, "/api/warehouse/pick-tasks/PT-1", `{"status":"in_progress"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "PT-1", got.TaskID)
		assert.Equal(t, "in_progress", got.Status)
		assert.Equal(t, "warehouse1", got.Actor)
	})

	t.Run("missing status", func(t *testing.T) {
		router := newPickingRouter(&mockPickingService{}, nil)

		rec := performRequest(router, http.MethodPatch, "/api/warehouse/pick-tasks/PT-1", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, errors.CodeValidationError, body.Code)
		assert.Equal(t, "is required", body.Details["status"])
	})

	t.Run("rejected transition", func(t *testing.T) {
		service := &mockPickingService{
			updateFn: func(context.Context, application.UpdatePickTaskStatusCommand) (*application.PickTaskDTO, error) {
				return nil, errors.ErrInvalidStatusTransition("task can only be started from pending")
			},
		}
		router := newPickingRouter(service, nil)

		rec := performRequest(router, http.MethodPatch, "/api/warehouse/pick-tasks/PT-1", `{"status":"in_progress"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, errors.CodeInvalidStatusTransition, decodeError(t, rec).Code)
	})
}

func TestPickingHandlers_CompletePickItem(t *testing.T) {
	t.Run("zero quantity is forwarded", func(t *testing.T) {
		var got application.CompletePickItemCommand
		service := &mockPickingService{
			completeFn: func(_ context.Context, cmd application.CompletePickItemCommand) (*application.PickTaskItemDTO, error) {
				got = cmd
				return &application.PickTaskItemDTO{ID: cmd.ItemID, Status: "unavailable"}, nil
			},
		}
		router := newPickingRouter(service, nil)

		rec := performRequest(router, http.MethodPut, "/api/warehouse/pick-task-items/PT-1-1/complete",
			`{"pickedQuantity":0,"notes":"shelf empty"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "PT-1-1", got.ItemID)
		assert.Zero(t, got.PickedQuantity)
		assert.Equal(t, "shelf empty", got.Notes)
	})

	t.Run("quantity is required", func(t *testing.T) {
		router := newPickingRouter(&mockPickingService{}, nil)

		rec := performRequest(router, http.MethodPut, "/api/warehouse/pick-task-items/PT-1-1/complete", `{"locationId":"A-01"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("scan mismatch", func(t *testing.T) {
		service := &mockPickingService{
			completeFn: func(context.Context, application.CompletePickItemCommand) (*application.PickTaskItemDTO, error) {
				return nil, errors.ErrUnprocessable(errors.CodeScanMismatch, "scanned codes do not match")
			},
		}
		router := newPickingRouter(service, nil)

		rec := performRequest(router, http.MethodPut, "/api/warehouse/pick-task-items/PT-1-1/complete",
			`{"pickedQuantity":1,"itemCode":"SKU-9","locationCode":"LOC-A-01"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, errors.CodeScanMismatch, decodeError(t, rec).Code)
	})
}

func TestPickingHandlers_VerifyScanWithoutBody(t *testing.T) {
	var got application.VerifyScanCommand
	service := &mockPickingService{
		verifyFn: func(_ context.Context, cmd application.VerifyScanCommand) (*application.ScanVerificationDTO, error) {
			got = cmd
			return &application.ScanVerificationDTO{ItemID: cmd.ItemID}, nil
		},
	}
	router := newPickingRouter(service, nil)

	rec := performRequest(router, http.MethodPost, "/api/warehouse/pick-task-items/PT-1-1/scan-verification", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PT-1-1", got.ItemID)
	assert.False(t, got.Simulate)
}

func TestPickingHandlers_CreatePickTaskValidation(t *testing.T) {
	router := newPickingRouter(&mockPickingService{}, nil)

	rec := performRequest(router, http.MethodPost, "/api/warehouse/pick-tasks",
		`{"customerOrderId":"ORD-1","priority":"whenever","items":[{"sku":"SKU-1","quantity":1,"locationId":"A-01"}]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "must be one of: urgent, high, medium, low", decodeError(t, rec).Details["priority"])
}
