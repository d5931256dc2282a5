package idempotency

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/warehouse-ops/pkg/logging"
)

type stubStore struct {
	*MemoryStore
	reserve func(ctx context.Context, rec *Record) (*Record, bool, error)
}

func (s *stubStore) Reserve(ctx context.Context, rec *Record) (*Record, bool, error) {
	return s.reserve(ctx, rec)
}

type harness struct {
	router *gin.Engine
	calls  int
}

func newHarness(opts *Options) *harness {
	gin.SetMode(gin.TestMode)
	h := &harness{router: gin.New()}
	h.router.Use(Middleware(opts))
	h.router.POST("/api/orders", func(c *gin.Context) {
		h.calls++
		c.Header("Location", "/api/orders/ORD-1")
		c.JSON(http.StatusCreated, gin.H{"id": "ORD-1", "call": h.calls})
	})
	h.router.POST("/api/returns", func(c *gin.Context) {
		h.calls++
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL_ERROR"})
	})
	h.router.GET("/api/orders", func(c *gin.Context) {
		h.calls++
		c.JSON(http.StatusOK, gin.H{})
	})
	return h
}

func (h *harness) send(method, path, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(HeaderKey, key)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func defaultOptions() *Options {
	return NewOptions("warehouse-ops", NewMemoryStore(), logging.NewNop())
}

func TestRequestsWithoutKeyPassThrough(t *testing.T) {
	h := newHarness(defaultOptions())

	h.send(http.MethodPost, "/api/orders", "", `{}`)
	h.send(http.MethodPost, "/api/orders", "", `{}`)

	assert.Equal(t, 2, h.calls)
}

func TestRequiredKeyIsEnforced(t *testing.T) {
	opts := defaultOptions()
	opts.RequireKey = true
	h := newHarness(opts)

	w := h.send(http.MethodPost, "/api/orders", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.send(http.MethodGet, "/api/orders", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, h.calls)
}

func TestMalformedKeyIsRejected(t *testing.T) {
	h := newHarness(defaultOptions())

	w := h.send(http.MethodPost, "/api/orders", "bad key!", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, h.calls)
}

func TestCompletedRequestIsReplayed(t *testing.T) {
	h := newHarness(defaultOptions())

	first := h.send(http.MethodPost, "/api/orders", "order-key-1", `{"customerName":"Acme"}`)
	second := h.send(http.MethodPost, "/api/orders", "order-key-1", `{"customerName":"Acme"}`)

	require.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "/api/orders/ORD-1", second.Header().Get("Location"))
	assert.Equal(t, "true", second.Header().Get(HeaderReplayed))
	assert.Equal(t, 1, h.calls)
}

func TestKeyReusedWithDifferentBody(t *testing.T) {
	h := newHarness(defaultOptions())

	h.send(http.MethodPost, "/api/orders", "order-key-2", `{"customerName":"Acme"}`)
	w := h.send(http.MethodPost, "/api/orders", "order-key-2", `{"customerName":"Globex"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "IDEMPOTENCY_PARAMETER_MISMATCH")
	assert.Equal(t, 1, h.calls)
}

func TestInFlightKeyConflicts(t *testing.T) {
	store := &stubStore{MemoryStore: NewMemoryStore()}
	store.reserve = func(_ context.Context, rec *Record) (*Record, bool, error) {
		held := *rec
		held.ID = "other"
		return &held, false, nil
	}
	opts := defaultOptions()
	opts.Store = store
	h := newHarness(opts)

	w := h.send(http.MethodPost, "/api/orders", "order-key-3", `{}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Zero(t, h.calls)
}

func TestStaleKeyIsTakenOver(t *testing.T) {
	store := &stubStore{MemoryStore: NewMemoryStore()}
	store.reserve = func(_ context.Context, rec *Record) (*Record, bool, error) {
		held := *rec
		held.ReservedAt = rec.ReservedAt.Add(-time.Hour)
		return &held, false, nil
	}
	opts := defaultOptions()
	opts.Store = store
	h := newHarness(opts)

	w := h.send(http.MethodPost, "/api/orders", "order-key-4", `{}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, h.calls)
}

func TestStoreFailureIsServiceUnavailable(t *testing.T) {
	store := &stubStore{MemoryStore: NewMemoryStore()}
	store.reserve = func(context.Context, *Record) (*Record, bool, error) {
		return nil, false, errors.New("connection refused")
	}
	opts := defaultOptions()
	opts.Store = store
	h := newHarness(opts)

	w := h.send(http.MethodPost, "/api/orders", "order-key-5", `{}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Zero(t, h.calls)
}

func TestServerErrorReleasesKey(t *testing.T) {
	h := newHarness(defaultOptions())

	h.send(http.MethodPost, "/api/returns", "return-key", `{}`)
	h.send(http.MethodPost, "/api/returns", "return-key", `{}`)

	assert.Equal(t, 2, h.calls)
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want error
	}{
		{"valid", "abc-123_XYZ", nil},
		{"empty", "", ErrKeyRequired},
		{"spaces", "a b", ErrKeyInvalid},
		{"too long", strings.Repeat("a", 256), ErrKeyTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateKey(tt.key, 255), tt.want)
		})
	}
}

func TestFingerprintCoversPath(t *testing.T) {
	body := []byte(`{"status":"in_progress"}`)
	assert.NotEqual(t,
		Fingerprint(http.MethodPatch, "/api/warehouse/pick-tasks/PT-1", body),
		Fingerprint(http.MethodPatch, "/api/warehouse/pick-tasks/PT-2", body),
	)
}

func TestMemoryStorePurge(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_, _, err := store.Reserve(ctx, &Record{ID: "1", Service: "s", Key: "old", ExpiresAt: time.Now().Add(-time.Minute)})
	require.NoError(t, err)
	_, _, err = store.Reserve(ctx, &Record{ID: "2", Service: "s", Key: "new", ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	purged, err := store.Purge(ctx, time.Now())

	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
	_, inserted, err := store.Reserve(ctx, &Record{ID: "3", Service: "s", Key: "old"})
	require.NoError(t, err)
	assert.True(t, inserted)
}
