package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/wms-platform/warehouse-ops/pkg/contracts/openapi"
)

type stubRequestValidator struct {
	err error
}

func (s stubRequestValidator) ValidateRequest(context.Context, *http.Request) error {
	return s.err
}

func TestOpenAPIValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"valid", nil, http.StatusOK},
		{"undocumented route", fmt.Errorf("%w: GET /x", openapi.ErrRouteNotFound), http.StatusOK},
		{"invalid body", fmt.Errorf("request validation failed"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(OpenAPIValidation(stubRequestValidator{err: tt.err}))
			router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
