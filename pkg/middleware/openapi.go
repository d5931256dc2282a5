package middleware

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/warehouse-ops/pkg/contracts/openapi"
	"github.com/wms-platform/warehouse-ops/pkg/errors"
)

// RequestValidator validates an incoming request against an API contract
type RequestValidator interface {
	ValidateRequest(ctx context.Context, req *http.Request) error
}

// OpenAPIValidation rejects requests that violate the API contract with a 400.
// Routes the contract does not describe pass through untouched.
func OpenAPIValidation(v RequestValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v == nil {
			c.Next()
			return
		}

		err := v.ValidateRequest(c.Request.Context(), c.Request)
		if err == nil || stderrors.Is(err, openapi.ErrRouteNotFound) {
			c.Next()
			return
		}

		AbortWithAppError(c, errors.ErrValidation("request does not match API contract").
			WithDetail("contract", err.Error()))
	}
}
