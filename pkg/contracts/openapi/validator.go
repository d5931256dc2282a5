// Package openapi validates HTTP requests against an OpenAPI 3 document.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// ErrRouteNotFound is returned when the document does not describe a request
var ErrRouteNotFound = errors.New("route not described by OpenAPI document")

// Validator validates HTTP requests against an OpenAPI document
type Validator struct {
	doc    *openapi3.T
	router routers.Router
}

// NewValidator loads and validates an OpenAPI document
func NewValidator(specBytes []byte) (*Validator, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(specBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	return &Validator{doc: doc, router: router}, nil
}

// ValidateRequest validates parameters and body of req. The request body is
// restored so handlers can read it again.
func (v *Validator) ValidateRequest(ctx context.Context, req *http.Request) error {
	route, pathParams, err := v.router.FindRoute(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s", ErrRouteNotFound, req.Method, req.URL.Path)
	}

	input := &openapi3filter.RequestValidationInput{
		Request:    req,
		PathParams: pathParams,
		Route:      route,
		Options: &openapi3filter.Options{
			MultiError:         true,
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	}

	if err := openapi3filter.ValidateRequest(ctx, input); err != nil {
		return fmt.Errorf("request validation failed: %w", err)
	}

	return nil
}

// OperationID returns the operation ID for a given request
func (v *Validator) OperationID(req *http.Request) (string, error) {
	route, _, err := v.router.FindRoute(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s %s", ErrRouteNotFound, req.Method, req.URL.Path)
	}
	return route.Operation.OperationID, nil
}

// Document returns the parsed OpenAPI document
func (v *Validator) Document() *openapi3.T {
	return v.doc
}
