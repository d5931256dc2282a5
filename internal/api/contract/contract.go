// Package contract embeds the HTTP and event contracts of the service.
package contract

import (
	_ "embed"

	"github.com/wms-platform/warehouse-ops/pkg/contracts/asyncapi"
	"github.com/wms-platform/warehouse-ops/pkg/contracts/openapi"
)

//go:embed openapi.yaml
var OpenAPISpec []byte

//go:embed asyncapi.yaml
var AsyncAPISpec []byte

// NewRequestValidator compiles the embedded OpenAPI document
func NewRequestValidator() (*openapi.Validator, error) {
	return openapi.NewValidator(OpenAPISpec)
}

// NewEventValidator compiles the event payload schemas of the embedded
// AsyncAPI document
func NewEventValidator() (*asyncapi.EventValidator, error) {
	return asyncapi.NewEventValidator(AsyncAPISpec)
}
