// Package asyncapi validates event payloads against the schemas of an
// AsyncAPI document.
package asyncapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// EventTypeKey is the schema extension naming the CloudEvents type a
// component schema describes
const EventTypeKey = "x-event-type"

// ErrNoSchema is returned for event types the document does not describe
var ErrNoSchema = errors.New("no schema registered for event type")

// EventValidator validates event data against AsyncAPI component schemas
type EventValidator struct {
	schemas    map[string]*jsonschema.Schema
	rawSchemas map[string]interface{}
	compiler   *jsonschema.Compiler
}

// Spec represents the relevant parts of an AsyncAPI document
type Spec struct {
	AsyncAPI   string             `yaml:"asyncapi"`
	Info       Info               `yaml:"info"`
	Channels   map[string]Channel `yaml:"channels"`
	Components Components         `yaml:"components"`
}

// Info contains the AsyncAPI info section
type Info struct {
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
}

// Channel represents a channel in AsyncAPI
type Channel struct {
	Address  string                 `yaml:"address"`
	Messages map[string]interface{} `yaml:"messages"`
}

// Components contains reusable components
type Components struct {
	Schemas  map[string]interface{} `yaml:"schemas"`
	Messages map[string]interface{} `yaml:"messages"`
}

// NewEventValidator compiles every component schema carrying an
// x-event-type extension
func NewEventValidator(specBytes []byte) (*EventValidator, error) {
	var spec Spec
	if err := yaml.Unmarshal(specBytes, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse AsyncAPI spec: %w", err)
	}

	v := &EventValidator{
		schemas:    make(map[string]*jsonschema.Schema),
		rawSchemas: make(map[string]interface{}),
		compiler:   jsonschema.NewCompiler(),
	}

	for name, schema := range spec.Components.Schemas {
		schemaMap, ok := schema.(map[string]interface{})
		if !ok {
			continue
		}

		eventType, _ := schemaMap[EventTypeKey].(string)
		if eventType == "" {
			continue
		}

		schemaJSON, err := json.Marshal(schemaMap)
		if err != nil {
			return nil, fmt.Errorf("failed to encode schema %s: %w", name, err)
		}

		if err := v.register(eventType, "asyncapi://schemas/"+name, schemaJSON); err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
	}

	return v, nil
}

func (v *EventValidator) register(eventType, uri string, schemaJSON []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	if err := v.compiler.AddResource(uri, doc); err != nil {
		return fmt.Errorf("failed to add schema resource: %w", err)
	}

	compiled, err := v.compiler.Compile(uri)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	v.schemas[eventType] = compiled
	v.rawSchemas[eventType] = doc
	return nil
}

// ValidateEvent validates a JSON data payload for the given event type
func (v *EventValidator) ValidateEvent(eventType string, payload []byte) error {
	if eventType == "" {
		return fmt.Errorf("event type is required")
	}

	schema, ok := v.schemas[eventType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSchema, eventType)
	}

	if len(payload) == 0 {
		return fmt.Errorf("event data is required")
	}

	data, err := jsonschema.UnmarshalJSON(bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to parse event data: %w", err)
	}

	if err := schema.Validate(data); err != nil {
		return fmt.Errorf("event data validation failed for type %s: %w", eventType, err)
	}

	return nil
}

// SupportedEventTypes returns the event types with registered schemas, sorted
func (v *EventValidator) SupportedEventTypes() []string {
	types := make([]string, 0, len(v.schemas))
	for eventType := range v.schemas {
		types = append(types, eventType)
	}
	sort.Strings(types)
	return types
}

// HasSchema checks if a schema exists for the given event type
func (v *EventValidator) HasSchema(eventType string) bool {
	_, ok := v.schemas[eventType]
	return ok
}

// RegisterSchema adds a schema for an event type outside the document
func (v *EventValidator) RegisterSchema(eventType string, schemaJSON []byte) error {
	return v.register(eventType, "custom://schemas/"+eventType, schemaJSON)
}
