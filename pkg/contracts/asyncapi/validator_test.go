package asyncapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpec = `
asyncapi: 3.0.0
info:
  title: test
  version: 1.0.0
components:
  schemas:
    TaskStartedData:
      x-event-type: wms.picking.task-started
      type: object
      required: [pickTaskId, assignedTo]
      properties:
        pickTaskId:
          type: string
        assignedTo:
          type: string
    Untyped:
      type: object
`

func TestValidateEvent(t *testing.T) {
	v, err := NewEventValidator([]byte(testSpec))
	require.NoError(t, err)

	assert.Equal(t, []string{"wms.picking.task-started"}, v.SupportedEventTypes())

	assert.NoError(t, v.ValidateEvent("wms.picking.task-started", []byte(`{"pickTaskId":"PT-1","assignedTo":"warehouse1"}`)))
	assert.Error(t, v.ValidateEvent("wms.picking.task-started", []byte(`{"pickTaskId":"PT-1"}`)))
	assert.Error(t, v.ValidateEvent("wms.picking.task-started", nil))
	assert.ErrorIs(t, v.ValidateEvent("wms.unknown", []byte(`{}`)), ErrNoSchema)
}

func TestRegisterSchema(t *testing.T) {
	v, err := NewEventValidator([]byte(testSpec))
	require.NoError(t, err)

	require.NoError(t, v.RegisterSchema("wms.custom", []byte(`{"type":"object","required":["id"]}`)))
	assert.True(t, v.HasSchema("wms.custom"))
	assert.Error(t, v.ValidateEvent("wms.custom", []byte(`{}`)))
}
