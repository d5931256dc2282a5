package temporal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/mocks"

	"github.com/wms-platform/warehouse-ops/pkg/logging"
)

func TestPickingWorkflowID(t *testing.T) {
	assert.Equal(t, "picking-ORD-1", PickingWorkflowID("ORD-1"))
}

func TestSignalWorkflowNotFound(t *testing.T) {
	sdk := &mocks.Client{}
	sdk.On("SignalWorkflow", mock.Anything, "picking-ORD-1", "", SignalPickTaskCompleted, mock.Anything).
		Return(serviceerror.NewNotFound("workflow execution not found"))

	c := Wrap(sdk, DefaultConfig(), logging.NewNop(), nil)
	err := c.SignalWorkflow(context.Background(), "picking-ORD-1", SignalPickTaskCompleted, map[string]string{"pickTaskId": "PT-1"})

	assert.ErrorIs(t, err, ErrWorkflowNotFound)
	sdk.AssertExpectations(t)
}

func TestSignalWorkflowWrapsOtherErrors(t *testing.T) {
	sdk := &mocks.Client{}
	sdk.On("SignalWorkflow", mock.Anything, "picking-ORD-2", "", SignalPickTaskCancelled, mock.Anything).
		Return(errors.New("unavailable"))

	c := Wrap(sdk, DefaultConfig(), logging.NewNop(), nil)
	err := c.SignalWorkflow(context.Background(), "picking-ORD-2", SignalPickTaskCancelled, nil)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrWorkflowNotFound)
}
