package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPickItems() []PickTaskItem {
	return []PickTaskItem{
		{SKU: "SKU-001", ProductName: "Widget", Quantity: 5, LocationID: "A-01-02", LocationName: "Aisle A Rack 1"},
		{SKU: "SKU-002", ProductName: "Gadget", Quantity: 3, LocationID: "B-04-01", LocationName: "Aisle B Rack 4"},
	}
}

func newStartedPickTask(t *testing.T) *PickTask {
	t.Helper()
	task, err := NewPickTask("PT-1", "ORD-1", TaskPriorityHigh, time.Now().Add(time.Hour), createTestPickItems())
	require.NoError(t, err)
	require.NoError(t, task.Start("warehouse1"))
	task.ClearDomainEvents()
	return task
}

func TestNewPickTask(t *testing.T) {
	tests := []struct {
		name        string
		priority    TaskPriority
		items       []PickTaskItem
		expectError error
	}{
		{"valid task", TaskPriorityUrgent, createTestPickItems(), nil},
		{"default priority", "", createTestPickItems(), nil},
		{"no items", TaskPriorityLow, nil, ErrNoItems},
		{"bad priority", "critical", createTestPickItems(), ErrInvalidPriority},
		{"zero quantity", TaskPriorityLow, []PickTaskItem{{SKU: "X", Quantity: 0}}, ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewPickTask("", "ORD-1", tt.priority, time.Now(), tt.items)
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.Nil(t, task)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, PickTaskStatusPending, task.Status)
			assert.NotEmpty(t, task.ID)
			for _, item := range task.Items {
				assert.Equal(t, task.ID, item.PickTaskID)
				assert.Equal(t, PickItemStatusPending, item.Status)
				assert.NotEmpty(t, item.ID)
				assert.Nil(t, item.PickedQuantity)
			}

			events := task.DomainEvents()
			require.Len(t, events, 1)
			assert.Equal(t, "wms.picking.task-created", events[0].EventType())
		})
	}
}

func TestPickTaskStart(t *testing.T) {
	task, err := NewPickTask("PT-1", "ORD-1", TaskPriorityMedium, time.Now(), createTestPickItems())
	require.NoError(t, err)

	require.NoError(t, task.Start("warehouse1"))
	assert.Equal(t, PickTaskStatusInProgress, task.Status)
	assert.Equal(t, "warehouse1", task.AssignedTo)
	assert.NotNil(t, task.StartedAt)

	// a second start is rejected and changes nothing
	startedAt := task.StartedAt
	assert.ErrorIs(t, task.Start("someone-else"), ErrInvalidStatusTransition)
	assert.Equal(t, "warehouse1", task.AssignedTo)
	assert.Equal(t, startedAt, task.StartedAt)
}

func TestPickTaskStartRejectedFromTerminalStates(t *testing.T) {
	for _, status := range []PickTaskStatus{PickTaskStatusInProgress, PickTaskStatusCompleted, PickTaskStatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			task := &PickTask{Status: status}
			assert.ErrorIs(t, task.Start("warehouse1"), ErrInvalidStatusTransition)
			assert.Equal(t, status, task.Status)
		})
	}
}

func TestPickItem(t *testing.T) {
	tests := []struct {
		name        string
		quantity    int
		scan        func(item PickTaskItem) ScanVerification
		expectError error
		partial     bool
	}{
		{"full pick", 5, SimulateScans, nil, false},
		{"partial pick", 2, SimulateScans, nil, true},
		{"zero quantity", 0, SimulateScans, ErrInvalidQuantity, false},
		{"over pick", 6, SimulateScans, ErrInvalidQuantity, false},
		{"wrong item scanned", 5, func(item PickTaskItem) ScanVerification {
			return VerifyScans(item, "SKU-999", ExpectedLocationCode(item.LocationID))
		}, ErrScanMismatch, false},
		{"wrong location scanned", 5, func(item PickTaskItem) ScanVerification {
			return VerifyScans(item, item.SKU, "LOC-Z-99")
		}, ErrScanMismatch, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := newStartedPickTask(t)
			target := task.Items[0]

			item, err := task.PickItem(target.ID, tt.quantity, tt.scan(target), "")
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.Equal(t, PickItemStatusPending, task.Items[0].Status)
				assert.Nil(t, task.Items[0].PickedQuantity)
				assert.Empty(t, task.DomainEvents())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, PickItemStatusPicked, item.Status)
			require.NotNil(t, item.PickedQuantity)
			assert.Equal(t, tt.quantity, *item.PickedQuantity)
			assert.LessOrEqual(t, *item.PickedQuantity, item.Quantity)
			assert.Equal(t, tt.partial, item.Partial)

			events := task.DomainEvents()
			require.Len(t, events, 1)
			assert.Equal(t, "wms.picking.item-picked", events[0].EventType())
		})
	}
}

func TestPickItemRequiresInProgressTask(t *testing.T) {
	task, err := NewPickTask("PT-1", "ORD-1", TaskPriorityMedium, time.Now(), createTestPickItems())
	require.NoError(t, err)

	_, err = task.PickItem(task.Items[0].ID, 1, SimulateScans(task.Items[0]), "")
	assert.ErrorIs(t, err, ErrTaskNotActive)
}

func TestPickItemTwiceIsRejected(t *testing.T) {
	task := newStartedPickTask(t)
	item := task.Items[0]

	_, err := task.PickItem(item.ID, 5, SimulateScans(item), "")
	require.NoError(t, err)

	_, err = task.PickItem(item.ID, 5, SimulateScans(item), "")
	assert.ErrorIs(t, err, ErrItemNotPending)

	_, err = task.MarkItemUnavailable(item.ID, "")
	assert.ErrorIs(t, err, ErrItemNotPending)
}

func TestMarkItemUnavailable(t *testing.T) {
	task := newStartedPickTask(t)

	item, err := task.MarkItemUnavailable(task.Items[1].ID, "shelf empty")
	require.NoError(t, err)
	assert.Equal(t, PickItemStatusUnavailable, item.Status)
	require.NotNil(t, item.PickedQuantity)
	assert.Equal(t, 0, *item.PickedQuantity)
	assert.Equal(t, "shelf empty", item.Notes)

	_, err = task.MarkItemUnavailable("missing", "")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestPickTaskComplete(t *testing.T) {
	task := newStartedPickTask(t)

	// nothing resolved yet
	assert.ErrorIs(t, task.Complete(), ErrItemsOutstanding)
	assert.Equal(t, PickTaskStatusInProgress, task.Status)

	_, err := task.PickItem(task.Items[0].ID, 5, SimulateScans(task.Items[0]), "")
	require.NoError(t, err)

	// one item still pending
	assert.ErrorIs(t, task.Complete(), ErrItemsOutstanding)
	assert.Nil(t, task.CompletedAt)

	_, err = task.MarkItemUnavailable(task.Items[1].ID, "")
	require.NoError(t, err)

	task.ClearDomainEvents()
	require.NoError(t, task.Complete())
	assert.Equal(t, PickTaskStatusCompleted, task.Status)
	assert.NotNil(t, task.CompletedAt)

	events := task.DomainEvents()
	require.Len(t, events, 1)
	completed, ok := events[0].(*PickTaskCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, 1, completed.PickedItems)
	assert.Equal(t, 1, completed.UnavailableItems)

	assert.ErrorIs(t, task.Cancel(), ErrInvalidStatusTransition)
}

func TestPickTaskCompleteFromPending(t *testing.T) {
	task, err := NewPickTask("PT-1", "ORD-1", TaskPriorityMedium, time.Now(), createTestPickItems())
	require.NoError(t, err)
	assert.ErrorIs(t, task.Complete(), ErrInvalidStatusTransition)
}

func TestPickTaskCancel(t *testing.T) {
	task := newStartedPickTask(t)
	require.NoError(t, task.Cancel())
	assert.Equal(t, PickTaskStatusCancelled, task.Status)
	assert.ErrorIs(t, task.Start(""), ErrInvalidStatusTransition)
}

func TestPickTaskIsOverdue(t *testing.T) {
	now := time.Now()
	task := &PickTask{Status: PickTaskStatusPending, DueDate: now.Add(-time.Minute)}
	assert.True(t, task.IsOverdue(now))

	task.Status = PickTaskStatusCompleted
	assert.False(t, task.IsOverdue(now))

	task.Status = PickTaskStatusInProgress
	task.DueDate = now.Add(time.Minute)
	assert.False(t, task.IsOverdue(now))
}
