package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPackTask(t *testing.T) *PackTask {
	t.Helper()
	task, err := NewPackTask("PK-1", "ORD-1", "", TaskPriorityMedium, []PackTaskItem{
		{SKU: "SKU-001", ProductName: "Widget", Quantity: 2},
		{SKU: "SKU-002", ProductName: "Gadget", Quantity: 1},
	})
	require.NoError(t, err)
	task.ClearDomainEvents()
	return task
}

func standardBox() PackageSpec {
	return PackageSpec{PackageType: PackageTypeBox, Length: 30, Width: 20, Height: 15, DimensionUnit: "cm", Weight: 2.5, WeightUnit: "kg"}
}

func TestPackageSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *PackageSpec)
		wantErr bool
	}{
		{"valid", func(*PackageSpec) {}, false},
		{"default units", func(s *PackageSpec) { s.DimensionUnit = ""; s.WeightUnit = "" }, false},
		{"zero length", func(s *PackageSpec) { s.Length = 0 }, true},
		{"negative height", func(s *PackageSpec) { s.Height = -1 }, true},
		{"too light", func(s *PackageSpec) { s.Weight = 0.05 }, true},
		{"minimum weight", func(s *PackageSpec) { s.Weight = 0.1 }, false},
		{"bad dimension unit", func(s *PackageSpec) { s.DimensionUnit = "mm" }, true},
		{"bad weight unit", func(s *PackageSpec) { s.WeightUnit = "g" }, true},
		{"bad type", func(s *PackageSpec) { s.PackageType = "crate" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := standardBox()
			tt.mutate(&spec)
			err := spec.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPackage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "cm", spec.DimensionUnit)
			assert.Equal(t, "kg", spec.WeightUnit)
		})
	}
}

func TestPackItemMovesItemToPacked(t *testing.T) {
	task := newTestPackTask(t)

	pkg, err := task.AddPackage(standardBox())
	require.NoError(t, err)
	assert.Equal(t, PackageStatusPacked, pkg.Status)

	item, err := task.PackItem(task.Items[0].ID, pkg.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, PackItemStatusPacked, item.Status)
	assert.Equal(t, 2, item.PackedQuantity)
	assert.Equal(t, pkg.ID, item.PackageID)
	assert.Equal(t, PackTaskStatusInProgress, task.Status)

	var types []string
	for _, e := range task.DomainEvents() {
		types = append(types, e.EventType())
	}
	assert.Equal(t, []string{"wms.packing.package-created", "wms.packing.task-started", "wms.packing.item-packed"}, types)

	// packed never reverts
	_, err = task.PackItem(task.Items[0].ID, pkg.ID, 1)
	assert.ErrorIs(t, err, ErrItemNotPending)
}

func TestPackItemValidation(t *testing.T) {
	task := newTestPackTask(t)
	pkg, err := task.AddPackage(standardBox())
	require.NoError(t, err)

	_, err = task.PackItem(task.Items[0].ID, "PKG-unknown", 1)
	assert.ErrorIs(t, err, ErrPackageNotFound)

	_, err = task.PackItem(task.Items[0].ID, pkg.ID, 3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = task.PackItem("nope", pkg.ID, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)

	require.NoError(t, task.Cancel())
	_, err = task.PackItem(task.Items[0].ID, pkg.ID, 1)
	assert.ErrorIs(t, err, ErrTaskNotPackable)
	_, err = task.AddPackage(standardBox())
	assert.ErrorIs(t, err, ErrTaskNotPackable)
}

func TestPackTaskComplete(t *testing.T) {
	task := newTestPackTask(t)
	assert.ErrorIs(t, task.Complete(), ErrInvalidStatusTransition)

	require.NoError(t, task.Start("packer1"))
	assert.ErrorIs(t, task.Complete(), ErrItemsNotPacked)

	pkg, err := task.AddPackage(standardBox())
	require.NoError(t, err)
	for _, item := range task.Items {
		_, err := task.PackItem(item.ID, pkg.ID, 0)
		require.NoError(t, err)
	}

	require.NoError(t, task.Complete())
	assert.Equal(t, PackTaskStatusCompleted, task.Status)
	assert.NotNil(t, task.CompletedAt)
}

func TestNewPackTaskFromPickTask(t *testing.T) {
	pick, err := NewPickTask("PT-1", "ORD-1", TaskPriorityUrgent, time.Now(), createTestPickItems())
	require.NoError(t, err)

	_, err = NewPackTaskFromPickTask(pick)
	assert.ErrorIs(t, err, ErrPickTaskNotReady)

	require.NoError(t, pick.Start("warehouse1"))
	_, err = pick.PickItem(pick.Items[0].ID, 4, SimulateScans(pick.Items[0]), "")
	require.NoError(t, err)
	_, err = pick.MarkItemUnavailable(pick.Items[1].ID, "")
	require.NoError(t, err)
	require.NoError(t, pick.Complete())

	pack, err := NewPackTaskFromPickTask(pick)
	require.NoError(t, err)
	require.Len(t, pack.Items, 1)
	assert.Equal(t, "SKU-001", pack.Items[0].SKU)
	assert.Equal(t, 4, pack.Items[0].Quantity)
	assert.Equal(t, "PT-1", pack.PickTaskID)
	assert.Equal(t, TaskPriorityUrgent, pack.Priority)
}

func TestNewPackTaskFromPickTaskWithNothingPicked(t *testing.T) {
	pick, err := NewPickTask("PT-1", "ORD-1", TaskPriorityUrgent, time.Now(), createTestPickItems())
	require.NoError(t, err)
	require.NoError(t, pick.Start(""))
	for _, item := range pick.Items {
		_, err := pick.MarkItemUnavailable(item.ID, "")
		require.NoError(t, err)
	}
	require.NoError(t, pick.Complete())

	_, err = NewPackTaskFromPickTask(pick)
	assert.ErrorIs(t, err, ErrNothingToPack)
}
