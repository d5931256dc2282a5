package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/cloudevents"
	pkgmongo "github.com/wms-platform/warehouse-ops/pkg/mongodb"
	wmstesting "github.com/wms-platform/warehouse-ops/pkg/testing"
)

func setupStores(t *testing.T) *Stores {
	t.Helper()
	db := wmstesting.MongoDatabase(t)
	client := pkgmongo.Wrap(db.Client(), db.Name())

	stores := NewStores(client, cloudevents.NewEventFactory(""), nil)
	require.NoError(t, stores.EnsureIndexes(context.Background()))
	return stores
}

func createTestPickTask(t *testing.T) *domain.PickTask {
	t.Helper()
	task, err := domain.NewPickTask("", "ORD-100", domain.TaskPriorityHigh, time.Now().Add(-time.Hour), []domain.PickTaskItem{
		{SKU: "SKU-001", ProductName: "Widget", Quantity: 4, LocationID: "A-01-01", LocationName: "Aisle A"},
		{SKU: "SKU-002", ProductName: "Gadget", Quantity: 1, LocationID: "B-02-01", LocationName: "Aisle B"},
	})
	require.NoError(t, err)
	return task
}

func TestRepositories(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()

	t.Run("pick task save and reload", func(t *testing.T) {
		task := createTestPickTask(t)
		require.NoError(t, stores.PickTasks.Save(ctx, task))
		assert.Equal(t, int64(1), task.Version)
		assert.Empty(t, task.DomainEvents())

		found, err := stores.PickTasks.FindByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.CustomerOrderID, found.CustomerOrderID)
		assert.Len(t, found.Items, 2)

		byItem, err := stores.PickTasks.FindByItemID(ctx, task.Items[1].ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, byItem.ID)

		events, err := stores.Outbox.ForAggregate(ctx, task.ID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "wms.picking.task-created", events[0].EventType)
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		task := createTestPickTask(t)
		require.NoError(t, stores.PickTasks.Save(ctx, task))

		first, err := stores.PickTasks.FindByID(ctx, task.ID)
		require.NoError(t, err)
		second, err := stores.PickTasks.FindByID(ctx, task.ID)
		require.NoError(t, err)

		require.NoError(t, first.Start("warehouse1"))
		require.NoError(t, stores.PickTasks.Save(ctx, first))

		require.NoError(t, second.Cancel())
		err = stores.PickTasks.Save(ctx, second)
		assert.ErrorIs(t, err, domain.ErrConcurrentModification)
		assert.Equal(t, int64(1), second.Version)

		reloaded, err := stores.PickTasks.FindByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PickTaskStatusInProgress, reloaded.Status)

		events, err := stores.Outbox.ForAggregate(ctx, task.ID)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("count overdue", func(t *testing.T) {
		count, err := stores.PickTasks.CountOverdue(ctx, time.Now())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, count, int64(2))
	})

	t.Run("missing aggregate", func(t *testing.T) {
		_, err := stores.PickTasks.FindByID(ctx, "PT-MISSING")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = stores.Orders.FindByID(ctx, "ORD-MISSING")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("order decimals round trip and delete", func(t *testing.T) {
		order, err := domain.NewOrder("", "Acme Retail", domain.CustomerTypeRetail, "Chicago, IL", domain.OrderPriorityExpress, []domain.OrderItem{
			{SKU: "SKU-001", ProductName: "Widget", Quantity: 3, UnitPrice: decimal.RequireFromString("19.99")},
		})
		require.NoError(t, err)
		require.NoError(t, stores.Orders.Save(ctx, order))

		found, err := stores.Orders.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("59.97").Equal(found.TotalValue))

		require.NoError(t, found.MarkDeleted())
		require.NoError(t, stores.Orders.Delete(ctx, found))

		_, err = stores.Orders.FindByID(ctx, order.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		events, err := stores.Outbox.ForAggregate(ctx, order.ID)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("transaction rolls back both saves", func(t *testing.T) {
		task := createTestPickTask(t)
		require.NoError(t, stores.PickTasks.Save(ctx, task))
		stale, err := stores.PickTasks.FindByID(ctx, task.ID)
		require.NoError(t, err)

		err = stores.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			require.NoError(t, task.Start("warehouse1"))
			if err := stores.PickTasks.Save(ctx, task); err != nil {
				return err
			}
			require.NoError(t, stale.Cancel())
			return stores.PickTasks.Save(ctx, stale)
		})
		assert.ErrorIs(t, err, domain.ErrConcurrentModification)

		reloaded, err := stores.PickTasks.FindByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PickTaskStatusPending, reloaded.Status)
	})

	t.Run("settings upsert", func(t *testing.T) {
		settings := domain.DefaultUserSettings("warehouse1")
		require.NoError(t, stores.Settings.Save(ctx, settings))

		settings.Display.Theme = "dark"
		require.NoError(t, stores.Settings.Save(ctx, settings))

		found, err := stores.Settings.FindByUserID(ctx, "warehouse1")
		require.NoError(t, err)
		assert.Equal(t, "dark", found.Display.Theme)
	})

	t.Run("dashboard replace", func(t *testing.T) {
		data := domain.DashboardData{
			SecurityAlerts: []domain.SecurityAlert{{ID: "SA-1", Severity: "high", Timestamp: time.Now().UTC()}},
			Sustainability: &domain.SustainabilityMetrics{ID: "current", SustainabilityScore: 82},
			WeatherEvents:  []domain.WeatherEvent{{ID: "WE-1", Severity: "severe"}},
			Inventory: []domain.InventoryItem{
				{ID: "INV-2", SKU: "SKU-2", Quantity: 1, ReorderLevel: 4},
				{ID: "INV-1", SKU: "SKU-1", Quantity: 9, ReorderLevel: 4},
			},
		}
		require.NoError(t, stores.Dashboard.Replace(ctx, data))
		require.NoError(t, stores.Dashboard.Replace(ctx, data))

		alerts, err := stores.Dashboard.SecurityAlerts(ctx)
		require.NoError(t, err)
		assert.Len(t, alerts, 1)

		metrics, err := stores.Dashboard.SustainabilityMetrics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 82.0, metrics.SustainabilityScore)

		routes, err := stores.Dashboard.Routes(ctx)
		require.NoError(t, err)
		assert.Empty(t, routes)

		items, err := stores.Dashboard.Inventory(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "SKU-1", items[0].SKU)
	})
}
