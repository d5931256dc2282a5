package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/warehouse-ops/pkg/cloudevents"
	"github.com/wms-platform/warehouse-ops/pkg/outbox"
	wmstesting "github.com/wms-platform/warehouse-ops/pkg/testing"
)

func TestStoreLifecycle(t *testing.T) {
	db := wmstesting.MongoDatabase(t)
	ctx := wmstesting.CreateTestContext(t, 30*time.Second)

	store := NewStore(db)
	require.NoError(t, store.EnsureIndexes(ctx))

	ce := cloudevents.NewEventFactory("").CreateEvent(ctx, cloudevents.OrderCreated, "order/ORD-1", map[string]string{"orderId": "ORD-1"})
	msg, err := outbox.NewMessage("ORD-1", "Order", "wms.orders.events", ce)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, msg))

	pending, err := store.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, store.RecordFailure(ctx, msg.ID, "broker down"))
	stored, err := store.ForAggregate(ctx, "ORD-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 1, stored[0].Attempts)

	require.NoError(t, store.MarkPublished(ctx, msg.ID))
	pending, err = store.Pending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	pruned, err := store.Prune(ctx, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	assert.ErrorIs(t, store.MarkPublished(ctx, msg.ID), outbox.ErrUnknownMessage)
}
