package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
)

type fakeOutbox struct {
	olderThan time.Duration
	err       error
}

func (f *fakeOutbox) Prune(_ context.Context, olderThan time.Duration) (int64, error) {
	f.olderThan = olderThan
	return 3, f.err
}

type fakeKeys struct {
	before time.Time
}

func (f *fakeKeys) Purge(_ context.Context, before time.Time) (int64, error) {
	f.before = before
	return 1, nil
}

type fakeOverdue struct {
	count int64
	err   error
}

func (f *fakeOverdue) CountOverdue(context.Context, time.Time) (int64, error) {
	return f.count, f.err
}

func newTestRunner(outbox OutboxCleaner, keys KeyCleaner, overdue OverdueCounter, m *metrics.Metrics) *Runner {
	r := NewRunner(DefaultConfig(), outbox, keys, overdue, logging.NewNop(), m)
	r.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return r
}

func TestCleanOutboxUsesRetention(t *testing.T) {
	outbox := &fakeOutbox{}
	r := newTestRunner(outbox, nil, &fakeOverdue{}, nil)

	require.NoError(t, r.CleanOutbox(context.Background()))
	assert.Equal(t, 7*24*time.Hour, outbox.olderThan)

	outbox.err = errors.New("connection reset")
	assert.Error(t, r.CleanOutbox(context.Background()))
}

func TestCleanIdempotencyKeys(t *testing.T) {
	keys := &fakeKeys{}
	r := newTestRunner(&fakeOutbox{}, keys, &fakeOverdue{}, nil)

	require.NoError(t, r.CleanIdempotencyKeys(context.Background()))
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), keys.before)

	withoutKeys := newTestRunner(&fakeOutbox{}, nil, &fakeOverdue{}, nil)
	assert.NoError(t, withoutKeys.CleanIdempotencyKeys(context.Background()))
}

func TestCheckOverduePickTasksSetsGauge(t *testing.T) {
	m := metrics.New(metrics.DefaultConfig("warehouse-ops-test"))
	r := newTestRunner(&fakeOutbox{}, nil, &fakeOverdue{count: 4}, m)

	count, err := r.CheckOverduePickTasks(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.Equal(t, float64(4), testutil.ToFloat64(m.PickTasksOverdue))
}

func TestCheckOverduePickTasksError(t *testing.T) {
	r := newTestRunner(&fakeOutbox{}, nil, &fakeOverdue{err: errors.New("timeout")}, nil)

	_, err := r.CheckOverduePickTasks(context.Background())

	assert.Error(t, err)
}

func TestScheduleRegistersEveryJob(t *testing.T) {
	s, err := gocron.NewScheduler()
	require.NoError(t, err)
	defer func() { _ = s.Shutdown() }()

	r := newTestRunner(&fakeOutbox{}, &fakeKeys{}, &fakeOverdue{}, nil)
	require.NoError(t, r.Schedule(context.Background(), s))

	var names []string
	for _, job := range s.Jobs() {
		names = append(names, job.Name())
	}
	assert.ElementsMatch(t, []string{OutboxCleanup, IdempotencyCleanup, OverduePickTasks}, names)
}
