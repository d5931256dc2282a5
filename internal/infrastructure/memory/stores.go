package memory

import (
	"context"
	"sync"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/cloudevents"
	"github.com/wms-platform/warehouse-ops/pkg/outbox"
)

// Stores bundles the in-memory repositories used by the memory storage
// driver and by tests
type Stores struct {
	PickTasks   *PickTaskRepository
	PackTasks   *PackTaskRepository
	Orders      *OrderRepository
	Returns     *ReturnRequestRepository
	CycleCounts *CycleCountRepository
	Users       *UserRepository
	Settings    *SettingsRepository
	Dashboard   *DashboardRepository
	Outbox      *outbox.MemoryStore
	Transactor  *Transactor
}

func NewStores(eventFactory *cloudevents.EventFactory) *Stores {
	ev := &events{outbox: outbox.NewMemoryStore(), factory: eventFactory}
	stores := &Stores{
		PickTasks:   &PickTaskRepository{events: ev, table: newTable(clonePickTask)},
		PackTasks:   &PackTaskRepository{events: ev, table: newTable(clonePackTask)},
		Orders:      &OrderRepository{events: ev, table: newTable(cloneOrder)},
		Returns:     &ReturnRequestRepository{events: ev, table: newTable(cloneReturnRequest)},
		CycleCounts: &CycleCountRepository{events: ev, table: newTable(cloneCycleCount)},
		Users:       &UserRepository{table: newTable(cloneUser)},
		Settings:    &SettingsRepository{table: newTable(cloneSettings)},
		Dashboard:   &DashboardRepository{},
		Outbox:      ev.outbox,
	}
	stores.Transactor = &Transactor{checkpoints: []func() func(){
		stores.PickTasks.table.checkpoint,
		stores.PackTasks.table.checkpoint,
		stores.Orders.table.checkpoint,
		stores.Returns.table.checkpoint,
		stores.CycleCounts.table.checkpoint,
		stores.Settings.table.checkpoint,
		stores.Outbox.Checkpoint,
	}}
	return stores
}

type txKey struct{}

// Transactor serializes units of work. When fn fails every aggregate table
// and the outbox are restored to their state before the transaction began,
// including writes made outside the transaction while it was open.
type Transactor struct {
	mu          sync.Mutex
	checkpoints []func() (restore func())
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	restores := make([]func(), 0, len(t.checkpoints))
	for _, checkpoint := range t.checkpoints {
		restores = append(restores, checkpoint())
	}
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// DashboardRepository holds the dashboard read models
type DashboardRepository struct {
	mu   sync.RWMutex
	data domain.DashboardData
}

func (r *DashboardRepository) snapshot() domain.DashboardData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data
}

func (r *DashboardRepository) SecurityAlerts(_ context.Context) ([]domain.SecurityAlert, error) {
	return copyOf(r.snapshot().SecurityAlerts), nil
}

func (r *DashboardRepository) SecurityCompliance(_ context.Context) ([]domain.SecurityCompliance, error) {
	return copyOf(r.snapshot().Compliance), nil
}

func (r *DashboardRepository) SustainabilityMetrics(_ context.Context) (*domain.SustainabilityMetrics, error) {
	m := r.snapshot().Sustainability
	if m == nil {
		return nil, domain.ErrNotFound
	}
	c := *m
	return &c, nil
}

func (r *DashboardRepository) SustainabilityRecommendations(_ context.Context) ([]domain.SustainabilityRecommendation, error) {
	return copyOf(r.snapshot().Recommendations), nil
}

func (r *DashboardRepository) Routes(_ context.Context) ([]domain.MultiModalRoute, error) {
	routes := copyOf(r.snapshot().Routes)
	for i := range routes {
		routes[i].TransportModes = copyOf(routes[i].TransportModes)
	}
	return routes, nil
}

func (r *DashboardRepository) WeatherEvents(_ context.Context) ([]domain.WeatherEvent, error) {
	return copyOf(r.snapshot().WeatherEvents), nil
}

func (r *DashboardRepository) AlternativeRoutes(_ context.Context) ([]domain.AlternativeRoute, error) {
	return copyOf(r.snapshot().AlternativeRoutes), nil
}

func (r *DashboardRepository) Inventory(_ context.Context) ([]domain.InventoryItem, error) {
	return copyOf(r.snapshot().Inventory), nil
}

func (r *DashboardRepository) Replace(_ context.Context, data domain.DashboardData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = data
	return nil
}

func copyOf[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
