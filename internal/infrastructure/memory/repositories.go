package memory

import (
	"context"
	"time"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/internal/infrastructure"
)

type PickTaskRepository struct {
	events *events
	table  *table[*domain.PickTask]
}

func (r *PickTaskRepository) Save(ctx context.Context, task *domain.PickTask) error {
	rows, err := r.events.rows(ctx, infrastructure.AggregatePickTask, task.DomainEvents())
	if err != nil {
		return err
	}

	prev, prevUpdated := task.Version, task.UpdatedAt
	task.Version = prev + 1
	task.UpdatedAt = time.Now().UTC()
	if err := r.table.put(task.ID, prev, pickVersion, task); err != nil {
		task.Version, task.UpdatedAt = prev, prevUpdated
		return err
	}
	if err := r.events.append(ctx, rows); err != nil {
		return err
	}
	task.ClearDomainEvents()
	return nil
}

func pickVersion(t *domain.PickTask) int64 { return t.Version }

func (r *PickTaskRepository) FindByID(_ context.Context, id string) (*domain.PickTask, error) {
	return r.table.get(id)
}

func (r *PickTaskRepository) FindByItemID(_ context.Context, itemID string) (*domain.PickTask, error) {
	return r.table.find(func(t *domain.PickTask) bool {
		for _, item := range t.Items {
			if item.ID == itemID {
				return true
			}
		}
		return false
	})
}

func (r *PickTaskRepository) FindByOrderID(_ context.Context, orderID string) ([]*domain.PickTask, error) {
	return r.table.list(func(t *domain.PickTask) bool { return t.CustomerOrderID == orderID }, pickNewestFirst), nil
}

func (r *PickTaskRepository) FindAll(_ context.Context) ([]*domain.PickTask, error) {
	return r.table.list(nil, pickNewestFirst), nil
}

func (r *PickTaskRepository) CountOverdue(_ context.Context, now time.Time) (int64, error) {
	overdue := r.table.list(func(t *domain.PickTask) bool { return t.IsOverdue(now) }, nil)
	return int64(len(overdue)), nil
}

func pickNewestFirst(a, b *domain.PickTask) bool { return a.CreatedAt.After(b.CreatedAt) }

type PackTaskRepository struct {
	events *events
	table  *table[*domain.PackTask]
}

func (r *PackTaskRepository) Save(ctx context.Context, task *domain.PackTask) error {
	rows, err := r.events.rows(ctx, infrastructure.AggregatePackTask, task.DomainEvents())
	if err != nil {
		return err
	}

	prev, prevUpdated := task.Version, task.UpdatedAt
	task.Version = prev + 1
	task.UpdatedAt = time.Now().UTC()
	if err := r.table.put(task.ID, prev, func(t *domain.PackTask) int64 { return t.Version }, task); err != nil {
		task.Version, task.UpdatedAt = prev, prevUpdated
		return err
	}
	if err := r.events.append(ctx, rows); err != nil {
		return err
	}
	task.ClearDomainEvents()
	return nil
}

func (r *PackTaskRepository) FindByID(_ context.Context, id string) (*domain.PackTask, error) {
	return r.table.get(id)
}

func (r *PackTaskRepository) FindByItemID(_ context.Context, itemID string) (*domain.PackTask, error) {
	return r.table.find(func(t *domain.PackTask) bool {
		for _, item := range t.Items {
			if item.ID == itemID {
				return true
			}
		}
		return false
	})
}

func (r *PackTaskRepository) FindByPickTaskID(_ context.Context, pickTaskID string) (*domain.PackTask, error) {
	return r.table.find(func(t *domain.PackTask) bool { return t.PickTaskID == pickTaskID })
}

func (r *PackTaskRepository) FindAll(_ context.Context) ([]*domain.PackTask, error) {
	return r.table.list(nil, func(a, b *domain.PackTask) bool { return a.CreatedAt.After(b.CreatedAt) }), nil
}

type OrderRepository struct {
	events *events
	table  *table[*domain.Order]
}

func orderVersion(o *domain.Order) int64 { return o.Version }

func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	rows, err := r.events.rows(ctx, infrastructure.AggregateOrder, order.DomainEvents())
	if err != nil {
		return err
	}

	prev, prevUpdated := order.Version, order.UpdatedAt
	order.Version = prev + 1
	order.UpdatedAt = time.Now().UTC()
	if err := r.table.put(order.ID, prev, orderVersion, order); err != nil {
		order.Version, order.UpdatedAt = prev, prevUpdated
		return err
	}
	if err := r.events.append(ctx, rows); err != nil {
		return err
	}
	order.ClearDomainEvents()
	return nil
}

func (r *OrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	return r.table.get(id)
}

func (r *OrderRepository) FindAll(_ context.Context) ([]*domain.Order, error) {
	return r.table.list(nil, func(a, b *domain.Order) bool { return a.CreatedAt.After(b.CreatedAt) }), nil
}

func (r *OrderRepository) Delete(ctx context.Context, order *domain.Order) error {
	rows, err := r.events.rows(ctx, infrastructure.AggregateOrder, order.DomainEvents())
	if err != nil {
		return err
	}
	if err := r.table.remove(order.ID, order.Version, orderVersion); err != nil {
		return err
	}
	if err := r.events.append(ctx, rows); err != nil {
		return err
	}
	order.ClearDomainEvents()
	return nil
}

type ReturnRequestRepository struct {
	events *events
	table  *table[*domain.ReturnRequest]
}

func (r *ReturnRequestRepository) Save(ctx context.Context, ret *domain.ReturnRequest) error {
	rows, err := r.events.rows(ctx, infrastructure.AggregateReturnRequest, ret.DomainEvents())
	if err != nil {
		return err
	}

	prev, prevUpdated := ret.Version, ret.UpdatedAt
	ret.Version = prev + 1
	ret.UpdatedAt = time.Now().UTC()
	if err := r.table.put(ret.ID, prev, func(x *domain.ReturnRequest) int64 { return x.Version }, ret); err != nil {
		ret.Version, ret.UpdatedAt = prev, prevUpdated
		return err
	}
	if err := r.events.append(ctx, rows); err != nil {
		return err
	}
	ret.ClearDomainEvents()
	return nil
}

func (r *ReturnRequestRepository) FindByID(_ context.Context, id string) (*domain.ReturnRequest, error) {
	return r.table.get(id)
}

func (r *ReturnRequestRepository) FindAll(_ context.Context) ([]*domain.ReturnRequest, error) {
	return r.table.list(nil, func(a, b *domain.ReturnRequest) bool { return a.CreatedAt.After(b.CreatedAt) }), nil
}

type CycleCountRepository struct {
	events *events
	table  *table[*domain.CycleCountTask]
}

func (r *CycleCountRepository) Save(ctx context.Context, task *domain.CycleCountTask) error {
	rows, err := r.events.rows(ctx, infrastructure.AggregateCycleCount, task.DomainEvents())
	if err != nil {
		return err
	}

	prev, prevUpdated := task.Version, task.UpdatedAt
	task.Version = prev + 1
	task.UpdatedAt = time.Now().UTC()
	if err := r.table.put(task.ID, prev, func(t *domain.CycleCountTask) int64 { return t.Version }, task); err != nil {
		task.Version, task.UpdatedAt = prev, prevUpdated
		return err
	}
	if err := r.events.append(ctx, rows); err != nil {
		return err
	}
	task.ClearDomainEvents()
	return nil
}

func (r *CycleCountRepository) FindByID(_ context.Context, id string) (*domain.CycleCountTask, error) {
	return r.table.get(id)
}

func (r *CycleCountRepository) FindByItemID(_ context.Context, itemID string) (*domain.CycleCountTask, error) {
	return r.table.find(func(t *domain.CycleCountTask) bool {
		for _, item := range t.Items {
			if item.ID == itemID {
				return true
			}
		}
		return false
	})
}

func (r *CycleCountRepository) FindAll(_ context.Context) ([]*domain.CycleCountTask, error) {
	return r.table.list(nil, func(a, b *domain.CycleCountTask) bool { return a.ScheduledDate.Before(b.ScheduledDate) }), nil
}

type UserRepository struct {
	table *table[*domain.User]
}

func (r *UserRepository) Save(_ context.Context, user *domain.User) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()
	r.table.rows[user.Username] = cloneUser(user)
	return nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.table.get(username)
}

type SettingsRepository struct {
	table *table[*domain.UserSettings]
}

func (r *SettingsRepository) Save(_ context.Context, settings *domain.UserSettings) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()
	r.table.rows[settings.UserID] = cloneSettings(settings)
	return nil
}

func (r *SettingsRepository) FindByUserID(_ context.Context, userID string) (*domain.UserSettings, error) {
	return r.table.get(userID)
}
