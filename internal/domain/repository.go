package domain

import (
	"context"
	"time"
)

// Repositories return ErrNotFound for missing aggregates and
// ErrConcurrentModification when a Save loses an optimistic version check.
// Save persists the aggregate's recorded domain events atomically with it.

type PickTaskRepository interface {
	Save(ctx context.Context, task *PickTask) error
	FindByID(ctx context.Context, id string) (*PickTask, error)
	FindByItemID(ctx context.Context, itemID string) (*PickTask, error)
	FindByOrderID(ctx context.Context, orderID string) ([]*PickTask, error)
	FindAll(ctx context.Context) ([]*PickTask, error)
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
}

type PackTaskRepository interface {
	Save(ctx context.Context, task *PackTask) error
	FindByID(ctx context.Context, id string) (*PackTask, error)
	FindByItemID(ctx context.Context, itemID string) (*PackTask, error)
	FindByPickTaskID(ctx context.Context, pickTaskID string) (*PackTask, error)
	FindAll(ctx context.Context) ([]*PackTask, error)
}

type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	FindAll(ctx context.Context) ([]*Order, error)
	Delete(ctx context.Context, order *Order) error
}

type ReturnRequestRepository interface {
	Save(ctx context.Context, ret *ReturnRequest) error
	FindByID(ctx context.Context, id string) (*ReturnRequest, error)
	FindAll(ctx context.Context) ([]*ReturnRequest, error)
}

type CycleCountRepository interface {
	Save(ctx context.Context, task *CycleCountTask) error
	FindByID(ctx context.Context, id string) (*CycleCountTask, error)
	FindByItemID(ctx context.Context, itemID string) (*CycleCountTask, error)
	FindAll(ctx context.Context) ([]*CycleCountTask, error)
}

type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
}

type SettingsRepository interface {
	Save(ctx context.Context, settings *UserSettings) error
	FindByUserID(ctx context.Context, userID string) (*UserSettings, error)
}

// DashboardRepository serves the read-only dashboard models
type DashboardRepository interface {
	SecurityAlerts(ctx context.Context) ([]SecurityAlert, error)
	SecurityCompliance(ctx context.Context) ([]SecurityCompliance, error)
	SustainabilityMetrics(ctx context.Context) (*SustainabilityMetrics, error)
	SustainabilityRecommendations(ctx context.Context) ([]SustainabilityRecommendation, error)
	Routes(ctx context.Context) ([]MultiModalRoute, error)
	WeatherEvents(ctx context.Context) ([]WeatherEvent, error)
	AlternativeRoutes(ctx context.Context) ([]AlternativeRoute, error)
	Inventory(ctx context.Context) ([]InventoryItem, error)
	Replace(ctx context.Context, data DashboardData) error
}

// Transactor runs fn so that every Save inside it commits or aborts together
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
