package application

import (
	"context"
	"time"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/auth"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
)

func testLogger() *logging.Logger {
	cfg := logging.DefaultConfig("warehouse-ops-test")
	cfg.Level = logging.LogLevel("error")
	return logging.New(cfg)
}

type mockPickTaskRepo struct {
	saveFn         func(context.Context, *domain.PickTask) error
	findByIDFn     func(context.Context, string) (*domain.PickTask, error)
	findByItemFn   func(context.Context, string) (*domain.PickTask, error)
	findByOrderFn  func(context.Context, string) ([]*domain.PickTask, error)
	findAllFn      func(context.Context) ([]*domain.PickTask, error)
	countOverdueFn func(context.Context, time.Time) (int64, error)

	lastSaved *domain.PickTask
	saves     int
}

func (m *mockPickTaskRepo) Save(ctx context.Context, task *domain.PickTask) error {
	m.lastSaved = task
	m.saves++
	if m.saveFn != nil {
		return m.saveFn(ctx, task)
	}
	return nil
}

func (m *mockPickTaskRepo) FindByID(ctx context.Context, id string) (*domain.PickTask, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPickTaskRepo) FindByItemID(ctx context.Context, itemID string) (*domain.PickTask, error) {
	if m.findByItemFn != nil {
		return m.findByItemFn(ctx, itemID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPickTaskRepo) FindByOrderID(ctx context.Context, orderID string) ([]*domain.PickTask, error) {
	if m.findByOrderFn != nil {
		return m.findByOrderFn(ctx, orderID)
	}
	return nil, nil
}

func (m *mockPickTaskRepo) FindAll(ctx context.Context) ([]*domain.PickTask, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return nil, nil
}

func (m *mockPickTaskRepo) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	if m.countOverdueFn != nil {
		return m.countOverdueFn(ctx, now)
	}
	return 0, nil
}

type mockPackTaskRepo struct {
	saveFn       func(context.Context, *domain.PackTask) error
	findByIDFn   func(context.Context, string) (*domain.PackTask, error)
	findByItemFn func(context.Context, string) (*domain.PackTask, error)
	findByPickFn func(context.Context, string) (*domain.PackTask, error)
	findAllFn    func(context.Context) ([]*domain.PackTask, error)

	lastSaved *domain.PackTask
	saves     int
}

func (m *mockPackTaskRepo) Save(ctx context.Context, task *domain.PackTask) error {
	m.lastSaved = task
	m.saves++
	if m.saveFn != nil {
		return m.saveFn(ctx, task)
	}
	return nil
}

func (m *mockPackTaskRepo) FindByID(ctx context.Context, id string) (*domain.PackTask, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPackTaskRepo) FindByItemID(ctx context.Context, itemID string) (*domain.PackTask, error) {
	if m.findByItemFn != nil {
		return m.findByItemFn(ctx, itemID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPackTaskRepo) FindByPickTaskID(ctx context.Context, pickTaskID string) (*domain.PackTask, error) {
	if m.findByPickFn != nil {
		return m.findByPickFn(ctx, pickTaskID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPackTaskRepo) FindAll(ctx context.Context) ([]*domain.PackTask, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return nil, nil
}

type mockOrderRepo struct {
	saveFn     func(context.Context, *domain.Order) error
	findByIDFn func(context.Context, string) (*domain.Order, error)
	findAllFn  func(context.Context) ([]*domain.Order, error)
	deleteFn   func(context.Context, *domain.Order) error

	lastSaved   *domain.Order
	lastDeleted *domain.Order
}

func (m *mockOrderRepo) Save(ctx context.Context, order *domain.Order) error {
	m.lastSaved = order
	if m.saveFn != nil {
		return m.saveFn(ctx, order)
	}
	return nil
}

func (m *mockOrderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockOrderRepo) FindAll(ctx context.Context) ([]*domain.Order, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return nil, nil
}

func (m *mockOrderRepo) Delete(ctx context.Context, order *domain.Order) error {
	m.lastDeleted = order
	if m.deleteFn != nil {
		return m.deleteFn(ctx, order)
	}
	return nil
}

type mockReturnRepo struct {
	saveFn     func(context.Context, *domain.ReturnRequest) error
	findByIDFn func(context.Context, string) (*domain.ReturnRequest, error)
	findAllFn  func(context.Context) ([]*domain.ReturnRequest, error)

	lastSaved *domain.ReturnRequest
}

func (m *mockReturnRepo) Save(ctx context.Context, ret *domain.ReturnRequest) error {
	m.lastSaved = ret
	if m.saveFn != nil {
		return m.saveFn(ctx, ret)
	}
	return nil
}

func (m *mockReturnRepo) FindByID(ctx context.Context, id string) (*domain.ReturnRequest, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockReturnRepo) FindAll(ctx context.Context) ([]*domain.ReturnRequest, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return nil, nil
}

type mockCycleCountRepo struct {
	saveFn       func(context.Context, *domain.CycleCountTask) error
	findByIDFn   func(context.Context, string) (*domain.CycleCountTask, error)
	findByItemFn func(context.Context, string) (*domain.CycleCountTask, error)
	findAllFn    func(context.Context) ([]*domain.CycleCountTask, error)

	lastSaved *domain.CycleCountTask
	saves     int
}

func (m *mockCycleCountRepo) Save(ctx context.Context, task *domain.CycleCountTask) error {
	m.lastSaved = task
	m.saves++
	if m.saveFn != nil {
		return m.saveFn(ctx, task)
	}
	return nil
}

func (m *mockCycleCountRepo) FindByID(ctx context.Context, id string) (*domain.CycleCountTask, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCycleCountRepo) FindByItemID(ctx context.Context, itemID string) (*domain.CycleCountTask, error) {
	if m.findByItemFn != nil {
		return m.findByItemFn(ctx, itemID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCycleCountRepo) FindAll(ctx context.Context) ([]*domain.CycleCountTask, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return nil, nil
}

type mockUserRepo struct {
	users map[string]*domain.User
}

func (m *mockUserRepo) Save(_ context.Context, user *domain.User) error {
	if m.users == nil {
		m.users = make(map[string]*domain.User)
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if user, ok := m.users[username]; ok {
		return user, nil
	}
	return nil, domain.ErrNotFound
}

type mockSettingsRepo struct {
	stored    map[string]*domain.UserSettings
	lastSaved *domain.UserSettings
}

func (m *mockSettingsRepo) Save(_ context.Context, settings *domain.UserSettings) error {
	if m.stored == nil {
		m.stored = make(map[string]*domain.UserSettings)
	}
	m.stored[settings.UserID] = settings
	m.lastSaved = settings
	return nil
}

func (m *mockSettingsRepo) FindByUserID(_ context.Context, userID string) (*domain.UserSettings, error) {
	if s, ok := m.stored[userID]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

type mockDashboardRepo struct {
	data domain.DashboardData
	err  error
}

func (m *mockDashboardRepo) SecurityAlerts(context.Context) ([]domain.SecurityAlert, error) {
	return m.data.SecurityAlerts, m.err
}

func (m *mockDashboardRepo) SecurityCompliance(context.Context) ([]domain.SecurityCompliance, error) {
	return m.data.Compliance, m.err
}

func (m *mockDashboardRepo) SustainabilityMetrics(context.Context) (*domain.SustainabilityMetrics, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.data.Sustainability == nil {
		return nil, domain.ErrNotFound
	}
	return m.data.Sustainability, nil
}

func (m *mockDashboardRepo) SustainabilityRecommendations(context.Context) ([]domain.SustainabilityRecommendation, error) {
	return m.data.Recommendations, m.err
}

func (m *mockDashboardRepo) Routes(context.Context) ([]domain.MultiModalRoute, error) {
	return m.data.Routes, m.err
}

func (m *mockDashboardRepo) WeatherEvents(context.Context) ([]domain.WeatherEvent, error) {
	return m.data.WeatherEvents, m.err
}

func (m *mockDashboardRepo) AlternativeRoutes(context.Context) ([]domain.AlternativeRoute, error) {
	return m.data.AlternativeRoutes, m.err
}

func (m *mockDashboardRepo) Inventory(context.Context) ([]domain.InventoryItem, error) {
	return m.data.Inventory, m.err
}

func (m *mockDashboardRepo) Replace(_ context.Context, data domain.DashboardData) error {
	m.data = data
	return m.err
}

// passthroughTransactor runs fn directly
type passthroughTransactor struct {
	calls int
}

func (t *passthroughTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type mockOrchestrator struct {
	startFn     func(context.Context, string) error
	completedFn func(context.Context, string, string) error
	cancelledFn func(context.Context, string, string) error

	started   []string
	completed []string
	cancelled []string
}

func (m *mockOrchestrator) StartPicking(ctx context.Context, orderID string) error {
	m.started = append(m.started, orderID)
	if m.startFn != nil {
		return m.startFn(ctx, orderID)
	}
	return nil
}

func (m *mockOrchestrator) PickTaskCompleted(ctx context.Context, orderID, pickTaskID string) error {
	m.completed = append(m.completed, pickTaskID)
	if m.completedFn != nil {
		return m.completedFn(ctx, orderID, pickTaskID)
	}
	return nil
}

func (m *mockOrchestrator) PickTaskCancelled(ctx context.Context, orderID, pickTaskID string) error {
	m.cancelled = append(m.cancelled, pickTaskID)
	if m.cancelledFn != nil {
		return m.cancelledFn(ctx, orderID, pickTaskID)
	}
	return nil
}

type stubTokens struct {
	issued []auth.Principal
}

func (s *stubTokens) GenerateToken(p auth.Principal) (string, time.Time, error) {
	s.issued = append(s.issued, p)
	return "token-" + p.Username, time.Now().Add(time.Hour), nil
}
