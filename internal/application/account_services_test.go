package application

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/auth"
	"github.com/wms-platform/warehouse-ops/pkg/errors"
)

func seededUsers(t *testing.T) *mockUserRepo {
	t.Helper()
	hash, err := auth.HashPassword("password")
	require.NoError(t, err)
	repo := &mockUserRepo{}
	require.NoError(t, repo.Save(context.Background(), &domain.User{
		Username:     "warehouse1",
		PasswordHash: hash,
		DisplayName:  "Warehouse One",
		Role:         domain.RoleWarehouseStaff,
	}))
	return repo
}

func TestLogin(t *testing.T) {
	tokens := &stubTokens{}
	service := NewAuthApplicationService(seededUsers(t), tokens, testLogger())

	result, err := service.Login(context.Background(), LoginCommand{Username: "warehouse1", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, "token-warehouse1", result.Token)
	assert.Equal(t, "warehouse_staff", result.User.Role)
	require.Len(t, tokens.issued, 1)
	assert.Equal(t, "Warehouse One", tokens.issued[0].DisplayName)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	service := NewAuthApplicationService(seededUsers(t), &stubTokens{}, testLogger())

	_, err := service.Login(context.Background(), LoginCommand{Username: "warehouse1", Password: "nope"})
	requireAppError(t, err, http.StatusUnauthorized, errors.CodeUnauthorized)

	_, err = service.Login(context.Background(), LoginCommand{Username: "ghost", Password: "password"})
	requireAppError(t, err, http.StatusUnauthorized, errors.CodeUnauthorized)

	_, err = service.Login(context.Background(), LoginCommand{Username: "warehouse1"})
	requireAppError(t, err, http.StatusBadRequest, errors.CodeValidationError)
}

func TestMe(t *testing.T) {
	service := NewAuthApplicationService(seededUsers(t), &stubTokens{}, testLogger())

	user, err := service.Me(context.Background(), "warehouse1")
	require.NoError(t, err)
	assert.Equal(t, "Warehouse One", user.DisplayName)

	_, err = service.Me(context.Background(), "ghost")
	requireAppError(t, err, http.StatusNotFound, errors.CodeNotFound)
}

func TestSettingsDefaultsAndPatch(t *testing.T) {
	repo := &mockSettingsRepo{}
	service := NewSettingsApplicationService(repo, nil, testLogger())
	ctx := context.Background()

	defaults, err := service.GetSettings(ctx, "warehouse1")
	require.NoError(t, err)
	assert.Equal(t, "overview", defaults.Dashboard.DefaultView)
	assert.Nil(t, repo.lastSaved, "reading defaults does not persist them")

	updated, err := service.UpdateSettings(ctx, "warehouse1", domain.SettingsPatch{
		Display: &domain.DisplaySettings{Theme: "dark", Density: "compact"},
	})
	require.NoError(t, err)
	assert.Equal(t, "dark", updated.Display.Theme)
	assert.Equal(t, 30, updated.Dashboard.RefreshRate, "sections not supplied are kept")

	stored, err := service.GetSettings(ctx, "warehouse1")
	require.NoError(t, err)
	assert.Equal(t, "compact", stored.Display.Density)
}

func TestSettingsPatchValidation(t *testing.T) {
	repo := &mockSettingsRepo{}
	service := NewSettingsApplicationService(repo, nil, testLogger())

	_, err := service.UpdateSettings(context.Background(), "warehouse1", domain.SettingsPatch{
		Dashboard: &domain.DashboardSettings{DefaultView: "overview", RefreshRate: 1},
	})
	requireAppError(t, err, http.StatusBadRequest, errors.CodeValidationError)
	assert.Nil(t, repo.lastSaved)
}

func TestDashboardSegmentsAndWeather(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockDashboardRepo{data: domain.DashboardData{
		Routes: []domain.MultiModalRoute{
			{ID: "R-1", TransportModes: []domain.TransportSegment{{ID: "S-1", Mode: "truck"}, {ID: "S-2", Mode: "rail"}}},
			{ID: "R-2", TransportModes: []domain.TransportSegment{{ID: "S-3", RouteID: "R-2", Mode: "sea"}}},
		},
		WeatherEvents: []domain.WeatherEvent{
			{ID: "W-1", Severity: "severe", AffectedRoutes: 4, StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)},
			{ID: "W-2", Severity: "minor", AffectedRoutes: 2, StartTime: now.Add(-48 * time.Hour), EndTime: now.Add(-24 * time.Hour)},
		},
	}}
	service := NewDashboardApplicationService(repo, testLogger())
	service.now = func() time.Time { return now }
	ctx := context.Background()

	all, err := service.Segments(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	one, err := service.Segments(ctx, "R-1")
	require.NoError(t, err)
	require.Len(t, one, 2)
	assert.Equal(t, "R-1", one[0].RouteID)

	impact, err := service.WeatherImpact(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, impact.ActiveAlerts)
	assert.Equal(t, 4, impact.AffectedShipments)
	assert.Equal(t, "high", impact.RiskLevel)

	alerts, err := service.SecurityAlerts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)

	_, err = service.SustainabilityMetrics(ctx)
	requireAppError(t, err, http.StatusNotFound, errors.CodeNotFound)
}

func TestDashboardInventory(t *testing.T) {
	repo := &mockDashboardRepo{data: domain.DashboardData{
		Inventory: []domain.InventoryItem{
			{ID: "INV-1", SKU: "SKU-1", Name: "Scanner", Category: "electronics", Supplier: "Scanline", Quantity: 12, ReorderLevel: 4},
			{ID: "INV-2", SKU: "SKU-2", Name: "Tape", Category: "supplies", Supplier: "Harbour", Quantity: 3, ReorderLevel: 4},
		},
	}}
	service := NewDashboardApplicationService(repo, testLogger())
	ctx := context.Background()

	items, err := service.Inventory(ctx, "all", "HARBOUR")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "INV-2", items[0].ID)

	alerts, err := service.InventoryAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.AlertSeverityWarning, alerts[0].Severity)

	repo.err = stderrors.New("connection reset")
	_, err = service.InventoryAlerts(ctx)
	requireAppError(t, err, http.StatusInternalServerError, errors.CodeInternalError)
}
