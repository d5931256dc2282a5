// Package fixtures builds deterministic warehouse data for tests, local
// development and database seeding.
package fixtures

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/auth"
)

// DefaultPassword is the password of every seeded user
const DefaultPassword = "password"

// Builder creates aggregates relative to a fixed reference time. Built
// aggregates carry no domain events, so seeding them publishes nothing.
type Builder struct {
	now time.Time
}

// NewBuilder creates a Builder anchored at now
func NewBuilder(now time.Time) *Builder {
	return &Builder{now: now.UTC()}
}

// PickItem builds a pending pick line
func (b *Builder) PickItem(id, sku, productName, locationID string, quantity int) domain.PickTaskItem {
	return domain.PickTaskItem{
		ID:           id,
		SKU:          sku,
		ProductName:  productName,
		Quantity:     quantity,
		LocationID:   locationID,
		LocationName: "Aisle " + locationID,
		Status:       domain.PickItemStatusPending,
	}
}

// PickTask builds a pending pick task due in four hours
func (b *Builder) PickTask(id, orderID string, priority domain.TaskPriority, items ...domain.PickTaskItem) *domain.PickTask {
	lines := make([]domain.PickTaskItem, len(items))
	copy(lines, items)
	for i := range lines {
		lines[i].PickTaskID = id
	}
	return &domain.PickTask{
		ID:              id,
		CustomerOrderID: orderID,
		Priority:        priority,
		DueDate:         b.now.Add(4 * time.Hour),
		Status:          domain.PickTaskStatusPending,
		Items:           lines,
		CreatedAt:       b.now.Add(-time.Hour),
		UpdatedAt:       b.now.Add(-time.Hour),
	}
}

// PackItem builds a pending pack line
func (b *Builder) PackItem(id, sku, productName string, quantity int) domain.PackTaskItem {
	return domain.PackTaskItem{
		ID:          id,
		SKU:         sku,
		ProductName: productName,
		Quantity:    quantity,
		Status:      domain.PackItemStatusPending,
	}
}

// PackTask builds a pending pack task without packages
func (b *Builder) PackTask(id, orderID, pickTaskID string, priority domain.TaskPriority, items ...domain.PackTaskItem) *domain.PackTask {
	lines := make([]domain.PackTaskItem, len(items))
	copy(lines, items)
	for i := range lines {
		lines[i].PackTaskID = id
	}
	return &domain.PackTask{
		ID:              id,
		CustomerOrderID: orderID,
		PickTaskID:      pickTaskID,
		Priority:        priority,
		Status:          domain.PackTaskStatusPending,
		Items:           lines,
		Packages:        []domain.ShipmentPackage{},
		CreatedAt:       b.now.Add(-30 * time.Minute),
		UpdatedAt:       b.now.Add(-30 * time.Minute),
	}
}

// OrderItem builds an order line priced in the order currency
func (b *Builder) OrderItem(id, sku, productName, locationID string, quantity int, unitPrice string) domain.OrderItem {
	return domain.OrderItem{
		ID:          id,
		SKU:         sku,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   decimal.RequireFromString(unitPrice),
		LocationID:  locationID,
	}
}

// Order builds an order in the given status with its total computed
func (b *Builder) Order(id, customerName string, status domain.OrderStatus, priority domain.OrderPriority, items ...domain.OrderItem) *domain.Order {
	lines := make([]domain.OrderItem, len(items))
	copy(lines, items)
	total := decimal.Zero
	for i := range lines {
		lines[i].OrderID = id
		total = total.Add(lines[i].LineTotal())
	}
	return &domain.Order{
		ID:               id,
		OrderNumber:      "SO-" + id[len("ORD-"):],
		CustomerName:     customerName,
		CustomerType:     domain.CustomerTypeRetail,
		CustomerLocation: "Chicago, IL",
		Status:           status,
		Priority:         priority,
		PaymentStatus:    domain.PaymentStatusPaid,
		Items:            lines,
		TotalValue:       total,
		ShippingAddress: &domain.Address{
			Street:     "1234 Main St",
			City:       "Chicago",
			State:      "IL",
			PostalCode: "60601",
			Country:    "US",
		},
		CreatedAt: b.now.Add(-24 * time.Hour),
		UpdatedAt: b.now.Add(-24 * time.Hour),
	}
}

// User builds an operator with a bcrypt hash of password
func (b *Builder) User(username, password, displayName string, role domain.Role) (*domain.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		Username:     username,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         role,
		CreatedAt:    b.now,
	}, nil
}

// Users returns the seeded operator accounts
func (b *Builder) Users() ([]*domain.User, error) {
	accounts := []struct {
		username    string
		displayName string
		role        domain.Role
	}{
		{"admin", "Administrator", domain.RoleAdmin},
		{"manager1", "Warehouse Manager", domain.RoleWarehouseManager},
		{"warehouse1", "Warehouse Operator", domain.RoleWarehouseStaff},
	}

	users := make([]*domain.User, 0, len(accounts))
	for _, a := range accounts {
		user, err := b.User(a.username, DefaultPassword, a.displayName, a.role)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// Orders returns one order per lifecycle stage used by the other fixtures
func (b *Builder) Orders() []*domain.Order {
	return []*domain.Order{
		b.Order("ORD-1001", "Acme Retail", domain.OrderStatusProcessing, domain.OrderPriorityExpress,
			b.OrderItem("OI-1001-1", "SKU-1001", "Wireless Scanner", "A-01-01", 2, "149.99"),
			b.OrderItem("OI-1001-2", "SKU-1002", "Label Printer", "A-02-03", 1, "329.00"),
		),
		b.Order("ORD-1002", "Northwind Traders", domain.OrderStatusPending, domain.OrderPriorityStandard,
			b.OrderItem("OI-1002-1", "SKU-2001", "Packing Tape", "B-01-02", 12, "3.49"),
		),
		b.Order("ORD-1003", "Contoso Outfitters", domain.OrderStatusDelivered, domain.OrderPriorityUrgent,
			b.OrderItem("OI-1003-1", "SKU-3001", "Winter Jacket", "C-04-01", 3, "89.50"),
			b.OrderItem("OI-1003-2", "SKU-3002", "Thermal Gloves", "C-04-02", 5, "19.95"),
		),
	}
}

// PickTasks returns pick tasks covering pending, in progress and completed
// work
func (b *Builder) PickTasks() []*domain.PickTask {
	pending := b.PickTask("PT-1001", "ORD-1001", domain.TaskPriorityHigh,
		b.PickItem("PT-1001-1", "SKU-1001", "Wireless Scanner", "A-01-01", 2),
		b.PickItem("PT-1001-2", "SKU-1002", "Label Printer", "A-02-03", 1),
	)

	started := b.now.Add(-20 * time.Minute)
	inProgress := b.PickTask("PT-1002", "ORD-1002", domain.TaskPriorityMedium,
		b.PickItem("PT-1002-1", "SKU-2001", "Packing Tape", "B-01-02", 12),
	)
	inProgress.Status = domain.PickTaskStatusInProgress
	inProgress.AssignedTo = "warehouse1"
	inProgress.StartedAt = &started

	completedAt := b.now.Add(-2 * time.Hour)
	picked := 3
	completed := b.PickTask("PT-1003", "ORD-1003", domain.TaskPriorityUrgent,
		b.PickItem("PT-1003-1", "SKU-3001", "Winter Jacket", "C-04-01", 3),
	)
	completed.DueDate = b.now.Add(-time.Hour)
	completed.Status = domain.PickTaskStatusCompleted
	completed.AssignedTo = "warehouse1"
	completed.StartedAt = &completedAt
	completed.CompletedAt = &completedAt
	completed.Items[0].Status = domain.PickItemStatusPicked
	completed.Items[0].PickedQuantity = &picked
	completed.Items[0].PickedAt = &completedAt

	return []*domain.PickTask{pending, inProgress, completed}
}

// PackTasks returns the pack task of the completed pick
func (b *Builder) PackTasks() []*domain.PackTask {
	return []*domain.PackTask{
		b.PackTask("PK-2001", "ORD-1003", "PT-1003", domain.TaskPriorityUrgent,
			b.PackItem("PK-2001-1", "SKU-3001", "Winter Jacket", 3),
		),
	}
}

// Returns returns a requested return against the delivered order
func (b *Builder) Returns() []*domain.ReturnRequest {
	return []*domain.ReturnRequest{
		{
			ID:             "RET-3001",
			OrderID:        "ORD-1003",
			OrderNumber:    "SO-1003",
			CustomerName:   "Contoso Outfitters",
			Status:         domain.ReturnStatusRequested,
			Reason:         "Wrong size",
			ReturnMethod:   domain.ReturnMethodMail,
			ResolutionType: domain.ResolutionReplacement,
			Items: []domain.ReturnItem{
				{OrderItemID: "OI-1003-2", SKU: "SKU-3002", ProductName: "Thermal Gloves", Quantity: 2, Condition: "unopened"},
			},
			CreatedAt: b.now.Add(-3 * time.Hour),
			UpdatedAt: b.now.Add(-3 * time.Hour),
		},
	}
}

// CycleCounts returns a pending zone count
func (b *Builder) CycleCounts() []*domain.CycleCountTask {
	items := []domain.CycleCountItem{
		{ID: "CC-4001-1", LocationID: "A-01-01", SKU: "SKU-1001", ProductName: "Wireless Scanner", ExpectedQuantity: 40},
		{ID: "CC-4001-2", LocationID: "A-02-03", SKU: "SKU-1002", ProductName: "Label Printer", ExpectedQuantity: 12},
		{ID: "CC-4001-3", LocationID: "B-01-02", SKU: "SKU-2001", ProductName: "Packing Tape", ExpectedQuantity: 300},
	}
	for i := range items {
		items[i].CycleCountTaskID = "CC-4001"
		items[i].Status = domain.CountItemStatusPending
	}
	return []*domain.CycleCountTask{
		{
			ID:             "CC-4001",
			Name:           "Zone A weekly count",
			CountingMethod: domain.CountingMethodZone,
			Status:         domain.CycleCountStatusPending,
			ScheduledDate:  b.now.Add(24 * time.Hour),
			Locations:      []string{"A-01-01", "A-02-03", "B-01-02"},
			Items:          items,
			CreatedAt:      b.now,
			UpdatedAt:      b.now,
		},
	}
}

// Dashboard returns the dashboard read models
func (b *Builder) Dashboard() domain.DashboardData {
	day := func(offset int) time.Time { return b.now.AddDate(0, 0, offset) }

	return domain.DashboardData{
		SecurityAlerts: []domain.SecurityAlert{
			{
				ID: "SA-1", Type: "unauthorized_access", Severity: "high", Timestamp: b.now.Add(-90 * time.Minute),
				Description:     "Repeated failed badge scans at dock door 4",
				Status:          "investigating",
				AffectedSystems: []string{"access-control"},
				MitigationSteps: []string{"Badge disabled", "Security dispatched"},
				ResponseTime:    "4 min",
			},
			{
				ID: "SA-2", Type: "data_anomaly", Severity: "medium", Timestamp: b.now.Add(-6 * time.Hour),
				Description:     "Unusual export volume from inventory reports",
				Status:          "resolved",
				AffectedSystems: []string{"reporting"},
				MitigationSteps: []string{"Export quota applied"},
				ResponseTime:    "22 min",
			},
		},
		Compliance: []domain.SecurityCompliance{
			{ID: "SC-1", Framework: "ISO 27001", Status: "compliant", LastAudit: day(-60), NextAuditDue: day(305), ResponsibleParty: "IT Security"},
			{ID: "SC-2", Framework: "C-TPAT", Status: "action_required", LastAudit: day(-120), Findings: []string{"Seal log gaps"}, NextAuditDue: day(30), ResponsibleParty: "Operations"},
		},
		Sustainability: &domain.SustainabilityMetrics{
			ID:                   "SM-1",
			TotalCarbonEmissions: 1245.6,
			EmissionReduction:    "12%",
			EnergyEfficiency:     87.5,
			EmptyMilesPercentage: 14.2,
			CarbonOffsets:        320,
			SustainabilityScore:  78,
		},
		Recommendations: []domain.SustainabilityRecommendation{
			{ID: "SR-1", Title: "Consolidate LTL shipments", Description: "Combine partial loads on the Chicago to Detroit lane", PotentialImpact: "high", Difficulty: "medium", TimeToImplement: "4 weeks", CostSavings: "$12,000/yr"},
			{ID: "SR-2", Title: "LED retrofit in zone C", Description: "Replace high-bay lighting", PotentialImpact: "medium", Difficulty: "low", TimeToImplement: "2 weeks", CostSavings: "$4,500/yr"},
		},
		Routes: []domain.MultiModalRoute{
			{
				ID: "MMR-1", Name: "Chicago to Rotterdam", Status: "active", OriginType: "warehouse", DestinationType: "port",
				TransportModes: []domain.TransportSegment{
					{ID: "SEG-1", RouteID: "MMR-1", Mode: "truck", Origin: "Chicago, IL", Destination: "Newark, NJ", Distance: "790 mi", Duration: "14 h", Cost: "$2,100", Status: "completed", Carrier: "Midwest Freight"},
					{ID: "SEG-2", RouteID: "MMR-1", Mode: "ocean", Origin: "Newark, NJ", Destination: "Rotterdam, NL", Distance: "3,650 nmi", Duration: "9 d", Cost: "$3,400", Status: "in_transit", Carrier: "Atlantic Line"},
				},
				TotalDistance: "4,440 mi", TotalDuration: "10 d", TotalCost: "$5,500", CO2Emissions: "2.1 t", Reliability: 0.93,
			},
			{
				ID: "MMR-2", Name: "Los Angeles to Dallas", Status: "planned", OriginType: "port", DestinationType: "warehouse",
				TransportModes: []domain.TransportSegment{
					{ID: "SEG-3", RouteID: "MMR-2", Mode: "rail", Origin: "Los Angeles, CA", Destination: "Dallas, TX", Distance: "1,430 mi", Duration: "3 d", Cost: "$1,800", Status: "scheduled", Carrier: "Southern Rail"},
				},
				TotalDistance: "1,430 mi", TotalDuration: "3 d", TotalCost: "$1,800", CO2Emissions: "0.6 t", Reliability: 0.88,
			},
		},
		WeatherEvents: []domain.WeatherEvent{
			{ID: "WE-1", Type: "snow", Severity: "severe", Region: "Northeast", AffectedRoutes: 14, StartTime: b.now.Add(-2 * time.Hour), EndTime: b.now.Add(13 * time.Hour), Description: "Heavy snowfall with accumulation of 8-12 inches expected"},
			{ID: "WE-2", Type: "fog", Severity: "moderate", Region: "West Coast", AffectedRoutes: 8, StartTime: b.now.Add(-6 * time.Hour), EndTime: b.now.Add(-time.Hour), Description: "Dense fog reducing visibility to less than 1/4 mile"},
			{ID: "WE-3", Type: "rain", Severity: "minor", Region: "Southeast", AffectedRoutes: 5, StartTime: b.now.Add(2 * time.Hour), EndTime: b.now.Add(8 * time.Hour), Description: "Heavy rain causing minor flooding in low-lying areas"},
		},
		AlternativeRoutes: []domain.AlternativeRoute{
			{ID: "AR-1", OriginalRoute: "I-95 North", AlternativeRoute: "US-1 North", TimeSaved: "45 min", WeatherCondition: "Heavy Snow", Confidence: 87},
			{ID: "AR-2", OriginalRoute: "I-5 South", AlternativeRoute: "CA-101 South", TimeSaved: "30 min", WeatherCondition: "Dense Fog", Confidence: 92},
			{ID: "AR-3", OriginalRoute: "I-75 South", AlternativeRoute: "US-41 South", TimeSaved: "15 min", WeatherCondition: "Heavy Rain", Confidence: 78},
		},
		Inventory: []domain.InventoryItem{
			{ID: "INV-1001", SKU: "SKU-1001", Name: "Wireless Scanner", Category: "electronics", Supplier: "Scanline Devices", Quantity: 40, Unit: "each", ReorderLevel: 10, Barcode: "9312345010013"},
			{ID: "INV-1002", SKU: "SKU-1002", Name: "Label Printer", Category: "electronics", Supplier: "Scanline Devices", Quantity: 4, Unit: "each", ReorderLevel: 5, Barcode: "9312345010020"},
			{ID: "INV-2001", SKU: "SKU-2001", Name: "Packing Tape", Category: "supplies", Supplier: "Harbour Packaging", Quantity: 300, Unit: "roll", ReorderLevel: 100, Barcode: "9312345020012"},
			{ID: "INV-2002", SKU: "SKU-2002", Name: "Bubble Wrap", Category: "supplies", Supplier: "Harbour Packaging", Quantity: 0, Unit: "roll", ReorderLevel: 20, Barcode: "9312345020029"},
			{ID: "INV-3001", SKU: "SKU-3001", Name: "Winter Jacket", Category: "apparel", Supplier: "Northwind Outfitters", Quantity: 25, Unit: "each", ReorderLevel: 10, Barcode: "9312345030011"},
			{ID: "INV-3002", SKU: "SKU-3002", Name: "Thermal Gloves", Category: "apparel", Supplier: "Northwind Outfitters", Quantity: 6, Unit: "pair", ReorderLevel: 15, Barcode: "9312345030028"},
		},
	}
}
