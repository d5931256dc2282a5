package domain

import (
	"fmt"
	"time"
)

// PackTaskStatus represents the status of a pack task
type PackTaskStatus string

const (
	PackTaskStatusPending    PackTaskStatus = "pending"
	PackTaskStatusInProgress PackTaskStatus = "in_progress"
	PackTaskStatusCompleted  PackTaskStatus = "completed"
	PackTaskStatusCancelled  PackTaskStatus = "cancelled"
)

// PackItemStatus represents the status of a pack line
type PackItemStatus string

const (
	PackItemStatusPending PackItemStatus = "pending"
	PackItemStatusPacked  PackItemStatus = "packed"
)

// PackageType represents the type of packaging
type PackageType string

const (
	PackageTypeBox      PackageType = "box"
	PackageTypeEnvelope PackageType = "envelope"
	PackageTypePallet   PackageType = "pallet"
	PackageTypeTube     PackageType = "tube"
	PackageTypeCustom   PackageType = "custom"
)

// IsValid reports whether t is a known package type
func (t PackageType) IsValid() bool {
	switch t {
	case PackageTypeBox, PackageTypeEnvelope, PackageTypePallet, PackageTypeTube, PackageTypeCustom:
		return true
	}
	return false
}

// PackageStatus represents the shipping state of a package
type PackageStatus string

const (
	PackageStatusPacked  PackageStatus = "packed"
	PackageStatusLabeled PackageStatus = "labeled"
	PackageStatusShipped PackageStatus = "shipped"
)

const (
	DimensionUnitCM = "cm"
	DimensionUnitIN = "in"
	WeightUnitKG    = "kg"
	WeightUnitLB    = "lb"

	// MinPackageWeight is the lightest weight a scale reports
	MinPackageWeight = 0.1
)

// PackTask is the aggregate root for packing
type PackTask struct {
	ID              string            `bson:"_id"`
	CustomerOrderID string            `bson:"customerOrderId"`
	PickTaskID      string            `bson:"pickTaskId,omitempty"`
	Priority        TaskPriority      `bson:"priority"`
	Status          PackTaskStatus    `bson:"status"`
	Items           []PackTaskItem    `bson:"items"`
	Packages        []ShipmentPackage `bson:"packages"`
	AssignedTo      string            `bson:"assignedTo,omitempty"`
	StartedAt       *time.Time        `bson:"startedAt,omitempty"`
	CompletedAt     *time.Time        `bson:"completedAt,omitempty"`
	CreatedAt       time.Time         `bson:"createdAt"`
	UpdatedAt       time.Time         `bson:"updatedAt"`
	Version         int64             `bson:"version"`
	aggregate       `bson:"-"`
}

// PackTaskItem is one line of a pack task
type PackTaskItem struct {
	ID             string         `bson:"id"`
	PackTaskID     string         `bson:"packTaskId"`
	SKU            string         `bson:"sku"`
	ProductName    string         `bson:"productName"`
	Quantity       int            `bson:"quantity"`
	Status         PackItemStatus `bson:"status"`
	PackedQuantity int            `bson:"packedQuantity"`
	PackageID      string         `bson:"packageId,omitempty"`
	PackedAt       *time.Time     `bson:"packedAt,omitempty"`
}

// ShipmentPackage is a physical package created while packing
type ShipmentPackage struct {
	ID             string        `bson:"id"`
	PackTaskID     string        `bson:"packTaskId"`
	PackageType    PackageType   `bson:"packageType"`
	Length         float64       `bson:"length"`
	Width          float64       `bson:"width"`
	Height         float64       `bson:"height"`
	DimensionUnit  string        `bson:"dimensionUnit"`
	Weight         float64       `bson:"weight"`
	WeightUnit     string        `bson:"weightUnit"`
	Status         PackageStatus `bson:"status"`
	TrackingNumber string        `bson:"trackingNumber,omitempty"`
	CreatedAt      time.Time     `bson:"createdAt"`
}

// PackageSpec describes a package to create
type PackageSpec struct {
	PackageType   PackageType
	Length        float64
	Width         float64
	Height        float64
	DimensionUnit string
	Weight        float64
	WeightUnit    string
}

// Validate checks dimensions, weight and units, filling default units
func (s *PackageSpec) Validate() error {
	if s.PackageType == "" {
		s.PackageType = PackageTypeBox
	}
	if !s.PackageType.IsValid() {
		return fmt.Errorf("%w: unknown package type %q", ErrInvalidPackage, s.PackageType)
	}
	if s.Length <= 0 || s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: dimensions must be greater than zero", ErrInvalidPackage)
	}
	if s.Weight < MinPackageWeight {
		return fmt.Errorf("%w: weight must be at least %.1f", ErrInvalidPackage, MinPackageWeight)
	}
	if s.DimensionUnit == "" {
		s.DimensionUnit = DimensionUnitCM
	}
	if s.DimensionUnit != DimensionUnitCM && s.DimensionUnit != DimensionUnitIN {
		return fmt.Errorf("%w: unknown dimension unit %q", ErrInvalidPackage, s.DimensionUnit)
	}
	if s.WeightUnit == "" {
		s.WeightUnit = WeightUnitKG
	}
	if s.WeightUnit != WeightUnitKG && s.WeightUnit != WeightUnitLB {
		return fmt.Errorf("%w: unknown weight unit %q", ErrInvalidPackage, s.WeightUnit)
	}
	return nil
}

// NewPackTask creates a pending pack task
func NewPackTask(id, customerOrderID, pickTaskID string, priority TaskPriority, items []PackTaskItem) (*PackTask, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if priority == "" {
		priority = TaskPriorityMedium
	}
	if !priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	if id == "" {
		id = NewID("PK")
	}

	for i := range items {
		if items[i].Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if items[i].ID == "" {
			items[i].ID = NewID("PKI")
		}
		items[i].PackTaskID = id
		items[i].Status = PackItemStatusPending
		items[i].PackedQuantity = 0
		items[i].PackageID = ""
		items[i].PackedAt = nil
	}

	now := time.Now().UTC()
	task := &PackTask{
		ID:              id,
		CustomerOrderID: customerOrderID,
		PickTaskID:      pickTaskID,
		Priority:        priority,
		Status:          PackTaskStatusPending,
		Items:           items,
		Packages:        []ShipmentPackage{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	task.addDomainEvent(&PackTaskCreatedEvent{
		PackTaskID:      id,
		CustomerOrderID: customerOrderID,
		PickTaskID:      pickTaskID,
		ItemCount:       len(items),
		CreatedAt:       now,
	})

	return task, nil
}

// NewPackTaskFromPickTask builds a pack task from the picked lines of a
// completed pick task. Unavailable lines are skipped.
func NewPackTaskFromPickTask(pick *PickTask) (*PackTask, error) {
	if pick.Status != PickTaskStatusCompleted {
		return nil, ErrPickTaskNotReady
	}

	picked := pick.PickedItems()
	if len(picked) == 0 {
		return nil, ErrNothingToPack
	}

	items := make([]PackTaskItem, 0, len(picked))
	for _, p := range picked {
		quantity := p.Quantity
		if p.PickedQuantity != nil {
			quantity = *p.PickedQuantity
		}
		items = append(items, PackTaskItem{
			SKU:         p.SKU,
			ProductName: p.ProductName,
			Quantity:    quantity,
		})
	}

	return NewPackTask("", pick.CustomerOrderID, pick.ID, pick.Priority, items)
}

// Start moves a pending task to in_progress
func (t *PackTask) Start(assignee string) error {
	if t.Status != PackTaskStatusPending {
		return ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	t.Status = PackTaskStatusInProgress
	if assignee != "" {
		t.AssignedTo = assignee
	}
	t.StartedAt = &now
	t.UpdatedAt = now

	t.addDomainEvent(&PackTaskStartedEvent{
		PackTaskID: t.ID,
		AssignedTo: t.AssignedTo,
		StartedAt:  now,
	})

	return nil
}

func (t *PackTask) acceptsPacking() bool {
	return t.Status == PackTaskStatusPending || t.Status == PackTaskStatusInProgress
}

// AddPackage creates a package on the task
func (t *PackTask) AddPackage(spec PackageSpec) (*ShipmentPackage, error) {
	if !t.acceptsPacking() {
		return nil, ErrTaskNotPackable
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	pkg := ShipmentPackage{
		ID:            NewID("PKG"),
		PackTaskID:    t.ID,
		PackageType:   spec.PackageType,
		Length:        spec.Length,
		Width:         spec.Width,
		Height:        spec.Height,
		DimensionUnit: spec.DimensionUnit,
		Weight:        spec.Weight,
		WeightUnit:    spec.WeightUnit,
		Status:        PackageStatusPacked,
		CreatedAt:     now,
	}
	t.Packages = append(t.Packages, pkg)
	t.UpdatedAt = now

	t.addDomainEvent(&PackageCreatedEvent{
		PackTaskID:  t.ID,
		PackageID:   pkg.ID,
		PackageType: string(pkg.PackageType),
		Length:      pkg.Length,
		Width:       pkg.Width,
		Height:      pkg.Height,
		Unit:        pkg.DimensionUnit,
		Weight:      pkg.Weight,
		WeightUnit:  pkg.WeightUnit,
		CreatedAt:   now,
	})

	return &t.Packages[len(t.Packages)-1], nil
}

// Package returns the package with the given id
func (t *PackTask) Package(packageID string) (*ShipmentPackage, error) {
	for i := range t.Packages {
		if t.Packages[i].ID == packageID {
			return &t.Packages[i], nil
		}
	}
	return nil, ErrPackageNotFound
}

// Item returns the item with the given id
func (t *PackTask) Item(itemID string) (*PackTaskItem, error) {
	for i := range t.Items {
		if t.Items[i].ID == itemID {
			return &t.Items[i], nil
		}
	}
	return nil, ErrItemNotFound
}

// PackItem places an item into one of the task's packages. A zero quantity
// packs the full line. Packing on a pending task starts it.
func (t *PackTask) PackItem(itemID, packageID string, quantity int) (*PackTaskItem, error) {
	if !t.acceptsPacking() {
		return nil, ErrTaskNotPackable
	}
	item, err := t.Item(itemID)
	if err != nil {
		return nil, err
	}
	if item.Status != PackItemStatusPending {
		return nil, ErrItemNotPending
	}
	if _, err := t.Package(packageID); err != nil {
		return nil, err
	}
	if quantity == 0 {
		quantity = item.Quantity
	}
	if quantity < 1 || quantity > item.Quantity {
		return nil, ErrInvalidQuantity
	}

	if t.Status == PackTaskStatusPending {
		if err := t.Start(""); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	item.Status = PackItemStatusPacked
	item.PackedQuantity = quantity
	item.PackageID = packageID
	item.PackedAt = &now
	t.UpdatedAt = now

	t.addDomainEvent(&ItemPackedEvent{
		PackTaskID: t.ID,
		ItemID:     item.ID,
		SKU:        item.SKU,
		PackageID:  packageID,
		Quantity:   quantity,
		PackedAt:   now,
	})

	return item, nil
}

// Complete finishes the task once every item is packed into a package
func (t *PackTask) Complete() error {
	if t.Status != PackTaskStatusInProgress {
		return ErrInvalidStatusTransition
	}
	for _, item := range t.Items {
		if item.Status != PackItemStatusPacked {
			return ErrItemsNotPacked
		}
	}
	if len(t.Packages) == 0 {
		return ErrNoPackages
	}

	now := time.Now().UTC()
	t.Status = PackTaskStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now

	t.addDomainEvent(&PackTaskCompletedEvent{
		PackTaskID:      t.ID,
		CustomerOrderID: t.CustomerOrderID,
		PackageCount:    len(t.Packages),
		CompletedAt:     now,
	})

	return nil
}

// Cancel cancels a pending or in-progress task
func (t *PackTask) Cancel() error {
	if !t.acceptsPacking() {
		return ErrInvalidStatusTransition
	}

	previous := t.Status
	now := time.Now().UTC()
	t.Status = PackTaskStatusCancelled
	t.UpdatedAt = now

	t.addDomainEvent(&PackTaskCancelledEvent{
		PackTaskID:     t.ID,
		PreviousStatus: string(previous),
		CancelledAt:    now,
	})

	return nil
}
