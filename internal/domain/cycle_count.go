package domain

import (
	"math"
	"time"
)

// CycleCountStatus represents the status of a cycle count task
type CycleCountStatus string

const (
	CycleCountStatusPending    CycleCountStatus = "pending"
	CycleCountStatusInProgress CycleCountStatus = "in_progress"
	CycleCountStatusCompleted  CycleCountStatus = "completed"
	CycleCountStatusCancelled  CycleCountStatus = "cancelled"
)

// CountItemStatus represents the status of a counted location/sku
type CountItemStatus string

const (
	CountItemStatusPending       CountItemStatus = "pending"
	CountItemStatusCounted       CountItemStatus = "counted"
	CountItemStatusAdjusted      CountItemStatus = "adjusted"
	CountItemStatusInvestigation CountItemStatus = "investigation"
)

// CountingMethod selects which locations a cycle count covers
type CountingMethod string

const (
	CountingMethodFull   CountingMethod = "full"
	CountingMethodABC    CountingMethod = "abc"
	CountingMethodRandom CountingMethod = "random"
	CountingMethodZone   CountingMethod = "zone"
)

// InvestigationThreshold is the relative discrepancy above which a count
// is sent to investigation
const InvestigationThreshold = 0.10

// CycleCountTask is the aggregate root for inventory counts
type CycleCountTask struct {
	ID             string           `bson:"_id"`
	Name           string           `bson:"name"`
	CountingMethod CountingMethod   `bson:"countingMethod"`
	Status         CycleCountStatus `bson:"status"`
	AssignedTo     string           `bson:"assignedTo,omitempty"`
	ScheduledDate  time.Time        `bson:"scheduledDate"`
	StartedAt      *time.Time       `bson:"startedAt,omitempty"`
	CompletedAt    *time.Time       `bson:"completedAt,omitempty"`
	Locations      []string         `bson:"locations"`
	Items          []CycleCountItem `bson:"items"`
	Notes          string           `bson:"notes,omitempty"`
	CreatedAt      time.Time        `bson:"createdAt"`
	UpdatedAt      time.Time        `bson:"updatedAt"`
	Version        int64            `bson:"version"`
	aggregate      `bson:"-"`
}

// CycleCountItem is one sku at one location to count
type CycleCountItem struct {
	ID               string          `bson:"id"`
	CycleCountTaskID string          `bson:"cycleCountTaskId"`
	LocationID       string          `bson:"locationId"`
	SKU              string          `bson:"sku"`
	ProductName      string          `bson:"productName"`
	ExpectedQuantity int             `bson:"expectedQuantity"`
	ActualQuantity   *int            `bson:"actualQuantity,omitempty"`
	Discrepancy      *int            `bson:"discrepancy,omitempty"`
	Status           CountItemStatus `bson:"status"`
	CountedBy        string          `bson:"countedBy,omitempty"`
	CountedAt        *time.Time      `bson:"countedAt,omitempty"`
	Notes            string          `bson:"notes,omitempty"`
	AdjustmentReason string          `bson:"adjustmentReason,omitempty"`
	ApprovedBy       string          `bson:"approvedBy,omitempty"`
	ApprovedAt       *time.Time      `bson:"approvedAt,omitempty"`
}

// NewCycleCountTask creates a pending cycle count. Locations are derived
// from the items when not supplied.
func NewCycleCountTask(name string, method CountingMethod, scheduled time.Time, items []CycleCountItem, notes string) (*CycleCountTask, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if method == "" {
		method = CountingMethodFull
	}

	id := NewID("CC")
	seen := make(map[string]bool)
	var locations []string
	for i := range items {
		if items[i].ExpectedQuantity < 0 {
			return nil, ErrInvalidQuantity
		}
		if items[i].ID == "" {
			items[i].ID = NewID("CCI")
		}
		items[i].CycleCountTaskID = id
		items[i].Status = CountItemStatusPending
		if !seen[items[i].LocationID] {
			seen[items[i].LocationID] = true
			locations = append(locations, items[i].LocationID)
		}
	}

	now := time.Now().UTC()
	if scheduled.IsZero() {
		scheduled = now
	}

	return &CycleCountTask{
		ID:             id,
		Name:           name,
		CountingMethod: method,
		Status:         CycleCountStatusPending,
		ScheduledDate:  scheduled,
		Locations:      locations,
		Items:          items,
		Notes:          notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Start moves a pending count to in_progress
func (t *CycleCountTask) Start(assignee string) error {
	if t.Status != CycleCountStatusPending {
		return ErrInvalidStatusTransition
	}
	now := time.Now().UTC()
	t.Status = CycleCountStatusInProgress
	if assignee != "" {
		t.AssignedTo = assignee
	}
	t.StartedAt = &now
	t.UpdatedAt = now
	return nil
}

// Item returns the count line with the given id
func (t *CycleCountTask) Item(itemID string) (*CycleCountItem, error) {
	for i := range t.Items {
		if t.Items[i].ID == itemID {
			return &t.Items[i], nil
		}
	}
	return nil, ErrItemNotFound
}

// RecordCount stores the counted quantity and classifies the discrepancy.
// Recounting an item overwrites the previous count.
func (t *CycleCountTask) RecordCount(itemID string, actual int, countedBy, notes string) (*CycleCountItem, error) {
	if t.Status != CycleCountStatusInProgress {
		return nil, ErrCountNotInProgress
	}
	if actual < 0 {
		return nil, ErrInvalidQuantity
	}
	item, err := t.Item(itemID)
	if err != nil {
		return nil, err
	}
	if item.Status == CountItemStatusAdjusted {
		return nil, ErrItemNotPending
	}

	now := time.Now().UTC()
	discrepancy := actual - item.ExpectedQuantity
	item.ActualQuantity = &actual
	item.Discrepancy = &discrepancy
	item.CountedBy = countedBy
	item.CountedAt = &now
	if notes != "" {
		item.Notes = notes
	}
	if NeedsInvestigation(item.ExpectedQuantity, discrepancy) {
		item.Status = CountItemStatusInvestigation
	} else {
		item.Status = CountItemStatusCounted
	}
	t.UpdatedAt = now

	return item, nil
}

// NeedsInvestigation reports whether a discrepancy exceeds the threshold
func NeedsInvestigation(expected, discrepancy int) bool {
	if discrepancy == 0 {
		return false
	}
	if expected == 0 {
		return true
	}
	return math.Abs(float64(discrepancy)) > InvestigationThreshold*float64(expected)
}

// Complete finishes the count once no item is pending
func (t *CycleCountTask) Complete() error {
	if t.Status != CycleCountStatusInProgress {
		return ErrInvalidStatusTransition
	}

	counted, investigations := 0, 0
	for _, item := range t.Items {
		switch item.Status {
		case CountItemStatusPending:
			return ErrItemsNotCounted
		case CountItemStatusInvestigation:
			investigations++
		}
		counted++
	}

	now := time.Now().UTC()
	t.Status = CycleCountStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now

	t.addDomainEvent(&CycleCountCompletedEvent{
		CycleCountTaskID: t.ID,
		CountedItems:     counted,
		Investigations:   investigations,
		CompletedAt:      now,
	})

	return nil
}

// Cancel cancels a pending or in-progress count
func (t *CycleCountTask) Cancel() error {
	if t.Status != CycleCountStatusPending && t.Status != CycleCountStatusInProgress {
		return ErrInvalidStatusTransition
	}
	t.Status = CycleCountStatusCancelled
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// ApplyAdjustments approves every counted item with a discrepancy and
// returns the adjusted items
func (t *CycleCountTask) ApplyAdjustments(approvedBy, reason string) ([]CycleCountItem, error) {
	if t.Status != CycleCountStatusCompleted {
		return nil, ErrCountNotCompleted
	}

	now := time.Now().UTC()
	var adjusted []CycleCountItem
	var adjustments []InventoryAdjustment
	for i := range t.Items {
		item := &t.Items[i]
		if item.Status != CountItemStatusCounted || item.Discrepancy == nil || *item.Discrepancy == 0 {
			continue
		}
		item.Status = CountItemStatusAdjusted
		item.AdjustmentReason = reason
		item.ApprovedBy = approvedBy
		item.ApprovedAt = &now
		adjusted = append(adjusted, *item)
		adjustments = append(adjustments, InventoryAdjustment{
			ItemID:      item.ID,
			SKU:         item.SKU,
			LocationID:  item.LocationID,
			Discrepancy: *item.Discrepancy,
		})
	}

	if len(adjusted) > 0 {
		t.UpdatedAt = now
		t.addDomainEvent(&AdjustmentsAppliedEvent{
			CycleCountTaskID: t.ID,
			ApprovedBy:       approvedBy,
			Reason:           reason,
			Adjustments:      adjustments,
			AppliedAt:        now,
		})
	}

	return adjusted, nil
}
