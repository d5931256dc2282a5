package domain

import (
	"time"
)

// PickTaskStatus represents the status of a pick task
type PickTaskStatus string

const (
	PickTaskStatusPending    PickTaskStatus = "pending"
	PickTaskStatusInProgress PickTaskStatus = "in_progress"
	PickTaskStatusCompleted  PickTaskStatus = "completed"
	PickTaskStatusCancelled  PickTaskStatus = "cancelled"
)

// PickItemStatus represents the status of a single pick line
type PickItemStatus string

const (
	PickItemStatusPending     PickItemStatus = "pending"
	PickItemStatusPicked      PickItemStatus = "picked"
	PickItemStatusUnavailable PickItemStatus = "unavailable"
)

// TaskPriority is shared by pick and pack tasks
type TaskPriority string

const (
	TaskPriorityUrgent TaskPriority = "urgent"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

// IsValid reports whether p is a known priority
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityUrgent, TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow:
		return true
	}
	return false
}

// PickTask is the aggregate root for picking
type PickTask struct {
	ID              string         `bson:"_id"`
	CustomerOrderID string         `bson:"customerOrderId"`
	BatchID         string         `bson:"batchId,omitempty"`
	Priority        TaskPriority   `bson:"priority"`
	DueDate         time.Time      `bson:"dueDate"`
	Status          PickTaskStatus `bson:"status"`
	Items           []PickTaskItem `bson:"items"`
	AssignedTo      string         `bson:"assignedTo,omitempty"`
	StartedAt       *time.Time     `bson:"startedAt,omitempty"`
	CompletedAt     *time.Time     `bson:"completedAt,omitempty"`
	CreatedAt       time.Time      `bson:"createdAt"`
	UpdatedAt       time.Time      `bson:"updatedAt"`
	Version         int64          `bson:"version"`
	aggregate       `bson:"-"`
}

// PickTaskItem is one line of a pick task
type PickTaskItem struct {
	ID             string         `bson:"id"`
	PickTaskID     string         `bson:"pickTaskId"`
	OrderItemID    string         `bson:"orderItemId,omitempty"`
	SKU            string         `bson:"sku"`
	ProductName    string         `bson:"productName"`
	Quantity       int            `bson:"quantity"`
	LocationID     string         `bson:"locationId"`
	LocationName   string         `bson:"locationName"`
	Status         PickItemStatus `bson:"status"`
	PickedQuantity *int           `bson:"pickedQuantity,omitempty"`
	Partial        bool           `bson:"partial"`
	PickedAt       *time.Time     `bson:"pickedAt,omitempty"`
	Notes          string         `bson:"notes,omitempty"`
}

// IsResolved reports whether the item no longer blocks completion
func (i PickTaskItem) IsResolved() bool {
	return i.Status == PickItemStatusPicked || i.Status == PickItemStatusUnavailable
}

// NewPickTask creates a pending pick task. Item ids are assigned when empty.
func NewPickTask(id, customerOrderID string, priority TaskPriority, dueDate time.Time, items []PickTaskItem) (*PickTask, error) {
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
		id = NewID("PT")
	}

	for i := range items {
		if items[i].Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if items[i].ID == "" {
			items[i].ID = NewID("PTI")
		}
		items[i].PickTaskID = id
		items[i].Status = PickItemStatusPending
		items[i].PickedQuantity = nil
		items[i].Partial = false
		items[i].PickedAt = nil
	}

	now := time.Now().UTC()
	task := &PickTask{
		ID:              id,
		CustomerOrderID: customerOrderID,
		Priority:        priority,
		DueDate:         dueDate,
		Status:          PickTaskStatusPending,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	task.addDomainEvent(&PickTaskCreatedEvent{
		PickTaskID:      id,
		CustomerOrderID: customerOrderID,
		Priority:        string(priority),
		ItemCount:       len(items),
		DueDate:         dueDate,
		CreatedAt:       now,
	})

	return task, nil
}

// Start moves a pending task to in_progress
func (t *PickTask) Start(assignee string) error {
	if t.Status != PickTaskStatusPending {
		return ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	t.Status = PickTaskStatusInProgress
	if assignee != "" {
		t.AssignedTo = assignee
	}
	t.StartedAt = &now
	t.UpdatedAt = now

	t.addDomainEvent(&PickTaskStartedEvent{
		PickTaskID:      t.ID,
		CustomerOrderID: t.CustomerOrderID,
		AssignedTo:      t.AssignedTo,
		StartedAt:       now,
	})

	return nil
}

// Item returns the item with the given id
func (t *PickTask) Item(itemID string) (*PickTaskItem, error) {
	for i := range t.Items {
		if t.Items[i].ID == itemID {
			return &t.Items[i], nil
		}
	}
	return nil, ErrItemNotFound
}

func (t *PickTask) pendingItem(itemID string) (*PickTaskItem, error) {
	if t.Status != PickTaskStatusInProgress {
		return nil, ErrTaskNotActive
	}
	item, err := t.Item(itemID)
	if err != nil {
		return nil, err
	}
	if item.Status != PickItemStatusPending {
		return nil, ErrItemNotPending
	}
	return item, nil
}

// PickItem records a verified pick. A quantity below the requested
// quantity is a partial pick.
func (t *PickTask) PickItem(itemID string, quantity int, verification ScanVerification, notes string) (*PickTaskItem, error) {
	item, err := t.pendingItem(itemID)
	if err != nil {
		return nil, err
	}
	if quantity < 1 || quantity > item.Quantity {
		return nil, ErrInvalidQuantity
	}
	if !verification.Verified {
		return nil, ErrScanMismatch
	}

	now := time.Now().UTC()
	picked := quantity
	item.Status = PickItemStatusPicked
	item.PickedQuantity = &picked
	item.Partial = quantity < item.Quantity
	item.PickedAt = &now
	if notes != "" {
		item.Notes = notes
	}
	t.UpdatedAt = now

	t.addDomainEvent(&ItemPickedEvent{
		PickTaskID:     t.ID,
		ItemID:         item.ID,
		SKU:            item.SKU,
		LocationID:     item.LocationID,
		Quantity:       item.Quantity,
		PickedQuantity: quantity,
		Partial:        item.Partial,
		PickedAt:       now,
	})

	return item, nil
}

// MarkItemUnavailable records that an item could not be found
func (t *PickTask) MarkItemUnavailable(itemID, notes string) (*PickTaskItem, error) {
	item, err := t.pendingItem(itemID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	zero := 0
	item.Status = PickItemStatusUnavailable
	item.PickedQuantity = &zero
	item.PickedAt = &now
	if notes != "" {
		item.Notes = notes
	}
	t.UpdatedAt = now

	t.addDomainEvent(&ItemUnavailableEvent{
		PickTaskID: t.ID,
		ItemID:     item.ID,
		SKU:        item.SKU,
		LocationID: item.LocationID,
		Notes:      notes,
		ReportedAt: now,
	})

	return item, nil
}

// Complete finishes an in-progress task once every item is resolved
func (t *PickTask) Complete() error {
	if t.Status != PickTaskStatusInProgress {
		return ErrInvalidStatusTransition
	}

	picked, unavailable := 0, 0
	for _, item := range t.Items {
		switch item.Status {
		case PickItemStatusPicked:
			picked++
		case PickItemStatusUnavailable:
			unavailable++
		default:
			return ErrItemsOutstanding
		}
	}

	now := time.Now().UTC()
	t.Status = PickTaskStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now

	t.addDomainEvent(&PickTaskCompletedEvent{
		PickTaskID:       t.ID,
		CustomerOrderID:  t.CustomerOrderID,
		PickedItems:      picked,
		UnavailableItems: unavailable,
		CompletedAt:      now,
	})

	return nil
}

// Cancel cancels a pending or in-progress task
func (t *PickTask) Cancel() error {
	if t.Status != PickTaskStatusPending && t.Status != PickTaskStatusInProgress {
		return ErrInvalidStatusTransition
	}

	previous := t.Status
	now := time.Now().UTC()
	t.Status = PickTaskStatusCancelled
	t.UpdatedAt = now

	t.addDomainEvent(&PickTaskCancelledEvent{
		PickTaskID:      t.ID,
		CustomerOrderID: t.CustomerOrderID,
		PreviousStatus:  string(previous),
		CancelledAt:     now,
	})

	return nil
}

// IsOverdue reports whether an open task is past its due date
func (t *PickTask) IsOverdue(now time.Time) bool {
	open := t.Status == PickTaskStatusPending || t.Status == PickTaskStatusInProgress
	return open && !t.DueDate.IsZero() && t.DueDate.Before(now)
}

// PickedItems returns the items that were physically picked
func (t *PickTask) PickedItems() []PickTaskItem {
	var picked []PickTaskItem
	for _, item := range t.Items {
		if item.Status == PickItemStatusPicked {
			picked = append(picked, item)
		}
	}
	return picked
}
