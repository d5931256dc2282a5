package memory

import "github.com/wms-platform/warehouse-ops/internal/domain"

// Copies handed in and out of the tables never share mutable state with
// the caller and never carry recorded events.

func clonePickTask(t *domain.PickTask) *domain.PickTask {
	c := *t
	c.ClearDomainEvents()
	c.StartedAt = timePtr(t.StartedAt)
	c.CompletedAt = timePtr(t.CompletedAt)
	c.Items = make([]domain.PickTaskItem, len(t.Items))
	for i, item := range t.Items {
		item.PickedQuantity = intPtr(item.PickedQuantity)
		item.PickedAt = timePtr(item.PickedAt)
		c.Items[i] = item
	}
	return &c
}

func clonePackTask(t *domain.PackTask) *domain.PackTask {
	c := *t
	c.ClearDomainEvents()
	c.StartedAt = timePtr(t.StartedAt)
	c.CompletedAt = timePtr(t.CompletedAt)
	c.Items = make([]domain.PackTaskItem, len(t.Items))
	for i, item := range t.Items {
		item.PackedAt = timePtr(item.PackedAt)
		c.Items[i] = item
	}
	c.Packages = append([]domain.ShipmentPackage(nil), t.Packages...)
	return &c
}

func cloneOrder(o *domain.Order) *domain.Order {
	c := *o
	c.ClearDomainEvents()
	c.Items = append([]domain.OrderItem(nil), o.Items...)
	if o.ShippingAddress != nil {
		addr := *o.ShippingAddress
		c.ShippingAddress = &addr
	}
	return &c
}

func cloneReturnRequest(r *domain.ReturnRequest) *domain.ReturnRequest {
	c := *r
	c.ClearDomainEvents()
	c.Items = append([]domain.ReturnItem(nil), r.Items...)
	return &c
}

func cloneCycleCount(t *domain.CycleCountTask) *domain.CycleCountTask {
	c := *t
	c.ClearDomainEvents()
	c.StartedAt = timePtr(t.StartedAt)
	c.CompletedAt = timePtr(t.CompletedAt)
	c.Locations = append([]string(nil), t.Locations...)
	c.Items = make([]domain.CycleCountItem, len(t.Items))
	for i, item := range t.Items {
		item.ActualQuantity = intPtr(item.ActualQuantity)
		item.Discrepancy = intPtr(item.Discrepancy)
		item.CountedAt = timePtr(item.CountedAt)
		item.ApprovedAt = timePtr(item.ApprovedAt)
		c.Items[i] = item
	}
	return &c
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func cloneSettings(s *domain.UserSettings) *domain.UserSettings {
	c := *s
	return &c
}
