package application

import "github.com/wms-platform/warehouse-ops/internal/domain"

// ToPickTaskDTO converts a domain PickTask to PickTaskDTO
func ToPickTaskDTO(task *domain.PickTask) *PickTaskDTO {
	if task == nil {
		return nil
	}

	items := make([]PickTaskItemDTO, 0, len(task.Items))
	for _, item := range task.Items {
		items = append(items, ToPickTaskItemDTO(item))
	}

	return &PickTaskDTO{
		ID:              task.ID,
		CustomerOrderID: task.CustomerOrderID,
		BatchID:         task.BatchID,
		Priority:        string(task.Priority),
		DueDate:         task.DueDate,
		Status:          string(task.Status),
		Items:           items,
		AssignedTo:      task.AssignedTo,
		StartedAt:       task.StartedAt,
		CompletedAt:     task.CompletedAt,
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
		Version:         task.Version,
	}
}

// ToPickTaskItemDTO converts a domain PickTaskItem to PickTaskItemDTO
func ToPickTaskItemDTO(item domain.PickTaskItem) PickTaskItemDTO {
	return PickTaskItemDTO{
		ID:             item.ID,
		PickTaskID:     item.PickTaskID,
		OrderItemID:    item.OrderItemID,
		SKU:            item.SKU,
		ProductName:    item.ProductName,
		Quantity:       item.Quantity,
		LocationID:     item.LocationID,
		LocationName:   item.LocationName,
		Status:         string(item.Status),
		PickedQuantity: item.PickedQuantity,
		Partial:        item.Partial,
		PickedAt:       item.PickedAt,
		Notes:          item.Notes,
	}
}

// ToScanVerificationDTO converts a scan verification outcome
func ToScanVerificationDTO(itemID string, v domain.ScanVerification, simulated bool) *ScanVerificationDTO {
	return &ScanVerificationDTO{
		ItemID:       itemID,
		ItemScan:     toScanResultDTO(v.ItemScan),
		LocationScan: toScanResultDTO(v.LocationScan),
		Verified:     v.Verified,
		Simulated:    simulated,
	}
}

func toScanResultDTO(r domain.ScanResult) ScanResultDTO {
	return ScanResultDTO{
		Code:            r.Code,
		Expected:        r.Expected,
		MatchesExpected: r.MatchesExpected,
		ScannedAt:       r.ScannedAt,
	}
}

// ToPackTaskDTO converts a domain PackTask to PackTaskDTO
func ToPackTaskDTO(task *domain.PackTask) *PackTaskDTO {
	if task == nil {
		return nil
	}

	items := make([]PackTaskItemDTO, 0, len(task.Items))
	for _, item := range task.Items {
		items = append(items, ToPackTaskItemDTO(item))
	}
	packages := make([]PackageDTO, 0, len(task.Packages))
	for _, pkg := range task.Packages {
		packages = append(packages, ToPackageDTO(pkg))
	}

	return &PackTaskDTO{
		ID:              task.ID,
		CustomerOrderID: task.CustomerOrderID,
		PickTaskID:      task.PickTaskID,
		Priority:        string(task.Priority),
		Status:          string(task.Status),
		Items:           items,
		Packages:        packages,
		AssignedTo:      task.AssignedTo,
		StartedAt:       task.StartedAt,
		CompletedAt:     task.CompletedAt,
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
		Version:         task.Version,
	}
}

func ToPackTaskItemDTO(item domain.PackTaskItem) PackTaskItemDTO {
	return PackTaskItemDTO{
		ID:             item.ID,
		PackTaskID:     item.PackTaskID,
		SKU:            item.SKU,
		ProductName:    item.ProductName,
		Quantity:       item.Quantity,
		Status:         string(item.Status),
		PackedQuantity: item.PackedQuantity,
		PackageID:      item.PackageID,
		PackedAt:       item.PackedAt,
	}
}

func ToPackageDTO(pkg domain.ShipmentPackage) PackageDTO {
	return PackageDTO{
		ID:             pkg.ID,
		PackTaskID:     pkg.PackTaskID,
		PackageType:    string(pkg.PackageType),
		Length:         pkg.Length,
		Width:          pkg.Width,
		Height:         pkg.Height,
		DimensionUnit:  pkg.DimensionUnit,
		Weight:         pkg.Weight,
		WeightUnit:     pkg.WeightUnit,
		Status:         string(pkg.Status),
		TrackingNumber: pkg.TrackingNumber,
		CreatedAt:      pkg.CreatedAt,
	}
}

// ToOrderDTO converts a domain Order to OrderDTO
func ToOrderDTO(order *domain.Order) *OrderDTO {
	if order == nil {
		return nil
	}

	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ToOrderItemDTO(item))
	}

	var address *AddressDTO
	if a := order.ShippingAddress; a != nil {
		address = &AddressDTO{
			Street:     a.Street,
			City:       a.City,
			State:      a.State,
			PostalCode: a.PostalCode,
			Country:    a.Country,
		}
	}

	return &OrderDTO{
		ID:               order.ID,
		OrderNumber:      order.OrderNumber,
		CustomerName:     order.CustomerName,
		CustomerType:     string(order.CustomerType),
		CustomerLocation: order.CustomerLocation,
		CustomerEmail:    order.CustomerEmail,
		Status:           string(order.Status),
		Priority:         string(order.Priority),
		PaymentStatus:    string(order.PaymentStatus),
		Items:            items,
		TotalValue:       order.TotalValue,
		Notes:            order.Notes,
		ShippingAddress:  address,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
		Version:          order.Version,
	}
}

func ToOrderItemDTO(item domain.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:          item.ID,
		OrderID:     item.OrderID,
		SKU:         item.SKU,
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		LineTotal:   item.LineTotal(),
		LocationID:  item.LocationID,
	}
}

func toAddress(a *AddressDTO) *domain.Address {
	if a == nil {
		return nil
	}
	return &domain.Address{
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// ToReturnRequestDTO converts a domain ReturnRequest to ReturnRequestDTO
func ToReturnRequestDTO(ret *domain.ReturnRequest) *ReturnRequestDTO {
	if ret == nil {
		return nil
	}

	items := make([]ReturnItemDTO, 0, len(ret.Items))
	for _, item := range ret.Items {
		items = append(items, ReturnItemDTO{
			OrderItemID: item.OrderItemID,
			SKU:         item.SKU,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Condition:   item.Condition,
		})
	}

	return &ReturnRequestDTO{
		ID:             ret.ID,
		OrderID:        ret.OrderID,
		OrderNumber:    ret.OrderNumber,
		CustomerName:   ret.CustomerName,
		Status:         string(ret.Status),
		Reason:         ret.Reason,
		ReturnMethod:   string(ret.ReturnMethod),
		ResolutionType: string(ret.ResolutionType),
		Items:          items,
		Notes:          ret.Notes,
		CreatedAt:      ret.CreatedAt,
		UpdatedAt:      ret.UpdatedAt,
	}
}

// ToCycleCountTaskDTO converts a domain CycleCountTask to CycleCountTaskDTO
func ToCycleCountTaskDTO(task *domain.CycleCountTask) *CycleCountTaskDTO {
	if task == nil {
		return nil
	}

	items := make([]CycleCountItemDTO, 0, len(task.Items))
	for _, item := range task.Items {
		items = append(items, ToCycleCountItemDTO(item))
	}

	return &CycleCountTaskDTO{
		ID:             task.ID,
		Name:           task.Name,
		CountingMethod: string(task.CountingMethod),
		Status:         string(task.Status),
		AssignedTo:     task.AssignedTo,
		ScheduledDate:  task.ScheduledDate,
		StartedAt:      task.StartedAt,
		CompletedAt:    task.CompletedAt,
		Locations:      task.Locations,
		Items:          items,
		Notes:          task.Notes,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

func ToCycleCountItemDTO(item domain.CycleCountItem) CycleCountItemDTO {
	return CycleCountItemDTO{
		ID:               item.ID,
		CycleCountTaskID: item.CycleCountTaskID,
		LocationID:       item.LocationID,
		SKU:              item.SKU,
		ProductName:      item.ProductName,
		ExpectedQuantity: item.ExpectedQuantity,
		ActualQuantity:   item.ActualQuantity,
		Discrepancy:      item.Discrepancy,
		Status:           string(item.Status),
		CountedBy:        item.CountedBy,
		CountedAt:        item.CountedAt,
		Notes:            item.Notes,
		AdjustmentReason: item.AdjustmentReason,
		ApprovedBy:       item.ApprovedBy,
		ApprovedAt:       item.ApprovedAt,
	}
}

func ToUserDTO(user *domain.User) UserDTO {
	return UserDTO{
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
	}
}
