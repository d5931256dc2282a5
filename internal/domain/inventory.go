package domain

import "strings"

// InventoryItem is the stock position of a single SKU
type InventoryItem struct {
	ID           string `bson:"_id" json:"id"`
	SKU          string `bson:"sku" json:"sku"`
	Name         string `bson:"name" json:"name"`
	Category     string `bson:"category" json:"category"`
	Supplier     string `bson:"supplier" json:"supplier"`
	Quantity     int    `bson:"quantity" json:"quantity"`
	Unit         string `bson:"unit" json:"unit"`
	ReorderLevel int    `bson:"reorderLevel" json:"reorderLevel"`
	Barcode      string `bson:"barcode" json:"barcode"`
}

// LowStock reports whether the item is at or below its reorder level
func (i InventoryItem) LowStock() bool {
	return i.Quantity <= i.ReorderLevel
}

const (
	AlertSeverityWarning  = "warning"
	AlertSeverityCritical = "critical"
)

// InventoryAlert flags an item that needs replenishment
type InventoryAlert struct {
	ItemID       string `json:"itemId"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Supplier     string `json:"supplier"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorderLevel"`
	Severity     string `json:"severity"`
}

// FilterInventory matches the category exactly (ignoring case) and searches
// SKU, name, supplier and barcode
func FilterInventory(items []InventoryItem, category, q string) []InventoryItem {
	query := strings.ToLower(strings.TrimSpace(q))
	result := make([]InventoryItem, 0, len(items))
	for _, item := range items {
		if category != "" && category != "all" && !strings.EqualFold(category, item.Category) {
			continue
		}
		if query != "" &&
			!containsFold(item.SKU, query) &&
			!containsFold(item.Name, query) &&
			!containsFold(item.Supplier, query) &&
			!containsFold(item.Barcode, query) {
			continue
		}
		result = append(result, item)
	}
	return result
}

// LowStockAlerts returns one alert per item at or below its reorder level.
// Items that are out of stock or under half their reorder level are critical.
func LowStockAlerts(items []InventoryItem) []InventoryAlert {
	alerts := make([]InventoryAlert, 0)
	for _, item := range items {
		if !item.LowStock() {
			continue
		}
		severity := AlertSeverityWarning
		if item.Quantity == 0 || item.Quantity*2 <= item.ReorderLevel {
			severity = AlertSeverityCritical
		}
		alerts = append(alerts, InventoryAlert{
			ItemID:       item.ID,
			SKU:          item.SKU,
			Name:         item.Name,
			Supplier:     item.Supplier,
			Quantity:     item.Quantity,
			ReorderLevel: item.ReorderLevel,
			Severity:     severity,
		})
	}
	return alerts
}
