package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func inventoryFixtures() []InventoryItem {
	return []InventoryItem{
		{ID: "INV-1", SKU: "SKU-1001", Name: "Wireless Scanner", Category: "Electronics", Supplier: "Hawkesbury Fresh", Quantity: 40, ReorderLevel: 10, Barcode: "9300000000011"},
		{ID: "INV-2", SKU: "SKU-2001", Name: "Packing Tape", Category: "Supplies", Supplier: "Sydney Greens", Quantity: 8, ReorderLevel: 10, Barcode: "9300000000028"},
		{ID: "INV-3", SKU: "SKU-3001", Name: "Winter Jacket", Category: "Apparel", Supplier: "Western Dairy", Quantity: 0, ReorderLevel: 5, Barcode: "9300000000035"},
		{ID: "INV-4", SKU: "SKU-3002", Name: "Thermal Gloves", Category: "apparel", Supplier: "Western Dairy", Quantity: 2, ReorderLevel: 6, Barcode: "9300000000042"},
	}
}

func itemIDs(items []InventoryItem) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.ID)
	}
	return out
}

func TestFilterInventory(t *testing.T) {
	tests := []struct {
		name     string
		category string
		query    string
		want     []string
	}{
		{name: "empty filter matches all", want: []string{"INV-1", "INV-2", "INV-3", "INV-4"}},
		{name: "all category", category: "all", want: []string{"INV-1", "INV-2", "INV-3", "INV-4"}},
		{name: "category ignores case", category: "APPAREL", want: []string{"INV-3", "INV-4"}},
		{name: "sku search", query: "sku-20", want: []string{"INV-2"}},
		{name: "name search", query: "  jacket ", want: []string{"INV-3"}},
		{name: "supplier search", query: "western", want: []string{"INV-3", "INV-4"}},
		{name: "barcode search", query: "0011", want: []string{"INV-1"}},
		{name: "category and query", category: "apparel", query: "gloves", want: []string{"INV-4"}},
		{name: "no match", category: "supplies", query: "jacket", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, itemIDs(FilterInventory(inventoryFixtures(), tt.category, tt.query)))
		})
	}
}

func TestLowStockAlerts(t *testing.T) {
	alerts := LowStockAlerts(inventoryFixtures())

	assert.Len(t, alerts, 3)
	severities := map[string]string{}
	for _, a := range alerts {
		severities[a.ItemID] = a.Severity
	}
	assert.Equal(t, map[string]string{
		"INV-2": AlertSeverityWarning,
		"INV-3": AlertSeverityCritical,
		"INV-4": AlertSeverityCritical,
	}, severities)
	assert.Equal(t, "SKU-2001", alerts[0].SKU)
	assert.Equal(t, 10, alerts[0].ReorderLevel)
}

func TestLowStockAlertsEmpty(t *testing.T) {
	alerts := LowStockAlerts(nil)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}
