package kafka

import (
	"time"
)

// Config holds Kafka producer configuration
type Config struct {
	Brokers  []string
	ClientID string

	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int // 0: no ack, 1: leader ack, -1: all replicas ack
	WriteTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Brokers:      []string{"localhost:9092"},
		ClientID:     "warehouse-ops",
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: -1,
		WriteTimeout: 10 * time.Second,
	}
}

// Topics contains the warehouse-ops Kafka topic names
var Topics = struct {
	PickingEvents   string
	PackingEvents   string
	OrdersEvents    string
	ReturnsEvents   string
	InventoryEvents string
}{
	PickingEvents:   "wms.picking.events",
	PackingEvents:   "wms.packing.events",
	OrdersEvents:    "wms.orders.events",
	ReturnsEvents:   "wms.returns.events",
	InventoryEvents: "wms.inventory.events",
}

// TopicForEventType routes an event type to its topic
func TopicForEventType(eventType string) string {
	switch {
	case hasPrefix(eventType, "wms.picking."):
		return Topics.PickingEvents
	case hasPrefix(eventType, "wms.packing."):
		return Topics.PackingEvents
	case hasPrefix(eventType, "wms.order."):
		return Topics.OrdersEvents
	case hasPrefix(eventType, "wms.return."):
		return Topics.ReturnsEvents
	default:
		return Topics.InventoryEvents
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
