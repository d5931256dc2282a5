// Package outbox stores CloudEvents next to the aggregate change that raised
// them and relays them to Kafka afterwards.
package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wms-platform/warehouse-ops/pkg/cloudevents"
)

// MaxAttempts bounds how often the relay tries one message
const MaxAttempts = 10

// ErrUnknownMessage is returned for an id the store does not hold
var ErrUnknownMessage = errors.New("outbox message not found")

// Message is one CloudEvent waiting to be published on Topic
type Message struct {
	ID            string          `bson:"_id" json:"id"`
	AggregateID   string          `bson:"aggregateId" json:"aggregateId"`
	AggregateType string          `bson:"aggregateType" json:"aggregateType"`
	EventType     string          `bson:"eventType" json:"eventType"`
	Topic         string          `bson:"topic" json:"topic"`
	Payload       json.RawMessage `bson:"payload" json:"payload"`
	CreatedAt     time.Time       `bson:"createdAt" json:"createdAt"`
	PublishedAt   *time.Time      `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	Attempts      int             `bson:"attempts" json:"attempts"`
	MaxAttempts   int             `bson:"maxAttempts" json:"maxAttempts"`
	LastError     string          `bson:"lastError,omitempty" json:"lastError,omitempty"`
}

// NewMessage serializes event for aggregateID
func NewMessage(aggregateID, aggregateType, topic string, event *cloudevents.WMSCloudEvent) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return &Message{
		ID:            uuid.NewString(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     event.Type,
		Topic:         topic,
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
		MaxAttempts:   MaxAttempts,
	}, nil
}

// Pending reports whether the relay should still try m
func (m *Message) Pending() bool {
	return m.PublishedAt == nil && m.Attempts < m.MaxAttempts
}

// Event decodes the stored CloudEvent
func (m *Message) Event() (*cloudevents.WMSCloudEvent, error) {
	var event cloudevents.WMSCloudEvent
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Data returns the raw data member of the stored CloudEvent
func (m *Message) Data() (json.RawMessage, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(m.Payload, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Store persists messages. Append called with a transactional context must
// join that transaction.
type Store interface {
	Append(ctx context.Context, msgs ...*Message) error
	// Pending returns up to limit pending messages, oldest first
	Pending(ctx context.Context, limit int) ([]*Message, error)
	MarkPublished(ctx context.Context, id string) error
	// RecordFailure counts a failed attempt
	RecordFailure(ctx context.Context, id, reason string) error
	// Prune deletes messages published more than olderThan ago
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	// ForAggregate returns every message of one aggregate, oldest first
	ForAggregate(ctx context.Context, aggregateID string) ([]*Message, error)
}
