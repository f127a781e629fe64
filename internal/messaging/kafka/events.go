package kafka

import (
	"encoding/json"
	"time"
)

// EventType определяет тип события заказа
type EventType string

const (
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderPaid          EventType = "order.paid"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
)

// Topics для Kafka
const (
	TopicOrderEvents     = "storefront.order.events"
	TopicDeadLetterQueue = "storefront.dlq" // Dead Letter Queue для сообщений outbox, исчерпавших retry
)

// Kafka headers
const (
	HeaderEventType     = "x-event-type"
	HeaderAggregateType = "x-aggregate-type"
	HeaderOutboxID      = "x-outbox-id"
)

// OrderEvent — полезная нагрузка событий заказа.
type OrderEvent struct {
	EventType     EventType         `json:"event_type"`
	OrderID       string            `json:"order_id"`
	CustomerID    string            `json:"customer_id"`
	PaymentStatus string            `json:"payment_status"`
	OrderStatus   string            `json:"order_status"`
	TotalAmount   string            `json:"total_amount"`
	Currency      string            `json:"currency"`
	Timestamp     time.Time         `json:"timestamp"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Envelope — обёртка outbox-сообщения в топике.
type Envelope struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	PublishedAt   time.Time       `json:"published_at"`
}
