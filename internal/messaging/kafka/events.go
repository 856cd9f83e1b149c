package kafka

import (
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
)

// TopicOrderEvents — топик событий заказов витрины.
const TopicOrderEvents = "merchstore.order.events"

// OrderEventMessage — wire-формат события заказа в Kafka.
// EventID уникален для каждой публикации: потребители дедуплицируют по нему.
type OrderEventMessage struct {
	EventID    string                 `json:"event_id"`
	EventType  string                 `json:"event_type"`
	OrderID    string                 `json:"order_id"`
	ExternalID string                 `json:"external_id"`
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// newOrderEventMessage конвертирует доменное событие в wire-формат.
func newOrderEventMessage(event domain.OrderEvent) OrderEventMessage {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return OrderEventMessage{
		EventID:    uuid.NewString(),
		EventType:  event.Type,
		OrderID:    event.OrderID,
		ExternalID: event.ExternalID,
		Status:     event.Status,
		Timestamp:  ts,
		Metadata:   event.Metadata,
	}
}
