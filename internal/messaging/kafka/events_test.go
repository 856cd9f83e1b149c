package kafka

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
)

func TestNewOrderEventMessage(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	event := domain.OrderEvent{
		Type:       "order.created",
		OrderID:    "order-1",
		ExternalID: "MERCH-1",
		Status:     "draft",
		Timestamp:  ts,
	}

	msg := newOrderEventMessage(event)
	if msg.EventType != "order.created" || msg.OrderID != "order-1" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if !msg.Timestamp.Equal(ts) {
		t.Fatalf("expected timestamp preserved, got %s", msg.Timestamp)
	}
	if msg.EventID == "" {
		t.Fatal("event id must be set")
	}

	other := newOrderEventMessage(event)
	if other.EventID == msg.EventID {
		t.Fatal("event ids must be unique per publication")
	}
}

func TestNewOrderEventMessage_DefaultsTimestamp(t *testing.T) {
	msg := newOrderEventMessage(domain.OrderEvent{Type: "order.created"})
	if msg.Timestamp.IsZero() {
		t.Fatal("zero timestamp must be defaulted")
	}
}
