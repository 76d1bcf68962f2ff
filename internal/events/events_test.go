package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/models"
)

func TestNewOrderEvent_Encode(t *testing.T) {
	at := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	o := models.Order{ID: "o1", Token: "Kochi-3", Status: models.StatusReady, Queue: models.QueueBar}

	body, err := encode(NewOrderEvent(OrderStatusChanged, "owner-1", o, at))
	if err != nil {
		t.Fatalf("encode() unexpected error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"type":       "order.status_changed",
		"ownerId":    "owner-1",
		"orderId":    "o1",
		"token":      "Kochi-3",
		"status":     "ready",
		"queue":      "Bar",
		"occurredAt": "2026-05-01T08:00:00Z",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %q", k, got[k], v)
		}
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	ctx := context.Background()
	_ = r.Publish(ctx, OrderEvent{Type: OrderPlaced})

	events := r.Events()
	events[0].Type = OrderCancelled
	if r.Events()[0].Type != OrderPlaced {
		t.Error("Events() should return a copy")
	}

	r.Err = errors.New("broker down")
	if err := r.Publish(ctx, OrderEvent{Type: OrderEdited}); err == nil {
		t.Error("Publish() should return Err")
	}
	if len(r.Events()) != 1 {
		t.Errorf("failed publish was recorded: %v", r.Events())
	}
}

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	if _, err := NewKafkaPublisher(KafkaConfig{Topic: "orders"}); err == nil {
		t.Error("NewKafkaPublisher() without brokers should fail")
	}
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	if err := p.Publish(context.Background(), OrderEvent{}); err != nil {
		t.Errorf("Noop.Publish() = %v", err)
	}
}
