// Package events announces order lifecycle changes to a message broker. Boards
// still poll; events are for downstream consumers such as receipt printers or
// analytics, and a lost event never loses an order.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/models"
)

// Type names a lifecycle change
type Type string

const (
	OrderPlaced        Type = "order.placed"
	OrderStatusChanged Type = "order.status_changed"
	OrderCompleted     Type = "order.completed"
	OrderEdited        Type = "order.edited"
	OrderCancelled     Type = "order.cancelled"
)

// OrderEvent is the message body published for every mutation
type OrderEvent struct {
	Type       Type          `json:"type"`
	OwnerID    string        `json:"ownerId"`
	OrderID    string        `json:"orderId"`
	Token      string        `json:"token"`
	Status     models.Status `json:"status"`
	Queue      models.Queue  `json:"queue"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// NewOrderEvent describes o after a mutation
func NewOrderEvent(t Type, ownerID string, o models.Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:       t,
		OwnerID:    ownerID,
		OrderID:    o.ID,
		Token:      o.Token,
		Status:     o.Status,
		Queue:      o.Queue,
		OccurredAt: at,
	}
}

// Publisher delivers events to a broker
type Publisher interface {
	Publish(ctx context.Context, ev OrderEvent) error
	Close() error
}

// Noop drops every event
type Noop struct{}

func (Noop) Publish(ctx context.Context, ev OrderEvent) error { return nil }
func (Noop) Close() error                                     { return nil }

func encode(ev OrderEvent) ([]byte, error) {
	return json.Marshal(ev)
}
