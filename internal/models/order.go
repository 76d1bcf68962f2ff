package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the kanban column an order sits in
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusDelivered Status = "delivered"
)

// Statuses lists every status in board order.
var Statuses = []Status{StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusDelivered}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusDelivered:
		return true
	}
	return false
}

// Terminal reports whether the order is finished for board display purposes
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusDelivered
}

// Queue is the fulfillment lane an order is routed to
type Queue string

const (
	QueueKitchen Queue = "Kitchen"
	QueueBar     Queue = "Bar"
	QueueBoth    Queue = "Both"
)

// Valid reports whether q is a known queue
func (q Queue) Valid() bool {
	switch q {
	case QueueKitchen, QueueBar, QueueBoth:
		return true
	}
	return false
}

// ParseQueue accepts queue names case-insensitively
func ParseQueue(s string) (Queue, error) {
	for _, q := range []Queue{QueueKitchen, QueueBar, QueueBoth} {
		if strings.EqualFold(s, string(q)) {
			return q, nil
		}
	}
	return "", fmt.Errorf("%w: unknown queue %q", ErrValidation, s)
}

// OrderItem is a line of an order, copied from the menu at order time so later
// catalog edits never change history
type OrderItem struct {
	ItemID   int64           `json:"itemId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Subtotal returns price x quantity
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order represents a placed order
type Order struct {
	ID          string      `json:"id"`
	Token       string      `json:"token"`
	Items       []OrderItem `json:"items"`
	Status      Status      `json:"status"`
	Queue       Queue       `json:"queue"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	DeletedAt   *time.Time  `json:"deletedAt,omitempty"`
	Deleted     bool        `json:"deleted"`
}

// Total sums the item snapshot. It is never stored.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Clone returns a deep copy so callers cannot mutate stored state
func (o Order) Clone() Order {
	c := o
	c.Items = append([]OrderItem(nil), o.Items...)
	if o.CompletedAt != nil {
		t := *o.CompletedAt
		c.CompletedAt = &t
	}
	if o.DeletedAt != nil {
		t := *o.DeletedAt
		c.DeletedAt = &t
	}
	return c
}

// OrderPatch carries a partial update; nil fields are left unchanged
type OrderPatch struct {
	Items       []OrderItem
	Status      *Status
	Queue       *Queue
	UpdatedAt   *time.Time
	CompletedAt *time.Time
	DeletedAt   *time.Time
	Deleted     *bool
}

// Apply merges the patch into o
func (p OrderPatch) Apply(o *Order) {
	if p.Items != nil {
		o.Items = append([]OrderItem(nil), p.Items...)
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.Queue != nil {
		o.Queue = *p.Queue
	}
	if p.UpdatedAt != nil {
		o.UpdatedAt = *p.UpdatedAt
	}
	if p.CompletedAt != nil {
		t := *p.CompletedAt
		o.CompletedAt = &t
	}
	if p.DeletedAt != nil {
		t := *p.DeletedAt
		o.DeletedAt = &t
	}
	if p.Deleted != nil {
		o.Deleted = *p.Deleted
	}
}

// OrderResponse is the wire shape of an order, carrying the computed total
type OrderResponse struct {
	Order
	Total decimal.Decimal `json:"total"`
}

// NewOrderResponse wraps an order for the API
func NewOrderResponse(o Order) OrderResponse {
	return OrderResponse{Order: o, Total: o.Total()}
}

// PlaceOrderRequest is the body of POST /api/orders
type PlaceOrderRequest struct {
	CartID string `json:"cartId"`
	Queue  string `json:"queue"`
}

// EditOrderRequest is the body of PUT /api/orders/{orderId}
type EditOrderRequest struct {
	CartID string `json:"cartId"`
	Queue  string `json:"queue,omitempty"`
}

// StatusRequest is the body of PATCH /api/orders/{orderId}/status
type StatusRequest struct {
	Status Status `json:"status"`
}
