// Package board projects orders into the kanban shown on kitchen and bar
// displays, and polls the API to keep a display current.
package board

import (
	"sort"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/models"
)

// DisplayStatuses lists the statuses a board displays, left to right. Completed
// orders are finished and never shown.
var DisplayStatuses = []models.Status{
	models.StatusPending,
	models.StatusPreparing,
	models.StatusReady,
	models.StatusDelivered,
}

// Board is one queue's kanban at a point in time
type Board struct {
	Queue       models.Queue   `json:"queue"`
	Pending     []models.Order `json:"pending"`
	Preparing   []models.Order `json:"preparing"`
	Ready       []models.Order `json:"ready"`
	Delivered   []models.Order `json:"delivered"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// Column returns the orders shown under status
func (b Board) Column(status models.Status) []models.Order {
	switch status {
	case models.StatusPending:
		return b.Pending
	case models.StatusPreparing:
		return b.Preparing
	case models.StatusReady:
		return b.Ready
	case models.StatusDelivered:
		return b.Delivered
	}
	return nil
}

// Len counts the orders on the board
func (b Board) Len() int {
	return len(b.Pending) + len(b.Preparing) + len(b.Ready) + len(b.Delivered)
}

// OnQueue reports whether an order routed to q shows on the board for queue.
// Orders for Both show on every board.
func OnQueue(q, queue models.Queue) bool {
	return q == queue || q == models.QueueBoth
}

// Project filters orders to the live ones with status on queue's board,
// oldest first. Orders placed in the same instant are ordered by token.
func Project(orders []models.Order, queue models.Queue, status models.Status) []models.Order {
	out := make([]models.Order, 0)
	for _, o := range orders {
		if o.Deleted || o.Status != status || !OnQueue(o.Queue, queue) {
			continue
		}
		out = append(out, o)
	}
	sortOrders(out)
	return out
}

// Columns assembles the four columns for queue. Delivered orders whose last
// update is older than retention are dropped; a zero retention keeps them all.
func Columns(orders []models.Order, queue models.Queue, now time.Time, retention time.Duration) Board {
	b := Board{
		Queue:       queue,
		Pending:     Project(orders, queue, models.StatusPending),
		Preparing:   Project(orders, queue, models.StatusPreparing),
		Ready:       Project(orders, queue, models.StatusReady),
		GeneratedAt: now,
	}

	delivered := Project(orders, queue, models.StatusDelivered)
	if retention > 0 {
		kept := delivered[:0]
		for _, o := range delivered {
			if now.Sub(o.UpdatedAt) <= retention {
				kept = append(kept, o)
			}
		}
		delivered = kept
	}
	b.Delivered = delivered
	return b
}

func sortOrders(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.Before(orders[j].CreatedAt)
		}
		return orders[i].Token < orders[j].Token
	})
}
