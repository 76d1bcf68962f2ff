package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/cart"
	"github.com/Lixing-Zhang/orderboard/internal/events"
	"github.com/Lixing-Zhang/orderboard/internal/models"
	"github.com/Lixing-Zhang/orderboard/internal/store"
	"github.com/Lixing-Zhang/orderboard/internal/token"
	"github.com/google/uuid"
)

// tokenRedraws bounds how often a recently seen token is redrawn
const tokenRedraws = 3

// OrderService is the order lifecycle engine. It owns placement, status
// changes, edits, completion and cancellation.
//
// Status changes are deliberately unrestricted: a manager may move an order
// from any status to any other (ready back to pending, for instance) to
// correct mistakes. Only soft-deleted orders refuse mutation.
//
// Mutations are read-merge-write against the store with no version check,
// so concurrent edits of one order resolve as last writer wins.
type OrderService struct {
	store     store.OrderStore
	catalog   cart.Catalog
	tokens    *token.Generator
	recent    *token.Recent
	publisher events.Publisher
	log       *slog.Logger
	now       func() time.Time
	newID     func() string

	mu     sync.Mutex
	cursor token.Cursor
}

// Option customizes an OrderService
type Option func(*OrderService)

// WithPublisher announces every mutation on p
func WithPublisher(p events.Publisher) Option {
	return func(s *OrderService) { s.publisher = p }
}

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(s *OrderService) { s.log = log }
}

// WithRecentTokens redraws serials of tokens seen recently
func WithRecentTokens(r *token.Recent) Option {
	return func(s *OrderService) { s.recent = r }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *OrderService) { s.now = now }
}

// WithCursor starts the location rotation at c
func WithCursor(c token.Cursor) Option {
	return func(s *OrderService) { s.cursor = c }
}

// NewOrderService creates a new order service
func NewOrderService(st store.OrderStore, catalog cart.Catalog, tokens *token.Generator, opts ...Option) *OrderService {
	s := &OrderService{
		store:     st,
		catalog:   catalog,
		tokens:    tokens,
		publisher: events.Noop{},
		log:       slog.Default(),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cursor returns the current location cursor
func (s *OrderService) Cursor() token.Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Place materializes a cart into a pending order. Cart lines whose item no
// longer exists in the catalog are dropped; if nothing is left the placement
// fails with ErrEmptyCart.
func (s *OrderService) Place(ctx context.Context, ownerID string, c *cart.Cart, queue models.Queue) (*models.Order, error) {
	if !queue.Valid() {
		return nil, fmt.Errorf("%w: unknown queue %q", models.ErrValidation, queue)
	}
	items, err := s.snapshot(c)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := models.Order{
		ID:        s.newID(),
		Token:     s.nextToken().String(),
		Items:     items,
		Status:    models.StatusPending,
		Queue:     queue,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.SaveOrder(ctx, ownerID, order); err != nil {
		return nil, err
	}

	s.log.Info("order placed",
		"order_id", order.ID,
		"token", order.Token,
		"queue", order.Queue,
		"items_count", len(order.Items),
	)
	s.publish(ctx, events.OrderPlaced, ownerID, order)
	return &order, nil
}

// SetStatus overwrites the status of a live order. Any transition is
// allowed. Moving to completed stamps CompletedAt like Complete does.
func (s *OrderService) SetStatus(ctx context.Context, ownerID, orderID string, status models.Status) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrValidation, status)
	}

	order, err := s.live(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	patch := models.OrderPatch{Status: &status, UpdatedAt: &now}
	if status == models.StatusCompleted {
		patch.CompletedAt = &now
	}
	if err := s.apply(ctx, ownerID, &order, patch); err != nil {
		return nil, err
	}

	s.log.Info("order status changed", "order_id", orderID, "status", status)
	s.publish(ctx, events.OrderStatusChanged, ownerID, order)
	return &order, nil
}

// Complete marks an order completed and stamps CompletedAt. Calling it again
// only re-stamps the time.
func (s *OrderService) Complete(ctx context.Context, ownerID, orderID string) (*models.Order, error) {
	order, err := s.live(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	status := models.StatusCompleted
	patch := models.OrderPatch{Status: &status, UpdatedAt: &now, CompletedAt: &now}
	if err := s.apply(ctx, ownerID, &order, patch); err != nil {
		return nil, err
	}

	s.log.Info("order completed", "order_id", orderID)
	s.publish(ctx, events.OrderCompleted, ownerID, order)
	return &order, nil
}

// Edit replaces the item snapshot of a non-terminal order with the content of
// c, and optionally moves it to another queue
func (s *OrderService) Edit(ctx context.Context, ownerID, orderID string, c *cart.Cart, queue *models.Queue) (*models.Order, error) {
	if queue != nil && !queue.Valid() {
		return nil, fmt.Errorf("%w: unknown queue %q", models.ErrValidation, *queue)
	}

	order, err := s.live(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, fmt.Errorf("%w: order %s is %s", models.ErrInvalidState, orderID, order.Status)
	}

	items, err := s.snapshot(c)
	if err != nil {
		return nil, err
	}

	now := s.now()
	patch := models.OrderPatch{Items: items, UpdatedAt: &now, Queue: queue}
	if err := s.apply(ctx, ownerID, &order, patch); err != nil {
		return nil, err
	}

	s.log.Info("order edited", "order_id", orderID, "items_count", len(items))
	s.publish(ctx, events.OrderEdited, ownerID, order)
	return &order, nil
}

// Cancel soft-deletes an order. The record stays in the store for audit and
// disappears from every board projection. Confirmation is the caller's job.
func (s *OrderService) Cancel(ctx context.Context, ownerID, orderID string) (*models.Order, error) {
	order, err := s.live(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, fmt.Errorf("%w: order %s is %s", models.ErrInvalidState, orderID, order.Status)
	}

	now := s.now()
	deleted := true
	patch := models.OrderPatch{Deleted: &deleted, DeletedAt: &now, UpdatedAt: &now}
	if err := s.apply(ctx, ownerID, &order, patch); err != nil {
		return nil, err
	}

	s.log.Info("order cancelled", "order_id", orderID, "token", order.Token)
	s.publish(ctx, events.OrderCancelled, ownerID, order)
	return &order, nil
}

// List returns the live orders of owner
func (s *OrderService) List(ctx context.Context, ownerID string) ([]models.Order, error) {
	orders, err := s.store.LoadOrders(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	live := orders[:0]
	for _, o := range orders {
		if !o.Deleted {
			live = append(live, o)
		}
	}
	return live, nil
}

// Get returns one order, including a soft-deleted one
func (s *OrderService) Get(ctx context.Context, ownerID, orderID string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// live loads an order and refuses soft-deleted ones
func (s *OrderService) live(ctx context.Context, ownerID, orderID string) (models.Order, error) {
	order, err := s.store.GetOrder(ctx, ownerID, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.Deleted {
		return models.Order{}, fmt.Errorf("%w: order %s is cancelled", models.ErrInvalidState, orderID)
	}
	return order, nil
}

func (s *OrderService) apply(ctx context.Context, ownerID string, order *models.Order, patch models.OrderPatch) error {
	if err := s.store.UpdateOrder(ctx, ownerID, order.ID, patch); err != nil {
		return err
	}
	patch.Apply(order)
	return nil
}

func (s *OrderService) snapshot(c *cart.Cart) ([]models.OrderItem, error) {
	if c == nil || c.IsEmpty() {
		return nil, fmt.Errorf("%w: cart is empty", models.ErrEmptyCart)
	}
	items := c.Snapshot(s.catalog)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no cart item is on the menu", models.ErrEmptyCart)
	}
	return items, nil
}

// nextToken advances the shared cursor once per order. A token seen in the
// recent window gets a fresh serial at the same location.
func (s *OrderService) nextToken() token.Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.cursor
	tok, next := s.tokens.Next(at)
	s.cursor = next

	if s.recent != nil {
		for i := 0; i < tokenRedraws && s.recent.Seen(tok.String()); i++ {
			tok = s.tokens.At(at)
		}
		s.recent.Add(tok.String())
	}
	return tok
}

// publish is best effort: the order is already durable in the store
func (s *OrderService) publish(ctx context.Context, t events.Type, ownerID string, order models.Order) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, events.NewOrderEvent(t, ownerID, order, s.now())); err != nil {
		s.log.Warn("failed to publish order event",
			"event", t,
			"order_id", order.ID,
			"error", err,
		)
	}
}
