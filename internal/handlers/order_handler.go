package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/orderboard/internal/board"
	"github.com/Lixing-Zhang/orderboard/internal/cart"
	"github.com/Lixing-Zhang/orderboard/internal/models"
	"github.com/Lixing-Zhang/orderboard/internal/service"
	"github.com/go-chi/chi/v5"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	carts        *cart.Sessions
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, carts *cart.Sessions, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		carts:        carts,
		log:          log,
	}
}

// PlaceOrder handles POST /api/orders. The cart is cleared once the order is
// stored.
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeServiceError(w, err, "place order", h.log)
		return
	}

	var req models.PlaceOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, "place order", h.log)
		return
	}

	queue, err := models.ParseQueue(req.Queue)
	if err != nil {
		writeServiceError(w, err, "place order", h.log)
		return
	}

	c, err := h.carts.Get(req.CartID)
	if err != nil {
		writeServiceError(w, err, "place order", h.log)
		return
	}

	order, err := h.orderService.Place(r.Context(), owner, c, queue)
	if err != nil {
		writeServiceError(w, err, "place order", h.log)
		return
	}
	h.clearCart(req.CartID)

	WriteJSON(w, http.StatusCreated, models.NewOrderResponse(*order), h.log)
}

// ListOrders handles GET /api/orders?queue=&status=. Both filters are
// optional; with both the result is the board projection for that column.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeServiceError(w, err, "list orders", h.log)
		return
	}

	var (
		queue  models.Queue
		status models.Status
	)
	if raw := r.URL.Query().Get("queue"); raw != "" {
		if queue, err = models.ParseQueue(raw); err != nil {
			writeServiceError(w, err, "list orders", h.log)
			return
		}
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status = models.Status(raw)
		if !status.Valid() {
			WriteError(w, http.StatusBadRequest, "unknown status "+raw, h.log)
			return
		}
	}

	orders, err := h.orderService.List(r.Context(), owner)
	if err != nil {
		writeServiceError(w, err, "list orders", h.log)
		return
	}

	if queue != "" && status != "" {
		orders = board.Project(orders, queue, status)
	} else {
		filtered := orders[:0]
		for _, o := range orders {
			if queue != "" && !board.OnQueue(o.Queue, queue) {
				continue
			}
			if status != "" && o.Status != status {
				continue
			}
			filtered = append(filtered, o)
		}
		orders = filtered
	}

	resp := make([]models.OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, models.NewOrderResponse(o))
	}
	WriteJSON(w, http.StatusOK, resp, h.log)
}

// GetOrder handles GET /api/orders/{orderId}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeServiceError(w, err, "get order", h.log)
		return
	}

	order, err := h.orderService.Get(r.Context(), owner, chi.URLParam(r, "orderId"))
	if err != nil {
		writeServiceError(w, err, "get order", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, models.NewOrderResponse(*order), h.log)
}

// EditOrder handles PUT /api/orders/{orderId}
func (h *OrderHandler) EditOrder(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeServiceError(w, err, "edit order", h.log)
		return
	}

	var req models.EditOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, "edit order", h.log)
		return
	}

	var queue *models.Queue
	if req.Queue != "" {
		q, err := models.ParseQueue(req.Queue)
		if err != nil {
			writeServiceError(w, err, "edit order", h.log)
			return
		}
		queue = &q
	}

	c, err := h.carts.Get(req.CartID)
	if err != nil {
		writeServiceError(w, err, "edit order", h.log)
		return
	}

	order, err := h.orderService.Edit(r.Context(), owner, chi.URLParam(r, "orderId"), c, queue)
	if err != nil {
		writeServiceError(w, err, "edit order", h.log)
		return
	}
	h.clearCart(req.CartID)

	WriteJSON(w, http.StatusOK, models.NewOrderResponse(*order), h.log)
}

// SetStatus handles PATCH /api/orders/{orderId}/status
func (h *OrderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeServiceError(w, err, "set order status", h.log)
		return
	}

	var req models.StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, "set order status", h.log)
		return
	}

	order, err := h.orderService.SetStatus(r.Context(), owner, chi.URLParam(r, "orderId"), req.Status)
	if err != nil {
		writeServiceError(w, err, "set order status", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, models.NewOrderResponse(*order), h.log)
}

// CompleteOrder handles POST /api/orders/{orderId}/complete
func (h *OrderHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeServiceError(w, err, "complete order", h.log)
		return
	}

	order, err := h.orderService.Complete(r.Context(), owner, chi.URLParam(r, "orderId"))
	if err != nil {
		writeServiceError(w, err, "complete order", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, models.NewOrderResponse(*order), h.log)
}

// CancelOrder handles DELETE /api/orders/{orderId}. The order is kept,
// flagged as deleted.
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeServiceError(w, err, "cancel order", h.log)
		return
	}

	order, err := h.orderService.Cancel(r.Context(), owner, chi.URLParam(r, "orderId"))
	if err != nil {
		writeServiceError(w, err, "cancel order", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, models.NewOrderResponse(*order), h.log)
}

func (h *OrderHandler) clearCart(id string) {
	if err := h.carts.Clear(id); err != nil {
		h.log.Warn("failed to clear cart after order", "cart_id", id, "error", err)
	}
}
