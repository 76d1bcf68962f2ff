package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/orderboard/internal/cart"
	"github.com/Lixing-Zhang/orderboard/internal/models"
	"github.com/go-chi/chi/v5"
)

// CartHandler handles cart session HTTP requests
type CartHandler struct {
	sessions *cart.Sessions
	catalog  cart.Catalog
	logger   *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(sessions *cart.Sessions, catalog cart.Catalog, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		catalog:  catalog,
		logger:   logger,
	}
}

// CreateCart handles POST /api/carts
func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	id := h.sessions.Create()
	WriteJSON(w, http.StatusCreated, h.view(id, cart.New()), h.logger)
}

// GetCart handles GET /api/carts/{cartId}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartId")

	c, err := h.sessions.Get(id)
	if err != nil {
		writeServiceError(w, err, "get cart", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, h.view(id, c), h.logger)
}

// AdjustCart handles PATCH /api/carts/{cartId}. A positive delta must name
// an item on the menu; a negative one may remove a line whose item is gone.
func (h *CartHandler) AdjustCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartId")

	var req models.CartAdjustRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, "adjust cart", h.logger)
		return
	}
	if req.Delta == 0 {
		writeServiceError(w, fmt.Errorf("%w: delta must be non-zero", models.ErrValidation), "adjust cart", h.logger)
		return
	}
	if req.Delta > cart.MaxQuantity || req.Delta < -cart.MaxQuantity {
		writeServiceError(w, fmt.Errorf("%w: delta must be between -%d and %d", models.ErrValidation, cart.MaxQuantity, cart.MaxQuantity), "adjust cart", h.logger)
		return
	}
	if req.Delta > 0 {
		if _, ok := h.catalog.Lookup(req.ItemID); !ok {
			writeServiceError(w, fmt.Errorf("%w: menu item %d", models.ErrNotFound, req.ItemID), "adjust cart", h.logger)
			return
		}
	}

	c, err := h.sessions.Adjust(id, req.ItemID, req.Delta)
	if err != nil {
		writeServiceError(w, err, "adjust cart", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, h.view(id, c), h.logger)
}

// ClearCart handles DELETE /api/carts/{cartId}. With ?drop=true the session
// itself is closed and the id stops resolving.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartId")

	op := h.sessions.Clear
	if r.URL.Query().Get("drop") == "true" {
		op = h.sessions.Delete
	}
	if err := op(id); err != nil {
		writeServiceError(w, err, "clear cart", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) view(id string, c *cart.Cart) models.CartResponse {
	resp := models.CartResponse{
		ID:         id,
		Lines:      make([]models.CartLineView, 0),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(h.catalog),
	}
	for _, line := range c.Lines() {
		v := models.CartLineView{ItemID: line.ItemID, Quantity: line.Quantity}
		if item, ok := h.catalog.Lookup(line.ItemID); ok {
			v.Name = item.Name
			v.Price = item.Price
			v.Available = true
		}
		resp.Lines = append(resp.Lines, v)
	}
	return resp
}
