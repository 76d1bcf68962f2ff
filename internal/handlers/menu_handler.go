package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/orderboard/internal/models"
	"github.com/Lixing-Zhang/orderboard/internal/service"
)

// MenuHandler handles menu catalog HTTP requests
type MenuHandler struct {
	service *service.MenuService
	logger  *slog.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(service *service.MenuService, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger,
	}
}

// ListItems handles GET /api/menu
func (h *MenuHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		writeServiceError(w, err, "list menu", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, items, h.logger)
}

// GetItem handles GET /api/menu/{itemId}
func (h *MenuHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "itemId")
	if err != nil {
		writeServiceError(w, err, "get menu item", h.logger)
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "get menu item", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, item, h.logger)
}

// CreateItem handles POST /api/menu
func (h *MenuHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req models.MenuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, "add menu item", h.logger)
		return
	}

	item, err := h.service.AddItem(r.Context(), req.Name, req.Price)
	if err != nil {
		writeServiceError(w, err, "add menu item", h.logger)
		return
	}

	h.logger.Info("menu item added", "item_id", item.ID, "name", item.Name)
	WriteJSON(w, http.StatusCreated, item, h.logger)
}

// UpdateItem handles PUT /api/menu/{itemId}
func (h *MenuHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "itemId")
	if err != nil {
		writeServiceError(w, err, "update menu item", h.logger)
		return
	}

	var req models.MenuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, "update menu item", h.logger)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), id, req.Name, req.Price)
	if err != nil {
		writeServiceError(w, err, "update menu item", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, item, h.logger)
}

// DeleteItem handles DELETE /api/menu/{itemId}. Placed orders keep their
// own copy of the item.
func (h *MenuHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "itemId")
	if err != nil {
		writeServiceError(w, err, "delete menu item", h.logger)
		return
	}

	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		writeServiceError(w, err, "delete menu item", h.logger)
		return
	}

	h.logger.Info("menu item deleted", "item_id", id)
	w.WriteHeader(http.StatusNoContent)
}
