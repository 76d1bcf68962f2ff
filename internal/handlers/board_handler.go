package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/board"
	"github.com/Lixing-Zhang/orderboard/internal/models"
	"github.com/Lixing-Zhang/orderboard/internal/service"
)

// BoardHandler serves the kanban that displays poll
type BoardHandler struct {
	orderService *service.OrderService
	retention    time.Duration
	now          func() time.Time
	log          *slog.Logger
}

// NewBoardHandler creates a board handler. Delivered orders older than
// retention drop off the board.
func NewBoardHandler(orderService *service.OrderService, retention time.Duration, log *slog.Logger) *BoardHandler {
	return &BoardHandler{
		orderService: orderService,
		retention:    retention,
		now:          func() time.Time { return time.Now().UTC() },
		log:          log,
	}
}

// GetBoard handles GET /api/board?queue=Kitchen
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeServiceError(w, err, "get board", h.log)
		return
	}

	raw := r.URL.Query().Get("queue")
	if raw == "" {
		writeServiceError(w, fmt.Errorf("%w: queue is required", models.ErrValidation), "get board", h.log)
		return
	}
	queue, err := models.ParseQueue(raw)
	if err != nil {
		writeServiceError(w, err, "get board", h.log)
		return
	}

	orders, err := h.orderService.List(r.Context(), owner)
	if err != nil {
		writeServiceError(w, err, "get board", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, board.Columns(orders, queue, h.now(), h.retention), h.log)
}
