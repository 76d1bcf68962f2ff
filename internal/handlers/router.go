package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/cart"
	"github.com/Lixing-Zhang/orderboard/internal/middleware"
	"github.com/Lixing-Zhang/orderboard/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig carries everything the API needs
type RouterConfig struct {
	Menu        *service.MenuService
	Orders      *service.OrderService
	Carts       *cart.Sessions
	Tokens      middleware.TokenParser
	Retention   time.Duration
	CORSOrigins []string
	Logger      *slog.Logger
}

// NewRouter builds the HTTP API
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger

	healthHandler := NewHealthHandler(log)
	menuHandler := NewMenuHandler(cfg.Menu, log)
	cartHandler := NewCartHandler(cfg.Carts, cfg.Menu, log)
	orderHandler := NewOrderHandler(cfg.Orders, cfg.Carts, log)
	boardHandler := NewBoardHandler(cfg.Orders, cfg.Retention, log)

	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.OwnerAuth(cfg.Tokens))

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", menuHandler.ListItems)
			r.Post("/", menuHandler.CreateItem)
			r.Get("/{itemId}", menuHandler.GetItem)
			r.Put("/{itemId}", menuHandler.UpdateItem)
			r.Delete("/{itemId}", menuHandler.DeleteItem)
		})

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", cartHandler.CreateCart)
			r.Get("/{cartId}", cartHandler.GetCart)
			r.Patch("/{cartId}", cartHandler.AdjustCart)
			r.Delete("/{cartId}", cartHandler.ClearCart)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.PlaceOrder)
			r.Get("/", orderHandler.ListOrders)
			r.Get("/{orderId}", orderHandler.GetOrder)
			r.Put("/{orderId}", orderHandler.EditOrder)
			r.Delete("/{orderId}", orderHandler.CancelOrder)
			r.Patch("/{orderId}/status", orderHandler.SetStatus)
			r.Post("/{orderId}/complete", orderHandler.CompleteOrder)
		})

		r.Get("/board", boardHandler.GetBoard)
	})

	return r
}
