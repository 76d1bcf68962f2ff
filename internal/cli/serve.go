package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/Lixing-Zhang/orderboard/internal/auth"
	"github.com/Lixing-Zhang/orderboard/internal/cart"
	"github.com/Lixing-Zhang/orderboard/internal/handlers"
	"github.com/Lixing-Zhang/orderboard/internal/service"
	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the order API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.String("host", "0.0.0.0", "listen host")
	flags.String("port", "8080", "listen port")
	flags.String("store", "memory", "order store: memory or postgres")
	flags.String("dsn", "", "postgres connection string")
	flags.String("events", "none", "order events: none, amqp or kafka")
	flags.String("menu", "", "YAML menu seed file")
	bindFlag(flags, "host", "server.host")
	bindFlag(flags, "port", "server.port")
	bindFlag(flags, "store", "store.driver")
	bindFlag(flags, "dsn", "store.dsn")
	bindFlag(flags, "events", "events.driver")
	bindFlag(flags, "menu", "menu.seed_file")

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cfg, log := a.cfg, a.log
	if err := cfg.Auth.Validate(); err != nil {
		return err
	}

	log.Info("starting orderboard api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"store", cfg.Store.Driver,
		"events", cfg.Events.Driver,
	)

	st, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return fmt.Errorf("open order store: %w", err)
	}
	defer st.Close()

	pub, err := openPublisher(cfg.Events, log)
	if err != nil {
		return fmt.Errorf("open event publisher: %w", err)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Warn("failed to close event publisher", "error", err)
		}
	}()

	menu, err := newMenu(ctx, cfg.Menu.SeedFile, log)
	if err != nil {
		return err
	}

	return a.listen(ctx, menu, newOrderService(cfg, st, menu, pub, log))
}

// listen serves the API until SIGINT or SIGTERM, then shuts down gracefully
func (a *app) listen(ctx context.Context, menu *service.MenuService, orders *service.OrderService) error {
	cfg, log := a.cfg, a.log

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	carts := cart.NewSessions()
	go carts.Janitor(ctx, cfg.Server.CartIdleTTL, 0, func(n int) {
		log.Info("expired idle carts", "count", n, "open", carts.Len())
	})

	router := handlers.NewRouter(handlers.RouterConfig{
		Menu:        menu,
		Orders:      orders,
		Carts:       carts,
		Tokens:      auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
		Retention:   cfg.Board.DeliveredRetention,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}
