package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lixing-Zhang/orderboard/internal/config"
	"github.com/Lixing-Zhang/orderboard/internal/events"
	"github.com/Lixing-Zhang/orderboard/internal/repository"
	"github.com/Lixing-Zhang/orderboard/internal/service"
	"github.com/Lixing-Zhang/orderboard/internal/store"
	"github.com/Lixing-Zhang/orderboard/internal/store/postgres"
	"github.com/Lixing-Zhang/orderboard/internal/token"
	"github.com/shopspring/decimal"
)

// recentCapacity sizes the recent-token filter for one window
const recentCapacity = 2000

func openStore(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (store.OrderStore, error) {
	switch cfg.Driver {
	case "postgres":
		st, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.DSN, MaxConns: cfg.MaxConns}, log)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
		log.Info("using postgres order store", "max_conns", cfg.MaxConns)
		return st, nil
	case "memory":
		log.Warn("using in-memory order store; orders are lost on restart")
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func openPublisher(cfg config.EventsConfig, log *slog.Logger) (events.Publisher, error) {
	switch cfg.Driver {
	case "amqp":
		p, err := events.DialAMQP(events.AMQPConfig{URL: cfg.AMQPURL, Exchange: cfg.Exchange})
		if err != nil {
			return nil, err
		}
		log.Info("publishing order events to rabbitmq", "exchange", cfg.Exchange)
		return p, nil
	case "kafka":
		p, err := events.NewKafkaPublisher(events.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		if err != nil {
			return nil, err
		}
		log.Info("publishing order events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
		return p, nil
	case "none", "":
		return events.Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

// newMenu builds the catalog and loads the seed file when one is configured
func newMenu(ctx context.Context, seedFile string, log *slog.Logger) (*service.MenuService, error) {
	menu := service.NewMenuService(repository.NewInMemoryMenuRepository())
	if seedFile == "" {
		return menu, nil
	}

	n, err := repository.LoadSeed(ctx, seedFile, func(ctx context.Context, name string, price decimal.Decimal) error {
		_, err := menu.AddItem(ctx, name, price)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info("menu seeded", "file", seedFile, "items", n)
	return menu, nil
}

func newOrderService(cfg *config.Config, st store.OrderStore, menu *service.MenuService, pub events.Publisher, log *slog.Logger) *service.OrderService {
	opts := []service.Option{
		service.WithPublisher(pub),
		service.WithLogger(log),
	}
	if cfg.Tokens.RecentWindow > 0 {
		opts = append(opts, service.WithRecentTokens(token.NewRecent(cfg.Tokens.RecentWindow, recentCapacity)))
	}
	return service.NewOrderService(st, menu, token.NewGenerator(cfg.Tokens.Locations), opts...)
}
