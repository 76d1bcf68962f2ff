package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/auth"
	"github.com/Lixing-Zhang/orderboard/internal/board"
	"github.com/Lixing-Zhang/orderboard/internal/demo"
	"github.com/Lixing-Zhang/orderboard/internal/events"
	"github.com/Lixing-Zhang/orderboard/internal/models"
	"github.com/Lixing-Zhang/orderboard/internal/service"
	"github.com/Lixing-Zhang/orderboard/internal/store"
	"github.com/jaswdr/faker"
	"github.com/spf13/cobra"
)

type demoOptions struct {
	owner  string
	items  int
	orders int
	seed   int64
	serve  bool
}

func newDemoCommand(a *app) *cobra.Command {
	var opts demoOptions

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Fill an in-memory engine with random orders and print the boards",
		Long: `demo generates a random menu and a batch of orders in every status, then
prints the kitchen and bar boards. With --serve it keeps the data and runs the
API so that ` + "`orderboard board`" + ` can attach to it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.demo(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.owner, "owner", "demo", "manager account id to place orders under")
	flags.IntVar(&opts.items, "items", 12, "menu items to generate")
	flags.IntVar(&opts.orders, "orders", 30, "orders to place")
	flags.Int64Var(&opts.seed, "seed", 0, "random seed (0 picks one)")
	flags.BoolVar(&opts.serve, "serve", false, "run the API on the generated data")

	return cmd
}

func (a *app) demo(ctx context.Context, opts demoOptions, out io.Writer) error {
	cfg, log := a.cfg, a.log
	if opts.serve {
		if err := cfg.Auth.Validate(); err != nil {
			return err
		}
	}
	if opts.seed == 0 {
		opts.seed = time.Now().UnixNano()
	}

	menu, err := newMenu(ctx, cfg.Menu.SeedFile, log)
	if err != nil {
		return err
	}
	st := store.NewMemoryStore()
	recorder := &events.Recorder{}
	orders := newOrderService(cfg, st, menu, recorder, log)

	seeder := demo.NewSeeder(faker.NewWithSeed(rand.NewSource(opts.seed)), menu, orders)
	items, err := menu.ListItems(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		if items, err = seeder.SeedMenu(ctx, opts.items); err != nil {
			return err
		}
	}
	placed, err := seeder.PlaceOrders(ctx, opts.owner, items, opts.orders)
	if err != nil {
		return err
	}
	if err := seeder.Shuffle(ctx, opts.owner, placed); err != nil {
		return err
	}

	if err := printBoards(ctx, orders, opts.owner, cfg.Board.DeliveredRetention, out); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nseed %d: %d menu items, %d orders, %d lifecycle events\n",
		opts.seed, len(items), len(placed), len(recorder.Events()))

	if !opts.serve {
		return nil
	}

	signed, err := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL).Issue(opts.owner, "demo")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "board token for %s:\n%s\n", opts.owner, signed)

	return a.listen(ctx, menu, orders)
}

func printBoards(ctx context.Context, orders *service.OrderService, owner string, retention time.Duration, out io.Writer) error {
	live, err := orders.List(ctx, owner)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	boards := []board.Board{
		board.Columns(live, models.QueueKitchen, now, retention),
		board.Columns(live, models.QueueBar, now, retention),
	}
	_, err = fmt.Fprintln(out, board.Render(boards, 120))
	return err
}
