package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lixing-Zhang/orderboard/internal/board"
	"github.com/Lixing-Zhang/orderboard/internal/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBoardCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the live kitchen or bar board in the terminal",
		Example: `  orderboard board --queue Kitchen --token $BOARD_TOKEN
  orderboard board --queue Kitchen,Bar --api http://pos.local:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.board(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.String("api", "http://localhost:8080", "orderboard API base URL")
	flags.String("token", "", "bearer token issued with `orderboard token`")
	flags.String("queue", "Kitchen", "queues to show, comma separated")
	flags.Duration("interval", board.DefaultInterval, "refresh interval")
	bindFlag(flags, "api", "board.api_url")
	bindFlag(flags, "token", "board.token")
	bindFlag(flags, "queue", "board.queue")
	bindFlag(flags, "interval", "board.poll_interval")

	return cmd
}

func (a *app) board(ctx context.Context) error {
	cfg := a.cfg.Board

	queues, err := parseQueues(cfg.Queue)
	if err != nil {
		return err
	}
	if cfg.Token == "" {
		return fmt.Errorf("a board token is required (see `orderboard token`)")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan board.Update)
	poller := board.NewPoller(board.NewClient(cfg.APIURL, cfg.Token), queues, cfg.PollInterval)
	go func() {
		_ = poller.Run(ctx, updates)
	}()

	// The display owns the terminal; nothing may log to stdout while it runs.
	p := tea.NewProgram(board.NewDisplay(updates), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("board display: %w", err)
	}
	return nil
}

func parseQueues(raw string) ([]models.Queue, error) {
	var queues []models.Queue
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		q, err := models.ParseQueue(part)
		if err != nil {
			return nil, err
		}
		queues = append(queues, q)
	}
	if len(queues) == 0 {
		return nil, fmt.Errorf("%w: at least one queue is required", models.ErrValidation)
	}
	return queues, nil
}
