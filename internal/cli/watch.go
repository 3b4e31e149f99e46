package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/24K-GA/AI-Course-EvalMate/internal/app"
	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewWatchCmd keeps a live view of the ranking and session, redrawn whenever
// the poller sees a change. With --countdown this process also drives the
// presentation timer.
func NewWatchCmd(opts *options) *cobra.Command {
	var countdown bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow rankings and session state live",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)
			return withConsole(cmd, opts, func(c *console) error {
				return runWatch(ctx, cmd.OutOrStdout(), c, countdown)
			})
		},
	}
	cmd.Flags().BoolVar(&countdown, "countdown", false, "tick the session timer from this process")
	return cmd
}

func runWatch(ctx context.Context, out io.Writer, c *console, countdown bool) error {
	redraw := make(chan struct{}, 1)
	wake := func() {
		select {
		case redraw <- struct{}{}:
		default:
		}
	}
	for _, name := range domain.Collections {
		unsubscribe := c.store.Subscribe(name, wake)
		defer unsubscribe()
	}

	c.store.StartPolling(ctx)
	defer c.store.StopPolling()

	if countdown {
		timer := app.NewCountdown(c.sessions, nil)
		timer.Start(ctx)
		defer timer.Stop()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		render(out, c)
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-redraw:
				render(out, c)
			}
		}
	})
	err := g.Wait()
	log.Info().Msg("watch stopped")
	return err
}

func render(out io.Writer, c *console) {
	fmt.Fprint(out, "\033[H\033[2J")
	printSession(out, c, c.sessions.Session())
	fmt.Fprintln(out)
	if err := writeReport(out, "table", c.evals.Rankings()); err != nil {
		log.Warn().Err(err).Msg("render report")
	}
}
