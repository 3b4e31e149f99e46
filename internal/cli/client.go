package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/24K-GA/AI-Course-EvalMate/internal/app"
	"github.com/24K-GA/AI-Course-EvalMate/internal/config"
	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
	"github.com/24K-GA/AI-Course-EvalMate/internal/infra/remote"
	"github.com/24K-GA/AI-Course-EvalMate/internal/infra/sqlite"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// console bundles the client-side services every operator command works with.
type console struct {
	store    *app.Store
	evals    *app.EvalService
	sessions *app.SessionController
	shadow   *sqlite.ShadowStore
	offline  bool
}

// openConsole wires the remote client, the sqlite shadow copy and the cache,
// then warms the cache. A down server is logged, not fatal: commands fall
// back to the shadow copy.
func openConsole(ctx context.Context, cfg config.Config) (*console, error) {
	client := remote.NewClient(cfg.Client.APIURL, config.TTLDuration(cfg.Client.RequestTimeout, 5*time.Second))

	opts := []app.StoreOption{
		app.WithFreshness(config.TTLDuration(cfg.Client.Freshness, app.DefaultFreshness)),
		app.WithPollInterval(config.TTLDuration(cfg.Client.PollInterval, app.DefaultPollInterval)),
	}
	var shadow *sqlite.ShadowStore
	if cfg.Client.CachePath != "" {
		var err error
		shadow, err = sqlite.Open(cfg.Client.CachePath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, app.WithShadow(shadow))
	}

	store := app.NewStore(client, opts...)
	evals := app.NewEvalService(store)
	c := &console{
		store:    store,
		evals:    evals,
		sessions: app.NewSessionController(evals),
		shadow:   shadow,
	}
	if err := evals.Refresh(ctx); err != nil {
		log.Warn().Err(err).Str("api", cfg.Client.APIURL).Msg("persistence api unreachable, using local copy")
	}
	return c, nil
}

func (c *console) Close() {
	c.store.Close()
	if c.shadow != nil {
		if err := c.shadow.Close(); err != nil {
			log.Debug().Err(err).Msg("close shadow store")
		}
	}
}

// local lets a write the remote rejected count as done; the cache and the
// shadow copy already hold it.
func (c *console) local(err error) error {
	if !errors.Is(err, domain.ErrRemoteUnavailable) {
		return err
	}
	log.Warn().Err(err).Msg("persistence api unreachable, change saved locally")
	c.offline = true
	return nil
}

// withConsole opens a console for the duration of fn and flags results that
// only reached the local copy.
func withConsole(cmd *cobra.Command, opts *options, fn func(*console) error) error {
	c, err := openConsole(cmd.Context(), opts.cfg)
	if err != nil {
		return err
	}
	defer c.Close()
	if err := fn(c); err != nil {
		return err
	}
	if c.offline {
		fmt.Fprintln(cmd.OutOrStdout(), "(offline, saved locally)")
	}
	return nil
}
