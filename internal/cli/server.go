package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/24K-GA/AI-Course-EvalMate/internal/app"
	"github.com/24K-GA/AI-Course-EvalMate/internal/config"
	"github.com/24K-GA/AI-Course-EvalMate/internal/infra/file"
	"github.com/24K-GA/AI-Course-EvalMate/internal/infra/memory"
	pgstore "github.com/24K-GA/AI-Course-EvalMate/internal/infra/postgres"
	redisstore "github.com/24K-GA/AI-Course-EvalMate/internal/infra/redis"
	transport "github.com/24K-GA/AI-Course-EvalMate/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"
)

// NewServeCmd builds the subcommand that runs the persistence API.
func NewServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Start the persistence API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts.cfg)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	port := cfg.Server.Port
	if port == "" {
		port = "3001"
	}
	handler := transport.NewDataHandler(repo)
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      h2c.NewHandler(handler.Routes(), &http2.Server{}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", port).Str("backend", cfg.Storage.Backend).Msg("starting evalmate persistence api")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openRepository builds the document repository for the configured backend.
// The returned func releases its connections.
func openRepository(ctx context.Context, cfg config.Config) (app.DocumentRepository, func(), error) {
	noop := func() {}
	switch cfg.Storage.Backend {
	case "", "file":
		repo, err := file.NewDocumentStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, noop, err
		}
		log.Info().Str("path", repo.Path()).Msg("using file storage")
		return repo, noop, nil
	case "memory":
		return memory.NewDocumentStore(), noop, nil
	case "redis":
		if cfg.Redis.Addr == "" {
			return nil, noop, fmt.Errorf("redis addr not configured")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		key := cfg.Redis.Key
		if key == "" {
			key = redisstore.DefaultKey
		}
		repo := redisstore.NewDocumentStore(client, key)
		if err := repo.Init(ctx); err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return repo, func() { _ = client.Close() }, nil
	case "postgres":
		if err := runMigrations(ctx, cfg); err != nil {
			return nil, noop, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, noop, err
		}
		repo := pgstore.NewDocumentStore(pool)
		if err := repo.Init(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return repo, pool.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
