package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/nissyi-gh/prio/internal/api"
	"github.com/nissyi-gh/prio/internal/logger"
	"github.com/nissyi-gh/prio/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task API",
		Long: `Serve the task REST API, change feed and metrics.

Tasks are stored in Postgres when DATABASE_URL is set and in the local SQLite
database otherwise. Requests to /api/tasks are rate limited when REDIS_ADDR
points at a reachable redis.

Example:
  prio serve --addr :8080`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default $PRIO_ADDR or :8080)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg := opts.cfg
	addr := opts.Addr
	if addr == "" {
		addr = cfg.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openServerRepo(ctx, opts)
	if err != nil {
		return err
	}
	defer repo.Close()

	limiter := api.NewRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RateLimit, cfg.RateWindow)

	gin.SetMode(gin.ReleaseMode)
	srv := api.NewServer(repo, api.Options{Version: Version, RateLimiter: limiter})
	if err := srv.Run(ctx, addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func openServerRepo(ctx context.Context, opts *ServeOptions) (store.Repository, error) {
	switch {
	case opts.remoteFlag:
		return nil, fmt.Errorf("serve stores tasks itself and does not accept --remote")
	case opts.Remote != "":
		logger.Warn("ignoring PRIO_REMOTE for serve", "remote", opts.Remote)
	}

	if opts.cfg.DatabaseURL != "" {
		logger.Info("using postgres storage")
		s, err := store.NewPostgresStore(ctx, opts.cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return s, nil
	}
	logger.Info("using sqlite storage", "path", opts.DBPath)
	s, err := opts.openLocal()
	if err != nil {
		return nil, err
	}
	return s, nil
}
