package cli

import (
	"github.com/spf13/cobra"

	"github.com/sruja-ai/sruja-sub008/internal/server"
	"github.com/sruja-ai/sruja-sub008/pkg/buildinfo"
	"github.com/sruja-ai/sruja-sub008/pkg/pipeline"
	"github.com/sruja-ai/sruja-sub008/pkg/session"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		cfg server.Config
		f   cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

Layouts are cached in Redis when --redis (or ` + envRedisAddr + `) is set,
so several instances can share results. Without Redis the server keeps no
layout cache; sessions still reuse text measurements between requests.

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			ch, err := openCache(ctx, f, false)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(ch, nil, logger)
			runner.Version = buildinfo.Short()
			defer runner.Close()

			cfg.Version = buildinfo.Version
			if f.redis != "" && !f.noCache {
				logger.Info("using redis layout cache", "addr", f.redis)
			}
			return server.New(runner, session.NewMemoryStore(), logger, cfg).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().Float64Var(&cfg.RateLimit, "rate", server.DefaultRateLimit, "sustained requests per second")
	cmd.Flags().IntVar(&cfg.Burst, "burst", server.DefaultBurst, "request burst size")
	cmd.Flags().DurationVar(&cfg.SessionTTL, "session-ttl", session.DefaultTTL, "idle time after which a session expires")
	cmd.Flags().Int64Var(&cfg.MaxBodyBytes, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")
	f.register(cmd)

	return cmd
}
