// Package cli implements the sruja-layout command-line interface.
//
// # Commands
//
//   - layout: lay out a diagram document and write the layout as JSON
//   - presets: list the layout presets and their spacing
//   - serve: run the HTTP API
//   - cache: inspect or clear the layout cache
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every layout, cache and HTTP hook event. The logger travels through
// the command context.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sruja-ai/sruja-sub008/pkg/buildinfo"
	"github.com/sruja-ai/sruja-sub008/pkg/cache"
	"github.com/sruja-ai/sruja-sub008/pkg/observability"
	"github.com/sruja-ai/sruja-sub008/pkg/pipeline"
)

const appName = "sruja-layout"

// envRedisAddr names the Redis server used as the shared layout cache.
const envRedisAddr = "SRUJA_REDIS_ADDR"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with every subcommand registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           appName,
		Short:         "sruja-layout computes layouts for C4 architecture diagrams",
		Long:          `sruja-layout positions the elements of hierarchical C4 diagrams (systems, containers, components, people) so that parents enclose their children, siblings never overlap and relationships flow in one direction.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
				observability.LogHooks{Logger: c.Logger}.Install()
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	return root
}

// Execute runs the root command with ctx.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	if args != nil {
		root.SetArgs(args)
	}
	return root.ExecuteContext(ctx)
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags select the layout cache of a command.
type cacheFlags struct {
	noCache bool
	redis   string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().StringVar(&f.redis, "redis", os.Getenv(envRedisAddr), "Redis address for a shared layout cache (env "+envRedisAddr+")")
}

// newRunner creates a pipeline runner backed by the cache the flags select:
// none, Redis when an address is given, the file cache otherwise.
func (c *CLI) newRunner(ctx context.Context, f cacheFlags) (*pipeline.Runner, error) {
	ch, err := openCache(ctx, f, true)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, loggerFromContext(ctx))
	r.Version = buildinfo.Short()
	return r, nil
}

// openCache opens the selected cache. Without Redis, the file cache is used
// only when fileFallback is set.
func openCache(ctx context.Context, f cacheFlags, fileFallback bool) (cache.Cache, error) {
	switch {
	case f.noCache:
		return cache.NewNullCache(), nil
	case f.redis != "":
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: f.redis})
	case !fileFallback:
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		loggerFromContext(ctx).Warn("layout cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the file cache directory ($XDG_CACHE_HOME/sruja-layout).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}
