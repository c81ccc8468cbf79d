// Package cli implements the sidediff command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sidediff/pkg/buildinfo"
	"github.com/matzehuels/sidediff/pkg/cache"
	"github.com/matzehuels/sidediff/pkg/clipboard"
	"github.com/matzehuels/sidediff/pkg/observability"
	"github.com/matzehuels/sidediff/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "sidediff"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Clipboard receives --copy and the viewer's copy key.
	Clipboard clipboard.Writer

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:    newLogger(w, level),
		Clipboard: clipboard.System{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Sidediff compares two texts side by side",
		Long: `Sidediff compares two texts at character or word granularity and shows
the result as two aligned panes: removals highlighted on the left, additions
on the right.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/sidediff/config.toml)")

	// Register all subcommands
	root.AddCommand(c.diffCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig loads the file named by --config, or the default location.
// Only an explicitly named file must exist.
func (c *CLI) loadConfig() (Config, error) {
	if c.configPath != "" {
		return loadConfig(c.configPath, true)
	}
	path, err := configPath()
	if err != nil {
		cfg := Config{}
		cfg.SetDefaults()
		return cfg, nil
	}
	return loadConfig(path, os.Getenv(configEnv) != "")
}

// instrument routes pipeline, cache and HTTP events to the CLI logger.
func (c *CLI) instrument() {
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Caching only speeds up
// repeated comparisons, so an unreachable backend degrades to no cache.
func (c *CLI) newRunner(ctx context.Context, cfg Config, noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(ctx, cfg, noCache), cfg.keyer(), c.Logger)
}

func (c *CLI) newCache(ctx context.Context, cfg Config, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	cc, err := cache.Open(ctx, cfg.cacheOptions())
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", cfg.Cache.Backend, "error", err)
		return cache.NewNullCache()
	}
	return cc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/sidediff/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
