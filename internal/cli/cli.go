// Package cli implements the evdash command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/evdash/pkg/buildinfo"
	"github.com/matzehuels/evdash/pkg/cache"
	"github.com/matzehuels/evdash/pkg/config"
	"github.com/matzehuels/evdash/pkg/httputil"
	"github.com/matzehuels/evdash/pkg/stations"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "evdash"

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

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the configuration loaded before the running command.
func (c *CLI) Config() *config.Config { return c.cfg }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "evdash serves and renders an EV charging-station dashboard",
		Long:         `evdash hosts an interactive dashboard of EV charging stations with charger-type filters, a charger distribution chart and a collapsible vehicle model tree. The same views can be rendered offline or browsed in the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return c.loadConfig(cmd.Context())
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml or .yaml)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.stationsCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// loadConfig reads the config file and environment and registers the
// logger-backed observability hooks.
func (c *CLI) loadConfig(ctx context.Context) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if c.Logger.GetLevel() > log.DebugLevel {
		if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.SetLogLevel(lvl)
		}
	}
	registerHooks(c.Logger)
	return nil
}

// =============================================================================
// Cache & Loader Factory
// =============================================================================

// openCache opens the configured cache backend. Failing to open it is not
// fatal; the CLI falls back to no caching.
func (c *CLI) openCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir := c.cfg.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache()
		}
		dir = d
	}
	store, err := cache.Open(ctx, cache.Options{
		Backend:  c.cfg.Cache.Backend,
		Dir:      dir,
		RedisURL: c.cfg.Cache.RedisURL,
	})
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", c.cfg.Cache.Backend, "err", err)
		return cache.NewNullCache()
	}
	return store
}

// newLoader returns a station loader whose remote fetches go through store.
func (c *CLI) newLoader(store cache.Cache) *stations.Loader {
	jc := httputil.NewJSONCache(store, c.cfg.Cache.TTL)
	client := httputil.NewClient(jc, map[string]string{"User-Agent": buildinfo.UserAgent()})
	return stations.NewLoader(client)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/evdash/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	return cache.DefaultDir()
}
