package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kintree/kintree/pkg/buildinfo"
	"github.com/kintree/kintree/pkg/cache"
	"github.com/kintree/kintree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "kintree"
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

	// status receives transient progress output such as spinners.
	status io.Writer

	// Persistent flags
	configPath string
	noCache    bool
	redisAddr  string

	// config is loaded in the root PersistentPreRunE.
	config Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		status: w,
		config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Kintree names and arranges the people in a family tree",
		Long:         `Kintree reads a family document (people plus parent and spouse relations), labels every person relative to a reference person ("Great-Aunt", "2nd Cousin 1x Removed") and computes a generation-row layout for drawing the tree.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/kintree/config.toml)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable caching")
	flags.StringVar(&c.redisAddr, "redis", "", "cache in Redis at this address instead of on disk")

	// Register all subcommands
	root.AddCommand(c.initCommand())
	root.AddCommand(c.relateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.connectCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and lets explicit flags win over it.
func (c *CLI) loadConfig() error {
	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.redisAddr == "" {
		c.redisAddr = cfg.Cache.Redis
	}
	c.config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, c.keyer(), c.Logger), nil
}

// keyer scopes cache keys by the configured prefix when results go to a
// shared Redis. Local caches use plain keys.
func (c *CLI) keyer() cache.Keyer {
	if c.noCache || c.redisAddr == "" || c.config.Cache.RedisPrefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.config.Cache.RedisPrefix)
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	switch {
	case c.noCache:
		return cache.NewNullCache(), nil
	case c.redisAddr != "":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.redisAddr})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		c.Logger.Debug("using redis cache", "addr", c.redisAddr)
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/kintree/).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// engineFlags are the flags shared by every command that runs an engine.
type engineFlags struct {
	root        string
	siblingGap  float64
	levelHeight float64
	refresh     bool
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.root, "root", "r", "", "reference person id (default: the document's root)")
	cmd.Flags().Float64Var(&f.siblingGap, "gap", 0, "horizontal gap between neighbours (default: config or 200)")
	cmd.Flags().Float64Var(&f.levelHeight, "level-height", 0, "vertical distance between generations (default: config or 200)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	_ = cmd.RegisterFlagCompletionFunc("root", completePersonIDs)
}

// options builds pipeline options from flags, falling back to the config
// file for spacing.
func (c *CLI) options(f engineFlags) pipeline.Options {
	opts := pipeline.Options{
		RootID:      f.root,
		SiblingGap:  f.siblingGap,
		LevelHeight: f.levelHeight,
		Refresh:     f.refresh,
		Logger:      c.Logger,
	}
	if opts.SiblingGap == 0 {
		opts.SiblingGap = c.config.Layout.SiblingGap
	}
	if opts.LevelHeight == 0 {
		opts.LevelHeight = c.config.Layout.LevelHeight
	}
	return opts
}
