// Package cli implements the groot command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/groot/pkg/buildinfo"
	"github.com/matzehuels/groot/pkg/cache"
	"github.com/matzehuels/groot/pkg/observability"
	"github.com/matzehuels/groot/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "groot"
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
	Config Config

	configFile string // --config flag
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "groot",
		Short: "Groot draws concept trees",
		Long: `Groot loads concept trees from child→parent mappings (YAML, JSON or TOML),
indexes their atoms and levels, and draws them as text art or node-link diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(contextWithLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/groot/config.toml)")

	// Register all subcommands
	root.AddCommand(c.drawCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.subtreeCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, or the default one if
// it exists.
func (c *CLI) loadConfig() error {
	path, required := c.configFile, true
	if path == "" {
		p, err := configPath()
		if err != nil {
			return nil
		}
		path, required = p, false
	}
	cfg, err := loadConfig(path, required)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "path", path)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use, with cache events logged
// at debug level.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	observability.SetTreeHooks(observability.LogHooks{Logger: c.Logger})
	observability.SetCacheHooks(observability.LogHooks{Logger: c.Logger})

	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.TTL, _ = c.Config.cacheTTL()
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.Config.Cache.RedisAddr})
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/groot/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// drawFlags are the text-art flags shared by draw and browse.
type drawFlags struct {
	root    string
	space   int
	marker  string
	noLevel bool
}

func (f *drawFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.root, "root", "r", "", "draw only the subtree below this node")
	cmd.Flags().IntVar(&f.space, "space", 0, "connector width (default from config, 3)")
	cmd.Flags().StringVar(&f.marker, "marker", "", "marker appended to atoms (default from config, ■)")
	cmd.Flags().BoolVar(&f.noLevel, "no-level", false, "omit the level header")
}

// options merges the flags over the config file values.
func (f *drawFlags) options(cfg DrawConfig, path string) pipeline.Options {
	opts := pipeline.Options{
		Path:       path,
		Root:       f.root,
		Space:      cfg.Space,
		AtomMarker: cfg.AtomMarker,
		HideLevel:  !cfg.ShowLevel || f.noLevel,
	}
	if f.space != 0 {
		opts.Space = f.space
	}
	if f.marker != "" {
		opts.AtomMarker = f.marker
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
