package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swapmapper/pkg/buildinfo"
	"github.com/matzehuels/swapmapper/pkg/cache"
	"github.com/matzehuels/swapmapper/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "swapmapper"

	// stdinArg names standard input in place of a circuit file.
	stdinArg = "-"
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

	// configPath is set by the persistent --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Swapmapper routes quantum circuits onto device coupling graphs",
		Long:         `Swapmapper inserts swap gates into OpenQASM 2.0 circuits so that every two-qubit gate acts on physical qubits that are connected on the target device.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML config file (router, coupling, layout, cache, server)")

	root.AddCommand(c.routeCommand())
	root.AddCommand(c.layersCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.couplingCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

// loadConfig reads the --config file, or returns the zero config when the
// flag is unset.
func (c *CLI) loadConfig() (pipeline.Config, error) {
	if c.configPath == "" {
		return pipeline.Config{}, nil
	}
	cfg, err := pipeline.LoadConfig(c.configPath)
	if err != nil {
		return pipeline.Config{}, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath)
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg pipeline.Config, noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, cfg.Cache.Keyer(), c.Logger), nil
}

func newCache(ctx context.Context, cfg pipeline.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		dir = ""
	}
	return pipeline.OpenCache(ctx, cfg, dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/swapmapper/).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}
