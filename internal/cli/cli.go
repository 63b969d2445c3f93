// Package cli implements the incgraph command-line interface.
//
// # Commands
//
//   - flat: graphs from Makefile-style .d rules (per file, per directory, overall)
//   - tree: compile with -H and render header inclusion trees
//   - tree render: render existing .dep traces without compiling
//   - render: re-render a JSON graph dump in other formats
//   - cache: manage the rendered artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels in the command's context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/incgraph/internal/config"
	"github.com/matzehuels/incgraph/pkg/buildinfo"
	"github.com/matzehuels/incgraph/pkg/cache"
	incerrors "github.com/matzehuels/incgraph/pkg/errors"
	"github.com/matzehuels/incgraph/pkg/render/nodelink"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "incgraph"

	// defaultTreeOutput is where tree writes traces when no output root is given.
	defaultTreeOutput = "dependency_tree"
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

	configPath string
	noCache    bool
	cfg        *config.Config
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
		Use:   appName,
		Short: "incgraph draws C/C++ header dependency graphs",
		Long: `incgraph rebuilds header dependency graphs from compiler output and renders them.

It reads either Makefile-style .d rules written by -MD/-MMD, or the include
trees printed by -H for every command in compile_commands.json.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the rendered artifact cache")

	root.AddCommand(c.flatCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command
// context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// config returns the loaded configuration, or the defaults before setup ran.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Emitter Factory
// =============================================================================

// newEmitter creates an emitter for cfg.Formats. Graphviz is only started
// when a raster or vector format needs it. The returned func releases the
// renderer and the cache.
func (c *CLI) newEmitter(ctx context.Context, cfg *config.Config) (*nodelink.Emitter, func(), error) {
	ch, err := c.newCache(cfg)
	if err != nil {
		return nil, nil, err
	}
	if nc, ok := ch.(cache.NullCache); ok {
		c.Logger.Debug("artifact cache disabled", "reason", nc.Reason)
	}
	closers := []func() error{ch.Close}

	var r nodelink.Renderer
	if needsGraphviz(cfg.Formats) {
		gv, err := nodelink.NewGraphviz(ctx)
		if err != nil {
			_ = ch.Close()
			return nil, nil, incerrors.Wrap(incerrors.ErrCodeRender, err, "start renderer")
		}
		r = gv
		closers = append(closers, gv.Close)
	}

	release := func() {
		for _, fn := range closers {
			_ = fn()
		}
	}
	return nodelink.NewEmitter(r, ch, cfg.Formats, c.Logger), release, nil
}

func needsGraphviz(formats []string) bool {
	return slices.Contains(formats, nodelink.FormatSVG) || slices.Contains(formats, nodelink.FormatPNG)
}

// newCache opens the artifact cache, or a [cache.NullCache] saying why
// caching is off.
func (c *CLI) newCache(cfg *config.Config) (cache.Cache, error) {
	switch {
	case c.noCache:
		return cache.Disabled("--no-cache"), nil
	case !cfg.CacheEnabled():
		return cache.Disabled("cache = false"), nil
	}
	dir := cfg.CacheDir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.Disabled("no cache directory: " + err.Error()), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/incgraph/).
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
// Flag Helpers
// =============================================================================

// outputFlags are shared by every command that writes graphs. They override
// the configuration file only when given.
type outputFlags struct {
	formats string
	exclude []string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output formats, comma separated: svg, png, dot, json")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "directory name globs to skip while scanning")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
}

func (f *outputFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("format") {
		cfg.Formats = parseFormats(f.formats)
	}
	if cmd.Flags().Changed("exclude") {
		cfg.Exclude = f.exclude
	}
	return config.Validate(cfg)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []string{nodelink.FormatSVG}
	}
	return out
}

// usageArgs wraps a positional argument validator so a bad invocation
// prints the command's usage before the error.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			_ = cmd.Usage()
			return err
		}
		return nil
	}
}

func validatePaths(names []string, args []string) error {
	for i, a := range args {
		if err := incerrors.ValidatePathArg(names[i], a); err != nil {
			return err
		}
	}
	return nil
}
