package cli

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/incgraph/internal/config"
	"github.com/matzehuels/incgraph/pkg/compdb"
	"github.com/matzehuels/incgraph/pkg/observability"
	"github.com/matzehuels/incgraph/pkg/pipeline"
)

type treeFlags struct {
	outputFlags
	workers int
	timeout time.Duration
}

func (f *treeFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("workers") {
		cfg.Workers = f.workers
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = f.timeout
	}
	return f.outputFlags.apply(cmd, cfg)
}

func (c *CLI) treeCommand() *cobra.Command {
	var flags treeFlags

	cmd := &cobra.Command{
		Use:   "tree <project-root> <build-root> [output-root]",
		Short: "Compile with -H and render header inclusion trees",
		Long: `Compile every entry of build-root/compile_commands.json with -H and render
the include tree of each source file.

Configure CMake with -DCMAKE_EXPORT_COMPILE_COMMANDS=ON first. Traces are
written to output-root (default ./` + defaultTreeOutput + `) mirroring the
layout of project-root, each next to its rendered graph.`,
		Example: `  incgraph tree . build
  incgraph tree . build include_trees -j 8 --timeout 5m`,
		Args: usageArgs(cobra.RangeArgs(2, 3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePaths([]string{"project-root", "build-root", "output-root"}, args); err != nil {
				return err
			}
			cfg := c.config()
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			out := defaultTreeOutput
			if len(args) == 3 {
				out = args[2]
			}
			return c.runTree(cmd.Context(), cfg, args[0], args[1], out)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&flags.workers, "workers", "j", 0, "concurrent compiler invocations (default: number of CPUs)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", config.DefaultTimeout, "timeout per compiler invocation")

	cmd.AddCommand(c.treeRenderCommand())
	return cmd
}

func (c *CLI) treeRenderCommand() *cobra.Command {
	var flags outputFlags

	cmd := &cobra.Command{
		Use:   "render <output-root>",
		Short: "Render existing .dep traces without compiling",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePaths([]string{"output-root"}, args); err != nil {
				return err
			}
			cfg := c.config()
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			return c.renderTraces(cmd.Context(), cfg, args[0])
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runTree(ctx context.Context, cfg *config.Config, projectRoot, buildDir, out string) error {
	logger := loggerFromContext(ctx)

	entries, err := compdb.Load(buildDir)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Compiling %d sources...", len(entries)))
	observability.SetCompileHooks(&compileProgress{spinner: spinner, total: len(entries)})
	defer observability.SetCompileHooks(observability.NoopCompileHooks{})

	tree := &pipeline.Tree{
		Dispatcher: compdb.NewDispatcher(cfg.Workers, cfg.Timeout, logger),
		Logger:     logger,
	}
	spinner.Start()
	rep, err := tree.Generate(ctx, projectRoot, buildDir, out)
	if err != nil {
		if spinner.Cancelled() {
			spinner.StopWithError(fmt.Sprintf("Compilation interrupted after %d sources", rep.Files))
		} else {
			spinner.StopWithError("Compilation failed")
		}
		return err
	}
	if rep.Failed > 0 {
		spinner.Stop()
		printWarning("%d of %d compiler invocations failed; their traces may be partial", rep.Failed, rep.Files+rep.Failed)
	} else {
		spinner.StopWithSuccess(fmt.Sprintf("Compiled %d sources", rep.Files))
	}
	rep.Log(logger, "compile finished")

	return c.renderTraces(ctx, cfg, out)
}

func (c *CLI) renderTraces(ctx context.Context, cfg *config.Config, out string) error {
	emitter, release, err := c.newEmitter(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	tree := &pipeline.Tree{Emitter: emitter, Logger: logger, Exclude: cfg.Exclude}
	rep, err := tree.Run(ctx, out)
	if err != nil {
		return err
	}
	prog.done("Rendered include trees")
	printReport(rep, out)
	return nil
}

// compileProgress updates the spinner as compiler invocations finish.
type compileProgress struct {
	spinner *Spinner
	total   int
	done    atomic.Int64
}

func (p *compileProgress) OnCompile(context.Context, string, time.Duration, error) {
	n := p.done.Add(1)
	p.spinner.SetMessage(fmt.Sprintf("Compiling %d/%d sources...", n, p.total))
}
