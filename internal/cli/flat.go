package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/incgraph/pkg/pipeline"
)

func (c *CLI) flatCommand() *cobra.Command {
	var flags outputFlags

	cmd := &cobra.Command{
		Use:   "flat <input-root> <output-root> [ignore]",
		Short: "Render graphs from .d dependency rules",
		Long: `Render graphs from Makefile-style .d dependency rules.

Compile with -MD or -MMD first. Every .d file under input-root produces a
graph of its target and headers; each directory gets a cluster graph and the
whole tree an overall_dependency_graph. Rules whose path contains [ignore]
are skipped.`,
		Example: `  incgraph flat build graphs
  incgraph flat build graphs build/third_party -f svg,json`,
		Args: usageArgs(cobra.RangeArgs(2, 3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePaths([]string{"input-root", "output-root", "ignore"}, args); err != nil {
				return err
			}
			cfg := c.config()
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			if len(args) == 3 {
				cfg.Ignore = args[2]
			}

			ctx := cmd.Context()
			emitter, release, err := c.newEmitter(ctx, cfg)
			if err != nil {
				return err
			}
			defer release()

			logger := loggerFromContext(ctx)
			prog := newProgress(logger)
			flat := &pipeline.Flat{
				Emitter: emitter,
				Logger:  logger,
				Ignore:  cfg.Ignore,
				Exclude: cfg.Exclude,
			}
			rep, err := flat.Run(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			prog.done("Rendered rule graphs")
			printReport(rep, args[1])
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
