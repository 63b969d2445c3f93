package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	incerrors "github.com/matzehuels/incgraph/pkg/errors"
	"github.com/matzehuels/incgraph/pkg/graph"
	"github.com/matzehuels/incgraph/pkg/render/nodelink"
)

// Graph styles selectable by the render command.
const (
	styleRule  = "rule"
	styleTrace = "trace"
)

func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags  outputFlags
		style  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Render a JSON graph written with --format json",
		Long: `Render a JSON graph dump in other formats.

Graphs written with --format json keep every node and edge; render turns
them into svg, png or dot without re-reading compiler output.`,
		Example: `  incgraph render graphs/overall_dependency_graph.json -f png
  incgraph render deps/src/main.cpp.json --style trace -o main`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePaths([]string{"graph"}, args); err != nil {
				return err
			}
			s, err := styleByName(style)
			if err != nil {
				return err
			}
			cfg := c.config()
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return incerrors.Wrap(incerrors.ErrCodeFileNotFound, err, "open %s", args[0])
			}
			defer f.Close()
			g, err := graph.ReadGraph(f)
			if err != nil {
				return incerrors.Wrap(incerrors.ErrCodeInvalidInput, err, "read %s", args[0])
			}

			ctx := cmd.Context()
			emitter, release, err := c.newEmitter(ctx, cfg)
			if err != nil {
				return err
			}
			defer release()

			base := output
			if base == "" {
				base = strings.TrimSuffix(args[0], ".json")
			}
			written, err := emitter.Emit(ctx, g, s, base)
			for _, p := range written {
				printFile(p)
			}
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&style, "style", styleRule, "graph style: rule or trace")
	_ = cmd.RegisterFlagCompletionFunc("style", cobra.FixedCompletions([]string{styleRule, styleTrace}, cobra.ShellCompDirectiveNoFileComp))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path without extension (default: input without .json)")
	return cmd
}

func styleByName(name string) (nodelink.Style, error) {
	switch name {
	case styleRule:
		return nodelink.RuleStyle, nil
	case styleTrace:
		return nodelink.TraceStyle, nil
	}
	return nodelink.Style{}, incerrors.New(incerrors.ErrCodeInvalidInput, "invalid style: %s (must be 'rule' or 'trace')", name)
}
