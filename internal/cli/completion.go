package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/incgraph/pkg/render/nodelink"
)

// formatNames lists --format values in the order they are offered.
var formatNames = []string{nodelink.FormatSVG, nodelink.FormatPNG, nodelink.FormatDOT, nodelink.FormatJSON}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for incgraph. Besides commands and flags it
completes --format lists and the render --style values.

  bash:        source <(incgraph completion bash)
  zsh:         incgraph completion zsh > "${fpath[1]}/_incgraph"
  fish:        incgraph completion fish > ~/.config/fish/completions/incgraph.fish
  powershell:  incgraph completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  usageArgs(cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs)),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeFormats completes the comma separated --format list, offering
// only formats not already named.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var prefix string
	given := make(map[string]bool)
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
		for _, f := range strings.Split(toComplete[:i], ",") {
			given[strings.TrimSpace(f)] = true
		}
	}

	var out []string
	for _, f := range formatNames {
		if !given[f] {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
